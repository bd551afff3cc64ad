package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Route names how API traffic leaves the process.
type Route string

// Supported routes.
const (
	RouteDirect Route = "direct"
	RouteProxy  Route = "proxy"
	RouteTor    Route = "tor"
)

// Options selects and configures a route.
type Options struct {
	// ProxyAddress routes traffic through this SOCKS5 proxy.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon.
	UseTor bool

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// TorStartupTimeout bounds the embedded daemon's bootstrap.
	TorStartupTimeout time.Duration

	// Logger receives progress messages. Defaults to slog.Default().
	Logger *slog.Logger
}

// Route returns the route these options select.
func (o Options) Route() Route {
	switch {
	case o.UseTor:
		return RouteTor
	case o.ProxyAddress != "":
		return RouteProxy
	default:
		return RouteDirect
	}
}

// Session is an opened route.
type Session struct {
	route  Route
	client *http.Client
	tor    *EmbeddedTor
	logger *slog.Logger
}

// Open prepares the route selected by opts. Proxy routes are verified with a
// SOCKS5 handshake before Open returns.
func Open(ctx context.Context, opts Options) (*Session, error) {
	if opts.UseTor && opts.ProxyAddress != "" {
		return nil, ErrConflictingRoutes
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{route: opts.Route(), logger: logger}

	switch s.route {
	case RouteDirect:
		s.client = NewDirectClient(opts.Timeout)

	case RouteProxy:
		pc, err := NewProxyClient(opts.ProxyAddress, opts.Timeout)
		if err != nil {
			return nil, err
		}
		if status := pc.CheckConnection(ctx); status != ProxyStatusOK {
			return nil, fmt.Errorf("proxy check failed for %s: %w", opts.ProxyAddress, status.Err())
		}
		logger.Info("proxy connection verified", "address", opts.ProxyAddress)
		s.client = pc.HTTPClient()

	case RouteTor:
		startupTimeout := opts.TorStartupTimeout
		if startupTimeout <= 0 {
			startupTimeout = DefaultTorStartupTimeout
		}
		tor := NewEmbeddedTor(WithStartupTimeout(startupTimeout))
		if err := tor.Start(ctx); err != nil {
			return nil, err
		}
		logger.Info("embedded Tor daemon started",
			"socksAddr", tor.SocksAddr(),
			"controlAddr", tor.ControlAddr(),
		)

		pc, err := tor.NewProxyClient(opts.Timeout)
		if err != nil {
			_ = tor.Stop() //nolint:errcheck // Best effort cleanup
			return nil, err
		}
		if status := pc.CheckConnection(ctx); status != ProxyStatusOK {
			_ = tor.Stop() //nolint:errcheck // Best effort cleanup
			return nil, fmt.Errorf("embedded Tor proxy check failed: %w", status.Err())
		}
		s.tor = tor
		s.client = pc.HTTPClient()
	}

	return s, nil
}

// Route returns the route of the session.
func (s *Session) Route() Route {
	return s.route
}

// HTTPClient returns the client to hand to the API client.
func (s *Session) HTTPClient() *http.Client {
	return s.client
}

// Close stops the embedded Tor daemon, if the session started one.
func (s *Session) Close() error {
	if s.tor == nil {
		return nil
	}
	s.logger.Info("stopping embedded Tor daemon")
	err := s.tor.Stop()
	s.tor = nil
	return err
}
