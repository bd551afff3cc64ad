package transport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestOptionsRoute tests route selection.
func TestOptionsRoute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want Route
	}{
		{name: "direct", opts: Options{}, want: RouteDirect},
		{name: "proxy", opts: Options{ProxyAddress: "127.0.0.1:9050"}, want: RouteProxy},
		{name: "tor", opts: Options{UseTor: true}, want: RouteTor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.opts.Route(); got != tt.want {
				t.Errorf("Route() = %s, want %s", got, tt.want)
			}
		})
	}
}

// TestOpen tests opening the routes that need no Tor daemon.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("direct", func(t *testing.T) {
		t.Parallel()

		s, err := Open(context.Background(), Options{Timeout: 7 * time.Second, Logger: discardLogger()})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer s.Close()

		if s.Route() != RouteDirect {
			t.Errorf("Route() = %s, want direct", s.Route())
		}
		if s.HTTPClient().Timeout != 7*time.Second {
			t.Errorf("expected timeout 7s, got %v", s.HTTPClient().Timeout)
		}
	})

	t.Run("verified proxy", func(t *testing.T) {
		t.Parallel()

		addr := startMockProxy(t, func(conn net.Conn) {
			socks5Handshake(conn)
			_, _ = conn.Write([]byte{0x05, 0x00, 0x00, 0x01, 0, 0, 0, 0, 0, 0})
		})

		s, err := Open(context.Background(), Options{ProxyAddress: addr, Timeout: time.Second, Logger: discardLogger()})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		if s.Route() != RouteProxy || s.HTTPClient() == nil {
			t.Errorf("unexpected session %+v", s)
		}
		if err := s.Close(); err != nil {
			t.Errorf("Close() error = %v", err)
		}
	})

	t.Run("unreachable proxy", func(t *testing.T) {
		t.Parallel()

		_, err := Open(context.Background(), Options{ProxyAddress: "127.0.0.1:59996", Timeout: time.Second, Logger: discardLogger()})
		if !errors.Is(err, ErrProxyCannotConnect) {
			t.Errorf("expected ErrProxyCannotConnect, got %v", err)
		}
	})

	t.Run("invalid proxy address", func(t *testing.T) {
		t.Parallel()

		_, err := Open(context.Background(), Options{ProxyAddress: "not-an-address", Logger: discardLogger()})
		if !errors.Is(err, ErrInvalidProxyAddress) {
			t.Errorf("expected ErrInvalidProxyAddress, got %v", err)
		}
	})

	t.Run("proxy and tor conflict", func(t *testing.T) {
		t.Parallel()

		_, err := Open(context.Background(), Options{ProxyAddress: "127.0.0.1:9050", UseTor: true})
		if !errors.Is(err, ErrConflictingRoutes) {
			t.Errorf("expected ErrConflictingRoutes, got %v", err)
		}
	})
}
