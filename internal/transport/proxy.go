package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/net/proxy"
)

// checkProxyTimeout bounds the SOCKS5 handshake in CheckConnection.
const checkProxyTimeout = 2 * time.Second

// SOCKS5 protocol constants.
const (
	socks5Version       = 0x05
	socks5AuthNone      = 0x00
	socks5AuthNoAccept  = 0xFF
	socks5CmdConnect    = 0x01
	socks5AddrTypeDomID = 0x03

	// checkHost is the CONNECT target used to verify the proxy. Only the
	// proxy's reply matters, not whether the connection succeeds.
	checkHost = "www.googleapis.com"
	checkPort = 443
)

// ProxyClient routes HTTP traffic through a SOCKS5 proxy.
type ProxyClient struct {
	proxyAddress string
	dialer       proxy.Dialer
	timeout      time.Duration
}

// NewProxyClient creates a ProxyClient for the SOCKS5 proxy at proxyAddress
// ("host:port"). timeout bounds each HTTP request.
//
// The proxy is not contacted here; call CheckConnection to verify it.
func NewProxyClient(proxyAddress string, timeout time.Duration) (*ProxyClient, error) {
	if !isValidProxyAddress(proxyAddress) {
		return nil, ErrInvalidProxyAddress
	}

	dialer, err := proxy.SOCKS5("tcp", proxyAddress, nil, proxy.Direct)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	return &ProxyClient{
		proxyAddress: proxyAddress,
		dialer:       dialer,
		timeout:      timeout,
	}, nil
}

// isValidProxyAddress checks for "host:port" with a port in 1..65535.
func isValidProxyAddress(address string) bool {
	host, port, err := net.SplitHostPort(address)
	if err != nil || host == "" {
		return false
	}
	n, err := strconv.Atoi(port)
	return err == nil && n >= 1 && n <= 65535
}

// CheckConnection verifies that the proxy speaks SOCKS5 without
// authentication and answers a CONNECT request.
func (c *ProxyClient) CheckConnection(ctx context.Context) ProxyStatus {
	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", c.proxyAddress)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ProxyStatusTimeout
		}
		return ProxyStatusCannotConnect
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return ProxyStatusCannotConnect
	}

	// Greeting: version, one method, no authentication.
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return ProxyStatusCannotConnect
	}

	authResp := make([]byte, 2)
	if _, err := io.ReadFull(conn, authResp); err != nil {
		if isTimeout(err) {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}
	if authResp[0] != socks5Version || authResp[1] == socks5AuthNoAccept || authResp[1] != socks5AuthNone {
		return ProxyStatusWrongType
	}

	connectReq := []byte{
		socks5Version,
		socks5CmdConnect,
		0x00,
		socks5AddrTypeDomID,
		byte(len(checkHost)),
	}
	connectReq = append(connectReq, checkHost...)
	connectReq = append(connectReq, byte(checkPort>>8), byte(checkPort&0xFF))

	if _, err := conn.Write(connectReq); err != nil {
		return ProxyStatusCannotConnect
	}

	// Any reply code counts: the proxy processed the request.
	connectResp := make([]byte, 4)
	if _, err := io.ReadFull(conn, connectResp); err != nil {
		if isTimeout(err) {
			return ProxyStatusTimeout
		}
		return ProxyStatusWrongType
	}
	if connectResp[0] != socks5Version {
		return ProxyStatusWrongType
	}

	return ProxyStatusOK
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// DialContext opens a connection through the proxy.
func (c *ProxyClient) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	if cd, ok := c.dialer.(proxy.ContextDialer); ok {
		return cd.DialContext(ctx, network, address)
	}

	type dialResult struct {
		conn net.Conn
		err  error
	}
	resultCh := make(chan dialResult, 1)
	go func() {
		conn, err := c.dialer.Dial(network, address)
		resultCh <- dialResult{conn, err}
	}()

	select {
	case result := <-resultCh:
		return result.conn, result.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// HTTPClient returns an HTTP client whose connections go through the proxy.
func (c *ProxyClient) HTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         c.DialContext,
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 2,
			IdleConnTimeout:     30 * time.Second,
			TLSHandshakeTimeout: 10 * time.Second,
		},
		Timeout: c.timeout,
	}
}

// ProxyAddress returns the configured proxy address.
func (c *ProxyClient) ProxyAddress() string {
	return c.proxyAddress
}

// NewDirectClient returns an HTTP client without a proxy.
func NewDirectClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}
