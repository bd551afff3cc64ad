// Package transport builds the HTTP client that carries API traffic.
//
// Three routes are supported:
//   - direct: a plain client with a per-request timeout
//   - proxy: through an existing SOCKS5 proxy such as a local Tor daemon
//   - tor: through an embedded Tor daemon started with tornago
//
// Open picks the route from Options and returns a Session whose Close stops
// anything the route started.
package transport
