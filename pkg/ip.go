package pkg

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP is the address a request came from, preferring the headers set
// by a reverse proxy. The port, if any, is dropped.
func ClientIP(r *http.Request) string {
	addr := r.Header.Get("X-Real-Ip")
	if addr == "" {
		// first hop is the client, the rest are proxies
		addr, _, _ = strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = r.RemoteAddr
	}

	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return addr
}
