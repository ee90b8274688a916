// Package api implements the scrapnote HTTP API using chi.
package api

import (
	"net"
	"net/http"
)

// LoopbackOnly returns middleware that refuses requests from non-loopback
// peers. If enabled is false, all requests pass through.
func LoopbackOnly(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled || isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			writeError(w, http.StatusForbidden, "loopback only")
		})
	}
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}
