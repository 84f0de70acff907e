package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ExtractIP returns the client IP address from the request.
// It checks X-Forwarded-For first (taking the first IP if comma-separated),
// then falls back to X-Real-IP, and finally to RemoteAddr.
//
// The proxy headers are trusted as-is; run the panel behind a reverse proxy
// that sets them, or clients can pick their own rate-limit bucket.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
