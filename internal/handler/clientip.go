package handler

import (
	"net/http"
	"strings"
)

// UnknownClient is the shared bucket for requests whose origin cannot
// be identified from proxy headers.
const UnknownClient = "unknown"

// ClientAddr derives the client address from CDN/proxy headers, first
// non-empty wins: X-Forwarded-For (leftmost hop), X-Real-IP, then
// CF-Connecting-IP. Unidentifiable clients all share one rate-limit
// bucket.
func ClientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if addr := strings.TrimSpace(first); addr != "" {
			return addr
		}
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		return realIP
	}

	if cfIP := strings.TrimSpace(r.Header.Get("CF-Connecting-IP")); cfIP != "" {
		return cfIP
	}

	return UnknownClient
}
