package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/zarinagems/storefront-api/internal/ratelimit"
)

// ClientIP derives the client identity for rate limiting: the first
// address in X-Forwarded-For, then X-Real-IP, then "unknown". All
// clients without forwarding headers share the "unknown" bucket.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first := fwd
		if i := strings.Index(fwd, ","); i >= 0 {
			first = fwd[:i]
		}
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}

	return "unknown"
}

// RateLimit applies the given limiter keyed by client IP before any
// other processing. Denied requests get a 429 without internal counter
// detail; a failing limiter store logs and lets the request through
// rather than taking the endpoint down.
func RateLimit(limiter *ratelimit.Limiter, log *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, err := limiter.Allow(r.Context(), ClientIP(r))
			if err != nil {
				log.Error("rate limit store failure", "error", err)
				allowed = true
			}

			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				resp := map[string]string{
					"error": "Too many requests, please try again later",
					"code":  "RATE_LIMITED",
				}
				if err := json.NewEncoder(w).Encode(resp); err != nil {
					log.Error("failed to encode rate limit response", "error", err)
				}
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
