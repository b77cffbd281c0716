package api

import (
	"encoding/json"
	"net/http"

	domainerrors "github.com/streamlens/streamlens-server/internal/errors"
	"github.com/streamlens/streamlens-server/internal/logger"
	"github.com/streamlens/streamlens-server/internal/metrics"
	"github.com/streamlens/streamlens-server/internal/ratelimit"
)

// RateLimitMiddleware creates a middleware that rate limits requests by
// client IP. Returns 429 Too Many Requests when the bucket is empty, before
// any dataset work happens.
func RateLimitMiddleware(limiter *ratelimit.KeyedLimiter, m *metrics.Metrics, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := getClientIP(r)

			if !limiter.Allow(key) {
				m.RateLimitedTotal.Inc()
				log.Warn("Rate limit exceeded",
					"ip", key,
					"path", r.URL.Path,
				)
				writeRateLimited(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// writeRateLimited writes the 429 envelope. The middleware sits outside
// huma, so the envelope is assembled by hand here.
func writeRateLimited(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(errorEnvelope{
		V:       envelopeVersion,
		Code:    string(domainerrors.CodeRateLimited),
		Message: "Too many requests. Please try again later.",
	})
}

// getClientIP extracts the client IP from the request.
// Checks X-Forwarded-For and X-Real-IP headers before falling back to RemoteAddr.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For (may contain multiple IPs, first is client).
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for i := 0; i < len(xff); i++ {
			if xff[i] == ',' {
				return xff[:i]
			}
		}
		return xff
	}

	// Check X-Real-IP.
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// Fall back to RemoteAddr (strip port).
	ip := r.RemoteAddr
	for i := len(ip) - 1; i >= 0; i-- {
		if ip[i] == ':' {
			return ip[:i]
		}
	}
	return ip
}
