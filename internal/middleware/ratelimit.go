package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/httprate"
)

// RateLimit creates rate limiting middleware keyed by tenant, falling back to
// the client IP for unauthenticated requests.
func RateLimit(requestLimit int, windowLength time.Duration) func(http.Handler) http.Handler {
	retryAfter := int(windowLength.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	body := fmt.Sprintf(`{"error":"rate limit exceeded","retry_after":%d}`, retryAfter)

	return httprate.Limit(
		requestLimit,
		windowLength,
		httprate.WithKeyFuncs(func(r *http.Request) (string, error) {
			if tenantID := GetTenantID(r.Context()); tenantID != "" {
				return "tenant:" + tenantID, nil
			}
			return httprate.KeyByIP(r)
		}),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(body))
		}),
	)
}
