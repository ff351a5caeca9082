// File: internal/middleware/ratelimit.go
package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/haarwerk/haarwerk/internal/ratelimit"
)

// RateLimitMiddleware enforces the per-identity fixed window on a route.
func RateLimitMiddleware(limiter *ratelimit.MemoryStore, name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := ratelimit.ClientIdentity(r)

			if !limiter.Allow(identity) {
				retryAfter := limiter.RetryAfter(identity)
				log.Printf("[RateLimit] Blocked %s request from %s", name, identity)

				if retryAfter > 0 {
					w.Header().Set("Retry-After", fmt.Sprintf("%.0f", retryAfter.Seconds()))
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"error":      "Zu viele Nachrichten. Bitte warte einen Moment.",
					"retryAfter": int(retryAfter.Seconds()),
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
