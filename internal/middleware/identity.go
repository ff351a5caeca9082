// File: internal/middleware/identity.go
package middleware

import (
	"context"
	"net/http"
	"strconv"
)

// RequireUser resolves the caller's user ID from the X-User-ID header set
// by the upstream auth proxy and stores it on the request context.
// Requests without a valid ID are rejected.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("X-User-ID")
		userID, err := strconv.ParseUint(raw, 10, 32)
		if err != nil || userID == 0 {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), UserIDKey, uint(userID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID reads the authenticated user ID from the request context.
func UserID(r *http.Request) (uint, bool) {
	userID, ok := r.Context().Value(UserIDKey).(uint)
	return userID, ok
}
