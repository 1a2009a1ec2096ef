package daemon

import (
	"net/http"
	"strings"
)

// authMiddleware validates bearer tokens. The token is read per request so a
// config update takes effect without a restart; an empty token disables
// authentication.
func authMiddleware(token func() string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		expected := token()
		if expected != "" {
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") != expected {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
		}
		next(w, r)
	}
}
