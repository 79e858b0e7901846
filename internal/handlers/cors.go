package handlers

import (
	"net/http"

	"github.com/ECdison6227/flashcraft/internal/config"
)

// CORSMiddleware decorates API responses with cross-origin headers and
// short-circuits preflight requests with 204 and no body.
func CORSMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", corsOrigin(cfg.AllowedOrigins, r.Header.Get("Origin")))
			h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// corsOrigin reflects the caller's origin only when the allow-list contains
// it; otherwise the first allow-listed origin wins, or the wildcard when no
// allow-list is configured at all.
func corsOrigin(allowed []string, origin string) string {
	if len(allowed) == 0 {
		return "*"
	}
	for _, o := range allowed {
		if o == origin {
			return origin
		}
	}
	return allowed[0]
}
