package middleware

import (
	"crypto/subtle"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// AuthMiddlewareHandler guards mutating and analytics endpoints with the
// client app token. A handful of paths stay open (health, version, metrics
// preflight).
type AuthMiddlewareHandler struct {
	appToken     string
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(appToken string) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		appToken: appToken,
		allowedPaths: map[string]bool{
			"/":        true,
			"/version": true,
			"/health":  true,
		},
	}
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// options request are used for preflight requests
			if r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			if h.allowedPaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get("X-LIFTSTATS-TOKEN")
			if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(h.appToken)) != 1 {
				log.Tracef("unauthorized request for path: %s", r.URL.Path)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
