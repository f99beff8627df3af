package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/rs/cors"
)

// CSRFHeader carries the token in both directions.
const CSRFHeader = "X-CSRF-Token"

// CORS allows the browser shell's origins to call the API with cookies.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Origin", CSRFHeader},
		ExposedHeaders:   []string{CSRFHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})
	return c.Handler
}

// CSRF protects unsafe methods with a double-submit token. Safe requests get the current token
// in the X-CSRF-Token response header. An empty key disables the check.
func CSRF(key []byte, secure bool, trustedOrigins []string) func(http.Handler) http.Handler {
	if len(key) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	protect := csrf.Protect(key,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.HttpOnly(true),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.RequestHeader(CSRFHeader),
		csrf.TrustedOrigins(trustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			msg := "invalid csrf token"
			if reason := csrf.FailureReason(r); reason != nil {
				msg += ": " + reason.Error()
			}
			writeError(w, http.StatusForbidden, "auth", msg)
		})),
	)
	return func(next http.Handler) http.Handler {
		return protect(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(CSRFHeader, csrf.Token(r))
			next.ServeHTTP(w, r)
		}))
	}
}
