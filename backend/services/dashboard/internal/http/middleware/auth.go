package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/auth"
	"greendash/backend/services/dashboard/internal/models"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionResolver maps a cookie value to a live session.
type SessionResolver interface {
	Resolve(ctx context.Context, cookie string) (*auth.Session, error)
}

// Auth guards routes with the dashboard session cookie.
type Auth struct {
	resolver   SessionResolver
	cookieName string
	secure     bool
	logger     *zap.Logger
}

// NewAuth builds the route guard.
func NewAuth(resolver SessionResolver, cookieName string, secure bool, logger *zap.Logger) *Auth {
	return &Auth{resolver: resolver, cookieName: cookieName, secure: secure, logger: logger}
}

// CookieName returns the session cookie name.
func (a *Auth) CookieName() string {
	return a.cookieName
}

// Load attaches the session, if any, to the request context. It never rejects a request; a bad
// or stale cookie is cleared.
func (a *Auth) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(a.cookieName)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}
		sess, err := a.resolver.Resolve(r.Context(), cookie.Value)
		if err != nil {
			if !isSessionGone(err) {
				a.logger.Warn("session lookup failed", zap.Error(err))
			}
			a.ClearCookie(w)
			next.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), sess)))
	})
}

func isSessionGone(err error) bool {
	return errors.Is(err, auth.ErrSessionNotFound) ||
		errors.Is(err, auth.ErrSessionExpired) ||
		errors.Is(err, auth.ErrInvalidCookie)
}

// SetCookie writes the session cookie.
func (a *Auth) SetCookie(w http.ResponseWriter, value string, sess *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    value,
		Path:     "/",
		Expires:  sess.ExpiresAt(),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie removes the session cookie from the browser.
func (a *Auth) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// RequireAPI answers 401 without a session and 403 when the role is not one of roles. No roles
// means any signed-in user.
func RequireAPI(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := SessionFromContext(r.Context())
			if !ok {
				writeError(w, http.StatusUnauthorized, "auth", "authentication required")
				return
			}
			if !hasRole(sess, roles) {
				writeError(w, http.StatusForbidden, "auth", "not allowed for role "+string(sess.Role()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePage redirects anonymous visitors to the login page, remembering where they were going.
func RequirePage(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := SessionFromContext(r.Context()); !ok {
			http.Redirect(w, r, LoginRedirect(r.URL), http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectAuthenticated sends signed-in users away from the login and register pages.
func RedirectAuthenticated(target string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := SessionFromContext(r.Context()); ok {
				http.Redirect(w, r, target, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LoginRedirect builds /login?from=<original path and query>.
func LoginRedirect(u *url.URL) string {
	from := u.Path
	if u.RawQuery != "" {
		from += "?" + u.RawQuery
	}
	return "/login?" + url.Values{"from": {from}}.Encode()
}

// SafeReturnPath accepts only local absolute paths so ?from= cannot redirect off-site.
func SafeReturnPath(from, fallback string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return fallback
	}
	return from
}

func hasRole(sess *auth.Session, roles []models.Role) bool {
	if len(roles) == 0 {
		return true
	}
	for _, role := range roles {
		if sess.Role() == role {
			return true
		}
	}
	return false
}

// WithSession stores sess in ctx.
func WithSession(ctx context.Context, sess *auth.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// SessionFromContext retrieves the session attached by Load.
func SessionFromContext(ctx context.Context) (*auth.Session, bool) {
	sess, ok := ctx.Value(sessionKey).(*auth.Session)
	return sess, ok && sess != nil
}
