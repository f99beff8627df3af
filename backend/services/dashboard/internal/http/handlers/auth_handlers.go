package handlers

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/auth"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/http/middleware"
	"greendash/backend/services/dashboard/internal/models"
	"greendash/backend/services/dashboard/internal/schedule"
)

// DashboardPath is where signed-in users land.
const DashboardPath = "/dashboard"

type AuthHandlers struct {
	Common
	views *schedule.Store
}

// NewAuthHandlers returns handler.
func NewAuthHandlers(c Common, views *schedule.Store) *AuthHandlers {
	return &AuthHandlers{Common: c, views: views}
}

type sessionResponse struct {
	User      models.User `json:"user"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Redirect  string      `json:"redirect,omitempty"`
}

type pageResponse struct {
	Page string `json:"page"`
	From string `json:"from,omitempty"`
}

// Login opens a session and sets the cookie. The redirect honors ?from= when it is a local path.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var in forms.LoginInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.Auth.Login(r.Context(), in.Email, in.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, kindAuth, "invalid email or password")
		return
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	cookie, err := h.Auth.Cookie(sess)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.Cookies.SetCookie(w, cookie, sess)

	writeJSON(w, http.StatusOK, sessionResponse{
		User:      sess.User().Public(),
		ExpiresAt: sess.ExpiresAt(),
		Redirect:  middleware.SafeReturnPath(r.URL.Query().Get("from"), DashboardPath),
	})
}

// Register creates an account; the user signs in afterwards.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var in forms.RegisterInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	user, err := h.Auth.Register(r.Context(), in.User())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "redirect": "/login"})
}

// Logout closes the session if there is one. It always clears the cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sess, ok := middleware.SessionFromContext(r.Context()); ok {
		if err := h.Auth.Logout(r.Context(), sess); err != nil {
			h.logger().Warn("logout failed", zap.String("session_id", sess.ID()), zap.Error(err))
		}
		h.views.DropSession(sess.ID())
	}
	h.Cookies.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: sess.User().Public(), ExpiresAt: sess.ExpiresAt()})
}

// LoginPage is the shell entry point for the login form.
func (h *AuthHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageResponse{
		Page: "login",
		From: middleware.SafeReturnPath(r.URL.Query().Get("from"), DashboardPath),
	})
}

// RegisterPage is the shell entry point for the sign-up form.
func (h *AuthHandlers) RegisterPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, pageResponse{Page: "register"})
}

// DashboardPage is the shell entry point for every signed-in page.
func (h *AuthHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"page": r.URL.Path, "user": sess.User().Public()})
}
