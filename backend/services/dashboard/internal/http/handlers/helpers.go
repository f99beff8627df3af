package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/auth"
	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/http/middleware"
)

const (
	kindAPI        = "api"
	kindAuth       = "auth"
	kindUnexpected = "unexpected"
	kindValidation = "validation"
)

// errorResponse is the transient notification payload every failure is rendered as.
type errorResponse struct {
	Error  string             `json:"error"`
	Kind   string             `json:"kind"`
	Fields []forms.FieldError `json:"fields,omitempty"`
}

// Common carries what every handler group needs to resolve sessions and report failures.
type Common struct {
	Auth    *auth.Service
	Cookies *middleware.Auth
	Logger  *zap.Logger
}

func (c Common) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// fail renders err as a notification. A 401 from the API closes the caller's session.
func (c Common) fail(w http.ResponseWriter, r *http.Request, err error) {
	if fields, ok := forms.AsValidation(err); ok {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "please correct the highlighted fields",
			Kind:   kindValidation,
			Fields: fields,
		})
		return
	}
	if errors.Is(err, forms.ErrMalformed) {
		writeError(w, http.StatusBadRequest, kindValidation, err.Error())
		return
	}
	if apiErr, ok := clients.AsAPIError(err); ok {
		if sess, ok := middleware.SessionFromContext(r.Context()); ok && c.Auth != nil && c.Auth.CheckUpstream(r.Context(), sess, err) {
			c.Cookies.ClearCookie(w)
			writeError(w, http.StatusUnauthorized, kindAuth, "session expired, please sign in again")
			return
		}
		status := apiErr.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		writeError(w, status, kindAPI, apiErr.Message)
		return
	}
	c.logger().Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeError(w, http.StatusInternalServerError, kindUnexpected, "something went wrong, please try again")
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, kind, message string) {
	writeJSON(w, status, errorResponse{Error: message, Kind: kind})
}

// pathID reads a positive integer route variable.
func pathID(r *http.Request, name string) (int64, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, forms.ValidationErrors{{Field: name, Message: "must be a positive integer"}}
	}
	return id, nil
}

// session returns the caller's session. Routes are guarded, so a missing session is a wiring bug
// answered with 401.
func session(w http.ResponseWriter, r *http.Request) (*auth.Session, bool) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, kindAuth, "authentication required")
	}
	return sess, ok
}

// decode reads and validates a form in one step.
func decode(r *http.Request, form interface{ Validate() error }) error {
	if err := forms.Decode(r.Body, form); err != nil {
		return err
	}
	return form.Validate()
}
