package handlers

import (
	"net/http"

	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/models"
	"greendash/backend/services/dashboard/internal/schedule"
)

type ProfileHandlers struct {
	Common
	views *schedule.Store
}

// NewProfileHandlers returns handler.
func NewProfileHandlers(c Common, views *schedule.Store) *ProfileHandlers {
	return &ProfileHandlers{Common: c, views: views}
}

type profileResponse struct {
	User            models.User `json:"user"`
	ReloginRequired bool        `json:"reloginRequired,omitempty"`
}

func (h *ProfileHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, profileResponse{User: sess.User().Public()})
}

// Update edits the account. The session is closed so the user signs in with the new details.
func (h *ProfileHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var in forms.ProfileInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.Auth.UpdateProfile(r.Context(), sess, in.User(sess.User()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.DropSession(sess.ID())
	h.Cookies.ClearCookie(w)
	writeJSON(w, http.StatusOK, profileResponse{User: *updated, ReloginRequired: true})
}

// Delete removes the account and signs out.
func (h *ProfileHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	if err := h.Auth.DeleteAccount(r.Context(), sess); err != nil {
		h.fail(w, r, err)
		return
	}
	h.views.DropSession(sess.ID())
	h.Cookies.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
