package handlers

import (
	"net/http"

	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/models"
	"greendash/backend/services/dashboard/internal/payment"
)

type SessionsHandlers struct {
	Common
	sessions *clients.SessionsClient
	payments *payment.Service
}

// NewSessionsHandlers returns handler.
func NewSessionsHandlers(c Common, sessions *clients.SessionsClient, payments *payment.Service) *SessionsHandlers {
	return &SessionsHandlers{Common: c, sessions: sessions, payments: payments}
}

// List returns the caller's booked sessions.
func (h *SessionsHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	list, err := h.sessions.ListMine(r.Context(), sess.Token())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.Session{}
	}
	writeJSON(w, http.StatusOK, list)
}

// Cancel deletes a booked session.
func (h *SessionsHandlers) Cancel(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sessions.Delete(r.Context(), sess.Token(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Pay opens the payment for a session and hands the processor data to the shell.
func (h *SessionsHandlers) Pay(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	res, err := h.payments.Checkout(r.Context(), sess.Token(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// PaymentReturn reports the outcome the processor redirected back with.
func (h *SessionsHandlers) PaymentReturn(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.payments.Complete(r.URL.Query()))
}
