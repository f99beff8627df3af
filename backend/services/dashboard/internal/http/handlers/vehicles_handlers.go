package handlers

import (
	"net/http"

	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/models"
)

type VehiclesHandlers struct {
	Common
	client *clients.VehiclesClient
}

// NewVehiclesHandlers returns handler.
func NewVehiclesHandlers(c Common, client *clients.VehiclesClient) *VehiclesHandlers {
	return &VehiclesHandlers{Common: c, client: client}
}

func (h *VehiclesHandlers) List(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	list, err := h.client.List(r.Context(), sess.Token())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if list == nil {
		list = []models.Vehicle{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *VehiclesHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var in forms.VehicleInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.client.Create(r.Context(), sess.Token(), in.Vehicle(0))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *VehiclesHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in forms.VehicleInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.client.Update(r.Context(), sess.Token(), in.Vehicle(id))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *VehiclesHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.client.Delete(r.Context(), sess.Token(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
