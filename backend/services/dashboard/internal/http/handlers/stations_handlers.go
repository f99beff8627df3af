package handlers

import (
	"net/http"

	"greendash/backend/services/dashboard/internal/availability"
	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/models"
)

type StationsHandlers struct {
	Common
	stations *clients.StationsClient
	spots    *clients.SpotsClient
}

// NewStationsHandlers returns handler.
func NewStationsHandlers(c Common, stations *clients.StationsClient, spots *clients.SpotsClient) *StationsHandlers {
	return &StationsHandlers{Common: c, stations: stations, spots: spots}
}

type stationDetail struct {
	StationID  int64               `json:"stationId"`
	Station    *models.Station     `json:"station,omitempty"`
	Spots      []models.Spot       `json:"spots"`
	FreeSpots  int                 `json:"freeSpots"`
	TotalSpots int                 `json:"totalSpots"`
	Percent    float64             `json:"percent"`
	Status     availability.Status `json:"status"`
	Color      string              `json:"color"`
}

// Detail lists the station's spots with the availability badge.
func (h *StationsHandlers) Detail(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	spots, err := h.spots.ListByStation(r.Context(), sess.Token(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if spots == nil {
		spots = []models.Spot{}
	}

	detail := stationDetail{StationID: id, Spots: spots}
	for _, spot := range spots {
		if spot.Station != nil {
			detail.Station = spot.Station
			break
		}
	}
	detail.FreeSpots = models.StationSpots{Spots: spots}.FreeSpots()
	detail.TotalSpots = len(spots)
	detail.Percent = availability.Percent(detail.FreeSpots, detail.TotalSpots)
	detail.Status = availability.Classify(detail.FreeSpots, detail.TotalSpots)
	detail.Color = detail.Status.Color()
	writeJSON(w, http.StatusOK, detail)
}

// Create adds a station owned by the signed-in operator.
func (h *StationsHandlers) Create(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	var in forms.StationInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.stations.Create(r.Context(), sess.Token(), in.Station(0, sess.User()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *StationsHandlers) Update(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in forms.StationInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.stations.Update(r.Context(), sess.Token(), in.Station(id, sess.User()))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *StationsHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.stations.Delete(r.Context(), sess.Token(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateSpot adds a spot to the station in the path.
func (h *StationsHandlers) CreateSpot(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	stationID, err := pathID(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in forms.SpotInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.spots.Create(r.Context(), sess.Token(), in.Spot(0, stationID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *StationsHandlers) UpdateSpot(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	stationID, spotID, err := stationAndSpot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in forms.SpotInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.spots.Update(r.Context(), sess.Token(), in.Spot(spotID, stationID))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *StationsHandlers) DeleteSpot(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	_, spotID, err := stationAndSpot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.spots.Delete(r.Context(), sess.Token(), spotID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SpotStatus changes only the spot state.
func (h *StationsHandlers) SpotStatus(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	_, spotID, err := stationAndSpot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in forms.SpotStatusInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.spots.UpdateStatus(r.Context(), sess.Token(), spotID, in.SpotState())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func stationAndSpot(r *http.Request) (int64, int64, error) {
	stationID, err := pathID(r, "id")
	if err != nil {
		return 0, 0, err
	}
	spotID, err := pathID(r, "spotId")
	if err != nil {
		return 0, 0, err
	}
	return stationID, spotID, nil
}
