package handlers

import (
	"net/http"
	"strconv"

	"greendash/backend/services/dashboard/internal/calendar"
	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/models"
)

// ManagementHandlers serve the operator's sessions overview.
type ManagementHandlers struct {
	Common
	stations     *clients.StationsClient
	sessions     *clients.SessionsClient
	calendarOpts []calendar.Option
}

// NewManagementHandlers returns handler. opts configure the read-only calendars.
func NewManagementHandlers(c Common, stations *clients.StationsClient, sessions *clients.SessionsClient, opts ...calendar.Option) *ManagementHandlers {
	return &ManagementHandlers{Common: c, stations: stations, sessions: sessions, calendarOpts: opts}
}

type stationOption struct {
	ID    int64         `json:"id"`
	Name  string        `json:"name"`
	Spots []models.Spot `json:"spots"`
}

type managementResponse struct {
	Stations  []stationOption  `json:"stations"`
	StationID int64            `json:"stationId,omitempty"`
	SpotID    int64            `json:"spotId,omitempty"`
	Sessions  []models.Session `json:"sessions"`
	Grid      *calendar.Grid   `json:"grid,omitempty"`
}

// Sessions lists the operator's stations. With ?station= it adds that station's sessions, and
// with ?spot= it narrows them to the spot and renders its week read-only.
func (h *ManagementHandlers) Sessions(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	stationID, spotID, err := managementQuery(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	owned, err := h.stations.ListByOperator(r.Context(), sess.Token())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp := managementResponse{Stations: make([]stationOption, 0, len(owned)), Sessions: []models.Session{}}
	found := false
	for _, st := range owned {
		if st.ChargingStation == nil {
			continue
		}
		spots := st.Spots
		if spots == nil {
			spots = []models.Spot{}
		}
		resp.Stations = append(resp.Stations, stationOption{ID: st.ChargingStation.ID, Name: st.ChargingStation.Name, Spots: spots})
		if st.ChargingStation.ID == stationID {
			found = true
		}
	}
	if stationID == 0 {
		writeJSON(w, http.StatusOK, resp)
		return
	}
	if !found {
		writeError(w, http.StatusNotFound, kindAPI, "station not found among your stations")
		return
	}

	list, err := h.sessions.ListByStation(r.Context(), sess.Token(), stationID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	resp.StationID = stationID
	resp.Sessions = list
	if resp.Sessions == nil {
		resp.Sessions = []models.Session{}
	}
	if spotID != 0 {
		resp.SpotID = spotID
		resp.Sessions = sessionsOnSpot(list, spotID)
		grid := calendar.New(spotID, resp.Sessions, h.calendarOpts...).Grid()
		resp.Grid = &grid
	}
	writeJSON(w, http.StatusOK, resp)
}

func managementQuery(r *http.Request) (int64, int64, error) {
	q := r.URL.Query()
	var errs forms.ValidationErrors
	parse := func(field string) int64 {
		raw := q.Get(field)
		if raw == "" {
			return 0
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			errs = append(errs, forms.FieldError{Field: field, Message: "must be a positive integer"})
			return 0
		}
		return id
	}
	stationID, spotID := parse("station"), parse("spot")
	if spotID != 0 && stationID == 0 && len(errs) == 0 {
		errs = append(errs, forms.FieldError{Field: "station", Message: "is required when a spot is selected"})
	}
	if len(errs) > 0 {
		return 0, 0, errs
	}
	return stationID, spotID, nil
}
