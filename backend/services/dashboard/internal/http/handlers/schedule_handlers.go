package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/auth"
	"greendash/backend/services/dashboard/internal/calendar"
	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/models"
	"greendash/backend/services/dashboard/internal/schedule"
)

type ScheduleHandlers struct {
	Common
	spots    *clients.SpotsClient
	sessions *clients.SessionsClient
	vehicles *clients.VehiclesClient
	views    *schedule.Store
	clock    calendar.Clock
}

type clockFunc func() time.Time

func (f clockFunc) Now() time.Time { return f() }

// NewScheduleHandlers returns handler. A nil clock uses the system time for booking checks.
func NewScheduleHandlers(c Common, api *clients.API, views *schedule.Store, clock calendar.Clock) *ScheduleHandlers {
	if clock == nil {
		clock = clockFunc(time.Now)
	}
	return &ScheduleHandlers{
		Common:   c,
		spots:    api.Spots,
		sessions: api.Sessions,
		vehicles: api.Vehicles,
		views:    views,
		clock:    clock,
	}
}

type scheduleResponse struct {
	Spot     *models.Spot       `json:"spot,omitempty"`
	Grid     calendar.Grid      `json:"grid"`
	Reported *schedule.Reported `json:"reported,omitempty"`
	Changed  bool               `json:"changed"`
	Vehicles []models.Vehicle   `json:"vehicles,omitempty"`
}

type cellInput struct {
	Time models.Instant `json:"time"`
}

func (in *cellInput) Validate() error {
	if in.Time.IsZero() {
		return forms.ValidationErrors{{Field: "time", Message: "is required"}}
	}
	return nil
}

type weekInput struct {
	Direction string `json:"direction"`
}

func (in *weekInput) Validate() error {
	if in.Direction != "next" && in.Direction != "prev" {
		return forms.ValidationErrors{{Field: "direction", Message: "must be next or prev"}}
	}
	return nil
}

type bookingResponse struct {
	Session *models.Session `json:"session"`
	Grid    calendar.Grid   `json:"grid"`
}

// Get loads spots, then sessions, then vehicles and renders the spot's week. An open view keeps
// its week and selection.
func (h *ScheduleHandlers) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	stationID, spotID, err := stationAndSpot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	spot, view, err := h.open(r.Context(), sess, stationID, spotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	vehicles, err := h.vehicles.List(r.Context(), sess.Token())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if vehicles == nil {
		vehicles = []models.Vehicle{}
	}
	resp := h.render(view)
	resp.Spot = spot
	resp.Vehicles = vehicles
	writeJSON(w, http.StatusOK, resp)
}

// Click applies a click on the hour containing the posted time.
func (h *ScheduleHandlers) Click(w http.ResponseWriter, r *http.Request) {
	h.cell(w, r, (*calendar.Calendar).Click)
}

// Hover extends the selection to the hour containing the posted time.
func (h *ScheduleHandlers) Hover(w http.ResponseWriter, r *http.Request) {
	h.cell(w, r, (*calendar.Calendar).Hover)
}

func (h *ScheduleHandlers) cell(w http.ResponseWriter, r *http.Request, apply func(*calendar.Calendar, time.Time)) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	stationID, spotID, err := stationAndSpot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in cellInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.view(r.Context(), sess, stationID, spotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	apply(view.Calendar, in.Time.Time)
	writeJSON(w, http.StatusOK, h.render(view))
}

// Week moves the displayed week.
func (h *ScheduleHandlers) Week(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	stationID, spotID, err := stationAndSpot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in weekInput
	if err := decode(r, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.view(r.Context(), sess, stationID, spotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if in.Direction == "next" {
		view.Calendar.NextWeek()
	} else {
		view.Calendar.PrevWeek()
	}
	writeJSON(w, http.StatusOK, h.render(view))
}

// Book turns the current selection into a session after checking it against fresh occupancy.
func (h *ScheduleHandlers) Book(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	stationID, spotID, err := stationAndSpot(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var in forms.BookingInput
	if err := forms.Decode(r.Body, &in); err != nil {
		h.fail(w, r, err)
		return
	}
	view, err := h.view(r.Context(), sess, stationID, spotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	vehicles, err := h.vehicles.List(r.Context(), sess.Token())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	occupied, err := h.spotSessions(r.Context(), sess, stationID, spotID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	view.Calendar.SetSessions(occupied)

	sel, selected := view.Calendar.Selection()
	booking, err := forms.ValidateBooking(in, vehicles, spotID, sel.Start, sel.Duration, selected, occupied, h.clock.Now())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	created, err := h.sessions.Create(r.Context(), sess.Token(), models.Session{
		UUID:         uuid.NewString(),
		Vehicle:      &booking.Vehicle,
		ChargingSpot: &models.Spot{ID: booking.SpotID},
		StartTime:    models.NewInstant(booking.Start),
		Duration:     booking.Duration,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger().Info("session booked",
		zap.Int64("user_id", sess.User().ID),
		zap.Int64("spot_id", spotID),
		zap.Time("start", booking.Start),
		zap.Int64("duration", booking.Duration),
	)

	view.Calendar.ClearSelection()
	view.Calendar.SetSessions(append(occupied, *created))
	writeJSON(w, http.StatusCreated, bookingResponse{Session: created, Grid: view.Calendar.Grid()})
}

// open fetches the spot and its sessions and opens (or refreshes) the cached view.
func (h *ScheduleHandlers) open(ctx context.Context, sess *auth.Session, stationID, spotID int64) (*models.Spot, *schedule.View, error) {
	spots, err := h.spots.ListByStation(ctx, sess.Token(), stationID)
	if err != nil {
		return nil, nil, err
	}
	var spot *models.Spot
	for i := range spots {
		if spots[i].ID == spotID {
			spot = &spots[i]
			break
		}
	}
	if spot == nil {
		return nil, nil, &clients.APIError{StatusCode: http.StatusNotFound, Method: http.MethodGet, Message: "charging spot not found"}
	}
	occupied, err := h.spotSessions(ctx, sess, stationID, spotID)
	if err != nil {
		return nil, nil, err
	}
	return spot, h.views.Open(sess.ID(), stationID, spotID, occupied), nil
}

// view returns the cached view, opening it when it has expired.
func (h *ScheduleHandlers) view(ctx context.Context, sess *auth.Session, stationID, spotID int64) (*schedule.View, error) {
	if view, ok := h.views.Get(sess.ID(), spotID); ok && view.StationID == stationID {
		return view, nil
	}
	_, view, err := h.open(ctx, sess, stationID, spotID)
	return view, err
}

func (h *ScheduleHandlers) spotSessions(ctx context.Context, sess *auth.Session, stationID, spotID int64) ([]models.Session, error) {
	all, err := h.sessions.ListByStation(ctx, sess.Token(), stationID)
	if err != nil {
		return nil, err
	}
	return sessionsOnSpot(all, spotID), nil
}

func (h *ScheduleHandlers) render(view *schedule.View) scheduleResponse {
	resp := scheduleResponse{Grid: view.Calendar.Grid(), Changed: view.TakeChanged()}
	if rep, ok := view.Reported(); ok {
		resp.Reported = &rep
	}
	return resp
}

// sessionsOnSpot keeps sessions of spotID. Sessions without a spot reference are kept too, since
// the station listing may omit it.
func sessionsOnSpot(sessions []models.Session, spotID int64) []models.Session {
	out := make([]models.Session, 0, len(sessions))
	for _, s := range sessions {
		if s.SpotID() == 0 || s.SpotID() == spotID {
			out = append(out, s)
		}
	}
	return out
}
