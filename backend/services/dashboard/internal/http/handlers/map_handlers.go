package handlers

import (
	"context"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"greendash/backend/services/dashboard/internal/availability"
	"greendash/backend/services/dashboard/internal/forms"
	"greendash/backend/services/dashboard/internal/models"
)

// StationLister lists stations with their spot summaries.
type StationLister interface {
	ListAll(ctx context.Context, token string) ([]models.StationSpots, error)
	ListByOperator(ctx context.Context, token string) ([]models.StationSpots, error)
	Filter(ctx context.Context, token string, connectors []models.ConnectorType) ([]models.StationSpots, error)
}

type MapHandlers struct {
	Common
	stations StationLister
}

// NewMapHandlers returns handler.
func NewMapHandlers(c Common, stations StationLister) *MapHandlers {
	return &MapHandlers{Common: c, stations: stations}
}

type legendEntry struct {
	Status availability.Status `json:"status"`
	Color  string              `json:"color"`
	Icon   string              `json:"icon"`
}

type mapResponse struct {
	Connectors []models.ConnectorType      `json:"connectors"`
	Stations   []availability.StationView `json:"stations"`
	Legend     []legendEntry              `json:"legend"`
}

var legend = func() []legendEntry {
	out := make([]legendEntry, 0, 3)
	for _, s := range []availability.Status{availability.Available, availability.Limited, availability.Full} {
		out = append(out, legendEntry{Status: s, Color: s.Color(), Icon: s.IconURL()})
	}
	return out
}()

// Stations renders the map markers. Operators see their own stations, everyone else sees all.
// ?connector= narrows by connector type and ?lat=&lon= orders by distance.
func (h *MapHandlers) Stations(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	connectors, err := parseConnectors(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	origin, hasOrigin, err := parseOrigin(q)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	selected := availability.NewConnectorSet(connectors...)
	var stations []models.StationSpots
	switch {
	case sess.IsOperator():
		stations, err = h.stations.ListByOperator(r.Context(), sess.Token())
	case selected.Len() > 0:
		stations, err = h.stations.Filter(r.Context(), sess.Token(), selected.Slice())
	default:
		stations, err = h.stations.ListAll(r.Context(), sess.Token())
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}

	// the API filter matches by station; spot-level matching stays local
	stations = availability.FilterByConnector(stations, selected)
	if hasOrigin {
		stations = availability.SortByDistance(stations, origin[0], origin[1])
	}
	writeJSON(w, http.StatusOK, mapResponse{
		Connectors: selected.Slice(),
		Stations:   availability.BuildViews(stations),
		Legend:     legend,
	})
}

// parseConnectors accepts repeated and comma separated ?connector= values.
func parseConnectors(q url.Values) ([]models.ConnectorType, error) {
	var out []models.ConnectorType
	for _, raw := range q["connector"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			ct, err := models.ParseConnectorType(part)
			if err != nil {
				return nil, forms.ValidationErrors{{Field: "connector", Message: "unknown connector type " + part}}
			}
			out = append(out, ct)
		}
	}
	return out, nil
}

func parseOrigin(q url.Values) ([2]float64, bool, error) {
	rawLat, rawLon := q.Get("lat"), q.Get("lon")
	if rawLat == "" && rawLon == "" {
		return [2]float64{}, false, nil
	}
	var errs forms.ValidationErrors
	lat, err := strconv.ParseFloat(rawLat, 64)
	if err != nil || !finite(lat) || lat < -90 || lat > 90 {
		errs = append(errs, forms.FieldError{Field: "lat", Message: "must be between -90 and 90"})
	}
	lon, err := strconv.ParseFloat(rawLon, 64)
	if err != nil || !finite(lon) || lon < -180 || lon > 180 {
		errs = append(errs, forms.FieldError{Field: "lon", Message: "must be between -180 and 180"})
	}
	if len(errs) > 0 {
		return [2]float64{}, false, errs
	}
	return [2]float64{lat, lon}, true, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
