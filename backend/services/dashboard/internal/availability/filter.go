package availability

import (
	"sort"

	"greendash/backend/services/dashboard/internal/models"
)

// ConnectorSet is the user's connector filter selection.
type ConnectorSet map[models.ConnectorType]struct{}

// NewConnectorSet builds a set from the given types.
func NewConnectorSet(types ...models.ConnectorType) ConnectorSet {
	set := make(ConnectorSet, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	return set
}

// Toggle adds t when absent and removes it when present. It reports whether t is now selected.
func (s ConnectorSet) Toggle(t models.ConnectorType) bool {
	if _, ok := s[t]; ok {
		delete(s, t)
		return false
	}
	s[t] = struct{}{}
	return true
}

func (s ConnectorSet) Has(t models.ConnectorType) bool {
	_, ok := s[t]
	return ok
}

func (s ConnectorSet) Len() int {
	return len(s)
}

// Slice returns the members sorted by name.
func (s ConnectorSet) Slice() []models.ConnectorType {
	out := make([]models.ConnectorType, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// FilterByConnector keeps stations with at least one spot of a selected type. An empty
// selection returns stations unchanged. Stations lacking spot data never match a filter.
func FilterByConnector(stations []models.StationSpots, selected ConnectorSet) []models.StationSpots {
	if selected.Len() == 0 {
		return stations
	}
	out := make([]models.StationSpots, 0, len(stations))
	for _, st := range stations {
		if !st.HasSpotData() {
			continue
		}
		for _, spot := range st.Spots {
			if selected.Has(spot.ConnectorType) {
				out = append(out, st)
				break
			}
		}
	}
	return out
}
