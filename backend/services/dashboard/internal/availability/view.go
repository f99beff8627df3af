package availability

import "greendash/backend/services/dashboard/internal/models"

// StationView is the map marker model of one station.
type StationView struct {
	Station    models.Station `json:"station"`
	Spots      []models.Spot  `json:"spots"`
	FreeSpots  int            `json:"freeSpots"`
	TotalSpots int            `json:"totalSpots"`
	Percent    float64        `json:"percent"`
	Status     Status         `json:"status"`
	Color      string         `json:"color"`
	Icon       string         `json:"icon"`
}

// BuildViews classifies every station that carries a station record.
func BuildViews(stations []models.StationSpots) []StationView {
	views := make([]StationView, 0, len(stations))
	for _, st := range stations {
		if st.ChargingStation == nil {
			continue
		}
		free, total := st.FreeSpots(), len(st.Spots)
		status := Classify(free, total)
		spots := st.Spots
		if spots == nil {
			spots = []models.Spot{}
		}
		views = append(views, StationView{
			Station:    *st.ChargingStation,
			Spots:      spots,
			FreeSpots:  free,
			TotalSpots: total,
			Percent:    Percent(free, total),
			Status:     status,
			Color:      status.Color(),
			Icon:       status.IconURL(),
		})
	}
	return views
}
