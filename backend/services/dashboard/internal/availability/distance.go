package availability

import (
	"math"
	"sort"

	"greendash/backend/services/dashboard/internal/models"
)

const earthRadiusKm = 6371.0

// DistanceKm is the haversine distance between two coordinates.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// SortByDistance orders stations nearest first from (lat, lon). The input is not modified;
// stations without a station record go last.
func SortByDistance(stations []models.StationSpots, lat, lon float64) []models.StationSpots {
	out := make([]models.StationSpots, len(stations))
	copy(out, stations)

	dist := func(s models.StationSpots) float64 {
		if s.ChargingStation == nil {
			return math.Inf(1)
		}
		return DistanceKm(lat, lon, s.ChargingStation.Lat, s.ChargingStation.Lon)
	}
	sort.SliceStable(out, func(i, j int) bool { return dist(out[i]) < dist(out[j]) })
	return out
}
