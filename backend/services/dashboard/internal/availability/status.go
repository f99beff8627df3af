package availability

import (
	"fmt"

	"greendash/backend/services/dashboard/internal/models"
)

// limitedPercent is the inclusive upper bound of the "limited" tier.
const limitedPercent = 35

// Status is the availability tier of a station.
type Status int

const (
	Full Status = iota
	Limited
	Available
)

// Classify maps free/total spots to a tier. A station without spots is Full.
// Integer arithmetic keeps the 35% boundary exact: free/total <= 0.35 iff free*100 <= total*35.
func Classify(free, total int) Status {
	if total <= 0 || free <= 0 {
		return Full
	}
	if free*100 <= total*limitedPercent {
		return Limited
	}
	return Available
}

// ClassifySpots counts FREE spots and classifies them.
func ClassifySpots(spots []models.Spot) Status {
	free := 0
	for _, s := range spots {
		if s.State == models.SpotFree {
			free++
		}
	}
	return Classify(free, len(spots))
}

// Percent returns the free share in [0, 100]; zero when there are no spots.
func Percent(free, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(free) * 100 / float64(total)
}

func (s Status) Label() string {
	switch s {
	case Limited:
		return "Limited"
	case Available:
		return "Available"
	default:
		return "Full"
	}
}

func (s Status) Color() string {
	switch s {
	case Limited:
		return "yellow"
	case Available:
		return "green"
	default:
		return "red"
	}
}

// IconURL is the map marker for the tier.
func (s Status) IconURL() string {
	return "/icons/marker-" + s.Color() + ".png"
}

func (s Status) String() string {
	return s.Label()
}

// MarshalText renders the tier as its label.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.Label()), nil
}

// UnmarshalText accepts the labels produced by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Full":
		*s = Full
	case "Limited":
		*s = Limited
	case "Available":
		*s = Available
	default:
		return fmt.Errorf("availability: unknown status %q", text)
	}
	return nil
}
