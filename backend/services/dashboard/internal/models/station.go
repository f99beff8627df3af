package models

// Station is a physical charging location.
type Station struct {
	ID       int64   `json:"id,omitempty"`
	Name     string  `json:"name"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Operator *User   `json:"operator,omitempty"`
	PhotoURL string  `json:"photoUrl,omitempty"`
}

// StationSpots is a station with its embedded spot summaries, as returned by the list endpoints.
type StationSpots struct {
	ChargingStation *Station `json:"chargingStation"`
	Spots           []Spot   `json:"spots"`
}

// HasSpotData reports whether both the station and its spot list are present.
func (s StationSpots) HasSpotData() bool {
	return s.ChargingStation != nil && s.Spots != nil
}

// FreeSpots counts spots in the FREE state.
func (s StationSpots) FreeSpots() int {
	free := 0
	for _, spot := range s.Spots {
		if spot.State == SpotFree {
			free++
		}
	}
	return free
}

// Spot is a single charging point at a station.
type Spot struct {
	ID               int64            `json:"id,omitempty"`
	Station          *Station         `json:"station,omitempty"`
	PowerKW          float64          `json:"powerKw"`
	PricePerKWh      float64          `json:"pricePerKwh"`
	ChargingVelocity ChargingVelocity `json:"chargingVelocity"`
	ConnectorType    ConnectorType    `json:"connectorType"`
	State            SpotState        `json:"state"`
}
