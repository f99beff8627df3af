package forms

import (
	"strings"

	"greendash/backend/services/dashboard/internal/models"
)

// StationInput creates or edits a station.
type StationInput struct {
	Name     string `json:"name" validate:"required"`
	Lat      Number `json:"lat" validate:"required,finite,gte=-90,lte=90"`
	Lon      Number `json:"lon" validate:"required,finite,gte=-180,lte=180"`
	PhotoURL string `json:"photoUrl" validate:"omitempty,http_url"`
}

func (in *StationInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.PhotoURL = strings.TrimSpace(in.PhotoURL)
	return check(in).err()
}

// Station converts a validated input owned by operator.
func (in StationInput) Station(id int64, operator models.User) models.Station {
	op := operator.Public()
	return models.Station{
		ID:       id,
		Name:     in.Name,
		Lat:      in.Lat.Value,
		Lon:      in.Lon.Value,
		PhotoURL: in.PhotoURL,
		Operator: &op,
	}
}

// SpotInput creates or edits a spot. State defaults to FREE.
type SpotInput struct {
	PowerKW          Number `json:"powerKw" validate:"required,finite,gt=0"`
	PricePerKWh      Number `json:"pricePerKwh" validate:"required,finite,gt=0"`
	ConnectorType    string `json:"connectorType" validate:"required,connector"`
	ChargingVelocity string `json:"chargingVelocity" validate:"required,velocity"`
	State            string `json:"state" validate:"spot_state"`
}

func (in *SpotInput) Validate() error {
	if strings.TrimSpace(in.State) == "" {
		in.State = string(models.SpotFree)
	}
	return check(in).err()
}

// Spot converts a validated input for the given station.
func (in SpotInput) Spot(id, stationID int64) models.Spot {
	ct, _ := models.ParseConnectorType(in.ConnectorType)
	vel, _ := models.ParseChargingVelocity(in.ChargingVelocity)
	state, _ := models.ParseSpotState(in.State)
	return models.Spot{
		ID:               id,
		Station:          &models.Station{ID: stationID},
		PowerKW:          in.PowerKW.Value,
		PricePerKWh:      in.PricePerKWh.Value,
		ConnectorType:    ct,
		ChargingVelocity: vel,
		State:            state,
	}
}

// SpotStatusInput changes only the spot state.
type SpotStatusInput struct {
	State string `json:"state" validate:"required,spot_state"`
}

func (in *SpotStatusInput) Validate() error {
	return check(in).err()
}

func (in SpotStatusInput) SpotState() models.SpotState {
	s, _ := models.ParseSpotState(in.State)
	return s
}
