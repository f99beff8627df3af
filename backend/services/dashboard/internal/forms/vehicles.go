package forms

import (
	"strings"

	"greendash/backend/services/dashboard/internal/models"
)

// VehicleInput adds or edits a vehicle.
type VehicleInput struct {
	Brand         string `json:"brand" validate:"required"`
	Model         string `json:"model" validate:"required"`
	LicensePlate  string `json:"licensePlate" validate:"required"`
	ConnectorType string `json:"connectorType" validate:"required,connector"`
}

func (in *VehicleInput) Validate() error {
	in.Brand = strings.TrimSpace(in.Brand)
	in.Model = strings.TrimSpace(in.Model)
	in.LicensePlate = strings.ToUpper(strings.TrimSpace(in.LicensePlate))
	return check(in).err()
}

func (in VehicleInput) Vehicle(id int64) models.Vehicle {
	ct, _ := models.ParseConnectorType(in.ConnectorType)
	return models.Vehicle{
		ID:            id,
		Brand:         in.Brand,
		Model:         in.Model,
		LicensePlate:  in.LicensePlate,
		ConnectorType: ct,
	}
}
