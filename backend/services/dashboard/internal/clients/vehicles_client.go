package clients

import (
	"context"
	"fmt"
	"net/http"

	"greendash/backend/services/dashboard/internal/models"
)

// VehiclesClient covers the user's vehicles.
type VehiclesClient struct {
	base *BaseClient
}

// NewVehiclesClient returns client.
func NewVehiclesClient(base *BaseClient) *VehiclesClient {
	return &VehiclesClient{base: base}
}

func (c *VehiclesClient) List(ctx context.Context, token string) ([]models.Vehicle, error) {
	var out []models.Vehicle
	if err := c.base.JSON(ctx, http.MethodGet, "/private/vehicles", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *VehiclesClient) Create(ctx context.Context, token string, vehicle models.Vehicle) (*models.Vehicle, error) {
	var out models.Vehicle
	if err := c.base.JSON(ctx, http.MethodPost, "/private/vehicles", token, vehicle, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *VehiclesClient) Update(ctx context.Context, token string, vehicle models.Vehicle) (*models.Vehicle, error) {
	var out models.Vehicle
	if err := c.base.JSON(ctx, http.MethodPut, "/private/vehicles", token, vehicle, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *VehiclesClient) Delete(ctx context.Context, token string, id int64) error {
	return c.base.JSON(ctx, http.MethodDelete, fmt.Sprintf("/private/vehicles/%d", id), token, nil, nil)
}
