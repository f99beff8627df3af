package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"greendash/backend/services/dashboard/internal/models"
)

// SpotsClient covers charging spot endpoints.
type SpotsClient struct {
	base *BaseClient
}

// NewSpotsClient returns client.
func NewSpotsClient(base *BaseClient) *SpotsClient {
	return &SpotsClient{base: base}
}

// ListByStation fetches the spots of one station.
func (c *SpotsClient) ListByStation(ctx context.Context, token string, stationID int64) ([]models.Spot, error) {
	var out []models.Spot
	if err := c.base.JSON(ctx, http.MethodGet, fmt.Sprintf("/public/charging-spots/%d", stationID), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SpotsClient) Create(ctx context.Context, token string, spot models.Spot) (*models.Spot, error) {
	var out models.Spot
	if err := c.base.JSON(ctx, http.MethodPost, "/private/charging-spots", token, spot, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SpotsClient) Update(ctx context.Context, token string, spot models.Spot) (*models.Spot, error) {
	var out models.Spot
	if err := c.base.JSON(ctx, http.MethodPut, "/private/charging-spots", token, spot, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SpotsClient) Delete(ctx context.Context, token string, id int64) error {
	return c.base.JSON(ctx, http.MethodDelete, fmt.Sprintf("/private/charging-spots/%d", id), token, nil, nil)
}

// UpdateStatus changes the operational state of a spot.
func (c *SpotsClient) UpdateStatus(ctx context.Context, token string, id int64, state models.SpotState) (*models.Spot, error) {
	q := url.Values{}
	q.Set("status", string(state))
	path := fmt.Sprintf("/private/charging-spots/status/%d?%s", id, q.Encode())

	var out models.Spot
	if err := c.base.JSON(ctx, http.MethodPut, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
