package clients

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"greendash/backend/services/dashboard/internal/models"
)

// StationsClient covers charging station endpoints.
type StationsClient struct {
	base *BaseClient
}

// NewStationsClient returns client.
func NewStationsClient(base *BaseClient) *StationsClient {
	return &StationsClient{base: base}
}

// ListAll fetches every station with its spots.
func (c *StationsClient) ListAll(ctx context.Context, token string) ([]models.StationSpots, error) {
	var out []models.StationSpots
	if err := c.base.JSON(ctx, http.MethodGet, "/public/charging-stations/all", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByOperator fetches the stations owned by the authenticated operator.
func (c *StationsClient) ListByOperator(ctx context.Context, token string) ([]models.StationSpots, error) {
	var out []models.StationSpots
	if err := c.base.JSON(ctx, http.MethodGet, "/private/charging-stations", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Filter asks the API for stations offering any of the connector types.
func (c *StationsClient) Filter(ctx context.Context, token string, connectors []models.ConnectorType) ([]models.StationSpots, error) {
	names := make([]string, 0, len(connectors))
	for _, ct := range connectors {
		names = append(names, string(ct))
	}
	q := url.Values{}
	q.Set("connectorTypeInputs", strings.Join(names, ","))

	var out []models.StationSpots
	if err := c.base.JSON(ctx, http.MethodGet, "/public/charging-stations/filter?"+q.Encode(), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *StationsClient) Create(ctx context.Context, token string, station models.Station) (*models.Station, error) {
	var out models.Station
	if err := c.base.JSON(ctx, http.MethodPost, "/private/charging-stations", token, station, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *StationsClient) Update(ctx context.Context, token string, station models.Station) (*models.Station, error) {
	var out models.Station
	if err := c.base.JSON(ctx, http.MethodPut, "/private/charging-stations", token, station, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *StationsClient) Delete(ctx context.Context, token string, id int64) error {
	return c.base.JSON(ctx, http.MethodDelete, fmt.Sprintf("/private/charging-stations/%d", id), token, nil, nil)
}
