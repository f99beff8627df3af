package clients

import (
	"context"
	"fmt"
	"net/http"

	"greendash/backend/services/dashboard/internal/models"
)

// SessionsClient covers charging session endpoints.
type SessionsClient struct {
	base *BaseClient
}

// NewSessionsClient returns client.
func NewSessionsClient(base *BaseClient) *SessionsClient {
	return &SessionsClient{base: base}
}

// ListMine fetches the sessions of the authenticated user.
func (c *SessionsClient) ListMine(ctx context.Context, token string) ([]models.Session, error) {
	var out []models.Session
	if err := c.base.JSON(ctx, http.MethodGet, "/private/session", token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListByStation fetches every session booked at a station.
func (c *SessionsClient) ListByStation(ctx context.Context, token string, stationID int64) ([]models.Session, error) {
	var out []models.Session
	if err := c.base.JSON(ctx, http.MethodGet, fmt.Sprintf("/private/session/station/%d", stationID), token, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *SessionsClient) Create(ctx context.Context, token string, session models.Session) (*models.Session, error) {
	var out models.Session
	if err := c.base.JSON(ctx, http.MethodPost, "/private/session", token, session, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *SessionsClient) Delete(ctx context.Context, token string, id int64) error {
	return c.base.JSON(ctx, http.MethodDelete, fmt.Sprintf("/private/session/%d", id), token, nil, nil)
}
