package clients

import (
	"context"
	"net/http"

	"greendash/backend/services/dashboard/internal/models"
)

// UsersClient covers account endpoints.
type UsersClient struct {
	base *BaseClient
}

// NewUsersClient returns client.
func NewUsersClient(base *BaseClient) *UsersClient {
	return &UsersClient{base: base}
}

// Login exchanges credentials for a bearer token.
func (c *UsersClient) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	req := models.LoginRequest{Email: email, Password: password}
	if err := c.base.JSON(ctx, http.MethodPost, "/public/user-table/login", "", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Register creates an account.
func (c *UsersClient) Register(ctx context.Context, user models.User) (*models.User, error) {
	var created models.User
	if err := c.base.JSON(ctx, http.MethodPost, "/public/user-table", "", user, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update edits the authenticated account.
func (c *UsersClient) Update(ctx context.Context, token string, user models.User) (*models.User, error) {
	var updated models.User
	if err := c.base.JSON(ctx, http.MethodPut, "/private/user-table", token, user, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes the authenticated account.
func (c *UsersClient) Delete(ctx context.Context, token string) error {
	return c.base.JSON(ctx, http.MethodDelete, "/private/user-table", token, nil, nil)
}
