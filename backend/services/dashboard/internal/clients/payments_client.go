package clients

import (
	"context"
	"fmt"
	"net/http"

	"greendash/backend/services/dashboard/internal/models"
)

// PaymentsClient asks the API to open a payment with the processor.
type PaymentsClient struct {
	base *BaseClient
}

// NewPaymentsClient returns client.
func NewPaymentsClient(base *BaseClient) *PaymentsClient {
	return &PaymentsClient{base: base}
}

// CreateIntent returns the processor client secret for a session.
func (c *PaymentsClient) CreateIntent(ctx context.Context, token string, sessionID int64) (*models.PaymentIntent, error) {
	var out models.PaymentIntent
	path := fmt.Sprintf("/private/payment/create-intent/%d", sessionID)
	if err := c.base.JSON(ctx, http.MethodPost, path, token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
