package payment

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

// Status is the outcome of a payment hand-off.
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
	StatusPending   Status = "pending"
)

// ErrMissingSecret is returned when the API produced no client secret.
var ErrMissingSecret = errors.New("payment: client secret missing")

// Result describes where a payment stands and what the browser needs to continue it.
type Result struct {
	Status          Status `json:"status"`
	SessionID       int64  `json:"sessionId,omitempty"`
	PaymentIntentID string `json:"paymentIntentId,omitempty"`
	ClientSecret    string `json:"clientSecret,omitempty"`
	PublishableKey  string `json:"publishableKey,omitempty"`
	ReturnURL       string `json:"returnUrl,omitempty"`
	Message         string `json:"message,omitempty"`
}

// Processor confirms a payment created by the API. The processor itself is opaque.
type Processor interface {
	Confirm(ctx context.Context, clientSecret string) (Result, error)
}

// HostedProcessor leaves confirmation to the processor's hosted UI in the browser. Confirm
// hands back what the browser needs to mount it; the outcome arrives later on the return URL.
type HostedProcessor struct {
	publishableKey string
	returnURL      string
}

// NewHostedProcessor returns a processor for the hosted payment UI.
func NewHostedProcessor(publishableKey, returnURL string) *HostedProcessor {
	return &HostedProcessor{publishableKey: publishableKey, returnURL: returnURL}
}

func (p *HostedProcessor) Confirm(_ context.Context, clientSecret string) (Result, error) {
	if strings.TrimSpace(clientSecret) == "" {
		return Result{Status: StatusFailed}, ErrMissingSecret
	}
	return Result{
		Status:         StatusPending,
		ClientSecret:   clientSecret,
		PublishableKey: p.publishableKey,
		ReturnURL:      p.returnURL,
	}, nil
}

// ParseReturn reads the query the processor appends to the return URL.
func ParseReturn(values url.Values) Result {
	res := Result{PaymentIntentID: values.Get("payment_intent")}
	switch strings.ToLower(values.Get("redirect_status")) {
	case "succeeded":
		res.Status = StatusSucceeded
	case "processing":
		res.Status = StatusPending
	case "canceled", "cancelled":
		res.Status = StatusCancelled
		res.Message = "payment was cancelled"
	case "failed", "requires_payment_method":
		res.Status = StatusFailed
		res.Message = "payment failed, try a different payment method"
	default:
		res.Status = StatusFailed
		res.Message = "unknown payment outcome"
	}
	return res
}
