package payment

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/models"
)

// IntentCreator opens a payment for a session on the API.
type IntentCreator interface {
	CreateIntent(ctx context.Context, token string, sessionID int64) (*models.PaymentIntent, error)
}

// Recorder counts outcomes.
type Recorder interface {
	ObservePayment(status string)
}

// Service runs the payment hand-off for a booked session.
type Service struct {
	intents   IntentCreator
	processor Processor
	recorder  Recorder
	logger    *zap.Logger
}

// NewService builds payment service. recorder may be nil.
func NewService(intents IntentCreator, processor Processor, recorder Recorder, logger *zap.Logger) *Service {
	return &Service{intents: intents, processor: processor, recorder: recorder, logger: logger}
}

// Checkout creates the intent for sessionID and passes its secret to the processor.
func (s *Service) Checkout(ctx context.Context, token string, sessionID int64) (Result, error) {
	intent, err := s.intents.CreateIntent(ctx, token, sessionID)
	if err != nil {
		s.logger.Warn("create payment intent failed", zap.Int64("session_id", sessionID), zap.Error(err))
		s.record(StatusFailed)
		return Result{Status: StatusFailed, SessionID: sessionID}, err
	}

	res, err := s.processor.Confirm(ctx, intent.ClientSecret)
	res.SessionID = sessionID
	res.PaymentIntentID = intent.PaymentIntentID
	if err != nil {
		s.logger.Warn("payment confirmation failed", zap.Int64("session_id", sessionID), zap.Error(err))
		s.record(StatusFailed)
		return res, err
	}
	res.ReturnURL = withSession(res.ReturnURL, sessionID)

	s.logger.Info("payment started",
		zap.Int64("session_id", sessionID),
		zap.String("payment_intent", intent.PaymentIntentID),
		zap.String("status", string(res.Status)),
	)
	s.record(res.Status)
	return res, nil
}

// Complete maps the processor's return query to a result.
func (s *Service) Complete(values url.Values) Result {
	res := ParseReturn(values)
	if id, err := strconv.ParseInt(values.Get("session"), 10, 64); err == nil {
		res.SessionID = id
	}
	s.logger.Info("payment returned",
		zap.Int64("session_id", res.SessionID),
		zap.String("payment_intent", res.PaymentIntentID),
		zap.String("status", string(res.Status)),
	)
	s.record(res.Status)
	return res
}

func (s *Service) record(status Status) {
	if s.recorder != nil {
		s.recorder.ObservePayment(string(status))
	}
}

func withSession(returnURL string, sessionID int64) string {
	if returnURL == "" {
		return ""
	}
	u, err := url.Parse(returnURL)
	if err != nil {
		return returnURL
	}
	q := u.Query()
	q.Set("session", strconv.FormatInt(sessionID, 10))
	u.RawQuery = q.Encode()
	return u.String()
}
