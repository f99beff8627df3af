package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/models"
)

// UserAPI is the subset of the account endpoints the service drives.
type UserAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, user models.User) (*models.User, error)
	Update(ctx context.Context, token string, user models.User) (*models.User, error)
	Delete(ctx context.Context, token string) error
}

// Service owns the session lifecycle: created on login, invalidated on logout, account
// deletion, profile update, backend rejection or expiry.
type Service struct {
	api     UserAPI
	store   Store
	cookies *CookieCodec
	ttl     time.Duration
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger
}

// NewService builds the auth service. ttl bounds sessions whose backend token carries no expiry.
func NewService(api UserAPI, store Store, cookies *CookieCodec, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		api:     api,
		store:   store,
		cookies: cookies,
		ttl:     ttl,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  logger,
	}
}

// Login authenticates against the API and opens a session.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := s.api.Login(ctx, strings.TrimSpace(email), password)
	if err != nil {
		if errors.Is(err, clients.ErrUnauthorized) || errors.Is(err, clients.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if resp.Token == "" {
		return nil, fmt.Errorf("auth: login response without token")
	}

	now := s.now()
	rec := Record{
		ID:        s.newID(),
		Token:     resp.Token,
		User:      resp.User(),
		CreatedAt: now,
		ExpiresAt: s.expiry(now, resp),
	}
	if err := s.store.Save(ctx, rec, rec.ExpiresAt.Sub(now)); err != nil {
		return nil, fmt.Errorf("auth: save session: %w", err)
	}

	s.logger.Info("session opened",
		zap.Int64("user_id", rec.User.ID),
		zap.String("role", string(rec.User.Role)),
		zap.Time("expires_at", rec.ExpiresAt),
	)
	return newSession(rec), nil
}

// expiry prefers the token's exp claim, then the response's expires field, then the TTL, and
// never exceeds now+ttl. Sources already in the past are skipped.
func (s *Service) expiry(now time.Time, resp *models.LoginResponse) time.Time {
	limit := now.Add(s.ttl)
	var candidates []time.Time
	if t, ok := tokenExpiry(resp.Token); ok {
		candidates = append(candidates, t)
	}
	if resp.Expires > 0 {
		candidates = append(candidates, time.UnixMilli(resp.Expires))
	}
	for _, exp := range candidates {
		if !exp.After(now) {
			s.logger.Warn("ignoring past login expiry", zap.Time("expires_at", exp))
			continue
		}
		if exp.After(limit) {
			return limit
		}
		return exp
	}
	return limit
}

// Cookie signs the browser cookie value for sess.
func (s *Service) Cookie(sess *Session) (string, error) {
	return s.cookies.Issue(sess.ID(), sess.ExpiresAt())
}

// Resolve maps a cookie value to its live session.
func (s *Service) Resolve(ctx context.Context, cookie string) (*Session, error) {
	id, err := s.cookies.Parse(cookie)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sess := newSession(*rec)
	if sess.Expired(s.now()) {
		_ = s.store.Delete(ctx, id)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Logout invalidates sess.
func (s *Service) Logout(ctx context.Context, sess *Session) error {
	return s.Invalidate(ctx, sess.ID())
}

// Invalidate drops the session with the given id.
func (s *Service) Invalidate(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("auth: delete session: %w", err)
	}
	s.logger.Info("session closed", zap.String("session_id", id))
	return nil
}

// Register creates an account. It does not log the user in.
func (s *Service) Register(ctx context.Context, user models.User) (*models.User, error) {
	created, err := s.api.Register(ctx, user)
	if err != nil {
		return nil, err
	}
	out := created.Public()
	return &out, nil
}

// UpdateProfile edits the account and closes the session so the user signs in with the new
// credentials.
func (s *Service) UpdateProfile(ctx context.Context, sess *Session, user models.User) (*models.User, error) {
	user.ID = sess.User().ID
	user.Role = sess.Role()
	updated, err := s.api.Update(ctx, sess.Token(), user)
	if err != nil {
		s.dropOnUnauthorized(ctx, sess, err)
		return nil, err
	}
	if err := s.Logout(ctx, sess); err != nil {
		return nil, err
	}
	out := updated.Public()
	return &out, nil
}

// DeleteAccount removes the account and its session.
func (s *Service) DeleteAccount(ctx context.Context, sess *Session) error {
	if err := s.api.Delete(ctx, sess.Token()); err != nil {
		s.dropOnUnauthorized(ctx, sess, err)
		return err
	}
	return s.Logout(ctx, sess)
}

// CheckUpstream closes sess when err shows the backend rejected its token. It reports whether
// the session was dropped.
func (s *Service) CheckUpstream(ctx context.Context, sess *Session, err error) bool {
	return s.dropOnUnauthorized(ctx, sess, err)
}

func (s *Service) dropOnUnauthorized(ctx context.Context, sess *Session, err error) bool {
	apiErr, ok := clients.AsAPIError(err)
	if !ok || apiErr.StatusCode != http.StatusUnauthorized {
		return false
	}
	if dropErr := s.Invalidate(ctx, sess.ID()); dropErr != nil {
		s.logger.Warn("failed to drop rejected session", zap.Error(dropErr))
	}
	return true
}
