package auth

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/clients"
	"greendash/backend/services/dashboard/internal/models"
)

type fakeUserAPI struct {
	loginFn    func(ctx context.Context, email, password string) (*models.LoginResponse, error)
	registerFn func(ctx context.Context, user models.User) (*models.User, error)
	updateFn   func(ctx context.Context, token string, user models.User) (*models.User, error)
	deleteFn   func(ctx context.Context, token string) error
}

func (f *fakeUserAPI) Login(ctx context.Context, email, password string) (*models.LoginResponse, error) {
	return f.loginFn(ctx, email, password)
}

func (f *fakeUserAPI) Register(ctx context.Context, user models.User) (*models.User, error) {
	return f.registerFn(ctx, user)
}

func (f *fakeUserAPI) Update(ctx context.Context, token string, user models.User) (*models.User, error) {
	return f.updateFn(ctx, token, user)
}

func (f *fakeUserAPI) Delete(ctx context.Context, token string) error {
	return f.deleteFn(ctx, token)
}

var testNow = time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

func backendToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("backend-key"))
	require.NoError(t, err)
	return tok
}

func newTestService(api UserAPI) (*Service, *MemoryStore, *time.Time) {
	clock := testNow
	store := NewMemoryStore(time.Minute)
	cookies := NewCookieCodec("cookie-secret")
	cookies.now = func() time.Time { return clock }
	svc := NewService(api, store, cookies, 12*time.Hour, zap.NewNop())
	svc.now = func() time.Time { return clock }
	svc.newID = func() string { return "sid-1" }
	return svc, store, &clock
}

func okLogin(token string, expires int64) *fakeUserAPI {
	return &fakeUserAPI{
		loginFn: func(_ context.Context, email, password string) (*models.LoginResponse, error) {
			return &models.LoginResponse{ID: 7, Name: "Ana", Email: email, Role: models.RoleOperator, Token: token, Expires: expires}, nil
		},
	}
}

func TestLogin_OpensSessionFromTokenExpiry(t *testing.T) {
	exp := testNow.Add(2 * time.Hour)
	svc, store, _ := newTestService(okLogin(backendToken(t, exp), 0))

	sess, err := svc.Login(context.Background(), " ana@example.com ", "pw")
	require.NoError(t, err)

	assert.Equal(t, "sid-1", sess.ID())
	assert.True(t, sess.IsOperator())
	assert.Equal(t, "ana@example.com", sess.User().Email)
	assert.True(t, exp.Equal(sess.ExpiresAt()))
	assert.Equal(t, 1, store.Len())
}

func TestLogin_ExpiryFallbacks(t *testing.T) {
	svc, _, _ := newTestService(okLogin("opaque-token", testNow.Add(time.Hour).UnixMilli()))
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, testNow.Add(time.Hour).Equal(sess.ExpiresAt()))

	svc, _, _ = newTestService(okLogin("opaque-token", 0))
	sess, err = svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, testNow.Add(12*time.Hour).Equal(sess.ExpiresAt()), "falls back to ttl")

	svc, _, _ = newTestService(okLogin(backendToken(t, testNow.Add(72*time.Hour)), 0))
	sess, err = svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, testNow.Add(12*time.Hour).Equal(sess.ExpiresAt()), "capped at ttl")
}

func TestLogin_PastExpiryFallsBack(t *testing.T) {
	svc, store, clock := newTestService(okLogin("opaque-token", 3600000))
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, testNow.Add(12*time.Hour).Equal(sess.ExpiresAt()), "stale expires ignored")

	cookie, err := svc.Cookie(sess)
	require.NoError(t, err)
	_, err = svc.Resolve(context.Background(), cookie)
	require.NoError(t, err)

	item, ok := store.cache.Items()[sess.ID()]
	require.True(t, ok)
	assert.NotZero(t, item.Expiration, "stored entry carries a ttl")

	*clock = clock.Add(13 * time.Hour)
	_, err = svc.Resolve(context.Background(), cookie)
	assert.Error(t, err)

	expired := backendToken(t, testNow.Add(-time.Minute))
	svc, _, _ = newTestService(okLogin(expired, testNow.Add(time.Hour).UnixMilli()))
	sess, err = svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	assert.True(t, testNow.Add(time.Hour).Equal(sess.ExpiresAt()), "expired token claim ignored")
}

func TestMemoryStore_RejectsNonPositiveTTL(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	err := store.Save(context.Background(), Record{ID: "x"}, 0)
	assert.ErrorIs(t, err, ErrNonPositiveTTL)
	assert.Equal(t, 0, store.Len())
}

func TestLogin_RejectedCredentials(t *testing.T) {
	api := &fakeUserAPI{loginFn: func(context.Context, string, string) (*models.LoginResponse, error) {
		return nil, &clients.APIError{StatusCode: http.StatusUnauthorized}
	}}
	svc, store, _ := newTestService(api)

	_, err := svc.Login(context.Background(), "a@example.com", "bad")
	assert.True(t, errors.Is(err, ErrInvalidCredentials))
	assert.Equal(t, 0, store.Len())
}

func TestLogin_UpstreamFailurePassesThrough(t *testing.T) {
	boom := errors.New("connection refused")
	api := &fakeUserAPI{loginFn: func(context.Context, string, string) (*models.LoginResponse, error) {
		return nil, boom
	}}
	svc, _, _ := newTestService(api)

	_, err := svc.Login(context.Background(), "a@example.com", "pw")
	assert.ErrorIs(t, err, boom)
}

func TestResolve(t *testing.T) {
	svc, _, clock := newTestService(okLogin("opaque", 0))
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	cookie, err := svc.Cookie(sess)
	require.NoError(t, err)

	resolved, err := svc.Resolve(context.Background(), cookie)
	require.NoError(t, err)
	assert.Equal(t, "opaque", resolved.Token())
	assert.Empty(t, resolved.User().Password)

	_, err = svc.Resolve(context.Background(), cookie+"x")
	assert.ErrorIs(t, err, ErrInvalidCookie)

	*clock = clock.Add(13 * time.Hour)
	_, err = svc.Resolve(context.Background(), cookie)
	assert.ErrorIs(t, err, ErrSessionExpired)
}

func TestResolve_StoreEntryExpiredBeforeCookie(t *testing.T) {
	svc, store, clock := newTestService(okLogin("opaque", 0))
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	cookie, err := svc.Cookie(sess)
	require.NoError(t, err)

	rec, err := store.Get(context.Background(), sess.ID())
	require.NoError(t, err)
	rec.ExpiresAt = clock.Add(time.Minute)
	require.NoError(t, store.Save(context.Background(), *rec, 24*time.Hour))

	*clock = clock.Add(time.Hour)
	_, err = svc.Resolve(context.Background(), cookie)
	assert.ErrorIs(t, err, ErrSessionExpired)
	assert.Equal(t, 0, store.Len())
}

func TestLogoutInvalidates(t *testing.T) {
	svc, _, _ := newTestService(okLogin("opaque", 0))
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)
	cookie, _ := svc.Cookie(sess)

	require.NoError(t, svc.Logout(context.Background(), sess))
	_, err = svc.Resolve(context.Background(), cookie)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestUpdateProfileClosesSession(t *testing.T) {
	api := okLogin("opaque", 0)
	var sent models.User
	api.updateFn = func(_ context.Context, token string, user models.User) (*models.User, error) {
		assert.Equal(t, "opaque", token)
		sent = user
		user.Password = "hash"
		return &user, nil
	}
	svc, store, _ := newTestService(api)
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(context.Background(), sess, models.User{Name: "New", Email: "n@example.com"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), sent.ID)
	assert.Equal(t, models.RoleOperator, sent.Role)
	assert.Empty(t, updated.Password)
	assert.Equal(t, 0, store.Len())
}

func TestDeleteAccount(t *testing.T) {
	api := okLogin("opaque", 0)
	deleted := false
	api.deleteFn = func(context.Context, string) error {
		deleted = true
		return nil
	}
	svc, store, _ := newTestService(api)
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(context.Background(), sess))
	assert.True(t, deleted)
	assert.Equal(t, 0, store.Len())
}

func TestDeleteAccount_FailureKeepsSession(t *testing.T) {
	api := okLogin("opaque", 0)
	api.deleteFn = func(context.Context, string) error {
		return &clients.APIError{StatusCode: http.StatusInternalServerError}
	}
	svc, store, _ := newTestService(api)
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	assert.Error(t, svc.DeleteAccount(context.Background(), sess))
	assert.Equal(t, 1, store.Len())
}

func TestCheckUpstream(t *testing.T) {
	svc, store, _ := newTestService(okLogin("opaque", 0))
	sess, err := svc.Login(context.Background(), "a@example.com", "pw")
	require.NoError(t, err)

	assert.False(t, svc.CheckUpstream(context.Background(), sess, errors.New("timeout")))
	assert.False(t, svc.CheckUpstream(context.Background(), sess, &clients.APIError{StatusCode: http.StatusForbidden}))
	assert.Equal(t, 1, store.Len())

	assert.True(t, svc.CheckUpstream(context.Background(), sess, &clients.APIError{StatusCode: http.StatusUnauthorized}))
	assert.Equal(t, 0, store.Len())
}

func TestRegisterDropsPassword(t *testing.T) {
	api := &fakeUserAPI{registerFn: func(_ context.Context, user models.User) (*models.User, error) {
		user.ID = 3
		return &user, nil
	}}
	svc, _, _ := newTestService(api)

	created, err := svc.Register(context.Background(), models.User{Name: "A", Email: "a@example.com", Password: "longenough"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), created.ID)
	assert.Empty(t, created.Password)
}
