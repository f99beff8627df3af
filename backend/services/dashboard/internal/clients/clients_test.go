package clients

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greendash/backend/services/dashboard/internal/models"
)

type recordedCall struct {
	method string
	path   string
	query  string
	auth   string
	body   string
}

type fakeAPI struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (f *fakeAPI) last() recordedCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[len(f.calls)-1]
}

func newFakeAPI(t *testing.T, handler http.HandlerFunc) (*fakeAPI, *API) {
	t.Helper()
	f := &fakeAPI{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		f.mu.Lock()
		f.calls = append(f.calls, recordedCall{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			auth:   r.Header.Get("Authorization"),
			body:   string(body),
		})
		f.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return f, NewAPI(srv.URL+"/api/v1/", srv.Client())
}

func respond(status int, payload interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if payload != nil {
			_ = json.NewEncoder(w).Encode(payload)
		}
	}
}

func TestUsersClient_Login(t *testing.T) {
	f, api := newFakeAPI(t, respond(http.StatusOK, models.LoginResponse{
		ID: 7, Name: "Ana", Email: "ana@example.com", Role: models.RoleUser, Token: "tok", Expires: 1700000000000,
	}))

	resp, err := api.Users.Login(context.Background(), "ana@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", resp.Token)
	assert.Equal(t, models.RoleUser, resp.User().Role)

	call := f.last()
	assert.Equal(t, http.MethodPost, call.method)
	assert.Equal(t, "/api/v1/public/user-table/login", call.path)
	assert.Empty(t, call.auth)
	assert.JSONEq(t, `{"email":"ana@example.com","password":"pw"}`, call.body)
}

func TestStationsClient_ListSendsBearer(t *testing.T) {
	f, api := newFakeAPI(t, respond(http.StatusOK, []models.StationSpots{
		{ChargingStation: &models.Station{ID: 1, Name: "A"}, Spots: []models.Spot{{ID: 2, State: models.SpotFree}}},
	}))

	stations, err := api.Stations.ListAll(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, stations, 1)
	assert.Equal(t, "A", stations[0].ChargingStation.Name)

	call := f.last()
	assert.Equal(t, "/api/v1/public/charging-stations/all", call.path)
	assert.Equal(t, "Bearer tok", call.auth)
}

func TestStationsClient_Filter(t *testing.T) {
	f, api := newFakeAPI(t, respond(http.StatusOK, []models.StationSpots{}))

	_, err := api.Stations.Filter(context.Background(), "", []models.ConnectorType{models.ConnectorCCS, models.ConnectorMennekes})
	require.NoError(t, err)

	call := f.last()
	assert.Equal(t, "/api/v1/public/charging-stations/filter", call.path)
	assert.Equal(t, "connectorTypeInputs=CCS%2CMENNEKES", call.query)
}

func TestSpotsClient_UpdateStatus(t *testing.T) {
	f, api := newFakeAPI(t, respond(http.StatusOK, models.Spot{ID: 4, State: models.SpotOutOfService}))

	spot, err := api.Spots.UpdateStatus(context.Background(), "tok", 4, models.SpotOutOfService)
	require.NoError(t, err)
	assert.Equal(t, models.SpotOutOfService, spot.State)

	call := f.last()
	assert.Equal(t, http.MethodPut, call.method)
	assert.Equal(t, "/api/v1/private/charging-spots/status/4", call.path)
	assert.Equal(t, "status=OUT_OF_SERVICE", call.query)
}

func TestSessionsClient_CreateEncodesISOStart(t *testing.T) {
	f, api := newFakeAPI(t, respond(http.StatusCreated, models.Session{ID: 10, UUID: "u-1"}))

	start := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	created, err := api.Sessions.Create(context.Background(), "tok", models.Session{
		UUID:         "u-1",
		StartTime:    models.NewInstant(start),
		Duration:     10800,
		ChargingSpot: &models.Spot{ID: 3},
		Vehicle:      &models.Vehicle{ID: 5},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(f.last().body), &sent))
	assert.Equal(t, "2026-10-19T10:00:00.000Z", sent["startTime"])
	assert.Equal(t, float64(10800), sent["duration"])
}

func TestDeleteAcceptsEmptyBody(t *testing.T) {
	f, api := newFakeAPI(t, respond(http.StatusNoContent, nil))

	require.NoError(t, api.Vehicles.Delete(context.Background(), "tok", 9))
	assert.Equal(t, "/api/v1/private/vehicles/9", f.last().path)
	assert.Equal(t, http.MethodDelete, f.last().method)
}

func TestNon2xxBecomesAPIError(t *testing.T) {
	_, api := newFakeAPI(t, respond(http.StatusUnauthorized, map[string]string{"message": "token expired"}))

	_, err := api.Sessions.ListMine(context.Background(), "old")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.False(t, errors.Is(err, ErrNotFound))

	apiErr, ok := AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token expired", apiErr.Message)
	assert.Contains(t, apiErr.Error(), "API request failed")
}

func TestNon2xxWithoutBodyUsesStatusText(t *testing.T) {
	_, api := newFakeAPI(t, respond(http.StatusNotFound, nil))

	_, err := api.Spots.ListByStation(context.Background(), "", 3)
	assert.True(t, errors.Is(err, ErrNotFound))
	apiErr, _ := AsAPIError(err)
	assert.Equal(t, "Not Found", apiErr.Message)
}

func TestTransportErrorIsNotAPIError(t *testing.T) {
	api := NewAPI("http://127.0.0.1:1", &http.Client{Timeout: time.Second})

	_, err := api.Vehicles.List(context.Background(), "tok")
	require.Error(t, err)
	_, ok := AsAPIError(err)
	assert.False(t, ok)
}

type observerFunc func(method, endpoint string, status int)

func (f observerFunc) ObserveUpstream(method, endpoint string, status int, _ time.Duration) {
	f(method, endpoint, status)
}

func TestObserverSeesCollapsedEndpoint(t *testing.T) {
	srv := httptest.NewServer(respond(http.StatusOK, []models.Session{}))
	defer srv.Close()

	var gotEndpoint string
	var gotStatus int
	api := NewAPI(srv.URL, srv.Client(), WithObserver(observerFunc(func(_ string, endpoint string, status int) {
		gotEndpoint = endpoint
		gotStatus = status
	})))

	_, err := api.Sessions.ListByStation(context.Background(), "tok", 42)
	require.NoError(t, err)
	assert.Equal(t, "/private/session/station/:id", gotEndpoint)
	assert.Equal(t, http.StatusOK, gotStatus)
}

func TestEndpointLabel(t *testing.T) {
	assert.Equal(t, "/private/charging-spots/status/:id", endpointLabel("/private/charging-spots/status/12?status=FREE"))
	assert.Equal(t, "/public/charging-stations/all", endpointLabel("public/charging-stations/all"))
}
