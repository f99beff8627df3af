package ws

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"greendash/backend/services/dashboard/internal/availability"
	"greendash/backend/services/dashboard/internal/models"
)

type fakeSource struct {
	all      []models.StationSpots
	operator []models.StationSpots
	allCalls int32
	opCalls  int32
}

func (f *fakeSource) ListAll(ctx context.Context, token string) ([]models.StationSpots, error) {
	atomic.AddInt32(&f.allCalls, 1)
	return f.all, nil
}

func (f *fakeSource) ListByOperator(ctx context.Context, token string) ([]models.StationSpots, error) {
	atomic.AddInt32(&f.opCalls, 1)
	return f.operator, nil
}

type counters struct {
	connected, disconnected, pushed int32
}

func (c *counters) WSConnected()    { atomic.AddInt32(&c.connected, 1) }
func (c *counters) WSDisconnected() { atomic.AddInt32(&c.disconnected, 1) }
func (c *counters) WSPushed()       { atomic.AddInt32(&c.pushed, 1) }

func station(id int64, connectors ...models.ConnectorType) models.StationSpots {
	st := models.StationSpots{ChargingStation: &models.Station{ID: id, Name: "S"}}
	for i, ct := range connectors {
		st.Spots = append(st.Spots, models.Spot{ID: id*10 + int64(i), ConnectorType: ct, State: models.SpotFree})
	}
	return st
}

func startServer(t *testing.T, source StationSource, identity IdentityFunc) (*httptest.Server, *Hub, *counters) {
	t.Helper()
	hub := NewHub(time.Hour, zap.NewNop())
	rec := &counters{}
	srv := NewServer(hub, source, identity, rec, Options{PollInterval: time.Hour}, zap.NewNop())
	ts := httptest.NewServer(http.HandlerFunc(srv.HandleWS))
	t.Cleanup(ts.Close)
	return ts, hub, rec
}

func dial(t *testing.T, ts *httptest.Server, query string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/stations" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readSnapshot(t *testing.T, conn *websocket.Conn) Snapshot {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var snap Snapshot
	require.NoError(t, conn.ReadJSON(&snap))
	return snap
}

func user(r *http.Request) (Identity, bool) {
	return Identity{UserID: 1, Token: "tok"}, true
}

func TestFeed_PushesClassifiedStations(t *testing.T) {
	source := &fakeSource{all: []models.StationSpots{
		station(1, models.ConnectorCCS, models.ConnectorCHAdeMO),
		station(2, models.ConnectorMennekes),
	}}
	ts, hub, rec := startServer(t, source, user)
	conn := dial(t, ts, "")

	snap := readSnapshot(t, conn)
	assert.Equal(t, TypeStations, snap.Type)
	require.Len(t, snap.Stations, 2)
	assert.Equal(t, availability.Available, snap.Stations[0].Status)
	assert.Empty(t, snap.Connectors)
	assert.Equal(t, 1, hub.Len())
	assert.Equal(t, int32(1), atomic.LoadInt32(&rec.connected))

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeToggleConnector, Connector: "ccs"}))
	snap = readSnapshot(t, conn)
	require.Len(t, snap.Stations, 1)
	assert.Equal(t, int64(1), snap.Stations[0].Station.ID)
	assert.Equal(t, []models.ConnectorType{models.ConnectorCCS}, snap.Connectors)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeToggleConnector, Connector: "CCS"}))
	snap = readSnapshot(t, conn)
	assert.Len(t, snap.Stations, 2, "empty filter shows every station")

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: TypeRefresh}))
	readSnapshot(t, conn)
	assert.Equal(t, int32(2), atomic.LoadInt32(&source.allCalls))
}

func TestFeed_InitialFilterFromQuery(t *testing.T) {
	source := &fakeSource{all: []models.StationSpots{
		station(1, models.ConnectorCCS),
		station(2, models.ConnectorMennekes),
	}}
	ts, _, _ := startServer(t, source, user)
	conn := dial(t, ts, "?connector=MENNEKES")

	snap := readSnapshot(t, conn)
	require.Len(t, snap.Stations, 1)
	assert.Equal(t, int64(2), snap.Stations[0].Station.ID)
}

func TestFeed_OperatorScope(t *testing.T) {
	source := &fakeSource{operator: []models.StationSpots{station(9, models.ConnectorCCS)}}
	ts, _, _ := startServer(t, source, func(*http.Request) (Identity, bool) {
		return Identity{UserID: 2, Token: "op", Operator: true}, true
	})
	conn := dial(t, ts, "")

	snap := readSnapshot(t, conn)
	require.Len(t, snap.Stations, 1)
	assert.Equal(t, int64(9), snap.Stations[0].Station.ID)
	assert.Zero(t, atomic.LoadInt32(&source.allCalls))
}

func TestFeed_DisconnectStopsPoller(t *testing.T) {
	source := &fakeSource{all: []models.StationSpots{station(1, models.ConnectorCCS)}}
	ts, hub, rec := startServer(t, source, user)
	conn := dial(t, ts, "")
	readSnapshot(t, conn)

	require.NoError(t, conn.Close())
	require.Eventually(t, func() bool { return hub.Len() == 0 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), atomic.LoadInt32(&rec.disconnected))
}

func TestHandleWS_RejectsAnonymous(t *testing.T) {
	ts, _, _ := startServer(t, &fakeSource{}, func(*http.Request) (Identity, bool) { return Identity{}, false })

	resp, err := http.Get(ts.URL + "/ws/stations")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestHandleWS_RejectsUnknownConnector(t *testing.T) {
	ts, _, _ := startServer(t, &fakeSource{}, user)

	resp, err := http.Get(ts.URL + "/ws/stations?connector=TYPE9")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCheckOrigin(t *testing.T) {
	s := NewServer(NewHub(0, zap.NewNop()), &fakeSource{}, user, nil, Options{AllowedOrigins: []string{"http://dash.local"}}, zap.NewNop())

	r := httptest.NewRequest(http.MethodGet, "/ws/stations", nil)
	assert.True(t, s.checkOrigin(r))
	r.Header.Set("Origin", "http://dash.local")
	assert.True(t, s.checkOrigin(r))
	r.Header.Set("Origin", "http://evil.example")
	assert.False(t, s.checkOrigin(r))
}
