package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"greendash/backend/services/dashboard/internal/availability"
	"greendash/backend/services/dashboard/internal/models"
	"greendash/backend/services/dashboard/internal/poller"
)

// Message types exchanged on the feed.
const (
	TypeStations        = "stations"
	TypeToggleConnector = "toggleConnector"
	TypeRefresh         = "refresh"
)

// StationSource lists stations with their spots.
type StationSource interface {
	ListAll(ctx context.Context, token string) ([]models.StationSpots, error)
	ListByOperator(ctx context.Context, token string) ([]models.StationSpots, error)
}

// Identity is the authenticated viewer of a feed.
type Identity struct {
	UserID   int64
	Token    string
	Operator bool
}

// Snapshot is what the browser receives on every change.
type Snapshot struct {
	Type       string                     `json:"type"`
	Connectors []models.ConnectorType     `json:"connectors"`
	Stations   []availability.StationView `json:"stations"`
	UpdatedAt  time.Time                  `json:"updatedAt"`
}

// ClientMessage is sent by the browser.
type ClientMessage struct {
	Type      string `json:"type"`
	Connector string `json:"connector,omitempty"`
}

// feed is the per-connection view state: the last station list and the connector filter.
type feed struct {
	identity Identity
	source   StationSource
	push     func([]byte)
	now      func() time.Time

	mu        sync.Mutex
	filter    availability.ConnectorSet
	stations  []models.StationSpots
	updatedAt time.Time

	poller *poller.Poller[[]models.StationSpots]
}

func newFeed(identity Identity, source StationSource, filter availability.ConnectorSet, push func([]byte), opts ...poller.Option) *feed {
	f := &feed{
		identity: identity,
		source:   source,
		push:     push,
		now:      time.Now,
		filter:   filter,
	}
	f.poller = poller.New("station-feed", f.fetch, f.apply, opts...)
	return f
}

func (f *feed) fetch(ctx context.Context) ([]models.StationSpots, error) {
	if f.identity.Operator {
		return f.source.ListByOperator(ctx, f.identity.Token)
	}
	return f.source.ListAll(ctx, f.identity.Token)
}

func (f *feed) apply(stations []models.StationSpots) {
	f.mu.Lock()
	f.stations = stations
	f.updatedAt = f.now().UTC()
	msg := f.render()
	f.mu.Unlock()
	f.push(msg)
}

// render must be called with f.mu held.
func (f *feed) render() []byte {
	snap := Snapshot{
		Type:       TypeStations,
		Connectors: f.filter.Slice(),
		Stations:   availability.BuildViews(availability.FilterByConnector(f.stations, f.filter)),
		UpdatedAt:  f.updatedAt,
	}
	data, _ := json.Marshal(snap)
	return data
}

// Process handles browser messages.
func (f *feed) Process(ctx context.Context, raw []byte) error {
	var msg ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return fmt.Errorf("ws: decode message: %w", err)
	}
	switch msg.Type {
	case TypeToggleConnector:
		ct, err := models.ParseConnectorType(strings.TrimSpace(msg.Connector))
		if err != nil {
			return err
		}
		f.mu.Lock()
		f.filter.Toggle(ct)
		out := f.render()
		f.mu.Unlock()
		f.push(out)
		return nil
	case TypeRefresh:
		_, err := f.poller.Refresh(ctx)
		return err
	default:
		return fmt.Errorf("ws: unknown message type %q", msg.Type)
	}
}

func (f *feed) stop() {
	f.poller.Stop()
}
