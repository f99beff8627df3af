// Package schedule keeps the spot calendars a user is looking at between requests.
package schedule

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"greendash/backend/services/dashboard/internal/calendar"
	"greendash/backend/services/dashboard/internal/models"
)

// DefaultTTL is how long an untouched view is kept.
const DefaultTTL = 30 * time.Minute

// Reported is the last range handed to the selection callback.
type Reported struct {
	Start    time.Time `json:"start"`
	Duration int64     `json:"duration"`
}

// View is one user's calendar of one spot.
type View struct {
	StationID int64
	Calendar  *calendar.Calendar

	mu       sync.Mutex
	reported *Reported
	changed  bool
}

func (v *View) onSelect(start time.Time, duration int64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.reported = &Reported{Start: start, Duration: duration}
	v.changed = true
}

// Reported returns the last callback value, if any.
func (v *View) Reported() (Reported, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.reported == nil {
		return Reported{}, false
	}
	return *v.reported, true
}

// TakeChanged reports whether the callback fired since the previous call.
func (v *View) TakeChanged() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	changed := v.changed
	v.changed = false
	return changed
}

// Store holds views in a go-cache keyed by auth session and spot.
type Store struct {
	cache *cache.Cache
	opts  []calendar.Option
	mu    sync.Mutex
}

// NewStore returns a store expiring views after ttl without use. opts apply to every calendar.
func NewStore(ttl time.Duration, opts ...calendar.Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		cache: cache.New(ttl, ttl/2),
		opts:  opts,
	}
}

func key(sessionID string, spotID int64) string {
	return fmt.Sprintf("%s/%d", sessionID, spotID)
}

// Open returns the view for the spot, creating it on first use. An existing view keeps its week
// and selection and only gets fresh occupancy data.
func (s *Store) Open(sessionID string, stationID, spotID int64, sessions []models.Session) *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(sessionID, spotID)
	if v, ok := s.cache.Get(k); ok {
		view := v.(*View)
		view.StationID = stationID
		view.Calendar.SetSessions(sessions)
		s.cache.SetDefault(k, view)
		return view
	}

	view := &View{StationID: stationID}
	opts := append(append([]calendar.Option(nil), s.opts...), calendar.WithSelectFunc(view.onSelect))
	view.Calendar = calendar.New(spotID, sessions, opts...)
	s.cache.SetDefault(k, view)
	return view
}

// Get returns an existing view and refreshes its expiry.
func (s *Store) Get(sessionID string, spotID int64) (*View, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key(sessionID, spotID)
	v, ok := s.cache.Get(k)
	if !ok {
		return nil, false
	}
	s.cache.SetDefault(k, v)
	return v.(*View), true
}

// Drop forgets a single view.
func (s *Store) Drop(sessionID string, spotID int64) {
	s.cache.Delete(key(sessionID, spotID))
}

// DropSession forgets every view of an auth session.
func (s *Store) DropSession(sessionID string) {
	prefix := sessionID + "/"
	for k := range s.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			s.cache.Delete(k)
		}
	}
}

// Len returns the number of cached views.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}
