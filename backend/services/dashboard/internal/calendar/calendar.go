// Package calendar implements the weekly hour grid used to book a charging spot.
package calendar

import (
	"sync"
	"time"

	"greendash/backend/services/dashboard/internal/models"
)

const (
	DaysPerWeek = 7
	HoursPerDay = 24
)

// Clock supplies the evaluation time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SelectFunc receives the selected range every time it changes.
type SelectFunc func(start time.Time, durationSeconds int64)

// Option customises a Calendar.
type Option func(*Calendar)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option {
	return func(cal *Calendar) { cal.clock = c }
}

// WithLocation sets the time zone the grid is laid out in. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(cal *Calendar) {
		if loc != nil {
			cal.loc = loc
		}
	}
}

// WithSelectFunc registers the selection callback.
func WithSelectFunc(fn SelectFunc) Option {
	return func(cal *Calendar) { cal.onSelect = fn }
}

// Calendar is the 7x24 availability grid of one spot plus the user's in-progress selection.
// It is safe for concurrent use.
type Calendar struct {
	mu sync.Mutex

	spotID   int64
	sessions []models.Session
	clock    Clock
	loc      *time.Location
	onSelect SelectFunc

	weekStart time.Time
	anchor    time.Time
	end       time.Time
	selecting bool
}

// New builds a calendar showing the week that contains now.
func New(spotID int64, sessions []models.Session, opts ...Option) *Calendar {
	c := &Calendar{
		spotID: spotID,
		clock:  systemClock{},
		loc:    time.Local,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.sessions = copySessions(sessions)
	c.weekStart = StartOfWeek(c.clock.Now().In(c.loc))
	return c
}

// SpotID returns the spot the grid belongs to.
func (c *Calendar) SpotID() int64 {
	return c.spotID
}

// SetSessions replaces the occupancy data. The selection is kept.
func (c *Calendar) SetSessions(sessions []models.Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions = copySessions(sessions)
}

// Sessions returns a copy of the occupancy data.
func (c *Calendar) Sessions() []models.Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copySessions(c.sessions)
}

// WeekStart is midnight of the Sunday opening the displayed week.
func (c *Calendar) WeekStart() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.weekStart
}

// NextWeek moves the window forward seven days.
func (c *Calendar) NextWeek() {
	c.shiftWeek(1)
}

// PrevWeek moves the window back seven days.
func (c *Calendar) PrevWeek() {
	c.shiftWeek(-1)
}

func (c *Calendar) shiftWeek(weeks int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.weekStart = c.weekStart.AddDate(0, 0, DaysPerWeek*weeks)
}

// CellTime returns the start of the hour cell at (day, hour) of the displayed week.
func (c *Calendar) CellTime(day, hour int) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cellTime(day, hour)
}

func (c *Calendar) cellTime(day, hour int) time.Time {
	d := c.weekStart.AddDate(0, 0, day)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, c.loc)
}

// Available reports whether the hour starting at t can be booked: it is not in the past and no
// session covers it.
func (c *Calendar) Available(t time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available(c.truncate(t), c.clock.Now())
}

func (c *Calendar) available(hour, now time.Time) bool {
	if hour.Before(now) {
		return false
	}
	return c.occupant(hour) == nil
}

func (c *Calendar) occupant(hour time.Time) *models.Session {
	for i := range c.sessions {
		if c.sessions[i].Covers(hour) {
			return &c.sessions[i]
		}
	}
	return nil
}

// truncate floors t to the start of its hour in the calendar's location.
func (c *Calendar) truncate(t time.Time) time.Time {
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, c.loc)
}

// StartOfWeek returns midnight of the Sunday on or before t, in t's location.
func StartOfWeek(t time.Time) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -int(day.Weekday()))
}

func isSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func copySessions(in []models.Session) []models.Session {
	out := make([]models.Session, len(in))
	copy(out, in)
	return out
}
