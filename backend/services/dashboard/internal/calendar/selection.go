package calendar

import "time"

// Selection is a contiguous single-day range of hour cells.
type Selection struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Duration int64     `json:"duration"`
}

// Click handles a click on the hour containing t. Unavailable cells are ignored entirely.
// The first click anchors a range, a click on the anchor's day extends it and a click on any
// other day re-anchors.
func (c *Calendar) Click(t time.Time) {
	c.mu.Lock()
	hour := c.truncate(t)
	if !c.available(hour, c.clock.Now()) {
		c.mu.Unlock()
		return
	}

	if !c.selecting || !isSameDay(hour, c.anchor) {
		c.anchor = hour
		c.end = hour
		c.selecting = true
		c.mu.Unlock()
		return
	}

	c.end = hour
	sel := c.selection()
	fn := c.onSelect
	c.mu.Unlock()

	if fn != nil {
		fn(sel.Start, sel.Duration)
	}
}

// Hover extends an anchored range while the pointer stays on the anchor's day.
func (c *Calendar) Hover(t time.Time) {
	c.mu.Lock()
	hour := c.truncate(t)
	if !c.selecting || !isSameDay(hour, c.anchor) {
		c.mu.Unlock()
		return
	}

	c.end = hour
	sel := c.selection()
	fn := c.onSelect
	c.mu.Unlock()

	if fn != nil {
		fn(sel.Start, sel.Duration)
	}
}

// Selection returns the current range, if any.
func (c *Calendar) Selection() (Selection, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.selecting {
		return Selection{}, false
	}
	return c.selection(), true
}

// ClearSelection drops the anchor.
func (c *Calendar) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selecting = false
	c.anchor = time.Time{}
	c.end = time.Time{}
}

// selection reports the earlier endpoint as start and counts hours inclusively. The duration is
// elapsed time, so a range across a DST change counts the hours that actually exist.
func (c *Calendar) selection() Selection {
	first, last := c.anchor, c.end
	if last.Before(first) {
		first, last = last, first
	}
	end := last.Add(time.Hour)
	return Selection{
		Start:    first,
		End:      end,
		Duration: int64(end.Sub(first) / time.Second),
	}
}

func (c *Calendar) inSelection(hour time.Time) bool {
	if !c.selecting {
		return false
	}
	first, last := c.anchor, c.end
	if last.Before(first) {
		first, last = last, first
	}
	return !hour.Before(first) && !hour.After(last)
}
