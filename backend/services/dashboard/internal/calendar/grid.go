package calendar

import "time"

// CellState classifies an hour cell.
type CellState string

const (
	CellAvailable CellState = "available"
	CellOccupied  CellState = "occupied"
	CellPast      CellState = "past"
	// CellSkipped marks a wall-clock hour that does not exist on a spring-forward day.
	CellSkipped CellState = "skipped"
)

// Cell is one hour of the grid.
type Cell struct {
	Hour        int       `json:"hour"`
	Start       time.Time `json:"start"`
	State       CellState `json:"state"`
	Selected    bool      `json:"selected"`
	Anchor      bool      `json:"anchor,omitempty"`
	SessionUUID string    `json:"sessionUuid,omitempty"`
}

// Day is one column of the grid.
type Day struct {
	Date  time.Time `json:"date"`
	Today bool      `json:"today"`
	Cells []Cell    `json:"cells"`
}

// Grid is the rendered week.
type Grid struct {
	SpotID    int64      `json:"spotId"`
	WeekStart time.Time  `json:"weekStart"`
	Days      []Day      `json:"days"`
	Selection *Selection `json:"selection,omitempty"`
}

// Grid evaluates every cell of the displayed week against the current time.
func (c *Calendar) Grid() Grid {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now().In(c.loc)
	grid := Grid{
		SpotID:    c.spotID,
		WeekStart: c.weekStart,
		Days:      make([]Day, 0, DaysPerWeek),
	}

	for d := 0; d < DaysPerWeek; d++ {
		date := c.cellTime(d, 0)
		day := Day{
			Date:  date,
			Today: isSameDay(date, now),
			Cells: make([]Cell, 0, HoursPerDay),
		}
		for h := 0; h < HoursPerDay; h++ {
			start := c.cellTime(d, h)
			if start.Hour() != h {
				day.Cells = append(day.Cells, Cell{Hour: h, Start: start, State: CellSkipped})
				continue
			}
			cell := Cell{Hour: h, Start: start, State: CellAvailable}
			switch {
			case start.Before(now):
				cell.State = CellPast
				if s := c.occupant(start); s != nil {
					cell.SessionUUID = s.UUID
				}
			default:
				if s := c.occupant(start); s != nil {
					cell.State = CellOccupied
					cell.SessionUUID = s.UUID
				}
			}
			cell.Selected = c.inSelection(start)
			cell.Anchor = c.selecting && start.Equal(c.anchor)
			day.Cells = append(day.Cells, cell)
		}
		grid.Days = append(grid.Days, day)
	}

	if c.selecting {
		sel := c.selection()
		grid.Selection = &sel
	}
	return grid
}
