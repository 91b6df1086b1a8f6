package service

import (
	"context"
	"time"

	"github.com/iliyamo/hotel-backoffice/internal/availability"
	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// MaxCalendarDays caps the calendar window.
const MaxCalendarDays = 92

// CalendarService builds the room-by-day booking grid of a property.
type CalendarService struct {
	Rooms    RoomStore
	Bookings BookingStore
}

func NewCalendarService(r RoomStore, b BookingStore) *CalendarService {
	return &CalendarService{Rooms: r, Bookings: b}
}

// CalendarRow pairs a room with its blocks and cells.
type CalendarRow struct {
	Room   model.Room           `json:"room"`
	Blocks []availability.Block `json:"blocks"`
	Cells  []availability.Cell  `json:"cells"`
}

// CalendarView is the grid for one property and window.
type CalendarView struct {
	PropertyID uint64        `json:"property_id"`
	Start      time.Time     `json:"start"`
	Days       int           `json:"days"`
	Rows       []CalendarRow `json:"rows"`
}

// Grid returns one row per room of the property over days days from start.
func (s *CalendarService) Grid(ctx context.Context, propertyID uint64, start time.Time, days int) (CalendarView, error) {
	if days < 1 || days > MaxCalendarDays {
		return CalendarView{}, invalid("days", "must be between 1 and "+itoa(MaxCalendarDays))
	}
	window := availability.Window{Start: model.Day(start), Days: days}

	rooms, err := s.Rooms.ListByProperty(ctx, propertyID)
	if err != nil {
		return CalendarView{}, err
	}
	bookings, err := s.Bookings.List(ctx, model.BookingFilter{PropertyID: propertyID, Range: window.Range()})
	if err != nil {
		return CalendarView{}, err
	}

	keys := make([]model.RoomKey, len(rooms))
	for i, r := range rooms {
		keys[i] = r.Key()
	}
	grid, err := availability.Grid(bookings, keys, window)
	if err != nil {
		return CalendarView{}, &ValidationError{Field: "days", Err: err}
	}

	view := CalendarView{PropertyID: propertyID, Start: window.Start, Days: days, Rows: make([]CalendarRow, len(grid))}
	for i, row := range grid {
		view.Rows[i] = CalendarRow{Room: rooms[i], Blocks: row.Blocks, Cells: row.Cells}
	}
	return view, nil
}
