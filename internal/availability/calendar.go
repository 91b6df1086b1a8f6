package availability

import (
	"errors"
	"time"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// ErrInvalidWindow is returned when a view window spans no days.
var ErrInvalidWindow = errors.New("view window must span at least one day")

// Window is the calendar range being rendered: Days consecutive days starting
// at Start.
type Window struct {
	Start time.Time
	Days  int
}

// Range returns the window as a half-open date range.
func (w Window) Range() model.DateRange {
	start := model.Day(w.Start)
	return model.DateRange{CheckIn: start, CheckOut: start.AddDate(0, 0, w.Days)}
}

func (w Window) validate() error {
	if w.Days < 1 {
		return ErrInvalidWindow
	}
	return nil
}

// Block positions one booking inside a window.  Offset and Span are in days;
// LeftFraction and WidthFraction are the same values relative to the window
// width, ready for rendering.  ClippedStart/ClippedEnd mark stays that begin
// before or continue past the window.
type Block struct {
	BookingID     uint64              `json:"booking_id"`
	Reference     string              `json:"reference"`
	GuestName     string              `json:"guest_name"`
	Status        model.BookingStatus `json:"status"`
	Offset        int                 `json:"offset"`
	Span          int                 `json:"span"`
	LeftFraction  float64             `json:"left"`
	WidthFraction float64             `json:"width"`
	ClippedStart  bool                `json:"clipped_start"`
	ClippedEnd    bool                `json:"clipped_end"`
}

// ComputeAvailability returns one Block per non-cancelled booking of room
// that intersects the window, in input order.  Bookings entirely outside
// the window are dropped, so an empty window yields an empty slice.
func ComputeAvailability(bookings []model.Booking, room model.RoomKey, window Window) ([]Block, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	start := model.Day(window.Start)
	days := window.Days

	blocks := make([]Block, 0)
	for i := range bookings {
		b := &bookings[i]
		if !participates(b, room) {
			continue
		}
		offset := model.DaysBetween(start, b.CheckIn)
		duration := b.Stay().Nights()
		if duration < 1 {
			continue
		}
		// The end is taken from the unclamped offset: a stay that began
		// before the window only shows its remaining nights.
		visibleStart := max(0, offset)
		visibleEnd := min(days, offset+duration)
		if visibleEnd <= visibleStart {
			continue
		}
		span := visibleEnd - visibleStart
		blocks = append(blocks, Block{
			BookingID:     b.ID,
			Reference:     b.Reference,
			GuestName:     b.GuestName,
			Status:        b.Status,
			Offset:        visibleStart,
			Span:          span,
			LeftFraction:  float64(visibleStart) / float64(days),
			WidthFraction: float64(span) / float64(days),
			ClippedStart:  offset < 0,
			ClippedEnd:    offset+duration > days,
		})
	}
	return blocks, nil
}

// CellState describes how a single room-day is drawn.
type CellState string

const (
	CellEmpty        CellState = "empty"
	CellBookingStart CellState = "booking-start"
	CellBookingMid   CellState = "booking-middle"
	CellBookingEnd   CellState = "booking-end"
	CellBookingOne   CellState = "booking-single-day"
)

// Cell is the derived state of one (room, date) pair.  BookingID is zero for
// empty cells.
type Cell struct {
	Date      time.Time `json:"date"`
	State     CellState `json:"state"`
	BookingID uint64    `json:"booking_id,omitempty"`
}

// Cells returns exactly window.Days cells for room.  A booking occupies the
// nights [check-in, check-out): its first night is booking-start, its last
// night booking-end and a one-night stay booking-single-day.  The check-out
// day itself stays free for the next arrival.
func Cells(bookings []model.Booking, room model.RoomKey, window Window) ([]Cell, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	start := model.Day(window.Start)
	cells := make([]Cell, window.Days)
	for i := range cells {
		cells[i] = Cell{Date: start.AddDate(0, 0, i), State: CellEmpty}
	}
	for i := range bookings {
		b := &bookings[i]
		if !participates(b, room) {
			continue
		}
		offset := model.DaysBetween(start, b.CheckIn)
		nights := b.Stay().Nights()
		for n := 0; n < nights; n++ {
			idx := offset + n
			if idx < 0 || idx >= len(cells) || cells[idx].State != CellEmpty {
				continue
			}
			cells[idx].State = cellState(n, nights)
			cells[idx].BookingID = b.ID
		}
	}
	return cells, nil
}

func cellState(night, nights int) CellState {
	switch {
	case nights == 1:
		return CellBookingOne
	case night == 0:
		return CellBookingStart
	case night == nights-1:
		return CellBookingEnd
	default:
		return CellBookingMid
	}
}

// Row is one room's line of the calendar grid.
type Row struct {
	Room   model.RoomKey `json:"room"`
	Blocks []Block       `json:"blocks"`
	Cells  []Cell        `json:"cells"`
}

// Grid computes blocks and cells for every room in rooms, in order.  The
// bookings slice may mix rooms; each row only picks up its own.
func Grid(bookings []model.Booking, rooms []model.RoomKey, window Window) ([]Row, error) {
	if err := window.validate(); err != nil {
		return nil, err
	}
	rows := make([]Row, 0, len(rooms))
	for _, room := range rooms {
		blocks, err := ComputeAvailability(bookings, room, window)
		if err != nil {
			return nil, err
		}
		cells, err := Cells(bookings, room, window)
		if err != nil {
			return nil, err
		}
		rows = append(rows, Row{Room: room, Blocks: blocks, Cells: cells})
	}
	return rows, nil
}
