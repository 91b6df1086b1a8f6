package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// SampleBookings returns a fixed demo dataset placed relative to now.  The
// report endpoint serves it, flagged as sample data, when the real bookings
// cannot be loaded.
func SampleBookings(now time.Time) []model.Booking {
	today := model.Day(now)
	stays := []struct {
		guest  string
		room   uint64
		offset int
		nights int
		rate   int64
	}{
		{"Sample Guest A", 1, -60, 3, 120},
		{"Sample Guest B", 2, -45, 5, 95},
		{"Sample Guest C", 1, -30, 2, 120},
		{"Sample Guest D", 3, -21, 7, 150},
		{"Sample Guest E", 2, -12, 4, 95},
		{"Sample Guest F", 3, -6, 3, 150},
		{"Sample Guest G", 1, -3, 2, 120},
		{"Sample Guest H", 2, 2, 6, 95},
	}
	out := make([]model.Booking, 0, len(stays))
	for i, s := range stays {
		in := today.AddDate(0, 0, s.offset)
		out = append(out, model.Booking{
			ID:          uint64(i + 1),
			Reference:   "SAMPLE",
			PropertyID:  1,
			RoomID:      s.room,
			GuestName:   s.guest,
			CheckIn:     in,
			CheckOut:    in.AddDate(0, 0, s.nights),
			BaseRate:    decimal.NewFromInt(s.rate),
			TotalAmount: decimal.NewFromInt(s.rate * int64(s.nights)),
			Status:      model.BookingConfirmed,
		})
	}
	return out
}

// SampleRoomCount is the room count that goes with SampleBookings.
const SampleRoomCount = 3
