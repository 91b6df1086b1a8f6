// Package availability decides which days of a room are taken and whether a
// proposed stay collides with existing bookings.  Every function is pure: it
// works on the snapshot it is given and never mutates it.
package availability

import (
	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// Result is the outcome of an overlap check.  A conflict is an expected
// outcome, not an error: Available is false and Conflict points at the first
// colliding booking found.
type Result struct {
	Available bool           `json:"available"`
	Conflict  *model.Booking `json:"conflict,omitempty"`
}

// Overlaps reports whether two stay windows share at least one night.
// Back-to-back stays, where one checks out the day the other checks in, do
// not overlap.
func Overlaps(a, b model.DateRange) bool {
	return a.Intersects(b)
}

// CheckOverlap reports whether proposed can be booked on room given the
// existing bookings.  Bookings on other rooms, cancelled bookings and the
// booking identified by excludeID (the one being edited; 0 for none) are
// ignored.  It returns model.ErrInvalidRange when proposed does not cover at
// least one night.
func CheckOverlap(existing []model.Booking, room model.RoomKey, proposed model.DateRange, excludeID uint64) (Result, error) {
	if err := proposed.Validate(); err != nil {
		return Result{}, err
	}
	for i := range existing {
		b := &existing[i]
		if !participates(b, room) {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if Overlaps(proposed, b.Stay()) {
			conflict := *b
			return Result{Available: false, Conflict: &conflict}, nil
		}
	}
	return Result{Available: true}, nil
}

// participates reports whether b counts against room's availability.
func participates(b *model.Booking, room model.RoomKey) bool {
	if b.Status == model.BookingCancelled {
		return false
	}
	return b.Key() == room
}
