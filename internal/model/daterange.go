package model

import (
	"errors"
	"math"
	"time"
)

// ErrInvalidRange is returned when a stay window does not end strictly after
// it starts.  Callers branch on it with errors.Is.
var ErrInvalidRange = errors.New("check-out must be after check-in")

// Day normalizes a timestamp to its calendar date at midnight UTC.  The
// calendar date is taken in the timestamp's own location so that a check-in
// entered as local midnight keeps its day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of calendar days from a to b.  The
// result is negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(math.Round(Day(b).Sub(Day(a)).Hours() / 24))
}

// DateRange is the half-open stay window [CheckIn, CheckOut).  Only the
// calendar dates are significant.
type DateRange struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

// NewDateRange builds a range from two timestamps, normalizing both to days.
func NewDateRange(checkIn, checkOut time.Time) DateRange {
	return DateRange{CheckIn: Day(checkIn), CheckOut: Day(checkOut)}
}

// Nights returns the number of nights covered by the range.
func (r DateRange) Nights() int {
	return DaysBetween(r.CheckIn, r.CheckOut)
}

// Validate reports ErrInvalidRange unless the range covers at least one night.
func (r DateRange) Validate() error {
	if r.CheckIn.IsZero() || r.CheckOut.IsZero() || r.Nights() < 1 {
		return ErrInvalidRange
	}
	return nil
}

// IsZero reports whether neither bound is set.
func (r DateRange) IsZero() bool {
	return r.CheckIn.IsZero() && r.CheckOut.IsZero()
}

// Contains reports whether day falls inside [CheckIn, CheckOut).
func (r DateRange) Contains(day time.Time) bool {
	d := Day(day)
	return !d.Before(Day(r.CheckIn)) && d.Before(Day(r.CheckOut))
}

// Intersects reports whether the two half-open ranges share at least one day.
// Touching ranges (one ends the day the other starts) do not intersect.
func (r DateRange) Intersects(o DateRange) bool {
	return Day(r.CheckIn).Before(Day(o.CheckOut)) && Day(r.CheckOut).After(Day(o.CheckIn))
}
