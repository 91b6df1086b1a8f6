// Package service holds the booking back-office use cases.  Services load
// snapshots through the store interfaces below, run the pure availability,
// finance and metrics code over them and persist the result.
package service

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// ErrInvalidTransition is returned when a status change is not allowed from
// the booking's current status.
var ErrInvalidTransition = errors.New("status transition not allowed")

// ValidationError reports bad input.  Field names the offending input when
// there is one.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Err: errors.New(msg)}
}

// ConflictError reports that the proposed stay overlaps an active booking
// for the same room.
type ConflictError struct {
	Conflict model.Booking
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("room is booked by %s from %s to %s",
		e.Conflict.GuestName,
		e.Conflict.CheckIn.Format(time.DateOnly),
		e.Conflict.CheckOut.Format(time.DateOnly))
}

func itoa(n int) string { return strconv.Itoa(n) }
