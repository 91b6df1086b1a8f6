// Package queue defines the booking events exchanged over RabbitMQ and the
// background consumer that records them.
package queue

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// BookingConfirmedQueue is the durable queue confirmed bookings go to.
const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmedEvent is published when a booking moves to confirmed.  It
// carries enough for downstream consumers to log or notify without reading
// the database.
type BookingConfirmedEvent struct {
	BookingID    uint64          `json:"booking_id"`
	Reference    string          `json:"reference"`
	PropertyID   uint64          `json:"property_id"`
	PropertyName string          `json:"property_name"`
	RoomID       uint64          `json:"room_id"`
	RoomNumber   string          `json:"room_number"`
	GuestName    string          `json:"guest_name"`
	CheckIn      string          `json:"check_in"`
	CheckOut     string          `json:"check_out"`
	Nights       int             `json:"nights"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	ConfirmedBy  uint64          `json:"confirmed_by"`
	ConfirmedAt  string          `json:"confirmed_at"`
}

// NewBookingConfirmedEvent builds the event for b confirmed by userID at at.
func NewBookingConfirmedEvent(b model.Booking, userID uint64, at time.Time) BookingConfirmedEvent {
	return BookingConfirmedEvent{
		BookingID:    b.ID,
		Reference:    b.Reference,
		PropertyID:   b.PropertyID,
		PropertyName: b.PropertyName,
		RoomID:       b.RoomID,
		RoomNumber:   b.RoomNumber,
		GuestName:    b.GuestName,
		CheckIn:      model.Day(b.CheckIn).Format(time.DateOnly),
		CheckOut:     model.Day(b.CheckOut).Format(time.DateOnly),
		Nights:       b.Stay().Nights(),
		TotalAmount:  b.TotalAmount,
		ConfirmedBy:  userID,
		ConfirmedAt:  at.UTC().Format(time.RFC3339),
	}
}
