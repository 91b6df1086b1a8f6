package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked-in"
	BookingCheckedOut BookingStatus = "checked-out"
	BookingCancelled  BookingStatus = "cancelled"
)

// bookingTransitions lists the statuses reachable from each status.
var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCheckedIn, BookingCancelled},
	BookingCheckedIn: {BookingCheckedOut},
}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCheckedIn, BookingCheckedOut, BookingCancelled:
		return true
	}
	return false
}

// Active reports whether a booking in this status holds its room.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingConfirmed || s == BookingCheckedIn
}

// CanTransition reports whether a booking may move from s to next.
func (s BookingStatus) CanTransition(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// PaymentStatus tracks how much of a booking has been paid.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPartial  PaymentStatus = "partial"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Valid reports whether s is one of the known payment statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPartial, PaymentPaid, PaymentRefunded:
		return true
	}
	return false
}

// Booking mirrors a row in the `bookings` table.  A booking references its
// room by RoomID; PropertyName and RoomNumber are denormalized for display
// only and are never used for matching.
type Booking struct {
	ID              uint64          `json:"id"`
	Reference       string          `json:"reference"`
	PropertyID      uint64          `json:"property_id"`
	PropertyName    string          `json:"property_name,omitempty"`
	RoomID          uint64          `json:"room_id"`
	RoomNumber      string          `json:"room_number,omitempty"`
	GuestName       string          `json:"guest_name"`
	GuestEmail      string          `json:"guest_email,omitempty"`
	GuestPhone      string          `json:"guest_phone,omitempty"`
	CheckIn         time.Time       `json:"check_in"`
	CheckOut        time.Time       `json:"check_out"`
	Adults          int             `json:"adults"`
	Children        int             `json:"children"`
	BaseRate        decimal.Decimal `json:"base_rate"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	AmountPaid      decimal.Decimal `json:"amount_paid"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	Commission      decimal.Decimal `json:"commission"`
	TourismFee      decimal.Decimal `json:"tourism_fee"`
	VAT             decimal.Decimal `json:"vat"`
	NetToOwner      decimal.Decimal `json:"net_to_owner"`
	Status          BookingStatus   `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Stay returns the booking's stay window.
func (b Booking) Stay() DateRange {
	return NewDateRange(b.CheckIn, b.CheckOut)
}

// Key returns the room identity the booking is attached to.
func (b Booking) Key() RoomKey {
	return RoomKey{PropertyID: b.PropertyID, RoomID: b.RoomID}
}

// BookingFilter narrows a booking listing.  Zero fields do not filter.
type BookingFilter struct {
	PropertyID uint64
	RoomID     uint64
	Range      DateRange // bookings whose stay intersects Range
	Statuses   []BookingStatus
	Limit      int
}
