package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/availability"
	"github.com/iliyamo/hotel-backoffice/internal/finance"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/queue"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// referenceAttempts bounds retries when a generated reference collides.
const referenceAttempts = 3

// BookingService creates, edits and moves bookings through their
// lifecycle.  Every write re-derives the financials from the nightly rate
// and checks the room for overlaps under the store's room lock.
type BookingService struct {
	Bookings  BookingStore
	Rooms     RoomStore
	Owners    OwnerStore
	Fees      RateSource
	Publisher EventPublisher
	Now       func() time.Time
}

func NewBookingService(b BookingStore, r RoomStore, o OwnerStore, fees RateSource, pub EventPublisher) *BookingService {
	if pub == nil {
		pub = NopPublisher{}
	}
	return &BookingService{Bookings: b, Rooms: r, Owners: o, Fees: fees, Publisher: pub, Now: time.Now}
}

// QuoteInput asks for the breakdown of a stay in a room.  BaseRate
// overrides the room's nightly rate when set.
type QuoteInput struct {
	RoomID   uint64
	BaseRate *decimal.Decimal
	CheckIn  time.Time
	CheckOut time.Time
}

// CreateBookingInput carries the fields staff enter for a new booking.
type CreateBookingInput struct {
	RoomID          uint64
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	BaseRate        *decimal.Decimal
	AmountPaid      decimal.Decimal
	SecurityDeposit decimal.Decimal
	Status          model.BookingStatus // pending (default) or confirmed
	Notes           string
	ActorID         uint64
}

// UpdateBookingInput carries the editable fields of a booking.  A zero
// RoomID keeps the current room.
type UpdateBookingInput struct {
	RoomID          uint64
	GuestName       string
	GuestEmail      string
	GuestPhone      string
	CheckIn         time.Time
	CheckOut        time.Time
	Adults          int
	Children        int
	BaseRate        *decimal.Decimal
	AmountPaid      decimal.Decimal
	SecurityDeposit decimal.Decimal
	Notes           string
}

// Quote derives the rounded financial breakdown without persisting anything.
func (s *BookingService) Quote(ctx context.Context, in QuoteInput) (finance.Breakdown, error) {
	stay := model.NewDateRange(in.CheckIn, in.CheckOut)
	if err := stay.Validate(); err != nil {
		return finance.Breakdown{}, &ValidationError{Field: "check_out", Err: err}
	}
	room, err := s.Rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		return finance.Breakdown{}, err
	}
	bd, err := s.derive(ctx, room, in.BaseRate, stay)
	if err != nil {
		return finance.Breakdown{}, err
	}
	return bd.Rounded(), nil
}

// CheckAvailability reports whether stay is free in the room, ignoring the
// booking excludeID (0 to ignore none).
func (s *BookingService) CheckAvailability(ctx context.Context, roomID uint64, stay model.DateRange, excludeID uint64) (availability.Result, error) {
	if err := stay.Validate(); err != nil {
		return availability.Result{}, &ValidationError{Field: "check_out", Err: err}
	}
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return availability.Result{}, err
	}
	existing, err := s.Bookings.List(ctx, model.BookingFilter{RoomID: roomID, Range: stay})
	if err != nil {
		return availability.Result{}, err
	}
	return availability.CheckOverlap(existing, room.Key(), stay, excludeID)
}

// Create validates and stores a new booking.  An overlap comes back as a
// *ConflictError naming the booking in the way.
func (s *BookingService) Create(ctx context.Context, in CreateBookingInput) (model.Booking, error) {
	if in.Status == "" {
		in.Status = model.BookingPending
	}
	if in.Status != model.BookingPending && in.Status != model.BookingConfirmed {
		return model.Booking{}, invalid("status", "new bookings must be pending or confirmed")
	}
	stay := model.NewDateRange(in.CheckIn, in.CheckOut)
	if err := validateGuest(in.GuestName, in.Adults, in.Children, stay, in.AmountPaid, in.SecurityDeposit); err != nil {
		return model.Booking{}, err
	}
	room, err := s.Rooms.GetByID(ctx, in.RoomID)
	if err != nil {
		return model.Booking{}, err
	}
	if err := checkOccupancy(room, in.Adults, in.Children); err != nil {
		return model.Booking{}, err
	}
	bd, err := s.derive(ctx, room, in.BaseRate, stay)
	if err != nil {
		return model.Booking{}, err
	}

	b := model.Booking{
		PropertyID:      room.PropertyID,
		RoomID:          room.ID,
		GuestName:       strings.TrimSpace(in.GuestName),
		GuestEmail:      strings.TrimSpace(in.GuestEmail),
		GuestPhone:      strings.TrimSpace(in.GuestPhone),
		CheckIn:         stay.CheckIn,
		CheckOut:        stay.CheckOut,
		Adults:          in.Adults,
		Children:        in.Children,
		AmountPaid:      in.AmountPaid,
		SecurityDeposit: in.SecurityDeposit,
		Status:          in.Status,
		Notes:           strings.TrimSpace(in.Notes),
	}
	finance.Apply(&b, bd)

	check := overlapCheck(room.Key(), stay, 0)
	for attempt := 1; ; attempt++ {
		b.Reference, err = utils.NewBookingReference(s.Now())
		if err != nil {
			return model.Booking{}, err
		}
		err = s.Bookings.CreateChecked(ctx, &b, check)
		if errors.Is(err, repository.ErrDuplicate) && attempt < referenceAttempts {
			continue
		}
		if err != nil {
			return model.Booking{}, err
		}
		break
	}

	if b.Status == model.BookingConfirmed {
		s.publishConfirmed(ctx, b, in.ActorID)
	}
	return b, nil
}

// Update rewrites a booking's guest, stay, room and money.  Cancelled and
// checked-out bookings are closed for edits.
func (s *BookingService) Update(ctx context.Context, id uint64, in UpdateBookingInput) (model.Booking, error) {
	current, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if current.Status == model.BookingCancelled || current.Status == model.BookingCheckedOut {
		return model.Booking{}, invalid("status", "booking is "+string(current.Status)+" and can no longer be edited")
	}
	stay := model.NewDateRange(in.CheckIn, in.CheckOut)
	if err := validateGuest(in.GuestName, in.Adults, in.Children, stay, in.AmountPaid, in.SecurityDeposit); err != nil {
		return model.Booking{}, err
	}
	roomID := in.RoomID
	if roomID == 0 {
		roomID = current.RoomID
	}
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return model.Booking{}, err
	}
	if err := checkOccupancy(room, in.Adults, in.Children); err != nil {
		return model.Booking{}, err
	}
	bd, err := s.derive(ctx, room, in.BaseRate, stay)
	if err != nil {
		return model.Booking{}, err
	}

	b := current
	b.PropertyID = room.PropertyID
	b.RoomID = room.ID
	b.GuestName = strings.TrimSpace(in.GuestName)
	b.GuestEmail = strings.TrimSpace(in.GuestEmail)
	b.GuestPhone = strings.TrimSpace(in.GuestPhone)
	b.CheckIn = stay.CheckIn
	b.CheckOut = stay.CheckOut
	b.Adults = in.Adults
	b.Children = in.Children
	b.AmountPaid = in.AmountPaid
	b.SecurityDeposit = in.SecurityDeposit
	b.Notes = strings.TrimSpace(in.Notes)
	finance.Apply(&b, bd)

	if err := s.Bookings.UpdateChecked(ctx, &b, overlapCheck(room.Key(), stay, id)); err != nil {
		return model.Booking{}, err
	}
	if b.Status == model.BookingCheckedIn {
		if current.RoomID != b.RoomID {
			s.reconcileRoom(ctx, current.RoomID)
			s.reconcileRoom(ctx, b.RoomID)
		} else if !current.CheckIn.Equal(b.CheckIn) || !current.CheckOut.Equal(b.CheckOut) {
			s.reconcileRoom(ctx, b.RoomID)
		}
	}
	return b, nil
}

// UpdateStatus moves a booking to next.  Cancelling a booking with money
// paid marks the payment refunded; confirming publishes an event; check-in
// and check-out refresh the room status.
func (s *BookingService) UpdateStatus(ctx context.Context, id uint64, next model.BookingStatus, actorID uint64) (model.Booking, error) {
	if !next.Valid() {
		return model.Booking{}, invalid("status", "unknown status "+string(next))
	}
	current, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return model.Booking{}, err
	}
	if current.Status == next {
		return current, nil
	}
	if !current.Status.CanTransition(next) {
		return model.Booking{}, &transitionError{from: current.Status, to: next}
	}

	payment := current.PaymentStatus
	if next == model.BookingCancelled && current.AmountPaid.IsPositive() {
		payment = model.PaymentRefunded
	}
	if err := s.Bookings.UpdateStatus(ctx, id, next, payment); err != nil {
		return model.Booking{}, err
	}
	current.Status = next
	current.PaymentStatus = payment

	switch next {
	case model.BookingConfirmed:
		s.publishConfirmed(ctx, current, actorID)
	case model.BookingCheckedIn, model.BookingCheckedOut:
		s.reconcileRoom(ctx, current.RoomID)
	}
	return current, nil
}

// Get returns a single booking.
func (s *BookingService) Get(ctx context.Context, id uint64) (model.Booking, error) {
	return s.Bookings.GetByID(ctx, id)
}

// List returns bookings matching f.
func (s *BookingService) List(ctx context.Context, f model.BookingFilter) ([]model.Booking, error) {
	if !f.Range.CheckIn.IsZero() && !f.Range.CheckOut.IsZero() && !f.Range.CheckOut.After(f.Range.CheckIn) {
		return nil, invalid("to", "must be after from")
	}
	for _, st := range f.Statuses {
		if !st.Valid() {
			return nil, invalid("status", "unknown status "+string(st))
		}
	}
	return s.Bookings.List(ctx, f)
}

// derive resolves the rate and fee rates for room and runs the deriver.
func (s *BookingService) derive(ctx context.Context, room model.Room, override *decimal.Decimal, stay model.DateRange) (finance.Breakdown, error) {
	rate := room.BaseRate
	if override != nil {
		rate = *override
	}
	if !rate.IsPositive() {
		return finance.Breakdown{}, invalid("base_rate", "must be greater than zero")
	}
	rates, err := s.ratesFor(ctx, room)
	if err != nil {
		return finance.Breakdown{}, err
	}
	bd, err := finance.Derive(rate, stay.CheckIn, stay.CheckOut, rates)
	if err != nil {
		return finance.Breakdown{}, &ValidationError{Err: err}
	}
	return bd, nil
}

// ratesFor returns the property's fee rates with the room owner's
// commission applied when the owner has one.
func (s *BookingService) ratesFor(ctx context.Context, room model.Room) (finance.Rates, error) {
	rates := s.Fees.For(room.PropertyID)
	if room.OwnerID == nil || s.Owners == nil {
		return rates, nil
	}
	owner, err := s.Owners.GetByID(ctx, *room.OwnerID)
	if errors.Is(err, repository.ErrOwnerNotFound) {
		return rates, nil
	}
	if err != nil {
		return finance.Rates{}, err
	}
	if owner.CommissionRate != nil {
		rates = rates.WithCommission(*owner.CommissionRate)
	}
	return rates, nil
}

func (s *BookingService) publishConfirmed(ctx context.Context, b model.Booking, actorID uint64) {
	ev := queue.NewBookingConfirmedEvent(b, actorID, s.Now())
	if err := s.Publisher.PublishBookingConfirmed(ctx, ev); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("reference", b.Reference).Msg("publish booking confirmed failed")
	}
}

// reconcileRoom brings a room's status in line with today's bookings.
// Failures are logged; the booking write has already succeeded.
func (s *BookingService) reconcileRoom(ctx context.Context, roomID uint64) {
	if _, err := reconcileRoom(ctx, s.Rooms, s.Bookings, roomID, s.Now()); err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint64("room_id", roomID).Msg("room status reconciliation failed")
	}
}

// reconcileRoom stores and returns the status today's checked-in stays
// imply for the room.
func reconcileRoom(ctx context.Context, rooms RoomStore, bookings BookingStore, roomID uint64, now time.Time) (model.RoomStatus, error) {
	room, err := rooms.GetByID(ctx, roomID)
	if err != nil {
		return "", err
	}
	today := model.Day(now)
	current, err := bookings.List(ctx, model.BookingFilter{
		RoomID:   roomID,
		Range:    model.DateRange{CheckIn: today, CheckOut: today.AddDate(0, 0, 1)},
		Statuses: []model.BookingStatus{model.BookingCheckedIn},
	})
	if err != nil {
		return room.Status, err
	}
	next := availability.ReconcileRoomStatus(room, current, today)
	if next == room.Status {
		return next, nil
	}
	if err := rooms.UpdateStatus(ctx, roomID, next); err != nil {
		return room.Status, err
	}
	return next, nil
}

// overlapCheck returns the callback the store runs under its room lock.
func overlapCheck(room model.RoomKey, stay model.DateRange, excludeID uint64) repository.OverlapCheck {
	return func(existing []model.Booking) error {
		res, err := availability.CheckOverlap(existing, room, stay, excludeID)
		if err != nil {
			return &ValidationError{Field: "check_out", Err: err}
		}
		if !res.Available {
			return &ConflictError{Conflict: *res.Conflict}
		}
		return nil
	}
}

func validateGuest(name string, adults, children int, stay model.DateRange, paid, deposit decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return invalid("guest_name", "is required")
	}
	if adults < 1 {
		return invalid("adults", "at least one adult is required")
	}
	if children < 0 {
		return invalid("children", "must not be negative")
	}
	if err := stay.Validate(); err != nil {
		return &ValidationError{Field: "check_out", Err: err}
	}
	if paid.IsNegative() {
		return invalid("amount_paid", "must not be negative")
	}
	if deposit.IsNegative() {
		return invalid("security_deposit", "must not be negative")
	}
	return nil
}

func checkOccupancy(room model.Room, adults, children int) error {
	if room.MaxOccupancy > 0 && adults+children > room.MaxOccupancy {
		return invalid("adults", "room "+room.Number+" sleeps at most "+itoa(room.MaxOccupancy))
	}
	return nil
}

type transitionError struct {
	from, to model.BookingStatus
}

func (e *transitionError) Error() string {
	return "cannot move booking from " + string(e.from) + " to " + string(e.to)
}

func (e *transitionError) Unwrap() error { return ErrInvalidTransition }
