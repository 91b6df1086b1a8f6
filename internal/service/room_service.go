package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/availability"
	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// RoomService manages rooms and the housekeeping board.
type RoomService struct {
	Rooms      RoomStore
	Bookings   BookingStore
	Owners     OwnerStore
	Properties PropertyStore
	Now        func() time.Time
}

func NewRoomService(r RoomStore, b BookingStore, o OwnerStore, p PropertyStore) *RoomService {
	return &RoomService{Rooms: r, Bookings: b, Owners: o, Properties: p, Now: time.Now}
}

// CreateRoomInput carries a new room.
type CreateRoomInput struct {
	PropertyID   uint64
	Number       string
	Type         string
	BaseRate     decimal.Decimal
	MaxOccupancy int
	OwnerID      *uint64
}

// ListByProperty returns the property's rooms with their status reconciled
// against today's checked-in stays.  Changed statuses are saved best-effort.
func (s *RoomService) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Room, error) {
	rooms, err := s.Rooms.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	today := model.Day(s.Now())
	inHouse, err := s.Bookings.List(ctx, model.BookingFilter{
		PropertyID: propertyID,
		Range:      model.DateRange{CheckIn: today, CheckOut: today.AddDate(0, 0, 1)},
		Statuses:   []model.BookingStatus{model.BookingCheckedIn},
	})
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint64("property_id", propertyID).Msg("room reconciliation skipped")
		return rooms, nil
	}
	for i := range rooms {
		next := availability.ReconcileRoomStatus(rooms[i], inHouse, today)
		if next == rooms[i].Status {
			continue
		}
		if err := s.Rooms.UpdateStatus(ctx, rooms[i].ID, next); err != nil {
			log.Ctx(ctx).Warn().Err(err).Uint64("room_id", rooms[i].ID).Msg("save reconciled room status failed")
		}
		rooms[i].Status = next
	}
	return rooms, nil
}

// Create validates and stores a room.
func (s *RoomService) Create(ctx context.Context, in CreateRoomInput) (model.Room, error) {
	in.Number = strings.TrimSpace(in.Number)
	if in.Number == "" {
		return model.Room{}, invalid("number", "is required")
	}
	if in.BaseRate.IsNegative() {
		return model.Room{}, invalid("base_rate", "must not be negative")
	}
	if in.MaxOccupancy < 1 {
		return model.Room{}, invalid("max_occupancy", "must be at least 1")
	}
	if _, err := s.Properties.GetByID(ctx, in.PropertyID); err != nil {
		return model.Room{}, err
	}
	if in.OwnerID != nil {
		if _, err := s.Owners.GetByID(ctx, *in.OwnerID); err != nil {
			return model.Room{}, err
		}
	}
	room := model.Room{
		PropertyID:   in.PropertyID,
		Number:       in.Number,
		Type:         strings.TrimSpace(in.Type),
		Status:       model.RoomAvailable,
		BaseRate:     in.BaseRate,
		MaxOccupancy: in.MaxOccupancy,
		OwnerID:      in.OwnerID,
	}
	if err := s.Rooms.Create(ctx, &room); err != nil {
		return model.Room{}, err
	}
	return room, nil
}

// SetStatus updates the housekeeping status.  Occupied is derived from
// check-ins and cannot be set by hand.
func (s *RoomService) SetStatus(ctx context.Context, id uint64, status model.RoomStatus) (model.Room, error) {
	if !status.Valid() {
		return model.Room{}, invalid("status", "unknown room status "+string(status))
	}
	if status == model.RoomOccupied {
		return model.Room{}, invalid("status", "occupied is set by checking a guest in")
	}
	room, err := s.Rooms.GetByID(ctx, id)
	if err != nil {
		return model.Room{}, err
	}
	if err := s.Rooms.UpdateStatus(ctx, id, status); err != nil {
		return model.Room{}, err
	}
	room.Status = status
	// A guest may still be in house; let the bookings decide.
	next, err := reconcileRoom(ctx, s.Rooms, s.Bookings, id, s.Now())
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint64("room_id", id).Msg("room status reconciliation failed")
		return room, nil
	}
	room.Status = next
	return room, nil
}
