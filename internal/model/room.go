package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RoomKey identifies a room strictly by property and room id.
type RoomKey struct {
	PropertyID uint64 `json:"property_id"`
	RoomID     uint64 `json:"room_id"`
}

// RoomStatus is the housekeeping state shown on the room board.
type RoomStatus string

const (
	RoomAvailable   RoomStatus = "available"
	RoomOccupied    RoomStatus = "occupied"
	RoomMaintenance RoomStatus = "maintenance"
	RoomCleaning    RoomStatus = "cleaning"
)

// Valid reports whether s is one of the known room statuses.
func (s RoomStatus) Valid() bool {
	switch s {
	case RoomAvailable, RoomOccupied, RoomMaintenance, RoomCleaning:
		return true
	}
	return false
}

// Room mirrors a row in the `rooms` table joined with its property name.
//
// Fields:
//  Number       – human room number, unique per property.
//  Status       – informational; reconciled against bookings best-effort.
//  BaseRate     – default nightly rate offered when creating a booking.
//  OwnerID      – owner receiving net-to-owner payouts (nil when hotel-owned).
type Room struct {
	ID           uint64          `json:"id"`
	PropertyID   uint64          `json:"property_id"`
	PropertyName string          `json:"property_name,omitempty"`
	Number       string          `json:"number"`
	Type         string          `json:"type"`
	Status       RoomStatus      `json:"status"`
	BaseRate     decimal.Decimal `json:"base_rate"`
	MaxOccupancy int             `json:"max_occupancy"`
	OwnerID      *uint64         `json:"owner_id,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// Key returns the strict identity of the room.
func (r Room) Key() RoomKey {
	return RoomKey{PropertyID: r.PropertyID, RoomID: r.ID}
}

// Property mirrors a row in the `properties` table.
type Property struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
}
