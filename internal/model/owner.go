package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Owner is a unit owner who receives the net-to-owner amount of bookings
// on rooms they own.  CommissionRate, when set, replaces the default
// management commission for those bookings.
type Owner struct {
	ID             uint64           `json:"id"`
	Name           string           `json:"name"`
	Email          string           `json:"email,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	CommissionRate *decimal.Decimal `json:"commission_rate,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
}
