// Package finance derives the money side of a booking from its nightly rate,
// stay window and fee rates.  All arithmetic is exact decimal arithmetic;
// rounding happens once, when a breakdown is presented.
package finance

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

var (
	// ErrInvalidNights is returned when the stay covers zero or negative nights.
	ErrInvalidNights = errors.New("stay must cover at least one night")
	// ErrNegativeAmount is returned for a negative rate or fee percentage.
	ErrNegativeAmount = errors.New("amounts and rates must not be negative")
)

// Default fee rates applied when a property does not configure its own.
var (
	DefaultTourismFeeRate = decimal.RequireFromString("0.03")
	DefaultCommissionRate = decimal.RequireFromString("0.10")
)

// Rates holds the percentages (as fractions, 0.05 = 5%) charged on the
// booking total.
type Rates struct {
	Tax        decimal.Decimal `json:"tax_rate" yaml:"tax_rate"`
	TourismFee decimal.Decimal `json:"tourism_fee_rate" yaml:"tourism_fee_rate"`
	Commission decimal.Decimal `json:"commission_rate" yaml:"commission_rate"`
}

// DefaultRates returns rates with the given tax and the default tourism fee
// and commission.
func DefaultRates(tax decimal.Decimal) Rates {
	return Rates{Tax: tax, TourismFee: DefaultTourismFeeRate, Commission: DefaultCommissionRate}
}

// WithCommission returns a copy of r using commission instead of r.Commission.
func (r Rates) WithCommission(commission decimal.Decimal) Rates {
	r.Commission = commission
	return r
}

func (r Rates) validate() error {
	if r.Tax.IsNegative() || r.TourismFee.IsNegative() || r.Commission.IsNegative() {
		return ErrNegativeAmount
	}
	return nil
}

// Breakdown is the full financial derivation of a stay.
type Breakdown struct {
	Nights      int             `json:"nights"`
	BaseRate    decimal.Decimal `json:"base_rate"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	VAT         decimal.Decimal `json:"vat"`
	TourismFee  decimal.Decimal `json:"tourism_fee"`
	Commission  decimal.Decimal `json:"commission"`
	NetToOwner  decimal.Decimal `json:"net_to_owner"`
}

// Derive computes the breakdown for baseRate per night between checkIn and
// checkOut.  It always recomputes from its inputs; identical inputs give
// identical outputs.
func Derive(baseRate decimal.Decimal, checkIn, checkOut time.Time, rates Rates) (Breakdown, error) {
	if baseRate.IsNegative() {
		return Breakdown{}, fmt.Errorf("base rate %s: %w", baseRate, ErrNegativeAmount)
	}
	if err := rates.validate(); err != nil {
		return Breakdown{}, err
	}
	if checkIn.IsZero() || checkOut.IsZero() {
		return Breakdown{}, ErrInvalidNights
	}
	nights := model.DaysBetween(checkIn, checkOut)
	if nights < 1 {
		return Breakdown{}, fmt.Errorf("%d nights: %w", nights, ErrInvalidNights)
	}

	total := baseRate.Mul(decimal.NewFromInt(int64(nights)))
	vat := total.Mul(rates.Tax)
	tourism := total.Mul(rates.TourismFee)
	commission := total.Mul(rates.Commission)

	return Breakdown{
		Nights:      nights,
		BaseRate:    baseRate,
		TotalAmount: total,
		VAT:         vat,
		TourismFee:  tourism,
		Commission:  commission,
		NetToOwner:  total.Sub(vat).Sub(tourism).Sub(commission),
	}, nil
}

// Rounded returns the breakdown with every amount rounded half-to-even to
// cents.  Call it only when presenting or persisting a final figure.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		Nights:      b.Nights,
		BaseRate:    Round(b.BaseRate),
		TotalAmount: Round(b.TotalAmount),
		VAT:         Round(b.VAT),
		TourismFee:  Round(b.TourismFee),
		Commission:  Round(b.Commission),
		NetToOwner:  Round(b.NetToOwner),
	}
}

// Round applies the presentation rounding rule: half-to-even, 2 places.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}
