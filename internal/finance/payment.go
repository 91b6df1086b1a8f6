package finance

import (
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// Settle derives the remaining amount and payment status from a booking
// total and the amount paid so far.  Overpayment leaves nothing remaining.
func Settle(total, paid decimal.Decimal) (decimal.Decimal, model.PaymentStatus) {
	if paid.IsNegative() {
		paid = decimal.Zero
	}
	remaining := total.Sub(paid)
	switch {
	case !remaining.IsPositive():
		return decimal.Zero, model.PaymentPaid
	case paid.IsZero():
		return remaining, model.PaymentPending
	default:
		return remaining, model.PaymentPartial
	}
}

// Apply copies a rounded breakdown and the settlement it implies onto b.
func Apply(b *model.Booking, bd Breakdown) {
	r := bd.Rounded()
	b.BaseRate = r.BaseRate
	b.TotalAmount = r.TotalAmount
	b.VAT = r.VAT
	b.TourismFee = r.TourismFee
	b.Commission = r.Commission
	b.NetToOwner = r.NetToOwner
	b.RemainingAmount, b.PaymentStatus = Settle(b.TotalAmount, b.AmountPaid)
}
