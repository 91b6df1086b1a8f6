package finance

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

func TestSettle(t *testing.T) {
	tests := []struct {
		name          string
		total, paid   string
		wantRemaining string
		wantStatus    model.PaymentStatus
	}{
		{"nothing paid", "300", "0", "300", model.PaymentPending},
		{"deposit paid", "300", "100", "200", model.PaymentPartial},
		{"fully paid", "300", "300", "0", model.PaymentPaid},
		{"overpaid", "300", "350", "0", model.PaymentPaid},
		{"negative paid treated as zero", "300", "-5", "300", model.PaymentPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			remaining, status := Settle(dec(tt.total), dec(tt.paid))
			if !remaining.Equal(dec(tt.wantRemaining)) {
				t.Fatalf("remaining: expected %s, got %s", tt.wantRemaining, remaining)
			}
			if status != tt.wantStatus {
				t.Fatalf("status: expected %q, got %q", tt.wantStatus, status)
			}
		})
	}
}

func TestApplyCopiesRoundedFigures(t *testing.T) {
	bd, err := Derive(dec("100"), day("2024-01-01"), day("2024-01-04"), DefaultRates(dec("0.05")))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	b := model.Booking{AmountPaid: dec("50")}
	Apply(&b, bd)

	if !b.TotalAmount.Equal(dec("300")) || !b.NetToOwner.Equal(dec("246")) {
		t.Fatalf("unexpected figures: total %s net %s", b.TotalAmount, b.NetToOwner)
	}
	if !b.RemainingAmount.Equal(dec("250")) || b.PaymentStatus != model.PaymentPartial {
		t.Fatalf("unexpected settlement: %s %q", b.RemainingAmount, b.PaymentStatus)
	}
	if !b.BaseRate.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected base rate 100, got %s", b.BaseRate)
	}
}
