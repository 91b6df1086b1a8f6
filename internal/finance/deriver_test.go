package finance

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestDeriveThreeNights(t *testing.T) {
	want := map[string]string{
		"total":      "300",
		"vat":        "15",
		"tourism":    "9",
		"commission": "30",
		"net":        "246",
	}
	var first Breakdown
	for run := 0; run < 2; run++ {
		got, err := Derive(dec("100"), day("2024-01-01"), day("2024-01-04"), DefaultRates(dec("0.05")))
		if err != nil {
			t.Fatalf("derive: %v", err)
		}
		if got.Nights != 3 {
			t.Fatalf("expected 3 nights, got %d", got.Nights)
		}
		fields := map[string]decimal.Decimal{
			"total":      got.TotalAmount,
			"vat":        got.VAT,
			"tourism":    got.TourismFee,
			"commission": got.Commission,
			"net":        got.NetToOwner,
		}
		for name, v := range fields {
			if !v.Equal(dec(want[name])) {
				t.Fatalf("%s: expected %s, got %s", name, want[name], v)
			}
		}
		if run == 0 {
			first = got
			continue
		}
		if !first.NetToOwner.Equal(got.NetToOwner) || !first.TotalAmount.Equal(got.TotalAmount) {
			t.Fatalf("derive is not deterministic: %+v vs %+v", first, got)
		}
	}
}

func TestDeriveRejectsCheckoutBeforeCheckin(t *testing.T) {
	_, err := Derive(dec("100"), day("2024-01-05"), day("2024-01-01"), DefaultRates(dec("0.05")))
	if !errors.Is(err, ErrInvalidNights) {
		t.Fatalf("expected ErrInvalidNights, got %v", err)
	}
}

func TestDeriveRejectsZeroNights(t *testing.T) {
	_, err := Derive(dec("100"), day("2024-01-05"), day("2024-01-05"), DefaultRates(dec("0.05")))
	if !errors.Is(err, ErrInvalidNights) {
		t.Fatalf("expected ErrInvalidNights, got %v", err)
	}
}

func TestDeriveRejectsNegativeInputs(t *testing.T) {
	if _, err := Derive(dec("-1"), day("2024-01-01"), day("2024-01-02"), DefaultRates(dec("0.05"))); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative rate: expected ErrNegativeAmount, got %v", err)
	}
	rates := DefaultRates(dec("-0.05"))
	if _, err := Derive(dec("100"), day("2024-01-01"), day("2024-01-02"), rates); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative tax: expected ErrNegativeAmount, got %v", err)
	}
}

func TestDeriveIgnoresTimeOfDay(t *testing.T) {
	checkIn := time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC)
	checkOut := time.Date(2024, 1, 3, 11, 0, 0, 0, time.UTC)
	got, err := Derive(dec("80"), checkIn, checkOut, DefaultRates(decimal.Zero))
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if got.Nights != 2 || !got.TotalAmount.Equal(dec("160")) {
		t.Fatalf("expected 2 nights totalling 160, got %d nights, %s", got.Nights, got.TotalAmount)
	}
}

func TestRoundedUsesBankersRounding(t *testing.T) {
	// 3 nights at 33.335 with 15% tax: VAT = 15.00075, total 100.005.
	got, err := Derive(dec("33.335"), day("2024-01-01"), day("2024-01-04"), Rates{Tax: dec("0.15")})
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	r := got.Rounded()
	if !r.TotalAmount.Equal(dec("100")) {
		t.Fatalf("expected 100.005 to round to 100.00, got %s", r.TotalAmount)
	}
	if !r.VAT.Equal(dec("15")) {
		t.Fatalf("expected VAT 15.00, got %s", r.VAT)
	}
	// Net is derived from unrounded parts: 100.005 - 15.00075 = 85.00425.
	if !r.NetToOwner.Equal(dec("85")) {
		t.Fatalf("expected net 85.00, got %s", r.NetToOwner)
	}
}

func TestWithCommissionOverridesDefault(t *testing.T) {
	rates := DefaultRates(dec("0.05")).WithCommission(dec("0.2"))
	got, err := Derive(dec("100"), day("2024-01-01"), day("2024-01-02"), rates)
	if err != nil {
		t.Fatalf("derive: %v", err)
	}
	if !got.Commission.Equal(dec("20")) || !got.NetToOwner.Equal(dec("72")) {
		t.Fatalf("expected commission 20 and net 72, got %s and %s", got.Commission, got.NetToOwner)
	}
}
