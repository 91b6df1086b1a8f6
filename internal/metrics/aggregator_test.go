package metrics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(id uint64, in, out string, amount int64, status model.BookingStatus) model.Booking {
	return model.Booking{
		ID:          id,
		PropertyID:  1,
		RoomID:      id%3 + 1,
		CheckIn:     date(in),
		CheckOut:    date(out),
		TotalAmount: decimal.NewFromInt(amount),
		Status:      status,
	}
}

func TestParsePeriod(t *testing.T) {
	tests := map[string]Period{"": Monthly, "daily": Daily, " Weekly ": Weekly, "MONTHLY": Monthly}
	for raw, want := range tests {
		got, err := ParsePeriod(raw)
		if err != nil || got != want {
			t.Fatalf("ParsePeriod(%q) = %q, %v; want %q", raw, got, err, want)
		}
	}
	if _, err := ParsePeriod("yearly"); err != ErrUnknownPeriod {
		t.Fatalf("expected ErrUnknownPeriod, got %v", err)
	}
}

func TestMonthlyBookingsCountMatchesCheckIns(t *testing.T) {
	window := model.NewDateRange(date("2024-01-01"), date("2025-01-01"))
	bookings := []model.Booking{
		booking(1, "2024-01-03", "2024-01-06", 300, model.BookingConfirmed),
		booking(2, "2024-02-27", "2024-03-02", 400, model.BookingCheckedOut),
		booking(3, "2024-06-10", "2024-06-11", 100, model.BookingPending),
		booking(4, "2024-12-30", "2025-01-03", 400, model.BookingConfirmed),
		booking(5, "2023-12-29", "2024-01-02", 400, model.BookingConfirmed),
		booking(6, "2024-07-01", "2024-07-05", 400, model.BookingCancelled),
	}
	buckets := Aggregate(bookings, Monthly, 5, window, date("2024-08-15"))
	if len(buckets) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(buckets))
	}

	total := 0
	for _, b := range buckets {
		total += b.BookingsCount
	}
	// Bookings 1-4 check in during 2024; 5 checks in the previous year and 6
	// is cancelled.
	if total != 4 {
		t.Fatalf("expected 4 bookings counted, got %d", total)
	}
	// Booking 5 still occupies the first night of January.
	if buckets[0].OccupiedDays != 4 {
		t.Fatalf("expected 4 occupied days in January, got %d", buckets[0].OccupiedDays)
	}
}

func TestBucketsAreChronological(t *testing.T) {
	now := date("2024-05-20")
	for _, p := range []Period{Daily, Weekly, Monthly} {
		buckets := Aggregate(nil, p, 1, model.DateRange{}, now)
		for i := 1; i < len(buckets); i++ {
			if !buckets[i-1].Start.Before(buckets[i].Start) {
				t.Fatalf("%s: bucket %d not after bucket %d", p, i, i-1)
			}
		}
	}
}

func TestTrailingBucketsEndToday(t *testing.T) {
	now := time.Date(2024, 5, 20, 17, 30, 0, 0, time.UTC)

	daily := Aggregate(nil, Daily, 1, model.DateRange{}, now)
	if len(daily) != 14 {
		t.Fatalf("expected 14 daily buckets, got %d", len(daily))
	}
	if last := daily[13]; !last.Start.Equal(date("2024-05-20")) || last.Label != "May 20" {
		t.Fatalf("unexpected last daily bucket %+v", last)
	}
	if !daily[0].Start.Equal(date("2024-05-07")) {
		t.Fatalf("unexpected first daily bucket %s", daily[0].Start)
	}

	weekly := Aggregate(nil, Weekly, 1, model.DateRange{}, now)
	if len(weekly) != 12 {
		t.Fatalf("expected 12 weekly buckets, got %d", len(weekly))
	}
	last := weekly[11]
	if !last.contains(date("2024-05-20")) || last.contains(date("2024-05-21")) {
		t.Fatalf("last weekly bucket should end today, got start %s", last.Start)
	}
}

func TestAverageStayZeroWhenNoBookings(t *testing.T) {
	buckets := Aggregate(nil, Monthly, 3, model.DateRange{}, date("2024-03-01"))
	for _, b := range buckets {
		if b.AverageStay != 0 || b.OccupancyRate != 0 {
			t.Fatalf("%s: expected zero average stay and occupancy, got %v and %d", b.Label, b.AverageStay, b.OccupancyRate)
		}
		if !b.Revenue.IsZero() {
			t.Fatalf("%s: expected zero revenue, got %s", b.Label, b.Revenue)
		}
	}
}

func TestRevenueIsSpreadAcrossNights(t *testing.T) {
	// Four nights at 100 each: two in January, two in February.  Attribution
	// to the check-in month would put all 400 in January.
	bookings := []model.Booking{booking(1, "2024-01-30", "2024-02-03", 400, model.BookingConfirmed)}
	buckets := Aggregate(bookings, Monthly, 1, model.DateRange{}, date("2024-06-01"))

	jan, feb := buckets[0], buckets[1]
	if !jan.Revenue.Equal(decimal.NewFromInt(200)) || !feb.Revenue.Equal(decimal.NewFromInt(200)) {
		t.Fatalf("expected 200/200 split, got %s/%s", jan.Revenue, feb.Revenue)
	}
	if jan.OccupiedDays != 2 || feb.OccupiedDays != 2 {
		t.Fatalf("expected 2/2 occupied days, got %d/%d", jan.OccupiedDays, feb.OccupiedDays)
	}
	if jan.BookingsCount != 1 || feb.BookingsCount != 0 {
		t.Fatalf("booking should count in its check-in month only, got %d/%d", jan.BookingsCount, feb.BookingsCount)
	}
	if jan.AverageStay != 4 {
		t.Fatalf("expected average stay 4, got %v", jan.AverageStay)
	}
}

func TestOccupancyAndAverageStay(t *testing.T) {
	bookings := []model.Booking{
		booking(1, "2024-04-01", "2024-04-04", 300, model.BookingConfirmed),
		booking(2, "2024-04-10", "2024-04-14", 400, model.BookingConfirmed),
	}
	buckets := Aggregate(bookings, Monthly, 2, model.DateRange{}, date("2024-06-01"))
	apr := buckets[3]
	if apr.Days != 30 || apr.TotalDays != 60 {
		t.Fatalf("expected 30 days and 60 room-days, got %d and %d", apr.Days, apr.TotalDays)
	}
	// 7 of 60 room-days = 11.67% -> 12.
	if apr.OccupancyRate != 12 {
		t.Fatalf("expected occupancy 12, got %d", apr.OccupancyRate)
	}
	if apr.AverageStay != 3.5 {
		t.Fatalf("expected average stay 3.5, got %v", apr.AverageStay)
	}
}

func TestZeroRoomCountDoesNotDivideByZero(t *testing.T) {
	bookings := []model.Booking{booking(1, "2024-05-18", "2024-05-20", 200, model.BookingConfirmed)}
	buckets := Aggregate(bookings, Daily, 0, model.DateRange{}, date("2024-05-20"))
	for _, b := range buckets {
		if b.TotalDays != 1 {
			t.Fatalf("%s: expected total days 1, got %d", b.Label, b.TotalDays)
		}
	}
	if buckets[11].OccupancyRate != 100 || buckets[12].OccupancyRate != 100 || buckets[13].OccupancyRate != 0 {
		t.Fatalf("unexpected rates %d %d %d", buckets[11].OccupancyRate, buckets[12].OccupancyRate, buckets[13].OccupancyRate)
	}
}

func TestWindowExcludesBookings(t *testing.T) {
	window := model.NewDateRange(date("2024-03-01"), date("2024-04-01"))
	bookings := []model.Booking{
		booking(1, "2024-02-01", "2024-02-05", 400, model.BookingConfirmed),
		booking(2, "2024-03-05", "2024-03-07", 200, model.BookingConfirmed),
	}
	buckets := Aggregate(bookings, Monthly, 1, window, date("2024-06-01"))
	if buckets[1].BookingsCount != 0 || buckets[2].BookingsCount != 1 {
		t.Fatalf("expected only the March booking, got feb=%d mar=%d", buckets[1].BookingsCount, buckets[2].BookingsCount)
	}
}

func TestSummarize(t *testing.T) {
	buckets := []Bucket{
		{Revenue: decimal.NewFromInt(100), BookingsCount: 2, OccupancyRate: 50},
		{Revenue: decimal.NewFromInt(50), BookingsCount: 1, OccupancyRate: 25},
		{Revenue: decimal.Zero, BookingsCount: 0, OccupancyRate: 0},
	}
	s := Summarize(buckets)
	if !s.TotalRevenue.Equal(decimal.NewFromInt(150)) || s.TotalBookings != 3 {
		t.Fatalf("unexpected summary %+v", s)
	}
	if s.AverageOccupancy != 25 {
		t.Fatalf("expected average occupancy 25, got %v", s.AverageOccupancy)
	}
	if empty := Summarize(nil); empty.AverageOccupancy != 0 || !empty.TotalRevenue.IsZero() {
		t.Fatalf("unexpected empty summary %+v", empty)
	}
}

func TestSampleBookingsFeedTheAggregator(t *testing.T) {
	now := date("2024-05-20")
	sample := SampleBookings(now)
	if len(sample) == 0 {
		t.Fatal("expected sample bookings")
	}
	buckets := Aggregate(sample, Daily, SampleRoomCount, model.DateRange{}, now)
	if Summarize(buckets).TotalRevenue.IsZero() {
		t.Fatal("expected sample data to produce revenue in the trailing two weeks")
	}
}
