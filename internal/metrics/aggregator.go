// Package metrics buckets bookings into reporting periods for the dashboard.
package metrics

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// Period selects the bucket granularity.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

const (
	dailyBuckets  = 14
	weeklyBuckets = 12
)

// ErrUnknownPeriod is returned by ParsePeriod for anything but daily, weekly
// or monthly.
var ErrUnknownPeriod = errors.New("period must be daily, weekly or monthly")

// ParsePeriod parses a period query value.  An empty value means monthly.
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.ToLower(strings.TrimSpace(raw))); p {
	case "":
		return Monthly, nil
	case Daily, Weekly, Monthly:
		return p, nil
	}
	return "", ErrUnknownPeriod
}

// Bucket is one labeled reporting slot.
type Bucket struct {
	Label         string          `json:"label"`
	Start         time.Time       `json:"start"`
	Days          int             `json:"days"`
	OccupiedDays  int             `json:"occupied_days"`
	TotalDays     int             `json:"total_days"`
	Revenue       decimal.Decimal `json:"revenue"`
	BookingsCount int             `json:"bookings_count"`
	TotalStayDays int             `json:"total_stay_days"`
	OccupancyRate int             `json:"occupancy_rate"`
	AverageStay   float64         `json:"average_stay"`
}

func (b *Bucket) contains(day time.Time) bool {
	return !day.Before(b.Start) && day.Before(b.Start.AddDate(0, 0, b.Days))
}

// Aggregate distributes bookings over the buckets of period.  Bookings that
// do not intersect window are skipped (a zero window keeps all of them) and
// cancelled bookings never count.  Revenue is spread evenly over each
// booking's nights.  roomCount below 1 is treated as 1.
func Aggregate(bookings []model.Booking, period Period, roomCount int, window model.DateRange, now time.Time) []Bucket {
	if roomCount < 1 {
		roomCount = 1
	}
	buckets := layout(period, window, now)

	for _, b := range bookings {
		if b.Status == model.BookingCancelled {
			continue
		}
		stay := b.Stay()
		nights := stay.Nights()
		if nights < 1 {
			continue
		}
		if !window.IsZero() && !stay.Intersects(window) {
			continue
		}

		in := model.Day(stay.CheckIn)
		if home := find(buckets, in); home != nil {
			home.BookingsCount++
			home.TotalStayDays += nights
		}

		perNight := b.TotalAmount.Div(decimal.NewFromInt(int64(nights)))
		for d := in; d.Before(model.Day(stay.CheckOut)); d = d.AddDate(0, 0, 1) {
			if bucket := find(buckets, d); bucket != nil {
				bucket.OccupiedDays++
				bucket.Revenue = bucket.Revenue.Add(perNight)
			}
		}
	}

	for i := range buckets {
		b := &buckets[i]
		b.TotalDays = b.Days * roomCount
		if b.TotalDays > 0 {
			b.OccupancyRate = int(math.Round(100 * float64(b.OccupiedDays) / float64(b.TotalDays)))
		}
		if b.BookingsCount > 0 {
			b.AverageStay = round1(float64(b.TotalStayDays) / float64(b.BookingsCount))
		}
		b.Revenue = b.Revenue.RoundBank(2)
	}
	return buckets
}

// layout builds the empty, chronologically ordered buckets for period.
func layout(period Period, window model.DateRange, now time.Time) []Bucket {
	today := model.Day(now)
	switch period {
	case Daily:
		out := make([]Bucket, 0, dailyBuckets)
		for i := dailyBuckets - 1; i >= 0; i-- {
			d := today.AddDate(0, 0, -i)
			out = append(out, Bucket{Label: d.Format("Jan 2"), Start: d, Days: 1})
		}
		return out
	case Weekly:
		out := make([]Bucket, 0, weeklyBuckets)
		last := today.AddDate(0, 0, -6)
		for i := weeklyBuckets - 1; i >= 0; i-- {
			d := last.AddDate(0, 0, -7*i)
			out = append(out, Bucket{Label: d.Format("Jan 2"), Start: d, Days: 7})
		}
		return out
	default:
		year := today.Year()
		if !window.IsZero() && !window.CheckIn.IsZero() {
			year = window.CheckIn.Year()
		}
		out := make([]Bucket, 0, 12)
		for m := time.January; m <= time.December; m++ {
			start := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
			days := start.AddDate(0, 1, 0).Sub(start).Hours() / 24
			out = append(out, Bucket{Label: m.String()[:3], Start: start, Days: int(math.Round(days))})
		}
		return out
	}
}

// find returns the bucket containing day, or nil when day is outside all of
// them.  Buckets are contiguous and few, so a linear scan is enough.
func find(buckets []Bucket, day time.Time) *Bucket {
	for i := range buckets {
		if buckets[i].contains(day) {
			return &buckets[i]
		}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Summary is the reduction of a bucket series shown above the dashboard chart.
type Summary struct {
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
	AverageOccupancy float64         `json:"average_occupancy"`
	TotalBookings    int             `json:"total_bookings"`
}

// Summarize totals revenue and bookings and averages the bucket occupancy
// rates.
func Summarize(buckets []Bucket) Summary {
	s := Summary{TotalRevenue: decimal.Zero}
	if len(buckets) == 0 {
		return s
	}
	var occupancy int
	for _, b := range buckets {
		s.TotalRevenue = s.TotalRevenue.Add(b.Revenue)
		s.TotalBookings += b.BookingsCount
		occupancy += b.OccupancyRate
	}
	s.AverageOccupancy = round1(float64(occupancy) / float64(len(buckets)))
	return s
}
