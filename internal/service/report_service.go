package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/iliyamo/hotel-backoffice/internal/metrics"
	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// ReportService feeds the dashboard charts.
type ReportService struct {
	Rooms    RoomStore
	Bookings BookingStore
	Now      func() time.Time
}

func NewReportService(r RoomStore, b BookingStore) *ReportService {
	return &ReportService{Rooms: r, Bookings: b, Now: time.Now}
}

// ReportQuery selects the property (0 for all), the granularity and an
// optional window.  A zero window means the period's default span.
type ReportQuery struct {
	PropertyID uint64
	Period     metrics.Period
	Window     model.DateRange
}

// Report is the chart series plus its summary.  Sample is true when the
// bookings could not be loaded and demo data was used instead.
type Report struct {
	Period    metrics.Period   `json:"period"`
	Window    model.DateRange  `json:"window"`
	RoomCount int              `json:"room_count"`
	Buckets   []metrics.Bucket `json:"buckets"`
	Summary   metrics.Summary  `json:"summary"`
	Sample    bool             `json:"sample"`
}

// Metrics aggregates the bookings of the query.  Failing to load bookings
// or rooms is not an error: the report falls back to the sample dataset.
func (s *ReportService) Metrics(ctx context.Context, q ReportQuery) (Report, error) {
	if q.Period == "" {
		q.Period = metrics.Monthly
	}
	now := s.Now()
	window := q.Window
	if window.IsZero() {
		window = defaultWindow(q.Period, now)
	} else if err := window.Validate(); err != nil {
		return Report{}, &ValidationError{Field: "to", Err: err}
	}

	bookings, roomCount, err := s.load(ctx, q.PropertyID, window)
	sample := false
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Uint64("property_id", q.PropertyID).Msg("report data unavailable, serving sample data")
		bookings, roomCount, sample = metrics.SampleBookings(now), metrics.SampleRoomCount, true
		window = defaultWindow(q.Period, now)
	}

	buckets := metrics.Aggregate(bookings, q.Period, roomCount, window, now)
	return Report{
		Period:    q.Period,
		Window:    window,
		RoomCount: roomCount,
		Buckets:   buckets,
		Summary:   metrics.Summarize(buckets),
		Sample:    sample,
	}, nil
}

func (s *ReportService) load(ctx context.Context, propertyID uint64, window model.DateRange) ([]model.Booking, int, error) {
	bookings, err := s.Bookings.List(ctx, model.BookingFilter{PropertyID: propertyID, Range: window})
	if err != nil {
		return nil, 0, err
	}
	rooms, err := s.Rooms.CountByProperty(ctx, propertyID)
	if err != nil {
		return nil, 0, err
	}
	return bookings, rooms, nil
}

// defaultWindow covers the buckets the period lays out: the calendar year
// for monthly, the trailing 12 weeks or 14 days otherwise.
func defaultWindow(p metrics.Period, now time.Time) model.DateRange {
	today := model.Day(now)
	switch p {
	case metrics.Daily:
		return model.DateRange{CheckIn: today.AddDate(0, 0, -13), CheckOut: today.AddDate(0, 0, 1)}
	case metrics.Weekly:
		return model.DateRange{CheckIn: today.AddDate(0, 0, -83), CheckOut: today.AddDate(0, 0, 1)}
	default:
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return model.DateRange{CheckIn: start, CheckOut: start.AddDate(1, 0, 0)}
	}
}
