// Package handler exposes the booking back office over HTTP.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/hotel-backoffice/internal/availability"
	"github.com/iliyamo/hotel-backoffice/internal/finance"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

// Bookings is the part of service.BookingService the handlers use.
type Bookings interface {
	Quote(ctx context.Context, in service.QuoteInput) (finance.Breakdown, error)
	CheckAvailability(ctx context.Context, roomID uint64, stay model.DateRange, excludeID uint64) (availability.Result, error)
	Create(ctx context.Context, in service.CreateBookingInput) (model.Booking, error)
	Update(ctx context.Context, id uint64, in service.UpdateBookingInput) (model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, next model.BookingStatus, actorID uint64) (model.Booking, error)
	Get(ctx context.Context, id uint64) (model.Booking, error)
	List(ctx context.Context, f model.BookingFilter) ([]model.Booking, error)
}

// Calendar renders the room grid of a property.
type Calendar interface {
	Grid(ctx context.Context, propertyID uint64, start time.Time, days int) (service.CalendarView, error)
}

// Reports computes dashboard metrics.
type Reports interface {
	Metrics(ctx context.Context, q service.ReportQuery) (service.Report, error)
}

// Rooms manages rooms and the housekeeping board.
type Rooms interface {
	ListByProperty(ctx context.Context, propertyID uint64) ([]model.Room, error)
	Create(ctx context.Context, in service.CreateRoomInput) (model.Room, error)
	SetStatus(ctx context.Context, id uint64, status model.RoomStatus) (model.Room, error)
}

// Directory manages owners and properties.
type Directory interface {
	ListOwners(ctx context.Context) ([]model.Owner, error)
	CreateOwner(ctx context.Context, o model.Owner) (model.Owner, error)
	ListProperties(ctx context.Context) ([]model.Property, error)
	CreateProperty(ctx context.Context, p model.Property) (model.Property, error)
}

// conflictBody describes the booking standing in the way of a write.
type conflictBody struct {
	Reference string `json:"reference"`
	GuestName string `json:"guest_name"`
	CheckIn   string `json:"check_in"`
	CheckOut  string `json:"check_out"`
}

func newConflictBody(b model.Booking) conflictBody {
	return conflictBody{
		Reference: b.Reference,
		GuestName: b.GuestName,
		CheckIn:   b.CheckIn.Format(time.DateOnly),
		CheckOut:  b.CheckOut.Format(time.DateOnly),
	}
}

// respondError maps service and repository errors onto HTTP responses.
// Unknown errors are logged and answered with a generic 500.
func respondError(c echo.Context, err error) error {
	var (
		verr     *service.ValidationError
		conflict *service.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": verr.Error()})
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "room is not available for the requested dates",
			"conflict": newConflictBody(conflict.Conflict),
		})
	case errors.Is(err, service.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrBookingNotFound),
		errors.Is(err, repository.ErrRoomNotFound),
		errors.Is(err, repository.ErrPropertyNotFound),
		errors.Is(err, repository.ErrOwnerNotFound),
		errors.Is(err, repository.ErrUserNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEmailExists):
		return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(http.StatusConflict, echo.Map{"error": "record already exists"})
	case errors.Is(err, context.DeadlineExceeded):
		log.Ctx(c.Request().Context()).Warn().Err(err).Msg("request timed out")
		return c.JSON(http.StatusGatewayTimeout, echo.Map{"error": "request timed out"})
	}
	log.Ctx(c.Request().Context()).Error().Err(err).Msg("request failed")
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// queryID parses an optional numeric query parameter; absent means 0.
func queryID(c echo.Context, name string) (uint64, bool) {
	raw := strings.TrimSpace(c.QueryParam(name))
	if raw == "" {
		return 0, true
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	return id, err == nil
}

// parseDate reads a YYYY-MM-DD value.
func parseDate(raw string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(raw))
}

// queryRange reads an optional from/to pair.  Both or neither must be given.
func queryRange(c echo.Context) (model.DateRange, error) {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	if from == "" && to == "" {
		return model.DateRange{}, nil
	}
	start, err := parseDate(from)
	if err != nil {
		return model.DateRange{}, errors.New("from must be YYYY-MM-DD")
	}
	end, err := parseDate(to)
	if err != nil {
		return model.DateRange{}, errors.New("to must be YYYY-MM-DD")
	}
	r := model.NewDateRange(start, end)
	if err := r.Validate(); err != nil {
		return model.DateRange{}, err
	}
	return r, nil
}

// withTimeout bounds the service call the same way for every handler.
func withTimeout(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
