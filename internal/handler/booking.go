package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/middleware"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

// maxListLimit caps GET /v1/bookings.
const maxListLimit = 500

// BookingHandler serves the booking endpoints.
type BookingHandler struct {
	Bookings Bookings
}

func NewBookingHandler(b Bookings) *BookingHandler {
	return &BookingHandler{Bookings: b}
}

// stayFields are the booking fields shared by create and update.
type stayFields struct {
	GuestName       string           `json:"guest_name" validate:"required,max=255"`
	GuestEmail      string           `json:"guest_email" validate:"omitempty,email,max=255"`
	GuestPhone      string           `json:"guest_phone" validate:"max=50"`
	CheckIn         string           `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut        string           `json:"check_out" validate:"required,datetime=2006-01-02"`
	Adults          *int             `json:"adults"`
	Children        int              `json:"children"`
	BaseRate        *decimal.Decimal `json:"base_rate"`
	AmountPaid      *decimal.Decimal `json:"amount_paid"`
	SecurityDeposit *decimal.Decimal `json:"security_deposit"`
	Notes           string           `json:"notes" validate:"max=2000"`
}

type bookingReq struct {
	RoomID uint64 `json:"room_id" validate:"required"`
	stayFields
	Status string `json:"status" validate:"omitempty,oneof=pending confirmed"`
}

// bookingUpdateReq leaves room_id optional: zero keeps the current room.
type bookingUpdateReq struct {
	RoomID uint64 `json:"room_id"`
	stayFields
	Status string `json:"status"`
}

type quoteReq struct {
	RoomID   uint64           `json:"room_id" validate:"required"`
	CheckIn  string           `json:"check_in" validate:"required,datetime=2006-01-02"`
	CheckOut string           `json:"check_out" validate:"required,datetime=2006-01-02"`
	BaseRate *decimal.Decimal `json:"base_rate"`
}

type statusReq struct {
	Status string `json:"status" validate:"required"`
}

func orZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}

// stay parses the validated check-in/check-out pair.
func (r stayFields) stay() (model.DateRange, error) {
	in, err := parseDate(r.CheckIn)
	if err != nil {
		return model.DateRange{}, err
	}
	out, err := parseDate(r.CheckOut)
	if err != nil {
		return model.DateRange{}, err
	}
	return model.NewDateRange(in, out), nil
}

func (r stayFields) adults() int {
	if r.Adults == nil {
		return 1
	}
	return *r.Adults
}

// List handles GET /v1/bookings?property_id=&room_id=&from=&to=&status=a,b&limit=
func (h *BookingHandler) List(c echo.Context) error {
	var f model.BookingFilter
	var ok bool
	if f.PropertyID, ok = queryID(c, "property_id"); !ok {
		return badRequest(c, "invalid property_id")
	}
	if f.RoomID, ok = queryID(c, "room_id"); !ok {
		return badRequest(c, "invalid room_id")
	}
	r, err := queryRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	f.Range = r
	for _, s := range strings.Split(c.QueryParam("status"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Statuses = append(f.Statuses, model.BookingStatus(s))
		}
	}
	f.Limit = 100
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return badRequest(c, "invalid limit")
		}
		f.Limit = min(n, maxListLimit)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	list, err := h.Bookings.List(ctx, f)
	if err != nil {
		return respondError(c, err)
	}
	if list == nil {
		list = []model.Booking{}
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": list})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	b, err := h.Bookings.Get(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Create handles POST /v1/bookings.  An overlapping stay answers 409 with
// the conflicting booking's guest and dates.
func (h *BookingHandler) Create(c echo.Context) error {
	var req bookingReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	stay, err := req.stay()
	if err != nil {
		return badRequest(c, "check_in and check_out must be YYYY-MM-DD")
	}
	actor, _ := middleware.UserID(c)

	ctx, cancel := withTimeout(c)
	defer cancel()
	b, err := h.Bookings.Create(ctx, service.CreateBookingInput{
		RoomID:          req.RoomID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		CheckIn:         stay.CheckIn,
		CheckOut:        stay.CheckOut,
		Adults:          req.adults(),
		Children:        req.Children,
		BaseRate:        req.BaseRate,
		AmountPaid:      orZero(req.AmountPaid),
		SecurityDeposit: orZero(req.SecurityDeposit),
		Status:          model.BookingStatus(req.Status),
		Notes:           req.Notes,
		ActorID:         actor,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, b)
}

// Update handles PUT /v1/bookings/:id.
func (h *BookingHandler) Update(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req bookingUpdateReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	if req.Status != "" {
		return badRequest(c, "use PATCH /v1/bookings/:id/status to change status")
	}
	stay, err := req.stay()
	if err != nil {
		return badRequest(c, "check_in and check_out must be YYYY-MM-DD")
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	b, err := h.Bookings.Update(ctx, id, service.UpdateBookingInput{
		RoomID:          req.RoomID,
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		CheckIn:         stay.CheckIn,
		CheckOut:        stay.CheckOut,
		Adults:          req.adults(),
		Children:        req.Children,
		BaseRate:        req.BaseRate,
		AmountPaid:      orZero(req.AmountPaid),
		SecurityDeposit: orZero(req.SecurityDeposit),
		Notes:           req.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// UpdateStatus handles PATCH /v1/bookings/:id/status.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req statusReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	actor, _ := middleware.UserID(c)

	ctx, cancel := withTimeout(c)
	defer cancel()
	b, err := h.Bookings.UpdateStatus(ctx, id, model.BookingStatus(strings.ToLower(strings.TrimSpace(req.Status))), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

// Quote handles POST /v1/bookings/quote and returns the rounded breakdown.
func (h *BookingHandler) Quote(c echo.Context) error {
	var req quoteReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	in, err1 := parseDate(req.CheckIn)
	out, err2 := parseDate(req.CheckOut)
	if err1 != nil || err2 != nil {
		return badRequest(c, "check_in and check_out must be YYYY-MM-DD")
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	bd, err := h.Bookings.Quote(ctx, service.QuoteInput{RoomID: req.RoomID, BaseRate: req.BaseRate, CheckIn: in, CheckOut: out})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, bd)
}

// Availability handles GET /v1/rooms/:id/availability?check_in=&check_out=&exclude=
func (h *BookingHandler) Availability(c echo.Context) error {
	roomID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	in, err1 := parseDate(c.QueryParam("check_in"))
	out, err2 := parseDate(c.QueryParam("check_out"))
	if err1 != nil || err2 != nil {
		return badRequest(c, "check_in and check_out must be YYYY-MM-DD")
	}
	exclude, ok := queryID(c, "exclude")
	if !ok {
		return badRequest(c, "invalid exclude")
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	res, err := h.Bookings.CheckAvailability(ctx, roomID, model.NewDateRange(in, out), exclude)
	if err != nil {
		return respondError(c, err)
	}
	body := echo.Map{"available": res.Available}
	if res.Conflict != nil {
		body["conflict"] = newConflictBody(*res.Conflict)
	}
	return c.JSON(http.StatusOK, body)
}
