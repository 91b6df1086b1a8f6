package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

// RoomHandler serves rooms, owners and properties.
type RoomHandler struct {
	Rooms     Rooms
	Directory Directory
}

func NewRoomHandler(r Rooms, d Directory) *RoomHandler {
	return &RoomHandler{Rooms: r, Directory: d}
}

type createRoomReq struct {
	PropertyID   uint64          `json:"property_id" validate:"required"`
	Number       string          `json:"number" validate:"required,max=20"`
	Type         string          `json:"type" validate:"max=50"`
	BaseRate     decimal.Decimal `json:"base_rate"`
	MaxOccupancy int             `json:"max_occupancy" validate:"required,min=1"`
	OwnerID      *uint64         `json:"owner_id"`
}

type roomStatusReq struct {
	Status string `json:"status" validate:"required,oneof=available maintenance cleaning"`
}

type createOwnerReq struct {
	Name           string           `json:"name" validate:"required,max=255"`
	Email          string           `json:"email" validate:"omitempty,email"`
	Phone          string           `json:"phone" validate:"max=50"`
	CommissionRate *decimal.Decimal `json:"commission_rate"`
}

type createPropertyReq struct {
	Name     string `json:"name" validate:"required,max=255"`
	Timezone string `json:"timezone" validate:"max=64"`
}

// ListByProperty handles GET /v1/properties/:id/rooms.
func (h *RoomHandler) ListByProperty(c echo.Context) error {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	rooms, err := h.Rooms.ListByProperty(ctx, propertyID)
	if err != nil {
		return respondError(c, err)
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	return c.JSON(http.StatusOK, echo.Map{"rooms": rooms})
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	room, err := h.Rooms.Create(ctx, service.CreateRoomInput{
		PropertyID:   req.PropertyID,
		Number:       req.Number,
		Type:         req.Type,
		BaseRate:     req.BaseRate,
		MaxOccupancy: req.MaxOccupancy,
		OwnerID:      req.OwnerID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, room)
}

// SetStatus handles PATCH /v1/rooms/:id/status for the housekeeping board.
func (h *RoomHandler) SetStatus(c echo.Context) error {
	id, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	var req roomStatusReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	room, err := h.Rooms.SetStatus(ctx, id, model.RoomStatus(strings.ToLower(req.Status)))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, room)
}

func (h *RoomHandler) ListOwners(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	owners, err := h.Directory.ListOwners(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if owners == nil {
		owners = []model.Owner{}
	}
	return c.JSON(http.StatusOK, echo.Map{"owners": owners})
}

func (h *RoomHandler) CreateOwner(c echo.Context) error {
	var req createOwnerReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	o, err := h.Directory.CreateOwner(ctx, model.Owner{
		Name:           req.Name,
		Email:          strings.TrimSpace(req.Email),
		Phone:          strings.TrimSpace(req.Phone),
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, o)
}

func (h *RoomHandler) ListProperties(c echo.Context) error {
	ctx, cancel := withTimeout(c)
	defer cancel()
	props, err := h.Directory.ListProperties(ctx)
	if err != nil {
		return respondError(c, err)
	}
	if props == nil {
		props = []model.Property{}
	}
	return c.JSON(http.StatusOK, echo.Map{"properties": props})
}

func (h *RoomHandler) CreateProperty(c echo.Context) error {
	var req createPropertyReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	ctx, cancel := withTimeout(c)
	defer cancel()
	p, err := h.Directory.CreateProperty(ctx, model.Property{Name: req.Name, Timezone: strings.TrimSpace(req.Timezone)})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, p)
}
