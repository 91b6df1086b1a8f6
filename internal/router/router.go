package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-backoffice/internal/handler"
	"github.com/iliyamo/hotel-backoffice/internal/middleware"
	"github.com/iliyamo/hotel-backoffice/internal/model"
)

// Handlers groups everything the routes dispatch to.
type Handlers struct {
	Health   echo.HandlerFunc
	Auth     *handler.AuthHandler
	Bookings *handler.BookingHandler
	Rooms    *handler.RoomHandler
	Views    *handler.ViewHandler
}

// Middleware carries the per-group middleware built from config.  Nil
// entries are skipped.
type Middleware struct {
	JWTSecret  string
	RateLimit  echo.MiddlewareFunc
	Cache      echo.MiddlewareFunc
	Invalidate echo.MiddlewareFunc
}

// RegisterRoutes registers routes that need no authentication.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", h.Health)
}

// RegisterAPI registers the /v1 API.  Every route except login needs a
// valid access token; writes that shape the books need MANAGER or ADMIN.
func RegisterAPI(e *echo.Echo, h Handlers, m Middleware) {
	limited := optional(m.RateLimit)
	v1 := e.Group("/v1")
	v1.POST("/auth/login", h.Auth.Login, limited...)

	// The limiter runs after JWTAuth so it can key on the user.
	anyone := v1.Group("", middleware.JWTAuth(m.JWTSecret),
		middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff))
	anyone.Use(optional(m.RateLimit, m.Invalidate)...)
	managers := anyone.Group("", middleware.RequireRole(model.RoleAdmin, model.RoleManager))
	admins := anyone.Group("", middleware.RequireRole(model.RoleAdmin))
	cached := optional(m.Cache)

	anyone.GET("/me", h.Auth.Me)
	admins.POST("/users", h.Auth.CreateUser)

	// Front desk.
	anyone.GET("/bookings", h.Bookings.List)
	anyone.POST("/bookings", h.Bookings.Create)
	anyone.POST("/bookings/quote", h.Bookings.Quote)
	anyone.GET("/bookings/:id", h.Bookings.Get)
	anyone.PUT("/bookings/:id", h.Bookings.Update)
	anyone.PATCH("/bookings/:id/status", h.Bookings.UpdateStatus)
	anyone.GET("/rooms/:id/availability", h.Bookings.Availability)

	// Calendar and housekeeping.
	anyone.GET("/properties", h.Rooms.ListProperties)
	anyone.GET("/properties/:id/calendar", h.Views.CalendarGrid, cached...)
	anyone.GET("/properties/:id/rooms", h.Rooms.ListByProperty)
	anyone.PATCH("/rooms/:id/status", h.Rooms.SetStatus)

	// Back office.
	managers.POST("/properties", h.Rooms.CreateProperty)
	managers.POST("/rooms", h.Rooms.Create)
	managers.GET("/owners", h.Rooms.ListOwners)
	managers.POST("/owners", h.Rooms.CreateOwner)
	managers.GET("/reports/metrics", h.Views.Metrics, cached...)
}

func optional(mw ...echo.MiddlewareFunc) []echo.MiddlewareFunc {
	out := mw[:0:0]
	for _, m := range mw {
		if m != nil {
			out = append(out, m)
		}
	}
	return out
}
