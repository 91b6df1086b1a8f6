package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-backoffice/internal/handler"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

const secret = "router-secret"

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = handler.NewRequestValidator()
	h := Handlers{
		Health:   handler.Health(handler.Check{Name: "mysql", Ping: func(context.Context) error { return nil }}),
		Auth:     handler.NewAuthHandler(nil, secret, time.Hour, 4),
		Bookings: handler.NewBookingHandler(nil),
		Rooms:    handler.NewRoomHandler(nil, nil),
		Views:    handler.NewViewHandler(nil, nil),
	}
	RegisterRoutes(e, h)
	RegisterAPI(e, h, Middleware{JWTSecret: secret})
	return e
}

func request(e *echo.Echo, method, path, role string) int {
	req := httptest.NewRequest(method, path, nil)
	if role != "" {
		tok, _ := utils.NewAccessToken(secret, 1, role, time.Hour, time.Now())
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok.Token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec.Code
}

func TestRoutesRegistered(t *testing.T) {
	e := newServer(t)
	have := map[string]bool{}
	for _, r := range e.Routes() {
		have[r.Method+" "+r.Path] = true
	}
	for _, want := range []string{
		"GET /healthz",
		"POST /v1/auth/login",
		"POST /v1/users",
		"GET /v1/me",
		"GET /v1/bookings",
		"GET /v1/bookings/:id",
		"POST /v1/bookings",
		"PUT /v1/bookings/:id",
		"PATCH /v1/bookings/:id/status",
		"POST /v1/bookings/quote",
		"GET /v1/rooms/:id/availability",
		"GET /v1/properties/:id/calendar",
		"GET /v1/properties/:id/rooms",
		"POST /v1/rooms",
		"PATCH /v1/rooms/:id/status",
		"GET /v1/owners",
		"POST /v1/owners",
		"GET /v1/reports/metrics",
	} {
		if !have[want] {
			t.Errorf("route %s not registered", want)
		}
	}
}

func TestAccessControl(t *testing.T) {
	e := newServer(t)
	cases := []struct {
		method, path, role string
		want               int
	}{
		{http.MethodGet, "/healthz", "", http.StatusOK},
		{http.MethodGet, "/v1/bookings", "", http.StatusUnauthorized},
		{http.MethodGet, "/v1/bookings/1", "GUEST", http.StatusForbidden},
		{http.MethodPost, "/v1/owners", model.RoleStaff, http.StatusForbidden},
		{http.MethodGet, "/v1/reports/metrics", model.RoleStaff, http.StatusForbidden},
		{http.MethodPost, "/v1/users", model.RoleManager, http.StatusForbidden},
		{http.MethodGet, "/v1/bookings/abc", model.RoleStaff, http.StatusBadRequest},
	}
	for _, tc := range cases {
		if got := request(e, tc.method, tc.path, tc.role); got != tc.want {
			t.Errorf("%s %s as %q: status = %d, want %d", tc.method, tc.path, tc.role, got, tc.want)
		}
	}
}
