package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-backoffice/internal/metrics"
	"github.com/iliyamo/hotel-backoffice/internal/service"
)

const defaultCalendarDays = 14

// ViewHandler serves the read-heavy calendar and dashboard endpoints.
type ViewHandler struct {
	Calendar Calendar
	Reports  Reports
	Now      func() time.Time
}

func NewViewHandler(cal Calendar, rep Reports) *ViewHandler {
	return &ViewHandler{Calendar: cal, Reports: rep, Now: time.Now}
}

// CalendarGrid handles GET /v1/properties/:id/calendar?start=YYYY-MM-DD&days=N.
// start defaults to today and days to two weeks.
func (h *ViewHandler) CalendarGrid(c echo.Context) error {
	propertyID, ok := pathID(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	start := h.Now()
	if raw := c.QueryParam("start"); raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return badRequest(c, "start must be YYYY-MM-DD")
		}
		start = t
	}
	days := defaultCalendarDays
	if raw := c.QueryParam("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "invalid days")
		}
		days = n
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	view, err := h.Calendar.Grid(ctx, propertyID, start, days)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// Metrics handles GET /v1/reports/metrics?property_id=&period=&from=&to=.
func (h *ViewHandler) Metrics(c echo.Context) error {
	propertyID, ok := queryID(c, "property_id")
	if !ok {
		return badRequest(c, "invalid property_id")
	}
	period, err := metrics.ParsePeriod(c.QueryParam("period"))
	if err != nil {
		return badRequest(c, err.Error())
	}
	window, err := queryRange(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := withTimeout(c)
	defer cancel()
	rep, err := h.Reports.Metrics(ctx, service.ReportQuery{PropertyID: propertyID, Period: period, Window: window})
	if err != nil {
		return respondError(c, err)
	}
	if rep.Sample {
		// Demo data stands in for an outage; keep it out of the cache.
		c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	}
	return c.JSON(http.StatusOK, rep)
}
