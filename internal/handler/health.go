package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// Check is a named dependency probe.  A nil Ping marks the dependency as
// disabled rather than down.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

// Health lists the state of each dependency.  Only a failing database turns
// the answer into a 503; Redis and RabbitMQ are optional.
func Health(checks ...Check) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		status, state := http.StatusOK, "ok"
		deps := make(map[string]string, len(checks))
		for _, chk := range checks {
			switch {
			case chk.Ping == nil:
				deps[chk.Name] = "disabled"
			case chk.Ping(ctx) != nil:
				deps[chk.Name] = "down"
				state = "degraded"
				if chk.Name == "mysql" {
					status = http.StatusServiceUnavailable
				}
			default:
				deps[chk.Name] = "ok"
			}
		}
		return c.JSON(status, echo.Map{"status": state, "deps": deps})
	}
}
