package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// RequestLogger tags every request with an id (the caller's X-Request-ID
// when it looks like a uuid, a fresh one otherwise), stores a logger
// carrying that id in the request context and logs one line per request.
func RequestLogger(base zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if _, err := uuid.Parse(id); err != nil {
				id = uuid.NewString()
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)

			logger := base.With().Str("request_id", id).Logger()
			c.SetRequest(req.WithContext(logger.WithContext(req.Context())))

			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			ev := log.Ctx(c.Request().Context()).Info()
			if status >= http.StatusInternalServerError {
				ev = log.Ctx(c.Request().Context()).Error().Err(err)
			}
			ev.Str("method", req.Method).
				Str("path", c.Path()).
				Str("uri", req.RequestURI).
				Int("status", status).
				Int64("bytes", c.Response().Size).
				Dur("duration", time.Since(start)).
				Msg("request completed")
			return nil
		}
	}
}

// Recover turns a panic in a handler into a 500 and logs it with the stack.
func Recover() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					if r == http.ErrAbortHandler {
						panic(r)
					}
					log.Ctx(c.Request().Context()).Error().
						Interface("panic", r).
						Str("stack", string(debug.Stack())).
						Msg("panic recovered")
					err = echo.NewHTTPError(http.StatusInternalServerError, "internal error").
						SetInternal(fmt.Errorf("panic: %v", r))
				}
			}()
			return next(c)
		}
	}
}
