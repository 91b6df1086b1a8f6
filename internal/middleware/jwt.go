package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// JWTAuth validates the Bearer access token and stores the caller's id and
// role in the echo context (see UserID and Role).  The request logger
// picks up the user id as well.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
			}
			claims, err := utils.ParseAccessToken(secret, strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid token"})
			}
			id, err := claims.UserID()
			if err != nil || id == 0 {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid claims"})
			}

			c.Set(ctxUserID, id)
			c.Set(ctxRole, claims.Role)
			log.Ctx(c.Request().Context()).UpdateContext(func(zc zerolog.Context) zerolog.Context {
				return zc.Uint64("user_id", id).Str("role", claims.Role)
			})
			return next(c)
		}
	}
}
