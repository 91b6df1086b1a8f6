package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"github.com/iliyamo/hotel-backoffice/internal/middleware"
	"github.com/iliyamo/hotel-backoffice/internal/model"
	"github.com/iliyamo/hotel-backoffice/internal/repository"
	"github.com/iliyamo/hotel-backoffice/internal/utils"
)

// Users is the user store behind login and account management.
type Users interface {
	Create(ctx context.Context, email, passwordHash, role string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Users      Users
	Secret     string
	AccessTTL  time.Duration
	BcryptCost int
	Now        func() time.Time
}

func NewAuthHandler(users Users, secret string, accessTTL time.Duration, bcryptCost int) *AuthHandler {
	return &AuthHandler{Users: users, Secret: secret, AccessTTL: accessTTL, BcryptCost: bcryptCost, Now: time.Now}
}

type loginReq struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createUserReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=ADMIN MANAGER STAFF"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type loginResp struct {
	User   userPart  `json:"user"`
	Access tokenPart `json:"access"`
}

// Login verifies the credentials and returns an access token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, repository.NormalizeEmail(req.Email))
	if errors.Is(err, repository.ErrUserNotFound) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if err != nil {
		return respondError(c, err)
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		log.Ctx(ctx).Info().Uint64("user_id", u.ID).Msg("login rejected")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Secret, u.ID, u.Role, h.AccessTTL, h.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		User:   userPart{ID: u.ID, Email: u.Email, Role: u.Role},
		Access: tokenPart{Token: access.Token, Expires: access.Exp},
	})
}

// CreateUser adds a back-office account.  Routed behind RequireRole(ADMIN).
func (h *AuthHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if err := decode(c, &req); err != nil {
		return badRequest(c, err.Error())
	}
	hash, err := utils.HashPassword(req.Password, h.BcryptCost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return badRequest(c, err.Error())
		}
		return respondError(c, err)
	}

	ctx, cancel := withTimeout(c)
	defer cancel()

	email := repository.NormalizeEmail(req.Email)
	id, err := h.Users.Create(ctx, email, hash, req.Role)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, userPart{ID: id, Email: email, Role: req.Role})
}

// Me returns the caller's account.
func (h *AuthHandler) Me(c echo.Context) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	ctx, cancel := withTimeout(c)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, userPart{ID: u.ID, Email: u.Email, Role: u.Role})
}
