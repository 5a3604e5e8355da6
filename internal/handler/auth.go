package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/contacts-api/internal/config"
	"github.com/iliyamo/contacts-api/internal/model"
	"github.com/iliyamo/contacts-api/internal/queue"
	"github.com/iliyamo/contacts-api/internal/repository"
	"github.com/iliyamo/contacts-api/internal/utils"
)

// UserStore is the repository surface the auth handlers depend on.
type UserStore interface {
	Create(ctx context.Context, username, email, passwordHash string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	ConfirmEmail(ctx context.Context, email string) error
	UpdateRefreshToken(ctx context.Context, userID uint64, token *string) error
	UpdateAvatar(ctx context.Context, email, url string) (*model.User, error)
}

// RegistrationPublisher pushes signup events toward the mail pipeline.
// A nil publisher (or a failing broker) never blocks registration.
type RegistrationPublisher interface {
	PublishUserRegistered(ctx context.Context, ev queue.UserRegisteredEvent) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Events RegistrationPublisher
}

func NewAuthHandler(cfg config.Config, users UserStore, events RegistrationPublisher) *AuthHandler {
	if users == nil {
		panic("nil store passed to NewAuthHandler")
	}
	return &AuthHandler{Cfg: cfg, Users: users, Events: events}
}

// ----- DTOs -----

type signupReq struct {
	Username string `json:"username" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

type loginReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type avatarReq struct {
	Avatar string `json:"avatar" validate:"required,url,max=255"`
}

type userResp struct {
	ID        uint64  `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	Avatar    *string `json:"avatar"`
	Confirmed bool    `json:"confirmed"`
}

type tokenResp struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

func toUserResp(u *model.User) userResp {
	return userResp{ID: u.ID, Username: u.Username, Email: u.Email, Avatar: u.Avatar, Confirmed: u.Confirmed}
}

// Signup creates an account and queues the confirmation mail. The
// response never includes tokens: the account must confirm its email
// and log in first.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
	}
	u, err := h.Users.Create(ctx, strings.TrimSpace(req.Username), req.Email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	if h.Events != nil {
		emailTok, err := utils.NewEmailToken(h.Cfg.JWTSecret, u.Email)
		if err == nil {
			err = h.Events.PublishUserRegistered(ctx, queue.UserRegisteredEvent{
				UserID:       u.ID,
				Username:     u.Username,
				Email:        u.Email,
				ConfirmToken: emailTok.Token,
				RegisteredAt: time.Now().UTC().Format(time.RFC3339),
			})
		}
		if err != nil {
			// Mail delivery is best-effort; the confirmation link can
			// be re-requested once the broker is back.
			log.Printf("signup: publish user.registered failed: %v", err)
		}
	}

	return c.JSON(http.StatusCreated, toUserResp(u))
}

// Login verifies credentials and returns a fresh token pair. The
// refresh token is persisted on the user row so rotation invalidates
// older sessions.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	if !u.Confirmed {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "email not confirmed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	return h.issuePair(c, ctx, u)
}

// Refresh exchanges a valid refresh token (sent as the bearer token)
// for a new pair. The presented token must match the one stored for
// the user; a mismatch clears the stored token so a stolen older
// token cannot be replayed.
func (h *AuthHandler) Refresh(c echo.Context) error {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing bearer token"})
	}
	raw := strings.TrimPrefix(auth, "Bearer ")

	email, err := utils.ParseToken(h.Cfg.JWTSecret, raw, utils.ScopeRefresh)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}
	if u.RefreshToken == nil || *u.RefreshToken != raw {
		_ = h.Users.UpdateRefreshToken(ctx, u.ID, nil)
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid refresh token"})
	}

	return h.issuePair(c, ctx, u)
}

// issuePair signs a new access/refresh pair, stores the refresh token
// and writes the token response.
func (h *AuthHandler) issuePair(c echo.Context, ctx context.Context, u *model.User) error {
	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.Email, h.Cfg.AccessTTLMin)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	refresh, err := utils.NewRefreshToken(h.Cfg.JWTSecret, u.Email, h.Cfg.RefreshTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue refresh failed"})
	}
	if err := h.Users.UpdateRefreshToken(ctx, u.ID, &refresh.Token); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save refresh failed"})
	}
	return c.JSON(http.StatusOK, tokenResp{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		TokenType:    "bearer",
	})
}

// ConfirmEmail handles the link from the confirmation mail. The
// operation is idempotent: confirming twice reports already-confirmed
// rather than failing.
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	email, err := utils.ParseToken(h.Cfg.JWTSecret, c.Param("token"), utils.ScopeEmail)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid token for email verification"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "verification error"})
	}
	if u.Confirmed {
		return c.JSON(http.StatusOK, echo.Map{"message": "your email is already confirmed"})
	}
	if err := h.Users.ConfirmEmail(ctx, email); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "email confirmed"})
}

// UpdateAvatar handles PATCH /api/auth/avatar for the authenticated
// user. The JWT middleware has already stored the caller's email in
// the context.
func (h *AuthHandler) UpdateAvatar(c echo.Context) error {
	email, ok := c.Get("user_email").(string)
	if !ok || email == "" {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req avatarReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.UpdateAvatar(ctx, email, req.Avatar)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
		}
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, toUserResp(u))
}
