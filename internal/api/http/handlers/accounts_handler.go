package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Zia-11/web-project/internal/api/dto"
	"github.com/Zia-11/web-project/internal/auth"
	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/service"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// AccountsHandler exposes registration, login and profile endpoints.
type AccountsHandler struct {
	accounts *service.AccountService
	sessions *service.SessionService
	pages    Pagination
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService, sessions *service.SessionService, pages Pagination) *AccountsHandler {
	return &AccountsHandler{accounts: accounts, sessions: sessions, pages: pages}
}

// Register handles POST /register.
func (h *AccountsHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.accounts.Register(c.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": userResponse(user)})
}

// Login handles POST /login. On success the session cookie is set and a
// bearer token is issued for cookie-less API clients.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.accounts.Login(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	principal := auth.NewPrincipal(user)

	// Rotate the session token so a token fixed before authentication
	// never names an authenticated session.
	oldToken, _ := auth.SessionTokenFromContext(c)
	token, err := h.sessions.RotateToken(c.Context(), oldToken)
	if err != nil {
		return err
	}
	if err := h.sessions.EstablishLogin(c.Context(), token, principal); err != nil {
		return err
	}
	setSessionCookie(c, h.sessions.CookieName(), token, int(h.sessions.DefaultTTL().Seconds()))

	bearer, expiresAt, err := h.accounts.IssueToken(principal)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"detail": "logged in",
		"data": fiber.Map{
			"user": userResponse(user),
			"auth": dto.AuthResponse{Token: bearer, ExpiresAt: expiresAt},
		},
	})
}

// Logout handles POST /logout. The session is destroyed server-side and
// the cookie cleared.
func (h *AccountsHandler) Logout(c *fiber.Ctx) error {
	if token, ok := auth.SessionTokenFromContext(c); ok {
		if err := h.sessions.Logout(c.Context(), token); err != nil {
			return err
		}
	}
	clearSessionCookie(c, h.sessions.CookieName())
	return c.JSON(fiber.Map{"detail": "logged out"})
}

// Profile handles GET /profile.
func (h *AccountsHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(dto.ProfileResponse{
		Username: principal.Username,
		Email:    principal.Email,
	})
}

// ListUsers handles GET /users.
func (h *AccountsHandler) ListUsers(c *fiber.Ctx) error {
	page := parseIntQuery(c, "page", 1)
	pageSize := h.pages.pageSize(c)

	users, total, err := h.accounts.ListUsers(c.Context(), page, pageSize)
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{
		"data": items,
		"meta": dto.PageMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

// StaffOnly handles GET /staff-only, gated by the staff guard.
func (h *AccountsHandler) StaffOnly(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "hello, staff!"})
}

// EditorOnly handles GET /editor-only, gated by the editor role guard.
func (h *AccountsHandler) EditorOnly(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "welcome, editor!"})
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		IsStaff:  user.IsStaff,
	}
}

func setSessionCookie(c *fiber.Ctx, name, token string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearSessionCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}
