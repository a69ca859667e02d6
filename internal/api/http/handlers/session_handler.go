package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/Zia-11/web-project/internal/api/dto"
	"github.com/Zia-11/web-project/internal/auth"
	"github.com/Zia-11/web-project/internal/service"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// SessionHandler exposes the ad-hoc session key/value endpoints. A session
// is created lazily on first write; the token travels in the session cookie.
type SessionHandler struct {
	sessions *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(sessions *service.SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Set handles POST /session/set.
func (h *SessionHandler) Set(c *fiber.Ctx) error {
	var req dto.SessionSetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	fields := map[string][]string{}
	if req.Key == nil || *req.Key == "" {
		fields["key"] = append(fields["key"], "this field is required")
	}
	if req.Value == nil {
		fields["value"] = append(fields["value"], "this field is required")
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(fields))
	}

	token := h.ensureToken(c)
	if err := h.sessions.Set(c.Context(), token, *req.Key, *req.Value); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"detail": "saved " + *req.Key})
}

// Get handles GET /session/get?key=.
func (h *SessionHandler) Get(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"key": {"this field is required"},
		}))
	}

	token, ok := auth.SessionTokenFromContext(c)
	if !ok {
		return apperrors.NewNotFound("session key", map[string]any{"key": key})
	}
	value, err := h.sessions.Get(c.Context(), token, key)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{key: value})
}

// Delete handles DELETE /session/delete?key=.
func (h *SessionHandler) Delete(c *fiber.Ctx) error {
	key := c.Query("key")
	if key == "" {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"key": {"this field is required"},
		}))
	}

	token, ok := auth.SessionTokenFromContext(c)
	if !ok {
		return apperrors.NewNotFound("session key", map[string]any{"key": key})
	}
	value, err := h.sessions.Delete(c.Context(), token, key)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{key: value, "detail": "deleted"})
}

// SetExpiry handles POST /session/expiry. Zero seconds turns the cookie
// into a browser-session cookie; a positive value sets both the cookie
// Max-Age and the server-side TTL.
func (h *SessionHandler) SetExpiry(c *fiber.Ctx) error {
	var req dto.SessionExpiryRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Seconds == nil {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
			"seconds": {"an integer is required"},
		}))
	}

	token := h.ensureToken(c)
	if err := h.sessions.SetExpiry(c.Context(), token, *req.Seconds); err != nil {
		return err
	}

	setSessionCookie(c, h.sessions.CookieName(), token, *req.Seconds)
	return c.JSON(fiber.Map{"detail": fmt.Sprintf("session expiry set to %d seconds", *req.Seconds)})
}

// ensureToken returns the caller's session token, minting one and setting
// the cookie when the request carried none.
func (h *SessionHandler) ensureToken(c *fiber.Ctx) string {
	if token, ok := auth.SessionTokenFromContext(c); ok {
		return token
	}
	token := h.sessions.MintToken()
	setSessionCookie(c, h.sessions.CookieName(), token, int(h.sessions.DefaultTTL().Seconds()))
	return token
}
