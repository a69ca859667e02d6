package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Zia-11/web-project/internal/repository"
)

const (
	principalKey    = "auth_principal"
	sessionTokenKey = "auth_session_token"
)

// Middleware resolves the caller's identity from either a bearer token or
// the session cookie. It never rejects a request itself; guards do that.
type Middleware struct {
	tokens     *TokenManager
	sessions   repository.SessionRepository
	cookieName string
}

// NewMiddleware constructs the principal-loading middleware.
func NewMiddleware(tokens *TokenManager, sessions repository.SessionRepository, cookieName string) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions, cookieName: cookieName}
}

// Handle loads the principal (if any) and the session token into locals.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	if token := bearerToken(c); token != "" {
		if principal, err := m.tokens.ParseToken(token); err == nil {
			c.Locals(principalKey, principal)
			c.Locals("request_username", principal.Username)
			return c.Next()
		}
	}

	sessionToken := c.Cookies(m.cookieName)
	if sessionToken != "" {
		c.Locals(sessionTokenKey, sessionToken)
		fields, err := m.sessions.Fields(c.Context(), sessionToken)
		if err == nil {
			if principal := PrincipalFromSession(fields); principal != nil {
				c.Locals(principalKey, principal)
				c.Locals("request_username", principal.Username)
			}
		}
	}

	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}

// SessionTokenFromContext retrieves the caller's session token, if the
// request carried the session cookie.
func SessionTokenFromContext(c *fiber.Ctx) (string, bool) {
	val := c.Locals(sessionTokenKey)
	if val == nil {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}
