package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// RequireAuthenticated rejects anonymous callers with 401.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireRole ensures the caller is authenticated and holds the named role.
func RequireRole(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasRole(name) {
			return apperrors.NewForbidden(fmt.Sprintf("requires %s role", name))
		}
		return c.Next()
	}
}

// RequireStaff ensures the caller is an authenticated staff user.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.IsStaff {
			return apperrors.NewForbidden("staff access required")
		}
		return c.Next()
	}
}
