package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// guardApp mounts a guard in front of a trivial handler, optionally
// injecting a principal the way Middleware.Handle would.
func guardApp(guard fiber.Handler, principal *Principal) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var domainErr *apperrors.DomainError
			if errors.As(err, &domainErr) {
				return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": domainErr.Code})
			}
			return c.SendStatus(http.StatusInternalServerError)
		},
	})
	app.Use(func(c *fiber.Ctx) error {
		if principal != nil {
			c.Locals(principalKey, principal)
		}
		return c.Next()
	})
	app.Get("/guarded", guard, func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	return app
}

func guardStatus(t *testing.T, guard fiber.Handler, principal *Principal) int {
	t.Helper()
	app := guardApp(guard, principal)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/guarded", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	return resp.StatusCode
}

func TestRequireAuthenticated(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, RequireAuthenticated(), nil))
	assert.Equal(t, http.StatusOK, guardStatus(t, RequireAuthenticated(), &Principal{UserID: 1}))
}

func TestRequireRole(t *testing.T) {
	guard := RequireRole("editor")

	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, guard, nil))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, guard, &Principal{UserID: 1, Roles: []string{"viewer"}}))
	assert.Equal(t, http.StatusOK, guardStatus(t, guard, &Principal{UserID: 1, Roles: []string{"editor"}}))
}

func TestRequireStaff(t *testing.T) {
	guard := RequireStaff()

	assert.Equal(t, http.StatusUnauthorized, guardStatus(t, guard, nil))
	assert.Equal(t, http.StatusForbidden, guardStatus(t, guard, &Principal{UserID: 1}))
	assert.Equal(t, http.StatusOK, guardStatus(t, guard, &Principal{UserID: 1, IsStaff: true}))
}
