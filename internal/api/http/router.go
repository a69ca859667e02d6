package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Zia-11/web-project/internal/api/http/handlers"
	"github.com/Zia-11/web-project/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Accounts       *handlers.AccountsHandler
	Sessions       *handlers.SessionHandler
	Items          *handlers.ItemsHandler
	Products       *handlers.ProductsHandler
	Clean          *handlers.CleanHandler
	ProductsWS     *handlers.ProductsWSHandler
	AuthMiddleware *auth.Middleware

	// ProductsRequireAuth gates product mutations behind authentication.
	// Off by default to match the observed behavior; flagged as a likely
	// oversight, hence configurable.
	ProductsRequireAuth bool
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// The principal loader runs on every route; guards decide per route.
	app.Use(cfg.AuthMiddleware.Handle)

	app.Post("/register", cfg.Accounts.Register)
	app.Post("/login", cfg.Accounts.Login)
	app.Post("/logout", auth.RequireAuthenticated(), cfg.Accounts.Logout)
	app.Get("/profile", auth.RequireAuthenticated(), cfg.Accounts.Profile)
	app.Get("/users", auth.RequireAuthenticated(), cfg.Accounts.ListUsers)
	app.Get("/staff-only", auth.RequireStaff(), cfg.Accounts.StaffOnly)
	app.Get("/editor-only", auth.RequireRole("editor"), cfg.Accounts.EditorOnly)

	session := app.Group("/session")
	session.Post("/set", cfg.Sessions.Set)
	session.Get("/get", cfg.Sessions.Get)
	session.Delete("/delete", cfg.Sessions.Delete)
	session.Post("/expiry", cfg.Sessions.SetExpiry)

	items := app.Group("/items")
	items.Get("/", cfg.Items.List)
	items.Post("/", auth.RequireAuthenticated(), cfg.Items.Create)
	items.Get("/:id", cfg.Items.Get)
	items.Put("/:id", auth.RequireAuthenticated(), cfg.Items.Replace)
	items.Patch("/:id", auth.RequireAuthenticated(), cfg.Items.Patch)
	items.Delete("/:id", auth.RequireStaff(), cfg.Items.Delete)

	products := app.Group("/products")
	if cfg.ProductsRequireAuth {
		products.Use(productMutationGuard())
	}
	products.Get("/", cfg.Products.List)
	products.Post("/", cfg.Products.Create)
	products.Get("/:id", cfg.Products.Get)
	products.Put("/:id", cfg.Products.Replace)
	products.Patch("/:id", cfg.Products.Patch)
	products.Delete("/:id", cfg.Products.Delete)

	cleanGroup := app.Group("/clean")
	cleanGroup.Get("/validate-query", cfg.Clean.ValidateQuery)
	cleanGroup.Post("/sanitize", cfg.Clean.Sanitize)
	cleanGroup.Post("/upload-file", cfg.Clean.UploadFile)

	app.Get("/ws/products/count", cfg.ProductsWS.Upgrade, cfg.ProductsWS.Serve())
}

// productMutationGuard requires authentication for state-changing product
// verbs while leaving reads public.
func productMutationGuard() fiber.Handler {
	requireAuth := auth.RequireAuthenticated()
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
			return requireAuth(c)
		default:
			return c.Next()
		}
	}
}
