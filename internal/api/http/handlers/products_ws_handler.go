package handlers

import (
	"context"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Zia-11/web-project/internal/service"
	"github.com/Zia-11/web-project/internal/ws"
)

// ProductsWSHandler serves the live product-count channel. Every client
// gets the current count on connect and again after each product mutation.
type ProductsWSHandler struct {
	hub      *ws.Hub
	products *service.ProductService
	logger   *zap.Logger
}

// NewProductsWSHandler constructs handler.
func NewProductsWSHandler(hub *ws.Hub, products *service.ProductService, logger *zap.Logger) *ProductsWSHandler {
	return &ProductsWSHandler{hub: hub, products: products, logger: logger}
}

// Upgrade gates the route to websocket upgrade requests.
func (h *ProductsWSHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return fiber.ErrUpgradeRequired
}

// Serve returns the websocket handler for GET /ws/products/count.
func (h *ProductsWSHandler) Serve() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		h.hub.Register(conn)
		defer func() {
			h.hub.Unregister(conn)
			_ = conn.Close()
		}()

		count, err := h.products.Count(context.Background())
		if err != nil {
			h.logger.Warn("initial product count failed", zap.Error(err))
		} else if err := h.hub.Send(conn, count); err != nil {
			return
		}

		// Inbound messages are ignored; the read loop only detects close.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
}
