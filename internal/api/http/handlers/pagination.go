package handlers

import "github.com/gofiber/fiber/v2"

// Pagination carries the configured page-size default and cap for list
// endpoints.
type Pagination struct {
	DefaultSize int
	MaxSize     int
}

// pageSize resolves the page_size query parameter, falling back to the
// configured default and clamping to the configured cap.
func (p Pagination) pageSize(c *fiber.Ctx) int {
	size := parseIntQuery(c, "page_size", p.DefaultSize)
	if p.MaxSize > 0 && size > p.MaxSize {
		size = p.MaxSize
	}
	return size
}
