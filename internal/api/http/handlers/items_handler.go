package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/Zia-11/web-project/internal/api/dto"
	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/repository"
	"github.com/Zia-11/web-project/internal/service"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// ItemsHandler manages item CRUD endpoints.
type ItemsHandler struct {
	service *service.ItemService
	pages   Pagination
}

// NewItemsHandler constructs handler.
func NewItemsHandler(itemService *service.ItemService, pages Pagination) *ItemsHandler {
	return &ItemsHandler{service: itemService, pages: pages}
}

// List handles GET /items.
func (h *ItemsHandler) List(c *fiber.Ctx) error {
	filter, page, pageSize, err := parseItemQuery(c, h.pages)
	if err != nil {
		return err
	}
	items, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	data := make([]dto.ItemResponse, 0, len(items))
	for i := range items {
		data = append(data, itemResponse(&items[i]))
	}
	return c.JSON(dto.ItemListResponse{
		Data: data,
		Meta: dto.PageMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

// Get handles GET /items/:id.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "item")
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}

// Create handles POST /items.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	var req dto.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.Create(c.Context(), itemInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": itemResponse(item)})
}

// Replace handles PUT /items/:id.
func (h *ItemsHandler) Replace(c *fiber.Ctx) error {
	id, err := parseID(c, "item")
	if err != nil {
		return err
	}
	var req dto.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.Replace(c.Context(), id, itemInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}

// Patch handles PATCH /items/:id.
func (h *ItemsHandler) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "item")
	if err != nil {
		return err
	}
	var req dto.ItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	item, err := h.service.Patch(c.Context(), id, service.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}

// Delete handles DELETE /items/:id.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "item")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func itemInput(req dto.ItemRequest) service.ItemInput {
	input := service.ItemInput{}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	return input
}

func itemResponse(item *domain.Item) dto.ItemResponse {
	return dto.ItemResponse{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		CreatedAt:   item.CreatedAt,
	}
}

func parseItemQuery(c *fiber.Ctx, pages Pagination) (repository.ItemFilter, int, int, error) {
	filter := repository.ItemFilter{}
	if raw := c.Query("created_at"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, 0, 0, apperrors.NewValidationError("validation failed", apperrors.FieldErrors(map[string][]string{
				"created_at": {"enter a valid date (YYYY-MM-DD)"},
			}))
		}
		filter.CreatedOn = &t
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.SortBy, filter.SortDesc = parseOrdering(c.Query("ordering"))

	page := parseIntQuery(c, "page", 1)
	pageSize := pages.pageSize(c)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, page, pageSize, nil
}

// parseOrdering splits an ordering value ("title" or "-title") into a
// sort key and direction.
func parseOrdering(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "-") {
		return raw[1:], true
	}
	return raw, false
}

func parseIntQuery(c *fiber.Ctx, name string, def int) int {
	val := c.Query(name)
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseID(c *fiber.Ctx, resource string) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound(resource, nil)
	}
	return id, nil
}
