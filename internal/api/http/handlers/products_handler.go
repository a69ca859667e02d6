package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Zia-11/web-project/internal/api/dto"
	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/repository"
	"github.com/Zia-11/web-project/internal/service"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

// ProductsHandler manages product CRUD endpoints.
type ProductsHandler struct {
	service *service.ProductService
	pages   Pagination
}

// NewProductsHandler constructs handler.
func NewProductsHandler(productService *service.ProductService, pages Pagination) *ProductsHandler {
	return &ProductsHandler{service: productService, pages: pages}
}

// List handles GET /products.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	filter, page, pageSize := parseProductQuery(c, h.pages)
	products, total, err := h.service.List(c.Context(), filter)
	if err != nil {
		return err
	}
	data := make([]dto.ProductResponse, 0, len(products))
	for i := range products {
		data = append(data, productResponse(&products[i]))
	}
	return c.JSON(dto.ProductListResponse{
		Data: data,
		Meta: dto.PageMeta{Page: page, PageSize: pageSize, Total: total},
	})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	product, err := h.service.Get(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// Create handles POST /products.
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.service.Create(c.Context(), productInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": productResponse(product)})
}

// Replace handles PUT /products/:id.
func (h *ProductsHandler) Replace(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.service.Replace(c.Context(), id, productInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// Patch handles PATCH /products/:id.
func (h *ProductsHandler) Patch(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	product, err := h.service.Patch(c.Context(), id, service.ProductPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       pricePatch(req.Price),
		Category:    req.Category,
		Quantity:    req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(product)})
}

// Delete handles DELETE /products/:id.
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c, "product")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Context(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func productInput(req dto.ProductRequest) service.ProductInput {
	input := service.ProductInput{}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Price != nil {
		input.Price = req.Price.String()
	}
	if req.Category != nil {
		input.Category = *req.Category
	}
	if req.Quantity != nil {
		input.Quantity = *req.Quantity
	}
	return input
}

func pricePatch(price *dto.PriceField) *string {
	if price == nil {
		return nil
	}
	value := price.String()
	return &value
}

func productResponse(product *domain.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Quantity:    product.Quantity,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func parseProductQuery(c *fiber.Ctx, pages Pagination) (repository.ProductFilter, int, int) {
	filter := repository.ProductFilter{}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if search := c.Query("search"); search != "" {
		filter.SearchTerm = &search
	}
	filter.SortBy, filter.SortDesc = parseOrdering(c.Query("ordering"))

	page := parseIntQuery(c, "page", 1)
	pageSize := pages.pageSize(c)
	filter.Offset = (page - 1) * pageSize
	filter.Limit = pageSize
	return filter, page, pageSize
}
