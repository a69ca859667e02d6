package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/jackc/pgx/v5"

	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/events"
	"github.com/Zia-11/web-project/internal/repository"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

const (
	maxProductNameLength     = 255
	maxProductCategoryLength = 100
)

// Decimal with up to 10 digits total, two of them fractional.
var pricePattern = regexp.MustCompile(`^[0-9]{1,8}(\.[0-9]{1,2})?$`)

// ProductInput carries the mutable product fields for create/replace.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	Category    string
	Quantity    int
}

// ProductPatch carries a partial update; nil fields stay untouched.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *string
	Category    *string
	Quantity    *int
}

// ProductService implements product CRUD. Every successful mutation
// publishes a product event after the write commits; publication is
// asynchronous and can never fail the mutation.
type ProductService struct {
	products   repository.ProductRepository
	dispatcher events.Dispatcher
}

// NewProductService builds the service.
func NewProductService(products repository.ProductRepository, dispatcher events.Dispatcher) *ProductService {
	return &ProductService{products: products, dispatcher: dispatcher}
}

// List returns a filtered, sorted page of products with the total match count.
func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter) ([]domain.Product, int64, error) {
	return s.products.List(ctx, filter)
}

// Get fetches a single product.
func (s *ProductService) Get(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("product", map[string]any{"id": id})
	}
	return product, err
}

// Count returns the total number of products.
func (s *ProductService) Count(ctx context.Context) (int64, error) {
	return s.products.Count(ctx)
}

// Create validates and persists a new product.
func (s *ProductService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product := &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
		Quantity:    input.Quantity,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	s.notifyMutation(events.EventProductCreated, product.ID)
	return product, nil
}

// Replace overwrites every mutable field of an existing product.
func (s *ProductService) Replace(ctx context.Context, id int64, input ProductInput) (*domain.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Name = input.Name
	product.Description = input.Description
	product.Price = input.Price
	product.Category = input.Category
	product.Quantity = input.Quantity
	if err := s.updateExisting(ctx, product); err != nil {
		return nil, err
	}
	s.notifyMutation(events.EventProductUpdated, product.ID)
	return product, nil
}

// Patch applies a partial update.
func (s *ProductService) Patch(ctx context.Context, id int64, patch ProductPatch) (*domain.Product, error) {
	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		product.Name = *patch.Name
	}
	if patch.Description != nil {
		product.Description = *patch.Description
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Quantity != nil {
		product.Quantity = *patch.Quantity
	}
	input := ProductInput{
		Name:        product.Name,
		Description: product.Description,
		Price:       product.Price,
		Category:    product.Category,
		Quantity:    product.Quantity,
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}
	if err := s.updateExisting(ctx, product); err != nil {
		return nil, err
	}
	s.notifyMutation(events.EventProductUpdated, product.ID)
	return product, nil
}

// Delete removes a product, 404 when the id never existed or is already gone.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.products.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("product", map[string]any{"id": id})
	}
	if err != nil {
		return err
	}
	s.notifyMutation(events.EventProductDeleted, id)
	return nil
}

func (s *ProductService) updateExisting(ctx context.Context, product *domain.Product) error {
	err := s.products.Update(ctx, product)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("product", map[string]any{"id": product.ID})
	}
	return err
}

// notifyMutation publishes the post-commit event on a detached context so
// delivery outlives the triggering request and cannot block its response.
func (s *ProductService) notifyMutation(eventType events.EventType, productID int64) {
	if s.dispatcher == nil {
		return
	}
	event := events.NewProductEvent(eventType, productID)
	go func() {
		_ = s.dispatcher.Publish(context.Background(), event)
	}()
}

func validateProductInput(input ProductInput) error {
	fields := map[string][]string{}
	if input.Name == "" {
		fields["name"] = append(fields["name"], "this field is required")
	} else if len(input.Name) > maxProductNameLength {
		fields["name"] = append(fields["name"], fmt.Sprintf("ensure this field has no more than %d characters", maxProductNameLength))
	}
	if input.Price == "" {
		fields["price"] = append(fields["price"], "this field is required")
	} else if !pricePattern.MatchString(input.Price) {
		fields["price"] = append(fields["price"], "a valid decimal with at most 2 decimal places is required")
	}
	if len(input.Category) > maxProductCategoryLength {
		fields["category"] = append(fields["category"], fmt.Sprintf("ensure this field has no more than %d characters", maxProductCategoryLength))
	}
	if input.Quantity < 0 {
		fields["quantity"] = append(fields["quantity"], "ensure this value is greater than or equal to 0")
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(fields))
	}
	return nil
}
