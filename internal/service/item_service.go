package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/Zia-11/web-project/internal/domain"
	"github.com/Zia-11/web-project/internal/repository"
	apperrors "github.com/Zia-11/web-project/pkg/util"
)

const maxItemTitleLength = 255

// ItemInput carries the mutable item fields for create/replace.
type ItemInput struct {
	Title       string
	Description string
}

// ItemPatch carries a partial update; nil fields stay untouched.
type ItemPatch struct {
	Title       *string
	Description *string
}

// ItemService implements item CRUD with validation.
type ItemService struct {
	items repository.ItemRepository
}

// NewItemService builds the service.
func NewItemService(items repository.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

// List returns a filtered, sorted page of items with the total match count.
func (s *ItemService) List(ctx context.Context, filter repository.ItemFilter) ([]domain.Item, int64, error) {
	return s.items.List(ctx, filter)
}

// Get fetches a single item.
func (s *ItemService) Get(ctx context.Context, id int64) (*domain.Item, error) {
	item, err := s.items.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewNotFound("item", map[string]any{"id": id})
	}
	return item, err
}

// Create validates and persists a new item.
func (s *ItemService) Create(ctx context.Context, input ItemInput) (*domain.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item := &domain.Item{
		Title:       input.Title,
		Description: input.Description,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Replace overwrites every mutable field of an existing item.
func (s *ItemService) Replace(ctx context.Context, id int64, input ItemInput) (*domain.Item, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Title = input.Title
	item.Description = input.Description
	if err := s.updateExisting(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Patch applies a partial update.
func (s *ItemService) Patch(ctx context.Context, id int64, patch ItemPatch) (*domain.Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		item.Title = *patch.Title
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if err := validateItemInput(ItemInput{Title: item.Title, Description: item.Description}); err != nil {
		return nil, err
	}
	if err := s.updateExisting(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

// Delete removes an item, 404 when the id never existed or is already gone.
func (s *ItemService) Delete(ctx context.Context, id int64) error {
	err := s.items.Delete(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("item", map[string]any{"id": id})
	}
	return err
}

func (s *ItemService) updateExisting(ctx context.Context, item *domain.Item) error {
	err := s.items.Update(ctx, item)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound("item", map[string]any{"id": item.ID})
	}
	return err
}

func validateItemInput(input ItemInput) error {
	fields := map[string][]string{}
	if input.Title == "" {
		fields["title"] = append(fields["title"], "this field is required")
	} else if len(input.Title) > maxItemTitleLength {
		fields["title"] = append(fields["title"], fmt.Sprintf("ensure this field has no more than %d characters", maxItemTitleLength))
	}
	if len(fields) > 0 {
		return apperrors.NewValidationError("validation failed", apperrors.FieldErrors(fields))
	}
	return nil
}
