package category

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// ListCategories returns every category ordered by slug.
func (s *Service) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// GetCategory returns one category.
func (s *Service) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}
	return s.categories.GetByID(ctx, id)
}

// CreateCategory creates a category. Missing names default to "".
func (s *Service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*domain.Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	created, err := s.categories.Create(ctx, &domain.Category{
		Slug: strings.TrimSpace(input.Slug),
		Name: domain.CompleteNames(toNames(input.Name)),
	})
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.InfoContext(ctx, "category created",
		slog.String("category_id", created.ID.String()),
		slog.String("slug", created.Slug),
	)
	return created, nil
}

// UpdateCategory changes the slug or names of a category.
func (s *Service) UpdateCategory(ctx context.Context, input UpdateCategoryInput) (*domain.Category, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	current, err := s.categories.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	next := *current
	next.Name = domain.CompleteNames(current.Name)
	if input.Slug != nil {
		next.Slug = strings.TrimSpace(*input.Slug)
	}
	for lang, name := range toNames(input.Name) {
		next.Name[lang] = name
	}

	updated, err := s.categories.Update(ctx, &next)
	if err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	s.log.InfoContext(ctx, "category updated", slog.String("category_id", input.ID.String()))
	return updated, nil
}

// DeleteCategory removes a category and its entry links. Entries are kept.
func (s *Service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "category deleted", slog.String("category_id", id.String()))
	return nil
}
