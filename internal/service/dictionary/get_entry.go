package dictionary

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// GetEntry returns the canonical form of one entry.
func (s *Service) GetEntry(ctx context.Context, id uuid.UUID) (*domain.LexicalEntry, error) {
	stored, err := s.GetEditableEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	entry := s.canonical(ctx, *stored)
	return &entry, nil
}

// GetEditableEntry returns the relational form of one entry, including row
// ids and category ids, for editors to submit updates against.
func (s *Service) GetEditableEntry(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error) {
	if id == uuid.Nil {
		return nil, domain.NewValidationError("id", "required")
	}

	stored, err := s.entries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.withCategories(ctx, stored); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	return stored, nil
}

// ListEntries returns canonical entries, newest first unless sorted otherwise.
func (s *Service) ListEntries(ctx context.Context, input ListInput) (*ListResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	filter := domain.EntryFilter{
		CategoryID: input.CategoryID,
		SortBy:     input.SortBy,
		SortOrder:  strings.ToUpper(input.SortOrder),
		Limit:      clampLimit(input.Limit, 1, s.cfg.MaxPageSize, s.cfg.DefaultPageSize),
		Offset:     input.Offset,
	}
	if input.Search != nil {
		if search := domain.NormalizeText(*input.Search); search != "" {
			filter.Search = &search
		}
	}
	if input.Lang != nil {
		lang, _ := domain.ParseLanguage(*input.Lang)
		filter.Lang = &lang
	}

	stored, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	total, err := s.entries.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}

	ptrs := make([]*domain.StoredEntry, len(stored))
	for i := range stored {
		ptrs[i] = &stored[i]
	}
	if len(ptrs) > 0 {
		if err := s.withCategories(ctx, ptrs...); err != nil {
			return nil, fmt.Errorf("load categories: %w", err)
		}
	}

	result := &ListResult{
		Entries:    make([]domain.LexicalEntry, len(stored)),
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}
	for i := range stored {
		result.Entries[i] = s.canonical(ctx, stored[i])
	}
	return result, nil
}
