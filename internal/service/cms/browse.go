package cms

import (
	"context"
	"strings"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// PageResult holds one page of normalized CMS entries.
type PageResult struct {
	Entries    []domain.LexicalEntry
	TotalCount int
	Offset     int
	Limit      int
}

// ListEntries returns one page of CMS entries in canonical form.
// Malformed documents degrade to empty fields instead of failing the page.
func (s *Service) ListEntries(ctx context.Context, offset, limit int) (*PageResult, error) {
	if offset < 0 {
		return nil, domain.NewValidationError("offset", "must be >= 0")
	}
	if limit <= 0 {
		limit = s.pageSize()
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}

	page, err := s.client.ListEntries(ctx, offset, limit)
	if err != nil {
		return nil, err
	}

	result := &PageResult{
		Entries:    make([]domain.LexicalEntry, 0, len(page.Contents)),
		TotalCount: page.TotalCount,
		Offset:     page.Offset,
		Limit:      page.Limit,
	}
	for _, raw := range page.Contents {
		entry, _ := s.normalize(ctx, raw)
		result.Entries = append(result.Entries, entry)
	}
	return result, nil
}

// GetEntry returns one CMS entry in canonical form.
func (s *Service) GetEntry(ctx context.Context, id string) (*domain.LexicalEntry, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.NewValidationError("id", "required")
	}

	raw, err := s.client.GetEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	entry, _ := s.normalize(ctx, raw)
	if entry.ID == "" {
		entry.ID = id
	}
	return &entry, nil
}

func (s *Service) pageSize() int {
	if s.cfg.PageSize > 0 && s.cfg.PageSize <= maxPageSize {
		return s.cfg.PageSize
	}
	return 10
}
