package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// EnsureSlugs resolves category labels to ids, creating missing categories
// with the slugified label as slug and the trimmed label as English name.
// Labels that slugify to the same slug share one category. Blank labels are
// skipped. Returns a map keyed by the labels exactly as given.
func (s *Service) EnsureSlugs(ctx context.Context, labels []string) (map[string]uuid.UUID, error) {
	out := make(map[string]uuid.UUID, len(labels))
	bySlug := make(map[string]uuid.UUID, len(labels))
	for _, label := range labels {
		slug := domain.Slugify(label)
		if slug == "" {
			continue
		}
		if id, done := bySlug[slug]; done {
			out[label] = id
			continue
		}

		id, err := s.ensure(ctx, slug, strings.TrimSpace(label))
		if err != nil {
			return nil, err
		}
		bySlug[slug] = id
		out[label] = id
	}
	return out, nil
}

func (s *Service) ensure(ctx context.Context, slug, label string) (uuid.UUID, error) {
	existing, err := s.categories.FindBySlug(ctx, slug)
	if err == nil {
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return uuid.Nil, fmt.Errorf("find category %q: %w", slug, err)
	}

	created, err := s.categories.Create(ctx, &domain.Category{
		Slug: slug,
		Name: domain.CompleteNames(map[domain.Language]string{domain.LanguageEN: label}),
	})
	if errors.Is(err, domain.ErrAlreadyExists) {
		// Created concurrently since the lookup.
		existing, err = s.categories.FindBySlug(ctx, slug)
		if err != nil {
			return uuid.Nil, fmt.Errorf("find category %q: %w", slug, err)
		}
		return existing.ID, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("create category %q: %w", slug, err)
	}

	s.log.InfoContext(ctx, "category created from label",
		slog.String("category_id", created.ID.String()),
		slog.String("slug", slug),
	)
	return created.ID, nil
}
