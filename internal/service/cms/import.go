package cms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// ImportInput holds the parameters for an import run.
type ImportInput struct {
	// MaxEntries stops the run after this many documents; 0 means all.
	MaxEntries int
}

// ImportResult summarizes an import run.
type ImportResult struct {
	Fetched int
	Created int
	// Skipped counts documents whose entry already exists.
	Skipped int
	Failed  int
	// Degraded counts documents the normalizer reported issues for.
	Degraded int
}

// Import copies CMS entries into the store page by page. Categories of a
// page are resolved sequentially first; entries are then created
// concurrently, bounded by the configured import concurrency. Entries that
// already exist are skipped, so runs can be repeated.
func (s *Service) Import(ctx context.Context, input ImportInput) (*ImportResult, error) {
	if input.MaxEntries < 0 {
		return nil, domain.NewValidationError("max_entries", "must be >= 0")
	}

	result := &ImportResult{}
	offset := 0
	for {
		limit := s.pageSize()
		if input.MaxEntries > 0 && input.MaxEntries-result.Fetched < limit {
			limit = input.MaxEntries - result.Fetched
		}
		if limit <= 0 {
			break
		}

		page, err := s.client.ListEntries(ctx, offset, limit)
		if err != nil {
			return result, fmt.Errorf("list cms entries at offset %d: %w", offset, err)
		}

		entries := make([]domain.LexicalEntry, len(page.Contents))
		for i, raw := range page.Contents {
			var degraded bool
			entries[i], degraded = s.normalize(ctx, raw)
			if degraded {
				result.Degraded++
			}
		}
		result.Fetched += len(entries)

		if err := s.importPage(ctx, entries, result); err != nil {
			return result, err
		}

		s.log.InfoContext(ctx, "cms page imported",
			slog.Int("offset", offset),
			slog.Int("fetched", result.Fetched),
			slog.Int("total", page.TotalCount),
		)

		if !page.HasMore() {
			break
		}
		offset += len(page.Contents)
	}

	s.log.InfoContext(ctx, "cms import finished",
		slog.Int("fetched", result.Fetched),
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
		slog.Int("failed", result.Failed),
	)
	return result, nil
}

func (s *Service) importPage(ctx context.Context, entries []domain.LexicalEntry, result *ImportResult) error {
	var labels []string
	for _, e := range entries {
		labels = append(labels, e.Categories...)
	}
	categoryIDs, err := s.categories.EnsureSlugs(ctx, labels)
	if err != nil {
		return fmt.Errorf("resolve categories: %w", err)
	}

	var created, skipped, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency())

	for _, entry := range entries {
		g.Go(func() error {
			if entry.ID == "" {
				failed.Add(1)
				s.log.WarnContext(gctx, "cms document without id skipped")
				return nil
			}

			ids := make([]uuid.UUID, 0, len(entry.Categories))
			for _, label := range entry.Categories {
				if id, ok := categoryIDs[label]; ok {
					ids = append(ids, id)
				}
			}

			_, err := s.entries.CreateFromCanonical(gctx, entry, ids)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, domain.ErrAlreadyExists):
				skipped.Add(1)
			case gctx.Err() != nil:
				return gctx.Err()
			default:
				failed.Add(1)
				s.log.ErrorContext(gctx, "cms entry import failed",
					slog.String("cms_id", entry.ID),
					slog.String("error", err.Error()),
				)
			}
			return nil
		})
	}

	err = g.Wait()
	result.Created += int(created.Load())
	result.Skipped += int(skipped.Load())
	result.Failed += int(failed.Load())
	return err
}

func (s *Service) concurrency() int {
	if s.cfg.ImportConcurrency > 0 {
		return s.cfg.ImportConcurrency
	}
	return 1
}
