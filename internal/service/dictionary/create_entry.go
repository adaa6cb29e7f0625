package dictionary

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/normalizer"
	"github.com/heartmarshall/polyglot-dictionary/internal/reconcile"
)

// sourceNamespace derives stable entry ids from non-UUID source ids.
var sourceNamespace = uuid.MustParse("6f1c1f4e-4a8e-4d8e-9c55-2a4f3d0b7e21")

// SourceEntryID returns the entry id used for a record imported under the
// given source id. UUID source ids are kept; other ids map to a stable
// name-based UUID so that re-imports hit the same entry.
func SourceEntryID(sourceID string) uuid.UUID {
	if sourceID == "" {
		return uuid.Nil
	}
	if id, err := uuid.Parse(sourceID); err == nil {
		return id
	}
	return uuid.NewSHA1(sourceNamespace, []byte(sourceID))
}

// CreateEntry creates an entry with its full row set and category links in
// one transaction. Every category id must exist.
func (s *Service) CreateEntry(ctx context.Context, input CreateEntryInput) (*domain.StoredEntry, error) {
	if err := input.Validate(s.cfg); err != nil {
		return nil, err
	}

	// Positions and single-valued rules are the reconciler's: a new entry is
	// a replace of an empty one.
	plan := reconcile.Build(domain.StoredEntry{}, reconcile.ModeReplaceAll, reconcile.Desired{
		Rows: toRows(input.Rows),
	})
	e := &domain.StoredEntry{
		CoverImage: input.Cover,
		Rows:       make(map[domain.ChildKind][]domain.ChildRow, len(plan.Kinds)),
	}
	for _, kp := range plan.Kinds {
		e.Rows[kp.Kind] = kp.Create
	}

	return s.create(ctx, e, dedupIDs(input.CategoryIDs))
}

// CreateFromCanonical stores a canonical entry, typically one normalized from
// an external source. A non-UUID entry id is mapped through SourceEntryID.
// Returns domain.ErrAlreadyExists if the entry was stored before.
func (s *Service) CreateFromCanonical(ctx context.Context, entry domain.LexicalEntry, categoryIDs []uuid.UUID) (*domain.StoredEntry, error) {
	for _, lang := range domain.Languages() {
		if f := entry.Frequency[lang]; math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, domain.NewValidationError("frequency."+string(lang), "must be a finite number")
		}
	}

	e := normalizer.ToStore(entry)
	e.ID = SourceEntryID(entry.ID)
	e.Categories = nil

	return s.create(ctx, &e, dedupIDs(categoryIDs))
}

func (s *Service) create(ctx context.Context, e *domain.StoredEntry, categoryIDs []uuid.UUID) (*domain.StoredEntry, error) {
	var created *domain.StoredEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.checkCategories(txCtx, categoryIDs); err != nil {
			return err
		}

		var createErr error
		created, createErr = s.entries.Create(txCtx, e)
		if createErr != nil {
			return fmt.Errorf("create entry: %w", createErr)
		}

		if err := s.categories.Link(txCtx, created.ID, categoryIDs); err != nil {
			return fmt.Errorf("link categories: %w", err)
		}

		return s.withCategories(txCtx, created)
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "entry created",
		slog.String("entry_id", created.ID.String()),
		slog.Int("categories", len(categoryIDs)),
	)

	return created, nil
}

// checkCategories fails with a validation error unless every id exists.
func (s *Service) checkCategories(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	n, err := s.categories.CountExisting(ctx, ids)
	if err != nil {
		return fmt.Errorf("count categories: %w", err)
	}
	if n != len(ids) {
		return domain.NewValidationError("categories", "unknown category id")
	}
	return nil
}
