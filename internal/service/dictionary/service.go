package dictionary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/normalizer"
)

// ---------------------------------------------------------------------------
// Consumer-defined interfaces (private)
// ---------------------------------------------------------------------------

type entryRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error)
	List(ctx context.Context, filter domain.EntryFilter) ([]domain.StoredEntry, error)
	Count(ctx context.Context, filter domain.EntryFilter) (int, error)
	Create(ctx context.Context, e *domain.StoredEntry) (*domain.StoredEntry, error)
	ApplyRows(ctx context.Context, entryID uuid.UUID, kind domain.ChildKind, create, update []domain.ChildRow, deleteIDs []uuid.UUID) ([]domain.ChildRow, error)
	UpdateEntry(ctx context.Context, id uuid.UUID, cover domain.CoverImage, expectedVersion int) (int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryRepo interface {
	CountExisting(ctx context.Context, ids []uuid.UUID) (int, error)
	GetByEntryIDs(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]domain.Category, error)
	Link(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error
	Unlink(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Service implements dictionary entry reads and edits. Every edit goes
// through the reconciler and runs in one transaction per entry.
type Service struct {
	log        *slog.Logger
	entries    entryRepo
	categories categoryRepo
	tx         txManager
	cfg        config.DictionaryConfig
}

// NewService creates a new Dictionary service.
func NewService(
	logger *slog.Logger,
	entries entryRepo,
	categories categoryRepo,
	tx txManager,
	cfg config.DictionaryConfig,
) *Service {
	return &Service{
		log:        logger.With("service", "dictionary"),
		entries:    entries,
		categories: categories,
		tx:         tx,
		cfg:        cfg,
	}
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// clampLimit ensures a limit is within [min, max], defaulting from 0 to defaultVal.
func clampLimit(limit, min, max, defaultVal int) int {
	if limit <= 0 {
		return defaultVal
	}
	if limit < min {
		return min
	}
	if limit > max {
		return max
	}
	return limit
}

// withCategories loads category memberships into the given entries.
func (s *Service) withCategories(ctx context.Context, entries ...*domain.StoredEntry) error {
	ids := make([]uuid.UUID, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
	}
	byEntry, err := s.categories.GetByEntryIDs(ctx, ids)
	if err != nil {
		return err
	}
	for _, e := range entries {
		e.Categories = byEntry[e.ID]
		if e.Categories == nil {
			e.Categories = []domain.Category{}
		}
	}
	return nil
}

// canonical projects a stored entry to its canonical shape and logs any
// rows the normalizer had to drop.
func (s *Service) canonical(ctx context.Context, e domain.StoredEntry) domain.LexicalEntry {
	entry, rep := normalizer.NormalizeWithReport(normalizer.FromStored(e))
	if rep.HasIssues() {
		s.log.WarnContext(ctx, "stored entry has malformed rows",
			slog.String("entry_id", e.ID.String()),
			slog.Any("fields", rep.Fields()),
		)
	}
	return entry
}

// dedupIDs returns ids without duplicates, preserving first occurrence.
func dedupIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
