package dictionary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/reconcile"
)

// UpdateEntry reconciles a submitted edit against the stored entry and
// applies the resulting plan in one transaction. The entry row is locked for
// the duration. When ExpectedVersion is set and differs from the stored
// version the update fails with domain.ErrConflict.
func (s *Service) UpdateEntry(ctx context.Context, input UpdateEntryInput) (*UpdateResult, error) {
	if err := input.Validate(s.cfg); err != nil {
		return nil, err
	}

	desired := reconcile.Desired{
		Cover: input.Cover,
		Rows:  toRows(input.Rows),
	}
	if input.CategoryIDs != nil {
		desired.CategoryIDs = dedupIDs(input.CategoryIDs)
	}

	result := &UpdateResult{}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.entries.GetByIDForUpdate(txCtx, input.EntryID)
		if err != nil {
			return err
		}
		if input.ExpectedVersion != nil && *input.ExpectedVersion != current.Version {
			return fmt.Errorf("entry %s version %d (stored %d): %w",
				input.EntryID, *input.ExpectedVersion, current.Version, domain.ErrConflict)
		}
		if err := s.withCategories(txCtx, current); err != nil {
			return fmt.Errorf("load categories: %w", err)
		}

		plan := reconcile.Build(*current, input.Mode, desired)
		result.Adopted = plan.Adopted()
		result.Created, result.Updated, result.Deleted = plan.Counts()

		if plan.IsEmpty() {
			result.Entry = current
			return nil
		}

		if err := s.checkCategories(txCtx, plan.Categories.Connect); err != nil {
			return err
		}

		for _, kp := range plan.Kinds {
			if kp.IsEmpty() {
				continue
			}
			if _, err := s.entries.ApplyRows(txCtx, current.ID, kp.Kind, kp.Create, kp.Update, kp.DeleteIDs()); err != nil {
				return fmt.Errorf("apply %s rows: %w", kp.Kind, err)
			}
		}

		if err := s.categories.Unlink(txCtx, current.ID, plan.Categories.Disconnect); err != nil {
			return fmt.Errorf("unlink categories: %w", err)
		}
		if err := s.categories.Link(txCtx, current.ID, plan.Categories.Connect); err != nil {
			return fmt.Errorf("link categories: %w", err)
		}

		cover := current.CoverImage
		if plan.Cover != nil {
			cover = *plan.Cover
		}
		if _, err := s.entries.UpdateEntry(txCtx, current.ID, cover, current.Version); err != nil {
			return fmt.Errorf("bump entry version: %w", err)
		}

		updated, err := s.entries.GetByID(txCtx, current.ID)
		if err != nil {
			return fmt.Errorf("reload entry: %w", err)
		}
		if err := s.withCategories(txCtx, updated); err != nil {
			return fmt.Errorf("load categories: %w", err)
		}

		result.Entry = updated
		result.Changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(result.Adopted) > 0 {
		s.log.WarnContext(ctx, "unknown row ids recreated",
			slog.String("entry_id", input.EntryID.String()),
			slog.Int("count", len(result.Adopted)),
		)
	}
	s.log.InfoContext(ctx, "entry updated",
		slog.String("entry_id", input.EntryID.String()),
		slog.String("mode", input.Mode.String()),
		slog.Bool("changed", result.Changed),
		slog.Int("created", result.Created),
		slog.Int("updated", result.Updated),
		slog.Int("deleted", result.Deleted),
		slog.Int("version", result.Entry.Version),
	)

	return result, nil
}
