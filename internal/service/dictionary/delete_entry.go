package dictionary

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// DeleteEntry removes an entry with its rows and category links. Categories
// themselves are kept.
func (s *Service) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return domain.NewValidationError("id", "required")
	}

	if err := s.entries.Delete(ctx, id); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "entry deleted", slog.String("entry_id", id.String()))
	return nil
}
