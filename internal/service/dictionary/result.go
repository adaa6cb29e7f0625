package dictionary

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// ListResult holds one page of canonical entries.
type ListResult struct {
	Entries    []domain.LexicalEntry
	TotalCount int
	Limit      int
	Offset     int
}

// UpdateResult holds the outcome of UpdateEntry.
type UpdateResult struct {
	Entry *domain.StoredEntry
	// Adopted lists submitted row ids that matched no stored row and were
	// created as new rows.
	Adopted []uuid.UUID
	Created int
	Updated int
	Deleted int
	// Changed is false when the submission matched the stored entry and
	// nothing was written.
	Changed bool
}
