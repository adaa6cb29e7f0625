package entry

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

const (
	defaultLimit = 50
	maxLimit     = 200

	sortByCreatedAt = "created_at"
	sortByUpdatedAt = "updated_at"

	sortOrderASC  = "ASC"
	sortOrderDESC = "DESC"
)

// normalizeFilter applies defaults and clamps values.
func normalizeFilter(f *domain.EntryFilter) {
	switch f.SortBy {
	case sortByCreatedAt, sortByUpdatedAt:
	default:
		f.SortBy = sortByCreatedAt
	}

	switch f.SortOrder {
	case sortOrderASC, sortOrderDESC:
	default:
		f.SortOrder = sortOrderDESC
	}

	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}

	if f.Offset < 0 {
		f.Offset = 0
	}
}

// where adds the filter predicates to a query over entries aliased as e.
func where(b sq.SelectBuilder, f domain.EntryFilter) sq.SelectBuilder {
	if f.Search != nil && *f.Search != "" {
		sub := sq.Select("1").
			From("entry_words w").
			Where("w.entry_id = e.id").
			Where(sq.ILike{"w.value": "%" + *f.Search + "%"})
		if f.Lang != nil {
			sub = sub.Where(sq.Eq{"w.lang": string(*f.Lang)})
		}
		b = b.Where(sq.Expr("EXISTS (?)", sub))
	}
	if f.CategoryID != nil {
		b = b.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM entry_categories ec WHERE ec.entry_id = e.id AND ec.category_id = ?)",
			*f.CategoryID,
		))
	}
	return b
}

// orderBy returns the ORDER BY clause with id as tiebreaker.
func orderBy(f domain.EntryFilter) string {
	col := "e.created_at"
	if f.SortBy == sortByUpdatedAt {
		col = "e.updated_at"
	}
	return col + " " + f.SortOrder + ", e.id " + f.SortOrder
}
