package dictionary

import (
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/config"
	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/reconcile"
)

const maxCoverURLLength = 2048

// RowInput is one submitted child row. ID is nil for new rows.
// Score is read for frequency rows only, Value for every other kind.
type RowInput struct {
	ID    *uuid.UUID
	Lang  string
	Value string
	Score *float64
}

// ListInput holds the parameters for listing entries.
type ListInput struct {
	Search     *string
	Lang       *string
	CategoryID *uuid.UUID
	SortBy     string
	SortOrder  string
	Limit      int
	Offset     int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError

	if i.Lang != nil {
		if _, ok := domain.ParseLanguage(*i.Lang); !ok {
			errs = append(errs, domain.FieldError{Field: "lang", Message: "unsupported language"})
		}
	}
	if i.Search != nil && len(*i.Search) > 200 {
		errs = append(errs, domain.FieldError{Field: "search", Message: "too long (max 200)"})
	}
	switch i.SortBy {
	case "", "created_at", "updated_at":
	default:
		errs = append(errs, domain.FieldError{Field: "sort_by", Message: "must be created_at or updated_at"})
	}
	switch strings.ToUpper(i.SortOrder) {
	case "", "ASC", "DESC":
	default:
		errs = append(errs, domain.FieldError{Field: "sort_order", Message: "must be ASC or DESC"})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must be >= 0"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// CreateEntryInput holds the parameters for creating an entry.
type CreateEntryInput struct {
	Cover       domain.CoverImage
	Rows        map[domain.ChildKind][]RowInput
	CategoryIDs []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i CreateEntryInput) Validate(cfg config.DictionaryConfig) error {
	var errs []domain.FieldError

	errs = append(errs, validateCover(i.Cover)...)
	errs = append(errs, validateRows(i.Rows, cfg)...)
	errs = append(errs, validateCategoryIDs(i.CategoryIDs)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateEntryInput holds a client-submitted edit of one entry.
// A nil Cover, an absent Rows key and a nil CategoryIDs leave that part as it is.
type UpdateEntryInput struct {
	EntryID         uuid.UUID
	Mode            reconcile.Mode
	ExpectedVersion *int
	Cover           *domain.CoverImage
	Rows            map[domain.ChildKind][]RowInput
	CategoryIDs     []uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i UpdateEntryInput) Validate(cfg config.DictionaryConfig) error {
	var errs []domain.FieldError

	if i.EntryID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if !i.Mode.IsValid() {
		errs = append(errs, domain.FieldError{Field: "mode", Message: "must be replace_all or patch"})
	}
	if i.ExpectedVersion != nil && *i.ExpectedVersion < 1 {
		errs = append(errs, domain.FieldError{Field: "version", Message: "must be >= 1"})
	}
	if i.Cover != nil {
		errs = append(errs, validateCover(*i.Cover)...)
	}
	errs = append(errs, validateRows(i.Rows, cfg)...)
	errs = append(errs, validateCategoryIDs(i.CategoryIDs)...)

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateCover(c domain.CoverImage) []domain.FieldError {
	var errs []domain.FieldError
	if len(c.URL) > maxCoverURLLength {
		errs = append(errs, domain.FieldError{Field: "coverImage.url", Message: "too long (max 2048)"})
	}
	if c.Width < 0 {
		errs = append(errs, domain.FieldError{Field: "coverImage.width", Message: "must be >= 0"})
	}
	if c.Height < 0 {
		errs = append(errs, domain.FieldError{Field: "coverImage.height", Message: "must be >= 0"})
	}
	return errs
}

func validateRows(rows map[domain.ChildKind][]RowInput, cfg config.DictionaryConfig) []domain.FieldError {
	var errs []domain.FieldError

	for _, kind := range domain.ChildKinds() {
		group, ok := rows[kind]
		if !ok {
			continue
		}
		name := strings.ToLower(string(kind))
		if len(group) > cfg.MaxValuesPerKind {
			errs = append(errs, domain.FieldError{
				Field:   name,
				Message: "too many rows (max " + strconv.Itoa(cfg.MaxValuesPerKind) + ")",
			})
		}
		for idx, row := range group {
			if _, ok := domain.ParseLanguage(row.Lang); !ok {
				errs = append(errs, domain.FieldError{Field: fieldIndex(name, idx, "lang"), Message: "unsupported language"})
			}
			if row.ID != nil && *row.ID == uuid.Nil {
				errs = append(errs, domain.FieldError{Field: fieldIndex(name, idx, "id"), Message: "must not be the nil uuid"})
			}

			if kind.IsNumeric() {
				switch {
				case row.Score == nil:
					errs = append(errs, domain.FieldError{Field: fieldIndex(name, idx, "score"), Message: "required"})
				case math.IsNaN(*row.Score) || math.IsInf(*row.Score, 0) || *row.Score < 0:
					errs = append(errs, domain.FieldError{Field: fieldIndex(name, idx, "score"), Message: "must be a finite number >= 0"})
				}
				continue
			}

			value := strings.TrimSpace(row.Value)
			if value == "" {
				errs = append(errs, domain.FieldError{Field: fieldIndex(name, idx, "value"), Message: "required"})
			} else if len(value) > cfg.MaxValueLength {
				errs = append(errs, domain.FieldError{
					Field:   fieldIndex(name, idx, "value"),
					Message: "too long (max " + strconv.Itoa(cfg.MaxValueLength) + ")",
				})
			}
		}
	}

	for kind := range rows {
		if !kind.IsValid() {
			errs = append(errs, domain.FieldError{Field: string(kind), Message: "unknown row kind"})
		}
	}

	return errs
}

func validateCategoryIDs(ids []uuid.UUID) []domain.FieldError {
	var errs []domain.FieldError
	for idx, id := range ids {
		if id == uuid.Nil {
			errs = append(errs, domain.FieldError{Field: "categories[" + strconv.Itoa(idx) + "]", Message: "must not be the nil uuid"})
		}
	}
	return errs
}

// fieldIndex formats a nested field path like "word[0].lang".
func fieldIndex(parent string, idx int, field string) string {
	return parent + "[" + strconv.Itoa(idx) + "]." + field
}

// toRows converts submitted rows of every present kind into child rows.
// A present kind always yields a non-nil slice so that an empty submission
// is distinguishable from an absent one.
func toRows(in map[domain.ChildKind][]RowInput) map[domain.ChildKind][]domain.ChildRow {
	if in == nil {
		return nil
	}
	out := make(map[domain.ChildKind][]domain.ChildRow, len(in))
	for kind, group := range in {
		rows := make([]domain.ChildRow, 0, len(group))
		for _, r := range group {
			lang, _ := domain.ParseLanguage(r.Lang)
			row := domain.ChildRow{Kind: kind, Lang: lang}
			if r.ID != nil {
				row.ID = *r.ID
			}
			if kind.IsNumeric() {
				if r.Score != nil {
					row.Score = *r.Score
				}
			} else {
				row.Value = strings.TrimSpace(r.Value)
			}
			rows = append(rows, row)
		}
		out[kind] = rows
	}
	return out
}
