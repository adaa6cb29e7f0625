package category

import (
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

const (
	maxSlugLength = 64
	maxNameLength = 100
)

var slugPattern = regexp.MustCompile(`^[\p{L}\p{N}]+(?:[-_][\p{L}\p{N}]+)*$`)

// CreateCategoryInput holds the parameters for creating a category.
type CreateCategoryInput struct {
	Slug string
	Name map[string]string
}

// Validate checks all fields and collects all errors.
func (i CreateCategoryInput) Validate() error {
	errs := validateSlug(i.Slug)
	errs = append(errs, validateNames(i.Name)...)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// UpdateCategoryInput holds the parameters for updating a category.
// A nil Slug keeps the stored slug; a non-nil Name replaces the given
// languages and keeps the others.
type UpdateCategoryInput struct {
	ID   uuid.UUID
	Slug *string
	Name map[string]string
}

// Validate checks all fields and collects all errors.
func (i UpdateCategoryInput) Validate() error {
	var errs []domain.FieldError
	if i.ID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "id", Message: "required"})
	}
	if i.Slug == nil && i.Name == nil {
		errs = append(errs, domain.FieldError{Field: "input", Message: "at least one field must be provided"})
	}
	if i.Slug != nil {
		errs = append(errs, validateSlug(*i.Slug)...)
	}
	errs = append(errs, validateNames(i.Name)...)
	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateSlug(slug string) []domain.FieldError {
	slug = strings.TrimSpace(slug)
	switch {
	case slug == "":
		return []domain.FieldError{{Field: "slug", Message: "required"}}
	case len(slug) > maxSlugLength:
		return []domain.FieldError{{Field: "slug", Message: "max 64 characters"}}
	case !slugPattern.MatchString(slug):
		return []domain.FieldError{{Field: "slug", Message: "letters, digits, '-' and '_' only"}}
	}
	return nil
}

func validateNames(names map[string]string) []domain.FieldError {
	var errs []domain.FieldError
	for _, lang := range sortedKeys(names) {
		if _, ok := domain.ParseLanguage(lang); !ok {
			errs = append(errs, domain.FieldError{Field: "name." + lang, Message: "unsupported language"})
			continue
		}
		if len(strings.TrimSpace(names[lang])) > maxNameLength {
			errs = append(errs, domain.FieldError{Field: "name." + lang, Message: "max 100 characters"})
		}
	}
	return errs
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for _, l := range domain.Languages() {
		if _, ok := m[string(l)]; ok {
			keys = append(keys, string(l))
		}
	}
	for k := range m {
		if _, ok := domain.ParseLanguage(k); !ok {
			keys = append(keys, k)
		}
	}
	return keys
}

// toNames converts validated input names to a language map.
func toNames(in map[string]string) map[domain.Language]string {
	out := make(map[domain.Language]string, len(in))
	for k, v := range in {
		if lang, ok := domain.ParseLanguage(k); ok {
			out[lang] = strings.TrimSpace(v)
		}
	}
	return out
}
