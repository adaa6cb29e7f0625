package rest

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/category"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/cms"
	"github.com/heartmarshall/polyglot-dictionary/internal/service/dictionary"
)

type dictionaryServiceMock struct {
	GetEntryFunc         func(ctx context.Context, id uuid.UUID) (*domain.LexicalEntry, error)
	GetEditableEntryFunc func(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error)
	ListEntriesFunc      func(ctx context.Context, input dictionary.ListInput) (*dictionary.ListResult, error)
	CreateEntryFunc      func(ctx context.Context, input dictionary.CreateEntryInput) (*domain.StoredEntry, error)
	UpdateEntryFunc      func(ctx context.Context, input dictionary.UpdateEntryInput) (*dictionary.UpdateResult, error)
	DeleteEntryFunc      func(ctx context.Context, id uuid.UUID) error
}

var errUnexpectedCall = errors.New("unexpected call")

func (m *dictionaryServiceMock) GetEntry(ctx context.Context, id uuid.UUID) (*domain.LexicalEntry, error) {
	if m.GetEntryFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetEntryFunc(ctx, id)
}

func (m *dictionaryServiceMock) GetEditableEntry(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error) {
	if m.GetEditableEntryFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetEditableEntryFunc(ctx, id)
}

func (m *dictionaryServiceMock) ListEntries(ctx context.Context, input dictionary.ListInput) (*dictionary.ListResult, error) {
	if m.ListEntriesFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.ListEntriesFunc(ctx, input)
}

func (m *dictionaryServiceMock) CreateEntry(ctx context.Context, input dictionary.CreateEntryInput) (*domain.StoredEntry, error) {
	if m.CreateEntryFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.CreateEntryFunc(ctx, input)
}

func (m *dictionaryServiceMock) UpdateEntry(ctx context.Context, input dictionary.UpdateEntryInput) (*dictionary.UpdateResult, error) {
	if m.UpdateEntryFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.UpdateEntryFunc(ctx, input)
}

func (m *dictionaryServiceMock) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if m.DeleteEntryFunc == nil {
		return errUnexpectedCall
	}
	return m.DeleteEntryFunc(ctx, id)
}

type categoryServiceMock struct {
	ListFunc   func(ctx context.Context) ([]domain.Category, error)
	GetFunc    func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	CreateFunc func(ctx context.Context, input category.CreateCategoryInput) (*domain.Category, error)
	UpdateFunc func(ctx context.Context, input category.UpdateCategoryInput) (*domain.Category, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

func (m *categoryServiceMock) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.ListFunc(ctx)
}

func (m *categoryServiceMock) GetCategory(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	if m.GetFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetFunc(ctx, id)
}

func (m *categoryServiceMock) CreateCategory(ctx context.Context, input category.CreateCategoryInput) (*domain.Category, error) {
	if m.CreateFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.CreateFunc(ctx, input)
}

func (m *categoryServiceMock) UpdateCategory(ctx context.Context, input category.UpdateCategoryInput) (*domain.Category, error) {
	if m.UpdateFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.UpdateFunc(ctx, input)
}

func (m *categoryServiceMock) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc == nil {
		return errUnexpectedCall
	}
	return m.DeleteFunc(ctx, id)
}

type cmsServiceMock struct {
	ListFunc   func(ctx context.Context, offset, limit int) (*cms.PageResult, error)
	GetFunc    func(ctx context.Context, id string) (*domain.LexicalEntry, error)
	ImportFunc func(ctx context.Context, input cms.ImportInput) (*cms.ImportResult, error)
}

func (m *cmsServiceMock) ListEntries(ctx context.Context, offset, limit int) (*cms.PageResult, error) {
	if m.ListFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.ListFunc(ctx, offset, limit)
}

func (m *cmsServiceMock) GetEntry(ctx context.Context, id string) (*domain.LexicalEntry, error) {
	if m.GetFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.GetFunc(ctx, id)
}

func (m *cmsServiceMock) Import(ctx context.Context, input cms.ImportInput) (*cms.ImportResult, error) {
	if m.ImportFunc == nil {
		return nil, errUnexpectedCall
	}
	return m.ImportFunc(ctx, input)
}

// tokenValidatorMock accepts "editor-token" as the admin "alice" and
// "reader-token" as a non-admin.
type tokenValidatorMock struct{}

func (tokenValidatorMock) ValidateAccessToken(token string) (string, string, error) {
	switch token {
	case "editor-token":
		return "alice", "admin", nil
	case "reader-token":
		return "bob", "reader", nil
	}
	return "", "", errors.New("bad token")
}
