package category

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

type categoryRepoMock struct {
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindBySlugFunc func(ctx context.Context, slug string) (*domain.Category, error)
	ListFunc       func(ctx context.Context) ([]domain.Category, error)
	CreateFunc     func(ctx context.Context, c *domain.Category) (*domain.Category, error)
	UpdateFunc     func(ctx context.Context, c *domain.Category) (*domain.Category, error)
	DeleteFunc     func(ctx context.Context, id uuid.UUID) error

	created []*domain.Category
	updated []*domain.Category
}

func (m *categoryRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *categoryRepoMock) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return m.FindBySlugFunc(ctx, slug)
}

func (m *categoryRepoMock) List(ctx context.Context) ([]domain.Category, error) {
	return m.ListFunc(ctx)
}

func (m *categoryRepoMock) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m.created = append(m.created, c)
	return m.CreateFunc(ctx, c)
}

func (m *categoryRepoMock) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	m.updated = append(m.updated, c)
	return m.UpdateFunc(ctx, c)
}

func (m *categoryRepoMock) Delete(ctx context.Context, id uuid.UUID) error {
	return m.DeleteFunc(ctx, id)
}

func newTestService(repo *categoryRepoMock) *Service {
	return NewService(slog.New(slog.NewTextHandler(io.Discard, nil)), repo)
}

func echoCreate(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	out := *c
	out.ID = uuid.New()
	return &out, nil
}

func strPtr(s string) *string { return &s }

func TestCreateCategory_Success(t *testing.T) {
	t.Parallel()

	repo := &categoryRepoMock{CreateFunc: echoCreate}
	got, err := newTestService(repo).CreateCategory(context.Background(), CreateCategoryInput{
		Slug: " fruit ",
		Name: map[string]string{"en": " Fruit ", "ja": "果物"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Slug != "fruit" {
		t.Errorf("slug = %q, want fruit", got.Slug)
	}
	if got.Name[domain.LanguageEN] != "Fruit" || got.Name[domain.LanguageJA] != "果物" {
		t.Errorf("names = %v", got.Name)
	}
	if _, ok := got.Name[domain.LanguageDE]; !ok {
		t.Error("missing languages must default to empty names")
	}
}

func TestCreateCategory_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input CreateCategoryInput
		field string
	}{
		{"empty slug", CreateCategoryInput{Slug: "  "}, "slug"},
		{"slug with spaces", CreateCategoryInput{Slug: "two words"}, "slug"},
		{"unsupported language", CreateCategoryInput{Slug: "fruit", Name: map[string]string{"fr": "Fruit"}}, "name.fr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := newTestService(&categoryRepoMock{}).CreateCategory(context.Background(), tt.input)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) || ve.Errors[0].Field != tt.field {
				t.Fatalf("err = %v, want validation error on %q", err, tt.field)
			}
		})
	}
}

func TestCreateCategory_DuplicateSlug(t *testing.T) {
	t.Parallel()

	repo := &categoryRepoMock{
		CreateFunc: func(ctx context.Context, c *domain.Category) (*domain.Category, error) {
			return nil, domain.ErrAlreadyExists
		},
	}
	_, err := newTestService(repo).CreateCategory(context.Background(), CreateCategoryInput{Slug: "fruit"})
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestUpdateCategory_MergesNames(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	repo := &categoryRepoMock{
		GetByIDFunc: func(ctx context.Context, got uuid.UUID) (*domain.Category, error) {
			return &domain.Category{ID: id, Slug: "fruit", Name: map[domain.Language]string{
				domain.LanguageEN: "Fruit", domain.LanguageJA: "果物",
			}}, nil
		},
		UpdateFunc: func(ctx context.Context, c *domain.Category) (*domain.Category, error) {
			return c, nil
		},
	}

	got, err := newTestService(repo).UpdateCategory(context.Background(), UpdateCategoryInput{
		ID:   id,
		Name: map[string]string{"de": "Obst"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Slug != "fruit" || got.Name[domain.LanguageJA] != "果物" || got.Name[domain.LanguageDE] != "Obst" {
		t.Errorf("updated = %+v", got)
	}
}

func TestUpdateCategory_Errors(t *testing.T) {
	t.Parallel()

	repo := &categoryRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
			return nil, domain.ErrNotFound
		},
	}
	svc := newTestService(repo)

	if _, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{ID: uuid.New()}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty update: err = %v, want ErrValidation", err)
	}
	if _, err := svc.UpdateCategory(context.Background(), UpdateCategoryInput{ID: uuid.New(), Slug: strPtr("veg")}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing category: err = %v, want ErrNotFound", err)
	}
	if len(repo.updated) != 0 {
		t.Error("Update must not be called")
	}
}

func TestDeleteCategory(t *testing.T) {
	t.Parallel()

	repo := &categoryRepoMock{
		DeleteFunc: func(ctx context.Context, id uuid.UUID) error { return domain.ErrNotFound },
	}
	svc := newTestService(repo)

	if err := svc.DeleteCategory(context.Background(), uuid.New()); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if err := svc.DeleteCategory(context.Background(), uuid.Nil); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestEnsureSlugs(t *testing.T) {
	t.Parallel()

	fruitID := uuid.New()
	var findCalls int
	repo := &categoryRepoMock{
		FindBySlugFunc: func(ctx context.Context, slug string) (*domain.Category, error) {
			findCalls++
			if slug == "fruit" {
				return &domain.Category{ID: fruitID, Slug: "fruit"}, nil
			}
			return nil, domain.ErrNotFound
		},
		CreateFunc: echoCreate,
	}

	got, err := newTestService(repo).EnsureSlugs(context.Background(), []string{"fruit", " Food ", "", "fruit", "food"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 3 || got["fruit"] != fruitID || got[" Food "] == uuid.Nil || got["food"] != got[" Food "] {
		t.Errorf("EnsureSlugs() = %v", got)
	}
	if findCalls != 2 {
		t.Errorf("FindBySlug calls = %d, want 2", findCalls)
	}
	if len(repo.created) != 1 || repo.created[0].Slug != "food" || repo.created[0].Name[domain.LanguageEN] != "Food" {
		t.Errorf("created = %+v", repo.created)
	}
}

func TestEnsureSlugs_CreatedConcurrently(t *testing.T) {
	t.Parallel()

	raced := uuid.New()
	lookups := 0
	repo := &categoryRepoMock{
		FindBySlugFunc: func(ctx context.Context, slug string) (*domain.Category, error) {
			lookups++
			if lookups == 1 {
				return nil, domain.ErrNotFound
			}
			return &domain.Category{ID: raced, Slug: slug}, nil
		},
		CreateFunc: func(ctx context.Context, c *domain.Category) (*domain.Category, error) {
			return nil, domain.ErrAlreadyExists
		},
	}

	got, err := newTestService(repo).EnsureSlugs(context.Background(), []string{"verb"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["verb"] != raced {
		t.Errorf("id = %s, want %s", got["verb"], raced)
	}
}
