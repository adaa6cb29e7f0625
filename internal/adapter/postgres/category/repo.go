// Package category implements the Category repository using PostgreSQL.
// It provides CRUD operations for categories and M2M entry linking via the
// entry_categories join table.
package category

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres"
	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// Repo provides category persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new category repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

var columns = []string{"c.id", "c.slug", "c.name", "c.created_at"}

type record struct {
	EntryID   uuid.UUID `db:"entry_id"`
	ID        uuid.UUID `db:"id"`
	Slug      string    `db:"slug"`
	Name      []byte    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (r record) toDomain() (domain.Category, error) {
	c := domain.Category{ID: r.ID, Slug: r.Slug, CreatedAt: r.CreatedAt}

	names := map[domain.Language]string{}
	if len(r.Name) > 0 {
		if err := json.Unmarshal(r.Name, &names); err != nil {
			return domain.Category{}, fmt.Errorf("decode category %s name: %w", r.ID, err)
		}
	}
	c.Name = domain.CompleteNames(names)
	return c, nil
}

func encodeNames(names map[domain.Language]string) ([]byte, error) {
	raw, err := json.Marshal(domain.CompleteNames(names))
	if err != nil {
		return nil, fmt.Errorf("encode category name: %w", err)
	}
	return raw, nil
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a category by primary key.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Category, error) {
	return r.getOne(ctx, sq.Eq{"c.id": id}, id)
}

// FindBySlug returns the category with the given slug.
// Returns domain.ErrNotFound if there is none.
func (r *Repo) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.getOne(ctx, sq.Eq{"c.slug": slug}, uuid.Nil)
}

func (r *Repo) getOne(ctx context.Context, where sq.Eq, id uuid.UUID) (*domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder().Select(columns...).From("categories c").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get category query: %w", err)
	}

	var rec record
	if err := pgxscan.Get(ctx, q, &rec, query, args...); err != nil {
		return nil, postgres.MapError(err, "category", id)
	}

	c, err := rec.toDomain()
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all categories ordered by slug.
// Returns an empty slice (not nil) when there are none.
func (r *Repo) List(ctx context.Context) ([]domain.Category, error) {
	return r.list(ctx, postgres.Builder().Select(columns...).From("categories c").OrderBy("c.slug"))
}

// GetByIDs returns the categories with the given ids, ordered by slug.
// Unknown ids are skipped.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Category, error) {
	if len(ids) == 0 {
		return []domain.Category{}, nil
	}
	return r.list(ctx, postgres.Builder().
		Select(columns...).
		From("categories c").
		Where(sq.Eq{"c.id": ids}).
		OrderBy("c.slug"))
}

func (r *Repo) list(ctx context.Context, b sq.SelectBuilder) ([]domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories query: %w", err)
	}

	var recs []record
	if err := pgxscan.Select(ctx, q, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	out := make([]domain.Category, 0, len(recs))
	for _, rec := range recs {
		c, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// CountExisting returns how many of the given distinct ids exist.
func (r *Repo) CountExisting(ctx context.Context, ids []uuid.UUID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder().
		Select("count(*)").
		From("categories").
		Where(sq.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count categories query: %w", err)
	}

	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

// GetByEntryIDs returns the categories of several entries keyed by entry id,
// each ordered by slug. Every requested id is present in the result.
func (r *Repo) GetByEntryIDs(ctx context.Context, entryIDs []uuid.UUID) (map[uuid.UUID][]domain.Category, error) {
	out := make(map[uuid.UUID][]domain.Category, len(entryIDs))
	for _, id := range entryIDs {
		out[id] = []domain.Category{}
	}
	if len(entryIDs) == 0 {
		return out, nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder().
		Select(append([]string{"ec.entry_id"}, columns...)...).
		From("entry_categories ec").
		Join("categories c ON c.id = ec.category_id").
		Where(sq.Eq{"ec.entry_id": entryIDs}).
		OrderBy("ec.entry_id", "c.slug").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build categories by entry query: %w", err)
	}

	var recs []record
	if err := pgxscan.Select(ctx, q, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("get categories by entry_ids: %w", err)
	}

	for _, rec := range recs {
		c, err := rec.toDomain()
		if err != nil {
			return nil, err
		}
		out[rec.EntryID] = append(out[rec.EntryID], c)
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts a category.
// Returns domain.ErrAlreadyExists if the slug is taken.
func (r *Repo) Create(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	names, err := encodeNames(c.Name)
	if err != nil {
		return nil, err
	}

	query, args, err := postgres.Builder().
		Insert("categories").
		Columns("slug", "name").
		Values(c.Slug, names).
		Suffix("RETURNING id, slug, name, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert category query: %w", err)
	}

	var rec record
	if err := pgxscan.Get(ctx, q, &rec, query, args...); err != nil {
		return nil, postgres.MapError(err, "category", uuid.Nil)
	}

	created, err := rec.toDomain()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// Update replaces the slug and names of a category.
// Returns domain.ErrNotFound if it does not exist, domain.ErrAlreadyExists if
// the new slug is taken.
func (r *Repo) Update(ctx context.Context, c *domain.Category) (*domain.Category, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	names, err := encodeNames(c.Name)
	if err != nil {
		return nil, err
	}

	query, args, err := postgres.Builder().
		Update("categories").
		Set("slug", c.Slug).
		Set("name", names).
		Where(sq.Eq{"id": c.ID}).
		Suffix("RETURNING id, slug, name, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build update category query: %w", err)
	}

	var rec record
	if err := pgxscan.Get(ctx, q, &rec, query, args...); err != nil {
		return nil, postgres.MapError(err, "category", c.ID)
	}

	updated, err := rec.toDomain()
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a category and its entry links. Entries are untouched.
// Returns domain.ErrNotFound if it does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder().Delete("categories").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete category query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "category", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// Link connects an entry to categories. Existing links are kept.
// Returns domain.ErrNotFound if the entry or a category does not exist.
func (r *Repo) Link(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().
		Insert("entry_categories").
		Columns("entry_id", "category_id").
		Suffix("ON CONFLICT (entry_id, category_id) DO NOTHING")
	for _, id := range categoryIDs {
		b = b.Values(entryID, id)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return fmt.Errorf("build link categories query: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "entry", entryID)
	}
	return nil
}

// Unlink removes links between an entry and categories. Missing links are ignored.
func (r *Repo) Unlink(ctx context.Context, entryID uuid.UUID, categoryIDs []uuid.UUID) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder().
		Delete("entry_categories").
		Where(sq.Eq{"entry_id": entryID, "category_id": categoryIDs}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build unlink categories query: %w", err)
	}
	if _, err := q.Exec(ctx, query, args...); err != nil {
		return postgres.MapError(err, "entry", entryID)
	}
	return nil
}
