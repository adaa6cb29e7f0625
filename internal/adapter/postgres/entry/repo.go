// Package entry implements the dictionary entry repository using PostgreSQL.
// An entry is one row in entries plus per-language child rows in one table
// per child kind.
package entry

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres"
	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// Repo provides entry persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new entry repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Row mapping
// ---------------------------------------------------------------------------

var entryColumns = []string{
	"e.id", "e.cover_image_url", "e.cover_image_width", "e.cover_image_height",
	"e.version", "e.created_at", "e.updated_at",
}

type entryRecord struct {
	ID               uuid.UUID `db:"id"`
	CoverImageURL    string    `db:"cover_image_url"`
	CoverImageWidth  int       `db:"cover_image_width"`
	CoverImageHeight int       `db:"cover_image_height"`
	Version          int       `db:"version"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}

func (r entryRecord) toDomain() domain.StoredEntry {
	return domain.StoredEntry{
		ID: r.ID,
		CoverImage: domain.CoverImage{
			URL:    r.CoverImageURL,
			Width:  r.CoverImageWidth,
			Height: r.CoverImageHeight,
		},
		Version:   r.Version,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
		Rows:      emptyRows(),
	}
}

func emptyRows() map[domain.ChildKind][]domain.ChildRow {
	rows := make(map[domain.ChildKind][]domain.ChildRow, len(domain.ChildKinds()))
	for _, k := range domain.ChildKinds() {
		rows[k] = []domain.ChildRow{}
	}
	return rows
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns an entry with all child rows. Categories are not loaded.
// Returns domain.ErrNotFound if the entry does not exist.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error) {
	return r.get(ctx, id, false)
}

// GetByIDForUpdate is GetByID with the entry row locked until the surrounding
// transaction ends. It must run inside TxManager.RunInTx.
func (r *Repo) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*domain.StoredEntry, error) {
	return r.get(ctx, id, true)
}

func (r *Repo) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.StoredEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := postgres.Builder().Select(entryColumns...).From("entries e").Where(sq.Eq{"e.id": id})
	if lock {
		b = b.Suffix("FOR UPDATE")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get entry query: %w", err)
	}

	var rec entryRecord
	if err := pgxscan.Get(ctx, q, &rec, query, args...); err != nil {
		return nil, postgres.MapError(err, "entry", id)
	}

	e := rec.toDomain()
	children, err := loadChildren(ctx, q, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}
	if rows, ok := children[id]; ok {
		e.Rows = rows
	}

	return &e, nil
}

// List returns entries matching the filter with their child rows.
// Returns an empty slice (not nil) when nothing matches.
func (r *Repo) List(ctx context.Context, filter domain.EntryFilter) ([]domain.StoredEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	normalizeFilter(&filter)

	b := postgres.Builder().Select(entryColumns...).From("entries e")
	b = where(b, filter).
		OrderBy(orderBy(filter)).
		Limit(uint64(filter.Limit)).
		Offset(uint64(filter.Offset))

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list entries query: %w", err)
	}

	var recs []entryRecord
	if err := pgxscan.Select(ctx, q, &recs, query, args...); err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}

	entries := make([]domain.StoredEntry, len(recs))
	ids := make([]uuid.UUID, len(recs))
	for i, rec := range recs {
		entries[i] = rec.toDomain()
		ids[i] = rec.ID
	}
	if len(ids) == 0 {
		return entries, nil
	}

	children, err := loadChildren(ctx, q, ids)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if rows, ok := children[entries[i].ID]; ok {
			entries[i].Rows = rows
		}
	}

	return entries, nil
}

// Count returns the number of entries matching the filter, ignoring paging.
func (r *Repo) Count(ctx context.Context, filter domain.EntryFilter) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	b := where(postgres.Builder().Select("count(*)").From("entries e"), filter)
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count entries query: %w", err)
	}

	var n int
	if err := q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return n, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Create inserts the entry row and every child row of e. Child row ids in e
// are ignored. Categories are not linked here.
func (r *Repo) Create(ctx context.Context, e *domain.StoredEntry) (*domain.StoredEntry, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	cols := []string{"cover_image_url", "cover_image_width", "cover_image_height"}
	vals := []any{e.CoverImage.URL, e.CoverImage.Width, e.CoverImage.Height}
	if e.ID != uuid.Nil {
		cols = append([]string{"id"}, cols...)
		vals = append([]any{e.ID}, vals...)
	}

	query, args, err := postgres.Builder().
		Insert("entries").
		Columns(cols...).
		Values(vals...).
		Suffix("RETURNING id, cover_image_url, cover_image_width, cover_image_height, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert entry query: %w", err)
	}

	var rec entryRecord
	if err := pgxscan.Get(ctx, q, &rec, query, args...); err != nil {
		return nil, postgres.MapError(err, "entry", e.ID)
	}

	created := rec.toDomain()
	for _, kind := range domain.ChildKinds() {
		rows, err := r.insertRows(ctx, q, created.ID, kind, e.Rows[kind])
		if err != nil {
			return nil, err
		}
		created.Rows[kind] = rows
	}

	return &created, nil
}

// ApplyRows executes one kind's change set: deletes, then updates, then
// creates. Every statement is scoped to entryID so rows of other entries are
// never touched. Returns the created rows with their new ids.
func (r *Repo) ApplyRows(ctx context.Context, entryID uuid.UUID, kind domain.ChildKind, create, update []domain.ChildRow, deleteIDs []uuid.UUID) ([]domain.ChildRow, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	if len(deleteIDs) > 0 {
		query, args, err := postgres.Builder().
			Delete(t.name).
			Where(sq.Eq{"entry_id": entryID, "id": deleteIDs}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build delete %s query: %w", t.name, err)
		}
		if _, err := q.Exec(ctx, query, args...); err != nil {
			return nil, postgres.MapError(err, t.name, entryID)
		}
	}

	for _, row := range update {
		query, args, err := postgres.Builder().
			Update(t.name).
			Set(t.payload, t.payloadOf(row)).
			Set("position", row.Position).
			Where(sq.Eq{"id": row.ID, "entry_id": entryID}).
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build update %s query: %w", t.name, err)
		}
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return nil, postgres.MapError(err, t.name, row.ID)
		}
		if tag.RowsAffected() == 0 {
			return nil, fmt.Errorf("%s %s: %w", t.name, row.ID, domain.ErrNotFound)
		}
	}

	return r.insertRows(ctx, q, entryID, kind, create)
}

func (r *Repo) insertRows(ctx context.Context, q postgres.Querier, entryID uuid.UUID, kind domain.ChildKind, rows []domain.ChildRow) ([]domain.ChildRow, error) {
	if len(rows) == 0 {
		return []domain.ChildRow{}, nil
	}
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	b := postgres.Builder().
		Insert(t.name).
		Columns("entry_id", "lang", t.payload, "position").
		Suffix("RETURNING " + t.selectList())
	for _, row := range rows {
		b = b.Values(entryID, string(row.Lang), t.payloadOf(row), row.Position)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build insert %s query: %w", t.name, err)
	}

	var recs []childRecord
	if err := pgxscan.Select(ctx, q, &recs, query, args...); err != nil {
		return nil, postgres.MapError(err, t.name, entryID)
	}

	out := make([]domain.ChildRow, len(recs))
	for i, rec := range recs {
		out[i] = rec.toDomain(kind)
	}
	return out, nil
}

// UpdateEntry writes the cover image and bumps the version. It fails with
// domain.ErrConflict when the stored version is not expectedVersion.
// Returns the new version.
func (r *Repo) UpdateEntry(ctx context.Context, id uuid.UUID, cover domain.CoverImage, expectedVersion int) (int, error) {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder().
		Update("entries").
		Set("cover_image_url", cover.URL).
		Set("cover_image_width", cover.Width).
		Set("cover_image_height", cover.Height).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "version": expectedVersion}).
		Suffix("RETURNING version").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build update entry query: %w", err)
	}

	var version int
	err = q.QueryRow(ctx, query, args...).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, fmt.Errorf("entry %s version %d: %w", id, expectedVersion, domain.ErrConflict)
	}
	if err != nil {
		return 0, postgres.MapError(err, "entry", id)
	}
	return version, nil
}

// Delete removes an entry. Child rows and category links cascade.
// Returns domain.ErrNotFound if the entry does not exist.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	q := postgres.QuerierFromCtx(ctx, r.db)

	query, args, err := postgres.Builder().Delete("entries").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete entry query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return postgres.MapError(err, "entry", id)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("entry %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
