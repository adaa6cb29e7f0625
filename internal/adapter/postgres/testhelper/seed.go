package testhelper

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedEntry inserts a bare entry row (no children) and returns its id.
func SeedEntry(t *testing.T, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO entries (cover_image_url) VALUES ($1) RETURNING id`,
		"https://img.example/"+uniqueSuffix()+".png",
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedEntry: %v", err)
	}
	return id
}

// SeedWord inserts one word row for an entry.
func SeedWord(t *testing.T, pool *pgxpool.Pool, entryID uuid.UUID, lang domain.Language, value string, position int) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO entry_words (entry_id, lang, value, position) VALUES ($1, $2, $3, $4) RETURNING id`,
		entryID, string(lang), value, position,
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedWord: %v", err)
	}
	return id
}

// SeedCategory inserts a category with a unique slug and English name.
func SeedCategory(t *testing.T, pool *pgxpool.Pool) domain.Category {
	t.Helper()

	slug := "cat-" + uniqueSuffix()
	names := domain.CompleteNames(map[domain.Language]string{domain.LanguageEN: slug})
	raw, err := json.Marshal(names)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory marshal: %v", err)
	}

	c := domain.Category{Slug: slug, Name: names}
	err = pool.QueryRow(context.Background(),
		`INSERT INTO categories (slug, name) VALUES ($1, $2) RETURNING id, created_at`,
		slug, raw,
	).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		t.Fatalf("testhelper: SeedCategory: %v", err)
	}
	return c
}
