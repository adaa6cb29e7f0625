package domain

import (
	"time"

	"github.com/google/uuid"
)

// CoverImage is the illustration attached to an entry. The zero value means "no image".
type CoverImage struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// LexicalEntry is the canonical, language-indexed view of a dictionary headword.
// Every per-language map holds exactly the keys returned by Languages().
type LexicalEntry struct {
	ID            string                `json:"id"`
	Version       int                   `json:"version"`
	CoverImage    CoverImage            `json:"coverImage"`
	Words         map[Language][]string `json:"words"`
	Pronunciation map[Language]string   `json:"pronunciation"`
	Frequency     map[Language]float64  `json:"frequency"`
	Meanings      map[Language][]string `json:"meanings"`
	Inflections   map[Language][]string `json:"inflections"`
	Examples      map[Language][]string `json:"examples"`
	Categories    []string              `json:"categories"`
}

// NewLexicalEntry returns an entry with every language key present and empty.
func NewLexicalEntry(id string) LexicalEntry {
	e := LexicalEntry{
		ID:            id,
		Words:         make(map[Language][]string, 4),
		Pronunciation: make(map[Language]string, 4),
		Frequency:     make(map[Language]float64, 4),
		Meanings:      make(map[Language][]string, 4),
		Inflections:   make(map[Language][]string, 4),
		Examples:      make(map[Language][]string, 4),
		Categories:    []string{},
	}
	for _, lang := range Languages() {
		e.Words[lang] = []string{}
		e.Pronunciation[lang] = ""
		e.Frequency[lang] = 0
		e.Meanings[lang] = []string{}
		e.Inflections[lang] = []string{}
		e.Examples[lang] = []string{}
	}
	return e
}

// Headword returns the first surface form for lang, or "" if there is none.
func (e *LexicalEntry) Headword(lang Language) string {
	if words := e.Words[lang]; len(words) > 0 {
		return words[0]
	}
	return ""
}

// ListGroup returns the list-valued map backing kind, or nil for scalar kinds.
func (e *LexicalEntry) ListGroup(kind ChildKind) map[Language][]string {
	switch kind {
	case ChildKindWord:
		return e.Words
	case ChildKindMeaning:
		return e.Meanings
	case ChildKindInflection:
		return e.Inflections
	case ChildKindExample:
		return e.Examples
	}
	return nil
}

// ChildRow is one persisted per-language value of an entry.
// ID is uuid.Nil for rows that have not been stored yet.
type ChildRow struct {
	ID       uuid.UUID `json:"id"`
	EntryID  uuid.UUID `json:"entryId"`
	Kind     ChildKind `json:"kind"`
	Lang     Language  `json:"lang"`
	Value    string    `json:"value,omitempty"`
	Score    float64   `json:"score,omitempty"`
	Position int       `json:"position"`
}

// HasID reports whether the row refers to an existing stored row.
func (r ChildRow) HasID() bool {
	return r.ID != uuid.Nil
}

// SameContent reports whether two rows hold the same language, payload and position.
func (r ChildRow) SameContent(other ChildRow) bool {
	return r.Lang == other.Lang &&
		r.Value == other.Value &&
		r.Score == other.Score &&
		r.Position == other.Position
}

// StoredEntry is the relational shape of an entry: the entry row plus its
// child rows grouped by kind and its category memberships.
type StoredEntry struct {
	ID         uuid.UUID
	CoverImage CoverImage
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Rows       map[ChildKind][]ChildRow
	Categories []Category
}

// CategoryIDs returns the ids of the entry's categories in stored order.
func (e *StoredEntry) CategoryIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(e.Categories))
	for _, c := range e.Categories {
		ids = append(ids, c.ID)
	}
	return ids
}

// Category is a shared label that entries can belong to. Slug is the
// language-agnostic identifier that appears in LexicalEntry.Categories.
type Category struct {
	ID        uuid.UUID           `json:"id"`
	Slug      string              `json:"slug"`
	Name      map[Language]string `json:"name"`
	CreatedAt time.Time           `json:"createdAt"`
}

// DisplayName returns the name in lang, falling back to English.
func (c Category) DisplayName(lang Language) string {
	if name := c.Name[lang]; name != "" {
		return name
	}
	return c.Name[LanguageEN]
}

// CompleteNames returns a copy of names with every language key present.
// Unknown languages are dropped.
func CompleteNames(names map[Language]string) map[Language]string {
	out := make(map[Language]string, 4)
	for _, lang := range Languages() {
		out[lang] = names[lang]
	}
	return out
}
