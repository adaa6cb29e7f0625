package entry

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/adapter/postgres"
	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// childTable maps a child kind to its table and payload column.
type childTable struct {
	name    string
	payload string // "value" or "score"
}

var childTables = map[domain.ChildKind]childTable{
	domain.ChildKindWord:          {"entry_words", "value"},
	domain.ChildKindPronunciation: {"entry_pronunciations", "value"},
	domain.ChildKindFrequency:     {"entry_frequencies", "score"},
	domain.ChildKindMeaning:       {"entry_meanings", "value"},
	domain.ChildKindInflection:    {"entry_inflections", "value"},
	domain.ChildKindExample:       {"entry_examples", "value"},
}

func tableFor(kind domain.ChildKind) (childTable, error) {
	t, ok := childTables[kind]
	if !ok {
		return childTable{}, fmt.Errorf("child kind %q: %w", kind, domain.ErrValidation)
	}
	return t, nil
}

func (t childTable) selectList() string {
	return "id, entry_id, lang, " + t.payload + ", position"
}

func (t childTable) payloadOf(row domain.ChildRow) any {
	if t.payload == "score" {
		return row.Score
	}
	return row.Value
}

// childRecord scans any child table; the column absent from a table stays zero.
type childRecord struct {
	ID       uuid.UUID `db:"id"`
	EntryID  uuid.UUID `db:"entry_id"`
	Lang     string    `db:"lang"`
	Value    string    `db:"value"`
	Score    float64   `db:"score"`
	Position int       `db:"position"`
}

func (r childRecord) toDomain(kind domain.ChildKind) domain.ChildRow {
	return domain.ChildRow{
		ID:       r.ID,
		EntryID:  r.EntryID,
		Kind:     kind,
		Lang:     domain.Language(r.Lang),
		Value:    r.Value,
		Score:    r.Score,
		Position: r.Position,
	}
}

// loadChildren fetches every child row of the given entries, grouped by entry
// and kind, ordered by language and position.
func loadChildren(ctx context.Context, q postgres.Querier, entryIDs []uuid.UUID) (map[uuid.UUID]map[domain.ChildKind][]domain.ChildRow, error) {
	out := make(map[uuid.UUID]map[domain.ChildKind][]domain.ChildRow, len(entryIDs))
	for _, id := range entryIDs {
		out[id] = emptyRows()
	}

	for _, kind := range domain.ChildKinds() {
		t := childTables[kind]

		query, args, err := postgres.Builder().
			Select(t.selectList()).
			From(t.name).
			Where(sq.Eq{"entry_id": entryIDs}).
			OrderBy("entry_id", "lang", "position", "id").
			ToSql()
		if err != nil {
			return nil, fmt.Errorf("build select %s query: %w", t.name, err)
		}

		var recs []childRecord
		if err := pgxscan.Select(ctx, q, &recs, query, args...); err != nil {
			return nil, fmt.Errorf("load %s: %w", t.name, err)
		}

		for _, rec := range recs {
			rows, ok := out[rec.EntryID]
			if !ok {
				continue
			}
			rows[kind] = append(rows[kind], rec.toDomain(kind))
		}
	}

	return out, nil
}
