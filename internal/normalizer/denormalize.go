package normalizer

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

type cmsItem map[string]any

// ToCMS renders a canonical entry in the CMS item layout. Empty values are
// omitted; normalizing the result yields the entry again, except for Version
// which the CMS does not carry.
func ToCMS(e domain.LexicalEntry) ([]byte, error) {
	doc := cmsItem{"id": e.ID}

	if e.CoverImage != (domain.CoverImage{}) {
		doc["coverImage"] = cmsItem{
			"url":    e.CoverImage.URL,
			"width":  e.CoverImage.Width,
			"height": e.CoverImage.Height,
		}
	}

	for _, g := range cmsGroups {
		var items []cmsItem
		for _, lang := range domain.Languages() {
			values := cmsValuesOf(e, g.kind, lang)
			if len(values) == 0 {
				continue
			}
			wrapped := make([]cmsItem, 0, len(values))
			for _, v := range values {
				wrapped = append(wrapped, cmsItem{g.valueKey: v})
			}
			items = append(items, cmsItem{
				g.langKey:   []string{lang.String()},
				g.valuesKey: wrapped,
			})
		}
		if len(items) > 0 {
			doc[g.field] = []cmsItem{{g.inner: items}}
		}
	}

	if len(e.Categories) > 0 {
		cats := make([]cmsItem, 0, len(e.Categories))
		for _, label := range e.Categories {
			cats = append(cats, cmsItem{"name": label})
		}
		doc["categories"] = cats
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal cms item: %w", err)
	}
	return out, nil
}

func cmsValuesOf(e domain.LexicalEntry, kind domain.ChildKind, lang domain.Language) []any {
	switch kind {
	case domain.ChildKindPronunciation:
		if p := e.Pronunciation[lang]; p != "" {
			return []any{p}
		}
		return nil
	case domain.ChildKindFrequency:
		if f := e.Frequency[lang]; f != 0 {
			return []any{f}
		}
		return nil
	}

	values := e.ListGroup(kind)[lang]
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

// ToStore renders a canonical entry as relational rows. Row ids are left
// unset; the entry id is parsed when it is a UUID.
func ToStore(e domain.LexicalEntry) domain.StoredEntry {
	se := domain.StoredEntry{
		CoverImage: e.CoverImage,
		Version:    e.Version,
		Rows:       make(map[domain.ChildKind][]domain.ChildRow, len(domain.ChildKinds())),
	}
	if id, err := uuid.Parse(e.ID); err == nil {
		se.ID = id
	}

	for _, kind := range domain.ChildKinds() {
		rows := []domain.ChildRow{}
		for _, lang := range domain.Languages() {
			switch kind {
			case domain.ChildKindPronunciation:
				if p := e.Pronunciation[lang]; p != "" {
					rows = append(rows, domain.ChildRow{EntryID: se.ID, Kind: kind, Lang: lang, Value: p})
				}
			case domain.ChildKindFrequency:
				if f := e.Frequency[lang]; f != 0 {
					rows = append(rows, domain.ChildRow{EntryID: se.ID, Kind: kind, Lang: lang, Score: f})
				}
			default:
				for pos, v := range e.ListGroup(kind)[lang] {
					rows = append(rows, domain.ChildRow{EntryID: se.ID, Kind: kind, Lang: lang, Value: v, Position: pos})
				}
			}
		}
		se.Rows[kind] = rows
	}

	se.Categories = make([]domain.Category, 0, len(e.Categories))
	for _, label := range e.Categories {
		se.Categories = append(se.Categories, domain.Category{Slug: label})
	}

	return se
}

// ToStoreRecord is ToStore wrapped as a source record that keeps a non-UUID id.
func ToStoreRecord(e domain.LexicalEntry) StoreRecord {
	return StoreRecord{ID: e.ID, Entry: ToStore(e)}
}

// ToStoreJSON renders a canonical entry in the relational JSON layout.
func ToStoreJSON(e domain.LexicalEntry) ([]byte, error) {
	se := ToStore(e)
	doc := cmsItem{
		"id":               e.ID,
		"version":          e.Version,
		"coverImageUrl":    e.CoverImage.URL,
		"coverImageWidth":  e.CoverImage.Width,
		"coverImageHeight": e.CoverImage.Height,
	}

	for _, g := range storeGroups {
		rows := se.Rows[g.kind]
		items := make([]cmsItem, 0, len(rows))
		for _, r := range rows {
			item := cmsItem{"lang": r.Lang.String(), "position": r.Position}
			if g.kind.IsNumeric() {
				item[g.valueKey] = r.Score
			} else {
				item[g.valueKey] = r.Value
			}
			items = append(items, item)
		}
		doc[g.key] = items
	}

	cats := make([]cmsItem, 0, len(e.Categories))
	for _, label := range e.Categories {
		cats = append(cats, cmsItem{"category": cmsItem{"slug": label, "name": label}})
	}
	doc["categories"] = cats

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal store record: %w", err)
	}
	return out, nil
}
