package normalizer

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// storeGroup names the relational JSON array and value column for a kind.
type storeGroup struct {
	kind     domain.ChildKind
	key      string
	valueKey string
}

var storeGroups = []storeGroup{
	{domain.ChildKindWord, "words", "wordText"},
	{domain.ChildKindPronunciation, "pronunciations", "text"},
	{domain.ChildKindFrequency, "frequencies", "frequency"},
	{domain.ChildKindMeaning, "meanings", "meaning"},
	{domain.ChildKindInflection, "inflections", "form"},
	{domain.ChildKindExample, "examples", "sentence"},
}

func normalizeStore(rec StoreRecord, rep *Report) domain.LexicalEntry {
	id := rec.ID
	if id == "" && rec.Entry.ID != uuid.Nil {
		id = rec.Entry.ID.String()
	}

	entry := domain.NewLexicalEntry(id)
	entry.Version = rec.Entry.Version
	entry.CoverImage = rec.Entry.CoverImage

	for _, kind := range domain.ChildKinds() {
		rows := sortedRows(rec.Entry.Rows[kind])
		for i, row := range rows {
			if !row.Lang.IsValid() {
				rep.add(fmt.Sprintf("%s[%d].lang", kind, i), fmt.Sprintf("unknown language %q", row.Lang))
				continue
			}
			switch kind {
			case domain.ChildKindPronunciation:
				entry.Pronunciation[row.Lang] = row.Value
			case domain.ChildKindFrequency:
				if !finite(row.Score) {
					rep.add(fmt.Sprintf("%s[%d].score", kind, i), "expected finite number")
					continue
				}
				entry.Frequency[row.Lang] = row.Score
			default:
				group := entry.ListGroup(kind)
				group[row.Lang] = append(group[row.Lang], row.Value)
			}
		}
	}

	for _, c := range rec.Entry.Categories {
		label := c.Slug
		if label == "" {
			label = c.DisplayName(domain.LanguageEN)
		}
		if label == "" {
			rep.add("categories", "category without label")
			continue
		}
		entry.Categories = append(entry.Categories, label)
	}

	return entry
}

// sortedRows orders rows by language then position, keeping input order for ties.
func sortedRows(rows []domain.ChildRow) []domain.ChildRow {
	out := make([]domain.ChildRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Lang != out[j].Lang {
			return langOrder(out[i].Lang) < langOrder(out[j].Lang)
		}
		return out[i].Position < out[j].Position
	})
	return out
}

func langOrder(l domain.Language) int {
	for i, lang := range domain.Languages() {
		if lang == l {
			return i
		}
	}
	return len(domain.Languages())
}

// decodeStoreJSON reads the relational JSON shape. Rows keep the raw language
// tag so that normalizeStore can report the unknown ones.
func decodeStoreJSON(doc gjson.Result) StoreRecord {
	rec := StoreRecord{ID: doc.Get("id").String()}
	entryID, err := uuid.Parse(rec.ID)
	if err == nil {
		rec.Entry.ID = entryID
	}

	rec.Entry.Version = int(doc.Get("version").Int())

	if cover := doc.Get("coverImage"); cover.IsObject() {
		rec.Entry.CoverImage = domain.CoverImage{
			URL:    cover.Get("url").String(),
			Width:  int(cover.Get("width").Int()),
			Height: int(cover.Get("height").Int()),
		}
	} else {
		rec.Entry.CoverImage = domain.CoverImage{
			URL:    doc.Get("coverImageUrl").String(),
			Width:  int(doc.Get("coverImageWidth").Int()),
			Height: int(doc.Get("coverImageHeight").Int()),
		}
	}

	rec.Entry.Rows = make(map[domain.ChildKind][]domain.ChildRow, len(storeGroups))
	for _, g := range storeGroups {
		arr := doc.Get(g.key)
		if !arr.IsArray() {
			continue
		}
		positions := make(map[domain.Language]int)
		for _, item := range arr.Array() {
			if !item.IsObject() {
				continue
			}
			row := domain.ChildRow{
				EntryID: rec.Entry.ID,
				Kind:    g.kind,
				Lang:    domain.Language(item.Get("lang").String()),
			}
			if id, err := uuid.Parse(item.Get("id").String()); err == nil {
				row.ID = id
			}

			value := item.Get(g.valueKey)
			if !value.Exists() {
				value = item.Get("value")
			}
			if g.kind.IsNumeric() {
				row.Score = numeric(value)
			} else {
				row.Value = value.String()
			}

			if pos := item.Get("position"); pos.Type == gjson.Number {
				row.Position = int(pos.Int())
			} else {
				row.Position = positions[row.Lang]
			}
			positions[row.Lang]++

			rec.Entry.Rows[g.kind] = append(rec.Entry.Rows[g.kind], row)
		}
	}

	for _, c := range doc.Get("categories").Array() {
		if inner := c.Get("category"); inner.IsObject() {
			c = inner
		}
		rec.Entry.Categories = append(rec.Entry.Categories, decodeCategory(c))
	}

	return rec
}

// decodeCategory accepts {id, slug, name} where name is either a label or a
// per-language object.
func decodeCategory(c gjson.Result) domain.Category {
	var cat domain.Category
	if id, err := uuid.Parse(c.Get("id").String()); err == nil {
		cat.ID = id
	}
	cat.Slug = c.Get("slug").String()

	name := c.Get("name")
	switch {
	case name.IsObject():
		cat.Name = make(map[domain.Language]string, 4)
		name.ForEach(func(key, value gjson.Result) bool {
			if lang, ok := domain.ParseLanguage(key.String()); ok {
				cat.Name[lang] = value.String()
			}
			return true
		})
	case name.Type == gjson.String:
		cat.Name = map[domain.Language]string{domain.LanguageEN: name.Str}
		if cat.Slug == "" {
			cat.Slug = name.Str
		}
	}
	return cat
}

func numeric(v gjson.Result) float64 {
	switch v.Type {
	case gjson.Number:
		return v.Num
	case gjson.String:
		// Non-finite strings parse too; normalizeStore reports them.
		f, err := strconv.ParseFloat(v.Str, 64)
		if err == nil {
			return f
		}
	}
	return 0
}
