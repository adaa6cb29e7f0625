package normalizer

import (
	"fmt"
	"math"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// cmsGroup describes where one child kind lives inside a CMS item:
// <field>[0].<inner>[] holds {<langKey>: [lang], <valuesKey>: [{<valueKey>: v}]}.
type cmsGroup struct {
	kind      domain.ChildKind
	field     string
	inner     string
	langKey   string
	valuesKey string
	valueKey  string
}

var cmsGroups = []cmsGroup{
	{domain.ChildKindWord, "words", "word", "test_lang", "test_word", "words"},
	{domain.ChildKindPronunciation, "pronunciations", "pronunciations", "test_lang", "test_word", "words"},
	{domain.ChildKindFrequency, "frequencies", "frequencies", "language", "num", "list_num"},
	{domain.ChildKindMeaning, "meanings", "definitions", "test_lang", "test_word", "words"},
	{domain.ChildKindInflection, "inflections", "inflections", "test_lang", "test_word", "words"},
	{domain.ChildKindExample, "example", "example", "language", "example", "text"},
}

func normalizeCMS(rec CMSRecord, rep *Report) domain.LexicalEntry {
	doc := rec.doc
	entry := domain.NewLexicalEntry(stringField(doc, "id", rep))

	entry.CoverImage = cmsCover(doc, rep)

	for _, g := range cmsGroups {
		items := cmsGroupItems(doc, g, rep)
		for i, item := range items {
			lang := cmsLanguage(item, g, i, rep)
			values := cmsValues(item, g, i, rep)
			if lang == domain.LanguageUnknown {
				continue
			}
			assign(&entry, g.kind, lang, values)
		}
	}

	entry.Categories = cmsCategories(doc, rep)

	return entry
}

// cmsGroupItems returns the entries of <field>[0].<inner>, or nil when the
// group is absent or not an array.
func cmsGroupItems(doc gjson.Result, g cmsGroup, rep *Report) []gjson.Result {
	outer := doc.Get(g.field)
	if !outer.Exists() || outer.Type == gjson.Null {
		return nil
	}
	if !outer.IsArray() {
		rep.add(g.field, "expected array")
		return nil
	}

	first := outer.Get("0")
	if !first.Exists() {
		return nil
	}
	if !first.IsObject() {
		rep.add(g.field+"[0]", "expected object")
		return nil
	}

	inner := first.Get(g.inner)
	if !inner.Exists() || inner.Type == gjson.Null {
		return nil
	}
	if !inner.IsArray() {
		rep.add(g.field+"[0]."+g.inner, "expected array")
		return nil
	}

	return inner.Array()
}

// cmsLanguage reads the first language tag of an item. Plain string tags are
// accepted; anything else lands in the unknown bucket.
func cmsLanguage(item gjson.Result, g cmsGroup, idx int, rep *Report) domain.Language {
	path := fmt.Sprintf("%s[0].%s[%d].%s", g.field, g.inner, idx, g.langKey)
	if !item.IsObject() {
		rep.add(fmt.Sprintf("%s[0].%s[%d]", g.field, g.inner, idx), "expected object")
		return domain.LanguageUnknown
	}

	tag := item.Get(g.langKey)
	var raw gjson.Result
	switch {
	case tag.IsArray():
		raw = tag.Get("0")
	case tag.Type == gjson.String:
		raw = tag
	}

	if raw.Type != gjson.String {
		rep.add(path, "missing language tag")
		return domain.LanguageUnknown
	}

	lang, ok := domain.ParseLanguage(raw.Str)
	if !ok {
		rep.add(path, fmt.Sprintf("unknown language %q", raw.Str))
	}
	return lang
}

// cmsValues extracts every usable value of an item as text. Frequency scores are
// returned in their decimal text form and parsed by assign.
func cmsValues(item gjson.Result, g cmsGroup, idx int, rep *Report) []string {
	if !item.IsObject() {
		return nil
	}
	path := fmt.Sprintf("%s[0].%s[%d].%s", g.field, g.inner, idx, g.valuesKey)

	values := item.Get(g.valuesKey)
	if !values.Exists() || values.Type == gjson.Null {
		return nil
	}
	if !values.IsArray() {
		rep.add(path, "expected array")
		return nil
	}

	var out []string
	for i, v := range values.Array() {
		field := v.Get(g.valueKey)
		switch {
		case g.kind.IsNumeric() && field.Type == gjson.Number:
			if !finite(field.Num) {
				rep.add(fmt.Sprintf("%s[%d].%s", path, i, g.valueKey), "expected finite number")
				continue
			}
			out = append(out, field.Raw)
		case g.kind.IsNumeric() && field.Type == gjson.String:
			f, err := strconv.ParseFloat(field.Str, 64)
			if err != nil {
				rep.add(fmt.Sprintf("%s[%d].%s", path, i, g.valueKey), "expected number")
				continue
			}
			if !finite(f) {
				rep.add(fmt.Sprintf("%s[%d].%s", path, i, g.valueKey), "expected finite number")
				continue
			}
			out = append(out, field.Str)
		case !g.kind.IsNumeric() && field.Type == gjson.String:
			out = append(out, field.Str)
		default:
			rep.add(fmt.Sprintf("%s[%d].%s", path, i, g.valueKey), "missing value")
		}
	}
	return out
}

func cmsCover(doc gjson.Result, rep *Report) domain.CoverImage {
	cover := doc.Get("coverImage")
	if !cover.Exists() || cover.Type == gjson.Null {
		return domain.CoverImage{}
	}
	if !cover.IsObject() {
		rep.add("coverImage", "expected object")
		return domain.CoverImage{}
	}
	return domain.CoverImage{
		URL:    stringField(cover, "url", rep),
		Width:  intField(cover, "width", rep),
		Height: intField(cover, "height", rep),
	}
}

func cmsCategories(doc gjson.Result, rep *Report) []string {
	labels := []string{}

	arr := doc.Get("categories")
	if !arr.Exists() || arr.Type == gjson.Null {
		return labels
	}
	if !arr.IsArray() {
		rep.add("categories", "expected array")
		return labels
	}

	for i, c := range arr.Array() {
		var name gjson.Result
		switch {
		case c.Type == gjson.String:
			name = c
		case c.IsObject():
			name = c.Get("name")
		}
		if name.Type != gjson.String || name.Str == "" {
			rep.add(fmt.Sprintf("categories[%d].name", i), "missing name")
			continue
		}
		labels = append(labels, name.Str)
	}
	return labels
}

// assign merges values for one language into the entry. List groups append in
// order; scalar groups keep the last value seen.
func assign(entry *domain.LexicalEntry, kind domain.ChildKind, lang domain.Language, values []string) {
	switch kind {
	case domain.ChildKindPronunciation:
		if len(values) > 0 {
			entry.Pronunciation[lang] = values[0]
		}
	case domain.ChildKindFrequency:
		if len(values) > 0 {
			if f, err := strconv.ParseFloat(values[0], 64); err == nil && finite(f) {
				entry.Frequency[lang] = f
			}
		}
	default:
		group := entry.ListGroup(kind)
		group[lang] = append(group[lang], values...)
	}
}

func stringField(obj gjson.Result, key string, rep *Report) string {
	v := obj.Get(key)
	switch v.Type {
	case gjson.String:
		return v.Str
	case gjson.Null:
		return ""
	}
	if v.Exists() {
		rep.add(key, "expected string")
	}
	return ""
}

func intField(obj gjson.Result, key string, rep *Report) int {
	v := obj.Get(key)
	switch v.Type {
	case gjson.Number:
		return int(v.Int())
	case gjson.Null:
		return 0
	}
	if v.Exists() {
		rep.add(key, "expected number")
	}
	return 0
}

// finite reports whether f can be encoded as a JSON number.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
