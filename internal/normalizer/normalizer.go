package normalizer

import (
	"fmt"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// Issue describes one field that was degraded to its empty default.
type Issue struct {
	Field  string
	Reason string
}

func (i Issue) String() string { return fmt.Sprintf("%s: %s", i.Field, i.Reason) }

// Report lists the degraded fields of one normalization.
type Report struct {
	Shape  Shape
	Issues []Issue
}

// HasIssues reports whether any field was degraded.
func (r *Report) HasIssues() bool { return len(r.Issues) > 0 }

// Fields returns the degraded field paths in the order they were found.
func (r *Report) Fields() []string {
	out := make([]string, 0, len(r.Issues))
	for _, i := range r.Issues {
		out = append(out, i.Field)
	}
	return out
}

func (r *Report) add(field, reason string) {
	r.Issues = append(r.Issues, Issue{Field: field, Reason: reason})
}

// Normalize converts any source record into a canonical entry.
func Normalize(rec SourceRecord) domain.LexicalEntry {
	entry, _ := NormalizeWithReport(rec)
	return entry
}

// NormalizeWithReport is Normalize plus the list of degraded fields.
func NormalizeWithReport(rec SourceRecord) (entry domain.LexicalEntry, rep Report) {
	defer func() {
		if r := recover(); r != nil {
			entry = domain.NewLexicalEntry(entry.ID)
			rep.add("$", fmt.Sprintf("normalization aborted: %v", r))
		}
	}()

	switch rec := rec.(type) {
	case CMSRecord:
		rep.Shape = ShapeCMS
		entry = normalizeCMS(rec, &rep)
	case StoreRecord:
		rep.Shape = ShapeStore
		entry = normalizeStore(rec, &rep)
	case UnknownRecord:
		rep.Shape = ShapeUnknown
		entry = normalizeUnknown(rec, &rep)
	default:
		rep.Shape = ShapeUnknown
		rep.add("$", "no source record")
		entry = domain.NewLexicalEntry("")
	}
	return entry, rep
}

// NormalizeJSON detects the shape of raw and normalizes it.
func NormalizeJSON(raw []byte) (domain.LexicalEntry, Report) {
	return NormalizeWithReport(Detect(raw))
}

// normalizeUnknown keeps only a string id, when one is present.
func normalizeUnknown(rec UnknownRecord, rep *Report) domain.LexicalEntry {
	rep.add("$", "unrecognized record shape")

	var id string
	if gjson.ValidBytes(rec.Raw) {
		if v := gjson.GetBytes(rec.Raw, "id"); v.Type == gjson.String {
			id = v.Str
		}
	}
	return domain.NewLexicalEntry(id)
}
