// Package normalizer converts heterogeneous source records (CMS exports and
// relational rows) into the canonical domain.LexicalEntry.
//
// Normalization is total: malformed or missing fields degrade to the empty
// value of their language and are listed in a Report, never returned as errors.
package normalizer

import (
	"github.com/tidwall/gjson"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

// Shape names the known source layouts.
type Shape string

const (
	ShapeCMS     Shape = "cms"
	ShapeStore   Shape = "store"
	ShapeUnknown Shape = "unknown"
)

// SourceRecord is a raw record in one of the known shapes. The set of
// implementations is closed: CMSRecord, StoreRecord and UnknownRecord.
type SourceRecord interface {
	Shape() Shape
	sealed()
}

// CMSRecord is a headless-CMS item with array-wrapped, nested field groups.
type CMSRecord struct {
	doc gjson.Result
}

// NewCMSRecord wraps raw CMS JSON. Invalid JSON yields a record with no fields.
func NewCMSRecord(raw []byte) CMSRecord {
	if !gjson.ValidBytes(raw) {
		return CMSRecord{}
	}
	return CMSRecord{doc: gjson.ParseBytes(raw)}
}

func (CMSRecord) Shape() Shape { return ShapeCMS }
func (CMSRecord) sealed()      {}

// StoreRecord is an entry in the relational shape. ID is kept as text so that
// records decoded from foreign JSON keep identifiers that are not UUIDs.
type StoreRecord struct {
	ID    string
	Entry domain.StoredEntry
}

// FromStored wraps an entry loaded from the database.
func FromStored(e domain.StoredEntry) StoreRecord {
	return StoreRecord{ID: e.ID.String(), Entry: e}
}

func (StoreRecord) Shape() Shape { return ShapeStore }
func (StoreRecord) sealed()      {}

// UnknownRecord is any input that matches neither known shape.
type UnknownRecord struct {
	Raw []byte
}

func (UnknownRecord) Shape() Shape { return ShapeUnknown }
func (UnknownRecord) sealed()      {}

// cmsOnlyKeys appear in CMS items but never at the top of a relational record.
var cmsOnlyKeys = []string{"coverImage", "frequencies", "example"}

// sharedGroupKeys are used by both layouts with different element shapes.
var sharedGroupKeys = []string{"words", "pronunciations", "meanings", "inflections", "categories"}

// Detect classifies raw JSON into a SourceRecord.
//
// A record is relational when it carries flat cover columns or when a group
// array holds elements with a direct "lang" field. Otherwise any CMS group key
// makes it a CMS record. Everything else, including non-objects and invalid
// JSON, is an UnknownRecord.
func Detect(raw []byte) SourceRecord {
	if !gjson.ValidBytes(raw) {
		return UnknownRecord{Raw: raw}
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return UnknownRecord{Raw: raw}
	}

	if isStoreShaped(doc) {
		return decodeStoreJSON(doc)
	}

	for _, key := range cmsOnlyKeys {
		if doc.Get(key).Exists() {
			return CMSRecord{doc: doc}
		}
	}
	for _, key := range sharedGroupKeys {
		if doc.Get(key).Exists() {
			return CMSRecord{doc: doc}
		}
	}

	return UnknownRecord{Raw: raw}
}

func isStoreShaped(doc gjson.Result) bool {
	if doc.Get("coverImageUrl").Exists() || doc.Get("examples").Exists() {
		return true
	}
	for _, g := range storeGroups {
		arr := doc.Get(g.key)
		if !arr.IsArray() {
			continue
		}
		for _, item := range arr.Array() {
			if item.IsObject() && item.Get("lang").Exists() {
				return true
			}
		}
	}
	return false
}
