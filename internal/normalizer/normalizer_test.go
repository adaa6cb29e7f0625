package normalizer

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/polyglot-dictionary/internal/domain"
)

const appleCMS = `{
  "id": "apple-1",
  "coverImage": {"url": "https://images.example/apple.png", "width": 640, "height": 480},
  "words": [{"word": [
    {"test_lang": ["en"], "test_word": [{"words": "apple"}]},
    {"test_lang": ["ja"], "test_word": [{"words": "りんご"}, {"words": "林檎"}]}
  ]}],
  "pronunciations": [{"pronunciations": [
    {"test_lang": ["en"], "test_word": [{"words": "ˈæp.əl"}]}
  ]}],
  "frequencies": [{"frequencies": [
    {"language": ["en"], "num": [{"list_num": 92.5}]},
    {"language": ["ja"], "num": [{"list_num": "40"}]}
  ]}],
  "meanings": [{"definitions": [
    {"test_lang": ["en"], "test_word": [{"words": "a round fruit"}]}
  ]}],
  "inflections": [{"inflections": [
    {"test_lang": ["en"], "test_word": [{"words": "apples"}]}
  ]}],
  "example": [{"example": [
    {"language": ["en"], "example": [{"text": "She ate an apple."}]}
  ]}],
  "categories": [{"name": "fruit"}, {"name": "noun"}]
}`

func TestNormalize_AppleCMS(t *testing.T) {
	t.Parallel()

	rec := Detect([]byte(appleCMS))
	require.IsType(t, CMSRecord{}, rec)

	entry, rep := NormalizeWithReport(rec)

	assert.Equal(t, ShapeCMS, rep.Shape)
	assert.False(t, rep.HasIssues(), "unexpected issues: %v", rep.Issues)

	assert.Equal(t, "apple-1", entry.ID)
	assert.Equal(t, []string{"apple"}, entry.Words[domain.LanguageEN])
	assert.Equal(t, []string{"りんご", "林檎"}, entry.Words[domain.LanguageJA])
	assert.Equal(t, []string{}, entry.Words[domain.LanguageDE])
	assert.Equal(t, []string{}, entry.Words[domain.LanguageRU])
	assert.Equal(t, "apple", entry.Headword(domain.LanguageEN))

	assert.Equal(t, "ˈæp.əl", entry.Pronunciation[domain.LanguageEN])
	assert.Equal(t, "", entry.Pronunciation[domain.LanguageDE])
	assert.Equal(t, 92.5, entry.Frequency[domain.LanguageEN])
	assert.Equal(t, 40.0, entry.Frequency[domain.LanguageJA])
	assert.Equal(t, 0.0, entry.Frequency[domain.LanguageRU])

	assert.Equal(t, []string{"a round fruit"}, entry.Meanings[domain.LanguageEN])
	assert.Equal(t, []string{"apples"}, entry.Inflections[domain.LanguageEN])
	assert.Equal(t, []string{"She ate an apple."}, entry.Examples[domain.LanguageEN])
	assert.Equal(t, []string{"fruit", "noun"}, entry.Categories)
	assert.Equal(t, domain.CoverImage{URL: "https://images.example/apple.png", Width: 640, Height: 480}, entry.CoverImage)
}

func TestNormalize_AllLanguagesPresent(t *testing.T) {
	t.Parallel()

	inputs := map[string]string{
		"empty object":  `{}`,
		"only id":       `{"id":"x"}`,
		"cms partial":   `{"words":[{"word":[{"test_lang":["en"],"test_word":[{"words":"a"}]}]}]}`,
		"store partial": `{"id":"s","words":[{"lang":"ru","wordText":"б"}]}`,
		"not an object": `[1,2,3]`,
		"invalid json":  `{"words":`,
	}

	for name, raw := range inputs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			entry, _ := NormalizeJSON([]byte(raw))
			for _, lang := range domain.Languages() {
				for _, group := range []map[domain.Language][]string{entry.Words, entry.Meanings, entry.Inflections, entry.Examples} {
					v, ok := group[lang]
					assert.True(t, ok, "missing %s", lang)
					assert.NotNil(t, v)
				}
				_, ok := entry.Pronunciation[lang]
				assert.True(t, ok)
				_, ok = entry.Frequency[lang]
				assert.True(t, ok)
			}
			assert.NotNil(t, entry.Categories)
			assert.Len(t, entry.Words, len(domain.Languages()))
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		raw        string
		wantFields []string
		check      func(t *testing.T, e domain.LexicalEntry)
	}{
		{
			name:       "words is a string",
			raw:        `{"id":"m1","words":"oops"}`,
			wantFields: []string{"words"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, "m1", e.ID)
				assert.Empty(t, e.Words[domain.LanguageEN])
			},
		},
		{
			name:       "inner group is an object",
			raw:        `{"words":[{"word":{"test_lang":["en"]}}]}`,
			wantFields: []string{"words[0].word"},
		},
		{
			name:       "missing language tag",
			raw:        `{"words":[{"word":[{"test_word":[{"words":"lost"}]}]}]}`,
			wantFields: []string{"words[0].word[0].test_lang"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				for _, lang := range domain.Languages() {
					assert.Empty(t, e.Words[lang])
				}
			},
		},
		{
			name:       "unknown language dropped",
			raw:        `{"words":[{"word":[{"test_lang":["fr"],"test_word":[{"words":"pomme"}]},{"test_lang":["de"],"test_word":[{"words":"Apfel"}]}]}]}`,
			wantFields: []string{"words[0].word[0].test_lang"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, []string{"Apfel"}, e.Words[domain.LanguageDE])
			},
		},
		{
			name:       "value with wrong type",
			raw:        `{"meanings":[{"definitions":[{"test_lang":["en"],"test_word":[{"words":42},{"words":"ok"}]}]}]}`,
			wantFields: []string{"meanings[0].definitions[0].test_word[0].words"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, []string{"ok"}, e.Meanings[domain.LanguageEN])
			},
		},
		{
			name:       "non numeric frequency",
			raw:        `{"frequencies":[{"frequencies":[{"language":["en"],"num":[{"list_num":"often"}]}]}]}`,
			wantFields: []string{"frequencies[0].frequencies[0].num[0].list_num"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, 0.0, e.Frequency[domain.LanguageEN])
			},
		},
		{
			name:       "NaN frequency",
			raw:        `{"frequencies":[{"frequencies":[{"language":["en"],"num":[{"list_num":"NaN"}]}]}]}`,
			wantFields: []string{"frequencies[0].frequencies[0].num[0].list_num"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, 0.0, e.Frequency[domain.LanguageEN])
			},
		},
		{
			name:       "infinite frequency string",
			raw:        `{"frequencies":[{"frequencies":[{"language":["en"],"num":[{"list_num":"Infinity"}]}]}]}`,
			wantFields: []string{"frequencies[0].frequencies[0].num[0].list_num"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, 0.0, e.Frequency[domain.LanguageEN])
			},
		},
		{
			name:       "overflowing frequency number",
			raw:        `{"frequencies":[{"frequencies":[{"language":["en"],"num":[{"list_num":1e999}]}]}]}`,
			wantFields: []string{"frequencies[0].frequencies[0].num[0].list_num"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, 0.0, e.Frequency[domain.LanguageEN])
			},
		},
		{
			name:       "cover image is a string",
			raw:        `{"coverImage":"https://x"}`,
			wantFields: []string{"coverImage"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, domain.CoverImage{}, e.CoverImage)
			},
		},
		{
			name:       "category without name",
			raw:        `{"categories":[{"name":"verb"},{"title":"x"},7]}`,
			wantFields: []string{"categories[1].name", "categories[2].name"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, []string{"verb"}, e.Categories)
			},
		},
		{
			name:       "unrecognized shape",
			raw:        `{"id":"u1","title":"nothing we know"}`,
			wantFields: []string{"$"},
			check: func(t *testing.T, e domain.LexicalEntry) {
				assert.Equal(t, "u1", e.ID)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			entry, rep := NormalizeJSON([]byte(tt.raw))
			assert.Equal(t, tt.wantFields, rep.Fields())
			if tt.check != nil {
				tt.check(t, entry)
			}
			_, err := json.Marshal(entry)
			assert.NoError(t, err, "a degraded entry must still encode")
		})
	}
}

func TestNormalize_CMSMergeRules(t *testing.T) {
	t.Parallel()

	raw := `{
	  "words":[{"word":[
	    {"test_lang":["en"],"test_word":[{"words":"run"}]},
	    {"test_lang":["en"],"test_word":[{"words":"sprint"}]}
	  ]}],
	  "pronunciations":[{"pronunciations":[
	    {"test_lang":["en"],"test_word":[{"words":"first"}]},
	    {"test_lang":["en"],"test_word":[{"words":"second"}]}
	  ]}]
	}`

	entry := Normalize(Detect([]byte(raw)))

	assert.Equal(t, []string{"run", "sprint"}, entry.Words[domain.LanguageEN])
	assert.Equal(t, "second", entry.Pronunciation[domain.LanguageEN])
}

func TestNormalize_StoreRecord(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	catID := uuid.New()
	se := domain.StoredEntry{
		ID:         id,
		Version:    3,
		CoverImage: domain.CoverImage{URL: "u", Width: 1, Height: 2},
		Rows: map[domain.ChildKind][]domain.ChildRow{
			domain.ChildKindWord: {
				{ID: uuid.New(), Kind: domain.ChildKindWord, Lang: domain.LanguageJA, Value: "走る", Position: 0},
				{ID: uuid.New(), Kind: domain.ChildKindWord, Lang: domain.LanguageEN, Value: "sprint", Position: 1},
				{ID: uuid.New(), Kind: domain.ChildKindWord, Lang: domain.LanguageEN, Value: "run", Position: 0},
				{ID: uuid.New(), Kind: domain.ChildKindWord, Lang: "xx", Value: "lost"},
			},
			domain.ChildKindFrequency: {
				{ID: uuid.New(), Kind: domain.ChildKindFrequency, Lang: domain.LanguageEN, Score: 88},
			},
		},
		Categories: []domain.Category{{ID: catID, Slug: "verb"}},
	}

	entry, rep := NormalizeWithReport(FromStored(se))

	assert.Equal(t, ShapeStore, rep.Shape)
	assert.Equal(t, []string{"WORD[3].lang"}, rep.Fields())
	assert.Equal(t, id.String(), entry.ID)
	assert.Equal(t, 3, entry.Version)
	assert.Equal(t, []string{"run", "sprint"}, entry.Words[domain.LanguageEN])
	assert.Equal(t, []string{"走る"}, entry.Words[domain.LanguageJA])
	assert.Equal(t, 88.0, entry.Frequency[domain.LanguageEN])
	assert.Equal(t, []string{"verb"}, entry.Categories)
}

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want Shape
	}{
		{"cms words", `{"words":[{"word":[]}]}`, ShapeCMS},
		{"cms cover", `{"coverImage":{"url":"x"}}`, ShapeCMS},
		{"store flat cover", `{"coverImageUrl":"x"}`, ShapeStore},
		{"store rows", `{"words":[{"lang":"en","wordText":"a"}]}`, ShapeStore},
		{"prisma relational", `{"id":"c1","examples":[],"categories":[{"category":{"id":"k","name":"verb"}}]}`, ShapeStore},
		{"array", `[]`, ShapeUnknown},
		{"scalar", `"words"`, ShapeUnknown},
		{"garbage", `not json`, ShapeUnknown},
		{"no known keys", `{"title":"x"}`, ShapeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Detect([]byte(tt.raw)).Shape())
		})
	}
}

func TestNormalize_RelationalJSON(t *testing.T) {
	t.Parallel()

	raw := `{
	  "id": "clx123",
	  "coverImageUrl": "https://img/x.png", "coverImageWidth": 10, "coverImageHeight": 20,
	  "words": [{"id":"w1","lang":"en","wordText":"run"},{"id":"w2","lang":"ja","wordText":"走る"}],
	  "pronunciations": [{"lang":"en","text":"rʌn"}],
	  "frequencies": [{"lang":"en","frequency":77}],
	  "meanings": [{"lang":"en","meaning":"move fast"}],
	  "inflections": [{"lang":"en","form":"ran"},{"lang":"en","form":"running"}],
	  "examples": [{"lang":"de","sentence":"Ich laufe."}],
	  "categories": [{"category":{"id":"c1","name":"verb"}}]
	}`

	entry, rep := NormalizeJSON([]byte(raw))

	assert.Equal(t, ShapeStore, rep.Shape)
	assert.Equal(t, "clx123", entry.ID)
	assert.Equal(t, domain.CoverImage{URL: "https://img/x.png", Width: 10, Height: 20}, entry.CoverImage)
	assert.Equal(t, []string{"run"}, entry.Words[domain.LanguageEN])
	assert.Equal(t, []string{"走る"}, entry.Words[domain.LanguageJA])
	assert.Equal(t, "rʌn", entry.Pronunciation[domain.LanguageEN])
	assert.Equal(t, 77.0, entry.Frequency[domain.LanguageEN])
	assert.Equal(t, []string{"ran", "running"}, entry.Inflections[domain.LanguageEN])
	assert.Equal(t, []string{"Ich laufe."}, entry.Examples[domain.LanguageDE])
	assert.Equal(t, []string{"verb"}, entry.Categories)
}

func TestNormalize_NilRecord(t *testing.T) {
	t.Parallel()

	entry, rep := NormalizeWithReport(nil)
	assert.Equal(t, ShapeUnknown, rep.Shape)
	assert.Len(t, entry.Words, len(domain.Languages()))
}

func FuzzNormalize(f *testing.F) {
	f.Add([]byte(appleCMS))
	f.Add([]byte(`{}`))
	f.Add([]byte(`{"words":[{"word":[{"test_lang":[1],"test_word":"x"}]}]}`))
	f.Add([]byte(`{"words":[{"lang":"en","wordText":null}],"examples":7}`))
	f.Add([]byte(`{"categories":[{"category":{"name":{"en":"x","zz":1}}}]}`))

	f.Fuzz(func(t *testing.T, raw []byte) {
		entry, _ := NormalizeJSON(raw)
		for _, lang := range domain.Languages() {
			if _, ok := entry.Words[lang]; !ok {
				t.Fatalf("language %s missing", lang)
			}
		}
		if _, ok := entry.Words[domain.LanguageUnknown]; ok {
			t.Fatal("unknown bucket leaked into entry")
		}
	})
}

func TestNormalize_StoreNonFiniteScore(t *testing.T) {
	t.Parallel()

	stored := domain.StoredEntry{
		ID: uuid.New(),
		Rows: map[domain.ChildKind][]domain.ChildRow{
			domain.ChildKindFrequency: {
				{ID: uuid.New(), Kind: domain.ChildKindFrequency, Lang: domain.LanguageEN, Score: math.NaN()},
				{ID: uuid.New(), Kind: domain.ChildKindFrequency, Lang: domain.LanguageJA, Score: 12},
			},
		},
	}

	entry, rep := NormalizeWithReport(StoreRecord{Entry: stored})

	assert.Equal(t, []string{"FREQUENCY[0].score"}, rep.Fields())
	assert.Equal(t, 0.0, entry.Frequency[domain.LanguageEN])
	assert.Equal(t, 12.0, entry.Frequency[domain.LanguageJA])
	_, err := json.Marshal(entry)
	require.NoError(t, err)
}
