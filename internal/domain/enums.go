package domain

// Language is one of the fixed dictionary languages.
type Language string

const (
	LanguageEN Language = "en"
	LanguageJA Language = "ja"
	LanguageDE Language = "de"
	LanguageRU Language = "ru"

	// LanguageUnknown is the bucket for source rows whose language tag is
	// missing or unrecognized. It never appears in a normalized entry.
	LanguageUnknown Language = "unknown"
)

// Languages returns the supported languages in display order.
func Languages() []Language {
	return []Language{LanguageEN, LanguageJA, LanguageDE, LanguageRU}
}

func (l Language) String() string { return string(l) }

func (l Language) IsValid() bool {
	switch l {
	case LanguageEN, LanguageJA, LanguageDE, LanguageRU:
		return true
	}
	return false
}

// ParseLanguage maps a raw language tag to a Language.
// Unrecognized tags map to LanguageUnknown and false.
func ParseLanguage(s string) (Language, bool) {
	l := Language(s)
	if !l.IsValid() {
		return LanguageUnknown, false
	}
	return l, true
}

// ChildKind identifies a per-language child row collection of an entry.
type ChildKind string

const (
	ChildKindWord          ChildKind = "WORD"
	ChildKindPronunciation ChildKind = "PRONUNCIATION"
	ChildKindFrequency     ChildKind = "FREQUENCY"
	ChildKindMeaning       ChildKind = "MEANING"
	ChildKindInflection    ChildKind = "INFLECTION"
	ChildKindExample       ChildKind = "EXAMPLE"
)

// ChildKinds returns every child kind in a stable order.
func ChildKinds() []ChildKind {
	return []ChildKind{
		ChildKindWord, ChildKindPronunciation, ChildKindFrequency,
		ChildKindMeaning, ChildKindInflection, ChildKindExample,
	}
}

func (k ChildKind) String() string { return string(k) }

func (k ChildKind) IsValid() bool {
	switch k {
	case ChildKindWord, ChildKindPronunciation, ChildKindFrequency,
		ChildKindMeaning, ChildKindInflection, ChildKindExample:
		return true
	}
	return false
}

// IsSingleValued reports whether the kind keeps exactly one primary row per language.
func (k ChildKind) IsSingleValued() bool {
	return k == ChildKindPronunciation || k == ChildKindFrequency
}

// IsNumeric reports whether rows of this kind carry Score instead of Value.
func (k ChildKind) IsNumeric() bool {
	return k == ChildKindFrequency
}
