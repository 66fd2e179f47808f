package taxonomy

import "sort"

// Source tells which table a tag was resolved from.
type Source string

const (
	SourceCurrent Source = "current"
	SourceLegacy  Source = "legacy"
	SourceUnknown Source = "unknown"
)

// CategorySet is an unordered set of categories.
type CategorySet map[string]struct{}

// NewCategorySet builds a set from the given categories.
func NewCategorySet(categories ...string) CategorySet {
	set := make(CategorySet, len(categories))
	for _, c := range categories {
		set[c] = struct{}{}
	}
	return set
}

// Has reports whether category is in the set. A nil set has no members.
func (s CategorySet) Has(category string) bool {
	_, ok := s[category]
	return ok
}

func (s CategorySet) Len() int {
	return len(s)
}

// Sorted returns the members in ascending byte order.
func (s CategorySet) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Translator resolves tags of either taxonomy version into categories.
// It only reads its tables and is safe for concurrent use.
type Translator struct {
	current Table
	legacy  Table
}

// NewTranslator creates a translator over the tables of t.
func NewTranslator(t *Taxonomy) *Translator {
	if t == nil {
		return &Translator{current: Table{}, legacy: Table{}}
	}
	return &Translator{current: t.Current, legacy: t.Legacy}
}

// Lookup returns the categories of a single tag and the table that defined
// it. The current table always wins, including when its entry is empty:
// a tag redefined in the current taxonomy never inherits its legacy meaning.
func (t *Translator) Lookup(tag string) ([]string, Source) {
	key := NormalizeTag(tag)
	if categories, ok := t.current[key]; ok {
		return categories, SourceCurrent
	}
	if categories, ok := t.legacy[key]; ok {
		return categories, SourceLegacy
	}
	return nil, SourceUnknown
}

// Resolve returns the union of the categories of all tags. Unknown tags
// contribute nothing; the result does not depend on tag order or duplicates.
func (t *Translator) Resolve(tags []string) CategorySet {
	set := make(CategorySet)
	for _, tag := range tags {
		categories, _ := t.Lookup(tag)
		for _, c := range categories {
			set[c] = struct{}{}
		}
	}
	return set
}
