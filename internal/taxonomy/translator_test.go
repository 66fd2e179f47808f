package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTranslator() *Translator {
	return NewTranslator(&Taxonomy{
		Tags: []string{"Audio", "Video & Display", "Lighting", "Permits", "Café"},
		Current: Table{
			"Audio":           {"Audio"},
			"Video & Display": {"Graphics", "Video"},
			"Lighting":        {"Lighting"},
			"Permits":         {},
			"Café":            {"Catering"},
		},
		Legacy: Table{
			"Lighting": {"Lighting", "Power"},
			"Permits":  {"Security"},
			"Flowers":  {"Florist"},
			"LED Wall": {"Video", "Graphics"},
		},
	})
}

func TestTranslatorLookup(t *testing.T) {
	tr := testTranslator()

	tests := []struct {
		name       string
		tag        string
		categories []string
		source     Source
	}{
		{name: "current", tag: "Video & Display", categories: []string{"Graphics", "Video"}, source: SourceCurrent},
		{name: "legacy only", tag: "Flowers", categories: []string{"Florist"}, source: SourceLegacy},
		{name: "current overrides legacy", tag: "Lighting", categories: []string{"Lighting"}, source: SourceCurrent},
		{name: "current empty does not fall through", tag: "Permits", categories: []string{}, source: SourceCurrent},
		{name: "unknown", tag: "TagWithNoKnownMapping", categories: nil, source: SourceUnknown},
		{name: "surrounding whitespace", tag: "  Audio\t", categories: []string{"Audio"}, source: SourceCurrent},
		{name: "decomposed unicode", tag: "Cafe\u0301", categories: []string{"Catering"}, source: SourceCurrent},
		{name: "case sensitive", tag: "audio", categories: nil, source: SourceUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			categories, source := tr.Lookup(tt.tag)
			assert.Equal(t, tt.source, source)
			assert.Equal(t, tt.categories, categories)
		})
	}
}

func TestTranslatorResolve(t *testing.T) {
	tr := testTranslator()

	assert.Equal(t, 0, tr.Resolve(nil).Len())
	assert.Equal(t, 0, tr.Resolve([]string{}).Len())
	assert.Equal(t, 0, tr.Resolve([]string{"TagWithNoKnownMapping"}).Len())
	assert.Equal(t, 0, tr.Resolve([]string{"Permits"}).Len())

	set := tr.Resolve([]string{"Audio", "LED Wall", "Video & Display", "Unknown"})
	assert.Equal(t, []string{"Audio", "Graphics", "Video"}, set.Sorted())
	assert.False(t, set.Has("Power"))
}

func TestTranslatorResolveIsOrderAndDuplicateInsensitive(t *testing.T) {
	tr := testTranslator()

	a := tr.Resolve([]string{"Audio", "Flowers", "Lighting"})
	b := tr.Resolve([]string{"Lighting", "Audio", "Flowers", "Audio", "Lighting"})
	assert.Equal(t, a, b)
	assert.Equal(t, a.Sorted(), tr.Resolve([]string{"Flowers", "Lighting", "Audio"}).Sorted())
}

func TestTranslatorDefaultTaxonomy(t *testing.T) {
	tax, err := Default()
	require.NoError(t, err)
	tr := NewTranslator(tax)

	assert.Equal(t, []string{"Audio"}, tr.Resolve([]string{"Audio"}).Sorted())
	assert.Equal(t, []string{"Graphics", "Video"}, tr.Resolve([]string{"Video & Display"}).Sorted())
	assert.Equal(t, 0, tr.Resolve([]string{"Permits"}).Len(), "administrative tags map to nothing")
	assert.Equal(t, []string{"Lighting"}, tr.Resolve([]string{"Lighting"}).Sorted(), "legacy Lighting meaning is overridden")
	assert.Equal(t, []string{"Decor", "Florist"}, tr.Resolve([]string{"Centerpieces"}).Sorted())

	for _, tag := range tax.Tags {
		_, source := tr.Lookup(tag)
		assert.Equalf(t, SourceCurrent, source, "canonical tag %q must resolve from the current table", tag)
	}
}

func TestNilTranslatorTaxonomy(t *testing.T) {
	tr := NewTranslator(nil)
	assert.Equal(t, 0, tr.Resolve([]string{"Audio"}).Len())
}

func TestCategorySet(t *testing.T) {
	var empty CategorySet
	assert.False(t, empty.Has("Audio"))
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Sorted())

	set := NewCategorySet("Video", "Audio", "Video")
	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Has("Audio"))
	assert.Equal(t, []string{"Audio", "Video"}, set.Sorted())
}
