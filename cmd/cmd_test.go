package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/quote-ranker/internal/directory"
	"github.com/spigell/quote-ranker/internal/matching"
	"github.com/spigell/quote-ranker/internal/taxonomy"
)

func defaultTranslator(t *testing.T) *taxonomy.Translator {
	t.Helper()
	tax, err := taxonomy.Default()
	require.NoError(t, err)
	return taxonomy.NewTranslator(tax)
}

func TestNewEngineLocale(t *testing.T) {
	vendors := []*directory.Vendor{{ID: "1", Name: "beta"}, {ID: "2", Name: "Alpha"}}

	collated, err := newEngine(defaultTranslator(t), "en", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Alpha", collated.Rank(vendors, nil)[0].Name)

	bytewise, err := newEngine(defaultTranslator(t), " ", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "Alpha", bytewise.Rank(vendors, nil)[0].Name)
	assert.Equal(t, "beta", bytewise.Rank([]*directory.Vendor{{Name: "beta"}, {Name: "Zulu"}}, nil)[1].Name)

	_, err = newEngine(defaultTranslator(t), "not a locale!", zap.NewNop())
	assert.Error(t, err)
}

func TestAssetFromFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "asset.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: stage\ntags: [Audio]\n"), 0o644))

	cmd := &cobra.Command{}
	addTagFlags(cmd)
	require.NoError(t, cmd.Flags().Set("asset", path))
	require.NoError(t, cmd.Flags().Set("tags", "Lighting, Sound"))

	asset, err := assetFromFlags(cmd)
	require.NoError(t, err)
	assert.Equal(t, "stage", asset.ID)
	assert.Equal(t, []string{"Audio", "Lighting", "Sound"}, asset.Tags)

	empty := &cobra.Command{}
	addTagFlags(empty)
	asset, err = assetFromFlags(empty)
	require.NoError(t, err)
	assert.Equal(t, []string{}, asset.Tags)
}

func TestWriteTable(t *testing.T) {
	matches := []matching.Match{
		{Vendor: &directory.Vendor{ID: "v1", Name: "Both", Categories: []string{"Graphics", "Video", "Catering"}},
			Relevance: matching.Relevance{Score: 2, Matching: []string{"Graphics", "Video"}}},
		{Vendor: &directory.Vendor{ID: "v2", Name: "None"}, Relevance: matching.Relevance{Matching: []string{}}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, matches, true))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "MATCHING")
	assert.Contains(t, lines[1], "Graphics, Video")
	assert.NotContains(t, lines[1], "Catering")

	buf.Reset()
	require.NoError(t, writeTable(&buf, matches, false))
	assert.Contains(t, buf.String(), "CATEGORIES")
	assert.Contains(t, buf.String(), "Graphics, Video, Catering")
}

func TestWriteResolution(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeResolution(&buf, defaultTranslator(t), []string{"Lighting", "Flowers", "Nope", "Permits"}))

	out := buf.String()
	assert.Regexp(t, `Lighting\s+current\s+Lighting\n`, out)
	assert.Regexp(t, `Flowers\s+legacy\s+Florist\n`, out)
	assert.Regexp(t, `Nope\s+unknown`, out)
	assert.True(t, strings.HasSuffix(out, "resolved: Florist, Lighting\n"))
}

func TestWriteTaxonomy(t *testing.T) {
	tax := &taxonomy.Taxonomy{
		Tags:    []string{"Audio", "Permits", "Drones"},
		Current: taxonomy.Table{"Audio": {"Audio"}, "Permits": {}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeTaxonomy(&buf, tax))
	out := buf.String()
	assert.Regexp(t, `Audio\s+Audio\n`, out)
	assert.Regexp(t, `Permits\s+\(none\)\n`, out)
	assert.Regexp(t, `Drones\s+\(missing\)\n`, out)
}

func TestAppendToExcludeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exclude.json")
	matches := []matching.Match{
		{Vendor: &directory.Vendor{ID: "v1", Name: "One"}},
		{Vendor: &directory.Vendor{ID: "v2", Name: "Two"}},
	}

	require.NoError(t, appendToExcludeFile(path, "stage", matches))
	require.NoError(t, appendToExcludeFile(path, "other", matches[:1]))

	excluded, err := directory.GetExcludedVendorsFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"v1", "v2"}, excluded.VendorIDs("stage"))
	assert.Equal(t, []string{"v1"}, excluded.VendorIDs("other"))
}

func TestConfigExcludedVendors(t *testing.T) {
	var config *Config
	assert.Nil(t, config.excludedVendors())

	config = &Config{}
	config.Exclude = &struct {
		Vendors []string `mapstructure:"vendors"`
	}{Vendors: []string{"v1"}}
	assert.Equal(t, []string{"v1"}, config.excludedVendors())
}

func TestRankResultWithoutCandidates(t *testing.T) {
	engine, err := newEngine(defaultTranslator(t), "en", zap.NewNop())
	require.NoError(t, err)

	all := &directory.Vendors{Items: []*directory.Vendor{{ID: "v1", Name: "One", Categories: []string{"Audio"}}}}
	result := newRankResult(engine, "stage", []string{"Audio"}, all, &directory.Vendors{})

	assert.Equal(t, matching.ModeScored, result.Mode)
	assert.Equal(t, 1, result.Excluded)
	assert.Equal(t, 1, result.Available)

	var buf bytes.Buffer
	require.NoError(t, writeResult(&buf, OutputJSON, result, false))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, []any{}, decoded["vendors"])
	assert.Equal(t, "stage", decoded["asset_id"])
	assert.Equal(t, []any{"Audio"}, decoded["relevant_categories"])

	buf.Reset()
	require.NoError(t, writeResult(&buf, OutputTable, result, true))
	assert.Equal(t, 1, strings.Count(buf.String(), "\n"), "only the header is written")
}

func TestRankResultFallback(t *testing.T) {
	engine, err := newEngine(defaultTranslator(t), "en", zap.NewNop())
	require.NoError(t, err)

	vendors := &directory.Vendors{Items: []*directory.Vendor{{ID: "2", Name: "Zed"}, {ID: "1", Name: "Ann"}}}
	result := newRankResult(engine, "", nil, vendors, vendors)

	assert.Equal(t, matching.ModeFallback, result.Mode)
	assert.Equal(t, []string{}, result.Tags)
	require.Len(t, result.Vendors, 2)
	assert.Equal(t, "Ann", result.Vendors[0].Vendor.Name)
}

func TestLoadTaxonomyUsesGivenLogger(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)

	tax, dir := loadTaxonomy(zap.New(core))
	require.NotNil(t, tax)
	assert.Empty(t, dir, "built-in taxonomy without configuration")

	entries := observed.FilterMessage("taxonomy loaded").All()
	require.Len(t, entries, 1)
	assert.EqualValues(t, len(tax.Tags), entries[0].ContextMap()["tags"])
}
