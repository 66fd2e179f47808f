// Package taxonomy holds the tag taxonomy, the category vocabulary and the
// tables translating tags into vendor categories.
//
// The data lives in YAML files (tags.yaml, categories.yaml, translation.yaml
// and legacy.yaml). A default copy is embedded into the binary; a directory
// with the same layout can be loaded instead so that every consumer reads one
// artifact.
package taxonomy

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

const (
	TagsFile        = "tags.yaml"
	CategoriesFile  = "categories.yaml"
	TranslationFile = "translation.yaml"
	LegacyFile      = "legacy.yaml"
)

//go:embed data/*.yaml
var embedded embed.FS

var (
	ErrNoTags         = errors.New("taxonomy: tag list is empty")
	ErrDuplicateKey   = errors.New("taxonomy: duplicate table key")
	errInvalidTagName = errors.New("empty tag name")
)

// Table maps a tag to the ordered list of categories it implies.
// A key with an empty list is a defined, intentionally empty mapping.
type Table map[string][]string

// Taxonomy is one loaded version of the taxonomy artifact.
type Taxonomy struct {
	// Tags is the canonical, ordered list of current tags.
	Tags []string
	// Categories is the vendor category vocabulary.
	Categories []string
	// Current translates current tags.
	Current Table
	// Legacy translates tags of the retired taxonomy.
	Legacy Table
}

// NormalizeTag returns the lookup key for a tag: NFC form without
// surrounding whitespace.
func NormalizeTag(tag string) string {
	return strings.TrimSpace(norm.NFC.String(tag))
}

// Default loads the taxonomy embedded into the binary.
func Default() (*Taxonomy, error) {
	return Load(embedded, "data")
}

// LoadDir loads the taxonomy from a directory on disk.
func LoadDir(dir string) (*Taxonomy, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return Default()
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("taxonomy dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("taxonomy dir %q is not a directory", dir)
	}

	return Load(os.DirFS(dir), ".")
}

// Load reads the taxonomy files from dir inside fsys. The legacy table is
// optional; every other file is required.
func Load(fsys fs.FS, dir string) (*Taxonomy, error) {
	tags, err := readList(fsys, path.Join(dir, TagsFile))
	if err != nil {
		return nil, err
	}
	if len(tags) == 0 {
		return nil, ErrNoTags
	}

	categories, err := readList(fsys, path.Join(dir, CategoriesFile))
	if err != nil {
		return nil, err
	}

	current, err := readTable(fsys, path.Join(dir, TranslationFile))
	if err != nil {
		return nil, err
	}

	legacy, err := readTable(fsys, path.Join(dir, LegacyFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
		legacy = Table{}
	case err != nil:
		return nil, err
	}

	return &Taxonomy{
		Tags:       tags,
		Categories: categories,
		Current:    current,
		Legacy:     legacy,
	}, nil
}

// HasTag reports whether tag belongs to the current canonical list.
func (t *Taxonomy) HasTag(tag string) bool {
	if t == nil {
		return false
	}
	key := NormalizeTag(tag)
	for _, existing := range t.Tags {
		if existing == key {
			return true
		}
	}
	return false
}

func readList(fsys fs.FS, name string) ([]string, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var raw []string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	items := make([]string, 0, len(raw))
	for _, item := range raw {
		item = NormalizeTag(item)
		if item == "" {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}

func readTable(fsys fs.FS, name string) (Table, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var raw map[string][]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}

	table := make(Table, len(raw))
	for tag, categories := range raw {
		key := NormalizeTag(tag)
		if key == "" {
			return nil, fmt.Errorf("%s: %w", name, errInvalidTagName)
		}
		// yaml.v3 rejects literal duplicates; this catches keys that only
		// collide after normalization.
		if _, ok := table[key]; ok {
			return nil, fmt.Errorf("%s: %q: %w", name, key, ErrDuplicateKey)
		}
		if categories == nil {
			categories = []string{}
		}
		table[key] = categories
	}

	return table, nil
}
