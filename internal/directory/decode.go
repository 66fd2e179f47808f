package directory

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Asset is the work-item quotes are requested for.
type Asset struct {
	ID   string   `json:"id" mapstructure:"id"`
	Name string   `json:"name" mapstructure:"name"`
	Tags []string `json:"tags" mapstructure:"tags"`
}

type Item interface{}

var nameAliases = []string{"displayName", "display_name"}

// LoadVendors reads a JSON or YAML vendors file. The file holds either a list
// of vendor records or an object with a "vendors" list.
func LoadVendors(path string) (*Vendors, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if obj, ok := raw.(map[string]any); ok {
		raw = obj["vendors"]
	}

	var items []Item
	switch typed := raw.(type) {
	case nil:
	case []any:
		for _, item := range typed {
			items = append(items, item)
		}
	default:
		return nil, fmt.Errorf("%s: expected a list of vendors, got %T", path, raw)
	}

	vendors, err := DecodeVendors(items)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return vendors, nil
}

// DecodeVendors converts loosely typed records into vendors. Unknown fields
// are ignored, numeric ids are accepted and "displayName" stands in for a
// missing "name".
func DecodeVendors(items []Item) (*Vendors, error) {
	vendors := make([]*Vendor, 0, len(items))
	for idx, item := range items {
		record, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("vendor #%d: expected an object, got %T", idx, item)
		}

		var vendor Vendor
		if err := decode(withNameAlias(record), &vendor); err != nil {
			return nil, fmt.Errorf("vendor #%d: %w", idx, err)
		}
		vendors = append(vendors, &vendor)
	}

	return &Vendors{Items: vendors}, nil
}

// LoadAsset reads a JSON or YAML asset file. Missing tags decode as an empty list.
func LoadAsset(path string) (*Asset, error) {
	raw, err := readFile(path)
	if err != nil {
		return nil, err
	}

	record, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected an asset object, got %T", path, raw)
	}

	var asset Asset
	if err := decode(withNameAlias(record), &asset); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if asset.Tags == nil {
		asset.Tags = []string{}
	}

	return &asset, nil
}

// ParseTags splits a comma separated tag list, dropping empty entries.
func ParseTags(s string) []string {
	tags := make([]string, 0)
	for _, tag := range strings.Split(s, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func decode(input any, result any) error {
	cfg := &mapstructure.DecoderConfig{
		Metadata:         nil,
		Result:           result,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

func withNameAlias(record map[string]any) map[string]any {
	if _, ok := record["name"]; ok {
		return record
	}
	for _, alias := range nameAliases {
		if value, ok := record[alias]; ok {
			out := make(map[string]any, len(record)+1)
			for k, v := range record {
				out[k] = v
			}
			out["name"] = value
			return out
		}
	}
	return record
}

func readFile(path string) (any, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("file path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	return raw, nil
}
