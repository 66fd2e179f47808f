package directory

import (
	"encoding/json"
	"os"
	"time"
)

// Vendor is a supplier record as supplied by the external vendor directory.
// Only the fields the ranking needs are kept; everything else in the source
// record is ignored on decode.
type Vendor struct {
	ID         string   `json:"id" mapstructure:"id"`
	Name       string   `json:"name" mapstructure:"name"`
	Categories []string `json:"categories" mapstructure:"categories"`
}

// GetID is nil-safe.
func (v *Vendor) GetID() string {
	if v == nil {
		return ""
	}
	return v.ID
}

// GetName is nil-safe.
func (v *Vendor) GetName() string {
	if v == nil {
		return ""
	}
	return v.Name
}

// GetCategories is nil-safe.
func (v *Vendor) GetCategories() []string {
	if v == nil {
		return nil
	}
	return v.Categories
}

type Vendors struct {
	Items []*Vendor
}

type ExcludedVendors struct {
	Items []*ExcludedVendor
}

// ExcludedVendor is a vendor that was already contacted for an asset.
type ExcludedVendor struct {
	ID         string
	Name       string
	AssetID    string
	ExcludedAt time.Time
}

func (v *Vendors) Len() int {
	if v == nil {
		return 0
	}
	return len(v.Items)
}

func (v *Vendors) FindByID(id string) *Vendor {
	for _, vendor := range v.Items {
		if vendor.GetID() == id {
			return vendor
		}
	}
	return nil
}

func (v *Vendors) Names() []string {
	names := make([]string, 0, len(v.Items))
	for _, vendor := range v.Items {
		names = append(names, vendor.GetName())
	}
	return names
}

// Exclude removes vendors with the given ids and returns the removed ids.
// The order of the remaining vendors is preserved.
func (v *Vendors) Exclude(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}

	targets := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		targets[id] = struct{}{}
	}

	var excluded []string
	kept := v.Items[:0]
	for _, vendor := range v.Items {
		if _, ok := targets[vendor.GetID()]; ok {
			excluded = append(excluded, vendor.GetID())
			continue
		}
		kept = append(kept, vendor)
	}
	for i := len(kept); i < len(v.Items); i++ {
		v.Items[i] = nil
	}
	v.Items = kept

	return excluded
}

func (v *Vendors) ToExcluded(assetID string) *ExcludedVendors {
	excluded := &ExcludedVendors{}
	now := time.Now().UTC()
	for _, vendor := range v.Items {
		excluded.Items = append(excluded.Items, &ExcludedVendor{
			ID:         vendor.GetID(),
			Name:       vendor.GetName(),
			AssetID:    assetID,
			ExcludedAt: now,
		})
	}
	return excluded
}

// GetExcludedVendorsFromFile reads an exclude file. An empty file is an empty list.
func GetExcludedVendorsFromFile(path string) (*ExcludedVendors, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &ExcludedVendors{}, nil
	}

	var excluded ExcludedVendors
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *ExcludedVendors) Append(s *ExcludedVendors) {
	e.Items = append(e.Items, s.Items...)
}

// VendorIDs returns the ids of excluded vendors, limited to assetID when it is
// not empty. Entries recorded without an asset apply to every asset.
func (e *ExcludedVendors) VendorIDs(assetID string) []string {
	ids := make([]string, 0, len(e.Items))
	for _, vendor := range e.Items {
		if assetID != "" && vendor.AssetID != "" && vendor.AssetID != assetID {
			continue
		}
		ids = append(ids, vendor.ID)
	}
	return ids
}

func (e *ExcludedVendors) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
