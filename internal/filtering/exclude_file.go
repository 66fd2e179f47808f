package filtering

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/quote-ranker/internal/directory"
)

type excludeFileFilter struct {
	disabled bool
	reason   string
	path     string
	assetID  string
}

// NewExcludeFile creates a filter that removes vendors recorded in the exclude file.
func NewExcludeFile() Filter {
	return &excludeFileFilter{}
}

func (f *excludeFileFilter) Name() string { return "exclude_file" }

func (f *excludeFileFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludeFileFilter) IsEnabled() bool { return !f.disabled }

func (f *excludeFileFilter) Validate(cfg *Config) error {
	f.path, f.assetID = "", ""
	if cfg == nil {
		return nil
	}
	f.path = strings.TrimSpace(cfg.ExcludeFile)
	f.assetID = strings.TrimSpace(cfg.AssetID)
	return nil
}

func (f *excludeFileFilter) Apply(_ context.Context, deps Deps, v *directory.Vendors) (*directory.Vendors, Step, error) {
	initial := v.Len()
	if f.path == "" {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	excluded, err := directory.GetExcludedVendorsFromFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		deps.Logger.Debug("exclude file does not exist yet", zap.String("path", f.path))
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}
	if err != nil {
		return v, Step{}, fmt.Errorf("getting excluded vendors from file: %w", err)
	}

	removed := v.Exclude(excluded.VendorIDs(f.assetID))
	if len(removed) > 0 {
		deps.Logger.Info("excluding vendors based on exclude file",
			zap.String("path", f.path),
			zap.String("asset_id", f.assetID),
			zap.Strings("excluded_vendors", removed),
			zap.Int("vendors_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(removed), Left: v.Len()}, nil
}

func (f *excludeFileFilter) Status() Status {
	details := map[string]string{}
	if f.path != "" {
		details["path"] = f.path
	}
	if f.assetID != "" {
		details["asset_id"] = f.assetID
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
