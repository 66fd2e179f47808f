package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/quote-ranker/internal/directory"
)

type excludedVendorsFilter struct {
	disabled bool
	reason   string
	ids      []string
}

// NewExcludedVendors creates a filter that removes vendors listed in the config.
func NewExcludedVendors() Filter {
	return &excludedVendorsFilter{}
}

func (f *excludedVendorsFilter) Name() string { return "excluded_vendors" }

func (f *excludedVendorsFilter) Disable(reason string) {
	f.disabled = true
	f.reason = reason
}

func (f *excludedVendorsFilter) IsEnabled() bool { return !f.disabled }

func (f *excludedVendorsFilter) Validate(cfg *Config) error {
	f.ids = nil
	if cfg == nil {
		return nil
	}
	for _, id := range cfg.Vendors {
		if id = strings.TrimSpace(id); id != "" {
			f.ids = append(f.ids, id)
		}
	}
	return nil
}

func (f *excludedVendorsFilter) Apply(_ context.Context, deps Deps, v *directory.Vendors) (*directory.Vendors, Step, error) {
	initial := v.Len()
	if len(f.ids) == 0 {
		return v, Step{Initial: initial, Dropped: 0, Left: v.Len()}, nil
	}

	excluded := v.Exclude(f.ids)
	if len(excluded) > 0 {
		deps.Logger.Info("excluding vendors listed in config",
			zap.Strings("excluded_vendors", excluded),
			zap.Int("vendors_left", v.Len()),
		)
	}

	return v, Step{Initial: initial, Dropped: len(excluded), Left: v.Len()}, nil
}

func (f *excludedVendorsFilter) Status() Status {
	details := map[string]string{}
	if len(f.ids) > 0 {
		details["vendors"] = strings.Join(f.ids, ",")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
