package recipe

import (
	"fmt"
	"log/slog"

	"github.com/crucible-build/crucible/pkg/errors"
)

// Resolve runs the option resolution sequence for a definition against a
// target profile:
//
//  1. clone the declared option table and apply platform adjustments
//  2. validate defaults against their enumerations
//  3. apply user overrides, rejecting unknown names and values
//  4. apply post-resolution adjustments
//  5. validate the final platform/option combination
//
// The returned set is the complete, validated option assignment the
// remaining lifecycle hooks operate on.
func Resolve(d Definition, p *Profile, overrides map[string]string) (OptionSet, error) {
	if d == nil {
		return nil, fmt.Errorf("definition cannot be nil")
	}
	if p == nil {
		p = HostProfile()
	}

	name := d.Metadata().Name
	resolutionsTotal.WithLabelValues(name).Inc()

	opts := d.Options().Clone()
	d.ConfigOptions(p, opts)

	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("recipe %s has inconsistent option table: %w", name, err)
	}

	set, err := opts.Resolve(overrides)
	if err != nil {
		return nil, fmt.Errorf("recipe %s: %w", name, err)
	}

	d.Configure(p, set)

	if err := d.Validate(p, set); err != nil {
		if errors.IsInvalidConfiguration(err) {
			invalidConfigTotal.WithLabelValues(name).Inc()
		}
		return nil, err
	}

	slog.Debug("resolved recipe options",
		"recipe", name,
		"version", d.Version().Full(),
		"profile", p.String(),
		"options", len(set))

	return set, nil
}
