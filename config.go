package guard

import (
	"fmt"
	"regexp"

	"github.com/armatrix/hookguard/pathmatch"
)

// GenericRule is a path-independent command-text rule. The pattern is
// a regular expression matched case-insensitively against the whole
// command line. When it matches, the engine returns Ask or Block with
// the rule's reason depending on the Ask flag.
type GenericRule struct {
	Pattern string
	Reason  string
	Ask     bool
}

// Config is the merged rule set the engine evaluates against. It is a
// plain value: construct it once (typically via ruleio or Merge) and
// treat it as read-only afterwards. An all-empty Config allows
// everything, the deliberate fail-open default when no rule source is
// found.
//
// Within each list, earlier entries win: generic rules are tried in
// order and the path-tier lists stop at the first matching pattern.
type Config struct {
	GenericRules    []GenericRule
	ZeroAccessPaths []string
	ReadOnlyPaths   []string
	NoDeletePaths   []string
}

// IsEmpty reports whether the config carries no rules at all.
func (c Config) IsEmpty() bool {
	return len(c.GenericRules) == 0 &&
		len(c.ZeroAccessPaths) == 0 &&
		len(c.ReadOnlyPaths) == 0 &&
		len(c.NoDeletePaths) == 0
}

// Validate reports every rule the engine will skip because its pattern
// cannot compile. The engine never fails on such rules — they simply
// match nothing — so validation exists for callers that want to warn
// instead of staying silent.
func (c Config) Validate() []error {
	var errs []error
	for _, r := range c.GenericRules {
		if _, err := regexp.Compile("(?i)" + r.Pattern); err != nil {
			errs = append(errs, fmt.Errorf("%w: generic rule %q: %v", ErrInvalidRule, r.Pattern, err))
		}
	}
	tiers := []struct {
		name  string
		paths []string
	}{
		{"zero_access", c.ZeroAccessPaths},
		{"read_only", c.ReadOnlyPaths},
		{"no_delete", c.NoDeletePaths},
	}
	for _, tier := range tiers {
		for _, p := range tier.paths {
			if err := pathmatch.Valid(p); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s path %q: %v", ErrInvalidPattern, tier.name, p, err))
			}
		}
	}
	return errs
}

// Merge combines a base config with an overlay. Each field is the
// base's list followed by the overlay's list with relative order
// preserved, so base rules keep their intra-tier priority.
func Merge(base, overlay Config) Config {
	return Config{
		GenericRules:    concat(base.GenericRules, overlay.GenericRules),
		ZeroAccessPaths: concat(base.ZeroAccessPaths, overlay.ZeroAccessPaths),
		ReadOnlyPaths:   concat(base.ReadOnlyPaths, overlay.ReadOnlyPaths),
		NoDeletePaths:   concat(base.NoDeletePaths, overlay.NoDeletePaths),
	}
}

// concat returns a fresh slice so neither input backs the merged
// config.
func concat[T any](base, overlay []T) []T {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}
	out := make([]T, 0, len(base)+len(overlay))
	out = append(out, base...)
	out = append(out, overlay...)
	return out
}
