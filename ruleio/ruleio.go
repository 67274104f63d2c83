// Package ruleio locates and parses rule files into a guard.Config.
//
// The engine core never touches the filesystem; this package is the
// loader that runs once per invocation before any evaluation. Rule
// files are YAML:
//
//	defaults: true
//	rules:
//	  - pattern: '\bgit\s+push\s+.*--force'
//	    reason: force push rewrites remote history
//	  - pattern: '\bsudo\b'
//	    reason: elevated privileges
//	    ask: true
//	zero_access: ["~/.ssh/*", "~/.aws/credentials"]
//	read_only: ["/etc/hosts"]
//	no_delete: ["/var/log/app.log"]
//	platform:
//	  windows:
//	    read_only: ['C:\Windows\System32']
//
// The `platform` section is an overlay merged after the base with
// field-wise concatenation, so base rules keep their priority.
package ruleio

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	guard "github.com/armatrix/hookguard"
)

// File mirrors the on-disk rule file layout.
type File struct {
	Defaults   bool               `yaml:"defaults"`
	Rules      []RuleEntry        `yaml:"rules"`
	ZeroAccess []string           `yaml:"zero_access"`
	ReadOnly   []string           `yaml:"read_only"`
	NoDelete   []string           `yaml:"no_delete"`
	Platform   map[string]Section `yaml:"platform"`
}

// RuleEntry is one generic rule as written in a rule file.
type RuleEntry struct {
	Pattern string `yaml:"pattern"`
	Reason  string `yaml:"reason"`
	Ask     bool   `yaml:"ask"`
}

// Section is a platform overlay: the same four rule lists, appended
// after the base lists for the matching platform.
type Section struct {
	Rules      []RuleEntry `yaml:"rules"`
	ZeroAccess []string    `yaml:"zero_access"`
	ReadOnly   []string    `yaml:"read_only"`
	NoDelete   []string    `yaml:"no_delete"`
}

// RuleFileName is the file looked up in each candidate directory.
const RuleFileName = "rules.yaml"

// configDir is the per-tool directory under project and user config
// roots.
const configDir = "hookguard"

// LoadPartial reads one rule file and resolves its platform overlay.
// A missing file is not an error: it yields an empty config, the
// deliberate fail-open default.
func LoadPartial(path string, platform guard.Platform) (guard.Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return guard.Config{}, nil
	}
	if err != nil {
		return guard.Config{}, fmt.Errorf("ruleio: read %s: %w", path, err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return guard.Config{}, fmt.Errorf("ruleio: parse %s: %w", path, err)
	}
	return f.Config(platform), nil
}

// Config flattens the file into a guard.Config for one platform:
// optional built-in defaults, then the base lists, then the platform
// overlay.
func (f File) Config(platform guard.Platform) guard.Config {
	cfg := guard.Config{
		GenericRules:    toGenericRules(f.Rules),
		ZeroAccessPaths: f.ZeroAccess,
		ReadOnlyPaths:   f.ReadOnly,
		NoDeletePaths:   f.NoDelete,
	}
	if f.Defaults {
		cfg = guard.Merge(guard.Config{GenericRules: guard.DefaultGenericRules}, cfg)
	}
	if overlay, ok := f.Platform[platform.String()]; ok {
		cfg = guard.Merge(cfg, guard.Config{
			GenericRules:    toGenericRules(overlay.Rules),
			ZeroAccessPaths: overlay.ZeroAccess,
			ReadOnlyPaths:   overlay.ReadOnly,
			NoDeletePaths:   overlay.NoDelete,
		})
	}
	return cfg
}

func toGenericRules(entries []RuleEntry) []guard.GenericRule {
	if len(entries) == 0 {
		return nil
	}
	rules := make([]guard.GenericRule, len(entries))
	for i, e := range entries {
		rules[i] = guard.GenericRule{Pattern: e.Pattern, Reason: e.Reason, Ask: e.Ask}
	}
	return rules
}

// Discover returns the candidate rule file paths in merge order: user
// config first, a legacy dotfile next, the project file last so
// project rules append after (and thus refine) user-wide ones.
func Discover(projectDir string) []string {
	var paths []string

	if p, err := xdg.SearchConfigFile(filepath.Join(configDir, RuleFileName)); err == nil {
		paths = append(paths, p)
	}
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		paths = append(paths, filepath.Join(home, ".hookguardrc"))
	}
	if projectDir != "" {
		paths = append(paths, filepath.Join(projectDir, "."+configDir, RuleFileName))
	}
	return paths
}

// Load merges every discovered rule source for the platform. found
// reports whether at least one source existed; when it is false the
// returned config is empty and the engine will allow everything, which
// the caller should surface as a warning rather than fail on.
func Load(projectDir string, platform guard.Platform) (cfg guard.Config, found bool, err error) {
	for _, path := range Discover(projectDir) {
		if _, statErr := os.Stat(path); statErr != nil {
			continue
		}
		partial, loadErr := LoadPartial(path, platform)
		if loadErr != nil {
			return guard.Config{}, found, loadErr
		}
		cfg = guard.Merge(cfg, partial)
		found = true
	}
	return cfg, found, nil
}
