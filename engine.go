package guard

import (
	"fmt"
	"regexp"

	"github.com/armatrix/hookguard/cmdpattern"
	"github.com/armatrix/hookguard/pathmatch"
)

// Engine evaluates commands and edit paths against one Config on one
// platform. All patterns are compiled once at construction; the engine
// holds no mutable state, so a single Engine is safe for concurrent
// use.
type Engine struct {
	matcher  *pathmatch.Matcher
	generics []genericMatcher
	zero     []zeroRule
	readOnly []pathTierRule
	noDelete []pathTierRule
}

type genericMatcher struct {
	re     *regexp.Regexp
	reason string
	ask    bool
}

type zeroRule struct {
	pattern pathmatch.Pattern
	inText  *regexp.Regexp // appears-anywhere matcher for command text
}

type pathTierRule struct {
	pattern pathmatch.Pattern
	rules   []cmdpattern.Rule
}

// NewEngine compiles the config for the given platform. A rule whose
// pattern fails to compile is dropped here; evaluation proceeds over
// the rest rather than ever aborting.
func NewEngine(cfg Config, platform Platform) *Engine {
	cp := cmdpattern.Posix
	if platform == Windows {
		cp = cmdpattern.Windows
	}

	e := &Engine{matcher: pathmatch.NewMatcher(platform == Windows)}

	for _, r := range cfg.GenericRules {
		re, err := regexp.Compile("(?i)" + r.Pattern)
		if err != nil {
			continue
		}
		e.generics = append(e.generics, genericMatcher{re: re, reason: r.Reason, ask: r.Ask})
	}

	for _, raw := range cfg.ZeroAccessPaths {
		p := e.matcher.Compile(raw)
		e.zero = append(e.zero, zeroRule{pattern: p, inText: cmdpattern.Bare(p)})
	}
	for _, raw := range cfg.ReadOnlyPaths {
		p := e.matcher.Compile(raw)
		e.readOnly = append(e.readOnly, pathTierRule{
			pattern: p,
			rules:   cmdpattern.Compile(p, cmdpattern.WriteClass, cp),
		})
	}
	for _, raw := range cfg.NoDeletePaths {
		p := e.matcher.Compile(raw)
		e.noDelete = append(e.noDelete, pathTierRule{
			pattern: p,
			rules:   cmdpattern.Compile(p, cmdpattern.DeleteClass, cp),
		})
	}
	return e
}

// EvaluateCommand decides whether a shell command may run.
//
// Tier order is fixed: generic rules first so path-independent policy
// can override the path tiers, then zero-access (strictly stronger
// than read-only since it blocks reads too), then read-only, then
// no-delete last as the narrowest restriction. Within a tier the first
// matching entry wins. An empty command is allowed immediately.
func (e *Engine) EvaluateCommand(command string) Decision {
	if command == "" {
		return allowed()
	}

	for _, g := range e.generics {
		if !g.re.MatchString(command) {
			continue
		}
		if g.ask {
			return asked(g.reason)
		}
		return blocked(g.reason, "", "")
	}

	for _, z := range e.zero {
		if z.inText != nil && z.inText.MatchString(command) {
			return blocked(
				fmt.Sprintf("zero-access path %s (no operations allowed)", z.pattern.Source),
				"", z.pattern.Source)
		}
	}

	for _, r := range e.readOnly {
		if op, ok := cmdpattern.MatchAny(command, r.rules); ok {
			return blocked(
				fmt.Sprintf("%s operation on read-only path %s", op, r.pattern.Source),
				string(op), r.pattern.Source)
		}
	}

	for _, n := range e.noDelete {
		if op, ok := cmdpattern.MatchAny(command, n.rules); ok {
			return blocked(
				fmt.Sprintf("delete operation on no-delete path %s", n.pattern.Source),
				string(op), n.pattern.Source)
		}
	}

	return allowed()
}

// EvaluatePathEdit decides whether a direct file edit may touch the
// path. No operation parsing happens: the path is checked against the
// zero-access and read-only tiers only, since an edit is by definition
// a modification but not a deletion.
func (e *Engine) EvaluatePathEdit(path string) Decision {
	if path == "" {
		return allowed()
	}

	for _, z := range e.zero {
		if e.matchPath(path, z.pattern) {
			return blocked(
				fmt.Sprintf("zero-access path %s", z.pattern.Source),
				"", z.pattern.Source)
		}
	}
	for _, r := range e.readOnly {
		if e.matchPath(path, r.pattern) {
			return blocked(
				fmt.Sprintf("read-only path %s", r.pattern.Source),
				"", r.pattern.Source)
		}
	}
	return allowed()
}

func (e *Engine) matchPath(candidate string, p pathmatch.Pattern) bool {
	if p.Kind == pathmatch.Glob {
		return e.matcher.MatchGlob(candidate, p.Source)
	}
	return e.matcher.MatchLiteral(candidate, p.Source)
}

// EvaluateCommand is the package-level form of [Engine.EvaluateCommand]
// for callers that evaluate once per process, the common shape for a
// hook binary.
func EvaluateCommand(command string, cfg Config, platform Platform) Decision {
	return NewEngine(cfg, platform).EvaluateCommand(command)
}

// EvaluatePathEdit is the package-level form of
// [Engine.EvaluatePathEdit].
func EvaluatePathEdit(path string, cfg Config, platform Platform) Decision {
	return NewEngine(cfg, platform).EvaluatePathEdit(path)
}
