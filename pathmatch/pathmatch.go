// Package pathmatch classifies and matches filesystem path patterns.
//
// A pattern is either a literal path or a glob (it contains `*`, `?`,
// or `[`); classification happens once when the pattern is compiled,
// not on every match. Matching never fails: a glob that cannot be
// translated degrades to "no match".
package pathmatch

import (
	"errors"
	"fmt"
	"os"
	"path"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Kind tags a pattern as literal or glob.
type Kind int

const (
	Literal Kind = iota
	Glob
)

// Pattern is a path pattern classified and expanded once at load time.
type Pattern struct {
	Source   string // Pattern as written in the rule file.
	Expanded string // Source with env vars and ~ resolved.
	Kind     Kind
}

// IsGlob reports whether the pattern contains glob metacharacters.
func IsGlob(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}

// Valid reports whether the pattern would take part in matching at all.
// Matching itself never fails — an invalid glob just matches nothing —
// so Valid exists for loaders that want to warn about dead rules.
func Valid(pattern string) error {
	if pattern == "" {
		return errors.New("empty pattern")
	}
	if IsGlob(pattern) && strings.Contains(pattern, "/") && !doublestar.ValidatePattern(pattern) {
		return fmt.Errorf("malformed glob %q", pattern)
	}
	return nil
}

// Matcher performs platform-aware path expansion, normalization, and
// matching. The zero value matches with POSIX conventions.
type Matcher struct {
	windows bool
}

// NewMatcher returns a matcher for the given path conventions. On
// Windows, normalization folds case and accepts backslash separators,
// and %VAR% environment references are expanded.
func NewMatcher(windows bool) *Matcher {
	return &Matcher{windows: windows}
}

// Compile classifies and expands a pattern once so evaluation never
// re-derives either.
func (m *Matcher) Compile(source string) Pattern {
	kind := Literal
	if IsGlob(source) {
		kind = Glob
	}
	return Pattern{Source: source, Expanded: m.Expand(source), Kind: kind}
}

// Expand resolves environment-variable references and a leading
// home-directory shorthand. Unset variables expand to the empty
// string, same as a shell.
func (m *Matcher) Expand(p string) string {
	if p == "" {
		return p
	}
	if p == "~" || strings.HasPrefix(p, "~/") || (m.windows && strings.HasPrefix(p, `~\`)) {
		if home, err := os.UserHomeDir(); err == nil && home != "" {
			p = home + p[1:]
		}
	}
	p = os.ExpandEnv(p)
	if m.windows {
		p = expandPercentVars(p)
	}
	return p
}

var percentVarRE = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// expandPercentVars resolves cmd.exe-style %VAR% references.
func expandPercentVars(p string) string {
	return percentVarRE.ReplaceAllStringFunc(p, func(ref string) string {
		return os.Getenv(ref[1 : len(ref)-1])
	})
}

// Normalize expands the path, collapses redundant separators and
// segments, and lower-cases the result on case-insensitive platforms.
// Windows backslashes are rewritten to forward slashes so all
// comparisons use one separator.
func (m *Matcher) Normalize(p string) string {
	p = m.Expand(p)
	if p == "" {
		return p
	}
	if m.windows {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	p = path.Clean(p)
	if m.windows {
		p = strings.ToLower(p)
	}
	return p
}

// MatchLiteral reports whether the normalized candidate equals the
// normalized pattern or has it as a path-segment-aligned prefix. The
// prefix must end at a separator boundary: "/etc" matches "/etc/hosts"
// but not "/etcetera".
func (m *Matcher) MatchLiteral(candidate, pattern string) bool {
	c := m.Normalize(candidate)
	p := m.Normalize(pattern)
	if c == "" || p == "" {
		return false
	}
	if c == p {
		return true
	}
	if p == "/" {
		return strings.HasPrefix(c, "/")
	}
	return strings.HasPrefix(c, p+"/")
}

// MatchGlob matches the candidate's final path component against the
// glob pattern, case-insensitively. If the pattern contains
// separators, a full-path glob match is attempted as well. `*` matches
// any run of characters excluding whitespace and path separators; `?`
// matches exactly one such character. A pattern that cannot compile
// matches nothing.
func (m *Matcher) MatchGlob(candidate, pattern string) bool {
	if candidate == "" || pattern == "" {
		return false
	}
	c := m.Expand(candidate)
	p := m.Expand(pattern)
	if m.windows {
		c = strings.ReplaceAll(c, `\`, "/")
		p = strings.ReplaceAll(p, `\`, "/")
	}
	c = strings.ToLower(path.Clean(c))
	p = strings.ToLower(p)

	if re, err := regexp.Compile("^(?:" + TranslateGlob(p) + ")$"); err == nil {
		if re.MatchString(path.Base(c)) {
			return true
		}
	}
	if strings.Contains(p, "/") {
		if ok, err := doublestar.Match(p, c); err == nil && ok {
			return true
		}
	}
	return false
}

// TranslateGlob converts a glob pattern into a regular-expression body.
// Wildcards never cross whitespace or a path separator, so a glob
// embedded in command text cannot swallow neighboring arguments. Other
// regex metacharacters in the pattern are escaped. Well-formed
// character classes pass through; a stray `[` is treated literally.
func TranslateGlob(pattern string) string {
	var b strings.Builder
	for i := 0; i < len(pattern); i++ {
		switch c := pattern[i]; c {
		case '*':
			// Runs of stars collapse: the wildcard is bounded by
			// separators either way.
			for i+1 < len(pattern) && pattern[i+1] == '*' {
				i++
			}
			b.WriteString(`[^\s/\\]*`)
		case '?':
			b.WriteString(`[^\s/\\]`)
		case '[':
			if end := charClassEnd(pattern, i); end > 0 {
				writeCharClass(&b, pattern[i:end+1])
				i = end
			} else {
				b.WriteString(`\[`)
			}
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}
	return b.String()
}

// charClassEnd locates the closing bracket of a glob character class,
// or -1 when the class never closes.
func charClassEnd(pattern string, start int) int {
	i := start + 1
	if i < len(pattern) && (pattern[i] == '!' || pattern[i] == '^') {
		i++
	}
	if i < len(pattern) && pattern[i] == ']' {
		i++
	}
	for ; i < len(pattern); i++ {
		if pattern[i] == ']' {
			return i
		}
	}
	return -1
}

// writeCharClass copies a glob class to the builder as a regex class,
// mapping glob's `[!x]` negation to regex `[^x]`.
func writeCharClass(b *strings.Builder, class string) {
	body := class[1 : len(class)-1]
	b.WriteByte('[')
	if strings.HasPrefix(body, "!") {
		b.WriteByte('^')
		body = body[1:]
	} else if strings.HasPrefix(body, "^") {
		b.WriteString(`\^`)
		body = body[1:]
	}
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			b.WriteString(`\\`)
			continue
		}
		b.WriteByte(body[i])
	}
	b.WriteByte(']')
}
