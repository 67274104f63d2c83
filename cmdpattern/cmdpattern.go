// Package cmdpattern turns a path pattern into regular expressions that
// recognize an operation class (write, delete, ...) being applied to
// that path inside free-text command strings.
//
// Each operation class owns one or more platform-specific command
// syntax templates (tool token, flag conventions, path position). Only
// the active platform's templates are compiled, selected once when the
// rule set is built. Matching command text is always case-insensitive.
package cmdpattern

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/armatrix/hookguard/pathmatch"
)

// Operation names one command operation class. The name appears
// verbatim in block reasons.
type Operation string

const (
	OpWrite      Operation = "write"
	OpAppend     Operation = "append"
	OpEdit       Operation = "edit"
	OpMoveCopy   Operation = "move/copy"
	OpDelete     Operation = "delete"
	OpPermission Operation = "permission-change"
	OpTruncate   Operation = "truncate"
)

// Platform selects the command-syntax template table.
type Platform int

const (
	Posix Platform = iota
	Windows
)

// WriteClass lists every modifying operation class, in the order they
// are tried. Read-only paths compile the full set.
var WriteClass = []Operation{
	OpWrite, OpAppend, OpEdit, OpMoveCopy, OpDelete, OpPermission, OpTruncate,
}

// DeleteClass lists only deletion operations, for no-delete paths.
var DeleteClass = []Operation{OpDelete}

// opSyntax binds one operation class to its command templates. Each
// template contains a single %s placeholder for the path fragment.
type opSyntax struct {
	op    Operation
	exprs []string
}

// posixSyntax covers sh-family tools. The write redirect template
// rejects a preceding '>' so appends ('>>') are reported as append,
// not write.
var posixSyntax = []opSyntax{
	{OpWrite, []string{
		`(?:^|[^>])>\s*["']?%s`,
		`\btee\s+(?:--\S+\s+|-[^a\s]\S*\s+)*["']?%s`,
		`\bdd\b[^|;&]*\bof=["']?%s`,
	}},
	{OpAppend, []string{
		`>>\s*["']?%s`,
		`\btee\s+(?:\S+\s+)*-\S*a\S*\s+(?:\S+\s+)*["']?%s`,
	}},
	{OpEdit, []string{
		`\bsed\b[^|;&]*\s-i[^|;&]*%s`,
		`\bperl\b[^|;&]*\s-\S*i\S*\s[^|;&]*%s`,
		`\b(?:ed|ex|vi|vim|nvim|nano|emacs)\s+(?:-\S+\s+)*["']?%s`,
	}},
	{OpMoveCopy, []string{
		`\bmv\s+[^|;&]*%s`,
		`\bcp\s+[^|;&]*%s`,
		`\brsync\s+[^|;&]*%s`,
	}},
	{OpDelete, []string{
		`\brm\s+[^|;&]*%s`,
		`\bunlink\s+[^|;&]*%s`,
		`\brmdir\s+[^|;&]*%s`,
		`\bshred\s+[^|;&]*%s`,
		`\bfind\b[^|;&]*%s[^|;&]*-delete`,
	}},
	{OpPermission, []string{
		`\bchmod\s+[^|;&]*%s`,
		`\bchown\s+[^|;&]*%s`,
		`\bchgrp\s+[^|;&]*%s`,
		`\bsetfacl\s+[^|;&]*%s`,
		`\bchattr\s+[^|;&]*%s`,
	}},
	{OpTruncate, []string{
		`\btruncate\s+[^|;&]*%s`,
		`:\s*>\s*["']?%s`,
	}},
}

// windowsSyntax covers cmd.exe builtins and the PowerShell cmdlets
// plus their common aliases.
var windowsSyntax = []opSyntax{
	{OpWrite, []string{
		`(?:^|[^>])>\s*["']?%s`,
		`\b(?:Set-Content|Out-File)\b[^|;&]*%s`,
	}},
	{OpAppend, []string{
		`>>\s*["']?%s`,
		`\bAdd-Content\b[^|;&]*%s`,
	}},
	{OpEdit, []string{
		`\bnotepad\s+[^|;&]*%s`,
	}},
	{OpMoveCopy, []string{
		`\b(?:move|copy|xcopy|robocopy|Move-Item|Copy-Item|mi|cpi)\b[^|;&]*%s`,
	}},
	{OpDelete, []string{
		`\b(?:del|erase|rd|rmdir|Remove-Item|ri)\b[^|;&]*%s`,
	}},
	{OpPermission, []string{
		`\b(?:attrib|icacls|cacls|takeown)\b[^|;&]*%s`,
	}},
	{OpTruncate, []string{
		`\bClear-Content\b[^|;&]*%s`,
	}},
}

func syntaxFor(platform Platform) []opSyntax {
	if platform == Windows {
		return windowsSyntax
	}
	return posixSyntax
}

// Rule is one compiled command-text matcher for a path pattern.
type Rule struct {
	Op      Operation
	Pattern string // Source path pattern the rule protects.
	re      *regexp.Regexp
}

// Compile builds the command matchers recognizing the given operation
// classes applied to the path pattern on one platform. A template that
// fails to compile is skipped; Compile never fails outright.
func Compile(p pathmatch.Pattern, classes []Operation, platform Platform) []Rule {
	frag := pathFragment(p)
	if frag == "" {
		return nil
	}

	want := make(map[Operation]bool, len(classes))
	for _, c := range classes {
		want[c] = true
	}

	var rules []Rule
	for _, s := range syntaxFor(platform) {
		if !want[s.op] {
			continue
		}
		for _, expr := range s.exprs {
			re, err := regexp.Compile("(?i)" + fmt.Sprintf(expr, frag))
			if err != nil {
				continue
			}
			rules = append(rules, Rule{Op: s.op, Pattern: p.Source, re: re})
		}
	}
	return rules
}

// Bare compiles a "pattern appears anywhere in the command" matcher,
// used for zero-access paths where any reference at all is forbidden.
// Returns nil when the pattern cannot be compiled.
func Bare(p pathmatch.Pattern) *regexp.Regexp {
	frag := pathFragment(p)
	if frag == "" {
		return nil
	}
	re, err := regexp.Compile("(?i)" + frag)
	if err != nil {
		return nil
	}
	return re
}

// MatchAny scans the command against compiled rules in declared order.
// The first match wins and short-circuits.
func MatchAny(command string, rules []Rule) (Operation, bool) {
	for _, r := range rules {
		if r.re.MatchString(command) {
			return r.Op, true
		}
	}
	return "", false
}

// pathFragment builds the regex fragment recognizing the pattern in
// command text. Literal patterns are matched in both the expanded and
// the original textual form, since users type either. The trailing
// boundary keeps "/etc/hosts" from matching "/etc/hosts2" while still
// matching a deeper path like "/etc/hosts/extra".
func pathFragment(p pathmatch.Pattern) string {
	forms := make([]string, 0, 2)
	for _, f := range []string{p.Expanded, p.Source} {
		if f == "" {
			continue
		}
		var body string
		if p.Kind == pathmatch.Glob {
			body = pathmatch.TranslateGlob(f)
		} else {
			body = regexp.QuoteMeta(f)
		}
		if body != "" && !slices.Contains(forms, body) {
			forms = append(forms, body)
		}
	}
	if len(forms) == 0 {
		return ""
	}
	return `(?:` + strings.Join(forms, "|") + `)(?:[\s"'/\\;&|)]|$)`
}
