// Package guard implements a pre-execution policy firewall for AI
// coding assistants.
//
// Before the host executes a shell command or a file edit, it asks the
// engine for a [Decision]: Allow, Ask (confirm with the user), or Block.
// Rules are layered: path-independent generic rules run first, then
// zero-access paths (may not even be referenced), read-only paths (any
// modifying operation is blocked), and no-delete paths (only
// deletion-class operations are blocked).
//
// # Quick Start
//
//	cfg := guard.Config{ReadOnlyPaths: []string{"/etc/hosts"}}
//	d := guard.EvaluateCommand("sudo sed -i 's/a/b/' /etc/hosts", cfg, guard.Posix)
//	if d.Action == guard.Block {
//	    fmt.Println(d.Reason)
//	}
//
// Matching is heuristic regex scanning of the command text, not a shell
// parse: quoting, variable indirection, and command substitution can
// evade a match. The engine is a best-effort firewall, not a sandbox.
//
// # Sub-packages
//
//   - [pathmatch] classifies, expands, and matches path patterns.
//   - [cmdpattern] compiles per-platform operation-class matchers.
//   - [ruleio] discovers and parses rule files into a Config.
package guard
