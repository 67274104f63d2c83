// hookguard is a PreToolUse hook for AI coding assistants. It reads
// the tool request as JSON on stdin, evaluates it against the merged
// rule files, and reports the decision through its exit code:
//
//   - 0: allow (or ask, when the host handles confirmation itself)
//   - 2: block, with the reason on stderr
//
// With --format json it instead prints a permission payload
// {"decision": "allow|ask|block", "reason": "..."} on stdout and
// always exits 0, for hosts that consume structured decisions.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var version = "dev"

// log defaults to a no-op logger so helpers stay safe before cobra's
// PersistentPreRun has configured it.
var log = zerolog.Nop()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		// Exit code 2 is the block signal; anything else is an
		// operational failure, which must not masquerade as a block.
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "hookguard",
		Short:         "Pre-execution policy firewall for AI coding assistants",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(verbose)
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newCheckCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the hookguard version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "hookguard", version)
		},
	}
}

// setupLogging routes diagnostics to stderr so stdout stays reserved
// for the JSON decision payload.
func setupLogging(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
