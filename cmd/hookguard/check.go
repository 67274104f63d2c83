package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	guard "github.com/armatrix/hookguard"
	"github.com/armatrix/hookguard/ruleio"
)

// hookRequest is the PreToolUse payload the host writes to stdin.
// Bash-style tools carry a command; edit-style tools carry a file
// path. The flat fields are a fallback for hosts (and tests) that
// send an unnested request.
type hookRequest struct {
	ToolName  string `json:"tool_name"`
	ToolInput struct {
		Command  string `json:"command"`
		FilePath string `json:"file_path"`
	} `json:"tool_input"`
	Command  string `json:"command"`
	FilePath string `json:"file_path"`
}

// decisionPayload is the structured output for --format json.
type decisionPayload struct {
	Decision string `json:"decision"`
	Reason   string `json:"reason,omitempty"`
}

// exitError carries a process exit code through cobra's error return.
type exitError struct{ code int }

func (e *exitError) Error() string { return fmt.Sprintf("exit %d", e.code) }

func newCheckCmd() *cobra.Command {
	var (
		configPath   string
		projectDir   string
		platformName string
		format       string
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate the tool request on stdin and report a decision",
		RunE: func(cmd *cobra.Command, args []string) error {
			platform := guard.ParsePlatform(platformName)

			cfg, err := loadConfig(configPath, projectDir, platform)
			if err != nil {
				return err
			}

			req, err := readRequest(cmd.InOrStdin())
			if err != nil {
				return err
			}

			d := evaluate(req, cfg, platform)
			return report(cmd, d, format)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "rule file (overrides discovery)")
	cmd.Flags().StringVarP(&projectDir, "project", "p", "", "project directory for rule discovery")
	cmd.Flags().StringVar(&platformName, "platform", "", "rule platform: posix or windows (default: current)")
	cmd.Flags().StringVarP(&format, "format", "f", "exit", "output format: exit or json")
	return cmd
}

func loadConfig(configPath, projectDir string, platform guard.Platform) (guard.Config, error) {
	if configPath != "" {
		cfg, err := ruleio.LoadPartial(configPath, platform)
		if err != nil {
			return guard.Config{}, err
		}
		warnInvalidRules(cfg)
		return cfg, nil
	}

	cfg, found, err := ruleio.Load(projectDir, platform)
	if err != nil {
		return guard.Config{}, err
	}
	if !found {
		// Fail-open is deliberate, but never silent.
		log.Warn().Msg("no rule file found; allowing everything")
	}
	warnInvalidRules(cfg)
	return cfg, nil
}

// warnInvalidRules surfaces rules the engine will silently skip.
func warnInvalidRules(cfg guard.Config) {
	for _, err := range cfg.Validate() {
		log.Warn().Err(err).Msg("skipping malformed rule")
	}
}

func readRequest(in io.Reader) (hookRequest, error) {
	var req hookRequest
	if err := json.NewDecoder(in).Decode(&req); err != nil {
		return req, fmt.Errorf("parse hook request: %w", err)
	}
	if req.ToolInput.Command == "" {
		req.ToolInput.Command = req.Command
	}
	if req.ToolInput.FilePath == "" {
		req.ToolInput.FilePath = req.FilePath
	}
	return req, nil
}

// evaluate routes the request to the right engine entry point: file
// paths get the direct path check, everything else is treated as
// command text.
func evaluate(req hookRequest, cfg guard.Config, platform guard.Platform) guard.Decision {
	engine := guard.NewEngine(cfg, platform)
	if req.ToolInput.FilePath != "" && req.ToolInput.Command == "" {
		return engine.EvaluatePathEdit(req.ToolInput.FilePath)
	}
	return engine.EvaluateCommand(req.ToolInput.Command)
}

func report(cmd *cobra.Command, d guard.Decision, format string) error {
	if format == "json" {
		payload := decisionPayload{Decision: d.Action.String(), Reason: d.Reason}
		return json.NewEncoder(cmd.OutOrStdout()).Encode(payload)
	}

	switch d.Action {
	case guard.Block:
		fmt.Fprintf(os.Stderr, "BLOCKED: %s\n", d.Reason)
		return &exitError{code: 2}
	case guard.Ask:
		// Exit 0: the host prompts the user itself. The reason still
		// goes to stderr so interactive runs see why.
		fmt.Fprintf(os.Stderr, "CONFIRM: %s\n", d.Reason)
	}
	return nil
}
