package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerlab/simsmoke/internal/journal"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Journal  string
	RunToken string
	Output   bool // include captured tool output
}

// RunTrace holds the complete trace output for one run.
type RunTrace struct {
	Run   journal.Run         `json:"run"`
	Steps []journal.StepEntry `json:"steps"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the step timeline of a recorded run",
		Long: `Show the recorded step timeline for a run: each invocation in
order with its arguments and exit status, and optionally the captured
tool output.

Examples:
  simsmoke trace --journal ./runs.db --run 0190c3a2-...
  simsmoke trace --journal ./runs.db --run 0190c3a2-... --output
  simsmoke trace --journal ./runs.db --run 0190c3a2-... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Journal, "journal", "", "path to SQLite run journal (required)")
	_ = cmd.MarkFlagRequired("journal")
	cmd.Flags().StringVar(&opts.RunToken, "run", "", "run token to trace (required)")
	_ = cmd.MarkFlagRequired("run")
	cmd.Flags().BoolVar(&opts.Output, "output", false, "include captured stdout/stderr")

	return cmd
}

func runTrace(opts *TraceOptions, cmd *cobra.Command) error {
	ctx := context.Background()

	j, err := journal.Open(opts.Journal)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open journal", err)
	}
	defer j.Close()

	run, err := j.GetRun(ctx, opts.RunToken)
	if errors.Is(err, journal.ErrRunNotFound) {
		return WrapExitError(ExitCommandError, fmt.Sprintf("run %q not found", opts.RunToken), err)
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}

	steps, err := j.ReplayRun(ctx, opts.RunToken)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to replay run", err)
	}

	if opts.Format == "json" {
		formatter := &OutputFormatter{Format: opts.Format, Writer: cmd.OutOrStdout()}
		return formatter.Success(RunTrace{Run: *run, Steps: steps})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (%s, tool=%s)\n", run.Token, run.Scenario, run.Tool)
	for _, s := range steps {
		line := s.Subcommand
		if len(s.Args) > 0 {
			line += " " + strings.Join(s.Args, " ")
		}
		fmt.Fprintf(out, "  [%d] %s -> exit %d\n", s.Index, line, s.ExitCode)
		if opts.Output {
			printIndented(out, "stdout", s.Stdout)
			printIndented(out, "stderr", s.Stderr)
		}
	}
	return nil
}

func printIndented(out io.Writer, label, text string) {
	if text == "" {
		return
	}
	fmt.Fprintf(out, "      %s:\n", label)
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		fmt.Fprintf(out, "        %s\n", line)
	}
}
