package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ledgerlab/simsmoke/internal/journal"
	"github.com/ledgerlab/simsmoke/internal/scenario"
	"github.com/ledgerlab/simsmoke/internal/sequence"
	"github.com/ledgerlab/simsmoke/internal/toolexec"
)

// runFlags are the execution flags shared by smoke and scenario.
type runFlags struct {
	Tool    string
	Journal string
	DryRun  bool
}

func (f *runFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Tool, "tool", "", "external simulator executable (default from config)")
	cmd.Flags().StringVar(&f.Journal, "journal", "", "path to SQLite run journal (default from config)")
	cmd.Flags().BoolVar(&f.DryRun, "dry-run", false, "print the invocations without executing")
}

// executeScenario runs a scenario through the sequence engine and
// renders the result. cliExtra holds arguments the caller placed after
// "--"; they are forwarded verbatim to every invocation.
func executeScenario(opts *RootOptions, flags *runFlags, scen *scenario.Scenario, cliExtra []string, cmd *cobra.Command) error {
	logLevel := slog.LevelWarn
	if opts.Verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: logLevel,
	}))

	// Resolution order: flag, scenario file, config/default.
	tool := flags.Tool
	if tool == "" {
		tool = scen.Tool
	}
	if tool == "" {
		tool = opts.Config.Tool
	}

	// Config extras first, then the scenario's, then the command line.
	extra := append([]string{}, opts.Config.ExtraArgs...)
	extra = append(extra, scen.ExtraArgs...)
	extra = append(extra, cliExtra...)

	runOpts := sequence.RunOptions{
		Tool:      tool,
		ExtraArgs: extra,
		RunToken:  scen.RunToken,
	}
	steps := scen.SequenceSteps()

	if flags.DryRun {
		for _, step := range steps {
			argv := append(append([]string{tool, step.Subcommand}, step.Args...), extra...)
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(argv, " "))
		}
		return nil
	}

	var recorder sequence.Recorder
	journalPath := flags.Journal
	if journalPath == "" {
		journalPath = opts.Config.Journal
	}
	if journalPath != "" {
		j, err := journal.Open(journalPath)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to open journal", err)
		}
		defer func() {
			if closeErr := j.Close(); closeErr != nil {
				logger.Error("error closing journal", "error", closeErr)
			}
		}()
		recorder = j
	}

	// Ctrl-C kills the running tool and aborts the sequence.
	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("received signal, aborting", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	runner := &toolexec.ExecRunner{
		Stdout: cmd.OutOrStdout(),
		Stderr: cmd.ErrOrStderr(),
	}
	eng := sequence.New(runner, recorder, nil, logger)

	result, err := eng.Execute(ctx, scen.Name, steps, runOpts)
	if err != nil {
		code := ExitCommandError
		if result != nil && result.ExitCode != 0 {
			code = result.ExitCode
		}
		return WrapExitError(code, "sequence aborted", err)
	}

	return renderResult(opts, result, cmd)
}

func renderResult(opts *RootOptions, result *sequence.Result, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	if result.Pass {
		if opts.Format == "json" {
			return formatter.Success(result)
		}
		return formatter.Success(fmt.Sprintf("%s: %d steps passed (run %s)",
			result.Scenario, len(result.Trace)/2, result.RunToken))
	}

	code := result.ExitCode
	if code == 0 {
		// A step can fail by exiting 0 when a non-zero status was
		// expected; the driver still has to exit non-zero.
		code = ExitFailure
	}

	if err := formatter.Error("E001",
		fmt.Sprintf("%s: step %d exited with status %d",
			result.Scenario, result.FailedStep, result.ExitCode),
		result); err != nil {
		return err
	}
	return NewExitError(code, fmt.Sprintf("step %d failed", result.FailedStep))
}
