package sequence

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/ledgerlab/simsmoke/internal/canonical"
	"github.com/ledgerlab/simsmoke/internal/toolexec"
)

// RunRecord describes a run for the journal.
type RunRecord struct {
	Token    string
	Scenario string
	Tool     string
}

// StepRecord describes one executed step for the journal.
// IDs are content-addressed so duplicate writes are idempotent.
type StepRecord struct {
	ID         string
	OutcomeID  string
	RunToken   string
	Index      int
	Subcommand string
	Args       []string
	ExitCode   int
	Stdout     []byte
	Stderr     []byte
	InvokeSeq  int64
	OutcomeSeq int64
}

// Recorder persists run and step records.
// A nil Recorder on the Engine disables journaling.
type Recorder interface {
	BeginRun(ctx context.Context, run RunRecord) error
	RecordStep(ctx context.Context, rec StepRecord) error
}

// RunOptions configures a single sequence execution.
type RunOptions struct {
	// Tool is the external executable to invoke.
	Tool string

	// ExtraArgs are forwarded verbatim to every invocation,
	// appended after each step's fixed arguments.
	ExtraArgs []string

	// Dir is the working directory for every invocation.
	Dir string

	// RunToken fixes the run token. Empty means generate one.
	RunToken string
}

// Engine executes sequences strictly sequentially through a Runner.
type Engine struct {
	runner   toolexec.Runner
	recorder Recorder
	tokens   RunTokenGenerator
	clock    *Clock
	logger   *slog.Logger
}

// New creates an engine. recorder may be nil to disable journaling;
// a nil tokens generator defaults to UUIDv7; a nil logger discards.
func New(runner toolexec.Runner, recorder Recorder, tokens RunTokenGenerator, logger *slog.Logger) *Engine {
	if tokens == nil {
		tokens = UUIDv7Generator{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Engine{
		runner:   runner,
		recorder: recorder,
		tokens:   tokens,
		clock:    NewClock(),
		logger:   logger,
	}
}

// Execute runs the steps in order, stopping at the first step whose
// exit status differs from its expected one.
//
// A failing step is not an error: the failure is reported through the
// Result (Pass=false, ExitCode=<step's status>). Execute returns a
// non-nil error only when a step could not be started, the context was
// cancelled, or the journal rejected a write. In every case the Result
// reflects what actually ran.
func (e *Engine) Execute(ctx context.Context, scenario string, steps []Step, opts RunOptions) (*Result, error) {
	if len(steps) == 0 {
		return nil, fmt.Errorf("sequence %q has no steps", scenario)
	}

	token := opts.RunToken
	if token == "" {
		token = e.tokens.Generate()
	}
	result := NewResult(scenario, token)

	if e.recorder != nil {
		run := RunRecord{Token: token, Scenario: scenario, Tool: opts.Tool}
		if err := e.recorder.BeginRun(ctx, run); err != nil {
			return result, fmt.Errorf("failed to record run: %w", err)
		}
	}

	for i, step := range steps {
		args := append(append([]string{}, step.Args...), opts.ExtraArgs...)

		invSeq := e.clock.Next()
		stepID, err := canonical.StepID(token, step.Subcommand, args, invSeq)
		if err != nil {
			return result, fmt.Errorf("step %d: failed to compute step ID: %w", i, err)
		}
		result.AddInvocation(step.Subcommand, args, invSeq)

		inv := toolexec.Invocation{
			Tool:       opts.Tool,
			Subcommand: step.Subcommand,
			Args:       step.Args,
			ExtraArgs:  opts.ExtraArgs,
			Dir:        opts.Dir,
		}
		e.logger.Info("step starting",
			"step", i,
			"command", inv.String(),
			"run_token", token,
		)

		outcome, runErr := e.runner.Run(ctx, inv)

		outcomeSeq := e.clock.Next()
		result.AddOutcome(outcome.ExitCode, outcomeSeq)

		if e.recorder != nil {
			outcomeID, err := canonical.OutcomeID(stepID, outcome.ExitCode, outcomeSeq)
			if err != nil {
				return result, fmt.Errorf("step %d: failed to compute outcome ID: %w", i, err)
			}
			rec := StepRecord{
				ID:         stepID,
				OutcomeID:  outcomeID,
				RunToken:   token,
				Index:      i,
				Subcommand: step.Subcommand,
				Args:       args,
				ExitCode:   outcome.ExitCode,
				Stdout:     outcome.Stdout,
				Stderr:     outcome.Stderr,
				InvokeSeq:  invSeq,
				OutcomeSeq: outcomeSeq,
			}
			if err := e.recorder.RecordStep(ctx, rec); err != nil {
				return result, fmt.Errorf("step %d: failed to record step: %w", i, err)
			}
		}

		if runErr != nil {
			result.Fail(i, outcome.ExitCode)
			return result, fmt.Errorf("step %d (%s): %w", i, step.Subcommand, runErr)
		}

		if outcome.ExitCode != step.ExpectExit {
			// First failure aborts the remainder. No retries, no
			// recovery; the tool's own output is the diagnostic.
			e.logger.Info("step failed, aborting sequence",
				"step", i,
				"subcommand", step.Subcommand,
				"exit_code", outcome.ExitCode,
				"expected", step.ExpectExit,
			)
			result.Fail(i, outcome.ExitCode)
			return result, nil
		}

		e.logger.Info("step completed",
			"step", i,
			"subcommand", step.Subcommand,
			"exit_code", outcome.ExitCode,
		)
	}

	return result, nil
}
