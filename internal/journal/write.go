package journal

import (
	"context"
	"fmt"

	"github.com/ledgerlab/simsmoke/internal/canonical"
	"github.com/ledgerlab/simsmoke/internal/sequence"
)

// BeginRun inserts a run record. Implements sequence.Recorder.
// Re-recording the same token is idempotent.
func (j *Journal) BeginRun(ctx context.Context, run sequence.RunRecord) error {
	if run.Token == "" {
		return fmt.Errorf("begin run: token is required")
	}

	_, err := j.db.ExecContext(ctx, `
		INSERT INTO runs (token, scenario, tool)
		VALUES (?, ?, ?)
		ON CONFLICT(token) DO NOTHING
	`,
		run.Token,
		run.Scenario,
		run.Tool,
	)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}

	return nil
}

// RecordStep inserts a step record. Implements sequence.Recorder.
//
// The step's arguments are serialized to canonical JSON so the stored
// row hashes back to the same content-addressed ID. Duplicate IDs are
// silently ignored (ON CONFLICT DO NOTHING); other constraint
// violations still return errors.
func (j *Journal) RecordStep(ctx context.Context, rec sequence.StepRecord) error {
	argsJSON, err := canonical.Marshal(rec.Args)
	if err != nil {
		return fmt.Errorf("record step: %w", err)
	}

	// Nil slices would insert NULL into NOT NULL columns.
	stdout := rec.Stdout
	if stdout == nil {
		stdout = []byte{}
	}
	stderr := rec.Stderr
	if stderr == nil {
		stderr = []byte{}
	}

	_, err = j.db.ExecContext(ctx, `
		INSERT INTO steps
		(id, outcome_id, run_token, idx, subcommand, args, exit_code, stdout, stderr, invoke_seq, outcome_seq)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.OutcomeID,
		rec.RunToken,
		rec.Index,
		rec.Subcommand,
		string(argsJSON),
		rec.ExitCode,
		stdout,
		stderr,
		rec.InvokeSeq,
		rec.OutcomeSeq,
	)
	if err != nil {
		return fmt.Errorf("record step: %w", err)
	}

	return nil
}
