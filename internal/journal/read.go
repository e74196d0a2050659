package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Run is a recorded driver run.
type Run struct {
	Token    string `json:"token"`
	Scenario string `json:"scenario"`
	Tool     string `json:"tool"`
	Steps    int    `json:"steps"`
}

// StepEntry is a recorded step, ready for display.
type StepEntry struct {
	ID         string   `json:"id"`
	Index      int      `json:"index"`
	Subcommand string   `json:"subcommand"`
	Args       []string `json:"args"`
	ExitCode   int      `json:"exit_code"`
	Stdout     string   `json:"stdout,omitempty"`
	Stderr     string   `json:"stderr,omitempty"`
	InvokeSeq  int64    `json:"invoke_seq"`
	OutcomeSeq int64    `json:"outcome_seq"`
}

// ErrRunNotFound is returned when a run token has no journal record.
var ErrRunNotFound = errors.New("run not found")

// ListRuns returns all recorded runs with their step counts.
// UUIDv7 tokens sort by creation time, so token order is run order.
func (j *Journal) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT r.token, r.scenario, r.tool, COUNT(s.id)
		FROM runs r
		LEFT JOIN steps s ON s.run_token = r.token
		GROUP BY r.token, r.scenario, r.tool
		ORDER BY r.token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.Token, &r.Scenario, &r.Tool, &r.Steps); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	return runs, nil
}

// GetRun returns a single run by token.
func (j *Journal) GetRun(ctx context.Context, token string) (*Run, error) {
	var r Run
	err := j.db.QueryRowContext(ctx, `
		SELECT r.token, r.scenario, r.tool, COUNT(s.id)
		FROM runs r
		LEFT JOIN steps s ON s.run_token = r.token
		WHERE r.token = ?
		GROUP BY r.token, r.scenario, r.tool
	`, token).Scan(&r.Token, &r.Scenario, &r.Tool, &r.Steps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	return &r, nil
}

// ReplayRun returns the steps of a run in execution order.
// Ordered by `invoke_seq ASC, id ASC` for deterministic results.
func (j *Journal) ReplayRun(ctx context.Context, token string) ([]StepEntry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, idx, subcommand, args, exit_code, stdout, stderr, invoke_seq, outcome_seq
		FROM steps
		WHERE run_token = ?
		ORDER BY invoke_seq ASC, id ASC
	`, token)
	if err != nil {
		return nil, fmt.Errorf("replay run: %w", err)
	}
	defer rows.Close()

	var entries []StepEntry
	for rows.Next() {
		var e StepEntry
		var argsJSON string
		var stdout, stderr []byte
		if err := rows.Scan(&e.ID, &e.Index, &e.Subcommand, &argsJSON, &e.ExitCode, &stdout, &stderr, &e.InvokeSeq, &e.OutcomeSeq); err != nil {
			return nil, fmt.Errorf("replay run: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &e.Args); err != nil {
			return nil, fmt.Errorf("replay run: corrupt args for step %s: %w", e.ID, err)
		}
		e.Stdout = string(stdout)
		e.Stderr = string(stderr)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("replay run: %w", err)
	}

	return entries, nil
}
