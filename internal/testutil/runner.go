// Package testutil provides deterministic helpers for tests: a
// scripted tool runner and fixed run-token generators.
package testutil

import (
	"context"
	"sync"

	"github.com/ledgerlab/simsmoke/internal/toolexec"
)

// ScriptedOutcome is one predetermined result for a ScriptedRunner.
type ScriptedOutcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

// ScriptedRunner returns predetermined outcomes instead of invoking a
// real external tool. It records every invocation so tests can assert
// on the exact subcommands and forwarded arguments.
//
// Thread-safety: safe for concurrent use via internal mutex, though the
// engine only ever calls it sequentially.
type ScriptedRunner struct {
	mu       sync.Mutex
	outcomes []ScriptedOutcome
	idx      int

	// Calls holds every invocation in order.
	Calls []toolexec.Invocation
}

// NewScriptedRunner creates a runner that replays outcomes in order.
//
// Panics when more invocations arrive than outcomes were scripted.
// This is a fail-fast approach to catch test misconfiguration.
func NewScriptedRunner(outcomes ...ScriptedOutcome) *ScriptedRunner {
	return &ScriptedRunner{outcomes: outcomes}
}

// Run implements toolexec.Runner.
func (r *ScriptedRunner) Run(_ context.Context, inv toolexec.Invocation) (toolexec.Outcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.idx >= len(r.outcomes) {
		panic("ScriptedRunner: all outcomes exhausted")
	}
	out := r.outcomes[r.idx]
	r.idx++
	r.Calls = append(r.Calls, inv)

	return toolexec.Outcome{
		ExitCode: out.ExitCode,
		Stdout:   []byte(out.Stdout),
		Stderr:   []byte(out.Stderr),
	}, out.Err
}

// CallCount returns how many invocations the runner has seen.
func (r *ScriptedRunner) CallCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Calls)
}
