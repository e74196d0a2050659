package sequence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlab/simsmoke/internal/testutil"
)

// capturingRecorder collects records instead of writing to SQLite.
type capturingRecorder struct {
	runs  []RunRecord
	steps []StepRecord
}

func (r *capturingRecorder) BeginRun(_ context.Context, run RunRecord) error {
	r.runs = append(r.runs, run)
	return nil
}

func (r *capturingRecorder) RecordStep(_ context.Context, rec StepRecord) error {
	r.steps = append(r.steps, rec)
	return nil
}

func passing(n int) []testutil.ScriptedOutcome {
	outcomes := make([]testutil.ScriptedOutcome, n)
	return outcomes
}

func smokeSteps(t *testing.T) []Step {
	t.Helper()
	steps, err := Smoke("./pkg", "m1.rtm", "m2.rtm")
	require.NoError(t, err)
	return steps
}

func TestExecuteAllStepsPass(t *testing.T) {
	runner := testutil.NewScriptedRunner(passing(6)...)
	eng := New(runner, nil, testutil.NewFixedTokenGenerator("run-1"), nil)

	result, err := eng.Execute(context.Background(), "smoke", smokeSteps(t), RunOptions{Tool: "resim"})
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, -1, result.FailedStep)
	assert.Equal(t, "run-1", result.RunToken)
	assert.Equal(t, 6, runner.CallCount())
	assert.Len(t, result.Trace, 12)

	// Fixed order: reset, new-account, publish, run, run, show-ledger.
	want := []string{"reset", "new-account", "publish", "run", "run", "show-ledger"}
	for i, call := range runner.Calls {
		assert.Equal(t, "resim", call.Tool)
		assert.Equal(t, want[i], call.Subcommand, "call %d", i)
	}
}

func TestExecuteForwardsExtraArgsToEveryInvocation(t *testing.T) {
	runner := testutil.NewScriptedRunner(passing(6)...)
	eng := New(runner, nil, nil, nil)

	extra := []string{"--trace", "--data-dir", "/tmp/ledger"}
	_, err := eng.Execute(context.Background(), "smoke", smokeSteps(t), RunOptions{
		Tool:      "resim",
		ExtraArgs: extra,
	})
	require.NoError(t, err)

	for i, call := range runner.Calls {
		assert.Equal(t, extra, call.ExtraArgs, "call %d", i)
	}
}

func TestExecuteStopsAtFirstFailure(t *testing.T) {
	// publish (third step) fails; run and show-ledger never execute.
	runner := testutil.NewScriptedRunner(
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{ExitCode: 1, Stderr: "package not found\n"},
	)
	eng := New(runner, nil, nil, nil)

	result, err := eng.Execute(context.Background(), "smoke", smokeSteps(t), RunOptions{Tool: "resim"})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, 2, result.FailedStep)
	assert.Equal(t, 1, result.ExitCode)
	assert.Equal(t, 3, runner.CallCount())
	assert.Len(t, result.Trace, 6)
}

func TestExecuteExpectedNonZeroContinues(t *testing.T) {
	steps := []Step{
		{Subcommand: "publish", Args: []string{"./broken"}, ExpectExit: 2},
		{Subcommand: "show-ledger"},
	}
	runner := testutil.NewScriptedRunner(
		testutil.ScriptedOutcome{ExitCode: 2},
		testutil.ScriptedOutcome{},
	)
	eng := New(runner, nil, nil, nil)

	result, err := eng.Execute(context.Background(), "expected-failure", steps, RunOptions{Tool: "resim"})
	require.NoError(t, err)

	assert.True(t, result.Pass)
	assert.Equal(t, 2, runner.CallCount())
}

func TestExecuteUnexpectedSuccessFails(t *testing.T) {
	steps := []Step{
		{Subcommand: "publish", Args: []string{"./broken"}, ExpectExit: 2},
		{Subcommand: "show-ledger"},
	}
	runner := testutil.NewScriptedRunner(testutil.ScriptedOutcome{ExitCode: 0})
	eng := New(runner, nil, nil, nil)

	result, err := eng.Execute(context.Background(), "expected-failure", steps, RunOptions{Tool: "resim"})
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.Equal(t, 0, result.FailedStep)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t, 1, runner.CallCount())
}

func TestExecuteRunnerErrorAborts(t *testing.T) {
	startErr := errors.New("exec: not found")
	runner := testutil.NewScriptedRunner(
		testutil.ScriptedOutcome{ExitCode: 127, Err: startErr},
	)
	eng := New(runner, nil, nil, nil)

	result, err := eng.Execute(context.Background(), "smoke", smokeSteps(t), RunOptions{Tool: "nope"})
	require.Error(t, err)
	assert.ErrorIs(t, err, startErr)

	assert.False(t, result.Pass)
	assert.Equal(t, 0, result.FailedStep)
	assert.Equal(t, 127, result.ExitCode)
	assert.Equal(t, 1, runner.CallCount())
}

func TestExecuteRecordsRunAndSteps(t *testing.T) {
	runner := testutil.NewScriptedRunner(
		testutil.ScriptedOutcome{Stdout: "reset ok\n"},
		testutil.ScriptedOutcome{ExitCode: 1, Stderr: "boom\n"},
	)
	rec := &capturingRecorder{}
	eng := New(runner, rec, testutil.NewFixedTokenGenerator("run-7"), nil)

	steps := []Step{
		{Subcommand: "reset"},
		{Subcommand: "new-account"},
	}
	result, err := eng.Execute(context.Background(), "partial", steps, RunOptions{
		Tool:      "resim",
		ExtraArgs: []string{"--trace"},
	})
	require.NoError(t, err)
	assert.False(t, result.Pass)

	require.Len(t, rec.runs, 1)
	assert.Equal(t, RunRecord{Token: "run-7", Scenario: "partial", Tool: "resim"}, rec.runs[0])

	// Both executed steps are recorded, including the failing one.
	require.Len(t, rec.steps, 2)

	first := rec.steps[0]
	assert.NotEmpty(t, first.ID)
	assert.NotEmpty(t, first.OutcomeID)
	assert.Equal(t, "run-7", first.RunToken)
	assert.Equal(t, 0, first.Index)
	assert.Equal(t, "reset", first.Subcommand)
	assert.Equal(t, []string{"--trace"}, first.Args)
	assert.Equal(t, 0, first.ExitCode)
	assert.Equal(t, "reset ok\n", string(first.Stdout))
	assert.Equal(t, int64(1), first.InvokeSeq)
	assert.Equal(t, int64(2), first.OutcomeSeq)

	second := rec.steps[1]
	assert.Equal(t, 1, second.Index)
	assert.Equal(t, 1, second.ExitCode)
	assert.Equal(t, "boom\n", string(second.Stderr))
	assert.NotEqual(t, first.ID, second.ID)
}

func TestExecuteGeneratesTokenWhenUnset(t *testing.T) {
	runner := testutil.NewScriptedRunner(passing(1)...)
	eng := New(runner, nil, testutil.NewFixedTokenGenerator("generated-1"), nil)

	result, err := eng.Execute(context.Background(), "one", []Step{{Subcommand: "reset"}}, RunOptions{Tool: "resim"})
	require.NoError(t, err)
	assert.Equal(t, "generated-1", result.RunToken)
}

func TestExecuteFixedTokenWins(t *testing.T) {
	runner := testutil.NewScriptedRunner(passing(1)...)
	eng := New(runner, nil, testutil.NewFixedTokenGenerator("unused"), nil)

	result, err := eng.Execute(context.Background(), "one", []Step{{Subcommand: "reset"}}, RunOptions{
		Tool:     "resim",
		RunToken: "pinned",
	})
	require.NoError(t, err)
	assert.Equal(t, "pinned", result.RunToken)
}

func TestExecuteEmptySequence(t *testing.T) {
	eng := New(testutil.NewScriptedRunner(), nil, nil, nil)
	_, err := eng.Execute(context.Background(), "empty", nil, RunOptions{Tool: "resim"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no steps")
}
