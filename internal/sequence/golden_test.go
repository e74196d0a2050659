package sequence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerlab/simsmoke/internal/testutil"
)

// Golden traces pin the exact event order and seq numbering of the
// canonical smoke sequence. Regenerate with:
//
//	go test ./internal/sequence -update

func TestGoldenSmokePass(t *testing.T) {
	runner := testutil.NewScriptedRunner(
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{},
	)
	eng := New(runner, nil, nil, nil)

	result, err := eng.Execute(context.Background(), "smoke", smokeSteps(t), RunOptions{
		Tool:     "resim",
		RunToken: "golden-run-1",
	})
	require.NoError(t, err)
	require.True(t, result.Pass)

	require.NoError(t, AssertGolden(t, "smoke-pass", result))
}

func TestGoldenSmokePublishFails(t *testing.T) {
	runner := testutil.NewScriptedRunner(
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{},
		testutil.ScriptedOutcome{ExitCode: 1},
	)
	eng := New(runner, nil, nil, nil)

	result, err := eng.Execute(context.Background(), "smoke", smokeSteps(t), RunOptions{
		Tool:     "resim",
		RunToken: "golden-run-2",
	})
	require.NoError(t, err)
	require.False(t, result.Pass)

	require.NoError(t, AssertGolden(t, "smoke-publish-fails", result))
}
