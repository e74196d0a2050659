package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeOrder(t *testing.T) {
	steps, err := Smoke("./pkg", "m1.rtm", "m2.rtm")
	require.NoError(t, err)
	require.Len(t, steps, 6)

	subcommands := make([]string, len(steps))
	for i, s := range steps {
		subcommands[i] = s.Subcommand
	}
	assert.Equal(t, []string{"reset", "new-account", "publish", "run", "run", "show-ledger"}, subcommands)

	assert.Equal(t, []string{"./pkg"}, steps[2].Args)
	assert.Equal(t, []string{"m1.rtm"}, steps[3].Args)
	assert.Equal(t, []string{"m2.rtm"}, steps[4].Args)

	for i, s := range steps {
		assert.Equal(t, 0, s.ExpectExit, "step %d", i)
	}
}

func TestSmokeRequiresPackagePath(t *testing.T) {
	_, err := Smoke("", "m1.rtm", "m2.rtm")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "package path is required")
}

func TestSmokeRequiresBothManifests(t *testing.T) {
	_, err := Smoke("./pkg", "m1.rtm", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "two manifest paths are required")
}
