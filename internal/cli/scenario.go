package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlab/simsmoke/internal/scenario"
)

// ScenarioOptions holds flags for the scenario command.
type ScenarioOptions struct {
	*RootOptions
	runFlags
}

// NewScenarioCommand creates the scenario command.
func NewScenarioCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScenarioOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "scenario <file.yaml> [-- tool-args...]",
		Short: "Run a scenario file",
		Long: `Run a custom invocation sequence described by a YAML scenario file.

A scenario names its steps, their arguments, and optionally the exit
status each step is expected to produce. Execution is strictly
sequential and stops at the first step with an unexpected status.

Examples:
  simsmoke scenario ./scenarios/publish-twice.yaml
  simsmoke scenario ./scenarios/smoke.yaml --journal ./runs.db -- --trace`,
		Args:          validateScenarioArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(opts, args, cmd)
		},
	}

	opts.register(cmd)

	return cmd
}

func validateScenarioArgs(cmd *cobra.Command, args []string) error {
	positional := len(args)
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		positional = at
	}
	if positional != 1 {
		return fmt.Errorf("accepts 1 arg(s) before --, received %d", positional)
	}
	return nil
}

func runScenario(opts *ScenarioOptions, args []string, cmd *cobra.Command) error {
	path := args[0]
	var extra []string
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		extra = args[at:]
	}

	scen, err := scenario.Load(path)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}

	return executeScenario(opts.RootOptions, &opts.runFlags, scen, extra, cmd)
}
