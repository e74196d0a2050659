package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerlab/simsmoke/internal/scenario"
)

// SmokeOptions holds flags for the smoke command.
type SmokeOptions struct {
	*RootOptions
	runFlags
}

// NewSmokeCommand creates the smoke command.
func NewSmokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SmokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "smoke <package-dir> <manifest1> <manifest2> [-- tool-args...]",
		Short: "Run the canonical smoke sequence",
		Long: `Run the canonical smoke sequence against the external tool:

  reset, new-account, publish <package-dir>,
  run <manifest1>, run <manifest2>, show-ledger

Arguments after "--" are forwarded verbatim to every invocation.
The sequence stops at the first invocation that exits non-zero, and
simsmoke exits with that invocation's status.

Examples:
  simsmoke smoke ./examples/hello-world m1.rtm m2.rtm
  simsmoke smoke ./pkg m1.rtm m2.rtm --journal ./runs.db
  simsmoke smoke ./pkg m1.rtm m2.rtm -- --trace`,
		Args:          validateSmokeArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSmoke(opts, args, cmd)
		},
	}

	opts.register(cmd)

	return cmd
}

// validateSmokeArgs requires exactly three positional arguments before
// the "--" separator; everything after it is forwarded to the tool.
func validateSmokeArgs(cmd *cobra.Command, args []string) error {
	positional := len(args)
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		positional = at
	}
	if positional != 3 {
		return fmt.Errorf("accepts 3 arg(s) before --, received %d", positional)
	}
	return nil
}

func runSmoke(opts *SmokeOptions, args []string, cmd *cobra.Command) error {
	positional := args
	var extra []string
	if at := cmd.ArgsLenAtDash(); at >= 0 {
		positional = args[:at]
		extra = args[at:]
	}

	scen, err := scenario.Smoke(positional[0], positional[1], positional[2])
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid smoke arguments", err)
	}

	return executeScenario(opts.RootOptions, &opts.runFlags, scen, extra, cmd)
}
