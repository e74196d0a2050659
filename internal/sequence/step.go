// Package sequence drives an ordered series of external tool
// invocations: the canonical ledger smoke sequence or a custom one
// loaded from a scenario file.
//
// Execution is strictly sequential and blocking. Each step must finish
// before the next begins, and the first step whose exit status differs
// from the expected one aborts the remainder. The driver adds no error
// context of its own: the tool's diagnostic output is the failure
// detail surfaced to the user.
package sequence

import "fmt"

// Step is one invocation of the external tool's subcommand.
type Step struct {
	// Subcommand is the tool subcommand to invoke.
	Subcommand string

	// Args are the subcommand's fixed arguments. Caller-supplied extra
	// arguments are appended after these at execution time.
	Args []string

	// ExpectExit is the exit status that lets the sequence continue.
	// Almost always 0; scenarios may expect a documented failure code.
	ExpectExit int
}

// Smoke returns the canonical smoke sequence:
// reset, new-account, publish, run(m1), run(m2), show-ledger.
//
// The order is fixed. packagePath is the package to publish; manifest1
// and manifest2 are the two transaction manifest files to run.
func Smoke(packagePath, manifest1, manifest2 string) ([]Step, error) {
	if packagePath == "" {
		return nil, fmt.Errorf("package path is required")
	}
	if manifest1 == "" || manifest2 == "" {
		return nil, fmt.Errorf("two manifest paths are required")
	}

	return []Step{
		{Subcommand: "reset"},
		{Subcommand: "new-account"},
		{Subcommand: "publish", Args: []string{packagePath}},
		{Subcommand: "run", Args: []string{manifest1}},
		{Subcommand: "run", Args: []string{manifest2}},
		{Subcommand: "show-ledger"},
	}, nil
}
