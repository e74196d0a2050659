// Package scenario defines the YAML format describing a sequence of
// external tool invocations, plus the built-in canonical smoke
// scenario.
package scenario

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ledgerlab/simsmoke/internal/sequence"
)

// Scenario is a named, ordered list of tool invocations.
// Manifest and package paths inside a scenario are opaque to the
// driver; only the external tool interprets them.
type Scenario struct {
	// Name uniquely identifies this scenario.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description"`

	// Tool overrides the external executable for this scenario.
	// Empty means use the driver's configured tool.
	Tool string `yaml:"tool,omitempty"`

	// ExtraArgs are appended verbatim to every invocation,
	// before any extra args supplied on the command line.
	ExtraArgs []string `yaml:"extra_args,omitempty"`

	// RunToken is an optional fixed run token for deterministic
	// traces. Empty means a fresh UUIDv7 per run.
	RunToken string `yaml:"run_token,omitempty"`

	// Steps are the invocations, executed in order.
	Steps []StepSpec `yaml:"steps"`
}

// StepSpec is one invocation in a scenario file.
type StepSpec struct {
	// Invoke is the tool subcommand.
	Invoke string `yaml:"invoke"`

	// Args are the subcommand's fixed arguments.
	Args []string `yaml:"args,omitempty"`

	// Expect specifies the exit status that lets the sequence
	// continue. Nil means 0.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected step outcome.
type ExpectClause struct {
	ExitCode int `yaml:"exit_code"`
}

// Load reads and parses a scenario YAML file. Unknown fields are
// rejected so typos fail loudly instead of silently dropping steps.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validate(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &s, nil
}

// SequenceSteps converts the scenario's step specs into executable steps.
func (s *Scenario) SequenceSteps() []sequence.Step {
	steps := make([]sequence.Step, len(s.Steps))
	for i, spec := range s.Steps {
		step := sequence.Step{
			Subcommand: spec.Invoke,
			Args:       spec.Args,
		}
		if spec.Expect != nil {
			step.ExpectExit = spec.Expect.ExitCode
		}
		steps[i] = step
	}
	return steps
}

// Smoke returns the canonical smoke scenario for the given package and
// manifest paths: reset, new-account, publish, run(m1), run(m2),
// show-ledger, every step expected to exit 0.
func Smoke(packagePath, manifest1, manifest2 string) (*Scenario, error) {
	steps, err := sequence.Smoke(packagePath, manifest1, manifest2)
	if err != nil {
		return nil, err
	}

	specs := make([]StepSpec, len(steps))
	for i, step := range steps {
		specs[i] = StepSpec{Invoke: step.Subcommand, Args: step.Args}
	}

	return &Scenario{
		Name:        "smoke",
		Description: "Reset the ledger, create an account, publish a package, run two manifests, and dump ledger state.",
		Steps:       specs,
	}, nil
}

func validate(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if step.Invoke == "" {
			return fmt.Errorf("steps[%d]: invoke is required", i)
		}
		if step.Expect != nil && step.Expect.ExitCode < 0 {
			return fmt.Errorf("steps[%d].expect: exit_code must be non-negative", i)
		}
	}

	return nil
}
