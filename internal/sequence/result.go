package sequence

// TraceEvent is one entry in a run's ordered trace: either the
// invocation of a step or its observed outcome.
type TraceEvent struct {
	Type       string   `json:"type"` // "invocation" or "outcome"
	Subcommand string   `json:"subcommand,omitempty"`
	Args       []string `json:"args,omitempty"`
	ExitCode   int      `json:"exit_code"`
	Seq        int64    `json:"seq"`
}

// Trace event types.
const (
	EventInvocation = "invocation"
	EventOutcome    = "outcome"
)

// Result is the outcome of executing a sequence.
type Result struct {
	// Scenario names the sequence that ran.
	Scenario string `json:"scenario"`

	// RunToken identifies this run in the journal.
	RunToken string `json:"run_token"`

	// Pass is true when every step exited with its expected status.
	Pass bool `json:"pass"`

	// FailedStep is the index of the first failing step, or -1.
	FailedStep int `json:"failed_step"`

	// ExitCode is the failing step's exit status, 0 when Pass.
	// This is the driver's overall exit code.
	ExitCode int `json:"exit_code"`

	// Trace contains all invocations and outcomes in order.
	Trace []TraceEvent `json:"trace"`
}

// NewResult creates a passing result with an empty trace.
func NewResult(scenario, runToken string) *Result {
	return &Result{
		Scenario:   scenario,
		RunToken:   runToken,
		Pass:       true,
		FailedStep: -1,
		Trace:      []TraceEvent{},
	}
}

// AddInvocation appends an invocation event to the trace.
func (r *Result) AddInvocation(subcommand string, args []string, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:       EventInvocation,
		Subcommand: subcommand,
		Args:       args,
		Seq:        seq,
	})
}

// AddOutcome appends an outcome event to the trace.
func (r *Result) AddOutcome(exitCode int, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:     EventOutcome,
		ExitCode: exitCode,
		Seq:      seq,
	})
}

// Fail marks the result as failed at the given step.
func (r *Result) Fail(step, exitCode int) {
	r.Pass = false
	r.FailedStep = step
	r.ExitCode = exitCode
}
