// Package toolexec invokes the external ledger-simulator tool.
//
// The tool is an opaque collaborator: toolexec shells out to it, relays
// its stdout/stderr, and reports exit codes. It never interprets the
// tool's output or persisted state.
package toolexec

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"strings"
)

// Invocation describes a single call to the external tool.
type Invocation struct {
	// Tool is the executable name or path (resolved via PATH lookup).
	Tool string

	// Subcommand is the tool subcommand (e.g. "reset", "publish").
	Subcommand string

	// Args are the subcommand's fixed arguments.
	Args []string

	// ExtraArgs are caller-supplied arguments forwarded verbatim.
	// They are appended after Args on every invocation.
	ExtraArgs []string

	// Dir is the working directory. Empty means the current directory.
	Dir string
}

// Argv returns the full argument vector passed to the tool,
// excluding the tool name itself.
func (inv Invocation) Argv() []string {
	argv := make([]string, 0, 1+len(inv.Args)+len(inv.ExtraArgs))
	argv = append(argv, inv.Subcommand)
	argv = append(argv, inv.Args...)
	argv = append(argv, inv.ExtraArgs...)
	return argv
}

// String renders the invocation as a shell-style command line for logs.
func (inv Invocation) String() string {
	return inv.Tool + " " + strings.Join(inv.Argv(), " ")
}

// Outcome is the observed result of one invocation.
type Outcome struct {
	// ExitCode is the tool's exit status. 127 indicates the tool
	// could not be started (missing executable, permission error).
	ExitCode int

	// Stdout and Stderr are captured copies of the tool's output.
	// The output is also streamed live; these are for the journal.
	Stdout []byte
	Stderr []byte
}

// Runner abstracts external tool execution so the sequence engine can
// be tested without a real tool on PATH.
type Runner interface {
	// Run executes the invocation and blocks until it finishes.
	//
	// A non-zero exit status is NOT an error: it is reported through
	// Outcome.ExitCode with a nil error. Run returns a non-nil error
	// only when the process could not be started or the context was
	// cancelled; in both cases the Outcome is still populated.
	Run(ctx context.Context, inv Invocation) (Outcome, error)
}

// ExecRunner executes invocations on the local host via os/exec.
type ExecRunner struct {
	// Stdout and Stderr receive the tool's live output.
	// Nil writers discard the stream (output is still captured).
	Stdout io.Writer
	Stderr io.Writer
}

// Run implements Runner. The child process inherits the environment;
// context cancellation kills it.
func (r *ExecRunner) Run(ctx context.Context, inv Invocation) (Outcome, error) {
	cmd := exec.CommandContext(ctx, inv.Tool, inv.Argv()...)
	if inv.Dir != "" {
		cmd.Dir = inv.Dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if r.Stdout != nil {
		cmd.Stdout = io.MultiWriter(r.Stdout, &stdout)
	}
	if r.Stderr != nil {
		cmd.Stderr = io.MultiWriter(r.Stderr, &stderr)
	}

	err := cmd.Run()
	outcome := Outcome{
		Stdout: stdout.Bytes(),
		Stderr: stderr.Bytes(),
	}

	if err == nil {
		return outcome, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		outcome.ExitCode = exitCodeFor(err)
		return outcome, ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Tool ran and failed. The exit code is the signal; the tool's
		// own stderr is the only diagnostic surfaced to the user.
		outcome.ExitCode = exitErr.ExitCode()
		return outcome, nil
	}

	// Could not start the tool at all (not found, not executable).
	outcome.ExitCode = 127
	return outcome, err
}

func exitCodeFor(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return 1
}
