package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainStep    = "simsmoke/step/v1"
	DomainOutcome = "simsmoke/outcome/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StepID computes the content-addressed ID for a step invocation.
// The ID is stable across restarts given the same run token, subcommand,
// argument list, and logical sequence number, which makes journal writes
// idempotent.
func StepID(runToken, subcommand string, args []string, seq int64) (string, error) {
	obj := map[string]any{
		"run_token":  runToken,
		"subcommand": subcommand,
		"args":       args,
		"seq":        seq,
	}

	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("StepID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStep, data), nil
}

// OutcomeID computes the content-addressed ID for a step outcome.
// Links to the step it completes via stepID.
func OutcomeID(stepID string, exitCode int, seq int64) (string, error) {
	obj := map[string]any{
		"step_id":   stepID,
		"exit_code": exitCode,
		"seq":       seq,
	}

	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("OutcomeID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainOutcome, data), nil
}

// MustStepID is like StepID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustStepID(runToken, subcommand string, args []string, seq int64) string {
	id, err := StepID(runToken, subcommand, args, seq)
	if err != nil {
		panic(err)
	}
	return id
}
