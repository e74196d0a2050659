package sequence

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/ledgerlab/simsmoke/internal/canonical"
)

// TraceSnapshot captures the complete trace of a run for golden file
// comparison. Serialized with canonical JSON so byte-for-byte equality
// is meaningful.
type TraceSnapshot struct {
	Scenario string
	RunToken string
	Trace    []TraceEvent
}

func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	events := make([]any, len(s.Trace))
	for i, ev := range s.Trace {
		m := map[string]any{
			"type": ev.Type,
			"seq":  ev.Seq,
		}
		if ev.Subcommand != "" {
			m["subcommand"] = ev.Subcommand
		}
		if len(ev.Args) > 0 {
			m["args"] = ev.Args
		}
		if ev.Type == EventOutcome {
			m["exit_code"] = ev.ExitCode
		}
		events[i] = m
	}

	return map[string]any{
		"scenario":  s.Scenario,
		"run_token": s.RunToken,
		"trace":     events,
	}
}

// AssertGolden compares a result's trace against the golden file
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/sequence -update
//
// Runs compared this way must use a fixed run token; UUIDv7 tokens
// would never match the stored snapshot.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot := TraceSnapshot{
		Scenario: result.Scenario,
		RunToken: result.RunToken,
		Trace:    result.Trace,
	}

	data, err := canonical.Marshal(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, data)

	return nil
}
