// Package model defines the data structures for the describe tree.
package model

import "fmt"

// Outcome represents the terminal status of one executed test.
//
// The numeric order doubles as the aggregation precedence: when a group
// rolls up its descendants, the highest-valued outcome present wins.
// Pending sits below Passed so that a single attached result outranks
// any number of not-yet-reported siblings.
type Outcome int

const (
	// OutcomePending indicates a test discovered but not yet reported.
	OutcomePending Outcome = iota
	// OutcomePassed indicates a successful test.
	OutcomePassed
	// OutcomeSkipped indicates a test excluded from execution.
	OutcomeSkipped
	// OutcomeXFailed indicates an expected failure that failed.
	OutcomeXFailed
	// OutcomeXPassed indicates an expected failure that unexpectedly passed.
	OutcomeXPassed
	// OutcomeFailed indicates a test assertion failure.
	OutcomeFailed
	// OutcomeError indicates a setup or teardown error.
	OutcomeError
)

var outcomeNames = map[Outcome]string{
	OutcomePending: "pending",
	OutcomePassed:  "passed",
	OutcomeSkipped: "skipped",
	OutcomeXFailed: "xfailed",
	OutcomeXPassed: "xpassed",
	OutcomeFailed:  "failed",
	OutcomeError:   "error",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}

	return fmt.Sprintf("outcome(%d)", int(o))
}

// ParseOutcome converts a wire-format outcome name to an Outcome.
func ParseOutcome(name string) (Outcome, error) {
	for outcome, n := range outcomeNames {
		if n == name {
			return outcome, nil
		}
	}

	return OutcomePending, fmt.Errorf("unknown outcome %q", name)
}

// MarshalText implements encoding.TextMarshaler so outcomes serialize as
// their wire names in JSON and YAML.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(text []byte) error {
	outcome, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}

	*o = outcome

	return nil
}
