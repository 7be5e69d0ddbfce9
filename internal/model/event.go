package model

// EventKind distinguishes the two inbound event types the host runner
// emits: path discovery during collection and results during execution.
type EventKind string

const (
	// EventDiscovered carries a classified path for one collected test.
	EventDiscovered EventKind = "discovered"
	// EventResult carries the outcome of one completed test.
	EventResult EventKind = "result"
)

// Segment is one step of a discovered path, already classified by the
// host runner (file, describe, or test). Docstring and fixtures are
// display-only metadata on the segment they belong to.
type Segment struct {
	Name      string   `json:"name"`
	Kind      NodeKind `json:"kind"`
	Docstring string   `json:"docstring,omitempty"`
	Fixtures  []string `json:"fixtures,omitempty"`
}

// Event is one record of the JSON Lines stream consumed by describely.
//
// Discovery events populate Path; result events populate TestID,
// Outcome, Duration (seconds) and optionally LongRepr. All discovery
// events precede the first result event in a well-behaved stream.
type Event struct {
	Kind     EventKind `json:"event"`
	Path     []Segment `json:"path,omitempty"`
	TestID   string    `json:"id,omitempty"`
	Outcome  Outcome   `json:"outcome,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	LongRepr string    `json:"longrepr,omitempty"`
}
