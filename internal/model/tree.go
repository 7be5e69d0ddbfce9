package model

import "time"

// DefaultSlowThreshold flags tests slower than this in the output.
const DefaultSlowThreshold = 500 * time.Millisecond

// Tree is the root container for the describe forest: one ordered root
// per discovered test file. It is read-only for renderers; all mutation
// goes through the collector.
type Tree struct {
	Roots         []*Node
	SlowThreshold time.Duration
}

// NewTree creates an empty tree with the given slow-test threshold.
func NewTree(slowThreshold time.Duration) *Tree {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowThreshold
	}

	return &Tree{SlowThreshold: slowThreshold}
}

// TotalTests returns the number of tests across the whole forest.
func (t *Tree) TotalTests() int {
	count := 0
	for _, root := range t.Roots {
		count += root.TestCount()
	}

	return count
}

// TotalPassed returns the number of passed tests across the forest.
func (t *Tree) TotalPassed() int {
	count := 0
	for _, root := range t.Roots {
		count += root.PassedCount()
	}

	return count
}

// TotalFailed returns the number of failed or errored tests.
func (t *Tree) TotalFailed() int {
	count := 0
	for _, root := range t.Roots {
		count += root.FailedCount()
	}

	return count
}

// TotalSkipped returns the number of skipped tests across the forest.
func (t *Tree) TotalSkipped() int {
	count := 0
	for _, root := range t.Roots {
		count += root.SkippedCount()
	}

	return count
}

// TotalDuration sums the durations of all reported tests.
func (t *Tree) TotalDuration() time.Duration {
	var total time.Duration
	for _, root := range t.Roots {
		total += root.AggregateDuration()
	}

	return total
}

// OverallOutcome reduces the whole forest to one outcome. An empty tree
// is pending, not an error.
func (t *Tree) OverallOutcome() Outcome {
	overall := OutcomePending
	for _, root := range t.Roots {
		if outcome := root.OverallOutcome(); outcome > overall {
			overall = outcome
		}
	}

	return overall
}

// FindByID searches the forest for the node with the given ID.
func (t *Tree) FindByID(id string) *Node {
	for _, root := range t.Roots {
		if found := root.FindByID(id); found != nil {
			return found
		}
	}

	return nil
}
