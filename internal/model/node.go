package model

import "time"

// Path represents a file system path.
type Path string

// NodeKind is the classification of a node in the describe tree.
type NodeKind string

const (
	// KindFile represents a top-level test module.
	KindFile NodeKind = "file"
	// KindDescribe represents a nested describe group.
	KindDescribe NodeKind = "describe"
	// KindTest represents a leaf test.
	KindTest NodeKind = "test"
)

// Result holds the execution result attached to a test node.
type Result struct {
	Outcome      Outcome
	Duration     time.Duration
	LongRepr     string // failure detail, e.g. a traceback
	FixtureNames []string
}

// Node is a node in the describe tree: a file, a describe block, or a
// test. Only test nodes carry a Result; only non-test nodes have
// children. Child order is insertion order and is never rearranged.
type Node struct {
	Name        string // raw identifier, e.g. "describe_my_feature"
	DisplayName string
	Kind        NodeKind
	ID          string // full root-to-node path key
	Docstring   string
	Children    []*Node
	Result      *Result
}

// IsTest reports whether the node is a leaf test.
func (n *Node) IsTest() bool { return n.Kind == KindTest }

// IsDescribe reports whether the node is a describe group.
func (n *Node) IsDescribe() bool { return n.Kind == KindDescribe }

// IsFile reports whether the node is a file-level module.
func (n *Node) IsFile() bool { return n.Kind == KindFile }

// TestCount returns the number of test descendants (1 for a test).
func (n *Node) TestCount() int {
	if n.IsTest() {
		return 1
	}

	count := 0
	for _, child := range n.Children {
		count += child.TestCount()
	}

	return count
}

// PassedCount returns the number of passed test descendants.
func (n *Node) PassedCount() int {
	return n.countOutcomes(func(o Outcome) bool { return o == OutcomePassed })
}

// FailedCount returns the number of failed test descendants. Errors
// count as failures here: both demand the user's attention.
func (n *Node) FailedCount() int {
	return n.countOutcomes(func(o Outcome) bool { return o == OutcomeFailed || o == OutcomeError })
}

// SkippedCount returns the number of skipped test descendants.
func (n *Node) SkippedCount() int {
	return n.countOutcomes(func(o Outcome) bool { return o == OutcomeSkipped })
}

func (n *Node) countOutcomes(match func(Outcome) bool) int {
	if n.IsTest() {
		if n.Result != nil && match(n.Result.Outcome) {
			return 1
		}

		return 0
	}

	count := 0
	for _, child := range n.Children {
		count += child.countOutcomes(match)
	}

	return count
}

// AggregateDuration sums the result durations over all test
// descendants. Pending tests contribute zero.
func (n *Node) AggregateDuration() time.Duration {
	if n.IsTest() {
		if n.Result == nil {
			return 0
		}

		return n.Result.Duration
	}

	var total time.Duration
	for _, child := range n.Children {
		total += child.AggregateDuration()
	}

	return total
}

// OverallOutcome reduces the subtree to a single outcome. For a test it
// is the result outcome (pending if none). For a group it is the
// highest-precedence outcome among its children, so an error or failure
// is never masked by softer outcomes. A group whose descendants are all
// pending (or that has no children) is pending.
func (n *Node) OverallOutcome() Outcome {
	if n.IsTest() {
		if n.Result == nil {
			return OutcomePending
		}

		return n.Result.Outcome
	}

	overall := OutcomePending
	for _, child := range n.Children {
		if outcome := child.OverallOutcome(); outcome > overall {
			overall = outcome
		}
	}

	return overall
}

// FindByID walks the subtree looking for the node with the given ID.
// Renderers may use it for ad-hoc lookups; streaming attachment goes
// through the collector's index instead.
func (n *Node) FindByID(id string) *Node {
	if n.ID == id {
		return n
	}

	for _, child := range n.Children {
		if found := child.FindByID(id); found != nil {
			return found
		}
	}

	return nil
}
