package domain

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	m "describely.dev/pkg/describely/internal/model"
	"describely.dev/pkg/describely/internal/naming"
)

// idSeparator joins segment names into a stable node ID, mirroring the
// runner-side test identifiers ("file.py::describe_x::it_y").
const idSeparator = "::"

// Contract violations from the host runner. These are reported, never
// silently corrected: they indicate a collector/runner mismatch the
// user should know about. Processing continues after each one.
var (
	// ErrUnknownTest flags a result for a path never seen at discovery.
	ErrUnknownTest = errors.New("result reported for unknown test")
	// ErrReclassified flags a path that claims an existing node with a
	// different classification.
	ErrReclassified = errors.New("path segment reclassified")
	// ErrLateDiscovery flags a discovery event after execution started.
	ErrLateDiscovery = errors.New("path discovered after execution started")
	// ErrMalformedPath flags a discovery path that breaks the
	// file -> describe... -> test shape.
	ErrMalformedPath = errors.New("malformed discovery path")
)

// Phase tracks the collector's position in the session lifecycle.
type Phase int

const (
	// PhaseDiscovering accepts paths; the tree structure is growing.
	PhaseDiscovering Phase = iota
	// PhaseExecuting accepts results; the structure is frozen.
	PhaseExecuting
	// PhaseDone means the final tree has been handed out.
	PhaseDone
)

// Collector builds a DescribeTree from discovery events and attaches
// results as they stream in. Shared path prefixes collapse into shared
// nodes; an ID index built during discovery makes result attachment a
// map lookup instead of a tree walk.
//
// All methods must be called from a single goroutine: the event stream
// is inherently sequential and the tree is not snapshot-isolated.
type Collector struct {
	tree  *m.Tree
	index map[string]*m.Node
	phase Phase
}

// NewCollector creates a collector with an empty tree.
func NewCollector(slowThreshold time.Duration) *Collector {
	return &Collector{
		tree:  m.NewTree(slowThreshold),
		index: make(map[string]*m.Node),
	}
}

// Tree returns the tree under construction. Live renderers may read it
// between events; it keeps mutating until Finalize.
func (c *Collector) Tree() *m.Tree {
	return c.tree
}

// Phase returns the collector's current lifecycle phase.
func (c *Collector) Phase() Phase {
	return c.phase
}

// RecordPath merges one discovered path into the tree. Existing nodes
// along the prefix are reused; missing ones are appended to their
// parent in discovery order. The final segment must be a test, interior
// segments must not be, and the first must be a file.
func (c *Collector) RecordPath(segments []m.Segment) error {
	if c.phase != PhaseDiscovering {
		slog.Warn("discovery event after execution started", "path", joinNames(segments))
		return fmt.Errorf("%w: %s", ErrLateDiscovery, joinNames(segments))
	}

	if err := validatePathShape(segments); err != nil {
		return err
	}

	var parent *m.Node

	id := ""

	for _, segment := range segments {
		if id == "" {
			id = segment.Name
		} else {
			id = id + idSeparator + segment.Name
		}

		if existing, ok := c.index[id]; ok {
			if existing.Kind != segment.Kind {
				return fmt.Errorf("%w: %s is %s, redeclared as %s",
					ErrReclassified, id, existing.Kind, segment.Kind)
			}

			parent = existing

			continue
		}

		node := &m.Node{
			Name:        segment.Name,
			DisplayName: naming.DisplayName(segment.Name, segment.Kind),
			Kind:        segment.Kind,
			ID:          id,
			Docstring:   segment.Docstring,
		}

		if segment.Kind == m.KindTest {
			node.Result = &m.Result{FixtureNames: dedupe(segment.Fixtures)}
		}

		if parent != nil {
			parent.Children = append(parent.Children, node)
		} else {
			c.tree.Roots = append(c.tree.Roots, node)
		}

		c.index[id] = node
		parent = node
	}

	return nil
}

// AttachResult looks up the test node by ID and sets its result.
// Re-reported results overwrite: runners emit secondary teardown-error
// reports after a primary result, and the last word wins.
func (c *Collector) AttachResult(testID string, result m.Result) (*m.Node, error) {
	if c.phase == PhaseDiscovering {
		c.phase = PhaseExecuting
	}

	node, ok := c.index[testID]
	if !ok || !node.IsTest() {
		slog.Warn("result for unknown test", "id", testID, "outcome", result.Outcome.String())
		return nil, fmt.Errorf("%w: %s", ErrUnknownTest, testID)
	}

	// Fixture names come from discovery; keep them across overwrites
	// unless the result brings its own.
	if result.FixtureNames == nil && node.Result != nil {
		result.FixtureNames = node.Result.FixtureNames
	} else {
		result.FixtureNames = dedupe(result.FixtureNames)
	}

	node.Result = &result

	return node, nil
}

// Trail returns the nodes from the root down to the node with the given
// ID, using only index lookups. Renderers use it to print describe
// headers for a freshly completed test.
func (c *Collector) Trail(id string) []*m.Node {
	parts := strings.Split(id, idSeparator)
	trail := make([]*m.Node, 0, len(parts))

	prefix := ""
	for _, part := range parts {
		if prefix == "" {
			prefix = part
		} else {
			prefix = prefix + idSeparator + part
		}

		node, ok := c.index[prefix]
		if !ok {
			return nil
		}

		trail = append(trail, node)
	}

	return trail
}

// Finalize marks the session done and returns the tree for querying.
// Aggregation tolerates pending leaves, so an aborted run finalizes
// cleanly.
func (c *Collector) Finalize() *m.Tree {
	c.phase = PhaseDone
	return c.tree
}

func validatePathShape(segments []m.Segment) error {
	if len(segments) < 2 {
		return fmt.Errorf("%w: need at least a file and a test segment", ErrMalformedPath)
	}

	if segments[0].Kind != m.KindFile {
		return fmt.Errorf("%w: first segment %q is %s, want %s",
			ErrMalformedPath, segments[0].Name, segments[0].Kind, m.KindFile)
	}

	last := segments[len(segments)-1]
	if last.Kind != m.KindTest {
		return fmt.Errorf("%w: final segment %q is %s, want %s",
			ErrMalformedPath, last.Name, last.Kind, m.KindTest)
	}

	for _, segment := range segments[1 : len(segments)-1] {
		if segment.Kind != m.KindDescribe {
			return fmt.Errorf("%w: interior segment %q is %s, want %s",
				ErrMalformedPath, segment.Name, segment.Kind, m.KindDescribe)
		}
	}

	return nil
}

func joinNames(segments []m.Segment) string {
	names := make([]string, 0, len(segments))
	for _, segment := range segments {
		names = append(names, segment.Name)
	}

	return strings.Join(names, idSeparator)
}

// dedupe removes duplicate fixture names preserving first occurrence.
func dedupe(names []string) []string {
	if len(names) == 0 {
		return names
	}

	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))

	for _, name := range names {
		if _, ok := seen[name]; ok {
			continue
		}

		seen[name] = struct{}{}

		out = append(out, name)
	}

	return out
}
