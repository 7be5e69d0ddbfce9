package controller

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "describely.dev/pkg/describely/internal/model"
)

func trailFor(outcome m.Outcome, duration time.Duration) []*m.Node {
	test := &m.Node{
		Name:        "it_does_something",
		DisplayName: "it does something",
		Kind:        m.KindTest,
		ID:          "a.py::describe_x::it_does_something",
		Result:      &m.Result{Outcome: outcome, Duration: duration},
	}

	describe := &m.Node{
		Name:        "describe_x",
		DisplayName: "x",
		Kind:        m.KindDescribe,
		ID:          "a.py::describe_x",
		Children:    []*m.Node{test},
	}

	file := &m.Node{
		Name: "a.py", DisplayName: "a.py", Kind: m.KindFile, ID: "a.py",
		Children: []*m.Node{describe},
	}

	return []*m.Node{file, describe, test}
}

func TestLineRenderer_HeaderPrintedOncePerBlock(t *testing.T) {
	r := newLineRenderer(newStartConfig())

	first := r.resultLines(trailFor(m.OutcomePassed, time.Millisecond))
	require.Len(t, first, 2)
	assert.Contains(t, first[0], "x")
	assert.Contains(t, first[1], "✓ it does something")

	// Same block again: no header, just the test line.
	second := r.resultLines(trailFor(m.OutcomeFailed, time.Millisecond))
	require.Len(t, second, 1)
	assert.Contains(t, second[0], "✗")
}

func TestLineRenderer_HeaderReprintedAfterLeavingBlock(t *testing.T) {
	r := newLineRenderer(newStartConfig())

	r.resultLines(trailFor(m.OutcomePassed, 0))

	// A test from another file resets the block stack.
	otherFile := []*m.Node{
		{Name: "b.py", Kind: m.KindFile, ID: "b.py"},
		{
			Name: "it_other", DisplayName: "it other", Kind: m.KindTest, ID: "b.py::it_other",
			Result: &m.Result{Outcome: m.OutcomePassed},
		},
	}
	r.resultLines(otherFile)

	lines := r.resultLines(trailFor(m.OutcomePassed, 0))
	require.Len(t, lines, 2)
}

func TestLineRenderer_SlowMarker(t *testing.T) {
	r := newLineRenderer(newStartConfig())

	lines := r.resultLines(trailFor(m.OutcomePassed, 700*time.Millisecond))
	assert.Contains(t, lines[len(lines)-1], "⏱")

	fast := r.resultLines(trailFor(m.OutcomePassed, 10*time.Millisecond))
	assert.NotContains(t, fast[len(fast)-1], "⏱")
}

func TestLineRenderer_FailureDetailLines(t *testing.T) {
	r := newLineRenderer(newStartConfig())

	trail := trailFor(m.OutcomeFailed, time.Millisecond)
	trail[2].Result.LongRepr = "assert 1 == 2\nwhere 1 = calc.add(0, 1)"

	lines := r.resultLines(trail)
	require.Len(t, lines, 4)
	assert.Contains(t, lines[2], "assert 1 == 2")
	assert.Contains(t, lines[3], "calc.add")
}

func TestLineRenderer_ExpandAllShowsDocstringAndFixtures(t *testing.T) {
	r := newLineRenderer(newStartConfig(WithExpandAll()))

	trail := trailFor(m.OutcomePassed, time.Millisecond)
	trail[2].Docstring = "adds things"
	trail[2].Result.FixtureNames = []string{"calc", "db"}

	lines := r.resultLines(trail)
	line := lines[len(lines)-1]
	assert.Contains(t, line, "adds things")
	assert.Contains(t, line, "calc, db")

	// Collapsed mode hides both.
	collapsed := newLineRenderer(newStartConfig())
	lines = collapsed.resultLines(trail)
	line = lines[len(lines)-1]
	assert.NotContains(t, line, "adds things")
	assert.NotContains(t, line, "calc, db")
}

func TestLineRenderer_NoFixtures(t *testing.T) {
	r := newLineRenderer(newStartConfig(WithExpandAll(), WithNoFixtures()))

	trail := trailFor(m.OutcomePassed, time.Millisecond)
	trail[2].Result.FixtureNames = []string{"calc"}

	lines := r.resultLines(trail)
	assert.NotContains(t, lines[len(lines)-1], "calc")
}

func summaryTree() *m.Tree {
	tree := m.NewTree(0)

	passed := &m.Node{
		Name: "it_one", DisplayName: "it one", Kind: m.KindTest, ID: "a.py::describe_x::it_one",
		Result: &m.Result{Outcome: m.OutcomePassed, Duration: time.Millisecond},
	}
	failed := &m.Node{
		Name: "it_two", DisplayName: "it two", Kind: m.KindTest, ID: "a.py::describe_x::it_two",
		Result: &m.Result{Outcome: m.OutcomeFailed, Duration: 2 * time.Millisecond},
	}
	describe := &m.Node{
		Name: "describe_x", DisplayName: "x", Kind: m.KindDescribe, ID: "a.py::describe_x",
		Children: []*m.Node{passed, failed},
	}

	tree.Roots = append(tree.Roots, &m.Node{
		Name: "a.py", DisplayName: "a.py", Kind: m.KindFile, ID: "a.py",
		Children: []*m.Node{describe},
	})

	return tree
}

func TestSummaryLines(t *testing.T) {
	lines := summaryLines(summaryTree())
	joined := strings.Join(lines, "\n")

	assert.Contains(t, joined, "Test Summary")
	// Group line carries the rollup stats.
	assert.Contains(t, joined, "1/2 passed")
	// Tree connectors.
	assert.Contains(t, joined, "└── ")
	assert.Contains(t, joined, "├── ")
	assert.Contains(t, joined, "it one")
	assert.Contains(t, joined, "it two")
	// The file node itself is not printed; its children are the top level.
	assert.NotContains(t, joined, "a.py")
}

func TestSummaryLines_DescribesBeforeTests(t *testing.T) {
	tree := summaryTree()

	// Append a sibling test before a sibling describe under the file.
	file := tree.Roots[0]
	top := file.Children[0]
	top.Children = append([]*m.Node{{
		Name: "it_zero", DisplayName: "it zero", Kind: m.KindTest, ID: "a.py::describe_x::it_zero",
		Result: &m.Result{Outcome: m.OutcomePassed},
	}}, top.Children...)
	top.Children = append(top.Children, &m.Node{
		Name: "describe_inner", DisplayName: "inner", Kind: m.KindDescribe, ID: "a.py::describe_x::describe_inner",
		Children: []*m.Node{{
			Name: "it_three", DisplayName: "it three", Kind: m.KindTest, ID: "a.py::describe_x::describe_inner::it_three",
			Result: &m.Result{Outcome: m.OutcomePassed},
		}},
	})

	lines := summaryLines(tree)
	joined := strings.Join(lines, "\n")

	// The inner describe renders before the leaf tests of its parent.
	assert.Less(t, strings.Index(joined, "inner"), strings.Index(joined, "it zero"))
}

func TestStatsTable(t *testing.T) {
	table := statsTable(summaryTree())

	assert.Contains(t, table, "a.py")
	assert.Contains(t, table, "FILE")
	assert.Contains(t, table, "DURATION")
	assert.Contains(t, table, "TOTAL FILES 1")
}

func TestGlyphFor_UnknownOutcome(t *testing.T) {
	assert.Equal(t, "?", glyphFor(m.Outcome(99)))
}
