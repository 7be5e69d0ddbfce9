package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "describely.dev/pkg/describely/internal/model"
)

func shardTree(t *testing.T, build func(c *Collector)) *m.Tree {
	t.Helper()

	c := NewCollector(0)
	build(c)

	return c.Finalize()
}

func TestMergeTrees_DisjointShards(t *testing.T) {
	first := shardTree(t, func(c *Collector) {
		require.NoError(t, c.RecordPath(testPath("a.py", []string{"describe_x"}, "it_one")))
		_, err := c.AttachResult("a.py::describe_x::it_one", m.Result{Outcome: m.OutcomePassed, Duration: time.Millisecond})
		require.NoError(t, err)
	})

	second := shardTree(t, func(c *Collector) {
		require.NoError(t, c.RecordPath(testPath("a.py", []string{"describe_x"}, "it_two")))
		require.NoError(t, c.RecordPath(testPath("b.py", nil, "it_three")))
		_, err := c.AttachResult("a.py::describe_x::it_two", m.Result{Outcome: m.OutcomeFailed})
		require.NoError(t, err)
		_, err = c.AttachResult("b.py::it_three", m.Result{Outcome: m.OutcomeSkipped})
		require.NoError(t, err)
	})

	merged := MergeTrees(0, first, second)

	assert.Equal(t, 3, merged.TotalTests())
	assert.Equal(t, 1, merged.TotalPassed())
	assert.Equal(t, 1, merged.TotalFailed())
	assert.Equal(t, 1, merged.TotalSkipped())

	// Shared describe block dedups across shards.
	describeX := merged.FindByID("a.py::describe_x")
	require.NotNil(t, describeX)
	assert.Len(t, describeX.Children, 2)
}

func TestMergeTrees_LaterShardWinsOnConflict(t *testing.T) {
	first := shardTree(t, func(c *Collector) {
		require.NoError(t, c.RecordPath(testPath("a.py", nil, "it_one")))
		_, err := c.AttachResult("a.py::it_one", m.Result{Outcome: m.OutcomePassed})
		require.NoError(t, err)
	})

	second := shardTree(t, func(c *Collector) {
		require.NoError(t, c.RecordPath(testPath("a.py", nil, "it_one")))
		_, err := c.AttachResult("a.py::it_one", m.Result{Outcome: m.OutcomeFailed, LongRepr: "rerun failed"})
		require.NoError(t, err)
	})

	merged := MergeTrees(0, first, second)

	assert.Equal(t, 1, merged.TotalTests())

	node := merged.FindByID("a.py::it_one")
	require.NotNil(t, node)
	assert.Equal(t, m.OutcomeFailed, node.Result.Outcome)
	assert.Equal(t, "rerun failed", node.Result.LongRepr)
}

func TestMergeTrees_PendingDoesNotOverwrite(t *testing.T) {
	first := shardTree(t, func(c *Collector) {
		require.NoError(t, c.RecordPath(testPath("a.py", nil, "it_one")))
		_, err := c.AttachResult("a.py::it_one", m.Result{Outcome: m.OutcomePassed})
		require.NoError(t, err)
	})

	// Second shard discovered the test but never ran it.
	second := shardTree(t, func(c *Collector) {
		require.NoError(t, c.RecordPath(testPath("a.py", nil, "it_one")))
	})

	merged := MergeTrees(0, first, second)

	node := merged.FindByID("a.py::it_one")
	require.NotNil(t, node)
	assert.Equal(t, m.OutcomePassed, node.Result.Outcome)
}
