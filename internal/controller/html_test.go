package controller

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "describely.dev/pkg/describely/internal/model"
)

func generateReport(t *testing.T, tree *m.Tree) string {
	t.Helper()

	target := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, NewHTMLReporter(0).GenerateReport(tree, target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)

	return string(data)
}

func TestHTMLReporter_Badges(t *testing.T) {
	report := generateReport(t, summaryTree())

	assert.Contains(t, report, "2 tests")
	assert.Contains(t, report, "1 passed")
	assert.Contains(t, report, "1 failed")
	assert.Contains(t, report, "0 skipped")
}

func TestHTMLReporter_FailedDescribeIsOpen(t *testing.T) {
	report := generateReport(t, summaryTree())

	// The group holds a failure, so it renders expanded.
	assert.Contains(t, report, `<details class="root" open>`)
	assert.Contains(t, report, `class="failure-block"`)
}

func TestHTMLReporter_PassedDescribeIsCollapsed(t *testing.T) {
	tree := summaryTree()
	// Drop the failing test so the group is all green.
	describe := tree.Roots[0].Children[0]
	describe.Children = describe.Children[:1]

	report := generateReport(t, tree)
	assert.Contains(t, report, `<details class="root">`)
}

func TestHTMLReporter_EscapesContent(t *testing.T) {
	tree := summaryTree()
	failing := tree.Roots[0].Children[0].Children[1]
	failing.Result.LongRepr = `assert "<script>" not in page`
	failing.DisplayName = "it rejects <script> tags"

	report := generateReport(t, tree)

	assert.NotContains(t, report, "it rejects <script> tags")
	assert.Contains(t, report, "it rejects &lt;script&gt; tags")
	assert.Contains(t, report, "&#34;&lt;script&gt;&#34; not in page")
}

func TestHTMLReporter_SlowMarkerAndFixtures(t *testing.T) {
	tree := summaryTree()
	slow := tree.Roots[0].Children[0].Children[0]
	slow.Result.Duration = 800 * time.Millisecond
	slow.Result.FixtureNames = []string{"calc"}

	report := generateReport(t, tree)

	assert.Contains(t, report, "⏱")
	assert.Contains(t, report, "🔧 calc")
}

func TestHTMLReporter_FailureBlockOnlyForFailures(t *testing.T) {
	tree := summaryTree()
	describe := tree.Roots[0].Children[0]
	describe.Children = describe.Children[:1] // passed test only
	describe.Children[0].Result.LongRepr = "leftover text"

	report := generateReport(t, tree)
	assert.NotContains(t, report, "leftover text")
}
