package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/olekukonko/tablewriter"

	m "describely.dev/pkg/describely/internal/model"
	"describely.dev/pkg/describely/internal/naming"
)

// One glyph per outcome; the mapping is total.
var outcomeGlyphs = map[m.Outcome]string{
	m.OutcomePassed:  "✓",
	m.OutcomeFailed:  "✗",
	m.OutcomeSkipped: "○",
	m.OutcomeXFailed: "⊘",
	m.OutcomeXPassed: "✗!",
	m.OutcomeError:   "☠",
	m.OutcomePending: "?",
}

var (
	greenStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	redStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	yellowStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	grayStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	boldStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

var outcomeStyles = map[m.Outcome]lipgloss.Style{
	m.OutcomePassed:  greenStyle,
	m.OutcomeFailed:  redStyle,
	m.OutcomeSkipped: yellowStyle,
	m.OutcomeXFailed: yellowStyle,
	m.OutcomeXPassed: redStyle,
	m.OutcomeError:   redStyle,
	m.OutcomePending: grayStyle,
}

func glyphFor(outcome m.Outcome) string {
	if glyph, ok := outcomeGlyphs[outcome]; ok {
		return glyph
	}

	return "?"
}

func styleFor(outcome m.Outcome) lipgloss.Style {
	if style, ok := outcomeStyles[outcome]; ok {
		return style
	}

	return grayStyle
}

// lineRenderer turns completed-test trails into display lines in
// arrival order, emitting describe headers the first time a block is
// entered. It carries the header stack between calls, so one renderer
// serves one session.
type lineRenderer struct {
	cfg   StartConfig
	stack []string // IDs of the describe blocks currently entered
}

func newLineRenderer(cfg StartConfig) *lineRenderer {
	return &lineRenderer{cfg: cfg}
}

// resultLines renders the headers and the test line for one trail.
func (r *lineRenderer) resultLines(trail []*m.Node) []string {
	if len(trail) == 0 {
		return nil
	}

	test := trail[len(trail)-1]
	blocks := trail[1 : len(trail)-1] // describe blocks between file and test

	var lines []string

	blockIDs := make([]string, 0, len(blocks))
	for i, block := range blocks {
		blockIDs = append(blockIDs, block.ID)

		if !contains(r.stack, block.ID) {
			header := strings.Repeat("  ", i) + block.DisplayName
			if r.cfg.expandAll && block.Docstring != "" {
				header += dimStyle.Render(" -- " + block.Docstring)
			}

			lines = append(lines, header)
		}
	}

	r.stack = blockIDs

	lines = append(lines, r.testLine(test, strings.Repeat("  ", len(blocks)))...)

	return lines
}

// testLine renders one test result line plus inline failure detail.
func (r *lineRenderer) testLine(test *m.Node, indent string) []string {
	if test.Result == nil {
		return nil
	}

	result := test.Result
	style := styleFor(result.Outcome)

	var b strings.Builder

	b.WriteString(indent)
	b.WriteString(glyphFor(result.Outcome))
	b.WriteString(" ")
	b.WriteString(test.DisplayName)

	if r.cfg.expandAll && test.Docstring != "" {
		b.WriteString(" -- " + test.Docstring)
	}

	fmt.Fprintf(&b, " (%s)", naming.FormatDuration(result.Duration))

	if result.Duration > r.cfg.slowThreshold {
		b.WriteString(" ⏱")
	}

	if r.cfg.expandAll && !r.cfg.noFixtures && len(result.FixtureNames) > 0 {
		fmt.Fprintf(&b, " \U0001f527 %s", strings.Join(result.FixtureNames, ", "))
	}

	lines := []string{style.Render(b.String())}

	if (result.Outcome == m.OutcomeFailed || result.Outcome == m.OutcomeError) && result.LongRepr != "" {
		for _, detail := range strings.Split(result.LongRepr, "\n") {
			lines = append(lines, redStyle.Render(indent+"    "+detail))
		}
	}

	return lines
}

// summaryLines renders the authoritative tree-ordered summary: every
// describe block and test under each file, with rollup stats on the
// interior nodes.
func summaryLines(tree *m.Tree) []string {
	lines := []string{"", boldStyle.Render("Test Summary")}

	for _, root := range tree.Roots {
		for _, child := range root.Children {
			lines = appendSummaryNode(lines, child, "", true)
		}
	}

	return lines
}

func appendSummaryNode(lines []string, node *m.Node, prefix string, isLast bool) []string {
	connector := "├── "
	if isLast {
		connector = "└── "
	}

	outcome := node.OverallOutcome()
	style := styleFor(outcome)
	glyph := glyphFor(outcome)

	var line string
	if node.IsTest() {
		duration := "0ms"
		if node.Result != nil {
			duration = naming.FormatDuration(node.Result.Duration)
		}

		line = fmt.Sprintf("%s%s%s %s (%s)", prefix, connector, glyph, node.DisplayName, duration)
	} else {
		stats := fmt.Sprintf("%d/%d passed, %s",
			node.PassedCount(), node.TestCount(), naming.FormatDuration(node.AggregateDuration()))
		line = fmt.Sprintf("%s%s%s %s (%s)", prefix, connector, glyph, node.DisplayName, stats)
	}

	lines = append(lines, style.Render(line))

	childPrefix := prefix + "│   "
	if isLast {
		childPrefix = prefix + "    "
	}

	// Describe blocks first, then leaf tests.
	ordered := make([]*m.Node, 0, len(node.Children))
	for _, child := range node.Children {
		if !child.IsTest() {
			ordered = append(ordered, child)
		}
	}

	for _, child := range node.Children {
		if child.IsTest() {
			ordered = append(ordered, child)
		}
	}

	for i, child := range ordered {
		lines = appendSummaryNode(lines, child, childPrefix, i == len(ordered)-1)
	}

	return lines
}

// statsTable renders the per-file statistics table shown under the
// summary tree.
func statsTable(tree *m.Tree) string {
	var buffer bytes.Buffer

	table := tablewriter.NewWriter(&buffer)
	table.SetHeader([]string{"File", "Tests", "Passed", "Failed", "Skipped", "Duration"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
		tablewriter.ALIGN_CENTER,
	})

	for _, root := range tree.Roots {
		table.Append([]string{
			root.Name,
			fmt.Sprintf("%d", root.TestCount()),
			fmt.Sprintf("%d", root.PassedCount()),
			fmt.Sprintf("%d", root.FailedCount()),
			fmt.Sprintf("%d", root.SkippedCount()),
			naming.FormatDuration(root.AggregateDuration()),
		})
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total Files %d", len(tree.Roots)),
		fmt.Sprintf("%d", tree.TotalTests()),
		fmt.Sprintf("%d", tree.TotalPassed()),
		fmt.Sprintf("%d", tree.TotalFailed()),
		fmt.Sprintf("%d", tree.TotalSkipped()),
		naming.FormatDuration(tree.TotalDuration()),
	})

	table.Render()

	return buffer.String()
}

func contains(ids []string, id string) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}

	return false
}
