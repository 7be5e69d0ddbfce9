package controller

import (
	"fmt"
	"html"
	"html/template"
	"os"
	"strings"
	"time"

	m "describely.dev/pkg/describely/internal/model"
	"describely.dev/pkg/describely/internal/naming"
)

// cssClasses per outcome for the HTML report; total like the glyph map.
var outcomeClasses = map[m.Outcome]string{
	m.OutcomePassed:  "passed",
	m.OutcomeFailed:  "failed",
	m.OutcomeSkipped: "skipped",
	m.OutcomeXFailed: "xfailed",
	m.OutcomeXPassed: "xpassed",
	m.OutcomeError:   "error",
	m.OutcomePending: "pending",
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Test Report - describely</title>
<style>
:root {
    --bg: #1a1a2e;
    --fg: #e0e0e0;
    --card-bg: #16213e;
    --border: #2a2a4a;
    --passed: #4ade80;
    --failed: #f87171;
    --skipped: #fbbf24;
    --xfailed: #fbbf24;
    --xpassed: #f87171;
    --error: #f87171;
    --pending: #94a3b8;
    --slow: #f59e0b;
    --fixture: #60a5fa;
}
* { box-sizing: border-box; margin: 0; padding: 0; }
body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, monospace;
    background: var(--bg);
    color: var(--fg);
    padding: 20px;
    line-height: 1.6;
}
.header {
    display: flex;
    flex-wrap: wrap;
    gap: 12px;
    align-items: center;
    margin-bottom: 20px;
    padding: 16px;
    background: var(--card-bg);
    border-radius: 8px;
    border: 1px solid var(--border);
}
.header h1 { font-size: 1.2em; margin-right: auto; }
.badge {
    padding: 4px 12px;
    border-radius: 12px;
    font-size: 0.85em;
    font-weight: bold;
}
.badge-total { background: var(--border); }
.badge-passed { background: var(--passed); color: #000; }
.badge-failed { background: var(--failed); color: #000; }
.badge-skipped { background: var(--skipped); color: #000; }
.badge-duration { background: var(--border); }
.controls {
    display: flex;
    gap: 8px;
    margin-bottom: 16px;
}
.controls button {
    padding: 6px 14px;
    border: 1px solid var(--border);
    border-radius: 6px;
    background: var(--card-bg);
    color: var(--fg);
    cursor: pointer;
    font-size: 0.85em;
}
.controls button:hover { border-color: var(--fg); }
.controls button.active { border-color: var(--failed); color: var(--failed); }
.tree { padding-left: 0; }
details {
    margin-left: 20px;
    border-left: 2px solid var(--border);
    padding-left: 12px;
    margin-bottom: 4px;
}
details.root { margin-left: 0; }
summary {
    cursor: pointer;
    padding: 4px 0;
    font-weight: bold;
    list-style: none;
}
summary::-webkit-details-marker { display: none; }
summary::before {
    content: "▶ ";
    display: inline-block;
    transition: transform 0.2s;
}
details[open] > summary::before {
    transform: rotate(90deg);
}
.test-item {
    margin-left: 20px;
    padding: 3px 0;
    font-family: monospace;
}
.test-item .symbol { font-weight: bold; margin-right: 6px; }
.test-item .duration { color: var(--pending); margin-left: 8px; font-size: 0.85em; }
.test-item .slow { color: var(--slow); }
.test-item .docstring { color: var(--pending); font-style: italic; margin-left: 8px; }
.test-item .fixtures { color: var(--fixture); margin-left: 8px; font-size: 0.85em; }
.passed .symbol { color: var(--passed); }
.failed .symbol { color: var(--failed); }
.skipped .symbol { color: var(--skipped); }
.xfailed .symbol { color: var(--xfailed); }
.xpassed .symbol { color: var(--xpassed); }
.error .symbol { color: var(--error); }
.pending .symbol { color: var(--pending); }
.failure-block {
    margin: 4px 0 8px 40px;
    padding: 10px;
    background: #2d1515;
    border: 1px solid var(--failed);
    border-radius: 4px;
    font-family: monospace;
    font-size: 0.85em;
    white-space: pre-wrap;
    color: var(--failed);
    overflow-x: auto;
}
.describe-stats {
    font-size: 0.8em;
    color: var(--pending);
    font-weight: normal;
    margin-left: 8px;
}
.hidden { display: none !important; }
</style>
</head>
<body>
<div class="header">
    <h1>Test Report</h1>
    <span class="badge badge-total">{{.Total}} tests</span>
    <span class="badge badge-passed">{{.Passed}} passed</span>
    <span class="badge badge-failed">{{.Failed}} failed</span>
    <span class="badge badge-skipped">{{.Skipped}} skipped</span>
    <span class="badge badge-duration">{{.Duration}}</span>
</div>
<div class="controls">
    <button onclick="expandAll()">Expand All</button>
    <button onclick="collapseAll()">Collapse All</button>
    <button id="failedOnlyBtn" onclick="toggleFailedOnly()">Show Failed Only</button>
</div>
<div class="tree">
{{.TreeHTML}}
</div>
<script>
function expandAll() {
    document.querySelectorAll('details').forEach(d => d.open = true);
}
function collapseAll() {
    document.querySelectorAll('details').forEach(d => d.open = false);
}
let failedOnly = false;
function toggleFailedOnly() {
    failedOnly = !failedOnly;
    const btn = document.getElementById('failedOnlyBtn');
    btn.classList.toggle('active', failedOnly);
    btn.textContent = failedOnly ? 'Show All' : 'Show Failed Only';
    document.querySelectorAll('.test-item').forEach(el => {
        if (failedOnly && !el.classList.contains('failed') && !el.classList.contains('error')) {
            el.classList.add('hidden');
        } else {
            el.classList.remove('hidden');
        }
    });
    document.querySelectorAll('.failure-block').forEach(el => {
        el.classList.remove('hidden');
    });
    if (failedOnly) {
        document.querySelectorAll('details').forEach(d => {
            const hasFailure = d.querySelector('.failed, .error');
            if (hasFailure) {
                d.open = true;
                d.classList.remove('hidden');
            } else {
                d.classList.add('hidden');
            }
        });
    } else {
        document.querySelectorAll('details').forEach(d => {
            d.classList.remove('hidden');
        });
    }
}
</script>
</body>
</html>
`))

type htmlReportData struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Duration string
	TreeHTML template.HTML
}

// HTMLReporter generates a self-contained interactive HTML test report.
type HTMLReporter struct {
	slowThreshold time.Duration
}

// NewHTMLReporter creates a reporter flagging tests slower than the
// threshold.
func NewHTMLReporter(slowThreshold time.Duration) *HTMLReporter {
	if slowThreshold <= 0 {
		slowThreshold = m.DefaultSlowThreshold
	}

	return &HTMLReporter{slowThreshold: slowThreshold}
}

// GenerateReport writes the report document to outputPath.
func (h *HTMLReporter) GenerateReport(tree *m.Tree, outputPath string) error {
	var treeHTML strings.Builder

	for _, root := range tree.Roots {
		for _, child := range root.Children {
			h.renderNode(&treeHTML, child, true)
		}
	}

	data := htmlReportData{
		Total:    tree.TotalTests(),
		Passed:   tree.TotalPassed(),
		Failed:   tree.TotalFailed(),
		Skipped:  tree.TotalSkipped(),
		Duration: naming.FormatDuration(tree.TotalDuration()),
		TreeHTML: template.HTML(treeHTML.String()), //nolint:gosec // Node content is escaped during rendering.
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create HTML report: %w", err)
	}

	defer func() { _ = file.Close() }()

	if err := htmlReport.Execute(file, data); err != nil {
		return fmt.Errorf("failed to render HTML report: %w", err)
	}

	return nil
}

// renderNode writes one describe block as a collapsible section.
func (h *HTMLReporter) renderNode(b *strings.Builder, node *m.Node, isRoot bool) {
	if node.IsTest() {
		h.renderTest(b, node)
		return
	}

	outcome := node.OverallOutcome()
	openAttr := ""

	if outcome == m.OutcomeFailed || outcome == m.OutcomeError {
		openAttr = " open"
	}

	rootClass := ""
	if isRoot {
		rootClass = "root"
	}

	stats := fmt.Sprintf("%d/%d passed", node.PassedCount(), node.TestCount())
	duration := naming.FormatDuration(node.AggregateDuration())

	docstring := ""
	if node.Docstring != "" {
		docstring = fmt.Sprintf(` <span class="docstring">-- %s</span>`, html.EscapeString(node.Docstring))
	}

	fmt.Fprintf(b, `<details class="%s"%s><summary>%s%s<span class="describe-stats">(%s, %s)</span></summary>`+"\n",
		rootClass, openAttr, html.EscapeString(node.DisplayName), docstring, stats, duration)

	for _, child := range node.Children {
		h.renderNode(b, child, false)
	}

	b.WriteString("</details>\n")
}

// renderTest writes one test line plus its failure block.
func (h *HTMLReporter) renderTest(b *strings.Builder, node *m.Node) {
	if node.Result == nil {
		return
	}

	result := node.Result

	class, ok := outcomeClasses[result.Outcome]
	if !ok {
		class = "pending"
	}

	duration := naming.FormatDuration(result.Duration)

	slowClass, slowMarker := "", ""
	if result.Duration > h.slowThreshold {
		slowClass = " slow"
		slowMarker = " ⏱"
	}

	docstring := ""
	if node.Docstring != "" {
		docstring = fmt.Sprintf(`<span class="docstring">-- %s</span>`, html.EscapeString(node.Docstring))
	}

	fixtures := ""
	if len(result.FixtureNames) > 0 {
		fixtures = fmt.Sprintf(`<span class="fixtures">🔧 %s</span>`,
			html.EscapeString(strings.Join(result.FixtureNames, ", ")))
	}

	fmt.Fprintf(b, `<div class="test-item %s"><span class="symbol">%s</span>%s%s<span class="duration%s">(%s)%s</span>%s</div>`+"\n",
		class, glyphFor(result.Outcome), html.EscapeString(node.DisplayName),
		docstring, slowClass, duration, slowMarker, fixtures)

	if (result.Outcome == m.OutcomeFailed || result.Outcome == m.OutcomeError) && result.LongRepr != "" {
		fmt.Fprintf(b, `<div class="failure-block">%s</div>`+"\n", html.EscapeString(result.LongRepr))
	}
}
