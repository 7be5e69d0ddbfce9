package controller

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	m "describely.dev/pkg/describely/internal/model"
)

// liveTailSize bounds how many recent result lines the running view keeps.
const liveTailSize = 200

// TUI implements UI with a Bubble Tea program: a live view while
// results stream in, then a scrollable summary the user dismisses with
// q. All tree rendering happens on the caller's goroutine; messages
// carry finished strings, so the program never touches the mutating
// tree.
type TUI struct {
	output   io.Writer
	program  *tea.Program
	group    *errgroup.Group
	renderer *lineRenderer
}

// NewTUI creates a new TUI writing to output.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start launches the Bubble Tea program in the background.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.renderer = newLineRenderer(newStartConfig(options...))

	model := newSessionModel()
	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithContext(ctx))
	t.group = &errgroup.Group{}

	t.group.Go(func() error {
		_, err := t.program.Run()
		return err
	})

	return nil
}

// Close tells the program the session produced no summary (error paths).
func (t *TUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}

	if t.program != nil {
		t.program.Quit()
	}
}

// Wait blocks until the user dismisses the summary view.
func (t *TUI) Wait(ctx context.Context) {
	if t.group == nil {
		return
	}

	_ = t.group.Wait()
}

// DisplayTestResult appends one completed test to the live view.
func (t *TUI) DisplayTestResult(ctx context.Context, trail []*m.Node) {
	if err := ctx.Err(); err != nil || t.program == nil || len(trail) == 0 {
		return
	}

	test := trail[len(trail)-1]

	msg := resultMsg{lines: t.renderTrail(trail)}
	if test.Result != nil {
		msg.outcome = test.Result.Outcome
	}

	t.program.Send(msg)
}

// DisplayViolation appends a contract violation to the live view.
func (t *TUI) DisplayViolation(ctx context.Context, violation error) {
	if err := ctx.Err(); err != nil || t.program == nil {
		return
	}

	t.program.Send(violationMsg{line: redStyle.Render("contract violation: " + violation.Error())})
}

// DisplaySummary switches the program to the scrollable summary view.
func (t *TUI) DisplaySummary(ctx context.Context, tree *m.Tree) {
	if err := ctx.Err(); err != nil || t.program == nil {
		return
	}

	lines := summaryLines(tree)
	lines = append(lines, "")
	lines = append(lines, strings.Split(strings.TrimRight(statsTable(tree), "\n"), "\n")...)

	t.program.Send(summaryMsg{lines: lines})
}

// DisplayReportLocation adds an artifact pointer to the summary footer.
func (t *TUI) DisplayReportLocation(ctx context.Context, label string, path string) {
	if err := ctx.Err(); err != nil || t.program == nil {
		return
	}

	t.program.Send(artifactMsg{line: boldStyle.Render(fmt.Sprintf("%s: %s", label, path))})
}

// renderTrail reuses the shared line renderer; the TUI owns one per
// session so header tracking matches the simple UI.
func (t *TUI) renderTrail(trail []*m.Node) []string {
	if t.renderer == nil {
		t.renderer = newLineRenderer(newStartConfig())
	}

	return t.renderer.resultLines(trail)
}

type resultMsg struct {
	lines   []string
	outcome m.Outcome
}

type violationMsg struct {
	line string
}

type summaryMsg struct {
	lines []string
}

type artifactMsg struct {
	line string
}

// sessionModel is the Bubble Tea model: spinner plus tail of recent
// lines while running, scrollable summary once the session finishes.
type sessionModel struct {
	spin     spinner.Model
	running  bool
	tail     []string
	passed   int
	failed   int
	skipped  int
	other    int
	summary  []string
	footer   []string
	height   int
	width    int
	offset   int
	quitting bool
}

func newSessionModel() sessionModel {
	spin := spinner.New()
	spin.Spinner = spinner.MiniDot

	return sessionModel{
		spin:    spin,
		running: true,
	}
}

func (sm sessionModel) Init() tea.Cmd {
	return sm.spin.Tick
}

func (sm sessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		sm.height = msg.Height
		sm.width = msg.Width

		return sm, nil

	case spinner.TickMsg:
		if !sm.running {
			return sm, nil
		}

		var cmd tea.Cmd
		sm.spin, cmd = sm.spin.Update(msg)

		return sm, cmd

	case resultMsg:
		sm.appendTail(msg.lines...)
		sm.countOutcome(msg.outcome)

		return sm, nil

	case violationMsg:
		sm.appendTail(msg.line)

		return sm, nil

	case summaryMsg:
		sm.running = false
		sm.summary = msg.lines
		sm.offset = 0

		return sm, nil

	case artifactMsg:
		sm.footer = append(sm.footer, msg.line)

		return sm, nil

	case tea.KeyMsg:
		return sm.handleKeyPress(msg)
	}

	return sm, nil
}

func (sm *sessionModel) appendTail(lines ...string) {
	sm.tail = append(sm.tail, lines...)
	if len(sm.tail) > liveTailSize {
		sm.tail = sm.tail[len(sm.tail)-liveTailSize:]
	}
}

func (sm *sessionModel) countOutcome(outcome m.Outcome) {
	switch outcome {
	case m.OutcomePassed:
		sm.passed++
	case m.OutcomeFailed, m.OutcomeError:
		sm.failed++
	case m.OutcomeSkipped:
		sm.skipped++
	default:
		sm.other++
	}
}

func (sm sessionModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // We only handle specific navigation keys
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		sm.quitting = true
		return sm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		sm.quitting = true
		return sm, tea.Quit

	case "down", "j":
		sm.offset++
		if sm.offset > sm.maxOffset() {
			sm.offset = sm.maxOffset()
		}

		return sm, nil

	case "up", "k":
		sm.offset--
		if sm.offset < 0 {
			sm.offset = 0
		}

		return sm, nil

	case "g", "home":
		sm.offset = 0

		return sm, nil

	case "G", "end":
		sm.offset = sm.maxOffset()

		return sm, nil

	case "d", "pgdown":
		sm.offset += sm.itemsPerPage()
		if sm.offset > sm.maxOffset() {
			sm.offset = sm.maxOffset()
		}

		return sm, nil

	case "u", "pgup":
		sm.offset -= sm.itemsPerPage()
		if sm.offset < 0 {
			sm.offset = 0
		}

		return sm, nil
	}

	return sm, nil
}

// itemsPerPage calculates how many summary lines fit on screen.
func (sm sessionModel) itemsPerPage() int {
	if sm.height == 0 {
		return 10
	}
	// Reserved lines:
	// - Status line: 2
	// - Footer (artifacts + help): 4
	reserved := 6

	available := sm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

func (sm sessionModel) maxOffset() int {
	maxOff := len(sm.summary) - sm.itemsPerPage()
	if maxOff < 0 {
		return 0
	}

	return maxOff
}

func (sm sessionModel) View() string {
	if sm.quitting {
		return sm.finalView()
	}

	if sm.running {
		return sm.runningView()
	}

	return sm.summaryView()
}

func (sm sessionModel) runningView() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s running tests  %s\n\n", sm.spin.View(), sm.statusLine())

	start := 0
	if visible := sm.itemsPerPage(); len(sm.tail) > visible {
		start = len(sm.tail) - visible
	}

	for _, line := range sm.tail[start:] {
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (sm sessionModel) summaryView() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", sm.statusLine())

	visible := sm.summary

	if len(sm.summary) > sm.itemsPerPage() {
		end := sm.offset + sm.itemsPerPage()
		if end > len(sm.summary) {
			end = len(sm.summary)
		}

		visible = sm.summary[sm.offset:end]
	}

	for _, line := range visible {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")

	for _, line := range sm.footer {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if len(sm.summary) > sm.itemsPerPage() {
		fmt.Fprintf(&b, "  Lines %d-%d of %d\n", sm.offset+1, sm.offset+sm.itemsPerPage(), len(sm.summary))
	}

	b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")

	return b.String()
}

// finalView is what stays on screen after quit: the full summary.
func (sm sessionModel) finalView() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", sm.statusLine())

	for _, line := range sm.summary {
		b.WriteString(line)
		b.WriteString("\n")
	}

	for _, line := range sm.footer {
		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func (sm sessionModel) statusLine() string {
	return fmt.Sprintf("%s %s %s",
		greenStyle.Render(fmt.Sprintf("✓ %d", sm.passed)),
		redStyle.Render(fmt.Sprintf("✗ %d", sm.failed)),
		yellowStyle.Render(fmt.Sprintf("○ %d", sm.skipped)))
}
