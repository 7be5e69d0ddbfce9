package controller

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	m "describely.dev/pkg/describely/internal/model"
)

// SimpleUI implements UI with plain sequential output through the cobra
// command. Used for non-interactive terminals and piped output.
type SimpleUI struct {
	cmd      *cobra.Command
	renderer *lineRenderer
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.renderer = newLineRenderer(newStartConfig(options...))

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(ctx context.Context) {
	if err := ctx.Err(); err != nil {
		return
	}
	// SimpleUI doesn't block - it just prints and continues
}

// DisplayTestResult prints one completed test in arrival order,
// together with any describe headers not yet entered.
func (s *SimpleUI) DisplayTestResult(ctx context.Context, trail []*m.Node) {
	if err := ctx.Err(); err != nil {
		return
	}

	if s.renderer == nil {
		s.renderer = newLineRenderer(newStartConfig())
	}

	for _, line := range s.renderer.resultLines(trail) {
		s.printf("%s\n", line)
	}
}

// DisplayViolation reports a host-runner contract violation.
func (s *SimpleUI) DisplayViolation(ctx context.Context, violation error) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("%s\n", redStyle.Render("contract violation: "+violation.Error()))
}

// DisplaySummary prints the tree-ordered summary and the per-file
// statistics table.
func (s *SimpleUI) DisplaySummary(ctx context.Context, tree *m.Tree) {
	if err := ctx.Err(); err != nil {
		return
	}

	for _, line := range summaryLines(tree) {
		s.printf("%s\n", line)
	}

	s.printf("\n%s", statsTable(tree))
}

// DisplayReportLocation points the user at a generated artifact.
func (s *SimpleUI) DisplayReportLocation(ctx context.Context, label string, path string) {
	if err := ctx.Err(); err != nil {
		return
	}

	s.printf("\n%s\n", boldStyle.Render(fmt.Sprintf("%s: %s", label, path)))
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
