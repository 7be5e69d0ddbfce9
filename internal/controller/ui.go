// Package controller provides output controllers for displaying test
// session progress and summaries.
package controller

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	m "describely.dev/pkg/describely/internal/model"
)

// StartOption is a functional option for the Start method.
type StartOption func(*StartConfig)

// StartConfig holds display configuration for a session.
type StartConfig struct {
	expandAll     bool
	noFixtures    bool
	slowThreshold time.Duration
}

// WithExpandAll shows docstrings and fixture names inline.
func WithExpandAll() StartOption {
	return func(c *StartConfig) {
		c.expandAll = true
	}
}

// WithNoFixtures suppresses fixture display even in expanded mode.
func WithNoFixtures() StartOption {
	return func(c *StartConfig) {
		c.noFixtures = true
	}
}

// WithSlowThreshold flags tests slower than d in the output.
// Non-positive values keep the default.
func WithSlowThreshold(d time.Duration) StartOption {
	return func(c *StartConfig) {
		if d > 0 {
			c.slowThreshold = d
		}
	}
}

func newStartConfig(options ...StartOption) StartConfig {
	cfg := StartConfig{slowThreshold: m.DefaultSlowThreshold}
	for _, option := range options {
		option(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying a test session.
// Implementations can use different output methods (simple text, TUI).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for the UI to finish (user closes it)
	// DisplayTestResult renders one completed test, in arrival order.
	// trail is the root-to-test node path.
	DisplayTestResult(ctx context.Context, trail []*m.Node)
	// DisplayViolation reports a host-runner contract violation.
	DisplayViolation(ctx context.Context, violation error)
	// DisplaySummary renders the final tree-ordered summary.
	DisplaySummary(ctx context.Context, tree *m.Tree)
	// DisplayReportLocation points the user at a generated artifact.
	DisplayReportLocation(ctx context.Context, label string, path string)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// NewUI selects the TUI on interactive terminals and the simple
// sequential UI otherwise.
func NewUI(cmd *cobra.Command, interactive bool) UI {
	if interactive {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}
