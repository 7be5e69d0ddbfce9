package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"describely.dev/pkg/describely/internal/adapter"
	"describely.dev/pkg/describely/internal/controller"
	m "describely.dev/pkg/describely/internal/model"
	"describely.dev/pkg/describely/pkg"
)

// HTMLReportFileName is written next to report.yaml when HTML output is
// requested.
const HTMLReportFileName = "report.html"

// shardDirPattern matches per-shard report directories under the merge
// root, the layout sharded CI jobs produce.
const shardDirPattern = "shard_*"

// SessionArgs carries the per-invocation settings shared by the
// workflow operations.
type SessionArgs struct {
	Reports       m.Path
	SlowThreshold time.Duration
	ExpandAll     bool
	NoFixtures    bool
	HTMLReport    bool
	RecordPath    m.Path
}

// Workflow ties the event pipeline together: adapters feed the
// collector, the collector feeds the UI and the report store.
type Workflow interface {
	Run(ctx context.Context, source adapter.EventSource, args SessionArgs) error
	View(ctx context.Context, args SessionArgs) error
	Merge(ctx context.Context, shardsRoot m.Path, args SessionArgs) error
	Replay(ctx context.Context, journalPath m.Path, args SessionArgs) error
}

type workflow struct {
	adapter.ReportStore
	controller.UI
}

// NewWorkflow creates a Workflow with the provided dependencies.
func NewWorkflow(reportStore adapter.ReportStore, ui controller.UI) Workflow {
	return &workflow{
		ReportStore: reportStore,
		UI:          ui,
	}
}

// Run consumes the event stream, renders results live, and persists the
// finished tree.
func (w *workflow) Run(ctx context.Context, source adapter.EventSource, args SessionArgs) error {
	collector := NewCollector(args.SlowThreshold)

	if err := w.Start(ctx, startOptions(args)...); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	var journal pkg.FileSpill[m.Event]

	if args.RecordPath != "" {
		var err error

		journal, err = pkg.NewFileSpillAt[m.Event](string(args.RecordPath))
		if err != nil {
			w.Close(ctx)
			return fmt.Errorf("create journal: %w", err)
		}

		defer func() {
			if err := journal.Close(); err != nil {
				slog.Warn("failed to close journal", "path", args.RecordPath, "error", err)
			}
		}()
	}

	err := source.Each(ctx, func(event m.Event) error {
		if journal != nil {
			if err := journal.Append(event); err != nil {
				return fmt.Errorf("record event: %w", err)
			}
		}

		w.dispatch(ctx, collector, event)

		return nil
	})
	if err != nil {
		w.Close(ctx)
		w.Wait(ctx)

		return fmt.Errorf("consume events: %w", err)
	}

	return w.finish(ctx, collector.Finalize(), args)
}

// View re-renders a previously saved report without an event stream.
func (w *workflow) View(ctx context.Context, args SessionArgs) error {
	tree, err := w.Load(args.Reports)
	if err != nil {
		return fmt.Errorf("load report: %w", err)
	}

	if err := w.Start(ctx, startOptions(args)...); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	return w.finishWithoutSave(ctx, tree, args)
}

// Merge combines per-shard reports under shardsRoot into one tree and
// saves it to args.Reports.
func (w *workflow) Merge(ctx context.Context, shardsRoot m.Path, args SessionArgs) error {
	shardDirs, err := filepath.Glob(filepath.Join(string(shardsRoot), shardDirPattern))
	if err != nil {
		return fmt.Errorf("scan shards: %w", err)
	}

	sort.Strings(shardDirs)

	trees := make([]*m.Tree, 0, len(shardDirs))

	for _, dir := range shardDirs {
		tree, err := w.Load(m.Path(dir))
		if err != nil {
			// Shards that died before writing a report are expected; merge
			// what exists.
			if pathError(err) {
				slog.Warn("shard has no report, skipping", "dir", dir)
				continue
			}

			return fmt.Errorf("load shard %s: %w", dir, err)
		}

		trees = append(trees, tree)
	}

	if len(trees) == 0 {
		return fmt.Errorf("no shard reports found under %s", shardsRoot)
	}

	merged := MergeTrees(args.SlowThreshold, trees...)

	if err := w.Start(ctx, startOptions(args)...); err != nil {
		return fmt.Errorf("start ui: %w", err)
	}

	return w.finish(ctx, merged, args)
}

// Replay re-feeds a recorded journal through the live pipeline.
func (w *workflow) Replay(ctx context.Context, journalPath m.Path, args SessionArgs) error {
	source, err := adapter.OpenJournal(journalPath)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}

	defer func() {
		if err := source.Close(); err != nil {
			slog.Warn("failed to close journal", "path", journalPath, "error", err)
		}
	}()

	slog.Debug("replaying journal", "path", journalPath, "events", source.Len())

	replayArgs := args
	replayArgs.RecordPath = ""

	return w.Run(ctx, source, replayArgs)
}

// dispatch routes one event into the collector and the UI. Contract
// violations are surfaced and the stream keeps going.
func (w *workflow) dispatch(ctx context.Context, collector *Collector, event m.Event) {
	switch event.Kind {
	case m.EventDiscovered:
		if err := collector.RecordPath(event.Path); err != nil {
			w.DisplayViolation(ctx, err)
		}

	case m.EventResult:
		result := m.Result{
			Outcome:  event.Outcome,
			Duration: time.Duration(event.Duration * float64(time.Second)),
			LongRepr: event.LongRepr,
		}

		if _, err := collector.AttachResult(event.TestID, result); err != nil {
			w.DisplayViolation(ctx, err)
			return
		}

		w.DisplayTestResult(ctx, collector.Trail(event.TestID))
	}
}

// finish shows the summary, saves the report, and optionally generates
// the HTML artifact.
func (w *workflow) finish(ctx context.Context, tree *m.Tree, args SessionArgs) error {
	w.DisplaySummary(ctx, tree)

	if err := w.Save(args.Reports, tree); err != nil {
		w.Close(ctx)
		w.Wait(ctx)

		return fmt.Errorf("save report: %w", err)
	}

	w.DisplayReportLocation(ctx, "Report", filepath.Join(string(args.Reports), adapter.ReportFileName))

	w.generateHTML(ctx, tree, args)

	w.Wait(ctx)

	return nil
}

// finishWithoutSave is finish for read-only operations.
func (w *workflow) finishWithoutSave(ctx context.Context, tree *m.Tree, args SessionArgs) error {
	w.DisplaySummary(ctx, tree)
	w.generateHTML(ctx, tree, args)
	w.Wait(ctx)

	return nil
}

// generateHTML writes the HTML report. Failures are reported but never
// fail the session: the terminal summary already happened.
func (w *workflow) generateHTML(ctx context.Context, tree *m.Tree, args SessionArgs) {
	if !args.HTMLReport {
		return
	}

	target := filepath.Join(string(args.Reports), HTMLReportFileName)

	reporter := controller.NewHTMLReporter(args.SlowThreshold)
	if err := reporter.GenerateReport(tree, target); err != nil {
		slog.Warn("failed to generate HTML report", "path", target, "error", err)
		return
	}

	w.DisplayReportLocation(ctx, "HTML report", target)
}

func startOptions(args SessionArgs) []controller.StartOption {
	options := []controller.StartOption{controller.WithSlowThreshold(args.SlowThreshold)}

	if args.ExpandAll {
		options = append(options, controller.WithExpandAll())
	}

	if args.NoFixtures {
		options = append(options, controller.WithNoFixtures())
	}

	return options
}

func pathError(err error) bool {
	var perr *fs.PathError

	return errors.As(err, &perr)
}
