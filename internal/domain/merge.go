package domain

import (
	"log/slog"
	"time"

	m "describely.dev/pkg/describely/internal/model"
)

// MergeTrees combines several report trees (typically one per CI shard)
// into one. Each tree is flattened back into discovery paths and
// results and replayed through a fresh collector, so the merged tree
// obeys the same dedup and ordering invariants as a live run. When two
// shards report the same test, the later tree wins.
func MergeTrees(slowThreshold time.Duration, trees ...*m.Tree) *m.Tree {
	collector := NewCollector(slowThreshold)

	// Record every path first: the collector freezes its structure on
	// the first attached result.
	for _, tree := range trees {
		for _, root := range tree.Roots {
			walkTests(root, nil, func(trail []*m.Node) {
				if err := collector.RecordPath(segmentsFor(trail)); err != nil {
					slog.Warn("skipping unmergeable path", "error", err)
				}
			})
		}
	}

	for _, tree := range trees {
		for _, root := range tree.Roots {
			walkTests(root, nil, func(trail []*m.Node) {
				test := trail[len(trail)-1]
				if test.Result == nil || test.Result.Outcome == m.OutcomePending {
					return
				}

				if _, err := collector.AttachResult(test.ID, *test.Result); err != nil {
					slog.Warn("skipping unmergeable result", "id", test.ID, "error", err)
				}
			})
		}
	}

	return collector.Finalize()
}

// walkTests visits every test node, passing the full root-to-test trail.
func walkTests(node *m.Node, ancestors []*m.Node, visit func(trail []*m.Node)) {
	trail := make([]*m.Node, 0, len(ancestors)+1)
	trail = append(trail, ancestors...)
	trail = append(trail, node)

	if node.IsTest() {
		visit(trail)
		return
	}

	for _, child := range node.Children {
		walkTests(child, trail, visit)
	}
}

func segmentsFor(trail []*m.Node) []m.Segment {
	segments := make([]m.Segment, 0, len(trail))

	for _, node := range trail {
		segment := m.Segment{
			Name:      node.Name,
			Kind:      node.Kind,
			Docstring: node.Docstring,
		}
		if node.IsTest() && node.Result != nil {
			segment.Fixtures = node.Result.FixtureNames
		}

		segments = append(segments, segment)
	}

	return segments
}
