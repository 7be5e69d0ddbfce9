package adapter

import (
	"context"
	"fmt"

	m "describely.dev/pkg/describely/internal/model"
	"describely.dev/pkg/describely/pkg"
)

// JournalEventSource replays events from a journal recorded with
// `run --record`. It satisfies EventSource, so replayed sessions go
// through the same pipeline as live ones.
type JournalEventSource struct {
	journal pkg.FileSpill[m.Event]
}

// OpenJournal opens a recorded journal for replay.
func OpenJournal(path m.Path) (*JournalEventSource, error) {
	journal, err := pkg.OpenFileSpill[m.Event](string(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	return &JournalEventSource{journal: journal}, nil
}

// Len returns the number of recorded events.
func (s *JournalEventSource) Len() uint64 {
	return s.journal.Len()
}

// Each implements EventSource.
func (s *JournalEventSource) Each(ctx context.Context, fn func(event m.Event) error) error {
	return s.journal.Range(func(_ uint64, event m.Event) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		return fn(event)
	})
}

// Close releases the underlying journal.
func (s *JournalEventSource) Close() error {
	return s.journal.Close()
}
