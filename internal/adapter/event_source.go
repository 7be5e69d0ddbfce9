// Package adapter provides the boundary adapters between describely and
// the outside world: the inbound event stream and the report store.
package adapter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	m "describely.dev/pkg/describely/internal/model"
)

// Lines carrying a full traceback can be large.
const (
	scannerInitialBuffer = 64 * 1024
	scannerMaxBuffer     = 4 * 1024 * 1024
)

// EventSource yields host-runner events in stream order.
// Implementations can read from stdin, files, or recorded journals.
type EventSource interface {
	// Each calls fn for every event until the stream ends, fn returns an
	// error, or the context is cancelled.
	Each(ctx context.Context, fn func(event m.Event) error) error
}

// JSONLEventSource reads newline-delimited JSON events from a reader.
// Malformed lines are logged and skipped: a broken producer line must
// not take down the rest of the session.
type JSONLEventSource struct {
	reader io.Reader
}

// NewJSONLEventSource creates an event source over r.
func NewJSONLEventSource(r io.Reader) *JSONLEventSource {
	return &JSONLEventSource{reader: r}
}

// Each implements EventSource.
func (s *JSONLEventSource) Each(ctx context.Context, fn func(event m.Event) error) error {
	scanner := bufio.NewScanner(s.reader)
	scanner.Buffer(make([]byte, 0, scannerInitialBuffer), scannerMaxBuffer)

	lineNumber := 0

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		lineNumber++

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var event m.Event
		if err := json.Unmarshal([]byte(line), &event); err != nil {
			slog.Warn("skipping malformed event line", "line", lineNumber, "error", err)
			continue
		}

		if event.Kind != m.EventDiscovered && event.Kind != m.EventResult {
			slog.Warn("skipping event of unknown kind", "line", lineNumber, "kind", string(event.Kind))
			continue
		}

		if err := fn(event); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read event stream: %w", err)
	}

	return nil
}
