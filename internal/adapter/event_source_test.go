package adapter

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "describely.dev/pkg/describely/internal/model"
)

func collectEvents(t *testing.T, input string) []m.Event {
	t.Helper()

	var events []m.Event

	source := NewJSONLEventSource(strings.NewReader(input))
	err := source.Each(context.Background(), func(event m.Event) error {
		events = append(events, event)
		return nil
	})
	require.NoError(t, err)

	return events
}

func TestJSONLEventSource_ParsesBothKinds(t *testing.T) {
	input := `{"event":"discovered","path":[{"name":"a.py","kind":"file"},{"name":"it_x","kind":"test","fixtures":["db"]}]}
{"event":"result","id":"a.py::it_x","outcome":"failed","duration":0.25,"longrepr":"assert False"}
`

	events := collectEvents(t, input)
	require.Len(t, events, 2)

	discovered := events[0]
	assert.Equal(t, m.EventDiscovered, discovered.Kind)
	require.Len(t, discovered.Path, 2)
	assert.Equal(t, m.KindFile, discovered.Path[0].Kind)
	assert.Equal(t, []string{"db"}, discovered.Path[1].Fixtures)

	result := events[1]
	assert.Equal(t, m.EventResult, result.Kind)
	assert.Equal(t, "a.py::it_x", result.TestID)
	assert.Equal(t, m.OutcomeFailed, result.Outcome)
	assert.Equal(t, 0.25, result.Duration)
	assert.Equal(t, "assert False", result.LongRepr)
}

func TestJSONLEventSource_SkipsBadLines(t *testing.T) {
	input := `
{"event":"result","id":"a.py::it_x","outcome":"passed","duration":0.1}

not json at all
{"event":"reboot"}
{"event":"result","id":"a.py::it_y","outcome":"skipped"}
`

	events := collectEvents(t, input)
	require.Len(t, events, 2)
	assert.Equal(t, "a.py::it_x", events[0].TestID)
	assert.Equal(t, "a.py::it_y", events[1].TestID)
}

func TestJSONLEventSource_CallbackErrorStopsStream(t *testing.T) {
	input := `{"event":"result","id":"a.py::it_x","outcome":"passed"}
{"event":"result","id":"a.py::it_y","outcome":"passed"}
`

	calls := 0
	source := NewJSONLEventSource(strings.NewReader(input))
	err := source.Each(context.Background(), func(_ m.Event) error {
		calls++
		return assert.AnError
	})

	require.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, 1, calls)
}

func TestJSONLEventSource_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	source := NewJSONLEventSource(strings.NewReader(`{"event":"result","id":"x","outcome":"passed"}`))
	err := source.Each(ctx, func(_ m.Event) error { return nil })

	require.ErrorIs(t, err, context.Canceled)
}
