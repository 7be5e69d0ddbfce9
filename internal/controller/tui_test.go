package controller

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "describely.dev/pkg/describely/internal/model"
)

func updatedModel(t *testing.T, sm sessionModel, msg tea.Msg) sessionModel {
	t.Helper()

	next, _ := sm.Update(msg)

	model, ok := next.(sessionModel)
	require.True(t, ok)

	return model
}

func TestSessionModel_CountsOutcomes(t *testing.T) {
	sm := newSessionModel()

	sm = updatedModel(t, sm, resultMsg{lines: []string{"✓ one"}, outcome: m.OutcomePassed})
	sm = updatedModel(t, sm, resultMsg{lines: []string{"✗ two"}, outcome: m.OutcomeFailed})
	sm = updatedModel(t, sm, resultMsg{lines: []string{"☠ three"}, outcome: m.OutcomeError})
	sm = updatedModel(t, sm, resultMsg{lines: []string{"○ four"}, outcome: m.OutcomeSkipped})

	assert.Equal(t, 1, sm.passed)
	assert.Equal(t, 2, sm.failed)
	assert.Equal(t, 1, sm.skipped)
	assert.Len(t, sm.tail, 4)
	assert.Contains(t, sm.View(), "✓ 1")
}

func TestSessionModel_TailIsBounded(t *testing.T) {
	sm := newSessionModel()

	for range liveTailSize + 50 {
		sm = updatedModel(t, sm, resultMsg{lines: []string{"line"}, outcome: m.OutcomePassed})
	}

	assert.Len(t, sm.tail, liveTailSize)
}

func TestSessionModel_SummarySwitchesView(t *testing.T) {
	sm := newSessionModel()
	sm = updatedModel(t, sm, resultMsg{lines: []string{"✓ one"}, outcome: m.OutcomePassed})

	sm = updatedModel(t, sm, summaryMsg{lines: []string{"Test Summary", "└── ✓ it one"}})
	require.False(t, sm.running)

	view := sm.View()
	assert.Contains(t, view, "Test Summary")
	assert.Contains(t, view, "q: quit")
}

func TestSessionModel_ScrollKeys(t *testing.T) {
	sm := newSessionModel()
	sm = updatedModel(t, sm, tea.WindowSizeMsg{Width: 80, Height: 10})

	lines := make([]string, 30)
	for i := range lines {
		lines[i] = "line"
	}

	sm = updatedModel(t, sm, summaryMsg{lines: lines})

	sm = updatedModel(t, sm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 1, sm.offset)

	sm = updatedModel(t, sm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, sm.maxOffset(), sm.offset)

	// Down at the bottom stays clamped.
	sm = updatedModel(t, sm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, sm.maxOffset(), sm.offset)

	sm = updatedModel(t, sm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 0, sm.offset)

	sm = updatedModel(t, sm, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}})
	assert.Equal(t, 0, sm.offset)
}

func TestSessionModel_QuitShowsFinalView(t *testing.T) {
	sm := newSessionModel()
	sm = updatedModel(t, sm, summaryMsg{lines: []string{"Test Summary"}})
	sm = updatedModel(t, sm, artifactMsg{line: "Report: out/report.yaml"})

	next, cmd := sm.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	require.NotNil(t, cmd)

	model, ok := next.(sessionModel)
	require.True(t, ok)
	assert.True(t, model.quitting)

	view := model.View()
	assert.Contains(t, view, "Test Summary")
	assert.Contains(t, view, "Report: out/report.yaml")
	assert.NotContains(t, view, "q: quit")
}
