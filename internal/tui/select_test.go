package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/bookcall/internal/catalog"
	"github.com/stretchr/testify/require"
)

var austen = catalog.Books{
	{ISBN: "978-0141439518", Title: "Pride and Prejudice", Author: "Jane Austen"},
	{ISBN: "978-0141439587", Title: "Emma", Author: "Jane Austen"},
}

func stubProgram(t *testing.T, fn func(tea.Model) (tea.Model, error)) {
	t.Helper()
	orig := runProgram
	runProgram = fn
	t.Cleanup(func() { runProgram = orig })
}

func TestSelectBookEmptySkipsWithoutProgram(t *testing.T) {
	stubProgram(t, func(tea.Model) (tea.Model, error) {
		t.Fatal("program should not start for empty results")
		return nil, nil
	})

	res, err := SelectBook("Nobody", nil)
	require.NoError(t, err)
	require.Equal(t, ActionSkipped, res.Action)
	require.Nil(t, res.Selection)
}

func TestModelEnterSelectsHighlightedBook(t *testing.T) {
	m := newModel("Austen", austen)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyDown})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, cmd)
	require.Equal(t, ActionSelected, m.result.Action)
	require.Equal(t, austen[1], *m.result.Selection)
}

func TestModelSkipAndStopKeys(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want SelectionAction
	}{
		{name: "s skips", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")}, want: ActionSkipped},
		{name: "esc skips", msg: tea.KeyMsg{Type: tea.KeyEsc}, want: ActionSkipped},
		{name: "q stops", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}, want: ActionStopped},
		{name: "ctrl+c stops", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: ActionStopped},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel("Austen", austen)
			_, cmd := m.Update(tt.msg)
			require.NotNil(t, cmd)
			require.Equal(t, tt.want, m.result.Action)
			require.Nil(t, m.result.Selection)
		})
	}
}

func TestModelView(t *testing.T) {
	m := newModel("Austen", austen)
	view := m.View()

	require.Contains(t, view, `2 books match "Austen"`)
	require.Contains(t, view, "Pride and Prejudice")
	require.Contains(t, view, "Enter select")
}

func TestSelectBookReturnsProgramResult(t *testing.T) {
	stubProgram(t, func(m tea.Model) (tea.Model, error) {
		typed := m.(*model)
		_, _ = typed.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return typed, nil
	})

	res, err := SelectBook("Austen", austen)
	require.NoError(t, err)
	require.Equal(t, ActionSelected, res.Action)
	require.Equal(t, austen[0], *res.Selection)
}

func TestSelectBookProgramError(t *testing.T) {
	stubProgram(t, func(tea.Model) (tea.Model, error) {
		return nil, errors.New("no tty")
	})

	_, err := SelectBook("Austen", austen)
	require.ErrorContains(t, err, "no tty")
}

func TestTruncateAndClamp(t *testing.T) {
	require.Equal(t, "abc", truncate("  abc ", 10))
	require.Equal(t, "abcd...", truncate(strings.Repeat("abcd", 5), 7))
	require.Equal(t, "ab", truncate("abcdef", 2))
	require.Equal(t, 50, clamp(72, 50, 40))
	require.Equal(t, 40, clamp(72, 10, 40))
	require.Equal(t, 72, clamp(72, 0, 40))
}
