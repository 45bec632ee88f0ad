package ui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repokit/repokit/internal/links"
)

var testLinks = []links.Link{
	{Name: "a.pdf", Rel: "a.pdf", Path: "proj/a.pdf", URL: "https://github.com/alice/proj/raw/master/a.pdf"},
	{Name: "b.epub", Rel: "docs/b.epub", Path: "proj/docs/b.epub", URL: "https://github.com/alice/proj/raw/master/docs/b.epub"},
	{Name: "c.zip", Rel: "c.zip", Path: "proj/c.zip", URL: "https://github.com/alice/proj/raw/master/c.zip"},
}

var (
	keySpace = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msgs ...tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	var cmd tea.Cmd
	for _, msg := range msgs {
		var next tea.Model
		next, cmd = m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m, cmd
}

func loaded(t *testing.T) Model {
	t.Helper()
	m := New("proj", func() ([]links.Link, error) { return testLinks, nil })
	m, _ = send(t, m,
		tea.WindowSizeMsg{Width: 100, Height: 40},
		LinksLoadedMsg{Links: testLinks},
	)
	return m
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestLoadLinksCmd(t *testing.T) {
	t.Parallel()

	msg := LoadLinksCmd(func() ([]links.Link, error) { return testLinks, nil })()
	loadedMsg, ok := msg.(LinksLoadedMsg)
	require.True(t, ok)
	assert.Len(t, loadedMsg.Links, 3)
	assert.NoError(t, loadedMsg.Err)
}

func TestModel_Loading(t *testing.T) {
	t.Parallel()

	m := New("proj", nil)
	assert.Contains(t, m.View(), "Scanning project")

	// Selection keys do nothing before links arrive.
	m, _ = send(t, m, keySpace)
	assert.Empty(t, m.Selected())
}

func TestModel_ToggleAndConfirm(t *testing.T) {
	t.Parallel()

	m := loaded(t)
	m, _ = send(t, m, keySpace, keyDown, keyDown, keySpace)
	assert.Equal(t, []links.Link{testLinks[0], testLinks[2]}, m.Selected())
	assert.Contains(t, m.View(), "2 selected")

	m, cmd := send(t, m, keyEnter)
	assert.True(t, m.Confirmed())
	assert.True(t, isQuit(cmd))
	assert.Equal(t, []links.Link{testLinks[0], testLinks[2]}, m.Selected())
}

func TestModel_ToggleTwiceDeselects(t *testing.T) {
	t.Parallel()

	m := loaded(t)
	m, _ = send(t, m, keySpace, keySpace)
	assert.Empty(t, m.Selected())
}

func TestModel_ConfirmWithoutSelectionTakesCurrent(t *testing.T) {
	t.Parallel()

	m := loaded(t)
	m, _ = send(t, m, keyDown, keyEnter)
	assert.True(t, m.Confirmed())
	assert.Equal(t, []links.Link{testLinks[1]}, m.Selected())
}

func TestModel_ToggleAll(t *testing.T) {
	t.Parallel()

	m := loaded(t)
	m, _ = send(t, m, runes("a"))
	assert.Equal(t, testLinks, m.Selected())

	m, _ = send(t, m, runes("a"))
	assert.Empty(t, m.Selected())
}

func TestModel_Quit(t *testing.T) {
	t.Parallel()

	m := loaded(t)
	m, cmd := send(t, m, keySpace, runes("q"))
	assert.True(t, isQuit(cmd))
	assert.False(t, m.Confirmed())
	assert.Empty(t, m.View())
}

func TestModel_LoadError(t *testing.T) {
	t.Parallel()

	m := New("proj", nil)
	m, _ = send(t, m, LinksLoadedMsg{Err: errors.New("not root dir of git project")})
	require.Error(t, m.Err())
	assert.Contains(t, m.View(), "not root dir of git project")

	m, _ = send(t, m, keyEnter)
	assert.False(t, m.Confirmed())
}

func TestModel_Empty(t *testing.T) {
	t.Parallel()

	m := New("proj", nil)
	m, _ = send(t, m, LinksLoadedMsg{})
	assert.Contains(t, m.View(), "No matching files.")

	m, _ = send(t, m, keyEnter)
	assert.Empty(t, m.Selected())
}

func TestModel_HelpToggle(t *testing.T) {
	t.Parallel()

	m := loaded(t)
	assert.Contains(t, m.View(), "space select")
	m, _ = send(t, m, runes("?"))
	assert.Contains(t, m.View(), "print selected")
}

func TestLinkItem(t *testing.T) {
	t.Parallel()

	items := LinksToItems(testLinks)
	require.Len(t, items, 3)
	assert.Equal(t, 1, items[1].Index)
	assert.Equal(t, "docs/b.epub", items[1].FilterValue())
	assert.Contains(t, items[1].Title(), "b.epub")
	assert.Contains(t, items[1].DetailView(), testLinks[1].URL)
	assert.Contains(t, items[1].DetailView(), "[b.epub]("+testLinks[1].URL+")")
}
