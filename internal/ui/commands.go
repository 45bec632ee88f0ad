package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/repokit/repokit/internal/links"
)

// Loader produces the links to pick from. It runs off the UI goroutine.
type Loader func() ([]links.Link, error)

// LoadLinksCmd returns a command that runs load and reports its result.
func LoadLinksCmd(load Loader) tea.Cmd {
	return func() tea.Msg {
		list, err := load()
		return LinksLoadedMsg{Links: list, Err: err}
	}
}
