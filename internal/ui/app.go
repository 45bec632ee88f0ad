// Package ui implements the interactive link picker used by ghlinks.
package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/repokit/repokit/internal/links"
)

type appState int

const (
	stateLoading appState = iota // Scanning the project
	statePicking                 // Showing the list
)

// Model is the picker model.
type Model struct {
	state     appState
	quitting  bool
	confirmed bool
	err       error

	links    []links.Link
	selected map[int]bool

	spinner spinner.Model
	list    list.Model
	help    help.Model
	keys    KeyMap
	load    Loader

	width    int
	height   int
	showHelp bool

	root string
}

// New creates a picker for the project at root. load is run once on start.
func New(root string, load Loader) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle()

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.SelectedTitle = SelectedStyle
	delegate.Styles.SelectedDesc = StatusStyle

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Download links"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	l.Styles.Title = TitleStyle

	return Model{
		state:    stateLoading,
		selected: map[int]bool{},
		spinner:  s,
		list:     l,
		help:     help.New(),
		keys:     DefaultKeyMap(),
		load:     load,
		root:     root,
	}
}

// Init starts the spinner and the loader.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, LoadLinksCmd(m.load))
}

// Confirmed reports whether the user accepted the selection.
func (m Model) Confirmed() bool {
	return m.confirmed
}

// Err returns the loader error, if any.
func (m Model) Err() error {
	return m.err
}

// Selected returns the chosen links in traversal order.
func (m Model) Selected() []links.Link {
	var out []links.Link
	for i, l := range m.links {
		if m.selected[i] {
			out = append(out, l)
		}
	}
	return out
}

// Update handles messages and returns the updated model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Reserve space for header, summary and detail panel
		m.list.SetSize(msg.Width, max(msg.Height-12, 5))
		return m, nil

	case spinner.TickMsg:
		if m.state != stateLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case LinksLoadedMsg:
		return m.handleLinksLoaded(msg)
	}

	if m.state == statePicking {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While typing a filter every key belongs to the list.
	if m.state == statePicking && m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.state != statePicking || m.err != nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent()
		return m, nil

	case key.Matches(msg, m.keys.ToggleAll):
		m.toggleAll()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if len(m.selected) == 0 {
			m.toggleCurrent()
		}
		m.confirmed = true
		m.quitting = true
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleLinksLoaded(msg LinksLoadedMsg) (tea.Model, tea.Cmd) {
	m.state = statePicking
	if msg.Err != nil {
		m.err = msg.Err
		return m, nil
	}
	m.links = msg.Links

	items := make([]list.Item, len(msg.Links))
	for i, it := range LinksToItems(msg.Links) {
		items[i] = it
	}
	return m, m.list.SetItems(items)
}

func (m *Model) toggleCurrent() {
	item, ok := m.list.SelectedItem().(LinkItem)
	if !ok {
		return
	}
	m.setSelected(item, !m.selected[item.Index])
}

func (m *Model) toggleAll() {
	all := len(m.selected) != len(m.links)
	for i, it := range m.list.Items() {
		if item, ok := it.(LinkItem); ok {
			item.Selected = all
			m.list.SetItem(i, item)
			if all {
				m.selected[item.Index] = true
			} else {
				delete(m.selected, item.Index)
			}
		}
	}
}

func (m *Model) setSelected(item LinkItem, on bool) {
	if on {
		m.selected[item.Index] = true
	} else {
		delete(m.selected, item.Index)
	}
	item.Selected = on
	m.list.SetItem(item.Index, item)
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := TitleStyle.Render("ghlinks - "+m.root) + "\n\n"

	if m.err != nil {
		s += ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err))
		s += "\n"
		s += HelpStyle.Render("Press q to quit")
		return s
	}

	switch m.state {
	case stateLoading:
		s += m.spinner.View() + " Scanning project..."

	case statePicking:
		s += m.renderList()
	}

	if m.showHelp {
		s += "\n\n" + m.help.View(m.keys)
	} else {
		s += "\n\n" + m.renderShortHelp()
	}
	return s
}

func (m Model) renderList() string {
	if len(m.links) == 0 {
		return MutedStyle.Render("No matching files.")
	}

	s := fmt.Sprintf("%d link(s), %s\n\n",
		len(m.links), SuccessStyle.Render(fmt.Sprintf("%d selected", len(m.selected))))

	s += m.list.View()

	if item, ok := m.list.SelectedItem().(LinkItem); ok {
		s += "\n" + item.DetailView()
	}
	return s
}

func (Model) renderShortHelp() string {
	return HelpStyle.Render("↑/↓ navigate • space select • a all • / filter • enter print • q quit")
}
