// Package tui is a terminal front-end for the chooser built on bubbletea.
package tui

import (
	"filechooser/internal/chooser"
	"filechooser/internal/config"
	"filechooser/internal/errors"
	"filechooser/internal/portal"
	"filechooser/internal/tui/messages"
	"filechooser/pkg/types"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

const defaultRows = 20

type Model struct {
	chooser *chooser.Chooser
	keys    KeyMap
	styles  Styles
	help    help.Model
	spinner spinner.Model
	input   textinput.Model

	// Core state
	mode   types.Mode
	view   chooser.View
	cursor int
	offset int
	width  int
	height int

	err       error
	showHelp  bool
	response  *portal.Response
	cancelled bool
}

// New creates a model driving ch, styled from cfg's theme.
func New(ch *chooser.Chooser, cfg *config.Config) *Model {
	styles := NewStyles(cfg.Theme)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.Partial

	in := textinput.New()
	in.Prompt = "/"
	in.Placeholder = "search"

	m := &Model{
		chooser: ch,
		keys:    DefaultKeyMap(),
		styles:  styles,
		help:    help.New(),
		spinner: s,
		input:   in,
		mode:    types.Normal,
	}
	m.refresh()
	return m
}

// Init implements tea.Model
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.waitForUpdate(), m.spinner.Tick)
}

func (m *Model) waitForUpdate() tea.Cmd {
	updates := m.chooser.Updates()
	return func() tea.Msg {
		<-updates
		return messages.UpdateMsg{}
	}
}

// Update implements tea.Model
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.UpdateMsg:
		m.refresh()
		return m, m.waitForUpdate()

	case messages.DirectoryChangeMsg:
		m.err = nil
		m.cursor, m.offset = 0, 0
		m.refresh()
		return m, nil

	case messages.ErrorMsg:
		m.err = msg.Err
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()
		return m, nil

	case tea.KeyMsg:
		if m.mode == types.Search {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}
	return m, nil
}

func (m *Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.err = nil
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.cancelled = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.SetCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.SetCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.Top):
		m.SetCursor(0)
	case key.Matches(msg, m.keys.Bottom):
		m.SetCursor(len(m.view.Entries) - 1)
	case key.Matches(msg, m.keys.Open):
		return m, m.open()
	case key.Matches(msg, m.keys.Parent):
		return m, m.navigate(m.chooser.Up)
	case key.Matches(msg, m.keys.Toggle):
		m.toggle()
	case key.Matches(msg, m.keys.Hidden):
		m.chooser.SetShowHidden(!m.chooser.Filter().ShowHidden)
		m.refresh()
	case key.Matches(msg, m.keys.Preview):
		m.chooser.SetPreviewImages(!m.chooser.Filter().PreviewImages)
	case key.Matches(msg, m.keys.Filter):
		m.chooser.CycleFilter()
		m.refresh()
	case key.Matches(msg, m.keys.Search):
		m.mode = types.Search
		m.input.SetValue(m.chooser.SearchDraft())
		return m, m.input.Focus()
	case key.Matches(msg, m.keys.Refresh):
		return m, m.navigate(m.chooser.Refresh)
	case key.Matches(msg, m.keys.Accept):
		return m, m.accept()
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
	}
	return m, nil
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Commit):
		m.chooser.CommitSearch()
		m.leaveSearch()
		return m, nil
	case key.Matches(msg, m.keys.CancelInput):
		m.chooser.ClearSearch()
		m.leaveSearch()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.chooser.SetSearchDraft(m.input.Value())
	return m, cmd
}

func (m *Model) leaveSearch() {
	m.mode = types.Normal
	m.input.Blur()
	m.cursor, m.offset = 0, 0
	m.refresh()
}

// navigate runs a navigation off the update loop and reports the outcome.
func (m *Model) navigate(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return messages.ErrorMsg{Err: err}
		}
		return messages.DirectoryChangeMsg{Path: m.chooser.Dir()}
	}
}

// open enters directories and shows files in the detail pane.
func (m *Model) open() tea.Cmd {
	e := m.CurrentEntry()
	if e == nil {
		return nil
	}
	if e.IsDir() {
		return m.navigate(func() error { return m.chooser.Enter(e) })
	}
	if err := m.chooser.ActivateEntry(e); err != nil {
		m.err = err
	}
	return nil
}

func (m *Model) toggle() {
	e := m.CurrentEntry()
	if e == nil {
		return
	}
	if err := m.chooser.ToggleEntry(e, !m.chooser.IsSelected(e.Path())); err != nil {
		m.err = err
	}
}

func (m *Model) accept() tea.Cmd {
	resp, err := m.chooser.Result()
	if err != nil {
		m.err = err
		return nil
	}
	m.response = &resp
	return tea.Quit
}

func (m *Model) refresh() {
	m.view = m.chooser.View()
	m.SetCursor(m.cursor)
}

// SetCursor moves the cursor, clamped to the visible entries.
func (m *Model) SetCursor(pos int) {
	if pos >= len(m.view.Entries) {
		pos = len(m.view.Entries) - 1
	}
	if pos < 0 {
		pos = 0
	}
	m.cursor = pos
	m.scrollToCursor()
}

func (m *Model) rows() int {
	if m.height <= 0 {
		return defaultRows
	}
	// title, status and help lines
	if r := m.height - 4; r > 0 {
		return r
	}
	return 1
}

func (m *Model) scrollToCursor() {
	rows := m.rows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+rows {
		m.offset = m.cursor - rows + 1
	}
}

// Cursor returns the cursor index into the visible entries.
func (m *Model) Cursor() int {
	return m.cursor
}

// Mode returns the input mode.
func (m *Model) Mode() types.Mode {
	return m.mode
}

// CurrentEntry returns the entry under the cursor, or nil.
func (m *Model) CurrentEntry() types.Entry {
	if m.cursor < 0 || m.cursor >= len(m.view.Entries) {
		return nil
	}
	return m.view.Entries[m.cursor]
}

// Err returns the last error shown in the status line.
func (m *Model) Err() error {
	return m.err
}

// Response returns the accepted response, if the user accepted.
func (m *Model) Response() (portal.Response, bool) {
	if m.response == nil {
		return portal.Response{}, false
	}
	return *m.response, true
}

// Cancelled reports whether the user quit without accepting.
func (m *Model) Cancelled() bool {
	return m.cancelled
}

// Run starts a bubbletea program over m and returns the accepted
// response. Cancelling yields ErrCancelled.
func Run(m *Model, opts ...tea.ProgramOption) (portal.Response, error) {
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return portal.Response{}, errors.Wrap(err, "running terminal chooser")
	}
	fm := final.(*Model)
	if resp, ok := fm.Response(); ok {
		return resp, nil
	}
	return portal.Response{}, ErrCancelled
}

// ErrCancelled is returned by Run when the user quits without accepting.
var ErrCancelled = errors.New("selection cancelled")
