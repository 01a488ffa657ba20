// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tui is the interactive terminal front end: a search box whose
// contents feed a session.Controller, and a result list redrawn from the
// session states the controller publishes.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/thesis-search/internal/format"
	"github.com/pdiddy/thesis-search/internal/session"
)

// Status line texts.
const (
	searchingText = "Searching…"
	helpText      = "↑/↓ scroll • esc quit"
)

// Inputter receives the search box contents on every edit.
type Inputter interface {
	Input(q string)
}

// StateMsg carries a session state into the bubbletea event loop.
type StateMsg struct {
	State session.State
}

// Model is the bubbletea model of the search screen.
type Model struct {
	input   textinput.Model
	session Inputter
	styles  Styles
	apiBase string

	state  session.State
	offset int
	width  int
	height int
}

// New returns a Model that forwards edits to in. apiBase is shown in the
// footer.
func New(in Inputter, apiBase string) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about a thesis"
	ti.CharLimit = 512
	ti.Width = 60
	ti.Focus()

	return Model{
		input:   ti,
		session: in,
		styles:  DefaultStyles(),
		apiBase: apiBase,
		width:   80,
		height:  24,
	}
}

// Init starts the cursor blink.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles key presses, window resizes and session states.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.input.Width = max(10, msg.Width-8)
		return m, nil

	case StateMsg:
		// States are published from several goroutines; keep the newest.
		if msg.State.Seq > m.state.Seq {
			m.state = msg.State
			if m.offset >= len(m.state.Results) {
				m.offset = 0
			}
		}
		return m, nil

	case tea.KeyMsg:
		//nolint:exhaustive // only navigation and quit keys are handled here
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyUp:
			if m.offset > 0 {
				m.offset--
			}
			return m, nil
		case tea.KeyDown:
			if m.offset < len(m.state.Results)-1 {
				m.offset++
			}
			return m, nil
		}
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if after := m.input.Value(); after != before && m.session != nil {
		m.session.Input(after)
	}
	return m, cmd
}

// View renders the screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render("Thesis search"))
	b.WriteString("\n")
	b.WriteString(m.styles.Input.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	cardWidth := max(20, m.width-2)
	for i := m.offset; i < len(m.state.Results); i++ {
		b.WriteString(m.renderHit(i, cardWidth))
		b.WriteString("\n")
	}

	footer := helpText
	if m.apiBase != "" {
		footer = fmt.Sprintf("API: %s • %s", m.apiBase, helpText)
	}
	b.WriteString(m.styles.Help.Render(footer))
	return b.String()
}

// statusLine shows loading, the last error or the empty-result notice.
func (m Model) statusLine() string {
	st := m.state
	switch {
	case st.Loading:
		return m.styles.Status.Render(searchingText)
	case st.Err != nil:
		return m.styles.Error.Render(st.Err.Error())
	case st.Searched && len(st.Results) == 0 && strings.TrimSpace(st.Query) != "":
		return m.styles.Status.Render(format.NoResultsText)
	}
	return ""
}

func (m Model) renderHit(i, width int) string {
	h := m.state.Results[i]

	heading := m.styles.Title.Render(fmt.Sprintf("%d. %s", i+1, format.Heading(h)))
	score := m.styles.Score.Render("score: " + format.Score(h.Score))
	lines := []string{
		lipgloss.JoinHorizontal(lipgloss.Top, heading, "  ", score),
		m.styles.Authors.Render(format.Authors(h.Authors)),
	}
	if snippet := strings.TrimSpace(h.Snippet); snippet != "" {
		lines = append(lines, lipgloss.NewStyle().Width(width-4).Render(snippet))
	}

	var links []string
	if pdf := h.PDF(); pdf != "" {
		links = append(links, m.styles.Link.Render(pdf))
	}
	if pages := format.Pages(h); pages != "" {
		links = append(links, pages)
	}
	if len(links) > 0 {
		lines = append(lines, strings.Join(links, "  "))
	}

	return m.styles.Card.Width(width).Render(strings.Join(lines, "\n"))
}

// State returns the session state currently displayed.
func (m Model) State() session.State { return m.state }

// Query returns the search box contents.
func (m Model) Query() string { return m.input.Value() }
