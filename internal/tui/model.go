// Package tui implements the interactive artwork table.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/artic-table/pkg/browser"
	"github.com/Sternrassler/artic-table/pkg/catalog"
	"github.com/Sternrassler/artic-table/pkg/logging"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"
)

const statusTimeout = 4 * time.Second

// Model is the root bubbletea model of the artwork table
type Model struct {
	ctrl   *browser.Controller
	state  browser.State
	table  table.Model
	prompt CountPrompt
	help   help.Model
	keys   KeyMap
	logger zerolog.Logger

	bulkRunning bool
	status      string
	statusErr   bool
	width       int
	height      int
}

// NewModel creates the model over ctrl
func NewModel(ctrl *browser.Controller) Model {
	state := ctrl.State()

	t := table.New(
		table.WithColumns(columns(state, 100)),
		table.WithHeight(state.Rows),
		table.WithFocused(true),
	)
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(DimGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(White).
		Background(Crimson)
	t.SetStyles(s)

	return Model{
		ctrl:   ctrl,
		state:  state,
		table:  t,
		prompt: NewCountPrompt(),
		help:   help.New(),
		keys:   Keys,
		logger: logging.NewLogger("tui"),
	}
}

// Init loads the first page
func (m Model) Init() tea.Cmd {
	return LoadPageCmd(m.ctrl, m.state.Page)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.sync()
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case PageLoadedMsg:
		m.sync()
		return m, nil

	case BulkSelectDoneMsg:
		m.bulkRunning = false
		m.sync()
		r := msg.Report
		switch {
		case r.Truncated():
			m.logger.Error().Err(r.Err).
				Int("requested", r.Requested).
				Int("taken", r.Taken).
				Msg("Bulk selection stopped early")
			m.setStatus(fmt.Sprintf("Selected %d of %d rows", r.Taken, r.Requested), false)
		case r.Exhausted:
			m.setStatus(fmt.Sprintf("Selected %d of %d rows, catalog exhausted", r.Taken, r.Requested), false)
		default:
			m.setStatus(fmt.Sprintf("Selected %d rows", r.Taken), false)
		}
		return m, ClearStatusCmd(statusTimeout)

	case ErrMsg:
		// Failures go to the log file only; the table keeps its last good page.
		m.sync()
		m.logger.Error().Err(msg.Err).Str("context", msg.Context).Msg("Operation failed")
		return m, nil

	case ClearStatusMsg:
		m.status = ""
		m.statusErr = false
		return m, nil
	}

	if m.prompt.IsVisible() {
		var cmd tea.Cmd
		m.prompt, cmd, _ = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleKeyMsg handles keyboard input
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Route to the prompt while it is open
	if m.prompt.IsVisible() {
		var cmd tea.Cmd
		var submitted bool
		m.prompt, cmd, submitted = m.prompt.Update(msg)
		if !submitted {
			return m, cmd
		}
		n, err := m.prompt.Count()
		m.prompt.Hide()
		if err != nil {
			m.setStatus(err.Error(), true)
			return m, ClearStatusCmd(statusTimeout)
		}
		if n <= 0 {
			return m, nil
		}
		m.bulkRunning = true
		m.setStatus(fmt.Sprintf("Selecting %d rows from page %d...", n, m.state.Page), false)
		return m, SelectCountCmd(m.ctrl, n)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevPage):
		return m.goToPage(m.state.PrevPage())

	case key.Matches(msg, m.keys.NextPage):
		return m.goToPage(m.state.NextPage())

	case key.Matches(msg, m.keys.FirstPage):
		return m.goToPage(m.state.FirstPage())

	case key.Matches(msg, m.keys.LastPage):
		return m.goToPage(m.state.LastPage())

	case key.Matches(msg, m.keys.Reload):
		return m.loadPage(m.state.Page)

	case key.Matches(msg, m.keys.Toggle):
		if r, ok := m.cursorRecord(); ok {
			m.state = m.ctrl.Toggle(r.ID)
			m.sync()
		}
		return m, nil

	case key.Matches(msg, m.keys.TogglePage):
		m.state = m.ctrl.TogglePage()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.state = m.ctrl.Clear()
		m.sync()
		return m, nil

	case key.Matches(msg, m.keys.SelectCount):
		if m.bulkRunning {
			m.setStatus("A bulk selection is already running", true)
			return m, ClearStatusCmd(statusTimeout)
		}
		cmd := m.prompt.Show()
		return m, cmd
	}

	return m, nil
}

func (m Model) goToPage(page int) (tea.Model, tea.Cmd) {
	if page == m.state.Page && !m.state.Loading {
		return m, nil
	}
	return m.loadPage(page)
}

func (m Model) loadPage(page int) (tea.Model, tea.Cmd) {
	m.state = m.ctrl.Dispatch(browser.PageRequested{Page: page})
	m.sync()
	return m, LoadPageCmd(m.ctrl, m.state.Page)
}

// cursorRecord returns the record under the table cursor
func (m Model) cursorRecord() (catalog.Artwork, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.state.Records) {
		return catalog.Artwork{}, false
	}
	return m.state.Records[i], true
}

// sync refreshes the model from the controller and rebuilds the table
func (m *Model) sync() {
	m.state = m.ctrl.State()

	width := m.width
	if width == 0 {
		width = 100
	}
	m.table.SetColumns(columns(m.state, width))
	m.table.SetRows(rows(m.state))
	if n := len(m.state.Records); n > 0 {
		if c := m.table.Cursor(); c < 0 || c >= n {
			m.table.SetCursor(min(max(c, 0), n-1))
		}
	}
}

func (m *Model) setStatus(s string, isErr bool) {
	m.status = s
	m.statusErr = isErr
}

// columns lays out the table for the given terminal width
func columns(s browser.State, width int) []table.Column {
	header := Unchecked
	if s.PageSelected() {
		header = Checked
	}

	fixed := 3 + 8 + 6 + 6 // checkbox, id, start, end
	flex := max(width-fixed-16, 40)

	return []table.Column{
		{Title: header, Width: 3},
		{Title: "ID", Width: 8},
		{Title: "Title", Width: flex * 30 / 100},
		{Title: "Origin", Width: flex * 15 / 100},
		{Title: "Artist", Width: flex * 30 / 100},
		{Title: "Inscriptions", Width: flex * 25 / 100},
		{Title: "Start", Width: 6},
		{Title: "End", Width: 6},
	}
}

// rows renders the current page
func rows(s browser.State) []table.Row {
	out := make([]table.Row, 0, len(s.Records))
	for _, r := range s.Records {
		mark := Unchecked
		if s.Selection.Has(r.ID) {
			mark = Checked
		}
		out = append(out, table.Row{
			mark,
			strconv.FormatInt(r.ID, 10),
			oneLine(catalog.Text(r.Title)),
			oneLine(catalog.Text(r.PlaceOfOrigin)),
			oneLine(catalog.Text(r.ArtistDisplay)),
			oneLine(catalog.Text(r.Inscriptions)),
			catalog.Year(r.DateStart),
			catalog.Year(r.DateEnd),
		})
	}
	return out
}

// oneLine flattens multi-line API text for a table cell
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("Art Institute of Chicago · Artworks"))
	b.WriteString("\n\n")

	if m.prompt.IsVisible() {
		b.WriteString(m.prompt.View())
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(TableBorder.Render(m.table.View()))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// statusLine summarizes paging and selection
func (m Model) statusLine() string {
	page := fmt.Sprintf("Page %d", m.state.Page)
	if m.state.TotalPages > 0 {
		page = fmt.Sprintf("Page %d of %d (%d records)", m.state.Page, m.state.TotalPages, m.state.TotalRecords)
	}
	parts := []string{page, AccentStyle.Render(fmt.Sprintf("%d selected", m.state.Selection.Len()))}

	if m.state.Loading {
		parts = append(parts, DimStyle.Render("loading..."))
	}
	if m.bulkRunning || m.state.Selecting {
		parts = append(parts, DimStyle.Render("selecting..."))
	}

	switch {
	case m.status != "" && m.statusErr:
		parts = append(parts, ErrorStyle.Render(m.status))
	case m.status != "":
		parts = append(parts, SuccessStyle.Render(m.status))
	}

	return strings.Join(parts, DimStyle.Render(" · "))
}

// Run starts the program on the alternate screen
func Run(ctrl *browser.Controller) error {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
