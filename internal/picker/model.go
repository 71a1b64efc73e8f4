package picker

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"frecfind/internal/domain"
	"frecfind/internal/engine"
)

// Finder is the slice of the engine client the picker needs.
type Finder interface {
	Find(ctx context.Context, category domain.Category, query string) []string
}

// sessionState tracks where one interactive search session is in its
// lifecycle.
type sessionState int

const (
	stateQuerying sessionState = iota // a query is in flight for the current generation
	stateRendered                     // the latest completed response is displayed
	stateClosed                       // terminal; no further queries are issued
)

// queryDoneMsg is sent when an async engine find completes. The generation
// it was issued under travels with it so stale responses can be discarded.
type queryDoneMsg struct {
	gen   uint64
	lines []string
}

// initMsg triggers the generation-0 query from Update, where state
// mutations are visible to the Bubble Tea runtime.
type initMsg struct{}

// Model is the Bubble Tea model for one interactive search session.
// Every text change increments the generation counter and issues a new
// query; a response renders only if its generation equals the highest
// issued so far, regardless of arrival order. Results are rendered in
// engine order: never re-sorted, filtered, or deduplicated here.
type Model struct {
	input    textinput.Model
	spin     spinner.Model
	state    sessionState
	category domain.Category
	finder   Finder

	items     []domain.ResultItem
	selection int // index into items; -1 when empty
	gen       uint64

	width  int
	height int

	warning string // persistent engine-missing warning, may be empty
	styles  *Styles

	choice *domain.ResultItem // set when the user confirms a selection
}

// New creates a live search session for the given category.
func New(category domain.Category, finder Finder, warning string) Model {
	styles := NewStyles()

	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = styles.Prompt
	ti.Placeholder = placeholderFor(category)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		input:     ti,
		spin:      sp,
		state:     stateQuerying,
		category:  category,
		finder:    finder,
		selection: -1,
		warning:   warning,
		styles:    styles,
	}
}

// Choice returns the confirmed selection, or nil if the session was
// dismissed.
func (m Model) Choice() *domain.ResultItem {
	return m.choice
}

// Init implements tea.Model. The initial empty-text query is issued
// immediately on open, before the user types anything.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg { return initMsg{} },
		m.spin.Tick,
		textinput.Blink,
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case queryDoneMsg:
		return m.handleQueryDone(msg)

	case initMsg:
		return m, m.startQuery()

	case spinner.TickMsg:
		if m.state != stateQuerying {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyCtrlC:
		m.state = stateClosed
		return m, tea.Quit

	case tea.KeyEnter:
		if m.selection >= 0 && m.selection < len(m.items) {
			item := m.items[m.selection]
			m.choice = &item
		}
		m.state = stateClosed
		return m, tea.Quit

	case tea.KeyUp, tea.KeyCtrlP:
		if m.selection > 0 {
			m.selection--
		}
		return m, nil

	case tea.KeyDown, tea.KeyCtrlN:
		if m.selection < len(m.items)-1 {
			m.selection++
		}
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		// Every text change starts a new generation. The previous
		// generation's results stay visible until superseded.
		return m, tea.Batch(cmd, m.startQuery(), m.spin.Tick)
	}
	return m, cmd
}

// handleQueryDone applies a completed response if and only if it belongs
// to the session's current generation. A stale response is discarded even
// when it is the most recently arrived one: ordering is by issuance, not
// arrival.
func (m Model) handleQueryDone(msg queryDoneMsg) (tea.Model, tea.Cmd) {
	if m.state == stateClosed {
		return m, nil
	}
	if msg.gen != m.gen {
		return m, nil
	}

	m.items = engine.MakeItems(msg.lines)
	m.state = stateRendered
	// Each response is a fresh ranked list; a carried-over index would
	// silently highlight whatever item now occupies that rank.
	if len(m.items) == 0 {
		m.selection = -1
	} else {
		m.selection = 0
	}
	return m, nil
}

// startQuery increments the generation and returns a command that queries
// the engine. In-flight queries for older generations are not cancelled;
// their responses are discarded by the generation check on arrival.
func (m *Model) startQuery() tea.Cmd {
	m.gen++
	m.state = stateQuerying

	gen := m.gen
	query := m.input.Value()
	category := m.category
	finder := m.finder

	return func() tea.Msg {
		lines := finder.Find(context.Background(), category, query)
		return queryDoneMsg{gen: gen, lines: lines}
	}
}

// --- View rendering ---

// View implements tea.Model.
func (m Model) View() string {
	if m.state == stateClosed {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.styles.Title.Render(titleFor(m.category)))
	if m.state == stateQuerying {
		b.WriteString(" " + m.spin.View())
	}
	b.WriteRune('\n')
	b.WriteString(m.input.View())
	b.WriteRune('\n')
	b.WriteString(m.viewList())

	if m.warning != "" {
		b.WriteRune('\n')
		b.WriteString(m.styles.Warning.Render(m.warning))
	}

	return b.String()
}

// viewList renders the result list with a selection marker.
func (m Model) viewList() string {
	if len(m.items) == 0 {
		if m.state == stateQuerying {
			return m.styles.Dim.Render("searching...")
		}
		return m.styles.Dim.Render("no results")
	}

	var b strings.Builder
	max := m.listHeight()
	for i, item := range m.items {
		if i >= max {
			break
		}
		// Truncate before styling so escape sequences stay intact.
		row := item.Label + "  " + item.Description
		if m.width > 4 {
			row = runewidth.Truncate(row, m.width-4, "…")
		}
		if i == m.selection {
			b.WriteString(m.styles.Selected.Render("> " + row))
		} else {
			b.WriteString(m.styles.Normal.Render("  " + row))
		}
		if i < len(m.items)-1 && i < max-1 {
			b.WriteRune('\n')
		}
	}
	return b.String()
}

// listHeight returns the number of visible list rows.
func (m Model) listHeight() int {
	// title, input, optional warning
	const chrome = 3
	h := m.height - chrome
	if h < 1 {
		h = 20 // before the first WindowSizeMsg
	}
	return h
}

func titleFor(category domain.Category) string {
	if category == domain.CategoryDirs {
		return "frecfind: directories"
	}
	return "frecfind: files"
}

func placeholderFor(category domain.Category) string {
	if category == domain.CategoryDirs {
		return "search directories"
	}
	return "search files"
}
