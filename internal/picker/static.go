package picker

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"frecfind/internal/domain"
)

// StaticModel is the nested, non-live pick run after selecting a directory:
// a fixed listing with navigation and selection only. No queries are
// issued; the item set never changes.
type StaticModel struct {
	title     string
	items     []domain.ResultItem
	selection int
	width     int
	height    int
	styles    *Styles
	choice    *domain.ResultItem
}

// NewStatic creates a one-shot pick over a fixed item list.
func NewStatic(title string, items []domain.ResultItem) StaticModel {
	selection := -1
	if len(items) > 0 {
		selection = 0
	}
	return StaticModel{
		title:     title,
		items:     items,
		selection: selection,
		styles:    NewStyles(),
	}
}

// Choice returns the confirmed selection, or nil if dismissed.
func (m StaticModel) Choice() *domain.ResultItem {
	return m.choice
}

// Init implements tea.Model.
func (m StaticModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m StaticModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit

		case tea.KeyEnter:
			if m.selection >= 0 && m.selection < len(m.items) {
				item := m.items[m.selection]
				m.choice = &item
			}
			return m, tea.Quit

		case tea.KeyUp, tea.KeyCtrlP:
			if m.selection > 0 {
				m.selection--
			}

		case tea.KeyDown, tea.KeyCtrlN:
			if m.selection < len(m.items)-1 {
				m.selection++
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m StaticModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteRune('\n')

	if len(m.items) == 0 {
		b.WriteString(m.styles.Dim.Render("empty directory"))
		return b.String()
	}

	max := m.height - 2
	if max < 1 {
		max = 20
	}
	for i, item := range m.items {
		if i >= max {
			break
		}
		row := item.Description
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
