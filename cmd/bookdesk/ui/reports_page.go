package ui

import (
	"context"
	"fmt"
	"strings"

	"bookdesk/internal/api"
	"bookdesk/internal/reports"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// reportTabs are the report dashboard tabs; the attendance tab can be
// selected directly from the command line.
var reportTabs = []string{"overview", "attendance"}

type classesMsg struct {
	items []api.Class
	err   error
}

// ReportsModel is the class reports listing: live filter criteria over a
// static collection, with matched items ordered at the top and the rest
// hidden in place so their expansion state survives.
type ReportsModel struct {
	styles Styles
	client *api.Client
	log    *zap.Logger

	items    []reports.ClassItem
	visible  []reports.ClassItem
	criteria reports.Criteria

	search    textinput.Model
	searching bool

	// expanded survives filtering; it is keyed by class id, not by
	// position in the visible subset.
	expanded map[int64]bool
	cursor   int

	notices NoticeModel
	tab     int

	width  int
	height int
}

// NewReportsPage creates the reports page. initialTab selects the starting
// tab ("overview" or "attendance").
func NewReportsPage(client *api.Client, styles Styles, log *zap.Logger, initialTab string) ReportsModel {
	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "class name"
	search.Width = 28

	tab := 0
	for i, name := range reportTabs {
		if name == initialTab {
			tab = i
		}
	}

	return ReportsModel{
		styles:   styles,
		client:   client,
		log:      log,
		search:   search,
		expanded: make(map[int64]bool),
		notices:  NewNoticeModel(styles),
		tab:      tab,
	}
}

// Init fetches the class listing.
func (m ReportsModel) Init() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		items, err := client.Classes(ctx)
		return classesMsg{items: items, err: err}
	}
}

// Update drives the page.
func (m ReportsModel) Update(msg tea.Msg) (ReportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case classesMsg:
		if msg.err != nil {
			m.log.Warn("class listing fetch failed", zap.Error(msg.err))
			return m, m.notices.Show(NoticeError, fmt.Sprintf("Could not load reports: %v", msg.err))
		}
		m.items = make([]reports.ClassItem, 0, len(msg.items))
		for _, c := range msg.items {
			m.items = append(m.items, reports.ClassItem{
				ID:        c.ID,
				Name:      c.Name,
				Sessions:  c.Sessions,
				StartDate: c.StartDate,
			})
		}
		// Filter runs once eagerly on load, then on every change.
		m.recompute()
		return m, nil

	case noticeExpiredMsg:
		m.notices.Update(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ReportsModel) handleKey(msg tea.KeyMsg) (ReportsModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if m.searching {
		switch msg.Type {
		case tea.KeyEsc, tea.KeyEnter:
			m.searching = false
			m.search.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		m.criteria.Query = m.search.Value()
		m.recompute()
		return m, cmd
	}

	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "/":
		m.searching = true
		m.search.Focus()
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		if m.cursor < len(m.visible)-1 {
			m.cursor++
		}
		return m, nil

	case "s":
		m.criteria.Sessions = m.criteria.Sessions.Next()
		m.recompute()
		return m, nil

	case "o":
		m.criteria.Sort = m.criteria.Sort.Next()
		m.recompute()
		return m, nil

	case "t":
		m.tab = (m.tab + 1) % len(reportTabs)
		return m, nil

	case "enter", " ":
		m.toggleExpansion()
		return m, nil
	}
	return m, nil
}

// toggleExpansion expands the selected class and collapses every other
// one: a single panel is open at a time.
func (m *ReportsModel) toggleExpansion() {
	if m.cursor >= len(m.visible) {
		return
	}
	id := m.visible[m.cursor].ID
	wasOpen := m.expanded[id]
	for k := range m.expanded {
		m.expanded[k] = false
	}
	m.expanded[id] = !wasOpen
}

// recompute derives the visible ordered subset from the current criteria.
// Runs synchronously on every keystroke and control change.
func (m *ReportsModel) recompute() {
	m.visible = reports.Apply(m.items, m.criteria)
	if m.cursor >= len(m.visible) {
		m.cursor = 0
	}
}

// View renders the reports page.
func (m ReportsModel) View() string {
	header := m.styles.Header.Render("BookDesk — Class Reports")

	var tabs []string
	for i, name := range reportTabs {
		if i == m.tab {
			tabs = append(tabs, m.styles.Selected.Render("["+name+"]"))
		} else {
			tabs = append(tabs, m.styles.Muted.Render(" "+name+" "))
		}
	}

	controls := m.styles.Muted.Render(fmt.Sprintf(
		"filter: %s • sort: %s", m.criteria.Sessions, m.criteria.Sort))

	var rows []string
	for i, item := range m.visible {
		marker := "  "
		style := m.styles.Body
		if i == m.cursor {
			marker = "> "
			style = m.styles.Selected
		}
		line := fmt.Sprintf("%s%s  (%d sessions)", marker, item.Name, item.Sessions)
		rows = append(rows, style.Render(line))
		if m.expanded[item.ID] {
			detail := fmt.Sprintf("    start ordinal %d • %d recorded sessions", item.StartDate, item.Sessions)
			rows = append(rows, m.styles.Muted.Render(detail))
		}
	}
	if len(m.visible) == 0 {
		rows = append(rows, m.styles.Muted.Render("  no classes match"))
	}

	// Non-matching items stay in the collection; only the count shows.
	if hidden := len(m.items) - len(m.visible); hidden > 0 {
		rows = append(rows, m.styles.Muted.Render(fmt.Sprintf("  … %d hidden by filters", hidden)))
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(tabs, ""),
		m.search.View(),
		controls,
		"",
		strings.Join(rows, "\n"),
	)
	footer := m.styles.Footer.Render("/: search • s: session filter • o: sort • enter: expand • t: tab • q: quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.notices.View(), m.styles.Content.Render(body), footer)
}
