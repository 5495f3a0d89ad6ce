package ui

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"bookdesk/internal/api"
	"bookdesk/internal/validate"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// exportDelay mirrors the export affordance's busy window.
const exportDelay = 1500 * time.Millisecond

// stockFilters are the values the stock filter control cycles through;
// empty means no constraint.
var stockFilters = []string{"", "yes", "no"}

type dashboardSection int

const (
	sectionBooks dashboardSection = iota
	sectionReturns
)

type snapshotMsg struct {
	snap api.Snapshot
	err  error
}

type searchResultsMsg struct {
	books []api.Book
	err   error
}

type exportDoneMsg struct{}

// DashboardModel is the bookstore dashboard: book and returnable-line
// tables, the quick order and quick return modals, the search panel with
// its price-range check, and the export and low-stock shortcuts.
type DashboardModel struct {
	styles Styles
	client *api.Client
	log    *zap.Logger

	books []api.Book
	lines []api.OrderLine

	section dashboardSection
	cursor  int

	stockFilterIdx int
	loading        bool
	spin           spinner.Model

	orderModal  ActionModal
	returnModal ActionModal
	notices     NoticeModel

	// Search panel state
	searchOpen    bool
	searchQuery   textinput.Model
	minPrice      textinput.Model
	maxPrice      textinput.Model
	searchFocus   int
	rangeState    validate.RangeState
	searchResults []api.Book
	inResults     bool

	exporting bool

	width  int
	height int
}

// NewDashboard creates the dashboard page.
func NewDashboard(client *api.Client, styles Styles, log *zap.Logger) DashboardModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	query := textinput.New()
	query.Prompt = ""
	query.Placeholder = "title or author"
	query.Width = 24

	minPrice := textinput.New()
	minPrice.Prompt = ""
	minPrice.Placeholder = "min"
	minPrice.Width = 8

	maxPrice := textinput.New()
	maxPrice.Prompt = ""
	maxPrice.Placeholder = "max"
	maxPrice.Width = 8

	return DashboardModel{
		styles:      styles,
		client:      client,
		log:         log,
		spin:        sp,
		orderModal:  NewActionModal(ActionPlaceOrder, client, styles),
		returnModal: NewActionModal(ActionProcessReturn, client, styles),
		notices:     NewNoticeModel(styles),
		searchQuery: query,
		minPrice:    minPrice,
		maxPrice:    maxPrice,
	}
}

// Init starts the spinner and the first snapshot fetch.
func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.fetchSnapshot())
}

func (m DashboardModel) fetchSnapshot() tea.Cmd {
	client := m.client
	filter := stockFilters[m.stockFilterIdx]
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		snap, err := client.Dashboard(ctx, filter)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m DashboardModel) fetchSearch(params url.Values) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		books, err := client.SearchBooks(ctx, params)
		return searchResultsMsg{books: books, err: err}
	}
}

// Update drives the page.
func (m DashboardModel) Update(msg tea.Msg) (DashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.loading || m.exporting {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			cmds = append(cmds, cmd)
		}
		var cmd tea.Cmd
		m.orderModal, cmd = m.orderModal.Update(msg)
		cmds = append(cmds, cmd)
		m.returnModal, cmd = m.returnModal.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case snapshotMsg:
		m.loading = false
		if msg.err != nil {
			m.log.Warn("snapshot fetch failed", zap.Error(msg.err))
			return m, m.notices.Show(NoticeError, fmt.Sprintf("Could not load dashboard: %v", msg.err))
		}
		m.books = msg.snap.Books
		m.lines = msg.snap.Lines
		m.clampCursor()
		return m, nil

	case searchResultsMsg:
		m.loading = false
		if msg.err != nil {
			return m, m.notices.Show(NoticeError, fmt.Sprintf("Search failed: %v", msg.err))
		}
		m.searchResults = msg.books
		m.inResults = true
		m.cursor = 0
		return m, nil

	case submitOutcomeMsg:
		return m.resolveSubmission(msg)

	case reloadDueMsg:
		// The post-success refetch: the TUI equivalent of the full page
		// reload, discarding every table in favor of fresh server state.
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.fetchSnapshot())

	case exportDoneMsg:
		m.exporting = false
		return m, m.notices.Show(NoticeSuccess, "Export completed! Your file will download shortly.")

	case noticeExpiredMsg:
		m.notices.Update(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m DashboardModel) resolveSubmission(msg submitOutcomeMsg) (DashboardModel, tea.Cmd) {
	var result ActionResult
	switch msg.kind {
	case ActionPlaceOrder:
		result = m.orderModal.Resolve(msg)
	case ActionProcessReturn:
		result = m.returnModal.Resolve(msg)
	}
	if result.Text == "" {
		return m, nil
	}

	cmds := []tea.Cmd{m.notices.Show(result.Level, result.Text)}
	if result.Reload {
		cmds = append(cmds, scheduleReload())
	}
	return m, tea.Batch(cmds...)
}

func (m DashboardModel) handleKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	// Only one modal can be visible at a time; route keys to it.
	if m.orderModal.Visible() {
		var cmd tea.Cmd
		m.orderModal, cmd = m.orderModal.Update(msg)
		return m, cmd
	}
	if m.returnModal.Visible() {
		var cmd tea.Cmd
		m.returnModal, cmd = m.returnModal.Update(msg)
		return m, cmd
	}

	if m.searchOpen {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "q", "esc":
		if m.inResults {
			m.inResults = false
			m.cursor = 0
			return m, nil
		}
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		m.cursor++
		m.clampCursor()
		return m, nil

	case "tab":
		if !m.inResults {
			m.section = (m.section + 1) % 2
			m.cursor = 0
		}
		return m, nil

	case "o":
		return m.openOrderModal()

	case "r":
		return m.openReturnModal()

	case "f":
		// Stock filter change refetches immediately, like the
		// auto-submitting filter select.
		m.stockFilterIdx = (m.stockFilterIdx + 1) % len(stockFilters)
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.fetchSnapshot())

	case "/":
		m.searchOpen = true
		m.searchFocus = 0
		m.searchQuery.Focus()
		m.minPrice.Blur()
		m.maxPrice.Blur()
		return m, nil

	case "e":
		if m.exporting {
			return m, nil
		}
		m.exporting = true
		return m, tea.Batch(m.spin.Tick, tea.Tick(exportDelay, func(time.Time) tea.Msg {
			return exportDoneMsg{}
		}))

	case "L":
		// Dashboard shortcut: jump to the low-stock listing with its
		// fixed query.
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.fetchSearch(api.LowStockParams()))
	}
	return m, nil
}

func (m DashboardModel) handleSearchKey(msg tea.KeyMsg) (DashboardModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.searchOpen = false
		m.searchQuery.Blur()
		m.minPrice.Blur()
		m.maxPrice.Blur()
		return m, nil

	case tea.KeyTab, tea.KeyShiftTab:
		step := 1
		if msg.Type == tea.KeyShiftTab {
			step = 2
		}
		m.searchFocus = (m.searchFocus + step) % 3
		m.searchQuery.Blur()
		m.minPrice.Blur()
		m.maxPrice.Blur()
		switch m.searchFocus {
		case 0:
			m.searchQuery.Focus()
		case 1:
			m.minPrice.Focus()
		case 2:
			m.maxPrice.Focus()
		}
		return m, nil

	case tea.KeyEnter:
		// The range marker is presentational; an inverted range does not
		// block the search.
		params := url.Values{}
		if q := m.searchQuery.Value(); q != "" {
			params.Set("q", q)
		}
		if v := m.minPrice.Value(); v != "" {
			params.Set("min_price", v)
		}
		if v := m.maxPrice.Value(); v != "" {
			params.Set("max_price", v)
		}
		m.searchOpen = false
		m.loading = true
		return m, tea.Batch(m.spin.Tick, m.fetchSearch(params))
	}

	var cmd tea.Cmd
	switch m.searchFocus {
	case 0:
		m.searchQuery, cmd = m.searchQuery.Update(msg)
	case 1:
		m.minPrice, cmd = m.minPrice.Update(msg)
	case 2:
		m.maxPrice, cmd = m.maxPrice.Update(msg)
	}
	// Recomputed on every change to either bound.
	m.rangeState = validate.PriceRange(m.minPrice.Value(), m.maxPrice.Value())
	return m, cmd
}

func (m DashboardModel) openOrderModal() (DashboardModel, tea.Cmd) {
	books := m.visibleBooks()
	if m.section != sectionBooks && !m.inResults {
		return m, nil
	}
	if m.cursor >= len(books) {
		return m, nil
	}
	book := books[m.cursor]
	m.orderModal.Open(ModalBinding{
		SubjectID: book.ID,
		Title:     book.Title,
	})
	return m, nil
}

func (m DashboardModel) openReturnModal() (DashboardModel, tea.Cmd) {
	if m.inResults || m.section != sectionReturns || m.cursor >= len(m.lines) {
		return m, nil
	}
	line := m.lines[m.cursor]
	m.returnModal.Open(ModalBinding{
		SubjectID:   line.ID,
		Title:       "Return: " + line.BookTitle,
		MaxQuantity: line.Quantity,
	})
	return m, nil
}

func (m DashboardModel) visibleBooks() []api.Book {
	if m.inResults {
		return m.searchResults
	}
	return m.books
}

func (m *DashboardModel) clampCursor() {
	var n int
	if m.inResults {
		n = len(m.searchResults)
	} else if m.section == sectionBooks {
		n = len(m.books)
	} else {
		n = len(m.lines)
	}
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
}

// View renders the dashboard.
func (m DashboardModel) View() string {
	header := m.styles.Header.Render("BookDesk — Dashboard")

	if m.orderModal.Visible() {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.notices.View(), m.styles.Content.Render(m.orderModal.View()))
	}
	if m.returnModal.Visible() {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.notices.View(), m.styles.Content.Render(m.returnModal.View()))
	}

	var body string
	switch {
	case m.loading:
		body = m.spin.View() + m.styles.Muted.Render(" Loading...")
	case m.inResults:
		body = m.resultsView()
	default:
		body = m.tablesView()
	}

	if m.searchOpen {
		body = lipgloss.JoinVertical(lipgloss.Left, m.searchPanelView(), body)
	}

	footer := m.styles.Footer.Render(m.footerText())
	return lipgloss.JoinVertical(lipgloss.Left, header, m.notices.View(), m.styles.Content.Render(body), footer)
}

func (m DashboardModel) tablesView() string {
	bookTable := NewTable(m.bookTableTitle(), "Title", "Author", "Price", "Stock")
	rows := make([][]string, 0, len(m.books))
	for _, b := range m.books {
		rows = append(rows, []string{b.Title, b.Author, fmt.Sprintf("$%.2f", b.Price), fmt.Sprintf("%d", b.Stock)})
	}
	bookTable.SetRows(rows)

	lineTable := NewTable("Recent Order Lines", "Order", "Book", "Qty")
	lineRows := make([][]string, 0, len(m.lines))
	for _, l := range m.lines {
		lineRows = append(lineRows, []string{fmt.Sprintf("#%d", l.OrderID), l.BookTitle, fmt.Sprintf("%d", l.Quantity)})
	}
	lineTable.SetRows(lineRows)

	bookCursor, lineCursor := -1, -1
	if m.section == sectionBooks {
		bookCursor = m.cursor
	} else {
		lineCursor = m.cursor
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		bookTable.View(m.styles, bookCursor),
		lineTable.View(m.styles, lineCursor),
	)
}

func (m DashboardModel) bookTableTitle() string {
	switch stockFilters[m.stockFilterIdx] {
	case "yes":
		return "Books (in stock)"
	case "no":
		return "Books (out of stock)"
	default:
		return "Books"
	}
}

func (m DashboardModel) resultsView() string {
	table := NewTable("Search Results", "Title", "Author", "Price", "Stock")
	rows := make([][]string, 0, len(m.searchResults))
	for _, b := range m.searchResults {
		rows = append(rows, []string{b.Title, b.Author, fmt.Sprintf("$%.2f", b.Price), fmt.Sprintf("%d", b.Stock)})
	}
	table.SetRows(rows)
	return table.View(m.styles, m.cursor)
}

func (m DashboardModel) searchPanelView() string {
	minView := m.minPrice.View()
	maxView := m.maxPrice.View()
	if m.rangeState == validate.RangeInvalid {
		// Both bounds carry the invalid marker, like the paired inputs.
		minView = m.styles.InputInvalid.Render(m.minPrice.Value() + " ✗")
		maxView = m.styles.InputInvalid.Render(m.maxPrice.Value() + " ✗")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Title.Render("Search"),
		m.styles.FieldLabel.Render("Query")+m.searchQuery.View(),
		m.styles.FieldLabel.Render("Min price")+minView,
		m.styles.FieldLabel.Render("Max price")+maxView,
		m.styles.Muted.Render("tab: next field • enter: search • esc: close"),
	)
}

func (m DashboardModel) footerText() string {
	if m.inResults {
		return "o: order • esc: back"
	}
	return "tab: section • o: order • r: return • f: stock filter • /: search • e: export • L: low stock • q: quit"
}
