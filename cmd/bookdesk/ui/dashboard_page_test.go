package ui

import (
	"testing"

	"bookdesk/internal/api"
	"bookdesk/internal/validate"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestDashboard() DashboardModel {
	client := api.New("http://127.0.0.1:1", nil, zap.NewNop())
	m := NewDashboard(client, DefaultStyles(), zap.NewNop())
	m, _ = m.Update(snapshotMsg{snap: api.Snapshot{
		Books: []api.Book{
			{ID: 3, Title: "Dune", Author: "Herbert", Price: 9.99, Stock: 4},
			{ID: 5, Title: "Emma", Author: "Austen", Price: 7.50, Stock: 0},
		},
		Lines: []api.OrderLine{
			{ID: 11, OrderID: 70, BookTitle: "Dune", Quantity: 2},
		},
	}})
	return m
}

func TestDashboard_OrderModalOpensFromBookRow(t *testing.T) {
	m := newTestDashboard()

	m, _ = m.Update(keyRunes('o'))

	require.True(t, m.orderModal.Visible())
	assert.Equal(t, int64(3), m.orderModal.binding.SubjectID)
	assert.Equal(t, "Dune", m.orderModal.binding.Title)
}

func TestDashboard_ReturnModalCarriesAdvisoryBound(t *testing.T) {
	m := newTestDashboard()

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, sectionReturns, m.section)
	m, _ = m.Update(keyRunes('r'))

	require.True(t, m.returnModal.Visible())
	assert.Equal(t, int64(11), m.returnModal.binding.SubjectID)
	assert.Equal(t, "Return: Dune", m.returnModal.binding.Title)
	assert.Equal(t, 2, m.returnModal.binding.MaxQuantity)
}

func TestDashboard_KeysRouteToVisibleModal(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(keyRunes('o'))
	require.True(t, m.orderModal.Visible())

	// 'f' would cycle the stock filter, but the modal owns the keyboard.
	before := m.stockFilterIdx
	m, _ = m.Update(keyRunes('f'))
	assert.Equal(t, before, m.stockFilterIdx)
	assert.True(t, m.orderModal.Visible())
}

func TestDashboard_SuccessfulSubmissionSchedulesReload(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(keyRunes('o'))
	require.NotNil(t, m.orderModal.submit())

	m, cmd := m.Update(submitOutcomeMsg{
		kind:    ActionPlaceOrder,
		outcome: api.Outcome{OK: true, Message: "Order created successfully."},
	})

	require.NotNil(t, cmd, "success batches the notice tick with the reload timer")
	assert.False(t, m.orderModal.Visible())
	assert.True(t, m.notices.Active())
	assert.Contains(t, m.notices.View(), "Order created successfully.")
}

func TestDashboard_FailedSubmissionDoesNotReload(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(keyRunes('o'))
	require.NotNil(t, m.orderModal.submit())

	m, _ = m.Update(submitOutcomeMsg{
		kind:    ActionPlaceOrder,
		outcome: api.Outcome{OK: false, Reason: "Only 3 items available in stock"},
	})

	assert.True(t, m.orderModal.Visible(), "modal stays open for a retry")
	assert.False(t, m.loading)
	assert.Contains(t, m.notices.View(), "Only 3 items available in stock")
}

func TestDashboard_ReloadDueRefetches(t *testing.T) {
	m := newTestDashboard()

	m, cmd := m.Update(reloadDueMsg{})

	assert.True(t, m.loading)
	require.NotNil(t, cmd, "the due reload starts a fresh snapshot fetch")
}

func TestDashboard_StockFilterRefetchesImmediately(t *testing.T) {
	m := newTestDashboard()

	m, cmd := m.Update(keyRunes('f'))
	assert.Equal(t, 1, m.stockFilterIdx)
	assert.True(t, m.loading)
	require.NotNil(t, cmd)
	assert.Contains(t, m.bookTableTitle(), "in stock")

	m.loading = false
	m, _ = m.Update(keyRunes('f'))
	m, _ = m.Update(keyRunes('f'))
	assert.Equal(t, 0, m.stockFilterIdx, "filter cycles back to unconstrained")
}

func TestDashboard_PriceRangeMarkerIsAdvisory(t *testing.T) {
	m := newTestDashboard()

	m, _ = m.Update(keyRunes('/'))
	require.True(t, m.searchOpen)

	// min 9, max 5: an inverted range.
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(keyRunes('9'))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(keyRunes('5'))

	assert.Equal(t, validate.RangeInvalid, m.rangeState)
	assert.Contains(t, m.searchPanelView(), "✗")

	// The marker never blocks the search itself.
	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, m.searchOpen)
	assert.True(t, m.loading)
}

func TestDashboard_RangeMarkerClearsWhenFixed(t *testing.T) {
	m := newTestDashboard()
	m, _ = m.Update(keyRunes('/'))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(keyRunes('9'))
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m, _ = m.Update(keyRunes('5'))
	require.Equal(t, validate.RangeInvalid, m.rangeState)

	m, _ = m.Update(keyRunes('0')) // max becomes 50
	assert.Equal(t, validate.RangeValid, m.rangeState)
}

func TestDashboard_ExportBusyWindow(t *testing.T) {
	m := newTestDashboard()

	m, cmd := m.Update(keyRunes('e'))
	assert.True(t, m.exporting)
	require.NotNil(t, cmd)

	m, cmd = m.Update(keyRunes('e'))
	assert.Nil(t, cmd, "export is ignored while one is pending")

	m, _ = m.Update(exportDoneMsg{})
	assert.False(t, m.exporting)
	assert.Contains(t, m.notices.View(), "Export completed")
}

func TestDashboard_LowStockShortcut(t *testing.T) {
	m := newTestDashboard()

	m, cmd := m.Update(keyRunes('L'))

	assert.True(t, m.loading)
	require.NotNil(t, cmd)
}

func TestDashboard_ResultsViewEscReturnsToTables(t *testing.T) {
	m := newTestDashboard()

	m, _ = m.Update(searchResultsMsg{books: []api.Book{{ID: 9, Title: "Iliad"}}})
	require.True(t, m.inResults)

	m, _ = m.Update(keyRunes('o'))
	assert.Equal(t, int64(9), m.orderModal.binding.SubjectID, "ordering works from results too")
	m.orderModal.Close()

	m, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.inResults)
	assert.Nil(t, cmd, "leaving results must not quit")
}
