package ui

import (
	"testing"

	"bookdesk/internal/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestModal(kind ActionKind) ActionModal {
	// The client is never dialed in these tests; submission commands are
	// not executed.
	client := api.New("http://127.0.0.1:1", nil, zap.NewNop())
	return NewActionModal(kind, client, DefaultStyles())
}

func TestActionModal_OpenPopulatesBinding(t *testing.T) {
	m := newTestModal(ActionProcessReturn)

	// Simulate leftovers from a previous trigger.
	m.Open(ModalBinding{SubjectID: 7, Title: "Return: Dune", MaxQuantity: 5})
	m.quantity.SetValue("4")
	m.extra.SetValue("damaged")
	m.Close()

	m.Open(ModalBinding{SubjectID: 9, Title: "Return: Emma", MaxQuantity: 2})

	assert.Equal(t, int64(9), m.binding.SubjectID)
	assert.Equal(t, 2, m.binding.MaxQuantity)
	assert.Equal(t, "1", m.quantity.Value(), "quantity is always reset on population")
	assert.Equal(t, "damaged", m.extra.Value(), "optional field is left untouched")
	assert.Equal(t, SubmissionIdle, m.State())
	assert.True(t, m.Visible())
}

func TestActionModal_NonNumericQuantityNeverReachesNetwork(t *testing.T) {
	for _, raw := range []string{"", "abc", "0", "-3", "1.5"} {
		m := newTestModal(ActionPlaceOrder)
		m.Open(ModalBinding{SubjectID: 3, Title: "Dune"})
		m.quantity.SetValue(raw)

		cmd := m.submit()

		assert.Nil(t, cmd, "quantity %q must not start a submission", raw)
		assert.True(t, m.quantityInvalid)
		assert.Equal(t, SubmissionIdle, m.State())
	}
}

func TestActionModal_SubmitStartsExactlyOneCall(t *testing.T) {
	m := newTestModal(ActionPlaceOrder)
	m.Open(ModalBinding{SubjectID: 3, Title: "Dune"})

	first := m.submit()
	require.NotNil(t, first)
	assert.Equal(t, SubmissionInFlight, m.State())

	// The submit affordance is disabled for the call's duration.
	second := m.submit()
	assert.Nil(t, second, "no second submission while one is in flight")
}

func TestActionModal_AdvisoryBoundDoesNotBlock(t *testing.T) {
	m := newTestModal(ActionProcessReturn)
	m.Open(ModalBinding{SubjectID: 11, Title: "Return: Dune", MaxQuantity: 2})
	m.quantity.SetValue("99")

	cmd := m.submit()

	require.NotNil(t, cmd, "the bound is advisory; the server decides")
	assert.Equal(t, SubmissionInFlight, m.State())
}

func TestActionModal_ResolveSuccessHidesModalAndSchedulesReload(t *testing.T) {
	m := newTestModal(ActionPlaceOrder)
	m.Open(ModalBinding{SubjectID: 3, Title: "Dune"})
	require.NotNil(t, m.submit())

	result := m.Resolve(submitOutcomeMsg{
		kind:    ActionPlaceOrder,
		outcome: api.Outcome{OK: true, Message: "Order created successfully. Total: $19.98"},
	})

	assert.Equal(t, NoticeSuccess, result.Level)
	assert.Equal(t, "Order created successfully. Total: $19.98", result.Text)
	assert.True(t, result.Reload)
	assert.False(t, m.Visible())
	assert.Equal(t, SubmissionSucceeded, m.State())
}

func TestActionModal_ResolveFailureRestoresAffordance(t *testing.T) {
	m := newTestModal(ActionPlaceOrder)
	m.Open(ModalBinding{SubjectID: 3, Title: "Dune"})
	require.NotNil(t, m.submit())

	result := m.Resolve(submitOutcomeMsg{
		kind:    ActionPlaceOrder,
		outcome: api.Outcome{OK: false, Reason: "Only 3 items available in stock"},
	})

	assert.Equal(t, NoticeError, result.Level)
	assert.Equal(t, "Only 3 items available in stock", result.Text)
	assert.False(t, result.Reload, "no reload on failure")
	assert.True(t, m.Visible(), "modal stays open")
	assert.Equal(t, SubmissionIdle, m.State(), "submit is re-enabled")
	// And a fresh submission is possible.
	assert.NotNil(t, m.submit())
}

func TestActionModal_ResolveTransportFault(t *testing.T) {
	m := newTestModal(ActionProcessReturn)
	m.Open(ModalBinding{SubjectID: 11, Title: "Return: Dune", MaxQuantity: 2})
	require.NotNil(t, m.submit())

	result := m.Resolve(submitOutcomeMsg{kind: ActionProcessReturn, err: api.ErrTransport})

	assert.Equal(t, NoticeError, result.Level)
	assert.Contains(t, result.Text, "An error occurred")
	assert.Equal(t, SubmissionIdle, m.State())
}

func TestActionModal_ResolveIgnoresForeignOrStaleOutcomes(t *testing.T) {
	m := newTestModal(ActionPlaceOrder)
	m.Open(ModalBinding{SubjectID: 3, Title: "Dune"})

	// Not in flight: nothing to reconcile.
	result := m.Resolve(submitOutcomeMsg{kind: ActionPlaceOrder, outcome: api.Outcome{OK: true}})
	assert.Empty(t, result.Text)

	require.NotNil(t, m.submit())
	// Wrong kind: belongs to the other modal.
	result = m.Resolve(submitOutcomeMsg{kind: ActionProcessReturn, outcome: api.Outcome{OK: true}})
	assert.Empty(t, result.Text)
	assert.Equal(t, SubmissionInFlight, m.State())
}

func TestActionModal_CloseIgnoredWhileInFlight(t *testing.T) {
	m := newTestModal(ActionPlaceOrder)
	m.Open(ModalBinding{SubjectID: 3, Title: "Dune"})
	require.NotNil(t, m.submit())

	m.Close()
	assert.True(t, m.Visible())

	m.Resolve(submitOutcomeMsg{kind: ActionPlaceOrder, outcome: api.Outcome{OK: false, Reason: "no"}})
	m.Close()
	assert.False(t, m.Visible())
}

func TestActionModal_SubmitLineSwapsLabel(t *testing.T) {
	m := newTestModal(ActionPlaceOrder)
	m.Open(ModalBinding{SubjectID: 3, Title: "Dune"})

	idle := m.submitLine()
	assert.Contains(t, idle, "Place Order")

	require.NotNil(t, m.submit())
	busy := m.submitLine()
	assert.Contains(t, busy, "Processing...")
	assert.NotContains(t, busy, "Place Order")
}
