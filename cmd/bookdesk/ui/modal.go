package ui

import (
	"context"
	"fmt"
	"time"

	"bookdesk/internal/api"
	"bookdesk/internal/validate"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// reloadDelay is how long after a successful submission the page waits
// before refetching everything, so the success notice can be read first.
const reloadDelay = 2 * time.Second

// submitTimeout bounds a single submission round trip.
const submitTimeout = 15 * time.Second

// ActionKind selects which transaction a modal owns.
type ActionKind int

const (
	ActionPlaceOrder ActionKind = iota
	ActionProcessReturn
)

func (k ActionKind) title() string {
	if k == ActionProcessReturn {
		return "Quick Return"
	}
	return "Quick Order"
}

func (k ActionKind) submitLabel() string {
	if k == ActionProcessReturn {
		return "Process Return"
	}
	return "Place Order"
}

func (k ActionKind) extraLabel() string {
	if k == ActionProcessReturn {
		return "Reason"
	}
	return "Customer ID"
}

// SubmissionState is the modal's submit lifecycle. Only SubmissionInFlight
// disables the submit affordance; every failure path returns to
// SubmissionIdle so the user is never left with a dead control.
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionInFlight
	SubmissionSucceeded
)

// ModalBinding carries the trigger row's metadata into the modal. It is
// rebuilt on every open and never reused across triggers.
type ModalBinding struct {
	SubjectID   int64
	Title       string
	MaxQuantity int // advisory upper bound for returns; 0 means none
}

// submitOutcomeMsg delivers the resolved network call back to the UI loop.
type submitOutcomeMsg struct {
	kind    ActionKind
	outcome api.Outcome
	err     error
}

// reloadDueMsg tells the page the post-success refetch is due.
type reloadDueMsg struct{}

func scheduleReload() tea.Cmd {
	return tea.Tick(reloadDelay, func(time.Time) tea.Msg {
		return reloadDueMsg{}
	})
}

// ActionResult is what a resolved submission means for the hosting page.
type ActionResult struct {
	Level  NoticeLevel
	Text   string
	Reload bool
}

// ActionModal owns one transaction kind: field population from a trigger
// binding, local validation, the single in-flight submission, and
// reconciliation of the response.
type ActionModal struct {
	styles Styles
	kind   ActionKind
	client *api.Client

	binding ModalBinding
	state   SubmissionState
	visible bool

	quantity        textinput.Model
	extra           textinput.Model
	focusExtra      bool
	quantityInvalid bool

	spin spinner.Model
}

// NewActionModal creates a hidden modal for the given transaction kind.
func NewActionModal(kind ActionKind, client *api.Client, styles Styles) ActionModal {
	quantity := textinput.New()
	quantity.Prompt = ""
	quantity.CharLimit = 6
	quantity.Width = 8

	extra := textinput.New()
	extra.Prompt = ""
	extra.CharLimit = 64
	extra.Width = 24

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	return ActionModal{
		styles:   styles,
		kind:     kind,
		client:   client,
		quantity: quantity,
		extra:    extra,
		spin:     sp,
	}
}

// Open binds the trigger metadata and shows the modal. The quantity field
// is always reset to 1; the optional field keeps whatever it held, matching
// the form semantics of the web page this mirrors.
func (m *ActionModal) Open(b ModalBinding) {
	m.binding = b
	m.state = SubmissionIdle
	m.quantityInvalid = false
	m.visible = true

	m.quantity.SetValue("1")
	m.quantity.CursorEnd()
	m.focusExtra = false
	m.quantity.Focus()
	m.extra.Blur()
}

// Close hides the modal. Ignored while a submission is in flight so the
// in-flight guarantee holds until the response is reconciled.
func (m *ActionModal) Close() {
	if m.state == SubmissionInFlight {
		return
	}
	m.visible = false
}

// Visible reports whether the modal is shown.
func (m ActionModal) Visible() bool { return m.visible }

// State exposes the submit lifecycle for the hosting page.
func (m ActionModal) State() SubmissionState { return m.state }

// Update routes key and spinner messages into the modal. The returned
// command is non-nil when a submission was started.
func (m ActionModal) Update(msg tea.Msg) (ActionModal, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.state == SubmissionInFlight {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEsc:
			m.Close()
			return m, nil
		case tea.KeyTab, tea.KeyShiftTab:
			m.toggleFocus()
			return m, nil
		case tea.KeyEnter:
			return m, m.submit()
		}

		var cmd tea.Cmd
		if m.focusExtra {
			m.extra, cmd = m.extra.Update(msg)
		} else {
			m.quantity, cmd = m.quantity.Update(msg)
			m.quantityInvalid = false
		}
		return m, cmd
	}
	return m, nil
}

func (m *ActionModal) toggleFocus() {
	m.focusExtra = !m.focusExtra
	if m.focusExtra {
		m.quantity.Blur()
		m.extra.Focus()
	} else {
		m.extra.Blur()
		m.quantity.Focus()
	}
}

// submit validates locally, then starts the one network call. While a call
// is in flight further submits are ignored, which is what keeps duplicate
// submissions impossible.
func (m *ActionModal) submit() tea.Cmd {
	if m.state == SubmissionInFlight {
		return nil
	}

	qty, err := validate.Quantity(m.quantity.Value())
	if err != nil {
		// Validation faults stay local; nothing is sent.
		m.quantityInvalid = true
		return nil
	}

	call, err := m.buildCall(qty)
	if err != nil {
		m.quantityInvalid = true
		return nil
	}

	m.state = SubmissionInFlight
	kind := m.kind
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		outcome, err := call(ctx)
		return submitOutcomeMsg{kind: kind, outcome: outcome, err: err}
	})
}

// buildCall serializes the form into the request this modal's kind owns.
// Note the return quantity is not clamped to the advisory bound: the
// server is the authority there.
func (m *ActionModal) buildCall(qty int) (func(context.Context) (api.Outcome, error), error) {
	switch m.kind {
	case ActionProcessReturn:
		req := api.ReturnRequest{
			OrderItemID: m.binding.SubjectID,
			Quantity:    qty,
			Reason:      m.extra.Value(),
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (api.Outcome, error) {
			return m.client.ProcessReturn(ctx, req)
		}, nil
	default:
		req := api.OrderRequest{
			BookID:   m.binding.SubjectID,
			Quantity: qty,
		}
		if raw := m.extra.Value(); raw != "" {
			var customerID int64
			if _, err := fmt.Sscanf(raw, "%d", &customerID); err != nil {
				return nil, err
			}
			req.CustomerID = &customerID
		}
		if err := req.Validate(); err != nil {
			return nil, err
		}
		return func(ctx context.Context) (api.Outcome, error) {
			return m.client.PlaceOrder(ctx, req)
		}, nil
	}
}

// Resolve reconciles the response. Success hides the modal and asks the
// page to schedule the refetch; every failure restores the submit
// affordance and surfaces the server or transport text.
func (m *ActionModal) Resolve(msg submitOutcomeMsg) ActionResult {
	if msg.kind != m.kind || m.state != SubmissionInFlight {
		return ActionResult{}
	}

	if msg.err != nil {
		m.state = SubmissionIdle
		return ActionResult{
			Level: NoticeError,
			Text:  fmt.Sprintf("An error occurred: %v", msg.err),
		}
	}
	if !msg.outcome.OK {
		m.state = SubmissionIdle
		reason := msg.outcome.Reason
		if reason == "" {
			reason = "request failed"
		}
		return ActionResult{Level: NoticeError, Text: reason}
	}

	m.state = SubmissionSucceeded
	m.visible = false
	text := msg.outcome.Message
	if text == "" {
		text = "Done."
	}
	return ActionResult{
		Level:  NoticeSuccess,
		Text:   text,
		Reload: true,
	}
}

// View renders the modal box.
func (m ActionModal) View() string {
	if !m.visible {
		return ""
	}

	title := m.styles.Title.Render(m.kind.title())
	subject := m.styles.Bold.Render(m.binding.Title)

	quantityLabel := "Quantity"
	if m.kind == ActionProcessReturn && m.binding.MaxQuantity > 0 {
		quantityLabel = fmt.Sprintf("Quantity (max %d)", m.binding.MaxQuantity)
	}
	quantityView := m.quantity.View()
	if m.quantityInvalid {
		quantityView = m.styles.InputInvalid.Render(m.quantity.Value() + " ✗")
	}

	rows := []string{
		title,
		subject,
		"",
		m.styles.FieldLabel.Render(quantityLabel) + quantityView,
		m.styles.FieldLabel.Render(m.kind.extraLabel()) + m.extra.View(),
		"",
		m.submitLine(),
		m.styles.Muted.Render("tab: switch field • enter: submit • esc: cancel"),
	}
	return m.styles.ModalBox.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// submitLine is the submit affordance: its label swaps to a busy indicator
// for exactly as long as the call is in flight.
func (m ActionModal) submitLine() string {
	if m.state == SubmissionInFlight {
		return m.spin.View() + m.styles.Muted.Render(" Processing...")
	}
	return m.styles.Selected.Render("[ " + m.kind.submitLabel() + " ]")
}
