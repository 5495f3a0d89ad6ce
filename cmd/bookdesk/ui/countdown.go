package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// tickPeriod is the countdown's fixed tick interval.
const tickPeriod = time.Second

// CountdownPhase is the controller's lifecycle. Expired is terminal.
type CountdownPhase int

const (
	CountdownRunning CountdownPhase = iota
	CountdownExpired
)

// tickResult is what one tick did.
type tickResult int

const (
	tickRendered tickResult = iota // a value was rendered and time decremented
	tickExpired                    // this tick crossed into Expired; fire the terminal transition
	tickInert                      // already expired; nothing happens
)

// countdownState is the seconds-remaining state machine. It is owned
// exclusively by CountdownModel; nothing else reads or writes it. The
// current value is rendered before the decrement, so the display counts
// down to and briefly includes zero, and the expiry transition happens on
// the tick after zero was shown.
type countdownState struct {
	remaining int
	display   string
	phase     CountdownPhase
}

func (s *countdownState) tick() tickResult {
	if s.phase == CountdownExpired {
		return tickInert
	}
	if s.remaining < 0 {
		s.phase = CountdownExpired
		return tickExpired
	}
	s.display = formatClock(s.remaining)
	s.remaining--
	return tickRendered
}

func (s countdownState) currentState() (int, CountdownPhase) {
	return s.remaining, s.phase
}

// formatClock renders whole seconds as minutes:seconds with the seconds
// zero-padded to two digits.
func formatClock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

// countdownTickMsg is one period of the exam countdown.
type countdownTickMsg struct{}

// examExpiredMsg fires exactly once, when the countdown crosses zero.
type examExpiredMsg struct {
	examID int64
}

// CountdownModel drives the visible exam countdown and its guaranteed
// one-time terminal transition. If the hosting page has no active exam
// (zero id or duration) the model never starts.
type CountdownModel struct {
	state  countdownState
	examID int64
	active bool
}

// NewCountdown creates a countdown for the given exam. Both values are
// fixed for the model's lifetime.
func NewCountdown(examID int64, seconds int) CountdownModel {
	return CountdownModel{
		state:  countdownState{remaining: seconds},
		examID: examID,
		active: examID > 0 && seconds > 0,
	}
}

// Active reports whether the countdown is running a real exam.
func (m CountdownModel) Active() bool { return m.active }

// Expired reports whether the terminal transition has happened.
func (m CountdownModel) Expired() bool {
	_, phase := m.state.currentState()
	return phase == CountdownExpired
}

// Display returns the last rendered clock value.
func (m CountdownModel) Display() string { return m.state.display }

// Init schedules the first tick, or nothing when inert.
func (m CountdownModel) Init() tea.Cmd {
	if !m.active {
		return nil
	}
	return countdownTick()
}

func countdownTick() tea.Cmd {
	return tea.Tick(tickPeriod, func(time.Time) tea.Msg {
		return countdownTickMsg{}
	})
}

// Update advances the state machine by one tick. On expiry, rescheduling
// stops before the terminal message is emitted, so the tick can never fire
// again afterward; late or queued ticks hit the inert branch.
func (m CountdownModel) Update(msg tea.Msg) (CountdownModel, tea.Cmd) {
	if _, ok := msg.(countdownTickMsg); !ok || !m.active {
		return m, nil
	}

	switch m.state.tick() {
	case tickExpired:
		examID := m.examID
		return m, func() tea.Msg {
			return examExpiredMsg{examID: examID}
		}
	case tickInert:
		return m, nil
	default:
		return m, countdownTick()
	}
}

// View renders the clock.
func (m CountdownModel) View(styles Styles) string {
	if !m.active || m.state.display == "" {
		return ""
	}
	return styles.TimerClock.Render(m.state.display)
}
