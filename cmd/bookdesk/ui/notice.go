package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// noticeTTL is how long a transient notice stays visible.
const noticeTTL = 5 * time.Second

// NoticeLevel classifies a user-visible message.
type NoticeLevel int

const (
	NoticeSuccess NoticeLevel = iota
	NoticeError
	NoticeWarning
	NoticeInfo
)

// notice is one visible message. Blocking notices (the end-of-exam banner)
// never auto-dismiss.
type notice struct {
	seq      int
	level    NoticeLevel
	text     string
	blocking bool
}

// noticeExpiredMsg dismisses the notice with the matching sequence number.
// The sequence guard keeps a late tick from an earlier notice from
// dismissing a newer one.
type noticeExpiredMsg struct {
	seq int
}

// NoticeModel is the transient message surface shown above page content.
type NoticeModel struct {
	styles  Styles
	current *notice
	seq     int
}

// NewNoticeModel creates the notice surface.
func NewNoticeModel(styles Styles) NoticeModel {
	return NoticeModel{styles: styles}
}

// Show replaces the current notice and schedules its dismissal.
func (m *NoticeModel) Show(level NoticeLevel, text string) tea.Cmd {
	m.seq++
	m.current = &notice{seq: m.seq, level: level, text: text}
	seq := m.seq
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{seq: seq}
	})
}

// ShowBlocking replaces the current notice with one that stays until the
// page itself goes away.
func (m *NoticeModel) ShowBlocking(level NoticeLevel, text string) {
	m.seq++
	m.current = &notice{seq: m.seq, level: level, text: text, blocking: true}
}

// Update consumes dismissal ticks.
func (m *NoticeModel) Update(msg tea.Msg) {
	expired, ok := msg.(noticeExpiredMsg)
	if !ok || m.current == nil {
		return
	}
	if m.current.blocking || m.current.seq != expired.seq {
		return
	}
	m.current = nil
}

// Active reports whether a notice is visible.
func (m NoticeModel) Active() bool {
	return m.current != nil
}

// View renders the current notice, or an empty string.
func (m NoticeModel) View() string {
	if m.current == nil {
		return ""
	}
	var style = m.styles.Info
	switch m.current.level {
	case NoticeSuccess:
		style = m.styles.Success
	case NoticeError:
		style = m.styles.Error
	case NoticeWarning:
		style = m.styles.Warning
	}
	return style.Render(m.current.text)
}
