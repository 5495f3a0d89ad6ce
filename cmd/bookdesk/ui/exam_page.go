package ui

import (
	"context"
	"fmt"
	"strings"

	"bookdesk/internal/api"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// questionTypes mirrors the server's question type choices. Audio and image
// variants carry an extra media field.
var questionTypes = []string{
	"mcq",
	"essay",
	"audio_mcq",
	"audio_essay",
	"image_mcq",
	"image_essay",
}

type examLoadedMsg struct {
	exam api.Exam
	err  error
}

type examFinishedMsg struct {
	outcome api.Outcome
	err     error
}

// ExamPageModel hosts the countdown for an active exam attempt and the
// question editing form whose media fields toggle with the question type.
type ExamPageModel struct {
	styles Styles
	client *api.Client
	log    *zap.Logger

	examID    int64
	exam      api.Exam
	loaded    bool
	countdown CountdownModel
	notices   NoticeModel

	qtypeIndex int
	audioPath  textinput.Model
	imagePath  textinput.Model

	finishIssued bool
	finished     bool
	finishText   string

	width  int
	height int
}

// NewExamPage creates the exam page for the given exam id.
func NewExamPage(examID int64, client *api.Client, styles Styles, log *zap.Logger) ExamPageModel {
	audio := textinput.New()
	audio.Prompt = ""
	audio.Placeholder = "path/to/audio.mp3"
	audio.Width = 32

	image := textinput.New()
	image.Prompt = ""
	image.Placeholder = "path/to/image.png"
	image.Width = 32

	return ExamPageModel{
		styles:    styles,
		client:    client,
		log:       log,
		examID:    examID,
		notices:   NewNoticeModel(styles),
		audioPath: audio,
		imagePath: image,
	}
}

// Init fetches the exam descriptor; the countdown starts once it arrives.
func (m ExamPageModel) Init() tea.Cmd {
	client := m.client
	examID := m.examID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		exam, err := client.Exam(ctx, examID)
		return examLoadedMsg{exam: exam, err: err}
	}
}

// Update drives the page.
func (m ExamPageModel) Update(msg tea.Msg) (ExamPageModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case examLoadedMsg:
		if msg.err != nil {
			m.log.Warn("exam load failed", zap.Error(msg.err))
			return m, m.notices.Show(NoticeError, fmt.Sprintf("Could not load exam: %v", msg.err))
		}
		m.exam = msg.exam
		m.loaded = true
		// Duration and id come from the page data exactly once; if either
		// is absent the countdown stays inert and the page is read-only.
		m.countdown = NewCountdown(m.exam.ID, m.exam.DurationSeconds)
		return m, m.countdown.Init()

	case countdownTickMsg:
		var cmd tea.Cmd
		m.countdown, cmd = m.countdown.Update(msg)
		return m, cmd

	case examExpiredMsg:
		// Blocking end-of-time notice, then the one-time finish call. The
		// countdown has already cancelled its tick by the time this fires.
		m.notices.ShowBlocking(NoticeWarning, "Time is up! The exam will be submitted automatically.")
		if m.finishIssued {
			return m, nil
		}
		m.finishIssued = true
		client := m.client
		examID := msg.examID
		return m, func() tea.Msg {
			ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
			defer cancel()
			outcome, err := client.FinishExam(ctx, examID)
			return examFinishedMsg{outcome: outcome, err: err}
		}

	case examFinishedMsg:
		m.finished = true
		switch {
		case msg.err != nil:
			m.finishText = fmt.Sprintf("Automatic submission failed: %v", msg.err)
			m.log.Error("exam finish failed", zap.Error(msg.err))
		case msg.outcome.OK:
			m.finishText = msg.outcome.Message
		default:
			m.finishText = msg.outcome.Reason
		}
		return m, nil

	case noticeExpiredMsg:
		m.notices.Update(msg)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m ExamPageModel) handleKey(msg tea.KeyMsg) (ExamPageModel, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "q":
		if m.finished {
			return m, tea.Quit
		}
	case "left":
		m.qtypeIndex = (m.qtypeIndex + len(questionTypes) - 1) % len(questionTypes)
		m.syncMediaFields()
		return m, nil
	case "right":
		m.qtypeIndex = (m.qtypeIndex + 1) % len(questionTypes)
		m.syncMediaFields()
		return m, nil
	}

	var cmd tea.Cmd
	qtype := questionTypes[m.qtypeIndex]
	switch {
	case strings.HasPrefix(qtype, "audio_"):
		m.audioPath, cmd = m.audioPath.Update(msg)
	case strings.HasPrefix(qtype, "image_"):
		m.imagePath, cmd = m.imagePath.Update(msg)
	}
	return m, cmd
}

// syncMediaFields shows only the media field the current question type
// uses, the way the question form toggles its file inputs.
func (m *ExamPageModel) syncMediaFields() {
	qtype := questionTypes[m.qtypeIndex]
	m.audioPath.Blur()
	m.imagePath.Blur()
	if strings.HasPrefix(qtype, "audio_") {
		m.audioPath.Focus()
	} else if strings.HasPrefix(qtype, "image_") {
		m.imagePath.Focus()
	}
}

// View renders the exam page.
func (m ExamPageModel) View() string {
	header := m.styles.Header.Render("BookDesk — Exam")

	if !m.loaded {
		body := m.styles.Content.Render(m.styles.Muted.Render("Loading exam..."))
		return lipgloss.JoinVertical(lipgloss.Left, header, m.notices.View(), body)
	}

	if m.finished {
		lines := []string{
			m.notices.View(),
			"",
			m.styles.Bold.Render(m.finishText),
			m.styles.Muted.Render("Press q to leave."),
		}
		return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Content.Render(strings.Join(lines, "\n")))
	}

	title := m.styles.Title.Render(m.exam.Title)
	clock := m.countdown.View(m.styles)
	if !m.countdown.Active() {
		clock = m.styles.Muted.Render("(no time limit)")
	}

	qtype := questionTypes[m.qtypeIndex]
	form := []string{
		m.styles.FieldLabel.Render("Type") + m.styles.Selected.Render("← "+qtype+" →"),
	}
	switch {
	case strings.HasPrefix(qtype, "audio_"):
		form = append(form, m.styles.FieldLabel.Render("Audio file")+m.audioPath.View())
	case strings.HasPrefix(qtype, "image_"):
		form = append(form, m.styles.FieldLabel.Render("Image file")+m.imagePath.View())
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		title,
		clock,
		"",
		strings.Join(form, "\n"),
	)
	footer := m.styles.Footer.Render("←/→: question type • esc: quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, m.notices.View(), m.styles.Content.Render(body), footer)
}
