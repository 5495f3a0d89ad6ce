package ui

import (
	"testing"

	"bookdesk/internal/api"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestExamPage(exam api.Exam) ExamPageModel {
	client := api.New("http://127.0.0.1:1", nil, zap.NewNop())
	m := NewExamPage(exam.ID, client, DefaultStyles(), zap.NewNop())
	m, _ = m.Update(examLoadedMsg{exam: exam})
	return m
}

func TestExamPage_CountdownStartsFromLoadedExam(t *testing.T) {
	m := newTestExamPage(api.Exam{ID: 42, Title: "Midterm", DurationSeconds: 600})

	require.True(t, m.loaded)
	assert.True(t, m.countdown.Active())
}

func TestExamPage_NoTimeLimitStaysInert(t *testing.T) {
	m := newTestExamPage(api.Exam{ID: 42, Title: "Practice", DurationSeconds: 0})

	assert.False(t, m.countdown.Active())
	assert.Contains(t, m.View(), "no time limit")
}

func TestExamPage_ExpiryIssuesFinishOnce(t *testing.T) {
	m := newTestExamPage(api.Exam{ID: 42, Title: "Midterm", DurationSeconds: 5})

	m, cmd := m.Update(examExpiredMsg{examID: 42})
	require.NotNil(t, cmd, "expiry starts the automatic submission")
	assert.True(t, m.finishIssued)
	assert.Contains(t, m.View(), "Time is up!")

	// A duplicate expiry message must not start a second call.
	m, cmd = m.Update(examExpiredMsg{examID: 42})
	assert.Nil(t, cmd)
}

func TestExamPage_ExpiryBannerNeverDismisses(t *testing.T) {
	m := newTestExamPage(api.Exam{ID: 42, Title: "Midterm", DurationSeconds: 5})
	m, _ = m.Update(examExpiredMsg{examID: 42})

	m, _ = m.Update(noticeExpiredMsg{seq: m.notices.seq})
	assert.True(t, m.notices.Active())
}

func TestExamPage_FinishOutcomeEndsThePage(t *testing.T) {
	m := newTestExamPage(api.Exam{ID: 42, Title: "Midterm", DurationSeconds: 5})
	m, _ = m.Update(examExpiredMsg{examID: 42})

	m, _ = m.Update(examFinishedMsg{outcome: api.Outcome{OK: true, Message: "Exam submitted."}})

	assert.True(t, m.finished)
	assert.Contains(t, m.View(), "Exam submitted.")

	_, cmd := m.Update(keyRunes('q'))
	require.NotNil(t, cmd, "q leaves the finished page")
}

func TestExamPage_MediaFieldFollowsQuestionType(t *testing.T) {
	m := newTestExamPage(api.Exam{ID: 42, Title: "Midterm", DurationSeconds: 600})
	require.Equal(t, "mcq", questionTypes[m.qtypeIndex])
	assert.NotContains(t, m.View(), "Audio file")

	// mcq -> essay -> audio_mcq
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, "audio_mcq", questionTypes[m.qtypeIndex])
	assert.Contains(t, m.View(), "Audio file")
	assert.NotContains(t, m.View(), "Image file")

	// Typing lands in the audio path field.
	m, _ = m.Update(keyRunes('x'))
	assert.Equal(t, "x", m.audioPath.Value())

	// Cycling backwards from mcq wraps to image_essay.
	m.qtypeIndex = 0
	m.syncMediaFields()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	require.Equal(t, "image_essay", questionTypes[m.qtypeIndex])
	assert.Contains(t, m.View(), "Image file")
}
