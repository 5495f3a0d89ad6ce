package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// SessionRefreshedMsg is sent from outside the UI loop when the cookie file
// changes on disk (browser re-login).
type SessionRefreshedMsg struct{}

// DashboardApp adapts DashboardModel to tea.Model.
type DashboardApp struct {
	Model DashboardModel
}

func (a DashboardApp) Init() tea.Cmd { return a.Model.Init() }

func (a DashboardApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(SessionRefreshedMsg); ok {
		cmd := a.Model.notices.Show(NoticeInfo, "Browser session refreshed")
		return a, cmd
	}
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

func (a DashboardApp) View() string { return a.Model.View() }

// ReportsApp adapts ReportsModel to tea.Model.
type ReportsApp struct {
	Model ReportsModel
}

func (a ReportsApp) Init() tea.Cmd { return a.Model.Init() }

func (a ReportsApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

func (a ReportsApp) View() string { return a.Model.View() }

// ExamApp adapts ExamPageModel to tea.Model.
type ExamApp struct {
	Model ExamPageModel
}

func (a ExamApp) Init() tea.Cmd { return a.Model.Init() }

func (a ExamApp) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

func (a ExamApp) View() string { return a.Model.View() }
