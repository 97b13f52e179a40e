package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles Bubbletea messages and updates model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case HostStartMsg:
		m.ensureHost(msg.Host)
		m.active[msg.Host] = true
		return m, nil
	case HostCompleteMsg:
		host := msg.Result.Host
		if host == "" {
			return m, nil
		}
		m.ensureHost(host)
		delete(m.active, host)
		previouslyDone := m.hosts[host].Outcome != ""
		m.hosts[host] = msg.Result
		if !previouslyDone {
			m.completed++
			m.markFinishedIfComplete()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			m.finished = true
			return m, tea.Quit
		}
	case tea.QuitMsg:
		m.finished = true
		return m, nil
	}

	return m, nil
}
