package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/opsdrift/dnsherd/internal/model"
)

// HostStartMsg indicates a host has started reconciling.
type HostStartMsg struct {
	Host string
}

// HostCompleteMsg reports that a host has finished reconciling.
type HostCompleteMsg struct {
	Result model.HostResult
}

// Model contains the Bubbletea state for the run progress display.
type Model struct {
	params         model.RunParameters
	order          []string
	hosts          map[string]model.HostResult
	active         map[string]bool
	total          int
	completed      int
	finished       bool
	cancelled      bool
	nonInteractive bool
	width          int
	bar            progress.Model
}

// NewModel constructs a TUI model tracking the given host set.
func NewModel(hosts []string, params model.RunParameters, nonInteractive bool) Model {
	m := Model{
		params:         params,
		hosts:          make(map[string]model.HostResult, len(hosts)),
		active:         make(map[string]bool),
		nonInteractive: nonInteractive,
		bar:            progress.New(progress.WithDefaultGradient()),
	}

	for _, host := range hosts {
		if _, exists := m.hosts[host]; !exists {
			m.hosts[host] = model.HostResult{Host: host}
			m.order = append(m.order, host)
			m.total++
		}
	}

	return m
}

// Init starts the Bubbletea program.
func (m Model) Init() tea.Cmd {
	return nil
}

// TotalHosts returns the number of hosts tracked by the model.
func (m Model) TotalHosts() int {
	return m.total
}

// CompletedHosts returns the number of finished hosts.
func (m Model) CompletedHosts() int {
	return m.completed
}

// IsFinished reports whether the run has completed.
func (m Model) IsFinished() bool {
	return m.finished
}

func (m *Model) ensureHost(host string) {
	if host == "" {
		return
	}
	if _, exists := m.hosts[host]; !exists {
		m.hosts[host] = model.HostResult{Host: host}
		m.order = append(m.order, host)
		m.total++
	}
}

func (m *Model) markFinishedIfComplete() {
	if m.total > 0 && m.completed >= m.total {
		m.finished = true
	}
}
