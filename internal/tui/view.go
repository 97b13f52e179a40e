package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/opsdrift/dnsherd/internal/model"
)

// View renders the current state of the run.
func (m Model) View() string {
	var sections []string

	mode := "live"
	if m.params.DryRun {
		mode = "dry-run"
	}
	title := titleStyle.Render(fmt.Sprintf("dnsherd • %s → %s (%s)",
		m.params.IPPrefix, strings.Join(m.params.DesiredDNS, ","), mode))
	sections = append(sections, title)

	if m.total > 0 {
		percent := float64(m.completed) / float64(m.total)
		sections = append(sections, sectionStyle.Render("Progress"), m.bar.ViewAs(percent))
	}

	if len(m.order) > 0 {
		sections = append(sections, sectionStyle.Render("Hosts"), m.renderHostEntries())
	}

	summary := m.renderSummary()
	if strings.TrimSpace(summary) != "" {
		sections = append(sections, sectionStyle.Render("Summary"), summaryStyle.Render(summary))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHostEntries() string {
	var lines []string
	for _, host := range m.order {
		res := m.hosts[host]
		line := fmt.Sprintf(" %s %s", m.statusIcon(host, res), host)
		if strings.TrimSpace(res.Message) != "" {
			line = fmt.Sprintf("%s — %s", line, res.Message)
		}
		if res.Duration > 0 {
			line = fmt.Sprintf("%s (%s)", line, res.Duration.Truncate(10*time.Millisecond))
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderSummary() string {
	counts := map[model.Outcome]int{}
	for _, host := range m.order {
		if res := m.hosts[host]; res.Outcome != "" {
			counts[res.Outcome]++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d/%d hosts done", m.completed, m.total)
	if m.finished {
		fmt.Fprintf(&b, " — Changed:%d Unchanged:%d Offline:%d Error:%d",
			counts[model.OutcomeChanged], counts[model.OutcomeUnchanged],
			counts[model.OutcomeOffline], counts[model.OutcomeError])
	}
	if m.cancelled {
		b.WriteString(" (cancelled)")
	}
	return b.String()
}

func (m Model) statusIcon(host string, res model.HostResult) string {
	if res.Outcome == "" {
		if m.active[host] {
			return pendingStyle.Render("…")
		}
		return pendingStyle.Render("•")
	}
	return StatusIcon(res.Outcome)
}

// StatusIcon returns the glyph representing a host outcome.
func StatusIcon(outcome model.Outcome) string {
	switch outcome {
	case model.OutcomeChanged:
		return changedStyle.Render("✓")
	case model.OutcomeUnchanged:
		return unchangedStyle.Render("=")
	case model.OutcomeOffline:
		return offlineStyle.Render("⌁")
	case model.OutcomeError:
		return errorStyle.Render("✗")
	default:
		return pendingStyle.Render("?")
	}
}
