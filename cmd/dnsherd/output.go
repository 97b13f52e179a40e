package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/opsdrift/dnsherd/internal/model"
	"github.com/opsdrift/dnsherd/internal/runlog"
)

var (
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	changedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	offlineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	faintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
)

func printSummary(w io.Writer, summary model.Summary, logPath string, dryRun bool) {
	fmt.Fprintln(w, headerStyle.Render("Summary"))
	fmt.Fprintf(w, "  %s %d\n", changedStyle.Render("Changed:"), summary.Changed)
	fmt.Fprintf(w, "  %s %d\n", faintStyle.Render("Unchanged:"), summary.Unchanged)
	fmt.Fprintf(w, "  %s %d\n", offlineStyle.Render("Offline:"), summary.Offline)
	fmt.Fprintf(w, "  %s %d\n", errStyle.Render("Error:"), summary.Error)
	if dryRun {
		fmt.Fprintln(w, faintStyle.Render("  dry-run: no changes were applied"))
	}
	fmt.Fprintf(w, "  run record: %s\n", logPath)
	if summary.Offline > 0 || summary.Error > 0 {
		fmt.Fprintf(w, "  retry failed hosts with: dnsherd run --prev-log %s\n", logPath)
	}
}

func renderRecord(rec *runlog.Record) string {
	var b strings.Builder

	ts := rec.RawTimestamp
	if ts == "" && !rec.Timestamp.IsZero() {
		ts = rec.Timestamp.String()
	}
	b.WriteString(headerStyle.Render("Run record") + "\n")
	fmt.Fprintf(&b, "  timestamp: %s\n", ts)
	fmt.Fprintf(&b, "  prefix:    %s\n", rec.IPPrefix)
	fmt.Fprintf(&b, "  dns:       %s\n", strings.Join(rec.DesiredDNS, ","))

	for _, outcome := range model.Outcomes {
		hosts := rec.Hosts(outcome)
		if len(hosts) == 0 {
			continue
		}
		header := strings.TrimSuffix(outcome.SectionHeader(), ":")
		fmt.Fprintf(&b, "\n%s (%d)\n", headerStyle.Render(header), len(hosts))
		for _, host := range hosts {
			fmt.Fprintf(&b, "  %s\n", host)
		}
	}

	return b.String()
}
