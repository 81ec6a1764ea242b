package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"speccheck/internal/runner"
	"speccheck/internal/tier"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("244"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	hardStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("160"))
	softStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("178"))
)

// DisableColor strips all styling from table output.
func DisableColor() {
	headerStyle = lipgloss.NewStyle()
	dimStyle = lipgloss.NewStyle()
	hardStyle = lipgloss.NewStyle()
	softStyle = lipgloss.NewStyle()
}

// ReportTable renders a check report: a summary row per component, then
// the violations grouped under each failing component.
func ReportTable(w io.Writer, rep *runner.Report) {
	const pad = 2
	compW, declW, infW := 11, 10, 10
	for _, res := range rep.Components {
		compW = max(compW, len(res.Component)+pad)
		declW = max(declW, len(res.Declared)+pad)
		infW = max(infW, len(res.Inferred)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %s",
		compW, "COMPONENT", declW, "DECLARED", infW, "INFERRED", "STATUS")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, res := range rep.Components {
		fmt.Fprintf(w, "%-*s %-*s %-*s %s\n",
			compW, res.Component,
			declW, stringOrDash(res.Declared),
			infW, stringOrDash(res.Inferred),
			statusCell(res))
	}

	for _, res := range rep.Components {
		if res.Error == "" && len(res.Violations) == 0 {
			continue
		}
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerStyle.Render(res.Component))
		if res.Error != "" {
			fmt.Fprintf(w, "  %s %s\n", hardStyle.Render("ERROR"), res.Error)
			continue
		}
		for _, v := range res.Violations {
			kind := softStyle.Render(string(v.Kind))
			if v.Hard {
				kind = hardStyle.Render(string(v.Kind))
			}
			fmt.Fprintf(w, "  %s %s\n", kind, v.Detail)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%d checked, %d clean, %d hard, %d soft, %d errors\n",
		rep.Checked, rep.Clean, rep.Hard, rep.Soft, rep.Errors)
}

func statusCell(res runner.ComponentResult) string {
	switch {
	case res.Error != "":
		return hardStyle.Render("error")
	case len(res.Violations) == 0:
		return "clean"
	}
	hard, soft := 0, 0
	for _, v := range res.Violations {
		if v.Hard {
			hard++
		} else {
			soft++
		}
	}
	cell := strconv.Itoa(hard) + " hard, " + strconv.Itoa(soft) + " soft"
	if hard > 0 {
		return hardStyle.Render(cell)
	}
	return softStyle.Render(cell)
}

// ListTable renders discovered components.
func ListTable(w io.Writer, entries []runner.ListEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No components found.")
		return
	}

	const pad = 2
	compW, declW, infW := 11, 10, 10
	for _, e := range entries {
		compW = max(compW, len(e.Component)+pad)
		declW = max(declW, len(e.Declared)+pad)
		infW = max(infW, len(e.Inferred)+pad)
	}

	header := fmt.Sprintf("%-*s %-*s %-*s %-8s %s",
		compW, "COMPONENT", declW, "DECLARED", infW, "INFERRED", "SOURCE", "MOCK")
	fmt.Fprintln(w, headerStyle.Render(header))

	for _, e := range entries {
		fmt.Fprintf(w, "%-*s %-*s %-*s %-8s %s\n",
			compW, e.Component,
			declW, stringOrDash(e.Declared),
			infW, stringOrDash(e.Inferred),
			yesNo(e.Source != ""), yesNo(e.Mock != ""))
	}
}

// TiersTable renders the active classification rule table.
func TiersTable(w io.Writer, tb tier.Table) {
	header := fmt.Sprintf("%-6s %-14s %s", "TIER", "NAME", "PATTERNS")
	fmt.Fprintln(w, headerStyle.Render(header))

	for t := tier.Primitive; t < tier.Count; t++ {
		printed := false
		for _, rule := range tb.Rules {
			if rule.Tier != t {
				continue
			}
			label, name := "", ""
			if !printed {
				label, name = strconv.Itoa(int(t)), t.Name()
			}
			patterns := strings.Join(rule.Patterns, ", ")
			if rule.TypeOnly {
				patterns += dimStyle.Render(" (type-only)")
			}
			fmt.Fprintf(w, "%-6s %-14s %s\n", label, name, patterns)
			printed = true
		}
		if !printed {
			fmt.Fprintf(w, "%-6d %-14s %s\n", int(t), t.Name(), dimStyle.Render("(no patterns)"))
		}
	}
}

// Messagef prints a simple formatted message line.
func Messagef(w io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(w, format+"\n", args...)
}

func stringOrDash(s string) string {
	if s == "" {
		return dimStyle.Render("--")
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return dimStyle.Render("no")
}
