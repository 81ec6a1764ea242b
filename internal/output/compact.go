package output

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"speccheck/internal/conform"
	"speccheck/internal/runner"
	"speccheck/internal/tier"
)

// ReportCompact renders a check report in one-line-per-component format.
func ReportCompact(w io.Writer, rep *runner.Report) {
	for _, res := range rep.Components {
		fmt.Fprintln(w, formatResultLine(res))
	}
	fmt.Fprintf(w, "%d checked, %d clean, %d hard, %d soft, %d errors\n",
		rep.Checked, rep.Clean, rep.Hard, rep.Soft, rep.Errors)
}

// ListCompact renders discovered components in compact format.
func ListCompact(w io.Writer, entries []runner.ListEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "No components found.")
		return
	}

	for _, e := range entries {
		line := e.Component + " [" + compactTier(e.Declared) + "->" + compactTier(e.Inferred) + "]"
		if e.Source == "" {
			line += " no-source"
		}
		if e.Mock != "" {
			line += " mock"
		}
		fmt.Fprintln(w, line)
	}
}

// TiersCompact renders the rule table in one-line-per-rule format.
func TiersCompact(w io.Writer, tb tier.Table) {
	for _, r := range tb.Rules {
		line := strconv.Itoa(int(r.Tier)) + " " + r.Tier.Name() + ": " + strings.Join(r.Patterns, " ")
		if r.TypeOnly {
			line += " (type-only)"
		}
		fmt.Fprintln(w, line)
	}
}

// formatResultLine builds the one-line representation of a component result.
func formatResultLine(res runner.ComponentResult) string {
	line := res.Component + " [" + compactTier(res.Declared) + "->" + compactTier(res.Inferred) + "]"

	if res.Error != "" {
		return line + " error: " + res.Error
	}
	if res.Clean() {
		return line + " clean"
	}

	seen := make(map[conform.Kind]bool, len(res.Violations))
	kinds := make([]string, 0, len(res.Violations))
	for _, v := range res.Violations {
		if seen[v.Kind] {
			continue
		}
		seen[v.Kind] = true
		kinds = append(kinds, string(v.Kind))
	}
	return line + " " + strings.Join(kinds, ",")
}

// compactTier reduces a tier string like "2 (domain-typed)" to its numeral.
func compactTier(s string) string {
	if s == "" {
		return "?"
	}
	if i := strings.IndexByte(s, ' '); i > 0 {
		return s[:i]
	}
	return s
}
