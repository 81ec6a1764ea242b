// Package tui implements an interactive browser for conformance reports.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"speccheck/internal/runner"
)

// view represents the current screen state.
type view int

const (
	viewList view = iota
	viewDetail
	viewHelp
)

// Key and layout constants.
const (
	keyEsc  = "esc"
	keyDown = "down"
	keyUp   = "up"

	listChrome   = 3 // header + blank line + status bar
	maxScrollOff = 1<<31 - 1
)

// Browser is the top-level bubbletea model: a component list pane with a
// per-component violation detail pane.
type Browser struct {
	reload    func() (*runner.Report, error)
	report    *runner.Report
	rows      []runner.ComponentResult
	activeRow int
	scrollOff int
	hideClean bool
	view      view
	width     int
	height    int
	err       error

	// Detail view. The selection is held by component ID and re-resolved
	// against the current report, so a reload cannot leave the pane
	// pointing at a stale row.
	detailID        string
	detailScrollOff int
}

// NewBrowser creates a Browser that obtains reports from reload.
func NewBrowser(reload func() (*runner.Report, error)) *Browser {
	b := &Browser{reload: reload}
	b.loadReport()
	return b
}

// Init implements tea.Model.
func (b *Browser) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (b *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	case ReloadMsg:
		b.loadReport()
		return b, nil
	case errMsg:
		b.err = msg.err
		return b, nil
	}
	return b, nil
}

// View implements tea.Model.
func (b *Browser) View() string {
	if b.width == 0 {
		return "Loading..."
	}

	switch b.view {
	case viewDetail:
		return b.viewDetail()
	case viewHelp:
		return b.viewHelp()
	default:
		return b.viewList()
	}
}

func (b *Browser) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys.
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return b, tea.Quit
	}

	switch b.view {
	case viewList:
		return b.handleListKey(msg)
	case viewDetail:
		return b.handleDetailKey(msg)
	case viewHelp:
		b.view = viewList
	}

	return b, nil
}

func (b *Browser) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return b, tea.Quit
	case "?":
		b.view = viewHelp
	case "j", keyDown:
		if b.activeRow < len(b.rows)-1 {
			b.activeRow++
			b.ensureVisible()
		}
	case "k", keyUp:
		if b.activeRow > 0 {
			b.activeRow--
			b.ensureVisible()
		}
	case "g":
		b.activeRow = 0
		b.ensureVisible()
	case "G":
		if len(b.rows) > 0 {
			b.activeRow = len(b.rows) - 1
			b.ensureVisible()
		}
	case "enter":
		b.handleEnter()
	case "f":
		b.hideClean = !b.hideClean
		b.rebuildRows()
	case "r":
		b.loadReport()
	}
	return b, nil
}

func (b *Browser) handleEnter() {
	if row := b.selectedRow(); row != nil {
		b.detailID = row.Component
		b.detailScrollOff = 0
		b.view = viewDetail
	}
}

func (b *Browser) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc, "backspace":
		b.view = viewList
		b.detailID = ""
		b.detailScrollOff = 0
	case "j", keyDown:
		b.detailScrollOff++
	case "k", keyUp:
		if b.detailScrollOff > 0 {
			b.detailScrollOff--
		}
	case "g":
		b.detailScrollOff = 0
	case "G":
		// Set to large value; viewDetail will clamp it.
		b.detailScrollOff = maxScrollOff
	}
	return b, nil
}

// loadReport re-runs the checks and rebuilds the visible rows.
func (b *Browser) loadReport() {
	report, err := b.reload()
	if err != nil {
		b.err = err
		return
	}
	b.report = report
	b.err = nil
	b.rebuildRows()
	if b.view == viewDetail && b.detailResult() == nil {
		b.view = viewList
		b.detailID = ""
		b.detailScrollOff = 0
	}
}

func (b *Browser) rebuildRows() {
	b.rows = b.rows[:0]
	if b.report != nil {
		for _, res := range b.report.Components {
			if b.hideClean && res.Clean() {
				continue
			}
			b.rows = append(b.rows, res)
		}
	}
	b.clampRow()
}

// detailResult looks the detail selection up in the current report.
func (b *Browser) detailResult() *runner.ComponentResult {
	if b.detailID == "" || b.report == nil {
		return nil
	}
	for i := range b.report.Components {
		if b.report.Components[i].Component == b.detailID {
			return &b.report.Components[i]
		}
	}
	return nil
}

func (b *Browser) selectedRow() *runner.ComponentResult {
	if len(b.rows) == 0 {
		return nil
	}
	if b.activeRow >= 0 && b.activeRow < len(b.rows) {
		return &b.rows[b.activeRow]
	}
	return nil
}

func (b *Browser) clampRow() {
	if len(b.rows) == 0 {
		b.activeRow = 0
		b.scrollOff = 0
		return
	}
	if b.activeRow >= len(b.rows) {
		b.activeRow = len(b.rows) - 1
	}
	b.ensureVisible()
}

// visibleRows returns the number of list rows that fit on screen.
func (b *Browser) visibleRows() int {
	n := b.height - listChrome
	if n < 1 {
		return 1
	}
	return n
}

// ensureVisible adjusts the scroll offset so the selected row is within
// the visible window.
func (b *Browser) ensureVisible() {
	maxVis := b.visibleRows()
	if b.activeRow >= b.scrollOff+maxVis {
		b.scrollOff = b.activeRow - maxVis + 1
	}
	if b.activeRow < b.scrollOff {
		b.scrollOff = b.activeRow
	}
}

// --- Messages ---

// ReloadMsg is sent by the file watcher to trigger a report refresh.
type ReloadMsg struct{}

type errMsg struct{ err error }

// --- Styles ---

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	activeRowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62"))

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	hardStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	softStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	cleanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("35"))

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	detailLabelStyle = lipgloss.NewStyle().Bold(true).Width(12) //nolint:mnd // label column width

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)
)

// --- View rendering ---

func (b *Browser) viewList() string {
	header := fmt.Sprintf("%-*s %-18s %-18s %s",
		b.componentWidth(), "COMPONENT", "DECLARED", "INFERRED", "STATUS")
	lines := []string{headerStyle.Width(b.width).Render(truncate(header, b.width))}

	maxVis := b.visibleRows()
	start := b.scrollOff
	end := start + maxVis
	if end > len(b.rows) {
		end = len(b.rows)
	}
	if start > len(b.rows) {
		start = len(b.rows)
	}

	if len(b.rows) == 0 {
		lines = append(lines, dimStyle.Render("  (no components)"))
	}
	for i := start; i < end; i++ {
		lines = append(lines, b.renderRow(i))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		strings.Join(lines, "\n"), "", b.renderStatusBar())
}

func (b *Browser) componentWidth() int {
	w := 11
	for _, res := range b.rows {
		if len(res.Component) > w {
			w = len(res.Component)
		}
	}
	return w + 2
}

func (b *Browser) renderRow(i int) string {
	res := b.rows[i]
	line := fmt.Sprintf("%-*s %-18s %-18s %s",
		b.componentWidth(), res.Component,
		orDash(res.Declared), orDash(res.Inferred), rowStatus(res))

	line = truncate(line, b.width)
	if i == b.activeRow {
		return activeRowStyle.Width(b.width).Render(line)
	}
	return line
}

func rowStatus(res runner.ComponentResult) string {
	switch {
	case res.Error != "":
		return errorStyle.Render("error")
	case len(res.Violations) == 0:
		return cleanStyle.Render("clean")
	}
	hard, soft := 0, 0
	for _, v := range res.Violations {
		if v.Hard {
			hard++
		} else {
			soft++
		}
	}
	cell := fmt.Sprintf("%d hard, %d soft", hard, soft)
	if hard > 0 {
		return hardStyle.Render(cell)
	}
	return softStyle.Render(cell)
}

func (b *Browser) renderStatusBar() string {
	summary := "no report"
	if b.report != nil {
		summary = fmt.Sprintf("%d checked | %d clean | %d hard | %d soft",
			b.report.Checked, b.report.Clean, b.report.Hard, b.report.Soft)
	}
	filter := ""
	if b.hideClean {
		filter = " | filter:violations"
	}
	status := fmt.Sprintf(" %s%s | j/k:navigate enter:detail f:filter r:refresh ?:help esc/q:quit",
		summary, filter)
	status = truncate(status, b.width)

	if b.err != nil {
		errStr := errorStyle.Render(truncate("Error: "+b.err.Error(), b.width))
		return errStr + "\n" + statusBarStyle.Render(status)
	}

	return statusBarStyle.Render(status)
}

func (b *Browser) viewDetail() string {
	res := b.detailResult()
	if res == nil {
		return "No component selected."
	}

	lines := detailLines(res, b.width)

	// Reserve the last line for the fixed status hint.
	viewHeight := b.height - 1
	if viewHeight < 1 {
		viewHeight = len(lines)
	}

	hint := "q/esc:back"
	if len(lines) > viewHeight {
		hint += "  j/k:scroll  g/G:top/bottom"
	}

	off := b.detailScrollOff
	maxOff := len(lines) - viewHeight
	if maxOff < 0 {
		maxOff = 0
	}
	if off > maxOff {
		off = maxOff
	}

	end := off + viewHeight
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[off:end], "\n") + "\n" + dimStyle.Render(hint)
}

func detailLines(res *runner.ComponentResult, width int) []string {
	var lines []string
	titleLine := lipgloss.NewStyle().Bold(true).Render(res.Component)
	lines = append(lines, titleLine)
	lines = append(lines, strings.Repeat("─", lipgloss.Width(titleLine)))
	lines = append(lines, "")
	lines = append(lines, detailLabelStyle.Render("Spec:")+"  "+res.SpecPath)
	lines = append(lines, detailLabelStyle.Render("Declared:")+"  "+orDash(res.Declared))
	lines = append(lines, detailLabelStyle.Render("Inferred:")+"  "+orDash(res.Inferred))

	if res.Error != "" {
		lines = append(lines, "")
		lines = append(lines, errorStyle.Render("ERROR: "+res.Error))
		return lines
	}

	lines = append(lines, "")
	if len(res.Violations) == 0 {
		lines = append(lines, cleanStyle.Render("No violations."))
		return lines
	}

	for _, v := range res.Violations {
		kind := softStyle.Render(string(v.Kind))
		if v.Hard {
			kind = hardStyle.Render(string(v.Kind))
		}
		lines = append(lines, kind)
		wrapped := lipgloss.NewStyle().Width(width - 2).Render(v.Detail)
		for _, l := range strings.Split(wrapped, "\n") {
			lines = append(lines, "  "+l)
		}
		lines = append(lines, "")
	}
	return lines
}

func (b *Browser) viewHelp() string {
	help := []struct{ key, desc string }{
		{"j/↓", "Move cursor down"},
		{"k/↑", "Move cursor up"},
		{"g/G", "Jump to top/bottom"},
		{"enter", "Show component detail"},
		{"f", "Toggle hiding clean components"},
		{"r", "Re-run the checks"},
		{"?", "Show this help"},
		{"esc/q", "Quit"},
		{"ctrl+c", "Force quit"},
	}

	var lines []string
	lines = append(lines, lipgloss.NewStyle().Bold(true).Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, h := range help {
		keyStyle := lipgloss.NewStyle().Bold(true).Width(12) //nolint:mnd // key column width
		lines = append(lines, keyStyle.Render(h.key)+"  "+h.desc)
	}

	lines = append(lines, "")
	lines = append(lines, dimStyle.Render("Press any key to close"))

	return dialogStyle.Render(strings.Join(lines, "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "--"
	}
	return s
}

func truncate(s string, maxLen int) string {
	if maxLen < 4 { //nolint:mnd // minimum length for truncation
		maxLen = 4
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
