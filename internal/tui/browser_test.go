package tui_test

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"speccheck/internal/conform"
	"speccheck/internal/runner"
	"speccheck/internal/tui"
)

func init() {
	// Strip all ANSI codes so assertions see plain text.
	lipgloss.SetColorProfile(termenv.Ascii)
}

func sampleReport() *runner.Report {
	return &runner.Report{
		Components: []runner.ComponentResult{
			{
				Component: "Badge/Badge",
				SpecPath:  "Badge/Badge.spec.md",
				Declared:  "0 (primitive)",
				Inferred:  "0 (primitive)",
			},
			{
				Component: "UserCard/UserCard",
				SpecPath:  "UserCard/UserCard.spec.md",
				Declared:  "2 (domain-typed)",
				Inferred:  "4 (connected)",
				Violations: []conform.Violation{
					{
						Kind:   conform.KindTierMismatch,
						Detail: "declared tier 2 (domain-typed) but imports demand 4 (connected)",
						Hard:   true,
					},
				},
			},
			{
				Component: "Broken/Broken",
				SpecPath:  "Broken/Broken.spec.md",
				Error:     "spec: parsing frontmatter",
			},
		},
		Checked: 3,
		Clean:   1,
		Hard:    1,
		Errors:  1,
	}
}

// setupBrowser returns a Browser fed by a canned report, plus a counter of
// reload calls.
func setupBrowser(t *testing.T) (*tui.Browser, *int) {
	t.Helper()

	calls := 0
	b := tui.NewBrowser(func() (*runner.Report, error) {
		calls++
		return sampleReport(), nil
	})
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return b, &calls
}

func sendKey(b *tui.Browser, k string) *tui.Browser {
	m, _ := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
	return m.(*tui.Browser)
}

func sendSpecialKey(b *tui.Browser, k tea.KeyType) *tui.Browser {
	m, _ := b.Update(tea.KeyMsg{Type: k})
	return m.(*tui.Browser)
}

func TestBrowser_InitialState(t *testing.T) {
	b, calls := setupBrowser(t)

	if *calls != 1 {
		t.Errorf("reload calls = %d, want 1", *calls)
	}

	out := b.View()
	for _, want := range []string{"COMPONENT", "Badge/Badge", "UserCard/UserCard", "Broken/Broken", "3 checked"} {
		if !strings.Contains(out, want) {
			t.Errorf("list view missing %q:\n%s", want, out)
		}
	}
}

func TestBrowser_ZeroWidthShowsLoading(t *testing.T) {
	b := tui.NewBrowser(func() (*runner.Report, error) { return sampleReport(), nil })
	if got := b.View(); got != "Loading..." {
		t.Errorf("View before WindowSizeMsg = %q", got)
	}
}

func TestBrowser_DetailShowsViolations(t *testing.T) {
	b, _ := setupBrowser(t)

	b = sendKey(b, "j") // select UserCard
	b = sendSpecialKey(b, tea.KeyEnter)

	out := b.View()
	if !strings.Contains(out, "TIER_MISMATCH") {
		t.Errorf("detail view missing violation kind:\n%s", out)
	}
	if !strings.Contains(out, "UserCard/UserCard.spec.md") {
		t.Errorf("detail view missing spec path:\n%s", out)
	}
}

func TestBrowser_DetailShowsErrorMarker(t *testing.T) {
	b, _ := setupBrowser(t)

	b = sendKey(b, "G") // jump to Broken
	b = sendSpecialKey(b, tea.KeyEnter)

	out := b.View()
	if !strings.Contains(out, "ERROR: spec: parsing frontmatter") {
		t.Errorf("detail view missing error marker:\n%s", out)
	}
}

func TestBrowser_EscFromDetailReturnsToList(t *testing.T) {
	b, _ := setupBrowser(t)

	b = sendSpecialKey(b, tea.KeyEnter)
	b = sendSpecialKey(b, tea.KeyEsc)

	if !strings.Contains(b.View(), "COMPONENT") {
		t.Errorf("esc did not return to list view:\n%s", b.View())
	}
}

func TestBrowser_FilterHidesClean(t *testing.T) {
	b, _ := setupBrowser(t)

	b = sendKey(b, "f")
	out := b.View()

	if strings.Contains(out, "Badge/Badge") {
		t.Errorf("filtered view still shows clean component:\n%s", out)
	}
	if !strings.Contains(out, "UserCard/UserCard") {
		t.Errorf("filtered view lost failing component:\n%s", out)
	}

	// Toggle back.
	b = sendKey(b, "f")
	if !strings.Contains(b.View(), "Badge/Badge") {
		t.Error("unfiltering did not restore clean component")
	}
}

func TestBrowser_RefreshReloads(t *testing.T) {
	b, calls := setupBrowser(t)

	sendKey(b, "r")
	if *calls != 2 {
		t.Errorf("reload calls after r = %d, want 2", *calls)
	}
}

func TestBrowser_ReloadMsgReloads(t *testing.T) {
	b, calls := setupBrowser(t)

	b.Update(tui.ReloadMsg{})
	if *calls != 2 {
		t.Errorf("reload calls after ReloadMsg = %d, want 2", *calls)
	}
}

func TestBrowser_DetailFollowsComponentAcrossReload(t *testing.T) {
	first := sampleReport()
	base := sampleReport().Components
	zeta := runner.ComponentResult{
		Component: "Zeta/Zeta",
		SpecPath:  "Zeta/Zeta.spec.md",
		Declared:  "0 (primitive)",
		Inferred:  "0 (primitive)",
	}
	shifted := sampleReport()
	shifted.Components = []runner.ComponentResult{base[0], zeta, base[1], base[2]}
	shifted.Checked = 4
	shifted.Clean = 2

	loads := 0
	b := tui.NewBrowser(func() (*runner.Report, error) {
		loads++
		if loads == 1 {
			return first, nil
		}
		return shifted, nil
	})
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	b = sendKey(b, "j") // select UserCard
	b = sendSpecialKey(b, tea.KeyEnter)

	// A watcher reload inserts Zeta at UserCard's old index.
	b.Update(tui.ReloadMsg{})

	out := b.View()
	if !strings.Contains(out, "UserCard/UserCard") {
		t.Errorf("detail view lost its component after reload:\n%s", out)
	}
	if strings.Contains(out, "Zeta/Zeta") {
		t.Errorf("detail view shows the row that took the old index:\n%s", out)
	}
}

func TestBrowser_DetailComponentRemovedReturnsToList(t *testing.T) {
	first := sampleReport()
	without := sampleReport()
	without.Components = []runner.ComponentResult{first.Components[0], first.Components[2]}
	without.Checked = 2
	without.Hard = 0

	loads := 0
	b := tui.NewBrowser(func() (*runner.Report, error) {
		loads++
		if loads == 1 {
			return first, nil
		}
		return without, nil
	})
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	b = sendKey(b, "j")
	b = sendSpecialKey(b, tea.KeyEnter)

	b.Update(tui.ReloadMsg{})

	out := b.View()
	if !strings.Contains(out, "COMPONENT") {
		t.Errorf("expected list view after selected component vanished:\n%s", out)
	}
}

func TestBrowser_ReloadErrorShownInStatusBar(t *testing.T) {
	fail := false
	b := tui.NewBrowser(func() (*runner.Report, error) {
		if fail {
			return nil, errors.New("config went away")
		}
		return sampleReport(), nil
	})
	b.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	fail = true
	b = sendKey(b, "r")

	if !strings.Contains(b.View(), "config went away") {
		t.Errorf("status bar missing reload error:\n%s", b.View())
	}
	// The previous report stays on screen.
	if !strings.Contains(b.View(), "Badge/Badge") {
		t.Error("reload error dropped the previous report")
	}
}

func TestBrowser_QuitKeys(t *testing.T) {
	for _, k := range []string{"q"} {
		b, _ := setupBrowser(t)
		_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)})
		if cmd == nil {
			t.Errorf("key %q did not quit", k)
		}
	}

	b, _ := setupBrowser(t)
	_, cmd := b.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Error("esc did not quit from list view")
	}
}

func TestBrowser_HelpView(t *testing.T) {
	b, _ := setupBrowser(t)

	b = sendKey(b, "?")
	if !strings.Contains(b.View(), "Keyboard Shortcuts") {
		t.Errorf("help view:\n%s", b.View())
	}

	// Any key closes help.
	b = sendKey(b, "x")
	if !strings.Contains(b.View(), "COMPONENT") {
		t.Error("help view did not close")
	}
}

func TestBrowser_NavigationClamps(t *testing.T) {
	b, _ := setupBrowser(t)

	// Up from the first row stays put.
	b = sendKey(b, "k")
	b = sendSpecialKey(b, tea.KeyEnter)
	if !strings.Contains(b.View(), "Badge/Badge.spec.md") {
		t.Errorf("cursor moved above first row:\n%s", b.View())
	}
	b = sendSpecialKey(b, tea.KeyEsc)

	// Down past the last row stays on the last.
	for range 10 {
		b = sendKey(b, "j")
	}
	b = sendSpecialKey(b, tea.KeyEnter)
	if !strings.Contains(b.View(), "Broken/Broken.spec.md") {
		t.Errorf("cursor not clamped to last row:\n%s", b.View())
	}
}
