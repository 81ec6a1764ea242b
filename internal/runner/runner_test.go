package runner

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"speccheck/internal/clierr"
	"speccheck/internal/config"
	"speccheck/internal/conform"
	"speccheck/internal/tier"
)

// writeWorkspace lays out a component workspace under a temp dir and
// returns a Runner rooted there.
func writeWorkspace(t *testing.T, files map[string]string) (*Runner, string) {
	t.Helper()
	dir := t.TempDir()
	files["speccheck.yml"] = "version: 1\n"
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}
	cfg, err := config.Load(filepath.Join(dir, "speccheck.yml"))
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}
	return New(cfg, Options{Jobs: 2, Tier: tier.Unknown}), dir
}

const badgeSpec = `---
component: Badge
tier: 0
---

## Props
| name | type |
| --- | --- |
| label | string |

## Accessibility
- decorative, no interaction
`

const badgeSource = `import clsx from "clsx";

interface BadgeProps {
  label: string;
}

export function Badge({ label }: BadgeProps) {
  return <span className={clsx("badge")}>{label}</span>;
}
`

const userCardSpec = `---
component: UserCard
tier: 2
---

## Props
- user: User

## States
- loading: spinner while fetching

## Accessibility
- card is a labelled region
`

const userCardSource = `import { saveUser } from "@/lib/actions/save-user";
import type { User } from "@/interfaces/user";

interface UserCardProps {
  user: User;
}

export function UserCard({ user }: UserCardProps) {
  const loading = false;
  if (loading) {
    return null;
  }
  return <div onClick={() => saveUser(user)}>{user.name}</div>;
}
`

func result(t *testing.T, report *Report, id string) ComponentResult {
	t.Helper()
	for _, res := range report.Components {
		if res.Component == id {
			return res
		}
	}
	t.Fatalf("component %s missing from report", id)
	return ComponentResult{}
}

func hasKind(violations []conform.Violation, kind conform.Kind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}

// Without a config file the alias root comes from Options.Root, so checking
// a workspace outside the working directory still resolves alias imports.
func TestCheck_DefaultConfigAnchorsRootAtPath(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"components/UserCard/UserCard.spec.md": userCardSpec,
		"components/UserCard/UserCard.tsx":     userCardSource,
		"lib/actions/save-user.ts":             "export function saveUser() {}\n",
		"interfaces/user.ts":                   "export interface User { name: string }\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	r := New(config.NewDefault(), Options{Jobs: 1, Tier: tier.Unknown, Root: dir})
	report, err := r.Check(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	card := result(t, report, "UserCard/UserCard")
	if hasKind(card.Violations, conform.KindUnresolvedImport) {
		t.Errorf("alias imports unresolved, violations = %v", card.Violations)
	}
	if !strings.HasPrefix(card.Inferred, "4") {
		t.Errorf("UserCard inferred = %q, want tier 4", card.Inferred)
	}
	if !hasKind(card.Violations, conform.KindTierMismatch) {
		t.Errorf("UserCard violations = %v, want a tier mismatch", card.Violations)
	}
}

func TestCheck_Workspace(t *testing.T) {
	r, _ := writeWorkspace(t, map[string]string{
		"components/Badge/Badge.spec.md":       badgeSpec,
		"components/Badge/Badge.tsx":           badgeSource,
		"components/UserCard/UserCard.spec.md": userCardSpec,
		"components/UserCard/UserCard.tsx":     userCardSource,
		"lib/actions/save-user.ts":             "export function saveUser() {}\n",
		"interfaces/user.ts":                   "export interface User { name: string }\n",
	})

	report, err := r.Check(context.Background(), []string{filepath.Join(r.cfg.Dir(), "components")})
	if err != nil {
		t.Fatalf("Check: %v", err)
	}

	if report.Checked != 2 {
		t.Fatalf("Checked = %d, want 2", report.Checked)
	}

	badge := result(t, report, "Badge/Badge")
	if !badge.Clean() {
		t.Errorf("Badge not clean: error=%q violations=%v", badge.Error, badge.Violations)
	}
	if badge.Inferred != "0 (primitive)" {
		t.Errorf("Badge inferred = %q", badge.Inferred)
	}

	card := result(t, report, "UserCard/UserCard")
	if !hasKind(card.Violations, conform.KindTierMismatch) {
		t.Errorf("UserCard violations = %v, want a tier mismatch", card.Violations)
	}
	if card.Declared != "2 (domain-typed)" {
		t.Errorf("UserCard declared = %q", card.Declared)
	}
	if !strings.HasPrefix(card.Inferred, "4") {
		t.Errorf("UserCard inferred = %q, want tier 4", card.Inferred)
	}

	if report.Hard == 0 {
		t.Error("expected hard violations in report")
	}
	if got := report.ExitCode(false); got != 1 {
		t.Errorf("ExitCode = %d, want 1", got)
	}
}

// Running the pipeline twice over an unchanged workspace yields the same
// report.
func TestCheck_Idempotent(t *testing.T) {
	r, dir := writeWorkspace(t, map[string]string{
		"Badge/Badge.spec.md": badgeSpec,
		"Badge/Badge.tsx":     badgeSource,
	})

	first, err := r.Check(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.Check(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}

	if len(first.Components) != len(second.Components) {
		t.Fatalf("row counts differ: %d vs %d", len(first.Components), len(second.Components))
	}
	for i := range first.Components {
		a, b := first.Components[i], second.Components[i]
		if a.Component != b.Component || a.Error != b.Error || len(a.Violations) != len(b.Violations) {
			t.Errorf("row %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestCheck_ErrorMarkerRow(t *testing.T) {
	r, dir := writeWorkspace(t, map[string]string{
		"Badge/Badge.spec.md":   badgeSpec,
		"Badge/Badge.tsx":       badgeSource,
		"Broken/Broken.spec.md": "---\ntier: [not yaml\n---\n",
	})

	report, err := r.Check(context.Background(), []string{dir})
	if err != nil {
		t.Fatalf("one broken spec must not abort the run: %v", err)
	}

	broken := result(t, report, "Broken/Broken")
	if broken.Error == "" {
		t.Error("expected an error marker for the unparseable spec")
	}
	if report.Errors != 1 {
		t.Errorf("Errors = %d, want 1", report.Errors)
	}
	if got := report.ExitCode(false); got != 0 {
		t.Errorf("ExitCode = %d, want 0", got)
	}
}

func TestCheck_MissingSourceMarker(t *testing.T) {
	r, dir := writeWorkspace(t, map[string]string{
		"Ghost/Ghost.spec.md": badgeSpec,
	})

	report, err := r.Check(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	ghost := result(t, report, "Ghost/Ghost")
	if !strings.Contains(ghost.Error, "no source file") {
		t.Errorf("Error = %q", ghost.Error)
	}
	// The only component errored, so nothing was analyzable.
	if got := report.ExitCode(false); got != 2 {
		t.Errorf("ExitCode = %d, want 2", got)
	}
}

func TestCheck_NoComponents(t *testing.T) {
	r, dir := writeWorkspace(t, map[string]string{})

	_, err := r.Check(context.Background(), []string{dir})
	var cerr *clierr.Error
	if !errors.As(err, &cerr) || cerr.Code != clierr.NoComponents {
		t.Fatalf("err = %v, want NO_COMPONENTS", err)
	}
	if cerr.ExitCode() != 2 {
		t.Errorf("ExitCode = %d, want 2", cerr.ExitCode())
	}
}

func TestCheck_TierFilter(t *testing.T) {
	r, dir := writeWorkspace(t, map[string]string{
		"Badge/Badge.spec.md":       badgeSpec,
		"Badge/Badge.tsx":           badgeSource,
		"UserCard/UserCard.spec.md": userCardSpec,
		"UserCard/UserCard.tsx":     userCardSource,
		"lib/actions/save-user.ts":  "export function saveUser() {}\n",
		"interfaces/user.ts":        "export interface User {}\n",
	})
	r.tierFilter = tier.DomainTyped

	report, err := r.Check(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if report.Checked != 1 {
		t.Fatalf("Checked = %d, want 1", report.Checked)
	}
	if report.Components[0].Component != "UserCard/UserCard" {
		t.Errorf("filtered report kept %s", report.Components[0].Component)
	}
}

func TestCheck_SeverityAllEscalatesSoft(t *testing.T) {
	report := &Report{}
	report.add(ComponentResult{
		Component: "Badge/Badge",
		Violations: []conform.Violation{
			{Kind: conform.KindUndocumentedProp, Hard: false},
		},
	})

	if got := report.ExitCode(false); got != 0 {
		t.Errorf("default severity ExitCode = %d, want 0", got)
	}
	if got := report.ExitCode(true); got != 1 {
		t.Errorf("severity=all ExitCode = %d, want 1", got)
	}
}

func TestList(t *testing.T) {
	r, dir := writeWorkspace(t, map[string]string{
		"Badge/Badge.spec.md": badgeSpec,
		"Badge/Badge.tsx":     badgeSource,
		"Ghost/Ghost.spec.md": badgeSpec,
	})

	entries, err := r.List(context.Background(), []string{dir})
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}

	badge := entries[0]
	if badge.Component != "Badge/Badge" || badge.Declared != "0 (primitive)" || badge.Inferred != "0 (primitive)" {
		t.Errorf("badge entry = %+v", badge)
	}
	ghost := entries[1]
	if ghost.Source != "" || ghost.Inferred != "" {
		t.Errorf("ghost entry = %+v", ghost)
	}
}
