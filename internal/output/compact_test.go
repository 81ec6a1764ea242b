package output

import (
	"strings"
	"testing"

	"speccheck/internal/conform"
	"speccheck/internal/runner"
	"speccheck/internal/tier"
)

func TestReportCompact(t *testing.T) {
	var buf strings.Builder
	ReportCompact(&buf, sampleReport())

	out := buf.String()
	for _, want := range []string{
		"Badge/Badge [0->0] clean",
		"UserCard/UserCard [2->4] TIER_MISMATCH",
		"Broken/Broken [?->?] error: spec: parsing frontmatter",
		"3 checked, 1 clean, 1 hard, 0 soft, 1 errors",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ReportCompact output missing %q:\n%s", want, out)
		}
	}
}

func TestReportCompact_DeduplicatesKinds(t *testing.T) {
	rep := &runner.Report{
		Components: []runner.ComponentResult{
			{
				Component: "Form/Form",
				Declared:  "5 (form)",
				Inferred:  "5 (form)",
				Violations: []conform.Violation{
					{Kind: conform.KindUndocumentedProp, Detail: "prop \"a\""},
					{Kind: conform.KindUndocumentedProp, Detail: "prop \"b\""},
					{Kind: conform.KindMissingState, Detail: "state \"loading\""},
				},
			},
		},
		Checked: 1,
		Soft:    3,
	}

	var buf strings.Builder
	ReportCompact(&buf, rep)

	out := buf.String()
	if !strings.Contains(out, "Form/Form [5->5] UNDOCUMENTED_PROP,MISSING_STATE") {
		t.Errorf("ReportCompact output:\n%s", out)
	}
	if strings.Count(out, "UNDOCUMENTED_PROP") != 1 {
		t.Errorf("expected deduplicated kinds:\n%s", out)
	}
}

func TestListCompact(t *testing.T) {
	entries := []runner.ListEntry{
		{Component: "Badge/Badge", Declared: "0 (primitive)", Inferred: "0 (primitive)", Source: "Badge.tsx"},
		{Component: "Ghost/Ghost"},
		{Component: "Page/Page", Declared: "6 (page)", Inferred: "6 (page)", Source: "Page.tsx", Mock: "Page.mock.ts"},
	}

	var buf strings.Builder
	ListCompact(&buf, entries)

	out := buf.String()
	for _, want := range []string{
		"Badge/Badge [0->0]",
		"Ghost/Ghost [?->?] no-source",
		"Page/Page [6->6] mock",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("ListCompact output missing %q:\n%s", want, out)
		}
	}
}

func TestTiersCompact(t *testing.T) {
	var buf strings.Builder
	TiersCompact(&buf, tier.DefaultTable())

	out := buf.String()
	if !strings.Contains(out, "5 form: react-hook-form zod */schemas/*") {
		t.Errorf("TiersCompact output:\n%s", out)
	}
	if !strings.Contains(out, "(type-only)") {
		t.Errorf("TiersCompact should mark the type-only rule:\n%s", out)
	}
}
