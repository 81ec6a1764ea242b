// Package conform diffs a component's spec record against its code record
// and its import-derived tier, producing the violation list.
package conform

import (
	"fmt"
	"sort"
	"strings"

	"speccheck/internal/component"
	"speccheck/internal/spec"
	"speccheck/internal/tier"
)

// Kind is a violation category. The string values are part of the report
// contract.
type Kind string

const (
	KindTierMismatch           Kind = "TIER_MISMATCH"
	KindUndocumentedProp       Kind = "UNDOCUMENTED_PROP"
	KindSpecDrift              Kind = "SPEC_DRIFT"
	KindPropTypeDrift          Kind = "PROP_TYPE_DRIFT"
	KindMissingState           Kind = "MISSING_STATE"
	KindMissingMockFile        Kind = "MISSING_MOCK_FILE"
	KindWrongMockStrategy      Kind = "WRONG_MOCK_STRATEGY"
	KindAccessibilityGap       Kind = "ACCESSIBILITY_GAP"
	KindMissingRequiredSection Kind = "MISSING_REQUIRED_SECTION"
	KindUnresolvedImport       Kind = "UNRESOLVED_IMPORT"
	KindUnparseableProp        Kind = "UNPARSEABLE_PROP"
)

// Hard reports whether the kind blocks a CI gate under default severity.
func (k Kind) Hard() bool {
	return k == KindTierMismatch || k == KindMissingRequiredSection
}

// rank orders kinds for report sorting; lower sorts first.
var rank = map[Kind]int{
	KindTierMismatch:           0,
	KindMissingRequiredSection: 1,
	KindMissingMockFile:        2,
	KindPropTypeDrift:          3,
}

// Rank returns the sort rank of the kind (unlisted kinds rank last).
func (k Kind) Rank() int {
	if r, ok := rank[k]; ok {
		return r
	}
	return len(rank)
}

// Violation is one detected mismatch between declared intent and actual
// structure.
type Violation struct {
	Kind      Kind   `json:"kind"`
	Component string `json:"component"`
	Detail    string `json:"detail"`
	Hard      bool   `json:"hard"`
}

// Input is everything known about one component.
type Input struct {
	Component component.Component
	Spec      *spec.Document
	// Code is nil when the component has no source file.
	Code *component.Record
	// Imports are the resolved import edges of the source.
	Imports []tier.Import
	// Unresolved lists import specifiers that could not be resolved; any
	// entry excludes the component from automatic tier inference.
	Unresolved []string
	Table      tier.Table
}

// InferredTier computes the tier the imports demand, or tier.Unknown when
// resolution was ambiguous or there is no source to analyze.
func (in Input) InferredTier() tier.Tier {
	if in.Code == nil || len(in.Unresolved) > 0 {
		return tier.Unknown
	}
	return in.Table.Infer(in.Imports)
}

// Check runs every stage and collects all violations. No stage's failure
// blocks a later stage.
func Check(in Input) []Violation {
	id := in.Component.ID()
	var violations []Violation
	add := func(kind Kind, detail string) {
		violations = append(violations, Violation{
			Kind:      kind,
			Component: id,
			Detail:    detail,
			Hard:      kind.Hard(),
		})
	}

	tierCheck(in, add)
	sectionsCheck(in, add)
	propsCheck(in, add)
	statesCheck(in, add)
	mockStrategyCheck(in, add)
	accessibilityCheck(in, add)

	for _, line := range in.Spec.Record.ReviewProps {
		add(KindUnparseableProp, fmt.Sprintf("props entry needs manual review: %q", line))
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Kind.Rank() < violations[j].Kind.Rank()
	})
	return violations
}

// tierCheck compares the inferred tier against the declared one. Declaring
// higher than inferred is accepted: more conservative than necessary is not
// a defect.
func tierCheck(in Input, add func(Kind, string)) {
	for _, source := range in.Unresolved {
		add(KindUnresolvedImport, fmt.Sprintf("import %q could not be resolved; tier inference skipped, review manually", source))
	}
	if in.Code == nil || len(in.Unresolved) > 0 {
		return
	}
	if !in.Spec.TierDeclared {
		return // reported by sectionsCheck
	}

	declared := in.Spec.Tier
	inferred := in.Table.Infer(in.Imports)
	if inferred <= declared {
		return
	}

	offending := in.Table.ForbiddenImports(declared, in.Imports)
	paths := make([]string, 0, len(offending))
	for _, imp := range offending {
		paths = append(paths, imp.Path)
	}
	add(KindTierMismatch, fmt.Sprintf("declared tier %s but imports demand %s (%s)",
		declared, inferred, strings.Join(paths, ", ")))
}

// sectionsCheck verifies the spec carries every section its declared tier
// requires.
func sectionsCheck(in Input, add func(Kind, string)) {
	if !in.Spec.TierDeclared {
		add(KindMissingRequiredSection, "spec declares no tier in frontmatter")
		return
	}
	for _, section := range in.Table.RequiredSections(in.Spec.Tier) {
		if !in.Spec.Record.Sections[section] {
			add(KindMissingRequiredSection, fmt.Sprintf("tier %s spec is missing the %q section", in.Spec.Tier, section))
		}
	}
}

// propsCheck takes the symmetric difference of spec and code props
// (callbacks included: a function-typed prop is still a prop of the public
// surface). Skipped when the source declares no props type.
func propsCheck(in Input, add func(Kind, string)) {
	if in.Code == nil || !in.Code.PropsDeclared {
		return
	}

	specProps := propTypes(&in.Spec.Record)
	codeProps := propTypes(in.Code)

	var names []string
	for name := range codeProps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		specType, documented := specProps[name]
		if !documented {
			add(KindUndocumentedProp, fmt.Sprintf("prop %q exists in code but not in the spec", name))
			continue
		}
		codeType := codeProps[name]
		if specType != "" && codeType != "" && normalizeType(specType) != normalizeType(codeType) {
			add(KindPropTypeDrift, fmt.Sprintf("prop %q is %q in the spec but %q in code", name, specType, codeType))
		}
	}

	names = names[:0]
	for name := range specProps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, exists := codeProps[name]; !exists {
			add(KindSpecDrift, fmt.Sprintf("prop %q is documented but absent from code", name))
		}
	}
}

// propTypes flattens a record's props and callbacks into name -> type.
func propTypes(r *component.Record) map[string]string {
	m := make(map[string]string, len(r.Props)+len(r.Callbacks))
	for _, p := range r.Props {
		m[p.Name] = p.Type
	}
	for _, c := range r.Callbacks {
		m[c.Name] = "(" + c.Params + ")"
	}
	return m
}

func normalizeType(t string) string {
	return strings.Join(strings.Fields(t), "")
}

// statesCheck flags code states absent from the spec. The inverse (spec
// documents an aspirational state the code never renders) is soft drift.
func statesCheck(in Input, add func(Kind, string)) {
	if in.Code == nil {
		return
	}
	for _, s := range in.Code.States {
		if in.Spec.Record.HasState(s.Name) {
			continue
		}
		add(KindMissingState, fmt.Sprintf("state %q detected in code (%s) but not documented", s.Name, s.Confidence))
	}
	for _, s := range in.Spec.Record.States {
		if in.Code.HasState(s.Name) {
			continue
		}
		add(KindSpecDrift, fmt.Sprintf("state %q is documented but not detected in code", s.Name))
	}
}

// mockStrategyCheck enforces the per-tier mocking convention: static
// fixtures below tier 4, a companion mock-data file from tier 4 up.
func mockStrategyCheck(in Input, add func(Kind, string)) {
	if !in.Spec.TierDeclared {
		return
	}
	declared := in.Spec.Tier

	if in.Table.MockRequired(declared) {
		if in.Component.MockPath == "" {
			add(KindMissingMockFile, fmt.Sprintf("tier %s requires a companion mock-data file", declared))
		}
		return
	}

	for _, imp := range in.Imports {
		if in.Table.IsHandlerImport(imp.Path) {
			add(KindWrongMockStrategy, fmt.Sprintf("tier %s must not use request-handler mocks (imports %s)", declared, imp.Path))
			return
		}
	}
}

// accessibilityCheck requires an accessibility note whenever the source
// renders interactive elements.
func accessibilityCheck(in Input, add func(Kind, string)) {
	if in.Code == nil || len(in.Code.Interactive) == 0 {
		return
	}
	if in.Spec.Record.Sections["accessibility"] && len(in.Spec.Record.Accessibility) > 0 {
		return
	}
	add(KindAccessibilityGap, fmt.Sprintf("interactive elements (%s) without accessibility notes",
		strings.Join(in.Code.Interactive, ", ")))
}
