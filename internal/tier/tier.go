// Package tier defines the seven-level component classification lattice and
// the import-pattern rules that map module paths onto it.
package tier

import (
	"strconv"

	"speccheck/internal/clierr"
)

// Tier is one of seven ordered classification levels. A component may only
// import from its own tier or lower.
type Tier int

const (
	// Primitive is a presentational leaf built only on the UI kit.
	Primitive Tier = iota
	// Composed arranges other components without domain knowledge.
	Composed
	// DomainTyped displays domain entities via type-only imports.
	DomainTyped
	// Stateful owns client-side interaction state.
	Stateful
	// Connected reads or mutates data through actions, services, or contexts.
	Connected
	// Form binds a validation schema to a submit path.
	Form
	// Page owns routing, layout, and auth concerns.
	Page

	// Count is the number of tiers.
	Count = 7
)

// Unknown marks a component whose tier could not be inferred because an
// import did not resolve. It is never produced by classification rules.
const Unknown Tier = -1

var names = [Count]string{
	"primitive",
	"composed",
	"domain-typed",
	"stateful",
	"connected",
	"form",
	"page",
}

// Valid returns true for tiers 0 through 6.
func (t Tier) Valid() bool {
	return t >= 0 && t < Count
}

// Name returns the short name of the tier, or "unknown".
func (t Tier) Name() string {
	if !t.Valid() {
		return "unknown"
	}
	return names[t]
}

// String renders the tier as "N (name)" for reports.
func (t Tier) String() string {
	if !t.Valid() {
		return "unknown"
	}
	return strconv.Itoa(int(t)) + " (" + names[t] + ")"
}

// Parse converts a numeric string into a Tier.
func Parse(s string) (Tier, error) {
	n, err := strconv.Atoi(s)
	if err != nil || !Tier(n).Valid() {
		return Unknown, clierr.Newf(clierr.InvalidTier, "invalid tier %q (expected 0-6)", s).
			WithDetails(map[string]any{"input": s})
	}
	return Tier(n), nil
}

// Max returns the higher of two tiers. Tiers form a join-semilattice under
// max: a component's inferred tier is the join of its imports' tiers.
func Max(a, b Tier) Tier {
	if a > b {
		return a
	}
	return b
}
