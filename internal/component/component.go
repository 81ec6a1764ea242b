// Package component defines the component record shared by the spec parser,
// the code introspector, and the conformance engine, plus workspace
// discovery of spec-bearing directories.
package component

import (
	"path/filepath"

	"speccheck/internal/tier"
)

// Confidence tags how a fact was obtained. Heuristic findings carry lower
// severity downstream.
type Confidence int

const (
	// Certain facts come from explicit declarations.
	Certain Confidence = iota
	// Heuristic facts come from naming-convention pattern matching.
	Heuristic
)

// String returns "certain" or "heuristic".
func (c Confidence) String() string {
	if c == Certain {
		return "certain"
	}
	return "heuristic"
}

// Prop is a single component property.
type Prop struct {
	Name     string `json:"name"`
	Type     string `json:"type,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Default  string `json:"default,omitempty"`
}

// Callback is a function-typed prop or a documented event hook.
type Callback struct {
	Name   string `json:"name"`
	Params string `json:"params,omitempty"`
}

// State is a render state the component can be in.
type State struct {
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Confidence  Confidence `json:"-"`
}

// Record is the structured view of one side of a component: either what its
// spec declares or what its source exhibits.
type Record struct {
	Tier          tier.Tier
	Props         []Prop
	States        []State
	Callbacks     []Callback
	DataSources   []string
	ServerActions []string
	Accessibility []string
	// Sections marks which spec sections were present (spec side only).
	Sections map[string]bool
	// ReviewProps are prop lines that could not be parsed and need manual
	// review. They are surfaced, never silently dropped.
	ReviewProps []string
	// Interactive lists interactive elements found in the source (code side
	// only): button, input, select and friends.
	Interactive []string
	// PropsDeclared is true when the source carries an explicit props type
	// (code side only). Without one, prop diffing is skipped rather than
	// reporting every documented prop as drift.
	PropsDeclared bool
}

// Prop returns the prop with the given name, or nil.
func (r *Record) Prop(name string) *Prop {
	for i := range r.Props {
		if r.Props[i].Name == name {
			return &r.Props[i]
		}
	}
	return nil
}

// HasState reports whether a state with the given name is present.
func (r *Record) HasState(name string) bool {
	for _, s := range r.States {
		if s.Name == name {
			return true
		}
	}
	return false
}

// Component identifies one source unit: a directory entry with a spec
// document and (usually) a sibling source file.
type Component struct {
	// Name is the component name, from the spec filename.
	Name string `json:"name"`
	// Dir is the component directory.
	Dir string `json:"dir"`
	// SpecPath is the path to the spec document.
	SpecPath string `json:"spec"`
	// SourcePath is the sibling source file ("" when missing).
	SourcePath string `json:"source,omitempty"`
	// MockPath is the companion mock-data file ("" when absent).
	MockPath string `json:"mock,omitempty"`
}

// ID returns the stable component identifier used in reports.
func (c Component) ID() string {
	return filepath.ToSlash(filepath.Join(filepath.Base(c.Dir), c.Name))
}
