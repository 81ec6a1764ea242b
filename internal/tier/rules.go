package tier

import "strings"

// Import is a resolved import edge as seen by the classifier.
type Import struct {
	// Path is the canonical module path (barrels already followed).
	Path string
	// TypeOnly is true for `import type` edges.
	TypeOnly bool
}

// Rule maps module-path patterns to the tier they demand. Rules are matched
// in table order; the first match wins for a given import.
type Rule struct {
	Tier     Tier     `yaml:"tier"`
	Patterns []string `yaml:"patterns"`
	// TypeOnly restricts the rule to type-only imports.
	TypeOnly bool `yaml:"type_only,omitempty"`
}

// Table is the immutable classification rule set. It is loaded once at
// process start and passed by value into the pipeline.
type Table struct {
	Rules []Rule
	// Handlers are module-path patterns for request-handler mock files.
	// Components declared at tiers 0-3 must not import them.
	Handlers []string
	// Sections lists the spec sections required at each declared tier.
	Sections [Count][]string
}

// DefaultTable returns the built-in rule table.
func DefaultTable() Table {
	return Table{
		Rules: []Rule{
			{Tier: Page, Patterns: []string{"next/navigation", "next/headers", "*/auth/*"}},
			{Tier: Form, Patterns: []string{"react-hook-form", "zod", "*/schemas/*"}},
			{Tier: Connected, Patterns: []string{"*/actions/*", "*/services/*", "*/contexts/*", "*/api/*"}},
			{Tier: DomainTyped, Patterns: []string{"*/interfaces/*", "*/types/*"}, TypeOnly: true},
			// A runtime import of a domain module is data coupling, not typing.
			{Tier: Connected, Patterns: []string{"*/interfaces/*", "*/types/*"}},
			{Tier: Stateful, Patterns: []string{"*/hooks/*"}},
			{Tier: Composed, Patterns: []string{"./*", "../*", "@/components/*"}},
			{Tier: Primitive, Patterns: []string{
				"react", "@radix-ui/*", "@headlessui/*",
				"clsx", "class-variance-authority", "tailwind-merge", "lucide-react",
			}},
		},
		Handlers: []string{"*/mocks/handlers*", "msw", "msw/*"},
		Sections: [Count][]string{
			Primitive:   {"props", "accessibility"},
			Composed:    {"props", "states", "accessibility"},
			DomainTyped: {"props", "states", "accessibility"},
			Stateful:    {"props", "states", "accessibility"},
			Connected:   {"props", "states", "data-sources", "server-actions", "accessibility"},
			Form:        {"props", "states", "data-sources", "server-actions", "form-schema", "accessibility"},
			Page:        {"props", "states", "data-sources", "server-actions", "accessibility"},
		},
	}
}

// Classify maps a single import onto a tier. Paths matching no rule default
// to Primitive: an unknown third-party package is a library primitive.
func (tb Table) Classify(imp Import) Tier {
	for _, r := range tb.Rules {
		if r.TypeOnly && !imp.TypeOnly {
			continue
		}
		for _, p := range r.Patterns {
			if Match(p, imp.Path) {
				return r.Tier
			}
		}
	}
	return Primitive
}

// Infer derives the minimum tier the import set demands: the max over all
// imports. A component with zero imports is Primitive by definition.
func (tb Table) Infer(imports []Import) Tier {
	inferred := Primitive
	for _, imp := range imports {
		inferred = Max(inferred, tb.Classify(imp))
	}
	return inferred
}

// IsHandlerImport reports whether the path matches a request-handler mock
// pattern (the tier 4-6 mocking strategy).
func (tb Table) IsHandlerImport(path string) bool {
	for _, p := range tb.Handlers {
		if Match(p, path) {
			return true
		}
	}
	return false
}

// MockRequired reports whether the declared tier needs a companion mock-data
// file.
func (tb Table) MockRequired(t Tier) bool {
	return t >= Connected
}

// RequiredSections returns the spec sections a declared tier must carry.
func (tb Table) RequiredSections(t Tier) []string {
	if !t.Valid() {
		return nil
	}
	return tb.Sections[t]
}

// ForbiddenImports returns the imports a component declared at tier t must
// not have: any import classifying above t.
func (tb Table) ForbiddenImports(t Tier, imports []Import) []Import {
	var forbidden []Import
	for _, imp := range imports {
		if tb.Classify(imp) > t {
			forbidden = append(forbidden, imp)
		}
	}
	return forbidden
}

// Match reports whether a module path matches a pattern. Patterns without a
// wildcard match exactly or as a path prefix ("react" matches
// "react/jsx-runtime"). `*` matches any run of characters, so "@radix-ui/*"
// is a scope prefix and "*/actions/*" matches the segment anywhere.
func Match(pattern, path string) bool {
	if !strings.Contains(pattern, "*") {
		return path == pattern || strings.HasPrefix(path, pattern+"/")
	}
	parts := strings.Split(pattern, "*")

	// Anchor the first literal unless the pattern starts with "*".
	if parts[0] != "" {
		if !strings.HasPrefix(path, parts[0]) {
			return false
		}
		path = path[len(parts[0]):]
	}
	parts = parts[1:]

	for i, part := range parts {
		if part == "" {
			continue
		}
		idx := strings.Index(path, part)
		if idx < 0 {
			return false
		}
		// Anchor the last literal unless the pattern ends with "*".
		if i == len(parts)-1 && !strings.HasSuffix(pattern, "*") {
			if !strings.HasSuffix(path, part) {
				return false
			}
			return true
		}
		path = path[idx+len(part):]
	}
	return true
}
