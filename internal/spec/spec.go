// Package spec parses component specification documents: YAML frontmatter
// followed by markdown sections describing props, states, callbacks, data
// bindings, and accessibility notes.
package spec

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.yaml.in/yaml/v3"

	"speccheck/internal/component"
	"speccheck/internal/tier"
)

// Document is a parsed spec. Parsing is resilient: missing or malformed
// sections are reported as gaps by the conformance engine, never as parse
// failures.
type Document struct {
	// Component is the component name from frontmatter ("" when absent).
	Component string
	// Tier is the declared tier, or tier.Unknown when absent or invalid.
	Tier tier.Tier
	// TierDeclared is false when the frontmatter carried no usable tier.
	TierDeclared bool
	// Record holds the structured section contents.
	Record component.Record
}

// frontmatter is the YAML header of a spec document.
type frontmatter struct {
	Component string `yaml:"component"`
	Tier      *int   `yaml:"tier"`
}

var (
	bulletRe    = regexp.MustCompile(`^[-*]\s+(.*)$`)
	statePropRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_-]*)\s*:\s*(.*)$`)
	callbackRe  = regexp.MustCompile(`^(on[A-Z][A-Za-z0-9_]*)\s*(?:\(([^)]*)\))?\s*(?::\s*.*)?$`)
	propLineRe  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)(\?)?\s*:\s*(.+)$`)
)

// ParseFile reads and parses a spec document.
func ParseFile(path string) (*Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from workspace discovery
	if err != nil {
		return nil, fmt.Errorf("reading spec: %w", err)
	}
	return Parse(data)
}

// Parse parses spec document content. The only hard failure is frontmatter
// that is syntactically invalid YAML; everything else degrades to gaps.
func Parse(content []byte) (*Document, error) {
	front, body := splitFrontmatter(string(content))

	doc := &Document{Tier: tier.Unknown}
	doc.Record.Sections = make(map[string]bool)

	if front != "" {
		var fm frontmatter
		if err := yaml.Unmarshal([]byte(front), &fm); err != nil {
			return nil, fmt.Errorf("parsing frontmatter: %w", err)
		}
		doc.Component = fm.Component
		if fm.Tier != nil && tier.Tier(*fm.Tier).Valid() {
			doc.Tier = tier.Tier(*fm.Tier)
			doc.TierDeclared = true
		}
	}

	for name, lines := range splitSections(body) {
		doc.Record.Sections[name] = true
		parseSection(doc, name, lines)
	}

	return doc, nil
}

// splitFrontmatter separates the YAML header from the markdown body.
func splitFrontmatter(content string) (front, body string) {
	if !strings.HasPrefix(content, "---\n") && content != "---" {
		return "", content
	}
	rest := strings.TrimPrefix(content, "---\n")
	idx := strings.Index(rest, "\n---")
	if idx < 0 {
		return "", content
	}
	front = rest[:idx]
	body = rest[idx+len("\n---"):]
	return front, strings.TrimPrefix(body, "\n")
}

// splitSections groups body lines under their normalized `## Heading`.
func splitSections(body string) map[string][]string {
	sections := make(map[string][]string)
	var current string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "## ") {
			current = normalizeHeading(strings.TrimPrefix(trimmed, "## "))
			if current != "" {
				sections[current] = []string{}
			}
			continue
		}
		if current == "" || trimmed == "" {
			continue
		}
		sections[current] = append(sections[current], trimmed)
	}
	return sections
}

// normalizeHeading lowers a heading to its kebab-case section key:
// "Data Sources" -> "data-sources".
func normalizeHeading(h string) string {
	h = strings.TrimSpace(strings.ToLower(h))
	return strings.ReplaceAll(h, " ", "-")
}

func parseSection(doc *Document, name string, lines []string) {
	switch name {
	case "props":
		parseProps(doc, lines)
	case "states":
		for _, line := range lines {
			if item, ok := bulletText(line); ok {
				s := component.State{Name: item, Confidence: component.Certain}
				if m := statePropRe.FindStringSubmatch(item); m != nil {
					s.Name, s.Description = m[1], m[2]
				}
				doc.Record.States = append(doc.Record.States, s)
			}
		}
	case "callbacks":
		for _, line := range lines {
			item, ok := bulletText(line)
			if !ok {
				continue
			}
			if m := callbackRe.FindStringSubmatch(item); m != nil {
				doc.Record.Callbacks = append(doc.Record.Callbacks, component.Callback{Name: m[1], Params: m[2]})
			} else {
				doc.Record.ReviewProps = append(doc.Record.ReviewProps, item)
			}
		}
	case "data-sources":
		doc.Record.DataSources = appendBullets(doc.Record.DataSources, lines)
	case "server-actions":
		doc.Record.ServerActions = appendBullets(doc.Record.ServerActions, lines)
	case "accessibility":
		doc.Record.Accessibility = appendBullets(doc.Record.Accessibility, lines)
	}
}

// parseProps handles both markdown table rows and bullet lines. Table rows
// parse into full tuples; bullets are best-effort and anything unparseable
// lands in ReviewProps for manual review.
func parseProps(doc *Document, lines []string) {
	headerSkipped := false
	for _, line := range lines {
		if strings.HasPrefix(line, "|") {
			cells := splitTableRow(line)
			if len(cells) == 0 || isTableRule(cells[0]) {
				continue
			}
			// Only the first row of a table is a header. A later row whose
			// first cell happens to be "name" is a prop named name.
			if !headerSkipped {
				headerSkipped = true
				if strings.EqualFold(cells[0], "name") {
					continue
				}
			}
			if prop, ok := parsePropRow(line); ok {
				doc.Record.Props = append(doc.Record.Props, prop)
			} else {
				doc.Record.ReviewProps = append(doc.Record.ReviewProps, strings.Trim(line, "| "))
			}
			continue
		}
		item, ok := bulletText(line)
		if !ok {
			continue
		}
		if m := propLineRe.FindStringSubmatch(item); m != nil {
			doc.Record.Props = append(doc.Record.Props, component.Prop{
				Name:     m[1],
				Optional: m[2] == "?",
				Type:     strings.TrimSpace(m[3]),
			})
		} else {
			doc.Record.ReviewProps = append(doc.Record.ReviewProps, item)
		}
	}
}

// parsePropRow parses one `| name | type | optional | default | ... |` row.
func parsePropRow(line string) (component.Prop, bool) {
	cells := splitTableRow(line)
	if len(cells) < 2 {
		return component.Prop{}, false
	}
	name := cells[0]
	if name == "" || isTableRule(name) {
		return component.Prop{}, false
	}

	prop := component.Prop{Name: strings.TrimSuffix(name, "?"), Type: cells[1]}
	if strings.HasSuffix(name, "?") {
		prop.Optional = true
	}
	if len(cells) > 2 {
		prop.Optional = prop.Optional || parseBool(cells[2])
	}
	if len(cells) > 3 && cells[3] != "-" && cells[3] != "" {
		prop.Default = cells[3]
	}
	return prop, true
}

func splitTableRow(line string) []string {
	line = strings.Trim(line, "|")
	parts := strings.Split(line, "|")
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// isTableRule matches separator rows like `---` or `:---:`.
func isTableRule(cell string) bool {
	trimmed := strings.Trim(cell, ":- ")
	return trimmed == "" && strings.Contains(cell, "-")
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "yes", "true", "y", "✓", "x":
		return true
	}
	return false
}

func bulletText(line string) (string, bool) {
	m := bulletRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

func appendBullets(dst []string, lines []string) []string {
	for _, line := range lines {
		if item, ok := bulletText(line); ok {
			dst = append(dst, item)
		}
	}
	return dst
}
