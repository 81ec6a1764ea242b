// Package introspect derives a component record directly from source code:
// declared props from the props type, render states from naming-convention
// heuristics, callbacks from function-typed props, and interactive elements
// from JSX.
//
// This is a best-effort classifier, not a sound static analyzer. The signals
// it uses are documented on each extractor; anything inferred from naming
// conventions alone is tagged Heuristic so the conformance engine can weight
// it below explicit declarations.
package introspect

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"speccheck/internal/component"
)

// stateNames maps recognizable condition-variable names to the render state
// they signal. Both the bare name and the isX form are recognized.
var stateNames = map[string]string{
	"loading":    "loading",
	"isLoading":  "loading",
	"error":      "error",
	"isError":    "error",
	"empty":      "empty",
	"isEmpty":    "empty",
	"disabled":   "disabled",
	"isDisabled": "disabled",
	"open":       "open",
	"isOpen":     "open",
}

// interactiveMarkers are the JSX signals that make a component interactive.
var interactiveMarkers = []struct {
	marker  string
	element string
}{
	{"<button", "button"},
	{"<input", "input"},
	{"<select", "select"},
	{"<textarea", "textarea"},
	{"<a ", "link"},
	{"onClick=", "click handler"},
	{"onChange=", "change handler"},
	{"onSubmit=", "submit handler"},
	{`role="button"`, "button role"},
}

// Introspector extracts component records from TS/JS source.
type Introspector struct {
	tsParser  *sitter.Parser
	tsxParser *sitter.Parser
	jsParser  *sitter.Parser
}

// New creates an Introspector.
func New() *Introspector {
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(typescript.GetLanguage())
	tsxParser := sitter.NewParser()
	tsxParser.SetLanguage(tsx.GetLanguage())
	jsParser := sitter.NewParser()
	jsParser.SetLanguage(javascript.GetLanguage())
	return &Introspector{tsParser: tsParser, tsxParser: tsxParser, jsParser: jsParser}
}

func (in *Introspector) parserFor(path string) *sitter.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return in.tsxParser
	case ".ts":
		return in.tsParser
	default:
		return in.jsParser
	}
}

// Inspect parses the component source and returns its code-side record.
// name is the component name; its props type is expected to be <name>Props.
func (in *Introspector) Inspect(ctx context.Context, path string, content []byte, name string) (component.Record, error) {
	tree, err := in.parserFor(path).ParseCtx(ctx, nil, content)
	if err != nil {
		return component.Record{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	defer tree.Close()

	var record component.Record
	source := string(content)

	if propsNode := findPropsDecl(tree.RootNode(), content, name); propsNode != nil {
		record.PropsDeclared = true
		extractProps(propsNode, content, &record)
	}

	record.States = extractStates(source, record.Props)
	record.Interactive = extractInteractive(source)
	return record, nil
}

// findPropsDecl locates the interface or type alias declaring the component's
// props: <name>Props exactly, or the sole *Props declaration in the file.
func findPropsDecl(root *sitter.Node, content []byte, name string) *sitter.Node {
	var exact *sitter.Node
	var suffixed []*sitter.Node

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			switch child.Type() {
			case "interface_declaration", "type_alias_declaration":
				nameNode := child.ChildByFieldName("name")
				if nameNode == nil {
					continue
				}
				declName := string(content[nameNode.StartByte():nameNode.EndByte()])
				if declName == name+"Props" {
					exact = child
				} else if strings.HasSuffix(declName, "Props") {
					suffixed = append(suffixed, child)
				}
			case "export_statement", "program":
				walk(child)
			}
		}
	}
	walk(root)

	if exact != nil {
		return exact
	}
	if len(suffixed) == 1 {
		return suffixed[0]
	}
	return nil
}

// extractProps walks the props declaration for property signatures. A
// function-typed member is a callback, not a data prop.
func extractProps(decl *sitter.Node, content []byte, record *component.Record) {
	text := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}

	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		for i := 0; i < int(n.NamedChildCount()); i++ {
			child := n.NamedChild(i)
			if child.Type() != "property_signature" {
				walk(child)
				continue
			}

			nameNode := child.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			propName := text(nameNode)

			propType := ""
			if typeNode := child.ChildByFieldName("type"); typeNode != nil {
				propType = strings.TrimSpace(strings.TrimPrefix(text(typeNode), ":"))
			}

			// "name?: T" marks the member optional.
			sig := text(child)
			optional := strings.HasPrefix(strings.TrimPrefix(sig, propName), "?")

			if isFunctionType(propType) {
				record.Callbacks = append(record.Callbacks, component.Callback{
					Name:   propName,
					Params: functionParams(propType),
				})
				continue
			}
			record.Props = append(record.Props, component.Prop{
				Name:     propName,
				Type:     propType,
				Optional: optional,
			})
		}
	}
	walk(decl)
}

func isFunctionType(t string) bool {
	return strings.Contains(t, "=>")
}

// functionParams pulls "user: User" out of "(user: User) => void".
func functionParams(t string) string {
	open := strings.Index(t, "(")
	end := strings.Index(t, ")")
	if open < 0 || end <= open {
		return ""
	}
	return strings.TrimSpace(t[open+1 : end])
}

// extractStates scans the source for recognizable condition variables. A
// name used in a conditional render (`x &&`, `x ?`, `if (x`) is a certain
// state; a name merely present (a boolean prop, a useState binding) is
// heuristic.
func extractStates(source string, props []component.Prop) []component.State {
	var states []component.State
	seen := make(map[string]bool)

	add := func(stateName string, conf component.Confidence) {
		if seen[stateName] {
			return
		}
		seen[stateName] = true
		states = append(states, component.State{Name: stateName, Confidence: conf})
	}

	for varName, stateName := range stateNames {
		if !identifierPresent(source, varName) {
			continue
		}
		if usedInCondition(source, varName) {
			add(stateName, component.Certain)
		} else {
			add(stateName, component.Heuristic)
		}
	}

	// Boolean props named isX signal an X state even without a recognized
	// conventional name.
	for _, p := range props {
		if p.Type != "boolean" || !strings.HasPrefix(p.Name, "is") || len(p.Name) < 3 {
			continue
		}
		stateName := strings.ToLower(p.Name[2:3]) + p.Name[3:]
		if usedInCondition(source, p.Name) {
			add(stateName, component.Certain)
		} else {
			add(stateName, component.Heuristic)
		}
	}

	sort.Slice(states, func(i, j int) bool { return states[i].Name < states[j].Name })
	return states
}

func identifierPresent(source, name string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`)
	return re.MatchString(source)
}

func usedInCondition(source, name string) bool {
	re := regexp.MustCompile(`(\bif\s*\(\s*!?` + regexp.QuoteMeta(name) + `\b)|(\b` + regexp.QuoteMeta(name) + `\s*(&&|\?))`)
	return re.MatchString(source)
}

// extractInteractive scans for interactive JSX elements and handlers.
func extractInteractive(source string) []string {
	var found []string
	seen := make(map[string]bool)
	for _, m := range interactiveMarkers {
		if strings.Contains(source, m.marker) && !seen[m.element] {
			seen[m.element] = true
			found = append(found, m.element)
		}
	}
	return found
}
