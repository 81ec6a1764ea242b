// Package imports extracts import edges from component source files using
// Tree-sitter and resolves aliased and barrel paths to their canonical form.
package imports

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// maxBarrelDepth bounds re-export chains; deeper chains are unresolved.
const maxBarrelDepth = 5

// Edge is one (module path, imported symbol) pair.
type Edge struct {
	// Path is the canonical module path: barrels followed, aliases kept in
	// their workspace form.
	Path string `json:"path"`
	// Symbol is the imported symbol ("" for side-effect imports, "*" for
	// namespace imports).
	Symbol string `json:"symbol,omitempty"`
	// TypeOnly marks `import type` edges (statement or specifier level).
	TypeOnly bool `json:"type_only,omitempty"`
}

// Result is the extraction output for one source file.
type Result struct {
	Edges []Edge
	// Unresolved lists import specifiers that could not be mapped to a real
	// module. Components with unresolved imports are excluded from automatic
	// tier inference rather than mis-classified.
	Unresolved []string
}

// Extractor parses TS/JS source and resolves workspace imports.
type Extractor struct {
	workspaceRoot string
	alias         string

	tsParser  *sitter.Parser
	tsxParser *sitter.Parser
	jsParser  *sitter.Parser
}

// NewExtractor creates an Extractor. workspaceRoot anchors alias imports;
// alias is the workspace import prefix (usually "@/").
func NewExtractor(workspaceRoot, alias string) *Extractor {
	tsParser := sitter.NewParser()
	tsParser.SetLanguage(typescript.GetLanguage())
	tsxParser := sitter.NewParser()
	tsxParser.SetLanguage(tsx.GetLanguage())
	jsParser := sitter.NewParser()
	jsParser.SetLanguage(javascript.GetLanguage())
	return &Extractor{
		workspaceRoot: workspaceRoot,
		alias:         alias,
		tsParser:      tsParser,
		tsxParser:     tsxParser,
		jsParser:      jsParser,
	}
}

// parserFor picks the grammar by file extension.
func (e *Extractor) parserFor(path string) *sitter.Parser {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsx":
		return e.tsxParser
	case ".ts":
		return e.tsParser
	default:
		return e.jsParser
	}
}

// Extract parses the source file and returns its resolved import edges.
func (e *Extractor) Extract(ctx context.Context, path string, content []byte) (Result, error) {
	tree, err := e.parserFor(path).ParseCtx(ctx, nil, content)
	if err != nil {
		return Result{}, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	defer tree.Close()

	var result Result
	root := tree.RootNode()

	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "import_statement" {
			continue
		}
		stmt := parseImportStatement(child, content)
		if stmt.source == "" {
			continue
		}
		e.resolveStatement(ctx, filepath.Dir(path), stmt, 0, &result)
	}

	return result, nil
}

// importStatement is one parsed import before resolution.
type importStatement struct {
	source   string
	typeOnly bool
	// specifiers maps imported symbol to its own type-only flag.
	specifiers []specifier
}

type specifier struct {
	symbol   string
	typeOnly bool
}

func parseImportStatement(node *sitter.Node, content []byte) importStatement {
	text := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}

	stmt := importStatement{}
	stmtText := strings.TrimSpace(text(node))
	stmt.typeOnly = strings.HasPrefix(stmtText, "import type")

	if src := node.ChildByFieldName("source"); src != nil {
		stmt.source = strings.Trim(text(src), "\"'`")
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "import_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				clause := child.NamedChild(j)
				switch clause.Type() {
				case "identifier":
					// Default import.
					stmt.specifiers = append(stmt.specifiers, specifier{symbol: text(clause)})
				case "namespace_import":
					stmt.specifiers = append(stmt.specifiers, specifier{symbol: "*"})
				case "named_imports":
					for k := 0; k < int(clause.NamedChildCount()); k++ {
						spec := clause.NamedChild(k)
						if spec.Type() != "import_specifier" {
							continue
						}
						name := spec.ChildByFieldName("name")
						if name == nil {
							continue
						}
						stmt.specifiers = append(stmt.specifiers, specifier{
							symbol:   text(name),
							typeOnly: strings.HasPrefix(strings.TrimSpace(text(spec)), "type "),
						})
					}
				}
			}
		}
	}
	return stmt
}

// assetExts are side-effect asset imports that never carry tier meaning.
var assetExts = map[string]bool{
	".css": true, ".scss": true, ".sass": true, ".less": true,
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true, ".webp": true,
}

// resolveStatement turns one import statement into edges, following barrels.
func (e *Extractor) resolveStatement(ctx context.Context, fromDir string, stmt importStatement, depth int, out *Result) {
	if assetExts[strings.ToLower(filepath.Ext(stmt.source))] {
		return
	}
	if !e.isWorkspacePath(stmt.source) {
		// Bare package imports are already canonical.
		out.Edges = append(out.Edges, stmt.edges()...)
		return
	}

	fsPath, kind := e.resolveFile(fromDir, stmt.source)
	switch kind {
	case targetMissing:
		out.Unresolved = append(out.Unresolved, stmt.source)
	case targetFile:
		out.Edges = append(out.Edges, stmt.edges()...)
	case targetBarrel:
		if depth >= maxBarrelDepth {
			out.Unresolved = append(out.Unresolved, stmt.source)
			return
		}
		e.followBarrel(ctx, fsPath, stmt, depth, out)
	}
}

// edges materializes the statement's edges at its (already canonical) path.
func (s importStatement) edges() []Edge {
	if len(s.specifiers) == 0 {
		return []Edge{{Path: s.source, TypeOnly: s.typeOnly}}
	}
	edges := make([]Edge, 0, len(s.specifiers))
	for _, spec := range s.specifiers {
		edges = append(edges, Edge{
			Path:     s.source,
			Symbol:   spec.symbol,
			TypeOnly: s.typeOnly || spec.typeOnly,
		})
	}
	return edges
}

// isWorkspacePath reports whether the specifier needs filesystem resolution.
func (e *Extractor) isWorkspacePath(source string) bool {
	return strings.HasPrefix(source, "./") ||
		strings.HasPrefix(source, "../") ||
		(e.alias != "" && strings.HasPrefix(source, e.alias))
}

type targetKind int

const (
	targetMissing targetKind = iota
	targetFile
	targetBarrel
)

// resolveFile maps an import specifier to a file on disk. A specifier that
// lands on a directory with an index file is a barrel.
func (e *Extractor) resolveFile(fromDir, source string) (string, targetKind) {
	var base string
	if e.alias != "" && strings.HasPrefix(source, e.alias) {
		base = filepath.Join(e.workspaceRoot, strings.TrimPrefix(source, e.alias))
	} else {
		base = filepath.Join(fromDir, source)
	}

	exts := []string{".tsx", ".ts", ".jsx", ".js", ".mjs", ".cjs"}

	if info, err := os.Stat(base); err == nil && !info.IsDir() {
		return base, targetFile
	}
	for _, ext := range exts {
		if _, err := os.Stat(base + ext); err == nil {
			return base + ext, targetFile
		}
	}
	for _, ext := range exts {
		candidate := filepath.Join(base, "index"+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, targetBarrel
		}
	}
	return "", targetMissing
}

// followBarrel maps the statement's symbols through the barrel's re-exports
// to the real targets. Symbols the barrel does not re-export are unresolved.
func (e *Extractor) followBarrel(ctx context.Context, barrelPath string, stmt importStatement, depth int, out *Result) {
	content, err := os.ReadFile(barrelPath) //nolint:gosec // workspace file discovered during resolution
	if err != nil {
		out.Unresolved = append(out.Unresolved, stmt.source)
		return
	}

	tree, err := e.parserFor(barrelPath).ParseCtx(ctx, nil, content)
	if err != nil {
		out.Unresolved = append(out.Unresolved, stmt.source)
		return
	}
	defer tree.Close()

	reexports := parseReexports(tree.RootNode(), content)
	if len(reexports) == 0 {
		out.Unresolved = append(out.Unresolved, stmt.source)
		return
	}

	specs := stmt.specifiers
	if len(specs) == 0 {
		specs = []specifier{{}}
	}

	for _, spec := range specs {
		if spec.symbol == "" || spec.symbol == "*" {
			// Namespace and side-effect imports pull in every target.
			for _, re := range reexports {
				next := importStatement{
					source:     joinSpecifier(stmt.source, re.target),
					typeOnly:   stmt.typeOnly,
					specifiers: []specifier{spec},
				}
				e.resolveStatement(ctx, filepath.Dir(barrelPath), next, depth+1, out)
			}
			continue
		}
		target, ok := lookupReexport(reexports, spec.symbol)
		if !ok {
			out.Unresolved = append(out.Unresolved, stmt.source)
			continue
		}
		next := importStatement{
			source:     joinSpecifier(stmt.source, target),
			typeOnly:   stmt.typeOnly,
			specifiers: []specifier{spec},
		}
		e.resolveStatement(ctx, filepath.Dir(barrelPath), next, depth+1, out)
	}
}

// reexport is one `export ... from "target"` in a barrel.
type reexport struct {
	// symbols is nil for `export * from`.
	symbols []string
	target  string
}

func parseReexports(root *sitter.Node, content []byte) []reexport {
	text := func(n *sitter.Node) string {
		return string(content[n.StartByte():n.EndByte()])
	}

	var result []reexport
	for i := 0; i < int(root.NamedChildCount()); i++ {
		child := root.NamedChild(i)
		if child.Type() != "export_statement" {
			continue
		}
		src := child.ChildByFieldName("source")
		if src == nil {
			continue
		}
		re := reexport{target: strings.Trim(text(src), "\"'`")}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			clause := child.NamedChild(j)
			if clause.Type() != "export_clause" {
				continue
			}
			for k := 0; k < int(clause.NamedChildCount()); k++ {
				spec := clause.NamedChild(k)
				if spec.Type() != "export_specifier" {
					continue
				}
				if name := spec.ChildByFieldName("name"); name != nil {
					re.symbols = append(re.symbols, text(name))
				}
			}
		}
		result = append(result, re)
	}
	return result
}

// lookupReexport finds the barrel entry exporting symbol. Named entries win
// over `export *` wildcards; a wildcard only matches when it is the sole
// option, since we cannot know which target actually owns the symbol.
func lookupReexport(reexports []reexport, symbol string) (string, bool) {
	var wildcards []string
	for _, re := range reexports {
		if re.symbols == nil {
			wildcards = append(wildcards, re.target)
			continue
		}
		for _, s := range re.symbols {
			if s == symbol {
				return re.target, true
			}
		}
	}
	if len(wildcards) == 1 {
		return wildcards[0], true
	}
	return "", false
}

// joinSpecifier rebases a barrel-relative target onto the original import
// specifier, keeping the alias or relative form the classifier patterns
// expect: ("@/lib/actions", "./save-user") -> "@/lib/actions/save-user".
func joinSpecifier(base, target string) string {
	if !strings.HasPrefix(target, ".") {
		return target // barrel re-exports a bare package
	}
	joined := filepath.ToSlash(filepath.Join(base, target))
	// filepath.Join strips the "./" anchor relative specifiers need.
	if strings.HasPrefix(base, "./") && !strings.HasPrefix(joined, ".") {
		joined = "./" + joined
	}
	return joined
}
