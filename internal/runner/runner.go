// Package runner drives the conformance pipeline: discovery, import
// extraction, spec parsing, source introspection, and the checks.
package runner

import (
	"context"
	"os"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"speccheck/internal/clierr"
	"speccheck/internal/component"
	"speccheck/internal/config"
	"speccheck/internal/conform"
	"speccheck/internal/imports"
	"speccheck/internal/introspect"
	"speccheck/internal/spec"
	"speccheck/internal/tier"
)

// Options configure a Runner.
type Options struct {
	// Jobs is the worker count. Zero or negative means GOMAXPROCS.
	Jobs int
	// Tier restricts checking to components declaring that tier.
	// tier.Unknown checks everything.
	Tier tier.Tier
	// Root anchors alias imports when the config carries no directory,
	// typically the first checked path. Empty falls back to the working
	// directory.
	Root string
}

// Runner checks discovered components against their spec documents. The
// rule table is fixed at construction; a Runner is safe for repeated runs.
type Runner struct {
	cfg        *config.Config
	table      tier.Table
	extractor  *imports.Extractor
	inspector  *introspect.Introspector
	jobs       int
	tierFilter tier.Tier
}

// New builds a Runner from a loaded config.
func New(cfg *config.Config, opts Options) *Runner {
	root := cfg.Dir()
	if root == "" {
		root = opts.Root
	}
	if root == "" {
		root, _ = os.Getwd()
	}
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		cfg:        cfg,
		table:      cfg.Table(),
		extractor:  imports.NewExtractor(root, cfg.WorkspaceAlias),
		inspector:  introspect.New(),
		jobs:       jobs,
		tierFilter: opts.Tier,
	}
}

// Check runs the full pipeline over every component discovered under paths.
// Components fan out across workers; results keep discovery order. On
// cancellation the report covers the components that completed.
func (r *Runner) Check(ctx context.Context, paths []string) (*Report, error) {
	comps, err := component.Discover(paths, r.cfg.SpecSuffix)
	if err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return nil, clierr.Newf(clierr.NoComponents, "no components found under %s", strings.Join(paths, ", "))
	}

	results := make([]*ComponentResult, len(comps))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.jobs)
	for i, comp := range comps {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.checkOne(gctx, comp)
			return nil
		})
	}
	waitErr := g.Wait()

	report := &Report{}
	for _, res := range results {
		if res != nil {
			report.add(*res)
		}
	}
	if waitErr != nil {
		return report, waitErr
	}
	if report.Checked == 0 {
		return nil, clierr.Newf(clierr.NoComponents, "no components declare tier %s", r.tierFilter)
	}
	return report, nil
}

// checkOne produces the result row for a single component. A nil return
// means the component was filtered out. Per-component failures become
// error markers so one broken file never aborts the run.
func (r *Runner) checkOne(ctx context.Context, comp component.Component) *ComponentResult {
	res := &ComponentResult{Component: comp.ID(), SpecPath: comp.SpecPath}

	doc, err := spec.ParseFile(comp.SpecPath)
	if err != nil {
		// Unparseable specs stay visible even under a tier filter.
		res.Error = "spec: " + err.Error()
		return res
	}
	if r.tierFilter.Valid() && (!doc.TierDeclared || doc.Tier != r.tierFilter) {
		return nil
	}
	if doc.TierDeclared {
		res.Declared = doc.Tier.String()
	}

	in := conform.Input{
		Component: comp,
		Spec:      doc,
		Table:     r.table,
	}

	if comp.SourcePath == "" {
		res.Error = "no source file next to " + comp.SpecPath
		return res
	}
	content, err := os.ReadFile(comp.SourcePath)
	if err != nil {
		res.Error = "reading source: " + err.Error()
		return res
	}
	extracted, err := r.extractor.Extract(ctx, comp.SourcePath, content)
	if err != nil {
		res.Error = "parsing source: " + err.Error()
		return res
	}
	in.Imports = tierImports(extracted.Edges)
	in.Unresolved = extracted.Unresolved

	record, err := r.inspector.Inspect(ctx, comp.SourcePath, content, comp.Name)
	if err != nil {
		res.Error = "inspecting source: " + err.Error()
		return res
	}
	in.Code = &record

	res.Inferred = in.InferredTier().String()
	res.Violations = conform.Check(in)
	return res
}

// tierImports collapses per-specifier edges into the per-path imports the
// classifier works on. A path counts as a runtime import unless every edge
// to it is type-only.
func tierImports(edges []imports.Edge) []tier.Import {
	byPath := make(map[string]bool, len(edges))
	var order []string
	for _, e := range edges {
		typeOnly, seen := byPath[e.Path]
		if !seen {
			byPath[e.Path] = e.TypeOnly
			order = append(order, e.Path)
			continue
		}
		byPath[e.Path] = typeOnly && e.TypeOnly
	}
	out := make([]tier.Import, 0, len(order))
	for _, path := range order {
		out = append(out, tier.Import{Path: path, TypeOnly: byPath[path]})
	}
	return out
}
