package runner

import (
	"context"
	"os"
	"strings"

	"speccheck/internal/clierr"
	"speccheck/internal/component"
	"speccheck/internal/spec"
	"speccheck/internal/tier"
)

// ListEntry describes a discovered component without running the checks.
type ListEntry struct {
	Component string `json:"component"`
	Declared  string `json:"declared_tier,omitempty"`
	Inferred  string `json:"inferred_tier,omitempty"`
	Spec      string `json:"spec"`
	Source    string `json:"source,omitempty"`
	Mock      string `json:"mock,omitempty"`
}

// List discovers components under paths and annotates each with its
// declared and inferred tiers. Parse failures leave the tiers blank
// rather than failing the listing.
func (r *Runner) List(ctx context.Context, paths []string) ([]ListEntry, error) {
	comps, err := component.Discover(paths, r.cfg.SpecSuffix)
	if err != nil {
		return nil, err
	}
	if len(comps) == 0 {
		return nil, clierr.Newf(clierr.NoComponents, "no components found under %s", strings.Join(paths, ", "))
	}

	entries := make([]ListEntry, 0, len(comps))
	for _, comp := range comps {
		entry := ListEntry{
			Component: comp.ID(),
			Spec:      comp.SpecPath,
			Source:    comp.SourcePath,
			Mock:      comp.MockPath,
		}
		if doc, err := spec.ParseFile(comp.SpecPath); err == nil && doc.TierDeclared {
			entry.Declared = doc.Tier.String()
		}
		if comp.SourcePath != "" {
			if content, err := os.ReadFile(comp.SourcePath); err == nil {
				if res, err := r.extractor.Extract(ctx, comp.SourcePath, content); err == nil {
					inferred := tier.Unknown
					if len(res.Unresolved) == 0 {
						inferred = r.table.Infer(tierImports(res.Edges))
					}
					entry.Inferred = inferred.String()
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
