package component

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"speccheck/internal/clierr"
)

// sourceExts is the resolution order for a component's source file.
var sourceExts = []string{".tsx", ".ts", ".jsx", ".js"}

// skipDirs are never descended into during discovery.
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	".next":        true,
	"dist":         true,
	"build":        true,
}

// Discover walks the given paths and returns every component that has a spec
// document, sorted by identifier. A path that is itself a spec file is
// accepted directly.
func Discover(paths []string, specSuffix string) ([]Component, error) {
	var components []Component
	seen := make(map[string]bool)

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, clierr.Newf(clierr.ComponentNotFound, "cannot read path %s: %v", root, err).
				WithDetails(map[string]any{"path": root})
		}

		if !info.IsDir() {
			if strings.HasSuffix(info.Name(), specSuffix) {
				c := fromSpecPath(root, specSuffix)
				if !seen[c.SpecPath] {
					seen[c.SpecPath] = true
					components = append(components, c)
				}
				continue
			}
			return nil, clierr.Newf(clierr.InvalidInput, "%s is not a directory or %s file", root, specSuffix)
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if skipDirs[d.Name()] {
					return filepath.SkipDir
				}
				return nil
			}
			if !strings.HasSuffix(d.Name(), specSuffix) {
				return nil
			}
			c := fromSpecPath(path, specSuffix)
			if !seen[c.SpecPath] {
				seen[c.SpecPath] = true
				components = append(components, c)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking %s: %w", root, err)
		}
	}

	sort.Slice(components, func(i, j int) bool {
		return components[i].ID() < components[j].ID()
	})
	return components, nil
}

// fromSpecPath builds a Component from a spec document path, resolving the
// sibling source and mock files.
func fromSpecPath(specPath, specSuffix string) Component {
	dir := filepath.Dir(specPath)
	name := strings.TrimSuffix(filepath.Base(specPath), specSuffix)
	return Component{
		Name:       name,
		Dir:        dir,
		SpecPath:   specPath,
		SourcePath: findSource(dir, name),
		MockPath:   findMock(dir, name),
	}
}

func findSource(dir, name string) string {
	for _, ext := range sourceExts {
		candidate := filepath.Join(dir, name+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

func findMock(dir, name string) string {
	for _, ext := range sourceExts {
		candidate := filepath.Join(dir, name+".mock"+ext)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
