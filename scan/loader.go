// Package scan is the static backend: it loads Go packages with go/packages,
// indexes their named types and enum constants, and turns enum-valued
// annotation parameters into models.EnumRecord values.
package scan

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/go/packages"
)

const loadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedSyntax |
	packages.NeedTypes |
	packages.NeedTypesInfo |
	packages.NeedImports |
	packages.NeedModule

// LoadOptions controls package loading.
type LoadOptions struct {
	Dir   string // working directory for go list; defaults to the process cwd
	Tests bool   // include test packages
}

// LoadPackages loads packages from patterns. Patterns naming a .go file or containing a
// glob wildcard are expanded as files and loaded by directory; everything else
// (import paths, ./..., plain directories) goes to go list unchanged. Patterns
// starting with '!' exclude matching packages by import path or directory.
func LoadPackages(ctx context.Context, opts LoadOptions, patterns ...string) ([]*packages.Package, error) {
	dir := opts.Dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	var direct, globs, excludes []string
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		switch {
		case p == "":
		case strings.HasPrefix(p, "!"):
			excludes = append(excludes, strings.TrimPrefix(p, "!"))
		case isFilePattern(p):
			globs = append(globs, p)
		default:
			direct = append(direct, p)
		}
	}

	if len(globs) > 0 {
		files, err := ExpandGlobs(dir, globs...)
		if err != nil {
			return nil, err
		}
		direct = append(direct, UniqueDirs(files)...)
	}
	if len(direct) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     dir,
		Tests:   opts.Tests,
	}
	pkgs, err := packages.Load(cfg, direct...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var out []*packages.Package
	for _, pkg := range pkgs {
		if excluded(pkg, dir, excludes) {
			slog.Debug("Excluded package", "package", pkg.PkgPath)
			continue
		}
		if len(pkg.Errors) > 0 {
			slog.Warn("Package has errors", "package", pkg.PkgPath, "errors", pkg.Errors)
		}
		slog.Debug("Loaded package", "package", pkg.PkgPath, "files", len(pkg.Syntax))
		out = append(out, pkg)
	}
	return out, nil
}

func isFilePattern(p string) bool {
	return strings.HasSuffix(p, ".go") || strings.ContainsAny(p, "*?[")
}

// ExpandGlobs expands file glob patterns relative to dir.
func ExpandGlobs(dir string, patterns ...string) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("glob pattern error: %w", err)
		}
		for _, m := range matches {
			if _, ok := seen[m]; !ok {
				seen[m] = struct{}{}
				out = append(out, m)
			}
		}
	}
	return out, nil
}

// UniqueDirs converts file paths to the unique set of their directories.
func UniqueDirs(files []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, f := range files {
		info, err := os.Stat(f)
		if err != nil {
			continue
		}
		d := f
		if !info.IsDir() {
			d = filepath.Dir(f)
		}
		if _, ok := seen[d]; !ok {
			seen[d] = struct{}{}
			out = append(out, d)
		}
	}
	return out
}

func excluded(pkg *packages.Package, dir string, excludes []string) bool {
	for _, ex := range excludes {
		ex = strings.TrimSuffix(ex, "/...")
		if pkg.PkgPath == ex || strings.HasPrefix(pkg.PkgPath, ex+"/") {
			return true
		}
		abs := ex
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(dir, ex)
		}
		for _, f := range pkg.GoFiles {
			if d := filepath.Dir(f); d == abs || strings.HasPrefix(d, abs+string(os.PathSeparator)) {
				return true
			}
		}
	}
	return false
}
