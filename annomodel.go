// Package annomodel scans Go packages for annotations whose parameters name
// enum constants and resolves those values to the classes that declare them.
package annomodel

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pablor21/annomodel/config"
	"github.com/pablor21/annomodel/graph"
	"github.com/pablor21/annomodel/scan"
)

// Result is the outcome of a scan.
type Result struct {
	ModulePath string
	Index      *scan.Index
	Params     []scan.AnnotationParam
	Graph      *graph.Graph
}

// Process scans with the default configuration.
func Process(ctx context.Context) (*Result, error) {
	return ProcessWithConfig(ctx, config.NewDefaultConfig())
}

// ProcessWithConfig loads the configured packages, collects every enum-valued
// annotation parameter and resolves the owning classes. Resolution failures
// are returned together with the partial result.
func ProcessWithConfig(ctx context.Context, cfg *config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	idx, err := scan.Load(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to scan packages: %w", err)
	}

	res := &Result{
		ModulePath: detectModulePath(),
		Index:      idx,
		Params:     idx.AnnotationParams(),
		Graph:      graph.New(graph.WithWorkers(cfg.Resolution.Workers)),
	}
	for _, p := range res.Params {
		res.Graph.Add(p.Value)
	}
	slog.Debug("Collected annotation values", "params", len(res.Params))

	if err := res.Graph.Resolve(ctx); err != nil {
		return res, fmt.Errorf("failed to resolve classes: %w", err)
	}
	return res, nil
}

// detectModulePath reads the module path from the nearest go.mod above the working directory.
func detectModulePath() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if content, err := os.ReadFile(filepath.Join(dir, "go.mod")); err == nil {
			for line := range strings.SplitSeq(string(content), "\n") {
				if after, ok := strings.CutPrefix(strings.TrimSpace(line), "module "); ok {
					return strings.TrimSpace(after)
				}
			}
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
