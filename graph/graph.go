// Package graph collects annotation value models, resolves their owning
// classes with a bounded worker pool and interns the resulting ClassInfos so
// every class is represented by a single instance.
package graph

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pablor21/annomodel/models"
)

const DefaultWorkers = 4

type Option func(*Graph)

// WithWorkers bounds the number of nodes resolved concurrently. Values below one are ignored.
func WithWorkers(n int) Option {
	return func(g *Graph) {
		if n > 0 {
			g.workers = n
		}
	}
}

// Graph is a set of models and the classes they depend on.
type Graph struct {
	workers int

	mu      sync.Mutex
	nodes   []models.Model
	classes map[models.ClassKey]*models.ClassInfo
}

func New(opts ...Option) *Graph {
	g := &Graph{
		workers: DefaultWorkers,
		classes: make(map[models.ClassKey]*models.ClassInfo),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Add appends nodes to the graph. Nil nodes are skipped.
func (g *Graph) Add(nodes ...models.Model) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range nodes {
		if n != nil {
			g.nodes = append(g.nodes, n)
		}
	}
}

// Nodes returns the nodes in insertion order.
func (g *Graph) Nodes() []models.Model {
	g.mu.Lock()
	defer g.mu.Unlock()
	return slices.Clone(g.nodes)
}

// Resolve resolves the dependencies of every node and interns the resulting
// classes. A node that fails to resolve does not stop the others; all
// failures are returned joined. Cancelling ctx stops scheduling new nodes.
func (g *Graph) Resolve(ctx context.Context) error {
	nodes := g.Nodes()

	var (
		mu   sync.Mutex
		errs []error
	)
	eg := errgroup.Group{}
	eg.SetLimit(g.workers)
	for _, node := range nodes {
		if ctx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			for ci, err := range node.Dependencies() {
				if err != nil {
					mu.Lock()
					errs = append(errs, err)
					mu.Unlock()
					continue
				}
				g.Intern(ci)
			}
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		errs = append(errs, err)
	}
	slog.Debug("Resolved graph", "nodes", len(nodes), "classes", len(g.Classes()), "errors", len(errs))
	return errors.Join(errs...)
}

// Intern returns the graph's instance of ci's class, registering ci if the
// class has not been seen yet.
func (g *Graph) Intern(ci *models.ClassInfo) *models.ClassInfo {
	if ci == nil {
		return nil
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if existing, ok := g.classes[ci.Key()]; ok {
		return existing
	}
	g.classes[ci.Key()] = ci
	return ci
}

// Classes returns the interned classes sorted by canonical name.
func (g *Graph) Classes() []*models.ClassInfo {
	g.mu.Lock()
	out := make([]*models.ClassInfo, 0, len(g.classes))
	for _, ci := range g.classes {
		out = append(out, ci)
	}
	g.mu.Unlock()
	slices.SortFunc(out, func(a, b *models.ClassInfo) int {
		return cmp.Compare(a.CanonicalName(), b.CanonicalName())
	})
	return out
}

// Walk calls fn for every class reachable from the graph's nodes, following
// dependencies transitively and visiting each class once. A non-nil error
// from fn stops the walk and is returned; dependency failures are skipped and
// returned joined once the walk completes.
func (g *Graph) Walk(fn func(*models.ClassInfo) error) error {
	var (
		errs  []error
		seen  = make(map[models.ClassKey]bool)
		queue = g.Nodes()
	)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		for ci, err := range node.Dependencies() {
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if seen[ci.Key()] {
				continue
			}
			seen[ci.Key()] = true
			ci = g.Intern(ci)
			if err := fn(ci); err != nil {
				return err
			}
			queue = append(queue, ci)
		}
	}
	return errors.Join(errs...)
}

// Dedupe returns the nodes with semantically equal enum values collapsed to
// their first occurrence. Values whose class cannot be resolved are kept as is.
func (g *Graph) Dedupe() []models.Model {
	seen := make(map[models.ValueKey]bool)
	var out []models.Model
	for _, n := range g.Nodes() {
		if v, ok := n.(*models.EnumValue); ok {
			key, err := v.Key()
			if err == nil {
				if seen[key] {
					continue
				}
				seen[key] = true
			}
		}
		out = append(out, n)
	}
	return out
}
