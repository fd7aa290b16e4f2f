// Package models holds the backend-independent metadata model: nodes built
// either from a static scan of Go packages or from live runtime values, that
// compare, hash and report dependencies the same way regardless of origin.
package models

import "iter"

// Backend identifies where a model's information came from.
type Backend string

const (
	BackendSource     Backend = "source"     // static scan of go/types objects
	BackendReflection Backend = "reflection" // live values via reflect
)

// Model is the contract shared by every node of the object-model graph.
type Model interface {
	// Origin returns the raw backend object the model wraps.
	Origin() any
	IsSource() bool
	IsReflection() bool
	// Dependencies lazily yields the class nodes this model requires.
	// A failed derivation is yielded as a (nil, err) pair and ends the sequence.
	Dependencies() iter.Seq2[*ClassInfo, error]
}

// CollectDependencies drains m.Dependencies, stopping at the first error.
func CollectDependencies(m Model) ([]*ClassInfo, error) {
	var deps []*ClassInfo
	for dep, err := range m.Dependencies() {
		if err != nil {
			return nil, err
		}
		deps = append(deps, dep)
	}
	return deps, nil
}
