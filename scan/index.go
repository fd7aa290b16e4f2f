package scan

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"go/types"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/tools/go/packages"

	"github.com/pablor21/annomodel/annotations"
	"github.com/pablor21/annomodel/config"
	"github.com/pablor21/annomodel/models"
)

var (
	ErrTypeNotFound     = errors.New("scan: type not found")
	ErrConstantNotFound = errors.New("scan: enum constant not found")
)

// EnumType is a named type together with the constants declared with it.
type EnumType struct {
	Type      *types.TypeName
	Constants []*types.Const // declaration order
}

func (e *EnumType) Descriptor() string {
	return descriptorOf(e.Type)
}

// Index is the scan index over a set of loaded packages. It is read-only
// after construction and safe for concurrent lookups.
type Index struct {
	pkgs        []*packages.Package
	types       map[string]*types.TypeName
	enums       map[string]*EnumType
	enumOrder   []string
	annotations []string
	lookups     atomic.Int64

	params func() []AnnotationParam
}

// Load loads the configured packages and indexes them.
func Load(ctx context.Context, cfg *config.Config) (*Index, error) {
	pkgs, err := LoadPackages(ctx, LoadOptions{Tests: cfg.Scanning.Tests}, cfg.Scanning.Packages...)
	if err != nil {
		return nil, err
	}
	idx := NewIndex(pkgs...)
	idx.annotations = cfg.Scanning.Annotations
	slog.Debug("Indexed packages", "packages", len(pkgs), "types", len(idx.types), "enums", len(idx.enums))
	return idx, nil
}

// NewIndex indexes every named type of pkgs and of their direct imports, and
// groups constants under their named type.
func NewIndex(pkgs ...*packages.Package) *Index {
	idx := &Index{
		pkgs:  pkgs,
		types: make(map[string]*types.TypeName),
		enums: make(map[string]*EnumType),
	}
	idx.params = sync.OnceValue(idx.collectParams)

	var scopes []*types.Package
	seen := make(map[string]bool)
	add := func(tp *types.Package) {
		if tp != nil && !seen[tp.Path()] {
			seen[tp.Path()] = true
			scopes = append(scopes, tp)
		}
	}
	for _, pkg := range pkgs {
		add(pkg.Types)
	}
	for _, pkg := range pkgs {
		if pkg.Types != nil {
			for _, imp := range pkg.Types.Imports() {
				add(imp)
			}
		}
	}

	for _, tp := range scopes {
		for _, name := range tp.Scope().Names() {
			if tn, ok := tp.Scope().Lookup(name).(*types.TypeName); ok && !tn.IsAlias() {
				idx.types[descriptorOf(tn)] = tn
			}
		}
	}
	for _, tp := range scopes {
		for _, name := range tp.Scope().Names() {
			if c, ok := tp.Scope().Lookup(name).(*types.Const); ok {
				idx.addConstant(c)
			}
		}
	}
	for _, e := range idx.enums {
		slices.SortFunc(e.Constants, func(a, b *types.Const) int { return cmp.Compare(a.Pos(), b.Pos()) })
	}
	return idx
}

func (idx *Index) addConstant(c *types.Const) {
	named, ok := types.Unalias(c.Type()).(*types.Named)
	if !ok {
		return
	}
	if _, basic := named.Underlying().(*types.Basic); !basic {
		return
	}
	desc := descriptorOf(named.Obj())
	if idx.types[desc] != named.Obj() {
		return
	}
	e, ok := idx.enums[desc]
	if !ok {
		e = &EnumType{Type: named.Obj()}
		idx.enums[desc] = e
		idx.enumOrder = append(idx.enumOrder, desc)
	}
	e.Constants = append(e.Constants, c)
}

// LookupType resolves a type descriptor. It satisfies models.TypeIndex.
func (idx *Index) LookupType(descriptor string) (*types.TypeName, error) {
	idx.lookups.Add(1)
	tn, ok := idx.types[descriptor]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, descriptor)
	}
	return tn, nil
}

// Lookups returns how many type lookups the index has served.
func (idx *Index) Lookups() int64 {
	return idx.lookups.Load()
}

// Enums returns the detected enum types in discovery order.
func (idx *Index) Enums() []*EnumType {
	out := make([]*EnumType, 0, len(idx.enumOrder))
	for _, desc := range idx.enumOrder {
		out = append(out, idx.enums[desc])
	}
	return out
}

// Record returns the scan record for constant name of the enum type descriptor.
func (idx *Index) Record(descriptor, name string) (*models.EnumRecord, error) {
	e, ok := idx.enums[descriptor]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTypeNotFound, descriptor)
	}
	for _, c := range e.Constants {
		if c.Name() == name {
			return idx.recordFor(c, e.Type), nil
		}
	}
	return nil, fmt.Errorf("%w: %s.%s", ErrConstantNotFound, descriptor, name)
}

// Records returns a record for every constant of every enum.
func (idx *Index) Records() []*models.EnumRecord {
	var out []*models.EnumRecord
	for _, e := range idx.Enums() {
		for _, c := range e.Constants {
			out = append(out, idx.recordFor(c, e.Type))
		}
	}
	return out
}

func (idx *Index) recordFor(c *types.Const, owner *types.TypeName) *models.EnumRecord {
	return &models.EnumRecord{Name: c.Name(), DeclaringType: descriptorOf(owner), Index: idx}
}

// AnnotationParams returns every annotation parameter whose value references
// an enum constant. The result is computed once.
func (idx *Index) AnnotationParams() []AnnotationParam {
	return idx.params()
}

func (idx *Index) wantAnnotation(ann annotations.Annotation) bool {
	return len(idx.annotations) == 0 || ann.MatchesName(idx.annotations...)
}

func descriptorOf(tn *types.TypeName) string {
	if tn.Pkg() == nil {
		return tn.Name()
	}
	return models.Descriptor(tn.Pkg().Path(), tn.Name())
}
