package models

import (
	"fmt"
	"go/types"
	"iter"
	"reflect"

	"github.com/cespare/xxhash/v2"
)

// ClassKey is the comparable identity of a ClassInfo.
type ClassKey struct {
	PkgPath string
	Name    string
}

func (k ClassKey) String() string {
	return Descriptor(k.PkgPath, k.Name)
}

// Descriptor builds the "import/path.TypeName" string used to look types up in a scan index.
func Descriptor(pkgPath, name string) string {
	if pkgPath == "" {
		return name
	}
	return pkgPath + "." + name
}

// ClassInfo is the node representing a named Go type. Two ClassInfo values
// are equal when they name the same type, whichever backend built them.
type ClassInfo struct {
	PkgPath string
	Name    string

	origin  any // *types.TypeName or reflect.Type
	backend Backend
}

// NewClassInfoFromType builds a class node from a statically scanned type name.
func NewClassInfoFromType(obj *types.TypeName) (*ClassInfo, error) {
	if obj == nil {
		return nil, ErrNilOrigin
	}
	if obj.Name() == "" || obj.Name() == "_" {
		return nil, ErrUnnamedType
	}
	ci := &ClassInfo{Name: obj.Name(), origin: obj, backend: BackendSource}
	if obj.Pkg() != nil {
		ci.PkgPath = obj.Pkg().Path()
	}
	return ci, nil
}

// NewClassInfoFromReflect builds a class node from a runtime type. Pointer
// types are unwrapped to their element.
func NewClassInfoFromReflect(t reflect.Type) (*ClassInfo, error) {
	if t == nil {
		return nil, ErrNilOrigin
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return nil, fmt.Errorf("%w: %s", ErrUnnamedType, t)
	}
	return &ClassInfo{PkgPath: t.PkgPath(), Name: t.Name(), origin: t, backend: BackendReflection}, nil
}

// CanonicalName returns the import-path qualified name, e.g. "example.com/palette.Color".
func (c *ClassInfo) CanonicalName() string {
	return Descriptor(c.PkgPath, c.Name)
}

// Key returns the comparable identity of the class.
func (c *ClassInfo) Key() ClassKey {
	return ClassKey{PkgPath: c.PkgPath, Name: c.Name}
}

// Equal reports whether both nodes name the same type.
func (c *ClassInfo) Equal(other *ClassInfo) bool {
	if c == other {
		return true
	}
	if c == nil || other == nil {
		return false
	}
	return c.Key() == other.Key()
}

// Hash is consistent with Equal.
func (c *ClassInfo) Hash() uint64 {
	return xxhash.Sum64String(c.CanonicalName())
}

// Origin returns the *types.TypeName or reflect.Type the node was built from.
func (c *ClassInfo) Origin() any {
	return c.origin
}

// IsSource reports whether the node was built from a go/types object.
func (c *ClassInfo) IsSource() bool {
	return c.backend == BackendSource
}

// IsReflection reports whether the node was built from a reflect.Type.
func (c *ClassInfo) IsReflection() bool {
	return c.backend == BackendReflection
}

// Dependencies is empty: an enum's declaring type carries no further graph edges in this model.
func (c *ClassInfo) Dependencies() iter.Seq2[*ClassInfo, error] {
	return func(yield func(*ClassInfo, error) bool) {}
}

func (c *ClassInfo) String() string {
	return c.CanonicalName()
}
