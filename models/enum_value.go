package models

import (
	"iter"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// enumBackend supplies the two backend-specific derivations of an EnumValue.
type enumBackend interface {
	kind() Backend
	origin() any
	valueName() string
	prepareClassInfo() (*ClassInfo, error)
}

// EnumValue is an enum constant used as an annotation parameter value.
//
// The owning class is resolved on first use and cached for the lifetime of
// the value, failures included: once resolution has failed every later call
// returns the same error without consulting the backend again. Resolution is
// safe to trigger from several goroutines; it still runs once.
type EnumValue struct {
	backend   enumBackend
	classInfo func() (*ClassInfo, error)
}

// ValueKey is the comparable identity of an EnumValue, usable as a map key.
type ValueKey struct {
	Class ClassKey
	Value string
}

func newEnumValue(b enumBackend) *EnumValue {
	return &EnumValue{
		backend: b,
		classInfo: sync.OnceValues(func() (*ClassInfo, error) {
			ci, err := b.prepareClassInfo()
			recordResolution(b.kind(), err)
			return ci, err
		}),
	}
}

// FromStaticRecord wraps a scanned enum record. The record and its index must
// be non-nil; a typed nil index counts as nil.
func FromStaticRecord(record *EnumRecord) (*EnumValue, error) {
	if record == nil || isNil(record.Index) {
		return nil, ErrNilOrigin
	}
	return newEnumValue(sourceBackend{record: record}), nil
}

// FromRuntimeValue wraps a live enum value. Nil interfaces and typed nil
// pointers are rejected.
func FromRuntimeValue(value Enum) (*EnumValue, error) {
	if isNil(value) {
		return nil, ErrNilOrigin
	}
	return newEnumValue(reflectionBackend{value: value}), nil
}

// ValueName returns the constant identifier, read straight from the origin.
func (v *EnumValue) ValueName() string {
	return v.backend.valueName()
}

// ClassInfo returns the type declaring the constant, resolving it on first call.
func (v *EnumValue) ClassInfo() (*ClassInfo, error) {
	return v.classInfo()
}

// Origin returns the *EnumRecord or the live Enum the value was built from.
func (v *EnumValue) Origin() any {
	return v.backend.origin()
}

// Backend reports which backend the value was built from.
func (v *EnumValue) Backend() Backend {
	return v.backend.kind()
}

// IsSource reports whether the value comes from scanned source.
func (v *EnumValue) IsSource() bool {
	return v.backend.kind() == BackendSource
}

// IsReflection reports whether the value wraps a live Go value.
func (v *EnumValue) IsReflection() bool {
	return v.backend.kind() == BackendReflection
}

// Dependencies yields the owning class, the single dependency of an enum value.
// A resolution failure is yielded as (nil, err).
func (v *EnumValue) Dependencies() iter.Seq2[*ClassInfo, error] {
	return func(yield func(*ClassInfo, error) bool) {
		yield(v.ClassInfo())
	}
}

// Equal reports whether both values name the same constant of the same type.
// Backend origin is ignored.
func (v *EnumValue) Equal(other *EnumValue) (bool, error) {
	if v == other {
		return true, nil
	}
	if v == nil || other == nil {
		return false, nil
	}
	a, err := v.ClassInfo()
	if err != nil {
		return false, err
	}
	b, err := other.ClassInfo()
	if err != nil {
		return false, err
	}
	return a.Equal(b) && v.ValueName() == other.ValueName(), nil
}

// Hash is consistent with Equal.
func (v *EnumValue) Hash() (uint64, error) {
	ci, err := v.ClassInfo()
	if err != nil {
		return 0, err
	}
	return ci.Hash() + 13*xxhash.Sum64String(v.ValueName()), nil
}

// Key returns the map key of the value; equal values have equal keys.
func (v *EnumValue) Key() (ValueKey, error) {
	ci, err := v.ClassInfo()
	if err != nil {
		return ValueKey{}, err
	}
	return ValueKey{Class: ci.Key(), Value: v.ValueName()}, nil
}

// String renders the value as Type.NAME, or just NAME if the class cannot be resolved.
func (v *EnumValue) String() string {
	ci, err := v.ClassInfo()
	if err != nil {
		return v.ValueName()
	}
	return ci.Name + "." + v.ValueName()
}

// Equivalent is Equal as a predicate; a resolution failure on either side counts as not equal.
func Equivalent(a, b *EnumValue) bool {
	eq, err := a.Equal(b)
	return err == nil && eq
}
