package models

import (
	"fmt"
	"reflect"
)

// Enum is a live enum constant. String must return the declared constant
// identifier, which is what `stringer` generates.
type Enum interface {
	String() string
}

type reflectionBackend struct {
	value Enum
}

func (b reflectionBackend) kind() Backend {
	return BackendReflection
}

func (b reflectionBackend) origin() any {
	return b.value
}

func (b reflectionBackend) valueName() string {
	return b.value.String()
}

func (b reflectionBackend) prepareClassInfo() (*ClassInfo, error) {
	t := reflect.TypeOf(b.value)
	ci, err := NewClassInfoFromReflect(t)
	if err != nil {
		return nil, &ResolutionError{Backend: BackendReflection, Subject: fmt.Sprint(t), Err: err}
	}
	return ci, nil
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
