package models

import "go/types"

// TypeIndex looks up named types discovered by a static scan.
type TypeIndex interface {
	// LookupType resolves an "import/path.TypeName" descriptor.
	LookupType(descriptor string) (*types.TypeName, error)
}

// EnumRecord describes an enum constant as seen by a static scan, without
// loading or executing the package that declares it.
type EnumRecord struct {
	Name          string // constant identifier
	DeclaringType string // descriptor of the constant's named type
	Index         TypeIndex
}

type sourceBackend struct {
	record *EnumRecord
}

func (b sourceBackend) kind() Backend {
	return BackendSource
}

func (b sourceBackend) origin() any {
	return b.record
}

func (b sourceBackend) valueName() string {
	return b.record.Name
}

func (b sourceBackend) prepareClassInfo() (*ClassInfo, error) {
	obj, err := b.record.Index.LookupType(b.record.DeclaringType)
	if err == nil {
		var ci *ClassInfo
		if ci, err = NewClassInfoFromType(obj); err == nil {
			return ci, nil
		}
	}
	return nil, &ResolutionError{Backend: BackendSource, Subject: b.record.DeclaringType, Err: err}
}
