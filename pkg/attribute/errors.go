package attribute

import (
	"errors"
	"fmt"
)

// Declaration errors, reported by ClassBuilder.Build.
var (
	ErrInvalidName          = errors.New("invalid attribute name")
	ErrDuplicateAttribute   = errors.New("attribute declared twice")
	ErrNotDelegated         = errors.New("attribute is not delegated")
	ErrNoDelegates          = errors.New("delegated attribute defines no delegates")
	ErrDelegateAssigned     = errors.New("delegate already assigned")
	ErrIncompatibleParams   = errors.New("incompatible attribute parameters")
	ErrMissingDependency    = errors.New("dependency is not declared in the class")
	ErrIncompatibleDep      = errors.New("dependency does not support the requested access")
	ErrUnresolvedDependency = errors.New("dependency was never placed on a class")
	ErrDependencyCycle      = errors.New("getter dependency cycle")
	ErrFinalOverride        = errors.New("cannot override final attribute")
	ErrConstantFlag         = errors.New("constant attribute cannot be flagged parent or history")
)

// Access errors, reported while reading or preparing updates.
var (
	ErrUnknownAttribute     = errors.New("unknown attribute")
	ErrNotReadable          = errors.New("attribute is not readable")
	ErrNotSettable          = errors.New("attribute is not settable")
	ErrNotDeletable         = errors.New("attribute is not deletable")
	ErrNotInitialized       = errors.New("attribute not initialized")
	ErrDeleted              = errors.New("attribute was deleted")
	ErrMissingValue         = errors.New("getter dependencies have no value")
	ErrInvalidValue         = errors.New("invalid attribute value")
	ErrUndeclaredDependency = errors.New("access outside declared dependencies")
	ErrDelegateRecursion    = errors.New("delegate recursion")
)

// Error ties an attribute failure to the class and attribute it concerns.
type Error struct {
	Class     string
	Attribute string
	Err       error
}

func (e *Error) Error() string {
	if e.Class == "" {
		return fmt.Sprintf("attribute %q: %v", e.Attribute, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Class, e.Attribute, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(class, attr string, err error) *Error {
	return &Error{Class: class, Attribute: attr, Err: err}
}
