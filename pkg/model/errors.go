package model

import "errors"

var (
	// ErrRejected is returned by mutators when an internal listener rejected
	// the change. Nothing was modified.
	ErrRejected = errors.New("change rejected")
	// ErrFreed is returned when operating on a model removed from its graph.
	ErrFreed = errors.New("model was freed")
	// ErrForeignModel is returned when a model from another graph is used as
	// a child.
	ErrForeignModel = errors.New("model belongs to another graph")
	// ErrIndexOutOfRange is returned by list operations on invalid indices.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrInvalidValue is returned when a list value fails its type constraint.
	ErrInvalidValue = errors.New("invalid value")
)
