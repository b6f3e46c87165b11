package graph

import "errors"

// Errors returned by graph edit operations. Every operation leaves the
// graph unchanged when it fails.
var (
	// ErrNotFound is returned when a module, port or connection does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPortTypeMismatch is returned when connected ports carry different signal kinds.
	ErrPortTypeMismatch = errors.New("port signal mismatch")
	// ErrPortOccupied is returned when the destination input already has a connection.
	ErrPortOccupied = errors.New("input port occupied")
	// ErrCycle is returned when a non-delayed connection would close a cycle.
	// The same connection with the delayed flag set is accepted.
	ErrCycle = errors.New("unresolved cycle")
	// ErrUnknownParameter is returned when the module kind does not declare the parameter.
	ErrUnknownParameter = errors.New("unknown parameter")
	// ErrOutOfRange is returned when a parameter value is outside its declared domain.
	ErrOutOfRange = errors.New("parameter out of range")

	// ErrScheduleCycle is returned by Order when the non-delayed dependency
	// graph contains a cycle. Connect rejects such edges, so observing this
	// error means an internal invariant was broken.
	ErrScheduleCycle = errors.New("cycle in non-delayed dependency graph")
)
