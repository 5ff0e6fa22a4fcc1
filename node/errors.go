package node

import "errors"

var (
	// ErrUnknownKind indicates a palette item with no node constructor.
	ErrUnknownKind = errors.New("unknown node kind")

	// ErrUnresolved indicates a library name that could not be resolved.
	ErrUnresolved = errors.New("unresolved library signal")

	// ErrNoNode indicates an id that is not in the list.
	ErrNoNode = errors.New("no such node")

	// ErrNotHeld indicates a drop with nothing held.
	ErrNotHeld = errors.New("nothing held")
)
