package serial

import "errors"

var (
	// ErrCorrupt indicates persisted data that cannot be decoded.
	ErrCorrupt = errors.New("corrupt cue data")

	// ErrVersion indicates data written by an incompatible version.
	ErrVersion = errors.New("unsupported cue version")

	// ErrUnknownKind indicates a signal kind this package cannot rebuild.
	ErrUnknownKind = errors.New("unknown signal kind")

	// ErrFormat indicates an unrecognized serialization format.
	ErrFormat = errors.New("unknown format")
)
