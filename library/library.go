// Package library stores cues and standalone signals by name.
//
// A Store keeps two namespaces: cues, which are complete signal trees saved
// from the editor, and signals, which are reusable pieces referenced by name
// from other trees.  Dir keeps one file per entry in a directory; DB keeps
// entries in an embedded badger database.
package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sandeepzgk/tact"
	"github.com/sandeepzgk/tact/serial"
)

var (
	// ErrNotFound indicates no entry exists under the requested name.
	ErrNotFound = errors.New("not found")

	// ErrInvalidName indicates a name that cannot be used as a key.
	ErrInvalidName = errors.New("invalid name")
)

// Store persists cues and signals.
type Store interface {
	SaveCue(c serial.Cue) error
	LoadCue(name string) (serial.Cue, error)
	SaveSignal(name string, s tact.Signal) error
	LoadSignal(name string) (tact.Signal, error)
	// List returns the sorted cue names.
	List() ([]string, error)
	// ListSignals returns the sorted signal names.
	ListSignals() ([]string, error)
	// Delete removes the cue and the signal stored under name.
	Delete(name string) error
	Close() error
}

// DefaultDir returns the per-user library directory.
func DefaultDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "Syntacts", "Library")
}

// ValidateName reports whether name can be used for a library entry.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: empty", ErrInvalidName)
	case name != strings.TrimSpace(name):
		return fmt.Errorf("%w: %q has surrounding space", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\:*?"<>|`) || strings.ContainsRune(name, 0):
		return fmt.Errorf("%w: %q contains a reserved character", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	return nil
}

// LoadAll loads the named cues concurrently.  It returns the cues in the
// order of names, or the first error encountered.
func LoadAll(ctx context.Context, s Store, names []string) ([]serial.Cue, error) {
	cues := make([]serial.Cue, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, name := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := s.LoadCue(name)
			if err != nil {
				return err
			}
			cues[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return cues, nil
}
