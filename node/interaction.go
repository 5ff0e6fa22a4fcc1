package node

import "fmt"

// State is the phase of a drag and drop interaction.
type State int

const (
	// Idle means nothing is held.
	Idle State = iota
	// Holding means a palette item or library name is being dragged.
	Holding
)

func (s State) String() string {
	if s == Holding {
		return "holding"
	}
	return "idle"
}

// Interaction tracks one drag and drop gesture from the palette or the
// library onto a List.  Each editor owns its own Interaction.
type Interaction struct {
	// Resolver resolves held library names on drop.
	Resolver Resolver

	state   State
	item    PaletteItem
	library string
	fromLib bool
}

// HoldPalette starts dragging a palette item, replacing anything held.
func (in *Interaction) HoldPalette(item PaletteItem) {
	in.state, in.item, in.library, in.fromLib = Holding, item, "", false
}

// HoldLibrary starts dragging a library signal, replacing anything held.
func (in *Interaction) HoldLibrary(name string) {
	in.state, in.item, in.library, in.fromLib = Holding, 0, name, true
}

// State returns the current phase.
func (in *Interaction) State() State { return in.state }

// Held reports whether something is being dragged.
func (in *Interaction) Held() bool { return in.state == Holding }

// Release abandons the held payload.
func (in *Interaction) Release() {
	in.state, in.item, in.library, in.fromLib = Idle, 0, "", false
}

// Drop inserts the held payload into l and returns to Idle, whether or not
// the insertion succeeds.
func (in *Interaction) Drop(l *List) (ID, error) {
	if in.state != Holding {
		return 0, ErrNotHeld
	}
	item, name, fromLib := in.item, in.library, in.fromLib
	in.Release()
	if fromLib {
		return l.InsertFromLibrary(in.Resolver, name)
	}
	id, err := l.InsertFromPalette(item)
	if err != nil {
		return 0, fmt.Errorf("drop: %w", err)
	}
	return id, nil
}
