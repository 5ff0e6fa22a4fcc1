package node

import (
	"fmt"

	"github.com/sandeepzgk/tact"
)

// ID identifies a node within its List.  IDs increase with each insertion
// and are never reused.
type ID int

type entry struct {
	id   ID
	node Node
	keep bool
}

// List is an ordered collection of nodes whose signal is their sum.
//
// Remove only marks a node; the node stops contributing to the list's
// signal and views at once, but stays restorable until the next Compact or
// insertion commits the removal.  A List is not safe for concurrent use.
type List struct {
	entries []entry
	nextID  ID
}

// NewList returns an empty list.
func NewList() *List { return &List{} }

// Insert appends n and returns its id.
func (l *List) Insert(n Node) ID {
	l.Compact()
	id := l.nextID
	l.nextID++
	l.entries = append(l.entries, entry{id: id, node: n, keep: true})
	return id
}

// InsertFromPalette appends a new node of type item.
func (l *List) InsertFromPalette(item PaletteItem) (ID, error) {
	n, err := New(item)
	if err != nil {
		return 0, err
	}
	return l.Insert(n), nil
}

// InsertFromLibrary appends a node holding the library signal name.
// Nothing is inserted if r cannot resolve it.
func (l *List) InsertFromLibrary(r Resolver, name string) (ID, error) {
	n, err := NewLibraryNode(r, name)
	if err != nil {
		return 0, err
	}
	return l.Insert(n), nil
}

func (l *List) find(id ID) int {
	for i, e := range l.entries {
		if e.id == id {
			return i
		}
	}
	return -1
}

// Remove marks the node id for removal.
func (l *List) Remove(id ID) error {
	i := l.find(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNoNode, id)
	}
	l.entries[i].keep = false
	return nil
}

// Restore cancels a pending removal of id.
func (l *List) Restore(id ID) error {
	i := l.find(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNoNode, id)
	}
	l.entries[i].keep = true
	return nil
}

// Pending reports whether id is marked for removal.
func (l *List) Pending(id ID) bool {
	i := l.find(id)
	return i >= 0 && !l.entries[i].keep
}

// Compact commits pending removals and returns how many nodes were removed.
func (l *List) Compact() int {
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.keep {
			kept = append(kept, e)
		}
	}
	n := len(l.entries) - len(kept)
	clear(l.entries[len(kept):])
	l.entries = kept
	return n
}

// Move places node id at index among the retained nodes, committing
// pending removals first.  index is clamped to the list bounds.
func (l *List) Move(id ID, index int) error {
	l.Compact()
	i := l.find(id)
	if i < 0 {
		return fmt.Errorf("%w: %d", ErrNoNode, id)
	}
	index = max(0, min(index, len(l.entries)-1))
	e := l.entries[i]
	if index < i {
		copy(l.entries[index+1:i+1], l.entries[index:i])
	} else {
		copy(l.entries[i:index], l.entries[i+1:index+1])
	}
	l.entries[index] = e
	return nil
}

// Len returns the number of retained nodes.
func (l *List) Len() int {
	n := 0
	for _, e := range l.entries {
		if e.keep {
			n++
		}
	}
	return n
}

// IDs returns the ids of retained nodes in order.
func (l *List) IDs() []ID {
	ids := make([]ID, 0, len(l.entries))
	for _, e := range l.entries {
		if e.keep {
			ids = append(ids, e.id)
		}
	}
	return ids
}

// Nodes returns the retained nodes in order.
func (l *List) Nodes() []Node {
	nodes := make([]Node, 0, len(l.entries))
	for _, e := range l.entries {
		if e.keep {
			nodes = append(nodes, e.node)
		}
	}
	return nodes
}

// Node returns the retained node id.
func (l *List) Node(id ID) (Node, bool) {
	i := l.find(id)
	if i < 0 || !l.entries[i].keep {
		return nil, false
	}
	return l.entries[i].node, true
}

// Index returns the position of id among retained nodes, or -1.
func (l *List) Index(id ID) int {
	n := 0
	for _, e := range l.entries {
		if !e.keep {
			continue
		}
		if e.id == id {
			return n
		}
		n++
	}
	return -1
}

// Signals returns the signals of the retained nodes in order.
func (l *List) Signals() []tact.Signal {
	if l == nil {
		return nil
	}
	sigs := make([]tact.Signal, 0, len(l.entries))
	for _, e := range l.entries {
		if e.keep {
			sigs = append(sigs, e.node.Signal())
		}
	}
	return sigs
}

// Signal returns the sum of the retained nodes' signals.  An empty list
// yields the zero signal.
func (l *List) Signal() tact.Signal {
	return tact.NewSum(l.Signals()...)
}
