// Package fstkit implements weighted finite-state transducers: directed
// graphs whose arcs carry an input label, an output label and a
// semiring-valued weight, and whose states carry an optional final weight.
//
// The package provides the read-only Fst interface with eager
// (VectorFst) and delayed (ArcMapFst) backings, a copy-on-write handle
// model, a per-state cache engine for delayed operators, and a lazily
// computed 64-bit property algebra shared by every operator.
package fstkit

// Label identifies an input or output symbol on an arc.
// Label 0 is reserved for epsilon (no symbol consumed or emitted).
type Label int32

// StateID identifies a state within a single automaton.
// Ids are dense and non-negative; they are not stable across automata.
type StateID int32

const (
	// Epsilon is the label denoting "no symbol".
	Epsilon Label = 0
	// NoLabel marks an absent label.
	NoLabel Label = -1
	// NoStateID marks an absent state, e.g. the start of an empty
	// automaton or the target of a synthetic final-weight arc.
	NoStateID StateID = -1
)

// Arc is a weighted transition between two states.
type Arc[W Weight[W]] struct {
	ILabel    Label
	OLabel    Label
	Weight    W
	NextState StateID
}

// NewArc builds an arc.
func NewArc[W Weight[W]](ilabel, olabel Label, weight W, next StateID) Arc[W] {
	return Arc[W]{ILabel: ilabel, OLabel: olabel, Weight: weight, NextState: next}
}

// finalArc builds the synthetic arc used to pass a final weight through
// an ArcMapper. Its target is NoStateID; it is never a real arc.
func finalArc[W Weight[W]](weight W) Arc[W] {
	return Arc[W]{ILabel: Epsilon, OLabel: Epsilon, Weight: weight, NextState: NoStateID}
}
