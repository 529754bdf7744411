package fstkit

import "iter"

// Fst is the read-only contract satisfied by every automaton backing.
//
// Query methods never fail with an error value: an unrecoverable
// condition sets the PropError property bit on the automaton and
// queries return degenerate values (Zero weights, no arcs). Callers
// that do not already trust their inputs should test the Error bit
// after an operation.
//
// No implementation locks internally. A handle may be read from
// several goroutines only when none of them mutates it or triggers
// first-time cache expansion or property computation; otherwise each
// goroutine needs its own Copy(true).
type Fst[W Weight[W]] interface {
	// Start returns the start state, or NoStateID for the empty automaton.
	Start() StateID

	// Final returns the final weight of s; Zero means s is not final.
	Final(s StateID) W

	// NumArcs returns the number of arcs leaving s.
	NumArcs(s StateID) int

	// Arcs iterates over the arcs leaving s, in an operator-defined
	// order; the order is sorted only when a sortedness property bit
	// asserts it.
	Arcs(s StateID) iter.Seq[Arc[W]]

	// States iterates over all state ids in increasing order. For
	// delayed backings this may force expansion work.
	States() iter.Seq[StateID]

	// Properties returns the property bits selected by mask. When
	// compute is true, requested unknown trinary bits are determined
	// by a single full traversal and cached; when false, unknown bits
	// are simply reported clear.
	Properties(mask PropertyMask, compute bool) PropertyMask

	// NumStatesIfKnown returns the state count when the concrete type
	// guarantees it without traversal.
	NumStatesIfKnown() (StateID, bool)

	// InputSymbols returns the optional input symbol table.
	InputSymbols() *SymbolTable

	// OutputSymbols returns the optional output symbol table.
	OutputSymbols() *SymbolTable

	// Copy duplicates the handle. With safe false the new handle may
	// alias this one's storage (O(1)); with safe true its storage is
	// fully independent and fit for use by another goroutine.
	Copy(safe bool) Fst[W]
}

// CountStates returns the number of states of f, using the known count
// when available and a single full traversal otherwise.
func CountStates[W Weight[W]](f Fst[W]) StateID {
	if n, ok := f.NumStatesIfKnown(); ok {
		return n
	}
	n := StateID(0)
	for range f.States() {
		n++
	}
	return n
}

// CountArcs returns the total number of arcs of f by one full
// traversal; there is no fast path.
func CountArcs[W Weight[W]](f Fst[W]) int64 {
	var n int64
	for s := range f.States() {
		n += int64(f.NumArcs(s))
	}
	return n
}
