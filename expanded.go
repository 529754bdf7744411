package fstkit

// ExpandedFst refines Fst with an eagerly known state count.
type ExpandedFst[W Weight[W]] interface {
	Fst[W]

	// NumStates returns the total state count without traversal.
	// NumStatesIfKnown must report the same value.
	NumStates() StateID
}

// MutableFst refines ExpandedFst with in-place mutation. Mutators on a
// shared handle first force the storage private (copy-on-write), so
// sibling handles never observe the change.
type MutableFst[W Weight[W]] interface {
	ExpandedFst[W]

	// SetStart sets the start state.
	SetStart(s StateID)

	// SetFinal sets the final weight of s; Zero makes s non-final.
	SetFinal(s StateID, weight W)

	// AddState appends a fresh state and returns its id.
	AddState() StateID

	// AddArc appends an arc leaving s.
	AddArc(s StateID, arc Arc[W])

	// SetArc replaces the arc at position pos of state s.
	SetArc(s StateID, pos int, arc Arc[W])

	// DeleteStates removes all states.
	DeleteStates()

	// ReserveStates pre-allocates room for n total states.
	ReserveStates(n StateID)

	// ReserveArcs pre-allocates room for n arcs leaving s.
	ReserveArcs(s StateID, n int)

	// SetProperties overwrites the bits selected by mask with the
	// corresponding bits of props. The Error bit can be set but never
	// cleared.
	SetProperties(props, mask PropertyMask)

	// SetInputSymbols replaces the input symbol table (nil clears it).
	SetInputSymbols(syms *SymbolTable)

	// SetOutputSymbols replaces the output symbol table (nil clears it).
	SetOutputSymbols(syms *SymbolTable)
}
