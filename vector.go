package fstkit

import (
	"iter"
	"slices"
)

// vectorState is the storage for one VectorFst state.
type vectorState[W Weight[W]] struct {
	final W
	arcs  []Arc[W]
}

// vectorImpl is the growable storage behind VectorFst handles.
type vectorImpl[W Weight[W]] struct {
	states []vectorState[W]
	start  StateID
	props  PropertyMask
	isyms  *SymbolTable
	osyms  *SymbolTable
}

func (m *vectorImpl[W]) clone() *vectorImpl[W] {
	c := &vectorImpl[W]{
		states: make([]vectorState[W], len(m.states)),
		start:  m.start,
		props:  m.props,
		isyms:  m.isyms.Copy(),
		osyms:  m.osyms.Copy(),
	}
	for i, s := range m.states {
		c.states[i] = vectorState[W]{final: s.final, arcs: slices.Clone(s.arcs)}
	}
	return c
}

// invalidate clears structural facts after a mutation, keeping the
// sticky Error bit.
func (m *vectorImpl[W]) invalidate() {
	m.props &= PropError
}

// VectorFst is the eager, growable automaton backing. Handles share
// their storage: Copy(false) is O(1) and mutators clone the storage
// first when it is shared, so sibling handles never observe a change.
type VectorFst[W Weight[W]] struct {
	impl *vectorImpl[W]
	refs *refCount
}

// NewVectorFst returns an empty mutable automaton.
func NewVectorFst[W Weight[W]]() *VectorFst[W] {
	return &VectorFst[W]{
		impl: &vectorImpl[W]{start: NoStateID, props: PropNullProperties},
		refs: newRefCount(),
	}
}

// mutateCheck makes the storage private before a mutation.
func (f *VectorFst[W]) mutateCheck() {
	if f.refs.shared() {
		f.refs.dec()
		f.impl = f.impl.clone()
		f.refs = newRefCount()
	}
}

// Start returns the start state, or NoStateID when unset.
func (f *VectorFst[W]) Start() StateID { return f.impl.start }

// Final returns the final weight of s; Zero for out-of-range ids.
func (f *VectorFst[W]) Final(s StateID) W {
	if s < 0 || int(s) >= len(f.impl.states) {
		return Zero[W]()
	}
	return f.impl.states[s].final
}

// NumStates returns the state count.
func (f *VectorFst[W]) NumStates() StateID { return StateID(len(f.impl.states)) }

// NumStatesIfKnown always reports the count for this backing.
func (f *VectorFst[W]) NumStatesIfKnown() (StateID, bool) { return f.NumStates(), true }

// NumArcs returns the number of arcs leaving s.
func (f *VectorFst[W]) NumArcs(s StateID) int {
	if s < 0 || int(s) >= len(f.impl.states) {
		return 0
	}
	return len(f.impl.states[s].arcs)
}

// Arcs iterates over the arcs leaving s.
func (f *VectorFst[W]) Arcs(s StateID) iter.Seq[Arc[W]] {
	impl := f.impl
	return func(yield func(Arc[W]) bool) {
		if s < 0 || int(s) >= len(impl.states) {
			return
		}
		for _, arc := range impl.states[s].arcs {
			if !yield(arc) {
				return
			}
		}
	}
}

// States iterates over state ids 0..NumStates-1.
func (f *VectorFst[W]) States() iter.Seq[StateID] {
	impl := f.impl
	return func(yield func(StateID) bool) {
		for s := range impl.states {
			if !yield(StateID(s)) {
				return
			}
		}
	}
}

// Properties returns the bits selected by mask, computing requested
// unknown facts with one traversal when compute is true.
func (f *VectorFst[W]) Properties(mask PropertyMask, compute bool) PropertyMask {
	props := f.impl.props | PropExpanded | PropMutable
	if compute {
		if unknown := mask & PropTrinaryProperties &^ KnownProperties(props); unknown != 0 {
			computed := ComputeProperties[W](f)
			f.impl.props |= computed
			props |= computed
		}
	}
	return props & mask
}

// SetProperties overwrites the storable bits selected by mask. The
// Error bit is monotonic: setting it sticks, clearing it is ignored.
func (f *VectorFst[W]) SetProperties(props, mask PropertyMask) {
	f.mutateCheck()
	mask &= PropCopyProperties
	sticky := f.impl.props & PropError
	f.impl.props = (f.impl.props &^ mask) | (props & mask) | sticky
}

// SetStart sets the start state.
func (f *VectorFst[W]) SetStart(s StateID) {
	f.mutateCheck()
	f.impl.start = s
	f.impl.invalidate()
}

// SetFinal sets the final weight of s.
func (f *VectorFst[W]) SetFinal(s StateID, weight W) {
	if s < 0 || int(s) >= len(f.impl.states) {
		return
	}
	f.mutateCheck()
	f.impl.states[s].final = weight
	f.impl.invalidate()
}

// AddState appends a non-final state with no arcs and returns its id.
func (f *VectorFst[W]) AddState() StateID {
	f.mutateCheck()
	f.impl.states = append(f.impl.states, vectorState[W]{final: Zero[W]()})
	f.impl.invalidate()
	return StateID(len(f.impl.states) - 1)
}

// AddArc appends an arc leaving s.
func (f *VectorFst[W]) AddArc(s StateID, arc Arc[W]) {
	if s < 0 || int(s) >= len(f.impl.states) {
		return
	}
	f.mutateCheck()
	f.impl.states[s].arcs = append(f.impl.states[s].arcs, arc)
	f.impl.invalidate()
}

// SetArc replaces the arc at position pos of state s.
func (f *VectorFst[W]) SetArc(s StateID, pos int, arc Arc[W]) {
	if s < 0 || int(s) >= len(f.impl.states) {
		return
	}
	if pos < 0 || pos >= len(f.impl.states[s].arcs) {
		return
	}
	f.mutateCheck()
	f.impl.states[s].arcs[pos] = arc
	f.impl.invalidate()
}

// DeleteStates removes all states and unsets the start.
func (f *VectorFst[W]) DeleteStates() {
	f.mutateCheck()
	f.impl.states = nil
	f.impl.start = NoStateID
	f.impl.props = PropNullProperties | (f.impl.props & PropError)
}

// ReserveStates pre-allocates room for n total states.
func (f *VectorFst[W]) ReserveStates(n StateID) {
	f.mutateCheck()
	f.impl.states = slices.Grow(f.impl.states, max(0, int(n)-len(f.impl.states)))
}

// ReserveArcs pre-allocates room for n arcs leaving s.
func (f *VectorFst[W]) ReserveArcs(s StateID, n int) {
	if s < 0 || int(s) >= len(f.impl.states) {
		return
	}
	f.mutateCheck()
	arcs := f.impl.states[s].arcs
	f.impl.states[s].arcs = slices.Grow(arcs, max(0, n-len(arcs)))
}

// InputSymbols returns the optional input symbol table.
func (f *VectorFst[W]) InputSymbols() *SymbolTable { return f.impl.isyms }

// OutputSymbols returns the optional output symbol table.
func (f *VectorFst[W]) OutputSymbols() *SymbolTable { return f.impl.osyms }

// SetInputSymbols replaces the input symbol table.
func (f *VectorFst[W]) SetInputSymbols(syms *SymbolTable) {
	f.mutateCheck()
	f.impl.isyms = syms
}

// SetOutputSymbols replaces the output symbol table.
func (f *VectorFst[W]) SetOutputSymbols(syms *SymbolTable) {
	f.mutateCheck()
	f.impl.osyms = syms
}

// Copy duplicates the handle; see Fst.Copy.
func (f *VectorFst[W]) Copy(safe bool) Fst[W] { return f.CopyVector(safe) }

// CopyVector is Copy with a concrete return type.
func (f *VectorFst[W]) CopyVector(safe bool) *VectorFst[W] {
	if safe {
		return &VectorFst[W]{impl: f.impl.clone(), refs: newRefCount()}
	}
	f.refs.inc()
	return &VectorFst[W]{impl: f.impl, refs: f.refs}
}

var _ MutableFst[stubWeight] = (*VectorFst[stubWeight])(nil)

// stubWeight is a boolean semiring used only for compile-time
// interface assertions inside the package.
type stubWeight bool

func (stubWeight) Zero() stubWeight              { return false }
func (stubWeight) One() stubWeight               { return true }
func (w stubWeight) Plus(o stubWeight) stubWeight  { return w || o }
func (w stubWeight) Times(o stubWeight) stubWeight { return w && o }
func (w stubWeight) Equal(o stubWeight) bool       { return w == o }
