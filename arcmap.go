package fstkit

import "iter"

// FinalAction declares how an ArcMapper's result handles final
// weights. The mapper is handed final weights as synthetic arcs of the
// form (0, 0, weight, NoStateID); the action decides what its output
// may look like.
type FinalAction int

const (
	// NoSuperfinal maps a final weight to a final weight. A mapped
	// final arc with non-epsilon labels is a contract violation and
	// sets the Error bit.
	NoSuperfinal FinalAction = iota
	// AllowSuperfinal redirects a mapped final arc with non-epsilon
	// labels to a superfinal state, allocated once on first need;
	// epsilon results become final weights as in NoSuperfinal.
	AllowSuperfinal
	// RequireSuperfinal always routes final weights over arcs to a
	// superfinal state, allocated up front (output id 0) for any
	// non-empty input; every other state's final weight is Zero.
	RequireSuperfinal
)

// String returns the string representation of FinalAction.
func (a FinalAction) String() string {
	switch a {
	case NoSuperfinal:
		return "no-superfinal"
	case AllowSuperfinal:
		return "allow-superfinal"
	case RequireSuperfinal:
		return "require-superfinal"
	default:
		return "unknown"
	}
}

// SymbolsAction declares what a mapping operation does to a symbol
// table of its result.
type SymbolsAction int

const (
	// ClearSymbols removes the table from the result.
	ClearSymbols SymbolsAction = iota
	// CopySymbols carries the input's table over to the result.
	CopySymbols
	// KeepSymbols leaves the result's table alone.
	KeepSymbols
)

// ArcMapper transforms arcs one at a time. It suits operations that
// apply to each arc separately and do not change the number of arcs,
// except possibly for superfinal arcs.
//
// Mappers used with ArcMapFst must be usable as shared values: a
// mapper is consulted by every handle of the delayed result, including
// safe copies.
type ArcMapper[F Weight[F], T Weight[T]] interface {
	// Map transforms one arc. Final weights arrive as synthetic arcs
	// (0, 0, weight, NoStateID).
	Map(arc Arc[F]) Arc[T]

	// FinalAction declares the final-weight mode, fixed for the
	// mapper's lifetime.
	FinalAction() FinalAction

	// InputSymbolsAction declares the input symbol table handling.
	InputSymbolsAction() SymbolsAction

	// OutputSymbolsAction declares the output symbol table handling.
	OutputSymbolsAction() SymbolsAction

	// MapProperties turns known input properties into a sound
	// over-approximation of the output's properties.
	MapProperties(props PropertyMask) PropertyMask
}

// ArcMap rewrites fst in place through the mapper.
func ArcMap[W Weight[W]](fst MutableFst[W], mapper ArcMapper[W, W]) {
	if mapper.InputSymbolsAction() == ClearSymbols {
		fst.SetInputSymbols(nil)
	}
	if mapper.OutputSymbolsAction() == ClearSymbols {
		fst.SetOutputSymbols(nil)
	}
	if fst.Start() == NoStateID {
		return
	}
	props := fst.Properties(PropAllProperties, false)
	finalAction := mapper.FinalAction()
	superfinal := NoStateID
	if finalAction == RequireSuperfinal {
		superfinal = fst.AddState()
		fst.SetFinal(superfinal, One[W]())
	}
	for s := StateID(0); s < fst.NumStates(); s++ {
		for pos, arc := range collectArcs[W](fst, s) {
			fst.SetArc(s, pos, mapper.Map(arc))
		}
		switch finalAction {
		case NoSuperfinal:
			fa := mapper.Map(finalArc(fst.Final(s)))
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon {
				logError("ArcMap: non-epsilon labels mapping a final weight")
				fst.SetProperties(PropError, PropError)
			}
			fst.SetFinal(s, fa.Weight)
		case AllowSuperfinal:
			if s == superfinal {
				break
			}
			fa := mapper.Map(finalArc(fst.Final(s)))
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon {
				if superfinal == NoStateID {
					superfinal = fst.AddState()
					fst.SetFinal(superfinal, One[W]())
				}
				fa.NextState = superfinal
				fst.AddArc(s, fa)
				fst.SetFinal(s, Zero[W]())
			} else {
				fst.SetFinal(s, fa.Weight)
			}
		case RequireSuperfinal:
			if s == superfinal {
				break
			}
			fa := mapper.Map(finalArc(fst.Final(s)))
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon || !fa.Weight.Equal(Zero[W]()) {
				fst.AddArc(s, Arc[W]{ILabel: fa.ILabel, OLabel: fa.OLabel, Weight: fa.Weight, NextState: superfinal})
			}
			fst.SetFinal(s, Zero[W]())
		}
	}
	fst.SetProperties(mapper.MapProperties(props), PropAllProperties)
}

// ArcMapInto writes the mapped image of src into dst, replacing dst's
// content. State ids carry over; a superfinal state, when needed, is
// appended after them.
func ArcMapInto[F Weight[F], T Weight[T]](src Fst[F], dst MutableFst[T], mapper ArcMapper[F, T]) {
	dst.DeleteStates()
	switch mapper.InputSymbolsAction() {
	case CopySymbols:
		dst.SetInputSymbols(src.InputSymbols())
	case ClearSymbols:
		dst.SetInputSymbols(nil)
	}
	switch mapper.OutputSymbolsAction() {
	case CopySymbols:
		dst.SetOutputSymbols(src.OutputSymbols())
	case ClearSymbols:
		dst.SetOutputSymbols(nil)
	}
	iprops := src.Properties(PropCopyProperties, false)
	if src.Start() == NoStateID {
		if iprops&PropError != 0 {
			dst.SetProperties(PropError, PropError)
		}
		return
	}
	finalAction := mapper.FinalAction()
	if n, ok := src.NumStatesIfKnown(); ok {
		extra := StateID(0)
		if finalAction != NoSuperfinal {
			extra = 1
		}
		dst.ReserveStates(n + extra)
	}
	for range src.States() {
		dst.AddState()
	}
	superfinal := NoStateID
	if finalAction == RequireSuperfinal {
		superfinal = dst.AddState()
		dst.SetFinal(superfinal, One[T]())
	}
	for s := range src.States() {
		if s == src.Start() {
			dst.SetStart(s)
		}
		dst.ReserveArcs(s, src.NumArcs(s))
		for arc := range src.Arcs(s) {
			dst.AddArc(s, mapper.Map(arc))
		}
		fa := mapper.Map(finalArc(src.Final(s)))
		switch finalAction {
		case NoSuperfinal:
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon {
				logError("ArcMapInto: non-epsilon labels mapping a final weight")
				dst.SetProperties(PropError, PropError)
			}
			dst.SetFinal(s, fa.Weight)
		case AllowSuperfinal:
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon {
				if superfinal == NoStateID {
					superfinal = dst.AddState()
					dst.SetFinal(superfinal, One[T]())
				}
				fa.NextState = superfinal
				dst.AddArc(s, fa)
				dst.SetFinal(s, Zero[T]())
			} else {
				dst.SetFinal(s, fa.Weight)
			}
		case RequireSuperfinal:
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon || !fa.Weight.Equal(Zero[T]()) {
				dst.AddArc(s, Arc[T]{ILabel: fa.ILabel, OLabel: fa.OLabel, Weight: fa.Weight, NextState: superfinal})
			}
			dst.SetFinal(s, Zero[T]())
		}
	}
	oprops := dst.Properties(PropAllProperties, false)
	dst.SetProperties(mapper.MapProperties(iprops)|oprops, PropAllProperties)
}

// arcMapImpl is the cache-backed storage behind ArcMapFst handles.
//
// Output/input state-id correspondence: when a superfinal state is
// allocated it takes one slot in the output id space; output ids at or
// above the slot map to input ids one less than themselves, ids below
// map identically. The superfinal slot is always at least as large as
// every output id handed out before its allocation, so ids already
// exposed keep their mapping.
type arcMapImpl[F Weight[F], T Weight[T]] struct {
	fst         Fst[F]
	mapper      ArcMapper[F, T]
	cache       stateCache[T]
	props       PropertyMask
	finalAction FinalAction
	superfinal  StateID
	nstates     StateID
	isyms       *SymbolTable
	osyms       *SymbolTable
}

func newArcMapImpl[F Weight[F], T Weight[T]](fst Fst[F], mapper ArcMapper[F, T], opts CacheOptions) *arcMapImpl[F, T] {
	m := &arcMapImpl[F, T]{
		fst:        fst,
		mapper:     mapper,
		cache:      newStateCache[T](opts),
		superfinal: NoStateID,
	}
	if mapper.InputSymbolsAction() == CopySymbols {
		m.isyms = fst.InputSymbols()
	}
	if mapper.OutputSymbolsAction() == CopySymbols {
		m.osyms = fst.OutputSymbols()
	}
	if fst.Start() == NoStateID {
		m.finalAction = NoSuperfinal
		m.props = PropNullProperties
	} else {
		m.finalAction = mapper.FinalAction()
		m.props = mapper.MapProperties(fst.Properties(PropCopyProperties, false))
		if m.finalAction == RequireSuperfinal {
			m.superfinal = 0
			m.nstates = 1
		}
	}
	return m
}

// findIState maps an output state id to its input id.
func (m *arcMapImpl[F, T]) findIState(s StateID) StateID {
	if m.superfinal == NoStateID || s < m.superfinal {
		return s
	}
	return s - 1
}

// findOState maps an input state id to its output id, tracking the
// highest output id seen so a lazily allocated superfinal lands above
// every id already exposed.
func (m *arcMapImpl[F, T]) findOState(is StateID) StateID {
	os := is
	if !(m.superfinal == NoStateID || is < m.superfinal) {
		os++
	}
	if os >= m.nstates {
		m.nstates = os + 1
	}
	return os
}

// expand materializes the arcs of output state s in the cache.
func (m *arcMapImpl[F, T]) expand(s StateID) {
	if !m.cache.BeginExpand(s) {
		return
	}
	if s == m.superfinal {
		m.cache.FinishExpand(s)
		return
	}
	for arc := range m.fst.Arcs(m.findIState(s)) {
		arc.NextState = m.findOState(arc.NextState)
		m.cache.PushArc(s, m.mapper.Map(arc))
	}
	if !m.cache.HasFinal(s) || m.cache.Final(s).Equal(Zero[T]()) {
		switch m.finalAction {
		case AllowSuperfinal:
			fa := m.mapper.Map(finalArc(m.fst.Final(m.findIState(s))))
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon {
				if m.superfinal == NoStateID {
					m.superfinal = m.nstates
					m.nstates++
				}
				fa.NextState = m.superfinal
				m.cache.PushArc(s, fa)
			}
		case RequireSuperfinal:
			fa := m.mapper.Map(finalArc(m.fst.Final(m.findIState(s))))
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon || !fa.Weight.Equal(Zero[T]()) {
				m.cache.PushArc(s, Arc[T]{ILabel: fa.ILabel, OLabel: fa.OLabel, Weight: fa.Weight, NextState: m.superfinal})
			}
		}
	}
	m.cache.FinishExpand(s)
}

// ArcMapFst is the delayed form of ArcMapInto: the mapped automaton
// materializes states and arcs in its cache only as they are visited.
type ArcMapFst[F Weight[F], T Weight[T]] struct {
	impl *arcMapImpl[F, T]
	refs *refCount
}

// NewArcMapFst wraps fst in a delayed mapping. The default cache
// configuration retains only entries in active use, since most mappers
// are cheap to re-run.
func NewArcMapFst[F Weight[F], T Weight[T]](fst Fst[F], mapper ArcMapper[F, T]) *ArcMapFst[F, T] {
	return NewArcMapFstWithOptions(fst, mapper, CacheOptions{GC: true, Limit: 0})
}

// NewArcMapFstWithOptions is NewArcMapFst with an explicit cache
// configuration.
func NewArcMapFstWithOptions[F Weight[F], T Weight[T]](fst Fst[F], mapper ArcMapper[F, T], opts CacheOptions) *ArcMapFst[F, T] {
	return &ArcMapFst[F, T]{
		impl: newArcMapImpl(fst.Copy(false), mapper, opts),
		refs: newRefCount(),
	}
}

// Start returns the mapped start state.
func (f *ArcMapFst[F, T]) Start() StateID {
	if s, ok := f.impl.cache.Start(); ok {
		return s
	}
	s := f.impl.findOState(f.impl.fst.Start())
	f.impl.cache.SetStart(s)
	return s
}

// Final returns the mapped final weight of s.
func (f *ArcMapFst[F, T]) Final(s StateID) T {
	m := f.impl
	if !m.cache.HasFinal(s) {
		switch m.finalAction {
		case NoSuperfinal:
			fa := m.mapper.Map(finalArc(m.fst.Final(m.findIState(s))))
			if fa.ILabel != Epsilon || fa.OLabel != Epsilon {
				logError("ArcMapFst: non-epsilon labels mapping a final weight")
				m.props |= PropError
			}
			m.cache.SetFinal(s, fa.Weight)
		case AllowSuperfinal:
			if s == m.superfinal {
				m.cache.SetFinal(s, One[T]())
			} else {
				fa := m.mapper.Map(finalArc(m.fst.Final(m.findIState(s))))
				if fa.ILabel == Epsilon && fa.OLabel == Epsilon {
					m.cache.SetFinal(s, fa.Weight)
				} else {
					m.cache.SetFinal(s, Zero[T]())
				}
			}
		case RequireSuperfinal:
			if s == m.superfinal {
				m.cache.SetFinal(s, One[T]())
			} else {
				m.cache.SetFinal(s, Zero[T]())
			}
		}
	}
	return m.cache.Final(s)
}

// NumArcs returns the arc count of s. In no-superfinal mode ids map
// identically and the input's count is used directly.
func (f *ArcMapFst[F, T]) NumArcs(s StateID) int {
	m := f.impl
	if m.finalAction == NoSuperfinal {
		return m.fst.NumArcs(s)
	}
	if !m.cache.HasArcs(s) {
		m.expand(s)
	}
	return m.cache.NumArcs(s)
}

// Arcs iterates over the mapped arcs of s, expanding the cache entry
// on first visit. The entry is pinned against eviction while the
// iteration is live.
func (f *ArcMapFst[F, T]) Arcs(s StateID) iter.Seq[Arc[T]] {
	return func(yield func(Arc[T]) bool) {
		m := f.impl
		if !m.cache.HasArcs(s) {
			m.expand(s)
		}
		m.cache.Pin(s)
		defer m.cache.Unpin(s)
		for _, arc := range m.cache.Arcs(s) {
			if !yield(arc) {
				return
			}
		}
	}
}

// States iterates over output state ids. In allow-superfinal mode the
// input's final weights are scanned along the way to learn whether a
// superfinal slot exists; the scan does not touch the cache.
func (f *ArcMapFst[F, T]) States() iter.Seq[StateID] {
	return func(yield func(StateID) bool) {
		m := f.impl
		extra := m.finalAction == RequireSuperfinal
		n := StateID(0)
		for is := range m.fst.States() {
			if m.finalAction == AllowSuperfinal && !extra {
				fa := m.mapper.Map(finalArc(m.fst.Final(is)))
				if fa.ILabel != Epsilon || fa.OLabel != Epsilon {
					extra = true
				}
			}
			if !yield(n) {
				return
			}
			n++
		}
		if extra {
			yield(n)
		}
	}
}

// NumStatesIfKnown reports the output count when the mode makes it
// derivable from the input's known count.
func (f *ArcMapFst[F, T]) NumStatesIfKnown() (StateID, bool) {
	m := f.impl
	switch m.finalAction {
	case NoSuperfinal:
		return m.fst.NumStatesIfKnown()
	case RequireSuperfinal:
		if n, ok := m.fst.NumStatesIfKnown(); ok {
			return n + 1, true
		}
	}
	return 0, false
}

// Properties returns the bits selected by mask, first folding in any
// error carried by the input or the mapper.
func (f *ArcMapFst[F, T]) Properties(mask PropertyMask, compute bool) PropertyMask {
	m := f.impl
	if mask&PropError != 0 {
		if m.fst.Properties(PropError, false) != 0 || m.mapper.MapProperties(0)&PropError != 0 {
			m.props |= PropError
		}
	}
	props := m.props
	if compute {
		if unknown := mask & PropTrinaryProperties &^ KnownProperties(props); unknown != 0 {
			computed := ComputeProperties[T](f)
			m.props |= computed
			props |= computed
		}
	}
	return props & mask
}

// InputSymbols returns the optional input symbol table.
func (f *ArcMapFst[F, T]) InputSymbols() *SymbolTable { return f.impl.isyms }

// OutputSymbols returns the optional output symbol table.
func (f *ArcMapFst[F, T]) OutputSymbols() *SymbolTable { return f.impl.osyms }

// Copy duplicates the handle; see Fst.Copy. A safe copy gets an
// independent input copy and a fresh cache.
func (f *ArcMapFst[F, T]) Copy(safe bool) Fst[T] {
	if safe {
		impl := newArcMapImpl(f.impl.fst.Copy(true), f.impl.mapper, f.impl.cache.opts)
		impl.props |= f.impl.props & PropError
		return &ArcMapFst[F, T]{impl: impl, refs: newRefCount()}
	}
	f.refs.inc()
	return &ArcMapFst[F, T]{impl: f.impl, refs: f.refs}
}

var _ Fst[stubWeight] = (*ArcMapFst[stubWeight, stubWeight])(nil)
