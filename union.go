package fstkit

// Union replaces dst with the union of dst and src: the result accepts
// a path exactly when one of the operands does, with the path's weight.
// src's states are appended after dst's with their ids offset; when
// dst's start state is known to have no incoming path a single epsilon
// arc bridges it to src's start, otherwise a fresh start state with two
// epsilon arcs is synthesized.
//
// Operands with bound symbol tables must agree on them, or the result
// is marked with the Error bit and left otherwise unchanged.
func Union[W Weight[W]](dst MutableFst[W], src Fst[W]) {
	if !CompatSymbols(dst.InputSymbols(), src.InputSymbols()) ||
		!CompatSymbols(dst.OutputSymbols(), src.OutputSymbols()) {
		logError("Union: operand symbol tables do not match")
		dst.SetProperties(PropError, PropError)
		return
	}
	numStates1 := dst.NumStates()
	start2 := src.Start()
	if start2 == NoStateID {
		if src.Properties(PropError, false) != 0 {
			dst.SetProperties(PropError, PropError)
		}
		return
	}
	props1 := dst.Properties(PropAllProperties, false)
	props2 := src.Properties(PropAllProperties, false)
	initialAcyclic1 := dst.Properties(PropInitialAcyclic, true) != 0
	if n, ok := src.NumStatesIfKnown(); ok {
		dst.ReserveStates(numStates1 + n + 1)
	}
	for s2 := range src.States() {
		s1 := dst.AddState()
		dst.SetFinal(s1, src.Final(s2))
		dst.ReserveArcs(s1, src.NumArcs(s2))
		for arc := range src.Arcs(s2) {
			arc.NextState += numStates1
			dst.AddArc(s1, arc)
		}
	}
	start1 := dst.Start()
	if start1 == NoStateID {
		dst.SetStart(start2 + numStates1)
		dst.SetProperties(props2, PropCopyProperties)
		return
	}
	if initialAcyclic1 {
		dst.AddArc(start1, Arc[W]{ILabel: Epsilon, OLabel: Epsilon, Weight: One[W](), NextState: start2 + numStates1})
	} else {
		nstart1 := dst.AddState()
		dst.SetStart(nstart1)
		dst.AddArc(nstart1, Arc[W]{ILabel: Epsilon, OLabel: Epsilon, Weight: One[W](), NextState: start1})
		dst.AddArc(nstart1, Arc[W]{ILabel: Epsilon, OLabel: Epsilon, Weight: One[W](), NextState: start2 + numStates1})
	}
	dst.SetProperties(UnionProperties(props1, props2), PropAllProperties)
}

// UnionAll folds Union over the remaining operands in order.
func UnionAll[W Weight[W]](dst MutableFst[W], srcs ...Fst[W]) {
	total := dst.NumStates()
	known := true
	for _, src := range srcs {
		n, ok := src.NumStatesIfKnown()
		if !ok {
			known = false
			break
		}
		total += n
	}
	if known {
		dst.ReserveStates(total + 1)
	}
	for _, src := range srcs {
		Union(dst, src)
	}
}
