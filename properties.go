package fstkit

import "strings"

// PropertyMask is a 64-bit summary of structural facts about an
// automaton. Three kinds of bits exist:
//
//   - binary bits (Expanded, Mutable, Error) intrinsic to the concrete
//     type or sticky once set;
//   - trinary facts stored as a positive/negative bit pair; a fact is
//     known when either bit of its pair is set and unknown when both
//     are clear.
//
// Every operator declares a pure function from input masks to an output
// mask. Such functions must be sound over-approximations: they may omit
// a bit that holds but must never assert a bit that might not hold.
// The Error bit is monotonic: derived automata inherit it and no
// operation clears it.
type PropertyMask uint64

const (
	// PropExpanded marks types whose state count is eagerly known.
	PropExpanded PropertyMask = 1 << iota
	// PropMutable marks types that support in-place mutation.
	PropMutable
	// PropError marks an automaton in an unrecoverable error state.
	PropError

	// PropAcceptor holds when every arc has equal input and output labels.
	PropAcceptor
	PropNotAcceptor

	// PropNoIEpsilons holds when no arc has an epsilon input label.
	PropNoIEpsilons
	PropIEpsilons

	// PropNoOEpsilons holds when no arc has an epsilon output label.
	PropNoOEpsilons
	PropOEpsilons

	// PropNoEpsilons holds when no arc is epsilon on both sides.
	PropNoEpsilons
	PropEpsilons

	// PropILabelSorted holds when every state's arcs are sorted by input label.
	PropILabelSorted
	PropNotILabelSorted

	// PropOLabelSorted holds when every state's arcs are sorted by output label.
	PropOLabelSorted
	PropNotOLabelSorted

	// PropUnweighted holds when all arc and final weights are One (or final Zero).
	PropUnweighted
	PropWeighted

	// PropAcyclic holds when the automaton contains no cycle.
	PropAcyclic
	PropCyclic

	// PropInitialAcyclic holds when no cycle passes through the start state.
	PropInitialAcyclic
	PropInitialCyclic

	// PropTopSorted holds when every arc goes from a lower to a higher state id.
	PropTopSorted
	PropNotTopSorted

	// PropAccessible holds when every state is reachable from the start.
	PropAccessible
	PropNotAccessible

	// PropCoAccessible holds when every state reaches a final state.
	PropCoAccessible
	PropNotCoAccessible
)

// Binary bits, always known.
const PropBinaryProperties = PropExpanded | PropMutable | PropError

// propPairs lists every trinary positive/negative pair.
var propPairs = [...][2]PropertyMask{
	{PropAcceptor, PropNotAcceptor},
	{PropNoIEpsilons, PropIEpsilons},
	{PropNoOEpsilons, PropOEpsilons},
	{PropNoEpsilons, PropEpsilons},
	{PropILabelSorted, PropNotILabelSorted},
	{PropOLabelSorted, PropNotOLabelSorted},
	{PropUnweighted, PropWeighted},
	{PropAcyclic, PropCyclic},
	{PropInitialAcyclic, PropInitialCyclic},
	{PropTopSorted, PropNotTopSorted},
	{PropAccessible, PropNotAccessible},
	{PropCoAccessible, PropNotCoAccessible},
}

// PropTrinaryProperties covers both bits of every trinary pair.
const PropTrinaryProperties = PropAcceptor | PropNotAcceptor |
	PropNoIEpsilons | PropIEpsilons |
	PropNoOEpsilons | PropOEpsilons |
	PropNoEpsilons | PropEpsilons |
	PropILabelSorted | PropNotILabelSorted |
	PropOLabelSorted | PropNotOLabelSorted |
	PropUnweighted | PropWeighted |
	PropAcyclic | PropCyclic |
	PropInitialAcyclic | PropInitialCyclic |
	PropTopSorted | PropNotTopSorted |
	PropAccessible | PropNotAccessible |
	PropCoAccessible | PropNotCoAccessible

// PropAllProperties covers every defined bit.
const PropAllProperties = PropBinaryProperties | PropTrinaryProperties

// PropCopyProperties are the bits carried over when an automaton is
// copied verbatim into different storage.
const PropCopyProperties = PropError | PropTrinaryProperties

// PropNullProperties are the properties of the empty automaton.
const PropNullProperties = PropAcceptor | PropNoIEpsilons | PropNoOEpsilons |
	PropNoEpsilons | PropILabelSorted | PropOLabelSorted | PropUnweighted |
	PropAcyclic | PropInitialAcyclic | PropTopSorted | PropAccessible |
	PropCoAccessible

// PropShapeProperties are facts that depend only on the graph shape,
// not on labels or weights.
const PropShapeProperties = PropAcyclic | PropCyclic |
	PropInitialAcyclic | PropInitialCyclic |
	PropTopSorted | PropNotTopSorted |
	PropAccessible | PropNotAccessible

// PropWeightInvariantProperties are preserved by transforms that change
// only arc weights, leaving labels and targets alone. The coaccessible
// pair is excluded: changing final weights can change which states are
// final.
const PropWeightInvariantProperties = PropShapeProperties |
	PropAcceptor | PropNotAcceptor |
	PropNoIEpsilons | PropIEpsilons |
	PropNoOEpsilons | PropOEpsilons |
	PropNoEpsilons | PropEpsilons |
	PropILabelSorted | PropNotILabelSorted |
	PropOLabelSorted | PropNotOLabelSorted |
	PropError

// PropILabelInvariantProperties are preserved by transforms that change
// only input labels.
const PropILabelInvariantProperties = PropShapeProperties |
	PropCoAccessible | PropNotCoAccessible |
	PropNoOEpsilons | PropOEpsilons |
	PropOLabelSorted | PropNotOLabelSorted |
	PropUnweighted | PropWeighted |
	PropError

// PropOLabelInvariantProperties are preserved by transforms that change
// only output labels.
const PropOLabelInvariantProperties = PropShapeProperties |
	PropCoAccessible | PropNotCoAccessible |
	PropNoIEpsilons | PropIEpsilons |
	PropILabelSorted | PropNotILabelSorted |
	PropUnweighted | PropWeighted |
	PropError

// PropAddSuperFinalProperties are preserved when final weights are
// redirected onto arcs into a synthesized superfinal state.
const PropAddSuperFinalProperties = PropAcceptor | PropNotAcceptor |
	PropAcyclic | PropCyclic |
	PropInitialAcyclic | PropInitialCyclic |
	PropCoAccessible |
	PropWeighted |
	PropIEpsilons | PropOEpsilons | PropEpsilons |
	PropError

// KnownProperties expands a stored mask into the set of bits whose
// value it determines: binary bits are always known, a trinary pair is
// known when either of its bits is set.
func KnownProperties(props PropertyMask) PropertyMask {
	known := PropBinaryProperties
	for _, pair := range propPairs {
		if props&(pair[0]|pair[1]) != 0 {
			known |= pair[0] | pair[1]
		}
	}
	return known
}

// propNames maps single bits to display names, positive pairs first.
var propNames = []struct {
	bit  PropertyMask
	name string
}{
	{PropExpanded, "expanded"},
	{PropMutable, "mutable"},
	{PropError, "error"},
	{PropAcceptor, "acceptor"},
	{PropNotAcceptor, "not acceptor"},
	{PropNoIEpsilons, "no input epsilons"},
	{PropIEpsilons, "input epsilons"},
	{PropNoOEpsilons, "no output epsilons"},
	{PropOEpsilons, "output epsilons"},
	{PropNoEpsilons, "no epsilons"},
	{PropEpsilons, "epsilons"},
	{PropILabelSorted, "input label sorted"},
	{PropNotILabelSorted, "not input label sorted"},
	{PropOLabelSorted, "output label sorted"},
	{PropNotOLabelSorted, "not output label sorted"},
	{PropUnweighted, "unweighted"},
	{PropWeighted, "weighted"},
	{PropAcyclic, "acyclic"},
	{PropCyclic, "cyclic"},
	{PropInitialAcyclic, "initial acyclic"},
	{PropInitialCyclic, "initial cyclic"},
	{PropTopSorted, "top sorted"},
	{PropNotTopSorted, "not top sorted"},
	{PropAccessible, "accessible"},
	{PropNotAccessible, "not accessible"},
	{PropCoAccessible, "coaccessible"},
	{PropNotCoAccessible, "not coaccessible"},
}

// String lists the set bits by name.
func (p PropertyMask) String() string {
	var names []string
	for _, pn := range propNames {
		if p&pn.bit != 0 {
			names = append(names, pn.name)
		}
	}
	if names == nil {
		return "none"
	}
	return strings.Join(names, ", ")
}

// ComputeProperties determines every trinary fact of f by a single full
// traversal. The returned mask has exactly one bit of each pair set.
// Binary bits of f are not included.
func ComputeProperties[W Weight[W]](f Fst[W]) PropertyMask {
	one := One[W]()
	zero := Zero[W]()

	acceptor := true
	noIEps, noOEps, noEps := true, true, true
	iSorted, oSorted := true, true
	unweighted := true
	topSorted := true

	nstates := StateID(0)
	for s := range f.States() {
		if s >= nstates {
			nstates = s + 1
		}
		if fw := f.Final(s); !fw.Equal(zero) && !fw.Equal(one) {
			unweighted = false
		}
		var prev Arc[W]
		first := true
		for arc := range f.Arcs(s) {
			if arc.ILabel != arc.OLabel {
				acceptor = false
			}
			if arc.ILabel == Epsilon {
				noIEps = false
				if arc.OLabel == Epsilon {
					noEps = false
				}
			}
			if arc.OLabel == Epsilon {
				noOEps = false
			}
			if !first {
				if arc.ILabel < prev.ILabel {
					iSorted = false
				}
				if arc.OLabel < prev.OLabel {
					oSorted = false
				}
			}
			if !arc.Weight.Equal(one) {
				unweighted = false
			}
			if arc.NextState <= s {
				topSorted = false
			}
			prev = arc
			first = false
		}
	}

	acyclic, initialAcyclic := computeCycles(f, nstates)
	accessible, coAccessible := computeAccess(f, nstates)

	props := PropertyMask(0)
	set := func(cond bool, pos, neg PropertyMask) {
		if cond {
			props |= pos
		} else {
			props |= neg
		}
	}
	set(acceptor, PropAcceptor, PropNotAcceptor)
	set(noIEps, PropNoIEpsilons, PropIEpsilons)
	set(noOEps, PropNoOEpsilons, PropOEpsilons)
	set(noEps, PropNoEpsilons, PropEpsilons)
	set(iSorted, PropILabelSorted, PropNotILabelSorted)
	set(oSorted, PropOLabelSorted, PropNotOLabelSorted)
	set(unweighted, PropUnweighted, PropWeighted)
	set(acyclic, PropAcyclic, PropCyclic)
	set(initialAcyclic, PropInitialAcyclic, PropInitialCyclic)
	set(topSorted, PropTopSorted, PropNotTopSorted)
	set(accessible, PropAccessible, PropNotAccessible)
	set(coAccessible, PropCoAccessible, PropNotCoAccessible)
	return props
}

// computeCycles runs an iterative DFS over all states, reporting
// whether the automaton is acyclic and whether any cycle passes
// through the start state.
func computeCycles[W Weight[W]](f Fst[W], nstates StateID) (acyclic, initialAcyclic bool) {
	if nstates == 0 {
		return true, true
	}
	const (
		white = 0 // unvisited
		grey  = 1 // on stack
		black = 2 // done
	)
	color := make([]uint8, nstates)
	acyclic, initialAcyclic = true, true
	start := f.Start()

	type frame struct {
		s    StateID
		arcs []Arc[W]
		next int
	}
	for root := StateID(0); root < nstates; root++ {
		if color[root] != white {
			continue
		}
		stack := []frame{{s: root, arcs: collectArcs(f, root)}}
		color[root] = grey
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next >= len(top.arcs) {
				color[top.s] = black
				stack = stack[:len(stack)-1]
				continue
			}
			arc := top.arcs[top.next]
			top.next++
			t := arc.NextState
			if t < 0 || t >= nstates {
				continue
			}
			switch color[t] {
			case white:
				color[t] = grey
				stack = append(stack, frame{s: t, arcs: collectArcs(f, t)})
			case grey:
				acyclic = false
				if t == start {
					initialAcyclic = false
				}
			}
		}
	}
	return acyclic, initialAcyclic
}

// computeAccess reports whether all states are reachable from the start
// and whether all states reach a final state. Coaccessibility does not
// involve the start state, so it is traversed even when no start is set.
func computeAccess[W Weight[W]](f Fst[W], nstates StateID) (accessible, coAccessible bool) {
	if nstates == 0 {
		return true, true
	}
	start := f.Start()

	// Forward reachability from the start.
	var queue []StateID
	if start != NoStateID {
		seen := make([]bool, nstates)
		queue = []StateID{start}
		seen[start] = true
		reached := StateID(0)
		for len(queue) > 0 {
			s := queue[0]
			queue = queue[1:]
			reached++
			for arc := range f.Arcs(s) {
				t := arc.NextState
				if t >= 0 && t < nstates && !seen[t] {
					seen[t] = true
					queue = append(queue, t)
				}
			}
		}
		accessible = reached == nstates
	}

	// Backward reachability from final states over reversed arcs.
	zero := Zero[W]()
	preds := make([][]StateID, nstates)
	var finalStates []StateID
	for s := StateID(0); s < nstates; s++ {
		if !f.Final(s).Equal(zero) {
			finalStates = append(finalStates, s)
		}
		for arc := range f.Arcs(s) {
			t := arc.NextState
			if t >= 0 && t < nstates {
				preds[t] = append(preds[t], s)
			}
		}
	}
	co := make([]bool, nstates)
	queue = append(queue[:0], finalStates...)
	for _, s := range finalStates {
		co[s] = true
	}
	coReached := StateID(0)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		coReached++
		for _, p := range preds[s] {
			if !co[p] {
				co[p] = true
				queue = append(queue, p)
			}
		}
	}
	coAccessible = coReached == nstates
	return accessible, coAccessible
}

func collectArcs[W Weight[W]](f Fst[W], s StateID) []Arc[W] {
	arcs := make([]Arc[W], 0, f.NumArcs(s))
	for arc := range f.Arcs(s) {
		arcs = append(arcs, arc)
	}
	return arcs
}

// UnionProperties combines the property masks of two automata joined by
// Union. It is a sound over-approximation: facts that union can break
// (epsilon freeness, label order, topological order) are never claimed.
func UnionProperties(p1, p2 PropertyMask) PropertyMask {
	out := (PropAcceptor | PropUnweighted | PropAcyclic |
		PropAccessible | PropCoAccessible) & p1 & p2
	out |= PropError & (p1 | p2)
	out |= (PropNotAcceptor | PropWeighted | PropCyclic |
		PropIEpsilons | PropOEpsilons | PropEpsilons |
		PropNotILabelSorted | PropNotOLabelSorted |
		PropNotAccessible) & (p1 | p2)
	// The first operand's start may gain a path to the second
	// operand's final states, so its non-coaccessibility does not
	// survive; the second operand's does.
	out |= PropNotCoAccessible & p2
	// Union reconciles start states so that no cycle passes through
	// the result's start.
	out |= PropInitialAcyclic
	return out
}
