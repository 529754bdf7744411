package fstkit

import (
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chainAcceptor builds a single path accepting the given labels.
func chainAcceptor(labels ...Label) *VectorFst[testWeight] {
	f := NewVectorFst[testWeight]()
	s := f.AddState()
	f.SetStart(s)
	for _, l := range labels {
		n := f.AddState()
		f.AddArc(s, Arc[testWeight]{ILabel: l, OLabel: l, Weight: One[testWeight](), NextState: n})
		s = n
	}
	f.SetFinal(s, One[testWeight]())
	return f
}

func TestKnownProperties(t *testing.T) {
	assert.Equal(t, PropBinaryProperties, KnownProperties(0))
	known := KnownProperties(PropAcceptor | PropCyclic)
	assert.Equal(t, PropBinaryProperties|PropAcceptor|PropNotAcceptor|PropAcyclic|PropCyclic, known)
}

func TestPropertyMaskString(t *testing.T) {
	assert.Equal(t, "none", PropertyMask(0).String())
	s := (PropExpanded | PropAcceptor | PropCyclic).String()
	assert.Contains(t, s, "expanded")
	assert.Contains(t, s, "acceptor")
	assert.Contains(t, s, "cyclic")
}

func TestComputePropertiesChain(t *testing.T) {
	f := chainAcceptor(1, 2)
	props := ComputeProperties[testWeight](f)

	for _, want := range []PropertyMask{
		PropAcceptor, PropNoIEpsilons, PropNoOEpsilons, PropNoEpsilons,
		PropILabelSorted, PropOLabelSorted, PropUnweighted,
		PropAcyclic, PropInitialAcyclic, PropTopSorted,
		PropAccessible, PropCoAccessible,
	} {
		assert.NotZero(t, props&want, "missing %v", want)
	}
}

func TestComputePropertiesCyclicTransducer(t *testing.T) {
	f := NewVectorFst[testWeight]()
	s0 := f.AddState()
	s1 := f.AddState()
	f.AddState() // unreachable
	f.SetStart(s0)
	f.AddArc(s0, Arc[testWeight]{ILabel: 1, OLabel: 2, Weight: testWeight(1), NextState: s1})
	f.AddArc(s1, Arc[testWeight]{ILabel: Epsilon, OLabel: Epsilon, Weight: One[testWeight](), NextState: s1})
	f.SetFinal(s1, testWeight(2))

	props := ComputeProperties[testWeight](f)
	for _, want := range []PropertyMask{
		PropNotAcceptor, PropIEpsilons, PropOEpsilons, PropEpsilons,
		PropWeighted, PropCyclic, PropInitialAcyclic, PropNotTopSorted,
		PropNotAccessible, PropNotCoAccessible,
		PropILabelSorted, PropOLabelSorted,
	} {
		assert.NotZero(t, props&want, "missing %v", want)
	}
}

// Coaccessibility is decided by backward reachability alone, so a
// missing start state must not shortcut it in either direction.
func TestComputePropertiesNoStart(t *testing.T) {
	// Two states, no start, no finals: no state reaches a final state.
	f := NewVectorFst[testWeight]()
	f.AddState()
	f.AddState()
	props := ComputeProperties[testWeight](f)
	assert.NotZero(t, props&PropNotCoAccessible)
	assert.Zero(t, props&PropCoAccessible)
	assert.NotZero(t, props&PropNotAccessible)
	assert.NotZero(t, f.Properties(PropNotCoAccessible, true))

	// A lone final state reaches a final state, itself.
	g := NewVectorFst[testWeight]()
	g.SetFinal(g.AddState(), One[testWeight]())
	props = ComputeProperties[testWeight](g)
	assert.NotZero(t, props&PropCoAccessible)
	assert.Zero(t, props&PropNotCoAccessible)
	assert.NotZero(t, props&PropNotAccessible)
}

func TestComputePropertiesOneBitPerPair(t *testing.T) {
	f := chainAcceptor(3, 1)
	props := ComputeProperties[testWeight](f)
	assert.Zero(t, props&PropBinaryProperties)
	for _, pair := range propPairs {
		set := bits.OnesCount64(uint64(props & (pair[0] | pair[1])))
		assert.Equal(t, 1, set, "pair %v/%v", pair[0], pair[1])
	}
}

// Every trinary bit claimed by UnionProperties must hold on the actual
// union result.
func TestUnionPropertiesSound(t *testing.T) {
	a := chainAcceptor(1, 2)
	b := NewVectorFst[testWeight]()
	s0 := b.AddState()
	s1 := b.AddState()
	b.SetStart(s0)
	b.AddArc(s0, Arc[testWeight]{ILabel: 3, OLabel: 4, Weight: testWeight(1), NextState: s1})
	b.AddArc(s1, Arc[testWeight]{ILabel: 1, OLabel: 1, Weight: One[testWeight](), NextState: s0})
	b.SetFinal(s1, One[testWeight]())

	p1 := a.Properties(PropAllProperties, true)
	p2 := b.Properties(PropAllProperties, true)
	claimed := UnionProperties(p1, p2)

	dst := a.CopyVector(true)
	Union[testWeight](dst, b)
	actual := ComputeProperties[testWeight](dst)

	require.Zero(t, claimed&PropTrinaryProperties&^actual,
		"claimed bits not holding: %v", claimed&PropTrinaryProperties&^actual)
}

func TestErrorBitSticky(t *testing.T) {
	f := chainAcceptor(1)
	f.SetProperties(PropError, PropError)
	assert.NotZero(t, f.Properties(PropError, false))
	// Clearing is ignored.
	f.SetProperties(0, PropError)
	assert.NotZero(t, f.Properties(PropError, false))
	// Mutation keeps it.
	f.AddState()
	assert.NotZero(t, f.Properties(PropError, false))
}
