package fstkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVectorFstBasics(t *testing.T) {
	f := NewVectorFst[testWeight]()
	assert.Equal(t, NoStateID, f.Start())
	assert.Equal(t, StateID(0), f.NumStates())

	s0 := f.AddState()
	s1 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, Arc[testWeight]{ILabel: 1, OLabel: 2, Weight: testWeight(0.5), NextState: s1})
	f.SetFinal(s1, testWeight(1))

	assert.Equal(t, s0, f.Start())
	assert.Equal(t, StateID(2), f.NumStates())
	assert.Equal(t, 1, f.NumArcs(s0))
	assert.Equal(t, 0, f.NumArcs(s1))
	assert.True(t, f.Final(s1).Equal(testWeight(1)))
	assert.True(t, f.Final(s0).Equal(Zero[testWeight]()))
	// Out of range queries degrade, they do not panic.
	assert.True(t, f.Final(99).Equal(Zero[testWeight]()))
	assert.Equal(t, 0, f.NumArcs(99))

	n, ok := f.NumStatesIfKnown()
	require.True(t, ok)
	assert.Equal(t, StateID(2), n)
}

func TestVectorFstCopyOnWrite(t *testing.T) {
	a := chainAcceptor(1, 2)
	b := a.CopyVector(false)

	// Cheap copies alias storage.
	assert.Same(t, a.impl, b.impl)

	// Mutating one detaches it; the sibling observes nothing.
	b.AddArc(0, Arc[testWeight]{ILabel: 9, OLabel: 9, Weight: One[testWeight](), NextState: 1})
	assert.NotSame(t, a.impl, b.impl)
	assert.Equal(t, 1, a.NumArcs(0))
	assert.Equal(t, 2, b.NumArcs(0))

	// A later mutation of the original must not clone again: it is
	// sole owner of its storage now.
	impl := a.impl
	a.SetFinal(2, testWeight(5))
	assert.Same(t, impl, a.impl)
}

func TestVectorFstDeepCopy(t *testing.T) {
	a := chainAcceptor(1)
	b := a.CopyVector(true)
	require.NotSame(t, a.impl, b.impl)
	b.SetFinal(1, testWeight(7))
	assert.True(t, a.Final(1).Equal(One[testWeight]()))
	assert.True(t, b.Final(1).Equal(testWeight(7)))
}

func TestVectorFstPropertiesInvalidation(t *testing.T) {
	f := chainAcceptor(1, 2)
	props := f.Properties(PropAllProperties, true)
	assert.NotZero(t, props&PropAcyclic)

	// A mutation drops stored structural facts.
	f.AddArc(1, Arc[testWeight]{ILabel: 1, OLabel: 1, Weight: One[testWeight](), NextState: 0})
	stored := f.Properties(PropAcyclic|PropCyclic, false)
	assert.Zero(t, stored)

	// Recomputation sees the new cycle.
	assert.NotZero(t, f.Properties(PropCyclic, true))
}

func TestVectorFstSharedPropertyComputeIsSafeToRecompute(t *testing.T) {
	a := chainAcceptor(1)
	b := a.CopyVector(false)
	// Computing on one handle caches results visible to the other;
	// both describe the same storage so the bits stay valid.
	assert.NotZero(t, a.Properties(PropAcyclic, true))
	assert.NotZero(t, b.Properties(PropAcyclic, false))
}

func TestVectorFstIteration(t *testing.T) {
	f := chainAcceptor(4, 5, 6)
	var states []StateID
	for s := range f.States() {
		states = append(states, s)
	}
	assert.Equal(t, []StateID{0, 1, 2, 3}, states)

	var labels []Label
	for s := range f.States() {
		for arc := range f.Arcs(s) {
			labels = append(labels, arc.ILabel)
		}
	}
	assert.Equal(t, []Label{4, 5, 6}, labels)

	// Early break is honored.
	count := 0
	for range f.States() {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestCountStatesAndArcs(t *testing.T) {
	f := chainAcceptor(1, 2, 3)
	assert.Equal(t, StateID(4), CountStates[testWeight](f))
	assert.Equal(t, int64(3), CountArcs[testWeight](f))
}
