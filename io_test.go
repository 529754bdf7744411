package fstkit

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildWeightedTransducer() *VectorFst[testWeight] {
	f := NewVectorFst[testWeight]()
	s0 := f.AddState()
	s1 := f.AddState()
	s2 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, Arc[testWeight]{ILabel: 1, OLabel: 2, Weight: testWeight(0.5), NextState: s1})
	f.AddArc(s0, Arc[testWeight]{ILabel: 3, OLabel: 3, Weight: One[testWeight](), NextState: s2})
	f.AddArc(s1, Arc[testWeight]{ILabel: Epsilon, OLabel: 4, Weight: testWeight(2), NextState: s2})
	f.SetFinal(s2, testWeight(1.25))
	return f
}

func sameFst(t *testing.T, want, got Fst[testWeight]) {
	t.Helper()
	require.Equal(t, want.Start(), got.Start())
	require.Equal(t, CountStates(want), CountStates(got))
	for s := range want.States() {
		assert.True(t, want.Final(s).Equal(got.Final(s)), "final weight of state %d", s)
		assert.Equal(t, collectArcs(want, s), collectArcs(got, s), "arcs of state %d", s)
	}
}

func TestVectorFstWriteReadRoundTrip(t *testing.T) {
	f := buildWeightedTransducer()
	syms := NewSymbolTable("in")
	syms.SetSymbol("a", 1)
	syms.SetSymbol("c", 3)
	f.SetInputSymbols(syms)
	f.Properties(PropAllProperties, true)

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ReadVectorFst[testWeight](&buf)
	require.NoError(t, err)
	sameFst(t, f, got)

	require.NotNil(t, got.InputSymbols())
	l, ok := got.InputSymbols().Find("c")
	require.True(t, ok)
	assert.Equal(t, Label(3), l)
	assert.Nil(t, got.OutputSymbols())

	// Stored properties survive the round trip.
	assert.NotZero(t, got.Properties(PropAcyclic, false))
}

func TestReadHeader(t *testing.T) {
	f := buildWeightedTransducer()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	hdr, err := ReadHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, "vector", hdr.FstType)
	assert.Equal(t, weightTypeName[testWeight](), hdr.WeightType)
	assert.Equal(t, StateID(0), hdr.Start)
	assert.Equal(t, StateID(3), hdr.NumStates)
	assert.Equal(t, int64(3), hdr.NumArcs)
	assert.NotZero(t, hdr.Props&PropExpanded)
}

func TestReadHeaderRejectsGarbage(t *testing.T) {
	_, err := ReadHeader(bytes.NewReader([]byte("not an automaton")))
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestRegistryRead(t *testing.T) {
	RegisterVectorFst[testWeight]()
	f := buildWeightedTransducer()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := Read[testWeight](&buf)
	require.NoError(t, err)
	sameFst(t, f, got)
}

func TestRegistryUnknownType(t *testing.T) {
	f := buildWeightedTransducer()
	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, &Header{
		FstType:    "no-such-backing",
		WeightType: weightTypeName[testWeight](),
		Start:      f.Start(),
		NumStates:  f.NumStates(),
	}))

	_, err := Read[testWeight](&buf)
	assert.ErrorIs(t, err, ErrUnknownFstType)
}

func TestRegistryWeightTypeMismatch(t *testing.T) {
	RegisterVectorFst[testWeight]()
	f := buildWeightedTransducer()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	_, err := Read[stubWeight](&buf)
	assert.ErrorIs(t, err, ErrBadHeader)
}

func TestReadExpanded(t *testing.T) {
	RegisterVectorFst[testWeight]()
	f := buildWeightedTransducer()
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	got, err := ReadExpanded[testWeight](&buf)
	require.NoError(t, err)
	assert.Equal(t, StateID(3), got.NumStates())
}

func TestReadExpandedRejectsNonExpandedHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeHeader(&buf, &Header{
		FstType:    vectorFstType,
		WeightType: weightTypeName[testWeight](),
		Props:      0, // expanded bit missing
	}))

	_, err := ReadExpanded[testWeight](&buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnknownFstType)
}
