package semiring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTropicalAlgebra(t *testing.T) {
	a, b := Tropical(2), Tropical(3)
	assert.Equal(t, Tropical(2), a.Plus(b))
	assert.Equal(t, Tropical(5), a.Times(b))
	assert.Equal(t, a, a.Plus(a.Zero()), "Zero is neutral for Plus")
	assert.Equal(t, a, a.Times(a.One()), "One is neutral for Times")
	assert.Equal(t, a.Zero(), a.Times(a.Zero()), "Zero absorbs under Times")
	assert.True(t, math.IsInf(float64(a.Zero()), 1))
}

func TestTropicalQuantize(t *testing.T) {
	w := Tropical(1.0001)
	assert.Equal(t, Tropical(1), w.Quantize(0.01))
	assert.Equal(t, w.Zero(), w.Zero().Quantize(0.01))
	// Non-positive delta falls back to the default.
	assert.Equal(t, w.Quantize(DefaultDelta), w.Quantize(0))
}

func TestTropicalStringAndParse(t *testing.T) {
	assert.Equal(t, "1.5", Tropical(1.5).String())
	assert.Equal(t, "Infinity", Tropical(0).Zero().String())

	w, err := ParseTropical("2.5")
	require.NoError(t, err)
	assert.Equal(t, Tropical(2.5), w)
	w, err = ParseTropical("Infinity")
	require.NoError(t, err)
	assert.True(t, w.Equal(w.Zero()))
	_, err = ParseTropical("zzz")
	assert.Error(t, err)
}

func TestTropicalBinaryRoundTrip(t *testing.T) {
	for _, w := range []Tropical{0, 1.5, -2, Tropical(0).Zero()} {
		data, err := w.MarshalBinary()
		require.NoError(t, err)
		var got Tropical
		require.NoError(t, got.UnmarshalBinary(data))
		assert.True(t, w.Equal(got))
	}
	var w Tropical
	assert.Error(t, w.UnmarshalBinary([]byte{1, 2, 3}))
}

func TestLogAlgebra(t *testing.T) {
	a, b := Log(1), Log(1)
	// -log(e**-1 + e**-1) = 1 - log 2.
	sum := a.Plus(b)
	assert.InDelta(t, 1-math.Log(2), float64(sum), 1e-12)
	assert.Equal(t, Log(2), a.Times(b))
	assert.Equal(t, a, a.Plus(a.Zero()))
	assert.Equal(t, a.Zero(), a.Times(a.Zero()))

	// Plus is symmetric even with very unequal operands.
	big, small := Log(50), Log(0)
	assert.InDelta(t, float64(small.Plus(big)), float64(big.Plus(small)), 1e-12)
	assert.InDelta(t, 0, float64(small.Plus(big)), 1e-12)
}

func TestLogBinaryRoundTrip(t *testing.T) {
	w := Log(3.25)
	data, err := w.MarshalBinary()
	require.NoError(t, err)
	var got Log
	require.NoError(t, got.UnmarshalBinary(data))
	assert.True(t, w.Equal(got))
}

func TestBooleanAlgebra(t *testing.T) {
	tr, fa := Boolean(true), Boolean(false)
	assert.Equal(t, tr, tr.Plus(fa))
	assert.Equal(t, fa, tr.Times(fa))
	assert.Equal(t, fa, fa.Zero())
	assert.Equal(t, tr, fa.One())
	assert.Equal(t, "true", tr.String())
}

func TestBooleanBinaryRoundTrip(t *testing.T) {
	for _, w := range []Boolean{true, false} {
		data, err := w.MarshalBinary()
		require.NoError(t, err)
		var got Boolean
		require.NoError(t, got.UnmarshalBinary(data))
		assert.Equal(t, w, got)
	}
	var w Boolean
	assert.Error(t, w.UnmarshalBinary(nil))
}

func TestParseBoolean(t *testing.T) {
	w, err := ParseBoolean("true")
	require.NoError(t, err)
	assert.Equal(t, Boolean(true), w)
	_, err = ParseBoolean("maybe")
	assert.Error(t, err)
}
