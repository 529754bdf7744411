package fstkit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolTableAddAndFind(t *testing.T) {
	syms := NewSymbolTable("letters")
	a := syms.AddSymbol("a")
	b := syms.AddSymbol("b")
	assert.NotEqual(t, a, b)
	assert.Equal(t, a, syms.AddSymbol("a"), "re-adding returns the existing label")
	assert.Equal(t, 2, syms.NumSymbols())

	l, ok := syms.Find("b")
	require.True(t, ok)
	assert.Equal(t, b, l)
	s, ok := syms.Symbol(a)
	require.True(t, ok)
	assert.Equal(t, "a", s)
	_, ok = syms.Find("z")
	assert.False(t, ok)
}

func TestSymbolTableSetSymbol(t *testing.T) {
	syms := NewSymbolTable("t")
	syms.SetSymbol("<eps>", 0)
	syms.SetSymbol("a", 1)
	// Rebinding a label drops the old symbol.
	syms.SetSymbol("b", 1)
	_, ok := syms.Find("a")
	assert.False(t, ok)
	s, ok := syms.Symbol(1)
	require.True(t, ok)
	assert.Equal(t, "b", s)
	// AddSymbol after explicit bindings picks a free label.
	l := syms.AddSymbol("c")
	assert.Equal(t, Label(2), l)
}

func TestSymbolTableCopy(t *testing.T) {
	var nilTable *SymbolTable
	assert.Nil(t, nilTable.Copy())

	syms := NewSymbolTable("t")
	syms.AddSymbol("a")
	c := syms.Copy()
	c.AddSymbol("b")
	assert.Equal(t, 1, syms.NumSymbols())
	assert.Equal(t, 2, c.NumSymbols())
}

func TestCompatSymbols(t *testing.T) {
	assert.True(t, CompatSymbols(nil, nil))
	syms := NewSymbolTable("t")
	syms.SetSymbol("a", 1)
	assert.True(t, CompatSymbols(syms, nil))
	assert.True(t, CompatSymbols(nil, syms))
	assert.True(t, CompatSymbols(syms, syms.Copy()))

	other := NewSymbolTable("t")
	other.SetSymbol("a", 2)
	assert.False(t, CompatSymbols(syms, other))
}

func TestSymbolTableTextRoundTrip(t *testing.T) {
	text := "<eps>\t0\n# comment\na\t1\nb\t2\n\n"
	syms, err := ReadSymbolTable(strings.NewReader(text), "letters")
	require.NoError(t, err)
	assert.Equal(t, 3, syms.NumSymbols())

	var b strings.Builder
	_, err = syms.WriteTo(&b)
	require.NoError(t, err)
	assert.Equal(t, "<eps>\t0\na\t1\nb\t2\n", b.String())
}

func TestReadSymbolTableErrors(t *testing.T) {
	_, err := ReadSymbolTable(strings.NewReader("a b c\n"), "t")
	assert.Error(t, err)
	_, err = ReadSymbolTable(strings.NewReader("a notanumber\n"), "t")
	assert.Error(t, err)
}
