package fstkit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyWellFormed(t *testing.T) {
	assert.NoError(t, Verify[testWeight](chainAcceptor(1, 2)))
	assert.NoError(t, Verify[testWeight](NewVectorFst[testWeight]()))
}

func TestVerifyMissingStart(t *testing.T) {
	f := NewVectorFst[testWeight]()
	f.AddState()
	err := Verify[testWeight](f)
	assert.ErrorIs(t, err, ErrVerify)
}

func TestVerifyDanglingArcTarget(t *testing.T) {
	f := chainAcceptor(1)
	f.AddArc(0, Arc[testWeight]{ILabel: 1, OLabel: 1, Weight: One[testWeight](), NextState: 42})
	err := Verify[testWeight](f)
	assert.ErrorIs(t, err, ErrVerify)
}

func TestVerifyNegativeLabel(t *testing.T) {
	f := chainAcceptor(1)
	f.AddArc(0, Arc[testWeight]{ILabel: NoLabel, OLabel: 1, Weight: One[testWeight](), NextState: 1})
	err := Verify[testWeight](f)
	assert.ErrorIs(t, err, ErrVerify)
}

func TestVerifyErrorBit(t *testing.T) {
	f := chainAcceptor(1)
	f.SetProperties(PropError, PropError)
	err := Verify[testWeight](f)
	assert.ErrorIs(t, err, ErrVerify)
}

func TestVerifySymbolCoverage(t *testing.T) {
	f := chainAcceptor(1)
	syms := NewSymbolTable("letters")
	syms.SetSymbol("a", 1)
	f.SetInputSymbols(syms)
	require.NoError(t, Verify[testWeight](f))

	f.AddArc(0, Arc[testWeight]{ILabel: 9, OLabel: 9, Weight: One[testWeight](), NextState: 1})
	err := Verify[testWeight](f)
	assert.ErrorIs(t, err, ErrVerify)
}
