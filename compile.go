package fstkit

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/fstkit/fstkit/internal/textparse"
)

// ErrCompile wraps every failure reported by CompileText.
var ErrCompile = errors.New("fstkit: text compile failed")

// TextOptions configures CompileText.
type TextOptions struct {
	// Acceptor inputs carry a single label per arc, used for both
	// sides.
	Acceptor bool
	// ISymbols and OSymbols resolve label fields; with a nil table the
	// corresponding labels must be numeric. Tables used here are bound
	// to the result.
	ISymbols *SymbolTable
	OSymbols *SymbolTable
	// AddSymbols grows the tables with unknown symbols instead of
	// rejecting them.
	AddSymbols bool
}

// CompileText builds a VectorFst from the tabular text format. Arc
// records are "src dst ilabel olabel [weight]" (or "src dst label
// [weight]" for acceptors), final records "state [weight]"; omitted
// weights default to One. The source state of the first record becomes
// the start state.
func CompileText[W Weight[W]](r io.Reader, parseWeight func(string) (W, error), opts TextOptions) (*VectorFst[W], error) {
	entries, err := textparse.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCompile, err)
	}
	f := NewVectorFst[W]()

	state := func(field string, line int) (StateID, error) {
		n, err := strconv.ParseInt(field, 10, 32)
		if err != nil || n < 0 {
			return NoStateID, fmt.Errorf("%w: line %d: bad state id %q", ErrCompile, line, field)
		}
		for StateID(n) >= f.NumStates() {
			f.AddState()
		}
		return StateID(n), nil
	}
	label := func(field string, syms *SymbolTable, line int) (Label, error) {
		if syms != nil {
			if l, ok := syms.Find(field); ok {
				return l, nil
			}
			if opts.AddSymbols {
				return syms.AddSymbol(field), nil
			}
			return NoLabel, fmt.Errorf("%w: line %d: symbol %q not in table %q", ErrCompile, line, field, syms.Name())
		}
		n, err := strconv.ParseInt(field, 10, 32)
		if err != nil {
			return NoLabel, fmt.Errorf("%w: line %d: bad label %q", ErrCompile, line, field)
		}
		return Label(n), nil
	}
	weight := func(field string, line int) (W, error) {
		w, err := parseWeight(field)
		if err != nil {
			return w, fmt.Errorf("%w: line %d: bad weight %q: %v", ErrCompile, line, field, err)
		}
		return w, nil
	}

	arcFields := 4
	if opts.Acceptor {
		arcFields = 3
	}
	for i, e := range entries {
		src, err := state(e.Fields[0], e.Line)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			f.SetStart(src)
		}
		switch n := len(e.Fields); {
		case n == 1:
			f.SetFinal(src, One[W]())
		case n == 2:
			w, err := weight(e.Fields[1], e.Line)
			if err != nil {
				return nil, err
			}
			f.SetFinal(src, w)
		case n == arcFields || n == arcFields+1:
			dst, err := state(e.Fields[1], e.Line)
			if err != nil {
				return nil, err
			}
			ilabel, err := label(e.Fields[2], opts.ISymbols, e.Line)
			if err != nil {
				return nil, err
			}
			olabel := ilabel
			if !opts.Acceptor {
				if olabel, err = label(e.Fields[3], opts.OSymbols, e.Line); err != nil {
					return nil, err
				}
			}
			w := One[W]()
			if n == arcFields+1 {
				if w, err = weight(e.Fields[n-1], e.Line); err != nil {
					return nil, err
				}
			}
			f.AddArc(src, Arc[W]{ILabel: ilabel, OLabel: olabel, Weight: w, NextState: dst})
		default:
			return nil, fmt.Errorf("%w: line %d: %d fields", ErrCompile, e.Line, n)
		}
	}
	if opts.ISymbols != nil {
		f.SetInputSymbols(opts.ISymbols)
		if opts.Acceptor && opts.OSymbols == nil {
			f.SetOutputSymbols(opts.ISymbols)
		}
	}
	if opts.OSymbols != nil {
		f.SetOutputSymbols(opts.OSymbols)
	}
	return f, nil
}
