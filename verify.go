package fstkit

import (
	"errors"
	"fmt"
)

// ErrVerify wraps every verification failure reported by Verify.
var ErrVerify = errors.New("fstkit: verification failed")

// Verify checks the structural sanity of f: the Error bit is clear, the
// start state and every arc target are in range, labels are
// non-negative, and labels are covered by the bound symbol tables.
// It returns nil when f is well formed.
func Verify[W Weight[W]](f Fst[W]) error {
	if f.Properties(PropError, false) != 0 {
		return fmt.Errorf("%w: error property set", ErrVerify)
	}
	n := CountStates(f)
	start := f.Start()
	if start == NoStateID {
		if n > 0 {
			return fmt.Errorf("%w: no start state in non-empty automaton", ErrVerify)
		}
		return nil
	}
	if start < 0 || start >= n {
		return fmt.Errorf("%w: start state %d out of range [0, %d)", ErrVerify, start, n)
	}
	isyms := f.InputSymbols()
	osyms := f.OutputSymbols()
	for s := range f.States() {
		pos := 0
		for arc := range f.Arcs(s) {
			if arc.ILabel < 0 {
				return fmt.Errorf("%w: state %d arc %d has negative input label %d", ErrVerify, s, pos, arc.ILabel)
			}
			if arc.OLabel < 0 {
				return fmt.Errorf("%w: state %d arc %d has negative output label %d", ErrVerify, s, pos, arc.OLabel)
			}
			if arc.NextState < 0 || arc.NextState >= n {
				return fmt.Errorf("%w: state %d arc %d targets state %d out of range [0, %d)", ErrVerify, s, pos, arc.NextState, n)
			}
			if isyms != nil && arc.ILabel != Epsilon {
				if _, ok := isyms.Symbol(arc.ILabel); !ok {
					return fmt.Errorf("%w: state %d arc %d input label %d missing from symbol table %q", ErrVerify, s, pos, arc.ILabel, isyms.Name())
				}
			}
			if osyms != nil && arc.OLabel != Epsilon {
				if _, ok := osyms.Symbol(arc.OLabel); !ok {
					return fmt.Errorf("%w: state %d arc %d output label %d missing from symbol table %q", ErrVerify, s, pos, arc.OLabel, osyms.Name())
				}
			}
			pos++
		}
	}
	return nil
}
