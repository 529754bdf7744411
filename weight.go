package fstkit

// Weight is the constraint satisfied by semiring weight types. A weight
// type W provides the additive operation Plus with identity Zero and
// the multiplicative operation Times with identity One.
//
// Required laws: Plus is commutative and associative with Zero as
// identity; Times is associative with One as identity and Zero as
// annihilator; Times distributes over Plus.
//
// Weight types must be value types: the zero value of W must be a
// usable receiver for Zero and One. Concrete semirings live outside
// this package (see the semiring package for tropical, log and
// boolean weights).
type Weight[W any] interface {
	Plus(W) W
	Times(W) W
	Zero() W
	One() W
	Equal(W) bool
}

// Quantizer is the optional capability of weights that can round
// themselves to a coarser precision.
type Quantizer[W any] interface {
	Quantize(delta float64) W
}

// Reverser is the optional capability of weights that have a reverse
// form, used when reversing an automaton.
type Reverser[W any] interface {
	Reverse() W
}

// Zero returns the additive identity of W.
func Zero[W Weight[W]]() W {
	var w W
	return w.Zero()
}

// One returns the multiplicative identity of W.
func One[W Weight[W]]() W {
	var w W
	return w.One()
}
