// Package semiring provides the standard weight types used with
// fstkit automata: Tropical (shortest-path costs), Log (negated log
// probabilities) and Boolean (plain acceptance).
//
// All three are value types with a binary codec, so automata over them
// can be serialized and read back through the fstkit registry.
package semiring

import (
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/fstkit/fstkit"
)

// DefaultDelta is the default quantization interval.
const DefaultDelta = 1.0 / 1024

// Tropical is the (min, +) semiring over float64: Plus keeps the
// smaller cost, Times accumulates. Zero is +Inf, One is 0.
type Tropical float64

// TropicalWeight converts a float cost.
func TropicalWeight(v float64) Tropical { return Tropical(v) }

// Zero returns the additive identity, +Inf.
func (Tropical) Zero() Tropical { return Tropical(math.Inf(1)) }

// One returns the multiplicative identity, 0.
func (Tropical) One() Tropical { return 0 }

// Plus returns the smaller of the two costs.
func (w Tropical) Plus(o Tropical) Tropical { return Tropical(math.Min(float64(w), float64(o))) }

// Times returns the accumulated cost; Zero absorbs.
func (w Tropical) Times(o Tropical) Tropical {
	if math.IsInf(float64(w), 1) || math.IsInf(float64(o), 1) {
		return w.Zero()
	}
	return w + o
}

// Equal reports exact equality.
func (w Tropical) Equal(o Tropical) bool { return w == o }

// Quantize rounds the cost to the nearest multiple of delta; a
// non-positive delta means DefaultDelta. Infinities pass through.
func (w Tropical) Quantize(delta float64) Tropical {
	return Tropical(quantize(float64(w), delta))
}

// Reverse returns the weight itself; the semiring is commutative.
func (w Tropical) Reverse() Tropical { return w }

func (w Tropical) String() string { return formatFloat(float64(w)) }

// MarshalBinary encodes the cost as 8 little-endian bytes.
func (w Tropical) MarshalBinary() ([]byte, error) { return marshalFloat(float64(w)), nil }

// UnmarshalBinary decodes the form written by MarshalBinary.
func (w *Tropical) UnmarshalBinary(data []byte) error {
	v, err := unmarshalFloat(data)
	*w = Tropical(v)
	return err
}

// ParseTropical parses the textual form, accepting Go float syntax
// including "Inf" and "Infinity".
func ParseTropical(s string) (Tropical, error) {
	v, err := strconv.ParseFloat(s, 64)
	return Tropical(v), err
}

// Log is the log semiring over float64: weights are negated natural
// log probabilities, Plus is -log(e**-a + e**-b), Times is +. Zero is
// +Inf, One is 0.
type Log float64

// LogWeight converts a negated log probability.
func LogWeight(v float64) Log { return Log(v) }

// Zero returns the additive identity, +Inf.
func (Log) Zero() Log { return Log(math.Inf(1)) }

// One returns the multiplicative identity, 0.
func (Log) One() Log { return 0 }

// Plus returns -log(e**-w + e**-o), computed against the smaller
// operand for stability.
func (w Log) Plus(o Log) Log {
	a, b := float64(w), float64(o)
	switch {
	case math.IsInf(a, 1):
		return o
	case math.IsInf(b, 1):
		return w
	}
	lo, hi := math.Min(a, b), math.Max(a, b)
	return Log(lo - math.Log1p(math.Exp(lo-hi)))
}

// Times returns the accumulated value; Zero absorbs.
func (w Log) Times(o Log) Log {
	if math.IsInf(float64(w), 1) || math.IsInf(float64(o), 1) {
		return w.Zero()
	}
	return w + o
}

// Equal reports exact equality.
func (w Log) Equal(o Log) bool { return w == o }

// Quantize rounds to the nearest multiple of delta; a non-positive
// delta means DefaultDelta.
func (w Log) Quantize(delta float64) Log { return Log(quantize(float64(w), delta)) }

// Reverse returns the weight itself; the semiring is commutative.
func (w Log) Reverse() Log { return w }

func (w Log) String() string { return formatFloat(float64(w)) }

// MarshalBinary encodes the value as 8 little-endian bytes.
func (w Log) MarshalBinary() ([]byte, error) { return marshalFloat(float64(w)), nil }

// UnmarshalBinary decodes the form written by MarshalBinary.
func (w *Log) UnmarshalBinary(data []byte) error {
	v, err := unmarshalFloat(data)
	*w = Log(v)
	return err
}

// ParseLog parses the textual form.
func ParseLog(s string) (Log, error) {
	v, err := strconv.ParseFloat(s, 64)
	return Log(v), err
}

// Boolean is the (or, and) semiring: weights only record acceptance.
type Boolean bool

// Zero returns false.
func (Boolean) Zero() Boolean { return false }

// One returns true.
func (Boolean) One() Boolean { return true }

// Plus returns the disjunction.
func (w Boolean) Plus(o Boolean) Boolean { return w || o }

// Times returns the conjunction.
func (w Boolean) Times(o Boolean) Boolean { return w && o }

// Equal reports equality.
func (w Boolean) Equal(o Boolean) bool { return w == o }

func (w Boolean) String() string { return strconv.FormatBool(bool(w)) }

// MarshalBinary encodes the value as one byte.
func (w Boolean) MarshalBinary() ([]byte, error) {
	if w {
		return []byte{1}, nil
	}
	return []byte{0}, nil
}

// UnmarshalBinary decodes the form written by MarshalBinary.
func (w *Boolean) UnmarshalBinary(data []byte) error {
	if len(data) != 1 {
		return fmt.Errorf("semiring: boolean weight needs 1 byte, got %d", len(data))
	}
	*w = data[0] != 0
	return nil
}

// ParseBoolean parses "true" or "false".
func ParseBoolean(s string) (Boolean, error) {
	v, err := strconv.ParseBool(s)
	return Boolean(v), err
}

func quantize(v, delta float64) float64 {
	if delta <= 0 {
		delta = DefaultDelta
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	return math.Floor(v/delta+0.5) * delta
}

func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func marshalFloat(v float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(v))
	return buf
}

func unmarshalFloat(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("semiring: float weight needs 8 bytes, got %d", len(data))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
}

var (
	_ fstkit.Weight[Tropical] = Tropical(0)
	_ fstkit.Weight[Log]      = Log(0)
	_ fstkit.Weight[Boolean]  = Boolean(false)

	_ fstkit.Quantizer[Tropical] = Tropical(0)
	_ fstkit.Quantizer[Log]      = Log(0)
	_ fstkit.Reverser[Tropical]  = Tropical(0)
	_ fstkit.Reverser[Log]       = Log(0)
)
