package fstkit

import (
	"bufio"
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"reflect"
)

// Binary format: a fixed header followed by a backing-specific body.
// All integers are little-endian; strings and weights are length
// prefixed. The format is private to this package; the only stability
// promise is that a file written by one process can be read back by
// another build of the same version.

const fileMagic uint32 = 0x46535431 // "FST1"

// maxStringLen bounds length prefixes read from untrusted files.
const maxStringLen = 1 << 20

var (
	// ErrBadHeader reports a file that does not carry a valid header.
	ErrBadHeader = errors.New("fstkit: bad file header")
	// ErrUnknownFstType reports a file whose backing type has no
	// registered reader.
	ErrUnknownFstType = errors.New("fstkit: unknown fst type")
	// ErrWeightCodec reports a weight type without a binary codec.
	ErrWeightCodec = errors.New("fstkit: weight type has no binary codec")
)

// Header is the leading record of a serialized automaton.
type Header struct {
	FstType    string
	WeightType string
	Props      PropertyMask
	Start      StateID
	NumStates  StateID
	NumArcs    int64
}

// weightTypeName identifies a weight type in headers and registry
// keys.
func weightTypeName[W Weight[W]]() string {
	return reflect.TypeFor[W]().String()
}

func writeString(w io.Writer, s string) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(s))); err != nil {
		return err
	}
	_, err := io.WriteString(w, s)
	return err
}

func readString(r io.Reader) (string, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return "", err
	}
	if n > maxStringLen {
		return "", fmt.Errorf("%w: string length %d", ErrBadHeader, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func writeHeader(w io.Writer, hdr *Header) error {
	if err := binary.Write(w, binary.LittleEndian, fileMagic); err != nil {
		return err
	}
	if err := writeString(w, hdr.FstType); err != nil {
		return err
	}
	if err := writeString(w, hdr.WeightType); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint64(hdr.Props)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(hdr.Start)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, int32(hdr.NumStates)); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, hdr.NumArcs)
}

// ReadHeader reads and validates the leading record of a serialized
// automaton, leaving r positioned at the body.
func ReadHeader(r io.Reader) (*Header, error) {
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if magic != fileMagic {
		return nil, fmt.Errorf("%w: magic %#x", ErrBadHeader, magic)
	}
	hdr := &Header{}
	var err error
	if hdr.FstType, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if hdr.WeightType, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	var props uint64
	if err := binary.Read(r, binary.LittleEndian, &props); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	hdr.Props = PropertyMask(props)
	var start, nstates int32
	if err := binary.Read(r, binary.LittleEndian, &start); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if err := binary.Read(r, binary.LittleEndian, &nstates); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	hdr.Start = StateID(start)
	hdr.NumStates = StateID(nstates)
	if err := binary.Read(r, binary.LittleEndian, &hdr.NumArcs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	return hdr, nil
}

func marshalWeight[W Weight[W]](weight W) ([]byte, error) {
	m, ok := any(weight).(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrWeightCodec, weight)
	}
	return m.MarshalBinary()
}

func unmarshalWeight[W Weight[W]](data []byte) (W, error) {
	var weight W
	u, ok := any(&weight).(encoding.BinaryUnmarshaler)
	if !ok {
		return weight, fmt.Errorf("%w: %T", ErrWeightCodec, weight)
	}
	if err := u.UnmarshalBinary(data); err != nil {
		return weight, err
	}
	return weight, nil
}

func writeWeight[W Weight[W]](w io.Writer, weight W) error {
	data, err := marshalWeight(weight)
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(data))); err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func readWeight[W Weight[W]](r io.Reader) (W, error) {
	var zero W
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return zero, err
	}
	if n > maxStringLen {
		return zero, fmt.Errorf("%w: weight length %d", ErrBadHeader, n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return zero, err
	}
	return unmarshalWeight[W](buf)
}

func writeSymbolTable(w io.Writer, syms *SymbolTable) error {
	if err := writeString(w, syms.Name()); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(syms.NumSymbols())); err != nil {
		return err
	}
	for label, sym := range syms.sorted() {
		if err := binary.Write(w, binary.LittleEndian, int32(label)); err != nil {
			return err
		}
		if err := writeString(w, sym); err != nil {
			return err
		}
	}
	return nil
}

func readBinarySymbolTable(r io.Reader) (*SymbolTable, error) {
	name, err := readString(r)
	if err != nil {
		return nil, err
	}
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	syms := NewSymbolTable(name)
	for range n {
		var label int32
		if err := binary.Read(r, binary.LittleEndian, &label); err != nil {
			return nil, err
		}
		sym, err := readString(r)
		if err != nil {
			return nil, err
		}
		syms.SetSymbol(sym, Label(label))
	}
	return syms, nil
}

// Write serializes f. The weight type must implement
// encoding.BinaryMarshaler.
func (f *VectorFst[W]) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	hdr := &Header{
		FstType:    vectorFstType,
		WeightType: weightTypeName[W](),
		Props:      f.Properties(PropAllProperties, false) & (PropCopyProperties | PropExpanded),
		Start:      f.Start(),
		NumStates:  f.NumStates(),
		NumArcs:    CountArcs[W](f),
	}
	if err := writeHeader(bw, hdr); err != nil {
		return err
	}
	var flags uint8
	if f.InputSymbols() != nil {
		flags |= 1
	}
	if f.OutputSymbols() != nil {
		flags |= 2
	}
	if err := binary.Write(bw, binary.LittleEndian, flags); err != nil {
		return err
	}
	if f.InputSymbols() != nil {
		if err := writeSymbolTable(bw, f.InputSymbols()); err != nil {
			return err
		}
	}
	if f.OutputSymbols() != nil {
		if err := writeSymbolTable(bw, f.OutputSymbols()); err != nil {
			return err
		}
	}
	for s := range f.States() {
		if err := writeWeight(bw, f.Final(s)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, int32(f.NumArcs(s))); err != nil {
			return err
		}
		for arc := range f.Arcs(s) {
			if err := binary.Write(bw, binary.LittleEndian, int32(arc.ILabel)); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, int32(arc.OLabel)); err != nil {
				return err
			}
			if err := writeWeight(bw, arc.Weight); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, int32(arc.NextState)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// readVectorBody reads a vector body positioned after its header.
func readVectorBody[W Weight[W]](r io.Reader, hdr *Header) (*VectorFst[W], error) {
	f := NewVectorFst[W]()
	var flags uint8
	if err := binary.Read(r, binary.LittleEndian, &flags); err != nil {
		return nil, err
	}
	if flags&1 != 0 {
		syms, err := readBinarySymbolTable(r)
		if err != nil {
			return nil, err
		}
		f.SetInputSymbols(syms)
	}
	if flags&2 != 0 {
		syms, err := readBinarySymbolTable(r)
		if err != nil {
			return nil, err
		}
		f.SetOutputSymbols(syms)
	}
	f.ReserveStates(hdr.NumStates)
	for range hdr.NumStates {
		f.AddState()
	}
	for s := StateID(0); s < hdr.NumStates; s++ {
		final, err := readWeight[W](r)
		if err != nil {
			return nil, err
		}
		f.SetFinal(s, final)
		var narcs int32
		if err := binary.Read(r, binary.LittleEndian, &narcs); err != nil {
			return nil, err
		}
		f.ReserveArcs(s, int(narcs))
		for range narcs {
			var ilabel, olabel, next int32
			if err := binary.Read(r, binary.LittleEndian, &ilabel); err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &olabel); err != nil {
				return nil, err
			}
			weight, err := readWeight[W](r)
			if err != nil {
				return nil, err
			}
			if err := binary.Read(r, binary.LittleEndian, &next); err != nil {
				return nil, err
			}
			f.AddArc(s, Arc[W]{ILabel: Label(ilabel), OLabel: Label(olabel), Weight: weight, NextState: StateID(next)})
		}
	}
	f.SetStart(hdr.Start)
	f.SetProperties(hdr.Props, PropCopyProperties)
	return f, nil
}

// ReadVectorFst deserializes a VectorFst written by Write.
func ReadVectorFst[W Weight[W]](r io.Reader) (*VectorFst[W], error) {
	br := bufio.NewReader(r)
	hdr, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if hdr.FstType != vectorFstType {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFstType, hdr.FstType)
	}
	if want := weightTypeName[W](); hdr.WeightType != want {
		return nil, fmt.Errorf("%w: weight type %q, want %q", ErrBadHeader, hdr.WeightType, want)
	}
	return readVectorBody[W](br, hdr)
}
