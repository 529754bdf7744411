package fstkit

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"sync"
)

const vectorFstType = "vector"

// The registry maps a (weight type, backing name) pair to a body
// reader, so Read can reconstruct the concrete backing a file was
// written from. Registration normally happens in init or main, before
// any concurrent reads.

type readerKey struct {
	weight  reflect.Type
	fstType string
}

var readers sync.Map

// RegisterReader binds a body reader for the given backing name and
// weight type W. The reader is handed the stream positioned after the
// header.
func RegisterReader[W Weight[W]](fstType string, read func(r io.Reader, hdr *Header) (Fst[W], error)) {
	readers.Store(readerKey{weight: reflect.TypeFor[W](), fstType: fstType}, read)
}

// RegisterVectorFst registers the vector backing for weight type W.
func RegisterVectorFst[W Weight[W]]() {
	RegisterReader(vectorFstType, func(r io.Reader, hdr *Header) (Fst[W], error) {
		return readVectorBody[W](r, hdr)
	})
}

func readRegistered[W Weight[W]](r io.Reader) (Fst[W], *Header, error) {
	br := bufio.NewReader(r)
	hdr, err := ReadHeader(br)
	if err != nil {
		return nil, nil, err
	}
	if want := weightTypeName[W](); hdr.WeightType != want {
		return nil, nil, fmt.Errorf("%w: weight type %q, want %q", ErrBadHeader, hdr.WeightType, want)
	}
	v, ok := readers.Load(readerKey{weight: reflect.TypeFor[W](), fstType: hdr.FstType})
	if !ok {
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownFstType, hdr.FstType)
	}
	f, err := v.(func(io.Reader, *Header) (Fst[W], error))(br, hdr)
	if err != nil {
		return nil, nil, err
	}
	return f, hdr, nil
}

// Read deserializes an automaton of any registered backing.
func Read[W Weight[W]](r io.Reader) (Fst[W], error) {
	f, _, err := readRegistered[W](r)
	return f, err
}

// ReadExpanded is Read restricted to backings that know their state
// count up front. It fails before touching the body when the header
// does not carry the expanded property.
func ReadExpanded[W Weight[W]](r io.Reader) (ExpandedFst[W], error) {
	br := bufio.NewReader(r)
	hdr, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	if hdr.Props&PropExpanded == 0 {
		return nil, fmt.Errorf("%w: backing %q is not expanded", ErrUnknownFstType, hdr.FstType)
	}
	if want := weightTypeName[W](); hdr.WeightType != want {
		return nil, fmt.Errorf("%w: weight type %q, want %q", ErrBadHeader, hdr.WeightType, want)
	}
	v, ok := readers.Load(readerKey{weight: reflect.TypeFor[W](), fstType: hdr.FstType})
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFstType, hdr.FstType)
	}
	f, err := v.(func(io.Reader, *Header) (Fst[W], error))(br, hdr)
	if err != nil {
		return nil, err
	}
	ef, ok := f.(ExpandedFst[W])
	if !ok {
		return nil, fmt.Errorf("%w: backing %q did not produce an expanded automaton", ErrUnknownFstType, hdr.FstType)
	}
	return ef, nil
}
