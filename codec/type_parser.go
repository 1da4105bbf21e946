// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"
	"sort"
)

// Typed is implemented by every variant of a canonical enum. The type id is
// the variant index written before the variant body.
type Typed interface {
	GetTypeID() uint32
}

// TypedMarshaler is an enum variant that can also write its body.
type TypedMarshaler interface {
	Typed
	Marshaler
}

// TypeParser maps enum variant indices to decoders. [X] is passed through
// to every decoder unchanged (for example the current nesting depth).
//
// A TypeParser must be fully registered before it is used concurrently.
type TypeParser[T TypedMarshaler, X any] struct {
	indexToName    map[uint32]string
	indexToDecoder map[uint32]func(*Packer, X) (T, error)
}

func NewTypeParser[T TypedMarshaler, X any]() *TypeParser[T, X] {
	return &TypeParser[T, X]{
		indexToName:    map[uint32]string{},
		indexToDecoder: map[uint32]func(*Packer, X) (T, error){},
	}
}

// Register registers [o] under its type id and sets the decoder of that
// index to [f]. Returns an error if the id has already been registered.
func (p *TypeParser[T, X]) Register(o T, f func(*Packer, X) (T, error)) error {
	id := o.GetTypeID()
	if _, ok := p.indexToDecoder[id]; ok {
		return fmt.Errorf("%w: type id %d (%T)", ErrDuplicateItem, id, o)
	}
	p.indexToName[id] = fmt.Sprintf("%T", o)
	p.indexToDecoder[id] = f
	return nil
}

func (p *TypeParser[T, X]) LookupIndex(index uint32) (func(*Packer, X) (T, error), bool) {
	f, ok := p.indexToDecoder[index]
	return f, ok
}

// Marshal writes the variant index of [o] followed by its body.
func (*TypeParser[T, X]) Marshal(pk *Packer, o T) {
	pk.PackUleb128(o.GetTypeID())
	o.Marshal(pk)
}

// Unmarshal reads a variant index and invokes the registered decoder.
func (p *TypeParser[T, X]) Unmarshal(pk *Packer, x X) (T, error) {
	index := pk.UnpackUleb128()
	if err := pk.Err(); err != nil {
		return *new(T), err
	}
	f, ok := p.LookupIndex(index)
	if !ok {
		err := fmt.Errorf("%w: %d", ErrUnknownVariant, index)
		pk.AddErr(err)
		return *new(T), err
	}
	v, err := f(pk, x)
	if err != nil {
		pk.AddErr(err)
		return *new(T), err
	}
	return v, pk.Err()
}

// RegisteredTypes returns the registered variant names ordered by index.
func (p *TypeParser[T, X]) RegisteredTypes() []string {
	indices := make([]uint32, 0, len(p.indexToName))
	for i := range p.indexToName {
		indices = append(indices, i)
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })
	names := make([]string, len(indices))
	for i, index := range indices {
		names[i] = p.indexToName[index]
	}
	return names
}
