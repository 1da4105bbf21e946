// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

// Script argument variant indices.
const (
	U8ArgID uint32 = iota
	U64ArgID
	U128ArgID
	AddressArgID
	U8VectorArgID
	BoolArgID
	U16ArgID
	U32ArgID
	U256ArgID
	SerializedArgID
)

// ScriptArgument is a typed argument passed to a script payload.
type ScriptArgument interface {
	codec.TypedMarshaler
}

var (
	_ ScriptArgument = (*U8Arg)(nil)
	_ ScriptArgument = (*U16Arg)(nil)
	_ ScriptArgument = (*U32Arg)(nil)
	_ ScriptArgument = (*U64Arg)(nil)
	_ ScriptArgument = (*U128Arg)(nil)
	_ ScriptArgument = (*U256Arg)(nil)
	_ ScriptArgument = (*AddressArg)(nil)
	_ ScriptArgument = (*U8VectorArg)(nil)
	_ ScriptArgument = (*BoolArg)(nil)
	_ ScriptArgument = (*SerializedArg)(nil)
)

type U8Arg struct {
	Value uint8 `json:"value"`
}

type U16Arg struct {
	Value uint16 `json:"value"`
}

type U32Arg struct {
	Value uint32 `json:"value"`
}

type U64Arg struct {
	Value uint64 `json:"value,string"`
}

// U128Arg holds a little endian 128 bit integer.
type U128Arg struct {
	Value [consts.Uint128Len]byte `json:"value"`
}

// U256Arg holds a little endian 256 bit integer.
type U256Arg struct {
	Value [consts.Uint256Len]byte `json:"value"`
}

type AddressArg struct {
	Value codec.Address `json:"value"`
}

type U8VectorArg struct {
	Value codec.Bytes `json:"value"`
}

type BoolArg struct {
	Value bool `json:"value"`
}

// SerializedArg carries an argument that is already BCS encoded.
type SerializedArg struct {
	Value codec.Bytes `json:"value"`
}

func (*U8Arg) GetTypeID() uint32         { return U8ArgID }
func (*U16Arg) GetTypeID() uint32        { return U16ArgID }
func (*U32Arg) GetTypeID() uint32        { return U32ArgID }
func (*U64Arg) GetTypeID() uint32        { return U64ArgID }
func (*U128Arg) GetTypeID() uint32       { return U128ArgID }
func (*U256Arg) GetTypeID() uint32       { return U256ArgID }
func (*AddressArg) GetTypeID() uint32    { return AddressArgID }
func (*U8VectorArg) GetTypeID() uint32   { return U8VectorArgID }
func (*BoolArg) GetTypeID() uint32       { return BoolArgID }
func (*SerializedArg) GetTypeID() uint32 { return SerializedArgID }

func (a *U8Arg) Marshal(p *codec.Packer)         { p.PackByte(a.Value) }
func (a *U16Arg) Marshal(p *codec.Packer)        { p.PackUint16(a.Value) }
func (a *U32Arg) Marshal(p *codec.Packer)        { p.PackUint32(a.Value) }
func (a *U64Arg) Marshal(p *codec.Packer)        { p.PackUint64(a.Value) }
func (a *U128Arg) Marshal(p *codec.Packer)       { p.PackFixedBytes(a.Value[:]) }
func (a *U256Arg) Marshal(p *codec.Packer)       { p.PackFixedBytes(a.Value[:]) }
func (a *AddressArg) Marshal(p *codec.Packer)    { p.PackAddress(a.Value) }
func (a *U8VectorArg) Marshal(p *codec.Packer)   { p.PackBytes(a.Value) }
func (a *BoolArg) Marshal(p *codec.Packer)       { p.PackBool(a.Value) }
func (a *SerializedArg) Marshal(p *codec.Packer) { p.PackBytes(a.Value) }

var argumentParser = codec.NewTypeParser[ScriptArgument, struct{}]()

func init() {
	errs := []error{
		argumentParser.Register(&U8Arg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			return &U8Arg{Value: p.UnpackByte()}, p.Err()
		}),
		argumentParser.Register(&U16Arg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			return &U16Arg{Value: p.UnpackUint16()}, p.Err()
		}),
		argumentParser.Register(&U32Arg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			return &U32Arg{Value: p.UnpackUint32()}, p.Err()
		}),
		argumentParser.Register(&U64Arg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			return &U64Arg{Value: p.UnpackUint64()}, p.Err()
		}),
		argumentParser.Register(&U128Arg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			var a U128Arg
			var b []byte
			p.UnpackFixedBytes(consts.Uint128Len, &b)
			copy(a.Value[:], b)
			return &a, p.Err()
		}),
		argumentParser.Register(&U256Arg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			var a U256Arg
			var b []byte
			p.UnpackFixedBytes(consts.Uint256Len, &b)
			copy(a.Value[:], b)
			return &a, p.Err()
		}),
		argumentParser.Register(&AddressArg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			var a AddressArg
			p.UnpackAddress(&a.Value)
			return &a, p.Err()
		}),
		argumentParser.Register(&U8VectorArg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			var b []byte
			p.UnpackBytes(MaxArgSize, &b)
			return &U8VectorArg{Value: b}, p.Err()
		}),
		argumentParser.Register(&BoolArg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			return &BoolArg{Value: p.UnpackBool()}, p.Err()
		}),
		argumentParser.Register(&SerializedArg{}, func(p *codec.Packer, _ struct{}) (ScriptArgument, error) {
			var b []byte
			p.UnpackBytes(MaxArgSize, &b)
			return &SerializedArg{Value: b}, p.Err()
		}),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
}

func packScriptArguments(p *codec.Packer, args []ScriptArgument) {
	p.PackLimitedLen(len(args), MaxArgs)
	for _, arg := range args {
		if arg == nil {
			p.AddErr(fmt.Errorf("%w: nil", ErrUnknownArgumentType))
			return
		}
		argumentParser.Marshal(p, arg)
	}
}

func unpackScriptArguments(p *codec.Packer) ([]ScriptArgument, error) {
	n := p.UnpackLen(MaxArgs)
	if err := p.Err(); err != nil {
		return nil, err
	}
	args := make([]ScriptArgument, n)
	for i := range args {
		arg, err := argumentParser.Unmarshal(p, struct{}{})
		if errors.Is(err, codec.ErrUnknownVariant) {
			return nil, fmt.Errorf("%w: argument %d: %v", ErrUnknownArgumentType, i, err) //nolint:errorlint
		}
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i, err)
		}
		args[i] = arg
	}
	return args, nil
}
