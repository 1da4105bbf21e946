// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vaultkit/wallet-api/codec"
)

// Transaction payload variant indices. Index 1 (module bundle) is
// deprecated and is never decoded.
const (
	ScriptPayloadID        uint32 = 0
	ModuleBundlePayloadID  uint32 = 1
	EntryFunctionPayloadID uint32 = 2
	MultisigPayloadID      uint32 = 3
)

// TransactionPayload is the operation a raw transaction executes.
type TransactionPayload interface {
	codec.TypedMarshaler
}

var (
	_ TransactionPayload = (*EntryFunction)(nil)
	_ TransactionPayload = (*Script)(nil)
	_ TransactionPayload = (*Multisig)(nil)
)

// ModuleID names a published Move module.
type ModuleID struct {
	Address codec.Address `json:"address"`
	Name    string        `json:"name"`
}

func (m ModuleID) String() string {
	return m.Address.StringShort() + "::" + m.Name
}

func (m *ModuleID) Marshal(p *codec.Packer) {
	p.PackAddress(m.Address)
	packIdentifier(p, m.Name)
}

func UnmarshalModuleID(p *codec.Packer) (ModuleID, error) {
	var m ModuleID
	p.UnpackAddress(&m.Address)
	m.Name = unpackIdentifier(p)
	return m, p.Err()
}

// EntryFunction calls a public entry function. Each argument is already BCS
// encoded according to the function's parameter type.
type EntryFunction struct {
	Module   ModuleID
	Function string
	TypeArgs []TypeTag
	Args     [][]byte
}

// NewEntryFunction builds an entry function payload from a function id of
// the form 0x1::module::function.
func NewEntryFunction(functionID string, typeArgs []TypeTag, args [][]byte) (*EntryFunction, error) {
	module, function, err := ParseFunctionID(functionID)
	if err != nil {
		return nil, err
	}
	return &EntryFunction{
		Module:   module,
		Function: function,
		TypeArgs: typeArgs,
		Args:     args,
	}, nil
}

// ParseFunctionID splits "0x1::aptos_account::transfer" into its module and
// function name.
func ParseFunctionID(s string) (ModuleID, string, error) {
	parts := strings.Split(s, "::")
	if len(parts) != 3 {
		return ModuleID{}, "", fmt.Errorf("%w: %q", ErrInvalidFunctionID, s)
	}
	addr, err := codec.ParseAddress(parts[0])
	if err != nil {
		return ModuleID{}, "", fmt.Errorf("%w: %q: %w", ErrInvalidFunctionID, s, err)
	}
	if !validIdentifier(parts[1]) || !validIdentifier(parts[2]) {
		return ModuleID{}, "", fmt.Errorf("%w: %q", ErrInvalidIdentifier, s)
	}
	return ModuleID{Address: addr, Name: parts[1]}, parts[2], nil
}

func (*EntryFunction) GetTypeID() uint32 { return EntryFunctionPayloadID }

// FunctionID returns the function in 0x1::module::function form.
func (e *EntryFunction) FunctionID() string {
	return e.Module.String() + "::" + e.Function
}

func (e *EntryFunction) Marshal(p *codec.Packer) {
	e.Module.Marshal(p)
	packIdentifier(p, e.Function)
	packTypeTags(p, e.TypeArgs)
	p.PackLimitedLen(len(e.Args), MaxArgs)
	for _, arg := range e.Args {
		p.PackBytes(arg)
	}
}

func UnmarshalEntryFunction(p *codec.Packer) (*EntryFunction, error) {
	var e EntryFunction
	module, err := UnmarshalModuleID(p)
	if err != nil {
		return nil, err
	}
	e.Module = module
	e.Function = unpackIdentifier(p)
	typeArgs, err := unpackTypeTags(p, 0)
	if err != nil {
		return nil, err
	}
	e.TypeArgs = typeArgs
	n := p.UnpackLen(MaxArgs)
	if err := p.Err(); err != nil {
		return nil, err
	}
	e.Args = make([][]byte, n)
	for i := range e.Args {
		p.UnpackBytes(MaxArgSize, &e.Args[i])
	}
	return &e, p.Err()
}

// Script executes Move bytecode directly.
type Script struct {
	Code     codec.Bytes
	TypeArgs []TypeTag
	Args     []ScriptArgument
}

func (*Script) GetTypeID() uint32 { return ScriptPayloadID }

func (s *Script) Marshal(p *codec.Packer) {
	p.PackBytes(s.Code)
	packTypeTags(p, s.TypeArgs)
	packScriptArguments(p, s.Args)
}

func UnmarshalScript(p *codec.Packer) (*Script, error) {
	var s Script
	var code []byte
	p.UnpackBytes(MaxScriptSize, &code)
	s.Code = code
	typeArgs, err := unpackTypeTags(p, 0)
	if err != nil {
		return nil, err
	}
	s.TypeArgs = typeArgs
	args, err := unpackScriptArguments(p)
	if err != nil {
		return nil, err
	}
	s.Args = args
	return &s, p.Err()
}

// Multisig executes a transaction on behalf of an on-chain multisig account.
// A nil [Payload] executes the payload whose hash was stored on-chain.
type Multisig struct {
	MultisigAddress codec.Address
	Payload         *EntryFunction
}

// multisigEntryFunctionID is the only variant of the inner multisig payload.
const multisigEntryFunctionID uint32 = 0

func (*Multisig) GetTypeID() uint32 { return MultisigPayloadID }

func (m *Multisig) Marshal(p *codec.Packer) {
	p.PackAddress(m.MultisigAddress)
	p.PackOption(m.Payload != nil)
	if m.Payload != nil {
		p.PackUleb128(multisigEntryFunctionID)
		m.Payload.Marshal(p)
	}
}

func UnmarshalMultisig(p *codec.Packer) (*Multisig, error) {
	var m Multisig
	p.UnpackAddress(&m.MultisigAddress)
	if !p.UnpackOption() {
		return &m, p.Err()
	}
	if variant := p.UnpackUleb128(); variant != multisigEntryFunctionID {
		if err := p.Err(); err != nil {
			return nil, err
		}
		err := fmt.Errorf("%w: multisig payload variant %d", ErrUnknownPayloadType, variant)
		p.AddErr(err)
		return nil, err
	}
	payload, err := UnmarshalEntryFunction(p)
	if err != nil {
		return nil, err
	}
	m.Payload = payload
	return &m, p.Err()
}

var payloadParser = codec.NewTypeParser[TransactionPayload, struct{}]()

func init() {
	errs := []error{
		payloadParser.Register(&Script{}, func(p *codec.Packer, _ struct{}) (TransactionPayload, error) {
			return UnmarshalScript(p)
		}),
		payloadParser.Register(&EntryFunction{}, func(p *codec.Packer, _ struct{}) (TransactionPayload, error) {
			return UnmarshalEntryFunction(p)
		}),
		payloadParser.Register(&Multisig{}, func(p *codec.Packer, _ struct{}) (TransactionPayload, error) {
			return UnmarshalMultisig(p)
		}),
		payloadParser.Register(&moduleBundle{}, func(*codec.Packer, struct{}) (TransactionPayload, error) {
			return nil, ErrDeprecatedPayload
		}),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
}

// MarshalPayload writes [payload] with its variant index.
func MarshalPayload(p *codec.Packer, payload TransactionPayload) {
	if payload == nil {
		p.AddErr(ErrMissingPayload)
		return
	}
	payloadParser.Marshal(p, payload)
}

// UnmarshalPayload reads a payload written by [MarshalPayload].
func UnmarshalPayload(p *codec.Packer) (TransactionPayload, error) {
	payload, err := payloadParser.Unmarshal(p, struct{}{})
	if errors.Is(err, codec.ErrUnknownVariant) {
		return nil, fmt.Errorf("%w: %w", ErrUnknownPayloadType, err)
	}
	return payload, err
}

// moduleBundle occupies the deprecated payload index so that it is rejected
// with a descriptive error.
type moduleBundle struct{}

func (*moduleBundle) GetTypeID() uint32 { return ModuleBundlePayloadID }

func (*moduleBundle) Marshal(p *codec.Packer) { p.AddErr(ErrDeprecatedPayload) }
