// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

// JSON payload type names.
const (
	EntryFunctionPayloadType = "entry_function_payload"
	ScriptPayloadType        = "script_payload"
	MultisigPayloadType      = "multisig_payload"
)

type rawTransactionJSON struct {
	Sender                  codec.Address   `json:"sender"`
	SequenceNumber          uint64          `json:"sequence_number,string"`
	Payload                 json.RawMessage `json:"payload"`
	MaxGasAmount            uint64          `json:"max_gas_amount,string"`
	GasUnitPrice            uint64          `json:"gas_unit_price,string"`
	ExpirationTimestampSecs uint64          `json:"expiration_timestamp_secs,string"`
	ChainID                 uint8           `json:"chain_id"`
}

func (r *RawTransaction) MarshalJSON() ([]byte, error) {
	payload, err := MarshalPayloadJSON(r.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&rawTransactionJSON{
		Sender:                  r.Sender,
		SequenceNumber:          r.SequenceNumber,
		Payload:                 payload,
		MaxGasAmount:            r.MaxGasAmount,
		GasUnitPrice:            r.GasUnitPrice,
		ExpirationTimestampSecs: r.ExpirationTimestampSecs,
		ChainID:                 r.ChainID,
	})
}

func (r *RawTransaction) UnmarshalJSON(b []byte) error {
	var raw rawTransactionJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	payload, err := UnmarshalPayloadJSON(raw.Payload)
	if err != nil {
		return err
	}
	*r = RawTransaction{
		Sender:                  raw.Sender,
		SequenceNumber:          raw.SequenceNumber,
		Payload:                 payload,
		MaxGasAmount:            raw.MaxGasAmount,
		GasUnitPrice:            raw.GasUnitPrice,
		ExpirationTimestampSecs: raw.ExpirationTimestampSecs,
		ChainID:                 raw.ChainID,
	}
	return nil
}

type multiAgentJSON struct {
	RawTxn                   *RawTransaction `json:"raw_txn"`
	SecondarySignerAddresses []codec.Address `json:"secondary_signer_addresses"`
}

func (m *MultiAgentRawTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(&multiAgentJSON{
		RawTxn:                   m.RawTxn,
		SecondarySignerAddresses: nonNilAddresses(m.SecondarySignerAddresses),
	})
}

func (m *MultiAgentRawTransaction) UnmarshalJSON(b []byte) error {
	var raw multiAgentJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.RawTxn == nil {
		return ErrMissingRawTxn
	}
	*m = MultiAgentRawTransaction{
		RawTxn:                   raw.RawTxn,
		SecondarySignerAddresses: nonNilAddresses(raw.SecondarySignerAddresses),
	}
	return nil
}

type feePayerJSON struct {
	RawTxn                   *RawTransaction `json:"raw_txn"`
	SecondarySignerAddresses []codec.Address `json:"secondary_signer_addresses"`
	FeePayerAddress          codec.Address   `json:"fee_payer_address"`
}

func (f *FeePayerRawTransaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(&feePayerJSON{
		RawTxn:                   f.RawTxn,
		SecondarySignerAddresses: nonNilAddresses(f.SecondarySignerAddresses),
		FeePayerAddress:          f.FeePayerAddress,
	})
}

func (f *FeePayerRawTransaction) UnmarshalJSON(b []byte) error {
	var raw feePayerJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.RawTxn == nil {
		return ErrMissingRawTxn
	}
	*f = FeePayerRawTransaction{
		RawTxn:                   raw.RawTxn,
		SecondarySignerAddresses: nonNilAddresses(raw.SecondarySignerAddresses),
		FeePayerAddress:          raw.FeePayerAddress,
	}
	return nil
}

func nonNilAddresses(addrs []codec.Address) []codec.Address {
	if addrs == nil {
		return []codec.Address{}
	}
	return addrs
}

type entryFunctionJSON struct {
	Type          string        `json:"type"`
	Function      string        `json:"function"`
	TypeArguments []string      `json:"type_arguments"`
	Arguments     []codec.Bytes `json:"arguments"`
}

type scriptJSON struct {
	Type          string               `json:"type"`
	Code          codec.Bytes          `json:"code"`
	TypeArguments []string             `json:"type_arguments"`
	Arguments     []scriptArgumentJSON `json:"arguments"`
}

type multisigJSON struct {
	Type               string             `json:"type"`
	MultisigAddress    codec.Address      `json:"multisig_address"`
	TransactionPayload *entryFunctionJSON `json:"transaction_payload,omitempty"`
}

type scriptArgumentJSON struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// MarshalPayloadJSON returns the JSON form of [payload]. Every form carries a
// "type" discriminator.
func MarshalPayloadJSON(payload TransactionPayload) ([]byte, error) {
	switch p := payload.(type) {
	case *EntryFunction:
		e, err := entryFunctionToJSON(p)
		if err != nil {
			return nil, err
		}
		return json.Marshal(e)
	case *Script:
		typeArgs, err := typeTagsToStrings(p.TypeArgs)
		if err != nil {
			return nil, err
		}
		args := make([]scriptArgumentJSON, len(p.Args))
		for i, arg := range p.Args {
			a, err := scriptArgumentToJSON(arg)
			if err != nil {
				return nil, err
			}
			args[i] = a
		}
		return json.Marshal(&scriptJSON{
			Type:          ScriptPayloadType,
			Code:          p.Code,
			TypeArguments: typeArgs,
			Arguments:     args,
		})
	case *Multisig:
		m := &multisigJSON{
			Type:            MultisigPayloadType,
			MultisigAddress: p.MultisigAddress,
		}
		if p.Payload != nil {
			e, err := entryFunctionToJSON(p.Payload)
			if err != nil {
				return nil, err
			}
			m.TransactionPayload = e
		}
		return json.Marshal(m)
	case nil:
		return nil, ErrMissingPayload
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownPayloadType, payload)
	}
}

// UnmarshalPayloadJSON parses the output of [MarshalPayloadJSON].
func UnmarshalPayloadJSON(b []byte) (TransactionPayload, error) {
	if len(b) == 0 || string(b) == "null" {
		return nil, ErrMissingPayload
	}
	var header struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(b, &header); err != nil {
		return nil, err
	}
	switch header.Type {
	case EntryFunctionPayloadType:
		var e entryFunctionJSON
		if err := json.Unmarshal(b, &e); err != nil {
			return nil, err
		}
		return entryFunctionFromJSON(&e)
	case ScriptPayloadType:
		var s scriptJSON
		if err := json.Unmarshal(b, &s); err != nil {
			return nil, err
		}
		typeArgs, err := typeTagsFromStrings(s.TypeArguments)
		if err != nil {
			return nil, err
		}
		args := make([]ScriptArgument, len(s.Arguments))
		for i := range s.Arguments {
			arg, err := scriptArgumentFromJSON(&s.Arguments[i])
			if err != nil {
				return nil, fmt.Errorf("argument %d: %w", i, err)
			}
			args[i] = arg
		}
		return &Script{Code: s.Code, TypeArgs: typeArgs, Args: args}, nil
	case MultisigPayloadType:
		var m multisigJSON
		if err := json.Unmarshal(b, &m); err != nil {
			return nil, err
		}
		multisig := &Multisig{MultisigAddress: m.MultisigAddress}
		if m.TransactionPayload != nil {
			e, err := entryFunctionFromJSON(m.TransactionPayload)
			if err != nil {
				return nil, err
			}
			multisig.Payload = e
		}
		return multisig, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPayloadType, header.Type)
	}
}

func entryFunctionToJSON(e *EntryFunction) (*entryFunctionJSON, error) {
	typeArgs, err := typeTagsToStrings(e.TypeArgs)
	if err != nil {
		return nil, err
	}
	args := make([]codec.Bytes, len(e.Args))
	for i, arg := range e.Args {
		args[i] = arg
	}
	return &entryFunctionJSON{
		Type:          EntryFunctionPayloadType,
		Function:      e.FunctionID(),
		TypeArguments: typeArgs,
		Arguments:     args,
	}, nil
}

func entryFunctionFromJSON(e *entryFunctionJSON) (*EntryFunction, error) {
	typeArgs, err := typeTagsFromStrings(e.TypeArguments)
	if err != nil {
		return nil, err
	}
	args := make([][]byte, len(e.Arguments))
	for i, arg := range e.Arguments {
		args[i] = arg
	}
	return NewEntryFunction(e.Function, typeArgs, args)
}

func typeTagsToStrings(tags []TypeTag) ([]string, error) {
	if err := checkTypeTags(tags); err != nil {
		return nil, err
	}
	s := make([]string, len(tags))
	for i, t := range tags {
		if err := checkTypeTag(t, 0); err != nil {
			return nil, fmt.Errorf("type argument %d: %w", i, err)
		}
		s[i] = t.String()
	}
	return s, nil
}

func typeTagsFromStrings(s []string) ([]TypeTag, error) {
	tags := make([]TypeTag, len(s))
	for i, str := range s {
		t, err := ParseTypeTag(str)
		if err != nil {
			return nil, err
		}
		tags[i] = t
	}
	return tags, nil
}

var argumentTypeNames = map[uint32]string{
	U8ArgID:         "u8",
	U16ArgID:        "u16",
	U32ArgID:        "u32",
	U64ArgID:        "u64",
	U128ArgID:       "u128",
	U256ArgID:       "u256",
	AddressArgID:    "address",
	U8VectorArgID:   "u8_vector",
	BoolArgID:       "bool",
	SerializedArgID: "serialized",
}

func scriptArgumentToJSON(arg ScriptArgument) (scriptArgumentJSON, error) {
	var value any
	switch a := arg.(type) {
	case *U8Arg:
		value = a.Value
	case *U16Arg:
		value = a.Value
	case *U32Arg:
		value = a.Value
	case *U64Arg:
		value = strconv.FormatUint(a.Value, 10)
	case *U128Arg:
		value = codec.Bytes(a.Value[:])
	case *U256Arg:
		value = codec.Bytes(a.Value[:])
	case *AddressArg:
		value = a.Value
	case *U8VectorArg:
		value = a.Value
	case *BoolArg:
		value = a.Value
	case *SerializedArg:
		value = a.Value
	default:
		return scriptArgumentJSON{}, fmt.Errorf("%w: %T", ErrUnknownArgumentType, arg)
	}
	b, err := json.Marshal(value)
	if err != nil {
		return scriptArgumentJSON{}, err
	}
	return scriptArgumentJSON{Type: argumentTypeNames[arg.GetTypeID()], Value: b}, nil
}

func scriptArgumentFromJSON(a *scriptArgumentJSON) (ScriptArgument, error) {
	switch a.Type {
	case "u8":
		var v U8Arg
		return &v, json.Unmarshal(a.Value, &v.Value)
	case "u16":
		var v U16Arg
		return &v, json.Unmarshal(a.Value, &v.Value)
	case "u32":
		var v U32Arg
		return &v, json.Unmarshal(a.Value, &v.Value)
	case "u64":
		var s string
		if err := json.Unmarshal(a.Value, &s); err != nil {
			return nil, err
		}
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, err
		}
		return &U64Arg{Value: n}, nil
	case "u128":
		var v U128Arg
		b, err := fixedBytesFromJSON(a.Value, consts.Uint128Len)
		copy(v.Value[:], b)
		return &v, err
	case "u256":
		var v U256Arg
		b, err := fixedBytesFromJSON(a.Value, consts.Uint256Len)
		copy(v.Value[:], b)
		return &v, err
	case "address":
		var v AddressArg
		return &v, json.Unmarshal(a.Value, &v.Value)
	case "u8_vector":
		var v U8VectorArg
		return &v, json.Unmarshal(a.Value, &v.Value)
	case "bool":
		var v BoolArg
		return &v, json.Unmarshal(a.Value, &v.Value)
	case "serialized":
		var v SerializedArg
		return &v, json.Unmarshal(a.Value, &v.Value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownArgumentType, a.Type)
	}
}

func fixedBytesFromJSON(raw json.RawMessage, size int) ([]byte, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return codec.LoadHex(s, size)
}
