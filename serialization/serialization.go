// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package serialization wraps raw transactions in tagged envelopes that can
// travel through JSON storage and transport without losing their shape.
package serialization

import (
	"fmt"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

// Codec maps raw transactions to envelopes whose canonical encoding is at
// most [Codec.Limit] bytes. The zero Codec uses the network size limit.
type Codec struct {
	Limit int
}

// NewCodec returns a Codec bounded by [limit] bytes.
func NewCodec(limit int) Codec {
	return Codec{Limit: limit}
}

func (c Codec) limit() int {
	if c.Limit <= 0 {
		return consts.NetworkSizeLimit
	}
	return c.Limit
}

// Serialize classifies [v] with [Classify] and returns its envelope. It
// uses the network size limit.
func Serialize(v chain.RawTransactionValue) (Envelope, error) {
	return Codec{}.Serialize(v)
}

// Serialize classifies [v] with [Classify] and returns its envelope.
func (c Codec) Serialize(v chain.RawTransactionValue) (Envelope, error) {
	t, err := Classify(v)
	if err != nil {
		return Envelope{}, err
	}
	var shape codec.Marshaler
	switch t {
	case FeePayerRawTxn:
		var signers []codec.Address
		if s, ok := v.(chain.SecondarySignerCarrier); ok {
			signers = s.SecondarySigners()
		}
		shape = chain.NewFeePayerRawTransaction(v.Core(), signers, v.(chain.FeePayerCarrier).FeePayer())
	case MultiAgentRawTxn:
		shape = chain.NewMultiAgentRawTransaction(v.Core(), v.(chain.SecondarySignerCarrier).SecondarySigners())
	default:
		shape = v.Core()
	}
	value, err := codec.EncodeToText(shape, c.limit())
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s: %w", t, err)
	}
	return Envelope{Type: t, Value: value}, nil
}

// SerializeSimple returns the envelope of a single agent transaction.
func SerializeSimple(v *chain.RawTransaction) (Envelope, error) {
	return Serialize(v)
}

// SerializeMultiAgent returns the envelope of a multi-agent transaction.
func SerializeMultiAgent(v *chain.MultiAgentRawTransaction) (Envelope, error) {
	return Serialize(v)
}

// SerializeFeePayer returns the envelope of a fee payer transaction.
func SerializeFeePayer(v *chain.FeePayerRawTransaction) (Envelope, error) {
	return Serialize(v)
}

// Deserialize decodes [env] into the shape named by its tag. Unknown tags
// fail with [ErrInvalidType]; values that do not decode to exactly that
// shape fail with [ErrMalformedPayload]. It uses the network size limit.
func Deserialize(env Envelope) (chain.RawTransactionValue, error) {
	return Codec{}.Deserialize(env)
}

// Deserialize decodes [env] into the shape named by its tag.
func (c Codec) Deserialize(env Envelope) (chain.RawTransactionValue, error) {
	switch env.Type {
	case RawTxn:
		v, err := decode(env, c.limit(), chain.UnmarshalRawTransaction)
		if err != nil {
			return nil, err
		}
		return v, nil
	case FeePayerRawTxn:
		v, err := decode(env, c.limit(), chain.UnmarshalFeePayerRawTransaction)
		if err != nil {
			return nil, err
		}
		return v, nil
	case MultiAgentRawTxn:
		v, err := decode(env, c.limit(), chain.UnmarshalMultiAgentRawTransaction)
		if err != nil {
			return nil, err
		}
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidType, env.Type)
	}
}

// DeserializeSimple decodes an envelope that must be tagged raw_txn.
func DeserializeSimple(env Envelope) (*chain.RawTransaction, error) {
	if err := expectType(env, RawTxn); err != nil {
		return nil, err
	}
	return decode(env, consts.NetworkSizeLimit, chain.UnmarshalRawTransaction)
}

// DeserializeMultiAgent decodes an envelope that must be tagged
// multi_agent_raw_txn.
func DeserializeMultiAgent(env Envelope) (*chain.MultiAgentRawTransaction, error) {
	if err := expectType(env, MultiAgentRawTxn); err != nil {
		return nil, err
	}
	return decode(env, consts.NetworkSizeLimit, chain.UnmarshalMultiAgentRawTransaction)
}

// DeserializeFeePayer decodes an envelope that must be tagged
// fee_payer_raw_txn.
func DeserializeFeePayer(env Envelope) (*chain.FeePayerRawTransaction, error) {
	if err := expectType(env, FeePayerRawTxn); err != nil {
		return nil, err
	}
	return decode(env, consts.NetworkSizeLimit, chain.UnmarshalFeePayerRawTransaction)
}

func expectType(env Envelope, expected Type) error {
	if !env.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, env.Type)
	}
	if env.Type != expected {
		return fmt.Errorf("%w: expected %s but found %s", ErrTypeMismatch, expected, env.Type)
	}
	return nil
}

func decode[T chain.RawTransactionValue](env Envelope, limit int, f func(*codec.Packer) (T, error)) (T, error) {
	v, err := codec.DecodeFromText(env.Value, limit, f)
	if err != nil {
		return *new(T), fmt.Errorf("%w: %s: %w", ErrMalformedPayload, env.Type, err)
	}
	return v, nil
}
