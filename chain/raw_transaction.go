// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"time"

	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

// RawTransactionValue is any of the three raw transaction shapes: a
// [*RawTransaction], a [*MultiAgentRawTransaction] or a
// [*FeePayerRawTransaction]. Values are immutable once built.
//
// Marshal writes the top level canonical encoding of the value: the bare
// raw transaction for the single agent shape and the RawTransactionWithData
// enum for the other two.
type RawTransactionValue interface {
	codec.Marshaler

	// Core returns the single agent transaction every shape carries, or nil
	// if the value has none.
	Core() *RawTransaction
}

// SecondarySignerCarrier is implemented by shapes that carry an ordered list
// of secondary signers.
type SecondarySignerCarrier interface {
	SecondarySigners() []codec.Address
}

// FeePayerCarrier is implemented by shapes that carry a fee payer.
type FeePayerCarrier interface {
	FeePayer() codec.Address
}

var _ RawTransactionValue = (*RawTransaction)(nil)

// RawTransaction is an unsigned single agent transaction body.
type RawTransaction struct {
	// Sender is the account that authorizes and is charged for the
	// transaction unless a fee payer is attached.
	Sender codec.Address

	// SequenceNumber must match the sender's on-chain sequence number.
	SequenceNumber uint64

	Payload TransactionPayload

	// MaxGasAmount is the most gas units the transaction may consume.
	MaxGasAmount uint64

	// GasUnitPrice is the price paid per gas unit, in octas.
	GasUnitPrice uint64

	// ExpirationTimestampSecs is the unix time after which the transaction
	// can no longer be committed.
	ExpirationTimestampSecs uint64

	// ChainID protects against replay across networks.
	ChainID uint8
}

func (r *RawTransaction) Core() *RawTransaction { return r }

// Expiration returns [ExpirationTimestampSecs] as a time.
func (r *RawTransaction) Expiration() time.Time {
	return time.Unix(int64(r.ExpirationTimestampSecs), 0).UTC()
}

// Size returns the length of the canonical encoding, or -1 when the
// transaction can't be encoded.
func (r *RawTransaction) Size() int {
	b, err := codec.Marshal(r, consts.NetworkSizeLimit)
	if err != nil {
		return -1
	}
	return len(b)
}

func (r *RawTransaction) Marshal(p *codec.Packer) {
	p.PackAddress(r.Sender)
	p.PackUint64(r.SequenceNumber)
	MarshalPayload(p, r.Payload)
	p.PackUint64(r.MaxGasAmount)
	p.PackUint64(r.GasUnitPrice)
	p.PackUint64(r.ExpirationTimestampSecs)
	p.PackByte(r.ChainID)
}

func UnmarshalRawTransaction(p *codec.Packer) (*RawTransaction, error) {
	var r RawTransaction
	p.UnpackAddress(&r.Sender)
	r.SequenceNumber = p.UnpackUint64()
	if err := p.Err(); err != nil {
		return nil, err
	}
	payload, err := UnmarshalPayload(p)
	if err != nil {
		return nil, err
	}
	r.Payload = payload
	r.MaxGasAmount = p.UnpackUint64()
	r.GasUnitPrice = p.UnpackUint64()
	r.ExpirationTimestampSecs = p.UnpackUint64()
	r.ChainID = p.UnpackByte()
	return &r, p.Err()
}
