// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	"github.com/vaultkit/wallet-api/codec"
)

// RawTransactionWithData variant indices.
const (
	MultiAgentID uint32 = 0
	FeePayerID   uint32 = 1
)

// RawTransactionWithData is a raw transaction bundled with the extra
// accounts that must sign it. Its canonical encoding starts with the variant
// index.
type RawTransactionWithData interface {
	RawTransactionValue
	codec.Typed
	SecondarySignerCarrier
}

var (
	_ RawTransactionWithData = (*MultiAgentRawTransaction)(nil)
	_ RawTransactionWithData = (*FeePayerRawTransaction)(nil)
	_ FeePayerCarrier        = (*FeePayerRawTransaction)(nil)
)

// MultiAgentRawTransaction requires signatures from the sender and from
// every secondary signer. The order of [SecondarySignerAddresses] binds each
// signature to its signer slot and is preserved by every encoding.
type MultiAgentRawTransaction struct {
	RawTxn                   *RawTransaction
	SecondarySignerAddresses []codec.Address
}

func NewMultiAgentRawTransaction(rawTxn *RawTransaction, secondarySigners []codec.Address) *MultiAgentRawTransaction {
	return &MultiAgentRawTransaction{
		RawTxn:                   rawTxn,
		SecondarySignerAddresses: secondarySigners,
	}
}

func (*MultiAgentRawTransaction) GetTypeID() uint32 { return MultiAgentID }

func (m *MultiAgentRawTransaction) Core() *RawTransaction {
	if m == nil {
		return nil
	}
	return m.RawTxn
}

func (m *MultiAgentRawTransaction) SecondarySigners() []codec.Address {
	return m.SecondarySignerAddresses
}

func (m *MultiAgentRawTransaction) Marshal(p *codec.Packer) {
	if m.RawTxn == nil {
		p.AddErr(ErrMissingRawTxn)
		return
	}
	p.PackUleb128(m.GetTypeID())
	m.RawTxn.Marshal(p)
	p.PackAddresses(m.SecondarySignerAddresses, MaxSecondarySigners)
}

// FeePayerRawTransaction is a multi-agent transaction whose gas is paid by
// [FeePayerAddress] instead of the sender. The secondary signer list may be
// empty but is always encoded.
type FeePayerRawTransaction struct {
	RawTxn                   *RawTransaction
	SecondarySignerAddresses []codec.Address
	FeePayerAddress          codec.Address
}

func NewFeePayerRawTransaction(
	rawTxn *RawTransaction,
	secondarySigners []codec.Address,
	feePayer codec.Address,
) *FeePayerRawTransaction {
	return &FeePayerRawTransaction{
		RawTxn:                   rawTxn,
		SecondarySignerAddresses: secondarySigners,
		FeePayerAddress:          feePayer,
	}
}

func (*FeePayerRawTransaction) GetTypeID() uint32 { return FeePayerID }

func (f *FeePayerRawTransaction) Core() *RawTransaction {
	if f == nil {
		return nil
	}
	return f.RawTxn
}

func (f *FeePayerRawTransaction) SecondarySigners() []codec.Address {
	return f.SecondarySignerAddresses
}

func (f *FeePayerRawTransaction) FeePayer() codec.Address {
	return f.FeePayerAddress
}

func (f *FeePayerRawTransaction) Marshal(p *codec.Packer) {
	if f.RawTxn == nil {
		p.AddErr(ErrMissingRawTxn)
		return
	}
	p.PackUleb128(f.GetTypeID())
	f.RawTxn.Marshal(p)
	p.PackAddresses(f.SecondarySignerAddresses, MaxSecondarySigners)
	p.PackAddress(f.FeePayerAddress)
}

var withDataParser = codec.NewTypeParser[RawTransactionWithData, struct{}]()

func init() {
	errs := []error{
		withDataParser.Register(&MultiAgentRawTransaction{}, unmarshalMultiAgentBody),
		withDataParser.Register(&FeePayerRawTransaction{}, unmarshalFeePayerBody),
	}
	for _, err := range errs {
		if err != nil {
			panic(err)
		}
	}
}

func unmarshalMultiAgentBody(p *codec.Packer, _ struct{}) (RawTransactionWithData, error) {
	rawTxn, err := UnmarshalRawTransaction(p)
	if err != nil {
		return nil, err
	}
	signers := p.UnpackAddresses(MaxSecondarySigners)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return NewMultiAgentRawTransaction(rawTxn, signers), nil
}

func unmarshalFeePayerBody(p *codec.Packer, _ struct{}) (RawTransactionWithData, error) {
	rawTxn, err := UnmarshalRawTransaction(p)
	if err != nil {
		return nil, err
	}
	signers := p.UnpackAddresses(MaxSecondarySigners)
	var feePayer codec.Address
	p.UnpackAddress(&feePayer)
	if err := p.Err(); err != nil {
		return nil, err
	}
	return NewFeePayerRawTransaction(rawTxn, signers, feePayer), nil
}

// UnmarshalRawTransactionWithData reads either variant of the
// RawTransactionWithData enum.
func UnmarshalRawTransactionWithData(p *codec.Packer) (RawTransactionWithData, error) {
	v, err := withDataParser.Unmarshal(p, struct{}{})
	if errors.Is(err, codec.ErrUnknownVariant) {
		return nil, fmt.Errorf("%w: %w", ErrUnknownVariant, err)
	}
	return v, err
}

// UnmarshalMultiAgentRawTransaction reads a RawTransactionWithData and
// requires the multi-agent variant.
func UnmarshalMultiAgentRawTransaction(p *codec.Packer) (*MultiAgentRawTransaction, error) {
	v, err := UnmarshalRawTransactionWithData(p)
	if err != nil {
		return nil, err
	}
	m, ok := v.(*MultiAgentRawTransaction)
	if !ok {
		err := fmt.Errorf("%w: expected multi-agent variant but found %d", ErrVariantMismatch, v.GetTypeID())
		p.AddErr(err)
		return nil, err
	}
	return m, nil
}

// UnmarshalFeePayerRawTransaction reads a RawTransactionWithData and
// requires the fee payer variant.
func UnmarshalFeePayerRawTransaction(p *codec.Packer) (*FeePayerRawTransaction, error) {
	v, err := UnmarshalRawTransactionWithData(p)
	if err != nil {
		return nil, err
	}
	f, ok := v.(*FeePayerRawTransaction)
	if !ok {
		err := fmt.Errorf("%w: expected fee payer variant but found %d", ErrVariantMismatch, v.GetTypeID())
		p.AddErr(err)
		return nil, err
	}
	return f, nil
}
