// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

var (
	SenderAddress   = codec.MustParseAddress("0xA1")
	SignerAAddress  = codec.MustParseAddress("0xB1")
	SignerBAddress  = codec.MustParseAddress("0xB2")
	SignerCAddress  = codec.MustParseAddress("0xB3")
	FeePayerAddress = codec.MustParseAddress("0xFEE")
	MultisigAddress = codec.MustParseAddress("0x5AFE")
)

// NewTransferPayload returns a 0x1::aptos_account::transfer call.
func NewTransferPayload(to codec.Address, amount uint64) *chain.EntryFunction {
	toArg := codec.NewWriter(consts.AddressLen)
	toArg.PackAddress(to)
	amountArg := codec.NewWriter(consts.Uint64Len)
	amountArg.PackUint64(amount)

	return &chain.EntryFunction{
		Module:   chain.ModuleID{Address: codec.MustParseAddress("0x1"), Name: "aptos_account"},
		Function: "transfer",
		TypeArgs: []chain.TypeTag{},
		Args:     [][]byte{toArg.Bytes(), amountArg.Bytes()},
	}
}

// NewCoinTransferPayload returns a generic 0x1::coin::transfer call that
// exercises struct type arguments.
func NewCoinTransferPayload(to codec.Address, amount uint64) *chain.EntryFunction {
	e := NewTransferPayload(to, amount)
	e.Module.Name = "coin"
	e.TypeArgs = []chain.TypeTag{
		&chain.StructTag{
			Address:  codec.MustParseAddress("0x1"),
			Module:   "aptos_coin",
			Name:     "AptosCoin",
			TypeArgs: []chain.TypeTag{},
		},
	}
	return e
}

// NewNestedVectorTag returns u8 wrapped in [depth] vectors.
func NewNestedVectorTag(depth int) chain.TypeTag {
	var tag chain.TypeTag = &chain.U8Tag{}
	for i := 0; i < depth; i++ {
		tag = &chain.VectorTag{Elem: tag}
	}
	return tag
}

// NewScriptPayload returns a script that carries one argument of every
// kind.
func NewScriptPayload() *chain.Script {
	return &chain.Script{
		Code: codec.Bytes{0xa1, 0x1c, 0xeb, 0x0b, 0x06},
		TypeArgs: []chain.TypeTag{
			&chain.VectorTag{Elem: &chain.U8Tag{}},
			&chain.U64Tag{},
		},
		Args: []chain.ScriptArgument{
			&chain.U8Arg{Value: 1},
			&chain.U16Arg{Value: 2},
			&chain.U32Arg{Value: 3},
			&chain.U64Arg{Value: 4},
			&chain.U128Arg{Value: [consts.Uint128Len]byte{5}},
			&chain.U256Arg{Value: [consts.Uint256Len]byte{6}},
			&chain.AddressArg{Value: SenderAddress},
			&chain.U8VectorArg{Value: codec.Bytes{7, 8}},
			&chain.BoolArg{Value: true},
			&chain.SerializedArg{Value: codec.Bytes{9}},
		},
	}
}

// NewMultisigPayload returns a payload executed by [MultisigAddress]. When
// [withPayload] is false the on-chain stored payload is executed.
func NewMultisigPayload(withPayload bool) *chain.Multisig {
	m := &chain.Multisig{MultisigAddress: MultisigAddress}
	if withPayload {
		m.Payload = NewTransferPayload(SignerAAddress, 10)
	}
	return m
}

// NewRawTransaction returns a single agent transaction from [sender].
func NewRawTransaction(sender codec.Address, sequenceNumber uint64, payload chain.TransactionPayload) *chain.RawTransaction {
	return &chain.RawTransaction{
		Sender:                  sender,
		SequenceNumber:          sequenceNumber,
		Payload:                 payload,
		MaxGasAmount:            2_000,
		GasUnitPrice:            100,
		ExpirationTimestampSecs: 1_700_000_000,
		ChainID:                 1,
	}
}

// NewSimpleRawTransaction returns the canonical example transaction: sender
// 0xA1, sequence number 7, gas unit price 100, max gas 2000, expiration
// 1700000000 and chain id 1.
func NewSimpleRawTransaction() *chain.RawTransaction {
	return NewRawTransaction(SenderAddress, 7, NewTransferPayload(SignerAAddress, 1))
}

// NewMultiAgentRawTransaction returns a multi-agent transaction with the
// secondary signers A, B and C in that order.
func NewMultiAgentRawTransaction() *chain.MultiAgentRawTransaction {
	return chain.NewMultiAgentRawTransaction(
		NewSimpleRawTransaction(),
		[]codec.Address{SignerAAddress, SignerBAddress, SignerCAddress},
	)
}

// NewFeePayerRawTransaction returns a fee payer transaction with the given
// secondary signers.
func NewFeePayerRawTransaction(secondarySigners ...codec.Address) *chain.FeePayerRawTransaction {
	if secondarySigners == nil {
		secondarySigners = []codec.Address{}
	}
	return chain.NewFeePayerRawTransaction(NewSimpleRawTransaction(), secondarySigners, FeePayerAddress)
}

// Payloads returns one payload of every supported kind, keyed by name.
func Payloads() map[string]chain.TransactionPayload {
	return map[string]chain.TransactionPayload{
		"entry function":           NewTransferPayload(SignerAAddress, 1),
		"generic entry function":   NewCoinTransferPayload(SignerBAddress, 1_000_000),
		"script":                   NewScriptPayload(),
		"multisig with payload":    NewMultisigPayload(true),
		"multisig without payload": NewMultisigPayload(false),
	}
}
