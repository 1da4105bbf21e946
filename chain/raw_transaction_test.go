// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/chain/chaintest"
	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

func TestRawTransactionLayout(t *testing.T) {
	require := require.New(t)

	tx := chaintest.NewSimpleRawTransaction()
	b, err := codec.Marshal(tx, consts.NetworkSizeLimit)
	require.NoError(err)
	require.Equal(tx.Size(), len(b))

	sender := chaintest.SenderAddress
	require.Equal(sender[:], b[:consts.AddressLen])
	require.Equal(uint64(7), binary.LittleEndian.Uint64(b[consts.AddressLen:]))
	require.Equal(byte(chain.EntryFunctionPayloadID), b[consts.AddressLen+consts.Uint64Len])

	// max gas, gas unit price, expiration and chain id close the encoding.
	tail := b[len(b)-3*consts.Uint64Len-1:]
	require.Equal(uint64(2_000), binary.LittleEndian.Uint64(tail[0:]))
	require.Equal(uint64(100), binary.LittleEndian.Uint64(tail[8:]))
	require.Equal(uint64(1_700_000_000), binary.LittleEndian.Uint64(tail[16:]))
	require.Equal(byte(1), tail[24])

	require.Equal(time.Unix(1_700_000_000, 0).UTC(), tx.Expiration())
}

func TestRawTransactionRoundTrip(t *testing.T) {
	for name, payload := range chaintest.Payloads() {
		t.Run(name, func(t *testing.T) {
			require := require.New(t)

			tx := chaintest.NewRawTransaction(chaintest.SenderAddress, 42, payload)
			b, err := codec.Marshal(tx, consts.NetworkSizeLimit)
			require.NoError(err)

			decoded, err := codec.Unmarshal(b, consts.NetworkSizeLimit, chain.UnmarshalRawTransaction)
			require.NoError(err)
			require.Equal(tx, decoded)

			again, err := codec.Marshal(decoded, consts.NetworkSizeLimit)
			require.NoError(err)
			require.Equal(b, again)
		})
	}
}

func TestRawTransactionMarshalErrors(t *testing.T) {
	tests := []struct {
		name        string
		tx          *chain.RawTransaction
		expectedErr error
	}{
		{
			name:        "missing payload",
			tx:          chaintest.NewRawTransaction(chaintest.SenderAddress, 0, nil),
			expectedErr: chain.ErrMissingPayload,
		},
		{
			name: "invalid function name",
			tx: chaintest.NewRawTransaction(chaintest.SenderAddress, 0, &chain.EntryFunction{
				Module:   chain.ModuleID{Address: codec.MustParseAddress("0x1"), Name: "coin"},
				Function: "not-valid",
			}),
			expectedErr: chain.ErrInvalidIdentifier,
		},
		{
			name: "nil script argument",
			tx: chaintest.NewRawTransaction(chaintest.SenderAddress, 0, &chain.Script{
				Args: []chain.ScriptArgument{nil},
			}),
			expectedErr: chain.ErrUnknownArgumentType,
		},
		{
			name: "too many script arguments",
			tx: chaintest.NewRawTransaction(chaintest.SenderAddress, 0, &chain.Script{
				Args: make([]chain.ScriptArgument, chain.MaxArgs+1),
			}),
			expectedErr: codec.ErrTooManyItems,
		},
		{
			name: "too many entry function arguments",
			tx: chaintest.NewRawTransaction(chaintest.SenderAddress, 0, &chain.EntryFunction{
				Module:   chain.ModuleID{Address: codec.MustParseAddress("0x1"), Name: "coin"},
				Function: "transfer",
				Args:     make([][]byte, chain.MaxArgs+1),
			}),
			expectedErr: codec.ErrTooManyItems,
		},
		{
			name: "script type argument too deep",
			tx: chaintest.NewRawTransaction(chaintest.SenderAddress, 0, &chain.Script{
				TypeArgs: []chain.TypeTag{chaintest.NewNestedVectorTag(chain.MaxTypeTagDepth + 1)},
			}),
			expectedErr: chain.ErrTypeTagTooDeep,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Marshal(tt.tx, consts.NetworkSizeLimit)
			require.ErrorIs(t, err, tt.expectedErr)
			require.Equal(t, -1, tt.tx.Size())
		})
	}
}

// payloadOffset is where the payload variant index of a raw transaction
// starts.
const payloadOffset = consts.AddressLen + consts.Uint64Len

func TestUnmarshalRawTransactionErrors(t *testing.T) {
	valid, err := codec.Marshal(chaintest.NewSimpleRawTransaction(), consts.NetworkSizeLimit)
	require.NoError(t, err)

	withPayloadVariant := func(variant byte) []byte {
		b := append([]byte{}, valid...)
		b[payloadOffset] = variant
		return b
	}
	script, err := codec.Marshal(
		chaintest.NewRawTransaction(chaintest.SenderAddress, 0, chaintest.NewScriptPayload()),
		consts.NetworkSizeLimit,
	)
	require.NoError(t, err)
	codeLen := int(script[payloadOffset+1])
	// variant, code length, code, type arg count, vector<u8>, u64, arg count
	firstTypeArg := payloadOffset + 1 + 1 + codeLen + 1
	firstArg := firstTypeArg + 2 + 1 + 1
	badArgument := append([]byte{}, script...)
	badArgument[firstArg] = 0x7f
	badTypeArg := append([]byte{}, script...)
	badTypeArg[firstTypeArg+1] = 0x7f

	multisig, err := codec.Marshal(
		chaintest.NewRawTransaction(chaintest.SenderAddress, 0, chaintest.NewMultisigPayload(true)),
		consts.NetworkSizeLimit,
	)
	require.NoError(t, err)
	badMultisigVariant := append([]byte{}, multisig...)
	badMultisigVariant[payloadOffset+1+consts.AddressLen+1] = 1
	badOption := append([]byte{}, multisig...)
	badOption[payloadOffset+1+consts.AddressLen] = 2

	tests := []struct {
		name        string
		input       []byte
		expectedErr error
	}{
		{
			name:        "empty",
			input:       []byte{},
			expectedErr: codec.ErrInsufficientLength,
		},
		{
			name:        "truncated",
			input:       valid[:len(valid)-1],
			expectedErr: codec.ErrInsufficientLength,
		},
		{
			name:        "trailing byte",
			input:       append(append([]byte{}, valid...), 0),
			expectedErr: codec.ErrInvalidObject,
		},
		{
			name:        "deprecated module bundle",
			input:       withPayloadVariant(byte(chain.ModuleBundlePayloadID)),
			expectedErr: chain.ErrDeprecatedPayload,
		},
		{
			name:        "unknown payload",
			input:       withPayloadVariant(9),
			expectedErr: chain.ErrUnknownPayloadType,
		},
		{
			name:        "unknown script argument",
			input:       badArgument,
			expectedErr: chain.ErrUnknownArgumentType,
		},
		{
			name:        "unknown nested type tag",
			input:       badTypeArg,
			expectedErr: chain.ErrInvalidTypeTag,
		},
		{
			name:        "unknown multisig payload variant",
			input:       badMultisigVariant,
			expectedErr: chain.ErrUnknownPayloadType,
		},
		{
			name:        "invalid option tag",
			input:       badOption,
			expectedErr: codec.ErrInvalidOption,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Unmarshal(tt.input, consts.NetworkSizeLimit, chain.UnmarshalRawTransaction)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestEntryFunctionID(t *testing.T) {
	require := require.New(t)

	e, err := chain.NewEntryFunction("0x1::aptos_account::transfer", nil, nil)
	require.NoError(err)
	require.Equal("0x1::aptos_account::transfer", e.FunctionID())
	require.Equal(codec.MustParseAddress("0x1"), e.Module.Address)

	_, err = chain.NewEntryFunction("0x1::aptos_account", nil, nil)
	require.ErrorIs(err, chain.ErrInvalidFunctionID)

	_, err = chain.NewEntryFunction("zz::aptos_account::transfer", nil, nil)
	require.ErrorIs(err, chain.ErrInvalidFunctionID)

	_, err = chain.NewEntryFunction("0x1::aptos account::transfer", nil, nil)
	require.ErrorIs(err, chain.ErrInvalidIdentifier)
}
