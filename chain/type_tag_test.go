// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/chain/chaintest"
	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

func TestParseTypeTag(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{input: "bool", expected: "bool"},
		{input: "u8", expected: "u8"},
		{input: "u256", expected: "u256"},
		{input: "signer", expected: "signer"},
		{input: "vector<vector<address>>", expected: "vector<vector<address>>"},
		{
			input:    "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>",
			expected: "0x1::coin::CoinStore<0x1::aptos_coin::AptosCoin>",
		},
		{
			input:    "0x0001::pair::Pair< u64 ,vector<u8>>",
			expected: "0x1::pair::Pair<u64, vector<u8>>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			require := require.New(t)

			tag, err := chain.ParseTypeTag(tt.input)
			require.NoError(err)
			require.Equal(tt.expected, tag.String())

			reparsed, err := chain.ParseTypeTag(tag.String())
			require.NoError(err)
			require.Equal(tag, reparsed)
		})
	}
}

func TestParseTypeTagErrors(t *testing.T) {
	tests := []struct {
		input       string
		expectedErr error
	}{
		{input: "", expectedErr: chain.ErrInvalidTypeTag},
		{input: "u7", expectedErr: chain.ErrInvalidTypeTag},
		{input: "vector<u8", expectedErr: chain.ErrInvalidTypeTag},
		{input: "vector u8", expectedErr: chain.ErrInvalidTypeTag},
		{input: "0x1::coin", expectedErr: chain.ErrInvalidTypeTag},
		{input: "0x1::coin::Coin<u8", expectedErr: chain.ErrInvalidTypeTag},
		{input: "u8 u8", expectedErr: chain.ErrInvalidTypeTag},
		{input: "0x1::9coin::Coin", expectedErr: chain.ErrInvalidIdentifier},
		{input: strings.Repeat("vector<", 10) + "u8" + strings.Repeat(">", 10), expectedErr: chain.ErrTypeTagTooDeep},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := chain.ParseTypeTag(tt.input)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestTypeTagCanonicalEncoding(t *testing.T) {
	require := require.New(t)

	tag, err := chain.ParseTypeTag("vector<0x1::string::String>")
	require.NoError(err)

	p := codec.NewWriter(consts.NetworkSizeLimit)
	chain.MarshalTypeTag(p, tag)
	require.NoError(p.Err())

	one := codec.MustParseAddress("0x1")
	expected := []byte{byte(chain.VectorTagID), byte(chain.StructTagID)}
	expected = append(expected, one[:]...)
	expected = append(expected, 6, 's', 't', 'r', 'i', 'n', 'g')
	expected = append(expected, 6, 'S', 't', 'r', 'i', 'n', 'g')
	expected = append(expected, 0)
	require.Equal(expected, p.Bytes())

	decoded, err := codec.Unmarshal(p.Bytes(), consts.NetworkSizeLimit, chain.UnmarshalTypeTag)
	require.NoError(err)
	require.Equal("vector<0x1::string::String>", decoded.String())
}

func TestUnmarshalTypeTagErrors(t *testing.T) {
	deep := make([]byte, chain.MaxTypeTagDepth+2)
	for i := range deep {
		deep[i] = byte(chain.VectorTagID)
	}
	deep = append(deep, byte(chain.U8TagID))

	tests := []struct {
		name        string
		input       []byte
		expectedErr error
	}{
		{
			name:        "unknown variant",
			input:       []byte{42},
			expectedErr: codec.ErrUnknownVariant,
		},
		{
			name:        "too deep",
			input:       deep,
			expectedErr: chain.ErrTypeTagTooDeep,
		},
		{
			name:        "vector without element",
			input:       []byte{byte(chain.VectorTagID)},
			expectedErr: codec.ErrInsufficientLength,
		},
		{
			name: "invalid identifier",
			input: append(
				append([]byte{byte(chain.StructTagID)}, make([]byte, consts.AddressLen)...),
				1, '-', 1, 'a', 0,
			),
			expectedErr: chain.ErrInvalidIdentifier,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := codec.Unmarshal(tt.input, consts.NetworkSizeLimit, chain.UnmarshalTypeTag)
			require.ErrorIs(t, err, tt.expectedErr)
		})
	}
}

func TestMarshalTypeTagBounds(t *testing.T) {
	tooManyArgs := make([]chain.TypeTag, chain.MaxTypeArgs+1)
	for i := range tooManyArgs {
		tooManyArgs[i] = &chain.U8Tag{}
	}

	tests := []struct {
		name        string
		tag         chain.TypeTag
		expectedErr error
	}{
		{
			name: "deepest accepted",
			tag:  chaintest.NewNestedVectorTag(chain.MaxTypeTagDepth),
		},
		{
			name:        "too deep",
			tag:         chaintest.NewNestedVectorTag(chain.MaxTypeTagDepth + 1),
			expectedErr: chain.ErrTypeTagTooDeep,
		},
		{
			name: "too deep inside struct",
			tag: &chain.StructTag{
				Address:  codec.MustParseAddress("0x1"),
				Module:   "table",
				Name:     "Table",
				TypeArgs: []chain.TypeTag{chaintest.NewNestedVectorTag(chain.MaxTypeTagDepth)},
			},
			expectedErr: chain.ErrTypeTagTooDeep,
		},
		{
			name: "too many struct type arguments",
			tag: &chain.StructTag{
				Address:  codec.MustParseAddress("0x1"),
				Module:   "tuple",
				Name:     "Tuple",
				TypeArgs: tooManyArgs,
			},
			expectedErr: codec.ErrTooManyItems,
		},
		{
			name:        "vector without element",
			tag:         &chain.VectorTag{},
			expectedErr: chain.ErrInvalidTypeTag,
		},
		{
			name:        "nil",
			tag:         nil,
			expectedErr: chain.ErrInvalidTypeTag,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			p := codec.NewWriter(consts.NetworkSizeLimit)
			chain.MarshalTypeTag(p, tt.tag)
			require.ErrorIs(p.Err(), tt.expectedErr)
			if tt.expectedErr != nil {
				return
			}

			decoded, err := codec.Unmarshal(p.Bytes(), consts.NetworkSizeLimit, chain.UnmarshalTypeTag)
			require.NoError(err)
			require.Equal(tt.tag, decoded)
		})
	}
}

func TestIncompleteTypeTagString(t *testing.T) {
	require := require.New(t)

	require.Equal("vector<?>", (&chain.VectorTag{}).String())
	s := &chain.StructTag{
		Address:  codec.MustParseAddress("0x1"),
		Module:   "coin",
		Name:     "Coin",
		TypeArgs: []chain.TypeTag{nil},
	}
	require.Equal("0x1::coin::Coin<?>", s.String())

	payload := chaintest.NewTransferPayload(chaintest.SignerAAddress, 1)
	payload.TypeArgs = []chain.TypeTag{&chain.VectorTag{}}
	_, err := chain.MarshalPayloadJSON(payload)
	require.ErrorIs(err, chain.ErrInvalidTypeTag)

	_, err = chain.MarshalPayloadJSON(&chain.Multisig{Payload: payload})
	require.ErrorIs(err, chain.ErrInvalidTypeTag)
}
