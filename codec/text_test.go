// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultkit/wallet-api/consts"
)

type pair struct {
	A uint64
	B Address
}

func (p *pair) Marshal(pk *Packer) {
	pk.PackUint64(p.A)
	pk.PackAddress(p.B)
}

func unmarshalPair(pk *Packer) (*pair, error) {
	var p pair
	p.A = pk.UnpackUint64()
	pk.UnpackAddress(&p.B)
	return &p, pk.Err()
}

func TestTextRoundTrip(t *testing.T) {
	require := require.New(t)

	v := &pair{A: 42, B: MustParseAddress("0x1")}
	text, err := EncodeToText(v, consts.NetworkSizeLimit)
	require.NoError(err)
	require.Equal("0x2a00000000000000", text[:18])
	require.Len(text, 2+2*(consts.Uint64Len+AddressLen))

	decoded, err := DecodeFromText(text, consts.NetworkSizeLimit, unmarshalPair)
	require.NoError(err)
	require.Equal(v, decoded)

	// prefix is optional
	decoded, err = DecodeFromText(text[2:], consts.NetworkSizeLimit, unmarshalPair)
	require.NoError(err)
	require.Equal(v, decoded)
}

func TestDecodeFromTextRejects(t *testing.T) {
	v := &pair{A: 1, B: MustParseAddress("0x2")}
	text, err := EncodeToText(v, consts.NetworkSizeLimit)
	require.NoError(t, err)

	tests := []struct {
		name        string
		text        string
		expectedErr error
	}{
		{
			name:        "trailing byte",
			text:        text + "00",
			expectedErr: ErrInvalidObject,
		},
		{
			name:        "missing byte",
			text:        text[:len(text)-2],
			expectedErr: ErrInsufficientLength,
		},
		{
			name:        "odd length",
			text:        text + "0",
			expectedErr: ErrInvalidHex,
		},
		{
			name:        "not hex",
			text:        "0xgg",
			expectedErr: ErrInvalidHex,
		},
		{
			name:        "empty",
			text:        "",
			expectedErr: ErrInsufficientLength,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, err := DecodeFromText(tt.text, consts.NetworkSizeLimit, unmarshalPair)
			require.ErrorIs(err, tt.expectedErr)
		})
	}
}
