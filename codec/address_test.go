// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    Address
		expectedErr error
	}{
		{
			name:     "short form",
			input:    "0xA1",
			expected: Address{31: 0xa1},
		},
		{
			name:     "odd digit count",
			input:    "0x1",
			expected: Address{31: 0x01},
		},
		{
			name:     "no prefix",
			input:    "0102",
			expected: Address{30: 0x01, 31: 0x02},
		},
		{
			name:     "long form",
			input:    "0x" + strings.Repeat("ff", AddressLen),
			expected: Address(bytes.Repeat([]byte{0xff}, AddressLen)),
		},
		{
			name:        "empty",
			input:       "0x",
			expectedErr: ErrInvalidSize,
		},
		{
			name:        "too long",
			input:       "0x" + strings.Repeat("ab", AddressLen+1),
			expectedErr: ErrInvalidSize,
		},
		{
			name:        "not hex",
			input:       "0xzz",
			expectedErr: ErrInvalidHex,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			addr, err := ParseAddress(tt.input)
			require.ErrorIs(err, tt.expectedErr)
			if tt.expectedErr == nil {
				require.Equal(tt.expected, addr)
			}
		})
	}
}

func TestAddressString(t *testing.T) {
	require := require.New(t)

	addr := MustParseAddress("0xA1")
	require.Equal("0x"+strings.Repeat("0", 62)+"a1", addr.String())
	require.Equal("0xa1", addr.StringShort())
	require.Equal("0x0", EmptyAddress.StringShort())

	parsed, err := ParseAddress(addr.String())
	require.NoError(err)
	require.Equal(addr, parsed)
}

func TestAddressJSON(t *testing.T) {
	require := require.New(t)

	addr := MustParseAddress("0xbeef")
	b, err := json.Marshal(addr)
	require.NoError(err)
	require.Equal(`"`+addr.String()+`"`, string(b))

	var parsed Address
	require.NoError(json.Unmarshal(b, &parsed))
	require.Equal(addr, parsed)

	require.ErrorIs(json.Unmarshal([]byte(`"0xnothex"`), &parsed), ErrInvalidHex)
}

func TestToAddress(t *testing.T) {
	require := require.New(t)

	_, err := ToAddress(make([]byte, AddressLen-1))
	require.ErrorIs(err, ErrInvalidSize)

	b := make([]byte, AddressLen)
	b[0] = 9
	addr, err := ToAddress(b)
	require.NoError(err)
	require.Equal(byte(9), addr[0])
}
