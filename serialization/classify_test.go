// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serialization_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/chain/chaintest"
	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/serialization"
)

// sponsoredMultiAgent carries both secondary signers and a fee payer.
type sponsoredMultiAgent struct {
	*chain.MultiAgentRawTransaction
	feePayer codec.Address
}

func (s *sponsoredMultiAgent) FeePayer() codec.Address { return s.feePayer }

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		value        chain.RawTransactionValue
		expectedType serialization.Type
	}{
		{
			name:         "simple",
			value:        chaintest.NewSimpleRawTransaction(),
			expectedType: serialization.RawTxn,
		},
		{
			name:         "multi-agent",
			value:        chaintest.NewMultiAgentRawTransaction(),
			expectedType: serialization.MultiAgentRawTxn,
		},
		{
			name:         "multi-agent without signers",
			value:        chain.NewMultiAgentRawTransaction(chaintest.NewSimpleRawTransaction(), nil),
			expectedType: serialization.MultiAgentRawTxn,
		},
		{
			name:         "fee payer",
			value:        chaintest.NewFeePayerRawTransaction(),
			expectedType: serialization.FeePayerRawTxn,
		},
		{
			name: "fee payer and secondary signers",
			value: &sponsoredMultiAgent{
				MultiAgentRawTransaction: chaintest.NewMultiAgentRawTransaction(),
				feePayer:                 chaintest.FeePayerAddress,
			},
			expectedType: serialization.FeePayerRawTxn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := serialization.Classify(tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.expectedType, typ)
		})
	}
}

func TestSerializeUsesStructure(t *testing.T) {
	require := require.New(t)

	v := &sponsoredMultiAgent{
		MultiAgentRawTransaction: chaintest.NewMultiAgentRawTransaction(),
		feePayer:                 chaintest.FeePayerAddress,
	}
	env, err := serialization.Serialize(v)
	require.NoError(err)
	require.Equal(serialization.FeePayerRawTxn, env.Type)

	decoded, err := serialization.DeserializeFeePayer(env)
	require.NoError(err)
	require.Equal(chaintest.NewSimpleRawTransaction(), decoded.RawTxn)
	require.Equal(v.SecondarySignerAddresses, decoded.SecondarySignerAddresses)
	require.Equal(chaintest.FeePayerAddress, decoded.FeePayerAddress)
}

func TestClassifyFields(t *testing.T) {
	tests := []struct {
		name         string
		fields       []string
		expectedType serialization.Type
		expectedErr  error
	}{
		{
			name:         "fee payer wins",
			fields:       []string{"chain_id", "secondary_signer_addresses", "fee_payer_address"},
			expectedType: serialization.FeePayerRawTxn,
		},
		{
			name:         "fee payer without signers",
			fields:       []string{"fee_payer_address"},
			expectedType: serialization.FeePayerRawTxn,
		},
		{
			name:         "secondary signers",
			fields:       []string{"raw_txn", "secondary_signer_addresses"},
			expectedType: serialization.MultiAgentRawTxn,
		},
		{
			name:         "chain id",
			fields:       []string{"sender", "chain_id"},
			expectedType: serialization.RawTxn,
		},
		{
			name:        "nothing recognizable",
			fields:      []string{"sender"},
			expectedErr: serialization.ErrUnclassifiable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			typ, err := serialization.ClassifyFields(func(field string) bool {
				for _, f := range tt.fields {
					if f == field {
						return true
					}
				}
				return false
			})
			require.ErrorIs(err, tt.expectedErr)
			require.Equal(tt.expectedType, typ)
		})
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name         string
		value        chain.RawTransactionValue
		expectedType serialization.Type
	}{
		{
			name:         "simple",
			value:        chaintest.NewSimpleRawTransaction(),
			expectedType: serialization.RawTxn,
		},
		{
			name:         "multi-agent",
			value:        chaintest.NewMultiAgentRawTransaction(),
			expectedType: serialization.MultiAgentRawTxn,
		},
		{
			name:         "fee payer",
			value:        chaintest.NewFeePayerRawTransaction(chaintest.SignerAAddress),
			expectedType: serialization.FeePayerRawTxn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			b, err := json.Marshal(tt.value)
			require.NoError(err)

			typ, err := serialization.ClassifyJSON(b)
			require.NoError(err)
			require.Equal(tt.expectedType, typ)

			v, typ, err := serialization.ParseJSON(b)
			require.NoError(err)
			require.Equal(tt.expectedType, typ)

			expected, err := serialization.Serialize(tt.value)
			require.NoError(err)
			actual, err := serialization.Serialize(v)
			require.NoError(err)
			require.Equal(expected, actual)
		})
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectedErr error
	}{
		{
			name:        "not an object",
			input:       `[1, 2]`,
			expectedErr: serialization.ErrUnclassifiable,
		},
		{
			name:        "unrecognized object",
			input:       `{"sender":"0x1"}`,
			expectedErr: serialization.ErrUnclassifiable,
		},
		{
			name:        "malformed fee payer",
			input:       `{"fee_payer_address":"0x1","secondary_signer_addresses":[]}`,
			expectedErr: chain.ErrMissingRawTxn,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			_, _, err := serialization.ParseJSON([]byte(tt.input))
			require.ErrorIs(err, tt.expectedErr)
			require.ErrorIs(err, serialization.ErrUnexpectedValue)
		})
	}
}
