// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serialization

import (
	"encoding/json"
	"fmt"

	"github.com/vaultkit/wallet-api/chain"
)

// Wire field names inspected by the structural classifiers.
const (
	FeePayerAddressField          = "fee_payer_address"
	SecondarySignerAddressesField = "secondary_signer_addresses"
	ChainIDField                  = "chain_id"
)

// Classify returns the tag of [v] by inspecting its structure in a fixed
// order:
//
//  1. a value carrying a fee payer is a fee payer transaction
//  2. otherwise a value carrying secondary signers is a multi-agent
//     transaction
//  3. otherwise a value carrying a raw transaction core is a single agent
//     transaction
//
// A value that satisfies both of the first two tests is a fee payer
// transaction. Values without a core are rejected before any test.
func Classify(v chain.RawTransactionValue) (Type, error) {
	if v == nil || v.Core() == nil {
		return "", fmt.Errorf("%w: missing raw transaction core", ErrUnclassifiable)
	}
	if _, ok := v.(chain.FeePayerCarrier); ok {
		return FeePayerRawTxn, nil
	}
	if _, ok := v.(chain.SecondarySignerCarrier); ok {
		return MultiAgentRawTxn, nil
	}
	return RawTxn, nil
}

// ClassifyFields applies the same ordered test as [Classify] to a generic
// object, where [has] reports whether a wire field is present.
func ClassifyFields(has func(field string) bool) (Type, error) {
	switch {
	case has(FeePayerAddressField):
		return FeePayerRawTxn, nil
	case has(SecondarySignerAddressesField):
		return MultiAgentRawTxn, nil
	case has(ChainIDField):
		return RawTxn, nil
	default:
		return "", ErrUnclassifiable
	}
}

// ClassifyJSON classifies a JSON object produced outside of this module by
// the presence of its top level fields.
func ClassifyJSON(b []byte) (Type, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnclassifiable, err)
	}
	return ClassifyFields(func(field string) bool {
		_, ok := fields[field]
		return ok
	})
}

// ParseJSON classifies a JSON raw transaction with [ClassifyJSON] and
// decodes it into the matching shape.
func ParseJSON(b []byte) (chain.RawTransactionValue, Type, error) {
	t, err := ClassifyJSON(b)
	if err != nil {
		return nil, "", err
	}
	var v chain.RawTransactionValue
	switch t {
	case FeePayerRawTxn:
		v = new(chain.FeePayerRawTransaction)
	case MultiAgentRawTxn:
		v = new(chain.MultiAgentRawTransaction)
	default:
		v = new(chain.RawTransaction)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return nil, "", fmt.Errorf("%w: %s: %w", ErrUnexpectedValue, t, err)
	}
	return v, t, nil
}
