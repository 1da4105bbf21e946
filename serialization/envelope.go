// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serialization

// Type tags the shape of the raw transaction carried by an [Envelope].
type Type string

const (
	RawTxn           Type = "raw_txn"
	FeePayerRawTxn   Type = "fee_payer_raw_txn"
	MultiAgentRawTxn Type = "multi_agent_raw_txn"
)

// Types lists every valid tag.
var Types = []Type{RawTxn, FeePayerRawTxn, MultiAgentRawTxn}

// Valid reports whether [t] is one of the known tags.
func (t Type) Valid() bool {
	switch t {
	case RawTxn, FeePayerRawTxn, MultiAgentRawTxn:
		return true
	default:
		return false
	}
}

func (t Type) String() string { return string(t) }

// Envelope is the self-describing form of a raw transaction. [Value] is the
// canonical encoding of the transaction as 0x-prefixed lowercase hex, so the
// envelope is safe to store or send as JSON. The bare encoding does not
// identify its shape and must not be persisted without its tag.
type Envelope struct {
	Type  Type   `json:"type"  yaml:"type"  msgpack:"type"`
	Value string `json:"value" yaml:"value" msgpack:"value"`
}
