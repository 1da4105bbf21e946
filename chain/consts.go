// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/vaultkit/wallet-api/consts"

const (
	// RawTransactionSalt and RawTransactionWithDataSalt domain-separate the
	// signing messages of the two top level encodings.
	RawTransactionSalt         = "APTOS::RawTransaction"
	RawTransactionWithDataSalt = "APTOS::RawTransactionWithData"

	// MaxTypeTagDepth bounds the nesting of vector and struct type tags.
	MaxTypeTagDepth = 8

	MaxIdentifierLen = 255
	MaxTypeArgs      = 32
	MaxArgs          = 255
	MaxArgSize       = consts.NetworkSizeLimit
	MaxScriptSize    = consts.NetworkSizeLimit

	// MaxSecondarySigners bounds the secondary signer list of multi-agent and
	// fee payer transactions.
	MaxSecondarySigners = consts.MaxSequenceItems
)
