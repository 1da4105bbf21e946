// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/utils/units"

const (
	AddressLen = 32
	HashLen    = 32
	MaxUint8   = ^uint8(0)
	MaxUint32  = ^uint32(0)
	MaxUint    = ^uint(0)
	MaxInt     = int(MaxUint >> 1)
	ByteLen    = 1
	BoolLen    = 1
	Uint16Len  = 2
	Uint32Len  = 4
	Uint64Len  = 8
	Uint128Len = 16
	Uint256Len = 32

	// NetworkSizeLimit bounds any single encoded raw transaction. Governance
	// transactions on the ledger may be up to 1MiB.
	NetworkSizeLimit = units.MiB

	// MaxSequenceItems bounds the number of items decoded from any one
	// sequence so that a forged length prefix can't trigger a huge allocation.
	MaxSequenceItems = 4_096
)
