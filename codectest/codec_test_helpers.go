// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codectest

import (
	"crypto/rand"

	"github.com/vaultkit/wallet-api/codec"
)

// NewRandomAddress returns a random address
// for use during testing
func NewRandomAddress() (codec.Address, error) {
	b := make([]byte, codec.AddressLen)
	if _, err := rand.Read(b); err != nil {
		return codec.EmptyAddress, err
	}
	return codec.ToAddress(b)
}

// NewRandomAddresses returns [n] distinct random addresses.
func NewRandomAddresses(n int) ([]codec.Address, error) {
	addrs := make([]codec.Address, 0, n)
	seen := make(map[codec.Address]struct{}, n)
	for len(addrs) < n {
		addr, err := NewRandomAddress()
		if err != nil {
			return nil, err
		}
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}
