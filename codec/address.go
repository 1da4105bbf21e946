// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/vaultkit/wallet-api/consts"
)

const AddressLen = consts.AddressLen

// Address is the 32 byte account address of the ledger. It is used for
// senders, secondary signers and fee payers and is only ever compared for
// equality.
type Address [AddressLen]byte

var EmptyAddress = Address{}

// ParseAddress parses a hex address with an optional 0x prefix. Short forms
// such as "0x1" or "0xA1" are left-padded with zeros.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimPrefix(s, "0x")
	if len(s) == 0 || len(s) > AddressLen*2 {
		return EmptyAddress, fmt.Errorf("%w: address has %d hex digits", ErrInvalidSize, len(s))
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return EmptyAddress, fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	var a Address
	copy(a[AddressLen-len(b):], b)
	return a, nil
}

// MustParseAddress is like [ParseAddress] but panics on malformed input.
// Intended for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ToAddress copies [b] into an Address. [b] must be exactly AddressLen bytes.
func ToAddress(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLen {
		return a, fmt.Errorf("%w: expected %d bytes but found %d bytes", ErrInvalidSize, AddressLen, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// String implements fmt.Stringer. It always returns the long form.
func (a Address) String() string {
	return "0x" + hex.EncodeToString(a[:])
}

// StringShort returns the address without leading zero digits (0x1 for the
// framework account).
func (a Address) StringShort() string {
	s := strings.TrimLeft(hex.EncodeToString(a[:]), "0")
	if s == "" {
		s = "0"
	}
	return "0x" + s
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a hex-encoded address.
func (a *Address) UnmarshalText(input []byte) error {
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
