// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"golang.org/x/crypto/sha3"

	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
)

var (
	rawTransactionPrefix         = saltHash(RawTransactionSalt)
	rawTransactionWithDataPrefix = saltHash(RawTransactionWithDataSalt)
)

func saltHash(salt string) []byte {
	h := sha3.Sum256([]byte(salt))
	return h[:]
}

// SigningMessage returns the bytes every signer of [v] signs: the hash of
// the domain separator followed by the canonical encoding of [v]. Shapes
// carrying a fee payer or secondary signers use the RawTransactionWithData
// separator.
func SigningMessage(v RawTransactionValue) ([]byte, error) {
	b, err := codec.Marshal(v, consts.NetworkSizeLimit)
	if err != nil {
		return nil, err
	}
	prefix := rawTransactionPrefix
	switch v.(type) {
	case FeePayerCarrier, SecondarySignerCarrier:
		prefix = rawTransactionWithDataPrefix
	}
	msg := make([]byte, 0, len(prefix)+len(b))
	msg = append(msg, prefix...)
	return append(msg, b...), nil
}

// Hash returns the sha3-256 digest of the signing message of [v]. It
// identifies a proposal independently of who signs it.
func Hash(v RawTransactionValue) ([consts.HashLen]byte, error) {
	msg, err := SigningMessage(v)
	if err != nil {
		return [consts.HashLen]byte{}, err
	}
	return sha3.Sum256(msg), nil
}
