// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pending

import (
	"fmt"
	"strings"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/vaultkit/wallet-api/chain"
	"github.com/vaultkit/wallet-api/codec"
	"github.com/vaultkit/wallet-api/consts"
	"github.com/vaultkit/wallet-api/serialization"
)

// Record is a proposal waiting for signatures. [ID] is the hash of the
// signing message of the enveloped transaction, so every co-signer derives
// the same id from the same proposal.
type Record struct {
	ID        string                 `json:"id"        yaml:"id"        msgpack:"id"`
	Envelope  serialization.Envelope `json:"envelope"  yaml:"envelope"  msgpack:"envelope"`
	Label     string                 `json:"label"     yaml:"label"     msgpack:"label"`
	CreatedAt time.Time              `json:"createdAt" yaml:"createdAt" msgpack:"created_at"`
}

func (r Record) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s", r.ID, r.Envelope.Type)
	if r.Label != "" {
		fmt.Fprintf(&sb, " %q", r.Label)
	}
	fmt.Fprintf(&sb, " %s", r.CreatedAt.Format(time.RFC3339))
	return sb.String()
}

// NewRecord builds the record of [v] created at [now], enveloped by [c].
func NewRecord(c serialization.Codec, v chain.RawTransactionValue, label string, now time.Time) (Record, error) {
	env, err := c.Serialize(v)
	if err != nil {
		return Record{}, err
	}
	id, err := ID(v)
	if err != nil {
		return Record{}, err
	}
	return Record{
		ID:        id,
		Envelope:  env,
		Label:     label,
		CreatedAt: now.UTC(),
	}, nil
}

// ID returns the record id of [v].
func ID(v chain.RawTransactionValue) (string, error) {
	h, err := chain.Hash(v)
	if err != nil {
		return "", err
	}
	return codec.ToHex(h[:]), nil
}

// ParseID normalizes a user supplied record id.
func ParseID(s string) (string, error) {
	b, err := codec.LoadHex(strings.ToLower(s), consts.HashLen)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidID, err)
	}
	return codec.ToHex(b), nil
}

func marshalRecord(r Record) ([]byte, error) {
	return msgpack.Marshal(&r)
}

func unmarshalRecord(b []byte) (Record, error) {
	var r Record
	if err := msgpack.Unmarshal(b, &r); err != nil {
		return Record{}, err
	}
	r.CreatedAt = r.CreatedAt.UTC()
	return r, nil
}
