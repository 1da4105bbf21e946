// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pending

import (
	"context"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/vaultkit/wallet-api/pebble"
)

var _ Backend = (*PebbleBackend)(nil)

var recordPrefix = []byte("pending/")

// PebbleBackend keeps records in a local pebble database.
type PebbleBackend struct {
	db *pebble.Database
}

func NewPebbleBackend(db *pebble.Database) *PebbleBackend {
	return &PebbleBackend{db: db}
}

func recordKey(id string) []byte {
	k := make([]byte, 0, len(recordPrefix)+len(id))
	k = append(k, recordPrefix...)
	return append(k, id...)
}

func (b *PebbleBackend) Put(ctx context.Context, records ...Record) error {
	batch := b.db.NewBatch()
	defer batch.Close()
	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		v, err := marshalRecord(r)
		if err != nil {
			return err
		}
		if err := batch.Put(recordKey(r.ID), v); err != nil {
			return err
		}
	}
	return batch.Write()
}

func (b *PebbleBackend) Get(_ context.Context, id string) (Record, error) {
	v, err := b.db.Get(recordKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, err
	}
	return unmarshalRecord(v)
}

func (b *PebbleBackend) Delete(_ context.Context, id string) error {
	err := b.db.DeleteIfExists(recordKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return err
}

func (b *PebbleBackend) List(ctx context.Context) ([]Record, error) {
	records := []Record{}
	err := b.db.ForEachWithPrefix(recordPrefix, func(_, v []byte) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		r, err := unmarshalRecord(v)
		if err != nil {
			return err
		}
		records = append(records, r)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	return records, nil
}

func (b *PebbleBackend) Close() error {
	return b.db.Close()
}
