// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pending

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

var _ Backend = (*RedisBackend)(nil)

// RedisBackend shares records between wallets through redis. Each record is
// stored under its own key and its id is kept in a sorted set scored by
// creation time.
type RedisBackend struct {
	client *redis.Client
	prefix string
}

func NewRedisBackend(client *redis.Client, prefix string) *RedisBackend {
	return &RedisBackend{
		client: client,
		prefix: prefix,
	}
}

func (b *RedisBackend) key(id string) string {
	return b.prefix + "record:" + id
}

func (b *RedisBackend) indexKey() string {
	return b.prefix + "index"
}

func (b *RedisBackend) Put(ctx context.Context, records ...Record) error {
	if len(records) == 0 {
		return nil
	}
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, r := range records {
			v, err := marshalRecord(r)
			if err != nil {
				return err
			}
			pipe.Set(ctx, b.key(r.ID), v, 0)
			pipe.ZAdd(ctx, b.indexKey(), redis.Z{
				Score:  float64(r.CreatedAt.UnixMilli()),
				Member: r.ID,
			})
		}
		return nil
	})
	return err
}

func (b *RedisBackend) Get(ctx context.Context, id string) (Record, error) {
	v, err := b.client.Get(ctx, b.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return Record{}, err
	}
	return unmarshalRecord(v)
}

func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	var deleted *redis.IntCmd
	_, err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		deleted = pipe.Del(ctx, b.key(id))
		pipe.ZRem(ctx, b.indexKey(), id)
		return nil
	})
	if err != nil {
		return err
	}
	if deleted.Val() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

func (b *RedisBackend) List(ctx context.Context) ([]Record, error) {
	ids, err := b.client.ZRange(ctx, b.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(ids))
	if len(ids) == 0 {
		return records, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = b.key(id)
	}
	values, err := b.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	for _, v := range values {
		// Removed between the index read and the fetch.
		s, ok := v.(string)
		if !ok {
			continue
		}
		r, err := unmarshalRecord([]byte(s))
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	sortRecords(records)
	return records, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}
