// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package serialization

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vaultkit/wallet-api/chain"
)

// SerializeBatch serializes [values] on up to [workers] goroutines
// (unbounded if [workers] <= 0). Results keep the input order. The first
// failure cancels the remaining work and no partial result is returned.
func SerializeBatch(ctx context.Context, values []chain.RawTransactionValue, workers int) ([]Envelope, error) {
	return Codec{}.SerializeBatch(ctx, values, workers)
}

// DeserializeBatch is the inverse of [SerializeBatch].
func DeserializeBatch(ctx context.Context, envs []Envelope, workers int) ([]chain.RawTransactionValue, error) {
	return Codec{}.DeserializeBatch(ctx, envs, workers)
}

// SerializeBatch is [SerializeBatch] bounded by the codec's limit.
func (c Codec) SerializeBatch(ctx context.Context, values []chain.RawTransactionValue, workers int) ([]Envelope, error) {
	envs := make([]Envelope, len(values))
	err := forEach(ctx, len(values), workers, func(i int) error {
		env, err := c.Serialize(values[i])
		if err != nil {
			return fmt.Errorf("value %d: %w", i, err)
		}
		envs[i] = env
		return nil
	})
	if err != nil {
		return nil, err
	}
	return envs, nil
}

// DeserializeBatch is [DeserializeBatch] bounded by the codec's limit.
func (c Codec) DeserializeBatch(ctx context.Context, envs []Envelope, workers int) ([]chain.RawTransactionValue, error) {
	values := make([]chain.RawTransactionValue, len(envs))
	err := forEach(ctx, len(envs), workers, func(i int) error {
		v, err := c.Deserialize(envs[i])
		if err != nil {
			return fmt.Errorf("envelope %d: %w", i, err)
		}
		values[i] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return values, nil
}

func forEach(ctx context.Context, n int, workers int, f func(i int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return f(i)
		})
	}
	return g.Wait()
}
