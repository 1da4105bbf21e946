// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t testing.TB) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	require.NotNil(t, registry)
	return db
}

func TestPutGetDelete(t *testing.T) {
	require := require.New(t)

	db := newTestDatabase(t)
	defer func() { require.NoError(db.Close()) }()

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)
	has, err := db.Has([]byte("missing"))
	require.NoError(err)
	require.False(has)

	require.NoError(db.Put([]byte("key"), []byte("value")))
	value, err := db.Get([]byte("key"))
	require.NoError(err)
	require.Equal([]byte("value"), value)
	has, err = db.Has([]byte("key"))
	require.NoError(err)
	require.True(has)

	require.NoError(db.Delete([]byte("key")))
	_, err = db.Get([]byte("key"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestForEachWithPrefix(t *testing.T) {
	require := require.New(t)

	db := newTestDatabase(t)
	defer func() { require.NoError(db.Close()) }()

	batch := db.NewBatch()
	require.NoError(batch.Put([]byte("a/2"), []byte("two")))
	require.NoError(batch.Put([]byte("a/1"), []byte("one")))
	require.NoError(batch.Put([]byte("b/1"), []byte("other")))
	require.Equal(3, batch.Size())
	require.NoError(batch.Write())

	var keys, values []string
	require.NoError(db.ForEachWithPrefix([]byte("a/"), func(k, v []byte) error {
		keys = append(keys, string(k))
		values = append(values, string(v))
		return nil
	}))
	require.Equal([]string{"a/1", "a/2"}, keys)
	require.Equal([]string{"one", "two"}, values)

	errStop := errors.New("stop")
	calls := 0
	err := db.ForEachWithPrefix(nil, func([]byte, []byte) error {
		calls++
		return errStop
	})
	require.ErrorIs(err, errStop)
	require.Equal(1, calls)
}

func TestDeleteIfExists(t *testing.T) {
	require := require.New(t)

	db := newTestDatabase(t)
	defer func() { require.NoError(db.Close()) }()

	require.ErrorIs(db.DeleteIfExists([]byte("key")), database.ErrNotFound)
	require.NoError(db.Put([]byte("key"), []byte("value")))
	require.NoError(db.DeleteIfExists([]byte("key")))
	has, err := db.Has([]byte("key"))
	require.NoError(err)
	require.False(has)
	require.ErrorIs(db.DeleteIfExists([]byte("key")), database.ErrNotFound)
}

func TestDeleteIfExistsConcurrent(t *testing.T) {
	require := require.New(t)

	db := newTestDatabase(t)
	defer func() { require.NoError(db.Close()) }()
	require.NoError(db.Put([]byte("key"), []byte("value")))

	const deleters = 8
	results := make(chan error, deleters)
	var wg sync.WaitGroup
	for i := 0; i < deleters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- db.DeleteIfExists([]byte("key"))
		}()
	}
	wg.Wait()
	close(results)

	deleted := 0
	for err := range results {
		if err == nil {
			deleted++
			continue
		}
		require.ErrorIs(err, database.ErrNotFound)
	}
	require.Equal(1, deleted)
}

func TestBatchClose(t *testing.T) {
	require := require.New(t)

	db := newTestDatabase(t)
	defer func() { require.NoError(db.Close()) }()

	discarded := db.NewBatch()
	require.NoError(discarded.Put([]byte("discarded"), []byte("value")))
	require.NoError(discarded.Close())
	require.NoError(discarded.Close())
	require.ErrorIs(discarded.Write(), errBatchClosed)
	has, err := db.Has([]byte("discarded"))
	require.NoError(err)
	require.False(has)

	written := db.NewBatch()
	require.NoError(written.Put([]byte("written"), []byte("value")))
	require.NoError(written.Write())
	require.NoError(written.Close())
	require.ErrorIs(written.Write(), errBatchClosed)
	has, err = db.Has([]byte("written"))
	require.NoError(err)
	require.True(has)
}

func TestPrefixUpperBound(t *testing.T) {
	require := require.New(t)

	require.Equal([]byte("b"), prefixUpperBound([]byte("a")))
	require.Equal([]byte{0x01}, prefixUpperBound([]byte{0x00, 0xff}))
	require.Nil(prefixUpperBound([]byte{0xff, 0xff}))
	require.Nil(prefixUpperBound(nil))
}

func TestClosed(t *testing.T) {
	require := require.New(t)

	db := newTestDatabase(t)
	require.NoError(db.Close())

	_, err := db.Get([]byte("key"))
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Put([]byte("key"), nil), database.ErrClosed)
	require.ErrorIs(db.DeleteIfExists([]byte("key")), database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func BenchmarkBatchInsertion(b *testing.B) {
	const batchSize = 10_000

	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			keys := make([][]byte, batchSize)
			for i := 0; i < batchSize; i++ {
				keys[i] = randBytes()
			}

			b.StartTimer()
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				batch := db.NewBatch()
				for j := 0; j < batchSize; j++ {
					if err := batch.Put(keys[j], randBytes()); err != nil {
						b.Fatal(err)
					}
				}
				if err := batch.Write(); err != nil {
					b.Fatal(err)
				}
			}
			b.StopTimer()

			if err := db.Close(); err != nil {
				b.Fatal(err)
			}
		})
	}
}
