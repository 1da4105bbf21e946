// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var errBatchClosed = errors.New("batch already written or closed")

type Config struct {
	CacheSize                   int64 `json:"cacheSize"                   yaml:"cacheSize"                   mapstructure:"cache_size"`
	BytesPerSync                int   `json:"bytesPerSync"                yaml:"bytesPerSync"                mapstructure:"bytes_per_sync"`
	WALBytesPerSync             int   `json:"walBytesPerSync"             yaml:"walBytesPerSync"             mapstructure:"wal_bytes_per_sync"`
	MemTableStopWritesThreshold int   `json:"memTableStopWritesThreshold" yaml:"memTableStopWritesThreshold" mapstructure:"mem_table_stop_writes_threshold"`
	MaxOpenFiles                int   `json:"maxOpenFiles"                yaml:"maxOpenFiles"                mapstructure:"max_open_files"`
	ConcurrentCompactions       int   `json:"concurrentCompactions"       yaml:"concurrentCompactions"       mapstructure:"concurrent_compactions"`
	Sync                        bool  `json:"sync"                        yaml:"sync"                        mapstructure:"sync"`
}

// These default settings are based on https://github.com/ethereum/go-ethereum/blob/master/ethdb/pebble/pebble.go
// scaled down for a store of a few thousand small records.
func NewDefaultConfig() Config {
	return Config{
		CacheSize:                   8 * 1024 * 1024,
		BytesPerSync:                512 * 1024,
		WALBytesPerSync:             0,
		MemTableStopWritesThreshold: 8,
		MaxOpenFiles:                1_024,
		ConcurrentCompactions:       1,
		Sync:                        true,
	}
}

// Database is a small key/value store on top of pebble. Values returned by
// [Database.Get] and passed to iteration callbacks are owned by the caller.
type Database struct {
	db           *pebble.DB
	writeOptions *pebble.WriteOptions
	metrics      *metrics

	lock    sync.RWMutex
	closed  bool
	closing chan struct{}
	wg      sync.WaitGroup
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	d := &Database{
		writeOptions: pebble.NoSync,
		closing:      make(chan struct{}),
	}
	if cfg.Sync {
		d.writeOptions = pebble.Sync
	}
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d.metrics = metrics

	cache := pebble.NewCache(cfg.CacheSize)
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                       cache,
		BytesPerSync:                cfg.BytesPerSync,
		WALBytesPerSync:             cfg.WALBytesPerSync,
		MemTableStopWritesThreshold: cfg.MemTableStopWritesThreshold,
		MaxOpenFiles:                cfg.MaxOpenFiles,
		MaxConcurrentCompactions:    func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	db, err := pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	d.db = db

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.collectMetrics()
	}()
	return d, registry, nil
}

func (d *Database) Has(key []byte) (bool, error) {
	_, err := d.Get(key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Get returns a copy of the value stored under [key] or
// [database.ErrNotFound].
func (d *Database) Get(key []byte) ([]byte, error) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.closed {
		return nil, database.ErrClosed
	}

	start := time.Now()
	data, closer, err := d.db.Get(key)
	d.metrics.getLatency.Observe(float64(time.Since(start)))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, database.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte{}, data...), nil
}

func (d *Database) Put(key []byte, value []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.closed {
		return database.ErrClosed
	}

	d.metrics.writes.Inc()
	return d.db.Set(key, value, d.writeOptions)
}

func (d *Database) Delete(key []byte) error {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.closed {
		return database.ErrClosed
	}

	d.metrics.deletes.Inc()
	return d.db.Delete(key, d.writeOptions)
}

// DeleteIfExists removes [key] or returns [database.ErrNotFound] if it is
// not present. No other write through [d] interleaves with the check.
func (d *Database) DeleteIfExists(key []byte) error {
	d.lock.Lock()
	defer d.lock.Unlock()
	if d.closed {
		return database.ErrClosed
	}

	_, closer, err := d.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return database.ErrNotFound
	}
	if err != nil {
		return err
	}
	if err := closer.Close(); err != nil {
		return err
	}
	d.metrics.deletes.Inc()
	return d.db.Delete(key, d.writeOptions)
}

// ForEachWithPrefix calls [f] for every key starting with [prefix] in
// ascending key order and stops at the first error.
func (d *Database) ForEachWithPrefix(prefix []byte, f func(key []byte, value []byte) error) error {
	d.lock.RLock()
	defer d.lock.RUnlock()
	if d.closed {
		return database.ErrClosed
	}

	it, err := d.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return err
	}
	for it.First(); it.Valid(); it.Next() {
		key := append([]byte{}, it.Key()...)
		value := append([]byte{}, it.Value()...)
		if err := f(key, value); err != nil {
			_ = it.Close()
			return err
		}
	}
	if err := it.Error(); err != nil {
		_ = it.Close()
		return err
	}
	return it.Close()
}

// prefixUpperBound returns the smallest key greater than every key with
// [prefix], or nil if there is none.
func prefixUpperBound(prefix []byte) []byte {
	upper := append([]byte{}, prefix...)
	for i := len(upper) - 1; i >= 0; i-- {
		upper[i]++
		if upper[i] != 0 {
			return upper[:i+1]
		}
	}
	return nil
}

func (d *Database) NewBatch() *Batch {
	return &Batch{d: d, batch: d.db.NewBatch()}
}

func (d *Database) Close() error {
	d.lock.Lock()
	if d.closed {
		d.lock.Unlock()
		return database.ErrClosed
	}
	d.closed = true
	close(d.closing)
	d.lock.Unlock()

	d.wg.Wait()
	return d.db.Close()
}

// Batch collects writes that are applied atomically by [Batch.Write]. A
// batch that is not written must be released with [Batch.Close].
type Batch struct {
	d      *Database
	batch  *pebble.Batch
	closed bool
}

func (b *Batch) Put(key []byte, value []byte) error {
	return b.batch.Set(key, value, nil)
}

func (b *Batch) Delete(key []byte) error {
	return b.batch.Delete(key, nil)
}

func (b *Batch) Size() int {
	return int(b.batch.Count())
}

func (b *Batch) Write() error {
	b.d.lock.RLock()
	defer b.d.lock.RUnlock()
	if b.d.closed {
		return database.ErrClosed
	}

	if b.closed {
		return errBatchClosed
	}

	b.d.metrics.writes.Add(float64(b.batch.Count()))
	if err := b.batch.Commit(b.d.writeOptions); err != nil {
		_ = b.Close()
		return err
	}
	return b.Close()
}

// Close releases the batch without writing it. It is a no-op once the
// batch has been written or closed.
func (b *Batch) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	return b.batch.Close()
}
