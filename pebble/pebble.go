// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/units"
	"github.com/cockroachdb/pebble"
	"github.com/prometheus/client_golang/prometheus"
)

var _ database.Database = (*Database)(nil)

type Config struct {
	CacheSize                int  `json:"cacheSize" yaml:"cacheSize"`
	BytesPerSync             int  `json:"bytesPerSync" yaml:"bytesPerSync"`
	WALBytesPerSync          int  `json:"walBytesPerSync" yaml:"walBytesPerSync"` // 0 means no background syncing
	MaxOpenFiles             int  `json:"maxOpenFiles" yaml:"maxOpenFiles"`
	ConcurrentCompactions    int  `json:"concurrentCompactions" yaml:"concurrentCompactions"`
	Sync                     bool `json:"sync" yaml:"sync"`
	DisableMetricsCollection bool `json:"disableMetricsCollection" yaml:"disableMetricsCollection"`
}

func NewDefaultConfig() Config {
	return Config{
		CacheSize:             16 * units.MiB,
		BytesPerSync:          1 * units.MiB,
		WALBytesPerSync:       1 * units.MiB,
		MaxOpenFiles:          4_096,
		ConcurrentCompactions: 1,
		Sync:                  true,
	}
}

// Database is a [database.Database] backed by pebble.
type Database struct {
	db *pebble.DB

	metrics *metrics
	sync    *pebble.WriteOptions

	// lock guards closed. Operations hold it for reading so Close waits
	// for them before shutting pebble down.
	lock      sync.RWMutex
	closed    bool
	closing   chan struct{}
	collector sync.WaitGroup
}

func New(file string, cfg Config) (*Database, *prometheus.Registry, error) {
	registry, metrics, err := newMetrics()
	if err != nil {
		return nil, nil, err
	}
	d := &Database{
		metrics: metrics,
		sync:    pebble.NoSync,
		closing: make(chan struct{}),
	}
	if cfg.Sync {
		d.sync = pebble.Sync
	}
	cache := pebble.NewCache(int64(cfg.CacheSize))
	defer cache.Unref()
	opts := &pebble.Options{
		Cache:                    cache,
		BytesPerSync:             cfg.BytesPerSync,
		WALBytesPerSync:          cfg.WALBytesPerSync,
		MaxOpenFiles:             cfg.MaxOpenFiles,
		MaxConcurrentCompactions: func() int { return cfg.ConcurrentCompactions },
		EventListener: &pebble.EventListener{
			CompactionBegin: d.onCompactionBegin,
			CompactionEnd:   d.onCompactionEnd,
			WriteStallBegin: d.onWriteStallBegin,
			WriteStallEnd:   d.onWriteStallEnd,
		},
	}
	d.db, err = pebble.Open(file, opts)
	if err != nil {
		return nil, nil, err
	}
	if !cfg.DisableMetricsCollection {
		d.collector.Add(1)
		go d.collectMetrics()
	}
	return d, registry, nil
}

func (db *Database) Close() error {
	db.lock.Lock()
	defer db.lock.Unlock()

	if db.closed {
		return database.ErrClosed
	}
	db.closed = true
	close(db.closing)
	db.collector.Wait()
	return updateError(db.db.Close())
}

func (db *Database) HealthCheck(context.Context) (interface{}, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	return nil, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	_, err := db.Get(key)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return false, nil
	case err != nil:
		return false, err
	default:
		return true, nil
	}
}

func (db *Database) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return nil, database.ErrClosed
	}
	start := time.Now()
	data, closer, err := db.db.Get(key)
	db.metrics.getLatency.Observe(float64(time.Since(start)))
	if err != nil {
		return nil, updateError(err)
	}
	defer closer.Close()
	return bytes.Clone(data), nil
}

func (db *Database) Put(key []byte, value []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return updateError(db.db.Set(key, value, db.sync))
}

func (db *Database) Delete(key []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	return updateError(db.db.Delete(key, db.sync))
}

func (db *Database) Compact(start []byte, limit []byte) error {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return database.ErrClosed
	}
	if limit == nil {
		// pebble needs an upper bound, so compact through the last key
		it, err := db.db.NewIter(keyRange(start, nil))
		if err != nil {
			return updateError(err)
		}
		if it.Last() {
			limit = append(bytes.Clone(it.Key()), 0)
		}
		if err := it.Close(); err != nil {
			return updateError(err)
		}
		if limit == nil {
			return nil
		}
	}
	return updateError(db.db.Compact(start, limit, true))
}

func updateError(err error) error {
	switch {
	case errors.Is(err, pebble.ErrClosed):
		return database.ErrClosed
	case errors.Is(err, pebble.ErrNotFound):
		return database.ErrNotFound
	default:
		return err
	}
}
