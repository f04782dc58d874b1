// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"crypto/rand"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/stretchr/testify/require"
)

const batchSize = 10_000

func randBytes() []byte {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	return b
}

func newTestDB(t *testing.T) *Database {
	cfg := NewDefaultConfig()
	cfg.Sync = false
	cfg.DisableMetricsCollection = true
	db, registry, err := New(t.TempDir(), cfg)
	require.NoError(t, err)
	require.NotNil(t, registry)
	return db
}

func TestGetPutDelete(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	key, value := []byte("account"), []byte("record")
	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)
	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(db.Put(key, value))
	got, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, got)

	require.NoError(db.Delete(key))
	has, err = db.Has(key)
	require.NoError(err)
	require.False(has)

	require.NoError(db.Close())
	_, err = db.Get(key)
	require.ErrorIs(err, database.ErrClosed)
	require.ErrorIs(db.Close(), database.ErrClosed)
}

func TestBatchReplay(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	defer db.Close()

	require.NoError(db.Put([]byte("stale"), []byte("x")))

	b := db.NewBatch()
	require.NoError(b.Put([]byte("a"), []byte("1")))
	require.NoError(b.Put([]byte("b"), []byte("2")))
	require.NoError(b.Delete([]byte("stale")))
	require.Equal(len("a1b2stale"), b.Size())
	require.NoError(b.Write())

	got, err := db.Get([]byte("b"))
	require.NoError(err)
	require.Equal([]byte("2"), got)
	has, err := db.Has([]byte("stale"))
	require.NoError(err)
	require.False(has)

	mem := memdb.New()
	require.NoError(mem.Put([]byte("stale"), []byte("x")))
	require.NoError(b.Replay(mem))
	got, err = mem.Get([]byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), got)
	has, err = mem.Has([]byte("stale"))
	require.NoError(err)
	require.False(has)

	b.Reset()
	require.Zero(b.Size())
}

func TestIteratorPrefix(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)
	defer db.Close()

	for _, k := range []string{"a1", "b1", "b2", "b3", "c1"} {
		require.NoError(db.Put([]byte(k), []byte(k)))
	}

	it := db.NewIteratorWithPrefix([]byte("b"))
	var keys []string
	for it.Next() {
		keys = append(keys, string(it.Key()))
		require.Equal(it.Key(), it.Value())
	}
	require.NoError(it.Error())
	it.Release()
	require.Equal([]string{"b1", "b2", "b3"}, keys)

	it = db.NewIteratorWithStartAndPrefix([]byte("b2"), []byte("b"))
	keys = nil
	for it.Next() {
		keys = append(keys, string(it.Key()))
	}
	require.NoError(it.Error())
	it.Release()
	require.Equal([]string{"b2", "b3"}, keys)

	it = db.NewIterator()
	count := 0
	for it.Next() {
		count++
	}
	it.Release()
	require.Equal(5, count)

	require.NoError(db.Compact(nil, nil))
}

func TestPrefixBound(t *testing.T) {
	require := require.New(t)
	require.Nil(prefixBound(nil))
	require.Equal([]byte{0x01}, prefixBound([]byte{0x00}))
	require.Equal([]byte{0x02}, prefixBound([]byte{0x01, 0xff}))
	require.Nil(prefixBound([]byte{0xff, 0xff}))
}

func BenchmarkBatchInsertion(b *testing.B) {
	for _, sync := range []bool{false, true} {
		b.Run(fmt.Sprintf("sync=%t", sync), func(b *testing.B) {
			// Setup DB
			b.StopTimer()
			cfg := NewDefaultConfig()
			cfg.Sync = sync
			db, _, err := New(b.TempDir(), cfg)
			if err != nil {
				b.Fatal(err)
			}

			// Setup keys
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

func TestCloseStopsMetricsCollection(t *testing.T) {
	require := require.New(t)

	interval := metricsInterval
	metricsInterval = time.Millisecond
	t.Cleanup(func() { metricsInterval = interval })

	cfg := NewDefaultConfig()
	cfg.Sync = false
	db, _, err := New(t.TempDir(), cfg)
	require.NoError(err)

	// Let a few samples run against the open database.
	time.Sleep(20 * time.Millisecond)
	require.NoError(db.Close())

	stopped := make(chan struct{})
	go func() {
		db.collector.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		require.FailNow("metrics collection still running after close")
	}

	require.ErrorIs(db.Close(), database.ErrClosed)
	_, err = db.Get([]byte("key"))
	require.ErrorIs(err, database.ErrClosed)
}

func TestConcurrentCloseAndWrites(t *testing.T) {
	require := require.New(t)
	db := newTestDB(t)

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if err := db.Put(randBytes(), randBytes()); err != nil {
					errs <- err
					return
				}
			}
		}()
	}
	require.NoError(db.Close())
	wg.Wait()
	close(errs)
	for err := range errs {
		require.ErrorIs(err, database.ErrClosed)
	}

	require.ErrorIs(db.Put([]byte("key"), []byte("value")), database.ErrClosed)
}
