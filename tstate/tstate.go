// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// TState defines a struct for storing temporary state.
//
// Views created with [NewView] commit into TState once a message has been
// processed successfully; [Flush] then writes every accumulated change to
// the underlying database in a single batch.
type TState struct {
	l           sync.RWMutex
	ops         int
	changedKeys map[string]maybe.Maybe[[]byte]
}

// New returns a new instance of TState.
//
// [changedSize] is an estimate of the number of keys that will be changed and is
// used to size the change map.
func New(changedSize int) *TState {
	return &TState{
		changedKeys: make(map[string]maybe.Maybe[[]byte], changedSize),
	}
}

// getChangedValue returns the value committed for [key], whether [key] was
// changed at all, and whether it still exists.
func (ts *TState) getChangedValue(_ context.Context, key string) ([]byte, bool, bool) {
	ts.l.RLock()
	defer ts.l.RUnlock()

	if v, ok := ts.changedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false
		}
		return v.Value(), true, true
	}
	return nil, false, false
}

// GetValue reads [key] from the committed changes, falling back to [db].
func (ts *TState) GetValue(ctx context.Context, db database.KeyValueReader, key []byte) ([]byte, error) {
	v, changed, exists := ts.getChangedValue(ctx, string(key))
	if changed {
		if !exists {
			return nil, database.ErrNotFound
		}
		return v, nil
	}
	return db.Get(key)
}

// Insert should only be called if you know what you are doing (updates
// here may not be reflected in get calls in tstate views and/or may overwrite
// identical keys on disk).
func (ts *TState) Insert(_ context.Context, key, value []byte) error {
	if len(key) == 0 || value == nil {
		return ErrInvalidKeyValue
	}

	ts.l.Lock()
	defer ts.l.Unlock()

	ts.changedKeys[string(key)] = maybe.Some(value)
	return nil
}

// OpIndex returns the number of operations committed by views.
func (ts *TState) OpIndex() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return ts.ops
}

// PendingChanges returns the number of keys changed since the last [Flush].
func (ts *TState) PendingChanges() int {
	ts.l.RLock()
	defer ts.l.RUnlock()

	return len(ts.changedKeys)
}

// Flush writes all changes to [db] in key order and resets TState.
func (ts *TState) Flush(_ context.Context, db Database) error {
	ts.l.Lock()
	defer ts.l.Unlock()

	batch := db.NewBatch()
	keys := maps.Keys(ts.changedKeys)
	slices.Sort(keys)
	for _, k := range keys {
		v := ts.changedKeys[k]
		var err error
		if v.IsNothing() {
			err = batch.Delete([]byte(k))
		} else {
			err = batch.Put([]byte(k), v.Value())
		}
		if err != nil {
			return err
		}
	}
	if err := batch.Write(); err != nil {
		return err
	}
	clear(ts.changedKeys)
	ts.ops = 0
	return nil
}
