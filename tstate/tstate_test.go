// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/state"
)

var (
	testKey = []byte("key")
	testVal = []byte("value")

	key2    = []byte("key2")
	key2str = string(key2)
)

func newView(ts *TState, keys state.Keys, storage map[string][]byte) *TStateView {
	return ts.NewView(state.NewDefaultScope(keys, storage))
}

func TestScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	// No Scope
	tsv := newView(ts, state.Keys{}, map[string][]byte{})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, ErrInvalidKeyOrPermission)
	require.Nil(val)
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrInvalidKeyOrPermission)
}

func TestReadOnlyScope(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := newView(ts, state.Keys{string(testKey): state.Read}, map[string][]byte{string(testKey): testVal})
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	require.ErrorIs(tsv.Insert(ctx, testKey, []byte("other")), ErrInvalidKeyOrPermission)
	require.ErrorIs(tsv.Remove(ctx, testKey), ErrInvalidKeyOrPermission)

	// Write without allocate cannot create keys
	tsv = newView(ts, state.Keys{string(testKey): state.Write}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrInvalidKeyOrPermission)
}

func TestDeleteCommitGet(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	// Delete value
	tsv := newView(ts, state.Keys{string(testKey): state.Read | state.Write}, map[string][]byte{string(testKey): testVal})
	require.NoError(tsv.Remove(ctx, testKey))
	tsv.Commit()

	// Check deleted
	tsv = newView(ts, state.Keys{string(testKey): state.Read | state.Write}, map[string][]byte{string(testKey): testVal})
	val, err := tsv.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.Nil(val)

	changed, exists, err := tsv.Exists(ctx, testKey)
	require.NoError(err)
	require.True(changed)
	require.False(exists)
}

func TestInsertNew(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := newView(ts, state.Keys{string(testKey): state.All}, map[string][]byte{})

	// Test Disable Allocate
	tsv.DisableAllocation()
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal), ErrAllocationDisabled)
	tsv.EnableAllocation()

	// Insert key
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex(), "insert was not added as an operation")
	require.Equal(testVal, val, "value was not set correctly")

	// Check commit
	tsv.Commit()
	require.Equal(1, ts.OpIndex(), "insert was not added as an operation")
	require.Equal(1, ts.PendingChanges())
}

func TestInsertInvalid(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := newView(ts, state.Keys{string(testKey): state.All}, map[string][]byte{})
	require.ErrorIs(tsv.Insert(ctx, testKey, nil), ErrInvalidKeyValue)
	require.ErrorIs(tsv.Insert(ctx, nil, testVal), ErrInvalidKeyValue)
	require.ErrorIs(ts.Insert(ctx, nil, testVal), ErrInvalidKeyValue)
}

func TestInsertUpdate(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := newView(ts, state.Keys{string(testKey): state.Read | state.Write}, map[string][]byte{string(testKey): testVal})
	require.Equal(0, ts.OpIndex())

	newVal := []byte("newVal")
	require.NoError(tsv.Insert(ctx, testKey, newVal))
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(1, tsv.OpIndex(), "insert operation was not added")
	require.Equal(newVal, val, "value was not set correctly")
	require.Equal(testVal, tsv.ops[0].pastV)

	// Check value after commit
	tsv.Commit()
	tsv = newView(ts, state.Keys{string(testKey): state.Read | state.Write}, map[string][]byte{string(testKey): testVal})
	val, err = tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(newVal, val, "value was not committed correctly")
}

func TestInsertRemoveInsert(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	tsv := newView(ts, state.Keys{key2str: state.All}, map[string][]byte{})

	// Insert key for first time
	require.NoError(tsv.Insert(ctx, key2, testVal))
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	// Remove key
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(maybe.Nothing[[]byte](), tsv.pendingChangedKeys[key2str])

	// Insert key again
	testVal2 := []byte("blah")
	require.NoError(tsv.Insert(ctx, key2, testVal2))
	require.Equal(maybe.Some(testVal2), tsv.pendingChangedKeys[key2str])

	// Rollback second insert
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.Equal(maybe.Nothing[[]byte](), tsv.pendingChangedKeys[key2str])

	// Rollback remove
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.Equal(maybe.Some(testVal), tsv.pendingChangedKeys[key2str])

	// Rollback insert
	tsv.Rollback(ctx, tsv.OpIndex()-1)
	require.NotContains(tsv.pendingChangedKeys, key2str)
	require.Equal(0, tsv.OpIndex())

	// Remove empty should do nothing
	require.NoError(tsv.Remove(ctx, key2))
	require.Equal(0, tsv.OpIndex())
}

func TestRollbackToStart(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	storage := map[string][]byte{key2str: testVal}
	tsv := newView(ts, state.Keys{key2str: state.All, string(testKey): state.All}, storage)
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	restore := tsv.OpIndex()
	require.NoError(tsv.Insert(ctx, key2, []byte("a")))
	require.NoError(tsv.Insert(ctx, key2, []byte("b")))
	require.NoError(tsv.Remove(ctx, testKey))

	tsv.Rollback(ctx, restore)
	require.Equal(restore, tsv.OpIndex())
	val, err := tsv.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, val)
	val, err = tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestViewSeesCommittedChanges(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	ts := New(10)

	first := newView(ts, state.Keys{key2str: state.All}, map[string][]byte{})
	require.NoError(first.Insert(ctx, key2, testVal))
	first.Commit()

	// Storage of a later view is stale, the committed value wins
	second := newView(ts, state.Keys{key2str: state.All}, map[string][]byte{})
	val, err := second.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, val)

	// Uncommitted views leave TState untouched
	require.NoError(second.Insert(ctx, key2, []byte("discarded")))
	third := newView(ts, state.Keys{key2str: state.Read}, map[string][]byte{})
	val, err = third.GetValue(ctx, key2)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestFlush(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()
	require.NoError(db.Put(key2, testVal))
	ts := New(10)

	tsv := newView(ts, state.Keys{key2str: state.All, string(testKey): state.All}, map[string][]byte{key2str: testVal})
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.NoError(tsv.Remove(ctx, key2))
	tsv.Commit()

	val, err := ts.GetValue(ctx, db, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	_, err = ts.GetValue(ctx, db, key2)
	require.ErrorIs(err, database.ErrNotFound)

	require.NoError(ts.Flush(ctx, db))
	require.Zero(ts.PendingChanges())
	require.Zero(ts.OpIndex())

	val, err = db.Get(testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	has, err := db.Has(key2)
	require.NoError(err)
	require.False(has)

	// Reads fall through to the database after a flush
	val, err = ts.GetValue(ctx, db, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
}
