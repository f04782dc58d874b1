// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Database is the committed store beneath a [tstate.TState]. Both
// avalanchego's memdb and our pebble wrapper satisfy it.
type Database interface {
	database.KeyValueReader
	database.Batcher
}

// Reader adapts a [Database] to [Immutable].
type Reader struct {
	DB database.KeyValueReader
}

func (r Reader) GetValue(_ context.Context, key []byte) ([]byte, error) {
	return r.DB.Get(key)
}
