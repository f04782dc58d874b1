// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var _ Scope = (*DefaultScope)(nil)

type Scope interface {
	Has(key []byte, perm Permissions) bool
	GetValue(ctx context.Context, key []byte) ([]byte, error)
	Len() int
}

// DefaultScope grants [keys] and serves their values as they were before
// execution started. Keys missing from [storage] do not exist yet.
type DefaultScope struct {
	keys    Keys
	storage map[string][]byte
}

func NewDefaultScope(keys Keys, storage map[string][]byte) *DefaultScope {
	return &DefaultScope{
		keys:    keys,
		storage: storage,
	}
}

func (d *DefaultScope) GetValue(_ context.Context, key []byte) ([]byte, error) {
	if v, has := d.storage[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

func (d *DefaultScope) Has(key []byte, perm Permissions) bool {
	return d.keys[string(key)].Has(perm)
}

func (d *DefaultScope) Len() int {
	return len(d.keys)
}
