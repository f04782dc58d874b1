// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pebble

import (
	"bytes"

	"github.com/ava-labs/avalanchego/database"
	"github.com/cockroachdb/pebble"
)

var _ database.Iterator = (*iterator)(nil)

type iterator struct {
	iter    *pebble.Iterator
	started bool
	valid   bool
	err     error
}

func (db *Database) NewIterator() database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, nil)
}

func (db *Database) NewIteratorWithStart(start []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(start, nil)
}

func (db *Database) NewIteratorWithPrefix(prefix []byte) database.Iterator {
	return db.NewIteratorWithStartAndPrefix(nil, prefix)
}

func (db *Database) NewIteratorWithStartAndPrefix(start, prefix []byte) database.Iterator {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if db.closed {
		return &database.IteratorError{Err: database.ErrClosed}
	}
	it, err := db.db.NewIter(keyRange(start, prefix))
	if err != nil {
		return &database.IteratorError{Err: updateError(err)}
	}
	return &iterator{iter: it}
}

func (it *iterator) Next() bool {
	if it.err != nil {
		return false
	}
	if !it.started {
		it.started = true
		it.valid = it.iter.First()
	} else {
		it.valid = it.iter.Next()
	}
	if !it.valid {
		it.err = it.iter.Error()
	}
	return it.valid
}

func (it *iterator) Error() error {
	return updateError(it.err)
}

func (it *iterator) Key() []byte {
	if !it.valid {
		return nil
	}
	return bytes.Clone(it.iter.Key())
}

func (it *iterator) Value() []byte {
	if !it.valid {
		return nil
	}
	return bytes.Clone(it.iter.Value())
}

func (it *iterator) Release() {
	_ = it.iter.Close()
}

// keyRange bounds an iterator to keys >= [start] that share [prefix].
func keyRange(start, prefix []byte) *pebble.IterOptions {
	opts := &pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixBound(prefix),
	}
	if bytes.Compare(start, prefix) == 1 {
		opts.LowerBound = start
	}
	return opts
}

// prefixBound returns the smallest key greater than every key with [prefix],
// or nil when no such key exists.
func prefixBound(prefix []byte) []byte {
	bound := bytes.Clone(prefix)
	for i := len(bound) - 1; i >= 0; i-- {
		bound[i]++
		if bound[i] != 0 {
			return bound[:i+1]
		}
	}
	return nil
}
