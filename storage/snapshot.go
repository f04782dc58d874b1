// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ava-labs/avalanchego/database"
	"github.com/klauspost/compress/zstd"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/state"
)

// A snapshot is a zstd stream of JSON values: one [SnapshotHeader] followed
// by one [SnapshotAccount] per stored account.
const SnapshotVersion = 1

var ErrSnapshotVersion = errors.New("unsupported snapshot version")

type SnapshotHeader struct {
	Version     int    `json:"version"`
	LogicalTime uint64 `json:"logicalTime"`
}

type SnapshotAccount struct {
	Address codec.Address `json:"address"`
	// Record is the stored account BOC.
	Record codec.Bytes `json:"record"`
}

type SnapshotSource interface {
	database.KeyValueReader
	database.Iteratee
}

// Export writes every account in [db] to [w] and returns how many were
// written.
func Export(ctx context.Context, w io.Writer, db SnapshotSource) (int, error) {
	lt, err := GetLogicalTime(ctx, state.Reader{DB: db})
	if err != nil {
		return 0, err
	}
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return 0, err
	}
	out := json.NewEncoder(enc)
	if err := out.Encode(&SnapshotHeader{Version: SnapshotVersion, LogicalTime: lt}); err != nil {
		_ = enc.Close()
		return 0, err
	}

	it := db.NewIteratorWithPrefix([]byte{accountPrefix})
	defer it.Release()

	var n int
	for it.Next() {
		addr, err := ParseAccountKey(it.Key())
		if err != nil {
			_ = enc.Close()
			return n, err
		}
		if _, err := UnmarshalAccount(it.Value()); err != nil {
			_ = enc.Close()
			return n, fmt.Errorf("%w: account %s", err, addr)
		}
		if err := out.Encode(&SnapshotAccount{Address: addr, Record: it.Value()}); err != nil {
			_ = enc.Close()
			return n, err
		}
		n++
	}
	if err := it.Error(); err != nil {
		_ = enc.Close()
		return n, err
	}
	return n, enc.Close()
}

// Import writes the accounts and logical time of a snapshot to [db] in one
// batch and returns how many accounts were read.
func Import(_ context.Context, r io.Reader, db database.Batcher) (int, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return 0, err
	}
	defer dec.Close()

	in := json.NewDecoder(dec)
	var header SnapshotHeader
	if err := in.Decode(&header); err != nil {
		return 0, fmt.Errorf("snapshot header: %w", err)
	}
	if header.Version != SnapshotVersion {
		return 0, fmt.Errorf("%w: %d", ErrSnapshotVersion, header.Version)
	}

	batch := db.NewBatch()
	var n int
	for {
		var account SnapshotAccount
		err := in.Decode(&account)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return n, fmt.Errorf("snapshot account %d: %w", n, err)
		}
		if _, err := UnmarshalAccount(account.Record); err != nil {
			return n, fmt.Errorf("%w: account %s", err, account.Address)
		}
		if err := batch.Put(AccountKey(account.Address), account.Record); err != nil {
			return n, err
		}
		n++
	}
	if err := batch.Put(LogicalTimeKey(), database.PackUInt64(header.LogicalTime)); err != nil {
		return n, err
	}
	return n, batch.Write()
}
