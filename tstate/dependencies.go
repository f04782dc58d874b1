// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "github.com/ava-labs/avalanchego/database"

type Database interface {
	database.KeyValueReader
	database.Batcher
}
