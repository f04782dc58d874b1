// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

const (
	HashLen   = 32
	Uint8Len  = 1
	Uint16Len = 2
	Uint32Len = 4
	Uint64Len = 8

	MaxUint8  = ^uint8(0)
	MaxUint16 = ^uint16(0)
	MaxUint64 = ^uint64(0)
	MaxUint   = ^uint(0)
	MaxInt    = int(MaxUint >> 1)
)

// Cell limits
const (
	MaxCellBits  = 1023
	MaxCellRefs  = 4
	MaxCellDepth = 1024

	// MaxCoinsBytes is the largest byte length a VarUInteger 16 can carry.
	MaxCoinsBytes = 15
)

// Workchains
const (
	MasterchainID int8 = -1
	BasechainID   int8 = 0
)

// NanoPerCoin is the number of smallest currency units in one whole coin.
const (
	CoinDecimals = 9
	NanoPerCoin  = 1_000_000_000
)
