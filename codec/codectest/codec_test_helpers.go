// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codectest

import (
	"github.com/ava-labs/avalanchego/ids"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/consts"
)

// NewRandomAddress returns a random basechain address
// for use during testing
func NewRandomAddress() codec.Address {
	return codec.NewAddress(consts.BasechainID, ids.GenerateTestID())
}

// NewAddressWithSameDigits returns the basechain address whose account id
// is 32 copies of d.
func NewAddressWithSameDigits(d byte) codec.Address {
	var id ids.ID
	for i := range id {
		id[i] = d
	}
	return codec.NewAddress(consts.BasechainID, id)
}

// MustCell ends b and panics on failure.
func MustCell(b *codec.Builder) *codec.Cell {
	c, err := b.EndCell()
	if err != nil {
		panic(err)
	}
	return c
}

// StringCell returns a cell holding s as a snake string.
func StringCell(s string) *codec.Cell {
	b := codec.BeginCell()
	b.StoreStringTail(s)
	return MustCell(b)
}
