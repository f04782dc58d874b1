// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"fmt"
	"math/big"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
)

// State is the persistent data of a collection. The field order of
// [State.ToCell] is read by indexers and must not change.
type State struct {
	Owner         codec.Address
	NextItemIndex uint64
	Content       *codec.Cell
	ItemCode      *codec.Cell
	Royalty       *codec.Cell
	PurchaseFee   *big.Int
	FeeAddress    codec.Address
	RarityCounts  [RarityCount]uint64
}

func (s *State) ToCell() (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreAddress(s.Owner)
	b.StoreUint(s.NextItemIndex, 64)
	b.StoreRef(s.Content)
	b.StoreRef(s.ItemCode)
	b.StoreRef(s.Royalty)
	b.StoreCoins(s.PurchaseFee)
	b.StoreAddress(s.FeeAddress)
	for _, n := range s.RarityCounts {
		b.StoreCoins(new(big.Int).SetUint64(n))
	}
	return b.EndCell()
}

// StateInit pairs [code] with the data of [s].
func (s *State) StateInit(code *codec.Cell) (*chain.StateInit, error) {
	data, err := s.ToCell()
	if err != nil {
		return nil, err
	}
	return &chain.StateInit{Code: code, Data: data}, nil
}

func ParseState(c *codec.Cell) (*State, error) {
	if c == nil {
		return nil, fmt.Errorf("collection state: %w", codec.ErrNotEnoughRefs)
	}
	sl := c.BeginParse()
	st := &State{
		Owner:         sl.LoadAddress(),
		NextItemIndex: sl.LoadUint(64),
		Content:       sl.LoadRef(),
		ItemCode:      sl.LoadRef(),
		Royalty:       sl.LoadRef(),
		PurchaseFee:   sl.LoadCoins(),
		FeeAddress:    sl.LoadAddress(),
	}
	for i := range st.RarityCounts {
		st.RarityCounts[i] = sl.LoadCoinsUint64()
	}
	if err := sl.Err(); err != nil {
		return nil, fmt.Errorf("collection state: %w", err)
	}
	return st, nil
}

// commonMeta returns the common item metadata past its tag.
func (s *State) commonMeta() (*codec.Slice, error) {
	if s.Content == nil || s.Content.RefsLen() < 2 {
		return nil, ErrInvalidContent
	}
	sl := s.Content.Ref(1).BeginParse()
	sl.Skip(8)
	if err := sl.Err(); err != nil {
		return nil, err
	}
	return sl, nil
}
