// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"fmt"
	"math/big"

	"github.com/starsfinance/nftcollection/codec"
)

// Every body starts with op:uint32 query_id:uint64.
func beginBody(op uint32, queryID uint64) *codec.Builder {
	b := codec.BeginCell()
	b.StoreUint(uint64(op), 32)
	b.StoreUint(queryID, 64)
	return b
}

func coins(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// Purchase buys item ItemIndex of tier Rarity for Owner. Amount is left on
// the item.
type Purchase struct {
	QueryID   uint64
	ItemIndex uint64
	Rarity    uint64
	Owner     codec.Address
	Amount    uint64
}

func (p *Purchase) ToCell() (*codec.Cell, error) {
	b := beginBody(OpPurchase, p.QueryID)
	b.StoreUint(p.ItemIndex, 64)
	b.StoreCoins(coins(p.Rarity))
	b.StoreAddress(p.Owner)
	b.StoreCoins(coins(p.Amount))
	return b.EndCell()
}

// loadPurchase decodes a purchase body. The index is checked against [next]
// and the tier against the supported set before the remaining fields are
// read, so those failures win over malformed trailing data.
func loadPurchase(queryID uint64, s *codec.Slice, next uint64) (*Purchase, Rarity, error) {
	p := &Purchase{
		QueryID:   queryID,
		ItemIndex: s.LoadUint(64),
	}
	if err := s.Err(); err != nil {
		return nil, 0, fmt.Errorf("purchase: %w", err)
	}
	if p.ItemIndex != next {
		return nil, 0, ErrInvalidIndex
	}
	tier := s.LoadCoins()
	if err := s.Err(); err != nil {
		return nil, 0, fmt.Errorf("purchase: %w", err)
	}
	rarity, ok := RarityFromCoins(tier)
	if !ok {
		return nil, 0, ErrUnknownRarity
	}
	p.Rarity = uint64(rarity)
	p.Owner = s.LoadAddress()
	p.Amount = s.LoadCoinsUint64()
	if err := s.Err(); err != nil {
		return nil, 0, fmt.Errorf("purchase: %w", err)
	}
	return p, rarity, nil
}

// Mint deploys item ItemIndex with Content as its initialization body.
type Mint struct {
	QueryID   uint64
	ItemIndex uint64
	Amount    uint64
	Content   *codec.Cell
}

func (m *Mint) ToCell() (*codec.Cell, error) {
	b := beginBody(OpMint, m.QueryID)
	b.StoreUint(m.ItemIndex, 64)
	b.StoreCoins(coins(m.Amount))
	b.StoreRef(m.Content)
	return b.EndCell()
}

func loadMint(queryID uint64, s *codec.Slice) (*Mint, error) {
	m := &Mint{
		QueryID:   queryID,
		ItemIndex: s.LoadUint(64),
		Amount:    s.LoadCoinsUint64(),
		Content:   s.LoadRef(),
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("mint: %w", err)
	}
	return m, nil
}

type ChangeOwner struct {
	QueryID  uint64
	NewOwner codec.Address
}

func (c *ChangeOwner) ToCell() (*codec.Cell, error) {
	b := beginBody(OpChangeOwner, c.QueryID)
	b.StoreAddress(c.NewOwner)
	return b.EndCell()
}

func loadChangeOwner(queryID uint64, s *codec.Slice) (*ChangeOwner, error) {
	c := &ChangeOwner{
		QueryID:  queryID,
		NewOwner: s.LoadAddress(),
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("change owner: %w", err)
	}
	return c, nil
}

// ChangeContent replaces both the content and the royalty params.
type ChangeContent struct {
	QueryID uint64
	Content *codec.Cell
	Royalty *codec.Cell
}

func (c *ChangeContent) ToCell() (*codec.Cell, error) {
	b := beginBody(OpChangeContent, c.QueryID)
	b.StoreRef(c.Content)
	b.StoreRef(c.Royalty)
	return b.EndCell()
}

func loadChangeContent(queryID uint64, s *codec.Slice) (*ChangeContent, error) {
	c := &ChangeContent{
		QueryID: queryID,
		Content: s.LoadRef(),
		Royalty: s.LoadRef(),
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("change content: %w", err)
	}
	return c, nil
}

type ChangeFee struct {
	QueryID    uint64
	Fee        *big.Int
	FeeAddress codec.Address
}

func (c *ChangeFee) ToCell() (*codec.Cell, error) {
	b := beginBody(OpChangeFee, c.QueryID)
	b.StoreCoins(c.Fee)
	b.StoreAddress(c.FeeAddress)
	return b.EndCell()
}

func loadChangeFee(queryID uint64, s *codec.Slice) (*ChangeFee, error) {
	c := &ChangeFee{
		QueryID:    queryID,
		Fee:        s.LoadCoins(),
		FeeAddress: s.LoadAddress(),
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("change fee: %w", err)
	}
	return c, nil
}

type GetRoyaltyParams struct {
	QueryID uint64
}

func (g *GetRoyaltyParams) ToCell() (*codec.Cell, error) {
	return beginBody(OpGetRoyaltyParams, g.QueryID).EndCell()
}

// ReportRoyaltyParams answers [GetRoyaltyParams].
type ReportRoyaltyParams struct {
	QueryID uint64
	Royalty
}

func (r *ReportRoyaltyParams) ToCell() (*codec.Cell, error) {
	b := beginBody(OpReportRoyaltyParams, r.QueryID)
	b.StoreUint(uint64(r.Numerator), 16)
	b.StoreUint(uint64(r.Denominator), 16)
	b.StoreAddress(r.Address)
	return b.EndCell()
}

// ParseReportRoyaltyParams decodes a full report body, opcode included.
func ParseReportRoyaltyParams(c *codec.Cell) (*ReportRoyaltyParams, error) {
	if c == nil {
		return nil, fmt.Errorf("report royalty params: %w", codec.ErrNotEnoughBits)
	}
	s := c.BeginParse()
	op := uint32(s.LoadUint(32))
	queryID := s.LoadUint(64)
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("report royalty params: %w", err)
	}
	if op != OpReportRoyaltyParams {
		return nil, fmt.Errorf("%w: %#08x", codec.ErrMalformedData, op)
	}
	r, err := loadRoyalty(s)
	if err != nil {
		return nil, err
	}
	return &ReportRoyaltyParams{QueryID: queryID, Royalty: *r}, nil
}
