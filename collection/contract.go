// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"context"
	"math/big"

	"go.uber.org/zap"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/item"
	"github.com/starsfinance/nftcollection/utils"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

var _ chain.Contract = (*Contract)(nil)

// Params are fixed per code blob. Two collections with different Params
// run different code.
type Params struct {
	// RarityLimits caps how many items of each tier can be purchased.
	RarityLimits [RarityCount]uint64 `json:"rarityLimits" yaml:"rarityLimits"`
	// ProcessingAllowance is kept from every purchase fee and royalty
	// request.
	ProcessingAllowance uint64 `json:"processingAllowance" yaml:"processingAllowance"`
}

func DefaultParams() Params {
	p := Params{ProcessingAllowance: DefaultProcessingAllowance}
	copy(p.RarityLimits[:], utils.Repeat[uint64](DefaultRarityLimit, RarityCount))
	return p
}

func (p Params) toCell() (*codec.Cell, error) {
	b := codec.BeginCell()
	for _, limit := range p.RarityLimits {
		b.StoreUint(limit, 64)
	}
	b.StoreUint(p.ProcessingAllowance, 64)
	return b.EndCell()
}

// Code returns the code blob of a collection running with [p].
func Code(p Params) (*codec.Cell, error) {
	params, err := p.toCell()
	if err != nil {
		return nil, err
	}
	b := codec.BeginCell()
	b.StoreStringTail(codeName)
	b.StoreRef(params)
	return b.EndCell()
}

// Register binds a [Contract] running with [p] to its code, along with the
// item implementation, and returns the code.
func Register(r *chain.Registry, p Params) (*codec.Cell, error) {
	if err := item.Register(r); err != nil {
		return nil, err
	}
	code, err := Code(p)
	if err != nil {
		return nil, err
	}
	if _, ok := r.Lookup(code); ok {
		return code, nil
	}
	return code, r.Register(code, &Contract{params: p})
}

// Contract is the collection authority.
type Contract struct {
	params Params
}

func (k *Contract) Receive(ctx context.Context, c *chain.Context) error {
	if c.Message.Bounced {
		return nil
	}
	body := c.Message.BodySlice()
	if body.Empty() {
		return nil
	}
	op := uint32(body.LoadUint(32))
	queryID := body.LoadUint(64)
	if err := body.Err(); err != nil {
		return err
	}
	st, err := ParseState(c.Data)
	if err != nil {
		return err
	}

	switch op {
	case OpPurchase:
		err = k.purchase(ctx, c, st, queryID, body)
	case OpMint:
		err = k.mint(ctx, c, st, queryID, body)
	case OpChangeOwner:
		err = k.changeOwner(c, st, queryID, body)
	case OpChangeContent:
		err = k.changeContent(c, st, queryID, body)
	case OpChangeFee:
		err = k.changeFee(c, st, queryID, body)
	case OpGetRoyaltyParams:
		return k.reportRoyaltyParams(c, st, queryID)
	default:
		return chain.ErrUnknownOpcode
	}
	if err != nil {
		return err
	}
	data, err := st.ToCell()
	if err != nil {
		return err
	}
	c.SetData(data)
	return nil
}

// requireOwner guards every administrative message.
func requireOwner(st *State, sender codec.Address) error {
	if st.Owner.IsNone() || sender != st.Owner {
		return ErrUnauthorized
	}
	return nil
}

// nextIndex checks [index] against the collection and advances it.
func nextIndex(st *State, index uint64) error {
	if index != st.NextItemIndex {
		return ErrInvalidIndex
	}
	next, err := smath.Add(st.NextItemIndex, 1)
	if err != nil {
		return ErrInvalidIndex
	}
	st.NextItemIndex = next
	return nil
}

func (k *Contract) purchase(_ context.Context, c *chain.Context, st *State, queryID uint64, body *codec.Slice) error {
	p, rarity, err := loadPurchase(queryID, body, st.NextItemIndex)
	if err != nil {
		return err
	}

	// value >= fee >= amount + allowance
	fee := st.PurchaseFee
	reserved := new(big.Int).Add(coins(p.Amount), coins(k.params.ProcessingAllowance))
	if coins(c.Message.Value).Cmp(fee) < 0 {
		return ErrInsufficientValue
	}
	if fee.Cmp(reserved) < 0 {
		return ErrFeeBelowReserve
	}
	if st.RarityCounts[rarity] >= k.params.RarityLimits[rarity] {
		return ErrRarityLimitReached
	}

	if err := nextIndex(st, p.ItemIndex); err != nil {
		return err
	}
	st.RarityCounts[rarity]++

	content, err := item.ContentToCell(rarity.Filename())
	if err != nil {
		return err
	}
	init, err := (&item.InitBody{
		Owner:   p.Owner,
		Content: content,
		Editor:  st.Owner,
	}).ToCell()
	if err != nil {
		return err
	}
	if err := deployItem(c, st, p.ItemIndex, p.Amount, init); err != nil {
		return err
	}

	// fee fits in uint64 as it is at most the inbound value.
	forward := new(big.Int).Sub(fee, reserved).Uint64()
	if forward > 0 && !st.FeeAddress.IsNone() {
		c.Send(&chain.Message{
			Destination: st.FeeAddress,
			Value:       forward,
		})
	}
	c.Log.Debug("purchased item",
		zap.Uint64("index", p.ItemIndex),
		zap.Stringer("rarity", rarity),
		zap.Stringer("owner", p.Owner),
		zap.Uint64("forwarded", forward),
	)
	return nil
}

func (*Contract) mint(_ context.Context, c *chain.Context, st *State, queryID uint64, body *codec.Slice) error {
	if err := requireOwner(st, c.Message.Source); err != nil {
		return err
	}
	m, err := loadMint(queryID, body)
	if err != nil {
		return err
	}
	if err := nextIndex(st, m.ItemIndex); err != nil {
		return err
	}
	return deployItem(c, st, m.ItemIndex, m.Amount, m.Content)
}

// deployItem sends [body] with [amount] to the item [index], attaching the
// StateInit its address derives from.
func deployItem(c *chain.Context, st *State, index uint64, amount uint64, body *codec.Cell) error {
	init, err := (&item.Config{Index: index, Collection: c.Self}).StateInit(st.ItemCode)
	if err != nil {
		return err
	}
	addr, err := chain.ContractAddress(c.Self.Workchain, init)
	if err != nil {
		return err
	}
	c.Send(&chain.Message{
		Destination: addr,
		Value:       amount,
		Bounce:      true,
		Body:        body,
		StateInit:   init,
	})
	c.Log.Debug("deploying item",
		zap.Uint64("index", index),
		zap.Stringer("address", addr),
	)
	return nil
}

func (*Contract) changeOwner(c *chain.Context, st *State, queryID uint64, body *codec.Slice) error {
	if err := requireOwner(st, c.Message.Source); err != nil {
		return err
	}
	m, err := loadChangeOwner(queryID, body)
	if err != nil {
		return err
	}
	st.Owner = m.NewOwner
	return nil
}

func (*Contract) changeContent(c *chain.Context, st *State, queryID uint64, body *codec.Slice) error {
	if err := requireOwner(st, c.Message.Source); err != nil {
		return err
	}
	m, err := loadChangeContent(queryID, body)
	if err != nil {
		return err
	}
	st.Content = m.Content
	st.Royalty = m.Royalty
	return nil
}

func (*Contract) changeFee(c *chain.Context, st *State, queryID uint64, body *codec.Slice) error {
	if err := requireOwner(st, c.Message.Source); err != nil {
		return err
	}
	m, err := loadChangeFee(queryID, body)
	if err != nil {
		return err
	}
	st.PurchaseFee = m.Fee
	st.FeeAddress = m.FeeAddress
	return nil
}

// reportRoyaltyParams returns the inbound value, less the processing
// allowance, to the sender along with the royalty params.
func (k *Contract) reportRoyaltyParams(c *chain.Context, st *State, queryID uint64) error {
	royalty, err := loadRoyalty(st.Royalty.BeginParse())
	if err != nil {
		return err
	}
	body, err := (&ReportRoyaltyParams{QueryID: queryID, Royalty: *royalty}).ToCell()
	if err != nil {
		return err
	}
	value, err := smath.Sub(c.Message.Value, k.params.ProcessingAllowance)
	if err != nil {
		value = 0
	}
	c.Send(&chain.Message{
		Destination: c.Message.Source,
		Value:       value,
		Body:        body,
	})
	return nil
}
