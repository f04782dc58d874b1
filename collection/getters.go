// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"context"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/item"
)

func (*Contract) Get(_ context.Context, c *chain.GetContext, method string, args chain.Stack) (chain.Stack, error) {
	st, err := ParseState(c.Data)
	if err != nil {
		return nil, err
	}
	switch method {
	case MethodGetCollectionData:
		if st.Content.RefsLen() < 1 {
			return nil, ErrInvalidContent
		}
		return chain.NewStack(st.NextItemIndex, st.Content.Ref(0), st.Owner), nil

	case MethodGetContent:
		if st.Content.RefsLen() < 2 {
			return nil, ErrInvalidContent
		}
		return chain.NewStack(st.Content.Ref(0), st.Content.Ref(1)), nil

	case MethodGetNftAddressByIndex:
		index, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		addr, err := item.Address(c.Self.Workchain, st.ItemCode, &item.Config{Index: index, Collection: c.Self})
		if err != nil {
			return nil, err
		}
		return chain.NewStack(addr), nil

	case MethodRoyaltyParams:
		r, err := DecodeRoyalty(st.Royalty)
		if err != nil {
			return nil, err
		}
		return chain.NewStack(uint64(r.Numerator), uint64(r.Denominator), r.Address), nil

	case MethodGetNftContent:
		if _, err := args.Int(0); err != nil {
			return nil, err
		}
		individual, err := args.Cell(1)
		if err != nil {
			return nil, err
		}
		common, err := st.commonMeta()
		if err != nil {
			return nil, err
		}
		b := codec.BeginCell()
		b.StoreUint(ContentTagOffchain, 8)
		b.StoreSlice(common)
		b.StoreRef(individual)
		full, err := b.EndCell()
		if err != nil {
			return nil, err
		}
		return chain.NewStack(full), nil

	case MethodGetFees:
		return chain.NewStack(st.PurchaseFee, st.FeeAddress), nil

	case MethodGetRarityCount:
		tier, err := args.Uint64(0)
		if err != nil {
			return nil, err
		}
		rarity, ok := RarityFromUint64(tier)
		if !ok {
			return nil, ErrUnknownRarity
		}
		return chain.NewStack(st.RarityCounts[rarity]), nil

	default:
		return nil, chain.ErrUnknownMethod
	}
}
