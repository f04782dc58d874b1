// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/spf13/cobra"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/collection"
	"github.com/starsfinance/nftcollection/utils"
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read collection, item and account state",
}

// getCommand runs [f] against the configured collection.
func getCommand(f func(ctx context.Context, cmd *cobra.Command, c *collection.Client) (fmt.Stringer, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return withEnvironment(cmd, func(e *environment) error {
			c, err := e.collection(cmd)
			if err != nil {
				return err
			}
			v, err := f(context.Background(), cmd, c)
			if err != nil {
				return err
			}
			return printValue(cmd, v)
		})
	}
}

type collectionResponse struct {
	Address        codec.Address `json:"address"`
	NextItemIndex  uint64        `json:"nextItemIndex"`
	Owner          codec.Address `json:"owner"`
	CollectionMeta string        `json:"collectionMeta"`
}

func (r collectionResponse) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Collection: %s\n", r.Address)
	fmt.Fprintf(&sb, "Owner: %s\n", r.Owner)
	fmt.Fprintf(&sb, "Next item index: %d\n", r.NextItemIndex)
	fmt.Fprintf(&sb, "Metadata: %s", r.CollectionMeta)
	return sb.String()
}

var getCollectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Show get_collection_data",
	RunE: getCommand(func(ctx context.Context, _ *cobra.Command, c *collection.Client) (fmt.Stringer, error) {
		d, err := c.GetCollectionData(ctx)
		if err != nil {
			return nil, err
		}
		s := d.CollectionContent.BeginParse()
		s.Skip(8)
		meta := s.LoadStringTail()
		if err := s.Err(); err != nil {
			return nil, err
		}
		return collectionResponse{
			Address:        c.Address,
			NextItemIndex:  d.NextItemIndex,
			Owner:          d.Owner,
			CollectionMeta: meta,
		}, nil
	}),
}

type contentResponse collection.Content

func (r contentResponse) String() string {
	return fmt.Sprintf("Collection metadata: %s\nCommon metadata: %s", r.CollectionMeta, r.CommonMeta)
}

var getContentCmd = &cobra.Command{
	Use:   "content",
	Short: "Show the collection and common item metadata",
	RunE: getCommand(func(ctx context.Context, _ *cobra.Command, c *collection.Client) (fmt.Stringer, error) {
		collectionMeta, commonMeta, err := c.GetContent(ctx)
		if err != nil {
			return nil, err
		}
		content, err := collection.DecodeContent(collectionMeta, commonMeta)
		if err != nil {
			return nil, err
		}
		return contentResponse(*content), nil
	}),
}

type feesResponse struct {
	PurchaseFee *big.Int      `json:"purchaseFee"`
	FeeAddress  codec.Address `json:"feeAddress"`
}

func (r feesResponse) String() string {
	return fmt.Sprintf("Purchase fee: %s\nFee address: %s", coinString(r.PurchaseFee), r.FeeAddress)
}

var getFeesCmd = &cobra.Command{
	Use:   "fees",
	Short: "Show the purchase fee and fee address",
	RunE: getCommand(func(ctx context.Context, _ *cobra.Command, c *collection.Client) (fmt.Stringer, error) {
		fee, addr, err := c.GetFees(ctx)
		if err != nil {
			return nil, err
		}
		return feesResponse{PurchaseFee: fee, FeeAddress: addr}, nil
	}),
}

type royaltyResponse struct {
	Numerator   uint16        `json:"numerator"`
	Denominator uint16        `json:"denominator"`
	Address     codec.Address `json:"address"`
}

func (r royaltyResponse) String() string {
	return fmt.Sprintf("Royalty: %d/%d to %s", r.Numerator, r.Denominator, r.Address)
}

var getRoyaltyCmd = &cobra.Command{
	Use:   "royalty",
	Short: "Show the royalty params",
	RunE: getCommand(func(ctx context.Context, _ *cobra.Command, c *collection.Client) (fmt.Stringer, error) {
		r, err := c.GetRoyaltyParams(ctx)
		if err != nil {
			return nil, err
		}
		return royaltyResponse{Numerator: r.Numerator, Denominator: r.Denominator, Address: r.Address}, nil
	}),
}

type rarityResponse struct {
	Rarity string `json:"rarity"`
	Count  uint64 `json:"count"`
}

func (r rarityResponse) String() string {
	return fmt.Sprintf("%s: %d purchased", r.Rarity, r.Count)
}

type raritiesResponse []rarityResponse

func (r raritiesResponse) String() string {
	lines := make([]string, len(r))
	for i, v := range r {
		lines[i] = v.String()
	}
	return strings.Join(lines, "\n")
}

var getRarityCmd = &cobra.Command{
	Use:   "rarity [tier]",
	Short: "Show purchase counters, for one tier or all of them",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tiers := make([]collection.Rarity, 0, collection.RarityCount)
		if len(args) == 1 {
			r, err := collection.ParseRarity(args[0])
			if err != nil {
				return err
			}
			tiers = append(tiers, r)
		} else {
			for r := collection.Rarity(0); r < collection.RarityCount; r++ {
				tiers = append(tiers, r)
			}
		}
		return getCommand(func(ctx context.Context, _ *cobra.Command, c *collection.Client) (fmt.Stringer, error) {
			out := make(raritiesResponse, 0, len(tiers))
			for _, r := range tiers {
				n, err := c.GetRarityCount(ctx, r)
				if err != nil {
					return nil, err
				}
				out = append(out, rarityResponse{Rarity: r.String(), Count: n})
			}
			return out, nil
		})(cmd, args)
	},
}

var getAddressCmd = &cobra.Command{
	Use:   "address",
	Short: "Show the address of the item at --index",
	RunE: getCommand(func(ctx context.Context, cmd *cobra.Command, c *collection.Client) (fmt.Stringer, error) {
		index, err := cmd.Flags().GetUint64("index")
		if err != nil {
			return nil, err
		}
		addr, err := c.GetNftAddressByIndex(ctx, index)
		if err != nil {
			return nil, err
		}
		return addressResponse{Address: addr}, nil
	}),
}

type itemResponse struct {
	Address     codec.Address `json:"address"`
	Initialized bool          `json:"initialized"`
	Index       uint64        `json:"index"`
	Collection  codec.Address `json:"collection"`
	Owner       codec.Address `json:"owner"`
	Editor      codec.Address `json:"editor"`
	Content     string        `json:"content"`
}

func (r itemResponse) String() string {
	if !r.Initialized {
		return fmt.Sprintf("Item %d at %s is not initialized", r.Index, r.Address)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Item %d: %s\n", r.Index, r.Address)
	fmt.Fprintf(&sb, "Collection: %s\n", r.Collection)
	fmt.Fprintf(&sb, "Owner: %s\n", r.Owner)
	fmt.Fprintf(&sb, "Editor: %s\n", r.Editor)
	fmt.Fprintf(&sb, "Content: %s", r.Content)
	return sb.String()
}

var getItemCmd = &cobra.Command{
	Use:   "item",
	Short: "Show get_nft_data of the item at --index",
	RunE: getCommand(func(ctx context.Context, cmd *cobra.Command, c *collection.Client) (fmt.Stringer, error) {
		index, err := cmd.Flags().GetUint64("index")
		if err != nil {
			return nil, err
		}
		nft, err := c.Item(ctx, index)
		if err != nil {
			return nil, err
		}
		d, err := nft.GetNftData(ctx)
		if err != nil {
			return nil, err
		}
		r := itemResponse{
			Address:     nft.Address,
			Initialized: d.Initialized,
			Index:       d.Index,
			Collection:  d.Collection,
			Owner:       d.Owner,
			Editor:      d.Editor,
		}
		if d.Content == nil {
			return r, nil
		}
		r.Content = d.Content.BeginParse().LoadStringTail()
		out, err := cmd.Flags().GetString("content-out")
		if err != nil || out == "" {
			return r, err
		}
		b, err := codec.ToBOC(d.Content)
		if err != nil {
			return nil, err
		}
		return r, utils.SaveBytes(out, b)
	}),
}

var getBalanceCmd = &cobra.Command{
	Use:   "balance [name or address]",
	Short: "Show the balance of an account (defaults to --from)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(e *environment) error {
			addr, err := e.sender(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				addr = e.resolve(args[0])
			}
			bal, err := e.chain.Balance(context.Background(), addr)
			if err != nil {
				return err
			}
			return printValue(cmd, balanceResponse{Address: addr, Balance: new(big.Int).SetUint64(bal)})
		})
	},
}

func init() {
	getAddressCmd.Flags().Uint64("index", 0, "Item index")
	getItemCmd.Flags().Uint64("index", 0, "Item index")
	getItemCmd.Flags().String("content-out", "", "Write the content cell BOC to this file")

	getCmd.AddCommand(
		getCollectionCmd,
		getContentCmd,
		getFeesCmd,
		getRoyaltyCmd,
		getRarityCmd,
		getAddressCmd,
		getItemCmd,
		getBalanceCmd,
	)
	rootCmd.AddCommand(getCmd)
}
