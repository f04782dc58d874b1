// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/collection"
	"github.com/starsfinance/nftcollection/config"
	"github.com/starsfinance/nftcollection/item"
	"github.com/starsfinance/nftcollection/utils"
)

// amountFlag parses a decimal coin flag into nano units.
func amountFlag(cmd *cobra.Command, name string) (uint64, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return 0, err
	}
	v, err := config.ParseAmount(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return v, nil
}

// addressFlag resolves an address or treasury flag, defaulting to
// [fallback] when unset.
func addressFlag(cmd *cobra.Command, e *environment, name string, fallback codec.Address) (codec.Address, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return codec.NoneAddress, err
	}
	if s == "" {
		return fallback, nil
	}
	return e.resolve(s), nil
}

// itemIndexFlag defaults to the next index of the collection.
func itemIndexFlag(ctx context.Context, cmd *cobra.Command, c *collection.Client) (uint64, error) {
	if cmd.Flags().Changed("index") {
		return cmd.Flags().GetUint64("index")
	}
	d, err := c.GetCollectionData(ctx)
	if err != nil {
		return 0, err
	}
	return d.NextItemIndex, nil
}

// collectionCommand runs [f] with the sender and collection client of
// [cmd], printing the resulting transactions.
func collectionCommand(
	f func(ctx context.Context, cmd *cobra.Command, e *environment, from codec.Address, c *collection.Client) ([]*chain.Transaction, error),
) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		return withEnvironment(cmd, func(e *environment) error {
			ctx := context.Background()
			from, err := e.sender(cmd)
			if err != nil {
				return err
			}
			c, err := e.collection(cmd)
			if err != nil {
				return err
			}
			txs, err := f(ctx, cmd, e, from, c)
			if err != nil {
				return err
			}
			return printTransactions(cmd, txs)
		})
	}
}

var purchaseCmd = &cobra.Command{
	Use:   "purchase",
	Short: "Purchase the next item at a rarity tier",
	RunE: collectionCommand(func(ctx context.Context, cmd *cobra.Command, e *environment, from codec.Address, c *collection.Client) ([]*chain.Transaction, error) {
		name, err := cmd.Flags().GetString("rarity")
		if err != nil {
			return nil, err
		}
		rarity, err := collection.ParseRarity(name)
		if err != nil {
			return nil, err
		}
		index, err := itemIndexFlag(ctx, cmd, c)
		if err != nil {
			return nil, err
		}
		owner, err := addressFlag(cmd, e, "owner", from)
		if err != nil {
			return nil, err
		}
		amount, err := amountFlag(cmd, "amount")
		if err != nil {
			return nil, err
		}
		var value uint64
		if cmd.Flags().Changed("value") {
			value, err = amountFlag(cmd, "value")
		} else {
			value, err = purchaseFee(ctx, c)
		}
		if err != nil {
			return nil, err
		}
		return c.SendPurchase(ctx, from, value, &collection.Purchase{
			ItemIndex: index,
			Rarity:    uint64(rarity),
			Owner:     owner,
			Amount:    amount,
		})
	}),
}

func purchaseFee(ctx context.Context, c *collection.Client) (uint64, error) {
	fee, _, err := c.GetFees(ctx)
	if err != nil {
		return 0, err
	}
	if !fee.IsUint64() {
		return 0, config.ErrAmountTooLarge
	}
	return fee.Uint64(), nil
}

var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint an item with arbitrary content (owner only)",
	RunE: collectionCommand(func(ctx context.Context, cmd *cobra.Command, e *environment, from codec.Address, c *collection.Client) ([]*chain.Transaction, error) {
		index, err := itemIndexFlag(ctx, cmd, c)
		if err != nil {
			return nil, err
		}
		body, err := mintBody(cmd, e, from)
		if err != nil {
			return nil, err
		}
		amount, err := amountFlag(cmd, "amount")
		if err != nil {
			return nil, err
		}
		value, err := amountFlag(cmd, "value")
		if err != nil {
			return nil, err
		}
		return c.SendMint(ctx, from, value, &collection.Mint{
			ItemIndex: index,
			Amount:    amount,
			Content:   body,
		})
	}),
}

// mintBody is the item init body of a mint: a raw BOC from --body or
// --body-file, or else built from the owner, content and editor flags.
func mintBody(cmd *cobra.Command, e *environment, from codec.Address) (*codec.Cell, error) {
	raw, err := cmd.Flags().GetString("body")
	if err != nil {
		return nil, err
	}
	if raw != "" {
		return codec.ParseCell(raw)
	}
	file, err := cmd.Flags().GetString("body-file")
	if err != nil {
		return nil, err
	}
	if file != "" {
		b, err := utils.LoadBytes(file, -1)
		if err != nil {
			return nil, err
		}
		return codec.FromBOC(b)
	}

	owner, err := addressFlag(cmd, e, "owner", from)
	if err != nil {
		return nil, err
	}
	editor, err := addressFlag(cmd, e, "editor", owner)
	if err != nil {
		return nil, err
	}
	content, err := cmd.Flags().GetString("content")
	if err != nil {
		return nil, err
	}
	contentCell, err := item.ContentToCell(content)
	if err != nil {
		return nil, err
	}
	return (&item.InitBody{Owner: owner, Content: contentCell, Editor: editor}).ToCell()
}

var changeOwnerCmd = &cobra.Command{
	Use:   "change-owner",
	Short: "Transfer ownership of the collection",
	RunE: collectionCommand(func(ctx context.Context, cmd *cobra.Command, e *environment, from codec.Address, c *collection.Client) ([]*chain.Transaction, error) {
		owner, err := addressFlag(cmd, e, "new-owner", codec.NoneAddress)
		if err != nil {
			return nil, err
		}
		value, err := amountFlag(cmd, "value")
		if err != nil {
			return nil, err
		}
		return c.SendChangeOwner(ctx, from, value, &collection.ChangeOwner{NewOwner: owner})
	}),
}

var changeContentCmd = &cobra.Command{
	Use:   "change-content",
	Short: "Replace the collection metadata and royalty params",
	RunE: collectionCommand(func(ctx context.Context, cmd *cobra.Command, e *environment, from codec.Address, c *collection.Client) ([]*chain.Transaction, error) {
		collectionMeta, err := cmd.Flags().GetString("collection-meta")
		if err != nil {
			return nil, err
		}
		commonMeta, err := cmd.Flags().GetString("common-meta")
		if err != nil {
			return nil, err
		}
		numerator, err := cmd.Flags().GetUint16("royalty-numerator")
		if err != nil {
			return nil, err
		}
		denominator, err := cmd.Flags().GetUint16("royalty-denominator")
		if err != nil {
			return nil, err
		}
		royaltyAddr, err := addressFlag(cmd, e, "royalty-address", from)
		if err != nil {
			return nil, err
		}
		content, err := collection.EncodeContent(collectionMeta, commonMeta)
		if err != nil {
			return nil, err
		}
		royalty, err := collection.EncodeRoyalty(numerator, denominator, royaltyAddr)
		if err != nil {
			return nil, err
		}
		value, err := amountFlag(cmd, "value")
		if err != nil {
			return nil, err
		}
		return c.SendChangeContent(ctx, from, value, &collection.ChangeContent{Content: content, Royalty: royalty})
	}),
}

var changeFeeCmd = &cobra.Command{
	Use:   "change-fee",
	Short: "Set the purchase fee and where it is forwarded",
	RunE: collectionCommand(func(ctx context.Context, cmd *cobra.Command, e *environment, from codec.Address, c *collection.Client) ([]*chain.Transaction, error) {
		s, err := cmd.Flags().GetString("fee")
		if err != nil {
			return nil, err
		}
		fee, err := utils.ParseBalance(s)
		if err != nil {
			return nil, fmt.Errorf("failed to parse fee: %w", err)
		}
		feeAddr, err := addressFlag(cmd, e, "fee-address", from)
		if err != nil {
			return nil, err
		}
		value, err := amountFlag(cmd, "value")
		if err != nil {
			return nil, err
		}
		return c.SendChangeFee(ctx, from, value, &collection.ChangeFee{Fee: fee, FeeAddress: feeAddr})
	}),
}

var royaltyRequestCmd = &cobra.Command{
	Use:   "royalty-request",
	Short: "Ask the collection to report its royalty params",
	RunE: collectionCommand(func(ctx context.Context, cmd *cobra.Command, _ *environment, from codec.Address, c *collection.Client) ([]*chain.Transaction, error) {
		queryID, err := cmd.Flags().GetUint64("query-id")
		if err != nil {
			return nil, err
		}
		value, err := amountFlag(cmd, "value")
		if err != nil {
			return nil, err
		}
		txs, err := c.SendGetRoyaltyParams(ctx, from, value, queryID)
		if err != nil {
			return nil, err
		}
		for _, tx := range txs {
			if op, ok := tx.InMessage.Opcode(); !ok || op != collection.OpReportRoyaltyParams {
				continue
			}
			report, err := collection.ParseReportRoyaltyParams(tx.InMessage.Body)
			if err != nil {
				return nil, err
			}
			if err := printValue(cmd, royaltyResponse{
				Numerator:   report.Royalty.Numerator,
				Denominator: report.Royalty.Denominator,
				Address:     report.Royalty.Address,
			}); err != nil {
				return nil, err
			}
		}
		return txs, nil
	}),
}

func init() {
	purchaseCmd.Flags().String("rarity", "common", "Rarity tier name")
	purchaseCmd.Flags().Uint64("index", 0, "Item index (defaults to the next index)")
	purchaseCmd.Flags().String("owner", "", "Owner of the new item (defaults to --from)")
	purchaseCmd.Flags().String("amount", "0.05", "Coins forwarded to the new item")
	purchaseCmd.Flags().String("value", "", "Coins attached (defaults to the purchase fee)")

	mintCmd.Flags().Uint64("index", 0, "Item index (defaults to the next index)")
	mintCmd.Flags().String("owner", "", "Owner of the new item (defaults to --from)")
	mintCmd.Flags().String("editor", "", "Editor of the new item (defaults to the owner)")
	mintCmd.Flags().String("content", "", "Individual item content")
	mintCmd.Flags().String("body", "", "Raw init body as a hex or base64 BOC")
	mintCmd.Flags().String("body-file", "", "Raw init body BOC file")
	mintCmd.Flags().String("amount", "0.05", "Coins forwarded to the new item")
	mintCmd.Flags().String("value", "0.1", "Coins attached")

	changeOwnerCmd.Flags().String("new-owner", "", "New owner address or treasury name")
	if err := changeOwnerCmd.MarkFlagRequired("new-owner"); err != nil {
		panic(err)
	}

	defaults := config.NewDefaultCollection()
	changeContentCmd.Flags().String("collection-meta", defaults.CollectionMeta, "Collection metadata URL")
	changeContentCmd.Flags().String("common-meta", defaults.CommonMeta, "Common item metadata prefix")
	changeContentCmd.Flags().Uint16("royalty-numerator", defaults.RoyaltyNumerator, "Royalty numerator")
	changeContentCmd.Flags().Uint16("royalty-denominator", defaults.RoyaltyDenominator, "Royalty denominator")
	changeContentCmd.Flags().String("royalty-address", "", "Royalty destination (defaults to --from)")

	changeFeeCmd.Flags().String("fee", defaults.PurchaseFee, "Purchase fee in coins")
	changeFeeCmd.Flags().String("fee-address", "", "Fee destination (defaults to --from)")

	royaltyRequestCmd.Flags().Uint64("query-id", 0, "Query id echoed in the report")

	for _, cmd := range []*cobra.Command{changeOwnerCmd, changeContentCmd, changeFeeCmd, royaltyRequestCmd} {
		cmd.Flags().String("value", "0.05", "Coins attached")
	}
	rootCmd.AddCommand(purchaseCmd, mintCmd, changeOwnerCmd, changeContentCmd, changeFeeCmd, royaltyRequestCmd)
}
