// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/collection"
	"github.com/starsfinance/nftcollection/config"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the configured collection from --from",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEnvironment(cmd, func(e *environment) error {
			ctx := context.Background()
			deployer, err := e.sender(cmd)
			if err != nil {
				return err
			}
			st, err := e.cfg.Collection.State(deployer)
			if err != nil {
				return err
			}
			value, err := e.cfg.Collection.DeployAmount()
			if err != nil {
				return err
			}
			client, err := collection.NewClientFromState(e.chain, e.cfg.Chain.Workchain, st, e.code)
			if err != nil {
				return err
			}
			txs, err := client.SendDeploy(ctx, deployer, value)
			if err != nil {
				return fmt.Errorf("failed to deploy: %w", err)
			}
			if err := setConfigValue("collection", client.Address.String()); err != nil {
				return fmt.Errorf("failed to update config: %w", err)
			}
			e.log.Info("deployed collection",
				zap.Stringer("address", client.Address),
				zap.Stringer("owner", deployer),
			)
			if err := printTransactions(cmd, txs); err != nil {
				return err
			}
			return printValue(cmd, addressResponse{Address: client.Address})
		})
	},
}

type addressResponse struct {
	Address codec.Address `json:"address"`
}

func (r addressResponse) String() string {
	return "Address: " + r.Address.String()
}

var treasuryCmd = &cobra.Command{
	Use:   "treasury [name]",
	Short: "Create or top up a local funded wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, err := cmd.Flags().GetString("amount")
		if err != nil {
			return err
		}
		value, err := config.ParseAmount(amount)
		if err != nil {
			return fmt.Errorf("failed to parse amount: %w", err)
		}
		return withEnvironment(cmd, func(e *environment) error {
			ctx := context.Background()
			addr, err := e.chain.Treasury(ctx, args[0], value)
			if err != nil {
				return err
			}
			bal, err := e.chain.Balance(ctx, addr)
			if err != nil {
				return err
			}
			return printValue(cmd, balanceResponse{
				Address: addr,
				Balance: new(big.Int).SetUint64(bal),
			})
		})
	},
}

type balanceResponse struct {
	Address codec.Address `json:"address"`
	Balance *big.Int      `json:"balance"`
}

func (r balanceResponse) String() string {
	return fmt.Sprintf("%s: %s", r.Address, coinString(r.Balance))
}

func init() {
	treasuryCmd.Flags().String("amount", "1000", "Coins to add")
	rootCmd.AddCommand(deployCmd, treasuryCmd)
}
