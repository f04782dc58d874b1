// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/starsfinance/nftcollection/storage"
)

type snapshotResponse struct {
	File     string `json:"file"`
	Accounts int    `json:"accounts"`
}

func (r snapshotResponse) String() string {
	return fmt.Sprintf("%d accounts in %s", r.Accounts, r.File)
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Write every account to a compressed snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(e *environment) error {
			f, err := os.OpenFile(args[0], os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perms.ReadWrite)
			if err != nil {
				return err
			}
			n, err := storage.Export(context.Background(), f, e.db)
			if err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to export: %w", err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			e.log.Info("exported snapshot", zap.String("file", args[0]), zap.Int("accounts", n))
			return printValue(cmd, snapshotResponse{File: args[0], Accounts: n})
		})
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Load accounts from a snapshot written by export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEnvironment(cmd, func(e *environment) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			n, err := storage.Import(context.Background(), f, e.db)
			if err != nil {
				return fmt.Errorf("failed to import: %w", err)
			}
			e.log.Info("imported snapshot", zap.String("file", args[0]), zap.Int("accounts", n))
			return printValue(cmd, snapshotResponse{File: args[0], Accounts: n})
		})
	},
}

func init() {
	rootCmd.AddCommand(exportCmd, importCmd)
}
