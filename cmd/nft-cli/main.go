// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nft-cli",
	Short: "Deploy and drive an NFT collection on a local chain",
	Long: `A CLI for deploying an NFT collection to a local pebble-backed chain,
purchasing and minting items, administering the collection and reading its
state.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	os.Exit(0)
}

func init() {
	rootCmd.PersistentFlags().StringP("output", "o", "text", "Output format (text or json)")
	rootCmd.PersistentFlags().String("config", "", "Deployment and chain configuration (YAML)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding the chain database")
	rootCmd.PersistentFlags().String("log-level", "", "Override the configured log level")
	rootCmd.PersistentFlags().String("from", "deployer", "Sending treasury name or address")
	rootCmd.PersistentFlags().String("collection", "", "Collection address (defaults to the last deployment)")
}

func main() {
	Execute()
}
