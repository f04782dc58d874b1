// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package main

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/utils"
)

type txResponse struct {
	LT       uint64        `json:"lt"`
	Account  codec.Address `json:"account"`
	Source   codec.Address `json:"source"`
	Value    string        `json:"value"`
	Opcode   string        `json:"opcode,omitempty"`
	Deploy   bool          `json:"deploy"`
	Success  bool          `json:"success"`
	ExitCode int32         `json:"exitCode"`
	Error    string        `json:"error,omitempty"`
}

func newTxResponse(tx *chain.Transaction) txResponse {
	r := txResponse{
		LT:       tx.LT,
		Account:  tx.Account,
		Source:   tx.InMessage.Source,
		Value:    utils.FormatBalance(new(big.Int).SetUint64(tx.InMessage.Value)),
		Deploy:   tx.Deploy,
		Success:  tx.Success,
		ExitCode: tx.ExitCode,
	}
	if op, ok := tx.InMessage.Opcode(); ok {
		r.Opcode = fmt.Sprintf("%#08x", op)
	}
	if tx.Err != nil {
		r.Error = tx.Err.Error()
	}
	return r
}

// printTransactions renders [txs] in execution order.
func printTransactions(cmd *cobra.Command, txs []*chain.Transaction) error {
	isJSON, err := isJSONOutputRequested(cmd)
	if err != nil {
		return err
	}
	responses := utils.Map(newTxResponse, txs)
	if isJSON {
		jsonBytes, err := json.MarshalIndent(responses, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(jsonBytes))
		return nil
	}
	utils.ForEach(func(r txResponse) {
		utils.Outf("{{yellow}}lt=%d{{/}} %s -> %s value=%s", r.LT, r.Source, r.Account, r.Value)
		if r.Opcode != "" {
			utils.Outf(" op=%s", r.Opcode)
		}
		if r.Deploy {
			utils.Outf(" {{cyan}}deployed{{/}}")
		}
		if r.Success {
			utils.Outf(" {{green}}ok{{/}}\n")
		} else {
			utils.Outf(" {{red}}exit %d{{/}}\n", r.ExitCode)
		}
		if r.Error != "" {
			utils.Outf("  {{red}}%s{{/}}\n", r.Error)
		}
	}, responses)
	return nil
}

func coinString(v *big.Int) string {
	return utils.FormatBalance(v) + " coins"
}
