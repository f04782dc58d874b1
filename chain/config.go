// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/starsfinance/nftcollection/consts"

type Config struct {
	// Workchain new treasuries and deployments live on.
	Workchain int8 `json:"workchain" yaml:"workchain"`
	// MaxMessagesPerSend bounds the cascade a single [Chain.Send] may
	// trigger.
	MaxMessagesPerSend int `json:"maxMessagesPerSend" yaml:"maxMessagesPerSend"`
	// RecentTransactions is how many transactions [Chain.Recent] keeps.
	RecentTransactions int `json:"recentTransactions" yaml:"recentTransactions"`
}

func NewDefaultConfig() Config {
	return Config{
		Workchain:          consts.BasechainID,
		MaxMessagesPerSend: 1_024,
		RecentTransactions: 256,
	}
}
