// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
)

// DefaultTreasuryBalance funds treasuries created by [NewTreasury].
const DefaultTreasuryBalance = 1_000_000 * 1_000_000_000

// NewChain returns a chain over an in-memory database.
func NewChain(t testing.TB, registry *chain.Registry) *chain.Chain {
	c, err := chain.New(
		logging.NoLog{},
		chain.NewDefaultConfig(),
		registry,
		memdb.New(),
		prometheus.NewRegistry(),
	)
	require.NoError(t, err)
	return c
}

// NewTreasury returns a wallet funded with [DefaultTreasuryBalance].
func NewTreasury(ctx context.Context, t testing.TB, c *chain.Chain, name string) codec.Address {
	addr, err := c.Treasury(ctx, name, DefaultTreasuryBalance)
	require.NoError(t, err)
	return addr
}

// ContractTest is a single parameterized test. It sends [Message] on
// [Chain] and checks that every expected transaction was produced.
type ContractTest struct {
	Name string

	Chain   *chain.Chain
	Message func() *chain.Message

	ExpectedErr          error
	ExpectedTransactions [][]Match

	Assertion func(context.Context, *testing.T, *chain.Chain, []*chain.Transaction)
}

// Run sends the message and makes sure all assertions pass.
func (test *ContractTest) Run(ctx context.Context, t *testing.T) {
	t.Run(test.Name, func(t *testing.T) {
		require := require.New(t)

		txs, err := test.Chain.Send(ctx, test.Message())
		require.ErrorIs(err, test.ExpectedErr)
		for _, expected := range test.ExpectedTransactions {
			RequireTransaction(t, txs, expected...)
		}

		if test.Assertion != nil {
			test.Assertion(ctx, t, test.Chain, txs)
		}
	})
}
