// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chaintest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/utils"
)

// Match reports whether a transaction has some property.
type Match func(*chain.Transaction) bool

func From(addr codec.Address) Match {
	return func(tx *chain.Transaction) bool {
		return tx.InMessage.Source == addr
	}
}

func To(addr codec.Address) Match {
	return func(tx *chain.Transaction) bool {
		return tx.Account == addr
	}
}

func Op(op uint32) Match {
	return func(tx *chain.Transaction) bool {
		got, ok := tx.InMessage.Opcode()
		return ok && got == op
	}
}

func Value(v uint64) Match {
	return func(tx *chain.Transaction) bool {
		return tx.InMessage.Value == v
	}
}

func Success() Match {
	return func(tx *chain.Transaction) bool {
		return tx.Success
	}
}

func Deployed() Match {
	return func(tx *chain.Transaction) bool {
		return tx.Deploy
	}
}

func Bounced() Match {
	return func(tx *chain.Transaction) bool {
		return tx.InMessage.Bounced
	}
}

// Aborted matches transactions aborted with [code].
func Aborted(code int32) Match {
	return func(tx *chain.Transaction) bool {
		return tx.Aborted && tx.ExitCode == code
	}
}

// Find returns the first transaction matching every [matches].
func Find(txs []*chain.Transaction, matches ...Match) *chain.Transaction {
	for _, tx := range txs {
		if matchAll(tx, matches) {
			return tx
		}
	}
	return nil
}

// Count returns how many transactions match every [matches].
func Count(txs []*chain.Transaction, matches ...Match) int {
	var n int
	for _, tx := range txs {
		if matchAll(tx, matches) {
			n++
		}
	}
	return n
}

func matchAll(tx *chain.Transaction, matches []Match) bool {
	for _, m := range matches {
		if !m(tx) {
			return false
		}
	}
	return true
}

// RequireTransaction fails [t] unless some transaction matches every
// [matches].
func RequireTransaction(t testing.TB, txs []*chain.Transaction, matches ...Match) *chain.Transaction {
	tx := Find(txs, matches...)
	require.NotNil(t, tx, "no matching transaction in:\n%s", Describe(txs))
	return tx
}

// RequireNoTransaction fails [t] if any transaction matches every
// [matches].
func RequireNoTransaction(t testing.TB, txs []*chain.Transaction, matches ...Match) {
	tx := Find(txs, matches...)
	require.Nil(t, tx, "unexpected transaction in:\n%s", Describe(txs))
}

// Describe renders one line per transaction.
func Describe(txs []*chain.Transaction) string {
	return strings.Join(utils.Map(func(tx *chain.Transaction) string {
		return fmt.Sprintf(
			"lt=%d %s success=%t exit=%d deploy=%t out=%d",
			tx.LT,
			tx.InMessage,
			tx.Success,
			tx.ExitCode,
			tx.Deploy,
			len(tx.OutMessages),
		)
	}, txs), "\n")
}
