// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"

	"github.com/starsfinance/nftcollection/codec"
)

var _ Contract = wallet{}

// WalletCode is the code of treasury wallets. Wallets accept every message
// and keep the value.
var WalletCode = func() *codec.Cell {
	b := codec.BeginCell()
	b.StoreStringTail("treasury-wallet-v1")
	c, err := b.EndCell()
	if err != nil {
		panic(err)
	}
	return c
}()

type wallet struct{}

func (wallet) Receive(context.Context, *Context) error {
	return nil
}

func (wallet) Get(_ context.Context, c *GetContext, method string, _ Stack) (Stack, error) {
	switch method {
	case "get_balance":
		return NewStack(c.Balance), nil
	default:
		return nil, ErrUnknownMethod
	}
}
