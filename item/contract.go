// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package item

import (
	"context"

	"go.uber.org/zap"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
)

var _ chain.Contract = (*Contract)(nil)

// Code identifies the item implementation on a [chain.Registry].
var Code = func() *codec.Cell {
	c, err := ContentToCell(codeName)
	if err != nil {
		panic(err)
	}
	return c
}()

// Register binds [Contract] to [Code] unless something already is.
func Register(r *chain.Registry) error {
	if _, ok := r.Lookup(Code); ok {
		return nil
	}
	return r.Register(Code, &Contract{})
}

// Contract is an item. It accepts exactly one initialization, from its
// collection, and holds value afterwards.
type Contract struct{}

func (*Contract) Receive(_ context.Context, c *chain.Context) error {
	if c.Message.Bounced {
		return nil
	}
	st, err := ParseState(c.Data)
	if err != nil {
		return err
	}
	body := c.Message.BodySlice()
	if st.Initialized {
		if body.Empty() {
			return nil
		}
		return chain.ErrUnknownOpcode
	}

	if c.Message.Source != st.Collection {
		return ErrNotFromCollection
	}
	init, err := loadInitBody(body)
	if err != nil {
		return err
	}
	st.Initialized = true
	st.InitBody = *init
	data, err := st.ToCell()
	if err != nil {
		return err
	}
	c.SetData(data)
	c.Log.Debug("initialized item",
		zap.Uint64("index", st.Index),
		zap.Stringer("collection", st.Collection),
		zap.Stringer("owner", st.Owner),
	)
	return nil
}

func (*Contract) Get(_ context.Context, c *chain.GetContext, method string, _ chain.Stack) (chain.Stack, error) {
	switch method {
	case MethodGetNftData:
		st, err := ParseState(c.Data)
		if err != nil {
			return nil, err
		}
		content := st.Content
		if content == nil {
			content = codec.EmptyCell()
		}
		return chain.NewStack(
			st.Initialized,
			st.Index,
			st.Collection,
			st.Owner,
			content,
			st.Editor,
		), nil
	default:
		return nil, chain.ErrUnknownMethod
	}
}
