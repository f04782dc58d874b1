// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package item

import (
	"context"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
)

// Provider reads contracts. [*chain.Chain] is a Provider.
type Provider interface {
	RunGetMethod(ctx context.Context, addr codec.Address, method string, args chain.Stack) (chain.Stack, error)
}

// Data is the result of get_nft_data.
type Data struct {
	Initialized bool
	Index       uint64
	Collection  codec.Address
	Owner       codec.Address
	Content     *codec.Cell
	Editor      codec.Address
}

type Client struct {
	provider Provider
	Address  codec.Address
}

func NewClient(p Provider, addr codec.Address) *Client {
	return &Client{provider: p, Address: addr}
}

// NewClientFromConfig returns a client for the item [cfg] derives.
func NewClientFromConfig(p Provider, workchain int8, cfg *Config) (*Client, error) {
	addr, err := Address(workchain, Code, cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(p, addr), nil
}

func (c *Client) GetNftData(ctx context.Context) (*Data, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodGetNftData, nil)
	if err != nil {
		return nil, err
	}
	d := &Data{}
	if d.Initialized, err = s.Bool(0); err != nil {
		return nil, err
	}
	if d.Index, err = s.Uint64(1); err != nil {
		return nil, err
	}
	if d.Collection, err = s.Address(2); err != nil {
		return nil, err
	}
	if d.Owner, err = s.Address(3); err != nil {
		return nil, err
	}
	if d.Content, err = s.Cell(4); err != nil {
		return nil, err
	}
	if d.Editor, err = s.Address(5); err != nil {
		return nil, err
	}
	return d, nil
}
