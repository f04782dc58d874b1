// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"context"
	"math/big"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/item"
)

// Provider sends messages and reads contracts. [*chain.Chain] is a
// Provider.
type Provider interface {
	item.Provider
	Send(ctx context.Context, msg *chain.Message) ([]*chain.Transaction, error)
}

// Client builds messages for, and reads, one collection.
type Client struct {
	provider Provider

	Address codec.Address
	// Init is set for clients created from a state and is attached to
	// [Client.SendDeploy].
	Init *chain.StateInit
}

func NewClient(p Provider, addr codec.Address) *Client {
	return &Client{provider: p, Address: addr}
}

// NewClientFromState returns a client for the collection that [code] and
// [st] derive.
func NewClientFromState(p Provider, workchain int8, st *State, code *codec.Cell) (*Client, error) {
	init, err := st.StateInit(code)
	if err != nil {
		return nil, err
	}
	addr, err := chain.ContractAddress(workchain, init)
	if err != nil {
		return nil, err
	}
	return &Client{provider: p, Address: addr, Init: init}, nil
}

type toCell interface {
	ToCell() (*codec.Cell, error)
}

func (c *Client) send(ctx context.Context, from codec.Address, value uint64, body toCell) ([]*chain.Transaction, error) {
	cell, err := body.ToCell()
	if err != nil {
		return nil, err
	}
	return c.provider.Send(ctx, &chain.Message{
		Source:      from,
		Destination: c.Address,
		Value:       value,
		Bounce:      true,
		Body:        cell,
	})
}

// SendDeploy sends [value] with an empty body and the client's StateInit.
func (c *Client) SendDeploy(ctx context.Context, from codec.Address, value uint64) ([]*chain.Transaction, error) {
	return c.provider.Send(ctx, &chain.Message{
		Source:      from,
		Destination: c.Address,
		Value:       value,
		Body:        codec.EmptyCell(),
		StateInit:   c.Init,
	})
}

func (c *Client) SendPurchase(ctx context.Context, from codec.Address, value uint64, p *Purchase) ([]*chain.Transaction, error) {
	return c.send(ctx, from, value, p)
}

func (c *Client) SendMint(ctx context.Context, from codec.Address, value uint64, m *Mint) ([]*chain.Transaction, error) {
	return c.send(ctx, from, value, m)
}

func (c *Client) SendChangeOwner(ctx context.Context, from codec.Address, value uint64, m *ChangeOwner) ([]*chain.Transaction, error) {
	return c.send(ctx, from, value, m)
}

func (c *Client) SendChangeContent(ctx context.Context, from codec.Address, value uint64, m *ChangeContent) ([]*chain.Transaction, error) {
	return c.send(ctx, from, value, m)
}

func (c *Client) SendChangeFee(ctx context.Context, from codec.Address, value uint64, m *ChangeFee) ([]*chain.Transaction, error) {
	return c.send(ctx, from, value, m)
}

func (c *Client) SendGetRoyaltyParams(ctx context.Context, from codec.Address, value uint64, queryID uint64) ([]*chain.Transaction, error) {
	return c.send(ctx, from, value, &GetRoyaltyParams{QueryID: queryID})
}

// CollectionData is the result of get_collection_data.
type CollectionData struct {
	NextItemIndex     uint64
	CollectionContent *codec.Cell
	Owner             codec.Address
}

func (c *Client) GetCollectionData(ctx context.Context) (*CollectionData, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodGetCollectionData, nil)
	if err != nil {
		return nil, err
	}
	d := &CollectionData{}
	if d.NextItemIndex, err = s.Uint64(0); err != nil {
		return nil, err
	}
	if d.CollectionContent, err = s.Cell(1); err != nil {
		return nil, err
	}
	if d.Owner, err = s.Address(2); err != nil {
		return nil, err
	}
	return d, nil
}

// GetContent returns the collection and common item metadata cells.
func (c *Client) GetContent(ctx context.Context) (*codec.Cell, *codec.Cell, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodGetContent, nil)
	if err != nil {
		return nil, nil, err
	}
	collectionMeta, err := s.Cell(0)
	if err != nil {
		return nil, nil, err
	}
	commonMeta, err := s.Cell(1)
	if err != nil {
		return nil, nil, err
	}
	return collectionMeta, commonMeta, nil
}

func (c *Client) GetNftAddressByIndex(ctx context.Context, index uint64) (codec.Address, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodGetNftAddressByIndex, chain.NewStack(index))
	if err != nil {
		return codec.NoneAddress, err
	}
	return s.Address(0)
}

func (c *Client) GetRoyaltyParams(ctx context.Context) (*Royalty, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodRoyaltyParams, nil)
	if err != nil {
		return nil, err
	}
	numerator, err := s.Uint64(0)
	if err != nil {
		return nil, err
	}
	denominator, err := s.Uint64(1)
	if err != nil {
		return nil, err
	}
	addr, err := s.Address(2)
	if err != nil {
		return nil, err
	}
	return &Royalty{
		Numerator:   uint16(numerator),
		Denominator: uint16(denominator),
		Address:     addr,
	}, nil
}

func (c *Client) GetNftContent(ctx context.Context, index uint64, individual *codec.Cell) (*codec.Cell, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodGetNftContent, chain.NewStack(index, individual))
	if err != nil {
		return nil, err
	}
	return s.Cell(0)
}

// GetFees returns the purchase fee and where it is forwarded.
func (c *Client) GetFees(ctx context.Context) (*big.Int, codec.Address, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodGetFees, nil)
	if err != nil {
		return nil, codec.NoneAddress, err
	}
	fee, err := s.Int(0)
	if err != nil {
		return nil, codec.NoneAddress, err
	}
	addr, err := s.Address(1)
	if err != nil {
		return nil, codec.NoneAddress, err
	}
	return fee, addr, nil
}

func (c *Client) GetRarityCount(ctx context.Context, r Rarity) (uint64, error) {
	s, err := c.provider.RunGetMethod(ctx, c.Address, MethodGetRarityCount, chain.NewStack(uint64(r)))
	if err != nil {
		return 0, err
	}
	return s.Uint64(0)
}

// Item returns a client for the item at [index].
func (c *Client) Item(ctx context.Context, index uint64) (*item.Client, error) {
	addr, err := c.GetNftAddressByIndex(ctx, index)
	if err != nil {
		return nil, err
	}
	return item.NewClient(c.provider, addr), nil
}
