// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package item

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/chain/chaintest"
	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/codec/codectest"
)

const oneCoin = 1_000_000_000

func TestStateRoundTrip(t *testing.T) {
	collection := codectest.NewAddressWithSameDigits(9)
	content := codectest.StringCell("rare.json")

	tests := []struct {
		name  string
		state *State
	}{
		{
			name: "uninitialized",
			state: &State{
				Config:   Config{Index: 0, Collection: collection},
				InitBody: InitBody{Owner: codec.NoneAddress, Editor: codec.NoneAddress},
			},
		},
		{
			name: "initialized",
			state: &State{
				Config:      Config{Index: math.MaxUint64, Collection: collection},
				Initialized: true,
				InitBody: InitBody{
					Owner:   codectest.NewAddressWithSameDigits(1),
					Content: content,
					Editor:  codectest.NewAddressWithSameDigits(2),
				},
			},
		},
		{
			name: "initialized with empty content",
			state: &State{
				Config:      Config{Index: 7, Collection: collection},
				Initialized: true,
				InitBody: InitBody{
					Owner:   codectest.NewAddressWithSameDigits(1),
					Content: codec.EmptyCell(),
					Editor:  codec.NoneAddress,
				},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			c, err := tt.state.ToCell()
			require.NoError(err)
			parsed, err := ParseState(c)
			require.NoError(err)
			require.Equal(tt.state.Config, parsed.Config)
			require.Equal(tt.state.Initialized, parsed.Initialized)
			require.Equal(tt.state.Owner, parsed.Owner)
			require.Equal(tt.state.Editor, parsed.Editor)
			if tt.state.Content == nil {
				require.Nil(parsed.Content)
			} else {
				require.True(tt.state.Content.Equal(parsed.Content))
			}
		})
	}
}

func TestConfigLayout(t *testing.T) {
	require := require.New(t)

	cfg := &Config{Index: 1, Collection: codectest.NewAddressWithSameDigits(4)}
	c, err := cfg.ToCell()
	require.NoError(err)
	require.Equal(64+codec.StdAddressBits, c.BitsLen())
	require.Zero(c.RefsLen())

	a, err := Address(0, Code, cfg)
	require.NoError(err)
	b, err := Address(0, Code, &Config{Index: 1, Collection: cfg.Collection})
	require.NoError(err)
	require.Equal(a, b)

	other, err := Address(0, Code, &Config{Index: 2, Collection: cfg.Collection})
	require.NoError(err)
	require.NotEqual(a, other)
}

func TestParseStateErrors(t *testing.T) {
	require := require.New(t)

	_, err := ParseState(nil)
	require.ErrorIs(err, codec.ErrMalformedData)

	_, err = ParseState(codec.EmptyCell())
	require.ErrorIs(err, codec.ErrNotEnoughBits)

	b := codec.BeginCell()
	b.StoreUint(1, 64)
	b.StoreAddress(codectest.NewAddressWithSameDigits(1))
	b.StoreAddress(codectest.NewAddressWithSameDigits(2))
	_, err = ParseState(codectest.MustCell(b))
	require.ErrorIs(err, codec.ErrNotEnoughRefs)
}

func TestGetUninitialized(t *testing.T) {
	require := require.New(t)

	collection := codectest.NewAddressWithSameDigits(3)
	data, err := (&Config{Index: 12, Collection: collection}).ToCell()
	require.NoError(err)

	s, err := (&Contract{}).Get(context.Background(), &chain.GetContext{Data: data}, MethodGetNftData, nil)
	require.NoError(err)
	init, err := s.Bool(0)
	require.NoError(err)
	require.False(init)
	index, err := s.Uint64(1)
	require.NoError(err)
	require.Equal(uint64(12), index)
	got, err := s.Address(2)
	require.NoError(err)
	require.Equal(collection, got)
	owner, err := s.Address(3)
	require.NoError(err)
	require.True(owner.IsNone())

	_, err = (&Contract{}).Get(context.Background(), &chain.GetContext{Data: data}, "get_editor", nil)
	require.ErrorIs(err, chain.ErrUnknownMethod)
}

func TestInitialize(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()

	registry := chain.NewRegistry()
	require.NoError(Register(registry))
	require.NoError(Register(registry))
	c := chaintest.NewChain(t, registry)

	// A treasury stands in for the collection.
	collection := chaintest.NewTreasury(ctx, t, c, "collection")
	stranger := chaintest.NewTreasury(ctx, t, c, "stranger")
	owner := codectest.NewAddressWithSameDigits(1)
	editor := codectest.NewAddressWithSameDigits(2)

	cfg := &Config{Index: 3, Collection: collection}
	init, err := cfg.StateInit(Code)
	require.NoError(err)
	content, err := ContentToCell("common.json")
	require.NoError(err)
	body, err := (&InitBody{Owner: owner, Content: content, Editor: editor}).ToCell()
	require.NoError(err)

	addr, txs, err := c.Deploy(ctx, stranger, init, oneCoin, body)
	require.NoError(err)
	chaintest.RequireTransaction(t, txs, chaintest.To(addr), chaintest.Aborted(ExitCodeNotFromCollection))

	_, txs, err = c.Deploy(ctx, collection, init, oneCoin, body)
	require.NoError(err)
	chaintest.RequireTransaction(t, txs, chaintest.To(addr), chaintest.Deployed(), chaintest.Success())

	client, err := NewClientFromConfig(c, 0, cfg)
	require.NoError(err)
	require.Equal(addr, client.Address)
	data, err := client.GetNftData(ctx)
	require.NoError(err)
	require.True(data.Initialized)
	require.Equal(uint64(3), data.Index)
	require.Equal(collection, data.Collection)
	require.Equal(owner, data.Owner)
	require.True(content.Equal(data.Content))
	require.Equal(editor, data.Editor)

	// Initialization happens once.
	txs, err = c.Send(ctx, &chain.Message{
		Source:      collection,
		Destination: addr,
		Bounce:      true,
		Body:        body,
	})
	require.NoError(err)
	chaintest.RequireTransaction(t, txs, chaintest.To(addr), chaintest.Aborted(chain.ExitCodeUnknownOpcode))

	txs, err = c.Send(ctx, &chain.Message{
		Source:      stranger,
		Destination: addr,
		Value:       oneCoin,
		Bounce:      true,
	})
	require.NoError(err)
	chaintest.RequireTransaction(t, txs, chaintest.To(addr), chaintest.Success())

	bal, err := c.Balance(ctx, addr)
	require.NoError(err)
	require.Equal(uint64(3*oneCoin), bal)
}
