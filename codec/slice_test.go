// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/consts"
)

func TestSliceRoundTrip(t *testing.T) {
	require := require.New(t)

	var (
		owner = NewAddress(consts.BasechainID, ids.GenerateTestID())
		coins = new(big.Int).SetUint64(1_500_000_000)
		large = new(big.Int).Lsh(big.NewInt(1), 100)
		child = mustEnd(t, BeginCell())
	)
	b := BeginCell()
	b.StoreUint(0x0318f361, 32)
	b.StoreUint(42, 64)
	b.StoreInt(-1, 8)
	b.StoreBit(true)
	b.StoreCoins(coins)
	b.StoreCoins(new(big.Int))
	b.StoreCoins(large)
	b.StoreAddress(owner)
	b.StoreAddress(NoneAddress)
	b.StoreMaybeRef(nil)
	b.StoreMaybeRef(child)
	c := mustEnd(t, b)

	s := c.BeginParse()
	require.Equal(uint64(0x0318f361), s.PreloadUint(32))
	require.Equal(uint64(0x0318f361), s.LoadUint(32))
	require.Equal(uint64(42), s.LoadUint(64))
	require.Equal(int64(-1), s.LoadInt(8))
	require.True(s.LoadBit())
	require.Equal(uint64(1_500_000_000), s.LoadCoinsUint64())
	require.Zero(s.LoadCoins().Sign())
	require.Zero(large.Cmp(s.LoadCoins()))
	require.Equal(owner, s.LoadAddress())
	require.True(s.LoadAddress().IsNone())
	require.Nil(s.LoadMaybeRef())
	require.True(child.Equal(s.LoadMaybeRef()))
	require.NoError(s.Err())
	require.True(s.Empty())
}

func TestSliceErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func(*Builder)
		load  func(*Slice)
		err   error
	}{
		{
			name:  "not enough bits",
			build: func(b *Builder) { b.StoreUint(1, 8) },
			load:  func(s *Slice) { s.LoadUint(9) },
			err:   ErrNotEnoughBits,
		},
		{
			name:  "not enough refs",
			build: func(*Builder) {},
			load:  func(s *Slice) { s.LoadRef() },
			err:   ErrNotEnoughRefs,
		},
		{
			name:  "coins exceed 64 bits",
			build: func(b *Builder) { b.StoreCoins(new(big.Int).Lsh(big.NewInt(1), 64)) },
			load:  func(s *Slice) { s.LoadCoinsUint64() },
			err:   ErrValueTooLarge,
		},
		{
			name:  "external address",
			build: func(b *Builder) { b.StoreUint(0b01, 2) },
			load:  func(s *Slice) { s.LoadAddress() },
			err:   ErrInvalidAddress,
		},
		{
			name: "anycast address",
			build: func(b *Builder) {
				b.StoreUint(0b10, 2)
				b.StoreBit(true)
			},
			load: func(s *Slice) { s.LoadAddress() },
			err:  ErrInvalidAddress,
		},
		{
			name:  "truncated address",
			build: func(b *Builder) { b.StoreUint(0b100, 3) },
			load:  func(s *Slice) { s.LoadAddress() },
			err:   ErrNotEnoughBits,
		},
		{
			name:  "unaligned string",
			build: func(b *Builder) { b.StoreUint(1, 3) },
			load:  func(s *Slice) { s.LoadStringTail() },
			err:   ErrInvalidString,
		},
		{
			name:  "sticky",
			build: func(b *Builder) { b.StoreUint(1, 8) },
			load: func(s *Slice) {
				s.LoadRef()
				s.LoadUint(8)
			},
			err: ErrNotEnoughRefs,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			b := BeginCell()
			tt.build(b)
			s := mustEnd(t, b).BeginParse()
			tt.load(s)
			require.ErrorIs(s.Err(), tt.err)
			require.ErrorIs(s.Err(), ErrMalformedData)
		})
	}
}

func TestStringTail(t *testing.T) {
	tests := []struct {
		name     string
		prefix   int
		value    string
		depth    uint16
		topBytes int
	}{
		{
			name:  "empty",
			value: "",
		},
		{
			name:     "fits",
			value:    "common.json",
			topBytes: 11,
		},
		{
			name:     "spans three cells",
			value:    strings.Repeat("a", 300),
			depth:    2,
			topBytes: 127,
		},
		{
			name:     "after opcode",
			prefix:   32,
			value:    strings.Repeat("b", 200),
			depth:    1,
			topBytes: 123,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			b := BeginCell()
			b.StoreUint(0, tt.prefix)
			b.StoreStringTail(tt.value)
			c := mustEnd(t, b)
			require.Equal(tt.depth, c.Depth())
			require.Equal(tt.prefix+tt.topBytes*8, c.BitsLen())

			s := c.BeginParse()
			s.Skip(tt.prefix)
			require.Equal(tt.value, s.LoadStringTail())
			require.NoError(s.Err())
			require.True(s.Empty())
		})
	}
}

func TestToCell(t *testing.T) {
	require := require.New(t)

	b := BeginCell()
	b.StoreUint(0xa8cb00ad, 32)
	b.StoreUint(7, 64)
	b.StoreRef(EmptyCell())
	s := mustEnd(t, b).BeginParse()
	s.LoadUint(32)

	rest, err := s.ToCell()
	require.NoError(err)
	require.Equal(64, rest.BitsLen())
	require.Equal(1, rest.RefsLen())

	rs := rest.BeginParse()
	require.Equal(uint64(7), rs.LoadUint(64))
	require.True(EmptyCell().Equal(rs.LoadRef()))
}
