// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"math"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/codec/codectest"
	"github.com/starsfinance/nftcollection/item"
)

func testState(t *testing.T) *State {
	content, err := EncodeContent("collection.json", "items/")
	require.NoError(t, err)
	royalty, err := EncodeRoyalty(10, 100, codectest.NewAddressWithSameDigits(2))
	require.NoError(t, err)
	return &State{
		Owner:         codectest.NewAddressWithSameDigits(1),
		NextItemIndex: 0,
		Content:       content,
		ItemCode:      item.Code,
		Royalty:       royalty,
		PurchaseFee:   big.NewInt(1_000_000_000),
		FeeAddress:    codectest.NewAddressWithSameDigits(3),
	}
}

func requireStateEqual(t *testing.T, expected, actual *State) {
	require := require.New(t)

	require.Equal(expected.Owner, actual.Owner)
	require.Equal(expected.NextItemIndex, actual.NextItemIndex)
	require.True(expected.Content.Equal(actual.Content))
	require.True(expected.ItemCode.Equal(actual.ItemCode))
	require.True(expected.Royalty.Equal(actual.Royalty))
	require.Zero(expected.PurchaseFee.Cmp(actual.PurchaseFee))
	require.Equal(expected.FeeAddress, actual.FeeAddress)
	require.Equal(expected.RarityCounts, actual.RarityCounts)
}

func TestStateRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*State)
	}{
		{
			name:   "defaults",
			modify: func(*State) {},
		},
		{
			name: "zero fee",
			modify: func(s *State) {
				s.PurchaseFee = new(big.Int)
			},
		},
		{
			name: "max index",
			modify: func(s *State) {
				s.NextItemIndex = math.MaxUint64
			},
		},
		{
			name: "empty content",
			modify: func(s *State) {
				content, err := EncodeContent("", "")
				require.NoError(t, err)
				s.Content = content
			},
		},
		{
			name: "counters",
			modify: func(s *State) {
				s.RarityCounts = [RarityCount]uint64{0, 1001, 2, math.MaxUint64, 4, 5}
			},
		},
		{
			name: "no fee address",
			modify: func(s *State) {
				s.FeeAddress = codec.NoneAddress
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			st := testState(t)
			tt.modify(st)
			c, err := st.ToCell()
			require.NoError(err)
			require.Equal(3, c.RefsLen())

			parsed, err := ParseState(c)
			require.NoError(err)
			requireStateEqual(t, st, parsed)
		})
	}
}

func TestStateLayout(t *testing.T) {
	require := require.New(t)

	st := testState(t)
	st.NextItemIndex = 0x0102030405060708
	c, err := st.ToCell()
	require.NoError(err)

	s := c.BeginParse()
	require.Equal(st.Owner, s.LoadAddress())
	require.Equal(st.NextItemIndex, s.LoadUint(64))
	require.True(st.Content.Equal(s.LoadRef()))
	require.True(st.ItemCode.Equal(s.LoadRef()))
	require.True(st.Royalty.Equal(s.LoadRef()))
	require.Equal(uint64(1_000_000_000), s.LoadCoinsUint64())
	require.Equal(st.FeeAddress, s.LoadAddress())
	for range st.RarityCounts {
		// zero coins is a bare 4-bit length
		require.Zero(s.LoadUint(4))
	}
	require.NoError(s.Err())
	require.True(s.Empty())
}

func TestParseStateErrors(t *testing.T) {
	require := require.New(t)

	_, err := ParseState(nil)
	require.ErrorIs(err, codec.ErrMalformedData)

	b := codec.BeginCell()
	b.StoreAddress(codectest.NewAddressWithSameDigits(1))
	b.StoreUint(0, 64)
	_, err = ParseState(codectest.MustCell(b))
	require.ErrorIs(err, codec.ErrNotEnoughRefs)
}
