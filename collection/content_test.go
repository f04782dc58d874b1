// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/codec/codectest"
)

func TestContentRoundTrip(t *testing.T) {
	tests := []struct {
		name           string
		collectionMeta string
		commonMeta     string
	}{
		{
			name:           "urls",
			collectionMeta: "https://starsfinance.fra1.digitaloceanspaces.com/nft/collection.json",
			commonMeta:     "https://starsfinance.fra1.digitaloceanspaces.com/nft/",
		},
		{
			name: "empty",
		},
		{
			name:           "spans cells",
			collectionMeta: strings.Repeat("c", 300),
			commonMeta:     "ä",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			c, err := EncodeContent(tt.collectionMeta, tt.commonMeta)
			require.NoError(err)
			require.Equal(2, c.RefsLen())
			require.Zero(c.BitsLen())

			content, err := DecodeContentCell(c)
			require.NoError(err)
			require.Equal(&Content{
				CollectionTag:  ContentTagOffchain,
				CollectionMeta: tt.collectionMeta,
				CommonTag:      ContentTagOffchain,
				CommonMeta:     tt.commonMeta,
			}, content)
		})
	}
}

func TestDecodeContentErrors(t *testing.T) {
	require := require.New(t)

	_, err := DecodeContentCell(codec.EmptyCell())
	require.ErrorIs(err, ErrInvalidContent)
	_, err = DecodeContent(nil, codec.EmptyCell())
	require.ErrorIs(err, ErrInvalidContent)

	// The tag byte is required.
	_, err = DecodeContent(codec.EmptyCell(), codec.EmptyCell())
	require.ErrorIs(err, codec.ErrMalformedData)
}

func TestRoyaltyRoundTrip(t *testing.T) {
	require := require.New(t)

	addr := codectest.NewAddressWithSameDigits(5)
	c, err := EncodeRoyalty(10, 100, addr)
	require.NoError(err)
	require.Equal(32+codec.StdAddressBits, c.BitsLen())

	r, err := DecodeRoyalty(c)
	require.NoError(err)
	require.Equal(&Royalty{Numerator: 10, Denominator: 100, Address: addr}, r)

	again, err := r.ToCell()
	require.NoError(err)
	require.True(c.Equal(again))

	zero, err := EncodeRoyalty(1, 0, addr)
	require.NoError(err)
	_, err = DecodeRoyalty(zero)
	require.ErrorIs(err, ErrZeroDenominator)
	require.ErrorIs(err, codec.ErrMalformedData)

	_, err = DecodeRoyalty(nil)
	require.ErrorIs(err, codec.ErrMalformedData)
}

func TestRarity(t *testing.T) {
	require := require.New(t)

	for i, name := range []string{"common", "uncommon", "rare", "mythical", "legendary", "immortal"} {
		r, err := ParseRarity(name)
		require.NoError(err)
		require.Equal(Rarity(i), r)
		require.Equal(name+".json", r.Filename())

		fromWire, ok := RarityFromUint64(uint64(i))
		require.True(ok)
		require.Equal(r, fromWire)
	}
	_, ok := RarityFromUint64(RarityCount)
	require.False(ok)
	_, err := ParseRarity("epic")
	require.ErrorIs(err, ErrUnknownRarity)
	require.Equal("rarity(9)", Rarity(9).String())
}
