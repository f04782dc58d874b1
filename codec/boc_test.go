// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/base64"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBOCVectors(t *testing.T) {
	opcode := BeginCell()
	opcode.StoreUint(0x6117d13b, 32)
	opcode.StoreRef(EmptyCell())

	tests := []struct {
		name string
		cell *Cell
		boc  string
	}{
		{
			name: "empty cell",
			cell: EmptyCell(),
			boc:  "te6cckEBAQEAAgAAAEysuc0=",
		},
		{
			name: "one ref",
			cell: mustEnd(t, opcode),
			boc:  "te6cckEBAgEACQABCGEX0TsBAAAW/nAd",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			s, err := ToBase64(tt.cell)
			require.NoError(err)
			require.Equal(tt.boc, s)

			c, err := FromBase64(tt.boc)
			require.NoError(err)
			require.True(tt.cell.Equal(c))
		})
	}
}

func TestBOCRoundTrip(t *testing.T) {
	require := require.New(t)

	shared := BeginCell()
	shared.StoreStringTail(strings.Repeat("meta", 100))
	sharedCell := mustEnd(t, shared)

	b := BeginCell()
	b.StoreUint(5, 3)
	b.StoreRef(sharedCell)
	b.StoreRef(sharedCell)
	b.StoreMaybeRef(EmptyCell())
	root := mustEnd(t, b)

	raw, err := ToBOC(root)
	require.NoError(err)

	parsed, err := FromBOC(raw)
	require.NoError(err)
	require.Equal(root.Hash(), parsed.Hash())
	require.Equal(root.Depth(), parsed.Depth())
	require.Equal(root.String(), parsed.String())

	s := parsed.BeginParse()
	require.Equal(uint64(5), s.LoadUint(3))
	require.Equal(strings.Repeat("meta", 100), s.LoadRef().BeginParse().LoadStringTail())

	hexed, err := ParseCell("0x" + hex.EncodeToString(raw))
	require.NoError(err)
	require.True(root.Equal(hexed))
}

func TestFromBOCErrors(t *testing.T) {
	valid, err := base64.StdEncoding.DecodeString("te6cckEBAgEACQABCGEX0TsBAAAW/nAd")
	require.NoError(t, err)

	corrupt := func(f func([]byte) []byte) []byte {
		b := make([]byte, len(valid))
		copy(b, valid)
		return f(b)
	}

	tests := []struct {
		name  string
		input []byte
		err   error
	}{
		{
			name:  "empty",
			input: nil,
			err:   ErrInvalidBOC,
		},
		{
			name:  "bad magic",
			input: corrupt(func(b []byte) []byte { b[0] = 0; return b }),
			err:   ErrInvalidBOC,
		},
		{
			name:  "truncated",
			input: valid[:len(valid)-6],
			err:   ErrInvalidBOC,
		},
		{
			name:  "checksum",
			input: corrupt(func(b []byte) []byte { b[len(b)-1] ^= 0xff; return b }),
			err:   ErrChecksumMismatch,
		},
		{
			name:  "data changed",
			input: corrupt(func(b []byte) []byte { b[13] ^= 0x01; return b }),
			err:   ErrChecksumMismatch,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)
			c, err := FromBOC(tt.input)
			require.ErrorIs(err, tt.err)
			require.ErrorIs(err, ErrMalformedData)
			require.Nil(c)
		})
	}
}

func TestToBOCNil(t *testing.T) {
	_, err := ToBOC(nil)
	require.ErrorIs(t, err, ErrNilCell)
}
