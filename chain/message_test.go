// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/codec/codectest"
)

func TestStateInitCell(t *testing.T) {
	require := require.New(t)

	init := &StateInit{Code: codectest.StringCell("code"), Data: codec.EmptyCell()}
	c, err := init.ToCell()
	require.NoError(err)
	require.Equal(5, c.BitsLen())
	require.Equal(2, c.RefsLen())
	require.True(init.Code.Equal(c.Ref(0)))

	a, err := ContractAddress(0, init)
	require.NoError(err)
	b, err := ContractAddress(0, &StateInit{Code: codectest.StringCell("code"), Data: codec.EmptyCell()})
	require.NoError(err)
	require.Equal(a, b)
	require.Equal(c.Hash(), a.Hash)

	other, err := ContractAddress(0, &StateInit{Code: init.Code, Data: codectest.StringCell("x")})
	require.NoError(err)
	require.NotEqual(a, other)

	master, err := ContractAddress(-1, init)
	require.NoError(err)
	require.Equal(a.Hash, master.Hash)
	require.NotEqual(a, master)
}

func TestBounceOf(t *testing.T) {
	require := require.New(t)

	b := codec.BeginCell()
	for i := 0; i < 5; i++ {
		b.StoreUint(uint64(i), 64)
	}
	b.StoreRef(codec.EmptyCell())
	m := &Message{
		Source:      codectest.NewAddressWithSameDigits(1),
		Destination: codectest.NewAddressWithSameDigits(2),
		Value:       10,
		Bounce:      true,
		Body:        codectest.MustCell(b),
	}

	bounce, err := bounceOf(m, 7)
	require.NoError(err)
	require.Equal(m.Destination, bounce.Source)
	require.Equal(m.Source, bounce.Destination)
	require.Equal(uint64(7), bounce.Value)
	require.True(bounce.Bounced)
	require.False(bounce.Bounce)
	require.Equal(32+bouncedBodyBits, bounce.Body.BitsLen())
	require.Zero(bounce.Body.RefsLen())

	op, ok := bounce.Opcode()
	require.True(ok)
	require.Equal(BounceOpcode, op)

	empty, err := bounceOf(&Message{}, 0)
	require.NoError(err)
	require.Equal(32, empty.Body.BitsLen())
}

func TestMessageOpcode(t *testing.T) {
	require := require.New(t)

	_, ok := (&Message{}).Opcode()
	require.False(ok)

	b := codec.BeginCell()
	b.StoreUint(0x6117d13b, 32)
	op, ok := (&Message{Body: codectest.MustCell(b)}).Opcode()
	require.True(ok)
	require.Equal(uint32(0x6117d13b), op)
}

func TestExitCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int32
		ok   bool
	}{
		{
			name: "success",
			code: ExitCodeSuccess,
			ok:   true,
		},
		{
			name: "exit error",
			err:  fmt.Errorf("wrapped: %w", NewExitError(401, errors.New("unauthorized"))),
			code: 401,
			ok:   true,
		},
		{
			name: "decode failure",
			err:  codec.ErrNotEnoughRefs,
			code: ExitCodeCellUnderflow,
			ok:   true,
		},
		{
			name: "builder overflow",
			err:  codec.ErrBitsOverflow,
			code: ExitCodeCellOverflow,
			ok:   true,
		},
		{
			name: "unknown opcode",
			err:  ErrUnknownOpcode,
			code: ExitCodeUnknownOpcode,
			ok:   true,
		},
		{
			name: "missing code",
			err:  ErrMissingCode,
			code: ExitCodeMissingCode,
			ok:   true,
		},
		{
			name: "insufficient balance",
			err:  ErrInsufficientBalance,
			code: ExitCodeNotEnoughBalance,
			ok:   true,
		},
		{
			name: "unclassified",
			err:  errors.New("disk on fire"),
			code: exitCodeUnclassifiedError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := ExitCodeOf(tt.err)
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.ok, ok)
		})
	}
}

func TestStack(t *testing.T) {
	require := require.New(t)

	addr := codectest.NewAddressWithSameDigits(3)
	b := codec.BeginCell()
	b.StoreAddress(addr)
	addrCell := codectest.MustCell(b)

	s := NewStack(1, int64(-2), uint64(3), true, false, addr, addrCell)
	i, err := s.Int(1)
	require.NoError(err)
	require.Equal(big.NewInt(-2), i)

	u, err := s.Uint64(2)
	require.NoError(err)
	require.Equal(uint64(3), u)

	_, err = s.Uint64(1)
	require.ErrorIs(err, ErrInvalidStack)

	yes, err := s.Bool(3)
	require.NoError(err)
	require.True(yes)
	no, err := s.Bool(4)
	require.NoError(err)
	require.False(no)

	got, err := s.Address(5)
	require.NoError(err)
	require.Equal(addr, got)
	got, err = s.Address(6)
	require.NoError(err)
	require.Equal(addr, got)

	_, err = s.Cell(0)
	require.ErrorIs(err, ErrInvalidStack)
	_, err = s.Int(7)
	require.ErrorIs(err, ErrInvalidStack)
}

func TestRegistry(t *testing.T) {
	require := require.New(t)

	r := NewRegistry()
	require.ErrorIs(r.Register(nil, wallet{}), codec.ErrNilCell)
	require.NoError(r.Register(WalletCode, wallet{}))
	require.ErrorIs(r.Register(WalletCode, wallet{}), ErrDuplicateCode)

	_, ok := r.Lookup(WalletCode)
	require.True(ok)
	_, ok = r.Lookup(codectest.StringCell("other"))
	require.False(ok)
	_, ok = r.Lookup(nil)
	require.False(ok)
}
