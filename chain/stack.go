// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"
	"math/big"

	"github.com/starsfinance/nftcollection/codec"
)

// Stack holds get method arguments and results. Entries are *big.Int,
// *codec.Cell or codec.Address.
type Stack []any

func bigUint(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// NewStack converts integers to *big.Int so callers can pass Go integers.
func NewStack(values ...any) Stack {
	s := make(Stack, len(values))
	for i, v := range values {
		switch t := v.(type) {
		case int:
			s[i] = big.NewInt(int64(t))
		case int64:
			s[i] = big.NewInt(t)
		case uint64:
			s[i] = bigUint(t)
		case bool:
			// booleans are -1 and 0 on the stack
			if t {
				s[i] = big.NewInt(-1)
			} else {
				s[i] = new(big.Int)
			}
		default:
			s[i] = v
		}
	}
	return s
}

func (s Stack) entry(i int) (any, error) {
	if i < 0 || i >= len(s) {
		return nil, fmt.Errorf("%w: index %d of %d", ErrInvalidStack, i, len(s))
	}
	return s[i], nil
}

func (s Stack) Int(i int) (*big.Int, error) {
	e, err := s.entry(i)
	if err != nil {
		return nil, err
	}
	v, ok := e.(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: index %d is %T, not an integer", ErrInvalidStack, i, e)
	}
	return v, nil
}

func (s Stack) Uint64(i int) (uint64, error) {
	v, err := s.Int(i)
	if err != nil {
		return 0, err
	}
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, fmt.Errorf("%w: index %d does not fit in 64 bits", ErrInvalidStack, i)
	}
	return v.Uint64(), nil
}

func (s Stack) Bool(i int) (bool, error) {
	v, err := s.Int(i)
	if err != nil {
		return false, err
	}
	return v.Sign() != 0, nil
}

func (s Stack) Cell(i int) (*codec.Cell, error) {
	e, err := s.entry(i)
	if err != nil {
		return nil, err
	}
	v, ok := e.(*codec.Cell)
	if !ok {
		return nil, fmt.Errorf("%w: index %d is %T, not a cell", ErrInvalidStack, i, e)
	}
	return v, nil
}

// Address accepts either an address entry or a cell holding one.
func (s Stack) Address(i int) (codec.Address, error) {
	e, err := s.entry(i)
	if err != nil {
		return codec.NoneAddress, err
	}
	switch v := e.(type) {
	case codec.Address:
		return v, nil
	case *codec.Cell:
		sl := v.BeginParse()
		a := sl.LoadAddress()
		return a, sl.Err()
	default:
		return codec.NoneAddress, fmt.Errorf("%w: index %d is %T, not an address", ErrInvalidStack, i, e)
	}
}
