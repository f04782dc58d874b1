// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/ids"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/consts"
	"github.com/starsfinance/nftcollection/state"

	smath "github.com/ava-labs/avalanchego/utils/math"
)

// State
// 0x0/ (account)
//   -> [workchain][account id] => account
const accountPrefix byte = 0x0

const AccountKeyLen = 1 + 1 + consts.HashLen

// [accountPrefix] + [workchain] + [account id]
func AccountKey(addr codec.Address) []byte {
	k := make([]byte, AccountKeyLen)
	k[0] = accountPrefix
	k[1] = byte(addr.Workchain)
	copy(k[2:], addr.Hash[:])
	return k
}

// ParseAccountKey is the inverse of [AccountKey].
func ParseAccountKey(k []byte) (codec.Address, error) {
	if len(k) != AccountKeyLen || k[0] != accountPrefix {
		return codec.NoneAddress, ErrInvalidAccountKey
	}
	return codec.NewAddress(int8(k[1]), ids.ID(k[2:])), nil
}

// Account is everything the chain keeps for an address. An account with no
// code is uninitialized: it can hold value but runs nothing.
type Account struct {
	Balance uint64
	Code    *codec.Cell
	Data    *codec.Cell
	LastLT  uint64
}

func (a *Account) Active() bool {
	return a.Code != nil
}

// ToCell encodes a as balance:Coins code:(Maybe ^Cell) data:(Maybe ^Cell)
// last_lt:uint64.
func (a *Account) ToCell() (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreCoins(new(big.Int).SetUint64(a.Balance))
	b.StoreMaybeRef(a.Code)
	b.StoreMaybeRef(a.Data)
	b.StoreUint(a.LastLT, 64)
	return b.EndCell()
}

func MarshalAccount(a *Account) ([]byte, error) {
	c, err := a.ToCell()
	if err != nil {
		return nil, err
	}
	return codec.ToBOC(c)
}

func UnmarshalAccount(raw []byte) (*Account, error) {
	c, err := codec.FromBOC(raw)
	if err != nil {
		return nil, err
	}
	s := c.BeginParse()
	a := &Account{
		Balance: s.LoadCoinsUint64(),
		Code:    s.LoadMaybeRef(),
		Data:    s.LoadMaybeRef(),
		LastLT:  s.LoadUint(64),
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("account record: %w", err)
	}
	return a, nil
}

// GetAccount returns the account stored at [addr]. Missing accounts are
// returned empty with exists set to false.
func GetAccount(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (*Account, bool, error) {
	return innerGetAccount(im.GetValue(ctx, AccountKey(addr)))
}

func innerGetAccount(v []byte, err error) (*Account, bool, error) {
	if errors.Is(err, database.ErrNotFound) {
		return &Account{}, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	a, err := UnmarshalAccount(v)
	if err != nil {
		return nil, false, err
	}
	return a, true, nil
}

// GetBalance returns 0 for accounts that do not exist.
func GetBalance(
	ctx context.Context,
	im state.Immutable,
	addr codec.Address,
) (uint64, error) {
	a, _, err := GetAccount(ctx, im, addr)
	if err != nil {
		return 0, err
	}
	return a.Balance, nil
}

func SetAccount(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	a *Account,
) error {
	v, err := MarshalAccount(a)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, AccountKey(addr), v)
}

func AddBalance(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	amount uint64,
) (uint64, error) {
	a, _, err := GetAccount(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	nbal, err := smath.Add(a.Balance, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not add balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			a.Balance,
			addr,
			amount,
		)
	}
	a.Balance = nbal
	return nbal, SetAccount(ctx, mu, addr, a)
}

func SubBalance(
	ctx context.Context,
	mu state.Mutable,
	addr codec.Address,
	amount uint64,
) (uint64, error) {
	a, ok, err := GetAccount(ctx, mu, addr)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, ErrInvalidBalance
	}
	nbal, err := smath.Sub(a.Balance, amount)
	if err != nil {
		return 0, fmt.Errorf(
			"%w: could not subtract balance (bal=%d, addr=%s, amount=%d)",
			ErrInvalidBalance,
			a.Balance,
			addr,
			amount,
		)
	}
	if nbal == 0 && !a.Active() {
		// An empty uninitialized account carries no information.
		return 0, mu.Remove(ctx, AccountKey(addr))
	}
	a.Balance = nbal
	return nbal, SetAccount(ctx, mu, addr, a)
}

// 0x1/ (metadata)
//   -> [logical time] => last assigned logical time
const metadataPrefix byte = 0x1

const logicalTimeKey byte = 0x0

func LogicalTimeKey() []byte {
	return []byte{metadataPrefix, logicalTimeKey}
}

// GetLogicalTime returns 0 before the first transaction.
func GetLogicalTime(ctx context.Context, im state.Immutable) (uint64, error) {
	v, err := im.GetValue(ctx, LogicalTimeKey())
	if errors.Is(err, database.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return database.ParseUInt64(v)
}

func SetLogicalTime(ctx context.Context, mu state.Mutable, lt uint64) error {
	return mu.Insert(ctx, LogicalTimeKey(), database.PackUInt64(lt))
}
