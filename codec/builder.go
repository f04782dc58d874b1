// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"math/big"

	"github.com/starsfinance/nftcollection/consts"
)

// Builder appends fields to a cell under construction. Writes are order
// dependent and the first failure is sticky: once [Err] is non-nil every
// later write is a no-op and [EndCell] returns that error.
type Builder struct {
	data []byte
	bits int
	refs []*Cell
	err  error
}

func BeginCell() *Builder {
	return &Builder{
		data: make([]byte, (consts.MaxCellBits+7)/8),
	}
}

func (b *Builder) Err() error { return b.err }

func (b *Builder) addErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) BitsLen() int { return b.bits }

func (b *Builder) RefsLen() int { return len(b.refs) }

func (b *Builder) AvailableBits() int { return consts.MaxCellBits - b.bits }

func (b *Builder) AvailableRefs() int { return consts.MaxCellRefs - len(b.refs) }

func (b *Builder) reserve(n int) bool {
	if b.err != nil {
		return false
	}
	if n < 0 || b.bits+n > consts.MaxCellBits {
		b.addErr(ErrBitsOverflow)
		return false
	}
	return true
}

func (b *Builder) writeBit(v bool) {
	if v {
		b.data[b.bits/8] |= 1 << (7 - b.bits%8)
	}
	b.bits++
}

func (b *Builder) StoreBit(v bool) {
	if !b.reserve(1) {
		return
	}
	b.writeBit(v)
}

// StoreUint writes the n lowest bits of v, most significant first.
func (b *Builder) StoreUint(v uint64, n int) {
	if n < 0 || n > 64 {
		b.addErr(ErrIntOverflow)
		return
	}
	if n < 64 && v>>uint(n) != 0 {
		b.addErr(ErrIntOverflow)
		return
	}
	if !b.reserve(n) {
		return
	}
	for i := n - 1; i >= 0; i-- {
		b.writeBit(v&(1<<uint(i)) != 0)
	}
}

// StoreInt writes v as an n-bit two's complement integer.
func (b *Builder) StoreInt(v int64, n int) {
	if n <= 0 || n > 64 {
		b.addErr(ErrIntOverflow)
		return
	}
	if n < 64 {
		limit := int64(1) << uint(n-1)
		if v < -limit || v >= limit {
			b.addErr(ErrIntOverflow)
			return
		}
	}
	u := uint64(v)
	if n < 64 {
		u &= (1 << uint(n)) - 1
	}
	b.StoreUint(u, n)
}

// StoreBigUint writes a non-negative integer of arbitrary precision into
// exactly n bits.
func (b *Builder) StoreBigUint(v *big.Int, n int) {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 || v.BitLen() > n {
		b.addErr(ErrIntOverflow)
		return
	}
	if !b.reserve(n) {
		return
	}
	for i := n - 1; i >= 0; i-- {
		b.writeBit(v.Bit(i) == 1)
	}
}

func (b *Builder) StoreBytes(p []byte) {
	if !b.reserve(len(p) * 8) {
		return
	}
	if b.bits%8 == 0 {
		copy(b.data[b.bits/8:], p)
		b.bits += len(p) * 8
		return
	}
	for _, x := range p {
		for i := 7; i >= 0; i-- {
			b.writeBit(x&(1<<uint(i)) != 0)
		}
	}
}

// StoreCoins writes v as a VarUInteger 16: a 4-bit byte length followed by
// that many bytes.
func (b *Builder) StoreCoins(v *big.Int) {
	if v == nil {
		v = new(big.Int)
	}
	if v.Sign() < 0 {
		b.addErr(ErrIntOverflow)
		return
	}
	l := (v.BitLen() + 7) / 8
	if l > consts.MaxCoinsBytes {
		b.addErr(ErrIntOverflow)
		return
	}
	b.StoreUint(uint64(l), 4)
	b.StoreBigUint(v, l*8)
}

// StoreAddress writes addr_std$10 with no anycast, or addr_none$00 for
// [NoneAddress].
func (b *Builder) StoreAddress(a Address) {
	if a.IsNone() {
		b.StoreUint(0, 2)
		return
	}
	if !b.reserve(StdAddressBits) {
		return
	}
	b.StoreUint(0b10, 2)
	b.StoreBit(false)
	b.StoreInt(int64(a.Workchain), 8)
	b.StoreBytes(a.Hash[:])
}

func (b *Builder) StoreRef(c *Cell) {
	if b.err != nil {
		return
	}
	if c == nil {
		b.addErr(ErrNilCell)
		return
	}
	if len(b.refs) >= consts.MaxCellRefs {
		b.addErr(ErrRefsOverflow)
		return
	}
	b.refs = append(b.refs, c)
}

// StoreMaybeRef writes a presence bit and, when c is not nil, the ref.
func (b *Builder) StoreMaybeRef(c *Cell) {
	if c == nil {
		b.StoreBit(false)
		return
	}
	b.StoreBit(true)
	b.StoreRef(c)
}

// StoreSlice appends the unread bits and refs of s. s is not consumed.
func (b *Builder) StoreSlice(s *Slice) {
	if err := s.Err(); err != nil {
		b.addErr(err)
		return
	}
	if !b.reserve(s.RemainingBits()) {
		return
	}
	for i := s.bitPos; i < s.cell.bits; i++ {
		b.writeBit(s.cell.bit(i))
	}
	for i := s.refPos; i < len(s.cell.refs); i++ {
		b.StoreRef(s.cell.refs[i])
	}
}

// StoreCell appends all bits and refs of c.
func (b *Builder) StoreCell(c *Cell) {
	if c == nil {
		b.addErr(ErrNilCell)
		return
	}
	b.StoreSlice(c.BeginParse())
}

// StoreStringTail writes s in snake format: as many whole bytes as fit in
// the current cell, with the remainder continued in a single child ref.
func (b *Builder) StoreStringTail(s string) {
	b.storeSnake([]byte(s))
}

func (b *Builder) storeSnake(p []byte) {
	if len(p) == 0 || b.err != nil {
		return
	}
	n := b.AvailableBits() / 8
	if len(p) <= n {
		b.StoreBytes(p)
		return
	}
	b.StoreBytes(p[:n])
	child := BeginCell()
	child.storeSnake(p[n:])
	c, err := child.EndCell()
	if err != nil {
		b.addErr(err)
		return
	}
	b.StoreRef(c)
}

func (b *Builder) EndCell() (*Cell, error) {
	if b.err != nil {
		return nil, b.err
	}
	data := make([]byte, (b.bits+7)/8)
	copy(data, b.data)
	refs := make([]*Cell, len(b.refs))
	copy(refs, b.refs)
	return newCell(data, b.bits, refs)
}
