// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"math/big"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/starsfinance/nftcollection/consts"
)

// Slice consumes a cell field by field in the order the fields were
// written. Like [Builder], the first failure is sticky and every later
// read returns a zero value.
type Slice struct {
	cell   *Cell
	bitPos int
	refPos int
	err    error
}

func (s *Slice) Err() error { return s.err }

func (s *Slice) addErr(err error) {
	if s.err == nil {
		s.err = err
	}
}

func (s *Slice) RemainingBits() int { return s.cell.bits - s.bitPos }

func (s *Slice) RemainingRefs() int { return len(s.cell.refs) - s.refPos }

// Empty reports whether every bit and ref has been consumed.
func (s *Slice) Empty() bool {
	return s.RemainingBits() == 0 && s.RemainingRefs() == 0
}

func (s *Slice) take(n int) bool {
	if s.err != nil {
		return false
	}
	if n < 0 || n > s.RemainingBits() {
		s.addErr(ErrNotEnoughBits)
		return false
	}
	return true
}

func (s *Slice) readBit() bool {
	v := s.cell.bit(s.bitPos)
	s.bitPos++
	return v
}

func (s *Slice) Skip(n int) {
	if !s.take(n) {
		return
	}
	s.bitPos += n
}

func (s *Slice) LoadBit() bool {
	if !s.take(1) {
		return false
	}
	return s.readBit()
}

// PreloadUint reads n bits without consuming them.
func (s *Slice) PreloadUint(n int) uint64 {
	pos := s.bitPos
	v := s.LoadUint(n)
	if s.err == nil {
		s.bitPos = pos
	}
	return v
}

func (s *Slice) LoadUint(n int) uint64 {
	if n > 64 {
		s.addErr(ErrValueTooLarge)
		return 0
	}
	if !s.take(n) {
		return 0
	}
	var v uint64
	for i := 0; i < n; i++ {
		v <<= 1
		if s.readBit() {
			v |= 1
		}
	}
	return v
}

func (s *Slice) LoadInt(n int) int64 {
	if n <= 0 {
		s.addErr(ErrValueTooLarge)
		return 0
	}
	u := s.LoadUint(n)
	if s.err != nil {
		return 0
	}
	if n < 64 && u&(1<<uint(n-1)) != 0 {
		u |= ^uint64(0) << uint(n)
	}
	return int64(u)
}

func (s *Slice) LoadBigUint(n int) *big.Int {
	if !s.take(n) {
		return new(big.Int)
	}
	v := new(big.Int)
	for i := 0; i < n; i++ {
		v.Lsh(v, 1)
		if s.readBit() {
			v.SetBit(v, 0, 1)
		}
	}
	return v
}

func (s *Slice) LoadBytes(n int) []byte {
	if !s.take(n * 8) {
		return nil
	}
	out := make([]byte, n)
	for i := range out {
		var x byte
		for j := 0; j < 8; j++ {
			x <<= 1
			if s.readBit() {
				x |= 1
			}
		}
		out[i] = x
	}
	return out
}

func (s *Slice) LoadCoins() *big.Int {
	l := int(s.LoadUint(4))
	return s.LoadBigUint(l * 8)
}

// LoadCoinsUint64 loads a VarUInteger 16 that must fit in 64 bits.
func (s *Slice) LoadCoinsUint64() uint64 {
	v := s.LoadCoins()
	if s.err != nil {
		return 0
	}
	if !v.IsUint64() {
		s.addErr(ErrValueTooLarge)
		return 0
	}
	return v.Uint64()
}

// LoadAddress reads an addr_std or addr_none. Anycast and external/var
// addresses are rejected.
func (s *Slice) LoadAddress() Address {
	tag := s.LoadUint(2)
	if s.err != nil {
		return NoneAddress
	}
	switch tag {
	case 0b00:
		return NoneAddress
	case 0b10:
	default:
		s.addErr(ErrInvalidAddress)
		return NoneAddress
	}
	if s.LoadBit() {
		s.addErr(ErrInvalidAddress)
		return NoneAddress
	}
	wc := int8(s.LoadInt(8))
	hash := s.LoadBytes(consts.HashLen)
	if s.err != nil {
		return NoneAddress
	}
	return NewAddress(wc, ids.ID(hash))
}

func (s *Slice) LoadRef() *Cell {
	if s.err != nil {
		return nil
	}
	if s.RemainingRefs() == 0 {
		s.addErr(ErrNotEnoughRefs)
		return nil
	}
	c := s.cell.refs[s.refPos]
	s.refPos++
	return c
}

func (s *Slice) LoadMaybeRef() *Cell {
	if !s.LoadBit() {
		return nil
	}
	return s.LoadRef()
}

// LoadStringTail consumes the rest of the slice as a snake string.
func (s *Slice) LoadStringTail() string {
	return string(s.loadSnake())
}

func (s *Slice) loadSnake() []byte {
	if s.err != nil {
		return nil
	}
	if s.RemainingBits()%8 != 0 {
		s.addErr(ErrInvalidString)
		return nil
	}
	out := s.LoadBytes(s.RemainingBits() / 8)
	if s.RemainingRefs() == 1 {
		child := s.LoadRef().BeginParse()
		out = append(out, child.loadSnake()...)
		s.addErr(child.err)
	}
	if s.err != nil {
		return nil
	}
	return out
}

// ToCell packs the unread remainder into a new cell.
func (s *Slice) ToCell() (*Cell, error) {
	b := BeginCell()
	b.StoreSlice(s)
	return b.EndCell()
}
