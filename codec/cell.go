// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"
	"encoding/hex"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"

	"github.com/starsfinance/nftcollection/consts"
)

// Cell is an immutable ordinary cell: up to [consts.MaxCellBits] data bits
// and up to [consts.MaxCellRefs] references to child cells.
//
// The representation hash and depth are computed once, when the cell is
// built, so a Cell can be compared and addressed in constant time.
type Cell struct {
	data  []byte
	bits  int
	refs  []*Cell
	hash  ids.ID
	depth uint16
}

func newCell(data []byte, bits int, refs []*Cell) (*Cell, error) {
	if bits > consts.MaxCellBits {
		return nil, ErrBitsOverflow
	}
	if len(refs) > consts.MaxCellRefs {
		return nil, ErrRefsOverflow
	}
	c := &Cell{
		data: data[:(bits+7)/8],
		bits: bits,
		refs: refs,
	}
	for _, r := range refs {
		if r == nil {
			return nil, ErrNilCell
		}
		if r.depth+1 > c.depth {
			c.depth = r.depth + 1
		}
	}
	if c.depth > consts.MaxCellDepth {
		return nil, ErrDepthLimit
	}
	c.hash = ids.ID(hashing.ComputeHash256Array(c.repr()))
	return c, nil
}

// EmptyCell returns a cell with no bits and no refs.
func EmptyCell() *Cell {
	c, _ := newCell(nil, 0, nil)
	return c
}

func (c *Cell) descriptors() (byte, byte) {
	d1 := byte(len(c.refs))
	d2 := byte((c.bits+7)/8 + c.bits/8)
	return d1, d2
}

// paddedData returns the data bytes with the completion tag appended when
// the bit length is not byte aligned.
func (c *Cell) paddedData() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	if rem := c.bits % 8; rem != 0 {
		out[len(out)-1] |= 1 << (7 - rem)
	}
	return out
}

func (c *Cell) repr() []byte {
	d1, d2 := c.descriptors()
	buf := make([]byte, 0, 2+len(c.data)+len(c.refs)*(consts.Uint16Len+consts.HashLen))
	buf = append(buf, d1, d2)
	buf = append(buf, c.paddedData()...)
	for _, r := range c.refs {
		buf = binary.BigEndian.AppendUint16(buf, r.depth)
	}
	for _, r := range c.refs {
		buf = append(buf, r.hash[:]...)
	}
	return buf
}

// Hash returns the representation hash of the cell.
func (c *Cell) Hash() ids.ID { return c.hash }

func (c *Cell) Depth() uint16 { return c.depth }

func (c *Cell) BitsLen() int { return c.bits }

func (c *Cell) RefsLen() int { return len(c.refs) }

// Ref returns the i-th child or nil when out of range.
func (c *Cell) Ref(i int) *Cell {
	if i < 0 || i >= len(c.refs) {
		return nil
	}
	return c.refs[i]
}

// Data returns a copy of the raw data bytes. Bits past [BitsLen] are zero.
func (c *Cell) Data() []byte {
	out := make([]byte, len(c.data))
	copy(out, c.data)
	return out
}

// Equal reports whether two cells have the same representation hash.
func (c *Cell) Equal(o *Cell) bool {
	if c == nil || o == nil {
		return c == o
	}
	return c.hash == o.hash
}

func (c *Cell) BeginParse() *Slice {
	return &Slice{cell: c}
}

// String renders the cell tree in the fift notation, e.g. x{01_} with
// children indented underneath.
func (c *Cell) String() string {
	var sb strings.Builder
	c.dump(&sb, 0)
	return strings.TrimSuffix(sb.String(), "\n")
}

func (c *Cell) dump(sb *strings.Builder, indent int) {
	sb.WriteString(strings.Repeat(" ", indent))
	sb.WriteString("x{")
	sb.WriteString(c.hexData())
	sb.WriteString("}\n")
	for _, r := range c.refs {
		r.dump(sb, indent+1)
	}
}

func (c *Cell) hexData() string {
	if c.bits%4 == 0 {
		return strings.ToUpper(hex.EncodeToString(c.data))[:c.bits/4]
	}
	padded := c.paddedData()
	nibbles := (c.bits + 3) / 4
	return strings.ToUpper(hex.EncodeToString(padded))[:nibbles] + "_"
}

// bit returns the i-th data bit, MSB first.
func (c *Cell) bit(i int) bool {
	return c.data[i/8]&(1<<(7-i%8)) != 0
}
