// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"fmt"

	"github.com/starsfinance/nftcollection/codec"
)

// Content is the collection metadata and the prefix shared by every item's
// metadata.
type Content struct {
	CollectionTag  uint8
	CollectionMeta string
	CommonTag      uint8
	CommonMeta     string
}

func metaCell(meta string) (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreUint(ContentTagOffchain, 8)
	b.StoreStringTail(meta)
	return b.EndCell()
}

// EncodeContent returns a cell referencing the tagged collection metadata
// and the tagged common item metadata, in that order.
func EncodeContent(collectionMeta, commonMeta string) (*codec.Cell, error) {
	collection, err := metaCell(collectionMeta)
	if err != nil {
		return nil, err
	}
	common, err := metaCell(commonMeta)
	if err != nil {
		return nil, err
	}
	b := codec.BeginCell()
	b.StoreRef(collection)
	b.StoreRef(common)
	return b.EndCell()
}

// DecodeContent reads the two metadata cells [EncodeContent] references.
func DecodeContent(collectionMeta, commonMeta *codec.Cell) (*Content, error) {
	if collectionMeta == nil || commonMeta == nil {
		return nil, ErrInvalidContent
	}
	cs := collectionMeta.BeginParse()
	ns := commonMeta.BeginParse()
	content := &Content{
		CollectionTag:  uint8(cs.LoadUint(8)),
		CollectionMeta: cs.LoadStringTail(),
		CommonTag:      uint8(ns.LoadUint(8)),
		CommonMeta:     ns.LoadStringTail(),
	}
	if err := cs.Err(); err != nil {
		return nil, fmt.Errorf("collection metadata: %w", err)
	}
	if err := ns.Err(); err != nil {
		return nil, fmt.Errorf("common metadata: %w", err)
	}
	return content, nil
}

// DecodeContentCell is [DecodeContent] over the refs of [content].
func DecodeContentCell(content *codec.Cell) (*Content, error) {
	if content == nil || content.RefsLen() < 2 {
		return nil, ErrInvalidContent
	}
	return DecodeContent(content.Ref(0), content.Ref(1))
}

// Royalty is the share of secondary sales owed to Address.
type Royalty struct {
	Numerator   uint16
	Denominator uint16
	Address     codec.Address
}

// EncodeRoyalty encodes numerator:uint16 denominator:uint16
// destination:MsgAddress.
func EncodeRoyalty(numerator, denominator uint16, addr codec.Address) (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreUint(uint64(numerator), 16)
	b.StoreUint(uint64(denominator), 16)
	b.StoreAddress(addr)
	return b.EndCell()
}

func (r *Royalty) ToCell() (*codec.Cell, error) {
	return EncodeRoyalty(r.Numerator, r.Denominator, r.Address)
}

func loadRoyalty(s *codec.Slice) (*Royalty, error) {
	r := &Royalty{
		Numerator:   uint16(s.LoadUint(16)),
		Denominator: uint16(s.LoadUint(16)),
		Address:     s.LoadAddress(),
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("royalty params: %w", err)
	}
	return r, nil
}

// DecodeRoyalty reads a cell written by [EncodeRoyalty]. A zero
// denominator is rejected.
func DecodeRoyalty(c *codec.Cell) (*Royalty, error) {
	if c == nil {
		return nil, fmt.Errorf("royalty params: %w", codec.ErrNotEnoughRefs)
	}
	r, err := loadRoyalty(c.BeginParse())
	if err != nil {
		return nil, err
	}
	if r.Denominator == 0 {
		return nil, ErrZeroDenominator
	}
	return r, nil
}
