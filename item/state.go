// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package item

import (
	"fmt"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
)

// Config is the data an item is deployed with. Both fields are fixed for
// the life of the item and determine its address.
type Config struct {
	Index      uint64
	Collection codec.Address
}

// ToCell encodes index:uint64 collection:MsgAddress.
func (c *Config) ToCell() (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreUint(c.Index, 64)
	b.StoreAddress(c.Collection)
	return b.EndCell()
}

// StateInit pairs [code] with the initial data of [c].
func (c *Config) StateInit(code *codec.Cell) (*chain.StateInit, error) {
	data, err := c.ToCell()
	if err != nil {
		return nil, err
	}
	return &chain.StateInit{Code: code, Data: data}, nil
}

// Address derives where the item [c] lives.
func Address(workchain int8, code *codec.Cell, c *Config) (codec.Address, error) {
	init, err := c.StateInit(code)
	if err != nil {
		return codec.NoneAddress, err
	}
	return chain.ContractAddress(workchain, init)
}

// InitBody is the message a collection sends to initialize a new item.
type InitBody struct {
	Owner   codec.Address
	Content *codec.Cell
	Editor  codec.Address
}

// ToCell encodes owner:MsgAddress ^content editor:MsgAddress.
func (i *InitBody) ToCell() (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreAddress(i.Owner)
	b.StoreRef(i.Content)
	b.StoreAddress(i.Editor)
	return b.EndCell()
}

func loadInitBody(s *codec.Slice) (*InitBody, error) {
	i := &InitBody{
		Owner:   s.LoadAddress(),
		Content: s.LoadRef(),
		Editor:  s.LoadAddress(),
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("init body: %w", err)
	}
	return i, nil
}

// ContentToCell stores [content] as a snake string, the form individual
// item content takes.
func ContentToCell(content string) (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreStringTail(content)
	return b.EndCell()
}

// State is the persistent data of an item. Owner, Content and Editor are
// only set once the item is initialized.
type State struct {
	Config

	Initialized bool
	InitBody
}

func (s *State) ToCell() (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreUint(s.Index, 64)
	b.StoreAddress(s.Collection)
	if s.Initialized {
		b.StoreAddress(s.Owner)
		b.StoreRef(s.Content)
		b.StoreAddress(s.Editor)
	}
	return b.EndCell()
}

// ParseState decodes both the initial and the initialized layout.
func ParseState(c *codec.Cell) (*State, error) {
	if c == nil {
		return nil, codec.ErrNotEnoughRefs
	}
	sl := c.BeginParse()
	st := &State{
		Config: Config{
			Index:      sl.LoadUint(64),
			Collection: sl.LoadAddress(),
		},
		InitBody: InitBody{
			Owner:  codec.NoneAddress,
			Editor: codec.NoneAddress,
		},
	}
	if err := sl.Err(); err != nil {
		return nil, fmt.Errorf("item state: %w", err)
	}
	if sl.Empty() {
		return st, nil
	}
	body, err := loadInitBody(sl)
	if err != nil {
		return nil, err
	}
	st.Initialized = true
	st.InitBody = *body
	return st, nil
}
