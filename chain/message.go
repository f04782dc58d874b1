// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"fmt"
	"strings"

	"github.com/starsfinance/nftcollection/codec"
	"github.com/starsfinance/nftcollection/consts"
	"github.com/starsfinance/nftcollection/utils"
)

const (
	// BounceOpcode prefixes the body of every bounced message.
	BounceOpcode uint32 = 0xffffffff

	// bouncedBodyBits is how much of the original body a bounce carries.
	bouncedBodyBits = 256
)

// Message is an internal message between two accounts.
type Message struct {
	Source      codec.Address
	Destination codec.Address
	Value       uint64
	Bounce      bool
	Bounced     bool
	Body        *codec.Cell
	StateInit   *StateInit
}

// BodySlice returns a reader over the body. A missing body reads as empty.
func (m *Message) BodySlice() *codec.Slice {
	if m.Body == nil {
		return codec.EmptyCell().BeginParse()
	}
	return m.Body.BeginParse()
}

// Opcode returns the leading 32 bits of the body, if there are that many.
func (m *Message) Opcode() (uint32, bool) {
	s := m.BodySlice()
	if s.RemainingBits() < consts.Uint32Len*8 {
		return 0, false
	}
	return uint32(s.LoadUint(32)), true
}

func (m *Message) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s -> %s value=%s", m.Source, m.Destination, utils.FormatBalance(bigUint(m.Value)))
	if op, ok := m.Opcode(); ok {
		fmt.Fprintf(&sb, " op=%#08x", op)
	}
	if m.Bounced {
		sb.WriteString(" bounced")
	}
	if m.StateInit != nil {
		sb.WriteString(" +init")
	}
	return sb.String()
}

// bounceOf returns the message that carries [value] back to the sender of
// [m].
func bounceOf(m *Message, value uint64) (*Message, error) {
	b := codec.BeginCell()
	b.StoreUint(uint64(BounceOpcode), 32)
	s := m.BodySlice()
	n := s.RemainingBits()
	if n > bouncedBodyBits {
		n = bouncedBodyBits
	}
	for i := 0; i < n; i++ {
		b.StoreBit(s.LoadBit())
	}
	body, err := b.EndCell()
	if err != nil {
		return nil, err
	}
	return &Message{
		Source:      m.Destination,
		Destination: m.Source,
		Value:       value,
		Bounced:     true,
		Body:        body,
	}, nil
}

// StateInit is the code and initial data a message carries to deploy a
// contract.
type StateInit struct {
	Code *codec.Cell
	Data *codec.Cell
}

// ToCell encodes split_depth:(Maybe (## 5)) special:(Maybe TickTock)
// code:(Maybe ^Cell) data:(Maybe ^Cell) library:(Maybe ^Cell).
func (s *StateInit) ToCell() (*codec.Cell, error) {
	b := codec.BeginCell()
	b.StoreBit(false)
	b.StoreBit(false)
	b.StoreMaybeRef(s.Code)
	b.StoreMaybeRef(s.Data)
	b.StoreBit(false)
	return b.EndCell()
}

// ContractAddress derives the address a contract deployed with [init] lives
// at.
func ContractAddress(workchain int8, init *StateInit) (codec.Address, error) {
	c, err := init.ToCell()
	if err != nil {
		return codec.NoneAddress, err
	}
	return codec.NewAddress(workchain, c.Hash()), nil
}

// TreasuryAddress is the deterministic address of the funded wallet [name].
func TreasuryAddress(workchain int8, name string) codec.Address {
	return codec.NewAddress(workchain, utils.ToID([]byte("treasury/"+name)))
}
