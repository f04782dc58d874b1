// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"github.com/ava-labs/avalanchego/utils/logging"

	"github.com/starsfinance/nftcollection/codec"
)

// Context is what a contract sees while it processes a message.
type Context struct {
	Self    codec.Address
	Code    *codec.Cell
	Data    *codec.Cell
	Balance uint64 // includes the inbound value
	Message *Message
	LT      uint64
	Log     logging.Logger

	outbound []*Message
}

// SetData replaces the persistent data committed when the transaction
// succeeds.
func (c *Context) SetData(data *codec.Cell) {
	c.Data = data
}

// Send queues [msg]. Its value is debited once the contract returns; if the
// balance cannot cover every queued message the transaction aborts.
func (c *Context) Send(msg *Message) {
	msg.Source = c.Self
	c.outbound = append(c.outbound, msg)
}

func (c *Context) Outbound() []*Message {
	return c.outbound
}

// GetContext is what a contract sees while serving a get method.
type GetContext struct {
	Self    codec.Address
	Code    *codec.Cell
	Data    *codec.Cell
	Balance uint64
}
