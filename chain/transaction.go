// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import "github.com/starsfinance/nftcollection/codec"

// Transaction is the outcome of delivering one message to one account.
type Transaction struct {
	LT          uint64
	Account     codec.Address
	InMessage   *Message
	OutMessages []*Message

	// Deploy is set when the inbound StateInit initialized the account.
	Deploy bool
	// Success is set when the contract accepted the message and every
	// outbound message was funded. Aborted transactions keep no changes
	// beyond the credited value.
	Success  bool
	Aborted  bool
	ExitCode int32
	Err      error
}

// Bounce returns the bounce this transaction produced, if any.
func (t *Transaction) Bounce() *Message {
	if !t.Aborted {
		return nil
	}
	for _, m := range t.OutMessages {
		if m.Bounced {
			return m
		}
	}
	return nil
}
