// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"context"
	"sync"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/starsfinance/nftcollection/codec"
)

// Contract is the behaviour bound to a code blob. Code itself is never
// interpreted; the chain finds the implementation by the code's hash.
type Contract interface {
	// Receive processes one inbound message. Returning an error aborts the
	// transaction and reverts every change made through [Context].
	Receive(ctx context.Context, c *Context) error

	// Get runs the read-only method [method].
	Get(ctx context.Context, c *GetContext, method string, args Stack) (Stack, error)
}

type Registry struct {
	l         sync.RWMutex
	contracts map[ids.ID]Contract
}

func NewRegistry() *Registry {
	return &Registry{contracts: make(map[ids.ID]Contract)}
}

// Register binds [contract] to [code].
func (r *Registry) Register(code *codec.Cell, contract Contract) error {
	if code == nil {
		return codec.ErrNilCell
	}
	r.l.Lock()
	defer r.l.Unlock()

	if _, ok := r.contracts[code.Hash()]; ok {
		return ErrDuplicateCode
	}
	r.contracts[code.Hash()] = contract
	return nil
}

func (r *Registry) Lookup(code *codec.Cell) (Contract, bool) {
	if code == nil {
		return nil, false
	}
	r.l.RLock()
	defer r.l.RUnlock()

	c, ok := r.contracts[code.Hash()]
	return c, ok
}
