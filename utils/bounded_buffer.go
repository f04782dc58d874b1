// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/buffer"
)

var (
	_ BoundedBuffer[bool] = (*boundedBuffer[bool])(nil)

	errInvalidMaxSize = errors.New("maxSize must be greater than 0")
)

// BoundedBuffer keeps the most recent entries inserted into it.
type BoundedBuffer[T any] interface {
	// Insert appends [elt], evicting the oldest entry once the buffer is
	// full.
	Insert(elt T)

	// Last returns the newest entry, or false if nothing was inserted.
	Last() (T, bool)

	// Items returns every entry, oldest first.
	Items() []T

	Len() int
}

// boundedBuffer is not thread-safe and requires the caller synchronize usage.
type boundedBuffer[T any] struct {
	inner   buffer.Deque[T]
	maxSize int
	onEvict func(T)
}

// NewBoundedBuffer returns a buffer of at most [maxSize] entries. [onEvict]
// may be nil.
func NewBoundedBuffer[T any](maxSize int, onEvict func(T)) (BoundedBuffer[T], error) {
	if maxSize < 1 {
		return nil, errInvalidMaxSize
	}
	if onEvict == nil {
		onEvict = func(T) {}
	}
	return &boundedBuffer[T]{
		inner:   buffer.NewUnboundedDeque[T](maxSize + 1),
		maxSize: maxSize,
		onEvict: onEvict,
	}, nil
}

func (b *boundedBuffer[T]) Insert(elt T) {
	if b.inner.Len() == b.maxSize {
		evicted, _ := b.inner.PopLeft()
		b.onEvict(evicted)
	}
	b.inner.PushRight(elt)
}

func (b *boundedBuffer[T]) Last() (T, bool) {
	return b.inner.PeekRight()
}

func (b *boundedBuffer[T]) Items() []T {
	return b.inner.List()
}

func (b *boundedBuffer[T]) Len() int {
	return b.inner.Len()
}
