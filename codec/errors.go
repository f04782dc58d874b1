// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"errors"
	"fmt"
)

// ErrMalformedData is wrapped by every decode failure so callers can
// classify them with a single errors.Is check.
var ErrMalformedData = errors.New("malformed data")

var (
	ErrNotEnoughBits    = fmt.Errorf("%w: not enough bits", ErrMalformedData)
	ErrNotEnoughRefs    = fmt.Errorf("%w: not enough refs", ErrMalformedData)
	ErrInvalidAddress   = fmt.Errorf("%w: invalid address", ErrMalformedData)
	ErrInvalidBOC       = fmt.Errorf("%w: invalid bag of cells", ErrMalformedData)
	ErrInvalidString    = fmt.Errorf("%w: string is not byte aligned", ErrMalformedData)
	ErrValueTooLarge    = fmt.Errorf("%w: value does not fit", ErrMalformedData)
	ErrUnsupportedCell  = fmt.Errorf("%w: exotic cells are not supported", ErrMalformedData)
	ErrChecksumMismatch = fmt.Errorf("%w: checksum mismatch", ErrMalformedData)

	ErrCellOverflow = errors.New("cell overflow")
	ErrBitsOverflow = fmt.Errorf("%w: too many bits", ErrCellOverflow)
	ErrRefsOverflow = fmt.Errorf("%w: too many refs", ErrCellOverflow)
	ErrDepthLimit   = fmt.Errorf("%w: depth limit exceeded", ErrCellOverflow)
	ErrIntOverflow  = fmt.Errorf("%w: integer does not fit in width", ErrCellOverflow)
	ErrNilCell      = errors.New("nil cell")
	ErrInvalidSize  = errors.New("invalid size")
)
