// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"errors"
	"fmt"

	"github.com/starsfinance/nftcollection/chain"
	"github.com/starsfinance/nftcollection/codec"
)

var (
	ErrUnauthorized       = chain.NewExitError(ExitCodeUnauthorized, errors.New("sender is not the collection owner"))
	ErrInvalidIndex       = chain.NewExitError(ExitCodeInvalidIndex, errors.New("item index is not the next index"))
	ErrInsufficientValue  = chain.NewExitError(ExitCodeInsufficientValue, errors.New("value does not cover the purchase fee"))
	ErrFeeBelowReserve    = chain.NewExitError(ExitCodeInsufficientValue, errors.New("purchase fee does not cover the item amount and processing allowance"))
	ErrUnknownRarity      = chain.NewExitError(ExitCodeUnknownRarity, errors.New("unknown rarity"))
	ErrRarityLimitReached = chain.NewExitError(ExitCodeRarityLimitReached, errors.New("rarity limit reached"))

	ErrZeroDenominator = fmt.Errorf("%w: royalty denominator is zero", codec.ErrMalformedData)
	ErrInvalidContent  = fmt.Errorf("%w: content needs two refs", codec.ErrMalformedData)
)
