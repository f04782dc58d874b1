// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package item

import (
	"errors"

	"github.com/starsfinance/nftcollection/chain"
)

var ErrNotFromCollection = chain.NewExitError(
	ExitCodeNotFromCollection,
	errors.New("item can only be initialized by its collection"),
)
