// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package item

// ExitCodeNotFromCollection aborts an initialization not sent by the
// owning collection.
const ExitCodeNotFromCollection int32 = 405

const (
	MethodGetNftData = "get_nft_data"

	codeName = "nft-item:v1"
)
