// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

// Opcodes
const (
	OpPurchase            uint32 = 0x6117d13b
	OpGetRoyaltyParams    uint32 = 0x03d22e46
	OpMint                uint32 = 0x0318f361
	OpChangeOwner         uint32 = 0x93b05b31
	OpChangeContent       uint32 = 0x0ec29200
	OpChangeFee           uint32 = 0x476c06a8
	OpReportRoyaltyParams uint32 = 0xa8cb00ad
)

// Exit codes
const (
	ExitCodeUnauthorized       int32 = 401
	ExitCodeInvalidIndex       int32 = 402
	ExitCodeInsufficientValue  int32 = 404
	ExitCodeUnknownRarity      int32 = 408
	ExitCodeRarityLimitReached int32 = 409
)

// Get methods
const (
	MethodGetCollectionData    = "get_collection_data"
	MethodGetContent           = "get_content"
	MethodGetNftAddressByIndex = "get_nft_address_by_index"
	MethodRoyaltyParams        = "royalty_params"
	MethodGetNftContent        = "get_nft_content"
	MethodGetFees              = "get_fees"
	MethodGetRarityCount       = "get_rarity_count"
)

const (
	// DefaultRarityLimit is how many items of each tier can be purchased.
	DefaultRarityLimit = 1_001

	// DefaultProcessingAllowance (0.01 coin) is kept by the collection from
	// every purchase fee.
	DefaultProcessingAllowance = 10_000_000

	// ContentTagOffchain prefixes content that is a reference to off-chain
	// metadata.
	ContentTagOffchain = 0x01

	codeName = "nft-collection:v1"
)
