// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package collection

import (
	"fmt"
	"math/big"
)

// Rarity is the tier of a purchased item.
type Rarity uint8

const (
	Common Rarity = iota
	Uncommon
	Rare
	Mythical
	Legendary
	Immortal

	RarityCount = 6
)

var rarityNames = [RarityCount]string{
	"common",
	"uncommon",
	"rare",
	"mythical",
	"legendary",
	"immortal",
}

// RarityFromUint64 returns false for values outside the tier set.
func RarityFromUint64(v uint64) (Rarity, bool) {
	if v >= RarityCount {
		return 0, false
	}
	return Rarity(v), true
}

// RarityFromCoins maps a tier of any width onto the supported set.
func RarityFromCoins(v *big.Int) (Rarity, bool) {
	if v.Sign() < 0 || !v.IsUint64() {
		return 0, false
	}
	return RarityFromUint64(v.Uint64())
}

func ParseRarity(s string) (Rarity, error) {
	for i, name := range rarityNames {
		if name == s {
			return Rarity(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRarity, s)
}

func (r Rarity) String() string {
	if r >= RarityCount {
		return fmt.Sprintf("rarity(%d)", uint8(r))
	}
	return rarityNames[r]
}

// Filename is the individual content of items of this tier.
func (r Rarity) Filename() string {
	return r.String() + ".json"
}
