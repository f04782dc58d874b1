// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "encoding/hex"

// LoadHex decodes an optionally 0x-prefixed hex string. When expectedSize is
// not -1 the decoded length must match it.
func LoadHex(s string, expectedSize int) ([]byte, error) {
	if len(s) >= 2 && s[:2] == "0x" {
		s = s[2:]
	}

	bytes, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if expectedSize != -1 && len(bytes) != expectedSize {
		return nil, ErrInvalidSize
	}
	return bytes, nil
}

// ParseCell accepts a hex or base64 encoded bag of cells.
func ParseCell(s string) (*Cell, error) {
	if b, err := LoadHex(s, -1); err == nil {
		return FromBOC(b)
	}
	return FromBase64(s)
}

// Bytes renders as hex in text encodings.
type Bytes []byte

func (b Bytes) String() string {
	return hex.EncodeToString(b)
}

// MarshalText returns the hex representation of b.
func (b Bytes) MarshalText() ([]byte, error) {
	return []byte(b.String()), nil
}

// UnmarshalText sets b to the bytes represented by text.
func (b *Bytes) UnmarshalText(text []byte) error {
	bytes, err := LoadHex(string(text), -1)
	if err != nil {
		return err
	}
	*b = bytes
	return nil
}
