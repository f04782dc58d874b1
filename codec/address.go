// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/ava-labs/avalanchego/ids"

	"github.com/starsfinance/nftcollection/consts"
)

// StdAddressBits is the encoded width of addr_std without anycast.
const StdAddressBits = 2 + 1 + 8 + 256

const (
	friendlyLen       = 36
	flagBounceable    = 0x11
	flagNonBounceable = 0x51
	flagTestOnly      = 0x80
)

// Address is a chain address: a workchain id and a 256-bit account id. The
// zero value is the valid basechain address 0:000...0; use [NoneAddress] for
// addr_none.
type Address struct {
	Workchain int8
	Hash      ids.ID

	none bool
}

var NoneAddress = Address{none: true}

func NewAddress(workchain int8, hash ids.ID) Address {
	return Address{Workchain: workchain, Hash: hash}
}

func (a Address) IsNone() bool { return a.none }

// Raw returns the "workchain:hex" form.
func (a Address) Raw() string {
	if a.none {
		return ""
	}
	return strconv.Itoa(int(a.Workchain)) + ":" + hex.EncodeToString(a.Hash[:])
}

// ToString returns the user-friendly base64url form.
func (a Address) ToString(bounceable bool, testOnly bool) string {
	if a.none {
		return ""
	}
	buf := make([]byte, 0, friendlyLen)
	tag := byte(flagBounceable)
	if !bounceable {
		tag = flagNonBounceable
	}
	if testOnly {
		tag |= flagTestOnly
	}
	buf = append(buf, tag, byte(a.Workchain))
	buf = append(buf, a.Hash[:]...)
	buf = binary.BigEndian.AppendUint16(buf, crc16(buf))
	return base64.URLEncoding.EncodeToString(buf)
}

// String implements fmt.Stringer using the bounceable mainnet form.
func (a Address) String() string {
	return a.ToString(true, false)
}

// ParseAddress accepts either the raw or the user-friendly form (both
// base64 alphabets).
func ParseAddress(s string) (Address, error) {
	if strings.Contains(s, ":") {
		return parseRawAddress(s)
	}
	return parseFriendlyAddress(s)
}

func parseRawAddress(s string) (Address, error) {
	parts := strings.SplitN(s, ":", 2)
	wc, err := strconv.ParseInt(parts[0], 10, 8)
	if err != nil {
		return NoneAddress, fmt.Errorf("%w: workchain %q", ErrInvalidAddress, parts[0])
	}
	b, err := hex.DecodeString(parts[1])
	if err != nil || len(b) != consts.HashLen {
		return NoneAddress, fmt.Errorf("%w: account id %q", ErrInvalidAddress, parts[1])
	}
	return NewAddress(int8(wc), ids.ID(b)), nil
}

func parseFriendlyAddress(s string) (Address, error) {
	var (
		b   []byte
		err error
	)
	if strings.ContainsAny(s, "+/") {
		b, err = base64.StdEncoding.DecodeString(s)
	} else {
		b, err = base64.URLEncoding.DecodeString(s)
	}
	if err != nil || len(b) != friendlyLen {
		return NoneAddress, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}
	if crc16(b[:34]) != binary.BigEndian.Uint16(b[34:]) {
		return NoneAddress, fmt.Errorf("%w: checksum %q", ErrInvalidAddress, s)
	}
	tag := b[0] &^ flagTestOnly
	if tag != flagBounceable && tag != flagNonBounceable {
		return NoneAddress, fmt.Errorf("%w: tag %#x", ErrInvalidAddress, b[0])
	}
	return NewAddress(int8(b[1]), ids.ID(b[2:34])), nil
}

// MustParseAddress is intended for constants and tests.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// MarshalText returns the user-friendly form of a.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses either address form. An empty input is addr_none.
func (a *Address) UnmarshalText(input []byte) error {
	if len(input) == 0 {
		*a = NoneAddress
		return nil
	}
	parsed, err := ParseAddress(string(input))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// crc16 is CRC-16/XMODEM (poly 0x1021, init 0), the checksum used by the
// user-friendly address form.
func crc16(data []byte) uint16 {
	var crc uint16
	for _, x := range data {
		crc ^= uint16(x) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = crc<<1 ^ 0x1021
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
