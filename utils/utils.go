// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"math/big"
	"os"
	"path"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/shopspring/decimal"

	"github.com/starsfinance/nftcollection/consts"

	formatter "github.com/onsi/ginkgo/v2/formatter"
)

var (
	ErrInvalidSize    = errors.New("invalid size")
	ErrNegativeAmount = errors.New("amount must not be negative")
	ErrTooPrecise     = errors.New("amount has more than 9 decimals")
)

func ToID(bytes []byte) ids.ID {
	return ids.ID(hashing.ComputeHash256Array(bytes))
}

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outputs to stdout.
//
// e.g.,
//
//	Outf("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Outf("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

// FormatBalance renders an amount of nano units as whole coins with all
// nine decimals, e.g. 1500000000 as "1.500000000".
func FormatBalance(bal *big.Int) string {
	if bal == nil {
		bal = new(big.Int)
	}
	return decimal.NewFromBigInt(bal, -consts.CoinDecimals).StringFixed(consts.CoinDecimals)
}

// ParseBalance converts a decimal amount of whole coins into nano units.
func ParseBalance(bal string) (*big.Int, error) {
	d, err := decimal.NewFromString(bal)
	if err != nil {
		return nil, err
	}
	if d.IsNegative() {
		return nil, ErrNegativeAmount
	}
	nano := d.Shift(consts.CoinDecimals)
	if !nano.Equal(nano.Truncate(0)) {
		return nil, ErrTooPrecise
	}
	return nano.BigInt(), nil
}

// SaveBytes writes [b] to [filename] with [perms.ReadWrite].
func SaveBytes(filename string, b []byte) error {
	return os.WriteFile(filename, b, perms.ReadWrite)
}

// LoadBytes reads [filename] and, when [expectedSize] is not -1, checks the
// length of the content.
func LoadBytes(filename string, expectedSize int) ([]byte, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if expectedSize != -1 && len(bytes) != expectedSize {
		return nil, ErrInvalidSize
	}
	return bytes, nil
}

func Repeat[T any](v T, n int) []T {
	arr := make([]T, n)
	for i := 0; i < n; i++ {
		arr[i] = v
	}
	return arr
}
