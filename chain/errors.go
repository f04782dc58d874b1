// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package chain

import (
	"errors"
	"fmt"

	"github.com/starsfinance/nftcollection/codec"
)

var (
	ErrUnknownOpcode       = errors.New("unknown opcode")
	ErrUnknownMethod       = errors.New("unknown get method")
	ErrMissingCode         = errors.New("no implementation registered for code")
	ErrInsufficientBalance = errors.New("insufficient balance for outbound messages")
	ErrDuplicateCode       = errors.New("code already registered")
	ErrInactiveAccount     = errors.New("account is not active")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrMessageLimit        = errors.New("message limit exceeded")
	ErrInvalidStack        = errors.New("invalid stack entry")
	ErrNilMessage          = errors.New("nil message")
)

// Exit codes shared by every contract. Contract specific codes live with
// the contract.
const (
	ExitCodeSuccess           int32 = 0
	ExitCodeCellOverflow      int32 = 8
	ExitCodeCellUnderflow     int32 = 9
	ExitCodeMethodNotFound    int32 = 11
	ExitCodeMissingCode       int32 = 12
	ExitCodeNotEnoughBalance  int32 = 37
	ExitCodeUnknownOpcode     int32 = 0xffff
	exitCodeUnclassifiedError int32 = -1
)

// ExitError aborts a transaction with a stable exit code visible to the
// sender.
type ExitError struct {
	Code int32
	Err  error
}

func NewExitError(code int32, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCodeOf classifies [err]. Decode failures are cell underflows and
// builder failures cell overflows; errors that carry no exit code return
// false.
func ExitCodeOf(err error) (int32, bool) {
	var exitErr *ExitError
	switch {
	case err == nil:
		return ExitCodeSuccess, true
	case errors.As(err, &exitErr):
		return exitErr.Code, true
	case errors.Is(err, codec.ErrMalformedData):
		return ExitCodeCellUnderflow, true
	case errors.Is(err, codec.ErrCellOverflow):
		return ExitCodeCellOverflow, true
	case errors.Is(err, ErrUnknownOpcode):
		return ExitCodeUnknownOpcode, true
	case errors.Is(err, ErrUnknownMethod):
		return ExitCodeMethodNotFound, true
	case errors.Is(err, ErrMissingCode):
		return ExitCodeMissingCode, true
	case errors.Is(err, ErrInsufficientBalance):
		return ExitCodeNotEnoughBalance, true
	default:
		return exitCodeUnclassifiedError, false
	}
}
