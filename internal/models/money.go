package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Ledger columns are NUMERIC(20,4).
const (
	AmountScale     = 4
	AmountIntDigits = 16
)

var (
	ErrAmountNotPositive = errors.New("amount must be greater than zero")
	ErrAmountScale       = errors.New("amount has more than 4 decimal places")
	ErrAmountRange       = errors.New("amount exceeds the ledger limit")
)

var maxMoney = decimal.New(1, AmountIntDigits)

// CheckAmount reports whether d is a positive amount the ledger can store
// exactly. Exponents are bounded before any arithmetic so that inputs like
// 1e-20000000 are rejected without expanding them.
func CheckAmount(d decimal.Decimal) error {
	if d.Sign() <= 0 {
		return ErrAmountNotPositive
	}
	// room for trailing zeros such as 1.00000000
	if d.Exponent() < -(AmountScale + 20) {
		return ErrAmountScale
	}
	if d.Exponent() >= AmountIntDigits {
		return ErrAmountRange
	}
	if !d.Equal(d.Truncate(AmountScale)) {
		return ErrAmountScale
	}
	if !FitsLedger(d) {
		return ErrAmountRange
	}
	return nil
}

// FitsLedger reports whether a balance or amount stays below 10^16
func FitsLedger(d decimal.Decimal) bool {
	return d.Abs().LessThan(maxMoney)
}
