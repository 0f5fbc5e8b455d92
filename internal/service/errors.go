package service

import (
	"errors"
)

// ErrorKind classifies a failed service call
type ErrorKind string

const (
	KindValidation         ErrorKind = "validation"
	KindNotFound           ErrorKind = "not_found"
	KindInsufficientFunds  ErrorKind = "insufficient_funds"
	KindCurrencyMismatch   ErrorKind = "currency_mismatch"
	KindDuplicate          ErrorKind = "duplicate"
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindInternal           ErrorKind = "internal"
)

// Failure messages returned to API clients
const (
	MsgAccountNotFound         = "Account not found"
	MsgSourceNotFound          = "Source account not found"
	MsgDestinationNotFound     = "Destination account not found"
	MsgInsufficientBalance     = "Insufficient balance"
	MsgInsufficientForTransfer = "Insufficient balance for transfer"
	MsgCurrencyMismatch        = "Source and destination accounts currency does not match"
	MsgSameAccount             = "Source and destination accounts must be different"
	MsgInvalidAmount           = "Amount must be greater than zero"
	MsgAmountScale             = "Amount must have at most 4 decimal places"
	MsgAmountRange             = "Amount exceeds the allowed limit"
	MsgBalanceLimit            = "Resulting balance exceeds the allowed limit"
	MsgInvalidCurrency         = "Unsupported currency"
	MsgInvalidType             = "Transaction type must be credit or debit"
	MsgAccountExists           = "Account already exists for user in this currency"
	MsgTransactionNotFound     = "Transaction not found"
	MsgEmailInUse              = "Email already in use"
	MsgInvalidCredentials      = "Invalid credentials"
	MsgInvalidToken            = "Invalid token"
	MsgUserNotFound            = "User not found"
	MsgInternal                = "Something went wrong"
)

// Error is the failure variant of every service call. Message is safe to
// show to clients; Err keeps the underlying cause for logs.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func internalError(err error) *Error {
	return &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
}

// AsError returns err as a *Error, classifying anything else as internal
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return internalError(err)
}
