package models

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType is the direction of a ledger record
type TransactionType string

const (
	Credit TransactionType = "credit"
	Debit  TransactionType = "debit"
)

// Transaction represents an immutable ledger record
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    Currency        `json:"currency"`
	FromAccount *uuid.UUID      `json:"fromAccount,omitempty"`
	ToAccount   *uuid.UUID      `json:"toAccount,omitempty"`
	UserID      uuid.UUID       `json:"userId"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Transfer holds both ledger records written by a transfer
type Transfer struct {
	DebitTransaction  *Transaction `json:"debitTransaction"`
	CreditTransaction *Transaction `json:"creditTransaction"`
}

// TransactionFilter selects a page of a user's ledger records
type TransactionFilter struct {
	UserID    uuid.UUID
	Type      TransactionType
	AccountID *uuid.UUID
	Page      int
	Limit     int
}

// Skip returns the number of records before the requested page
func (f TransactionFilter) Skip() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// PageMeta describes a paginated result
type PageMeta struct {
	Page         int   `json:"page"`
	Limit        int   `json:"limit"`
	TotalPages   int   `json:"totalPages"`
	TotalRecords int64 `json:"totalRecords"`
}

// TransactionPage is a page of ledger records
type TransactionPage struct {
	Transactions []Transaction `json:"transactions"`
	Meta         PageMeta      `json:"meta"`
}
