package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is the closed set of account currencies
type Currency string

const (
	USD Currency = "USD"
	NGN Currency = "NGN"
)

// Currencies lists every supported currency
var Currencies = []Currency{USD, NGN}

// Valid reports whether c is a supported currency
func (c Currency) Valid() bool {
	for _, v := range Currencies {
		if c == v {
			return true
		}
	}
	return false
}

type Account struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"userId"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  Currency        `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// BalanceDiscrepancy is an account whose stored balance differs from its ledger sum
type BalanceDiscrepancy struct {
	AccountID uuid.UUID       `json:"accountId"`
	Balance   decimal.Decimal `json:"balance"`
	Ledger    decimal.Decimal `json:"ledger"`
}
