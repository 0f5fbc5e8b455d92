package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is the official rate of one currency unit against the rouble
type ExchangeRate struct {
	Currency Currency        `json:"currency"`
	Nominal  int64           `json:"nominal"`
	Rate     decimal.Decimal `json:"rate"`
	Date     time.Time       `json:"date"`
}
