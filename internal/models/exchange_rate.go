package models

import "github.com/shopspring/decimal"

// ExchangeRate mirrors the exchange_rates table. One row is one sample; the
// latest row per currency wins.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"` // Primary Key (UUID)
	CurrencyID     string          `json:"currencyID"`     // FK -> currencies.currency_id
	Rate           decimal.Decimal `json:"rate"`           // currency -> USD
	AuditFields
}
