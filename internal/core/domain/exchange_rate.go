package domain

import "github.com/shopspring/decimal"

// ExchangeRate is a time-stamped (currency, rate) sample, read as "most
// recent rate for this currency". Rate converts the currency to USD.
type ExchangeRate struct {
	ExchangeRateID string          `json:"exchangeRateID"`
	CurrencyID     string          `json:"currencyID"`
	Rate           decimal.Decimal `json:"rate"`
	AuditFields
}
