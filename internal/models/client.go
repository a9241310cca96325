package models

import "github.com/shopspring/decimal"

// Client mirrors the clients table. CurrentBalance is only ever changed by
// the atomic increment in the client repository.
type Client struct {
	ClientID          string          `json:"clientID"` // Primary Key (UUID)
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	BalanceCurrencyID string          `json:"balanceCurrencyID"` // FK -> currencies.currency_id
	InitialBalance    decimal.Decimal `json:"initialBalance"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
	IsActive          bool            `json:"isActive"`
	AuditFields
}
