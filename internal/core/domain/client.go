package domain

import "github.com/shopspring/decimal"

// Client is the owning party of ledger transactions. CurrentBalance is
// denominated in the client's balance currency and is mutated only through
// the balance ledger's atomic increment, never assigned directly.
type Client struct {
	ClientID          string          `json:"clientID"`
	Name              string          `json:"name"`
	Phone             string          `json:"phone"`
	BalanceCurrencyID string          `json:"balanceCurrencyID"`
	InitialBalance    decimal.Decimal `json:"initialBalance"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
	IsActive          bool            `json:"isActive"`
	AuditFields
}
