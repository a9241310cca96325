package domain

import "github.com/shopspring/decimal"

// Product is reference data consumed read-only by the pricer.
type Product struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	PriceUsd  decimal.Decimal `json:"priceUsd"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
