package models

import "github.com/shopspring/decimal"

// Product mirrors the products table.
type Product struct {
	ProductID string          `json:"productID"` // Primary Key (UUID)
	Name      string          `json:"name"`
	PriceUsd  decimal.Decimal `json:"priceUsd"` // Catalogue price, USD
	IsActive  bool            `json:"isActive"`
	AuditFields
}
