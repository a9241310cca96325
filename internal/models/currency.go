package models

// Currency mirrors the currencies table.
type Currency struct {
	CurrencyID string `json:"currencyID"` // Primary Key (UUID)
	Code       string `json:"code"`       // ISO-ish code, unique
	Name       string `json:"name"`
	IsBase     bool   `json:"isBase"` // true for USD
	AuditFields
}
