package domain

// CodeUSD is the pivot currency code all amounts are normalized through.
const CodeUSD = "USD"

// Currency represents a supported currency.
type Currency struct {
	CurrencyID string `json:"currencyID"`
	Code       string `json:"code"` // e.g. "USD", "UZS", "AED"
	Name       string `json:"name"`
	IsBase     bool   `json:"isBase"` // true for the USD pivot
	AuditFields
}
