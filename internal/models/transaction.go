package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors the transactions table.
type Transaction struct {
	TransactionID        string           `json:"transactionID"` // Primary Key (UUID)
	Type                 string           `json:"type"`          // SALE, PURCHASE, RETURN, PAYMENT, RETURN_PAYMENT, TRANSFER
	Status               string           `json:"status"`
	ClientID             string           `json:"clientID"`                   // FK -> clients.client_id
	ReceiverClientID     *string          `json:"receiverClientID,omitempty"` // TRANSFER only
	CurrencyID           string           `json:"currencyID"`                 // FK -> currencies.currency_id
	ExchangeRate         decimal.Decimal  `json:"exchangeRate"`
	ClientExchangeRate   decimal.Decimal  `json:"clientExchangeRate"`
	ReceiverExchangeRate *decimal.Decimal `json:"receiverExchangeRate,omitempty"`
	OriginalAmount       *decimal.Decimal `json:"originalAmount,omitempty"`
	UsdAmount            decimal.Decimal  `json:"usdAmount"`
	BalanceAmount        decimal.Decimal  `json:"balanceAmount"`
	FeeAmount            decimal.Decimal  `json:"feeAmount"`
	Description          string           `json:"description"`
	DeletedAt            *time.Time       `json:"deletedAt,omitempty"` // Soft delete marker
	AuditFields
}

// TransactionItem mirrors the transaction_items table. Prices are stored in
// USD.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`        // Primary Key (UUID)
	TransactionID string          `json:"transactionID"` // FK -> transactions.transaction_id
	ProductID     string          `json:"productID"`     // FK -> products.product_id
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`
	TotalPrice    decimal.Decimal `json:"totalPrice"`
	AuditFields
}

// TransactionAuditEntry mirrors the transaction_audit_log table.
type TransactionAuditEntry struct {
	EntryID       string    `json:"entryID"`
	TransactionID string    `json:"transactionID"`
	Note          string    `json:"note"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}
