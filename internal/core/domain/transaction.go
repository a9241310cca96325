package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the closed set of ledger event types. Every calculation
// switches exhaustively over these values; there is no open hierarchy.
type TransactionType string

const (
	TypeSale          TransactionType = "SALE"
	TypePurchase      TransactionType = "PURCHASE"
	TypeReturn        TransactionType = "RETURN"
	TypePayment       TransactionType = "PAYMENT"
	TypeReturnPayment TransactionType = "RETURN_PAYMENT"
	TypeTransfer      TransactionType = "TRANSFER"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	switch t {
	case TypeSale, TypePurchase, TypeReturn, TypePayment, TypeReturnPayment, TypeTransfer:
		return true
	}
	return false
}

// RequiresItems reports whether the type is priced from line items.
func (t TransactionType) RequiresItems() bool {
	switch t {
	case TypeSale, TypePurchase, TypeReturn:
		return true
	}
	return false
}

// RequiresAmount reports whether the type is priced from a stated amount.
func (t TransactionType) RequiresAmount() bool {
	switch t {
	case TypePayment, TypeReturnPayment, TypeTransfer:
		return true
	}
	return false
}

// TransactionStatus indicates the state of a ledger transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// Transaction represents one ledger event against a client's balance.
//
// UsdAmount is the authoritative pivot value; every other currency-denominated
// field is derivable from it and a rate. BalanceAmount is signed: positive
// means the client's debt increases (their stored balance decreases).
type Transaction struct {
	TransactionID string            `json:"transactionID"`
	Type          TransactionType   `json:"type"`
	Status        TransactionStatus `json:"status"`
	ClientID      string            `json:"clientID"`
	// ReceiverClientID is set for TRANSFER only.
	ReceiverClientID *string `json:"receiverClientID,omitempty"`
	CurrencyID       string  `json:"currencyID"`

	// ExchangeRate converts the transaction currency to USD.
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	// ClientExchangeRate converts the client's balance currency to USD.
	ClientExchangeRate decimal.Decimal `json:"clientExchangeRate"`
	// ReceiverExchangeRate converts the receiver's balance currency to USD
	// (TRANSFER only).
	ReceiverExchangeRate *decimal.Decimal `json:"receiverExchangeRate,omitempty"`

	// OriginalAmount is the stated amount in the transaction currency, set for
	// amount-only types (PAYMENT, RETURN_PAYMENT, TRANSFER).
	OriginalAmount *decimal.Decimal `json:"originalAmount,omitempty"`
	UsdAmount      decimal.Decimal  `json:"usdAmount"`
	BalanceAmount  decimal.Decimal  `json:"balanceAmount"`
	// FeeAmount is denominated in the transaction currency.
	FeeAmount decimal.Decimal `json:"feeAmount"`

	// Description is free text; the pricer appends audit annotations to it,
	// never overwrites.
	Description string            `json:"description"`
	Items       []TransactionItem `json:"items,omitempty"`

	DeletedAt *time.Time `json:"deletedAt,omitempty"`
	AuditFields
}

// ReceiverBalanceAmount is the signed balance effect of the receiver leg of a
// TRANSFER, derived from the pivot amount and the receiver's own rate. It is
// the opposite sign of the sender's delta: the receiver's debt increases.
// Zero for every other type.
func (t *Transaction) ReceiverBalanceAmount() decimal.Decimal {
	if t.Type != TypeTransfer || t.ReceiverExchangeRate == nil {
		return decimal.Zero
	}
	return t.UsdAmount.Mul(*t.ReceiverExchangeRate)
}

// TransactionItem is one priced line of an item-bearing transaction. Items are
// owned exclusively by their Transaction and replaced wholesale on
// recalculation, never partially patched.
type TransactionItem struct {
	ItemID        string          `json:"itemID"`
	TransactionID string          `json:"transactionID"`
	ProductID     string          `json:"productID"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unitPrice"`  // USD
	TotalPrice    decimal.Decimal `json:"totalPrice"` // USD, unitPrice * quantity
	AuditFields
}
