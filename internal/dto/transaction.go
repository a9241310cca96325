package dto

import (
	"time"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionItemRequest is one requested line of an item-bearing transaction.
// Price, when present, overrides the catalogue price and is denominated in the
// transaction currency.
type TransactionItemRequest struct {
	ProductID string           `json:"productID" binding:"required"`
	Quantity  int64            `json:"quantity" binding:"required"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// CreateTransactionRequest is the payload for creating a ledger transaction.
// Rate fields are optional overrides; when absent the engine resolves the most
// recent stored rate (or 1 for USD).
type CreateTransactionRequest struct {
	Type             string  `json:"type" binding:"required,txtype"`
	ClientID         string  `json:"clientID" binding:"required"`
	ReceiverClientID *string `json:"receiverClientID,omitempty"`
	CurrencyID       string  `json:"currencyID" binding:"required"`

	ExchangeRate         *decimal.Decimal `json:"exchangeRate,omitempty"`
	ClientExchangeRate   *decimal.Decimal `json:"clientExchangeRate,omitempty"`
	ReceiverExchangeRate *decimal.Decimal `json:"receiverExchangeRate,omitempty"`

	OriginalAmount *decimal.Decimal `json:"originalAmount,omitempty"`
	FeeAmount      *decimal.Decimal `json:"feeAmount,omitempty"`

	Description string                   `json:"description"`
	Items       []TransactionItemRequest `json:"items,omitempty"`
}

// UpdateTransactionRequest carries the fields an update may change. Every
// field is optional; recalculation sources each input from "new value if
// supplied, else the value already stored on the transaction". Type, client
// and receiver are immutable.
type UpdateTransactionRequest struct {
	CurrencyID           *string                  `json:"currencyID,omitempty"`
	ExchangeRate         *decimal.Decimal         `json:"exchangeRate,omitempty"`
	ClientExchangeRate   *decimal.Decimal         `json:"clientExchangeRate,omitempty"`
	ReceiverExchangeRate *decimal.Decimal         `json:"receiverExchangeRate,omitempty"`
	OriginalAmount       *decimal.Decimal         `json:"originalAmount,omitempty"`
	FeeAmount            *decimal.Decimal         `json:"feeAmount,omitempty"`
	Description          *string                  `json:"description,omitempty"`
	Items                []TransactionItemRequest `json:"items,omitempty"`
}

// TransactionItemResponse defines the data returned for one priced line.
type TransactionItemResponse struct {
	ItemID     string          `json:"itemID"`
	ProductID  string          `json:"productID"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// TransactionResponse defines the normalized transaction view returned by the
// lifecycle operations.
type TransactionResponse struct {
	TransactionID        string                    `json:"transactionID"`
	Type                 string                    `json:"type"`
	Status               string                    `json:"status"`
	ClientID             string                    `json:"clientID"`
	ReceiverClientID     *string                   `json:"receiverClientID,omitempty"`
	CurrencyID           string                    `json:"currencyID"`
	ExchangeRate         decimal.Decimal           `json:"exchangeRate"`
	ClientExchangeRate   decimal.Decimal           `json:"clientExchangeRate"`
	ReceiverExchangeRate *decimal.Decimal          `json:"receiverExchangeRate,omitempty"`
	OriginalAmount       *decimal.Decimal          `json:"originalAmount,omitempty"`
	UsdAmount            decimal.Decimal           `json:"usdAmount"`
	BalanceAmount        decimal.Decimal           `json:"balanceAmount"`
	FeeAmount            decimal.Decimal           `json:"feeAmount"`
	Description          string                    `json:"description"`
	Items                []TransactionItemResponse `json:"items,omitempty"`
	CreatedAt            time.Time                 `json:"createdAt"`
	CreatedBy            string                    `json:"createdBy"`
}

// ListTransactionsParams holds pagination parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the token for the
// next page, if any.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionItemResponse converts a domain.TransactionItem to its DTO.
func ToTransactionItemResponse(item *domain.TransactionItem) TransactionItemResponse {
	return TransactionItemResponse{
		ItemID:     item.ItemID,
		ProductID:  item.ProductID,
		Quantity:   item.Quantity,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
	}
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	items := make([]TransactionItemResponse, len(txn.Items))
	for i := range txn.Items {
		items[i] = ToTransactionItemResponse(&txn.Items[i])
	}
	return TransactionResponse{
		TransactionID:        txn.TransactionID,
		Type:                 string(txn.Type),
		Status:               string(txn.Status),
		ClientID:             txn.ClientID,
		ReceiverClientID:     txn.ReceiverClientID,
		CurrencyID:           txn.CurrencyID,
		ExchangeRate:         txn.ExchangeRate,
		ClientExchangeRate:   txn.ClientExchangeRate,
		ReceiverExchangeRate: txn.ReceiverExchangeRate,
		OriginalAmount:       txn.OriginalAmount,
		UsdAmount:            txn.UsdAmount,
		BalanceAmount:        txn.BalanceAmount,
		FeeAmount:            txn.FeeAmount,
		Description:          txn.Description,
		Items:                items,
		CreatedAt:            txn.CreatedAt,
		CreatedBy:            txn.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain transactions.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	responses := make([]TransactionResponse, len(txns))
	for i := range txns {
		responses[i] = ToTransactionResponse(&txns[i])
	}
	return responses
}
