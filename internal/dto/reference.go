package dto

import (
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CurrencyResponse defines the data returned for a currency.
type CurrencyResponse struct {
	CurrencyID string `json:"currencyID"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	IsBase     bool   `json:"isBase"`
}

// ClientResponse defines the data returned for a client.
type ClientResponse struct {
	ClientID          string          `json:"clientID"`
	Name              string          `json:"name"`
	BalanceCurrencyID string          `json:"balanceCurrencyID"`
	CurrentBalance    decimal.Decimal `json:"currentBalance"`
}

// ProductResponse defines the data returned for a product.
type ProductResponse struct {
	ProductID string          `json:"productID"`
	Name      string          `json:"name"`
	PriceUsd  decimal.Decimal `json:"priceUsd"`
}

func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyID: c.CurrencyID,
		Code:       c.Code,
		Name:       c.Name,
		IsBase:     c.IsBase,
	}
}

func ToClientResponse(c *domain.Client) ClientResponse {
	return ClientResponse{
		ClientID:          c.ClientID,
		Name:              c.Name,
		BalanceCurrencyID: c.BalanceCurrencyID,
		CurrentBalance:    c.CurrentBalance,
	}
}

func ToProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ProductID: p.ProductID,
		Name:      p.Name,
		PriceUsd:  p.PriceUsd,
	}
}
