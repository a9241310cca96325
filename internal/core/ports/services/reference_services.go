package services

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
)

// CurrencySvcFacade exposes currency reference data reads.
type CurrencySvcFacade interface {
	GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ClientSvcFacade exposes client reference data reads.
type ClientSvcFacade interface {
	GetClientByID(ctx context.Context, clientID string) (*domain.Client, error)
}

// ProductSvcFacade exposes product reference data reads.
type ProductSvcFacade interface {
	GetProductByID(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context) ([]domain.Product, error)
}
