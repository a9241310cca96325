package repositories

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
)

// CurrencyRepositoryFacade reads currency reference data.
type CurrencyRepositoryFacade interface {
	FindCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error)
	FindCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}
