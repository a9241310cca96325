package repositories

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
)

// ExchangeRateRepositoryFacade reads stored exchange rate samples.
type ExchangeRateRepositoryFacade interface {
	// FindLatestRate returns the most recent stored rate for the currency, or
	// apperrors.ErrNotFound when none exists.
	FindLatestRate(ctx context.Context, currencyID string) (*domain.ExchangeRate, error)
}
