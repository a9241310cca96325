package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bekzod-t/trade_ledger_app/internal/core/ports/services"
)

type currencyService struct {
	currencyRepo portsrepo.CurrencyRepositoryFacade
}

// NewCurrencyService creates the currency reference data service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepositoryFacade) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo}
}

func (s *currencyService) GetCurrencyByID(ctx context.Context, currencyID string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByID(ctx, currencyID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: ID %s", apperrors.ErrCurrencyNotFound, currencyID)
		}
		return nil, fmt.Errorf("failed to fetch currency %s: %w", currencyID, err)
	}
	return currency, nil
}

func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	currency, err := s.currencyRepo.FindCurrencyByCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", apperrors.ErrCurrencyNotFound, code)
		}
		return nil, fmt.Errorf("failed to fetch currency by code %s: %w", code, err)
	}
	return currency, nil
}

func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	currencies, err := s.currencyRepo.ListCurrencies(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list currencies: %w", err)
	}
	return currencies, nil
}
