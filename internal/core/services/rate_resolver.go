package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// rateBounds is the plausible numeric range for a currency's rate to USD.
type rateBounds struct {
	min decimal.Decimal
	max decimal.Decimal
}

// rateSanityBounds catches data-entry mistakes (a rate typed as 36.5 instead
// of 3.65) before they corrupt a balance. This is not a live FX feed; the
// ranges reflect the typical order of magnitude of each pair.
var rateSanityBounds = map[string]rateBounds{
	"UZS": {min: decimal.NewFromInt(1000), max: decimal.NewFromInt(50000)},
	"AED": {min: decimal.NewFromInt(1), max: decimal.NewFromInt(10)},
}

// genericRateMax bounds any currency without a dedicated entry above.
var genericRateMax = decimal.NewFromInt(100000)

// ExchangeRateResolver resolves and validates a rate between a currency and
// the USD pivot, given an optional caller-supplied override.
type ExchangeRateResolver struct {
	rateRepo portsrepo.ExchangeRateRepositoryFacade
}

// NewExchangeRateResolver creates a new ExchangeRateResolver.
func NewExchangeRateResolver(rateRepo portsrepo.ExchangeRateRepositoryFacade) *ExchangeRateResolver {
	return &ExchangeRateResolver{rateRepo: rateRepo}
}

// Resolve returns the rate converting currency to USD. An override > 0 wins;
// USD resolves to 1; otherwise the most recent stored rate is used. The
// result is always validated against the sanity bounds, overrides included.
func (r *ExchangeRateResolver) Resolve(ctx context.Context, override *decimal.Decimal, currency domain.Currency) (decimal.Decimal, error) {
	var rate decimal.Decimal

	switch {
	case override != nil && override.IsPositive():
		rate = *override
	case currency.Code == domain.CodeUSD:
		rate = decimal.NewFromInt(1)
	default:
		stored, err := r.rateRepo.FindLatestRate(ctx, currency.CurrencyID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return decimal.Zero, fmt.Errorf("%w: no stored rate for currency %s", apperrors.ErrRateNotFound, currency.Code)
			}
			return decimal.Zero, fmt.Errorf("failed to fetch latest rate for currency %s: %w", currency.Code, err)
		}
		rate = stored.Rate
	}

	if err := validateRate(currency.Code, rate); err != nil {
		return decimal.Zero, err
	}
	return rate, nil
}

// validateRate rejects rates outside the per-currency sanity bounds. The
// returned error names the offending rate and the expected range so the
// caller can correct the input.
func validateRate(code string, rate decimal.Decimal) error {
	if code == domain.CodeUSD {
		if !rate.Equal(decimal.NewFromInt(1)) {
			return fmt.Errorf("%w: USD rate must be exactly 1, got %s", apperrors.ErrInvalidRate, rate)
		}
		return nil
	}

	if bounds, ok := rateSanityBounds[code]; ok {
		if rate.LessThan(bounds.min) || rate.GreaterThan(bounds.max) {
			return fmt.Errorf("%w: %s rate %s outside expected range [%s, %s]",
				apperrors.ErrInvalidRate, code, rate, bounds.min, bounds.max)
		}
		return nil
	}

	if !rate.IsPositive() || rate.GreaterThan(genericRateMax) {
		return fmt.Errorf("%w: %s rate %s outside expected range (0, %s]",
			apperrors.ErrInvalidRate, code, rate, genericRateMax)
	}
	return nil
}
