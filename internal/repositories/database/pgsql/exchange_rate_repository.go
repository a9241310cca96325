package pgsql

import (
	"context"
	"errors"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/bekzod-t/trade_ledger_app/internal/models"
	"github.com/bekzod-t/trade_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxExchangeRateRepository implements ExchangeRateRepositoryFacade using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// NewPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func NewPgxExchangeRateRepository(pool *pgxpool.Pool) *PgxExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExchangeRateRepositoryFacade = (*PgxExchangeRateRepository)(nil)

// FindLatestRate retrieves the most recent stored rate sample for the
// currency. Rows are samples; only the newest one is authoritative.
func (r *PgxExchangeRateRepository) FindLatestRate(ctx context.Context, currencyID string) (*domain.ExchangeRate, error) {
	query := `
		SELECT exchange_rate_id, currency_id, rate,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates
		WHERE currency_id = $1
		ORDER BY created_at DESC
		LIMIT 1;`

	var m models.ExchangeRate
	err := r.Pool.QueryRow(ctx, query, currencyID).Scan(
		&m.ExchangeRateID,
		&m.CurrencyID,
		&m.Rate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find latest rate for currency "+currencyID, err)
	}

	rate := mapping.ToDomainExchangeRate(m)
	return &rate, nil
}
