package pgsql

import (
	"context"
	"errors"
	"time"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/bekzod-t/trade_ledger_app/internal/models"
	"github.com/bekzod-t/trade_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxClientRepository implements ClientRepositoryFacade using pgxpool.
type PgxClientRepository struct {
	BaseRepository
}

// NewPgxClientRepository creates a new PgxClientRepository.
func NewPgxClientRepository(pool *pgxpool.Pool) *PgxClientRepository {
	return &PgxClientRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ClientRepositoryFacade = (*PgxClientRepository)(nil)

// FindClientByID retrieves a client by its ID.
func (r *PgxClientRepository) FindClientByID(ctx context.Context, clientID string) (*domain.Client, error) {
	query := `
		SELECT client_id, name, phone, balance_currency_id, initial_balance, current_balance, is_active,
		       created_at, created_by, last_updated_at, last_updated_by
		FROM clients
		WHERE client_id = $1;`

	var m models.Client
	err := r.Pool.QueryRow(ctx, query, clientID).Scan(
		&m.ClientID,
		&m.Name,
		&m.Phone,
		&m.BalanceCurrencyID,
		&m.InitialBalance,
		&m.CurrentBalance,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find client "+clientID, err)
	}

	client := mapping.ToDomainClient(m)
	return &client, nil
}

// ApplyBalanceDelta adds delta to the client's stored balance as one
// conditional atomic increment. The balance is never read into application
// code and written back; concurrent increments serialize in the database.
func (r *PgxClientRepository) ApplyBalanceDelta(ctx context.Context, clientID string, delta decimal.Decimal) (int64, error) {
	query := `
		UPDATE clients
		SET current_balance = COALESCE(current_balance, 0) + $2, last_updated_at = $3
		WHERE client_id = $1 AND is_active = TRUE;`

	tag, err := r.Pool.Exec(ctx, query, clientID, delta, time.Now().UTC())
	if err != nil {
		return 0, apperrors.NewAppError(500, "failed to apply balance delta for client "+clientID, err)
	}
	return tag.RowsAffected(), nil
}
