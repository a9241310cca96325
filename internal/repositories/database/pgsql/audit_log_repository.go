package pgsql

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/apperrors"
	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/bekzod-t/trade_ledger_app/internal/models"
	"github.com/bekzod-t/trade_ledger_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxAuditLogRepository implements AuditLogRepositoryFacade using pgxpool.
// Writes happen inside the transaction repository's unit of work; this
// repository only reads.
type PgxAuditLogRepository struct {
	BaseRepository
}

// NewPgxAuditLogRepository creates a new PgxAuditLogRepository.
func NewPgxAuditLogRepository(pool *pgxpool.Pool) *PgxAuditLogRepository {
	return &PgxAuditLogRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

// ListEntriesByTransaction retrieves the audit entries of one transaction in
// insertion order.
func (r *PgxAuditLogRepository) ListEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.TransactionAuditEntry, error) {
	query := `
		SELECT entry_id, transaction_id, note, created_at, created_by
		FROM transaction_audit_log
		WHERE transaction_id = $1
		ORDER BY created_at ASC, entry_id ASC;`

	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit entries for transaction "+transactionID, err)
	}
	defer rows.Close()

	entries := make([]domain.TransactionAuditEntry, 0)
	for rows.Next() {
		var m models.TransactionAuditEntry
		err := rows.Scan(
			&m.EntryID,
			&m.TransactionID,
			&m.Note,
			&m.CreatedAt,
			&m.CreatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit entry row for transaction "+transactionID, err)
		}
		entries = append(entries, mapping.ToDomainAuditEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit entry rows for transaction "+transactionID, err)
	}

	return entries, nil
}
