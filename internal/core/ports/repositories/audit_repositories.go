package repositories

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
)

// AuditLogRepositoryFacade reads the structured transaction audit log. Writes
// happen inside the transaction repository's unit of work.
type AuditLogRepositoryFacade interface {
	ListEntriesByTransaction(ctx context.Context, transactionID string) ([]domain.TransactionAuditEntry, error)
}
