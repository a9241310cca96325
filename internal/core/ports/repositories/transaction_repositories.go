package repositories

import (
	"context"
	"time"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
)

// TransactionRepositoryFacade persists transactions together with their items
// and audit entries. Each write method is one unit of work: the transaction
// row, its items and its audit entries commit or roll back together.
type TransactionRepositoryFacade interface {
	// SaveTransaction inserts a new transaction with its items and audit
	// entries.
	SaveTransaction(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem, entries []domain.TransactionAuditEntry) error

	// UpdateTransaction rewrites the transaction row and replaces its item set
	// wholesale. Returns apperrors.ErrNotFound when the row does not exist.
	UpdateTransaction(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem, entries []domain.TransactionAuditEntry) error

	// FindTransactionByID returns the transaction with its items. Soft-deleted
	// transactions are not returned.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// SoftDeleteTransaction marks the transaction deleted, keeping the record
	// for audit. Returns apperrors.ErrNotFound when no active row matches.
	SoftDeleteTransaction(ctx context.Context, transactionID string, status domain.TransactionStatus, deletedBy string, deletedAt time.Time) error

	// HardDeleteTransaction removes a transaction and its items outright. Used
	// only to unwind a create whose balance application failed.
	HardDeleteTransaction(ctx context.Context, transactionID string) error

	// ListTransactionsByClient returns a token-paginated page of the client's
	// active transactions, newest first.
	ListTransactionsByClient(ctx context.Context, clientID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
