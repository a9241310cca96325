package services

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/bekzod-t/trade_ledger_app/internal/dto"
)

// TransactionSvcFacade is the single entry point per lifecycle operation of
// the ledger engine. Authorization (which roles may call these) is enforced
// by the caller, not here.
type TransactionSvcFacade interface {
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest, actingUserID string) (*domain.Transaction, error)
	UpdateTransaction(ctx context.Context, transactionID string, req dto.UpdateTransactionRequest, actingUserID string) (*domain.Transaction, error)
	DeleteTransaction(ctx context.Context, transactionID string, actingUserID string) error

	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)
	ListTransactionsByClient(ctx context.Context, clientID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	ListAuditEntries(ctx context.Context, transactionID string) ([]domain.TransactionAuditEntry, error)
}
