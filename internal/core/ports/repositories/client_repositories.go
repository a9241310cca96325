package repositories

import (
	"context"

	"github.com/bekzod-t/trade_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ClientRepositoryFacade reads clients and mutates their balances.
type ClientRepositoryFacade interface {
	FindClientByID(ctx context.Context, clientID string) (*domain.Client, error)

	// ApplyBalanceDelta adds delta to the client's stored balance as a single
	// conditional atomic increment (balance = balance + delta executed in the
	// data store, not read-modify-write in application code). It returns the
	// number of rows actually changed; zero means the client vanished or is
	// inactive and the caller must treat the update as failed.
	ApplyBalanceDelta(ctx context.Context, clientID string, delta decimal.Decimal) (int64, error)
}
