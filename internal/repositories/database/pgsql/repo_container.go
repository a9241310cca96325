package pgsql

import (
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryContainer wires all pgx repositories over one shared pool.
func NewRepositoryContainer(pool *pgxpool.Pool) *portsrepo.RepositoryContainer {
	return &portsrepo.RepositoryContainer{
		Transaction:  NewPgxTransactionRepository(pool),
		Client:       NewPgxClientRepository(pool),
		Product:      NewPgxProductRepository(pool),
		Currency:     NewPgxCurrencyRepository(pool),
		ExchangeRate: NewPgxExchangeRateRepository(pool),
		AuditLog:     NewPgxAuditLogRepository(pool),
	}
}
