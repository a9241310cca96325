package services

import (
	portsrepo "github.com/bekzod-t/trade_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/bekzod-t/trade_ledger_app/internal/core/ports/services"
)

// NewServiceContainer wires the calculation pipeline and the services on top
// of the repository container.
func NewServiceContainer(repos *portsrepo.RepositoryContainer) *portssvc.ServiceContainer {
	resolver := NewExchangeRateResolver(repos.ExchangeRate)
	pricer := NewLineItemPricer()
	calculator := NewTransactionCalculator(resolver, pricer, repos.Product)
	ledger := NewBalanceLedger(repos.Client)

	return &portssvc.ServiceContainer{
		Transaction: NewTransactionService(repos.Transaction, repos.Client, repos.Currency, repos.AuditLog, calculator, ledger),
		Currency:    NewCurrencyService(repos.Currency),
		Client:      NewClientService(repos.Client),
		Product:     NewProductService(repos.Product),
	}
}
