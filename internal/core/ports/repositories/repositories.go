package repositories

// RepositoryContainer holds instances of all repositories, wired once at
// startup and handed to the service layer.
type RepositoryContainer struct {
	Transaction  TransactionRepositoryFacade
	Client       ClientRepositoryFacade
	Product      ProductRepositoryFacade
	Currency     CurrencyRepositoryFacade
	ExchangeRate ExchangeRateRepositoryFacade
	AuditLog     AuditLogRepositoryFacade
}
