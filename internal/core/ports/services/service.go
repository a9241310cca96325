package services

// ServiceContainer holds instances of all application services. This is the
// main entry point for accessing service functionality from the handlers.
type ServiceContainer struct {
	Transaction TransactionSvcFacade
	Currency    CurrencySvcFacade
	Client      ClientSvcFacade
	Product     ProductSvcFacade
}
