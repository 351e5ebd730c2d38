package services

// ServiceContainer bundles every service facade handed to route registration.
type ServiceContainer struct {
	Transaction TransactionSvcFacade
	Stock       StockSvcFacade
	Instrument  InstrumentSvcFacade
	Unit        UnitSvcFacade
	User        UserSvcFacade
	Audit       AuditSvcFacade
	Reporting   ReportingSvcFacade
}
