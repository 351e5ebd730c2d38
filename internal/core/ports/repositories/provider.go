package repositories

// RepositoryProvider bundles every repository implementation handed from the
// database layer to service construction.
type RepositoryProvider struct {
	InstrumentRepo  InstrumentRepositoryFacade
	UnitRepo        UnitRepositoryFacade
	StockRepo       StockRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	UserRepo        UserRepositoryFacade
	AuditRepo       AuditRepositoryFacade
	ReportingRepo   ReportingReader
}
