package services

import (
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Instrument = NewInstrumentService(repos.InstrumentRepo)
	container.Unit = NewUnitService(repos.UnitRepo)
	container.Stock = NewStockService(repos.StockRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Audit = NewAuditService(repos.AuditRepo)
	container.Reporting = NewReportingService(repos.ReportingRepo)

	// The lifecycle engine depends on unit and instrument lookups for
	// precondition checks and on the audit sink for the activity trail.
	container.Transaction = NewTransactionService(repos.TransactionRepo, container.Unit, container.Instrument, repos.AuditRepo)

	return container
}
