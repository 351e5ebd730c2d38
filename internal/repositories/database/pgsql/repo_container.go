package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		InstrumentRepo:  newPgxInstrumentRepository(dbPool),
		UnitRepo:        newPgxUnitRepository(dbPool),
		StockRepo:       newPgxStockRepository(dbPool),
		TransactionRepo: newPgxTransactionRepository(dbPool),
		UserRepo:        newPgxUserRepository(dbPool),
		AuditRepo:       newPgxActivityLogRepository(dbPool),
		ReportingRepo:   newPgxReportingRepository(dbPool),
	}
}
