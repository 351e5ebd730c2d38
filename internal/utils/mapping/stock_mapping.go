package mapping

import (
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
)

// ToModelStockRecord converts a domain StockRecord to a model StockRecord
func ToModelStockRecord(d domain.StockRecord) models.StockRecord {
	return models.StockRecord{
		InstrumentID:   d.InstrumentID,
		LocationType:   string(d.Location.Type),
		LocationUnitID: d.Location.UnitID,
		StockSteril:    d.StockSteril,
		StockKotor:     d.StockKotor,
		StockInUse:     d.StockInUse,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainStockRecord converts a model StockRecord to a domain StockRecord
func ToDomainStockRecord(m models.StockRecord) domain.StockRecord {
	return domain.StockRecord{
		InstrumentID: m.InstrumentID,
		Location: domain.Location{
			Type:   domain.LocationType(m.LocationType),
			UnitID: m.LocationUnitID,
		},
		StockSteril: m.StockSteril,
		StockKotor:  m.StockKotor,
		StockInUse:  m.StockInUse,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainStockRecordSlice converts a slice of model StockRecords to domain StockRecords
func ToDomainStockRecordSlice(ms []models.StockRecord) []domain.StockRecord {
	ds := make([]domain.StockRecord, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainStockRecord(m)
	}
	return ds
}
