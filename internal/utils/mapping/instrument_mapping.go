package mapping

import (
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
)

// ToModelInstrument converts a domain Instrument to a model Instrument
func ToModelInstrument(d domain.Instrument) models.Instrument {
	return models.Instrument{
		InstrumentID: d.InstrumentID,
		Name:         d.Name,
		Code:         d.Code,
		Description:  d.Description,
		IsActive:     d.IsActive,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInstrument converts a model Instrument to a domain Instrument
func ToDomainInstrument(m models.Instrument) domain.Instrument {
	return domain.Instrument{
		InstrumentID: m.InstrumentID,
		Name:         m.Name,
		Code:         m.Code,
		Description:  m.Description,
		IsActive:     m.IsActive,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInstrumentSlice converts a slice of model Instruments to domain Instruments
func ToDomainInstrumentSlice(ms []models.Instrument) []domain.Instrument {
	ds := make([]domain.Instrument, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInstrument(m)
	}
	return ds
}
