package mapping

import (
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
)

// ToModelUnit converts a domain Unit to a model Unit
func ToModelUnit(d domain.Unit) models.Unit {
	return models.Unit{
		UnitID:      d.UnitID,
		Code:        d.Code,
		Name:        d.Name,
		Description: d.Description,
		QRToken:     d.QRToken,
		IsActive:    d.IsActive,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainUnit converts a model Unit to a domain Unit
func ToDomainUnit(m models.Unit) domain.Unit {
	return domain.Unit{
		UnitID:      m.UnitID,
		Code:        m.Code,
		Name:        m.Name,
		Description: m.Description,
		QRToken:     m.QRToken,
		IsActive:    m.IsActive,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainUnitSlice converts a slice of model Units to domain Units
func ToDomainUnitSlice(ms []models.Unit) []domain.Unit {
	ds := make([]domain.Unit, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUnit(m)
	}
	return ds
}
