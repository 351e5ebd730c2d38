package mapping

import (
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		QRToken:       d.QRToken,
		UnitID:        d.UnitID,
		CreatorID:     d.CreatorID,
		ValidatorID:   d.ValidatorID,
		Kind:          string(d.Kind),
		Status:        string(d.Status),
		Notes:         d.Notes,
		CancelReason:  d.CancelReason,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		QRToken:       m.QRToken,
		UnitID:        m.UnitID,
		CreatorID:     m.CreatorID,
		ValidatorID:   m.ValidatorID,
		Kind:          domain.TransactionKind(m.Kind),
		Status:        domain.TransactionStatus(m.Status),
		Notes:         m.Notes,
		CancelReason:  m.CancelReason,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}

// ToModelTransactionItem converts a domain TransactionItem to a model TransactionItem
func ToModelTransactionItem(d domain.TransactionItem) models.TransactionItem {
	return models.TransactionItem{
		ItemID:        d.ItemID,
		TransactionID: d.TransactionID,
		InstrumentID:  d.InstrumentID,
		Quantity:      d.Quantity,
		Notes:         d.Notes,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTransactionItem converts a model TransactionItem to a domain TransactionItem
func ToDomainTransactionItem(m models.TransactionItem) domain.TransactionItem {
	return domain.TransactionItem{
		ItemID:        m.ItemID,
		TransactionID: m.TransactionID,
		InstrumentID:  m.InstrumentID,
		Quantity:      m.Quantity,
		Notes:         m.Notes,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainTransactionItemSlice converts a slice of model TransactionItems to domain TransactionItems
func ToDomainTransactionItemSlice(ms []models.TransactionItem) []domain.TransactionItem {
	ds := make([]domain.TransactionItem, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransactionItem(m)
	}
	return ds
}
