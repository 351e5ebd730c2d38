package models

// Transaction is one stock movement header between CSSD and a unit.
type Transaction struct {
	TransactionID string  `json:"transactionID"` // Primary Key (UUID)
	QRToken       string  `json:"qrToken"`       // Unique token behind the transaction QR slip
	UnitID        string  `json:"unitID"`
	CreatorID     string  `json:"creatorID"`
	ValidatorID   *string `json:"validatorID"` // Null until validated
	Kind          string  `json:"kind"`
	Status        string  `json:"status"`
	Notes         string  `json:"notes"`
	CancelReason  string  `json:"cancelReason"`
	AuditFields
}

// TransactionItem is one instrument line belonging to a transaction.
type TransactionItem struct {
	ItemID        string `json:"itemID"` // Primary Key (UUID)
	TransactionID string `json:"transactionID"`
	InstrumentID  string `json:"instrumentID"`
	Quantity      int64  `json:"quantity"`
	Notes         string `json:"notes"`
	AuditFields
}
