package models

// Instrument represents one reusable instrument type tracked by the ledger.
type Instrument struct {
	InstrumentID string `json:"instrumentID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Code         string `json:"code"` // Unique short code, e.g. SCP-01
	Description  string `json:"description"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
