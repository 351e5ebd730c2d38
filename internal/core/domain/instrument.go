package domain

// Instrument is a surgical instrument type tracked in aggregate quantities.
// Identity is per instrument type; individual units are not serialized.
type Instrument struct {
	InstrumentID string `json:"instrumentID"` // Primary key (UUID)
	Name         string `json:"name"`
	Code         string `json:"code"` // Unique short code printed on labels
	Description  string `json:"description"`
	IsActive     bool   `json:"isActive"`
	AuditFields
}
