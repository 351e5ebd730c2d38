package domain

// Unit is a hospital ward or department that receives instruments from CSSD.
type Unit struct {
	UnitID      string `json:"unitID"` // Primary key (UUID)
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// QRToken is the opaque identifier embedded in the unit's QR label.
	QRToken  string `json:"qrToken"`
	IsActive bool   `json:"isActive"`
	AuditFields
}
