package models

// Unit represents a hospital unit that receives and returns instruments.
type Unit struct {
	UnitID      string `json:"unitID"` // Primary Key (UUID)
	Code        string `json:"code"`   // Unique short code, e.g. ICU
	Name        string `json:"name"`
	Description string `json:"description"`
	QRToken     string `json:"qrToken"` // Opaque token behind the printed label
	IsActive    bool   `json:"isActive"`
	AuditFields
}
