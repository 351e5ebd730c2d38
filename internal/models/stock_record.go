package models

// StockRecord is one (instrument, location) row of the stock ledger.
// LocationUnitID is empty for the CSSD row; the pair (instrument_id,
// location_type, location_unit_id) is unique.
type StockRecord struct {
	InstrumentID   string `json:"instrumentID"`
	LocationType   string `json:"locationType"` // CSSD or UNIT
	LocationUnitID string `json:"locationUnitID"`
	StockSteril    int64  `json:"stockSteril"`
	StockKotor     int64  `json:"stockKotor"`
	StockInUse     int64  `json:"stockInUse"`
	AuditFields
}
