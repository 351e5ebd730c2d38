package dto

import "github.com/SterilFlow/cssd_tracking_app/internal/core/domain"

// StockRecordResponse is the API shape of one stock record.
type StockRecordResponse struct {
	InstrumentID string `json:"instrumentID"`
	LocationType string `json:"locationType"`
	UnitID       string `json:"unitID,omitempty"`
	StockSteril  int64  `json:"stockSteril"`
	StockKotor   int64  `json:"stockKotor"`
	StockInUse   int64  `json:"stockInUse"`
}

// ScanUnitResponse lists the stock a scanned unit can transact against.
type ScanUnitResponse struct {
	Unit            UnitResponse          `json:"unit"`
	TransactionType string                `json:"transactionType"`
	Stock           []StockRecordResponse `json:"stock"`
}

// ToStockRecordResponse converts a domain stock record to its API shape.
func ToStockRecordResponse(rec domain.StockRecord) StockRecordResponse {
	return StockRecordResponse{
		InstrumentID: rec.InstrumentID,
		LocationType: string(rec.Location.Type),
		UnitID:       rec.Location.UnitID,
		StockSteril:  rec.StockSteril,
		StockKotor:   rec.StockKotor,
		StockInUse:   rec.StockInUse,
	}
}

// ToStockRecordResponses converts a slice of stock records.
func ToStockRecordResponses(recs []domain.StockRecord) []StockRecordResponse {
	responses := make([]StockRecordResponse, len(recs))
	for i, rec := range recs {
		responses[i] = ToStockRecordResponse(rec)
	}
	return responses
}
