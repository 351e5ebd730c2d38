package dto

import (
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// TransactionItemRequest is one instrument line in a create request.
type TransactionItemRequest struct {
	InstrumentID string `json:"instrumentID" binding:"required"`
	Quantity     int64  `json:"quantity" binding:"required,gt=0"`
	Notes        string `json:"notes"`
}

// CreateTransactionRequest creates a transaction of the kind implied by the
// route (distribute / pickup / return).
type CreateTransactionRequest struct {
	UnitID string                   `json:"unitID" binding:"required"`
	Items  []TransactionItemRequest `json:"items" binding:"required,min=1,dive"`
	Notes  string                   `json:"notes"`
}

// ValidateTransactionRequest validates a transaction by scanned QR content.
type ValidateTransactionRequest struct {
	QRContent string `json:"qrContent" binding:"required,qrpayload"`
}

// CancelTransactionRequest cancels a transaction with a mandatory reason.
type CancelTransactionRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ScanUnitRequest resolves a unit QR label into the stock available for a
// transaction type.
type ScanUnitRequest struct {
	QRContent       string `json:"qrContent" binding:"required,qrpayload"`
	TransactionType string `json:"transactionType" binding:"required,oneof=steril kotor"`
}

// TransactionItemResponse is the API shape of a line item.
type TransactionItemResponse struct {
	ItemID       string `json:"itemID"`
	InstrumentID string `json:"instrumentID"`
	Quantity     int64  `json:"quantity"`
	Notes        string `json:"notes,omitempty"`
}

// TransactionResponse is the API shape of a transaction.
type TransactionResponse struct {
	TransactionID string                    `json:"transactionID"`
	QRContent     string                    `json:"qrContent"`
	UnitID        string                    `json:"unitID"`
	CreatorID     string                    `json:"creatorID"`
	ValidatorID   *string                   `json:"validatorID,omitempty"`
	Kind          string                    `json:"kind"`
	Status        string                    `json:"status"`
	Notes         string                    `json:"notes,omitempty"`
	CancelReason  string                    `json:"cancelReason,omitempty"`
	Items         []TransactionItemResponse `json:"items,omitempty"`
	Warnings      []string                  `json:"warnings,omitempty"`
	CreatedAt     time.Time                 `json:"createdAt"`
}

// ListTransactionsParams narrows and pages a transaction listing.
type ListTransactionsParams struct {
	UnitID    *string `form:"unitID"`
	Status    *string `form:"status"`
	Kind      *string `form:"kind"`
	Limit     int     `form:"limit"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse is a page of transactions plus the next-page token.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionItemResponse converts a domain item to its API shape.
func ToTransactionItemResponse(item domain.TransactionItem) TransactionItemResponse {
	return TransactionItemResponse{
		ItemID:       item.ItemID,
		InstrumentID: item.InstrumentID,
		Quantity:     item.Quantity,
		Notes:        item.Notes,
	}
}

// ToTransactionResponse converts a domain transaction to its API shape.
// qrContent is the encoded QR payload for the transaction token.
func ToTransactionResponse(txn *domain.Transaction, qrContent string) TransactionResponse {
	items := make([]TransactionItemResponse, len(txn.Items))
	for i, item := range txn.Items {
		items[i] = ToTransactionItemResponse(item)
	}
	return TransactionResponse{
		TransactionID: txn.TransactionID,
		QRContent:     qrContent,
		UnitID:        txn.UnitID,
		CreatorID:     txn.CreatorID,
		ValidatorID:   txn.ValidatorID,
		Kind:          string(txn.Kind),
		Status:        string(txn.Status),
		Notes:         txn.Notes,
		CancelReason:  txn.CancelReason,
		Items:         items,
		CreatedAt:     txn.CreatedAt,
	}
}
