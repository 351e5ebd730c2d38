package services

import (
	"context"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
)

// CancelResult carries a cancelled transaction plus any reversal-clamp
// warnings. Clamped keys indicate inconsistent history: the reversal drove a
// counter toward negative and was floored at zero instead.
type CancelResult struct {
	Transaction *domain.Transaction
	ClampedKeys []domain.StockKey
}

// TransactionSvcFacade is the lifecycle engine's external contract.
type TransactionSvcFacade interface {
	// CreateTransaction creates a pending transaction and applies its stock
	// movements atomically.
	CreateTransaction(ctx context.Context, actor domain.Actor, kind domain.TransactionKind, req dto.CreateTransactionRequest) (*domain.Transaction, error)

	// ValidateTransaction approves a pending transaction. Validation is a
	// workflow step only; stock moved at creation.
	ValidateTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error)

	// CancelTransaction cancels a pending or validated transaction, reversing
	// its creation-time stock movements.
	CancelTransaction(ctx context.Context, actor domain.Actor, transactionID string, reason string) (*CancelResult, error)

	// GetTransaction retrieves a transaction with its items.
	GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// GetTransactionByQRToken retrieves a transaction by its QR token, with items.
	GetTransactionByQRToken(ctx context.Context, qrToken string) (*domain.Transaction, error)

	// ListTransactions retrieves a filtered, paginated list of transactions.
	ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error)
}
