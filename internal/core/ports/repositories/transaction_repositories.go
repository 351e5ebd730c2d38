package repositories

import (
	"context"
	"time"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
)

// ListTransactionsFilter narrows a transaction listing.
type ListTransactionsFilter struct {
	UnitID *string
	Status *domain.TransactionStatus
	Kind   *domain.TransactionKind
}

// TransactionReader defines read operations for the transaction ledger.
type TransactionReader interface {
	// FindTransactionByID retrieves a transaction without its items.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByQRToken retrieves a transaction by its QR token.
	FindTransactionByQRToken(ctx context.Context, qrToken string) (*domain.Transaction, error)

	// FindItemsByTransactionID retrieves all line items of a transaction.
	FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error)

	// ListTransactions retrieves a filtered, token-paginated transaction list.
	// It returns the transactions, a token for the next page, and an error.
	ListTransactions(ctx context.Context, filter ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}

// TransactionWriter defines the atomic units of work of the lifecycle engine.
// Each method runs as a single database transaction: either every ledger row
// and every stock counter change commits, or none do.
type TransactionWriter interface {
	// SaveTransaction persists the transaction and its items and applies the
	// creation-time stock movements. Fails with apperrors.ErrInsufficientStock
	// (no state change) if any counter would go negative.
	SaveTransaction(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem, movements []domain.StockMovement) error

	// MarkValidated moves a pending transaction to validated and records the
	// validator. Fails with apperrors.ErrInvalidTransition if the transaction
	// is not pending.
	MarkValidated(ctx context.Context, transactionID string, validatorID string, now time.Time) error

	// MarkCancelled re-checks the status under lock, applies the reversal
	// movements and stores the cancel reason. Counters that would go negative
	// are clamped at zero; the affected keys are returned so callers can
	// surface a warning.
	MarkCancelled(ctx context.Context, transactionID string, actorID string, reason string, movements []domain.StockMovement, now time.Time) ([]domain.StockKey, error)
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}
