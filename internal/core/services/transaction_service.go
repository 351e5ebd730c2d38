package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	portssvc "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
	"github.com/SterilFlow/cssd_tracking_app/internal/middleware"
)

// transactionService is the transaction lifecycle engine. It validates
// requests, expands them into stock movements via the kind flow table, and
// delegates the atomic unit of work to the transaction repository.
type transactionService struct {
	txnRepo       portsrepo.TransactionRepositoryFacade
	unitSvc       portssvc.UnitSvcFacade
	instrumentSvc portssvc.InstrumentSvcFacade
	auditSink     portsrepo.AuditSink
}

// NewTransactionService creates the lifecycle engine.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, unitSvc portssvc.UnitSvcFacade, instrumentSvc portssvc.InstrumentSvcFacade, auditSink portsrepo.AuditSink) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:       txnRepo,
		unitSvc:       unitSvc,
		instrumentSvc: instrumentSvc,
		auditSink:     auditSink,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

var kindDescriptions = map[domain.TransactionKind]string{
	domain.DistributeSteril: "Created steril distribution transaction",
	domain.PickupKotor:      "Created dirty pickup transaction",
	domain.ReturnToCssd:     "Created CSSD return transaction",
}

// CreateTransaction creates a pending transaction and applies its stock
// movements as one atomic unit of work. Any failure leaves no state change.
func (s *transactionService) CreateTransaction(ctx context.Context, actor domain.Actor, kind domain.TransactionKind, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, kind)
	}
	if len(req.Items) == 0 {
		return nil, apperrors.ErrEmptyItemSet
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, fmt.Errorf("%w: instrument %s", apperrors.ErrInvalidQuantity, item.InstrumentID)
		}
	}

	unit, err := s.unitSvc.GetUnitByID(ctx, req.UnitID)
	if err != nil {
		return nil, err
	}
	if !unit.IsActive {
		return nil, fmt.Errorf("%w: unit %s is inactive", apperrors.ErrValidation, unit.UnitID)
	}

	instrumentIDs := make([]string, 0, len(req.Items))
	for _, item := range req.Items {
		instrumentIDs = append(instrumentIDs, item.InstrumentID)
	}
	instrumentsMap, err := s.instrumentSvc.GetInstrumentsByIDs(ctx, uniqueStrings(instrumentIDs))
	if err != nil {
		logger.Error("Failed to fetch instruments for transaction creation", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to fetch instruments: %w", err)
	}
	for _, id := range uniqueStrings(instrumentIDs) {
		inst, found := instrumentsMap[id]
		if !found {
			return nil, fmt.Errorf("%w: instrument %s", apperrors.ErrNotFound, id)
		}
		if !inst.IsActive {
			return nil, fmt.Errorf("%w: instrument %s is inactive", apperrors.ErrValidation, id)
		}
	}

	now := time.Now().UTC()
	transactionID := uuid.NewString()

	domainItems := make([]domain.TransactionItem, len(req.Items))
	var totalQuantity int64
	for i, itemReq := range req.Items {
		domainItems[i] = domain.TransactionItem{
			ItemID:        uuid.NewString(),
			TransactionID: transactionID,
			InstrumentID:  itemReq.InstrumentID,
			Quantity:      itemReq.Quantity,
			Notes:         itemReq.Notes,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.UserID,
			},
		}
		totalQuantity += itemReq.Quantity
	}

	txn := domain.Transaction{
		TransactionID: transactionID,
		QRToken:       uuid.NewString(),
		UnitID:        unit.UnitID,
		CreatorID:     actor.UserID,
		Kind:          kind,
		Status:        domain.StatusPending,
		Notes:         req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	movements := domain.MovementsForItems(kind, unit.UnitID, domainItems)

	if err := s.txnRepo.SaveTransaction(ctx, txn, domainItems, movements); err != nil {
		if errors.Is(err, apperrors.ErrInsufficientStock) || errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Transaction creation rejected", slog.String("kind", string(kind)), slog.String("error", err.Error()))
			return nil, err
		}
		logger.Error("Failed to save transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save transaction: %w", err)
	}

	s.recordAudit(ctx, domain.ActionCreateTransaction, actor, &transactionID, kindDescriptions[kind], map[string]string{
		"kind":           string(kind),
		"unit_id":        unit.UnitID,
		"item_count":     strconv.Itoa(len(domainItems)),
		"total_quantity": strconv.FormatInt(totalQuantity, 10),
	})

	logger.Info("Transaction created", slog.String("transaction_id", transactionID), slog.String("kind", string(kind)), slog.String("unit_id", unit.UnitID))
	txn.Items = domainItems
	return &txn, nil
}

// ValidateTransaction approves a pending transaction. Stock moved at
// creation; validation only records the approver and flips the status.
func (s *transactionService) ValidateTransaction(ctx context.Context, actor domain.Actor, transactionID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.CanTransitionTo(domain.StatusValidated) {
		return nil, fmt.Errorf("%w: cannot validate a %s transaction", apperrors.ErrInvalidTransition, txn.Status)
	}

	now := time.Now().UTC()
	if err := s.txnRepo.MarkValidated(ctx, transactionID, actor.UserID, now); err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) {
			// Lost the race to another lifecycle operation.
			logger.Warn("Validation rejected by concurrent status change", slog.String("transaction_id", transactionID))
			return nil, err
		}
		logger.Error("Failed to mark transaction validated", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to validate transaction: %w", err)
	}

	s.recordAudit(ctx, domain.ActionValidateTransaction, actor, &transactionID, "Validated transaction", nil)

	validatorID := actor.UserID
	txn.Status = domain.StatusValidated
	txn.ValidatorID = &validatorID
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor.UserID

	logger.Info("Transaction validated", slog.String("transaction_id", transactionID))
	return txn, nil
}

// CancelTransaction cancels a pending or validated transaction and reverses
// the exact stock movements its creation applied. Reversal deltas that would
// drive a counter negative are clamped at zero and surfaced as warnings.
func (s *transactionService) CancelTransaction(ctx context.Context, actor domain.Actor, transactionID string, reason string) (*portssvc.CancelResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: cancel reason is required", apperrors.ErrValidation)
	}

	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !txn.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s transaction", apperrors.ErrInvalidTransition, txn.Status)
	}

	items, err := s.txnRepo.FindItemsByTransactionID(ctx, transactionID)
	if err != nil {
		logger.Error("Failed to fetch items for cancellation", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to fetch transaction items: %w", err)
	}

	movements := domain.ReversalMovements(txn.Kind, txn.UnitID, items)

	now := time.Now().UTC()
	clampedKeys, err := s.txnRepo.MarkCancelled(ctx, transactionID, actor.UserID, reason, movements, now)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidTransition) || errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Cancellation rejected", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
			return nil, err
		}
		logger.Error("Failed to cancel transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return nil, fmt.Errorf("failed to cancel transaction: %w", err)
	}

	metadata := map[string]string{"reason": reason}
	if len(clampedKeys) > 0 {
		keys := make([]string, len(clampedKeys))
		for i, key := range clampedKeys {
			keys[i] = key.InstrumentID + "@" + string(key.Location.Type) + key.Location.UnitID
		}
		metadata["reversal_clamped"] = strings.Join(keys, ",")
		logger.Warn("Reversal clamped at zero for inconsistent counters",
			slog.String("transaction_id", transactionID),
			slog.String("keys", metadata["reversal_clamped"]))
	}
	s.recordAudit(ctx, domain.ActionCancelTransaction, actor, &transactionID, "Cancelled transaction: "+reason, metadata)

	txn.Status = domain.StatusCancelled
	txn.CancelReason = reason
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actor.UserID
	txn.Items = items

	logger.Info("Transaction cancelled", slog.String("transaction_id", transactionID))
	return &portssvc.CancelResult{Transaction: txn, ClampedKeys: clampedKeys}, nil
}

// GetTransaction retrieves a transaction with its items.
func (s *transactionService) GetTransaction(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, txn)
}

// GetTransactionByQRToken retrieves a transaction by its QR token, with items.
func (s *transactionService) GetTransactionByQRToken(ctx context.Context, qrToken string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByQRToken(ctx, qrToken)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, txn)
}

func (s *transactionService) attachItems(ctx context.Context, txn *domain.Transaction) (*domain.Transaction, error) {
	items, err := s.txnRepo.FindItemsByTransactionID(ctx, txn.TransactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch transaction items: %w", err)
	}
	txn.Items = items
	return txn, nil
}

// ListTransactions retrieves a filtered, token-paginated transaction list.
func (s *transactionService) ListTransactions(ctx context.Context, params dto.ListTransactionsParams) ([]domain.Transaction, *string, error) {
	filter := portsrepo.ListTransactionsFilter{UnitID: params.UnitID}
	if params.Status != nil {
		status := domain.TransactionStatus(*params.Status)
		filter.Status = &status
	}
	if params.Kind != nil {
		kind := domain.TransactionKind(*params.Kind)
		if !kind.IsValid() {
			return nil, nil, fmt.Errorf("%w: unknown transaction kind %q", apperrors.ErrValidation, *params.Kind)
		}
		filter.Kind = &kind
	}

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	return s.txnRepo.ListTransactions(ctx, filter, limit, params.NextToken)
}

// recordAudit emits an audit event after a successful lifecycle step.
// Audit is best-effort: a sink failure is logged and never unwinds the
// committed stock/ledger mutation.
func (s *transactionService) recordAudit(ctx context.Context, action domain.AuditAction, actor domain.Actor, transactionID *string, description string, metadata map[string]string) {
	event := domain.AuditEvent{
		EventID:       uuid.NewString(),
		Action:        action,
		ActorID:       actor.UserID,
		ActorRole:     string(actor.Role),
		TransactionID: transactionID,
		Description:   description,
		Metadata:      metadata,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.auditSink.RecordEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Warn("Failed to record audit event",
			slog.String("action", string(action)),
			slog.String("error", err.Error()))
	}
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
