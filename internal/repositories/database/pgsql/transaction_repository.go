package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	"github.com/SterilFlow/cssd_tracking_app/internal/models"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/mapping"
	"github.com/SterilFlow/cssd_tracking_app/internal/utils/pagination"
)

// lockTimeout bounds how long a unit of work waits on contended stock rows
// before giving up with a retryable conflict.
const lockTimeout = "3s"

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates the repository for transaction headers,
// items and the stock movements they apply.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

// SaveTransaction persists the header and items and applies the creation-time
// stock movements inside one database transaction. Stock rows are created
// lazily at zero, locked in deterministic key order, checked for
// non-negativity, then updated. Any failure rolls the whole unit back.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, items []domain.TransactionItem, movements []domain.StockMovement) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
		return fmt.Errorf("failed to set lock timeout: %w", err)
	}

	modelTxn := mapping.ToModelTransaction(txn)
	headerQuery := `
		INSERT INTO transactions (
			transaction_id, qr_token, unit_id, creator_id, validator_id, kind, status,
			notes, cancel_reason, created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err = tx.Exec(ctx, headerQuery,
		modelTxn.TransactionID,
		modelTxn.QRToken,
		modelTxn.UnitID,
		modelTxn.CreatorID,
		modelTxn.ValidatorID,
		modelTxn.Kind,
		modelTxn.Status,
		modelTxn.Notes,
		modelTxn.CancelReason,
		modelTxn.CreatedAt,
		modelTxn.CreatedBy,
		modelTxn.LastUpdatedAt,
		modelTxn.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, modelTxn.TransactionID)
		}
		return fmt.Errorf("failed to insert transaction %s: %w", modelTxn.TransactionID, err)
	}

	batch := &pgx.Batch{}
	itemQuery := `
		INSERT INTO transaction_items (item_id, transaction_id, instrument_id, quantity, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	for _, item := range items {
		modelItem := mapping.ToModelTransactionItem(item)
		batch.Queue(itemQuery,
			modelItem.ItemID,
			modelItem.TransactionID,
			modelItem.InstrumentID,
			modelItem.Quantity,
			modelItem.Notes,
			modelItem.CreatedAt,
			modelItem.CreatedBy,
			modelItem.LastUpdatedAt,
			modelItem.LastUpdatedBy,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert items for transaction %s: %w", modelTxn.TransactionID, err)
	}

	locked, err := r.lockStockRecords(ctx, tx, movementKeys(movements), txn.CreatedBy, txn.CreatedAt)
	if err != nil {
		return err
	}

	for _, mv := range movements {
		next := locked[mv.Key].Apply(mv.Delta)
		if next.StockSteril < 0 || next.StockKotor < 0 || next.StockInUse < 0 {
			return fmt.Errorf("%w: instrument %s at %s%s", apperrors.ErrInsufficientStock,
				mv.Key.InstrumentID, mv.Key.Location.Type, mv.Key.Location.UnitID)
		}
		locked[mv.Key] = next
	}

	if err := r.updateStockRecords(ctx, tx, movementKeys(movements), locked, txn.CreatedBy, txn.CreatedAt); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// MarkValidated flips a pending transaction to validated with a conditional
// update; losing a status race surfaces as an invalid transition.
func (r *PgxTransactionRepository) MarkValidated(ctx context.Context, transactionID string, validatorID string, now time.Time) error {
	query := `
		UPDATE transactions
		SET status = $1, validator_id = $2, last_updated_at = $3, last_updated_by = $2
		WHERE transaction_id = $4 AND status = $5;
	`
	ct, err := r.Pool.Exec(ctx, query, string(domain.StatusValidated), validatorID, now, transactionID, string(domain.StatusPending))
	if err != nil {
		return fmt.Errorf("failed to mark transaction %s validated: %w", transactionID, err)
	}
	if ct.RowsAffected() == 0 {
		if _, err := r.FindTransactionByID(ctx, transactionID); err != nil {
			return err
		}
		return fmt.Errorf("%w: transaction %s is not pending", apperrors.ErrInvalidTransition, transactionID)
	}
	return nil
}

// MarkCancelled re-checks the status under a row lock, applies the reversal
// movements with clamping at zero, and stores the cancel reason. The keys
// whose counters were clamped are returned.
func (r *PgxTransactionRepository) MarkCancelled(ctx context.Context, transactionID string, actorID string, reason string, movements []domain.StockMovement, now time.Time) ([]domain.StockKey, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, "SET LOCAL lock_timeout = '"+lockTimeout+"'"); err != nil {
		return nil, fmt.Errorf("failed to set lock timeout: %w", err)
	}

	var status string
	err = tx.QueryRow(ctx, `SELECT status FROM transactions WHERE transaction_id = $1 FOR UPDATE;`, transactionID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, translateLockError(fmt.Errorf("failed to lock transaction %s: %w", transactionID, err))
	}
	if !domain.TransactionStatus(status).CanTransitionTo(domain.StatusCancelled) {
		return nil, fmt.Errorf("%w: transaction %s is %s", apperrors.ErrInvalidTransition, transactionID, status)
	}

	locked, err := r.lockStockRecords(ctx, tx, movementKeys(movements), actorID, now)
	if err != nil {
		return nil, err
	}

	var clamped []domain.StockKey
	for _, mv := range movements {
		next := locked[mv.Key].Apply(mv.Delta)
		wasClamped := false
		if next.StockSteril < 0 {
			next.StockSteril = 0
			wasClamped = true
		}
		if next.StockKotor < 0 {
			next.StockKotor = 0
			wasClamped = true
		}
		if next.StockInUse < 0 {
			next.StockInUse = 0
			wasClamped = true
		}
		if wasClamped {
			clamped = append(clamped, mv.Key)
		}
		locked[mv.Key] = next
	}

	if err := r.updateStockRecords(ctx, tx, movementKeys(movements), locked, actorID, now); err != nil {
		return nil, err
	}

	updateQuery := `
		UPDATE transactions
		SET status = $1, cancel_reason = $2, last_updated_at = $3, last_updated_by = $4
		WHERE transaction_id = $5;
	`
	if _, err := tx.Exec(ctx, updateQuery, string(domain.StatusCancelled), reason, now, actorID, transactionID); err != nil {
		return nil, fmt.Errorf("failed to mark transaction %s cancelled: %w", transactionID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return clamped, nil
}

// movementKeys extracts the keys of a movement list, sorted so every unit of
// work locks stock rows in the same order regardless of item order.
func movementKeys(movements []domain.StockMovement) []domain.StockKey {
	keys := make([]domain.StockKey, len(movements))
	for i, mv := range movements {
		keys[i] = mv.Key
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.InstrumentID != b.InstrumentID {
			return a.InstrumentID < b.InstrumentID
		}
		if a.Location.Type != b.Location.Type {
			return a.Location.Type < b.Location.Type
		}
		return a.Location.UnitID < b.Location.UnitID
	})
	return keys
}

// lockStockRecords lazily creates missing stock rows at zero, then locks all
// of them FOR UPDATE in key order and returns the current counter values.
func (r *PgxTransactionRepository) lockStockRecords(ctx context.Context, tx pgx.Tx, keys []domain.StockKey, userID string, now time.Time) (map[domain.StockKey]domain.StockRecord, error) {
	insertQuery := `
		INSERT INTO stock_records (instrument_id, location_type, location_unit_id, stock_steril, stock_kotor, stock_in_use, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, 0, 0, 0, $4, $5, $4, $5)
		ON CONFLICT (instrument_id, location_type, location_unit_id) DO NOTHING;
	`
	for _, key := range keys {
		if _, err := tx.Exec(ctx, insertQuery, key.InstrumentID, string(key.Location.Type), key.Location.UnitID, now, userID); err != nil {
			return nil, fmt.Errorf("failed to ensure stock record for instrument %s: %w", key.InstrumentID, err)
		}
	}

	lockQuery := `
		SELECT stock_steril, stock_kotor, stock_in_use
		FROM stock_records
		WHERE instrument_id = $1 AND location_type = $2 AND location_unit_id = $3
		FOR UPDATE;
	`
	locked := make(map[domain.StockKey]domain.StockRecord, len(keys))
	for _, key := range keys {
		var rec domain.StockRecord
		rec.InstrumentID = key.InstrumentID
		rec.Location = key.Location
		err := tx.QueryRow(ctx, lockQuery, key.InstrumentID, string(key.Location.Type), key.Location.UnitID).
			Scan(&rec.StockSteril, &rec.StockKotor, &rec.StockInUse)
		if err != nil {
			return nil, translateLockError(fmt.Errorf("failed to lock stock record for instrument %s: %w", key.InstrumentID, err))
		}
		locked[key] = rec
	}
	return locked, nil
}

// updateStockRecords writes the post-movement counter values back.
func (r *PgxTransactionRepository) updateStockRecords(ctx context.Context, tx pgx.Tx, keys []domain.StockKey, records map[domain.StockKey]domain.StockRecord, userID string, now time.Time) error {
	updateQuery := `
		UPDATE stock_records
		SET stock_steril = $1, stock_kotor = $2, stock_in_use = $3, last_updated_at = $4, last_updated_by = $5
		WHERE instrument_id = $6 AND location_type = $7 AND location_unit_id = $8;
	`
	batch := &pgx.Batch{}
	for _, key := range keys {
		rec := records[key]
		batch.Queue(updateQuery,
			rec.StockSteril,
			rec.StockKotor,
			rec.StockInUse,
			now,
			userID,
			key.InstrumentID,
			string(key.Location.Type),
			key.Location.UnitID,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to update stock records: %w", err)
	}
	return nil
}

const transactionColumns = `transaction_id, qr_token, unit_id, creator_id, validator_id, kind, status, notes, cancel_reason, created_at, created_by, last_updated_at, last_updated_by`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.TransactionID,
		&m.QRToken,
		&m.UnitID,
		&m.CreatorID,
		&m.ValidatorID,
		&m.Kind,
		&m.Status,
		&m.Notes,
		&m.CancelReason,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// FindTransactionByID retrieves a transaction header by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}
	d := mapping.ToDomainTransaction(*m)
	return &d, nil
}

// FindTransactionByQRToken retrieves a transaction header by its QR token.
func (r *PgxTransactionRepository) FindTransactionByQRToken(ctx context.Context, qrToken string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE qr_token = $1;`
	m, err := scanTransaction(r.Pool.QueryRow(ctx, query, qrToken))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by QR token: %w", err)
	}
	d := mapping.ToDomainTransaction(*m)
	return &d, nil
}

// FindItemsByTransactionID retrieves all line items of a transaction.
func (r *PgxTransactionRepository) FindItemsByTransactionID(ctx context.Context, transactionID string) ([]domain.TransactionItem, error) {
	query := `
		SELECT item_id, transaction_id, instrument_id, quantity, notes, created_at, created_by, last_updated_at, last_updated_by
		FROM transaction_items
		WHERE transaction_id = $1
		ORDER BY item_id;
	`
	rows, err := r.Pool.Query(ctx, query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for transaction %s: %w", transactionID, err)
	}
	defer rows.Close()

	items := []models.TransactionItem{}
	for rows.Next() {
		var m models.TransactionItem
		err := rows.Scan(
			&m.ItemID,
			&m.TransactionID,
			&m.InstrumentID,
			&m.Quantity,
			&m.Notes,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row for transaction %s: %w", transactionID, err)
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows for transaction %s: %w", transactionID, err)
	}

	return mapping.ToDomainTransactionItemSlice(items), nil
}

// ListTransactions retrieves a filtered, token-paginated transaction list,
// newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	baseQuery := `SELECT ` + transactionColumns + ` FROM transactions`

	clauses := []string{}
	args := []interface{}{}
	addClause := func(clause string, value interface{}) {
		args = append(args, value)
		clauses = append(clauses, clause+" $"+strconv.Itoa(len(args)))
	}
	if filter.UnitID != nil {
		addClause("unit_id =", *filter.UnitID)
	}
	if filter.Status != nil {
		addClause("status =", string(*filter.Status))
	}
	if filter.Kind != nil {
		addClause("kind =", string(*filter.Kind))
	}

	if nextToken != nil && *nextToken != "" {
		lastCreatedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken", apperrors.ErrValidation)
		}
		args = append(args, lastCreatedAt, lastID)
		clauses = append(clauses, "(created_at, transaction_id) < ($"+strconv.Itoa(len(args)-1)+", $"+strconv.Itoa(len(args))+")")
	}

	query := baseQuery
	if len(clauses) > 0 {
		query += " WHERE " + clauses[0]
		for _, clause := range clauses[1:] {
			query += " AND " + clause
		}
	}
	args = append(args, fetchLimit)
	query += " ORDER BY created_at DESC, transaction_id DESC LIMIT $" + strconv.Itoa(len(args)) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	results := []models.Transaction{}
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		results = append(results, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var nextTokenVal *string
	if len(results) > limit {
		last := results[limit-1]
		token := pagination.EncodeToken(last.CreatedAt, last.TransactionID)
		nextTokenVal = &token
		results = results[:limit]
	}

	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}
