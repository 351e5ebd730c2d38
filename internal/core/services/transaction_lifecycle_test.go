package services_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/SterilFlow/cssd_tracking_app/internal/apperrors"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	portsrepo "github.com/SterilFlow/cssd_tracking_app/internal/core/ports/repositories"
	"github.com/SterilFlow/cssd_tracking_app/internal/core/services"
	"github.com/SterilFlow/cssd_tracking_app/internal/dto"
)

// fakeLedgerStore is a mutex-guarded in-memory stand-in for the pgsql
// transaction repository. It enforces the same all-or-nothing semantics:
// non-negativity is checked against every movement before any counter is
// touched, and reversal deltas clamp at zero.
type fakeLedgerStore struct {
	mu           sync.Mutex
	stock        map[domain.StockKey]domain.StockRecord
	transactions map[string]domain.Transaction
	items        map[string][]domain.TransactionItem
}

var _ portsrepo.TransactionRepositoryFacade = (*fakeLedgerStore)(nil)

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{
		stock:        make(map[domain.StockKey]domain.StockRecord),
		transactions: make(map[string]domain.Transaction),
		items:        make(map[string][]domain.TransactionItem),
	}
}

func (f *fakeLedgerStore) seed(key domain.StockKey, steril, kotor, inUse int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[key] = domain.StockRecord{
		InstrumentID: key.InstrumentID,
		Location:     key.Location,
		StockSteril:  steril,
		StockKotor:   kotor,
		StockInUse:   inUse,
	}
}

func (f *fakeLedgerStore) record(key domain.StockKey) domain.StockRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.stock[key]
	if !ok {
		return domain.StockRecord{InstrumentID: key.InstrumentID, Location: key.Location}
	}
	return rec
}

func (f *fakeLedgerStore) SaveTransaction(_ context.Context, txn domain.Transaction, items []domain.TransactionItem, movements []domain.StockMovement) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	updated := make(map[domain.StockKey]domain.StockRecord, len(movements))
	for _, mv := range movements {
		rec, ok := f.stock[mv.Key]
		if !ok {
			rec = domain.StockRecord{InstrumentID: mv.Key.InstrumentID, Location: mv.Key.Location}
		}
		rec = rec.Apply(mv.Delta)
		if rec.StockSteril < 0 || rec.StockKotor < 0 || rec.StockInUse < 0 {
			return fmt.Errorf("%w: instrument %s", apperrors.ErrInsufficientStock, mv.Key.InstrumentID)
		}
		updated[mv.Key] = rec
	}
	for key, rec := range updated {
		f.stock[key] = rec
	}
	f.transactions[txn.TransactionID] = txn
	f.items[txn.TransactionID] = items
	return nil
}

func (f *fakeLedgerStore) MarkValidated(_ context.Context, transactionID string, validatorID string, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.transactions[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	if txn.Status != domain.StatusPending {
		return apperrors.ErrInvalidTransition
	}
	txn.Status = domain.StatusValidated
	txn.ValidatorID = &validatorID
	txn.LastUpdatedAt = now
	f.transactions[transactionID] = txn
	return nil
}

func (f *fakeLedgerStore) MarkCancelled(_ context.Context, transactionID string, actorID string, reason string, movements []domain.StockMovement, now time.Time) ([]domain.StockKey, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	txn, ok := f.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if !txn.Status.CanTransitionTo(domain.StatusCancelled) {
		return nil, apperrors.ErrInvalidTransition
	}

	var clamped []domain.StockKey
	for _, mv := range movements {
		rec, ok := f.stock[mv.Key]
		if !ok {
			rec = domain.StockRecord{InstrumentID: mv.Key.InstrumentID, Location: mv.Key.Location}
		}
		rec = rec.Apply(mv.Delta)
		wasClamped := false
		if rec.StockSteril < 0 {
			rec.StockSteril = 0
			wasClamped = true
		}
		if rec.StockKotor < 0 {
			rec.StockKotor = 0
			wasClamped = true
		}
		if rec.StockInUse < 0 {
			rec.StockInUse = 0
			wasClamped = true
		}
		if wasClamped {
			clamped = append(clamped, mv.Key)
		}
		f.stock[mv.Key] = rec
	}

	txn.Status = domain.StatusCancelled
	txn.CancelReason = reason
	txn.LastUpdatedAt = now
	txn.LastUpdatedBy = actorID
	f.transactions[transactionID] = txn
	return clamped, nil
}

func (f *fakeLedgerStore) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txn, ok := f.transactions[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &txn, nil
}

func (f *fakeLedgerStore) FindTransactionByQRToken(_ context.Context, qrToken string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.transactions {
		if txn.QRToken == qrToken {
			return &txn, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeLedgerStore) FindItemsByTransactionID(_ context.Context, transactionID string) ([]domain.TransactionItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.items[transactionID], nil
}

func (f *fakeLedgerStore) ListTransactions(_ context.Context, filter portsrepo.ListTransactionsFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]domain.Transaction, 0, len(f.transactions))
	for _, txn := range f.transactions {
		if filter.Status != nil && txn.Status != *filter.Status {
			continue
		}
		result = append(result, txn)
	}
	return result, nil, nil
}

// lifecycleFixture wires the engine against the fake store with permissive
// unit/instrument lookups.
type lifecycleFixture struct {
	store   *fakeLedgerStore
	service *serviceUnderTest
	unit    domain.Unit
	actor   domain.Actor
}

type serviceUnderTest struct {
	create   func(ctx context.Context, kind domain.TransactionKind, req dto.CreateTransactionRequest) (*domain.Transaction, error)
	cancel   func(ctx context.Context, transactionID, reason string) ([]domain.StockKey, error)
	validate func(ctx context.Context, transactionID string) (*domain.Transaction, error)
}

func newLifecycleFixture(t *testing.T, instruments ...domain.Instrument) *lifecycleFixture {
	t.Helper()

	store := newFakeLedgerStore()
	unit := domain.Unit{UnitID: uuid.NewString(), Code: "OK", Name: "Operating Theatre", IsActive: true}
	actor := domain.Actor{UserID: uuid.NewString(), Role: domain.RoleCSSDStaff}

	instrumentsMap := make(map[string]domain.Instrument, len(instruments))
	for _, inst := range instruments {
		instrumentsMap[inst.InstrumentID] = inst
	}

	unitSvc := new(MockUnitService)
	unitSvc.On("GetUnitByID", mock.Anything, unit.UnitID).Return(&unit, nil)
	instrumentSvc := new(MockInstrumentService)
	instrumentSvc.On("GetInstrumentsByIDs", mock.Anything, mock.Anything).Return(instrumentsMap, nil)
	auditSink := new(MockAuditSink)
	auditSink.On("RecordEvent", mock.Anything, mock.Anything).Return(nil)

	svc := services.NewTransactionService(store, unitSvc, instrumentSvc, auditSink)

	return &lifecycleFixture{
		store: store,
		unit:  unit,
		actor: actor,
		service: &serviceUnderTest{
			create: func(ctx context.Context, kind domain.TransactionKind, req dto.CreateTransactionRequest) (*domain.Transaction, error) {
				return svc.CreateTransaction(ctx, actor, kind, req)
			},
			cancel: func(ctx context.Context, transactionID, reason string) ([]domain.StockKey, error) {
				result, err := svc.CancelTransaction(ctx, actor, transactionID, reason)
				if err != nil {
					return nil, err
				}
				return result.ClampedKeys, nil
			},
			validate: func(ctx context.Context, transactionID string) (*domain.Transaction, error) {
				return svc.ValidateTransaction(ctx, actor, transactionID)
			},
		},
	}
}

func activeInstrument(code string) domain.Instrument {
	return domain.Instrument{InstrumentID: uuid.NewString(), Name: code, Code: code, IsActive: true}
}

func TestLifecycle_CreateThenCancelRestoresStock(t *testing.T) {
	ctx := context.Background()
	scalpel := activeInstrument("SCP-01")
	fx := newLifecycleFixture(t, scalpel)

	cssdKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.CSSDLocation()}
	unitKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.UnitLocation(fx.unit.UnitID)}
	fx.store.seed(cssdKey, 10, 0, 0)

	txn, err := fx.service.create(ctx, domain.DistributeSteril, dto.CreateTransactionRequest{
		UnitID: fx.unit.UnitID,
		Items:  []dto.TransactionItemRequest{{InstrumentID: scalpel.InstrumentID, Quantity: 4}},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 6, fx.store.record(cssdKey).StockSteril)
	assert.EqualValues(t, 4, fx.store.record(unitKey).StockInUse)

	clamped, err := fx.service.cancel(ctx, txn.TransactionID, "entered against wrong unit")
	require.NoError(t, err)
	assert.Empty(t, clamped)
	assert.EqualValues(t, 10, fx.store.record(cssdKey).StockSteril)
	assert.EqualValues(t, 0, fx.store.record(unitKey).StockInUse)
}

func TestLifecycle_MultiItemFailureIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	scalpel := activeInstrument("SCP-01")
	forceps := activeInstrument("FCP-01")
	fx := newLifecycleFixture(t, scalpel, forceps)

	scalpelKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.CSSDLocation()}
	forcepsKey := domain.StockKey{InstrumentID: forceps.InstrumentID, Location: domain.CSSDLocation()}
	fx.store.seed(scalpelKey, 10, 0, 0)
	fx.store.seed(forcepsKey, 1, 0, 0)

	_, err := fx.service.create(ctx, domain.DistributeSteril, dto.CreateTransactionRequest{
		UnitID: fx.unit.UnitID,
		Items: []dto.TransactionItemRequest{
			{InstrumentID: scalpel.InstrumentID, Quantity: 5},
			{InstrumentID: forceps.InstrumentID, Quantity: 3},
		},
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientStock)
	assert.EqualValues(t, 10, fx.store.record(scalpelKey).StockSteril, "failed line must not leak partial updates")
	assert.EqualValues(t, 1, fx.store.record(forcepsKey).StockSteril)
}

func TestLifecycle_FullRoundTripConservesPerInstrumentTotals(t *testing.T) {
	ctx := context.Background()
	scalpel := activeInstrument("SCP-01")
	fx := newLifecycleFixture(t, scalpel)

	cssdKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.CSSDLocation()}
	unitKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.UnitLocation(fx.unit.UnitID)}
	fx.store.seed(cssdKey, 8, 0, 0)

	total := func() int64 {
		return fx.store.record(cssdKey).Total() + fx.store.record(unitKey).Total()
	}
	require.EqualValues(t, 8, total())

	items := []dto.TransactionItemRequest{{InstrumentID: scalpel.InstrumentID, Quantity: 5}}

	distribute, err := fx.service.create(ctx, domain.DistributeSteril, dto.CreateTransactionRequest{UnitID: fx.unit.UnitID, Items: items})
	require.NoError(t, err)
	assert.EqualValues(t, 8, total())

	_, err = fx.service.validate(ctx, distribute.TransactionID)
	require.NoError(t, err)
	assert.EqualValues(t, 8, total())

	pickup, err := fx.service.create(ctx, domain.PickupKotor, dto.CreateTransactionRequest{UnitID: fx.unit.UnitID, Items: items})
	require.NoError(t, err)
	assert.EqualValues(t, 8, total())
	assert.EqualValues(t, 5, fx.store.record(unitKey).StockKotor)

	_, err = fx.service.create(ctx, domain.ReturnToCssd, dto.CreateTransactionRequest{UnitID: fx.unit.UnitID, Items: items})
	require.NoError(t, err)
	assert.EqualValues(t, 8, total())
	assert.EqualValues(t, 5, fx.store.record(cssdKey).StockKotor)
	assert.EqualValues(t, 3, fx.store.record(cssdKey).StockSteril)
	assert.EqualValues(t, 0, fx.store.record(unitKey).Total())

	_ = pickup
}

func TestLifecycle_ValidatedThenCancelledReversesStock(t *testing.T) {
	ctx := context.Background()
	scalpel := activeInstrument("SCP-01")
	fx := newLifecycleFixture(t, scalpel)

	cssdKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.CSSDLocation()}
	fx.store.seed(cssdKey, 5, 0, 0)

	txn, err := fx.service.create(ctx, domain.DistributeSteril, dto.CreateTransactionRequest{
		UnitID: fx.unit.UnitID,
		Items:  []dto.TransactionItemRequest{{InstrumentID: scalpel.InstrumentID, Quantity: 5}},
	})
	require.NoError(t, err)

	_, err = fx.service.validate(ctx, txn.TransactionID)
	require.NoError(t, err)

	clamped, err := fx.service.cancel(ctx, txn.TransactionID, "unit recount came up short")
	require.NoError(t, err)
	assert.Empty(t, clamped)
	assert.EqualValues(t, 5, fx.store.record(cssdKey).StockSteril)

	_, err = fx.service.cancel(ctx, txn.TransactionID, "again")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
}

func TestLifecycle_ConcurrentCreatesNeverOversell(t *testing.T) {
	ctx := context.Background()
	scalpel := activeInstrument("SCP-01")
	fx := newLifecycleFixture(t, scalpel)

	cssdKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.CSSDLocation()}
	unitKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.UnitLocation(fx.unit.UnitID)}
	fx.store.seed(cssdKey, 10, 0, 0)

	// Two creates of 7 against 10: exactly one can win.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.service.create(ctx, domain.DistributeSteril, dto.CreateTransactionRequest{
				UnitID: fx.unit.UnitID,
				Items:  []dto.TransactionItemRequest{{InstrumentID: scalpel.InstrumentID, Quantity: 7}},
			})
		}(i)
	}
	wg.Wait()

	var successes, rejections int
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperrors.ErrInsufficientStock):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, rejections)
	assert.EqualValues(t, 3, fx.store.record(cssdKey).StockSteril)
	assert.EqualValues(t, 7, fx.store.record(unitKey).StockInUse)
}

func TestLifecycle_ConcurrentValidateAndCancelOneWins(t *testing.T) {
	ctx := context.Background()
	scalpel := activeInstrument("SCP-01")
	fx := newLifecycleFixture(t, scalpel)

	cssdKey := domain.StockKey{InstrumentID: scalpel.InstrumentID, Location: domain.CSSDLocation()}
	fx.store.seed(cssdKey, 10, 0, 0)

	for i := 0; i < 20; i++ {
		txn, err := fx.service.create(ctx, domain.DistributeSteril, dto.CreateTransactionRequest{
			UnitID: fx.unit.UnitID,
			Items:  []dto.TransactionItemRequest{{InstrumentID: scalpel.InstrumentID, Quantity: 2}},
		})
		require.NoError(t, err)

		var wg sync.WaitGroup
		var validateErr, cancelErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, validateErr = fx.service.validate(ctx, txn.TransactionID)
		}()
		go func() {
			defer wg.Done()
			_, cancelErr = fx.service.cancel(ctx, txn.TransactionID, "race probe")
		}()
		wg.Wait()

		// Validate may lose to cancel; cancel always lands because validated
		// transactions stay cancellable. Stock must end where it started.
		if validateErr != nil {
			assert.ErrorIs(t, validateErr, apperrors.ErrInvalidTransition)
		}
		require.NoError(t, cancelErr)
		assert.EqualValues(t, 10, fx.store.record(cssdKey).StockSteril)
	}
}
