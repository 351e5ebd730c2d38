package domain_test

import (
	"testing"

	"github.com/SterilFlow/cssd_tracking_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestTransactionStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from domain.TransactionStatus
		to   domain.TransactionStatus
		want bool
	}{
		{"pending to validated", domain.StatusPending, domain.StatusValidated, true},
		{"pending to cancelled", domain.StatusPending, domain.StatusCancelled, true},
		{"validated to cancelled", domain.StatusValidated, domain.StatusCancelled, true},
		{"validated to pending", domain.StatusValidated, domain.StatusPending, false},
		{"validated to validated", domain.StatusValidated, domain.StatusValidated, false},
		{"cancelled is terminal (to pending)", domain.StatusCancelled, domain.StatusPending, false},
		{"cancelled is terminal (to validated)", domain.StatusCancelled, domain.StatusValidated, false},
		{"cancelled is terminal (to cancelled)", domain.StatusCancelled, domain.StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestMovementsForItems_DistributeSteril(t *testing.T) {
	items := []domain.TransactionItem{
		{InstrumentID: "inst-1", Quantity: 4},
	}

	movements := domain.MovementsForItems(domain.DistributeSteril, "unit-1", items)

	assert.Len(t, movements, 2)
	assert.Equal(t, domain.StockKey{InstrumentID: "inst-1", Location: domain.CSSDLocation()}, movements[0].Key)
	assert.Equal(t, domain.StockDelta{Steril: -4}, movements[0].Delta)
	assert.Equal(t, domain.StockKey{InstrumentID: "inst-1", Location: domain.UnitLocation("unit-1")}, movements[1].Key)
	assert.Equal(t, domain.StockDelta{InUse: 4}, movements[1].Delta)
}

func TestMovementsForItems_PickupKotorMergesSameKey(t *testing.T) {
	// Source and destination are the same stock record, so the deltas must
	// merge into one atomic adjust.
	items := []domain.TransactionItem{
		{InstrumentID: "inst-1", Quantity: 3},
	}

	movements := domain.MovementsForItems(domain.PickupKotor, "unit-1", items)

	assert.Len(t, movements, 1)
	assert.Equal(t, domain.StockKey{InstrumentID: "inst-1", Location: domain.UnitLocation("unit-1")}, movements[0].Key)
	assert.Equal(t, domain.StockDelta{InUse: -3, Kotor: 3}, movements[0].Delta)
}

func TestMovementsForItems_ReturnToCssd(t *testing.T) {
	items := []domain.TransactionItem{
		{InstrumentID: "inst-1", Quantity: 5},
	}

	movements := domain.MovementsForItems(domain.ReturnToCssd, "unit-2", items)

	assert.Len(t, movements, 2)
	assert.Equal(t, domain.UnitLocation("unit-2"), movements[0].Key.Location)
	assert.Equal(t, domain.StockDelta{Kotor: -5}, movements[0].Delta)
	assert.Equal(t, domain.CSSDLocation(), movements[1].Key.Location)
	assert.Equal(t, domain.StockDelta{Kotor: 5}, movements[1].Delta)
}

func TestMovementsForItems_MultipleInstruments(t *testing.T) {
	items := []domain.TransactionItem{
		{InstrumentID: "inst-1", Quantity: 2},
		{InstrumentID: "inst-2", Quantity: 7},
	}

	movements := domain.MovementsForItems(domain.DistributeSteril, "unit-1", items)

	assert.Len(t, movements, 4)
	// Every movement conserves total stock: deltas sum to zero per instrument.
	sums := make(map[string]int64)
	for _, m := range movements {
		sums[m.Key.InstrumentID] += m.Delta.Steril + m.Delta.Kotor + m.Delta.InUse
	}
	assert.Equal(t, int64(0), sums["inst-1"])
	assert.Equal(t, int64(0), sums["inst-2"])
}

func TestReversalMovements_ExactNegation(t *testing.T) {
	items := []domain.TransactionItem{
		{InstrumentID: "inst-1", Quantity: 4},
		{InstrumentID: "inst-2", Quantity: 1},
	}

	for _, kind := range []domain.TransactionKind{domain.DistributeSteril, domain.PickupKotor, domain.ReturnToCssd} {
		forward := domain.MovementsForItems(kind, "unit-1", items)
		reverse := domain.ReversalMovements(kind, "unit-1", items)

		assert.Len(t, reverse, len(forward), string(kind))
		for i := range forward {
			assert.Equal(t, forward[i].Key, reverse[i].Key, string(kind))
			assert.Equal(t, forward[i].Delta.Negate(), reverse[i].Delta, string(kind))
		}
	}
}

func TestStockRecord_ApplyAndTotal(t *testing.T) {
	rec := domain.StockRecord{
		InstrumentID: "inst-1",
		Location:     domain.UnitLocation("unit-1"),
		StockSteril:  1,
		StockKotor:   2,
		StockInUse:   3,
	}

	updated := rec.Apply(domain.StockDelta{InUse: -3, Kotor: 3})

	assert.Equal(t, int64(1), updated.StockSteril)
	assert.Equal(t, int64(5), updated.StockKotor)
	assert.Equal(t, int64(0), updated.StockInUse)
	assert.Equal(t, rec.Total(), updated.Total())
}

func TestTransactionKind_IsValid(t *testing.T) {
	assert.True(t, domain.DistributeSteril.IsValid())
	assert.True(t, domain.PickupKotor.IsValid())
	assert.True(t, domain.ReturnToCssd.IsValid())
	assert.False(t, domain.TransactionKind("DISTRIBUSI_STERIL").IsValid())
	assert.False(t, domain.TransactionKind("").IsValid())
}
