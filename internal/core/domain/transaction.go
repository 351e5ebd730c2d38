package domain

// TransactionKind identifies which stock flow a transaction moves.
type TransactionKind string

const (
	// DistributeSteril moves sterile stock from CSSD into a unit's in-use pool.
	DistributeSteril TransactionKind = "DISTRIBUTE_STERIL"
	// PickupKotor moves a unit's in-use stock into its dirty pool.
	PickupKotor TransactionKind = "PICKUP_KOTOR"
	// ReturnToCssd moves a unit's dirty stock back to the CSSD dirty pool.
	ReturnToCssd TransactionKind = "RETURN_TO_CSSD"
)

// IsValid reports whether k is one of the three known kinds.
func (k TransactionKind) IsValid() bool {
	switch k {
	case DistributeSteril, PickupKotor, ReturnToCssd:
		return true
	}
	return false
}

// TransactionStatus indicates the state of a transaction.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusValidated TransactionStatus = "VALIDATED"
	StatusCancelled TransactionStatus = "CANCELLED"
)

// CanTransitionTo enforces the lifecycle state machine:
// Pending -> Validated, Pending -> Cancelled, Validated -> Cancelled.
// Cancelled is terminal.
func (s TransactionStatus) CanTransitionTo(next TransactionStatus) bool {
	switch s {
	case StatusPending:
		return next == StatusValidated || next == StatusCancelled
	case StatusValidated:
		return next == StatusCancelled
	}
	return false
}

// Transaction is one auditable stock movement between CSSD and a unit.
type Transaction struct {
	TransactionID string `json:"transactionID"` // Primary key (UUID)
	// QRToken is the opaque identifier embedded in the transaction's QR payload.
	QRToken      string            `json:"qrToken"`
	UnitID       string            `json:"unitID"`
	CreatorID    string            `json:"creatorID"`
	ValidatorID  *string           `json:"validatorID,omitempty"` // Set when validated
	Kind         TransactionKind   `json:"kind"`
	Status       TransactionStatus `json:"status"`
	Notes        string            `json:"notes"`
	CancelReason string            `json:"cancelReason,omitempty"` // Set when cancelled
	Items        []TransactionItem `json:"items,omitempty"`
	AuditFields
}

// TransactionItem is a single instrument line within a transaction.
// Items are immutable once created; cancellation reverses ledger effects
// without touching item rows.
type TransactionItem struct {
	ItemID        string `json:"itemID"` // Primary key (UUID)
	TransactionID string `json:"transactionID"`
	InstrumentID  string `json:"instrumentID"`
	Quantity      int64  `json:"quantity"` // Always > 0
	Notes         string `json:"notes"`
	AuditFields
}

// endpoint locates one side of a kind's flow: a counter at CSSD or at the
// transaction's unit.
type endpoint struct {
	atCSSD  bool
	counter StockCounter
}

// flow is the (source, destination) pair for one transaction kind.
type flow struct {
	source endpoint
	dest   endpoint
}

// kindFlows is the single data-driven mapping that keeps create and cancel
// symmetric by construction. Create debits source and credits dest;
// cancel does the exact opposite.
var kindFlows = map[TransactionKind]flow{
	DistributeSteril: {
		source: endpoint{atCSSD: true, counter: CounterSteril},
		dest:   endpoint{atCSSD: false, counter: CounterInUse},
	},
	PickupKotor: {
		source: endpoint{atCSSD: false, counter: CounterInUse},
		dest:   endpoint{atCSSD: false, counter: CounterKotor},
	},
	ReturnToCssd: {
		source: endpoint{atCSSD: false, counter: CounterKotor},
		dest:   endpoint{atCSSD: true, counter: CounterKotor},
	},
}

func (e endpoint) location(unitID string) Location {
	if e.atCSSD {
		return CSSDLocation()
	}
	return UnitLocation(unitID)
}

// MovementsForItems expands the items of a transaction into the keyed stock
// deltas its creation applies. Deltas for the same key are merged so that a
// single atomic adjust per key suffices (PickupKotor touches one record with
// both a decrement and an increment).
func MovementsForItems(kind TransactionKind, unitID string, items []TransactionItem) []StockMovement {
	merged := make(map[StockKey]StockDelta)
	order := make([]StockKey, 0, len(items)*2)

	f := kindFlows[kind]
	add := func(key StockKey, d StockDelta) {
		if _, seen := merged[key]; !seen {
			order = append(order, key)
		}
		merged[key] = merged[key].Add(d)
	}

	for _, item := range items {
		srcKey := StockKey{InstrumentID: item.InstrumentID, Location: f.source.location(unitID)}
		dstKey := StockKey{InstrumentID: item.InstrumentID, Location: f.dest.location(unitID)}
		add(srcKey, counterDelta(f.source.counter, -item.Quantity))
		add(dstKey, counterDelta(f.dest.counter, item.Quantity))
	}

	movements := make([]StockMovement, 0, len(order))
	for _, key := range order {
		movements = append(movements, StockMovement{Key: key, Delta: merged[key]})
	}
	return movements
}

// ReversalMovements negates every creation-time delta. Validation moves no
// stock, so the reversal is identical for pending and validated transactions.
func ReversalMovements(kind TransactionKind, unitID string, items []TransactionItem) []StockMovement {
	movements := MovementsForItems(kind, unitID, items)
	for i := range movements {
		movements[i].Delta = movements[i].Delta.Negate()
	}
	return movements
}
