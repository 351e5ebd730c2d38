package domain

// LocationType discriminates the two places stock can sit.
type LocationType string

const (
	LocationCSSD LocationType = "CSSD"
	LocationUnit LocationType = "UNIT"
)

// Location addresses one side of a stock record key. UnitID is empty for CSSD.
type Location struct {
	Type   LocationType `json:"type"`
	UnitID string       `json:"unitID,omitempty"`
}

// CSSDLocation returns the singleton central store location.
func CSSDLocation() Location {
	return Location{Type: LocationCSSD}
}

// UnitLocation returns the location for a specific hospital unit.
func UnitLocation(unitID string) Location {
	return Location{Type: LocationUnit, UnitID: unitID}
}

// StockCounter names one of the three counters on a stock record.
type StockCounter string

const (
	CounterSteril StockCounter = "STERIL"
	CounterKotor  StockCounter = "KOTOR"
	CounterInUse  StockCounter = "IN_USE"
)

// StockDelta is a signed change to the three counters of one stock record.
type StockDelta struct {
	Steril int64 `json:"steril"`
	Kotor  int64 `json:"kotor"`
	InUse  int64 `json:"inUse"`
}

// Add merges another delta into this one.
func (d StockDelta) Add(o StockDelta) StockDelta {
	return StockDelta{
		Steril: d.Steril + o.Steril,
		Kotor:  d.Kotor + o.Kotor,
		InUse:  d.InUse + o.InUse,
	}
}

// IsZero reports whether the delta changes nothing.
func (d StockDelta) IsZero() bool {
	return d.Steril == 0 && d.Kotor == 0 && d.InUse == 0
}

// Negate flips the sign of every counter change; used to reverse a movement.
func (d StockDelta) Negate() StockDelta {
	return StockDelta{Steril: -d.Steril, Kotor: -d.Kotor, InUse: -d.InUse}
}

// counterDelta builds a delta touching a single counter.
func counterDelta(c StockCounter, qty int64) StockDelta {
	switch c {
	case CounterSteril:
		return StockDelta{Steril: qty}
	case CounterKotor:
		return StockDelta{Kotor: qty}
	default:
		return StockDelta{InUse: qty}
	}
}

// StockKey is the composite key of a stock record.
type StockKey struct {
	InstrumentID string   `json:"instrumentID"`
	Location     Location `json:"location"`
}

// StockRecord holds the per-(instrument, location) counter triple.
// All counters are non-negative at all times; records are created lazily at
// zero and never deleted. InUse is only meaningful for unit locations.
type StockRecord struct {
	InstrumentID string   `json:"instrumentID"`
	Location     Location `json:"location"`
	StockSteril  int64    `json:"stockSteril"`
	StockKotor   int64    `json:"stockKotor"`
	StockInUse   int64    `json:"stockInUse"`
	AuditFields
}

// Key returns the composite key of the record.
func (r StockRecord) Key() StockKey {
	return StockKey{InstrumentID: r.InstrumentID, Location: r.Location}
}

// Total is the sum of all three counters; conserved across transactions.
func (r StockRecord) Total() int64 {
	return r.StockSteril + r.StockKotor + r.StockInUse
}

// Apply returns the record with the delta applied. It does not check
// non-negativity; callers validate before committing.
func (r StockRecord) Apply(d StockDelta) StockRecord {
	r.StockSteril += d.Steril
	r.StockKotor += d.Kotor
	r.StockInUse += d.InUse
	return r
}

// StockMovement is one keyed delta produced by the transaction movement table.
type StockMovement struct {
	Key   StockKey
	Delta StockDelta
}
