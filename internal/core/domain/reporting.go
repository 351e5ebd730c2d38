package domain

// StockTotals aggregates each counter across every location.
type StockTotals struct {
	TotalSteril int64 `json:"totalSteril"`
	TotalKotor  int64 `json:"totalKotor"`
	TotalInUse  int64 `json:"totalInUse"`
}

// DashboardStats is the aggregate snapshot served to the dashboard.
type DashboardStats struct {
	PendingToday   int64       `json:"pendingToday"`
	ValidatedToday int64       `json:"validatedToday"`
	CancelledToday int64       `json:"cancelledToday"`
	Stock          StockTotals `json:"stock"`
}
