package models

// CategoryStats aggregates the items of one category regardless of stock
// status.
type CategoryStats struct {
	Category   Category `json:"category"`
	Count      int      `json:"count"`
	TotalValue float64  `json:"totalValue"`
}

// StatsSummary is the per-owner aggregate returned by the stats endpoint.
// ByCategory is ordered by count descending, ties broken by category name so
// the output stays reproducible.
type StatsSummary struct {
	TotalItems        int             `json:"totalItems"`
	InStockCount      int             `json:"inStockCount"`
	OutOfStockCount   int             `json:"outOfStockCount"`
	TotalValueInStock float64         `json:"totalValueInStock"`
	ByCategory        []CategoryStats `json:"byCategory"`
}
