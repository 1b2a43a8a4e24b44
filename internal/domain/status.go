package domain

import "strings"

// StockStatus buckets current stock against the reorder point.
type StockStatus string

const (
	StatusCritical StockStatus = "Critical"
	StatusLow      StockStatus = "Low - Order Now"
	StatusModerate StockStatus = "Moderate"
	StatusHealthy  StockStatus = "Healthy"
)

// ABCTier is the Pareto revenue tier of a product within its catalog.
type ABCTier string

const (
	TierA ABCTier = "A"
	TierB ABCTier = "B"
	TierC ABCTier = "C"
)

var stockStatusCodes = map[string]StockStatus{
	"critical":        StatusCritical,
	"low - order now": StatusLow,
	"low":             StatusLow,
	"moderate":        StatusModerate,
	"healthy":         StatusHealthy,
}

// ParseStockStatus returns the status for a given label (case-insensitive).
func ParseStockStatus(label string) (StockStatus, bool) {
	status, ok := stockStatusCodes[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// ParseABCTier returns the tier for a given label (case-insensitive).
func ParseABCTier(label string) (ABCTier, bool) {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "A":
		return TierA, true
	case "B":
		return TierB, true
	case "C":
		return TierC, true
	}

	return "", false
}
