package engine

import "github.com/andresuchdata/stockpilot/backend-go/internal/domain"

// EvaluateStatus buckets current stock against the reorder point. The four
// ranges are mutually exclusive and exhaustive; comparisons are strict, so a
// stock level sitting exactly on a boundary takes the lower-urgency bucket.
func EvaluateStatus(currentStock int, reorderPoint int) domain.StockStatus {
	stock := float64(currentStock)
	rop := float64(reorderPoint)

	switch {
	case stock < 0.25*rop:
		return domain.StatusCritical
	case stock < 0.5*rop:
		return domain.StatusLow
	case stock < rop:
		return domain.StatusModerate
	default:
		return domain.StatusHealthy
	}
}
