package engine

import (
	"sort"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

// BoundaryMode controls which tier receives the product whose inclusion
// pushes cumulative revenue across the 80% / 95% boundary.
type BoundaryMode string

const (
	// BoundaryLower assigns the crossing product to the more valuable tier.
	BoundaryLower BoundaryMode = "lower"
	// BoundaryUpper assigns the crossing product to the following tier.
	BoundaryUpper BoundaryMode = "upper"
)

const (
	tierAThreshold = 0.80
	tierBThreshold = 0.95

	// Guards exact-boundary shares against floating point noise.
	boundaryEpsilon = 1e-9
)

// RevenueEntry is one product's annual revenue, the classifier's only input.
type RevenueEntry struct {
	ProductID string
	Revenue   float64
}

// ABCClassifier assigns Pareto revenue tiers across a catalog snapshot.
type ABCClassifier struct {
	boundary BoundaryMode
}

func NewABCClassifier(boundary BoundaryMode) *ABCClassifier {
	if boundary != BoundaryUpper {
		boundary = BoundaryLower
	}
	return &ABCClassifier{boundary: boundary}
}

// Classify returns the tier for every product in entries. The walk is
// deterministic: descending revenue, ties broken by ascending product id.
// Zero total revenue puts the whole catalog in tier C with a warning.
func (c *ABCClassifier) Classify(entries []RevenueEntry) (map[string]domain.ABCTier, []domain.Warning) {
	tiers := make(map[string]domain.ABCTier, len(entries))
	if len(entries) == 0 {
		return tiers, nil
	}

	sorted := make([]RevenueEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Revenue != sorted[j].Revenue {
			return sorted[i].Revenue > sorted[j].Revenue
		}
		return sorted[i].ProductID < sorted[j].ProductID
	})

	var total float64
	for _, e := range sorted {
		total += e.Revenue
	}
	if total <= 0 {
		for _, e := range sorted {
			tiers[e.ProductID] = domain.TierC
		}
		return tiers, []domain.Warning{{
			Code:    domain.WarnZeroTotalRevenue,
			Message: "total revenue is zero, all products classified as C",
		}}
	}

	var running float64
	for _, e := range sorted {
		before := running / total
		running += e.Revenue
		after := running / total

		var tier domain.ABCTier
		if c.boundary == BoundaryLower {
			// Tier by the share before inclusion: the product crossing a
			// threshold lands in the more valuable tier.
			switch {
			case before < tierAThreshold-boundaryEpsilon:
				tier = domain.TierA
			case before < tierBThreshold-boundaryEpsilon:
				tier = domain.TierB
			default:
				tier = domain.TierC
			}
		} else {
			// Tier by the share after inclusion: the crossing product falls
			// through to the following tier.
			switch {
			case after <= tierAThreshold+boundaryEpsilon:
				tier = domain.TierA
			case after <= tierBThreshold+boundaryEpsilon:
				tier = domain.TierB
			default:
				tier = domain.TierC
			}
		}
		tiers[e.ProductID] = tier
	}

	return tiers, nil
}

// Summary counts the products per tier. The counts always partition the
// catalog: every classified product lands in exactly one bucket.
func Summary(tiers map[string]domain.ABCTier) map[string]int {
	summary := map[string]int{"A": 0, "B": 0, "C": 0}
	for _, t := range tiers {
		summary[string(t)]++
	}
	return summary
}
