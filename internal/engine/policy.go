package engine

import (
	"math"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

const (
	MinLeadTimeDays = 3
	MaxLeadTimeDays = 30

	daysPerYear = 365
)

// Fixed z-scores for the supported standard service levels. Other targets go
// through the inverse normal CDF instead of interpolating these points.
var standardZScores = map[float64]float64{
	0.90: 1.28,
	0.95: 1.65,
	0.99: 2.33,
}

// PolicyCalculator derives safety stock, reorder point and EOQ from a demand
// profile plus supplier and service-level parameters.
type PolicyCalculator struct {
	orderingCost float64
	holdingRate  float64
}

// NewPolicyCalculator creates a policy calculator with the given ordering cost
// per order and yearly holding rate (fraction of unit price).
func NewPolicyCalculator(orderingCost, holdingRate float64) *PolicyCalculator {
	return &PolicyCalculator{
		orderingCost: orderingCost,
		holdingRate:  holdingRate,
	}
}

// ValidateLeadTime rejects lead times outside the supported 3-30 day range.
func ValidateLeadTime(days int) error {
	if days < MinLeadTimeDays || days > MaxLeadTimeDays {
		return domain.InvalidParameterf("lead_time_days %d outside supported range %d-%d", days, MinLeadTimeDays, MaxLeadTimeDays)
	}
	return nil
}

// ResolveZScore maps a target service level to its z-score. The three
// standard levels use fixed table values; any other level in (0.5, 1) is
// resolved through the inverse normal CDF.
func ResolveZScore(serviceLevel float64) (float64, error) {
	if z, ok := standardZScores[serviceLevel]; ok {
		return z, nil
	}
	if serviceLevel <= 0.5 || serviceLevel >= 1 {
		return 0, domain.InvalidParameterf("service_level %v outside supported range (0.5, 1)", serviceLevel)
	}
	return inverseNormalCDF(serviceLevel), nil
}

// Compute derives the reorder policy for one product. A zero or negative
// holding cost reports EOQ 0 with a warning instead of failing.
func (c *PolicyCalculator) Compute(profile domain.DemandProfile, unitPrice float64, leadTimeDays int, serviceLevel float64) (domain.ReorderPolicy, []domain.Warning, error) {
	if err := ValidateLeadTime(leadTimeDays); err != nil {
		return domain.ReorderPolicy{}, nil, err
	}
	z, err := ResolveZScore(serviceLevel)
	if err != nil {
		return domain.ReorderPolicy{}, nil, err
	}

	var warnings []domain.Warning

	safety := z * profile.DemandStd * math.Sqrt(float64(leadTimeDays))
	safety = math.Max(0, safety)
	safetyStock := roundHalfUp(safety)

	reorderPoint := roundHalfUp(profile.AvgDailyDemand*float64(leadTimeDays) + float64(safetyStock))
	if reorderPoint < safetyStock {
		reorderPoint = safetyStock
	}

	eoq := 0
	annualDemand := profile.AvgDailyDemand * daysPerYear
	holdingCost := unitPrice * c.holdingRate
	if holdingCost <= 0 {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnZeroHoldingCost,
			Message: "holding cost is zero or negative, EOQ reported as 0",
		})
	} else if annualDemand > 0 {
		raw := math.Sqrt(2 * annualDemand * c.orderingCost / holdingCost)
		if v, ok := sanitizeFloat(raw); ok {
			eoq = int(math.Ceil(v))
		} else {
			warnings = append(warnings, domain.Warning{
				Code:    domain.WarnNonFiniteValue,
				Message: "EOQ computation produced a non-finite value, reported as 0",
			})
		}
	}

	policy := domain.ReorderPolicy{
		LeadTimeDays: leadTimeDays,
		ServiceLevel: serviceLevel,
		ZScore:       z,
		SafetyStock:  safetyStock,
		ReorderPoint: reorderPoint,
		EOQ:          eoq,
	}

	return policy, warnings, nil
}

// roundHalfUp rounds to the nearest whole unit, halves away from zero.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// sanitizeFloat reports whether v is finite; non-finite values collapse to 0.
func sanitizeFloat(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// inverseNormalCDF approximates the standard normal quantile function using
// Acklam's rational approximation. Absolute error is below 1.15e-9 over the
// open unit interval, far tighter than the two decimals the z-table carries.
func inverseNormalCDF(p float64) float64 {
	a := [6]float64{
		-3.969683028665376e+01, 2.209460984245205e+02,
		-2.759285104469687e+02, 1.383577518672690e+02,
		-3.066479806614716e+01, 2.506628277459239e+00,
	}
	b := [5]float64{
		-5.447609879822406e+01, 1.615858368580409e+02,
		-1.556989798598866e+02, 6.680131188771972e+01,
		-1.328068155288572e+01,
	}
	cc := [6]float64{
		-7.784894002430293e-03, -3.223964580411365e-01,
		-2.400758277161838e+00, -2.549732539343734e+00,
		4.374664141464968e+00, 2.938163982698783e+00,
	}
	d := [4]float64{
		7.784695709041462e-03, 3.224671290700398e-01,
		2.445134137142996e+00, 3.754408661907416e+00,
	}

	const plow = 0.02425
	const phigh = 1 - plow

	switch {
	case p < plow:
		q := math.Sqrt(-2 * math.Log(p))
		return (((((cc[0]*q+cc[1])*q+cc[2])*q+cc[3])*q+cc[4])*q + cc[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	case p > phigh:
		q := math.Sqrt(-2 * math.Log(1-p))
		return -(((((cc[0]*q+cc[1])*q+cc[2])*q+cc[3])*q+cc[4])*q + cc[5]) /
			((((d[0]*q+d[1])*q+d[2])*q+d[3])*q + 1)
	default:
		q := p - 0.5
		r := q * q
		return (((((a[0]*r+a[1])*r+a[2])*r+a[3])*r+a[4])*r + a[5]) * q /
			(((((b[0]*r+b[1])*r+b[2])*r+b[3])*r+b[4])*r + 1)
	}
}
