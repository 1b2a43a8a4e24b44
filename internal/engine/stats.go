package engine

import (
	"math"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

// DemandAggregator turns raw sale records into per-product daily demand
// statistics over a lookback window.
type DemandAggregator struct {
	netReturns bool
}

// NewDemandAggregator creates a new demand aggregator. When netReturns is
// true, negative-quantity records (returns, voided sales) are netted into the
// daily series; otherwise they are ignored.
func NewDemandAggregator(netReturns bool) *DemandAggregator {
	return &DemandAggregator{netReturns: netReturns}
}

// DailySeries builds a day-indexed demand series of windowDays entries ending
// at windowEnd (inclusive). Days without a recorded sale stay zero.
func (a *DemandAggregator) DailySeries(sales []domain.SaleRecord, windowEnd time.Time, windowDays int) []float64 {
	series := make([]float64, windowDays)
	if windowDays <= 0 {
		return series
	}

	end := truncateDay(windowEnd)
	start := end.AddDate(0, 0, -(windowDays - 1))

	for _, s := range sales {
		if s.Quantity < 0 && !a.netReturns {
			continue
		}
		day := truncateDay(s.Date)
		if day.Before(start) || day.After(end) {
			continue
		}
		idx := int(day.Sub(start).Hours() / 24)
		if idx < 0 || idx >= windowDays {
			continue
		}
		series[idx] += s.Quantity
	}

	// Netted days can go negative when returns outnumber sales; demand is
	// floored at zero per day.
	for i, v := range series {
		if v < 0 {
			series[i] = 0
		}
	}

	return series
}

// Profile computes the demand profile for one product. Too few samples yield
// a valid, low-confidence profile alongside ErrInsufficientData; callers match
// the sentinel and degrade instead of failing.
func (a *DemandAggregator) Profile(productID string, storeID int64, sales []domain.SaleRecord, windowEnd time.Time, windowDays int) (domain.DemandProfile, error) {
	series := a.DailySeries(sales, windowEnd, windowDays)

	profile := domain.DemandProfile{
		ProductID:  productID,
		StoreID:    storeID,
		WindowDays: windowDays,
	}

	n := len(series)
	if n == 0 {
		profile.LowConfidence = true
		return profile, domain.InsufficientDataf("empty demand window for product %s", productID)
	}

	var sum float64
	for _, v := range series {
		sum += v
	}
	mean := sum / float64(n)

	var std float64
	if n >= 2 {
		var sq float64
		for _, v := range series {
			d := v - mean
			sq += d * d
		}
		std = math.Sqrt(sq / float64(n-1))
	}

	samples := 0
	for _, s := range sales {
		if s.Quantity < 0 && !a.netReturns {
			continue
		}
		day := truncateDay(s.Date)
		end := truncateDay(windowEnd)
		if day.After(end) || day.Before(end.AddDate(0, 0, -(windowDays-1))) {
			continue
		}
		samples++
	}

	profile.AvgDailyDemand = mean
	profile.DemandStd = std
	profile.SampleCount = samples
	profile.LowConfidence = samples < 2 || n < 2

	if profile.LowConfidence {
		return profile, domain.InsufficientDataf("%d samples in %d-day window for product %s", samples, windowDays, productID)
	}
	return profile, nil
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
