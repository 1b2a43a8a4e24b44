package engine

import (
	"testing"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(offset int) time.Time {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	return base.AddDate(0, 0, offset)
}

func sale(product string, offset int, qty float64) domain.SaleRecord {
	return domain.SaleRecord{
		ProductID: product,
		StoreID:   1,
		Date:      day(offset),
		Quantity:  qty,
		UnitPrice: 10,
	}
}

func TestProfileZeroFillsMissingDays(t *testing.T) {
	agg := NewDemandAggregator(true)

	sales := []domain.SaleRecord{
		sale("p1", 0, 10),
		sale("p1", 2, 20),
	}

	// 5-day window ending on day 4: series is 10, 0, 20, 0, 0.
	profile, err := agg.Profile("p1", 1, sales, day(4), 5)
	require.NoError(t, err)

	assert.InDelta(t, 6.0, profile.AvgDailyDemand, 1e-9)
	assert.Equal(t, 2, profile.SampleCount)
	assert.False(t, profile.LowConfidence)
	// sample std of {10, 0, 20, 0, 0}
	assert.InDelta(t, 8.944271909999159, profile.DemandStd, 1e-9)
}

func TestProfileZeroSalesIsValidLowConfidence(t *testing.T) {
	agg := NewDemandAggregator(true)

	profile, err := agg.Profile("p1", 1, nil, day(30), 30)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	assert.Zero(t, profile.AvgDailyDemand)
	assert.Zero(t, profile.DemandStd)
	assert.Zero(t, profile.SampleCount)
	assert.True(t, profile.LowConfidence)
}

func TestProfileSingleSampleIsLowConfidence(t *testing.T) {
	agg := NewDemandAggregator(true)

	profile, err := agg.Profile("p1", 1, []domain.SaleRecord{sale("p1", 3, 5)}, day(6), 7)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	assert.True(t, profile.LowConfidence)
	assert.Equal(t, 1, profile.SampleCount)
}

func TestProfileTinyWindowHasZeroStd(t *testing.T) {
	agg := NewDemandAggregator(true)

	profile, err := agg.Profile("p1", 1, []domain.SaleRecord{sale("p1", 0, 8)}, day(0), 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientData)

	assert.InDelta(t, 8.0, profile.AvgDailyDemand, 1e-9)
	assert.Zero(t, profile.DemandStd)
	assert.True(t, profile.LowConfidence)
}

func TestNetReturnsToggle(t *testing.T) {
	sales := []domain.SaleRecord{
		sale("p1", 0, 10),
		sale("p1", 0, -4), // return on the same day
		sale("p1", 1, 6),
	}

	netted := NewDemandAggregator(true).DailySeries(sales, day(1), 2)
	require.Len(t, netted, 2)
	assert.InDelta(t, 6.0, netted[0], 1e-9)
	assert.InDelta(t, 6.0, netted[1], 1e-9)

	ignored := NewDemandAggregator(false).DailySeries(sales, day(1), 2)
	assert.InDelta(t, 10.0, ignored[0], 1e-9)
}

func TestNettedDayNeverGoesNegative(t *testing.T) {
	sales := []domain.SaleRecord{
		sale("p1", 0, 2),
		sale("p1", 0, -5),
	}

	series := NewDemandAggregator(true).DailySeries(sales, day(0), 1)
	assert.Zero(t, series[0])
}

func TestSalesOutsideWindowIgnored(t *testing.T) {
	agg := NewDemandAggregator(true)

	sales := []domain.SaleRecord{
		sale("p1", -10, 100), // before the window
		sale("p1", 1, 5),
		sale("p1", 2, 5),
		sale("p1", 20, 100), // after the window
	}

	profile, err := agg.Profile("p1", 1, sales, day(4), 5)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, profile.AvgDailyDemand, 1e-9)
	assert.Equal(t, 2, profile.SampleCount)
}
