package engine

import (
	"math"
	"testing"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func flatSeries(days int, v float64) []float64 {
	s := make([]float64, days)
	for i := range s {
		s[i] = v
	}
	return s
}

func testProduct() domain.Product {
	return domain.Product{
		ID:           "p1",
		StoreID:      1,
		Name:         "Widget",
		Category:     "Electronics",
		UnitPrice:    25,
		CurrentStock: 40,
	}
}

func TestValidateHorizon(t *testing.T) {
	assert.NoError(t, ValidateHorizon(7))
	assert.NoError(t, ValidateHorizon(14))
	assert.NoError(t, ValidateHorizon(30))
	assert.ErrorIs(t, ValidateHorizon(10), domain.ErrInvalidParameter)
	assert.ErrorIs(t, ValidateHorizon(0), domain.ErrInvalidParameter)
}

func TestForecastFlatBaseline(t *testing.T) {
	f := NewForecaster(NewCalendar(nil))

	series, err := f.Forecast(ForecastInput{
		Product:     testProduct(),
		Profile:     domain.DemandProfile{AvgDailyDemand: 10},
		DailySeries: flatSeries(28, 10),
		Market:      "Germany",
		StartDate:   day(0),
		HorizonDays: 7,
		SafetyStock: 20,
	})
	require.NoError(t, err)

	require.Len(t, series.DailyForecast, 7)
	for _, v := range series.DailyForecast {
		assert.InDelta(t, 10.0, v, 1e-9)
	}
	assert.InDelta(t, 70.0, series.TotalForecast, 1e-9)
	assert.InDelta(t, 70.0*25, series.RevenueForecast, 1e-9)
	// 70 + 20 - 40 = 50
	assert.Equal(t, 50, series.RecommendedOrder)
}

func TestForecastRecommendedOrderClippedAtZero(t *testing.T) {
	f := NewForecaster(NewCalendar(nil))

	product := testProduct()
	product.CurrentStock = 1000

	series, err := f.Forecast(ForecastInput{
		Product:     product,
		Profile:     domain.DemandProfile{AvgDailyDemand: 10},
		DailySeries: flatSeries(28, 10),
		StartDate:   day(0),
		HorizonDays: 7,
		SafetyStock: 20,
	})
	require.NoError(t, err)
	assert.Zero(t, series.RecommendedOrder)
}

func TestForecastAppliesEventMultiplier(t *testing.T) {
	events := []domain.CalendarEvent{{
		Name:             "Black Friday",
		Date:             day(2),
		Market:           "Germany",
		ImpactLevel:      "high",
		DemandMultiplier: 3,
	}}
	f := NewForecaster(NewCalendar(events))

	series, err := f.Forecast(ForecastInput{
		Product:     testProduct(),
		Profile:     domain.DemandProfile{AvgDailyDemand: 10},
		DailySeries: flatSeries(28, 10),
		Market:      "Germany",
		StartDate:   day(0),
		HorizonDays: 7,
	})
	require.NoError(t, err)

	assert.InDelta(t, 10.0, series.DailyForecast[0], 1e-9)
	assert.InDelta(t, 30.0, series.DailyForecast[2], 1e-9)
	assert.InDelta(t, 10.0, series.DailyForecast[3], 1e-9)
}

func TestForecastEventCategoryRestriction(t *testing.T) {
	events := []domain.CalendarEvent{{
		Name:               "School Start",
		Date:               day(1),
		Market:             "Germany",
		DemandMultiplier:   2,
		AffectedCategories: []string{"Stationery"},
	}}
	f := NewForecaster(NewCalendar(events))

	series, err := f.Forecast(ForecastInput{
		Product:     testProduct(), // Electronics, not affected
		Profile:     domain.DemandProfile{AvgDailyDemand: 10},
		DailySeries: flatSeries(28, 10),
		Market:      "Germany",
		StartDate:   day(0),
		HorizonDays: 7,
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, series.DailyForecast[1], 1e-9)
}

func TestForecastEventOtherMarketIgnored(t *testing.T) {
	events := []domain.CalendarEvent{{
		Name:             "Singles Day",
		Date:             day(0),
		Market:           "China",
		DemandMultiplier: 5,
	}}
	f := NewForecaster(NewCalendar(events))

	series, err := f.Forecast(ForecastInput{
		Product:     testProduct(),
		Profile:     domain.DemandProfile{AvgDailyDemand: 10},
		DailySeries: flatSeries(28, 10),
		Market:      "Germany",
		StartDate:   day(0),
		HorizonDays: 7,
	})
	require.NoError(t, err)
	assert.InDelta(t, 10.0, series.DailyForecast[0], 1e-9)
}

func TestForecastNonFiniteUnitPriceSanitized(t *testing.T) {
	f := NewForecaster(NewCalendar(nil))

	product := testProduct()
	product.UnitPrice = math.Inf(1)

	series, err := f.Forecast(ForecastInput{
		Product:     product,
		Profile:     domain.DemandProfile{AvgDailyDemand: 10},
		DailySeries: flatSeries(28, 10),
		StartDate:   day(0),
		HorizonDays: 7,
	})
	require.NoError(t, err)

	assert.Zero(t, series.RevenueForecast)
	assert.InDelta(t, 70.0, series.TotalForecast, 1e-9)
	require.Len(t, series.Warnings, 1)
	assert.Equal(t, domain.WarnNonFiniteValue, series.Warnings[0].Code)

	product.UnitPrice = math.NaN()
	series, err = f.Forecast(ForecastInput{
		Product:     product,
		Profile:     domain.DemandProfile{AvgDailyDemand: 10},
		DailySeries: flatSeries(28, 10),
		StartDate:   day(0),
		HorizonDays: 7,
	})
	require.NoError(t, err)
	assert.False(t, math.IsNaN(series.RevenueForecast))
	assert.Zero(t, series.RevenueForecast)
}

func TestForecastNoHistoryYieldsZeroLowConfidence(t *testing.T) {
	f := NewForecaster(NewCalendar(nil))

	series, err := f.Forecast(ForecastInput{
		Product:     testProduct(),
		Profile:     domain.DemandProfile{AvgDailyDemand: 0, LowConfidence: true},
		DailySeries: flatSeries(28, 0),
		StartDate:   day(0),
		HorizonDays: 14,
	})
	require.NoError(t, err)

	assert.True(t, series.LowConfidence)
	assert.Zero(t, series.TotalForecast)
	for _, v := range series.DailyForecast {
		assert.Zero(t, v)
	}
}

func TestForecastIdempotent(t *testing.T) {
	events := []domain.CalendarEvent{{
		Name:             "Easter",
		Date:             day(5),
		Market:           "Germany",
		DemandMultiplier: 1.5,
	}}

	in := ForecastInput{
		Product:     testProduct(),
		Profile:     domain.DemandProfile{AvgDailyDemand: 12.5, DemandStd: 3},
		DailySeries: []float64{10, 12, 9, 14, 15, 20, 8, 10, 12, 9, 14, 15, 20, 8, 10, 12, 9, 14, 15, 20, 8, 10, 12, 9, 14, 15, 20, 8},
		Market:      "Germany",
		StartDate:   day(0),
		HorizonDays: 30,
		SafetyStock: 15,
	}

	f := NewForecaster(NewCalendar(events))
	first, err := f.Forecast(in)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := NewForecaster(NewCalendar(events)).Forecast(in)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestWeekdayFactorsLearnedFromHistory(t *testing.T) {
	// Four full weeks where one weekday always sells double.
	start := day(28)
	series := make([]float64, 28)
	firstDay := truncateDay(start).AddDate(0, 0, -28)
	for i := range series {
		if firstDay.AddDate(0, 0, i).Weekday() == time.Saturday {
			series[i] = 20
		} else {
			series[i] = 10
		}
	}

	factors := weekdayFactors(series, start)
	overall := (20.0 + 6*10.0) / 7.0
	assert.InDelta(t, 20.0/overall, factors[int(time.Saturday)], 1e-9)
	assert.InDelta(t, 10.0/overall, factors[int(time.Monday)], 1e-9)
}

func TestWeekdayFactorsDefaultWithShortHistory(t *testing.T) {
	factors := weekdayFactors(flatSeries(7, 10), day(7))
	for _, f := range factors {
		assert.Equal(t, 1.0, f)
	}
}
