package engine

import (
	"math"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

// Supported forecast horizons in days.
var supportedHorizons = map[int]bool{7: true, 14: true, 30: true}

// ValidateHorizon rejects horizons outside the supported set.
func ValidateHorizon(days int) error {
	if !supportedHorizons[days] {
		return domain.InvalidParameterf("horizon_days %d not supported (must be 7, 14 or 30)", days)
	}
	return nil
}

// Forecaster projects per-product daily demand over a horizon. The forecast
// is a pure function of (demand profile, daily series, calendar snapshot,
// horizon): identical inputs always yield identical outputs.
type Forecaster struct {
	calendar *Calendar
}

func NewForecaster(calendar *Calendar) *Forecaster {
	return &Forecaster{calendar: calendar}
}

// ForecastInput bundles everything the forecaster needs for one product.
type ForecastInput struct {
	Product     domain.Product
	Profile     domain.DemandProfile
	DailySeries []float64 // window series ending the day before StartDate
	Market      string
	StartDate   time.Time // first forecast day
	HorizonDays int
	SafetyStock int
}

// minSeasonalityWindow is the shortest series from which day-of-week factors
// are learned. Below it every factor stays at 1.0.
const minSeasonalityWindow = 28

// weekdayFactors derives multiplicative day-of-week factors from the demand
// series. The series is indexed so that its last entry falls on the day
// before start.
func weekdayFactors(series []float64, start time.Time) [7]float64 {
	factors := [7]float64{1, 1, 1, 1, 1, 1, 1}
	if len(series) < minSeasonalityWindow {
		return factors
	}

	var total float64
	for _, v := range series {
		total += v
	}
	overall := total / float64(len(series))
	if overall <= 0 {
		return factors
	}

	var sums [7]float64
	var counts [7]int
	firstDay := truncateDay(start).AddDate(0, 0, -len(series))
	for i, v := range series {
		wd := int(firstDay.AddDate(0, 0, i).Weekday())
		sums[wd] += v
		counts[wd]++
	}

	for wd := 0; wd < 7; wd++ {
		if counts[wd] == 0 {
			continue
		}
		f := (sums[wd] / float64(counts[wd])) / overall
		if v, ok := sanitizeFloat(f); ok && v > 0 {
			factors[wd] = v
		}
	}

	return factors
}

// Forecast produces the per-day projection for one product.
func (f *Forecaster) Forecast(in ForecastInput) (domain.ForecastSeries, error) {
	if err := ValidateHorizon(in.HorizonDays); err != nil {
		return domain.ForecastSeries{}, err
	}

	factors := weekdayFactors(in.DailySeries, in.StartDate)
	start := truncateDay(in.StartDate)

	series := domain.ForecastSeries{
		ProductID:     in.Product.ID,
		ProductName:   in.Product.Name,
		Category:      in.Product.Category,
		HorizonDays:   in.HorizonDays,
		Dates:         make([]string, 0, in.HorizonDays),
		DailyForecast: make([]float64, 0, in.HorizonDays),
		CurrentStock:  in.Product.CurrentStock,
		LowConfidence: in.Profile.LowConfidence,
	}

	var warnings []domain.Warning
	var total, revenue float64
	sanitized := false
	for i := 0; i < in.HorizonDays; i++ {
		day := start.AddDate(0, 0, i)
		daily := in.Profile.AvgDailyDemand *
			factors[int(day.Weekday())] *
			f.calendar.Multiplier(day, in.Market, in.Product.Category)
		if v, ok := sanitizeFloat(daily); ok {
			daily = v
		} else {
			daily = 0
			sanitized = true
		}
		if daily < 0 {
			daily = 0
		}

		series.Dates = append(series.Dates, day.Format("2006-01-02"))
		series.DailyForecast = append(series.DailyForecast, daily)
		total += daily
		if v, ok := sanitizeFloat(daily * in.Product.UnitPrice); ok {
			revenue += v
		} else {
			sanitized = true
		}
	}
	if sanitized {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnNonFiniteValue,
			Message: "forecast produced a non-finite value, substituted 0",
		})
	}

	series.TotalForecast = total
	series.RevenueForecast = revenue
	series.RecommendedOrder = recommendedOrder(total, in.SafetyStock, in.Product.CurrentStock)
	series.Warnings = warnings

	return series, nil
}

// recommendedOrder is total forecast plus safety buffer minus what is already
// on the shelf, floored at zero.
func recommendedOrder(totalForecast float64, safetyStock, currentStock int) int {
	qty := totalForecast + float64(safetyStock) - float64(currentStock)
	if qty <= 0 {
		return 0
	}
	return int(math.Ceil(qty))
}
