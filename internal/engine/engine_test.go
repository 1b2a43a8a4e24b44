package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchSales(productID string, days int, qtyPerDay float64) []domain.SaleRecord {
	sales := make([]domain.SaleRecord, 0, days)
	for i := 0; i < days; i++ {
		sales = append(sales, sale(productID, i, qtyPerDay))
	}
	return sales
}

func batchRequest() OptimizationRequest {
	return OptimizationRequest{
		Store:        domain.Store{ID: 1, Name: "Berlin Mitte", Market: "Germany"},
		LeadTimeDays: 7,
		ServiceLevel: 0.95,
		Catalog: []domain.Product{
			{ID: "p1", StoreID: 1, Name: "Widget", Category: "Electronics", UnitPrice: 25, CurrentStock: 10},
			{ID: "p2", StoreID: 1, Name: "Gizmo", Category: "Electronics", UnitPrice: 5, CurrentStock: 200},
			{ID: "p3", StoreID: 1, Name: "Notepad", Category: "Stationery", UnitPrice: 2, CurrentStock: 30},
		},
		Sales: append(append(
			batchSales("p1", 30, 10),
			batchSales("p2", 30, 4)...),
			batchSales("p3", 30, 1)...),
		WindowEnd: day(29),
	}
}

func TestComputeOptimizationBatch(t *testing.T) {
	e := New(Config{LookbackDays: 30, NetReturns: true})

	resp, err := e.ComputeOptimization(context.Background(), batchRequest())
	require.NoError(t, err)

	assert.False(t, resp.Incomplete)
	assert.Empty(t, resp.Errors)
	assert.Equal(t, 3, resp.TotalProducts)
	require.Len(t, resp.Results, 3)

	// Sorted by annual revenue descending.
	assert.Equal(t, "p1", resp.Results[0].ProductID)
	assert.Equal(t, "p2", resp.Results[1].ProductID)
	assert.Equal(t, "p3", resp.Results[2].ProductID)

	// Flat demand: 10*365*25, 4*365*5, 1*365*2.
	assert.InDelta(t, 91250, resp.Results[0].AnnualRevenue, 1e-6)
	assert.InDelta(t, 7300, resp.Results[1].AnnualRevenue, 1e-6)
	assert.InDelta(t, 730, resp.Results[2].AnnualRevenue, 1e-6)
	assert.InDelta(t, 99280, resp.TotalAnnualRevenue, 1e-6)

	// 91250/99280 = 91.9%: p1 alone exceeds the A band, p2 lands in B, p3 in C.
	assert.Equal(t, domain.TierA, resp.Results[0].ABCTier)
	assert.Equal(t, map[string]int{"A": 1, "B": 1, "C": 1}, resp.ABCSummary)

	// Flat demand has zero deviation, so safety stock is 0 and ROP = 10*7.
	p1 := resp.Results[0]
	assert.Equal(t, 0, p1.Policy.SafetyStock)
	assert.Equal(t, 70, p1.Policy.ReorderPoint)
	assert.Equal(t, domain.StatusCritical, p1.Status) // 10 < 0.25*70
	assert.InDelta(t, 1.0, p1.StockDays, 1e-9)

	p2 := resp.Results[1]
	assert.Equal(t, domain.StatusHealthy, p2.Status) // 200 >= 28
}

func TestComputeOptimizationRejectsBadParams(t *testing.T) {
	e := New(Config{})

	req := batchRequest()
	req.LeadTimeDays = 2
	_, err := e.ComputeOptimization(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)

	req = batchRequest()
	req.ServiceLevel = 1.5
	_, err = e.ComputeOptimization(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestComputeOptimizationEmptyCatalog(t *testing.T) {
	e := New(Config{})

	req := batchRequest()
	req.Catalog = nil
	req.Sales = nil

	resp, err := e.ComputeOptimization(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, resp.TotalProducts)
	assert.Empty(t, resp.Results)
	assert.False(t, resp.Incomplete)
}

func TestComputeOptimizationNoSalesProduct(t *testing.T) {
	e := New(Config{LookbackDays: 30})

	req := batchRequest()
	req.Sales = nil

	resp, err := e.ComputeOptimization(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Results, 3)

	for _, r := range resp.Results {
		assert.Zero(t, r.AvgDailyDemand)
		assert.Zero(t, r.Policy.ReorderPoint)
		assert.Equal(t, domain.StatusHealthy, r.Status)
		assert.True(t, r.LowConfidence)
	}
}

func TestComputeOptimizationDeadlinePartialResults(t *testing.T) {
	e := New(Config{LookbackDays: 30, WorkerCount: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := e.ComputeOptimization(ctx, batchRequest())
	require.NoError(t, err)

	assert.True(t, resp.Incomplete)
	assert.Len(t, resp.Errors, 3)
	assert.Empty(t, resp.Results)
	for _, ie := range resp.Errors {
		assert.Equal(t, "not computed before request deadline", ie.Message)
	}
}

func TestComputeOptimizationDeterministic(t *testing.T) {
	e := New(Config{LookbackDays: 30, WorkerCount: 4})

	first, err := e.ComputeOptimization(context.Background(), batchRequest())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := e.ComputeOptimization(context.Background(), batchRequest())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestComputeOptimizationLargeCatalog(t *testing.T) {
	e := New(Config{LookbackDays: 30, WorkerCount: 8})

	req := batchRequest()
	req.Catalog = nil
	req.Sales = nil
	for i := 0; i < 200; i++ {
		id := fmt.Sprintf("p%03d", i)
		req.Catalog = append(req.Catalog, domain.Product{
			ID: id, StoreID: 1, Name: id, Category: "Bulk", UnitPrice: 1 + float64(i%10), CurrentStock: i,
		})
		req.Sales = append(req.Sales, batchSales(id, 30, float64(1+i%7))...)
	}

	resp, err := e.ComputeOptimization(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.TotalProducts)
	assert.False(t, resp.Incomplete)

	tiers := resp.ABCSummary
	assert.Equal(t, 200, tiers["A"]+tiers["B"]+tiers["C"])
}

func TestComputeForecastBatch(t *testing.T) {
	e := New(Config{LookbackDays: 30})

	req := ForecastRequest{
		Store:       domain.Store{ID: 1, Name: "Berlin Mitte", Market: "Germany"},
		HorizonDays: 7,
		Catalog: []domain.Product{
			{ID: "p1", StoreID: 1, Name: "Widget", Category: "Electronics", UnitPrice: 25, CurrentStock: 10},
			{ID: "p2", StoreID: 1, Name: "Gizmo", Category: "Electronics", UnitPrice: 5, CurrentStock: 500},
		},
		Sales:     append(batchSales("p1", 30, 10), batchSales("p2", 30, 4)...),
		Market:    "Germany",
		WindowEnd: day(29),
	}

	resp, err := e.ComputeForecast(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.Incomplete)
	require.Len(t, resp.Products, 2)

	// Ordered by recommended quantity descending.
	p1 := resp.Products[0]
	assert.Equal(t, "p1", p1.ProductID)
	require.Len(t, p1.DailyForecast, 7)
	assert.InDelta(t, 70, p1.TotalForecast, 1e-9)
	// 70 forecast + 0 safety - 10 on hand.
	assert.Equal(t, 60, p1.RecommendedOrder)
	// First forecast day is the day after the window ends.
	assert.Equal(t, day(30).Format("2006-01-02"), p1.Dates[0])

	p2 := resp.Products[1]
	assert.Equal(t, "p2", p2.ProductID)
	assert.Zero(t, p2.RecommendedOrder)

	assert.InDelta(t, 70*25+28*5, resp.TotalRevenueForecast, 1e-9)
}

func TestComputeForecastRejectsBadHorizon(t *testing.T) {
	e := New(Config{})

	_, err := e.ComputeForecast(context.Background(), ForecastRequest{HorizonDays: 10})
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}

func TestComputeForecastAppliesEvents(t *testing.T) {
	e := New(Config{LookbackDays: 30})

	req := ForecastRequest{
		Store:       domain.Store{ID: 1, Market: "Germany"},
		HorizonDays: 7,
		Catalog: []domain.Product{
			{ID: "p1", StoreID: 1, Name: "Widget", Category: "Electronics", UnitPrice: 25},
		},
		Sales: batchSales("p1", 30, 10),
		Events: []domain.CalendarEvent{{
			Name:             "Black Friday",
			Date:             day(32),
			Market:           "Germany",
			DemandMultiplier: 2,
		}},
		Market:    "Germany",
		WindowEnd: day(29),
	}

	resp, err := e.ComputeForecast(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, resp.Products, 1)

	daily := resp.Products[0].DailyForecast
	// Horizon starts at day 30; day 32 doubles.
	assert.InDelta(t, 10, daily[0], 1e-9)
	assert.InDelta(t, 20, daily[2], 1e-9)
	assert.InDelta(t, 80, resp.Products[0].TotalForecast, 1e-9)
}

func TestComputeForecastDeterministic(t *testing.T) {
	e := New(Config{LookbackDays: 30, WorkerCount: 4})

	req := ForecastRequest{
		Store:       domain.Store{ID: 1, Market: "Germany"},
		HorizonDays: 14,
		Catalog: []domain.Product{
			{ID: "p1", StoreID: 1, Name: "Widget", Category: "Electronics", UnitPrice: 25, CurrentStock: 3},
			{ID: "p2", StoreID: 1, Name: "Gizmo", Category: "Electronics", UnitPrice: 5, CurrentStock: 7},
		},
		Sales:     append(batchSales("p1", 30, 10), batchSales("p2", 30, 4)...),
		Market:    "Germany",
		WindowEnd: day(29),
	}

	first, err := e.ComputeForecast(context.Background(), req)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := e.ComputeForecast(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestGroupSales(t *testing.T) {
	sales := []domain.SaleRecord{
		sale("a", 0, 1),
		sale("b", 0, 2),
		sale("a", 1, 3),
	}

	grouped := groupSales(sales)
	assert.Len(t, grouped["a"], 2)
	assert.Len(t, grouped["b"], 1)
	assert.Empty(t, grouped["c"])
}
