package engine

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

// Config holds the engine tunables. Zero values fall back to sane defaults in
// New.
type Config struct {
	LookbackDays int
	OrderingCost float64
	HoldingRate  float64
	NetReturns   bool
	ABCBoundary  BoundaryMode
	WorkerCount  int
}

// Engine is the stateless optimization and forecasting core. Every request is
// a pure batch computation over the snapshots the caller passes in; the
// engine performs no I/O and keeps no mutable state between requests.
type Engine struct {
	cfg        Config
	aggregator *DemandAggregator
	policy     *PolicyCalculator
	classifier *ABCClassifier
}

func New(cfg Config) *Engine {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = 90
	}
	if cfg.OrderingCost <= 0 {
		cfg.OrderingCost = 50
	}
	if cfg.HoldingRate <= 0 {
		cfg.HoldingRate = 0.25
	}
	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 8
	}

	return &Engine{
		cfg:        cfg,
		aggregator: NewDemandAggregator(cfg.NetReturns),
		policy:     NewPolicyCalculator(cfg.OrderingCost, cfg.HoldingRate),
		classifier: NewABCClassifier(cfg.ABCBoundary),
	}
}

// OptimizationRequest is one store-level optimization batch. Sales, catalog
// and window end are immutable snapshots fetched by the caller.
type OptimizationRequest struct {
	Store        domain.Store
	LeadTimeDays int
	ServiceLevel float64
	Sales        []domain.SaleRecord
	Catalog      []domain.Product
	WindowEnd    time.Time
}

// ForecastRequest is one store-level forecast batch.
type ForecastRequest struct {
	Store        domain.Store
	HorizonDays  int
	Sales        []domain.SaleRecord
	Catalog      []domain.Product
	Events       []domain.CalendarEvent
	Market       string
	WindowEnd    time.Time
	LeadTimeDays int     // safety stock input, defaults to 7
	ServiceLevel float64 // safety stock input, defaults to 0.95
}

// ComputeOptimization runs demand statistics, reorder policy, status and ABC
// classification over the whole catalog. Per-product work fans out across the
// worker pool; classification is the single sequential step at the end.
// Parameter errors reject the request up front, per-product failures are
// isolated into the response's error list, and a context deadline yields
// partial results flagged incomplete.
func (e *Engine) ComputeOptimization(ctx context.Context, req OptimizationRequest) (*domain.OptimizationResponse, error) {
	if err := ValidateLeadTime(req.LeadTimeDays); err != nil {
		return nil, err
	}
	if _, err := ResolveZScore(req.ServiceLevel); err != nil {
		return nil, err
	}

	salesByProduct := groupSales(req.Sales)

	// Flat index-addressed results keep the fan-out coordination-free and the
	// sequential ABC reduction a simple slice walk.
	results := make([]*domain.OptimizationResult, len(req.Catalog))
	e.forEachProduct(ctx, len(req.Catalog), func(i int) {
		results[i] = e.optimizeProduct(req, req.Catalog[i], salesByProduct[req.Catalog[i].ID])
	})

	resp := &domain.OptimizationResponse{
		StoreID: req.Store.ID,
	}

	computed := make([]domain.OptimizationResult, 0, len(results))
	for i, r := range results {
		if r == nil {
			resp.Incomplete = true
			resp.Errors = append(resp.Errors, domain.ItemError{
				ProductID: req.Catalog[i].ID,
				Message:   "not computed before request deadline",
			})
			continue
		}
		computed = append(computed, *r)
	}

	entries := make([]RevenueEntry, len(computed))
	var totalRevenue float64
	for i, r := range computed {
		entries[i] = RevenueEntry{ProductID: r.ProductID, Revenue: r.AnnualRevenue}
		totalRevenue += r.AnnualRevenue
	}
	tiers, warnings := e.classifier.Classify(entries)
	for i := range computed {
		computed[i].ABCTier = tiers[computed[i].ProductID]
	}

	sort.SliceStable(computed, func(i, j int) bool {
		if computed[i].AnnualRevenue != computed[j].AnnualRevenue {
			return computed[i].AnnualRevenue > computed[j].AnnualRevenue
		}
		return computed[i].ProductID < computed[j].ProductID
	})

	resp.Results = computed
	resp.TotalProducts = len(computed)
	resp.ABCSummary = Summary(tiers)
	resp.TotalAnnualRevenue = totalRevenue
	resp.Warnings = warnings

	return resp, nil
}

func (e *Engine) optimizeProduct(req OptimizationRequest, product domain.Product, sales []domain.SaleRecord) *domain.OptimizationResult {
	profile, profileErr := e.aggregator.Profile(product.ID, req.Store.ID, sales, req.WindowEnd, e.cfg.LookbackDays)
	if profileErr != nil && !errors.Is(profileErr, domain.ErrInsufficientData) {
		return &domain.OptimizationResult{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Category:      product.Category,
			CurrentStock:  product.CurrentStock,
			LowConfidence: true,
			Warnings: []domain.Warning{{
				Code:    domain.WarnNonFiniteValue,
				Message: profileErr.Error(),
			}},
		}
	}

	policy, warnings, err := e.policy.Compute(profile, product.UnitPrice, req.LeadTimeDays, req.ServiceLevel)
	if err != nil {
		// Parameters were validated request-wide; a failure here means the
		// profile itself is malformed. Isolate it.
		return &domain.OptimizationResult{
			ProductID:     product.ID,
			ProductName:   product.Name,
			Category:      product.Category,
			CurrentStock:  product.CurrentStock,
			LowConfidence: true,
			Warnings: []domain.Warning{{
				Code:    domain.WarnNonFiniteValue,
				Message: err.Error(),
			}},
		}
	}

	annualRevenue := profile.AvgDailyDemand * daysPerYear * product.UnitPrice
	if v, ok := sanitizeFloat(annualRevenue); ok {
		annualRevenue = v
	} else {
		annualRevenue = 0
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnNonFiniteValue,
			Message: "annual revenue produced a non-finite value, substituted 0",
		})
	}

	stockDays := 0.0
	if profile.AvgDailyDemand > 0 {
		stockDays = float64(product.CurrentStock) / profile.AvgDailyDemand
	}

	if errors.Is(profileErr, domain.ErrInsufficientData) {
		warnings = append(warnings, domain.Warning{
			Code:    domain.WarnLowConfidence,
			Message: profileErr.Error(),
		})
	}

	return &domain.OptimizationResult{
		ProductID:      product.ID,
		ProductName:    product.Name,
		Category:       product.Category,
		CurrentStock:   product.CurrentStock,
		AvgDailyDemand: profile.AvgDailyDemand,
		DemandStd:      profile.DemandStd,
		Policy:         policy,
		AnnualRevenue:  annualRevenue,
		StockDays:      stockDays,
		Status:         EvaluateStatus(product.CurrentStock, policy.ReorderPoint),
		LowConfidence:  profile.LowConfidence,
		Warnings:       warnings,
	}
}

// ComputeForecast projects demand for every catalog product over the horizon.
func (e *Engine) ComputeForecast(ctx context.Context, req ForecastRequest) (*domain.ForecastResponse, error) {
	if err := ValidateHorizon(req.HorizonDays); err != nil {
		return nil, err
	}
	leadTime := req.LeadTimeDays
	if leadTime == 0 {
		leadTime = 7
	}
	serviceLevel := req.ServiceLevel
	if serviceLevel == 0 {
		serviceLevel = 0.95
	}
	if err := ValidateLeadTime(leadTime); err != nil {
		return nil, err
	}
	if _, err := ResolveZScore(serviceLevel); err != nil {
		return nil, err
	}

	calendar := NewCalendar(req.Events)
	forecaster := NewForecaster(calendar)
	salesByProduct := groupSales(req.Sales)
	startDate := truncateDay(req.WindowEnd).AddDate(0, 0, 1)

	results := make([]*domain.ForecastSeries, len(req.Catalog))
	itemErrs := make([]error, len(req.Catalog))
	e.forEachProduct(ctx, len(req.Catalog), func(i int) {
		product := req.Catalog[i]
		sales := salesByProduct[product.ID]
		profile, profileErr := e.aggregator.Profile(product.ID, req.Store.ID, sales, req.WindowEnd, e.cfg.LookbackDays)
		if profileErr != nil && !errors.Is(profileErr, domain.ErrInsufficientData) {
			itemErrs[i] = profileErr
			return
		}

		policy, _, err := e.policy.Compute(profile, product.UnitPrice, leadTime, serviceLevel)
		if err != nil {
			itemErrs[i] = err
			return
		}

		series, err := forecaster.Forecast(ForecastInput{
			Product:     product,
			Profile:     profile,
			DailySeries: e.aggregator.DailySeries(sales, req.WindowEnd, e.cfg.LookbackDays),
			Market:      req.Market,
			StartDate:   startDate,
			HorizonDays: req.HorizonDays,
			SafetyStock: policy.SafetyStock,
		})
		if err != nil {
			itemErrs[i] = err
			return
		}
		results[i] = &series
	})

	resp := &domain.ForecastResponse{
		StoreID:     req.Store.ID,
		HorizonDays: req.HorizonDays,
	}

	var totalRevenue float64
	for i, r := range results {
		if r == nil {
			resp.Errors = append(resp.Errors, domain.ItemError{
				ProductID: req.Catalog[i].ID,
				Message:   itemErrMessage(itemErrs[i]),
			})
			if itemErrs[i] == nil {
				resp.Incomplete = true
			}
			continue
		}
		resp.Products = append(resp.Products, *r)
		totalRevenue += r.RevenueForecast
	}

	sort.SliceStable(resp.Products, func(i, j int) bool {
		if resp.Products[i].RecommendedOrder != resp.Products[j].RecommendedOrder {
			return resp.Products[i].RecommendedOrder > resp.Products[j].RecommendedOrder
		}
		return resp.Products[i].ProductID < resp.Products[j].ProductID
	})

	resp.TotalRevenueForecast = totalRevenue

	return resp, nil
}

func itemErrMessage(err error) string {
	if err == nil {
		return "not computed before request deadline"
	}
	return err.Error()
}

// forEachProduct fans fn out over a bounded worker pool. Workers stop picking
// up new items once the context is done; an item already started still
// finishes, since per-product work is cheap and effectively atomic.
func (e *Engine) forEachProduct(ctx context.Context, n int, fn func(i int)) {
	if n == 0 {
		return
	}
	workers := e.cfg.WorkerCount
	if workers > n {
		workers = n
	}

	jobs := make(chan int, n)
	for i := 0; i < n; i++ {
		jobs <- i
	}
	close(jobs)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				if ctx.Err() != nil {
					return
				}
				fn(i)
			}
		}()
	}
	wg.Wait()
}

func groupSales(sales []domain.SaleRecord) map[string][]domain.SaleRecord {
	grouped := make(map[string][]domain.SaleRecord)
	for _, s := range sales {
		grouped[s.ProductID] = append(grouped[s.ProductID], s)
	}
	return grouped
}
