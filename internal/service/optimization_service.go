package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockpilot/backend-go/internal/cache"
	"github.com/andresuchdata/stockpilot/backend-go/internal/config"
	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/andresuchdata/stockpilot/backend-go/internal/engine"
	"github.com/andresuchdata/stockpilot/backend-go/internal/repository"
)

// OptimizationService wires the optimization engine to the data providers. It
// fetches immutable snapshots, hands them to the engine and caches complete
// responses.
type OptimizationService struct {
	stores  repository.StoreProvider
	catalog repository.CatalogProvider
	sales   repository.SalesHistoryProvider
	engine  *engine.Engine
	cache   cache.OptimizationCache
	cfg     config.EngineConfig
}

func NewOptimizationService(
	stores repository.StoreProvider,
	catalog repository.CatalogProvider,
	sales repository.SalesHistoryProvider,
	eng *engine.Engine,
	cacheImpl cache.OptimizationCache,
	cfg config.EngineConfig,
) *OptimizationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopOptimizationCache()
	}
	return &OptimizationService{
		stores:  stores,
		catalog: catalog,
		sales:   sales,
		engine:  eng,
		cache:   cacheImpl,
		cfg:     cfg,
	}
}

// OptimizeStore runs the full optimization batch for one store.
func (s *OptimizationService) OptimizeStore(ctx context.Context, storeID int64, leadTimeDays int, serviceLevel float64) (*domain.OptimizationResponse, error) {
	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	key := cache.OptimizationKey{
		StoreID:      storeID,
		LeadTimeDays: leadTimeDays,
		ServiceLevel: serviceLevel,
	}
	if resp, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		return resp, nil
	} else if err != nil {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("optimization: cache get failed")
	}

	windowEnd := todayUTC()
	sales, err := s.sales.GetSales(ctx, storeID, windowEnd.AddDate(0, 0, -(s.cfg.LookbackDays-1)), windowEnd)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetProducts(ctx, storeID)
	if err != nil {
		return nil, err
	}

	computeCtx, cancel := s.computeContext(ctx)
	defer cancel()

	resp, err := s.engine.ComputeOptimization(computeCtx, engine.OptimizationRequest{
		Store:        *store,
		LeadTimeDays: leadTimeDays,
		ServiceLevel: serviceLevel,
		Sales:        sales,
		Catalog:      catalog,
		WindowEnd:    windowEnd,
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, resp); err != nil {
		log.Warn().Err(err).Int64("store_id", storeID).Msg("optimization: cache set failed")
	}

	return resp, nil
}

// computeContext bounds a batch computation by the configured request
// timeout. The engine turns an expired deadline into partial results.
func (s *OptimizationService) computeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeoutMS <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(s.cfg.RequestTimeoutMS)*time.Millisecond)
}

func todayUTC() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
