package service

import (
	"context"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/config"
	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/andresuchdata/stockpilot/backend-go/internal/engine"
	"github.com/andresuchdata/stockpilot/backend-go/internal/repository"
)

// ForecastService assembles the snapshots a forecast batch needs: sales
// history, catalog and the calendar events covering the horizon.
type ForecastService struct {
	stores   repository.StoreProvider
	catalog  repository.CatalogProvider
	sales    repository.SalesHistoryProvider
	calendar repository.EventCalendarProvider
	engine   *engine.Engine
	cfg      config.EngineConfig
}

func NewForecastService(
	stores repository.StoreProvider,
	catalog repository.CatalogProvider,
	sales repository.SalesHistoryProvider,
	calendar repository.EventCalendarProvider,
	eng *engine.Engine,
	cfg config.EngineConfig,
) *ForecastService {
	return &ForecastService{
		stores:   stores,
		catalog:  catalog,
		sales:    sales,
		calendar: calendar,
		engine:   eng,
		cfg:      cfg,
	}
}

// ForecastRequest is the caller-facing shape of one forecast run. Lead time
// and service level feed the safety stock behind the recommended quantities;
// zero values fall back to the engine defaults.
type ForecastRequest struct {
	StoreID      int64   `json:"store_id" binding:"required"`
	HorizonDays  int     `json:"horizon_days" binding:"required"`
	LeadTimeDays int     `json:"lead_time_days"`
	ServiceLevel float64 `json:"service_level"`
}

// ForecastStore projects demand for the whole catalog of a store.
func (s *ForecastService) ForecastStore(ctx context.Context, req ForecastRequest) (*domain.ForecastResponse, error) {
	store, err := s.stores.GetStore(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	windowEnd := todayUTC()
	sales, err := s.sales.GetSales(ctx, req.StoreID, windowEnd.AddDate(0, 0, -(s.cfg.LookbackDays-1)), windowEnd)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetProducts(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	// The horizon starts the day after the window ends.
	events, err := s.calendar.GetEvents(ctx, store.Market,
		windowEnd.AddDate(0, 0, 1),
		windowEnd.AddDate(0, 0, req.HorizonDays))
	if err != nil {
		return nil, err
	}

	computeCtx, cancel := s.computeContext(ctx)
	defer cancel()

	return s.engine.ComputeForecast(computeCtx, engine.ForecastRequest{
		Store:        *store,
		HorizonDays:  req.HorizonDays,
		Sales:        sales,
		Catalog:      catalog,
		Events:       events,
		Market:       store.Market,
		WindowEnd:    windowEnd,
		LeadTimeDays: req.LeadTimeDays,
		ServiceLevel: req.ServiceLevel,
	})
}

// Events returns the calendar events of a market within a date range, for the
// calendar inspection endpoint.
func (s *ForecastService) Events(ctx context.Context, market string, from, to time.Time) ([]domain.CalendarEvent, error) {
	return s.calendar.GetEvents(ctx, market, from, to)
}

func (s *ForecastService) computeContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.cfg.RequestTimeoutMS <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, time.Duration(s.cfg.RequestTimeoutMS)*time.Millisecond)
}
