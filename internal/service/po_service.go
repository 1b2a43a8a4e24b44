package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/andresuchdata/stockpilot/backend-go/internal/engine"
	"github.com/andresuchdata/stockpilot/backend-go/internal/repository"
	"github.com/andresuchdata/stockpilot/backend-go/internal/storage"
)

// Draft item source modes accepted by CreateDraft.
const (
	SourceExplicit        = "explicit"
	SourceRecommendations = "recommendations"
	SourceForecast        = "forecast"
)

// POService turns reorder signals into persisted purchase-order drafts.
type POService struct {
	stores       repository.StoreProvider
	catalog      repository.CatalogProvider
	suppliers    repository.SupplierDirectory
	orders       repository.PurchaseOrderStore
	generator    *engine.POGenerator
	optimization *OptimizationService
	forecast     *ForecastService
	objects      storage.ObjectStorage // nil disables export
}

func NewPOService(
	stores repository.StoreProvider,
	catalog repository.CatalogProvider,
	suppliers repository.SupplierDirectory,
	orders repository.PurchaseOrderStore,
	generator *engine.POGenerator,
	optimization *OptimizationService,
	forecast *ForecastService,
	objects storage.ObjectStorage,
) *POService {
	return &POService{
		stores:       stores,
		catalog:      catalog,
		suppliers:    suppliers,
		orders:       orders,
		generator:    generator,
		optimization: optimization,
		forecast:     forecast,
		objects:      objects,
	}
}

// CreateDraftRequest is the caller-facing shape of one draft generation.
// Items is required in explicit mode and ignored otherwise; the lead time,
// service level and horizon feed the auto modes.
type CreateDraftRequest struct {
	StoreID      int64             `json:"store_id" binding:"required"`
	SupplierID   string            `json:"supplier_id" binding:"required"`
	Source       string            `json:"source"`
	Items        []CreateDraftItem `json:"items"`
	LeadTimeDays int               `json:"lead_time_days"`
	ServiceLevel float64           `json:"service_level"`
	HorizonDays  int               `json:"horizon_days"`
	Notes        string            `json:"notes"`
}

type CreateDraftItem struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CreateDraft builds, persists and optionally exports one draft order.
func (s *POService) CreateDraft(ctx context.Context, req CreateDraftRequest) (*domain.PurchaseOrderDraft, error) {
	store, err := s.stores.GetStore(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}
	supplier, err := s.suppliers.GetSupplier(ctx, req.SupplierID)
	if err != nil {
		return nil, err
	}
	catalog, err := s.catalog.GetProducts(ctx, req.StoreID)
	if err != nil {
		return nil, err
	}

	source, err := s.resolveSource(ctx, req)
	if err != nil {
		return nil, err
	}

	orderDate := todayUTC()
	sequence, err := s.orders.NextSequence(ctx, orderDate)
	if err != nil {
		return nil, err
	}

	draft, err := s.generator.BuildDraft(*store, *supplier, catalog, source, orderDate, sequence)
	if err != nil {
		return nil, err
	}
	if req.Notes != "" {
		draft.Notes = req.Notes
		draft.FormattedText = engine.RenderDraft(draft)
	}

	if err := s.orders.SaveDraft(ctx, draft); err != nil {
		return nil, err
	}

	s.exportDraft(ctx, draft)

	return draft, nil
}

func (s *POService) resolveSource(ctx context.Context, req CreateDraftRequest) (engine.ItemSource, error) {
	switch req.Source {
	case SourceExplicit, "":
		if len(req.Items) == 0 {
			return nil, domain.InvalidParameterf("explicit draft requires at least one item")
		}
		items := make([]engine.ExplicitItem, len(req.Items))
		for i, it := range req.Items {
			items[i] = engine.ExplicitItem{ProductID: it.ProductID, Quantity: it.Quantity}
		}
		return engine.ExplicitItems{Items: items}, nil

	case SourceRecommendations:
		leadTime := req.LeadTimeDays
		if leadTime == 0 {
			leadTime = 7
		}
		serviceLevel := req.ServiceLevel
		if serviceLevel == 0 {
			serviceLevel = 0.95
		}
		resp, err := s.optimization.OptimizeStore(ctx, req.StoreID, leadTime, serviceLevel)
		if err != nil {
			return nil, err
		}
		return engine.FromRecommendations{Results: resp.Results}, nil

	case SourceForecast:
		horizon := req.HorizonDays
		if horizon == 0 {
			horizon = 14
		}
		resp, err := s.forecast.ForecastStore(ctx, ForecastRequest{
			StoreID:      req.StoreID,
			HorizonDays:  horizon,
			LeadTimeDays: req.LeadTimeDays,
			ServiceLevel: req.ServiceLevel,
		})
		if err != nil {
			return nil, err
		}
		return engine.FromForecast{Series: resp.Products}, nil

	default:
		return nil, domain.InvalidParameterf("unknown draft source %q", req.Source)
	}
}

// exportDraft uploads the rendered draft to object storage. Export failures
// are logged, not returned: the draft is already persisted.
func (s *POService) exportDraft(ctx context.Context, draft *domain.PurchaseOrderDraft) {
	if s.objects == nil {
		return
	}
	key := fmt.Sprintf("drafts/%s.txt", draft.PONumber)
	if err := s.objects.UploadObject(ctx, key, []byte(draft.FormattedText)); err != nil {
		log.Warn().Err(err).Str("po_number", draft.PONumber).Msg("purchase order: export failed")
	}
}

// GetDraftsByStore returns a store's saved drafts, newest first.
func (s *POService) GetDraftsByStore(ctx context.Context, storeID int64) ([]*domain.PurchaseOrderDraft, error) {
	if _, err := s.stores.GetStore(ctx, storeID); err != nil {
		return nil, err
	}
	return s.orders.GetDraftsByStore(ctx, storeID)
}

// GetSuppliers lists the supplier directory.
func (s *POService) GetSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	return s.suppliers.GetSuppliers(ctx)
}

// GetStores lists all stores.
func (s *POService) GetStores(ctx context.Context) ([]*domain.Store, error) {
	return s.stores.GetStores(ctx)
}
