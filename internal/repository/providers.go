package repository

import (
	"context"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
)

// StoreProvider resolves stores by id.
type StoreProvider interface {
	GetStore(ctx context.Context, id int64) (*domain.Store, error)
	GetStores(ctx context.Context) ([]*domain.Store, error)
}

// CatalogProvider serves the product catalog of a store.
type CatalogProvider interface {
	GetProducts(ctx context.Context, storeID int64) ([]domain.Product, error)
}

// SalesHistoryProvider serves raw sale records for a store within a window.
type SalesHistoryProvider interface {
	GetSales(ctx context.Context, storeID int64, from, to time.Time) ([]domain.SaleRecord, error)
}

// SupplierDirectory resolves suppliers and their lead times.
type SupplierDirectory interface {
	GetSupplier(ctx context.Context, id string) (*domain.Supplier, error)
	GetSuppliers(ctx context.Context) ([]*domain.Supplier, error)
}

// EventCalendarProvider serves demand-affecting calendar events.
type EventCalendarProvider interface {
	GetEvents(ctx context.Context, market string, from, to time.Time) ([]domain.CalendarEvent, error)
}

// PurchaseOrderStore persists generated purchase-order drafts.
type PurchaseOrderStore interface {
	NextSequence(ctx context.Context, orderDate time.Time) (int, error)
	SaveDraft(ctx context.Context, draft *domain.PurchaseOrderDraft) error
	GetDraftsByStore(ctx context.Context, storeID int64) ([]*domain.PurchaseOrderDraft, error)
}
