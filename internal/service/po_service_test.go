package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/andresuchdata/stockpilot/backend-go/internal/engine"
)

type fakeStoreProvider struct {
	store domain.Store
}

func (f *fakeStoreProvider) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	if id != f.store.ID {
		return nil, domain.NotFoundf("store %d not found", id)
	}
	s := f.store
	return &s, nil
}

func (f *fakeStoreProvider) GetStores(ctx context.Context) ([]*domain.Store, error) {
	s := f.store
	return []*domain.Store{&s}, nil
}

type fakeCatalogProvider struct {
	products []domain.Product
}

func (f *fakeCatalogProvider) GetProducts(ctx context.Context, storeID int64) ([]domain.Product, error) {
	return f.products, nil
}

type fakeSupplierDirectory struct {
	supplier domain.Supplier
}

func (f *fakeSupplierDirectory) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	if id != f.supplier.ID {
		return nil, domain.NotFoundf("supplier %s not found", id)
	}
	s := f.supplier
	return &s, nil
}

func (f *fakeSupplierDirectory) GetSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	s := f.supplier
	return []*domain.Supplier{&s}, nil
}

// fakeOrderStore mirrors the atomic per-day counter the database enforces.
type fakeOrderStore struct {
	mu     sync.Mutex
	seqs   map[string]int
	drafts []*domain.PurchaseOrderDraft
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{seqs: make(map[string]int)}
}

func (f *fakeOrderStore) NextSequence(ctx context.Context, orderDate time.Time) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := orderDate.Format("2006-01-02")
	f.seqs[key]++
	return f.seqs[key], nil
}

func (f *fakeOrderStore) SaveDraft(ctx context.Context, draft *domain.PurchaseOrderDraft) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.drafts {
		if d.PONumber == draft.PONumber {
			return fmt.Errorf("duplicate PO number %s", draft.PONumber)
		}
	}
	f.drafts = append(f.drafts, draft)
	return nil
}

func (f *fakeOrderStore) GetDraftsByStore(ctx context.Context, storeID int64) ([]*domain.PurchaseOrderDraft, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.PurchaseOrderDraft
	for _, d := range f.drafts {
		if d.StoreID == storeID {
			out = append(out, d)
		}
	}
	return out, nil
}

func newTestPOService(orders *fakeOrderStore) *POService {
	generator := engine.NewPOGenerator(engine.POConfig{
		VATRate:          0.19,
		FreeShippingFrom: 500,
		ShippingLarge:    25,
		ShippingMedium:   15,
		ShippingSmall:    10,
	})
	return NewPOService(
		&fakeStoreProvider{store: domain.Store{ID: 1, Name: "Berlin Mitte", Market: "Germany"}},
		&fakeCatalogProvider{products: []domain.Product{
			{ID: "p1", StoreID: 1, Name: "Widget", Category: "Electronics", UnitPrice: 9.99, CurrentStock: 5},
		}},
		&fakeSupplierDirectory{supplier: domain.Supplier{ID: "sup-1", Name: "Acme GmbH", LeadTimeDays: 7}},
		orders,
		generator,
		nil,
		nil,
		nil,
	)
}

func TestCreateDraftConcurrentNumbersUnique(t *testing.T) {
	orders := newFakeOrderStore()
	svc := newTestPOService(orders)

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateDraft(context.Background(), CreateDraftRequest{
				StoreID:    1,
				SupplierID: "sup-1",
				Source:     SourceExplicit,
				Items:      []CreateDraftItem{{ProductID: "p1", Quantity: 3}},
			})
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "draft %d", i)
	}

	drafts, err := orders.GetDraftsByStore(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, drafts, n)

	seen := make(map[string]bool, n)
	for _, d := range drafts {
		assert.False(t, seen[d.PONumber], "PO number %s assigned twice", d.PONumber)
		seen[d.PONumber] = true
	}
}

func TestCreateDraftUnknownSupplier(t *testing.T) {
	svc := newTestPOService(newFakeOrderStore())

	_, err := svc.CreateDraft(context.Background(), CreateDraftRequest{
		StoreID:    1,
		SupplierID: "missing",
		Items:      []CreateDraftItem{{ProductID: "p1", Quantity: 3}},
	})
	assert.ErrorIs(t, err, domain.ErrEntityNotFound)
}
