package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) *storeRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetStore(ctx context.Context, id int64) (*domain.Store, error) {
	query := `
		SELECT id, name, market, created_at, updated_at
		FROM stores
		WHERE id = $1
	`

	var store domain.Store
	err := sqlx.GetContext(ctx, r.db, &store, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("store %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store: %w", err)
	}

	return &store, nil
}

func (r *storeRepository) GetStores(ctx context.Context) ([]*domain.Store, error) {
	query := `
		SELECT id, name, market, created_at, updated_at
		FROM stores
		ORDER BY name
	`

	var stores []*domain.Store
	if err := sqlx.SelectContext(ctx, r.db, &stores, query); err != nil {
		return nil, fmt.Errorf("failed to list stores: %w", err)
	}

	return stores, nil
}
