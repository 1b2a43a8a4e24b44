package postgres

import (
	"context"
	"fmt"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type catalogRepository struct {
	db *DB
}

func NewCatalogRepository(db *DB) *catalogRepository {
	return &catalogRepository{db: db}
}

// GetProducts returns the catalog of a store with the latest known stock
// level joined in. Products without an inventory snapshot report zero stock.
func (r *catalogRepository) GetProducts(ctx context.Context, storeID int64) ([]domain.Product, error) {
	query := `
		SELECT
			p.id,
			p.store_id,
			p.name,
			p.category,
			p.unit_price,
			COALESCE(i.current_stock, 0) AS current_stock
		FROM products p
		LEFT JOIN LATERAL (
			SELECT current_stock
			FROM inventory_snapshots
			WHERE product_id = p.id AND store_id = p.store_id
			ORDER BY snapshot_at DESC
			LIMIT 1
		) i ON true
		WHERE p.store_id = $1
		ORDER BY p.id
	`

	var products []domain.Product
	if err := sqlx.SelectContext(ctx, r.db, &products, query, storeID); err != nil {
		return nil, fmt.Errorf("failed to get products: %w", err)
	}

	return products, nil
}
