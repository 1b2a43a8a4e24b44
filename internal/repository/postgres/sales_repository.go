package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type salesRepository struct {
	db *DB
}

func NewSalesRepository(db *DB) *salesRepository {
	return &salesRepository{db: db}
}

// GetSales returns all sale records of a store between from and to inclusive.
// Negative quantities (returns, voided sales) are included; the engine decides
// whether to net them out.
func (r *salesRepository) GetSales(ctx context.Context, storeID int64, from, to time.Time) ([]domain.SaleRecord, error) {
	query := `
		SELECT product_id, store_id, date, quantity, unit_price
		FROM sales
		WHERE store_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date
	`

	var sales []domain.SaleRecord
	if err := sqlx.SelectContext(ctx, r.db, &sales, query, storeID, from, to); err != nil {
		return nil, fmt.Errorf("failed to get sales: %w", err)
	}

	return sales, nil
}
