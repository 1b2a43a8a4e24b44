package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) *supplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) GetSupplier(ctx context.Context, id string) (*domain.Supplier, error) {
	query := `
		SELECT id, name, address, contact, lead_time_days, payment_terms
		FROM suppliers
		WHERE id = $1
	`

	var supplier domain.Supplier
	err := sqlx.GetContext(ctx, r.db, &supplier, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.NotFoundf("supplier %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier: %w", err)
	}

	return &supplier, nil
}

func (r *supplierRepository) GetSuppliers(ctx context.Context) ([]*domain.Supplier, error) {
	query := `
		SELECT id, name, address, contact, lead_time_days, payment_terms
		FROM suppliers
		ORDER BY name
	`

	var suppliers []*domain.Supplier
	if err := sqlx.SelectContext(ctx, r.db, &suppliers, query); err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}

	return suppliers, nil
}
