package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/jmoiron/sqlx"
)

type poRepository struct {
	db *DB
}

func NewPORepository(db *DB) *poRepository {
	return &poRepository{db: db}
}

// NextSequence allocates the next per-day sequence number feeding the PO
// number. The counter row is bumped atomically so concurrent drafts on the
// same day never share a sequence.
func (r *poRepository) NextSequence(ctx context.Context, orderDate time.Time) (int, error) {
	query := `
		INSERT INTO po_sequences (order_date, seq)
		VALUES ($1, 1)
		ON CONFLICT (order_date) DO UPDATE SET seq = po_sequences.seq + 1
		RETURNING seq
	`

	var seq int
	if err := sqlx.GetContext(ctx, r.db, &seq, query, orderDate); err != nil {
		return 0, fmt.Errorf("failed to allocate PO sequence: %w", err)
	}

	return seq, nil
}

// SaveDraft persists a draft and its line items in one transaction.
func (r *poRepository) SaveDraft(ctx context.Context, draft *domain.PurchaseOrderDraft) error {
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		query := `
			INSERT INTO purchase_orders (
				po_number, store_id, supplier_id, order_date, delivery_date,
				subtotal, shipping_cost, vat_rate, vat_amount, total_cost,
				notes, formatted_text, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW())
		`
		_, err := tx.ExecContext(ctx, query,
			draft.PONumber,
			draft.StoreID,
			draft.Supplier.ID,
			draft.OrderDate,
			draft.DeliveryDate,
			draft.Subtotal,
			draft.ShippingCost,
			draft.VATRate,
			draft.VATAmount,
			draft.TotalCost,
			draft.Notes,
			draft.FormattedText,
		)
		if err != nil {
			return fmt.Errorf("failed to insert purchase order: %w", err)
		}

		itemQuery := `
			INSERT INTO purchase_order_items (
				po_number, product_id, product_name, category, quantity, unit_price, line_total
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`
		stmt, err := tx.PrepareContext(ctx, itemQuery)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for _, item := range draft.Items {
			_, err := stmt.ExecContext(ctx,
				draft.PONumber,
				item.ProductID,
				item.ProductName,
				item.Category,
				item.Quantity,
				item.UnitPrice,
				item.LineTotal,
			)
			if err != nil {
				return fmt.Errorf("failed to insert purchase order item: %w", err)
			}
		}

		return nil
	})
}

// GetDraftsByStore returns the saved drafts of a store, newest first, with
// their line items loaded.
func (r *poRepository) GetDraftsByStore(ctx context.Context, storeID int64) ([]*domain.PurchaseOrderDraft, error) {
	query := `
		SELECT
			po.po_number,
			po.store_id,
			st.name AS store_name,
			po.order_date,
			po.delivery_date,
			po.subtotal,
			po.shipping_cost,
			po.vat_rate,
			po.vat_amount,
			po.total_cost,
			po.notes,
			po.formatted_text,
			s.id AS supplier_id,
			s.name AS supplier_name,
			s.address,
			s.contact,
			s.lead_time_days,
			s.payment_terms
		FROM purchase_orders po
		JOIN stores st ON po.store_id = st.id
		JOIN suppliers s ON po.supplier_id = s.id
		WHERE po.store_id = $1
		ORDER BY po.order_date DESC, po.po_number DESC
	`

	rows, err := r.db.QueryContext(ctx, query, storeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase orders: %w", err)
	}
	defer rows.Close()

	var drafts []*domain.PurchaseOrderDraft
	for rows.Next() {
		d := &domain.PurchaseOrderDraft{}
		var notes sql.NullString
		err := rows.Scan(
			&d.PONumber,
			&d.StoreID,
			&d.StoreName,
			&d.OrderDate,
			&d.DeliveryDate,
			&d.Subtotal,
			&d.ShippingCost,
			&d.VATRate,
			&d.VATAmount,
			&d.TotalCost,
			&notes,
			&d.FormattedText,
			&d.Supplier.ID,
			&d.Supplier.Name,
			&d.Supplier.Address,
			&d.Supplier.Contact,
			&d.Supplier.LeadTimeDays,
			&d.Supplier.PaymentTerms,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan purchase order: %w", err)
		}
		d.Notes = notes.String
		drafts = append(drafts, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read purchase orders: %w", err)
	}

	for _, d := range drafts {
		items, err := r.getItems(ctx, d.PONumber)
		if err != nil {
			return nil, err
		}
		d.Items = items
	}

	return drafts, nil
}

func (r *poRepository) getItems(ctx context.Context, poNumber string) ([]domain.PurchaseOrderItem, error) {
	query := `
		SELECT product_id, product_name, category, quantity, unit_price, line_total
		FROM purchase_order_items
		WHERE po_number = $1
		ORDER BY product_id
	`

	rows, err := r.db.QueryContext(ctx, query, poNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase order items: %w", err)
	}
	defer rows.Close()

	var items []domain.PurchaseOrderItem
	for rows.Next() {
		var item domain.PurchaseOrderItem
		if err := rows.Scan(&item.ProductID, &item.ProductName, &item.Category, &item.Quantity, &item.UnitPrice, &item.LineTotal); err != nil {
			return nil, fmt.Errorf("failed to scan purchase order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read purchase order items: %w", err)
	}

	return items, nil
}
