package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/andresuchdata/stockpilot/backend-go/internal/domain"
	"github.com/shopspring/decimal"
)

// ErrNothingToOrder is returned when an auto-sourced draft resolves to zero
// line items; the caller decides whether that is an error or a no-op.
var ErrNothingToOrder = errors.New("no items need reordering")

// ItemSource is the tagged choice of where a draft's line items come from.
// Exactly one of the three concrete variants is passed to BuildDraft.
type ItemSource interface {
	isItemSource()
}

// ExplicitItems carries caller-provided line items.
type ExplicitItems struct {
	Items []ExplicitItem
}

type ExplicitItem struct {
	ProductID string
	Quantity  int
}

// FromRecommendations derives line items from current optimization results:
// products whose status is Critical or Low, ordered at their EOQ.
type FromRecommendations struct {
	Results []domain.OptimizationResult
}

// FromForecast derives line items from a forecast run: products with a
// positive recommended order quantity.
type FromForecast struct {
	Series []domain.ForecastSeries
}

func (ExplicitItems) isItemSource()       {}
func (FromRecommendations) isItemSource() {}
func (FromForecast) isItemSource()        {}

// POConfig holds the generator's pricing knobs.
type POConfig struct {
	VATRate          float64
	FreeShippingFrom float64 // subtotal threshold for free shipping
	ShippingLarge    float64 // more than 50 units
	ShippingMedium   float64 // more than 20 units
	ShippingSmall    float64
}

// POGenerator builds priced purchase-order drafts. All monetary arithmetic
// runs on decimals at full precision; two-decimal rounding happens only in
// the text rendering.
type POGenerator struct {
	cfg POConfig
}

func NewPOGenerator(cfg POConfig) *POGenerator {
	return &POGenerator{cfg: cfg}
}

// BuildDraft assembles a draft order for one supplier and store. The sequence
// number feeds the date-based PO number and must be unique per order date.
func (g *POGenerator) BuildDraft(store domain.Store, supplier domain.Supplier, catalog []domain.Product, source ItemSource, orderDate time.Time, sequence int) (*domain.PurchaseOrderDraft, error) {
	byID := make(map[string]domain.Product, len(catalog))
	for _, p := range catalog {
		byID[p.ID] = p
	}

	items, err := resolveItems(source, byID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNothingToOrder
	}

	subtotal := decimal.Zero
	units := 0
	for i := range items {
		items[i].LineTotal = items[i].UnitPrice.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		subtotal = subtotal.Add(items[i].LineTotal)
		units += items[i].Quantity
	}

	shipping := g.shippingCost(subtotal, units)
	vatRate := decimal.NewFromFloat(g.cfg.VATRate)
	vatAmount := subtotal.Mul(vatRate)
	total := subtotal.Add(shipping).Add(vatAmount)

	draft := &domain.PurchaseOrderDraft{
		PONumber:     formatPONumber(orderDate, sequence),
		StoreID:      store.ID,
		StoreName:    store.Name,
		Supplier:     supplier,
		OrderDate:    orderDate,
		DeliveryDate: orderDate.AddDate(0, 0, supplier.LeadTimeDays),
		Items:        items,
		Subtotal:     subtotal,
		ShippingCost: shipping,
		VATRate:      vatRate,
		VATAmount:    vatAmount,
		TotalCost:    total,
	}
	draft.FormattedText = RenderDraft(draft)

	return draft, nil
}

func resolveItems(source ItemSource, catalog map[string]domain.Product) ([]domain.PurchaseOrderItem, error) {
	switch src := source.(type) {
	case ExplicitItems:
		items := make([]domain.PurchaseOrderItem, 0, len(src.Items))
		for _, in := range src.Items {
			product, ok := catalog[in.ProductID]
			if !ok {
				return nil, domain.NotFoundf("product %s", in.ProductID)
			}
			if in.Quantity <= 0 {
				return nil, domain.InvalidParameterf("quantity %d for product %s", in.Quantity, in.ProductID)
			}
			items = append(items, lineItem(product, in.Quantity))
		}
		return items, nil

	case FromRecommendations:
		var items []domain.PurchaseOrderItem
		for _, r := range src.Results {
			if r.Status != domain.StatusCritical && r.Status != domain.StatusLow {
				continue
			}
			product, ok := catalog[r.ProductID]
			if !ok {
				continue
			}
			qty := r.Policy.EOQ
			if qty <= 0 {
				qty = r.Policy.ReorderPoint - r.CurrentStock
			}
			if qty <= 0 {
				continue
			}
			items = append(items, lineItem(product, qty))
		}
		return items, nil

	case FromForecast:
		var items []domain.PurchaseOrderItem
		for _, s := range src.Series {
			if s.RecommendedOrder <= 0 {
				continue
			}
			product, ok := catalog[s.ProductID]
			if !ok {
				continue
			}
			items = append(items, lineItem(product, s.RecommendedOrder))
		}
		return items, nil

	default:
		return nil, domain.InvalidParameterf("unknown item source %T", source)
	}
}

func lineItem(product domain.Product, qty int) domain.PurchaseOrderItem {
	return domain.PurchaseOrderItem{
		ProductID:   product.ID,
		ProductName: product.Name,
		Category:    product.Category,
		Quantity:    qty,
		UnitPrice:   decimal.NewFromFloat(product.UnitPrice),
	}
}

// shippingCost applies the banded shipping schedule: free above the subtotal
// threshold, otherwise priced by total unit count.
func (g *POGenerator) shippingCost(subtotal decimal.Decimal, units int) decimal.Decimal {
	if subtotal.GreaterThanOrEqual(decimal.NewFromFloat(g.cfg.FreeShippingFrom)) {
		return decimal.Zero
	}
	switch {
	case units > 50:
		return decimal.NewFromFloat(g.cfg.ShippingLarge)
	case units > 20:
		return decimal.NewFromFloat(g.cfg.ShippingMedium)
	default:
		return decimal.NewFromFloat(g.cfg.ShippingSmall)
	}
}

// formatPONumber builds the date-plus-sequence order identifier.
func formatPONumber(orderDate time.Time, sequence int) string {
	return fmt.Sprintf("PO-%s-%04d", orderDate.Format("20060102"), sequence)
}

// RenderDraft produces the canonical text rendering for downstream export.
// This is the presentation boundary: monetary values are rounded to two
// decimal places here and nowhere else.
func RenderDraft(d *domain.PurchaseOrderDraft) string {
	var b strings.Builder
	line := strings.Repeat("=", 78)
	thin := strings.Repeat("-", 78)

	fmt.Fprintf(&b, "%s\nPURCHASE ORDER\nOrder No: %s\n%s\n\n", line, d.PONumber, line)

	fmt.Fprintf(&b, "SUPPLIER:\n%s\n", d.Supplier.Name)
	if d.Supplier.Address != "" {
		fmt.Fprintf(&b, "%s\n", d.Supplier.Address)
	}
	if d.Supplier.Contact != "" {
		fmt.Fprintf(&b, "%s\n", d.Supplier.Contact)
	}
	fmt.Fprintf(&b, "\nBUYER:\n%s (store %d)\n\n", d.StoreName, d.StoreID)

	fmt.Fprintf(&b, "Order Date:    %s\n", d.OrderDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Delivery Date: %s\n", d.DeliveryDate.Format("2006-01-02"))
	fmt.Fprintf(&b, "Payment Terms: %s\n\n", d.Supplier.PaymentTerms)

	fmt.Fprintf(&b, "%s\n%-4s %-32s %-14s %8s %12s %12s\n%s\n",
		line, "#", "Item", "Category", "Qty", "Unit Price", "Total", thin)
	for i, item := range d.Items {
		fmt.Fprintf(&b, "%-4d %-32s %-14s %8d %12s %12s\n",
			i+1,
			clip(item.ProductName, 32),
			clip(item.Category, 14),
			item.Quantity,
			item.UnitPrice.StringFixed(2),
			item.LineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "%s\n", line)

	fmt.Fprintf(&b, "%-64s %13s\n", "Subtotal:", d.Subtotal.StringFixed(2))
	fmt.Fprintf(&b, "%-64s %13s\n", "Shipping:", d.ShippingCost.StringFixed(2))
	vatPct := d.VATRate.Mul(decimal.NewFromInt(100))
	fmt.Fprintf(&b, "%-64s %13s\n", fmt.Sprintf("VAT %s%%:", vatPct.StringFixed(0)), d.VATAmount.StringFixed(2))
	fmt.Fprintf(&b, "%s\n%-64s %13s\n%s\n", thin, "TOTAL:", d.TotalCost.StringFixed(2), line)

	if d.Notes != "" {
		fmt.Fprintf(&b, "\nNOTES:\n%s\n", d.Notes)
	}

	return b.String()
}

// clip shortens s to at most max runes without splitting a multi-byte
// character.
func clip(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
