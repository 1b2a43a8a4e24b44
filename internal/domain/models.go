// backend-go/internal/domain/models.go
package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Store represents a store location
type Store struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Market    string    `json:"market" db:"market"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// SaleRecord is a single recorded sale of a product in a store.
// Negative quantities denote returned or voided sales.
type SaleRecord struct {
	ProductID string    `json:"product_id" db:"product_id"`
	StoreID   int64     `json:"store_id" db:"store_id"`
	Date      time.Time `json:"date" db:"date"`
	Quantity  float64   `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
}

// Product is a catalog entry for a store.
type Product struct {
	ID           string  `json:"id" db:"id"`
	StoreID      int64   `json:"store_id" db:"store_id"`
	Name         string  `json:"name" db:"name"`
	Category     string  `json:"category" db:"category"`
	UnitPrice    float64 `json:"unit_price" db:"unit_price"`
	CurrentStock int     `json:"current_stock" db:"current_stock"`
}

// Supplier represents an entry from the supplier directory.
type Supplier struct {
	ID           string `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Address      string `json:"address" db:"address"`
	Contact      string `json:"contact" db:"contact"`
	LeadTimeDays int    `json:"lead_time_days" db:"lead_time_days"`
	PaymentTerms string `json:"payment_terms" db:"payment_terms"`
}

// CalendarEvent is a named demand-affecting event (holiday, shopping event,
// seasonal peak) keyed by date and market. An empty AffectedCategories slice
// means the event applies to the whole catalog.
type CalendarEvent struct {
	Name               string    `json:"name" db:"name"`
	EventType          string    `json:"event_type" db:"event_type"`
	Date               time.Time `json:"date" db:"date"`
	Market             string    `json:"market" db:"market"`
	ImpactLevel        string    `json:"impact_level" db:"impact_level"`
	DemandMultiplier   float64   `json:"demand_multiplier" db:"demand_multiplier"`
	AffectedCategories []string  `json:"affected_categories" db:"-"`
}

// DemandProfile holds per-product daily demand statistics over a lookback window.
type DemandProfile struct {
	ProductID      string  `json:"product_id"`
	StoreID        int64   `json:"store_id"`
	WindowDays     int     `json:"window_days"`
	AvgDailyDemand float64 `json:"avg_daily_demand"`
	DemandStd      float64 `json:"demand_std"`
	SampleCount    int     `json:"sample_count"`
	LowConfidence  bool    `json:"low_confidence"`
}

// ReorderPolicy is the derived set of stock-management parameters for one product.
type ReorderPolicy struct {
	LeadTimeDays int     `json:"lead_time_days"`
	ServiceLevel float64 `json:"service_level"`
	ZScore       float64 `json:"z_score"`
	SafetyStock  int     `json:"safety_stock"`
	ReorderPoint int     `json:"reorder_point"`
	EOQ          int     `json:"eoq"`
}

// OptimizationResult is the per-product output of an optimization request.
type OptimizationResult struct {
	ProductID      string        `json:"product_id"`
	ProductName    string        `json:"product_name"`
	Category       string        `json:"category"`
	CurrentStock   int           `json:"current_stock"`
	AvgDailyDemand float64       `json:"avg_daily_demand"`
	DemandStd      float64       `json:"demand_std"`
	Policy         ReorderPolicy `json:"policy"`
	ABCTier        ABCTier       `json:"abc_classification"`
	AnnualRevenue  float64       `json:"annual_revenue"`
	StockDays      float64       `json:"stock_days"`
	Status         StockStatus   `json:"status"`
	LowConfidence  bool          `json:"low_confidence"`
	Warnings       []Warning     `json:"warnings,omitempty"`
}

// ItemError reports an isolated per-product failure inside a batch.
type ItemError struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// OptimizationResponse is the full response of compute_optimization.
type OptimizationResponse struct {
	StoreID            int64                `json:"store_id"`
	TotalProducts      int                  `json:"total_products"`
	Results            []OptimizationResult `json:"results"`
	ABCSummary         map[string]int       `json:"abc_summary"`
	TotalAnnualRevenue float64              `json:"total_annual_revenue"`
	Warnings           []Warning            `json:"warnings,omitempty"`
	Errors             []ItemError          `json:"errors,omitempty"`
	Incomplete         bool                 `json:"incomplete"`
}

// ForecastSeries is the per-product output of a forecast request.
type ForecastSeries struct {
	ProductID        string    `json:"product_id"`
	ProductName      string    `json:"product_name"`
	Category         string    `json:"category"`
	HorizonDays      int       `json:"horizon_days"`
	Dates            []string  `json:"dates"`
	DailyForecast    []float64 `json:"daily_forecast"`
	TotalForecast    float64   `json:"total_forecast"`
	RevenueForecast  float64   `json:"revenue_forecast"`
	CurrentStock     int       `json:"current_stock"`
	RecommendedOrder int       `json:"recommended_order"`
	LowConfidence    bool      `json:"low_confidence"`
	Warnings         []Warning `json:"warnings,omitempty"`
}

// ForecastResponse is the full response of compute_forecast.
type ForecastResponse struct {
	StoreID              int64            `json:"store_id"`
	HorizonDays          int              `json:"horizon_days"`
	Products             []ForecastSeries `json:"products"`
	TotalRevenueForecast float64          `json:"total_revenue_forecast"`
	Errors               []ItemError      `json:"errors,omitempty"`
	Incomplete           bool             `json:"incomplete"`
}

// PurchaseOrderItem is one ordered line on a purchase order draft.
type PurchaseOrderItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Category    string          `json:"category"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// PurchaseOrderDraft is a priced draft order for one supplier and store.
// Monetary fields keep full decimal precision; rounding to two places happens
// only when the draft is rendered.
type PurchaseOrderDraft struct {
	PONumber      string              `json:"po_number"`
	StoreID       int64               `json:"store_id"`
	StoreName     string              `json:"store_name"`
	Supplier      Supplier            `json:"supplier"`
	OrderDate     time.Time           `json:"order_date"`
	DeliveryDate  time.Time           `json:"delivery_date"`
	Items         []PurchaseOrderItem `json:"items"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	ShippingCost  decimal.Decimal     `json:"shipping_cost"`
	VATRate       decimal.Decimal     `json:"vat_rate"`
	VATAmount     decimal.Decimal     `json:"vat_amount"`
	TotalCost     decimal.Decimal     `json:"total_cost"`
	Notes         string              `json:"notes,omitempty"`
	FormattedText string              `json:"formatted_text"`
}
