package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// BatchView lote con los datos del ítem y la tienda. Lo produce la DB; el use case lo convierte en DTO.
type BatchView struct {
	BatchID        string          `db:"batch_id"`
	BatchNo        string          `db:"batch_no"`
	ItemID         string          `db:"item_id"`
	ItemName       string          `db:"item_name"`
	SKU            string          `db:"sku"`
	MinStockLevel  int             `db:"min_stock_level"`
	StorageType    string          `db:"storage_type"`
	MinTemperature *float64        `db:"min_temperature"`
	MaxTemperature *float64        `db:"max_temperature"`
	StoreID        string          `db:"store_id"`
	StoreName      string          `db:"store_name"`
	QuantityOnHand int             `db:"quantity_on_hand"`
	UnitCost       decimal.Decimal `db:"unit_cost"`
	Temperature    *float64        `db:"temperature"`
	Status         string          `db:"status"`
	ExpiryDate     time.Time       `db:"expiry_date"`
	CreatedAt      time.Time       `db:"created_at"`
}

// BatchViewFilter filtros de lectura de lotes.
type BatchViewFilter struct {
	Statuses       []string
	MinQty         *int
	ExpiringBefore *time.Time
	OrderBy        string // "created_at DESC" por defecto
	Limit          int    // 0 = sin límite
}

// SaleView venta con nombre de ítem y tienda.
type SaleView struct {
	ID           string          `db:"id"`
	ItemID       string          `db:"item_id"`
	ItemName     string          `db:"item_name"`
	SKU          string          `db:"sku"`
	StoreID      string          `db:"store_id"`
	StoreName    string          `db:"store_name"`
	Quantity     int             `db:"quantity"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	TotalAmount  decimal.Decimal `db:"total_amount"`
	TotalCost    decimal.Decimal `db:"total_cost"`
	GrossProfit  decimal.Decimal `db:"gross_profit"`
	CustomerName string          `db:"customer_name"`
	SaleDate     time.Time       `db:"sale_date"`
}

// SaleViewFilter filtros de lectura de ventas.
type SaleViewFilter struct {
	StoreID string
	From    *time.Time
	To      *time.Time
}

// POView cabecera de orden con nombres de proveedor y tienda.
type POView struct {
	ID                   string          `db:"id"`
	PONumber             string          `db:"po_number"`
	Status               string          `db:"status"`
	SupplierID           string          `db:"supplier_id"`
	SupplierName         string          `db:"supplier_name"`
	StoreID              string          `db:"store_id"`
	StoreName            string          `db:"store_name"`
	TotalAmount          decimal.Decimal `db:"total_amount"`
	OrderDate            time.Time       `db:"order_date"`
	ExpectedDeliveryDate time.Time       `db:"expected_delivery_date"`
	LineCount            int             `db:"line_count"`
	CreatedAt            time.Time       `db:"created_at"`
}

// SalesTotals ingresos y costo agregados.
type SalesTotals struct {
	Revenue decimal.Decimal `db:"revenue"`
	Cost    decimal.Decimal `db:"cost"`
}

// AnalyticsRepository define las consultas de lectura para reportes, notificaciones y temperatura.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	BatchViews(ctx context.Context, f BatchViewFilter) ([]BatchView, error)
	SaleViews(ctx context.Context, f SaleViewFilter) ([]SaleView, error)
	POViews(ctx context.Context) ([]POView, error)
	// SalesTotalsSince ingresos y costo de las ventas desde since.
	SalesTotalsSince(ctx context.Context, since time.Time) (SalesTotals, error)
}
