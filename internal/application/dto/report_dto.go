package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GrossProfitSummary ingresos, costo y margen de un conjunto de ventas.
type GrossProfitSummary struct {
	TotalTransactions int             `json:"total_transactions,omitempty"`
	Revenue           decimal.Decimal `json:"revenue"`
	Cost              decimal.Decimal `json:"cost"`
	GrossProfit       decimal.Decimal `json:"gross_profit"`
	MarginPct         decimal.Decimal `json:"margin_pct"` // (revenue - cost) / revenue * 100
	Period            string          `json:"period,omitempty"`
}

// BelowSafetyItem ítem cuyas existencias totales están bajo el stock de seguridad.
type BelowSafetyItem struct {
	ItemID       string `json:"item_id"`
	ItemName     string `json:"item_name"`
	SKU          string `json:"sku"`
	CurrentStock int    `json:"current_stock"`
	SafetyStock  int    `json:"safety_stock"`
	Deficit      int    `json:"deficit"`
}

// DashboardResponse KPIs de GET /reports/dashboard.
type DashboardResponse struct {
	InventoryValue   decimal.Decimal    `json:"inventory_value"`
	LowStockBatches  int                `json:"low_stock_batches"`
	PendingApprovals int                `json:"pending_approvals"`
	StockOutRisk     int                `json:"stock_out_risk"`
	GrossProfit      GrossProfitSummary `json:"gross_profit"`
	BelowSafety      []BelowSafetyItem  `json:"below_safety"` // top 10 por déficit
	BelowSafetyTotal int                `json:"below_safety_total"`
}

// BatchReportRow lote con nombres de ítem y tienda.
type BatchReportRow struct {
	BatchID        string          `json:"batch_id"`
	BatchNo        string          `json:"batch_no"`
	ItemID         string          `json:"item_id"`
	ItemName       string          `json:"item_name"`
	SKU            string          `json:"sku"`
	StoreID        string          `json:"store_id"`
	StoreName      string          `json:"store_name"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	MinStockLevel  int             `json:"min_stock_level"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Temperature    *float64        `json:"temperature,omitempty"`
	Status         string          `json:"status"`
	ExpiryDate     time.Time       `json:"expiry_date"`
}

// InventoryReport conteos por estado y detalle de lotes.
type InventoryReport struct {
	TotalBatches int              `json:"total_batches"`
	InStock      int              `json:"in_stock"`
	LowStock     int              `json:"low_stock"`
	OutOfStock   int              `json:"out_of_stock"`
	Expired      int              `json:"expired"`
	Batches      []BatchReportRow `json:"batches"`
}

// POReportRow orden con proveedor y tienda.
type POReportRow struct {
	ID                   string          `json:"id"`
	PONumber             string          `json:"po_number"`
	Status               string          `json:"status"`
	SupplierID           string          `json:"supplier_id"`
	SupplierName         string          `json:"supplier_name"`
	StoreID              string          `json:"store_id"`
	StoreName            string          `json:"store_name"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	LineCount            int             `json:"line_count"`
	OrderDate            time.Time       `json:"order_date"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date"`
}

// ProcurementReport conteos por estado, valor total y órdenes.
type ProcurementReport struct {
	TotalOrders int             `json:"total_orders"`
	ByStatus    map[string]int  `json:"by_status"`
	TotalValue  decimal.Decimal `json:"total_value"`
	Orders      []POReportRow   `json:"orders"`
}

// SaleReportRow venta con nombres.
type SaleReportRow struct {
	ID           string          `json:"id"`
	ItemID       string          `json:"item_id"`
	ItemName     string          `json:"item_name"`
	SKU          string          `json:"sku"`
	StoreID      string          `json:"store_id"`
	StoreName    string          `json:"store_name"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	GrossProfit  decimal.Decimal `json:"gross_profit"`
	CustomerName string          `json:"customer_name"`
	SaleDate     time.Time       `json:"sale_date"`
}

// SalesReport totales y transacciones.
type SalesReport struct {
	TotalTransactions int             `json:"total_transactions"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalQuantity     int             `json:"total_quantity"`
	Transactions      []SaleReportRow `json:"transactions"`
}

// LowStockAlert lote en low_stock u out_of_stock.
type LowStockAlert struct {
	ItemID        string `json:"item_id"`
	ItemName      string `json:"item_name"`
	SKU           string `json:"sku"`
	BatchNo       string `json:"batch_no"`
	StoreID       string `json:"store_id"`
	StoreName     string `json:"store_name"`
	CurrentStock  int    `json:"current_stock"`
	MinStockLevel int    `json:"min_stock_level"`
	Status        string `json:"status"`
}

// GrossProfitByItem agregado por ítem.
type GrossProfitByItem struct {
	ItemID      string          `json:"item_id"`
	ItemName    string          `json:"item_name"`
	SKU         string          `json:"sku"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
}

// GrossProfitByDate agregado por día (YYYY-MM-DD).
type GrossProfitByDate struct {
	Date        string          `json:"date"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
	Cost        decimal.Decimal `json:"cost"`
	GrossProfit decimal.Decimal `json:"gross_profit"`
	MarginPct   decimal.Decimal `json:"margin_pct"`
}

// GrossProfitReport resumen, agregados y últimas 100 ventas.
type GrossProfitReport struct {
	Summary      GrossProfitSummary  `json:"summary"`
	ByItem       []GrossProfitByItem `json:"by_item"`
	ByDate       []GrossProfitByDate `json:"by_date"`
	Transactions []SaleReportRow     `json:"transactions"`
}

// ExpiredItem lote vencido o próximo a vencer.
type ExpiredItem struct {
	ItemID          string    `json:"item_id"`
	ItemName        string    `json:"item_name"`
	SKU             string    `json:"sku"`
	BatchNo         string    `json:"batch_no"`
	StoreName       string    `json:"store_name"`
	ExpiryDate      time.Time `json:"expiry_date"`
	DaysUntilExpiry int       `json:"days_until_expiry"`
	QuantityOnHand  int       `json:"quantity_on_hand"`
	Status          string    `json:"status"` // expired | expires_today | near_expiry
}

// ReportQuery filtros comunes de reportes.
type ReportQuery struct {
	StoreID string `query:"store_id" validate:"omitempty,uuid"`
	From    string `query:"from"`
	To      string `query:"to"`
	Days    int    `query:"days" validate:"min=0,max=365"`
}

// Notification aviso para la campana del usuario.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Priority  string    `json:"priority"` // high | medium | low
	Link      string    `json:"link,omitempty"`
	Count     int       `json:"count,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
