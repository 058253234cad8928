package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest entrada para registrar una venta.
type CreateSaleRequest struct {
	ItemID       string          `json:"item_id" validate:"required,uuid"`
	StoreID      string          `json:"store_id" validate:"required,uuid"`
	Quantity     int             `json:"quantity" validate:"required,min=1"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	SaleDate     *time.Time      `json:"sale_date"`
	CustomerName string          `json:"customer_name" validate:"max=150"`
}

// SaleListQuery filtros de GET /sales.
type SaleListQuery struct {
	PageRequest
	StoreID string `query:"store_id" validate:"omitempty,uuid"`
	ItemID  string `query:"item_id" validate:"omitempty,uuid"`
	From    string `query:"from"` // YYYY-MM-DD o RFC3339
	To      string `query:"to"`
}

// SaleAllocationResponse consumo de un lote en la venta.
type SaleAllocationResponse struct {
	BatchID  string          `json:"batch_id"`
	BatchNo  string          `json:"batch_no"`
	Quantity int             `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID           string                   `json:"id"`
	ItemID       string                   `json:"item_id"`
	StoreID      string                   `json:"store_id"`
	Quantity     int                      `json:"quantity"`
	UnitPrice    decimal.Decimal          `json:"unit_price"`
	TotalAmount  decimal.Decimal          `json:"total_amount"`
	CostPrice    decimal.Decimal          `json:"cost_price"`
	TotalCost    decimal.Decimal          `json:"total_cost"`
	GrossProfit  decimal.Decimal          `json:"gross_profit"`
	CustomerName string                   `json:"customer_name"`
	SaleDate     time.Time                `json:"sale_date"`
	CreatedBy    string                   `json:"created_by"`
	Allocations  []SaleAllocationResponse `json:"allocations,omitempty"`
	CreatedAt    time.Time                `json:"created_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
