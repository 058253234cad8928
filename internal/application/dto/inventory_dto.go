package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest entrada para crear un lote.
type CreateBatchRequest struct {
	ItemID         string          `json:"item_id" validate:"required,uuid"`
	StoreID        string          `json:"store_id" validate:"required,uuid"`
	BatchNo        string          `json:"batch_no" validate:"required,min=1,max=80"`
	ExpiryDate     time.Time       `json:"expiry_date" validate:"required"`
	QuantityOnHand int             `json:"quantity_on_hand" validate:"required,min=1"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Temperature    *float64        `json:"temperature" validate:"omitempty,min=-30,max=50"`
}

// UpdateBatchRequest campos editables de un lote.
type UpdateBatchRequest struct {
	ExpiryDate *time.Time       `json:"expiry_date"`
	UnitCost   *decimal.Decimal `json:"unit_cost"`
	Status     *string          `json:"status" validate:"omitempty,oneof=in_stock low_stock out_of_stock expired"`
}

// BatchListQuery filtros de GET /inventory-batches.
type BatchListQuery struct {
	PageRequest
	ItemID  string `query:"item_id" validate:"omitempty,uuid"`
	StoreID string `query:"store_id" validate:"omitempty,uuid"`
	Status  string `query:"status" validate:"omitempty,oneof=in_stock low_stock out_of_stock expired"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID             string          `json:"id"`
	ItemID         string          `json:"item_id"`
	StoreID        string          `json:"store_id"`
	BatchNo        string          `json:"batch_no"`
	ExpiryDate     time.Time       `json:"expiry_date"`
	QuantityOnHand int             `json:"quantity_on_hand"`
	Temperature    *float64        `json:"temperature,omitempty"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// BatchListResponse lista paginada de lotes.
type BatchListResponse struct {
	Items []BatchResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}

// TransactionListQuery filtros del kardex.
type TransactionListQuery struct {
	PageRequest
	ItemID        string `query:"item_id" validate:"omitempty,uuid"`
	BatchID       string `query:"batch_id" validate:"omitempty,uuid"`
	Type          string `query:"type" validate:"omitempty,oneof=RECEIPT ISSUE ADJUSTMENT"`
	ReferenceType string `query:"reference_type" validate:"omitempty,oneof=PO GRN ADJUSTMENT SALES"`
}

// TransactionResponse movimiento del kardex.
type TransactionResponse struct {
	ID            string    `json:"id"`
	BatchID       string    `json:"batch_id"`
	ItemID        string    `json:"item_id"`
	Type          string    `json:"type"`
	Quantity      int       `json:"quantity"`
	ReferenceType string    `json:"reference_type"`
	ReferenceID   string    `json:"reference_id"`
	Notes         string    `json:"notes"`
	CreatedBy     string    `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}

// TransactionListResponse lista paginada de movimientos.
type TransactionListResponse struct {
	Items []TransactionResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// AdjustInventoryRequest ajuste manual de existencias (positivo o negativo).
type AdjustInventoryRequest struct {
	ItemID         string           `json:"item_id" validate:"required,uuid"`
	StoreID        string           `json:"store_id" validate:"required,uuid"`
	BatchNo        string           `json:"batch_no" validate:"required,min=1,max=80"`
	QuantityChange int              `json:"quantity_change" validate:"required"`
	ExpiryDate     *time.Time       `json:"expiry_date"`
	UnitCost       *decimal.Decimal `json:"unit_cost"`
	Notes          string           `json:"notes" validate:"max=500"`
}

// AdjustInventoryResponse lote resultante y movimiento generado.
type AdjustInventoryResponse struct {
	Batch         BatchResponse `json:"batch"`
	TransactionID string        `json:"transaction_id"`
	Created       bool          `json:"created"`
}

// SetTemperatureRequest lectura manual de temperatura.
type SetTemperatureRequest struct {
	BatchID     string   `json:"batch_id" validate:"required,uuid"`
	Temperature *float64 `json:"temperature" validate:"required,min=-30,max=50"`
}

// TemperatureLogResponse lectura registrada.
type TemperatureLogResponse struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	Temperature float64   `json:"temperature"`
	RecordedAt  time.Time `json:"recorded_at"`
	IsAlert     bool      `json:"is_alert"`
}

// TemperatureAlertResponse lote fuera de rango.
type TemperatureAlertResponse struct {
	BatchID     string     `json:"batch_id"`
	BatchNo     string     `json:"batch_no"`
	ItemID      string     `json:"item_id"`
	ItemName    string     `json:"item_name"`
	StoreID     string     `json:"store_id"`
	StoreName   string     `json:"store_name"`
	Temperature float64    `json:"temperature"`
	MinAllowed  float64    `json:"min_allowed"`
	MaxAllowed  float64    `json:"max_allowed"`
	Since       *time.Time `json:"since,omitempty"`
	Critical    bool       `json:"critical"`
}

// TemperatureCheckResponse resultado de una revisión del monitor.
type TemperatureCheckResponse struct {
	Checked    int `json:"checked"`
	Abnormal   int `json:"abnormal"`
	Critical   int `json:"critical"`
	Normalized int `json:"normalized"`
}
