package dto

import "time"

// CreateItemRequest entrada para crear un ítem.
type CreateItemRequest struct {
	ItemName       string   `json:"item_name" validate:"required,min=1,max=200"`
	SKU            string   `json:"sku" validate:"required,min=1,max=60"`
	Category       string   `json:"category" validate:"max=100"`
	Unit           string   `json:"unit" validate:"required,max=30"`
	MinStockLevel  *int     `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel  *int     `json:"max_stock_level" validate:"omitempty,min=0"`
	SafetyStock    *int     `json:"safety_stock" validate:"omitempty,min=0"`
	StorageType    string   `json:"storage_type" validate:"required,oneof=cold frozen"`
	MinTemperature *float64 `json:"min_temperature" validate:"omitempty,min=-30,max=50"`
	MaxTemperature *float64 `json:"max_temperature" validate:"omitempty,min=-30,max=50"`
}

// UpdateItemRequest entrada para actualizar un ítem.
type UpdateItemRequest struct {
	ItemName       *string  `json:"item_name" validate:"omitempty,min=1,max=200"`
	Category       *string  `json:"category" validate:"omitempty,max=100"`
	Unit           *string  `json:"unit" validate:"omitempty,min=1,max=30"`
	MinStockLevel  *int     `json:"min_stock_level" validate:"omitempty,min=0"`
	MaxStockLevel  *int     `json:"max_stock_level" validate:"omitempty,min=0"`
	SafetyStock    *int     `json:"safety_stock" validate:"omitempty,min=0"`
	StorageType    *string  `json:"storage_type" validate:"omitempty,oneof=cold frozen"`
	MinTemperature *float64 `json:"min_temperature" validate:"omitempty,min=-30,max=50"`
	MaxTemperature *float64 `json:"max_temperature" validate:"omitempty,min=-30,max=50"`
	IsActive       *bool    `json:"is_active"`
}

// ItemResponse salida de un ítem.
type ItemResponse struct {
	ID             string    `json:"id"`
	ItemName       string    `json:"item_name"`
	SKU            string    `json:"sku"`
	Category       string    `json:"category"`
	Unit           string    `json:"unit"`
	MinStockLevel  int       `json:"min_stock_level"`
	MaxStockLevel  int       `json:"max_stock_level"`
	SafetyStock    *int      `json:"safety_stock,omitempty"`
	StorageType    string    `json:"storage_type"`
	MinTemperature *float64  `json:"min_temperature,omitempty"`
	MaxTemperature *float64  `json:"max_temperature,omitempty"`
	IsActive       bool      `json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ItemListResponse lista paginada de ítems.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// ItemListQuery filtros de GET /items.
type ItemListQuery struct {
	PageRequest
	Search      string `query:"search"`
	Category    string `query:"category"`
	StorageType string `query:"storage_type" validate:"omitempty,oneof=cold frozen"`
}

// ItemStockResponse existencias actuales de un ítem.
type ItemStockResponse struct {
	ItemID       string `json:"item_id"`
	StoreID      string `json:"store_id,omitempty"`
	CurrentStock int    `json:"current_stock"`
}

// Origen del stock de seguridad.
const (
	SafetySourceManual   = "manual"
	SafetySourceDemand   = "demand"
	SafetySourceMinStock = "min_stock"
)

// SafetyStockResponse stock de seguridad calculado y comparación con las existencias.
type SafetyStockResponse struct {
	ItemID       string `json:"item_id"`
	StoreID      string `json:"store_id,omitempty"`
	SafetyStock  int    `json:"safety_stock"`
	CurrentStock int    `json:"current_stock"`
	BelowSafety  bool   `json:"below_safety"`
	Source       string `json:"source"`
	LeadTimeDays int    `json:"lead_time_days"`
	SoldLast30d  int    `json:"sold_last_30d"`
}
