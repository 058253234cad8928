package dto

import "time"

// CreateStockRequestRequest entrada para crear una solicitud de stock.
type CreateStockRequestRequest struct {
	StoreID      string `json:"store_id" validate:"required,uuid"`
	ItemID       string `json:"item_id" validate:"required,uuid"`
	RequestedQty int    `json:"requested_qty" validate:"required,min=1"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Notes        string `json:"notes" validate:"max=500"`
}

// UpdateStockRequestRequest campos editables mientras la solicitud está abierta.
type UpdateStockRequestRequest struct {
	RequestedQty *int    `json:"requested_qty" validate:"omitempty,min=1"`
	Priority     *string `json:"priority" validate:"omitempty,oneof=low medium high"`
	Status       *string `json:"status" validate:"omitempty,oneof=cancelled po_generated"`
	Notes        *string `json:"notes" validate:"omitempty,max=500"`
}

// StockRequestListQuery filtros de GET /stock-requests.
type StockRequestListQuery struct {
	PageRequest
	Status  string `query:"status" validate:"omitempty,oneof=requested po_generated cancelled"`
	StoreID string `query:"store_id" validate:"omitempty,uuid"`
	ItemID  string `query:"item_id" validate:"omitempty,uuid"`
}

// StockRequestResponse salida de una solicitud.
type StockRequestResponse struct {
	ID           string    `json:"id"`
	StoreID      string    `json:"store_id"`
	ItemID       string    `json:"item_id"`
	RequestedQty int       `json:"requested_qty"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	RequestedBy  string    `json:"requested_by"`
	POID         string    `json:"po_id,omitempty"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StockRequestListResponse lista paginada de solicitudes.
type StockRequestListResponse struct {
	Items []StockRequestResponse `json:"items"`
	Page  PageResponse           `json:"page"`
}

// CancelResult solicitudes efectivamente canceladas.
type CancelResult struct {
	Cancelled  int      `json:"cancelled"`
	RequestIDs []string `json:"request_ids"`
}

// GeneratedPO orden creada a partir de un grupo de solicitudes.
type GeneratedPO struct {
	POID       string   `json:"po_id"`
	PONumber   string   `json:"po_number"`
	RequestIDs []string `json:"request_ids"`
}

// AutoReplenishResult solicitud creada por la reposición automática y la orden que la cubrió.
type AutoReplenishResult struct {
	ItemID         string `json:"item_id"`
	StoreID        string `json:"store_id"`
	StockRequestID string `json:"stock_request_id"`
	POID           string `json:"po_id,omitempty"`
	CurrentStock   int    `json:"current_stock"`
	SafetyStock    int    `json:"safety_stock"`
}

// ExpressOrderRequest pedido urgente de un ítem para una tienda.
type ExpressOrderRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	StoreID  string `json:"store_id" validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Notes    string `json:"notes" validate:"max=500"`
}
