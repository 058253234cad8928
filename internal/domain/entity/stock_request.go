package entity

import "time"

// Estados de una solicitud de stock.
const (
	StockRequestRequested   = "requested"
	StockRequestPOGenerated = "po_generated"
	StockRequestCancelled   = "cancelled"
)

// Prioridades.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// StockRequest señal interna de demanda de reposición; luego se agrupa en una orden de compra.
type StockRequest struct {
	ID           string
	StoreID      string
	ItemID       string
	RequestedQty int
	Status       string
	Priority     string
	RequestedBy  string
	POID         string
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
