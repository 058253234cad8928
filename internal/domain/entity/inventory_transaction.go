package entity

import "time"

// Tipos de transacción de inventario.
const (
	TxReceipt    = "RECEIPT"
	TxIssue      = "ISSUE"
	TxAdjustment = "ADJUSTMENT"
)

// Tipos de documento de referencia.
const (
	RefPO         = "PO"
	RefGRN        = "GRN"
	RefAdjustment = "ADJUSTMENT"
	RefSales      = "SALES"
)

// InventoryTransaction asiento inmutable del kardex. Quantity es con signo (ISSUE negativo).
type InventoryTransaction struct {
	ID            string
	BatchID       string
	ItemID        string
	Type          string
	Quantity      int
	ReferenceType string
	ReferenceID   string
	Notes         string
	CreatedBy     string
	CreatedAt     time.Time
}
