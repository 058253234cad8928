package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote.
const (
	BatchInStock    = "in_stock"
	BatchLowStock   = "low_stock"
	BatchOutOfStock = "out_of_stock"
	BatchExpired    = "expired"
)

// InventoryBatch lote de un ítem en una tienda. BatchNo es único por tienda.
type InventoryBatch struct {
	ID             string
	ItemID         string
	StoreID        string
	BatchNo        string
	ExpiryDate     time.Time
	QuantityOnHand int
	Temperature    *float64
	UnitCost       decimal.Decimal
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
