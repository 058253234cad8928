package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesTransaction venta con costo FIFO de los lotes consumidos.
type SalesTransaction struct {
	ID           string
	ItemID       string
	StoreID      string
	Quantity     int
	UnitPrice    decimal.Decimal
	TotalAmount  decimal.Decimal
	CostPrice    decimal.Decimal // costo unitario promedio de los lotes consumidos
	TotalCost    decimal.Decimal
	GrossProfit  decimal.Decimal
	CustomerName string
	SaleDate     time.Time
	CreatedBy    string
	CreatedAt    time.Time
}
