package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// GoodsReceipt recepción de mercancía contra una orden de compra (no editable).
type GoodsReceipt struct {
	ID           string
	GRNNumber    string
	POID         string
	ReceivedBy   string
	ReceivedDate time.Time
	Notes        string
	Items        []GoodsReceiptItem
	CreatedAt    time.Time
}

// GoodsReceiptItem línea recibida; BatchID es el lote creado o actualizado.
type GoodsReceiptItem struct {
	ID          string
	GRNID       string
	ItemID      string
	BatchID     string
	BatchNo     string
	Quantity    int
	UnitCost    decimal.Decimal
	ExpiryDate  time.Time
	Temperature *float64
}
