package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la orden de compra.
const (
	POStatusDraft           = "draft"
	POStatusPendingApproval = "pending_approval"
	POStatusApproved        = "approved"
	POStatusSent            = "sent"
	POStatusConfirmed       = "confirmed"
	POStatusDelivered       = "delivered"
	POStatusCancelled       = "cancelled"
)

// PurchaseOrder orden de compra hacia un proveedor para una tienda.
type PurchaseOrder struct {
	ID                   string
	PONumber             string
	OrderDate            time.Time
	ExpectedDeliveryDate time.Time
	Status               string
	TotalAmount          decimal.Decimal
	Notes                string
	SupplierID           string
	StoreID              string
	ApprovedBy           string
	ApprovedAt           *time.Time
	RejectionReason      string
	ConfirmedBy          string
	ConfirmedAt          *time.Time
	SentAt               *time.Time
	ActualDeliveryDate   *time.Time
	SupplierNotes        string
	DispatchDigest       string // SHA-256 del XML canónico enviado al proveedor
	CreatedBy            string
	Items                []PurchaseOrderItem
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// PurchaseOrderItem línea de la orden.
type PurchaseOrderItem struct {
	ID          string
	POID        string
	ItemID      string
	Quantity    int
	UnitPrice   decimal.Decimal
	TotalAmount decimal.Decimal
	Unit        string
}

// LineFor devuelve la línea de la orden para el ítem, o nil.
func (po *PurchaseOrder) LineFor(itemID string) *PurchaseOrderItem {
	for i := range po.Items {
		if po.Items[i].ItemID == itemID {
			return &po.Items[i]
		}
	}
	return nil
}
