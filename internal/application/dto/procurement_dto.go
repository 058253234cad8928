package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// POLineRequest línea de una orden de compra manual.
type POLineRequest struct {
	ItemID    string          `json:"item_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"required,min=1"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Unit      string          `json:"unit" validate:"required,min=1,max=30"`
}

// CreatePORequest entrada para crear una orden de compra.
type CreatePORequest struct {
	SupplierID           string          `json:"supplier_id" validate:"required,uuid"`
	StoreID              string          `json:"store_id" validate:"required,uuid"`
	OrderDate            time.Time       `json:"order_date" validate:"required"`
	ExpectedDeliveryDate time.Time       `json:"expected_delivery_date" validate:"required"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	Notes                string          `json:"notes" validate:"max=1000"`
	Submit               bool            `json:"submit"`
	Items                []POLineRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdatePORequest campos editables mientras la orden no fue aprobada.
type UpdatePORequest struct {
	Notes                *string    `json:"notes" validate:"omitempty,max=1000"`
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
}

// RejectPORequest motivo de rechazo (opcional).
type RejectPORequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// ConfirmPORequest confirmación del proveedor.
type ConfirmPORequest struct {
	ExpectedDeliveryDate *time.Time `json:"expected_delivery_date"`
	SupplierNotes        *string    `json:"supplier_notes" validate:"omitempty,max=1000"`
}

// POListQuery filtros de GET /procurement.
type POListQuery struct {
	PageRequest
	Status     string `query:"status" validate:"omitempty,oneof=draft pending_approval approved sent confirmed delivered cancelled"`
	SupplierID string `query:"supplier_id" validate:"omitempty,uuid"`
	StoreID    string `query:"store_id" validate:"omitempty,uuid"`
}

// POLineResponse línea de la orden.
type POLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Unit        string          `json:"unit"`
}

// POResponse salida de una orden de compra.
type POResponse struct {
	ID                   string           `json:"id"`
	PONumber             string           `json:"po_number"`
	OrderDate            time.Time        `json:"order_date"`
	ExpectedDeliveryDate time.Time        `json:"expected_delivery_date"`
	Status               string           `json:"status"`
	TotalAmount          decimal.Decimal  `json:"total_amount"`
	Notes                string           `json:"notes"`
	SupplierID           string           `json:"supplier_id"`
	StoreID              string           `json:"store_id"`
	ApprovedBy           string           `json:"approved_by,omitempty"`
	ApprovedAt           *time.Time       `json:"approved_at,omitempty"`
	RejectionReason      string           `json:"rejection_reason,omitempty"`
	ConfirmedBy          string           `json:"confirmed_by,omitempty"`
	ConfirmedAt          *time.Time       `json:"confirmed_at,omitempty"`
	SentAt               *time.Time       `json:"sent_at,omitempty"`
	ActualDeliveryDate   *time.Time       `json:"actual_delivery_date,omitempty"`
	SupplierNotes        string           `json:"supplier_notes,omitempty"`
	DispatchDigest       string           `json:"dispatch_digest,omitempty"`
	CreatedBy            string           `json:"created_by"`
	Items                []POLineResponse `json:"items"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

// POListResponse lista paginada de órdenes.
type POListResponse struct {
	Items []POResponse `json:"items"`
	Page  PageResponse `json:"page"`
}

// GRNLineRequest línea recibida.
type GRNLineRequest struct {
	ItemID      string    `json:"item_id" validate:"required,uuid"`
	BatchNo     string    `json:"batch_no" validate:"required,min=1,max=80"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
	ExpiryDate  time.Time `json:"expiry_date" validate:"required"`
	Temperature *float64  `json:"temperature" validate:"omitempty,min=-30,max=50"`
}

// CreateGRNRequest entrada para registrar una recepción.
type CreateGRNRequest struct {
	POID         string           `json:"po_id" validate:"required,uuid"`
	ReceivedDate *time.Time       `json:"received_date"`
	Notes        string           `json:"notes" validate:"max=1000"`
	Items        []GRNLineRequest `json:"items" validate:"required,min=1,dive"`
}

// GRNLineResponse línea de la recepción.
type GRNLineResponse struct {
	ID          string          `json:"id"`
	ItemID      string          `json:"item_id"`
	BatchID     string          `json:"batch_id"`
	BatchNo     string          `json:"batch_no"`
	Quantity    int             `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	ExpiryDate  time.Time       `json:"expiry_date"`
	Temperature *float64        `json:"temperature,omitempty"`
}

// GRNResponse salida de una recepción.
type GRNResponse struct {
	ID           string            `json:"id"`
	GRNNumber    string            `json:"grn_number"`
	POID         string            `json:"po_id"`
	ReceivedBy   string            `json:"received_by"`
	ReceivedDate time.Time         `json:"received_date"`
	Notes        string            `json:"notes"`
	Items        []GRNLineResponse `json:"items,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}

// GRNListResponse lista paginada de recepciones.
type GRNListResponse struct {
	Items []GRNResponse `json:"items"`
	Page  PageResponse  `json:"page"`
}

// GRNListQuery filtros de GET /goods-receipts.
type GRNListQuery struct {
	PageRequest
	POID string `query:"po_id" validate:"omitempty,uuid"`
}
