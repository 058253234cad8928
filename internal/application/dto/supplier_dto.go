package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name             string           `json:"name" validate:"required,min=2,max=200"`
	ContactPerson    string           `json:"contact_person" validate:"max=150"`
	Email            string           `json:"email" validate:"omitempty,email"`
	Phone            string           `json:"phone" validate:"omitempty,phone"`
	Address          string           `json:"address" validate:"max=300"`
	LeadTimeDays     int              `json:"lead_time_days" validate:"min=0"`
	ReliabilityScore *decimal.Decimal `json:"reliability_score"`
}

// UpdateSupplierRequest entrada para actualizar un proveedor.
type UpdateSupplierRequest struct {
	Name             *string          `json:"name" validate:"omitempty,min=2,max=200"`
	ContactPerson    *string          `json:"contact_person" validate:"omitempty,max=150"`
	Email            *string          `json:"email" validate:"omitempty,email"`
	Phone            *string          `json:"phone" validate:"omitempty,phone"`
	Address          *string          `json:"address" validate:"omitempty,max=300"`
	LeadTimeDays     *int             `json:"lead_time_days" validate:"omitempty,min=0"`
	ReliabilityScore *decimal.Decimal `json:"reliability_score"`
	IsActive         *bool            `json:"is_active"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	ContactPerson    string          `json:"contact_person"`
	Email            string          `json:"email"`
	Phone            string          `json:"phone"`
	Address          string          `json:"address"`
	LeadTimeDays     int             `json:"lead_time_days"`
	ReliabilityScore decimal.Decimal `json:"reliability_score"`
	IsActive         bool            `json:"is_active"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateSupplierItemRequest entrada para mapear un ítem a un proveedor.
type CreateSupplierItemRequest struct {
	SupplierID    string          `json:"supplier_id" validate:"required,uuid"`
	ItemID        string          `json:"item_id" validate:"required,uuid"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Currency      string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	MinOrderQty   int             `json:"min_order_qty" validate:"min=0"`
	LeadTimeDays  int             `json:"lead_time_days" validate:"min=0"`
	IsPreferred   bool            `json:"is_preferred"`
	EffectiveFrom *time.Time      `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to"`
}

// UpdateSupplierItemRequest campos editables del mapeo.
type UpdateSupplierItemRequest struct {
	UnitPrice     *decimal.Decimal `json:"unit_price"`
	Currency      *string          `json:"currency" validate:"omitempty,len=3,uppercase"`
	MinOrderQty   *int             `json:"min_order_qty" validate:"omitempty,min=1"`
	LeadTimeDays  *int             `json:"lead_time_days" validate:"omitempty,min=0"`
	IsPreferred   *bool            `json:"is_preferred"`
	IsActive      *bool            `json:"is_active"`
	EffectiveFrom *time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time       `json:"effective_to"`
}

// SupplierItemResponse salida del mapeo proveedor-ítem.
type SupplierItemResponse struct {
	ID            string          `json:"id"`
	SupplierID    string          `json:"supplier_id"`
	ItemID        string          `json:"item_id"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Currency      string          `json:"currency"`
	MinOrderQty   int             `json:"min_order_qty"`
	LeadTimeDays  int             `json:"lead_time_days"`
	IsPreferred   bool            `json:"is_preferred"`
	IsActive      bool            `json:"is_active"`
	EffectiveFrom *time.Time      `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}
