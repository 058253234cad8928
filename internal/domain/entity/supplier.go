package entity

import (
	"regexp"
	"time"

	"github.com/shopspring/decimal"
)

// PhonePattern formato aceptado para teléfonos de proveedores.
var PhonePattern = regexp.MustCompile(`^[0-9+\-\s()]{7,20}$`)

// Supplier proveedor de mercancía.
type Supplier struct {
	ID               string
	Name             string
	ContactPerson    string
	Email            string
	Phone            string
	Address          string
	LeadTimeDays     int
	ReliabilityScore decimal.Decimal // 0..100
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// SupplierItem mapeo proveedor ↔ ítem con precio, MOQ y vigencia.
type SupplierItem struct {
	ID            string
	SupplierID    string
	ItemID        string
	UnitPrice     decimal.Decimal
	Currency      string
	MinOrderQty   int
	LeadTimeDays  int
	IsPreferred   bool
	IsActive      bool
	EffectiveFrom *time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidAt indica si la vigencia del mapeo cubre el instante at (límites abiertos permitidos).
func (s *SupplierItem) ValidAt(at time.Time) bool {
	if s.EffectiveFrom != nil && at.Before(*s.EffectiveFrom) {
		return false
	}
	if s.EffectiveTo != nil && at.After(*s.EffectiveTo) {
		return false
	}
	return true
}
