package entity

import "time"

// Tipos de almacenamiento en frío.
const (
	StorageCold   = "cold"
	StorageFrozen = "frozen"
)

// DefaultMinStockLevel nivel mínimo cuando el ítem no define uno.
const DefaultMinStockLevel = 10

// Item artículo del catálogo. El stock vive en InventoryBatch por tienda.
type Item struct {
	ID             string
	ItemName       string
	SKU            string // único
	Category       string
	Unit           string
	MinStockLevel  int
	MaxStockLevel  int
	SafetyStock    *int // manual; nil o 0 = calculado por demanda
	StorageType    string
	MinTemperature *float64
	MaxTemperature *float64
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EffectiveMinStock devuelve MinStockLevel o el valor por defecto.
func (i *Item) EffectiveMinStock() int {
	if i.MinStockLevel > 0 {
		return i.MinStockLevel
	}
	return DefaultMinStockLevel
}

// ManualSafetyStock devuelve el stock de seguridad manual si está definido y es > 0.
func (i *Item) ManualSafetyStock() (int, bool) {
	if i.SafetyStock != nil && *i.SafetyStock > 0 {
		return *i.SafetyStock, true
	}
	return 0, false
}
