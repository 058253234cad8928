package inventory

import (
	"time"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// BatchStatus estado del lote según la cantidad disponible y el nivel mínimo del ítem.
// 0 → out_of_stock; por debajo del mínimo → low_stock; resto → in_stock.
func BatchStatus(qty, minStockLevel int) string {
	if minStockLevel <= 0 {
		minStockLevel = entity.DefaultMinStockLevel
	}
	switch {
	case qty <= 0:
		return entity.BatchOutOfStock
	case qty < minStockLevel:
		return entity.BatchLowStock
	default:
		return entity.BatchInStock
	}
}

// Sellable indica si un lote puede consumirse en una venta.
func Sellable(b *entity.InventoryBatch, now time.Time) bool {
	if b.QuantityOnHand <= 0 {
		return false
	}
	if b.Status != entity.BatchInStock && b.Status != entity.BatchLowStock {
		return false
	}
	return !b.ExpiryDate.Before(startOfDay(now))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
