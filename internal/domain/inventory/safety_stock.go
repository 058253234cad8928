package inventory

import (
	"math"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

const (
	// DemandWindowDays ventana de ventas usada para estimar la demanda diaria.
	DemandWindowDays = 30
	safetyFactor     = 1.5
)

// SafetyStockInput datos necesarios para estimar el stock de seguridad de un ítem.
type SafetyStockInput struct {
	Item         *entity.Item
	SoldQty      int // unidades vendidas en la ventana
	SalesCount   int // número de ventas en la ventana
	LeadTimeDays int
}

// SafetyStock devuelve el stock de seguridad: el valor manual si existe; si no hay ventas,
// el nivel mínimo; en otro caso max(ceil(promedioDiario * leadTime * 1.5), nivel mínimo).
func SafetyStock(in SafetyStockInput) int {
	if manual, ok := in.Item.ManualSafetyStock(); ok {
		return manual
	}
	floor := in.Item.EffectiveMinStock()
	if in.SalesCount == 0 || in.SoldQty <= 0 {
		return floor
	}
	lead := in.LeadTimeDays
	if lead <= 0 {
		lead = 1
	}
	avgDaily := float64(in.SoldQty) / DemandWindowDays
	calc := int(math.Ceil(avgDaily * float64(lead) * safetyFactor))
	if calc < floor {
		return floor
	}
	return calc
}
