package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// Allocation cantidad tomada de un lote en una salida FIFO.
type Allocation struct {
	Batch    *entity.InventoryBatch
	Quantity int
	Cost     decimal.Decimal // Quantity * UnitCost del lote
}

// SortFIFO ordena los lotes por vencimiento ascendente y luego por fecha de creación.
func SortFIFO(batches []*entity.InventoryBatch) {
	sort.SliceStable(batches, func(i, j int) bool {
		if !batches[i].ExpiryDate.Equal(batches[j].ExpiryDate) {
			return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
		}
		return batches[i].CreatedAt.Before(batches[j].CreatedAt)
	})
}

// AllocateFIFO reparte qty sobre los lotes vendibles, del que vence primero al último.
// No modifica los lotes. Devuelve las asignaciones y la demanda que quedó sin cubrir.
func AllocateFIFO(batches []*entity.InventoryBatch, qty int, now time.Time) ([]Allocation, int) {
	ordered := make([]*entity.InventoryBatch, 0, len(batches))
	for _, b := range batches {
		if Sellable(b, now) {
			ordered = append(ordered, b)
		}
	}
	SortFIFO(ordered)

	remaining := qty
	var out []Allocation
	for _, b := range ordered {
		if remaining <= 0 {
			break
		}
		take := b.QuantityOnHand
		if take > remaining {
			take = remaining
		}
		out = append(out, Allocation{
			Batch:    b,
			Quantity: take,
			Cost:     b.UnitCost.Mul(decimal.NewFromInt(int64(take))),
		})
		remaining -= take
	}
	return out, remaining
}

// TotalCost suma el costo de las asignaciones.
func TotalCost(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Cost)
	}
	return total
}
