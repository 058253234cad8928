package procurement

import (
	"time"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// BestMapping elige el proveedor de un ítem: entre los mapeos activos se quedan los vigentes en at
// (si ninguno lo está, se usan todos los activos); gana el preferido y si no hay, el de menor precio.
func BestMapping(mappings []*entity.SupplierItem, at time.Time) *entity.SupplierItem {
	var active, valid []*entity.SupplierItem
	for _, m := range mappings {
		if !m.IsActive {
			continue
		}
		active = append(active, m)
		if m.ValidAt(at) {
			valid = append(valid, m)
		}
	}
	candidates := valid
	if len(candidates) == 0 {
		candidates = active
	}
	if len(candidates) == 0 {
		return nil
	}
	for _, m := range candidates {
		if m.IsPreferred {
			return m
		}
	}
	best := candidates[0]
	for _, m := range candidates[1:] {
		if m.UnitPrice.LessThan(best.UnitPrice) {
			best = m
		}
	}
	return best
}
