package inventory

import (
	"math"
	"math/rand"

	"github.com/jhoicas/supply-chain-api/internal/domain/entity"
)

// Límites físicos aceptados para una lectura manual.
const (
	MinSettableTemperature = -30.0
	MaxSettableTemperature = 50.0
)

// TemperatureRange rango permitido del ítem; sin valores propios usa el del tipo de almacenamiento
// (frozen: -18..-15, cold: 2..8).
func TemperatureRange(item *entity.Item) (min, max float64) {
	min, max = 2, 8
	if item.StorageType == entity.StorageFrozen {
		min, max = -18, -15
	}
	if item.MinTemperature != nil {
		min = *item.MinTemperature
	}
	if item.MaxTemperature != nil {
		max = *item.MaxTemperature
	}
	return min, max
}

// OutOfRange indica si t está fuera de [min, max].
func OutOfRange(t, min, max float64) bool {
	return t < min || t > max
}

// SimulateReading genera una lectura de sensor: 5% de las veces fuera de rango (1 a 6 grados por
// encima o por debajo); el resto centro ± 2 acotado a [min-2, max+2]. Redondea a 0.1.
func SimulateReading(rng *rand.Rand, min, max float64) float64 {
	var t float64
	if rng.Float64() < 0.05 {
		if rng.Float64() > 0.5 {
			t = max + rng.Float64()*5 + 1
		} else {
			t = min - rng.Float64()*5 - 1
		}
	} else {
		center := (min + max) / 2
		t = center + (rng.Float64()-0.5)*4
		t = math.Max(min-2, math.Min(max+2, t))
	}
	return math.Round(t*10) / 10
}
