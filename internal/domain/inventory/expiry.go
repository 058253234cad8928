package inventory

import (
	"math"
	"time"
)

// Estado de vencimiento en el reporte de ítems vencidos.
const (
	ExpiryExpired      = "expired"
	ExpiryExpiresToday = "expires_today"
	ExpiryNear         = "near_expiry"
)

// DaysUntilExpiry días calendario entre hoy y el vencimiento (negativo si ya venció).
func DaysUntilExpiry(expiry, now time.Time) int {
	e := startOfDay(expiry.In(now.Location()))
	return int(math.Ceil(e.Sub(startOfDay(now)).Hours() / 24))
}

// ExpiryStatus clasifica los días restantes.
func ExpiryStatus(days int) string {
	switch {
	case days < 0:
		return ExpiryExpired
	case days == 0:
		return ExpiryExpiresToday
	default:
		return ExpiryNear
	}
}

// ShelfLifeUsed porcentaje de vida útil consumido desde la creación del lote.
// Devuelve -1 si el lote no tiene vida útil positiva.
func ShelfLifeUsed(createdAt, expiry, now time.Time) float64 {
	total := expiry.Sub(createdAt)
	if total <= 0 {
		return -1
	}
	return float64(now.Sub(createdAt)) / float64(total) * 100
}

// NearingExpiry indica si el lote consumió entre 80% y 100% de su vida útil.
func NearingExpiry(createdAt, expiry, now time.Time) bool {
	used := ShelfLifeUsed(createdAt, expiry, now)
	return used >= 80 && used < 100
}
