package procurement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TotalTolerance diferencia relativa admitida entre el total declarado y el calculado.
var TotalTolerance = decimal.NewFromFloat(0.01)

// CheckTotal verifica que el total declarado sea > 0 y esté dentro del 1% de la suma de líneas.
func CheckTotal(declared, computed decimal.Decimal) error {
	if !declared.IsPositive() {
		return fmt.Errorf("total_amount debe ser mayor que 0")
	}
	if computed.IsZero() {
		return fmt.Errorf("las líneas no suman importe")
	}
	diff := declared.Sub(computed).Abs()
	if diff.GreaterThan(computed.Mul(TotalTolerance)) {
		return fmt.Errorf("total_amount %s no coincide con la suma de líneas %s", declared.StringFixed(2), computed.StringFixed(2))
	}
	return nil
}

// FormatPONumber número visible de la orden.
func FormatPONumber(seq int64) string {
	return fmt.Sprintf("PO-%d", seq)
}

// FormatGRNNumber número de recepción: GRN-{unix}-{poNumber}.
func FormatGRNNumber(unix int64, poNumber string) string {
	return fmt.Sprintf("GRN-%d-%s", unix, poNumber)
}
