package inventory

import "github.com/shopspring/decimal"

// CostCalculator implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
func CostCalculator(stockActual, costoActual, cantEntrada, costoEntrada decimal.Decimal) decimal.Decimal {
	sum := stockActual.Add(cantEntrada)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := stockActual.Mul(costoActual).Add(cantEntrada.Mul(costoEntrada))
	return num.Div(sum)
}

// WeightedBatchCost costo del lote después de sumarle una recepción. Redondea a 4 decimales
// para que coincida con la columna NUMERIC(14,4).
func WeightedBatchCost(onHand int, currentCost decimal.Decimal, received int, receivedCost decimal.Decimal) decimal.Decimal {
	return CostCalculator(
		decimal.NewFromInt(int64(onHand)), currentCost,
		decimal.NewFromInt(int64(received)), receivedCost,
	).Round(4)
}
