package procurement

// RoundToMOQ redondea la cantidad al múltiplo superior del mínimo de compra.
// qty ≤ moq → moq; si no, ceil(qty/moq)*moq.
func RoundToMOQ(qty, moq int) int {
	if moq <= 1 {
		if qty < 1 {
			return 1
		}
		return qty
	}
	if qty <= moq {
		return moq
	}
	return ((qty + moq - 1) / moq) * moq
}
