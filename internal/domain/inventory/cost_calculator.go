package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo promedio ponderado tras un ingreso:
// ((existencia × costoActual) + (cantIngreso × costoIngreso)) / (existencia + cantIngreso).
// Sin existencia resultante devuelve costoIngreso.
func WeightedAverageCost(onHand, currentCost, receivedQty, receivedCost decimal.Decimal) decimal.Decimal {
	total := onHand.Add(receivedQty)
	if !total.IsPositive() {
		return receivedCost
	}
	if !onHand.IsPositive() {
		return receivedCost
	}
	value := onHand.Mul(currentCost).Add(receivedQty.Mul(receivedCost))
	return value.DivRound(total, 6)
}
