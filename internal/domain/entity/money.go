package entity

import "github.com/shopspring/decimal"

// Escalas de punto fijo: montos en centavos (USD, Ecuador) y cantidades con 4 decimales.
const (
	MoneyScale    int32 = 2
	QuantityScale int32 = 4
)

// RoundMoney redondea un monto a 2 decimales (half-up).
func RoundMoney(d decimal.Decimal) decimal.Decimal {
	return d.Round(MoneyScale)
}

// RoundQuantity redondea una cantidad a 4 decimales.
func RoundQuantity(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityScale)
}
