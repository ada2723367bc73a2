package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product vista del catálogo que necesita el motor de inventario.
// Price es el precio vigente (costo unitario del kardex en ventas); Cost es promedio ponderado.
type Product struct {
	ID         string
	BusinessID string
	SKU        string // código principal
	Name       string
	Price      decimal.Decimal
	Cost       decimal.Decimal
	BaseUnit   string // código de la unidad base (ej. UND)
	UpdatedAt  time.Time
}

// UnitOfMeasure presentación alternativa de un producto (caja, docena, ...).
// FactorBase convierte a la unidad base: cantidadBase = cantidad × FactorBase.
type UnitOfMeasure struct {
	ProductID  string
	Code       string
	FactorBase decimal.Decimal
}
