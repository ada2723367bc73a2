package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Tipos de movimiento del kardex.
const (
	KardexTypeEntrada = "ENTRADA" // ingreso por compra
	KardexTypeSalida  = "SALIDA"  // egreso por venta
)

// Tipos de documento que originan un movimiento.
const (
	KardexSourcePurchase = "PURCHASE"
	KardexSourceInvoice  = "INVOICE"
)

// KardexMovement registro inmutable del kardex. Solo uno de QuantityIn/QuantityOut es distinto de cero.
type KardexMovement struct {
	ID          string
	ProductID   string
	WarehouseID string
	Date        time.Time
	QuantityIn  decimal.Decimal
	QuantityOut decimal.Decimal
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal // UnitCost × max(in, out)
	Type        string
	SourceType  string
	SourceID    string // compra, factura o ajuste (opcional)
	CreatedAt   time.Time
}

// NewEntrada construye un movimiento de ingreso.
func NewEntrada(id, productID, warehouseID string, qty, unitCost decimal.Decimal, sourceType, sourceID string, now time.Time) (*KardexMovement, error) {
	return newKardex(id, productID, warehouseID, KardexTypeEntrada, qty, unitCost, sourceType, sourceID, now)
}

// NewSalida construye un movimiento de egreso.
func NewSalida(id, productID, warehouseID string, qty, unitCost decimal.Decimal, sourceType, sourceID string, now time.Time) (*KardexMovement, error) {
	return newKardex(id, productID, warehouseID, KardexTypeSalida, qty, unitCost, sourceType, sourceID, now)
}

func newKardex(id, productID, warehouseID, typ string, qty, unitCost decimal.Decimal, sourceType, sourceID string, now time.Time) (*KardexMovement, error) {
	if !qty.IsPositive() {
		return nil, fmt.Errorf("%w: cantidad del kardex debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if unitCost.IsNegative() {
		return nil, fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	m := &KardexMovement{
		ID:          id,
		ProductID:   productID,
		WarehouseID: warehouseID,
		Date:        now,
		QuantityIn:  decimal.Zero,
		QuantityOut: decimal.Zero,
		UnitCost:    unitCost,
		TotalCost:   RoundMoney(qty.Mul(unitCost)),
		Type:        typ,
		SourceType:  sourceType,
		SourceID:    sourceID,
		CreatedAt:   now,
	}
	if typ == KardexTypeEntrada {
		m.QuantityIn = qty
	} else {
		m.QuantityOut = qty
	}
	return m, nil
}

// Net cantidad firmada: positiva en ENTRADA, negativa en SALIDA.
func (m *KardexMovement) Net() decimal.Decimal {
	return m.QuantityIn.Sub(m.QuantityOut)
}
