package inventory

import (
	"fmt"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ToBaseQuantity convierte una cantidad expresada en una presentación a la unidad base del producto.
// factorBase <= 0 es un defecto de datos maestros (ErrInvalidConfiguration).
func ToBaseQuantity(quantity, factorBase decimal.Decimal) (decimal.Decimal, error) {
	if !factorBase.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: factor de conversión %s", domain.ErrInvalidConfiguration, factorBase.String())
	}
	return entity.RoundQuantity(quantity.Mul(factorBase)), nil
}

// ResolveFactor devuelve el factor de la presentación unitCode. La unidad base (o código vacío) vale 1.
func ResolveFactor(product *entity.Product, units []entity.UnitOfMeasure, unitCode string) (decimal.Decimal, error) {
	if unitCode == "" || unitCode == product.BaseUnit {
		return decimal.NewFromInt(1), nil
	}
	for _, u := range units {
		if u.Code == unitCode {
			return u.FactorBase, nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: unidad %q no configurada para el producto %s", domain.ErrInvalidConfiguration, unitCode, product.ID)
}

// UnitCostPerBase reparte el costo de la presentación entre las unidades base.
func UnitCostPerBase(unitCost, factorBase decimal.Decimal) decimal.Decimal {
	if !factorBase.IsPositive() {
		return unitCost
	}
	return unitCost.DivRound(factorBase, 6)
}
