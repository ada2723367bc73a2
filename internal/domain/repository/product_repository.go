package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProductRepository puerto de lectura del catálogo (precio vigente, unidades) y actualización del costo promedio.
type ProductRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	ListUnits(ctx context.Context, productID string) ([]entity.UnitOfMeasure, error)
	UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error
}
