package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// KardexFilter filtro de consulta del kardex por producto (y opcionalmente bodega y rango de fechas).
type KardexFilter struct {
	ProductID   string
	WarehouseID string
	From        *time.Time
	To          *time.Time
}

// KardexRepository puerto del kardex. Solo inserción: no hay Update ni Delete.
type KardexRepository interface {
	Create(ctx context.Context, movement *entity.KardexMovement) error
	// List en orden cronológico ascendente.
	List(ctx context.Context, filter KardexFilter, limit, offset int) ([]*entity.KardexMovement, error)
	// NetBefore Σ(in − out) de los movimientos previos a "before" (saldo inicial del listado).
	NetBefore(ctx context.Context, productID, warehouseID string, before time.Time) (decimal.Decimal, error)
}
