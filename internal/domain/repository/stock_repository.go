package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar stock por bodega+producto.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	// Create aprovisiona el registro; domain.ErrDuplicate si ya existe.
	Create(ctx context.Context, stock *entity.Stock) error
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE). (nil, nil) si no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// Update guarda la cantidad con control de versión (domain.ErrConcurrencyConflict).
	Update(ctx context.Context, stock *entity.Stock) error
	ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.Stock, error)
}
