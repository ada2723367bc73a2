package inventory

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// Garantiza que la mutación de stock y su movimiento de kardex se confirmen o descarten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		kardexRepo repository.KardexRepository,
		stockRepo repository.StockRepository,
		productRepo repository.ProductRepository,
	) error) error
}
