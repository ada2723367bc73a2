package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// KardexLine movimiento con la existencia acumulada del kardex tras aplicarlo.
type KardexLine struct {
	Movement *entity.KardexMovement
	Balance  decimal.Decimal
}

// ListKardex devuelve el kardex del producto en orden cronológico con saldo acumulado.
// El saldo parte de Σ(in − out) anterior a filter.From y se calcula antes de paginar.
// Las devoluciones y reservas no generan kardex, por lo que el saldo puede diferir del stock.
func (uc *StockMovementUseCase) ListKardex(ctx context.Context, filter repository.KardexFilter, limit, offset int) ([]KardexLine, int, error) {
	if filter.ProductID == "" {
		return nil, 0, fmt.Errorf("%w: producto requerido", domain.ErrInvalidInput)
	}
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, 0, fmt.Errorf("%w: rango de fechas invertido", domain.ErrInvalidInput)
	}
	balance := decimal.Zero
	if filter.From != nil {
		opening, err := uc.kardex.NetBefore(ctx, filter.ProductID, filter.WarehouseID, *filter.From)
		if err != nil {
			return nil, 0, err
		}
		balance = opening
	}
	movements, err := uc.kardex.List(ctx, filter, 0, 0)
	if err != nil {
		return nil, 0, err
	}

	lines := make([]KardexLine, 0, len(movements))
	for _, m := range movements {
		balance = balance.Add(m.Net())
		lines = append(lines, KardexLine{Movement: m, Balance: balance})
	}

	total := len(lines)
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []KardexLine{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return lines[offset:end], total, nil
}
