package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Cartera-api/internal/domain/inventory"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// DocumentLine línea de factura o compra expresada en cualquier presentación del producto.
// UnitCode vacío equivale a la unidad base. UnitCost solo aplica a compras y es por presentación.
type DocumentLine struct {
	ProductID string
	Quantity  decimal.Decimal
	UnitCode  string
	UnitCost  decimal.Decimal
}

// ApplySaleLines descuenta cada línea de la factura (convertida a unidad base) y registra sus SALIDA.
// Todas las líneas se aplican en una sola transacción: si una falla no se aplica ninguna.
func (uc *StockMovementUseCase) ApplySaleLines(ctx context.Context, invoiceID, warehouseID string, lines []DocumentLine) error {
	if err := validateLines(invoiceID, warehouseID, lines); err != nil {
		return err
	}
	return uc.run(ctx, "apply_sale_lines", func(kardexRepo repository.KardexRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		now := uc.clock.Now()
		for i, line := range lines {
			qtyBase, _, err := toBase(ctx, productRepo, line)
			if err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			if err := uc.saleInTx(ctx, kardexRepo, stockRepo, productRepo, line.ProductID, warehouseID, qtyBase, invoiceID, now); err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
		}
		return nil
	})
}

// ApplyPurchaseLines ingresa cada línea de la compra (convertida a unidad base, costo repartido por unidad base)
// y registra sus ENTRADA, todo en una transacción.
func (uc *StockMovementUseCase) ApplyPurchaseLines(ctx context.Context, purchaseID, warehouseID string, lines []DocumentLine) error {
	if err := validateLines(purchaseID, warehouseID, lines); err != nil {
		return err
	}
	for i, line := range lines {
		if line.UnitCost.IsNegative() {
			return fmt.Errorf("línea %d: %w: costo unitario negativo", i+1, domain.ErrInvalidInput)
		}
	}
	return uc.run(ctx, "apply_purchase_lines", func(kardexRepo repository.KardexRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		now := uc.clock.Now()
		for i, line := range lines {
			qtyBase, factor, err := toBase(ctx, productRepo, line)
			if err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
			unitCost := invdomain.UnitCostPerBase(line.UnitCost, factor)
			if err := uc.receiptInTx(ctx, kardexRepo, stockRepo, productRepo, line.ProductID, warehouseID, qtyBase, unitCost, purchaseID, now); err != nil {
				return fmt.Errorf("línea %d: %w", i+1, err)
			}
		}
		return nil
	})
}

func validateLines(sourceID, warehouseID string, lines []DocumentLine) error {
	if sourceID == "" || warehouseID == "" || len(lines) == 0 {
		return fmt.Errorf("%w: documento, bodega y líneas requeridos", domain.ErrInvalidInput)
	}
	for i, line := range lines {
		if line.ProductID == "" || !line.Quantity.IsPositive() {
			return fmt.Errorf("línea %d: %w: producto y cantidad positiva requeridos", i+1, domain.ErrInvalidInput)
		}
	}
	return nil
}

// toBase resuelve el factor de la presentación y convierte la cantidad a la unidad base.
func toBase(ctx context.Context, productRepo repository.ProductRepository, line DocumentLine) (decimal.Decimal, decimal.Decimal, error) {
	product, err := getProduct(ctx, productRepo, line.ProductID)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	var units []entity.UnitOfMeasure
	if line.UnitCode != "" && line.UnitCode != product.BaseUnit {
		if units, err = productRepo.ListUnits(ctx, product.ID); err != nil {
			return decimal.Zero, decimal.Zero, err
		}
	}
	factor, err := invdomain.ResolveFactor(product, units, line.UnitCode)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	qty, err := invdomain.ToBaseQuantity(line.Quantity, factor)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return qty, factor, nil
}
