package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Cartera-api/internal/application/txretry"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	invdomain "github.com/jhoicas/Cartera-api/internal/domain/inventory"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/jhoicas/Cartera-api/pkg/clock"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// StockMovementUseCase muta existencias por producto+bodega con bloqueo de fila (SELECT FOR UPDATE)
// y registra el movimiento de kardex en la misma transacción.
type StockMovementUseCase struct {
	txRunner TxRunner
	stock    repository.StockRepository
	kardex   repository.KardexRepository
	clock    clock.Clock
	log      zerolog.Logger
	newID    func() string
	retries  int
}

// NewStockMovementUseCase construye el caso de uso. stock y kardex se usan solo para lecturas fuera de tx.
func NewStockMovementUseCase(
	txRunner TxRunner,
	stock repository.StockRepository,
	kardex repository.KardexRepository,
	clk clock.Clock,
	log zerolog.Logger,
	conflictRetries int,
) *StockMovementUseCase {
	return &StockMovementUseCase{
		txRunner: txRunner,
		stock:    stock,
		kardex:   kardex,
		clock:    clk,
		log:      log,
		newID:    func() string { return uuid.New().String() },
		retries:  conflictRetries,
	}
}

// ProvisionInput alta del registro de stock de un par producto+bodega.
type ProvisionInput struct {
	ProductID   string
	WarehouseID string
	Initial     decimal.Decimal
	MinQuantity decimal.Decimal
	MaxQuantity decimal.Decimal
}

// ProvisionStock crea el registro de stock; domain.ErrDuplicate si ya existe.
func (uc *StockMovementUseCase) ProvisionStock(ctx context.Context, in ProvisionInput) (*entity.Stock, error) {
	var created *entity.Stock
	err := uc.txRunner.Run(ctx, func(_ repository.KardexRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		product, err := productRepo.GetByID(ctx, in.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, in.ProductID)
		}
		s, err := entity.NewStock(in.ProductID, in.WarehouseID, in.Initial, in.MinQuantity, in.MaxQuantity, uc.clock.Now())
		if err != nil {
			return err
		}
		if err := stockRepo.Create(ctx, s); err != nil {
			return err
		}
		created = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// GetStock existencia actual; domain.ErrNotFound si el par no está aprovisionado.
func (uc *StockMovementUseCase) GetStock(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	s, err := uc.stock.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ListLowStock registros de la bodega por debajo de su mínimo.
func (uc *StockMovementUseCase) ListLowStock(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	if warehouseID == "" {
		return nil, fmt.Errorf("%w: bodega requerida", domain.ErrInvalidInput)
	}
	return uc.stock.ListBelowMinimum(ctx, warehouseID)
}

// ReserveOrDecrease descuenta existencia sin kardex (reserva al ingresar el pedido).
func (uc *StockMovementUseCase) ReserveOrDecrease(ctx context.Context, productID, warehouseID string, quantity decimal.Decimal) error {
	if err := requirePositive(quantity); err != nil {
		return err
	}
	return uc.run(ctx, "reserve_stock", func(kardexRepo repository.KardexRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		_, err := uc.decreaseInTx(ctx, stockRepo, productID, warehouseID, quantity, uc.clock.Now())
		return err
	})
}

// IncreaseForReceipt suma existencia por compra, actualiza el costo promedio y registra una ENTRADA.
func (uc *StockMovementUseCase) IncreaseForReceipt(ctx context.Context, productID, warehouseID string, quantity, unitCost decimal.Decimal, sourceID string) error {
	if err := requirePositive(quantity); err != nil {
		return err
	}
	if unitCost.IsNegative() {
		return fmt.Errorf("%w: costo unitario negativo", domain.ErrInvalidInput)
	}
	return uc.run(ctx, "receipt_stock", func(kardexRepo repository.KardexRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		return uc.receiptInTx(ctx, kardexRepo, stockRepo, productRepo, productID, warehouseID, quantity, unitCost, sourceID, uc.clock.Now())
	})
}

// DecreaseForSale descuenta existencia por venta y registra una SALIDA al precio vigente del producto.
func (uc *StockMovementUseCase) DecreaseForSale(ctx context.Context, productID, warehouseID string, quantity decimal.Decimal, sourceID string) error {
	if err := requirePositive(quantity); err != nil {
		return err
	}
	return uc.run(ctx, "sale_stock", func(kardexRepo repository.KardexRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) error {
		return uc.saleInTx(ctx, kardexRepo, stockRepo, productRepo, productID, warehouseID, quantity, sourceID, uc.clock.Now())
	})
}

// Return reingresa existencia por devolución. quantity <= 0 no hace nada.
// No registra kardex: la devolución es una corrección de la reserva, no un evento de negocio.
func (uc *StockMovementUseCase) Return(ctx context.Context, productID, warehouseID string, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return nil
	}
	return uc.run(ctx, "return_stock", func(_ repository.KardexRepository, stockRepo repository.StockRepository, _ repository.ProductRepository) error {
		s, err := lockStock(ctx, stockRepo, productID, warehouseID)
		if err != nil {
			return err
		}
		if err := s.Increase(entity.RoundQuantity(quantity), uc.clock.Now()); err != nil {
			return err
		}
		return stockRepo.Update(ctx, s)
	})
}

func (uc *StockMovementUseCase) run(ctx context.Context, op string, fn func(repository.KardexRepository, repository.StockRepository, repository.ProductRepository) error) error {
	return txretry.Do(ctx, uc.retries, uc.log, op, func() error {
		return uc.txRunner.Run(ctx, fn)
	})
}

// decreaseInTx: bloquea fila, verifica existencia >= cantidad y resta.
func (uc *StockMovementUseCase) decreaseInTx(ctx context.Context, stockRepo repository.StockRepository, productID, warehouseID string, quantity decimal.Decimal, now time.Time) (*entity.Stock, error) {
	s, err := lockStock(ctx, stockRepo, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if err := s.Decrease(entity.RoundQuantity(quantity), now); err != nil {
		return nil, err
	}
	if err := stockRepo.Update(ctx, s); err != nil {
		return nil, err
	}
	if s.BelowMinimum() {
		uc.log.Warn().
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Str("quantity", s.Quantity.String()).
			Str("min", s.MinQuantity.String()).
			Msg("stock bajo el mínimo")
	}
	return s, nil
}

// saleInTx: decreaseInTx + SALIDA con costo unitario = precio vigente del producto.
func (uc *StockMovementUseCase) saleInTx(
	ctx context.Context,
	kardexRepo repository.KardexRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	productID, warehouseID string,
	quantity decimal.Decimal,
	sourceID string,
	now time.Time,
) error {
	product, err := getProduct(ctx, productRepo, productID)
	if err != nil {
		return err
	}
	qty := entity.RoundQuantity(quantity)
	if _, err := uc.decreaseInTx(ctx, stockRepo, productID, warehouseID, qty, now); err != nil {
		return err
	}
	mov, err := entity.NewSalida(uc.newID(), productID, warehouseID, qty, product.Price, entity.KardexSourceInvoice, sourceID, now)
	if err != nil {
		return err
	}
	return kardexRepo.Create(ctx, mov)
}

// receiptInTx: bloquea fila, recalcula costo promedio, suma existencia y guarda la ENTRADA.
func (uc *StockMovementUseCase) receiptInTx(
	ctx context.Context,
	kardexRepo repository.KardexRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
	productID, warehouseID string,
	quantity, unitCost decimal.Decimal,
	sourceID string,
	now time.Time,
) error {
	product, err := getProduct(ctx, productRepo, productID)
	if err != nil {
		return err
	}
	s, err := lockStock(ctx, stockRepo, productID, warehouseID)
	if err != nil {
		return err
	}
	qty := entity.RoundQuantity(quantity)
	newCost := invdomain.WeightedAverageCost(s.Quantity, product.Cost, qty, unitCost)
	if err := s.Increase(qty, now); err != nil {
		return err
	}
	if err := stockRepo.Update(ctx, s); err != nil {
		return err
	}
	if err := productRepo.UpdateCost(ctx, productID, newCost); err != nil {
		return err
	}
	mov, err := entity.NewEntrada(uc.newID(), productID, warehouseID, qty, unitCost, entity.KardexSourcePurchase, sourceID, now)
	if err != nil {
		return err
	}
	if err := kardexRepo.Create(ctx, mov); err != nil {
		return err
	}
	if s.AboveMaximum() {
		uc.log.Warn().
			Str("product_id", productID).
			Str("warehouse_id", warehouseID).
			Str("quantity", s.Quantity.String()).
			Str("max", s.MaxQuantity.String()).
			Msg("stock sobre el máximo tras ingreso")
	}
	return nil
}

func lockStock(ctx context.Context, stockRepo repository.StockRepository, productID, warehouseID string) (*entity.Stock, error) {
	s, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, fmt.Errorf("%w: stock de %s en bodega %s", domain.ErrNotFound, productID, warehouseID)
	}
	return s, nil
}

func getProduct(ctx context.Context, productRepo repository.ProductRepository, productID string) (*entity.Product, error) {
	p, err := productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
	}
	return p, nil
}

func requirePositive(quantity decimal.Decimal) error {
	if !entity.RoundQuantity(quantity).IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	return nil
}
