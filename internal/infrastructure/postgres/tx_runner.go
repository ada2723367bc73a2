package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/Cartera-api/internal/application/cartera"
	"github.com/jhoicas/Cartera-api/internal/application/inventory"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and cartera.TxRunner.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ cartera.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	kardexRepo repository.KardexRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewKardexRepository(tx), NewStockRepository(tx), NewProductRepository(tx))
	})
}

// RunCartera inicia una transacción con el repositorio de cuentas (cabecera y asientos juntos).
func (r *TxRunner) RunCartera(ctx context.Context, fn func(accounts repository.AccountRepository) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewAccountRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return mapError("commit transaction", err)
	}
	return nil
}
