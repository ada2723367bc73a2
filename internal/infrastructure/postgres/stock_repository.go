package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, warehouse_id, quantity, min_quantity, max_quantity, version, updated_at`

// Create aprovisiona el registro; la PK (product_id, warehouse_id) reporta duplicados.
func (r *StockRepo) Create(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (` + stockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		stock.ProductID, stock.WarehouseID, stock.Quantity, stock.MinQuantity, stock.MaxQuantity,
		stock.Version, stock.UpdatedAt,
	)
	return mapError("create stock", err)
}

// Get obtiene el stock actual de un producto en una bodega.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	return r.getOne(ctx, "get stock", query, productID, warehouseID)
}

// GetForUpdate obtiene el stock y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 AND warehouse_id = $2 FOR UPDATE`
	return r.getOne(ctx, "get stock for update", query, productID, warehouseID)
}

// Update guarda cantidad y umbrales si la versión no cambió desde la lectura.
func (r *StockRepo) Update(ctx context.Context, stock *entity.Stock) error {
	query := `
		UPDATE stock
		SET quantity = $3, min_quantity = $4, max_quantity = $5, version = version + 1, updated_at = $6
		WHERE product_id = $1 AND warehouse_id = $2 AND version = $7`
	tag, err := r.q.Exec(ctx, query,
		stock.ProductID, stock.WarehouseID, stock.Quantity, stock.MinQuantity, stock.MaxQuantity,
		stock.UpdatedAt, stock.Version,
	)
	if err != nil {
		return mapError("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update stock %s/%s: %w", stock.ProductID, stock.WarehouseID, domain.ErrConcurrencyConflict)
	}
	stock.Version++
	return nil
}

// ListBelowMinimum registros con mínimo configurado y existencia por debajo.
func (r *StockRepo) ListBelowMinimum(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock
		WHERE warehouse_id = $1 AND min_quantity > 0 AND quantity < min_quantity
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list below minimum: %w", err)
	}
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *StockRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Stock, error) {
	s, err := scanStock(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return s, nil
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	if err := row.Scan(&s.ProductID, &s.WarehouseID, &s.Quantity, &s.MinQuantity, &s.MaxQuantity, &s.Version, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}
