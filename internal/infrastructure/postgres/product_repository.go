package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo lectura del catálogo para inventario (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, company_id, sku, name, price, cost, unit_measure, updated_at
		FROM products WHERE id = $1`
	var p entity.Product
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.BusinessID, &p.SKU, &p.Name, &p.Price, &p.Cost, &p.BaseUnit, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get product", err)
	}
	return &p, nil
}

// ListUnits presentaciones alternativas del producto.
func (r *ProductRepo) ListUnits(ctx context.Context, productID string) ([]entity.UnitOfMeasure, error) {
	rows, err := r.q.Query(ctx,
		`SELECT product_id, code, factor_base FROM product_units WHERE product_id = $1 ORDER BY code`, productID)
	if err != nil {
		return nil, fmt.Errorf("list product units: %w", err)
	}
	defer rows.Close()
	var units []entity.UnitOfMeasure
	for rows.Next() {
		var u entity.UnitOfMeasure
		if err := rows.Scan(&u.ProductID, &u.Code, &u.FactorBase); err != nil {
			return nil, fmt.Errorf("scan product unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// UpdateCost actualiza el costo promedio ponderado del producto.
func (r *ProductRepo) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	tag, err := r.q.Exec(ctx, `UPDATE products SET cost = $2, updated_at = now() WHERE id = $1`, productID, cost)
	if err != nil {
		return mapError("update product cost", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update product cost %s: %w", productID, domain.ErrNotFound)
	}
	return nil
}
