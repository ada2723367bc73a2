package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.KardexRepository = (*KardexRepo)(nil)

// KardexRepo implementación sobre PostgreSQL (usable con pool o tx). La tabla kardex es solo inserción.
type KardexRepo struct {
	q Querier
}

// NewKardexRepository construye el adaptador. Pasar pool o tx (Querier).
func NewKardexRepository(q Querier) *KardexRepo {
	return &KardexRepo{q: q}
}

// Create persiste un movimiento de kardex.
func (r *KardexRepo) Create(ctx context.Context, m *entity.KardexMovement) error {
	query := `
		INSERT INTO kardex (id, product_id, warehouse_id, date, quantity_in, quantity_out, unit_cost, total_cost, type, source_type, source_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.WarehouseID, m.Date, m.QuantityIn, m.QuantityOut,
		m.UnitCost, m.TotalCost, m.Type, nullable(m.SourceType), nullable(m.SourceID), m.CreatedAt,
	)
	return mapError("create kardex", err)
}

// List movimientos del producto en orden cronológico; limit <= 0 devuelve todos.
func (r *KardexRepo) List(ctx context.Context, filter repository.KardexFilter, limit, offset int) ([]*entity.KardexMovement, error) {
	query := `
		SELECT id, product_id, warehouse_id, date, quantity_in, quantity_out, unit_cost, total_cost, type,
		       COALESCE(source_type, ''), COALESCE(source_id, ''), created_at
		FROM kardex WHERE product_id = $1`
	args := []any{filter.ProductID}
	pos := 2
	if filter.WarehouseID != "" {
		query += fmt.Sprintf(" AND warehouse_id = $%d", pos)
		args = append(args, filter.WarehouseID)
		pos++
	}
	if filter.From != nil {
		query += fmt.Sprintf(" AND date >= $%d", pos)
		args = append(args, *filter.From)
		pos++
	}
	if filter.To != nil {
		query += fmt.Sprintf(" AND date <= $%d", pos)
		args = append(args, *filter.To)
		pos++
	}
	query += " ORDER BY date ASC, created_at ASC, id ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, limit, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list kardex: %w", err)
	}
	defer rows.Close()
	var list []*entity.KardexMovement
	for rows.Next() {
		var m entity.KardexMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.WarehouseID, &m.Date, &m.QuantityIn, &m.QuantityOut,
			&m.UnitCost, &m.TotalCost, &m.Type, &m.SourceType, &m.SourceID, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan kardex: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// NetBefore Σ(quantity_in − quantity_out) previo a before.
func (r *KardexRepo) NetBefore(ctx context.Context, productID, warehouseID string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity_in - quantity_out), 0)
		FROM kardex
		WHERE product_id = $1 AND ($2::text = '' OR warehouse_id::text = $2::text) AND date < $3`
	var net decimal.Decimal
	if err := r.q.QueryRow(ctx, query, productID, warehouseID, before).Scan(&net); err != nil {
		return decimal.Zero, fmt.Errorf("kardex net before: %w", err)
	}
	return net, nil
}
