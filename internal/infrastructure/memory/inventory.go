package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// StockRepository implementa repository.StockRepository.
type StockRepository struct {
	scope
}

var _ repository.StockRepository = (*StockRepository)(nil)

func (r *StockRepository) Create(ctx context.Context, stock *entity.Stock) error {
	return r.update(ctx, func(st *state) error {
		key := stockKey{ProductID: stock.ProductID, WarehouseID: stock.WarehouseID}
		if _, ok := st.stocks[key]; ok {
			return fmt.Errorf("%w: stock de %s en bodega %s", domain.ErrDuplicate, stock.ProductID, stock.WarehouseID)
		}
		st.stocks[key] = *stock
		return nil
	})
}

func (r *StockRepository) Get(_ context.Context, productID, warehouseID string) (*entity.Stock, error) {
	var out *entity.Stock
	err := r.view(func(st *state) error {
		if s, ok := st.stocks[stockKey{ProductID: productID, WarehouseID: warehouseID}]; ok {
			out = &s
		}
		return nil
	})
	return out, err
}

func (r *StockRepository) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	return r.Get(ctx, productID, warehouseID)
}

func (r *StockRepository) Update(ctx context.Context, stock *entity.Stock) error {
	return r.update(ctx, func(st *state) error {
		key := stockKey{ProductID: stock.ProductID, WarehouseID: stock.WarehouseID}
		current, ok := st.stocks[key]
		if !ok {
			return fmt.Errorf("%w: stock de %s en bodega %s", domain.ErrNotFound, stock.ProductID, stock.WarehouseID)
		}
		if err := r.conflict(); err != nil {
			return err
		}
		if current.Version != stock.Version {
			return fmt.Errorf("%w: stock de %s", domain.ErrConcurrencyConflict, stock.ProductID)
		}
		stock.Version++
		st.stocks[key] = *stock
		return nil
	})
}

func (r *StockRepository) ListBelowMinimum(_ context.Context, warehouseID string) ([]*entity.Stock, error) {
	var out []*entity.Stock
	err := r.view(func(st *state) error {
		for _, s := range st.stocks {
			if s.WarehouseID == warehouseID && s.BelowMinimum() {
				s := s
				out = append(out, &s)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
		return nil
	})
	return out, err
}

// KardexRepository implementa repository.KardexRepository (solo inserción).
type KardexRepository struct {
	scope
}

var _ repository.KardexRepository = (*KardexRepository)(nil)

func (r *KardexRepository) Create(ctx context.Context, movement *entity.KardexMovement) error {
	return r.update(ctx, func(st *state) error {
		for _, m := range st.kardex {
			if m.ID == movement.ID {
				return fmt.Errorf("%w: movimiento %s", domain.ErrDuplicate, movement.ID)
			}
		}
		st.kardex = append(st.kardex, *movement)
		return nil
	})
}

func (r *KardexRepository) List(_ context.Context, filter repository.KardexFilter, limit, offset int) ([]*entity.KardexMovement, error) {
	var out []*entity.KardexMovement
	err := r.view(func(st *state) error {
		var matched []*entity.KardexMovement
		for _, m := range st.kardex {
			if !matchKardex(m, filter) {
				continue
			}
			m := m
			matched = append(matched, &m)
		}
		sort.SliceStable(matched, func(i, j int) bool { return matched[i].Date.Before(matched[j].Date) })
		for i := offset; i < len(matched) && (limit <= 0 || i < offset+limit); i++ {
			out = append(out, matched[i])
		}
		return nil
	})
	return out, err
}

func (r *KardexRepository) NetBefore(_ context.Context, productID, warehouseID string, before time.Time) (decimal.Decimal, error) {
	net := decimal.Zero
	err := r.view(func(st *state) error {
		for _, m := range st.kardex {
			if m.ProductID != productID || (warehouseID != "" && m.WarehouseID != warehouseID) {
				continue
			}
			if m.Date.Before(before) {
				net = net.Add(m.Net())
			}
		}
		return nil
	})
	return net, err
}

func matchKardex(m entity.KardexMovement, f repository.KardexFilter) bool {
	if m.ProductID != f.ProductID {
		return false
	}
	if f.WarehouseID != "" && m.WarehouseID != f.WarehouseID {
		return false
	}
	if f.From != nil && m.Date.Before(*f.From) {
		return false
	}
	if f.To != nil && m.Date.After(*f.To) {
		return false
	}
	return true
}

// ProductRepository implementa repository.ProductRepository.
type ProductRepository struct {
	scope
}

var _ repository.ProductRepository = (*ProductRepository)(nil)

func (r *ProductRepository) GetByID(_ context.Context, id string) (*entity.Product, error) {
	var out *entity.Product
	err := r.view(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = &p
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) ListUnits(_ context.Context, productID string) ([]entity.UnitOfMeasure, error) {
	var out []entity.UnitOfMeasure
	err := r.view(func(st *state) error {
		out = append(out, st.units[productID]...)
		return nil
	})
	return out, err
}

func (r *ProductRepository) UpdateCost(ctx context.Context, productID string, cost decimal.Decimal) error {
	return r.update(ctx, func(st *state) error {
		p, ok := st.products[productID]
		if !ok {
			return fmt.Errorf("%w: producto %s", domain.ErrNotFound, productID)
		}
		p.Cost = cost
		st.products[productID] = p
		return nil
	})
}

// Put crea o reemplaza un producto del catálogo.
func (r *ProductRepository) Put(ctx context.Context, p entity.Product) error {
	return r.update(ctx, func(st *state) error {
		st.products[p.ID] = p
		return nil
	})
}

// PutUnit crea o reemplaza una presentación del producto.
func (r *ProductRepository) PutUnit(ctx context.Context, u entity.UnitOfMeasure) error {
	return r.update(ctx, func(st *state) error {
		units := st.units[u.ProductID]
		for i := range units {
			if units[i].Code == u.Code {
				units[i] = u
				return nil
			}
		}
		st.units[u.ProductID] = append(units, u)
		return nil
	})
}

// SourceDocumentRepository implementa repository.SourceDocumentRepository.
type SourceDocumentRepository struct {
	scope
}

var _ repository.SourceDocumentRepository = (*SourceDocumentRepository)(nil)

func (r *SourceDocumentRepository) GetByID(_ context.Context, kind entity.AccountKind, id string) (*entity.SourceDocument, error) {
	var out *entity.SourceDocument
	err := r.view(func(st *state) error {
		if d, ok := st.documents[docKey{Kind: kind, ID: id}]; ok {
			out = &d
		}
		return nil
	})
	return out, err
}

// Put registra una factura o compra finalizada.
func (r *SourceDocumentRepository) Put(ctx context.Context, d entity.SourceDocument) error {
	if !d.Kind.IsValid() {
		return fmt.Errorf("%w: tipo de documento %q", domain.ErrInvalidInput, d.Kind)
	}
	return r.update(ctx, func(st *state) error {
		st.documents[docKey{Kind: d.Kind, ID: d.ID}] = d
		return nil
	})
}
