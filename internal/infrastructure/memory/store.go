// Package memory implementa los puertos de persistencia en memoria (desarrollo local y pruebas).
package memory

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// Store guarda cuentas, stock, kardex y catálogo en memoria.
// Las transacciones se serializan y trabajan sobre una copia del estado confirmado;
// la copia reemplaza al estado solo si fn no retorna error (rollback = descartar la copia).
type Store struct {
	txMu      sync.Mutex   // una transacción a la vez
	mu        sync.RWMutex // protege committed
	committed *state

	conflicts atomic.Int32
}

type state struct {
	accounts  map[string]accountRow
	bySource  map[sourceKey]string
	entries   map[string][]entity.AccountEntry
	stocks    map[stockKey]entity.Stock
	kardex    []entity.KardexMovement
	products  map[string]entity.Product
	units     map[string][]entity.UnitOfMeasure
	documents map[docKey]entity.SourceDocument
}

type accountRow struct {
	header entity.Account
	state  entity.AccountState
}

type sourceKey struct {
	BusinessID       string
	SourceDocumentID string
}

type stockKey struct {
	ProductID   string
	WarehouseID string
}

type docKey struct {
	Kind entity.AccountKind
	ID   string
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{committed: newState()}
}

func newState() *state {
	return &state{
		accounts:  make(map[string]accountRow),
		bySource:  make(map[sourceKey]string),
		entries:   make(map[string][]entity.AccountEntry),
		stocks:    make(map[stockKey]entity.Stock),
		products:  make(map[string]entity.Product),
		units:     make(map[string][]entity.UnitOfMeasure),
		documents: make(map[docKey]entity.SourceDocument),
	}
}

func (st *state) clone() *state {
	c := newState()
	for k, v := range st.accounts {
		c.accounts[k] = v
	}
	for k, v := range st.bySource {
		c.bySource[k] = v
	}
	for k, v := range st.entries {
		c.entries[k] = append([]entity.AccountEntry(nil), v...)
	}
	for k, v := range st.stocks {
		c.stocks[k] = v
	}
	c.kardex = append([]entity.KardexMovement(nil), st.kardex...)
	for k, v := range st.products {
		c.products[k] = v
	}
	for k, v := range st.units {
		c.units[k] = append([]entity.UnitOfMeasure(nil), v...)
	}
	for k, v := range st.documents {
		c.documents[k] = v
	}
	return c
}

// InjectConflicts hace que las próximas n escrituras versionadas (Update de cuenta o stock)
// fallen con domain.ErrConcurrencyConflict, simulando una transacción concurrente.
func (s *Store) InjectConflicts(n int) {
	s.conflicts.Store(int32(n))
}

func (s *Store) takeConflict() bool {
	for {
		n := s.conflicts.Load()
		if n <= 0 {
			return false
		}
		if s.conflicts.CompareAndSwap(n, n-1) {
			return true
		}
	}
}

// atomic ejecuta fn sobre una copia del estado y la confirma si no hubo error.
func (s *Store) atomic(ctx context.Context, fn func(*state) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(work); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

// RunCartera implementa cartera.TxRunner.
func (s *Store) RunCartera(ctx context.Context, fn func(accounts repository.AccountRepository) error) error {
	return s.atomic(ctx, func(work *state) error {
		return fn(&AccountRepository{scope: scope{s: s, tx: work}})
	})
}

// Run implementa inventory.TxRunner.
func (s *Store) Run(ctx context.Context, fn func(
	kardexRepo repository.KardexRepository,
	stockRepo repository.StockRepository,
	productRepo repository.ProductRepository,
) error) error {
	return s.atomic(ctx, func(work *state) error {
		sc := scope{s: s, tx: work}
		return fn(&KardexRepository{scope: sc}, &StockRepository{scope: sc}, &ProductRepository{scope: sc})
	})
}

// Accounts repositorio de cuentas fuera de transacción (cada escritura se confirma sola).
func (s *Store) Accounts() *AccountRepository { return &AccountRepository{scope: scope{s: s}} }

// Stock repositorio de stock fuera de transacción.
func (s *Store) Stock() *StockRepository { return &StockRepository{scope: scope{s: s}} }

// Kardex repositorio de kardex fuera de transacción.
func (s *Store) Kardex() *KardexRepository { return &KardexRepository{scope: scope{s: s}} }

// Products repositorio de productos fuera de transacción.
func (s *Store) Products() *ProductRepository { return &ProductRepository{scope: scope{s: s}} }

// Documents repositorio de documentos fuente.
func (s *Store) Documents() *SourceDocumentRepository {
	return &SourceDocumentRepository{scope: scope{s: s}}
}

// scope resuelve sobre qué estado opera un repositorio: la copia de la tx o el estado confirmado.
type scope struct {
	s  *Store
	tx *state
}

func (sc scope) view(fn func(*state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	sc.s.mu.RLock()
	defer sc.s.mu.RUnlock()
	return fn(sc.s.committed)
}

func (sc scope) update(ctx context.Context, fn func(*state) error) error {
	if sc.tx != nil {
		return fn(sc.tx)
	}
	return sc.s.atomic(ctx, fn)
}

func (sc scope) conflict() error {
	if sc.s.takeConflict() {
		return domain.ErrConcurrencyConflict
	}
	return nil
}
