package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// AccountFilter filtros opcionales para listar cuentas de una empresa.
type AccountFilter struct {
	BusinessID     string
	Kind           entity.AccountKind
	Status         entity.AccountStatus
	CounterpartyID string
}

// AccountRepository puerto de persistencia del agregado de cartera (cabecera + asientos).
// Los métodos *ForUpdate bloquean la fila hasta el fin de la transacción.
// Las lecturas devuelven (nil, nil) cuando no existe el registro.
type AccountRepository interface {
	Create(ctx context.Context, account *entity.Account) error
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error)
	GetBySourceDocumentForUpdate(ctx context.Context, businessID, sourceDocumentID string) (*entity.Account, error)
	// Update persiste cabecera y campos derivados si Version coincide; incrementa Version.
	// Devuelve domain.ErrConcurrencyConflict si otra transacción la modificó.
	Update(ctx context.Context, account *entity.Account) error
	CreateEntry(ctx context.Context, entry *entity.AccountEntry) error
	List(ctx context.Context, filter AccountFilter, limit, offset int) ([]*entity.Account, int, error)
}
