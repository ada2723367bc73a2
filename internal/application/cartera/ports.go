package cartera

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con el repositorio de cuentas atado a ella.
// Si fn retorna error se hace rollback completo (cabecera y asientos).
type TxRunner interface {
	RunCartera(ctx context.Context, fn func(accounts repository.AccountRepository) error) error
}
