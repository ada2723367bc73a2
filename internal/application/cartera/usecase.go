package cartera

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jhoicas/Cartera-api/internal/application/txretry"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/jhoicas/Cartera-api/pkg/clock"
	"github.com/rs/zerolog"
)

// AccountUseCase único dueño de la escritura de cuentas por cobrar y por pagar.
// Toda mutación ocurre dentro de TxRunner con la fila de la cuenta bloqueada.
type AccountUseCase struct {
	txRunner  TxRunner
	accounts  repository.AccountRepository
	documents repository.SourceDocumentRepository
	clock     clock.Clock
	log       zerolog.Logger
	newID     func() string
	retries   int
}

// Option configura el caso de uso.
type Option func(*AccountUseCase)

// WithConflictRetries reintentos transparentes ante ErrConcurrencyConflict (por defecto 1).
func WithConflictRetries(n int) Option {
	return func(uc *AccountUseCase) { uc.retries = n }
}

// WithIDGenerator reemplaza la generación de identificadores (por defecto UUID v4).
func WithIDGenerator(fn func() string) Option {
	return func(uc *AccountUseCase) { uc.newID = fn }
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(
	txRunner TxRunner,
	accounts repository.AccountRepository,
	documents repository.SourceDocumentRepository,
	clk clock.Clock,
	log zerolog.Logger,
	opts ...Option,
) *AccountUseCase {
	uc := &AccountUseCase{
		txRunner:  txRunner,
		accounts:  accounts,
		documents: documents,
		clock:     clk,
		log:       log,
		newID:     func() string { return uuid.New().String() },
		retries:   1,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// GetAccountByID obtiene la cuenta con sus asientos. Una cuenta de otra empresa se reporta como ErrForbidden.
func (uc *AccountUseCase) GetAccountByID(ctx context.Context, businessID, id string) (*entity.Account, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: id de cuenta requerido", domain.ErrInvalidInput)
	}
	acc, err := uc.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	if acc.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return acc, nil
}

// ListAccounts lista cuentas de la empresa con filtros opcionales; devuelve además el total sin paginar.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, filter repository.AccountFilter, limit, offset int) ([]*entity.Account, int, error) {
	if filter.BusinessID == "" {
		return nil, 0, fmt.Errorf("%w: empresa requerida", domain.ErrInvalidInput)
	}
	if filter.Kind != "" && !filter.Kind.IsValid() {
		return nil, 0, fmt.Errorf("%w: tipo de cuenta %q", domain.ErrInvalidInput, filter.Kind)
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, 0, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, filter.Status)
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.accounts.List(ctx, filter, limit, offset)
}

// CancelAccount anula una cuenta sin abonos.
func (uc *AccountUseCase) CancelAccount(ctx context.Context, businessID, id string) (*entity.Account, error) {
	var result *entity.Account
	err := txretry.Do(ctx, uc.retries, uc.log, "cancel_account", func() error {
		return uc.txRunner.RunCartera(ctx, func(accounts repository.AccountRepository) error {
			acc, err := lockOwned(ctx, accounts, businessID, id)
			if err != nil {
				return err
			}
			if err := acc.Cancel(uc.clock.Now()); err != nil {
				return err
			}
			if err := accounts.Update(ctx, acc); err != nil {
				return err
			}
			result = acc
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("account_id", result.ID).Msg("cuenta anulada")
	return result, nil
}

// lockOwned bloquea la cuenta y verifica que pertenezca a la empresa.
func lockOwned(ctx context.Context, accounts repository.AccountRepository, businessID, id string) (*entity.Account, error) {
	acc, err := accounts.GetByIDForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if acc == nil {
		return nil, domain.ErrNotFound
	}
	if acc.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}
	return acc, nil
}

// alertClamp registra la alerta de conciliación cuando el recálculo tuvo que recortar el saldo a cero.
func (uc *AccountUseCase) alertClamp(acc *entity.Account) {
	if over := acc.Overpayment(); over.IsPositive() {
		uc.log.Warn().
			Str("account_id", acc.ID).
			Str("business_id", acc.BusinessID).
			Str("overpayment", over.StringFixed(entity.MoneyScale)).
			Msg("conciliación: abonos exceden cargos, saldo recortado a cero")
	}
}
