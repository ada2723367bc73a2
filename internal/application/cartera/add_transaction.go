package cartera

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Cartera-api/internal/application/txretry"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// TransactionInput asiento a registrar contra una cuenta existente.
type TransactionInput struct {
	Type           entity.EntryType
	Amount         decimal.Decimal
	PaymentMethod  string
	Reference      string
	Notes          string
	PaymentDetails json.RawMessage
}

// AddTransaction agrega un asiento y recalcula total, saldo y estado en la misma transacción.
// Un abono mayor al saldo falla con domain.ErrInsufficientBalance sin persistir nada.
func (uc *AccountUseCase) AddTransaction(ctx context.Context, businessID, accountID string, in TransactionInput) (*entity.Account, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: id de cuenta requerido", domain.ErrInvalidInput)
	}
	if !in.Type.IsValid() {
		return nil, fmt.Errorf("%w: tipo de asiento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Amount.IsNegative() || (in.Type == entity.EntryTypePayment && !in.Amount.IsPositive()) {
		return nil, fmt.Errorf("%w: monto inválido %s", domain.ErrInvalidInput, in.Amount.String())
	}
	if len(in.PaymentDetails) > 0 && !json.Valid(in.PaymentDetails) {
		return nil, fmt.Errorf("%w: payment_details no es JSON válido", domain.ErrInvalidInput)
	}

	var (
		result *entity.Account
		entry  entity.AccountEntry
	)
	err := txretry.Do(ctx, uc.retries, uc.log, "add_transaction", func() error {
		return uc.txRunner.RunCartera(ctx, func(accounts repository.AccountRepository) error {
			acc, err := lockOwned(ctx, accounts, businessID, accountID)
			if err != nil {
				return err
			}
			entry, err = acc.AppendEntry(entity.NewEntry{
				ID:             uc.newID(),
				Type:           in.Type,
				Amount:         in.Amount,
				PaymentMethod:  in.PaymentMethod,
				Reference:      in.Reference,
				Notes:          in.Notes,
				PaymentDetails: in.PaymentDetails,
			}, uc.clock.Now())
			if err != nil {
				return err
			}
			if err := accounts.CreateEntry(ctx, &entry); err != nil {
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

	uc.alertClamp(result)
	uc.log.Info().
		Str("account_id", result.ID).
		Str("entry_id", entry.ID).
		Str("type", string(entry.Type)).
		Str("amount", entry.Amount.StringFixed(entity.MoneyScale)).
		Str("balance", result.Balance().StringFixed(entity.MoneyScale)).
		Str("status", string(result.Status())).
		Msg("asiento registrado")
	return result, nil
}
