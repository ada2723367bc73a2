package cartera

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Cartera-api/internal/application/txretry"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

// UpsertAccountInput datos para crear o actualizar la cuenta de un documento finalizado.
type UpsertAccountInput struct {
	Kind                     entity.AccountKind
	SourceDocumentID         string
	TermDays                 int
	ExpectedPaymentDate      *time.Time
	InitialPaymentAmount     decimal.Decimal // cero = sin abono inicial
	InitialPaymentMethodCode string
	Reference                string
	Notes                    string
}

func (in UpsertAccountInput) validate() error {
	if !in.Kind.IsValid() {
		return fmt.Errorf("%w: tipo de cuenta %q", domain.ErrInvalidInput, in.Kind)
	}
	if strings.TrimSpace(in.SourceDocumentID) == "" {
		return fmt.Errorf("%w: documento fuente requerido", domain.ErrInvalidInput)
	}
	if in.TermDays < 0 {
		return fmt.Errorf("%w: term_days no puede ser negativo", domain.ErrInvalidInput)
	}
	if in.InitialPaymentAmount.IsNegative() {
		return fmt.Errorf("%w: abono inicial negativo", domain.ErrInvalidInput)
	}
	if in.InitialPaymentAmount.IsPositive() && strings.TrimSpace(in.InitialPaymentMethodCode) == "" {
		return fmt.Errorf("%w: forma de pago requerida para el abono inicial", domain.ErrInvalidInput)
	}
	return nil
}

// UpsertFromDocument crea la cuenta del documento (CHARGE por el total) o, si ya existe para la empresa,
// actualiza solo vencimiento, fecha esperada y notas. El abono inicial se registra en ambos casos.
// Llamarlo de nuevo sin abono inicial no agrega asientos.
func (uc *AccountUseCase) UpsertFromDocument(ctx context.Context, businessID string, in UpsertAccountInput) (*entity.Account, error) {
	if businessID == "" {
		return nil, fmt.Errorf("%w: empresa requerida", domain.ErrInvalidInput)
	}
	if err := in.validate(); err != nil {
		return nil, err
	}

	doc, err := uc.documents.GetByID(ctx, in.Kind, in.SourceDocumentID)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: documento %s", domain.ErrNotFound, in.SourceDocumentID)
	}
	if doc.BusinessID != businessID {
		return nil, domain.ErrForbidden
	}

	var (
		result  *entity.Account
		created bool
	)
	err = txretry.Do(ctx, uc.retries, uc.log, "upsert_account", func() error {
		return uc.txRunner.RunCartera(ctx, func(accounts repository.AccountRepository) error {
			now := uc.clock.Now()
			acc, err := accounts.GetBySourceDocumentForUpdate(ctx, businessID, doc.ID)
			if err != nil {
				return err
			}
			created = acc == nil

			// El vencimiento de una cuenta existente se calcula sobre su emisión registrada.
			issueDate := uc.issueDate(doc, now)
			if !created {
				issueDate = acc.IssueDate
			}
			dueDate := issueDate.AddDate(0, 0, in.TermDays)

			if created {
				acc, err = entity.NewAccount(entity.NewAccountParams{
					ID:                  uc.newID(),
					ChargeID:            uc.newID(),
					BusinessID:          businessID,
					Kind:                in.Kind,
					CounterpartyID:      doc.CounterpartyID,
					SourceDocumentID:    doc.ID,
					Amount:              doc.TotalAmount,
					IssueDate:           issueDate,
					DueDate:             dueDate,
					ExpectedPaymentDate: in.ExpectedPaymentDate,
					Reference:           in.Reference,
					Notes:               in.Notes,
					Now:                 now,
				})
				if err != nil {
					return err
				}
			} else if err := acc.Reschedule(dueDate, in.ExpectedPaymentDate, in.Notes, now); err != nil {
				return err
			}

			var payment *entity.AccountEntry
			if in.InitialPaymentAmount.IsPositive() {
				entry, err := acc.AppendEntry(entity.NewEntry{
					ID:            uc.newID(),
					Type:          entity.EntryTypePayment,
					Amount:        in.InitialPaymentAmount,
					PaymentMethod: in.InitialPaymentMethodCode,
					Reference:     in.Reference,
					Notes:         in.Notes,
				}, now)
				if err != nil {
					return err
				}
				payment = &entry
			}

			if created {
				// Create inserta cabecera y todos los asientos (CHARGE y abono inicial).
				if err := accounts.Create(ctx, acc); err != nil {
					if errors.Is(err, domain.ErrDuplicate) {
						// Otra transacción creó la cuenta del mismo documento: releer por la rama de actualización.
						return fmt.Errorf("%w: cuenta creada en paralelo", domain.ErrConcurrencyConflict)
					}
					return err
				}
			} else {
				if payment != nil {
					if err := accounts.CreateEntry(ctx, payment); err != nil {
						return err
					}
				}
				if err := accounts.Update(ctx, acc); err != nil {
					return err
				}
			}
			result = acc
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.alertClamp(result)
	uc.log.Debug().
		Str("account_id", result.ID).
		Str("kind", string(result.Kind)).
		Str("source_document_id", result.SourceDocumentID).
		Bool("created", created).
		Str("balance", result.Balance().StringFixed(entity.MoneyScale)).
		Msg("cuenta sincronizada con documento")
	return result, nil
}

// issueDate fecha de emisión del documento en la zona de negocio, o now si no tiene.
// Se toma el día calendario: los DATE llegan como medianoche UTC y convertirlos con In retrocede un día.
func (uc *AccountUseCase) issueDate(doc *entity.SourceDocument, now time.Time) time.Time {
	if doc.IssueDate == nil || doc.IssueDate.IsZero() {
		return now
	}
	d := *doc.IssueDate
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, uc.clock.Location())
}
