package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountKind distingue cuentas por cobrar (cliente, origen factura) de cuentas por pagar (proveedor, origen compra).
type AccountKind string

const (
	AccountKindReceivable AccountKind = "RECEIVABLE"
	AccountKindPayable    AccountKind = "PAYABLE"
)

// IsValid indica si el tipo de cuenta es conocido.
func (k AccountKind) IsValid() bool {
	return k == AccountKindReceivable || k == AccountKindPayable
}

// AccountStatus estado derivado de la cuenta.
type AccountStatus string

const (
	AccountStatusOpen          AccountStatus = "OPEN"
	AccountStatusPartiallyPaid AccountStatus = "PARTIALLY_PAID"
	AccountStatusPaid          AccountStatus = "PAID"
	AccountStatusCancelled     AccountStatus = "CANCELLED"
)

// IsValid indica si el estado es conocido.
func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusOpen, AccountStatusPartiallyPaid, AccountStatusPaid, AccountStatusCancelled:
		return true
	}
	return false
}

// IsTerminal indica si la cuenta ya no admite abonos.
func (s AccountStatus) IsTerminal() bool {
	return s == AccountStatusPaid || s == AccountStatusCancelled
}

// Account es el agregado de cartera (AR o AP). Total, saldo y estado son derivados de los asientos
// y solo cambian a través de los métodos del agregado.
type Account struct {
	ID                  string
	BusinessID          string
	Kind                AccountKind
	CounterpartyID      string // cliente (AR) o proveedor (AP)
	SourceDocumentID    string // factura (AR) o compra (AP); único por empresa
	IssueDate           time.Time
	DueDate             time.Time
	ExpectedPaymentDate *time.Time
	Notes               string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time

	total       decimal.Decimal
	balance     decimal.Decimal
	overpayment decimal.Decimal
	status      AccountStatus
	entries     []AccountEntry
}

// NewAccountParams datos para abrir una cuenta a partir de un documento fuente.
type NewAccountParams struct {
	ID                  string
	ChargeID            string
	BusinessID          string
	Kind                AccountKind
	CounterpartyID      string
	SourceDocumentID    string
	Amount              decimal.Decimal
	IssueDate           time.Time
	DueDate             time.Time
	ExpectedPaymentDate *time.Time
	Reference           string
	Notes               string
	Now                 time.Time
}

// NewAccount abre una cuenta en estado OPEN con un único CHARGE por el total del documento.
// Un documento con total cero queda PAID tras el recálculo.
func NewAccount(p NewAccountParams) (*Account, error) {
	if p.ID == "" || p.BusinessID == "" || p.SourceDocumentID == "" || !p.Kind.IsValid() {
		return nil, fmt.Errorf("%w: cuenta sin identidad completa", domain.ErrInvalidInput)
	}
	if p.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: el total del documento no puede ser negativo", domain.ErrInvalidInput)
	}
	if p.DueDate.Before(p.IssueDate) {
		return nil, fmt.Errorf("%w: vencimiento anterior a la emisión", domain.ErrInvalidInput)
	}
	a := &Account{
		ID:                  p.ID,
		BusinessID:          p.BusinessID,
		Kind:                p.Kind,
		CounterpartyID:      p.CounterpartyID,
		SourceDocumentID:    p.SourceDocumentID,
		IssueDate:           p.IssueDate,
		DueDate:             p.DueDate,
		ExpectedPaymentDate: p.ExpectedPaymentDate,
		Notes:               p.Notes,
		CreatedAt:           p.Now,
		UpdatedAt:           p.Now,
		status:              AccountStatusOpen,
	}
	if _, err := a.AppendEntry(NewEntry{
		ID:        p.ChargeID,
		Type:      EntryTypeCharge,
		Amount:    p.Amount,
		Reference: p.Reference,
		Notes:     p.Notes,
	}, p.Now); err != nil {
		return nil, err
	}
	return a, nil
}

// AccountState valores persistidos de los campos derivados (solo para repositorios).
type AccountState struct {
	Total   decimal.Decimal
	Balance decimal.Decimal
	Status  AccountStatus
}

// RestoreAccount reconstruye el agregado desde la persistencia sin recalcular.
func RestoreAccount(a Account, state AccountState, entries []AccountEntry) *Account {
	restored := a
	restored.total = state.Total
	restored.balance = state.Balance
	restored.status = state.Status
	restored.entries = append([]AccountEntry(nil), entries...)
	return &restored
}

// Total suma de los CHARGE.
func (a *Account) Total() decimal.Decimal { return a.total }

// Balance saldo pendiente, nunca negativo.
func (a *Account) Balance() decimal.Decimal { return a.balance }

// Status estado derivado.
func (a *Account) Status() AccountStatus { return a.status }

// Overpayment exceso de abonos absorbido por el recorte a cero en el último recálculo.
func (a *Account) Overpayment() decimal.Decimal { return a.overpayment }

// Entries copia de los asientos en orden de registro.
func (a *Account) Entries() []AccountEntry {
	return append([]AccountEntry(nil), a.entries...)
}

// PaidAmount suma de los PAYMENT.
func (a *Account) PaidAmount() decimal.Decimal {
	_, payments := a.sums()
	return payments
}

// HasPayments indica si existe al menos un abono.
func (a *Account) HasPayments() bool {
	for _, e := range a.entries {
		if e.Type == EntryTypePayment {
			return true
		}
	}
	return false
}

// AppendEntry valida y agrega un asiento, luego recalcula total, saldo y estado.
// Un PAYMENT debe ser > 0 y no mayor al saldo; una cuenta anulada no admite asientos.
func (a *Account) AppendEntry(in NewEntry, now time.Time) (AccountEntry, error) {
	if !in.Type.IsValid() {
		return AccountEntry{}, fmt.Errorf("%w: tipo de asiento %q", domain.ErrInvalidInput, in.Type)
	}
	if in.ID == "" {
		return AccountEntry{}, fmt.Errorf("%w: asiento sin identificador", domain.ErrInvalidInput)
	}
	amount := RoundMoney(in.Amount)
	if amount.IsNegative() {
		return AccountEntry{}, fmt.Errorf("%w: monto negativo", domain.ErrInvalidInput)
	}
	if a.status == AccountStatusCancelled {
		return AccountEntry{}, fmt.Errorf("%w: cuenta anulada", domain.ErrInvalidOperation)
	}
	if in.Type == EntryTypePayment {
		if !amount.IsPositive() {
			return AccountEntry{}, fmt.Errorf("%w: el abono debe ser mayor a cero", domain.ErrInvalidInput)
		}
		if amount.GreaterThan(a.balance) {
			return AccountEntry{}, domain.ErrInsufficientBalance
		}
	}
	entry := AccountEntry{
		ID:             in.ID,
		AccountID:      a.ID,
		Type:           in.Type,
		Amount:         amount,
		PaymentMethod:  strings.TrimSpace(in.PaymentMethod),
		Reference:      in.Reference,
		Notes:          in.Notes,
		PaymentDetails: in.PaymentDetails,
		CreatedAt:      now,
	}
	a.entries = append(a.entries, entry)
	a.recalculate()
	a.UpdatedAt = now
	return entry, nil
}

// Reschedule actualiza vencimiento, fecha esperada de pago y notas sin tocar los asientos.
func (a *Account) Reschedule(dueDate time.Time, expected *time.Time, notes string, now time.Time) error {
	if dueDate.Before(a.IssueDate) {
		return fmt.Errorf("%w: vencimiento anterior a la emisión", domain.ErrInvalidInput)
	}
	a.DueDate = dueDate
	a.ExpectedPaymentDate = expected
	a.Notes = notes
	a.UpdatedAt = now
	return nil
}

// Cancel anula la cuenta. Solo procede si no tiene abonos.
func (a *Account) Cancel(now time.Time) error {
	if a.status == AccountStatusCancelled {
		return nil
	}
	if a.HasPayments() {
		return fmt.Errorf("%w: la cuenta tiene abonos registrados", domain.ErrInvalidOperation)
	}
	a.status = AccountStatusCancelled
	a.UpdatedAt = now
	return nil
}

func (a *Account) sums() (charges, payments decimal.Decimal) {
	for _, e := range a.entries {
		switch e.Type {
		case EntryTypeCharge:
			charges = charges.Add(e.Amount)
		case EntryTypePayment:
			payments = payments.Add(e.Amount)
		}
	}
	return charges, payments
}

// recalculate: total = Σ CHARGE; saldo = max(0, Σ CHARGE − Σ PAYMENT); estado según saldo y abonos.
func (a *Account) recalculate() {
	charges, payments := a.sums()
	a.total = charges
	raw := charges.Sub(payments)
	a.overpayment = decimal.Zero
	if raw.IsNegative() {
		a.overpayment = raw.Neg()
		raw = decimal.Zero
	}
	a.balance = raw
	if a.status == AccountStatusCancelled {
		return
	}
	switch {
	case a.balance.IsZero():
		a.status = AccountStatusPaid
	case a.HasPayments():
		a.status = AccountStatusPartiallyPaid
	default:
		a.status = AccountStatusOpen
	}
}
