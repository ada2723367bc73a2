package entity_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

func amount(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestAccount(t *testing.T, total string) *entity.Account {
	t.Helper()
	acc, err := entity.NewAccount(entity.NewAccountParams{
		ID:               "acc-1",
		ChargeID:         "ent-charge",
		BusinessID:       "biz-1",
		Kind:             entity.AccountKindReceivable,
		CounterpartyID:   "cus-1",
		SourceDocumentID: "inv-1",
		Amount:           amount(total),
		IssueDate:        testNow,
		DueDate:          testNow.AddDate(0, 0, 30),
		Now:              testNow,
	})
	require.NoError(t, err)
	return acc
}

func pay(t *testing.T, acc *entity.Account, id, value string) error {
	t.Helper()
	_, err := acc.AppendEntry(entity.NewEntry{
		ID:            id,
		Type:          entity.EntryTypePayment,
		Amount:        amount(value),
		PaymentMethod: "01",
	}, testNow)
	return err
}

func TestAccountStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   entity.AccountStatus
		terminal bool
	}{
		{entity.AccountStatusOpen, false},
		{entity.AccountStatusPartiallyPaid, false},
		{entity.AccountStatusPaid, true},
		{entity.AccountStatusCancelled, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.True(t, tt.status.IsValid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
	assert.False(t, entity.AccountStatus("PENDIENTE").IsValid())
}

func TestNewAccount_ChargeAndOpenStatus(t *testing.T) {
	acc := newTestAccount(t, "100")

	assert.Equal(t, entity.AccountStatusOpen, acc.Status())
	assert.True(t, acc.Total().Equal(amount("100")))
	assert.True(t, acc.Balance().Equal(amount("100")))
	entries := acc.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, entity.EntryTypeCharge, entries[0].Type)
	assert.Equal(t, "acc-1", entries[0].AccountID)
}

func TestNewAccount_ZeroTotalIsPaid(t *testing.T) {
	acc := newTestAccount(t, "0")
	assert.Equal(t, entity.AccountStatusPaid, acc.Status())
}

func TestNewAccount_RejectsInvalidParams(t *testing.T) {
	_, err := entity.NewAccount(entity.NewAccountParams{ID: "a", ChargeID: "c", BusinessID: "b", Kind: "OTHER", SourceDocumentID: "d"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = entity.NewAccount(entity.NewAccountParams{
		ID: "a", ChargeID: "c", BusinessID: "b", Kind: entity.AccountKindPayable, SourceDocumentID: "d",
		Amount: amount("-1"), IssueDate: testNow, DueDate: testNow,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAccount_PartialPaymentSequence(t *testing.T) {
	acc := newTestAccount(t, "100")

	require.NoError(t, pay(t, acc, "p1", "30"))
	assert.True(t, acc.Balance().Equal(amount("70")))
	assert.Equal(t, entity.AccountStatusPartiallyPaid, acc.Status())

	require.NoError(t, pay(t, acc, "p2", "70"))
	assert.True(t, acc.Balance().IsZero())
	assert.Equal(t, entity.AccountStatusPaid, acc.Status())
	assert.True(t, acc.PaidAmount().Equal(amount("100")))
	assert.True(t, acc.Total().Equal(amount("100")))
}

func TestAccount_OverpaymentRejected(t *testing.T) {
	acc := newTestAccount(t, "100")

	err := pay(t, acc, "p1", "101")
	assert.ErrorIs(t, err, domain.ErrInsufficientBalance)
	assert.ErrorIs(t, err, domain.ErrInvalidOperation)
	assert.True(t, acc.Balance().Equal(amount("100")))
	assert.Len(t, acc.Entries(), 1)
}

func TestAccount_PaymentMustBePositive(t *testing.T) {
	acc := newTestAccount(t, "100")
	assert.ErrorIs(t, pay(t, acc, "p1", "0"), domain.ErrInvalidInput)
	assert.ErrorIs(t, pay(t, acc, "p2", "-5"), domain.ErrInvalidInput)
}

func TestAccount_ChargeIncreasesTotal(t *testing.T) {
	acc := newTestAccount(t, "100")
	require.NoError(t, pay(t, acc, "p1", "100"))
	require.Equal(t, entity.AccountStatusPaid, acc.Status())

	_, err := acc.AppendEntry(entity.NewEntry{ID: "c2", Type: entity.EntryTypeCharge, Amount: amount("25.505")}, testNow)
	require.NoError(t, err)
	assert.True(t, acc.Total().Equal(amount("125.51")), "monto redondeado a centavos")
	assert.True(t, acc.Balance().Equal(amount("25.51")))
	assert.Equal(t, entity.AccountStatusPartiallyPaid, acc.Status())
}

func TestAccount_CreditNoteAndAdjustmentDoNotMoveBalance(t *testing.T) {
	acc := newTestAccount(t, "100")
	for i, typ := range []entity.EntryType{entity.EntryTypeCreditNote, entity.EntryTypeAdjustment} {
		_, err := acc.AppendEntry(entity.NewEntry{ID: fmt.Sprintf("e%d", i), Type: typ, Amount: amount("10")}, testNow)
		require.NoError(t, err)
	}
	assert.True(t, acc.Balance().Equal(amount("100")))
	assert.Equal(t, entity.AccountStatusOpen, acc.Status())
	assert.Len(t, acc.Entries(), 3)
}

// Para cualquier secuencia de cargos y abonos aceptados el saldo nunca es negativo.
func TestAccount_BalanceNeverNegative(t *testing.T) {
	acc := newTestAccount(t, "50")
	ops := []struct {
		typ   entity.EntryType
		value string
	}{
		{entity.EntryTypePayment, "20"},
		{entity.EntryTypePayment, "40"},
		{entity.EntryTypeCharge, "15"},
		{entity.EntryTypePayment, "45"},
		{entity.EntryTypePayment, "0.01"},
		{entity.EntryTypeCharge, "0"},
		{entity.EntryTypePayment, "1000"},
	}
	for i, op := range ops {
		_, _ = acc.AppendEntry(entity.NewEntry{
			ID: fmt.Sprintf("op-%d", i), Type: op.typ, Amount: amount(op.value), PaymentMethod: "20",
		}, testNow)
		assert.False(t, acc.Balance().IsNegative(), "paso %d", i)
		charges, payments := decimal.Zero, decimal.Zero
		for _, e := range acc.Entries() {
			switch e.Type {
			case entity.EntryTypeCharge:
				charges = charges.Add(e.Amount)
			case entity.EntryTypePayment:
				payments = payments.Add(e.Amount)
			}
		}
		assert.True(t, acc.Total().Equal(charges), "total = Σ CHARGE en paso %d", i)
		assert.True(t, payments.LessThanOrEqual(charges), "abonos no exceden cargos en paso %d", i)
	}
	assert.True(t, acc.Balance().IsZero())
	assert.Equal(t, entity.AccountStatusPaid, acc.Status())
}

func TestAccount_RestoredInconsistentStateIsClamped(t *testing.T) {
	restored := entity.RestoreAccount(entity.Account{ID: "acc-x", BusinessID: "biz-1"},
		entity.AccountState{Total: amount("10"), Balance: amount("10"), Status: entity.AccountStatusOpen},
		[]entity.AccountEntry{
			{ID: "c", Type: entity.EntryTypeCharge, Amount: amount("10")},
			{ID: "p", Type: entity.EntryTypePayment, Amount: amount("15")},
		})

	_, err := restored.AppendEntry(entity.NewEntry{ID: "c2", Type: entity.EntryTypeCharge, Amount: amount("2")}, testNow)
	require.NoError(t, err)
	assert.True(t, restored.Balance().IsZero())
	assert.True(t, restored.Overpayment().Equal(amount("3")))
	assert.Equal(t, entity.AccountStatusPaid, restored.Status())
}

func TestAccount_Cancel(t *testing.T) {
	acc := newTestAccount(t, "100")
	require.NoError(t, acc.Cancel(testNow))
	assert.Equal(t, entity.AccountStatusCancelled, acc.Status())
	assert.ErrorIs(t, pay(t, acc, "p1", "10"), domain.ErrInvalidOperation)

	paid := newTestAccount(t, "100")
	require.NoError(t, pay(t, paid, "p1", "10"))
	assert.ErrorIs(t, paid.Cancel(testNow), domain.ErrInvalidOperation)
}

func TestAccount_Reschedule(t *testing.T) {
	acc := newTestAccount(t, "100")
	expected := testNow.AddDate(0, 0, 10)
	require.NoError(t, acc.Reschedule(testNow.AddDate(0, 0, 15), &expected, "nuevo plazo", testNow))
	assert.Equal(t, testNow.AddDate(0, 0, 15), acc.DueDate)
	assert.Equal(t, "nuevo plazo", acc.Notes)
	assert.Len(t, acc.Entries(), 1)

	assert.ErrorIs(t, acc.Reschedule(testNow.AddDate(0, 0, -1), nil, "", testNow), domain.ErrInvalidInput)
}
