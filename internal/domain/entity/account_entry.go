package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType tipo de asiento en la cartera (cuentas por cobrar / por pagar).
type EntryType string

const (
	EntryTypeCharge     EntryType = "CHARGE"      // cargo: origina o incrementa la deuda
	EntryTypePayment    EntryType = "PAYMENT"     // abono
	EntryTypeCreditNote EntryType = "CREDIT_NOTE" // nota de crédito (solo auditoría)
	EntryTypeAdjustment EntryType = "ADJUSTMENT"  // ajuste (solo auditoría)
)

// IsValid indica si el tipo pertenece al conjunto cerrado.
func (t EntryType) IsValid() bool {
	switch t {
	case EntryTypeCharge, EntryTypePayment, EntryTypeCreditNote, EntryTypeAdjustment:
		return true
	}
	return false
}

// AccountEntry es un asiento inmutable contra una cuenta. Solo lo crea el agregado Account.
type AccountEntry struct {
	ID             string
	AccountID      string
	Type           EntryType
	Amount         decimal.Decimal
	PaymentMethod  string // código SRI de forma de pago (01 efectivo, 20 transferencia, ...)
	Reference      string
	Notes          string
	PaymentDetails json.RawMessage // datos adicionales del pago (banco, cheque, ...)
	CreatedAt      time.Time
}

// NewEntry datos de entrada para registrar un asiento.
type NewEntry struct {
	ID             string
	Type           EntryType
	Amount         decimal.Decimal
	PaymentMethod  string
	Reference      string
	Notes          string
	PaymentDetails json.RawMessage
}
