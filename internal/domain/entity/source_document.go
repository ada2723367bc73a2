package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceDocument vista mínima de una factura (AR) o compra (AP) que origina una cuenta.
type SourceDocument struct {
	ID             string
	BusinessID     string
	Kind           AccountKind
	CounterpartyID string
	TotalAmount    decimal.Decimal
	IssueDate      *time.Time // nil si el documento no tiene fecha de emisión registrada
	Number         string     // ej. 001-001-000000123
}
