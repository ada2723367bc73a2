package dto

import (
	"encoding/json"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// UpsertAccountRequest body para POST /api/accounts/upsert (crear o actualizar desde factura/compra).
type UpsertAccountRequest struct {
	Kind                     string           `json:"kind"` // RECEIVABLE | PAYABLE
	SourceDocumentID         string           `json:"source_document_id"`
	TermDays                 int              `json:"term_days"`
	ExpectedPaymentDate      *time.Time       `json:"expected_payment_date,omitempty"`
	InitialPaymentAmount     *decimal.Decimal `json:"initial_payment_amount,omitempty"`
	InitialPaymentMethodCode string           `json:"initial_payment_method_code,omitempty"`
	Reference                string           `json:"reference,omitempty"`
	Notes                    string           `json:"notes,omitempty"`
}

// AddTransactionRequest body para POST /api/accounts/:id/transactions.
type AddTransactionRequest struct {
	Type           string          `json:"type"` // CHARGE | PAYMENT | CREDIT_NOTE | ADJUSTMENT
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	PaymentDetails json.RawMessage `json:"payment_details,omitempty"`
}

// AccountEntryResponse asiento en respuestas.
type AccountEntryResponse struct {
	ID             string          `json:"id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Reference      string          `json:"reference,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	PaymentDetails json.RawMessage `json:"payment_details,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// AccountResponse cuenta por cobrar/pagar en respuestas.
type AccountResponse struct {
	ID                  string                 `json:"id"`
	BusinessID          string                 `json:"business_id"`
	Kind                string                 `json:"kind"`
	CounterpartyID      string                 `json:"counterparty_id"`
	SourceDocumentID    string                 `json:"source_document_id"`
	IssueDate           string                 `json:"issue_date"`
	DueDate             string                 `json:"due_date"`
	ExpectedPaymentDate *string                `json:"expected_payment_date,omitempty"`
	Total               decimal.Decimal        `json:"total"`
	Paid                decimal.Decimal        `json:"paid"`
	Balance             decimal.Decimal        `json:"balance"`
	Status              string                 `json:"status"`
	Notes               string                 `json:"notes,omitempty"`
	Entries             []AccountEntryResponse `json:"entries,omitempty"`
	UpdatedAt           time.Time              `json:"updated_at"`
}

// NewAccountResponse mapea el agregado; withEntries incluye los asientos.
func NewAccountResponse(a *entity.Account, withEntries bool) AccountResponse {
	resp := AccountResponse{
		ID:               a.ID,
		BusinessID:       a.BusinessID,
		Kind:             string(a.Kind),
		CounterpartyID:   a.CounterpartyID,
		SourceDocumentID: a.SourceDocumentID,
		IssueDate:        a.IssueDate.Format("2006-01-02"),
		DueDate:          a.DueDate.Format("2006-01-02"),
		Total:            a.Total(),
		Paid:             a.PaidAmount(),
		Balance:          a.Balance(),
		Status:           string(a.Status()),
		Notes:            a.Notes,
		UpdatedAt:        a.UpdatedAt,
	}
	if a.ExpectedPaymentDate != nil {
		s := a.ExpectedPaymentDate.Format("2006-01-02")
		resp.ExpectedPaymentDate = &s
	}
	if withEntries {
		entries := a.Entries()
		resp.Entries = make([]AccountEntryResponse, 0, len(entries))
		for _, e := range entries {
			resp.Entries = append(resp.Entries, AccountEntryResponse{
				ID:             e.ID,
				Type:           string(e.Type),
				Amount:         e.Amount,
				PaymentMethod:  e.PaymentMethod,
				Reference:      e.Reference,
				Notes:          e.Notes,
				PaymentDetails: e.PaymentDetails,
				CreatedAt:      e.CreatedAt,
			})
		}
	}
	return resp
}
