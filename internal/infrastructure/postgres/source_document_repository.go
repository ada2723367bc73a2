package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.SourceDocumentRepository = (*SourceDocumentRepo)(nil)

// SourceDocumentRepo lee facturas (invoices) y compras (purchases) que originan cuentas.
type SourceDocumentRepo struct {
	q Querier
}

// NewSourceDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSourceDocumentRepository(q Querier) *SourceDocumentRepo {
	return &SourceDocumentRepo{q: q}
}

// GetByID busca en la tabla que corresponde al tipo de cuenta. (nil, nil) si no existe.
func (r *SourceDocumentRepo) GetByID(ctx context.Context, kind entity.AccountKind, id string) (*entity.SourceDocument, error) {
	var query string
	switch kind {
	case entity.AccountKindReceivable:
		query = `
			SELECT id, company_id, customer_id, grand_total, date, prefix || '-' || number
			FROM invoices WHERE id = $1`
	case entity.AccountKindPayable:
		query = `
			SELECT id, company_id, supplier_id, total, date, number
			FROM purchases WHERE id = $1`
	default:
		return nil, fmt.Errorf("tipo de documento desconocido %q", kind)
	}

	doc := entity.SourceDocument{Kind: kind}
	var issueDate *time.Time
	err := r.q.QueryRow(ctx, query, id).Scan(
		&doc.ID, &doc.BusinessID, &doc.CounterpartyID, &doc.TotalAmount, &issueDate, &doc.Number,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError("get source document", err)
	}
	doc.IssueDate = issueDate
	return &doc, nil
}
