package repository

import (
	"context"

	"github.com/jhoicas/Cartera-api/internal/domain/entity"
)

// SourceDocumentRepository lectura de facturas (RECEIVABLE) y compras (PAYABLE) que originan cuentas.
type SourceDocumentRepository interface {
	GetByID(ctx context.Context, kind entity.AccountKind, id string) (*entity.SourceDocument, error)
}
