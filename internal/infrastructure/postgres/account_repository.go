package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo persistencia de cuentas (accounts) y sus asientos (account_entries). Usable con pool o tx.
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, business_id, kind, counterparty_id, source_document_id, issue_date, due_date,
	expected_payment_date, total, balance, status, notes, version, created_at, updated_at`

// Create inserta la cabecera y todos los asientos actuales del agregado.
// La restricción única (business_id, source_document_id) se reporta como domain.ErrDuplicate.
func (r *AccountRepo) Create(ctx context.Context, a *entity.Account) error {
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		a.ID, a.BusinessID, a.Kind, nullable(a.CounterpartyID), a.SourceDocumentID, a.IssueDate, a.DueDate,
		a.ExpectedPaymentDate, a.Total(), a.Balance(), a.Status(), a.Notes, a.Version, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return mapError("create account", err)
	}
	for _, e := range a.Entries() {
		if err := r.CreateEntry(ctx, &e); err != nil {
			return err
		}
	}
	return nil
}

// GetByID obtiene la cuenta con sus asientos.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, "get account", `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetByIDForUpdate bloquea la fila de la cuenta hasta el fin de la transacción.
func (r *AccountRepo) GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.getOne(ctx, "get account for update", `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

// GetBySourceDocumentForUpdate busca y bloquea la cuenta del documento (clave de idempotencia del upsert).
func (r *AccountRepo) GetBySourceDocumentForUpdate(ctx context.Context, businessID, sourceDocumentID string) (*entity.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE business_id = $1 AND source_document_id = $2 FOR UPDATE`
	return r.getOne(ctx, "get account by document", query, businessID, sourceDocumentID)
}

// Update persiste cabecera y campos derivados con control de versión.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	query := `
		UPDATE accounts
		SET due_date = $2, expected_payment_date = $3, total = $4, balance = $5, status = $6, notes = $7,
		    version = version + 1, updated_at = $8
		WHERE id = $1 AND version = $9`
	tag, err := r.q.Exec(ctx, query,
		a.ID, a.DueDate, a.ExpectedPaymentDate, a.Total(), a.Balance(), a.Status(), a.Notes, a.UpdatedAt, a.Version,
	)
	if err != nil {
		return mapError("update account", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update account %s: %w", a.ID, domain.ErrConcurrencyConflict)
	}
	a.Version++
	return nil
}

// CreateEntry inserta un asiento; los asientos nunca se modifican ni se borran.
func (r *AccountRepo) CreateEntry(ctx context.Context, e *entity.AccountEntry) error {
	query := `
		INSERT INTO account_entries (id, account_id, type, amount, payment_method, reference, notes, payment_details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	var details []byte
	if len(e.PaymentDetails) > 0 {
		details = e.PaymentDetails
	}
	_, err := r.q.Exec(ctx, query,
		e.ID, e.AccountID, e.Type, e.Amount, nullable(e.PaymentMethod), nullable(e.Reference), nullable(e.Notes),
		details, e.CreatedAt,
	)
	return mapError("create account entry", err)
}

// List cuentas de la empresa ordenadas por vencimiento; devuelve además el total sin paginar.
func (r *AccountRepo) List(ctx context.Context, filter repository.AccountFilter, limit, offset int) ([]*entity.Account, int, error) {
	where := ` FROM accounts WHERE business_id = $1`
	args := []any{filter.BusinessID}
	pos := 2
	if filter.Kind != "" {
		where += fmt.Sprintf(" AND kind = $%d", pos)
		args = append(args, filter.Kind)
		pos++
	}
	if filter.Status != "" {
		where += fmt.Sprintf(" AND status = $%d", pos)
		args = append(args, filter.Status)
		pos++
	}
	if filter.CounterpartyID != "" {
		where += fmt.Sprintf(" AND counterparty_id = $%d", pos)
		args = append(args, filter.CounterpartyID)
		pos++
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*)`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	query := `SELECT ` + accountColumns + where + fmt.Sprintf(" ORDER BY due_date ASC, id ASC LIMIT $%d OFFSET $%d", pos, pos+1)
	rows, err := r.q.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	var list []*entity.Account
	for rows.Next() {
		a, err := scanAccountHeader(rows)
		if err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scan account: %w", err)
		}
		list = append(list, a)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}
	// Los asientos se leen después de cerrar el cursor: una conexión de tx no admite dos consultas abiertas.
	for i, a := range list {
		full, err := r.withEntries(ctx, a)
		if err != nil {
			return nil, 0, err
		}
		list[i] = full
	}
	return list, total, nil
}

type accountHeader struct {
	account entity.Account
	state   entity.AccountState
}

func scanAccountHeader(row pgx.Row) (*accountHeader, error) {
	var (
		h            accountHeader
		counterparty *string
		notes        *string
		expected     *time.Time
	)
	a := &h.account
	if err := row.Scan(
		&a.ID, &a.BusinessID, &a.Kind, &counterparty, &a.SourceDocumentID, &a.IssueDate, &a.DueDate,
		&expected, &h.state.Total, &h.state.Balance, &h.state.Status, &notes, &a.Version, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if counterparty != nil {
		a.CounterpartyID = *counterparty
	}
	if notes != nil {
		a.Notes = *notes
	}
	a.ExpectedPaymentDate = expected
	return &h, nil
}

func (r *AccountRepo) getOne(ctx context.Context, op, query string, args ...any) (*entity.Account, error) {
	h, err := scanAccountHeader(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, mapError(op, err)
	}
	return r.withEntries(ctx, h)
}

func (r *AccountRepo) withEntries(ctx context.Context, h *accountHeader) (*entity.Account, error) {
	query := `
		SELECT id, account_id, type, amount, COALESCE(payment_method, ''), COALESCE(reference, ''),
		       COALESCE(notes, ''), payment_details, created_at
		FROM account_entries WHERE account_id = $1
		ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, h.account.ID)
	if err != nil {
		return nil, fmt.Errorf("list account entries: %w", err)
	}
	defer rows.Close()
	var entries []entity.AccountEntry
	for rows.Next() {
		var e entity.AccountEntry
		var details []byte
		if err := rows.Scan(&e.ID, &e.AccountID, &e.Type, &e.Amount, &e.PaymentMethod, &e.Reference,
			&e.Notes, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan account entry: %w", err)
		}
		e.PaymentDetails = details
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list account entries: %w", err)
	}
	return entity.RestoreAccount(h.account, h.state, entries), nil
}
