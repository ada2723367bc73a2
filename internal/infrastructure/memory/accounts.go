package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
)

// AccountRepository implementa repository.AccountRepository.
type AccountRepository struct {
	scope
}

var _ repository.AccountRepository = (*AccountRepository)(nil)

func (r *AccountRepository) Create(ctx context.Context, account *entity.Account) error {
	return r.update(ctx, func(st *state) error {
		if _, ok := st.accounts[account.ID]; ok {
			return fmt.Errorf("%w: cuenta %s", domain.ErrDuplicate, account.ID)
		}
		key := sourceKey{BusinessID: account.BusinessID, SourceDocumentID: account.SourceDocumentID}
		if _, ok := st.bySource[key]; ok {
			return fmt.Errorf("%w: ya existe cuenta para el documento %s", domain.ErrDuplicate, account.SourceDocumentID)
		}
		st.accounts[account.ID] = toRow(account)
		st.bySource[key] = account.ID
		st.entries[account.ID] = account.Entries()
		return nil
	})
}

func (r *AccountRepository) GetByID(_ context.Context, id string) (*entity.Account, error) {
	var out *entity.Account
	err := r.view(func(st *state) error {
		out = st.account(id)
		return nil
	})
	return out, err
}

// GetByIDForUpdate no necesita bloqueo adicional: las transacciones ya están serializadas.
func (r *AccountRepository) GetByIDForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

func (r *AccountRepository) GetBySourceDocumentForUpdate(_ context.Context, businessID, sourceDocumentID string) (*entity.Account, error) {
	var out *entity.Account
	err := r.view(func(st *state) error {
		if id, ok := st.bySource[sourceKey{BusinessID: businessID, SourceDocumentID: sourceDocumentID}]; ok {
			out = st.account(id)
		}
		return nil
	})
	return out, err
}

func (r *AccountRepository) Update(ctx context.Context, account *entity.Account) error {
	return r.update(ctx, func(st *state) error {
		row, ok := st.accounts[account.ID]
		if !ok {
			return fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, account.ID)
		}
		if err := r.conflict(); err != nil {
			return err
		}
		if row.header.Version != account.Version {
			return fmt.Errorf("%w: cuenta %s", domain.ErrConcurrencyConflict, account.ID)
		}
		account.Version++
		st.accounts[account.ID] = toRow(account)
		return nil
	})
}

func (r *AccountRepository) CreateEntry(ctx context.Context, entry *entity.AccountEntry) error {
	return r.update(ctx, func(st *state) error {
		if _, ok := st.accounts[entry.AccountID]; !ok {
			return fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, entry.AccountID)
		}
		for _, e := range st.entries[entry.AccountID] {
			if e.ID == entry.ID {
				return fmt.Errorf("%w: asiento %s", domain.ErrDuplicate, entry.ID)
			}
		}
		st.entries[entry.AccountID] = append(st.entries[entry.AccountID], *entry)
		return nil
	})
}

// List ordena por vencimiento ascendente, igual que la implementación PostgreSQL.
func (r *AccountRepository) List(_ context.Context, filter repository.AccountFilter, limit, offset int) ([]*entity.Account, int, error) {
	var out []*entity.Account
	var total int
	err := r.view(func(st *state) error {
		var matched []accountRow
		for _, row := range st.accounts {
			h := row.header
			if h.BusinessID != filter.BusinessID {
				continue
			}
			if filter.Kind != "" && h.Kind != filter.Kind {
				continue
			}
			if filter.Status != "" && row.state.Status != filter.Status {
				continue
			}
			if filter.CounterpartyID != "" && h.CounterpartyID != filter.CounterpartyID {
				continue
			}
			matched = append(matched, row)
		}
		sort.Slice(matched, func(i, j int) bool {
			a, b := matched[i].header, matched[j].header
			if !a.DueDate.Equal(b.DueDate) {
				return a.DueDate.Before(b.DueDate)
			}
			return a.ID < b.ID
		})
		total = len(matched)
		for i := offset; i < total && (limit <= 0 || i < offset+limit); i++ {
			out = append(out, st.account(matched[i].header.ID))
		}
		return nil
	})
	return out, total, err
}

func toRow(a *entity.Account) accountRow {
	return accountRow{
		header: *a,
		state:  entity.AccountState{Total: a.Total(), Balance: a.Balance(), Status: a.Status()},
	}
}

func (st *state) account(id string) *entity.Account {
	row, ok := st.accounts[id]
	if !ok {
		return nil
	}
	return entity.RestoreAccount(row.header, row.state, st.entries[id])
}
