package memory_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 5, 4, 9, 0, 0, 0, time.UTC)

func qty(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newAccount(t *testing.T, id, doc string) *entity.Account {
	t.Helper()
	acc, err := entity.NewAccount(entity.NewAccountParams{
		ID:               id,
		ChargeID:         id + "-charge",
		BusinessID:       "biz-1",
		Kind:             entity.AccountKindReceivable,
		CounterpartyID:   "cus-1",
		SourceDocumentID: doc,
		Amount:           qty("100"),
		IssueDate:        now,
		DueDate:          now.AddDate(0, 0, 30),
		Now:              now,
	})
	require.NoError(t, err)
	return acc
}

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	boom := errors.New("boom")

	err := s.RunCartera(ctx, func(accounts repository.AccountRepository) error {
		require.NoError(t, accounts.Create(ctx, newAccount(t, "acc-1", "inv-1")))
		got, err := accounts.GetByID(ctx, "acc-1")
		require.NoError(t, err)
		require.NotNil(t, got, "visible dentro de la tx")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := s.Accounts().GetByID(ctx, "acc-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_AccountUniquePerSourceDocument(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Accounts().Create(ctx, newAccount(t, "acc-1", "inv-1")))

	err := s.Accounts().Create(ctx, newAccount(t, "acc-2", "inv-1"))
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	got, err := s.Accounts().GetBySourceDocumentForUpdate(ctx, "biz-1", "inv-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "acc-1", got.ID)
	assert.Len(t, got.Entries(), 1)
}

func TestStore_AccountVersionCheck(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	require.NoError(t, s.Accounts().Create(ctx, newAccount(t, "acc-1", "inv-1")))

	first, err := s.Accounts().GetByID(ctx, "acc-1")
	require.NoError(t, err)
	stale, err := s.Accounts().GetByID(ctx, "acc-1")
	require.NoError(t, err)

	require.NoError(t, s.Accounts().Update(ctx, first))
	assert.Equal(t, 1, first.Version)
	assert.ErrorIs(t, s.Accounts().Update(ctx, stale), domain.ErrConcurrencyConflict)

	s.InjectConflicts(1)
	assert.ErrorIs(t, s.Accounts().Update(ctx, first), domain.ErrConcurrencyConflict)
	assert.NoError(t, s.Accounts().Update(ctx, first))
}

func TestStore_ListAccountsFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	for i, doc := range []string{"inv-1", "inv-2", "inv-3"} {
		acc := newAccount(t, "acc-"+doc, doc)
		acc.DueDate = now.AddDate(0, 0, 10*(3-i))
		require.NoError(t, s.Accounts().Create(ctx, acc))
	}

	page, total, err := s.Accounts().List(ctx, repository.AccountFilter{BusinessID: "biz-1"}, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 2)
	assert.Equal(t, "acc-inv-3", page[0].ID, "vencimiento más próximo primero")

	_, total, err = s.Accounts().List(ctx, repository.AccountFilter{BusinessID: "biz-1", Status: entity.AccountStatusPaid}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestStore_StockAndKardex(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	st, err := entity.NewStock("p1", "wh1", qty("2"), qty("5"), decimal.Zero, now)
	require.NoError(t, err)
	require.NoError(t, s.Stock().Create(ctx, st))
	assert.ErrorIs(t, s.Stock().Create(ctx, st), domain.ErrDuplicate)

	low, err := s.Stock().ListBelowMinimum(ctx, "wh1")
	require.NoError(t, err)
	require.Len(t, low, 1)

	for i, d := range []time.Time{now.Add(2 * time.Hour), now, now.Add(time.Hour)} {
		m, err := entity.NewEntrada(string(rune('a'+i)), "p1", "wh1", qty("1"), qty("1"), entity.KardexSourcePurchase, "", d)
		require.NoError(t, err)
		m.Date = d
		require.NoError(t, s.Kardex().Create(ctx, m))
	}
	rows, err := s.Kardex().List(ctx, repository.KardexFilter{ProductID: "p1"}, 0, 0)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "b", rows[0].ID)
	assert.Equal(t, "a", rows[2].ID)

	net, err := s.Kardex().NetBefore(ctx, "p1", "", now.Add(90*time.Minute))
	require.NoError(t, err)
	assert.True(t, net.Equal(qty("2")))
}

func TestStore_LoadSeed(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	seed := `{
		"products": [{"id": "p1", "business_id": "biz-1", "name": "Arroz", "price": "1.25", "base_unit": "UND",
			"units": [{"code": "CAJA", "factor_base": "12"}]}],
		"documents": [{"id": "inv-1", "business_id": "biz-1", "kind": "RECEIVABLE", "total_amount": "100.00"}]
	}`
	require.NoError(t, s.LoadSeed(ctx, strings.NewReader(seed)))

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.True(t, p.Price.Equal(qty("1.25")))

	units, err := s.Products().ListUnits(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.True(t, units[0].FactorBase.Equal(qty("12")))

	doc, err := s.Documents().GetByID(ctx, entity.AccountKindReceivable, "inv-1")
	require.NoError(t, err)
	require.NotNil(t, doc)
	missing, err := s.Documents().GetByID(ctx, entity.AccountKindPayable, "inv-1")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
