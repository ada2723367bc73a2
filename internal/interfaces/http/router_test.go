package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cartera-api/internal/application/cartera"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/inventory"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Cartera-api/internal/interfaces/http"
	"github.com/jhoicas/Cartera-api/pkg/clock"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type envelope struct {
	Success    bool               `json:"success"`
	Message    string             `json:"message"`
	Data       json.RawMessage    `json:"data"`
	Error      *dto.ErrorResponse `json:"error"`
	Pagination *dto.PageResponse  `json:"pagination"`
}

func buildAPI(t *testing.T) *fiber.App {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Products().Put(ctx, entity.Product{ID: "p1", BusinessID: testBusinessID, Name: "Aceite", Price: decimal.RequireFromString("1.50"), BaseUnit: "UND"}))
	require.NoError(t, store.Products().PutUnit(ctx, entity.UnitOfMeasure{ProductID: "p1", Code: "ROTA", FactorBase: decimal.Zero}))
	require.NoError(t, store.Documents().Put(ctx, entity.SourceDocument{
		ID: "inv-1", BusinessID: testBusinessID, Kind: entity.AccountKindReceivable, CounterpartyID: "cus-1",
		TotalAmount: decimal.RequireFromString("100.00"),
	}))

	clk := clock.Fixed{At: time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)}
	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Accounts:  cartera.NewAccountUseCase(store, store.Accounts(), store.Documents(), clk, zerolog.Nop()),
		Stock:     inventory.NewStockMovementUseCase(store, store.Stock(), store.Kardex(), clk, zerolog.Nop(), 1),
		JWTSecret: testJWTSecret,
		JWTIssuer: testIssuer,
		Location:  time.UTC,
		Log:       zerolog.Nop(),
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, auth string, body any) (int, envelope) {
	t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", auth)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

func decodeData[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// Cartera
// ──────────────────────────────────────────────────────────────────────────────

func TestAccountsAPI_UpsertAndPayments(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testBusinessID)

	status, env := call(t, app, http.MethodPost, "/api/accounts/upsert", auth, fiber.Map{
		"kind": "RECEIVABLE", "source_document_id": "inv-1", "term_days": 30,
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	acc := decodeData[dto.AccountResponse](t, env)
	assert.Equal(t, "OPEN", acc.Status)
	assert.True(t, acc.Balance.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "2026-07-31", acc.DueDate)
	require.Len(t, acc.Entries, 1)

	status, env = call(t, app, http.MethodPost, "/api/accounts/"+acc.ID+"/transactions", auth, fiber.Map{
		"type": "PAYMENT", "amount": "30", "payment_method": "01",
	})
	require.Equal(t, http.StatusCreated, status)
	paid := decodeData[dto.AccountResponse](t, env)
	assert.Equal(t, "PARTIALLY_PAID", paid.Status)
	assert.True(t, paid.Balance.Equal(decimal.NewFromInt(70)))

	status, env = call(t, app, http.MethodPost, "/api/accounts/"+acc.ID+"/transactions", auth, fiber.Map{
		"type": "PAYMENT", "amount": "71", "payment_method": "01",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)

	status, env = call(t, app, http.MethodGet, "/api/accounts?status=PARTIALLY_PAID", auth, nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.Total)
}

func TestAccountsAPI_ErrorMapping(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testBusinessID)

	_, env := call(t, app, http.MethodPost, "/api/accounts/upsert", auth, fiber.Map{"kind": "RECEIVABLE", "source_document_id": "inv-1"})
	acc := decodeData[dto.AccountResponse](t, env)

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		body   any
		status int
		code   string
	}{
		{"documento inexistente", http.MethodPost, "/api/accounts/upsert", auth, fiber.Map{"kind": "RECEIVABLE", "source_document_id": "inv-404"}, http.StatusNotFound, "NOT_FOUND"},
		{"tipo inválido", http.MethodPost, "/api/accounts/upsert", auth, fiber.Map{"kind": "OTRO", "source_document_id": "inv-1"}, http.StatusBadRequest, "VALIDATION"},
		{"cuenta de otra empresa", http.MethodGet, "/api/accounts/" + acc.ID, bearer(t, "otra-empresa"), nil, http.StatusForbidden, "FORBIDDEN"},
		{"cuenta inexistente", http.MethodGet, "/api/accounts/nope", auth, nil, http.StatusNotFound, "NOT_FOUND"},
		{"abono en cero", http.MethodPost, "/api/accounts/" + acc.ID + "/transactions", auth, fiber.Map{"type": "PAYMENT", "amount": "0"}, http.StatusBadRequest, "VALIDATION"},
		{"sin token", http.MethodGet, "/api/accounts", "", nil, http.StatusUnauthorized, "MISSING_TOKEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := call(t, app, tt.method, tt.path, tt.auth, tt.body)
			assert.Equal(t, tt.status, status)
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestAccountsAPI_Cancel(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testBusinessID)
	_, env := call(t, app, http.MethodPost, "/api/accounts/upsert", auth, fiber.Map{"kind": "RECEIVABLE", "source_document_id": "inv-1"})
	acc := decodeData[dto.AccountResponse](t, env)

	status, env := call(t, app, http.MethodPost, "/api/accounts/"+acc.ID+"/cancel", auth, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "CANCELLED", decodeData[dto.AccountResponse](t, env).Status)

	status, env = call(t, app, http.MethodPost, "/api/accounts/"+acc.ID+"/transactions", auth, fiber.Map{"type": "CHARGE", "amount": "5"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INVALID_OPERATION", env.Error.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Stock y kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestStockAPI_MovementsAndKardex(t *testing.T) {
	app := buildAPI(t)
	auth := bearer(t, testBusinessID)

	status, _ := call(t, app, http.MethodPost, "/api/stock", auth, fiber.Map{
		"product_id": "p1", "warehouse_id": "wh-1", "initial_quantity": "10", "min_quantity": "2",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := call(t, app, http.MethodPost, "/api/stock", auth, fiber.Map{"product_id": "p1", "warehouse_id": "wh-1"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "DUPLICATE", env.Error.Code)

	status, env = call(t, app, http.MethodPost, "/api/stock/reserve", auth, fiber.Map{"product_id": "p1", "warehouse_id": "wh-1", "quantity": "11"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "INSUFFICIENT_STOCK", env.Error.Code)

	status, env = call(t, app, http.MethodPost, "/api/stock/receipts", auth, fiber.Map{
		"product_id": "p1", "warehouse_id": "wh-1", "quantity": "5", "unit_cost": "2.00", "source_id": "pur-1",
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decodeData[dto.StockResponse](t, env).Quantity.Equal(decimal.NewFromInt(15)))

	status, env = call(t, app, http.MethodPost, "/api/stock/sales", auth, fiber.Map{
		"product_id": "p1", "warehouse_id": "wh-1", "quantity": "4", "source_id": "inv-1",
	})
	require.Equal(t, http.StatusOK, status)
	assert.True(t, decodeData[dto.StockResponse](t, env).Quantity.Equal(decimal.NewFromInt(11)))

	status, env = call(t, app, http.MethodGet, "/api/kardex?product_id=p1&warehouse_id=wh-1", auth, nil)
	require.Equal(t, http.StatusOK, status)
	lines := decodeData[[]dto.KardexLineResponse](t, env)
	require.Len(t, lines, 2)
	assert.Equal(t, "ENTRADA", lines[0].Type)
	assert.True(t, lines[0].TotalCost.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, "SALIDA", lines[1].Type)
	assert.True(t, lines[1].Balance.Equal(decimal.NewFromInt(1)), "el kardex no incluye el stock inicial aprovisionado")
	assert.Equal(t, 2, env.Pagination.Total)

	status, env = call(t, app, http.MethodPost, "/api/stock/invoices/inv-2/lines", auth, fiber.Map{
		"warehouse_id": "wh-1",
		"lines":        []fiber.Map{{"product_id": "p1", "quantity": "1", "unit_code": "ROTA"}},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, "INVALID_CONFIGURATION", env.Error.Code)

	status, env = call(t, app, http.MethodGet, "/api/stock/p1/wh-404", auth, nil)
	assert.Equal(t, http.StatusNotFound, status)
	assert.False(t, env.Success)

	status, env = call(t, app, http.MethodGet, "/api/kardex?product_id=p1&from=2026-07-01&to=2026-07-01", auth, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decodeData[[]dto.KardexLineResponse](t, env), 2, "to con fecha simple incluye todo el día")

	status, env = call(t, app, http.MethodGet, "/api/kardex?product_id=p1&to=2026-06-30", auth, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Empty(t, decodeData[[]dto.KardexLineResponse](t, env))

	status, env = call(t, app, http.MethodGet, "/api/kardex?product_id=p1&from=ayer", auth, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", env.Error.Code)
}
