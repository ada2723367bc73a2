package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Cartera-api/internal/application/cartera"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// AccountHandler endpoints de cartera (cuentas por cobrar y por pagar).
type AccountHandler struct {
	uc  *cartera.AccountUseCase
	log zerolog.Logger
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *cartera.AccountUseCase, log zerolog.Logger) *AccountHandler {
	return &AccountHandler{uc: uc, log: log}
}

// Upsert godoc
// @Summary      Crear o actualizar la cuenta de una factura o compra
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UpsertAccountRequest  true  "kind, source_document_id, term_days, abono inicial opcional"
// @Success      200   {object}  dto.Envelope
// @Failure      400   {object}  dto.Envelope
// @Failure      403   {object}  dto.Envelope
// @Failure      404   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/accounts/upsert [post]
func (h *AccountHandler) Upsert(c *fiber.Ctx) error {
	var req dto.UpsertAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	in := cartera.UpsertAccountInput{
		Kind:                     entity.AccountKind(req.Kind),
		SourceDocumentID:         req.SourceDocumentID,
		TermDays:                 req.TermDays,
		ExpectedPaymentDate:      req.ExpectedPaymentDate,
		InitialPaymentAmount:     decimal.Zero,
		InitialPaymentMethodCode: req.InitialPaymentMethodCode,
		Reference:                req.Reference,
		Notes:                    req.Notes,
	}
	if req.InitialPaymentAmount != nil {
		in.InitialPaymentAmount = *req.InitialPaymentAmount
	}
	acc, err := h.uc.UpsertFromDocument(c.Context(), GetBusinessID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK("cuenta sincronizada", dto.NewAccountResponse(acc, true)))
}

// AddTransaction godoc
// @Summary      Registrar asiento (cargo, abono, nota de crédito, ajuste)
// @Tags         accounts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID de la cuenta"
// @Param        body  body  dto.AddTransactionRequest  true  "type, amount, payment_method"
// @Success      201   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/accounts/{id}/transactions [post]
func (h *AccountHandler) AddTransaction(c *fiber.Ctx) error {
	var req dto.AddTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	acc, err := h.uc.AddTransaction(c.Context(), GetBusinessID(c), c.Params("id"), cartera.TransactionInput{
		Type:           entity.EntryType(req.Type),
		Amount:         req.Amount,
		PaymentMethod:  req.PaymentMethod,
		Reference:      req.Reference,
		Notes:          req.Notes,
		PaymentDetails: req.PaymentDetails,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("asiento registrado", dto.NewAccountResponse(acc, true)))
}

// GetByID godoc
// @Summary      Obtener cuenta con sus asientos
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/accounts/{id} [get]
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	acc, err := h.uc.GetAccountByID(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK("", dto.NewAccountResponse(acc, true)))
}

// Cancel godoc
// @Summary      Anular una cuenta sin abonos
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.Envelope
// @Failure      409  {object}  dto.Envelope
// @Router       /api/accounts/{id}/cancel [post]
func (h *AccountHandler) Cancel(c *fiber.Ctx) error {
	acc, err := h.uc.CancelAccount(c.Context(), GetBusinessID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK("cuenta anulada", dto.NewAccountResponse(acc, false)))
}

// List godoc
// @Summary      Listar cuentas de la empresa
// @Tags         accounts
// @Security     Bearer
// @Produce      json
// @Param        kind             query  string  false  "RECEIVABLE | PAYABLE"
// @Param        status           query  string  false  "OPEN | PARTIALLY_PAID | PAID | CANCELLED"
// @Param        counterparty_id  query  string  false  "cliente o proveedor"
// @Param        limit            query  int     false  "máx. 100"
// @Param        offset           query  int     false  "desplazamiento"
// @Success      200  {object}  dto.Envelope
// @Router       /api/accounts [get]
func (h *AccountHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	list, total, err := h.uc.ListAccounts(c.Context(), repository.AccountFilter{
		BusinessID:     GetBusinessID(c),
		Kind:           entity.AccountKind(c.Query("kind")),
		Status:         entity.AccountStatus(c.Query("status")),
		CounterpartyID: c.Query("counterparty_id"),
	}, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.AccountResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.NewAccountResponse(a, false))
	}
	return c.JSON(dto.Page(out, page, total))
}
