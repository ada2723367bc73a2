package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/application/inventory"
	"github.com/jhoicas/Cartera-api/internal/domain/repository"
	"github.com/rs/zerolog"
)

// StockHandler endpoints de existencias y kardex.
type StockHandler struct {
	uc  *inventory.StockMovementUseCase
	loc *time.Location // zona de negocio para fechas simples en filtros
	log zerolog.Logger
}

// NewStockHandler construye el handler. loc nil = UTC.
func NewStockHandler(uc *inventory.StockMovementUseCase, loc *time.Location, log zerolog.Logger) *StockHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &StockHandler{uc: uc, loc: loc, log: log}
}

// Provision godoc
// @Summary      Aprovisionar stock de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProvisionStockRequest  true  "product_id, warehouse_id, cantidades"
// @Success      201   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/stock [post]
func (h *StockHandler) Provision(c *fiber.Ctx) error {
	var req dto.ProvisionStockRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	s, err := h.uc.ProvisionStock(c.Context(), inventory.ProvisionInput{
		ProductID:   req.ProductID,
		WarehouseID: req.WarehouseID,
		Initial:     req.Initial,
		MinQuantity: req.MinQuantity,
		MaxQuantity: req.MaxQuantity,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.OK("stock aprovisionado", dto.NewStockResponse(s)))
}

// Get godoc
// @Summary      Existencia de un producto en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    path  string  true  "producto"
// @Param        warehouse_id  path  string  true  "bodega"
// @Success      200  {object}  dto.Envelope
// @Failure      404  {object}  dto.Envelope
// @Router       /api/stock/{product_id}/{warehouse_id} [get]
func (h *StockHandler) Get(c *fiber.Ctx) error {
	s, err := h.uc.GetStock(c.Context(), c.Params("product_id"), c.Params("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK("", dto.NewStockResponse(s)))
}

// LowStock godoc
// @Summary      Productos bajo el mínimo en una bodega
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        warehouse_id  query  string  true  "bodega"
// @Success      200  {object}  dto.Envelope
// @Router       /api/stock/low [get]
func (h *StockHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.ListLowStock(c.Context(), c.Query("warehouse_id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.NewStockResponse(s))
	}
	return c.JSON(dto.OK("", out))
}

// Reserve godoc
// @Summary      Reservar (descontar) existencia sin kardex
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/stock/reserve [post]
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	return h.movement(c, "reserva registrada", func(req dto.StockMovementRequest) error {
		return h.uc.ReserveOrDecrease(c.Context(), req.ProductID, req.WarehouseID, req.Quantity)
	})
}

// Receipt godoc
// @Summary      Ingreso por compra (ENTRADA en kardex)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity, unit_cost, source_id"
// @Success      200   {object}  dto.Envelope
// @Router       /api/stock/receipts [post]
func (h *StockHandler) Receipt(c *fiber.Ctx) error {
	return h.movement(c, "ingreso registrado", func(req dto.StockMovementRequest) error {
		return h.uc.IncreaseForReceipt(c.Context(), req.ProductID, req.WarehouseID, req.Quantity, req.UnitCost, req.SourceID)
	})
}

// Sale godoc
// @Summary      Salida por venta (SALIDA en kardex)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity, source_id"
// @Success      200   {object}  dto.Envelope
// @Failure      409   {object}  dto.Envelope
// @Router       /api/stock/sales [post]
func (h *StockHandler) Sale(c *fiber.Ctx) error {
	return h.movement(c, "venta registrada", func(req dto.StockMovementRequest) error {
		return h.uc.DecreaseForSale(c.Context(), req.ProductID, req.WarehouseID, req.Quantity, req.SourceID)
	})
}

// Return godoc
// @Summary      Devolución (reingreso sin kardex)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.StockMovementRequest  true  "product_id, warehouse_id, quantity"
// @Success      200   {object}  dto.Envelope
// @Router       /api/stock/returns [post]
func (h *StockHandler) Return(c *fiber.Ctx) error {
	return h.movement(c, "devolución registrada", func(req dto.StockMovementRequest) error {
		return h.uc.Return(c.Context(), req.ProductID, req.WarehouseID, req.Quantity)
	})
}

// SaleLines godoc
// @Summary      Aplicar las líneas de una factura (atómico)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la factura"
// @Param        body  body  dto.ApplyDocumentLinesRequest  true  "warehouse_id, lines"
// @Success      200   {object}  dto.Envelope
// @Failure      422   {object}  dto.Envelope
// @Router       /api/stock/invoices/{id}/lines [post]
func (h *StockHandler) SaleLines(c *fiber.Ctx) error {
	var req dto.ApplyDocumentLinesRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := h.uc.ApplySaleLines(c.Context(), c.Params("id"), req.WarehouseID, req.ToLines()); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK("líneas de factura aplicadas", nil))
}

// PurchaseLines godoc
// @Summary      Aplicar las líneas de una compra (atómico)
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                         true  "ID de la compra"
// @Param        body  body  dto.ApplyDocumentLinesRequest  true  "warehouse_id, lines"
// @Success      200   {object}  dto.Envelope
// @Router       /api/stock/purchases/{id}/lines [post]
func (h *StockHandler) PurchaseLines(c *fiber.Ctx) error {
	var req dto.ApplyDocumentLinesRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := h.uc.ApplyPurchaseLines(c.Context(), c.Params("id"), req.WarehouseID, req.ToLines()); err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK("líneas de compra aplicadas", nil))
}

// Kardex godoc
// @Summary      Kardex del producto con saldo acumulado
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id    query  string  true   "producto"
// @Param        warehouse_id  query  string  false  "bodega"
// @Param        from          query  string  false  "RFC3339 o YYYY-MM-DD"
// @Param        to            query  string  false  "RFC3339 o YYYY-MM-DD"
// @Success      200  {object}  dto.Envelope
// @Router       /api/kardex [get]
func (h *StockHandler) Kardex(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	page.DefaultPage()
	from, err := parseDateQuery(c.Query("from"), h.loc, false)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("VALIDATION", "from inválido"))
	}
	to, err := parseDateQuery(c.Query("to"), h.loc, true)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("VALIDATION", "to inválido"))
	}
	lines, total, err := h.uc.ListKardex(c.Context(), repository.KardexFilter{
		ProductID:   c.Query("product_id"),
		WarehouseID: c.Query("warehouse_id"),
		From:        from,
		To:          to,
	}, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out := make([]dto.KardexLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, dto.NewKardexLineResponse(l))
	}
	return c.JSON(dto.Page(out, page, total))
}

func (h *StockHandler) movement(c *fiber.Ctx, message string, fn func(dto.StockMovementRequest) error) error {
	var req dto.StockMovementRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	if err := fn(req); err != nil {
		return writeError(c, h.log, err)
	}
	s, err := h.uc.GetStock(c.Context(), req.ProductID, req.WarehouseID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.OK(message, dto.NewStockResponse(s)))
}

// parseDateQuery acepta RFC3339 o fecha simple (YYYY-MM-DD en loc); vacío = sin filtro.
// Con endOfDay, una fecha simple cubre el día completo (el filtro del repositorio es inclusivo).
func parseDateQuery(value string, loc *time.Location, endOfDay bool) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation("2006-01-02", value, loc)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Microsecond)
	}
	return &t, nil
}
