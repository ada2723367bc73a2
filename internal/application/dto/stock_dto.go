package dto

import (
	"time"

	"github.com/jhoicas/Cartera-api/internal/application/inventory"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ProvisionStockRequest body para POST /api/stock.
type ProvisionStockRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Initial     decimal.Decimal `json:"initial_quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	MaxQuantity decimal.Decimal `json:"max_quantity"`
}

// StockMovementRequest body común de reserva, venta, compra y devolución.
type StockMovementRequest struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost,omitempty"` // solo compras
	SourceID    string          `json:"source_id,omitempty"` // compra o factura
}

// DocumentLineRequest línea en la presentación del documento.
type DocumentLineRequest struct {
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitCode  string          `json:"unit_code,omitempty"`
	UnitCost  decimal.Decimal `json:"unit_cost,omitempty"`
}

// ApplyDocumentLinesRequest body para POST /api/stock/invoices/:id/lines y /api/stock/purchases/:id/lines.
type ApplyDocumentLinesRequest struct {
	WarehouseID string                `json:"warehouse_id"`
	Lines       []DocumentLineRequest `json:"lines"`
}

// ToLines convierte al tipo del caso de uso.
func (r ApplyDocumentLinesRequest) ToLines() []inventory.DocumentLine {
	lines := make([]inventory.DocumentLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, inventory.DocumentLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitCode:  l.UnitCode,
			UnitCost:  l.UnitCost,
		})
	}
	return lines
}

// StockResponse existencia por producto+bodega.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	MaxQuantity decimal.Decimal `json:"max_quantity"`
	BelowMin    bool            `json:"below_min"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// NewStockResponse mapea el registro de stock.
func NewStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Quantity:    s.Quantity,
		MinQuantity: s.MinQuantity,
		MaxQuantity: s.MaxQuantity,
		BelowMin:    s.BelowMinimum(),
		UpdatedAt:   s.UpdatedAt,
	}
}

// KardexLineResponse fila del kardex con saldo acumulado.
type KardexLineResponse struct {
	ID          string          `json:"id"`
	Date        time.Time       `json:"date"`
	WarehouseID string          `json:"warehouse_id"`
	Type        string          `json:"type"`
	QuantityIn  decimal.Decimal `json:"quantity_in"`
	QuantityOut decimal.Decimal `json:"quantity_out"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	SourceType  string          `json:"source_type,omitempty"`
	SourceID    string          `json:"source_id,omitempty"`
	Balance     decimal.Decimal `json:"balance"`
}

// NewKardexLineResponse mapea una línea del kardex.
func NewKardexLineResponse(l inventory.KardexLine) KardexLineResponse {
	m := l.Movement
	return KardexLineResponse{
		ID:          m.ID,
		Date:        m.Date,
		WarehouseID: m.WarehouseID,
		Type:        m.Type,
		QuantityIn:  m.QuantityIn,
		QuantityOut: m.QuantityOut,
		UnitCost:    m.UnitCost,
		TotalCost:   m.TotalCost,
		SourceType:  m.SourceType,
		SourceID:    m.SourceID,
		Balance:     l.Balance,
	}
}
