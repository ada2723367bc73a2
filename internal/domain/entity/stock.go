package entity

import (
	"fmt"
	"time"

	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/shopspring/decimal"
)

// Stock representa la existencia de un producto en una bodega (registro mutable por producto+bodega).
// Quantity nunca es negativa; MinQuantity/MaxQuantity en cero significan "sin umbral".
type Stock struct {
	ProductID   string
	WarehouseID string
	Quantity    decimal.Decimal
	MinQuantity decimal.Decimal
	MaxQuantity decimal.Decimal
	Version     int
	UpdatedAt   time.Time
}

// NewStock aprovisiona el registro de un par producto+bodega.
func NewStock(productID, warehouseID string, initial, minQty, maxQty decimal.Decimal, now time.Time) (*Stock, error) {
	if productID == "" || warehouseID == "" {
		return nil, fmt.Errorf("%w: producto y bodega requeridos", domain.ErrInvalidInput)
	}
	if initial.IsNegative() || minQty.IsNegative() || maxQty.IsNegative() {
		return nil, fmt.Errorf("%w: cantidades negativas", domain.ErrInvalidInput)
	}
	if maxQty.IsPositive() && maxQty.LessThan(minQty) {
		return nil, fmt.Errorf("%w: máximo menor que mínimo", domain.ErrInvalidInput)
	}
	return &Stock{
		ProductID:   productID,
		WarehouseID: warehouseID,
		Quantity:    RoundQuantity(initial),
		MinQuantity: RoundQuantity(minQty),
		MaxQuantity: RoundQuantity(maxQty),
		UpdatedAt:   now,
	}, nil
}

// Decrease resta qty si alcanza la existencia; de lo contrario ErrInsufficientStock sin modificar nada.
func (s *Stock) Decrease(qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	if qty.GreaterThan(s.Quantity) {
		return fmt.Errorf("%w: disponible %s, solicitado %s", domain.ErrInsufficientStock, s.Quantity.String(), qty.String())
	}
	s.Quantity = s.Quantity.Sub(qty)
	s.UpdatedAt = now
	return nil
}

// Increase suma qty (> 0).
func (s *Stock) Increase(qty decimal.Decimal, now time.Time) error {
	if !qty.IsPositive() {
		return fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	s.Quantity = s.Quantity.Add(qty)
	s.UpdatedAt = now
	return nil
}

// BelowMinimum indica si la existencia cayó bajo el mínimo configurado.
func (s *Stock) BelowMinimum() bool {
	return s.MinQuantity.IsPositive() && s.Quantity.LessThan(s.MinQuantity)
}

// AboveMaximum indica si la existencia superó el máximo configurado.
func (s *Stock) AboveMaximum() bool {
	return s.MaxQuantity.IsPositive() && s.Quantity.GreaterThan(s.MaxQuantity)
}
