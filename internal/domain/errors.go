package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Se comparan con errors.Is; el detalle se agrega con fmt.Errorf("%w: ...", ErrX).
var (
	ErrNotFound             = errors.New("recurso no encontrado")
	ErrInvalidInput         = errors.New("entrada inválida")
	ErrDuplicate            = errors.New("recurso duplicado")
	ErrForbidden            = errors.New("acceso denegado")
	ErrInvalidOperation     = errors.New("operación no permitida en el estado actual")
	ErrInsufficientStock    = errors.New("stock insuficiente")
	ErrInvalidConfiguration = errors.New("configuración de datos maestros inválida")
	ErrConcurrencyConflict  = errors.New("conflicto de concurrencia")
)

// ErrInsufficientBalance es un caso de ErrInvalidOperation: el pago excede el saldo pendiente.
var ErrInsufficientBalance = fmt.Errorf("saldo insuficiente: %w", ErrInvalidOperation)
