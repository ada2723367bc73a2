package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Cartera-api/internal/application/dto"
	"github.com/jhoicas/Cartera-api/internal/domain"
	"github.com/rs/zerolog"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// El orden importa: ErrInsufficientBalance envuelve ErrInvalidOperation.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", "datos inválidos"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "acceso denegado al recurso"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK", "stock insuficiente"},
	{domain.ErrInsufficientBalance, fiber.StatusConflict, "INSUFFICIENT_BALANCE", "el abono excede el saldo pendiente"},
	{domain.ErrInvalidOperation, fiber.StatusConflict, "INVALID_OPERATION", "operación no permitida en el estado actual"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", "el recurso ya existe"},
	{domain.ErrConcurrencyConflict, fiber.StatusConflict, "CONCURRENCY_CONFLICT", "el recurso fue modificado por otra operación, reintente"},
	{domain.ErrInvalidConfiguration, fiber.StatusUnprocessableEntity, "INVALID_CONFIGURATION", "configuración de datos maestros inválida"},
}

// writeError traduce errores de dominio a status HTTP. Los no reconocidos se registran y se ocultan al cliente.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.Envelope{
				Success: false,
				Message: m.message,
				Error:   &dto.ErrorResponse{Code: m.code, Message: err.Error()},
			})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.Fail("INTERNAL", "error interno"))
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.Fail("INVALID_BODY", "cuerpo inválido"))
}
