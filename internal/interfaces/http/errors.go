package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/morvic-api/internal/application/dto"
	"github.com/jhoicas/morvic-api/internal/domain"
)

// errorMapping asocia un error de dominio con su status y código.
type errorMapping struct {
	target error
	status int
	code   string
}

// El orden importa: las variantes de NotFound se comparan antes que el genérico.
// Las violaciones de reglas de negocio responden 500 con el mensaje de la causa.
var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrProductNotFound, fiber.StatusNotFound, "PRODUCT_NOT_FOUND"},
	{domain.ErrOrderNotFound, fiber.StatusNotFound, "ORDER_NOT_FOUND"},
	{domain.ErrSaleNotFound, fiber.StatusNotFound, "SALE_NOT_FOUND"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrInsufficientStock, fiber.StatusInternalServerError, "INSUFFICIENT_STOCK"},
	{domain.ErrTerminalState, fiber.StatusInternalServerError, "TERMINAL_STATE"},
	{domain.ErrAlreadyVoided, fiber.StatusInternalServerError, "ALREADY_VOIDED"},
	{domain.ErrDuplicateReceipt, fiber.StatusInternalServerError, "DUPLICATE_RECEIPT"},
}

// writeError traduce err a status + dto.ErrorResponse. Los errores no mapeados se registran
// y se devuelven como INTERNAL sin filtrar detalles de infraestructura.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error no controlado")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
