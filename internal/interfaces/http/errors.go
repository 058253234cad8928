package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/supply-chain-api/internal/application/dto"
	"github.com/jhoicas/supply-chain-api/internal/domain"
)

// errorMapping código HTTP y código de error por error de dominio.
var errorMapping = []struct {
	err    error
	status int
	code   string
}{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrInvalidCredentials, fiber.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHORIZED"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrUserNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrInvalidTransition, fiber.StatusConflict, "INVALID_TRANSITION"},
	{domain.ErrInsufficientStock, fiber.StatusConflict, "INSUFFICIENT_STOCK"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
	{domain.ErrLocked, fiber.StatusConflict, "LOCKED"},
	{domain.ErrNoSupplierMapping, fiber.StatusUnprocessableEntity, "NO_SUPPLIER_MAPPING"},
	{domain.ErrNothingToGroup, fiber.StatusUnprocessableEntity, "NOTHING_TO_GROUP"},
}

// handleError responde con el código correspondiente al error de dominio; cualquier otro es 500 INTERNAL.
// El mensaje conserva el detalle que agregó el caso de uso ("%w: detalle").
func handleError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: detail(err, m.err)})
		}
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

// detail quita el prefijo del error base: "entrada inválida: qty debe ser > 0" → "qty debe ser > 0".
func detail(err, base error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, base.Error()+": "); ok && rest != "" {
		return rest
	}
	return msg
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
