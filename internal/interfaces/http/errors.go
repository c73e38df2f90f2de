package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Insumos-api/internal/application/dto"
	"github.com/jhoicas/Insumos-api/internal/domain"
)

// extractionError traduce un fallo de importación a status + ErrorResponse.
// Solo UNEXPECTED (y los errores sin tipo) exponen el mensaje interno.
func extractionError(c *fiber.Ctx, err error) error {
	var ee *domain.ExtractionError
	if !errors.As(err, &ee) {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Code: string(domain.KindUnexpected), Message: "error interno: " + err.Error(),
		})
	}
	status := fiber.StatusInternalServerError
	message := ee.Detail
	switch ee.Kind {
	case domain.KindParseFailure, domain.KindStructureInvalid, domain.KindNoItemsFound:
		status = fiber.StatusBadRequest
	case domain.KindAlreadyExists:
		status = fiber.StatusConflict
	default:
		message = "error interno: " + ee.Error()
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: string(ee.Kind), Message: message})
}

// validationMessage quita el prefijo de ErrInvalidInput para devolver solo el detalle.
func validationMessage(err error) string {
	return strings.TrimPrefix(err.Error(), domain.ErrInvalidInput.Error()+": ")
}
