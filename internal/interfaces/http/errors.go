package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// writeError traduce errores de dominio a status y cuerpo dto.ErrorResponse.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var se *domain.SaleError
	if errors.As(err, &se) {
		resp := dto.ErrorResponse{Code: se.Kind.String(), Message: se.Message, ProductID: se.ProductID}
		switch se.Kind {
		case domain.KindValidation, domain.KindInsufficientStock:
			return c.Status(fiber.StatusBadRequest).JSON(resp)
		case domain.KindNotFound:
			return c.Status(fiber.StatusNotFound).JSON(resp)
		default:
			if se.Err != nil {
				resp.Detail = se.Err.Error()
			}
			log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("error de infraestructura")
			return c.Status(fiber.StatusInternalServerError).JSON(resp)
		}
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: err.Error()})
	}
	log.Error().Err(err).Str("request_id", GetRequestID(c)).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Code:    "INTERNAL",
		Message: "error interno",
		Detail:  err.Error(),
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
