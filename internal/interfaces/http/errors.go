package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/garansi-api/internal/application/dto"
	"github.com/jhoicas/garansi-api/internal/domain"
	"github.com/jhoicas/garansi-api/pkg/validator"
)

// writeError traduce errores de dominio a respuestas HTTP con código estable.
func writeError(c *fiber.Ctx, err error) error {
	status, body := errorResponse(err)
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Str("method", c.Method()).Msg("error no controlado")
	}
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	var le *domain.LimitError
	if errors.As(err, &le) {
		return fiber.StatusConflict, dto.ErrorResponse{
			Code:    le.Code,
			Message: le.Message(),
			Details: fiber.Map{"total": le.Total, "limit": le.Limit},
		}
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		body := dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"}
		var ve *validator.ValidationError
		if errors.As(err, &ve) {
			body.Details = ve.Fields
		} else {
			body.Message = err.Error()
		}
		return fiber.StatusBadRequest, body
	case errors.Is(err, domain.ErrRetriesExhausted),
		errors.Is(err, domain.ErrContention),
		errors.Is(err, domain.ErrParticipantNumberTaken):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "REGISTRATION_CONFLICT", Message: "registro en conflicto, intente de nuevo"}
	case errors.Is(err, domain.ErrStoreNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "STORE_NOT_FOUND", Message: "toko no encontrada"}
	case errors.Is(err, domain.ErrStoreMisconfigured):
		return fiber.StatusUnprocessableEntity, dto.ErrorResponse{Code: "STORE_MISCONFIGURED", Message: "la toko no tiene kode_toko asignado"}
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"}
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "DUPLICATE", Message: "el recurso ya existe"}
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "no autorizado"}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// page lee limit/offset de la query aplicando los valores por defecto.
func page(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
