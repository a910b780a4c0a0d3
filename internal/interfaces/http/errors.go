package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/domain"
)

// Códigos de error del puente.
const (
	CodeInvalidBody       = "INVALID_BODY"
	CodeValidation        = "VALIDATION"
	CodeInvalidRange      = "INVALID_RANGE"
	CodeNotFound          = "NOT_FOUND"
	CodeNoData            = "NO_DATA"
	CodeDuplicate         = "DUPLICATE"
	CodeInsufficientStock = "INSUFFICIENT_STOCK"
	CodeConflict          = "CONFLICT"
	CodeSession           = "SESSION"
	CodeLoginFailed       = "LOGIN_FAILED"
	CodeAPI               = "API_ERROR"
	CodeNetwork           = "NETWORK"
	CodeInternal          = "INTERNAL"
)

// errorStatus traduce un error de la aplicación a estado HTTP y cuerpo.
func errorStatus(err error) (int, dto.ErrorResponse) {
	resp := dto.ErrorResponse{Message: err.Error()}

	var ve *domain.ValidationError
	var te *domain.TransportError
	var ae *domain.APIError
	switch {
	case errors.As(err, &ve):
		resp.Code, resp.Message, resp.Fields = CodeValidation, ve.Message, ve.Fields
		return fiber.StatusBadRequest, resp
	case errors.Is(err, domain.ErrInvalidRange):
		resp.Code = CodeInvalidRange
		return fiber.StatusBadRequest, resp
	case errors.Is(err, domain.ErrInvalidInput):
		resp.Code = CodeValidation
		return fiber.StatusBadRequest, resp
	case errors.Is(err, domain.ErrSession), errors.Is(err, domain.ErrSessionChanged):
		resp.Code = CodeSession
		return fiber.StatusUnauthorized, resp
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, inventory.ErrUnknownSubmission):
		resp.Code = CodeNotFound
		return fiber.StatusNotFound, resp
	case errors.Is(err, domain.ErrNoData):
		resp.Code = CodeNoData
		return fiber.StatusNotFound, resp
	case errors.Is(err, domain.ErrDuplicate):
		resp.Code = CodeDuplicate
		return fiber.StatusConflict, resp
	case errors.Is(err, domain.ErrInsufficientStock):
		resp.Code = CodeInsufficientStock
		return fiber.StatusConflict, resp
	case errors.Is(err, domain.ErrConflict), errors.Is(err, inventory.ErrWrongPrompt):
		resp.Code = CodeConflict
		return fiber.StatusConflict, resp
	case errors.As(err, &te):
		if te.Status == fiber.StatusUnauthorized || te.Status == fiber.StatusForbidden {
			resp.Code = CodeSession
			return fiber.StatusUnauthorized, resp
		}
		resp.Code = CodeNetwork
		return fiber.StatusBadGateway, resp
	case errors.As(err, &ae):
		resp.Code = CodeAPI
		return fiber.StatusBadGateway, resp
	}
	resp.Code = CodeInternal
	return fiber.StatusInternalServerError, resp
}

func writeError(c *fiber.Ctx, err error) error {
	status, body := errorStatus(err)
	return c.Status(status).JSON(body)
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeInvalidBody, Message: "cuerpo inválido"})
}
