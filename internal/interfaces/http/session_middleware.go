package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/domain"
)

// SessionState lo que el middleware consulta de la sesión (lo implementa session.Manager).
type SessionState interface {
	Authenticated() bool
}

// RequireSession corta con 401 cuando no hay sesión iniciada; no toca la red.
func RequireSession(s SessionState) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if s == nil || !s.Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeSession, Message: domain.ErrSession.Error()})
		}
		return c.Next()
	}
}
