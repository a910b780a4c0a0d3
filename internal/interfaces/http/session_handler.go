package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/session"
)

// SessionService operaciones de sesión que expone el puente (lo implementa session.Manager).
type SessionService interface {
	SessionState
	Login(ctx context.Context, usuario, password string) error
	Logout(ctx context.Context)
	Status() session.Status
}

// SessionHandler inicio y cierre de sesión.
type SessionHandler struct {
	sessions SessionService
}

// NewSessionHandler construye el handler.
func NewSessionHandler(sessions SessionService) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         sesion
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "usuario, password"
// @Success      200   {object}  session.Status
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/sesion/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.Usuario = strings.TrimSpace(in.Usuario)
	if in.Usuario == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: "usuario y contraseña son requeridos"})
	}
	if err := h.sessions.Login(c.UserContext(), in.Usuario, in.Password); err != nil {
		if h.sessions.Authenticated() {
			// El token se obtuvo; falló la carga del perfil.
			return writeError(c, err)
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: CodeLoginFailed, Message: err.Error()})
	}
	return c.JSON(h.sessions.Status())
}

// Logout cierra la sesión local.
// @Router /api/sesion/logout [post]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	h.sessions.Logout(c.UserContext())
	return c.JSON(h.sessions.Status())
}

// Status estado de la sesión.
// @Router /api/sesion [get]
func (h *SessionHandler) Status(c *fiber.Ctx) error {
	return c.JSON(h.sessions.Status())
}
