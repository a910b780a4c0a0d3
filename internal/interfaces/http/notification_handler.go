package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/notify"
)

// NotificationsResponse toasts visibles y diálogo de error.
type NotificationsResponse struct {
	Toasts   []notify.Toast     `json:"toasts"`
	Dialog   notify.ErrorDialog `json:"dialog"`
	Detalles string             `json:"detalles,omitempty"`
}

// NotificationHandler expone el centro de notificaciones a la capa de presentación.
type NotificationHandler struct {
	center *notify.Center
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(center *notify.Center) *NotificationHandler {
	return &NotificationHandler{center: center}
}

// List toasts y diálogo actuales.
// @Router /api/notificaciones [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	toasts := h.center.Toasts()
	if toasts == nil {
		toasts = []notify.Toast{}
	}
	return c.JSON(NotificationsResponse{Toasts: toasts, Dialog: h.center.Dialog(), Detalles: h.center.Details()})
}

// Dismiss descarta un toast.
// @Router /api/notificaciones/{id} [delete]
func (h *NotificationHandler) Dismiss(c *fiber.Ctx) error {
	if !h.center.Dismiss(c.Params("id")) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: "notificación no encontrada"})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CloseDialog cierra el diálogo de error.
// @Router /api/notificaciones/dialogo [delete]
func (h *NotificationHandler) CloseDialog(c *fiber.Ctx) error {
	h.center.CloseDialog()
	return c.SendStatus(fiber.StatusNoContent)
}
