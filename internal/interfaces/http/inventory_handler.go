package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/store"
)

// InventoryHandler listados del store y mutaciones del orquestador (protegido).
type InventoryHandler struct {
	store *store.Store
	orch  *inventory.Orchestrator
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(st *store.Store, orch *inventory.Orchestrator) *InventoryHandler {
	return &InventoryHandler{store: st, orch: orch}
}

// ── Listados ─────────────────────────────────────────────────────────────────

// refreshIfAsked recarga la colección si llega ?refrescar=true.
func (h *InventoryHandler) refreshIfAsked(c *fiber.Ctx, col store.Collection) error {
	if !c.QueryBool("refrescar") {
		return nil
	}
	if err := h.store.Refresh(c.UserContext(), col); err != nil {
		return err
	}
	h.store.MarkSynced()
	return nil
}

func listResponse[T any](items []T, loading bool) dto.ListResponse[T] {
	if items == nil {
		items = []T{}
	}
	return dto.ListResponse[T]{Items: items, Total: len(items), Loading: loading}
}

// ListItems godoc
// @Summary      Items del inventario ordenados por categoría, ubicación y descripción
// @Tags         inventario
// @Produce      json
// @Param        refrescar  query  bool  false  "Recargar desde el backend antes de responder"
// @Success      200  {object}  dto.ListResponse[entity.Item]
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/items [get]
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	if err := h.refreshIfAsked(c, store.Items); err != nil {
		return writeError(c, err)
	}
	return c.JSON(listResponse(h.store.SortedItems(), h.store.Loading(store.Items)))
}

// ListCategories categorías.
// @Router /api/categorias [get]
func (h *InventoryHandler) ListCategories(c *fiber.Ctx) error {
	if err := h.refreshIfAsked(c, store.Categories); err != nil {
		return writeError(c, err)
	}
	return c.JSON(listResponse(h.store.Categories(), h.store.Loading(store.Categories)))
}

// ListLocations ubicaciones.
// @Router /api/ubicaciones [get]
func (h *InventoryHandler) ListLocations(c *fiber.Ctx) error {
	if err := h.refreshIfAsked(c, store.Locations); err != nil {
		return writeError(c, err)
	}
	return c.JSON(listResponse(h.store.Locations(), h.store.Loading(store.Locations)))
}

// ListReceipts recepciones, la más reciente primero.
// @Router /api/recepciones [get]
func (h *InventoryHandler) ListReceipts(c *fiber.Ctx) error {
	if err := h.refreshIfAsked(c, store.Receipts); err != nil {
		return writeError(c, err)
	}
	return c.JSON(listResponse(h.store.Receipts(), h.store.Loading(store.Receipts)))
}

// ListDeliveries entregas, la más reciente primero.
// @Router /api/entregas [get]
func (h *InventoryHandler) ListDeliveries(c *fiber.Ctx) error {
	if err := h.refreshIfAsked(c, store.Deliveries); err != nil {
		return writeError(c, err)
	}
	return c.JSON(listResponse(h.store.Deliveries(), h.store.Loading(store.Deliveries)))
}

// ── Items ────────────────────────────────────────────────────────────────────

// SubmitItem godoc
// @Summary      Crear o editar un item
// @Description  Si el código ya existe o el stock cambió, responde 202 con el envío
//
//	en awaiting-decision; se retoma en /api/items/pendientes/{id}/duplicado o /ajuste.
//
// @Tags         inventario
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ItemRequest  true  "Formulario del item"
// @Success      200   {object}  inventory.ItemSubmission
// @Success      202   {object}  inventory.ItemSubmission
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/items [post]
func (h *InventoryHandler) SubmitItem(c *fiber.Ctx) error {
	var in dto.ItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	draft := inventory.ItemDraft{ID: strings.TrimSpace(in.ID), Form: in.Form(), OriginalStock: in.OriginalStock}
	sub, err := h.orch.SubmitItem(c.UserContext(), draft, inventory.SubmitOptions{
		Force:              in.Force,
		SkipDuplicateCheck: in.SkipDuplicateCheck,
	})
	return submissionResponse(c, sub, err)
}

// PendingItems envíos esperando una decisión.
// @Router /api/items/pendientes [get]
func (h *InventoryHandler) PendingItems(c *fiber.Ctx) error {
	return c.JSON(listResponse(h.orch.PendingSubmissions(), false))
}

// ResolveDuplicate respuesta al aviso de código duplicado.
// @Router /api/items/pendientes/{id}/duplicado [post]
func (h *InventoryHandler) ResolveDuplicate(c *fiber.Ctx) error {
	var in dto.DuplicateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	sub, err := h.orch.ResolveDuplicate(c.UserContext(), c.Params("id"), inventory.DuplicateDecision{SaveAnyway: in.SaveAnyway})
	return submissionResponse(c, sub, err)
}

// ResolveAdjustment respuesta al aviso de cambio de stock.
// @Router /api/items/pendientes/{id}/ajuste [post]
func (h *InventoryHandler) ResolveAdjustment(c *fiber.Ctx) error {
	var in dto.AdjustmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	d := inventory.AdjustmentDecision{Choice: inventory.AdjustmentChoice(strings.TrimSpace(in.Decision))}
	if in.QuickForm != nil {
		d.Quick = &inventory.QuickMovementForm{
			Cantidad:      in.QuickForm.Cantidad,
			Contraparte:   in.QuickForm.Contraparte,
			Observaciones: in.QuickForm.Observaciones,
		}
	}
	sub, err := h.orch.ResolveAdjustment(c.UserContext(), c.Params("id"), d)
	return submissionResponse(c, sub, err)
}

func submissionResponse(c *fiber.Ctx, sub *inventory.ItemSubmission, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	if sub.State == inventory.StateAwaitingDecision {
		return c.Status(fiber.StatusAccepted).JSON(sub)
	}
	return c.JSON(sub)
}

// ── Movimientos y catálogos ──────────────────────────────────────────────────

// SubmitReceipt crea o edita una recepción.
// @Router /api/recepciones [post]
func (h *InventoryHandler) SubmitReceipt(c *fiber.Ctx) error {
	var in dto.ReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.orch.SubmitReceipt(c.UserContext(), inventory.ReceiptDraft{ID: in.ID, Form: in.Form()})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(savedStatus(in.ID)).JSON(r)
}

// SubmitDelivery crea o edita una entrega.
// @Router /api/entregas [post]
func (h *InventoryHandler) SubmitDelivery(c *fiber.Ctx) error {
	var in dto.DeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	d, err := h.orch.SubmitDelivery(c.UserContext(), inventory.DeliveryDraft{ID: in.ID, Form: in.Form()})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(savedStatus(in.ID)).JSON(d)
}

// SubmitCategory crea o renombra una categoría.
// @Router /api/categorias [post]
func (h *InventoryHandler) SubmitCategory(c *fiber.Ctx) error {
	var in dto.NameRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cat, err := h.orch.SubmitCategory(c.UserContext(), inventory.NameDraft{ID: in.ID, Form: in.CategoryForm()})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(savedStatus(in.ID)).JSON(cat)
}

// SubmitLocation crea o renombra una ubicación.
// @Router /api/ubicaciones [post]
func (h *InventoryHandler) SubmitLocation(c *fiber.Ctx) error {
	var in dto.NameRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	loc, err := h.orch.SubmitLocation(c.UserContext(), inventory.NameDraft{ID: in.ID, Form: in.LocationForm()})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(savedStatus(in.ID)).JSON(loc)
}

func savedStatus(id string) int {
	if id == "" {
		return fiber.StatusCreated
	}
	return fiber.StatusOK
}

// ── Eliminación ──────────────────────────────────────────────────────────────

// resourcePaths segmento de ruta de cada recurso eliminable.
var resourcePaths = map[string]inventory.Resource{
	string(store.Items):      inventory.ResourceItem,
	string(store.Categories): inventory.ResourceCategoria,
	string(store.Locations):  inventory.ResourceUbicacion,
	string(store.Receipts):   inventory.ResourceRecepcion,
	string(store.Deliveries): inventory.ResourceEntrega,
}

// DeleteConfirmation contenido del diálogo de confirmación.
// @Router /api/{recurso}/{id}/confirmacion [get]
func (h *InventoryHandler) DeleteConfirmation(resource inventory.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		conf, err := h.orch.RequestDelete(resource, c.Params("id"))
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(conf)
	}
}

// Delete elimina tras validar la confirmación (body o ?confirmacion=).
// @Router /api/{recurso}/{id} [delete]
func (h *InventoryHandler) Delete(resource inventory.Resource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in dto.DeleteRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&in); err != nil {
				return badBody(c)
			}
		}
		if in.Confirmacion == "" {
			in.Confirmacion = c.Query("confirmacion")
		}
		if err := h.orch.ConfirmDelete(c.UserContext(), resource, c.Params("id"), in.Confirmacion); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
