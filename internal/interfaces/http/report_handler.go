package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-silo/internal/application/analytics"
	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// KardexDefaultDays días que cubre el kardex cuando no llega rango.
const KardexDefaultDays = 30

// MsgKardexNotSelected no hay kardex cargado ni código en la petición.
const MsgKardexNotSelected = "Selecciona un item para ver su kardex"

// ReportHandler reporte por rango y kardex por item.
type ReportHandler struct {
	store *store.Store
	uc    *appanalytics.DashboardUseCase
	now   func() time.Time
}

// NewReportHandler construye el handler.
func NewReportHandler(st *store.Store, uc *appanalytics.DashboardUseCase) *ReportHandler {
	return &ReportHandler{store: st, uc: uc, now: time.Now}
}

// GetReport godoc
// @Summary      Reporte de movimientos por rango
// @Description  Con desde/hasta (AAAA-MM-DD) fija el filtro activo y recarga; sin ellos responde
//
//	con el último reporte cargado. ocultarCeros quita las filas sin movimiento.
//
// @Tags         reporte
// @Produce      json
// @Param        desde         query  string  false  "Inicio del rango (AAAA-MM-DD)"
// @Param        hasta         query  string  false  "Fin del rango (AAAA-MM-DD)"
// @Param        ocultarCeros  query  bool    false  "Ocultar filas sin movimiento"
// @Success      200  {object}  dto.ReportSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reporte [get]
func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	desde, hasta := strings.TrimSpace(c.Query("desde")), strings.TrimSpace(c.Query("hasta"))
	if desde != "" || hasta != "" || c.QueryBool("refrescar") {
		rng := h.store.ReportRange()
		if desde != "" || hasta != "" {
			rng = dominv.DateRange{From: desde, To: hasta}
		}
		if err := h.store.FetchReport(c.UserContext(), rng); err != nil {
			return writeError(c, err)
		}
	}
	return c.JSON(h.uc.ReportSummary(c.QueryBool("ocultarCeros")))
}

// GetKardex godoc
// @Summary      Kardex de un item
// @Description  itemId o codigo selecciona el item (queda en el historial de consultas);
//
//	sin ellos usa el kardex cargado. Sin rango muestra los últimos 30 días.
//
// @Tags         reporte
// @Produce      json
// @Param        itemId  query  string  false  "Id del item"
// @Param        codigo  query  string  false  "Código material"
// @Param        desde   query  string  false  "Inicio del rango (AAAA-MM-DD)"
// @Param        hasta   query  string  false  "Fin del rango (AAAA-MM-DD)"
// @Success      200  {object}  dto.KardexViewDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/kardex [get]
func (h *ReportHandler) GetKardex(c *fiber.Ctx) error {
	rng, err := h.kardexRange(c)
	if err != nil {
		return writeError(c, err)
	}

	itemID := strings.TrimSpace(c.Query("itemId"))
	code := strings.TrimSpace(c.Query("codigo"))
	if itemID != "" || code != "" {
		if err := h.selectKardex(c, itemID, code); err != nil {
			return writeError(c, err)
		}
	}

	view := h.uc.KardexView(rng)
	if view == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: CodeNotFound, Message: MsgKardexNotSelected})
	}
	return c.JSON(view)
}

func (h *ReportHandler) kardexRange(c *fiber.Ctx) (dominv.DateRange, error) {
	rng := dominv.DateRange{From: strings.TrimSpace(c.Query("desde")), To: strings.TrimSpace(c.Query("hasta"))}
	if rng.From == "" && rng.To == "" {
		return dominv.LastDays(h.now().In(h.store.Location()), KardexDefaultDays), nil
	}
	if _, _, err := rng.Resolve(h.store.Location()); err != nil {
		return dominv.DateRange{}, err
	}
	return rng, nil
}

// selectKardex carga el kardex del item indicado. Un código sin item local se consulta igual.
func (h *ReportHandler) selectKardex(c *fiber.Ctx, itemID, code string) error {
	if itemID != "" {
		if item, ok := h.store.ItemByID(itemID); ok {
			return h.store.SelectKardexItem(c.UserContext(), item)
		}
	}
	if code != "" {
		if item, ok := h.store.ItemByCode(code); ok {
			return h.store.SelectKardexItem(c.UserContext(), item)
		}
		return h.store.FetchKardex(c.UserContext(), dominv.SanitizeCode(code, dominv.MaxCodigoMaterial, dominv.CodeOptions{AllowSpaces: true}), itemID)
	}
	return fmt.Errorf("%w: item %q", domain.ErrNotFound, itemID)
}
