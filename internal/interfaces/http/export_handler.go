package http

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/inventario-silo/internal/application/analytics"
	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/export"
)

// Formatos de exportación.
const (
	FormatXLSX = "xlsx"
	FormatPDF  = "pdf"
)

// ExportHandler descarga de colecciones como hoja de cálculo o PDF.
type ExportHandler struct {
	store    *store.Store
	reports  *ReportHandler
	notifier ports.Notifier
	writers  map[string]export.Writer
	now      func() time.Time
}

// NewExportHandler construye el handler. author firma los PDF.
func NewExportHandler(st *store.Store, reports *ReportHandler, notifier ports.Notifier, author string) *ExportHandler {
	h := &ExportHandler{store: st, reports: reports, notifier: notifier, now: time.Now}
	h.writers = map[string]export.Writer{
		FormatXLSX: export.ExcelWriter{},
		FormatPDF:  export.PDFWriter{Author: author, Now: func() time.Time { return h.now().In(st.Location()) }},
	}
	return h
}

// Export godoc
// @Summary      Exportar un conjunto de datos
// @Tags         exportar
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Produce      application/pdf
// @Param        dataset  path   string  true   "items, recepciones, entregas, kardex o reporte"
// @Param        formato  query  string  false  "xlsx (por defecto) o pdf"
// @Success      200
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/exportar/{dataset} [get]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	format := strings.ToLower(c.Query("formato", FormatXLSX))
	w, ok := h.writers[format]
	if !ok {
		return writeError(c, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format))
	}

	t, err := h.table(c, export.Dataset(c.Params("dataset")))
	if err != nil {
		if errors.Is(err, domain.ErrNoData) && h.notifier != nil {
			h.notifier.Notify(ports.IntentError, domain.ErrNoData.Error())
		}
		return writeError(c, err)
	}

	var buf bytes.Buffer
	if err := w.Write(&buf, t); err != nil {
		if h.notifier != nil {
			h.notifier.Notify(ports.IntentError, "No se pudo generar el archivo")
		}
		return writeError(c, err)
	}

	filename := export.BuildFilename(t.Filename, h.now()) + "." + w.Extension()
	c.Set(fiber.HeaderContentType, w.ContentType())
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	return c.Send(buf.Bytes())
}

func (h *ExportHandler) table(c *fiber.Ctx, ds export.Dataset) (export.Table, error) {
	loc := h.store.Location()
	switch ds {
	case export.DatasetItems:
		return export.ItemsTable(h.store.SortedItems())
	case export.DatasetReceipts:
		return export.ReceiptsTable(h.store.Receipts(), h.store.ItemsByID(), loc)
	case export.DatasetDeliveries:
		return export.DeliveriesTable(h.store.Deliveries(), h.store.ItemsByID(), loc)
	case export.DatasetReport:
		rows := appanalytics.ResolveReportRows(h.store.Report(), h.store.ItemsByID(), h.store.ItemsByCode())
		if c.QueryBool("ocultarCeros") {
			rows = appanalytics.FilterNonZero(rows)
		}
		return export.ReportTable(rows, h.store.ReportRange().Label(loc))
	case export.DatasetKardex:
		rng, err := h.reports.kardexRange(c)
		if err != nil {
			return export.Table{}, err
		}
		view := h.reports.uc.KardexView(rng)
		if view == nil {
			return export.Table{}, domain.ErrNoData
		}
		movs := make([]entity.KardexMovement, 0, len(view.Movimientos))
		for _, m := range view.Movimientos {
			mov := m.KardexMovement
			mov.Observaciones = m.ObservacionMostrada
			movs = append(movs, mov)
		}
		return export.KardexTable(movs, loc)
	}
	return export.Table{}, fmt.Errorf("%w: conjunto %q", domain.ErrNotFound, ds)
}
