package analytics

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// Source instantánea de lectura que alimenta las vistas (la implementa store.Store).
type Source interface {
	Report() []entity.ReportRow
	ReportRange() dominv.DateRange
	ItemsByID() map[string]entity.Item
	ItemsByCode() map[string]entity.Item
	Kardex() *entity.Kardex
	RecentKardexItems() []entity.Item
	TopKardexItems() []entity.Item
	LastSync() (time.Time, bool)
}

var _ Source = (*store.Store)(nil)

// AdjustmentLog registro local de ajustes sin movimiento (lo implementa el orquestador).
type AdjustmentLog interface {
	ManualAdjustments() []entity.ManualAdjustment
}

// DashboardUseCase arma las vistas de reporte y kardex sin tocar la red.
type DashboardUseCase struct {
	src Source
	log AdjustmentLog
	loc *time.Location
}

// NewDashboardUseCase construye el caso de uso. log puede ser nil.
func NewDashboardUseCase(src Source, log AdjustmentLog, loc *time.Location) *DashboardUseCase {
	if loc == nil {
		loc = time.Local
	}
	return &DashboardUseCase{src: src, log: log, loc: loc}
}

// ReportSummary construye el resumen del rango activo del store.
//
//  1. Resuelve las filas contra el índice de items.
//  2. Une los totales S/R con los ajustes de la sesión dentro del rango.
//  3. Aplica el filtro de ceros si hideZero.
func (uc *DashboardUseCase) ReportSummary(hideZero bool) *dto.ReportSummaryDTO {
	rng := uc.src.ReportRange()
	rows := ResolveReportRows(uc.src.Report(), uc.src.ItemsByID(), uc.src.ItemsByCode())

	var manual []entity.ManualAdjustment
	if uc.log != nil {
		manual = uc.log.ManualAdjustments()
	}
	adjustments := AdjustmentsForRange(rows, manual, rng, uc.loc)

	visible := rows
	if hideZero {
		visible = FilterNonZero(rows)
	}

	// ── Totales ───────────────────────────────────────────────────────────────
	entradas, salidas := decimal.Zero, decimal.Zero
	for _, r := range visible {
		entradas = entradas.Add(r.TotalEntradas)
		salidas = salidas.Add(r.TotalSalidas)
	}

	out := &dto.ReportSummaryDTO{
		Desde:         rng.From,
		Hasta:         rng.To,
		RangeLabel:    rng.Label(uc.loc),
		Rows:          visible,
		HiddenRows:    len(rows) - len(visible),
		TotalEntradas: entradas.Round(2),
		TotalSalidas:  salidas.Round(2),
		Adjustments:   make([]dto.AdjustmentDTO, 0, len(adjustments)),
	}
	if from, ok := dominv.ParseDay(rng.From, uc.loc, false); ok {
		out.MonthLabel = monthLabel(from)
	}
	for _, a := range adjustments {
		out.Adjustments = append(out.Adjustments, dto.AdjustmentDTO{ManualAdjustment: a, When: AdjustmentWhen(a, uc.loc)})
	}
	if t, ok := uc.src.LastSync(); ok {
		out.LastSync = &t
	}
	return out
}

// KardexView movimientos del kardex cargado, filtrados al rango (vacío = sin límite).
// Devuelve nil si no hay kardex cargado.
func (uc *DashboardUseCase) KardexView(rng dominv.DateRange) *dto.KardexViewDTO {
	k := uc.src.Kardex()
	if k == nil {
		return nil
	}
	return &dto.KardexViewDTO{
		CodigoMaterial: k.CodigoMaterial,
		NombreMaterial: k.NombreMaterial,
		StockActual:    k.StockActual,
		Desde:          rng.From,
		Hasta:          rng.To,
		Movimientos:    FilterKardexMovements(k, rng, uc.loc),
		Recientes:      uc.src.RecentKardexItems(),
		Frecuentes:     uc.src.TopKardexItems(),
	}
}

// monthLabel devuelve una etiqueta legible del mes, ej: "Febrero 2026".
func monthLabel(t time.Time) string {
	months := [...]string{
		"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
		"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
	}
	return fmt.Sprintf("%s %d", months[t.Month()-1], t.Year())
}
