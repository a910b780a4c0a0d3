// Package analytics deriva las vistas de reporte y kardex a partir de la instantánea del store:
// filas resueltas contra el índice de items, ajustes sin registro y movimientos filtrados por rango.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// Placeholder valor que se muestra cuando falta un dato de identidad.
const Placeholder = "—"

// Etiquetas de los ajustes agregados.
const (
	SourceAggregated = "aggregated"
	PeriodFallback   = "Rango consultado"
)

// ResolveReportRows completa identidad, unidad y stock de cada fila desde el índice de items:
// primero por itemId, luego por código. Lo que siga faltando queda como Placeholder.
func ResolveReportRows(rows []entity.ReportRow, byID, byCode map[string]entity.Item) []entity.ReportRow {
	out := make([]entity.ReportRow, 0, len(rows))
	for _, row := range rows {
		item, found := entity.Item{}, false
		if row.ItemID != "" {
			item, found = byID[row.ItemID]
		}
		if !found && row.CodigoMaterial != "" {
			item, found = byCode[entity.NormalizeCode(row.CodigoMaterial)]
		}

		if row.ItemID == "" {
			row.ItemID = item.ID
		}
		row.CodigoMaterial = firstNonEmpty(row.CodigoMaterial, item.CodigoMaterial)
		row.NombreMaterial = firstNonEmpty(row.NombreMaterial, item.NombreMaterial)
		row.DescripcionMaterial = firstNonEmpty(row.DescripcionMaterial, item.DescripcionMaterial)
		row.UnidadMedida = firstNonEmpty(row.UnidadMedida, item.UnidadMedida)
		if !row.StockDespuesBalance.Valid {
			stock := decimal.Zero
			if found {
				stock = item.CantidadStock
			}
			row.StockDespuesBalance = decimal.NewNullDecimal(stock)
		}
		out = append(out, row)
	}
	return out
}

// FilterNonZero oculta las filas sin entradas ni salidas en el rango.
func FilterNonZero(rows []entity.ReportRow) []entity.ReportRow {
	out := make([]entity.ReportRow, 0, len(rows))
	for _, row := range rows {
		if !row.TotalEntradas.IsZero() || !row.TotalSalidas.IsZero() {
			out = append(out, row)
		}
	}
	return out
}

// AdjustmentsForRange une los totales sin registro del backend (agregados, sin fecha) con el
// registro de la sesión. Los ajustes con fecha fuera del rango se descartan; los agregados siempre quedan.
func AdjustmentsForRange(rows []entity.ReportRow, manual []entity.ManualAdjustment, rng dominv.DateRange, loc *time.Location) []entity.ManualAdjustment {
	period := rng.Label(loc)
	if period == dominv.MsgRangeUndefined {
		period = PeriodFallback
	}

	out := make([]entity.ManualAdjustment, 0, len(manual))
	for _, row := range rows {
		key := row.ItemID
		if key == "" {
			key = row.CodigoMaterial
		}
		base := entity.ManualAdjustment{
			ItemID:              row.ItemID,
			CodigoMaterial:      firstNonEmpty(row.CodigoMaterial, ""),
			DescripcionMaterial: firstNonEmpty(row.DescripcionMaterial, ""),
			PeriodLabel:         period,
			Source:              SourceAggregated,
		}
		if row.TotalEntradasSinRegistro.IsPositive() {
			in := base
			in.ID = "sr-in-" + key
			in.Amount = row.TotalEntradasSinRegistro
			in.Type = entity.AdjustmentIncrease
			out = append(out, in)
		}
		if row.TotalSalidasSinRegistro.IsPositive() {
			dec := base
			dec.ID = "sr-out-" + key
			dec.Amount = row.TotalSalidasSinRegistro
			dec.Type = entity.AdjustmentDecrease
			out = append(out, dec)
		}
	}

	from, fromOK := dominv.ParseDay(rng.From, loc, false)
	to, toOK := dominv.ParseDay(rng.To, loc, true)
	for _, adj := range manual {
		if adj.Timestamp != nil {
			if fromOK && adj.Timestamp.Before(from) {
				continue
			}
			if toOK && adj.Timestamp.After(to) {
				continue
			}
		}
		out = append(out, adj)
	}
	return out
}

// AdjustmentWhen texto de la columna de fecha: fecha y hora locales o el período del agregado.
func AdjustmentWhen(adj entity.ManualAdjustment, loc *time.Location) string {
	if adj.Timestamp != nil {
		if loc == nil {
			loc = time.Local
		}
		return adj.Timestamp.In(loc).Format("02/01/2006 · 15:04")
	}
	if adj.PeriodLabel != "" {
		return adj.PeriodLabel
	}
	return PeriodFallback
}

func firstNonEmpty(value, fallback string) string {
	if value != "" {
		return value
	}
	if fallback != "" {
		return fallback
	}
	return Placeholder
}
