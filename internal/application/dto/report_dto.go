package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// ReportSummaryDTO respuesta de GET /api/reporte.
type ReportSummaryDTO struct {
	Desde      string `json:"desde"`
	Hasta      string `json:"hasta"`
	RangeLabel string `json:"rangeLabel"` // "Del 01/03/2024 al 31/03/2024"
	MonthLabel string `json:"monthLabel"` // mes de inicio, ej: "Marzo 2024"

	Rows       []entity.ReportRow `json:"rows"`
	HiddenRows int                `json:"hiddenRows"` // filas ocultas por el filtro de ceros

	TotalEntradas decimal.Decimal `json:"totalEntradas"`
	TotalSalidas  decimal.Decimal `json:"totalSalidas"`

	Adjustments []AdjustmentDTO `json:"adjustments"` // agregados S/R + registro de la sesión
	LastSync    *time.Time      `json:"lastSync,omitempty"`
}

// AdjustmentDTO ajuste sin registro con su columna de fecha ya formateada.
type AdjustmentDTO struct {
	entity.ManualAdjustment
	When string `json:"when"`
}

// KardexViewDTO respuesta de GET /api/kardex.
type KardexViewDTO struct {
	CodigoMaterial string              `json:"codigoMaterial"`
	NombreMaterial string              `json:"nombreMaterial"`
	StockActual    decimal.Decimal     `json:"stockActual"`
	Desde          string              `json:"desde,omitempty"`
	Hasta          string              `json:"hasta,omitempty"`
	Movimientos    []KardexMovementDTO `json:"movimientos"`
	Recientes      []entity.Item       `json:"recientes"`
	Frecuentes     []entity.Item       `json:"frecuentes"`
}

// KardexMovementDTO movimiento del kardex con la observación que se muestra (S/R si aplica).
type KardexMovementDTO struct {
	entity.KardexMovement
	ObservacionMostrada string `json:"observacionMostrada"`
}
