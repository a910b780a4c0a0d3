package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReportRow agregación por item sobre un rango de fechas (la calcula el backend).
type ReportRow struct {
	ItemID                   string              `json:"itemId"`
	CodigoMaterial           string              `json:"codigoMaterial"`
	NombreMaterial           string              `json:"nombreMaterial"`
	DescripcionMaterial      string              `json:"descripcionMaterial"`
	TotalEntradas            decimal.Decimal     `json:"totalEntradas"`
	TotalSalidas             decimal.Decimal     `json:"totalSalidas"`
	TotalEntradasSinRegistro decimal.Decimal     `json:"totalEntradasSinRegistro"`
	TotalSalidasSinRegistro  decimal.Decimal     `json:"totalSalidasSinRegistro"`
	StockDespuesBalance      decimal.NullDecimal `json:"stockDespuesBalance"`
	UnidadMedida             string              `json:"unidadMedida"`
}

// Balance entradas menos salidas del rango.
func (r ReportRow) Balance() decimal.Decimal {
	return r.TotalEntradas.Sub(r.TotalSalidas)
}

// Dirección de un ajuste manual.
const (
	AdjustmentIncrease = "increase"
	AdjustmentDecrease = "decrease"
)

// MaxManualAdjustments tope del registro local de ajustes.
const MaxManualAdjustments = 20

// ManualAdjustment corrección de stock hecha sin movimiento en el kardex.
// Solo vive en la sesión actual; nunca se envía al backend.
type ManualAdjustment struct {
	ID                  string          `json:"id"`
	ItemID              string          `json:"itemId"`
	CodigoMaterial      string          `json:"codigoMaterial"`
	DescripcionMaterial string          `json:"descripcionMaterial"`
	Amount              decimal.Decimal `json:"amount"`
	Type                string          `json:"type"` // increase, decrease
	Timestamp           *time.Time      `json:"timestamp,omitempty"`
	PeriodLabel         string          `json:"periodLabel,omitempty"` // solo para los agregados S/R sin fecha
	Source              string          `json:"source,omitempty"`      // "aggregated" para los derivados del reporte
}
