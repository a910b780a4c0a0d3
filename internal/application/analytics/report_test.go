package analytics_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/application/analytics"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

var laPaz = time.FixedZone("BOT", -4*3600)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func items() (map[string]entity.Item, map[string]entity.Item) {
	cemento := entity.Item{ID: "i-1", CodigoMaterial: "MAT-1", NombreMaterial: "Construcción", DescripcionMaterial: "Cemento", CantidadStock: d("20"), UnidadMedida: "Kg"}
	arena := entity.Item{ID: "i-2", CodigoMaterial: "MAT-2", NombreMaterial: "Construcción", DescripcionMaterial: "Arena", CantidadStock: d("5"), UnidadMedida: "Lt"}
	return map[string]entity.Item{"i-1": cemento, "i-2": arena},
		map[string]entity.Item{"MAT-1": cemento, "MAT-2": arena}
}

// ── Filas del reporte ────────────────────────────────────────────────────────

func TestResolveReportRows(t *testing.T) {
	byID, byCode := items()
	rows := []entity.ReportRow{
		{ItemID: "i-1", TotalEntradas: d("3")},
		{CodigoMaterial: "mat-2", TotalSalidas: d("1"), StockDespuesBalance: decimal.NewNullDecimal(d("4"))},
		{ItemID: "huérfano"},
	}

	got := analytics.ResolveReportRows(rows, byID, byCode)
	require.Len(t, got, 3)

	assert.Equal(t, "MAT-1", got[0].CodigoMaterial)
	assert.Equal(t, "Cemento", got[0].DescripcionMaterial)
	assert.Equal(t, "Kg", got[0].UnidadMedida)
	assert.True(t, got[0].StockDespuesBalance.Decimal.Equal(d("20")), "sin stock del backend se usa el del item")

	assert.Equal(t, "i-2", got[1].ItemID, "se resuelve por código si falta el id")
	assert.Equal(t, "mat-2", got[1].CodigoMaterial, "lo que trae el backend no se pisa")
	assert.True(t, got[1].StockDespuesBalance.Decimal.Equal(d("4")))

	assert.Equal(t, analytics.Placeholder, got[2].CodigoMaterial)
	assert.Equal(t, analytics.Placeholder, got[2].UnidadMedida)
	assert.True(t, got[2].StockDespuesBalance.Valid)
	assert.True(t, got[2].StockDespuesBalance.Decimal.IsZero())

	assert.Empty(t, rows[0].CodigoMaterial, "la entrada no se modifica")
}

func TestFilterNonZero(t *testing.T) {
	rows := []entity.ReportRow{
		{ItemID: "a", TotalEntradas: d("1")},
		{ItemID: "b"},
		{ItemID: "c", TotalSalidas: d("0.5")},
		{ItemID: "d", TotalEntradasSinRegistro: d("2")},
	}
	got := analytics.FilterNonZero(rows)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ItemID)
	assert.Equal(t, "c", got[1].ItemID)
}

// ── Ajustes sin registro ─────────────────────────────────────────────────────

func TestAdjustmentsForRange(t *testing.T) {
	rng := dominv.DateRange{From: "2024-03-01", To: "2024-03-31"}
	rows := []entity.ReportRow{
		{ItemID: "i-1", CodigoMaterial: "MAT-1", DescripcionMaterial: "Cemento", TotalEntradasSinRegistro: d("2"), TotalSalidasSinRegistro: d("1.5")},
		{ItemID: "i-2", CodigoMaterial: "MAT-2"},
	}
	inside := time.Date(2024, 3, 31, 23, 0, 0, 0, laPaz)
	outside := time.Date(2024, 4, 1, 0, 30, 0, 0, laPaz)
	manual := []entity.ManualAdjustment{
		{ID: "m-1", ItemID: "i-2", Amount: d("1"), Type: entity.AdjustmentIncrease, Timestamp: &inside},
		{ID: "m-2", ItemID: "i-2", Amount: d("1"), Type: entity.AdjustmentDecrease, Timestamp: &outside},
		{ID: "m-3", ItemID: "i-2", Amount: d("1"), Type: entity.AdjustmentDecrease},
	}

	got := analytics.AdjustmentsForRange(rows, manual, rng, laPaz)
	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"sr-in-i-1", "sr-out-i-1", "m-1", "m-3"}, ids)

	assert.Equal(t, analytics.SourceAggregated, got[0].Source)
	assert.Equal(t, "Del 01/03/2024 al 31/03/2024", got[0].PeriodLabel)
	assert.Equal(t, entity.AdjustmentDecrease, got[1].Type)
	assert.True(t, got[1].Amount.Equal(d("1.5")))
	assert.Nil(t, got[0].Timestamp)
}

func TestAdjustmentsForRange_SinRango(t *testing.T) {
	rows := []entity.ReportRow{{CodigoMaterial: "MAT-9", TotalSalidasSinRegistro: d("1")}}
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	got := analytics.AdjustmentsForRange(rows, []entity.ManualAdjustment{{ID: "m", Timestamp: &ts}}, dominv.DateRange{}, laPaz)

	require.Len(t, got, 2)
	assert.Equal(t, "sr-out-MAT-9", got[0].ID, "sin itemId la clave es el código")
	assert.Equal(t, analytics.PeriodFallback, got[0].PeriodLabel)
	assert.Equal(t, "m", got[1].ID, "un rango abierto no descarta nada")
}

func TestAdjustmentWhen(t *testing.T) {
	ts := time.Date(2024, 3, 5, 18, 7, 0, 0, time.UTC)
	assert.Equal(t, "05/03/2024 · 14:07", analytics.AdjustmentWhen(entity.ManualAdjustment{Timestamp: &ts}, laPaz))
	assert.Equal(t, "Del x", analytics.AdjustmentWhen(entity.ManualAdjustment{PeriodLabel: "Del x"}, laPaz))
	assert.Equal(t, analytics.PeriodFallback, analytics.AdjustmentWhen(entity.ManualAdjustment{}, laPaz))
}

// ── Kardex ───────────────────────────────────────────────────────────────────

func TestFilterKardexMovements(t *testing.T) {
	k := &entity.Kardex{Movimientos: []entity.KardexMovement{
		{RegistroID: "antes", Fecha: "2024-02-29T23:00:00Z"},
		{RegistroID: "borde", Fecha: "2024-03-01T04:00:00Z"},
		{RegistroID: "sin-fecha", EsSinRegistro: true},
		{RegistroID: "ilegible", Fecha: "ayer"},
		{RegistroID: "fin", Fecha: "2024-04-01T03:59:00Z", Observaciones: "Entrega parcial"},
		{RegistroID: "despues", Fecha: "2024-04-01T04:00:00Z"},
	}}

	got := analytics.FilterKardexMovements(k, dominv.DateRange{From: "2024-03-01", To: "2024-03-31"}, laPaz)
	ids := make([]string, 0, len(got))
	for _, m := range got {
		ids = append(ids, m.RegistroID)
	}
	assert.Equal(t, []string{"borde", "sin-fecha", "ilegible", "fin"}, ids)
	assert.Equal(t, dominv.SinRegistroPlaceholder, got[1].ObservacionMostrada)
	assert.Equal(t, "Entrega parcial", got[3].ObservacionMostrada)

	assert.Len(t, analytics.FilterKardexMovements(k, dominv.DateRange{}, laPaz), 6)
	assert.Empty(t, analytics.FilterKardexMovements(nil, dominv.DateRange{}, laPaz))
}
