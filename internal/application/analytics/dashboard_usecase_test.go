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

type fakeSource struct {
	rows   []entity.ReportRow
	rng    dominv.DateRange
	kardex *entity.Kardex
	synced time.Time
}

func (f fakeSource) Report() []entity.ReportRow { return f.rows }
func (f fakeSource) ReportRange() dominv.DateRange { return f.rng }
func (f fakeSource) Kardex() *entity.Kardex { return f.kardex }
func (f fakeSource) RecentKardexItems() []entity.Item { return []entity.Item{{ID: "i-1"}} }
func (f fakeSource) TopKardexItems() []entity.Item { return nil }
func (f fakeSource) ItemsByID() map[string]entity.Item {
	byID, _ := items()
	return byID
}
func (f fakeSource) ItemsByCode() map[string]entity.Item {
	_, byCode := items()
	return byCode
}
func (f fakeSource) LastSync() (time.Time, bool) { return f.synced, !f.synced.IsZero() }

type fakeLog []entity.ManualAdjustment

func (l fakeLog) ManualAdjustments() []entity.ManualAdjustment { return l }

func TestReportSummary(t *testing.T) {
	ts := time.Date(2024, 3, 10, 12, 0, 0, 0, laPaz)
	src := fakeSource{
		rng: dominv.DateRange{From: "2024-03-01", To: "2024-03-31"},
		rows: []entity.ReportRow{
			{ItemID: "i-1", TotalEntradas: decimal.NewFromInt(4), TotalSalidas: decimal.NewFromInt(1)},
			{ItemID: "i-2", TotalSalidasSinRegistro: decimal.NewFromInt(2)},
		},
		synced: ts,
	}
	uc := analytics.NewDashboardUseCase(src, fakeLog{{ID: "m-1", Timestamp: &ts, Type: entity.AdjustmentIncrease}}, laPaz)

	all := uc.ReportSummary(false)
	assert.Len(t, all.Rows, 2)
	assert.Zero(t, all.HiddenRows)
	assert.Equal(t, "Marzo 2024", all.MonthLabel)
	assert.Equal(t, "Del 01/03/2024 al 31/03/2024", all.RangeLabel)
	require.Len(t, all.Adjustments, 2)
	assert.Equal(t, "sr-out-i-2", all.Adjustments[0].ID)
	assert.Equal(t, all.RangeLabel, all.Adjustments[0].When)
	assert.Equal(t, "10/03/2024 · 12:00", all.Adjustments[1].When)
	require.NotNil(t, all.LastSync)

	visible := uc.ReportSummary(true)
	require.Len(t, visible.Rows, 1)
	assert.Equal(t, 1, visible.HiddenRows)
	assert.Equal(t, "Cemento", visible.Rows[0].DescripcionMaterial)
	assert.True(t, visible.TotalEntradas.Equal(decimal.NewFromInt(4)))
	assert.True(t, visible.TotalSalidas.Equal(decimal.NewFromInt(1)))
	assert.Len(t, visible.Adjustments, 2, "los ajustes no dependen del filtro de ceros")
}

func TestKardexView(t *testing.T) {
	uc := analytics.NewDashboardUseCase(fakeSource{}, nil, laPaz)
	assert.Nil(t, uc.KardexView(dominv.DateRange{}))

	src := fakeSource{kardex: &entity.Kardex{
		CodigoMaterial: "MAT-1",
		StockActual:    decimal.NewFromInt(7),
		Movimientos: []entity.KardexMovement{
			{RegistroID: "r-1", Fecha: "2024-03-02T12:00:00Z"},
			{RegistroID: "r-2", Fecha: "2024-01-02T12:00:00Z"},
		},
	}}
	view := analytics.NewDashboardUseCase(src, nil, laPaz).KardexView(dominv.DateRange{From: "2024-03-01"})
	require.NotNil(t, view)
	assert.Equal(t, "MAT-1", view.CodigoMaterial)
	require.Len(t, view.Movimientos, 1)
	assert.Equal(t, "r-1", view.Movimientos[0].RegistroID)
	assert.Len(t, view.Recientes, 1)
}
