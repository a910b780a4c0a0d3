package export

import (
	"time"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// ItemColumns inventario general.
func ItemColumns() []Column[entity.Item] {
	return []Column[entity.Item]{
		{Header: "Código material", Value: func(i entity.Item) string { return i.CodigoMaterial }},
		{Header: "Categoría", Value: func(i entity.Item) string { return i.NombreMaterial }},
		{Header: "Nombre del item", Value: func(i entity.Item) string { return i.DescripcionMaterial }},
		{Header: "Stock", Value: func(i entity.Item) string { return FormatDecimal(i.CantidadStock) }},
		{Header: "Unidad", Value: func(i entity.Item) string { return i.UnidadMedida }},
		{Header: "Ubicación", Value: func(i entity.Item) string { return i.Localizacion }},
	}
}

// ReceiptColumns historial de recepciones; la categoría sale del item vinculado.
func ReceiptColumns(loc *time.Location, itemsByID map[string]entity.Item) []Column[entity.Receipt] {
	return []Column[entity.Receipt]{
		{Header: "Fecha", Value: func(r entity.Receipt) string { return FormatDate(r.Fecha, loc) }},
		{Header: "Código material", Value: func(r entity.Receipt) string { return r.CodigoMaterial }},
		{Header: "Categoría", Value: func(r entity.Receipt) string { return itemsByID[r.ItemID].NombreMaterial }},
		{Header: "Descripción", Value: func(r entity.Receipt) string { return r.DescripcionMaterial }},
		{Header: "Recibido de", Value: func(r entity.Receipt) string { return r.RecibidoDe }},
		{Header: "Cantidad", Value: func(r entity.Receipt) string { return FormatDecimal(r.CantidadRecibida) }},
		{Header: "Unidad", Value: func(r entity.Receipt) string { return r.UnidadMedida }},
		{Header: "Observaciones", Value: func(r entity.Receipt) string { return r.Observaciones }},
	}
}

// DeliveryColumns historial de entregas.
func DeliveryColumns(loc *time.Location, itemsByID map[string]entity.Item) []Column[entity.Delivery] {
	return []Column[entity.Delivery]{
		{Header: "Fecha", Value: func(d entity.Delivery) string { return FormatDate(d.Fecha, loc) }},
		{Header: "Código material", Value: func(d entity.Delivery) string { return d.CodigoMaterial }},
		{Header: "Categoría", Value: func(d entity.Delivery) string { return itemsByID[d.ItemID].NombreMaterial }},
		{Header: "Descripción", Value: func(d entity.Delivery) string { return d.DescripcionMaterial }},
		{Header: "Entregado a", Value: func(d entity.Delivery) string { return d.EntregadoA }},
		{Header: "Cantidad", Value: func(d entity.Delivery) string { return FormatDecimal(d.CantidadEntregada) }},
		{Header: "Unidad", Value: func(d entity.Delivery) string { return d.UnidadMedida }},
		{Header: "Observaciones", Value: func(d entity.Delivery) string { return d.Observaciones }},
	}
}

// KardexColumns movimientos del kardex.
func KardexColumns(loc *time.Location) []Column[entity.KardexMovement] {
	return []Column[entity.KardexMovement]{
		{Header: "Fecha", Value: func(m entity.KardexMovement) string { return FormatDate(m.Fecha, loc) }},
		{Header: "Tipo", Value: func(m entity.KardexMovement) string { return m.Tipo }},
		{Header: "Referencia", Value: func(m entity.KardexMovement) string { return m.Referencia }},
		{Header: "Descripción", Value: func(m entity.KardexMovement) string { return m.Descripcion }},
		{Header: "Observación", Value: func(m entity.KardexMovement) string { return m.Observaciones }},
		{Header: "Cantidad", Value: func(m entity.KardexMovement) string { return FormatDecimal(m.Cantidad) }},
		{Header: "Unidad", Value: func(m entity.KardexMovement) string { return m.UnidadMedida }},
	}
}

// ReportColumns reporte de movimientos por item.
func ReportColumns() []Column[entity.ReportRow] {
	return []Column[entity.ReportRow]{
		{Header: "Código material", Value: func(r entity.ReportRow) string { return r.CodigoMaterial }},
		{Header: "Categoría", Value: func(r entity.ReportRow) string { return r.NombreMaterial }},
		{Header: "Entradas", Value: func(r entity.ReportRow) string { return FormatDecimal(r.TotalEntradas) }},
		{Header: "Salidas", Value: func(r entity.ReportRow) string { return FormatDecimal(r.TotalSalidas) }},
		{Header: "Entradas S/R", Value: func(r entity.ReportRow) string { return FormatDecimal(r.TotalEntradasSinRegistro) }},
		{Header: "Salidas S/R", Value: func(r entity.ReportRow) string { return FormatDecimal(r.TotalSalidasSinRegistro) }},
		{Header: "Balance", Value: func(r entity.ReportRow) string { return FormatDecimal(r.Balance()) }},
		{Header: "Stock después del balance", Value: func(r entity.ReportRow) string { return FormatDecimal(r.StockDespuesBalance.Decimal) }},
		{Header: "Unidad", Value: func(r entity.ReportRow) string { return r.UnidadMedida }},
	}
}

// ── Tablas por conjunto ───────────────────────────────────────────────────────

// ItemsTable inventario general.
func ItemsTable(items []entity.Item) (Table, error) {
	return Project("Inventario General", "inventario-general", ItemColumns(), items)
}

// ReceiptsTable historial de recepciones.
func ReceiptsTable(rows []entity.Receipt, itemsByID map[string]entity.Item, loc *time.Location) (Table, error) {
	return Project("Historial de Recepciones", "recepciones", ReceiptColumns(loc, itemsByID), rows)
}

// DeliveriesTable historial de entregas.
func DeliveriesTable(rows []entity.Delivery, itemsByID map[string]entity.Item, loc *time.Location) (Table, error) {
	return Project("Historial de Entregas", "entregas", DeliveryColumns(loc, itemsByID), rows)
}

// KardexTable movimientos del kardex (ya filtrados por rango).
func KardexTable(rows []entity.KardexMovement, loc *time.Location) (Table, error) {
	return Project("Movimientos Kardex", "kardex", KardexColumns(loc), rows)
}

// ReportTable reporte por rango; title suele llevar la etiqueta del rango.
func ReportTable(rows []entity.ReportRow, title string) (Table, error) {
	if title == "" {
		title = "Reporte de Movimientos"
	}
	return Project(title, "reporte-mensual", ReportColumns(), rows)
}
