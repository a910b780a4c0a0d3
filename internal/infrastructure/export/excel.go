package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// SheetName nombre de la única hoja del libro.
const SheetName = "Datos"

var (
	_ Writer = ExcelWriter{}
	_ Writer = PDFWriter{}
)

// ExcelWriter escribe la tabla como .xlsx: encabezados en negrita y una fila por registro.
type ExcelWriter struct{}

// ContentType tipo MIME del libro.
func (ExcelWriter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// Extension extensión del archivo.
func (ExcelWriter) Extension() string { return "xlsx" }

// Write genera el libro y lo vuelca en w.
func (ExcelWriter) Write(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("excel: renombrar hoja: %w", err)
	}

	if err := setRow(f, 1, t.Headers); err != nil {
		return err
	}
	for i, r := range t.Rows {
		if err := setRow(f, i+2, r); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("excel: estilo: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(t.Headers), 1)
	if err != nil {
		return fmt.Errorf("excel: celda: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", last, bold); err != nil {
		return fmt.Errorf("excel: aplicar estilo: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("excel: escribir: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return fmt.Errorf("excel: celda: %w", err)
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
		return fmt.Errorf("excel: fila %d: %w", n, err)
	}
	return nil
}
