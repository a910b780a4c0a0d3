package export

import (
	"fmt"
	"io"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 240, Green: 244, Blue: 248}
)

// Ancho relativo de la columna "#" frente al resto.
const (
	indexWeight  = 1
	columnWeight = 3
)

// PDFWriter escribe la tabla como PDF apaisado: título, fecha de emisión y tabla.
type PDFWriter struct {
	Author string
	Now    func() time.Time
}

// ContentType tipo MIME del documento.
func (PDFWriter) ContentType() string { return "application/pdf" }

// Extension extensión del archivo.
func (PDFWriter) Extension() string { return "pdf" }

// Write genera el documento y lo vuelca en w.
func (p PDFWriter) Write(w io.Writer, t Table) error {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	weights := columnWeights(len(t.Headers))
	grid := 0
	for _, wt := range weights {
		grid += wt
	}

	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithOrientation(orientation.Horizontal).
		WithMaxGridSize(grid).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(t.Title, true)
	if p.Author != "" {
		b = b.WithAuthor(p.Author, true)
	}
	m := maroto.New(b.Build())

	m.AddRows(titleRow(t.Title, now(), grid))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow(t.Headers, weights))
	for i, r := range t.Rows {
		m.AddRows(tableDetailRow(r, weights, i%2 == 1))
	}

	doc, err := m.Generate()
	if err != nil {
		return fmt.Errorf("pdf: generar documento: %w", err)
	}
	if _, err := w.Write(doc.GetBytes()); err != nil {
		return fmt.Errorf("pdf: escribir: %w", err)
	}
	return nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// titleRow: título (izq) y fecha de emisión (der).
func titleRow(title string, at time.Time, grid int) core.Row {
	right := grid / 3
	return row.New(14).Add(
		col.New(grid-right).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(right).Add(
			text.New("Emitido: "+at.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 5, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla con fondo primario.
func tableHeaderRow(headers []string, weights []int) core.Row {
	cols := make([]core.Col, 0, len(headers))
	for i, h := range headers {
		cols = append(cols, col.New(weights[i]).Add(text.New(h, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(i),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(cols...)
}

// tableDetailRow: una fila por registro, con franjas alternas.
func tableDetailRow(values []string, weights []int, striped bool) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(weights[i]).Add(text.New(v, props.Text{
			Size: 8, Align: cellAlign(i), Top: 1, Left: 1, Right: 1,
		})))
	}
	r := row.New(7).Add(cols...)
	if striped {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

// ── helpers ───────────────────────────────────────────────────────────────────

func columnWeights(n int) []int {
	weights := make([]int, n)
	for i := range weights {
		weights[i] = columnWeight
	}
	if n > 0 {
		weights[0] = indexWeight
	}
	return weights
}

func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Center
	}
	return align.Left
}
