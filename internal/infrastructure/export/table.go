// Package export proyecta las colecciones del inventario a tablas de texto y las escribe como
// hoja de cálculo (excelize) o PDF (maroto).
package export

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Dataset conjunto exportable.
type Dataset string

const (
	DatasetItems      Dataset = "items"
	DatasetReceipts   Dataset = "recepciones"
	DatasetDeliveries Dataset = "entregas"
	DatasetKardex     Dataset = "kardex"
	DatasetReport     Dataset = "reporte"
)

// Writer formato de salida de una tabla.
type Writer interface {
	ContentType() string
	Extension() string
	Write(w io.Writer, t Table) error
}

// Column encabezado y valor de una columna.
type Column[T any] struct {
	Header string
	Value  func(T) string
}

// Table datos ya proyectados, listos para cualquier escritor.
type Table struct {
	Title    string
	Filename string // base sin marca de tiempo ni extensión
	Headers  []string
	Rows     [][]string
}

// Project arma la tabla anteponiendo la columna "#" (1..n).
// Sin filas devuelve domain.ErrNoData.
func Project[T any](title, filename string, cols []Column[T], rows []T) (Table, error) {
	if len(rows) == 0 {
		return Table{}, domain.ErrNoData
	}
	t := Table{Title: title, Filename: filename, Headers: make([]string, 0, len(cols)+1)}
	t.Headers = append(t.Headers, "#")
	for _, c := range cols {
		t.Headers = append(t.Headers, c.Header)
	}
	t.Rows = make([][]string, 0, len(rows))
	for i, r := range rows {
		line := make([]string, 0, len(cols)+1)
		line = append(line, strconv.Itoa(i+1))
		for _, c := range cols {
			line = append(line, c.Value(r))
		}
		t.Rows = append(t.Rows, line)
	}
	return t, nil
}

// BuildFilename base-<instante ISO en UTC con ':' y '.' reemplazados por '-'>.
func BuildFilename(base string, now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15:04:05.000Z")
	return base + "-" + strings.NewReplacer(":", "-", ".", "-").Replace(stamp)
}

// ── Formato ───────────────────────────────────────────────────────────────────

var displayPrinter = message.NewPrinter(language.MustParse("es-BO"))

// FormatDecimal número con dos decimales según la configuración regional es-BO.
func FormatDecimal(d decimal.Decimal) string {
	return displayPrinter.Sprint(number.Decimal(d.Round(2).InexactFloat64(), number.Scale(2)))
}

// FormatDate fecha del backend como dd/mm/aaaa en loc; vacío si no se puede interpretar.
func FormatDate(fecha string, loc *time.Location) string {
	t, ok := entity.ParseFecha(fecha, loc)
	if !ok {
		return ""
	}
	if loc != nil {
		t = t.In(loc)
	}
	return t.Format("02/01/2006")
}
