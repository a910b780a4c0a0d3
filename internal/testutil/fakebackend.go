// Package testutil backend GraphQL en memoria para tests de integración del cliente.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Credenciales y token que acepta el backend falso.
const (
	User     = "admin"
	Password = "secreto"
	Token    = "token-valido"
)

// FixedDate fecha que el backend asigna a los movimientos creados.
var FixedDate = time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)

var opNameRe = regexp.MustCompile(`^\s*(?:query|mutation)\s+([A-Za-z0-9_]+)`)

// Call una petición recibida.
type Call struct {
	Operation string
	Variables map[string]any
	Auth      string
}

type failure struct {
	status  int
	message string
}

// Backend servidor GraphQL falso con estado (items, categorías, ubicaciones, movimientos).
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	seq        int
	items      []entity.Item
	categories []entity.Category
	locations  []entity.Location
	receipts   []entity.Receipt
	deliveries []entity.Delivery
	report     []entity.ReportRow // si no es nil reemplaza el reporte calculado
	calls      []Call
	failures   map[string]failure
	profile    entity.Profile
	loginToken string
}

// NewBackend levanta el servidor; se cierra solo al terminar el test.
func NewBackend(t interface{ Cleanup(func()) }) *Backend {
	b := &Backend{
		failures:   map[string]failure{},
		profile:    entity.Profile{ID: "u-1", Nombre: "Ana Quispe", NombreUsuario: User, Rol: "admin"},
		loginToken: Token,
	}
	b.Server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.Server.Close)
	return b
}

// URL endpoint GraphQL.
func (b *Backend) URL() string { return b.Server.URL + "/graphql" }

// ── Sembrado y fallos ────────────────────────────────────────────────────────

// SeedCategory agrega una categoría.
func (b *Backend) SeedCategory(id, nombre string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.categories = append(b.categories, entity.Category{ID: id, Nombre: nombre})
}

// SeedLocation agrega una ubicación.
func (b *Backend) SeedLocation(id, nombre string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.locations = append(b.locations, entity.Location{ID: id, Nombre: nombre})
}

// SeedItem agrega un item; completa nombreMaterial y localizacion desde las referencias.
func (b *Backend) SeedItem(it entity.Item) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.denormalize(&it)
	b.items = append(b.items, it)
}

// SeedReceipt agrega una recepción sin tocar el stock.
func (b *Backend) SeedReceipt(r entity.Receipt) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.receipts = append(b.receipts, r)
}

// SetReport fija las filas que devuelve ReporteMensual.
func (b *Backend) SetReport(rows []entity.ReportRow) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.report = rows
}

// SetLoginToken token que devuelve Login (y que luego se acepta).
func (b *Backend) SetLoginToken(tok string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loginToken = tok
}

// Fail hace que la operación responda con error hasta ClearFailures.
// status 200 produce un error GraphQL; otro status, un error HTTP.
func (b *Backend) Fail(operation string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[operation] = failure{status: status, message: message}
}

// ClearFailures elimina los fallos inyectados.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = map[string]failure{}
}

// ── Inspección ───────────────────────────────────────────────────────────────

// Calls peticiones recibidas en orden.
func (b *Backend) Calls() []Call {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Call(nil), b.calls...)
}

// CallCount número de veces que se ejecutó la operación.
func (b *Backend) CallCount(operation string) int {
	n := 0
	for _, c := range b.Calls() {
		if c.Operation == operation {
			n++
		}
	}
	return n
}

// LastCall última petición de la operación indicada.
func (b *Backend) LastCall(operation string) (Call, bool) {
	calls := b.Calls()
	for i := len(calls) - 1; i >= 0; i-- {
		if calls[i].Operation == operation {
			return calls[i], true
		}
	}
	return Call{}, false
}

// Items copia de los items del backend.
func (b *Backend) Items() []entity.Item {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.Item(nil), b.items...)
}

// Receipts copia de las recepciones del backend.
func (b *Backend) Receipts() []entity.Receipt {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.Receipt(nil), b.receipts...)
}

// Deliveries copia de las entregas del backend.
func (b *Backend) Deliveries() []entity.Delivery {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.Delivery(nil), b.deliveries...)
}

// ── Servidor ─────────────────────────────────────────────────────────────────

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

func (b *Backend) serve(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"errors": []map[string]string{{"message": "JSON inválido"}}})
		return
	}
	op := ""
	if m := opNameRe.FindStringSubmatch(req.Query); m != nil {
		op = m[1]
	}
	auth := r.Header.Get("Authorization")

	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, Call{Operation: op, Variables: req.Variables, Auth: auth})

	if f, ok := b.failures[op]; ok {
		if f.status == http.StatusOK {
			writeJSON(w, http.StatusOK, map[string]any{"data": nil, "errors": []map[string]string{{"message": f.message}}})
			return
		}
		body := map[string]any{}
		if f.message != "" {
			body["errors"] = []map[string]string{{"message": f.message}}
		}
		writeJSON(w, f.status, body)
		return
	}

	if op != "Login" && auth != "Bearer "+b.loginToken {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"errors": []map[string]string{{"message": "Token inválido o expirado"}}})
		return
	}

	data, err := b.dispatch(op, req.Variables)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]any{"data": nil, "errors": []map[string]string{{"message": err.Error()}}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

func (b *Backend) dispatch(op string, vars map[string]any) (map[string]any, error) {
	input, _ := vars["input"].(map[string]any)
	id, _ := vars["id"].(string)

	switch op {
	case "Login":
		if vars["usuario"] != User || vars["password"] != Password {
			return nil, fmt.Errorf("Credenciales inválidas")
		}
		return map[string]any{"login": b.loginToken}, nil
	case "PerfilActual":
		return map[string]any{"perfilActual": b.profile}, nil
	case "Items":
		return map[string]any{"items": b.items}, nil
	case "Categorias":
		return map[string]any{"categorias": b.categories}, nil
	case "Ubicaciones":
		return map[string]any{"ubicaciones": b.locations}, nil
	case "Recepciones":
		return map[string]any{"recepciones": b.receipts}, nil
	case "Entregas":
		return map[string]any{"entregas": b.deliveries}, nil
	case "ReporteMensual":
		return map[string]any{"reporteMensual": b.buildReport()}, nil
	case "KardexPorCodigo":
		code, _ := vars["codigoMaterial"].(string)
		return map[string]any{"kardexPorCodigoMaterial": b.buildKardex(code)}, nil

	case "CrearItem":
		it := itemFromInput(input)
		it.ID = b.nextID("item")
		b.denormalize(&it)
		b.items = append(b.items, it)
		return map[string]any{"crearItem": it}, nil
	case "ActualizarItem":
		it := itemFromInput(input)
		it.ID = str(input, "id")
		i := b.itemIndex(it.ID)
		if i < 0 {
			return nil, fmt.Errorf("Item no encontrado")
		}
		b.denormalize(&it)
		b.items[i] = it
		return map[string]any{"actualizarItem": it}, nil
	case "EliminarItem":
		if i := b.itemIndex(id); i >= 0 {
			b.items = append(b.items[:i], b.items[i+1:]...)
		}
		b.receipts = filter(b.receipts, func(r entity.Receipt) bool { return r.ItemID != id })
		b.deliveries = filter(b.deliveries, func(d entity.Delivery) bool { return d.ItemID != id })
		return map[string]any{"eliminarItem": true}, nil

	case "CrearCategoria":
		c := entity.Category{ID: b.nextID("cat"), Nombre: str(input, "nombre"), Descripcion: str(input, "descripcion")}
		b.categories = append(b.categories, c)
		return map[string]any{"crearCategoria": c}, nil
	case "ActualizarCategoria":
		c := entity.Category{ID: str(input, "id"), Nombre: str(input, "nombre"), Descripcion: str(input, "descripcion")}
		for i := range b.categories {
			if b.categories[i].ID == c.ID {
				b.categories[i] = c
			}
		}
		return map[string]any{"actualizarCategoria": c}, nil
	case "EliminarCategoria":
		b.categories = filter(b.categories, func(c entity.Category) bool { return c.ID != id })
		return map[string]any{"eliminarCategoria": true}, nil

	case "CrearUbicacion":
		l := entity.Location{ID: b.nextID("ubi"), Nombre: str(input, "nombre"), Descripcion: str(input, "descripcion")}
		b.locations = append(b.locations, l)
		return map[string]any{"crearUbicacion": l}, nil
	case "ActualizarUbicacion":
		l := entity.Location{ID: str(input, "id"), Nombre: str(input, "nombre"), Descripcion: str(input, "descripcion")}
		for i := range b.locations {
			if b.locations[i].ID == l.ID {
				b.locations[i] = l
			}
		}
		return map[string]any{"actualizarUbicacion": l}, nil
	case "EliminarUbicacion":
		b.locations = filter(b.locations, func(l entity.Location) bool { return l.ID != id })
		return map[string]any{"eliminarUbicacion": true}, nil

	case "CrearRecepcion", "ActualizarRecepcion":
		r := entity.Receipt{
			ID:                  str(input, "id"),
			ItemID:              str(input, "itemId"),
			Fecha:               FixedDate.Format(time.RFC3339),
			RecibidoDe:          str(input, "recibidoDe"),
			CodigoMaterial:      str(input, "codigoMaterial"),
			DescripcionMaterial: str(input, "descripcionMaterial"),
			CantidadRecibida:    num(input, "cantidadRecibida"),
			UnidadMedida:        str(input, "unidadMedida"),
			Observaciones:       str(input, "observaciones"),
		}
		if op == "CrearRecepcion" {
			r.ID = b.nextID("rec")
			b.receipts = append(b.receipts, r)
			b.adjustStock(r.ItemID, r.CantidadRecibida)
			return map[string]any{"crearRecepcion": r}, nil
		}
		for i := range b.receipts {
			if b.receipts[i].ID == r.ID {
				b.adjustStock(r.ItemID, r.CantidadRecibida.Sub(b.receipts[i].CantidadRecibida))
				b.receipts[i] = r
			}
		}
		return map[string]any{"actualizarRecepcion": r}, nil
	case "EliminarRecepcion":
		for _, r := range b.receipts {
			if r.ID == id {
				b.adjustStock(r.ItemID, r.CantidadRecibida.Neg())
			}
		}
		b.receipts = filter(b.receipts, func(r entity.Receipt) bool { return r.ID != id })
		return map[string]any{"eliminarRecepcion": true}, nil

	case "CrearEntrega", "ActualizarEntrega":
		d := entity.Delivery{
			ID:                  str(input, "id"),
			ItemID:              str(input, "itemId"),
			Fecha:               FixedDate.Format(time.RFC3339),
			EntregadoA:          str(input, "entregadoA"),
			CodigoMaterial:      str(input, "codigoMaterial"),
			DescripcionMaterial: str(input, "descripcionMaterial"),
			CantidadEntregada:   num(input, "cantidadEntregada"),
			UnidadMedida:        str(input, "unidadMedida"),
			Observaciones:       str(input, "observaciones"),
		}
		if op == "CrearEntrega" {
			d.ID = b.nextID("ent")
			b.deliveries = append(b.deliveries, d)
			b.adjustStock(d.ItemID, d.CantidadEntregada.Neg())
			return map[string]any{"crearEntrega": d}, nil
		}
		for i := range b.deliveries {
			if b.deliveries[i].ID == d.ID {
				b.adjustStock(d.ItemID, b.deliveries[i].CantidadEntregada.Sub(d.CantidadEntregada))
				b.deliveries[i] = d
			}
		}
		return map[string]any{"actualizarEntrega": d}, nil
	case "EliminarEntrega":
		for _, d := range b.deliveries {
			if d.ID == id {
				b.adjustStock(d.ItemID, d.CantidadEntregada)
			}
		}
		b.deliveries = filter(b.deliveries, func(d entity.Delivery) bool { return d.ID != id })
		return map[string]any{"eliminarEntrega": true}, nil
	}
	return nil, fmt.Errorf("operación desconocida: %q", op)
}

func (b *Backend) buildReport() []entity.ReportRow {
	if b.report != nil {
		return b.report
	}
	rows := make([]entity.ReportRow, 0, len(b.items))
	for _, it := range b.items {
		row := entity.ReportRow{
			ItemID:              it.ID,
			CodigoMaterial:      it.CodigoMaterial,
			NombreMaterial:      it.NombreMaterial,
			DescripcionMaterial: it.DescripcionMaterial,
			StockDespuesBalance: decimal.NewNullDecimal(it.CantidadStock),
			UnidadMedida:        it.UnidadMedida,
		}
		for _, r := range b.receipts {
			if r.ItemID == it.ID {
				row.TotalEntradas = row.TotalEntradas.Add(r.CantidadRecibida)
			}
		}
		for _, d := range b.deliveries {
			if d.ItemID == it.ID {
				row.TotalSalidas = row.TotalSalidas.Add(d.CantidadEntregada)
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func (b *Backend) buildKardex(code string) *entity.Kardex {
	var item *entity.Item
	for i := range b.items {
		if b.items[i].CodigoMaterial == code {
			item = &b.items[i]
			break
		}
	}
	if item == nil {
		return nil
	}
	k := &entity.Kardex{CodigoMaterial: item.CodigoMaterial, NombreMaterial: item.NombreMaterial, StockActual: item.CantidadStock, Movimientos: []entity.KardexMovement{}}
	for _, r := range b.receipts {
		if r.ItemID == item.ID {
			k.Movimientos = append(k.Movimientos, entity.KardexMovement{Fecha: r.Fecha, Tipo: "entrada", Referencia: r.RecibidoDe, Cantidad: r.CantidadRecibida, UnidadMedida: r.UnidadMedida, Origen: "recepcion", RegistroID: r.ID, Observaciones: r.Observaciones, EsSinRegistro: r.EsSinRegistro})
		}
	}
	for _, d := range b.deliveries {
		if d.ItemID == item.ID {
			k.Movimientos = append(k.Movimientos, entity.KardexMovement{Fecha: d.Fecha, Tipo: "salida", Referencia: d.EntregadoA, Cantidad: d.CantidadEntregada, UnidadMedida: d.UnidadMedida, Origen: "entrega", RegistroID: d.ID, Observaciones: d.Observaciones, EsSinRegistro: d.EsSinRegistro})
		}
	}
	return k
}

func (b *Backend) nextID(prefix string) string {
	b.seq++
	return fmt.Sprintf("%s-%d", prefix, b.seq)
}

func (b *Backend) itemIndex(id string) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}

func (b *Backend) adjustStock(itemID string, delta decimal.Decimal) {
	if i := b.itemIndex(itemID); i >= 0 {
		b.items[i].CantidadStock = b.items[i].CantidadStock.Add(delta)
	}
}

func (b *Backend) denormalize(it *entity.Item) {
	for _, c := range b.categories {
		if c.ID == it.CategoriaID {
			it.NombreMaterial = c.Nombre
		}
	}
	for _, l := range b.locations {
		if l.ID == it.UbicacionID {
			it.Localizacion = l.Nombre
		}
	}
}

func itemFromInput(in map[string]any) entity.Item {
	return entity.Item{
		CategoriaID:         str(in, "categoriaId"),
		UbicacionID:         str(in, "ubicacionId"),
		CodigoMaterial:      strings.TrimSpace(str(in, "codigoMaterial")),
		DescripcionMaterial: str(in, "descripcionMaterial"),
		CantidadStock:       num(in, "cantidadStock"),
		UnidadMedida:        str(in, "unidadMedida"),
	}
}

func str(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func num(m map[string]any, key string) decimal.Decimal {
	switch v := m[key].(type) {
	case float64:
		return decimal.NewFromFloat(v).Round(2)
	case string:
		d, _ := decimal.NewFromString(v)
		return d
	}
	return decimal.Zero
}

func filter[T any](in []T, keep func(T) bool) []T {
	out := in[:0]
	for _, v := range in {
		if keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
