package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	appanalytics "github.com/jhoicas/inventario-silo/internal/application/analytics"
	"github.com/jhoicas/inventario-silo/internal/application/dto"
	"github.com/jhoicas/inventario-silo/internal/application/inventory"
	"github.com/jhoicas/inventario-silo/internal/application/notify"
	"github.com/jhoicas/inventario-silo/internal/application/session"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/export"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/graphql"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/localstore"
	apphttp "github.com/jhoicas/inventario-silo/internal/interfaces/http"
	"github.com/jhoicas/inventario-silo/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const marzo = "desde=2024-03-01&hasta=2024-03-31"

type bridge struct {
	backend *testutil.Backend
	center  *notify.Center
	store   *store.Store
	app     *fiber.App
}

// newBridge arma la pila completa (gateway → sesión → store → orquestador) contra el backend falso.
func newBridge(t *testing.T) *bridge {
	t.Helper()
	b := testutil.NewBackend(t)
	b.SeedCategory("cat-1", "Construcción")
	b.SeedLocation("ubi-1", "Galpón A")
	b.SeedItem(entity.Item{ID: "i-1", CategoriaID: "cat-1", UbicacionID: "ubi-1", CodigoMaterial: "MAT-1", DescripcionMaterial: "Cemento", CantidadStock: decimal.NewFromInt(20), UnidadMedida: "Kg"})
	b.SeedItem(entity.Item{ID: "i-2", CategoriaID: "cat-1", UbicacionID: "ubi-1", CodigoMaterial: "MAT-2", DescripcionMaterial: "Arena", CantidadStock: decimal.NewFromInt(5), UnidadMedida: "Lt"})

	tokens, err := localstore.Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = tokens.Close() })

	reg := prometheus.NewRegistry()
	center := notify.NewCenter(time.Hour, nil)
	gw := graphql.NewClient(graphql.Config{Endpoint: b.URL(), Metrics: graphql.NewMetrics(reg)})
	mgr := session.NewManager(gw, tokens, center, nil)
	st := store.New(mgr, center, nil, time.UTC)
	orch := inventory.NewOrchestrator(mgr, st, center, nil)
	mgr.OnChange(func(auth bool) {
		if auth {
			_ = st.RefreshAll(context.Background())
			return
		}
		st.Clear()
		orch.Reset()
	})

	app := fiber.New(fiber.Config{
		// Silenciar errores internos en los tests
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})
	apphttp.Router(app, apphttp.RouterDeps{
		AppName:       "inventario-test",
		Session:       mgr,
		Store:         st,
		Orchestrator:  orch,
		Dashboard:     appanalytics.NewDashboardUseCase(st, orch, time.UTC),
		Notifications: center,
		Gatherer:      reg,
	})
	return &bridge{backend: b, center: center, store: st, app: app}
}

// do lanza la petición; body se serializa como JSON si no es nil.
func (br *bridge) do(t *testing.T, method, path string, body any) *http.Response {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := br.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func (br *bridge) login(t *testing.T) {
	t.Helper()
	resp := br.do(t, http.MethodPost, "/api/sesion/login", dto.LoginRequest{Usuario: testutil.User, Password: testutil.Password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func itemRequest(code, qty string) dto.ItemRequest {
	return dto.ItemRequest{
		CategoriaID: "cat-1", UbicacionID: "ubi-1", CodigoMaterial: code,
		DescripcionMaterial: "Ladrillo", CantidadStock: qty, UnidadMedida: "und",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Sesión
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	br := newBridge(t)
	resp := br.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decode[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, false, body["authenticated"])
}

// Sin sesión las rutas protegidas responden 401 sin llamar al backend.
func TestRutasProtegidas_SinSesion(t *testing.T) {
	br := newBridge(t)
	for _, path := range []string{"/api/items", "/api/reporte", "/api/kardex", "/api/exportar/items"} {
		resp := br.do(t, http.MethodGet, path, nil)
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
		assert.Equal(t, apphttp.CodeSession, decode[dto.ErrorResponse](t, resp).Code)
	}
	assert.Empty(t, br.backend.Calls())
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	br := newBridge(t)
	resp := br.do(t, http.MethodPost, "/api/sesion/login", dto.LoginRequest{Usuario: testutil.User, Password: "otra"})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeLoginFailed, body.Code)
	assert.Equal(t, "Credenciales inválidas", body.Message)
}

func TestLogin_CamposVacios(t *testing.T) {
	br := newBridge(t)
	resp := br.do(t, http.MethodPost, "/api/sesion/login", dto.LoginRequest{Usuario: "  "})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Zero(t, br.backend.CallCount("Login"))
}

func TestLoginListadoYLogout(t *testing.T) {
	br := newBridge(t)
	resp := br.do(t, http.MethodPost, "/api/sesion/login", dto.LoginRequest{Usuario: " admin ", Password: testutil.Password})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	st := decode[session.Status](t, resp)
	assert.True(t, st.Authenticated)
	assert.Equal(t, "Ana Quispe", st.DisplayName)

	resp = br.do(t, http.MethodGet, "/api/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[dto.ListResponse[entity.Item]](t, resp)
	require.Equal(t, 2, items.Total)
	assert.Equal(t, "MAT-1", items.Items[0].CodigoMaterial)

	resp = br.do(t, http.MethodPost, "/api/sesion/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decode[session.Status](t, resp).Authenticated)
	assert.Empty(t, br.store.Items())

	resp = br.do(t, http.MethodGet, "/api/items", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListado_Refrescar(t *testing.T) {
	br := newBridge(t)
	br.login(t)
	before := br.backend.CallCount("Categorias")

	resp := br.do(t, http.MethodGet, "/api/categorias?refrescar=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, before+1, br.backend.CallCount("Categorias"))
	assert.Equal(t, "Construcción", decode[dto.ListResponse[entity.Category]](t, resp).Items[0].Nombre)
}

// ──────────────────────────────────────────────────────────────────────────────
// Items
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitItem_AltaSanitizaFormulario(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodPost, "/api/items", itemRequest(" mat-9* ", "12,5"))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	sub := decode[inventory.ItemSubmission](t, resp)
	assert.Equal(t, inventory.StateDone, sub.State)
	require.NotNil(t, sub.Item)
	assert.Equal(t, "MAT-9", sub.Item.CodigoMaterial)
	assert.True(t, decimal.RequireFromString("12.5").Equal(sub.Item.CantidadStock))
	assert.Len(t, br.backend.Items(), 3)
}

func TestSubmitItem_Invalido(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodPost, "/api/items", dto.ItemRequest{UnidadMedida: "Kg"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, apphttp.CodeValidation, body.Code)
	assert.Contains(t, body.Fields, "codigoMaterial")
	assert.Contains(t, body.Fields, "cantidadStock")
	assert.Zero(t, br.backend.CallCount("CrearItem"))
}

func TestSubmitItem_CuerpoInvalido(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	req := httptest.NewRequest(http.MethodPost, "/api/items", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := br.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidBody, decode[dto.ErrorResponse](t, resp).Code)
}

// Código repetido: 202 con el aviso; "guardar igual" completa el alta.
func TestSubmitItem_DuplicadoYGuardarIgual(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodPost, "/api/items", itemRequest("mat-1", "3"))
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	sub := decode[inventory.ItemSubmission](t, resp)
	assert.Equal(t, inventory.StateAwaitingDecision, sub.State)
	require.NotNil(t, sub.Duplicate)
	assert.Equal(t, "i-1", sub.Duplicate.Conflict.ID)

	resp = br.do(t, http.MethodGet, "/api/items/pendientes", nil)
	assert.Equal(t, 1, decode[dto.ListResponse[inventory.ItemSubmission]](t, resp).Total)

	// Decisión equivocada para este envío.
	resp = br.do(t, http.MethodPost, "/api/items/pendientes/"+sub.ID+"/ajuste", dto.AdjustmentRequest{Decision: "cancel"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = br.do(t, http.MethodPost, "/api/items/pendientes/"+sub.ID+"/duplicado", dto.DuplicateRequest{SaveAnyway: true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inventory.StateDone, decode[inventory.ItemSubmission](t, resp).State)
	assert.Len(t, br.backend.Items(), 3)

	resp = br.do(t, http.MethodPost, "/api/items/pendientes/"+sub.ID+"/duplicado", dto.DuplicateRequest{SaveAnyway: true})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// Cambio de stock en una edición: se registra la recepción por la diferencia.
func TestSubmitItem_AjusteConRecepcion(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	orig := decimal.NewFromInt(20)
	req := itemRequest("MAT-1", "26")
	req.ID, req.DescripcionMaterial, req.UnidadMedida, req.OriginalStock = "i-1", "Cemento", "Kg", &orig

	resp := br.do(t, http.MethodPost, "/api/items", req)
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	sub := decode[inventory.ItemSubmission](t, resp)
	require.NotNil(t, sub.Adjustment)
	assert.Equal(t, entity.MovementRecepcion, sub.Adjustment.Type)

	resp = br.do(t, http.MethodPost, "/api/items/pendientes/"+sub.ID+"/ajuste", dto.AdjustmentRequest{
		Decision:  "register-movement",
		QuickForm: &dto.QuickMovementRequest{Cantidad: "6", Contraparte: "proveedor sur"},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inventory.StateDone, decode[inventory.ItemSubmission](t, resp).State)

	receipts := br.backend.Receipts()
	require.Len(t, receipts, 1)
	assert.Equal(t, "Proveedor Sur", receipts[0].RecibidoDe)
	assert.True(t, decimal.NewFromInt(6).Equal(receipts[0].CantidadRecibida))
}

func TestSubmitItem_AjusteDecisionDesconocida(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	orig := decimal.NewFromInt(20)
	req := itemRequest("MAT-1", "18")
	req.ID, req.DescripcionMaterial, req.UnidadMedida, req.OriginalStock = "i-1", "Cemento", "Kg", &orig
	sub := decode[inventory.ItemSubmission](t, br.do(t, http.MethodPost, "/api/items", req))

	resp := br.do(t, http.MethodPost, "/api/items/pendientes/"+sub.ID+"/ajuste", dto.AdjustmentRequest{Decision: "tal-vez"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// El envío sigue pendiente.
	resp = br.do(t, http.MethodPost, "/api/items/pendientes/"+sub.ID+"/ajuste", dto.AdjustmentRequest{Decision: "cancel"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, inventory.StateCancelled, decode[inventory.ItemSubmission](t, resp).State)
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos y catálogos
// ──────────────────────────────────────────────────────────────────────────────

func TestSubmitReceipt_Alta(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodPost, "/api/recepciones", dto.ReceiptRequest{
		ItemID: "i-1", RecibidoDe: "ferretería  central", CodigoMaterial: "MAT-1",
		DescripcionMaterial: "Cemento", CantidadRecibida: "4", UnidadMedida: "Kg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	r := decode[entity.Receipt](t, resp)
	assert.Equal(t, "Ferretería Central", r.RecibidoDe)

	item, ok := br.store.ItemByID("i-1")
	require.True(t, ok)
	assert.True(t, decimal.NewFromInt(24).Equal(item.CantidadStock))
}

func TestSubmitDelivery_StockInsuficiente(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodPost, "/api/entregas", dto.DeliveryRequest{
		ItemID: "i-2", EntregadoA: "obra norte", CodigoMaterial: "MAT-2",
		DescripcionMaterial: "Arena", CantidadEntregada: "50", UnidadMedida: "Lt",
	})
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInsufficientStock, decode[dto.ErrorResponse](t, resp).Code)
	assert.Zero(t, br.backend.CallCount("CrearEntrega"))
}

func TestSubmitCategoria(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodPost, "/api/categorias", dto.NameRequest{Nombre: "  Herramientas  "})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Herramientas", decode[entity.Category](t, resp).Nombre)
	assert.Len(t, br.store.Categories(), 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eliminación
// ──────────────────────────────────────────────────────────────────────────────

func TestDeleteItem_ExigeCodigo(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/api/items/i-2/confirmacion", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	conf := decode[inventory.DeleteConfirmation](t, resp)
	assert.True(t, conf.RequireMatch)
	assert.Equal(t, "MAT-2", conf.MatchValue)

	resp = br.do(t, http.MethodDelete, "/api/items/i-2", dto.DeleteRequest{Confirmacion: "MAT-1"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Len(t, br.backend.Items(), 2)

	resp = br.do(t, http.MethodDelete, "/api/items/i-2", dto.DeleteRequest{Confirmacion: "mat-2"})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Len(t, br.backend.Items(), 1)
	_, ok := br.store.ItemByID("i-2")
	assert.False(t, ok)
}

func TestDelete_ConfirmacionEnQuery(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodDelete, "/api/ubicaciones/ubi-1", nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, 1, br.backend.CallCount("EliminarUbicacion"))

	resp = br.do(t, http.MethodGet, "/api/items/no-existe/confirmacion", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Reporte y kardex
// ──────────────────────────────────────────────────────────────────────────────

func TestReporte_PorRango(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/api/reporte?"+marzo, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum := decode[dto.ReportSummaryDTO](t, resp)
	assert.Equal(t, "Del 01/03/2024 al 31/03/2024", sum.RangeLabel)
	assert.Len(t, sum.Rows, 2)

	call, ok := br.backend.LastCall("ReporteMensual")
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", call.Variables["desde"])

	// Todas las filas están en cero.
	resp = br.do(t, http.MethodGet, "/api/reporte?ocultarCeros=true", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	sum = decode[dto.ReportSummaryDTO](t, resp)
	assert.Empty(t, sum.Rows)
	assert.Equal(t, 2, sum.HiddenRows)
}

func TestReporte_RangoInvertido(t *testing.T) {
	br := newBridge(t)
	br.login(t)
	calls := br.backend.CallCount("ReporteMensual")

	resp := br.do(t, http.MethodGet, "/api/reporte?desde=2024-03-31&hasta=2024-03-01", nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, apphttp.CodeInvalidRange, decode[dto.ErrorResponse](t, resp).Code)
	assert.Equal(t, calls, br.backend.CallCount("ReporteMensual"))
}

func TestKardex(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/api/kardex", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = br.do(t, http.MethodPost, "/api/recepciones", dto.ReceiptRequest{
		ItemID: "i-1", RecibidoDe: "Proveedor", CodigoMaterial: "MAT-1",
		DescripcionMaterial: "Cemento", CantidadRecibida: "4", UnidadMedida: "Kg",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = br.do(t, http.MethodGet, "/api/kardex?itemId=i-1&"+marzo, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	view := decode[dto.KardexViewDTO](t, resp)
	assert.Equal(t, "MAT-1", view.CodigoMaterial)
	require.Len(t, view.Movimientos, 1)
	assert.Equal(t, "Proveedor", view.Movimientos[0].Referencia)
	require.Len(t, view.Recientes, 1)
	assert.Equal(t, "i-1", view.Recientes[0].ID)

	// Fuera del rango no quedan movimientos fechados.
	resp = br.do(t, http.MethodGet, "/api/kardex?desde=2024-04-01&hasta=2024-04-30", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[dto.KardexViewDTO](t, resp).Movimientos)
}

// ──────────────────────────────────────────────────────────────────────────────
// Exportación
// ──────────────────────────────────────────────────────────────────────────────

func TestExportar_Excel(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/api/exportar/items", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, export.ExcelWriter{}.ContentType(), resp.Header.Get("Content-Type"))
	cd := resp.Header.Get("Content-Disposition")
	assert.Contains(t, cd, `attachment; filename="inventario-general-`)
	assert.True(t, strings.HasSuffix(cd, `.xlsx"`))

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestExportar_PDF(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/api/reporte?"+marzo, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = br.do(t, http.MethodGet, "/api/exportar/reporte?formato=pdf", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "reporte-mensual-")
}

func TestExportar_Errores(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/api/exportar/items?formato=csv", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = br.do(t, http.MethodGet, "/api/exportar/facturas", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Sin entregas: nada que exportar y se avisa con un toast.
	resp = br.do(t, http.MethodGet, "/api/exportar/entregas", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, apphttp.CodeNoData, decode[dto.ErrorResponse](t, resp).Code)
	toasts := br.center.Toasts()
	require.NotEmpty(t, toasts)
	assert.Equal(t, "No hay datos para exportar", toasts[len(toasts)-1].Message)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestNotificaciones(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/api/notificaciones", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[apphttp.NotificationsResponse](t, resp)
	require.NotEmpty(t, list.Toasts)
	assert.Equal(t, session.MsgLoginOK, list.Toasts[0].Message)

	id := list.Toasts[0].ID
	resp = br.do(t, http.MethodDelete, "/api/notificaciones/"+id, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = br.do(t, http.MethodDelete, "/api/notificaciones/"+id, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = br.do(t, http.MethodDelete, "/api/notificaciones/dialogo", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestMetrics(t *testing.T) {
	br := newBridge(t)
	br.login(t)

	resp := br.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `inventario_graphql_requests_total{operation="Login",outcome="ok"} 1`)
}
