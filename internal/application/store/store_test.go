package store_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-silo/internal/application/notify"
	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/internal/infrastructure/graphql"
	"github.com/jhoicas/inventario-silo/internal/testutil"
)

type fixture struct {
	backend *testutil.Backend
	center  *notify.Center
	store   *store.Store
}

func newFixture(t *testing.T, token string) *fixture {
	t.Helper()
	b := testutil.NewBackend(t)
	center := notify.NewCenter(time.Hour, nil)
	gw := graphql.NewClient(graphql.Config{Endpoint: b.URL()})
	req := testutil.StaticRequester{Gateway: gw, Token: token}
	return &fixture{backend: b, center: center, store: store.New(req, center, nil, time.UTC)}
}

func seed(b *testutil.Backend) {
	b.SeedCategory("cat-1", "Químicos")
	b.SeedCategory("cat-2", "Ferretería")
	b.SeedLocation("ubi-1", "Galpón A")
	b.SeedItem(entity.Item{ID: "i-1", CategoriaID: "cat-1", UbicacionID: "ubi-1", CodigoMaterial: "MAT-1", DescripcionMaterial: "Zinc", CantidadStock: decimal.NewFromInt(20), UnidadMedida: "lt"})
	b.SeedItem(entity.Item{ID: "i-2", CategoriaID: "cat-1", UbicacionID: "ubi-1", CodigoMaterial: "mat-2", DescripcionMaterial: "Ácido", CantidadStock: decimal.NewFromInt(5), UnidadMedida: "Kg"})
	b.SeedItem(entity.Item{ID: "i-3", CategoriaID: "cat-2", UbicacionID: "ubi-1", CodigoMaterial: "MAT-2", DescripcionMaterial: "Agua", CantidadStock: decimal.NewFromInt(1), UnidadMedida: "Und"})
}

func lastToast(t *testing.T, c *notify.Center) notify.Toast {
	t.Helper()
	toasts := c.Toasts()
	require.NotEmpty(t, toasts)
	return toasts[len(toasts)-1]
}

// ── Items e índices ──────────────────────────────────────────────────────────

func TestFetchItems_IndicesYUnidades(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)

	require.NoError(t, f.store.FetchItems(context.Background()))

	items := f.store.Items()
	require.Len(t, items, 3)
	assert.Equal(t, "Lt", items[0].UnidadMedida, "la unidad se normaliza al ingresar")

	it, ok := f.store.ItemByID("i-2")
	require.True(t, ok)
	assert.Equal(t, "Ácido", it.DescripcionMaterial)

	// mat-2 y MAT-2 comparten código normalizado: gana el primero.
	it, ok = f.store.ItemByCode(" Mat-2 ")
	require.True(t, ok)
	assert.Equal(t, "i-2", it.ID)
	assert.Equal(t, map[string][]string{"MAT-2": {"i-2", "i-3"}}, f.store.DuplicateCodes())

	conflict, ok := f.store.FindCodeConflict("mat-2", "i-2")
	require.True(t, ok)
	assert.Equal(t, "i-3", conflict.ID)
	_, ok = f.store.FindCodeConflict("MAT-1", "i-1")
	assert.False(t, ok)

	assert.False(t, f.store.Loading(store.Items))
}

func TestFetchItems_UnidadDesconocidaQuedaVacia(t *testing.T) {
	f := newFixture(t, testutil.Token)
	f.backend.SeedItem(entity.Item{ID: "i-9", CodigoMaterial: "MAT-9", DescripcionMaterial: "Aceite", CantidadStock: decimal.NewFromInt(3), UnidadMedida: "litros"})

	require.NoError(t, f.store.FetchItems(context.Background()))

	it, ok := f.store.ItemByID("i-9")
	require.True(t, ok)
	assert.Equal(t, "", it.UnidadMedida, "solo se conservan unidades del catálogo")
	assert.Equal(t, "", f.store.SortedItems()[0].UnidadMedida)
}

func TestSortedItems_ColacionEspanola(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)
	require.NoError(t, f.store.FetchItems(context.Background()))

	var got []string
	for _, it := range f.store.SortedItems() {
		got = append(got, it.DescripcionMaterial)
	}
	// Ferretería antes que Químicos; dentro de Químicos, "Ácido" antes que "Zinc".
	assert.Equal(t, []string{"Agua", "Ácido", "Zinc"}, got)
}

func TestFetch_ErrorConservaDatosYNotifica(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)
	ctx := context.Background()
	require.NoError(t, f.store.FetchItems(ctx))

	f.backend.Fail("Items", http.StatusInternalServerError, "fallo interno")
	err := f.store.FetchItems(ctx)
	require.Error(t, err)

	assert.Len(t, f.store.Items(), 3)
	toast := lastToast(t, f.center)
	assert.Equal(t, ports.IntentError, toast.Intent)
	assert.Equal(t, "fallo interno", toast.Message)
	assert.False(t, f.store.Loading(store.Items))
}

func TestFetch_SinSesion(t *testing.T) {
	f := newFixture(t, "")
	err := f.store.FetchCategories(context.Background())
	assert.ErrorIs(t, err, domain.ErrSession)
	assert.Empty(t, f.backend.Calls())
	assert.Equal(t, domain.ErrSession.Error(), lastToast(t, f.center).Message)
}

func TestRefreshAll(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)

	require.NoError(t, f.store.RefreshAll(context.Background()))
	assert.Len(t, f.store.Items(), 3)
	assert.Len(t, f.store.Categories(), 2)
	assert.Len(t, f.store.Locations(), 1)
	for _, op := range []string{"Items", "Categorias", "Ubicaciones", "Recepciones", "Entregas"} {
		assert.Equal(t, 1, f.backend.CallCount(op), op)
	}
	assert.Zero(t, f.backend.CallCount("ReporteMensual"))
}

// ── Última sincronización ────────────────────────────────────────────────────

func TestFetchReceipts_UltimaSincronizacion(t *testing.T) {
	f := newFixture(t, testutil.Token)
	f.backend.SeedReceipt(entity.Receipt{ID: "r-1", ItemID: "i-1", Fecha: "2024-03-01T10:00:00Z"})
	f.backend.SeedReceipt(entity.Receipt{ID: "r-2", ItemID: "i-1", Fecha: "2024-03-10T08:30:00Z"})
	f.backend.SeedReceipt(entity.Receipt{ID: "r-3", ItemID: "i-1", Fecha: "no-es-fecha"})

	_, ok := f.store.LastSync()
	require.False(t, ok)

	require.NoError(t, f.store.FetchReceipts(context.Background()))
	last, ok := f.store.LastSync()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 3, 10, 8, 30, 0, 0, time.UTC), last.UTC())

	f.store.TouchLastSync(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	again, _ := f.store.LastSync()
	assert.Equal(t, last, again, "la marca nunca retrocede")
}

// ── Reporte ──────────────────────────────────────────────────────────────────

func TestFetchReport_RangoInvalidoNoLlamaAlBackend(t *testing.T) {
	f := newFixture(t, testutil.Token)
	err := f.store.FetchReport(context.Background(), store.ReportRange{From: "2024-03-10", To: "2024-03-01"})

	assert.ErrorIs(t, err, domain.ErrInvalidRange)
	assert.Zero(t, f.backend.CallCount("ReporteMensual"))
	assert.Equal(t, inventory.MsgRangeInverted, lastToast(t, f.center).Message)
}

func TestFetchReport_EnviaRangoUTC(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)
	rng := store.ReportRange{From: "2024-03-01", To: "2024-03-31"}

	require.NoError(t, f.store.FetchReport(context.Background(), rng))
	call, ok := f.backend.LastCall("ReporteMensual")
	require.True(t, ok)
	assert.Equal(t, "2024-03-01T00:00:00.000Z", call.Variables["desde"])
	assert.Equal(t, "2024-03-31T23:59:59.999Z", call.Variables["hasta"])
	assert.Len(t, f.store.Report(), 3)
	assert.Equal(t, rng, f.store.ReportRange())
}

// ── Kardex ───────────────────────────────────────────────────────────────────

func TestSelectKardexItem_HistorialYVista(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)
	ctx := context.Background()
	require.NoError(t, f.store.FetchItems(ctx))

	i1, _ := f.store.ItemByID("i-1")
	i2, _ := f.store.ItemByID("i-2")

	require.NoError(t, f.store.SelectKardexItem(ctx, i1))
	require.NoError(t, f.store.SelectKardexItem(ctx, i2))
	require.NoError(t, f.store.SelectKardexItem(ctx, i1))

	k := f.store.Kardex()
	require.NotNil(t, k)
	assert.Equal(t, "MAT-1", k.CodigoMaterial)
	call, _ := f.backend.LastCall("KardexPorCodigo")
	assert.Equal(t, "i-1", call.Variables["itemId"])

	recent := f.store.RecentKardexItems()
	require.Len(t, recent, 2)
	assert.Equal(t, "i-1", recent[0].ID)
	top := f.store.TopKardexItems()
	require.Len(t, top, 2)
	assert.Equal(t, "i-1", top[0].ID)

	assert.True(t, f.store.KardexShows("i-1", ""))
	assert.True(t, f.store.KardexShows("", "MAT-1"))
	assert.False(t, f.store.KardexShows("i-2", "mat-2"))

	before := f.backend.CallCount("KardexPorCodigo")
	require.NoError(t, f.store.RefreshKardexFor(ctx, "i-2", "mat-2"))
	assert.Equal(t, before, f.backend.CallCount("KardexPorCodigo"), "otro item no recarga el kardex")
	require.NoError(t, f.store.RefreshKardexFor(ctx, "i-1", "MAT-1"))
	assert.Equal(t, before+1, f.backend.CallCount("KardexPorCodigo"))
}

func TestSelectKardexItem_SinCodigo(t *testing.T) {
	f := newFixture(t, testutil.Token)
	err := f.store.SelectKardexItem(context.Background(), entity.Item{ID: "x"})
	require.Error(t, err)
	assert.Equal(t, store.MsgKardexNoCode, lastToast(t, f.center).Message)
	assert.Empty(t, f.backend.Calls())
}

func TestFetchKardex_CodigoDesconocido(t *testing.T) {
	f := newFixture(t, testutil.Token)
	require.NoError(t, f.store.FetchKardex(context.Background(), "NO-EXISTE", ""))
	assert.Nil(t, f.store.Kardex())

	call, _ := f.backend.LastCall("KardexPorCodigo")
	_, hasItem := call.Variables["itemId"]
	assert.False(t, hasItem)
}

// ── Limpieza y sondeo ────────────────────────────────────────────────────────

func TestClear(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)
	ctx := context.Background()
	require.NoError(t, f.store.RefreshAll(ctx))
	i1, _ := f.store.ItemByID("i-1")
	require.NoError(t, f.store.SelectKardexItem(ctx, i1))

	f.store.Clear()
	assert.Empty(t, f.store.Items())
	assert.Empty(t, f.store.Categories())
	assert.Nil(t, f.store.Kardex())
	assert.Empty(t, f.store.RecentKardexItems())
	_, ok := f.store.ItemByID("i-1")
	assert.False(t, ok)
}

// clearingRequester vacía el store cuando responde la operación indicada, como un logout en curso.
type clearingRequester struct {
	inner testutil.StaticRequester
	op    string
	store *store.Store
}

func (r *clearingRequester) Request(ctx context.Context, op ports.Operation, vars map[string]any) (json.RawMessage, error) {
	data, err := r.inner.Request(ctx, op, vars)
	if op.Name == r.op {
		r.store.Clear()
	}
	return data, err
}

func TestRefresh_ClearEnCursoDescartaLaCarga(t *testing.T) {
	b := testutil.NewBackend(t)
	seed(b)
	center := notify.NewCenter(time.Hour, nil)
	gw := graphql.NewClient(graphql.Config{Endpoint: b.URL()})
	req := &clearingRequester{inner: testutil.StaticRequester{Gateway: gw, Token: testutil.Token}, op: "Items"}
	st := store.New(req, center, nil, time.UTC)
	req.store = st

	err := st.Refresh(context.Background(), store.Items)
	assert.ErrorIs(t, err, domain.ErrSessionChanged)
	assert.Empty(t, st.Items(), "la respuesta de la sesión cerrada no repuebla el store")
	assert.Empty(t, center.Toasts())
	assert.False(t, st.Loading(store.Items))
}

func TestRefresh_SinSesionTrasClearNoNotifica(t *testing.T) {
	f := newFixture(t, "")
	f.store.Clear()

	err := f.store.Refresh(context.Background(), store.Items, store.Report)
	assert.ErrorIs(t, err, domain.ErrSession)
	assert.Empty(t, f.backend.Calls())
	assert.Empty(t, f.center.Toasts(), "cerrar sesión no deja avisos de sesión no válida")
}

func TestPoller_StartStop(t *testing.T) {
	f := newFixture(t, testutil.Token)
	seed(f.backend)
	p := store.NewPoller(f.store, 10*time.Millisecond, nil)

	p.Start(context.Background())
	p.Start(context.Background())
	assert.True(t, p.Running())

	assert.Eventually(t, func() bool { return f.backend.CallCount("Items") >= 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, 1, f.backend.CallCount("ReporteMensual"), "el reporte solo se carga al iniciar")

	p.Stop()
	assert.False(t, p.Running())
	n := f.backend.CallCount("Items")
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, n, f.backend.CallCount("Items"))

	_, ok := f.store.LastSync()
	assert.True(t, ok)
}
