// Package store caché en memoria de las colecciones del backend.
// Cada colección se reemplaza completa en cada fetch; no hay actualizaciones optimistas.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/internal/domain/inventory"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Collection nombre de una colección con bandera de carga propia.
type Collection string

const (
	Items      Collection = "items"
	Categories Collection = "categorias"
	Locations  Collection = "ubicaciones"
	Receipts   Collection = "recepciones"
	Deliveries Collection = "entregas"
	Report     Collection = "reporte"
	KardexView Collection = "kardex"
)

// ReportRange filtro del reporte mensual (YYYY-MM-DD).
type ReportRange = inventory.DateRange

// Límites del historial de selección del kardex.
const (
	recentKardexLimit = 5
	topKardexLimit    = 5
)

// Mensajes de carga.
const (
	MsgKardexFailed     = "No se pudo cargar el kardex"
	MsgKardexNoCode     = "El ítem seleccionado no tiene código material."
	msgCollectionFailed = "No se pudo cargar la información"
)

// Store dueño de las copias locales. Lecturas concurrentes; cada fetch reemplaza su colección.
type Store struct {
	req      ports.Requester
	notifier ports.Notifier
	log      *logger.Logger
	loc      *time.Location
	now      func() time.Time

	mu          sync.RWMutex
	items       []entity.Item
	byID        map[string]entity.Item
	byCode      map[string]entity.Item
	dupCodes    map[string][]string
	categories  []entity.Category
	locations   []entity.Location
	receipts    []entity.Receipt
	deliveries  []entity.Delivery
	report      []entity.ReportRow
	reportRange ReportRange
	kardex      *entity.Kardex
	kardexItem  string
	recent      []string
	usage       map[string]int
	loading     map[Collection]bool
	lastSync    time.Time

	// epoch avanza en cada Clear; cleared queda en true hasta la siguiente carga exitosa.
	epoch   uint64
	cleared bool
}

type epochKey struct{}

// pinEpoch fija en ctx la época vigente para que todas las cargas de una recarga la compartan.
func (s *Store) pinEpoch(ctx context.Context) context.Context {
	if _, ok := ctx.Value(epochKey{}).(uint64); ok {
		return ctx
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return context.WithValue(ctx, epochKey{}, s.epoch)
}

func (s *Store) epochOf(ctx context.Context) uint64 {
	if e, ok := ctx.Value(epochKey{}).(uint64); ok {
		return e
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.epoch
}

// New crea el store. loc es la zona en la que se interpretan los filtros de fecha.
func New(req ports.Requester, notifier ports.Notifier, log *logger.Logger, loc *time.Location) *Store {
	if log == nil {
		log = logger.Nop()
	}
	if loc == nil {
		loc = time.Local
	}
	s := &Store{
		req:      req,
		notifier: notifier,
		log:      log.Component("store"),
		loc:      loc,
		now:      time.Now,
		loading:  map[Collection]bool{},
		usage:    map[string]int{},
	}
	s.reportRange = inventory.MonthToDate(s.now().In(loc))
	s.rebuildIndexes(nil)
	return s
}

// Location zona horaria de los filtros.
func (s *Store) Location() *time.Location { return s.loc }

// ── Fetchers ─────────────────────────────────────────────────────────────────

// fetch ejecuta op y decodifica field en out, con bandera de carga y notificación de error.
func (s *Store) fetch(ctx context.Context, col Collection, op ports.Operation, vars map[string]any, field string, out any) error {
	return s.load(ctx, col, op, vars, field, out, "")
}

// load es fetch con mensaje alternativo. Si la sesión se cerró mientras la carga estaba en curso
// el resultado se descarta sin notificar; tras Clear, la falta de sesión tampoco se notifica.
func (s *Store) load(ctx context.Context, col Collection, op ports.Operation, vars map[string]any, field string, out any, fallback string) error {
	epoch := s.epochOf(ctx)
	s.setLoading(col, true)
	defer s.setLoading(col, false)

	data, err := s.req.Request(ctx, op, vars)
	s.mu.Lock()
	stale, cleared := s.epoch != epoch, s.cleared
	if err == nil && !stale {
		s.cleared = false
	}
	s.mu.Unlock()
	if stale || errors.Is(err, domain.ErrSessionChanged) {
		s.log.Debug().Str("coleccion", string(col)).Msg("carga de una sesión cerrada; se descarta")
		return domain.ErrSessionChanged
	}
	if cleared && errors.Is(err, domain.ErrSession) {
		s.log.Debug().Str("coleccion", string(col)).Msg("carga sin sesión tras cerrar sesión")
		return err
	}
	if err == nil {
		err = ports.DecodeField(data, field, out)
	}
	if err != nil {
		s.fail(ctx, col, err, fallback)
		return err
	}
	return nil
}

// FetchItems recarga los items y reconstruye los índices. Las unidades se normalizan al ingresar;
// una unidad fuera del catálogo queda vacía.
func (s *Store) FetchItems(ctx context.Context) error {
	var items []entity.Item
	if err := s.fetch(ctx, Items, ports.OpItems, nil, "items", &items); err != nil {
		return err
	}
	for i := range items {
		items[i].UnidadMedida = inventory.EnsureUnit(items[i].UnidadMedida, "")
	}
	s.mu.Lock()
	s.items = items
	s.rebuildIndexes(items)
	s.mu.Unlock()
	s.log.Debug().Int("items", len(items)).Msg("items actualizados")
	return nil
}

// FetchCategories recarga las categorías.
func (s *Store) FetchCategories(ctx context.Context) error {
	var out []entity.Category
	if err := s.fetch(ctx, Categories, ports.OpCategorias, nil, "categorias", &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.categories = out
	s.mu.Unlock()
	return nil
}

// FetchLocations recarga las ubicaciones.
func (s *Store) FetchLocations(ctx context.Context) error {
	var out []entity.Location
	if err := s.fetch(ctx, Locations, ports.OpUbicaciones, nil, "ubicaciones", &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.locations = out
	s.mu.Unlock()
	return nil
}

// FetchReceipts recarga las recepciones y adelanta la última sincronización a la fecha más reciente.
func (s *Store) FetchReceipts(ctx context.Context) error {
	var out []entity.Receipt
	if err := s.fetch(ctx, Receipts, ports.OpRecepciones, nil, "recepciones", &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.receipts = out
	s.mu.Unlock()

	fechas := make([]string, len(out))
	for i, r := range out {
		fechas[i] = r.Fecha
	}
	s.touchFromFechas(fechas)
	return nil
}

// FetchDeliveries recarga las entregas y adelanta la última sincronización.
func (s *Store) FetchDeliveries(ctx context.Context) error {
	var out []entity.Delivery
	if err := s.fetch(ctx, Deliveries, ports.OpEntregas, nil, "entregas", &out); err != nil {
		return err
	}
	s.mu.Lock()
	s.deliveries = out
	s.mu.Unlock()

	fechas := make([]string, len(out))
	for i, d := range out {
		fechas[i] = d.Fecha
	}
	s.touchFromFechas(fechas)
	return nil
}

// FetchReport fija rng como filtro activo y recarga el reporte.
// Un rango incompleto, ilegible o invertido falla antes de llamar al backend.
func (s *Store) FetchReport(ctx context.Context, rng ReportRange) error {
	s.mu.Lock()
	s.reportRange = rng
	s.mu.Unlock()

	vars, err := rng.Variables(s.loc)
	if err != nil {
		s.notify(ports.IntentError, err.Error())
		return err
	}
	var rows []entity.ReportRow
	if err := s.fetch(ctx, Report, ports.OpReporteMensual, vars, "reporteMensual", &rows); err != nil {
		return err
	}
	s.mu.Lock()
	s.report = rows
	s.mu.Unlock()
	return nil
}

// RefreshReport recarga el reporte con el filtro activo.
func (s *Store) RefreshReport(ctx context.Context) error {
	return s.FetchReport(ctx, s.ReportRange())
}

// FetchKardex recarga el kardex de un código. itemID es opcional.
func (s *Store) FetchKardex(ctx context.Context, code, itemID string) error {
	if code == "" {
		return errors.New("kardex: código de material requerido")
	}
	vars := map[string]any{"codigoMaterial": code}
	if itemID != "" {
		vars["itemId"] = itemID
	}

	var k *entity.Kardex
	if err := s.load(ctx, KardexView, ports.OpKardexPorCodigo, vars, "kardexPorCodigoMaterial", &k, MsgKardexFailed); err != nil {
		return err
	}
	s.mu.Lock()
	s.kardex = k
	s.mu.Unlock()
	return nil
}

// SelectKardexItem muestra el kardex del item y lo registra en el historial si la carga tuvo éxito.
func (s *Store) SelectKardexItem(ctx context.Context, item entity.Item) error {
	if item.CodigoMaterial == "" {
		s.notify(ports.IntentError, MsgKardexNoCode)
		return errors.New(MsgKardexNoCode)
	}
	s.mu.Lock()
	s.kardexItem = item.ID
	s.mu.Unlock()

	if err := s.FetchKardex(ctx, item.CodigoMaterial, item.ID); err != nil {
		return err
	}
	s.recordKardexSelection(item)
	return nil
}

// RefreshKardexFor recarga el kardex solo si la vista muestra ese item (por id o código).
func (s *Store) RefreshKardexFor(ctx context.Context, itemID, code string) error {
	s.mu.RLock()
	shows, viewID := s.kardexShowsLocked(itemID, code)
	s.mu.RUnlock()
	if !shows {
		return nil
	}
	return s.FetchKardex(ctx, code, viewID)
}

// RefreshAll recarga las cinco colecciones en paralelo y espera a todas.
// Devuelve el primer error; cada fallo ya fue notificado.
func (s *Store) RefreshAll(ctx context.Context) error {
	ctx = s.pinEpoch(ctx)
	var g errgroup.Group
	g.Go(func() error { return s.FetchItems(ctx) })
	g.Go(func() error { return s.FetchCategories(ctx) })
	g.Go(func() error { return s.FetchLocations(ctx) })
	g.Go(func() error { return s.FetchReceipts(ctx) })
	g.Go(func() error { return s.FetchDeliveries(ctx) })
	return g.Wait()
}

// Refresh recarga en paralelo las colecciones indicadas (el reporte usa el filtro activo).
func (s *Store) Refresh(ctx context.Context, cols ...Collection) error {
	ctx = s.pinEpoch(ctx)
	var g errgroup.Group
	for _, col := range cols {
		var fn func(context.Context) error
		switch col {
		case Items:
			fn = s.FetchItems
		case Categories:
			fn = s.FetchCategories
		case Locations:
			fn = s.FetchLocations
		case Receipts:
			fn = s.FetchReceipts
		case Deliveries:
			fn = s.FetchDeliveries
		case Report:
			fn = s.RefreshReport
		default:
			continue
		}
		g.Go(func() error { return fn(ctx) })
	}
	return g.Wait()
}

// Clear vacía todo al cerrar sesión. La última sincronización se conserva.
// Las cargas que estaban en curso se descartan al volver.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.cleared = true
	s.items = nil
	s.categories = nil
	s.locations = nil
	s.receipts = nil
	s.deliveries = nil
	s.report = nil
	s.kardex = nil
	s.kardexItem = ""
	s.recent = nil
	s.usage = map[string]int{}
	s.loading = map[Collection]bool{}
	s.rebuildIndexes(nil)
}

// ── Última sincronización ────────────────────────────────────────────────────

// TouchLastSync adelanta la marca; nunca retrocede.
func (s *Store) TouchLastSync(t time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.After(s.lastSync) {
		s.lastSync = t
	}
}

// MarkSynced marca la sincronización con la hora actual.
func (s *Store) MarkSynced() { s.TouchLastSync(s.now()) }

// LastSync última sincronización conocida; ok=false si nunca hubo una.
func (s *Store) LastSync() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastSync, !s.lastSync.IsZero()
}

func (s *Store) touchFromFechas(fechas []string) {
	var latest time.Time
	for _, f := range fechas {
		if t, ok := entity.ParseFecha(f, s.loc); ok && t.After(latest) {
			latest = t
		}
	}
	if !latest.IsZero() {
		s.TouchLastSync(latest)
	}
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

// Items copia de los items.
func (s *Store) Items() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Item(nil), s.items...)
}

// Categories copia de las categorías.
func (s *Store) Categories() []entity.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Category(nil), s.categories...)
}

// Locations copia de las ubicaciones.
func (s *Store) Locations() []entity.Location {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Location(nil), s.locations...)
}

// Receipts copia de las recepciones.
func (s *Store) Receipts() []entity.Receipt {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Receipt(nil), s.receipts...)
}

// Deliveries copia de las entregas.
func (s *Store) Deliveries() []entity.Delivery {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.Delivery(nil), s.deliveries...)
}

// Report filas del último reporte.
func (s *Store) Report() []entity.ReportRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]entity.ReportRow(nil), s.report...)
}

// ReportRange filtro activo del reporte.
func (s *Store) ReportRange() ReportRange {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reportRange
}

// Kardex kardex cargado; nil si no hay o el código no existe.
func (s *Store) Kardex() *entity.Kardex {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kardex == nil {
		return nil
	}
	k := *s.kardex
	k.Movimientos = append([]entity.KardexMovement(nil), s.kardex.Movimientos...)
	return &k
}

// Loading indica si la colección tiene un fetch en curso.
func (s *Store) Loading(col Collection) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading[col]
}

// LoadingAll banderas de carga activas.
func (s *Store) LoadingAll() map[Collection]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[Collection]bool, len(s.loading))
	for k, v := range s.loading {
		if v {
			out[k] = true
		}
	}
	return out
}

// ── Índices ──────────────────────────────────────────────────────────────────

// rebuildIndexes requiere s.mu tomado para escritura.
// Si dos items comparten código, gana el primero en el orden del backend.
func (s *Store) rebuildIndexes(items []entity.Item) {
	byID := make(map[string]entity.Item, len(items))
	byCode := make(map[string]entity.Item, len(items))
	owners := make(map[string][]string)
	for _, it := range items {
		if it.ID != "" {
			byID[it.ID] = it
		}
		code := it.NormalizedCode()
		if code == "" {
			continue
		}
		if _, seen := byCode[code]; !seen {
			byCode[code] = it
		}
		owners[code] = append(owners[code], it.ID)
	}
	dups := make(map[string][]string)
	for code, ids := range owners {
		if len(ids) > 1 {
			dups[code] = ids
		}
	}
	s.byID, s.byCode, s.dupCodes = byID, byCode, dups
}

// ItemByID busca por id.
func (s *Store) ItemByID(id string) (entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.byID[id]
	return it, ok
}

// ItemByCode busca por código normalizado.
func (s *Store) ItemByCode(code string) (entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.byCode[entity.NormalizeCode(code)]
	return it, ok
}

// ItemsByID copia del índice por id.
func (s *Store) ItemsByID() map[string]entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]entity.Item, len(s.byID))
	for k, v := range s.byID {
		out[k] = v
	}
	return out
}

// ItemsByCode copia del índice por código normalizado.
func (s *Store) ItemsByCode() map[string]entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]entity.Item, len(s.byCode))
	for k, v := range s.byCode {
		out[k] = v
	}
	return out
}

// DuplicateCodes códigos normalizados compartidos por más de un item, con sus ids.
func (s *Store) DuplicateCodes() map[string][]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string][]string, len(s.dupCodes))
	for k, v := range s.dupCodes {
		out[k] = append([]string(nil), v...)
	}
	return out
}

// FindCodeConflict primer item (distinto de exceptID) con el mismo código normalizado.
func (s *Store) FindCodeConflict(code, exceptID string) (entity.Item, bool) {
	code = entity.NormalizeCode(code)
	if code == "" {
		return entity.Item{}, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, it := range s.items {
		if it.NormalizedCode() != code {
			continue
		}
		if exceptID != "" && it.ID == exceptID {
			continue
		}
		return it, true
	}
	return entity.Item{}, false
}

// SortedItems items ordenados por categoría, ubicación y descripción con colación española.
func (s *Store) SortedItems() []entity.Item {
	items := s.Items()
	col := collate.New(language.Spanish, collate.Loose)
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := col.CompareString(a.NombreMaterial, b.NombreMaterial); c != 0 {
			return c < 0
		}
		if c := col.CompareString(a.Localizacion, b.Localizacion); c != 0 {
			return c < 0
		}
		return col.CompareString(a.DescripcionMaterial, b.DescripcionMaterial) < 0
	})
	return items
}

// ── Kardex ───────────────────────────────────────────────────────────────────

// KardexShows indica si la vista de kardex muestra el item (por id o por código).
func (s *Store) KardexShows(itemID, code string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	shows, _ := s.kardexShowsLocked(itemID, code)
	return shows
}

// kardexShowsLocked devuelve también el id del item en pantalla para la recarga.
func (s *Store) kardexShowsLocked(itemID, code string) (bool, string) {
	if s.kardexItem != "" {
		viewing, ok := s.byID[s.kardexItem]
		if !ok {
			return false, ""
		}
		if (itemID != "" && viewing.ID == itemID) || viewing.CodigoMaterial == code {
			return true, viewing.ID
		}
		return false, ""
	}
	return s.kardex != nil && code != "" && s.kardex.CodigoMaterial == code, ""
}

// SelectedKardexItem item seleccionado para el kardex, si existe.
func (s *Store) SelectedKardexItem() (entity.Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.kardexItem == "" {
		return entity.Item{}, false
	}
	it, ok := s.byID[s.kardexItem]
	return it, ok
}

func (s *Store) recordKardexSelection(item entity.Item) {
	key := item.ID
	if key == "" {
		key = item.CodigoMaterial
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	recent := []string{key}
	for _, k := range s.recent {
		if k != key && len(recent) < recentKardexLimit {
			recent = append(recent, k)
		}
	}
	s.recent = recent
	s.usage[key]++
}

func (s *Store) resolveKey(key string) (entity.Item, bool) {
	if it, ok := s.byID[key]; ok {
		return it, true
	}
	it, ok := s.byCode[entity.NormalizeCode(key)]
	return it, ok
}

// RecentKardexItems últimos items consultados (más reciente primero).
func (s *Store) RecentKardexItems() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Item, 0, len(s.recent))
	for _, k := range s.recent {
		if it, ok := s.resolveKey(k); ok {
			out = append(out, it)
		}
	}
	return out
}

// TopKardexItems items más consultados en la sesión.
func (s *Store) TopKardexItems() []entity.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.usage))
	for k := range s.usage {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if s.usage[keys[i]] != s.usage[keys[j]] {
			return s.usage[keys[i]] > s.usage[keys[j]]
		}
		return keys[i] < keys[j]
	})
	out := make([]entity.Item, 0, topKardexLimit)
	for _, k := range keys {
		if len(out) == topKardexLimit {
			break
		}
		if it, ok := s.resolveKey(k); ok {
			out = append(out, it)
		}
	}
	return out
}

// ── Internos ─────────────────────────────────────────────────────────────────

func (s *Store) setLoading(col Collection, v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading[col] = v
}

// fail registra y notifica un error de carga. Una cancelación del llamador no se notifica.
func (s *Store) fail(ctx context.Context, col Collection, err error, fallback string) {
	if ctx.Err() != nil || errors.Is(err, context.Canceled) {
		s.log.Debug().Str("coleccion", string(col)).Msg("carga cancelada")
		return
	}
	s.log.Warn().Err(err).Str("coleccion", string(col)).Msg("fallo al cargar")
	msg := err.Error()
	if msg == "" {
		msg = fallback
	}
	if msg == "" {
		msg = msgCollectionFailed
	}
	s.notify(ports.IntentError, msg)
}

func (s *Store) notify(intent ports.Intent, msg string) {
	if s.notifier != nil {
		s.notifier.Notify(intent, msg)
	}
}
