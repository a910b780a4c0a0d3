// Package inventory orquesta las mutaciones: validación, avisos de código duplicado y de ajuste
// de stock, persistencia y recargas dependientes del store.
package inventory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	"github.com/jhoicas/inventario-silo/pkg/logger"
)

// Mensajes visibles del orquestador.
const (
	MsgItemInvalid     = "Corrige los campos resaltados antes de continuar"
	MsgItemMissing     = "El item que intentas editar ya no existe; recarga el listado"
	MsgCategoryInvalid = "Completa los campos obligatorios de la categoría"
	MsgLocationInvalid = "Completa los campos obligatorios de la ubicación"
	MsgReceiptInvalid  = "Verifica los datos obligatorios de la recepción"
	MsgDeliveryInvalid = "Confirma que la entrega cumple las validaciones indicadas"

	MsgItemCreated     = "Item creado correctamente"
	MsgItemUpdated     = "Item actualizado correctamente"
	MsgCategoryCreated = "Categoría creada"
	MsgCategoryUpdated = "Categoría actualizada"
	MsgLocationCreated = "Ubicación creada"
	MsgLocationUpdated = "Ubicación actualizada"
	MsgReceiptCreated  = "Recepción registrada"
	MsgReceiptUpdated  = "Recepción actualizada"
	MsgDeliveryCreated = "Entrega registrada"
	MsgDeliveryUpdated = "Entrega actualizada"

	MsgAutoReceipt      = "Recepción registrada automáticamente"
	MsgAutoDelivery     = "Entrega registrada automáticamente"
	MsgMovementQuantity = "Define una cantidad válida para registrar el movimiento."
	DefaultCounterparty = "Ajuste automatizado"
	DefaultMovementNote = "Ajuste de stock registrado desde la edición del item."
)

// Orchestrator dueño de los envíos suspendidos y del registro local de ajustes manuales.
type Orchestrator struct {
	req      ports.Requester
	snap     Snapshot
	notifier ports.Notifier
	log      *logger.Logger
	now      func() time.Time

	mu          sync.Mutex
	pending     map[string]*ItemSubmission
	adjustments []entity.ManualAdjustment
}

// NewOrchestrator crea el orquestador.
func NewOrchestrator(req ports.Requester, snap Snapshot, notifier ports.Notifier, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{
		req:      req,
		snap:     snap,
		notifier: notifier,
		log:      log.Component("orchestrator"),
		now:      time.Now,
		pending:  map[string]*ItemSubmission{},
	}
}

// Reset descarta los envíos suspendidos y el registro de ajustes (cierre de sesión).
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending = map[string]*ItemSubmission{}
	o.adjustments = nil
}

// ── Envíos suspendidos ───────────────────────────────────────────────────────

// Pending envío suspendido por id.
func (o *Orchestrator) Pending(id string) (*ItemSubmission, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.pending[id]
	if !ok {
		return nil, false
	}
	return s.clone(), true
}

// PendingSubmissions envíos suspendidos, del más antiguo al más reciente.
func (o *Orchestrator) PendingSubmissions() []*ItemSubmission {
	o.mu.Lock()
	out := make([]*ItemSubmission, 0, len(o.pending))
	for _, s := range o.pending {
		out = append(out, s.clone())
	}
	o.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

func (o *Orchestrator) suspend(sub *ItemSubmission) *ItemSubmission {
	sub.ID = uuid.NewString()
	sub.enter(StateAwaitingDecision)
	o.mu.Lock()
	o.pending[sub.ID] = sub.clone()
	o.mu.Unlock()
	o.log.Debug().Str("envio", sub.ID).Bool("duplicado", sub.Duplicate != nil).Msg("envío suspendido")
	return sub
}

// take retira el envío si want lo acepta; si no, lo deja en su lugar.
func (o *Orchestrator) take(id string, want func(*ItemSubmission) bool) (*ItemSubmission, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	s, ok := o.pending[id]
	if !ok {
		return nil, ErrUnknownSubmission
	}
	if !want(s) {
		return nil, ErrWrongPrompt
	}
	delete(o.pending, id)
	return s, nil
}

func (o *Orchestrator) repark(sub *ItemSubmission, msg string) {
	sub.Error = msg
	o.mu.Lock()
	o.pending[sub.ID] = sub
	o.mu.Unlock()
}

// ── Ajustes manuales ─────────────────────────────────────────────────────────

// ManualAdjustments ajustes sin registro de la sesión, el más reciente primero.
func (o *Orchestrator) ManualAdjustments() []entity.ManualAdjustment {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]entity.ManualAdjustment(nil), o.adjustments...)
}

func (o *Orchestrator) recordAdjustment(intent MovementIntent) {
	ts := o.now()
	code := intent.Item.CodigoMaterial
	if code == "" {
		code = "—"
	}
	kind := entity.AdjustmentIncrease
	if intent.Type == entity.MovementEntrega {
		kind = entity.AdjustmentDecrease
	}
	entry := entity.ManualAdjustment{
		ID:                  uuid.NewString(),
		ItemID:              intent.Item.ID,
		CodigoMaterial:      code,
		DescripcionMaterial: intent.Item.DescripcionMaterial,
		Amount:              intent.Amount,
		Type:                kind,
		Timestamp:           &ts,
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	o.adjustments = append([]entity.ManualAdjustment{entry}, o.adjustments...)
	if len(o.adjustments) > entity.MaxManualAdjustments {
		o.adjustments = o.adjustments[:entity.MaxManualAdjustments]
	}
}

// ── Internos ─────────────────────────────────────────────────────────────────

// mutate ejecuta una mutación y decodifica field en out (out puede ser nil).
func (o *Orchestrator) mutate(ctx context.Context, op ports.Operation, vars map[string]any, field string, out any) error {
	data, err := o.req.Request(ctx, op, vars)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return ports.DecodeField(data, field, out)
}

func (o *Orchestrator) notify(intent ports.Intent, msg string) {
	if o.notifier != nil && msg != "" {
		o.notifier.Notify(intent, msg)
	}
}

// fail notifica el error (msg si no está vacío) y lo devuelve. Lo que quedó de una sesión cerrada no se notifica.
func (o *Orchestrator) fail(err error, msg string) error {
	if errors.Is(err, domain.ErrSessionChanged) {
		o.log.Debug().Msg("operación de una sesión cerrada; se descarta")
		return err
	}
	if msg == "" {
		msg = userMessage(err)
	}
	o.log.Warn().Err(err).Msg("operación fallida")
	o.notify(ports.IntentError, msg)
	return err
}

func (o *Orchestrator) failSubmission(sub *ItemSubmission, err error, msg string) (*ItemSubmission, error) {
	if msg == "" {
		msg = userMessage(err)
	}
	sub.Error = msg
	sub.enter(StateFailed)
	return sub, o.fail(err, msg)
}

// refreshAfter recarga las colecciones afectadas y marca la sincronización.
// Los fallos de recarga ya fueron notificados por el store.
func (o *Orchestrator) refreshAfter(ctx context.Context, cols ...store.Collection) {
	if err := o.snap.Refresh(ctx, cols...); err != nil {
		o.log.Debug().Err(err).Msg("recarga incompleta tras la mutación")
	}
	o.snap.MarkSynced()
}

func userMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	if err == nil || err.Error() == "" {
		return domain.MsgOperationError
	}
	return err.Error()
}
