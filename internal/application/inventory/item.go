package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// DuplicateTitle título del aviso de código repetido.
const DuplicateTitle = "Código duplicado detectado"

// SubmitItem ejecuta validar → código duplicado → diferencia de stock → persistir.
// Si hace falta una decisión del usuario devuelve el envío en awaiting-decision sin llamar al backend;
// se retoma con ResolveDuplicate o ResolveAdjustment.
func (o *Orchestrator) SubmitItem(ctx context.Context, draft ItemDraft, opts SubmitOptions) (*ItemSubmission, error) {
	sub := &ItemSubmission{Draft: draft, Options: opts, CreatedAt: o.now()}

	sub.enter(StateValidating)
	v := dominv.ValidateItem(draft.Form)
	sub.Validation = v
	if !v.IsValid {
		return o.failSubmission(sub, &domain.ValidationError{Message: MsgItemInvalid, Fields: v.Errors}, MsgItemInvalid)
	}

	sub.enter(StateDuplicateCheck)
	if !opts.SkipDuplicateCheck {
		if conflict, found := o.snap.FindCodeConflict(draft.Form.CodigoMaterial, draft.ID); found {
			sub.Duplicate = newDuplicatePrompt(draft.Form.CodigoMaterial, conflict)
			return o.suspend(sub), nil
		}
	}

	sub.enter(StateDeltaCheck)
	intent, err := o.stockDelta(draft, opts, v)
	if err != nil {
		return o.failSubmission(sub, err, MsgItemMissing)
	}
	if intent != nil {
		sub.Adjustment = intent
		return o.suspend(sub), nil
	}

	return o.persistItem(ctx, sub)
}

// ResolveDuplicate retoma un envío detenido por código repetido.
func (o *Orchestrator) ResolveDuplicate(ctx context.Context, id string, d DuplicateDecision) (*ItemSubmission, error) {
	pending, err := o.take(id, func(s *ItemSubmission) bool { return s.Duplicate != nil })
	if err != nil {
		return nil, err
	}
	if !d.SaveAnyway {
		pending.enter(StateCancelled)
		return pending, nil
	}
	opts := pending.Options
	opts.SkipDuplicateCheck = true
	return o.SubmitItem(ctx, pending.Draft, opts)
}

// ResolveAdjustment retoma un envío detenido por cambio de stock.
//
//   - without-record guarda la cantidad nueva y anota un ajuste manual local.
//   - register-movement guarda la cantidad original y registra la recepción o entrega por la diferencia.
//   - cancel abandona la edición.
//
// Si register-movement falla, el envío sigue pendiente para reintentar o cancelar.
func (o *Orchestrator) ResolveAdjustment(ctx context.Context, id string, d AdjustmentDecision) (*ItemSubmission, error) {
	pending, err := o.take(id, func(s *ItemSubmission) bool { return s.Adjustment != nil })
	if err != nil {
		return nil, err
	}

	switch d.Choice {
	case ChoiceCancel:
		pending.enter(StateCancelled)
		return pending, nil

	case ChoiceWithoutRecord:
		opts := pending.Options
		opts.Force = true
		opts.Movement = nil
		sub, err := o.SubmitItem(ctx, pending.Draft, opts)
		if err == nil && sub.State == StateDone {
			o.recordAdjustment(*pending.Adjustment)
		}
		return sub, err

	case ChoiceRegisterMovement:
		intent := *pending.Adjustment
		intent.Quick = sanitizeQuickForm(d.Quick, intent.Type)
		if _, err := intent.quantity(); err != nil {
			o.repark(pending, MsgMovementQuantity)
			return pending.clone(), o.fail(err, MsgMovementQuantity)
		}
		opts := pending.Options
		opts.Force = true
		opts.Movement = &intent
		sub, err := o.SubmitItem(ctx, pending.Draft, opts)
		if err != nil && !errors.Is(err, domain.ErrSessionChanged) {
			o.repark(pending, sub.Error)
		}
		return sub, err
	}

	o.repark(pending, pending.Error)
	return nil, fmt.Errorf("%w: decisión desconocida %q", domain.ErrInvalidInput, d.Choice)
}

// LaunchMovement registra la recepción o entrega de un ajuste de stock y recarga lo afectado.
func (o *Orchestrator) LaunchMovement(ctx context.Context, intent MovementIntent) error {
	if err := o.launchMovement(ctx, intent); err != nil {
		return o.fail(err, "")
	}
	return nil
}

func (o *Orchestrator) persistItem(ctx context.Context, sub *ItemSubmission) (*ItemSubmission, error) {
	sub.enter(StatePersisting)
	draft, form := sub.Draft, sub.Draft.Form
	code := entity.NormalizeCode(form.CodigoMaterial)

	qty := sub.Validation.Quantity
	if mv := sub.Options.Movement; mv != nil && mv.OverrideQuantity != nil && draft.Editing() {
		qty = *mv.OverrideQuantity
	}
	input := map[string]any{
		"categoriaId":         form.CategoriaID,
		"ubicacionId":         form.UbicacionID,
		"codigoMaterial":      code,
		"descripcionMaterial": strings.TrimSpace(form.DescripcionMaterial),
		"cantidadStock":       qty.InexactFloat64(),
		"unidadMedida":        dominv.EnsureUnit(form.UnidadMedida, ""),
	}

	op, field, msg := ports.OpCrearItem, "crearItem", MsgItemCreated
	if draft.Editing() {
		input["id"] = draft.ID
		op, field, msg = ports.OpActualizarItem, "actualizarItem", MsgItemUpdated
	}

	var saved entity.Item
	if err := o.mutate(ctx, op, map[string]any{"input": input}, field, &saved); err != nil {
		return o.failSubmission(sub, err, "")
	}
	if saved.ID == "" {
		saved.ID = draft.ID
	}
	sub.Item = &saved
	o.notify(ports.IntentSuccess, msg)
	o.log.Info().Str("item", saved.ID).Str("codigo", code).Bool("edicion", draft.Editing()).Msg("item guardado")

	o.refreshAfter(ctx, store.Items, store.Report)

	if mv := sub.Options.Movement; mv != nil {
		intent := *mv
		if intent.Item.ID == "" {
			intent.Item.ID = saved.ID
		}
		if err := o.launchMovement(ctx, intent); err != nil {
			return o.failSubmission(sub, err, "")
		}
	} else if err := o.snap.RefreshKardexFor(ctx, saved.ID, code); err != nil {
		o.log.Debug().Err(err).Msg("no se pudo recargar el kardex")
	}

	sub.enter(StateDone)
	return sub, nil
}

func (o *Orchestrator) launchMovement(ctx context.Context, intent MovementIntent) error {
	qty, err := intent.quantity()
	if err != nil {
		return err
	}
	base := map[string]any{
		"itemId":              intent.Item.ID,
		"codigoMaterial":      intent.Item.CodigoMaterial,
		"descripcionMaterial": intent.Item.DescripcionMaterial,
		"unidadMedida":        dominv.EnsureUnit(intent.Item.UnidadMedida, ""),
	}

	note, counterparty := DefaultMovementNote, DefaultCounterparty
	if q := intent.Quick; q != nil {
		if strings.TrimSpace(q.Observaciones) != "" {
			note = q.Observaciones
		}
		if strings.TrimSpace(q.Contraparte) != "" {
			counterparty = q.Contraparte
		}
	}
	base["observaciones"] = dominv.SanitizeOptionalText(note, dominv.MaxObservaciones, dominv.TextOptions{})

	var (
		op  ports.Operation
		col store.Collection
		msg string
	)
	switch intent.Type {
	case entity.MovementRecepcion:
		base["recibidoDe"] = dominv.SanitizePlainText(counterparty, dominv.MaxRecibidoDe, dominv.TextOptions{TitleCase: true})
		base["cantidadRecibida"] = qty.InexactFloat64()
		op, col, msg = ports.OpCrearRecepcion, store.Receipts, MsgAutoReceipt
	case entity.MovementEntrega:
		base["entregadoA"] = dominv.SanitizePlainText(counterparty, dominv.MaxEntregadoA, dominv.TextOptions{TitleCase: true})
		base["cantidadEntregada"] = qty.InexactFloat64()
		op, col, msg = ports.OpCrearEntrega, store.Deliveries, MsgAutoDelivery
	default:
		return fmt.Errorf("%w: tipo de movimiento %q", domain.ErrInvalidInput, intent.Type)
	}

	if err := o.mutate(ctx, op, map[string]any{"input": base}, "", nil); err != nil {
		return err
	}
	o.log.Info().Str("tipo", intent.Type).Str("item", intent.Item.ID).Str("cantidad", qty.String()).Msg("movimiento de ajuste registrado")

	if err := o.snap.Refresh(ctx, col, store.Items, store.Report); err != nil {
		o.log.Debug().Err(err).Msg("recarga incompleta tras el movimiento")
	}
	o.notify(ports.IntentSuccess, msg)
	if err := o.snap.RefreshKardexFor(ctx, intent.Item.ID, intent.Item.CodigoMaterial); err != nil {
		o.log.Debug().Err(err).Msg("no se pudo recargar el kardex")
	}
	o.snap.MarkSynced()
	return nil
}

// stockDelta arma el aviso de ajuste cuando una edición cambia el stock en al menos 0.01.
// Sin OriginalStock la base es el stock del item en la instantánea.
func (o *Orchestrator) stockDelta(draft ItemDraft, opts SubmitOptions, v dominv.Validation) (*MovementIntent, error) {
	if !draft.Editing() || opts.Force {
		return nil, nil
	}
	var original decimal.Decimal
	if draft.OriginalStock != nil {
		original = *draft.OriginalStock
	} else {
		stored, ok := o.snap.ItemByID(draft.ID)
		if !ok {
			return nil, &domain.ValidationError{Message: MsgItemMissing, Fields: map[string]string{"id": MsgItemMissing}}
		}
		original = stored.CantidadStock
	}
	delta := v.Quantity.Sub(original).Round(2)
	if delta.Abs().LessThan(dominv.MinDelta) {
		return nil, nil
	}
	kind := entity.MovementRecepcion
	if delta.IsNegative() {
		kind = entity.MovementEntrega
	}
	return &MovementIntent{
		Type:   kind,
		Amount: delta.Abs(),
		Item: ItemSnapshot{
			ID:                  draft.ID,
			CodigoMaterial:      draft.Form.CodigoMaterial,
			DescripcionMaterial: draft.Form.DescripcionMaterial,
			UnidadMedida:        draft.Form.UnidadMedida,
		},
		OverrideQuantity: &original,
		TargetQuantity:   v.Quantity,
	}, nil
}

// quantity cantidad del movimiento: la del formulario corto o, si está vacía, la diferencia.
func (m MovementIntent) quantity() (decimal.Decimal, error) {
	qty := m.Amount.Round(2)
	if m.Quick != nil && strings.TrimSpace(m.Quick.Cantidad) != "" {
		parsed := dominv.ParseDecimal(m.Quick.Cantidad)
		if parsed == nil {
			return decimal.Zero, &domain.ValidationError{Message: MsgMovementQuantity, Fields: map[string]string{"cantidad": MsgMovementQuantity}}
		}
		qty = *parsed
	}
	if !qty.IsPositive() {
		return decimal.Zero, &domain.ValidationError{Message: MsgMovementQuantity, Fields: map[string]string{"cantidad": MsgMovementQuantity}}
	}
	return qty, nil
}

func sanitizeQuickForm(q *QuickMovementForm, kind string) *QuickMovementForm {
	if q == nil {
		return nil
	}
	limit := dominv.MaxRecibidoDe
	if kind == entity.MovementEntrega {
		limit = dominv.MaxEntregadoA
	}
	return &QuickMovementForm{
		Cantidad:      dominv.SanitizeDecimal(q.Cantidad, dominv.MovementLimits),
		Contraparte:   dominv.SanitizePlainText(q.Contraparte, limit, dominv.TextOptions{TitleCase: true}),
		Observaciones: dominv.SanitizeOptionalText(q.Observaciones, dominv.MaxObservaciones, dominv.TextOptions{}),
	}
}

func newDuplicatePrompt(code string, conflict entity.Item) *DuplicatePrompt {
	name := conflict.DisplayName()
	if name == "" {
		name = "otro item del inventario"
	}
	details := fmt.Sprintf(`Coincide con "%s".`, name)
	if loc := strings.TrimSpace(conflict.Localizacion); loc != "" {
		details = fmt.Sprintf(`Coincide con "%s" en %s.`, name, loc)
	}
	return &DuplicatePrompt{Title: DuplicateTitle, Code: code, Details: details, Conflict: conflict}
}
