package inventory

import (
	"context"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

// SubmitReceipt crea o actualiza una recepción y recarga recepciones, items y reporte.
func (o *Orchestrator) SubmitReceipt(ctx context.Context, d ReceiptDraft) (*entity.Receipt, error) {
	byID := o.snap.ItemsByID()
	v := dominv.ValidateReceipt(d.Form, byID)
	if !v.IsValid {
		return nil, o.fail(&domain.ValidationError{Message: MsgReceiptInvalid, Fields: v.Errors}, MsgReceiptInvalid)
	}

	f := d.Form
	snap := movementSnapshot(byID[f.ItemID], f.CodigoMaterial, f.DescripcionMaterial, f.UnidadMedida)
	input := map[string]any{
		"itemId":              f.ItemID,
		"recibidoDe":          f.RecibidoDe,
		"codigoMaterial":      snap.CodigoMaterial,
		"descripcionMaterial": snap.DescripcionMaterial,
		"cantidadRecibida":    v.Quantity.InexactFloat64(),
		"unidadMedida":        snap.UnidadMedida,
		"observaciones":       f.Observaciones,
	}
	op, field, msg := ports.OpCrearRecepcion, "crearRecepcion", MsgReceiptCreated
	if d.ID != "" {
		input["id"] = d.ID
		op, field, msg = ports.OpActualizarRecepcion, "actualizarRecepcion", MsgReceiptUpdated
	}

	var saved entity.Receipt
	if err := o.mutate(ctx, op, map[string]any{"input": input}, field, &saved); err != nil {
		return nil, o.fail(err, "")
	}
	o.notify(ports.IntentSuccess, msg)
	o.refreshAfter(ctx, store.Receipts, store.Items, store.Report)
	return &saved, nil
}

// SubmitDelivery crea o actualiza una entrega. Una cantidad mayor al stock disponible
// falla con un *domain.ConflictError de stock insuficiente antes de llamar al backend.
func (o *Orchestrator) SubmitDelivery(ctx context.Context, d DeliveryDraft) (*entity.Delivery, error) {
	byID := o.snap.ItemsByID()
	v := dominv.ValidateDelivery(d.Form, byID)
	if !v.IsValid {
		var err error = &domain.ValidationError{Message: MsgDeliveryInvalid, Fields: v.Errors}
		if v.IsInsufficientStock() && len(v.Errors) == 1 {
			err = &domain.ConflictError{Kind: domain.ConflictInsufficientStock, Message: v.Errors["cantidadEntregada"]}
		}
		return nil, o.fail(err, MsgDeliveryInvalid)
	}

	f := d.Form
	snap := movementSnapshot(byID[f.ItemID], f.CodigoMaterial, f.DescripcionMaterial, f.UnidadMedida)
	input := map[string]any{
		"itemId":              f.ItemID,
		"entregadoA":          f.EntregadoA,
		"codigoMaterial":      snap.CodigoMaterial,
		"descripcionMaterial": snap.DescripcionMaterial,
		"cantidadEntregada":   v.Quantity.InexactFloat64(),
		"unidadMedida":        snap.UnidadMedida,
		"observaciones":       f.Observaciones,
	}
	op, field, msg := ports.OpCrearEntrega, "crearEntrega", MsgDeliveryCreated
	if d.ID != "" {
		input["id"] = d.ID
		op, field, msg = ports.OpActualizarEntrega, "actualizarEntrega", MsgDeliveryUpdated
	}

	var saved entity.Delivery
	if err := o.mutate(ctx, op, map[string]any{"input": input}, field, &saved); err != nil {
		return nil, o.fail(err, "")
	}
	o.notify(ports.IntentSuccess, msg)
	o.refreshAfter(ctx, store.Deliveries, store.Items, store.Report)
	return &saved, nil
}

// movementSnapshot completa desde el item los datos desnormalizados que el formulario no trajo.
func movementSnapshot(item entity.Item, code, desc, unit string) ItemSnapshot {
	if code == "" {
		code = item.CodigoMaterial
	}
	if desc == "" {
		desc = item.DescripcionMaterial
	}
	return ItemSnapshot{
		ID:                  item.ID,
		CodigoMaterial:      code,
		DescripcionMaterial: desc,
		UnidadMedida:        dominv.EnsureUnit(unit, dominv.EnsureUnit(item.UnidadMedida, "")),
	}
}
