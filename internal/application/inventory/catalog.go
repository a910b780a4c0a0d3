package inventory

import (
	"context"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
	dominv "github.com/jhoicas/inventario-silo/internal/domain/inventory"
)

type namedKind struct {
	validate       func(dominv.NameForm) dominv.Validation
	invalid        string
	created        string
	updated        string
	create, update ports.Operation
	createField    string
	updateField    string
	collection     store.Collection
}

var (
	categoryKind = namedKind{
		validate:    dominv.ValidateCategory,
		invalid:     MsgCategoryInvalid,
		created:     MsgCategoryCreated,
		updated:     MsgCategoryUpdated,
		create:      ports.OpCrearCategoria,
		update:      ports.OpActualizarCategoria,
		createField: "crearCategoria",
		updateField: "actualizarCategoria",
		collection:  store.Categories,
	}
	locationKind = namedKind{
		validate:    dominv.ValidateLocation,
		invalid:     MsgLocationInvalid,
		created:     MsgLocationCreated,
		updated:     MsgLocationUpdated,
		create:      ports.OpCrearUbicacion,
		update:      ports.OpActualizarUbicacion,
		createField: "crearUbicacion",
		updateField: "actualizarUbicacion",
		collection:  store.Locations,
	}
)

// SubmitCategory crea o actualiza una categoría. La descripción siempre se envía vacía.
func (o *Orchestrator) SubmitCategory(ctx context.Context, d NameDraft) (*entity.Category, error) {
	return submitNamed[entity.Category](ctx, o, d, categoryKind)
}

// SubmitLocation crea o actualiza una ubicación.
func (o *Orchestrator) SubmitLocation(ctx context.Context, d NameDraft) (*entity.Location, error) {
	return submitNamed[entity.Location](ctx, o, d, locationKind)
}

func submitNamed[T any](ctx context.Context, o *Orchestrator, d NameDraft, k namedKind) (*T, error) {
	v := k.validate(d.Form)
	if !v.IsValid {
		return nil, o.fail(&domain.ValidationError{Message: k.invalid, Fields: v.Errors}, k.invalid)
	}

	input := map[string]any{"nombre": d.Form.Nombre, "descripcion": ""}
	op, field, msg := k.create, k.createField, k.created
	if d.ID != "" {
		input["id"] = d.ID
		op, field, msg = k.update, k.updateField, k.updated
	}

	var saved T
	if err := o.mutate(ctx, op, map[string]any{"input": input}, field, &saved); err != nil {
		return nil, o.fail(err, "")
	}
	o.notify(ports.IntentSuccess, msg)
	o.refreshAfter(ctx, k.collection, store.Items, store.Report)
	return &saved, nil
}
