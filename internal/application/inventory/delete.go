package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain"
)

// Resource tipo de entidad eliminable.
type Resource string

const (
	ResourceItem      Resource = "item"
	ResourceCategoria Resource = "categoria"
	ResourceUbicacion Resource = "ubicacion"
	ResourceRecepcion Resource = "recepcion"
	ResourceEntrega   Resource = "entrega"
)

// ConfirmTitle título del diálogo de eliminación.
const ConfirmTitle = "Confirmar eliminación"

// ErrConfirmationMismatch el texto escrito no coincide con el código del item.
var ErrConfirmationMismatch = errors.New("el código escrito no coincide")

type deleteRule struct {
	label   string
	op      ports.Operation
	done    string
	refresh []store.Collection
}

var deleteRules = map[Resource]deleteRule{
	ResourceItem: {
		label:   "item del inventario",
		op:      ports.OpEliminarItem,
		done:    "Item eliminado",
		refresh: []store.Collection{store.Items, store.Receipts, store.Deliveries, store.Report},
	},
	ResourceCategoria: {
		label:   "categoría",
		op:      ports.OpEliminarCategoria,
		done:    "Categoría eliminada",
		refresh: []store.Collection{store.Categories, store.Items, store.Report},
	},
	ResourceUbicacion: {
		label:   "ubicación",
		op:      ports.OpEliminarUbicacion,
		done:    "Ubicación eliminada",
		refresh: []store.Collection{store.Locations, store.Items, store.Report},
	},
	ResourceRecepcion: {
		label:   "recepción",
		op:      ports.OpEliminarRecepcion,
		done:    "Recepción eliminada",
		refresh: []store.Collection{store.Receipts, store.Items, store.Report},
	},
	ResourceEntrega: {
		label:   "entrega",
		op:      ports.OpEliminarEntrega,
		done:    "Entrega eliminada",
		refresh: []store.Collection{store.Deliveries, store.Items, store.Report},
	},
}

// DeleteConfirmation contenido del diálogo de confirmación.
// Con RequireMatch el usuario debe escribir MatchValue (sin distinguir mayúsculas).
type DeleteConfirmation struct {
	Resource     Resource `json:"resource"`
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Message      string   `json:"message"`
	Details      string   `json:"details"`
	RequireMatch bool     `json:"requireMatch"`
	MatchValue   string   `json:"matchValue,omitempty"`
	MatchLabel   string   `json:"matchLabel,omitempty"`
	ConfirmHint  string   `json:"confirmHint,omitempty"`
}

// Matches indica si typed habilita la eliminación.
func (c DeleteConfirmation) Matches(typed string) bool {
	if !c.RequireMatch {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(typed), strings.TrimSpace(c.MatchValue))
}

// RequestDelete arma el diálogo de eliminación. Para items exige reescribir el código.
func (o *Orchestrator) RequestDelete(resource Resource, id string) (DeleteConfirmation, error) {
	rule, ok := deleteRules[resource]
	if !ok {
		return DeleteConfirmation{}, fmt.Errorf("%w: recurso %q", domain.ErrInvalidInput, resource)
	}
	if id == "" {
		return DeleteConfirmation{}, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	c := DeleteConfirmation{
		Resource: resource,
		ID:       id,
		Title:    ConfirmTitle,
		Message:  fmt.Sprintf("¿Estás seguro de que deseas eliminar este %s?", rule.label),
		Details:  "Esta acción no se puede deshacer y ajustará el stock automáticamente.",
	}
	if resource != ResourceItem {
		return c, nil
	}

	item, ok := o.snap.ItemByID(id)
	if !ok {
		return DeleteConfirmation{}, domain.ErrNotFound
	}
	code := strings.TrimSpace(item.CodigoMaterial)
	name := item.DisplayName()
	if name == "" {
		name = "este item"
	}
	c.Message = "Eliminar " + name
	if code != "" {
		c.Message += " (" + code + ")"
	}
	c.Details = "Se eliminará este item y todo resquicio asociado: recepciones, entregas, movimientos del kardex y resúmenes del reporte. Si deseas conservar el historial, edita su stock a 0 en lugar de eliminarlo."
	c.RequireMatch = code != ""
	c.MatchValue = code
	c.MatchLabel = "Escribe el código del item para confirmar"
	if code != "" {
		c.MatchLabel = fmt.Sprintf("Escribe %q para confirmar", code)
	}
	c.ConfirmHint = "Por seguridad, escribe el código exactamente como aparece para habilitar la eliminación definitiva."
	return c, nil
}

// ConfirmDelete elimina tras verificar el texto de confirmación y recarga las colecciones dependientes.
// El diálogo se vuelve a armar a partir del estado actual; no se confía en el que trae el llamador.
func (o *Orchestrator) ConfirmDelete(ctx context.Context, resource Resource, id, typed string) error {
	c, err := o.RequestDelete(resource, id)
	if err != nil {
		return err
	}
	if !c.Matches(typed) {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, ErrConfirmationMismatch)
	}

	rule := deleteRules[resource]
	if err := o.mutate(ctx, rule.op, map[string]any{"id": id}, "", nil); err != nil {
		return o.fail(err, "")
	}
	o.notify(ports.IntentSuccess, rule.done)
	o.log.Info().Str("recurso", string(resource)).Str("id", id).Msg("registro eliminado")
	o.refreshAfter(ctx, rule.refresh...)
	return nil
}
