package inventory

import (
	"context"

	"github.com/jhoicas/inventario-silo/internal/application/store"
	"github.com/jhoicas/inventario-silo/internal/domain/entity"
)

// Snapshot lo que el orquestador necesita del store: lecturas del índice y recargas dependientes.
// *store.Store lo implementa.
type Snapshot interface {
	ItemsByID() map[string]entity.Item
	ItemByID(id string) (entity.Item, bool)
	FindCodeConflict(code, exceptID string) (entity.Item, bool)
	Refresh(ctx context.Context, cols ...store.Collection) error
	RefreshKardexFor(ctx context.Context, itemID, code string) error
	MarkSynced()
}

var _ Snapshot = (*store.Store)(nil)
