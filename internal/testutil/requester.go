package testutil

import (
	"context"
	"encoding/json"

	"github.com/jhoicas/inventario-silo/internal/application/ports"
	"github.com/jhoicas/inventario-silo/internal/domain"
)

// StaticRequester Requester con token fijo; sin token falla con domain.ErrSession.
type StaticRequester struct {
	Gateway ports.Gateway
	Token   string
}

// Request ejecuta op con el token fijo.
func (r StaticRequester) Request(ctx context.Context, op ports.Operation, vars map[string]any) (json.RawMessage, error) {
	if r.Token == "" {
		return nil, domain.ErrSession
	}
	return r.Gateway.Execute(ctx, op, vars, r.Token)
}
