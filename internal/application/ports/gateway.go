package ports

import (
	"context"
	"encoding/json"
	"fmt"
)

// Operation operación GraphQL con nombre (para logs y métricas) y documento.
type Operation struct {
	Name     string
	Document string
}

// Gateway puerto de salida hacia el backend GraphQL.
// Una llamada es un ciclo petición/respuesta: sin reintentos, sin caché; el único límite es ctx.
// token vacío = petición anónima.
type Gateway interface {
	Execute(ctx context.Context, op Operation, vars map[string]any, token string) (json.RawMessage, error)
}

// Requester ejecuta operaciones autenticadas con el token de la sesión activa.
// Falla con domain.ErrSession antes de cualquier I/O si no hay token.
type Requester interface {
	Request(ctx context.Context, op Operation, vars map[string]any) (json.RawMessage, error)
}

// DecodeField extrae y deserializa un campo de primer nivel de `data`.
// Un campo ausente o null deja out sin cambios.
func DecodeField(data json.RawMessage, field string, out any) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("decodificar respuesta: %w", err)
	}
	raw, ok := fields[field]
	if !ok || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decodificar %s: %w", field, err)
	}
	return nil
}
