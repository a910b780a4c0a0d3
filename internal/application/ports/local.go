package ports

import "context"

// TokenStore almacenamiento local persistente del único valor que sobrevive entre ejecuciones:
// el token de acceso. Load devuelve "" sin error si no hay token guardado.
type TokenStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string) error
	Clear(ctx context.Context) error
}

// Intent tipo de notificación visible para el usuario.
type Intent string

const (
	IntentSuccess Intent = "success"
	IntentError   Intent = "error"
	IntentInfo    Intent = "info"
)

// Notifier superficie de notificaciones no fatales (toasts y diálogo de error).
type Notifier interface {
	Notify(intent Intent, message string)
}
