package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrSession           = errors.New("Sesión no válida. Vuelve a iniciar sesión.")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInvalidRange      = errors.New("rango de fechas inválido")
	ErrNoData            = errors.New("No hay datos para exportar")
	ErrDuplicate         = errors.New("código de material duplicado")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrNoToken           = errors.New("No se pudo obtener el token de acceso")

	// ErrSessionChanged la sesión se cerró o cambió mientras la operación estaba en curso; no se notifica.
	ErrSessionChanged = errors.New("la sesión cambió durante la operación")
)

// Mensajes genéricos del gateway cuando el backend no envía uno propio.
const (
	MsgNetworkError   = "Error de red"
	MsgOperationError = "Error en la operación"
)

// ValidationError errores por campo producidos antes de cualquier llamada de red.
type ValidationError struct {
	Message string
	Fields  map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%s (%s)", e.Message, strings.Join(keys, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// TransportError respuesta HTTP no 2xx o fallo de red.
type TransportError struct {
	Status  int // 0 si la petición no llegó al servidor
	Message string
	Err     error
}

func (e *TransportError) Error() string { return e.Message }

func (e *TransportError) Unwrap() error { return e.Err }

// APIError respuesta 2xx con arreglo `errors` de GraphQL.
type APIError struct {
	Message string
}

func (e *APIError) Error() string { return e.Message }

// ConflictKind tipo de conflicto detectado contra la instantánea local.
type ConflictKind string

const (
	ConflictDuplicateCode     ConflictKind = "codigo-duplicado"
	ConflictInsufficientStock ConflictKind = "stock-insuficiente"
)

// ConflictError conflicto de dominio recuperable (se presenta como diálogo, no como fallo terminal).
type ConflictError struct {
	Kind    ConflictKind
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error {
	switch e.Kind {
	case ConflictDuplicateCode:
		return ErrDuplicate
	case ConflictInsufficientStock:
		return ErrInsufficientStock
	default:
		return ErrConflict
	}
}
